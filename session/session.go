package session

import (
	"fmt"
	"sync"

	"github.com/cwbudde/algo-fxbundle/engine"
	"github.com/cwbudde/algo-fxbundle/preset"
)

// maxEngineBlockFrames is the largest frame count a single engine process
// call may carry.
const maxEngineBlockFrames = 4096

// Stats carries the session's diagnostic counters. Non-fatal
// inconsistencies in the host's call pattern are counted here rather than
// treated as errors.
type Stats struct {
	// OverCalledCycles counts cycles where more slots were processed
	// than were enabled, indicating an inconsistent host call sequence.
	OverCalledCycles uint64

	// DrainRepairs counts draining slots that were force-completed
	// because a cycle wrapped without them being called.
	DrainRepairs uint64

	// ProcessedBuffers counts buffers rendered by the engine.
	ProcessedBuffers uint64

	// PassThroughBuffers counts buffers copied through unprocessed.
	PassThroughBuffers uint64
}

// Session binds the cooperating effect slots to one engine instance and
// owns the mirrored parameter state.
type Session struct {
	mu  sync.Mutex
	cfg Config
	eng engine.Engine

	slots        [numEffectTypes]slot
	enabledCount int
	calledCount  int

	bandGains [engine.MaxBands]int
	presetIdx int

	volumeLeft  uint32
	volumeRight uint32
	volumeMaxDB int

	savedLevelDB int
	firstVolume  bool

	work  []float64
	stats Stats
}

// New creates a session backed by a fresh engine instance from factory.
// Band gains start at the normal preset; the engine receives the default
// control and headroom parameter blocks before the session is returned.
func New(factory engine.Factory, opts ...Option) (*Session, error) {
	if factory == nil {
		return nil, fmt.Errorf("%w: nil engine factory", ErrIllegalParameter)
	}

	cfg := ApplyOptions(opts...)

	eng, err := factory(engine.InstanceParams{
		MaxBlockSize:     maxEngineBlockFrames,
		BandCount:        engine.MaxBands,
		SpectrumAnalysis: true,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: create instance: %v", ErrEngine, err)
	}

	s := &Session{
		cfg:          cfg,
		eng:          eng,
		presetIdx:    0,
		savedLevelDB: cfg.MasterLevelDB,
		firstVolume:  true,
	}

	gains := preset.Gains(0)
	copy(s.bandGains[:], gains[:])

	if err := eng.SetControlParams(engine.DefaultControlParams(cfg.SampleRate, cfg.Channels)); err != nil {
		_ = eng.Close()
		return nil, fmt.Errorf("%w: set control params: %v", ErrEngine, err)
	}

	if err := eng.SetHeadroomParams(engine.DefaultHeadroomParams()); err != nil {
		_ = eng.Close()
		return nil, fmt.Errorf("%w: set headroom params: %v", ErrEngine, err)
	}

	return s, nil
}

// Close releases the engine instance. It is idempotent; operations on a
// closed session fail with ErrIllegalState.
func (s *Session) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.eng == nil {
		return nil
	}

	err := s.eng.Close()
	s.eng = nil

	if err != nil {
		return fmt.Errorf("%w: close instance: %v", ErrEngine, err)
	}

	return nil
}

// Stats returns a snapshot of the diagnostic counters.
func (s *Session) Stats() Stats {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.stats
}

// EnabledCount returns the number of slots currently counted as enabled,
// including slots still draining.
func (s *Session) EnabledCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.enabledCount
}

// Config returns the session configuration.
func (s *Session) Config() Config {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.cfg
}

func (s *Session) drainBudgetSamples() int {
	perChannel := float64(s.cfg.SampleRate) * s.cfg.DrainBudget.Seconds()

	return int(perChannel) * s.cfg.Channels
}
