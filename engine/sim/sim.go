// Package sim provides a reference in-memory implementation of the engine
// contract. It echoes the control parameter block, applies the master
// level and balance with ramp smoothing, and optionally runs a spectrum
// analyzer over the processed output.
//
// It deliberately implements no equalization curves: band definitions are
// stored and returned unchanged, standing in for the closed processing
// core during tests and demos.
package sim

import (
	"fmt"
	"sync"

	"github.com/cwbudde/algo-vecmath"

	"github.com/cwbudde/algo-fxbundle/engine"
	"github.com/cwbudde/algo-fxbundle/gainmath"
)

// volumeRampFrames is the smoothing length for volume and balance
// changes applied through SetControlParams.
const volumeRampFrames = 256

// Factory allocates a sim engine behind the engine.Factory signature.
var Factory engine.Factory = func(inst engine.InstanceParams) (engine.Engine, error) {
	return New(inst)
}

// Engine is a simulated processing core instance.
type Engine struct {
	mu sync.Mutex

	inst     engine.InstanceParams
	params   engine.ControlParams
	headroom engine.HeadroomParams
	closed   bool

	// Per-channel gains, ramped toward their targets.
	leftGain, rightGain             float64
	targetLeftGain, targetRightGain float64
	rampRemaining                   int

	analyzer *analyzer

	processCalls     int
	noSmoothingCalls int
}

// New allocates a sim engine instance.
func New(inst engine.InstanceParams) (*Engine, error) {
	if inst.MaxBlockSize <= 0 {
		return nil, fmt.Errorf("sim: max block size must be positive: %d", inst.MaxBlockSize)
	}

	if inst.BandCount <= 0 || inst.BandCount > engine.MaxBands {
		return nil, fmt.Errorf("sim: band count %d out of range (1..%d)", inst.BandCount, engine.MaxBands)
	}

	e := &Engine{
		inst:      inst,
		leftGain:  1,
		rightGain: 1,

		targetLeftGain:  1,
		targetRightGain: 1,
	}

	if inst.SpectrumAnalysis {
		a, err := newAnalyzer()
		if err != nil {
			return nil, err
		}

		e.analyzer = a
	}

	return e, nil
}

// ControlParams returns a copy of the current parameter block.
func (e *Engine) ControlParams() (engine.ControlParams, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.closed {
		return engine.ControlParams{}, engine.ErrClosed
	}

	return e.params, nil
}

// SetControlParams replaces the parameter block and retargets the volume
// path with ramp smoothing.
func (e *Engine) SetControlParams(p engine.ControlParams) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.closed {
		return engine.ErrClosed
	}

	if p.SampleRate <= 0 {
		return fmt.Errorf("sim: sample rate must be positive: %d", p.SampleRate)
	}

	if p.Channels != 1 && p.Channels != 2 {
		return fmt.Errorf("sim: unsupported channel count: %d", p.Channels)
	}

	e.params = p
	e.retargetGains()

	if e.targetLeftGain != e.leftGain || e.targetRightGain != e.rightGain {
		e.rampRemaining = volumeRampFrames
	}

	return nil
}

// SetHeadroomParams replaces the headroom configuration.
func (e *Engine) SetHeadroomParams(h engine.HeadroomParams) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.closed {
		return engine.ErrClosed
	}

	for _, b := range h.Bands {
		if b.LowHz > b.HighHz {
			return fmt.Errorf("sim: headroom band limits inverted: %d..%d", b.LowHz, b.HighHz)
		}
	}

	e.headroom = h

	return nil
}

// SetVolumeNoSmoothing applies the block's volume fields immediately,
// without ramping.
func (e *Engine) SetVolumeNoSmoothing(p engine.ControlParams) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.closed {
		return engine.ErrClosed
	}

	e.params.VolumeLevelDB = p.VolumeLevelDB
	e.params.BalanceDB = p.BalanceDB
	e.retargetGains()

	e.leftGain = e.targetLeftGain
	e.rightGain = e.targetRightGain
	e.rampRemaining = 0
	e.noSmoothingCalls++

	return nil
}

// Process renders frames from in to out, applying the master level and
// balance.
func (e *Engine) Process(in, out []float64, frames int) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.closed {
		return engine.ErrClosed
	}

	if frames <= 0 || frames > e.inst.MaxBlockSize {
		return fmt.Errorf("sim: frame count %d out of range (1..%d)", frames, e.inst.MaxBlockSize)
	}

	channels := e.params.Channels
	if channels == 0 {
		channels = 1
	}

	n := frames * channels
	if len(in) < n || len(out) < n {
		return fmt.Errorf("sim: buffers cover %d/%d samples, need %d", len(in), len(out), n)
	}

	e.processCalls++

	if e.rampRemaining == 0 && e.leftGain == e.rightGain {
		vecmath.ScaleBlock(out[:n], in[:n], e.leftGain)
	} else {
		e.processRamped(in, out, frames, channels)
	}

	if e.analyzer != nil && e.params.AnalyzerMode == engine.ModeOn {
		e.analyzer.pushFrames(out[:n], channels)
	}

	return nil
}

func (e *Engine) processRamped(in, out []float64, frames, channels int) {
	for f := range frames {
		if e.rampRemaining > 0 {
			step := 1 / float64(e.rampRemaining)
			e.leftGain += (e.targetLeftGain - e.leftGain) * step
			e.rightGain += (e.targetRightGain - e.rightGain) * step
			e.rampRemaining--

			if e.rampRemaining == 0 {
				e.leftGain = e.targetLeftGain
				e.rightGain = e.targetRightGain
			}
		}

		base := f * channels
		out[base] = in[base] * e.leftGain

		if channels == 2 {
			out[base+1] = in[base+1] * e.rightGain
		}
	}
}

// Close releases the instance. It is idempotent.
func (e *Engine) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.closed = true

	return nil
}

// SpectrumDB returns the analyzer's current magnitude spectrum in dBFS,
// one value per bin up to Nyquist, or nil when analysis is disabled or no
// frame has completed yet.
func (e *Engine) SpectrumDB() []float64 {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.analyzer == nil {
		return nil
	}

	return e.analyzer.spectrumDB()
}

// ProcessCalls returns how many Process invocations reached the engine.
func (e *Engine) ProcessCalls() int {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.processCalls
}

// NoSmoothingCalls returns how many unsmoothed volume applications were
// requested.
func (e *Engine) NoSmoothingCalls() int {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.noSmoothingCalls
}

// Closed reports whether the instance has been released.
func (e *Engine) Closed() bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.closed
}

func (e *Engine) retargetGains() {
	base := float64(e.params.VolumeLevelDB)

	leftDB := base
	rightDB := base

	if e.params.BalanceDB > 0 {
		leftDB -= float64(e.params.BalanceDB)
	} else {
		rightDB += float64(e.params.BalanceDB)
	}

	e.targetLeftGain = gainmath.DBToLinear(leftDB)
	e.targetRightGain = gainmath.DBToLinear(rightDB)
}
