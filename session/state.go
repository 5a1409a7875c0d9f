package session

import (
	"fmt"

	"github.com/cwbudde/algo-vecmath"

	"github.com/cwbudde/algo-fxbundle/engine"
)

// EffectType identifies one of the cooperating effect slots sharing the
// session's engine instance.
type EffectType int

const (
	Equalizer EffectType = iota
	BassBoost
	Virtualizer
	Volume

	numEffectTypes
)

// String returns the slot name.
func (t EffectType) String() string {
	switch t {
	case Equalizer:
		return "equalizer"
	case BassBoost:
		return "bass boost"
	case Virtualizer:
		return "virtualizer"
	case Volume:
		return "volume"
	default:
		return fmt.Sprintf("effect(%d)", int(t))
	}
}

func (t EffectType) valid() bool {
	return t >= 0 && t < numEffectTypes
}

// SlotState is the lifecycle state of one effect slot.
type SlotState int

const (
	// SlotIdle: disabled, no drain pending.
	SlotIdle SlotState = iota
	// SlotEnabled: processing.
	SlotEnabled
	// SlotDraining: disabled, still flushing up to the drain budget.
	SlotDraining
)

// String returns the state name.
func (st SlotState) String() string {
	switch st {
	case SlotIdle:
		return "idle"
	case SlotEnabled:
		return "enabled"
	case SlotDraining:
		return "draining"
	default:
		return fmt.Sprintf("state(%d)", int(st))
	}
}

type slot struct {
	state              SlotState
	drainRemaining     int
	processedThisCycle bool
}

// SlotState returns the lifecycle state of the given slot.
func (s *Session) SlotState(t EffectType) SlotState {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !t.valid() {
		return SlotIdle
	}

	return s.slots[t].state
}

// Enable activates the slot. Enabling an already enabled slot fails with
// ErrIllegalState. A slot re-enabled mid-drain resumes without bumping
// the enabled count, since its drain never completed.
func (s *Session) Enable(t EffectType) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !t.valid() {
		return fmt.Errorf("%w: effect type %d", ErrIllegalParameter, int(t))
	}

	if s.eng == nil {
		return fmt.Errorf("%w: session closed", ErrIllegalState)
	}

	sl := &s.slots[t]
	if sl.state == SlotEnabled {
		return fmt.Errorf("%w: %s already enabled", ErrIllegalState, t)
	}

	if sl.state != SlotDraining {
		s.enabledCount++
	}

	sl.drainRemaining = s.drainBudgetSamples()
	sl.state = SlotEnabled

	if err := s.setOperatingModeLocked(t, engine.ModeOn); err != nil {
		return err
	}

	return s.limitLevelLocked()
}

// Disable deactivates the slot and starts its drain tail. Disabling a
// slot that is not enabled fails with ErrIllegalState.
func (s *Session) Disable(t EffectType) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !t.valid() {
		return fmt.Errorf("%w: effect type %d", ErrIllegalParameter, int(t))
	}

	if s.eng == nil {
		return fmt.Errorf("%w: session closed", ErrIllegalState)
	}

	sl := &s.slots[t]
	if sl.state != SlotEnabled {
		return fmt.Errorf("%w: %s not enabled", ErrIllegalState, t)
	}

	sl.state = SlotDraining

	if err := s.setOperatingModeLocked(t, engine.ModeOff); err != nil {
		return err
	}

	// Dropping one slot changes the aggregate energy estimate, so the
	// master level may need to come back up.
	return s.limitLevelLocked()
}

// Process runs one buffer through the slot's bookkeeping and, once per
// cycle, through the engine. It returns the number of samples consumed
// and produced, which equals len(in) on success.
//
// Buffers hold channel-interleaved samples. While the slot is draining,
// real processing continues until the drain budget is exhausted; after
// that the buffer is passed through unchanged.
func (s *Session) Process(t EffectType, in, out []float64) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !t.valid() {
		return 0, fmt.Errorf("%w: effect type %d", ErrIllegalParameter, int(t))
	}

	if in == nil || out == nil {
		return 0, fmt.Errorf("%w: process buffers", ErrNilBuffer)
	}

	if s.eng == nil {
		return 0, fmt.Errorf("%w: session closed", ErrIllegalState)
	}

	if len(in) != len(out) {
		return 0, fmt.Errorf("%w: frame count mismatch %d != %d", ErrIllegalState, len(in), len(out))
	}

	if len(in) == 0 || len(in)%s.cfg.Channels != 0 {
		return 0, fmt.Errorf("%w: bad buffer size %d for %d channels", ErrIllegalState, len(in), s.cfg.Channels)
	}

	samples := len(in)

	sl := &s.slots[t]
	if sl.processedThisCycle {
		// The cycle wrapped without a reset: any slot that is draining
		// but was never called this cycle will not finish its drain on
		// its own. Force-complete those drains to keep the enabled
		// count consistent.
		for u := range s.slots {
			su := &s.slots[u]
			if su.state == SlotDraining && !su.processedThisCycle {
				su.drainRemaining = 0
				su.state = SlotIdle
				s.enabledCount--
				s.stats.DrainRepairs++
			}
		}
	}

	sl.processedThisCycle = true

	dataAvailable := true

	if sl.state != SlotEnabled {
		if sl.drainRemaining > 0 {
			sl.drainRemaining -= samples
		}

		if sl.drainRemaining <= 0 {
			dataAvailable = false

			if sl.state == SlotDraining {
				// Last buffer of the drain tail.
				s.enabledCount--
				sl.state = SlotIdle
			}
		}
	}

	if dataAvailable {
		s.calledCount++
	}

	if s.calledCount >= s.enabledCount {
		// End of a full round across all cooperating slots.
		if s.calledCount > s.enabledCount {
			s.stats.OverCalledCycles++
		}

		s.calledCount = 0
		for u := range s.slots {
			s.slots[u].processedThisCycle = false
		}

		if dataAvailable {
			if err := s.processEngineLocked(in, out); err != nil {
				return 0, err
			}

			s.stats.ProcessedBuffers++

			return samples, nil
		}
	}

	s.passThroughLocked(in, out)
	s.stats.PassThroughBuffers++

	return samples, nil
}

func (s *Session) processEngineLocked(in, out []float64) error {
	dst := out
	if s.cfg.Accumulate {
		if cap(s.work) < len(out) {
			s.work = make([]float64, len(out))
		}

		dst = s.work[:len(out)]
	}

	frames := len(in) / s.cfg.Channels
	if err := s.eng.Process(in, dst, frames); err != nil {
		return fmt.Errorf("%w: engine process: %v", ErrUnsupported, err)
	}

	if s.cfg.Accumulate {
		vecmath.AddBlockInPlace(out, dst)
	}

	return nil
}

func (s *Session) passThroughLocked(in, out []float64) {
	if s.cfg.Accumulate {
		vecmath.AddBlockInPlace(out, in)
		return
	}

	copy(out, in)
}

func (s *Session) setOperatingModeLocked(t EffectType, mode engine.Mode) error {
	params, err := s.eng.ControlParams()
	if err != nil {
		return fmt.Errorf("%w: get control params: %v", ErrEngine, err)
	}

	switch t {
	case Equalizer:
		params.EqualizerMode = mode
	case BassBoost:
		params.BassMode = mode
	case Virtualizer:
		params.VirtualizerMode = mode
	case Volume:
		// The volume path is always active; enable state only gates the
		// slot's process accounting.
		return nil
	}

	if err := s.eng.SetControlParams(params); err != nil {
		return fmt.Errorf("%w: set control params: %v", ErrEngine, err)
	}

	return nil
}
