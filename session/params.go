package session

import (
	"fmt"

	"github.com/cwbudde/algo-fxbundle/engine"
	"github.com/cwbudde/algo-fxbundle/gainmath"
	"github.com/cwbudde/algo-fxbundle/level"
	"github.com/cwbudde/algo-fxbundle/preset"
)

// BandLevel pairs an equalizer band index with a gain in millibel.
type BandLevel struct {
	Band    int
	LevelMb int
}

// SetPreset loads the named preset's band gains into the session and the
// engine, and marks the preset as active.
func (s *Session) SetPreset(idx int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.eng == nil {
		return fmt.Errorf("%w: session closed", ErrIllegalState)
	}

	if !preset.Valid(idx) {
		return fmt.Errorf("%w: preset index %d", ErrIllegalParameter, idx)
	}

	gains := preset.Gains(idx)

	levels := make([]BandLevel, len(gains))
	for i, mb := range gains {
		levels[i] = BandLevel{Band: i, LevelMb: mb}
	}

	if err := s.updateBandLevelsLocked(levels); err != nil {
		return err
	}

	s.presetIdx = idx

	return nil
}

// Preset returns the active preset index, or preset.Custom after a direct
// band edit.
func (s *Session) Preset() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.presetIdx
}

// SetBandLevels applies individual band gains and marks the session as
// custom. Every index must lie within [0, engine.MaxBands); duplicate
// indices are permitted, with the last write winning. On any validation
// or engine failure the mirrored gains are left unchanged.
func (s *Session) SetBandLevels(levels []BandLevel) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.eng == nil {
		return fmt.Errorf("%w: session closed", ErrIllegalState)
	}

	if len(levels) == 0 || len(levels) > engine.MaxBands {
		return fmt.Errorf("%w: %d band levels", ErrIllegalParameter, len(levels))
	}

	if err := s.updateBandLevelsLocked(levels); err != nil {
		return err
	}

	s.presetIdx = preset.Custom

	return nil
}

// BandLevels returns the mirrored band gains, one entry per band.
func (s *Session) BandLevels() []BandLevel {
	s.mu.Lock()
	defer s.mu.Unlock()

	levels := make([]BandLevel, len(s.bandGains))
	for i, mb := range s.bandGains {
		levels[i] = BandLevel{Band: i, LevelMb: mb}
	}

	return levels
}

// SetVolumeStereo applies a linear stereo volume (full scale at 1<<24).
// The left/right difference becomes the engine balance; the louder side
// is recorded as the effect's overall level.
//
// Overall level application beyond the balance update is not wired into
// the limiter path yet; the recorded maximum is kept for when it is.
func (s *Session) SetVolumeStereo(left, right uint32) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.eng == nil {
		return fmt.Errorf("%w: session closed", ErrIllegalState)
	}

	leftDB := gainmath.VolumeToDecibel(left)
	rightDB := gainmath.VolumeToDecibel(right)

	maxDB := leftDB
	if rightDB > maxDB {
		maxDB = rightDB
	}

	panDB := int(rightDB) - int(leftDB)

	params, err := s.eng.ControlParams()
	if err != nil {
		return fmt.Errorf("%w: get control params: %v", ErrEngine, err)
	}

	params.BalanceDB = panDB

	if err := s.eng.SetControlParams(params); err != nil {
		return fmt.Errorf("%w: set control params: %v", ErrEngine, err)
	}

	s.volumeLeft = left
	s.volumeRight = right
	s.volumeMaxDB = int(maxDB)

	return nil
}

// VolumeStereo returns the last applied stereo volume.
func (s *Session) VolumeStereo() (left, right uint32) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.volumeLeft, s.volumeRight
}

// SetMasterLevel sets the user master level in dB and reruns the level
// limiter, so the engine volume reflects both the new level and the
// current band-energy correction.
func (s *Session) SetMasterLevel(db int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.eng == nil {
		return fmt.Errorf("%w: session closed", ErrIllegalState)
	}

	prev := s.savedLevelDB
	s.savedLevelDB = db

	if err := s.limitLevelLocked(); err != nil {
		s.savedLevelDB = prev
		return err
	}

	return nil
}

// MasterLevel returns the user master level in dB, independent of any
// overload correction currently applied.
func (s *Session) MasterLevel() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.savedLevelDB
}

// updateBandLevelsLocked validates levels, pushes the merged band
// definitions to the engine, and commits the mirror only on success.
func (s *Session) updateBandLevelsLocked(levels []BandLevel) error {
	next := s.bandGains

	for _, l := range levels {
		if l.Band < 0 || l.Band >= engine.MaxBands {
			return fmt.Errorf("%w: band index %d out of range [0, %d)", ErrIllegalParameter, l.Band, engine.MaxBands)
		}

		next[l.Band] = l.LevelMb
	}

	params, err := s.eng.ControlParams()
	if err != nil {
		return fmt.Errorf("%w: get control params: %v", ErrEngine, err)
	}

	for i := range params.Bands {
		params.Bands[i] = engine.Band{
			FrequencyHz: preset.Frequency(i),
			QFactor:     preset.QFactor(i),
			GainMb:      next[i],
		}
	}

	if err := s.eng.SetControlParams(params); err != nil {
		return fmt.Errorf("%w: set control params: %v", ErrEngine, err)
	}

	s.bandGains = next

	return nil
}

// limitLevelLocked recomputes the engine volume level from the band
// energy estimate and the saved master level, and pushes it. The first
// volume application skips the engine's ramp smoothing to avoid an
// audible artifact at startup.
func (s *Session) limitLevelLocked() error {
	params, err := s.eng.ControlParams()
	if err != nil {
		return fmt.Errorf("%w: get control params: %v", ErrEngine, err)
	}

	eqOn := params.EqualizerMode == engine.ModeOn

	estimate := level.RoundUp(level.Estimate(s.bandGains[:], eqOn))
	correction := level.GainCorrection(estimate, s.savedLevelDB)

	lvl := s.savedLevelDB - correction
	if lvl < gainmath.SilenceFloorDB {
		lvl = gainmath.SilenceFloorDB
	}

	params.VolumeLevelDB = lvl

	if err := s.eng.SetControlParams(params); err != nil {
		return fmt.Errorf("%w: set control params: %v", ErrEngine, err)
	}

	if s.firstVolume {
		if err := s.eng.SetVolumeNoSmoothing(params); err != nil {
			return fmt.Errorf("%w: set volume without smoothing: %v", ErrEngine, err)
		}

		s.firstVolume = false
	}

	return nil
}
