// Package engine defines the contract between the effect bundle and the
// underlying signal-processing core. The core is opaque: beyond creating
// and destroying an instance, the bundle only reads and writes its
// parameter block and submits buffers for processing.
//
// ControlParams is a plain value. Callers read the current parameters,
// transform the copy, and write it back; a failed write leaves the engine
// untouched, which keeps the bundle's mirrored state and the engine state
// from diverging on partial failure.
package engine

import "errors"

// ErrClosed is returned by engine implementations whose instance handle
// has already been released.
var ErrClosed = errors.New("engine instance closed")

// MaxBands is the fixed number of equalizer bands an engine instance
// exposes.
const MaxBands = 5

// Mode switches an engine sub-block on or off.
type Mode int

const (
	// ModeOff bypasses the sub-block.
	ModeOff Mode = iota
	// ModeOn runs the sub-block.
	ModeOn
)

// InstanceParams configures engine instance allocation.
type InstanceParams struct {
	// ManagedBuffers selects engine-managed buffering instead of
	// caller-supplied buffers.
	ManagedBuffers bool
	// MaxBlockSize is the largest frame count a single Process call may
	// carry.
	MaxBlockSize int
	// BandCount is the number of equalizer bands, at most MaxBands.
	BandCount int
	// SpectrumAnalysis enables the engine's spectrum analyzer block.
	SpectrumAnalysis bool
}

// Band describes one equalizer band definition.
type Band struct {
	FrequencyHz int
	QFactor     float64
	GainMb      int
}

// HeadroomBand reserves dynamic range for one frequency range.
type HeadroomBand struct {
	LowHz    int
	HighHz   int
	OffsetDB int
}

// HeadroomParams configures per-band headroom management.
type HeadroomParams struct {
	Mode  Mode
	Bands []HeadroomBand
}

// ControlParams is the engine's full control parameter block.
type ControlParams struct {
	Operating  Mode
	SampleRate int
	Channels   int

	EqualizerMode Mode
	Bands         [MaxBands]Band

	// VolumeLevelDB is the master effect level in whole dB.
	VolumeLevelDB int
	// BalanceDB pans between channels: positive attenuates the left
	// channel by that many dB, negative the right.
	BalanceDB int

	VirtualizerMode        Mode
	VirtualizerReverbLevel int

	BassMode        Mode
	BassEffectLevel int
	BassCentreHz    int

	TrebleMode        Mode
	TrebleEffectLevel int

	AnalyzerMode Mode
}

// Engine is one allocated instance of the processing core.
//
// Implementations are not required to be safe for concurrent use; the
// session serializes all calls behind its own lock.
type Engine interface {
	// ControlParams returns a copy of the current parameter block.
	ControlParams() (ControlParams, error)
	// SetControlParams replaces the parameter block.
	SetControlParams(ControlParams) error
	// SetHeadroomParams replaces the headroom configuration.
	SetHeadroomParams(HeadroomParams) error
	// SetVolumeNoSmoothing applies the block's volume fields without
	// ramping. Used once, on the first volume application, to avoid an
	// audible transition at startup.
	SetVolumeNoSmoothing(ControlParams) error
	// Process renders frames from in to out. Both slices hold
	// channel-interleaved samples and must cover frames*channels values.
	Process(in, out []float64, frames int) error
	// Close releases the instance. It is idempotent.
	Close() error
}

// Factory allocates an engine instance.
type Factory func(InstanceParams) (Engine, error)
