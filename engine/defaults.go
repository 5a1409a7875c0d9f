package engine

import "github.com/cwbudde/algo-fxbundle/preset"

// Default headroom band limits in Hz.
const (
	headroomLowBandLowHz   = 20
	headroomLowBandHighHz  = 4999
	headroomHighBandLowHz  = 5000
	headroomHighBandHighHz = 24000
)

// DefaultControlParams returns the initial parameter block for a fresh
// instance: master path on, every sub-effect bypassed, bands loaded with
// the normal preset.
func DefaultControlParams(sampleRate, channels int) ControlParams {
	p := ControlParams{
		Operating:  ModeOn,
		SampleRate: sampleRate,
		Channels:   channels,

		EqualizerMode: ModeOff,

		VolumeLevelDB: 0,
		BalanceDB:     0,

		VirtualizerMode:        ModeOff,
		VirtualizerReverbLevel: 100,

		BassMode:        ModeOff,
		BassEffectLevel: 0,
		BassCentreHz:    90,

		TrebleMode:        ModeOff,
		TrebleEffectLevel: 0,

		AnalyzerMode: ModeOff,
	}

	gains := preset.Gains(0)
	for i := range p.Bands {
		p.Bands[i] = Band{
			FrequencyHz: preset.Frequency(i),
			QFactor:     preset.QFactor(i),
			GainMb:      gains[i],
		}
	}

	return p
}

// DefaultHeadroomParams returns the initial headroom configuration: two
// bands covering the audible range with no reserved offset, management
// off.
func DefaultHeadroomParams() HeadroomParams {
	return HeadroomParams{
		Mode: ModeOff,
		Bands: []HeadroomBand{
			{LowHz: headroomLowBandLowHz, HighHz: headroomLowBandHighHz, OffsetDB: 0},
			{LowHz: headroomHighBandLowHz, HighHz: headroomHighBandHighHz, OffsetDB: 0},
		},
	}
}
