package session

import "time"

// Config defines session-wide processing settings.
type Config struct {
	SampleRate int
	Channels   int

	// DrainBudget is how long a disabled slot keeps processing to flush
	// internal filter state.
	DrainBudget time.Duration

	// Accumulate mixes processed output into the output buffer instead
	// of replacing it.
	Accumulate bool

	// MasterLevelDB is the initial user master level in dB.
	MasterLevelDB int
}

// Option mutates a Config.
type Option func(*Config)

// DefaultConfig returns sensible defaults for interactive playback.
func DefaultConfig() Config {
	return Config{
		SampleRate:  44100,
		Channels:    2,
		DrainBudget: 100 * time.Millisecond,
	}
}

// WithSampleRate sets the processing sample rate.
func WithSampleRate(sampleRate int) Option {
	return func(cfg *Config) {
		if sampleRate > 0 {
			cfg.SampleRate = sampleRate
		}
	}
}

// WithChannels sets the number of channels (1 for mono, 2 for stereo).
func WithChannels(channels int) Option {
	return func(cfg *Config) {
		if channels > 0 {
			cfg.Channels = channels
		}
	}
}

// WithDrainBudget sets how long a disabled slot keeps draining.
func WithDrainBudget(d time.Duration) Option {
	return func(cfg *Config) {
		if d > 0 {
			cfg.DrainBudget = d
		}
	}
}

// WithAccumulate selects accumulating output instead of replacing.
func WithAccumulate(accumulate bool) Option {
	return func(cfg *Config) {
		cfg.Accumulate = accumulate
	}
}

// WithMasterLevel sets the initial user master level in dB.
func WithMasterLevel(db int) Option {
	return func(cfg *Config) {
		cfg.MasterLevelDB = db
	}
}

// ApplyOptions applies zero or more options to the default config.
func ApplyOptions(opts ...Option) Config {
	cfg := DefaultConfig()

	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	return cfg
}
