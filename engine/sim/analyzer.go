package sim

import (
	"math"

	algofft "github.com/MeKo-Christian/algo-fft"
	"github.com/cwbudde/algo-vecmath"
)

const (
	analyzerFFTSize = 1024
	analyzerHopSize = analyzerFFTSize / 2

	// Exponential smoothing applied to each dB bin across frames.
	analyzerSmoothing = 0.5

	analyzerFloorDB = -130.0
)

// analyzer is a windowed FFT magnitude analyzer over the processed
// output, mirroring the engine's spectrum analysis block.
type analyzer struct {
	plan   *algofft.Plan[complex128]
	window []float64
	// Coherent gain of the window, used to normalize magnitudes.
	windowGain float64

	ring      []float64
	writeIdx  int
	filled    int
	toNextHop int

	input  []complex128
	output []complex128
	re     []float64
	im     []float64
	mag    []float64

	db    []float64
	ready bool
}

func newAnalyzer() (*analyzer, error) {
	plan, err := algofft.NewPlan64(analyzerFFTSize)
	if err != nil {
		return nil, err
	}

	win := make([]float64, analyzerFFTSize)
	sum := 0.0

	for i := range win {
		// Periodic Hann window.
		win[i] = 0.5 - 0.5*math.Cos(2*math.Pi*float64(i)/analyzerFFTSize)
		sum += win[i]
	}

	bins := analyzerFFTSize/2 + 1

	a := &analyzer{
		plan:       plan,
		window:     win,
		windowGain: sum / analyzerFFTSize,

		ring:   make([]float64, analyzerFFTSize),
		input:  make([]complex128, analyzerFFTSize),
		output: make([]complex128, analyzerFFTSize),
		re:     make([]float64, bins),
		im:     make([]float64, bins),
		mag:    make([]float64, bins),
		db:     make([]float64, bins),
	}

	for i := range a.db {
		a.db[i] = analyzerFloorDB
	}

	return a, nil
}

// pushFrames feeds interleaved output samples, downmixed to mono.
func (a *analyzer) pushFrames(samples []float64, channels int) {
	for base := 0; base+channels <= len(samples); base += channels {
		s := samples[base]
		if channels == 2 {
			s = (s + samples[base+1]) * 0.5
		}

		a.push(s)
	}
}

func (a *analyzer) push(s float64) {
	a.ring[a.writeIdx] = s

	a.writeIdx++
	if a.writeIdx >= analyzerFFTSize {
		a.writeIdx = 0
	}

	if a.filled < analyzerFFTSize {
		a.filled++
	}

	a.toNextHop++
	if a.filled < analyzerFFTSize || a.toNextHop < analyzerHopSize {
		return
	}

	a.toNextHop = 0
	a.updateFrame()
}

func (a *analyzer) updateFrame() {
	const eps = 1e-12

	read := a.writeIdx
	for i := range analyzerFFTSize {
		a.input[i] = complex(a.ring[read]*a.window[i], 0)

		read++
		if read >= analyzerFFTSize {
			read = 0
		}
	}

	if err := a.plan.Forward(a.output, a.input); err != nil {
		return
	}

	last := len(a.db) - 1
	for k := 0; k <= last; k++ {
		a.re[k] = real(a.output[k])
		a.im[k] = imag(a.output[k])
	}

	vecmath.Magnitude(a.mag, a.re, a.im)

	norm := analyzerFFTSize * math.Max(a.windowGain, eps)

	for k := 0; k <= last; k++ {
		mag := a.mag[k] / norm
		if k > 0 && k < last {
			mag *= 2
		}

		valDB := 20 * math.Log10(math.Max(eps, mag))
		if valDB < analyzerFloorDB {
			valDB = analyzerFloorDB
		}

		if !a.ready {
			a.db[k] = valDB
			continue
		}

		a.db[k] = analyzerSmoothing*a.db[k] + (1-analyzerSmoothing)*valDB
	}

	a.ready = true
}

func (a *analyzer) spectrumDB() []float64 {
	if !a.ready {
		return nil
	}

	out := make([]float64, len(a.db))
	copy(out, a.db)

	return out
}
