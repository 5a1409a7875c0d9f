package sim

import (
	"errors"
	"math"
	"testing"

	"github.com/cwbudde/algo-fxbundle/engine"
)

func testInstance() engine.InstanceParams {
	return engine.InstanceParams{
		MaxBlockSize: 4096,
		BandCount:    engine.MaxBands,
	}
}

func newTestEngine(t *testing.T, inst engine.InstanceParams, channels int) *Engine {
	t.Helper()

	e, err := New(inst)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	p := engine.DefaultControlParams(44100, channels)
	if err := e.SetControlParams(p); err != nil {
		t.Fatalf("SetControlParams: %v", err)
	}

	return e
}

func TestNewValidation(t *testing.T) {
	t.Parallel()

	if _, err := New(engine.InstanceParams{MaxBlockSize: 0, BandCount: 5}); err == nil {
		t.Error("zero block size should fail")
	}

	if _, err := New(engine.InstanceParams{MaxBlockSize: 256, BandCount: 0}); err == nil {
		t.Error("zero band count should fail")
	}

	if _, err := New(engine.InstanceParams{MaxBlockSize: 256, BandCount: engine.MaxBands + 1}); err == nil {
		t.Error("excessive band count should fail")
	}
}

func TestControlParamsRoundTrip(t *testing.T) {
	t.Parallel()

	e := newTestEngine(t, testInstance(), 2)

	p, err := e.ControlParams()
	if err != nil {
		t.Fatalf("ControlParams: %v", err)
	}

	p.EqualizerMode = engine.ModeOn
	p.Bands[2].GainMb = 700

	if err := e.SetControlParams(p); err != nil {
		t.Fatalf("SetControlParams: %v", err)
	}

	got, err := e.ControlParams()
	if err != nil {
		t.Fatalf("ControlParams: %v", err)
	}

	if got != p {
		t.Fatalf("parameter block not echoed: got %+v, want %+v", got, p)
	}
}

func TestSetControlParamsValidation(t *testing.T) {
	t.Parallel()

	e := newTestEngine(t, testInstance(), 2)

	p, _ := e.ControlParams()

	p.SampleRate = 0
	if err := e.SetControlParams(p); err == nil {
		t.Error("zero sample rate should fail")
	}

	p.SampleRate = 44100
	p.Channels = 3

	if err := e.SetControlParams(p); err == nil {
		t.Error("three channels should fail")
	}
}

func TestProcessUnityGain(t *testing.T) {
	t.Parallel()

	e := newTestEngine(t, testInstance(), 1)

	in := make([]float64, 64)
	out := make([]float64, 64)

	for i := range in {
		in[i] = float64(i) * 0.01
	}

	if err := e.Process(in, out, 64); err != nil {
		t.Fatalf("Process: %v", err)
	}

	for i := range out {
		if out[i] != in[i] {
			t.Fatalf("sample %d changed under unity gain: %v != %v", i, out[i], in[i])
		}
	}

	if e.ProcessCalls() != 1 {
		t.Errorf("ProcessCalls = %d, want 1", e.ProcessCalls())
	}
}

func TestVolumeNoSmoothingJumpsImmediately(t *testing.T) {
	t.Parallel()

	e := newTestEngine(t, testInstance(), 1)

	p, _ := e.ControlParams()
	p.VolumeLevelDB = -20

	if err := e.SetVolumeNoSmoothing(p); err != nil {
		t.Fatalf("SetVolumeNoSmoothing: %v", err)
	}

	if e.NoSmoothingCalls() != 1 {
		t.Fatalf("NoSmoothingCalls = %d, want 1", e.NoSmoothingCalls())
	}

	in := []float64{1, 1, 1, 1}
	out := make([]float64, 4)

	if err := e.Process(in, out, 4); err != nil {
		t.Fatalf("Process: %v", err)
	}

	for i, s := range out {
		if math.Abs(s-0.1) > 1e-9 {
			t.Fatalf("sample %d = %v, want 0.1 (no ramp)", i, s)
		}
	}
}

func TestVolumeChangeRampsSmoothly(t *testing.T) {
	t.Parallel()

	e := newTestEngine(t, testInstance(), 1)

	p, _ := e.ControlParams()
	p.VolumeLevelDB = -20

	if err := e.SetControlParams(p); err != nil {
		t.Fatalf("SetControlParams: %v", err)
	}

	in := make([]float64, 512)
	out := make([]float64, 512)

	for i := range in {
		in[i] = 1
	}

	if err := e.Process(in, out, 512); err != nil {
		t.Fatalf("Process: %v", err)
	}

	// First sample is still near unity, the tail has settled at -20 dB.
	if out[0] < 0.9 {
		t.Errorf("ramp jumped: first sample %v", out[0])
	}

	if math.Abs(out[511]-0.1) > 1e-9 {
		t.Errorf("ramp did not settle: last sample %v, want 0.1", out[511])
	}

	for i := 1; i < len(out); i++ {
		if out[i] > out[i-1]+1e-12 {
			t.Fatalf("ramp not monotonic at %d: %v > %v", i, out[i], out[i-1])
		}
	}
}

func TestBalanceAttenuatesOneSide(t *testing.T) {
	t.Parallel()

	e := newTestEngine(t, testInstance(), 2)

	p, _ := e.ControlParams()
	p.BalanceDB = 6

	if err := e.SetVolumeNoSmoothing(p); err != nil {
		t.Fatalf("SetVolumeNoSmoothing: %v", err)
	}

	in := []float64{1, 1, 1, 1}
	out := make([]float64, 4)

	if err := e.Process(in, out, 2); err != nil {
		t.Fatalf("Process: %v", err)
	}

	left := math.Pow(10, -6.0/20)
	if math.Abs(out[0]-left) > 1e-9 || math.Abs(out[2]-left) > 1e-9 {
		t.Errorf("left channel = %v/%v, want %v", out[0], out[2], left)
	}

	if out[1] != 1 || out[3] != 1 {
		t.Errorf("right channel = %v/%v, want 1", out[1], out[3])
	}
}

func TestProcessBlockSizeGuard(t *testing.T) {
	t.Parallel()

	inst := testInstance()
	inst.MaxBlockSize = 128

	e := newTestEngine(t, inst, 1)

	buf := make([]float64, 256)
	if err := e.Process(buf, buf, 256); err == nil {
		t.Error("oversized block should fail")
	}

	if err := e.Process(buf, buf, 0); err == nil {
		t.Error("zero frames should fail")
	}

	if err := e.Process(buf[:10], buf, 64); err == nil {
		t.Error("short input buffer should fail")
	}
}

func TestCloseIdempotent(t *testing.T) {
	t.Parallel()

	e := newTestEngine(t, testInstance(), 2)

	if err := e.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	if err := e.Close(); err != nil {
		t.Fatalf("second Close: %v", err)
	}

	if !e.Closed() {
		t.Error("Closed() = false after Close")
	}

	if _, err := e.ControlParams(); !errors.Is(err, engine.ErrClosed) {
		t.Errorf("ControlParams after close: %v, want ErrClosed", err)
	}

	if err := e.Process(make([]float64, 8), make([]float64, 8), 8); !errors.Is(err, engine.ErrClosed) {
		t.Errorf("Process after close: %v, want ErrClosed", err)
	}
}

func TestSpectrumAnalyzer(t *testing.T) {
	t.Parallel()

	inst := testInstance()
	inst.SpectrumAnalysis = true

	e, err := New(inst)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	const (
		rate = 44100
		bin  = 32
	)

	p := engine.DefaultControlParams(rate, 1)
	p.AnalyzerMode = engine.ModeOn

	if err := e.SetControlParams(p); err != nil {
		t.Fatalf("SetControlParams: %v", err)
	}

	if e.SpectrumDB() != nil {
		t.Fatal("spectrum available before any frame completed")
	}

	freq := float64(bin) * rate / analyzerFFTSize

	in := make([]float64, 2048)
	out := make([]float64, 2048)

	for i := range in {
		in[i] = 0.5 * math.Sin(2*math.Pi*freq*float64(i)/rate)
	}

	for off := 0; off < len(in); off += 256 {
		if err := e.Process(in[off:off+256], out[off:off+256], 256); err != nil {
			t.Fatalf("Process: %v", err)
		}
	}

	db := e.SpectrumDB()
	if db == nil {
		t.Fatal("no spectrum after 2048 samples")
	}

	peak := 0
	for k := range db {
		if db[k] > db[peak] {
			peak = k
		}
	}

	if peak < bin-1 || peak > bin+1 {
		t.Errorf("spectrum peak at bin %d, want %d±1", peak, bin)
	}

	if db[peak] < -20 {
		t.Errorf("peak level %v dB, want above -20 dB", db[peak])
	}
}
