package level

import (
	"math"
	"testing"
)

func TestEstimateZeroGains(t *testing.T) {
	t.Parallel()

	if got := Estimate([]int{0, 0, 0, 0, 0}, true); got != 0 {
		t.Fatalf("Estimate(zero gains) = %v, want 0", got)
	}
}

func TestEstimateEqualizerOff(t *testing.T) {
	t.Parallel()

	// With the equalizer bypassed the gains must not contribute.
	if got := Estimate([]int{1500, 1500, 1500, 1500, 1500}, false); got != 0 {
		t.Fatalf("Estimate(eq off) = %v, want 0", got)
	}
}

func TestEstimateNegativeGainsContributeNothing(t *testing.T) {
	t.Parallel()

	if got := Estimate([]int{-1500, -300, -100, -700, -1500}, true); got != 0 {
		t.Fatalf("Estimate(cut-only gains) = %v, want 0", got)
	}
}

func TestEstimateFullBoost(t *testing.T) {
	t.Parallel()

	// All bands at the 15 dB ceiling: band factors are exactly 1, so the
	// energy terms reduce to the coefficient tables themselves.
	got := Estimate([]int{1500, 1500, 1500, 1500, 1500}, true)

	energy := 0.0
	for _, c := range bandEnergyCoefficients {
		energy += c * c
	}

	cross := 0.0
	for _, c := range bandEnergyCrossCoefficients {
		cross += c
	}

	want := math.Sqrt(energy+cross) - 3*crossCorrectionFactor
	if math.Abs(got-want) > 1e-9 {
		t.Fatalf("Estimate(full boost) = %v, want %v", got, want)
	}
}

func TestEstimateMonotonicInSingleBand(t *testing.T) {
	t.Parallel()

	prev := Estimate([]int{0, 0, 0, 0, 0}, true)

	for mb := 100; mb <= 1500; mb += 100 {
		got := Estimate([]int{mb, 0, 0, 0, 0}, true)
		if got < prev {
			t.Fatalf("estimate decreased at %d mB: %v < %v", mb, got, prev)
		}

		prev = got
	}
}

func TestRoundUp(t *testing.T) {
	t.Parallel()

	cases := []struct {
		in   float64
		want int
	}{
		{0, 0},
		{0.01, 1},
		{0.99, 1},
		{1.0, 1},
		{1.01, 2},
		{25.75, 26},
	}

	for _, tc := range cases {
		if got := RoundUp(tc.in); got != tc.want {
			t.Errorf("RoundUp(%v) = %d, want %d", tc.in, got, tc.want)
		}
	}
}

func TestGainCorrection(t *testing.T) {
	t.Parallel()

	cases := []struct {
		estimate, saved, want int
	}{
		{0, 0, 0},
		{0, -10, 0},
		{26, 0, 26},
		{26, -10, 16},
		{26, -30, 0},
		{5, -5, 0},
	}

	for _, tc := range cases {
		if got := GainCorrection(tc.estimate, tc.saved); got != tc.want {
			t.Errorf("GainCorrection(%d, %d) = %d, want %d",
				tc.estimate, tc.saved, got, tc.want)
		}
	}
}
