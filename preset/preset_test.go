package preset

import "testing"

func TestTablesShape(t *testing.T) {
	t.Parallel()

	if Count() != NumPresets {
		t.Fatalf("Count() = %d, want %d", Count(), NumPresets)
	}

	seen := map[string]bool{}

	for i := range NumPresets {
		name := Name(i)
		if name == "" {
			t.Errorf("preset %d has empty name", i)
		}

		if seen[name] {
			t.Errorf("duplicate preset name %q", name)
		}

		seen[name] = true
	}
}

func TestNormalPreset(t *testing.T) {
	t.Parallel()

	want := [NumBands]int{300, 0, 0, 0, 300}
	if got := Gains(0); got != want {
		t.Fatalf("Gains(0) = %v, want %v", got, want)
	}

	if Name(0) != "Normal" {
		t.Fatalf("Name(0) = %q, want Normal", Name(0))
	}
}

func TestFlatPreset(t *testing.T) {
	t.Parallel()

	idx := Index("Flat")
	if idx == Custom {
		t.Fatal("Flat preset not found")
	}

	if got := Gains(idx); got != ([NumBands]int{}) {
		t.Fatalf("Gains(Flat) = %v, want all zero", got)
	}
}

func TestInvalidIndices(t *testing.T) {
	t.Parallel()

	for _, idx := range []int{-1, Custom, NumPresets, 100} {
		if Valid(idx) {
			t.Errorf("Valid(%d) = true, want false", idx)
		}

		if Name(idx) != "" {
			t.Errorf("Name(%d) = %q, want empty", idx, Name(idx))
		}

		if Gains(idx) != ([NumBands]int{}) {
			t.Errorf("Gains(%d) not zero", idx)
		}
	}

	if Index("No Such Preset") != Custom {
		t.Error("Index(unknown) should return Custom")
	}
}

func TestBandTables(t *testing.T) {
	t.Parallel()

	prev := 0

	for i := range NumBands {
		f := Frequency(i)
		if f <= prev {
			t.Errorf("band %d frequency %d not increasing", i, f)
		}

		prev = f

		if q := QFactor(i); q <= 0 {
			t.Errorf("band %d q factor %v not positive", i, q)
		}
	}

	if Frequency(-1) != 0 || Frequency(NumBands) != 0 {
		t.Error("out-of-range frequency should be 0")
	}

	if QFactor(-1) != 0 || QFactor(NumBands) != 0 {
		t.Error("out-of-range q factor should be 0")
	}
}
