// Package preset holds the immutable equalizer preset tables: named band
// gain sets, band center frequencies, and quality factors. Gains are in
// millibel (1/100 dB).
package preset

const (
	// NumBands is the fixed number of equalizer bands.
	NumBands = 5
	// NumPresets is the number of built-in named presets.
	NumPresets = 10
	// Custom marks a gain configuration that no longer matches any named
	// preset (a direct band edit was applied).
	Custom = -1
)

var names = [NumPresets]string{
	"Normal",
	"Classical",
	"Dance",
	"Flat",
	"Folk",
	"Heavy Metal",
	"Hip Hop",
	"Jazz",
	"Pop",
	"Rock",
}

// Band gains per preset in millibel, index-aligned with names.
var gains = [NumPresets][NumBands]int{
	{300, 0, 0, 0, 300},      // Normal
	{500, 300, -200, 400, 400}, // Classical
	{600, 0, 200, 400, 100},  // Dance
	{0, 0, 0, 0, 0},          // Flat
	{300, 0, 0, 200, -100},   // Folk
	{400, 100, 900, 300, 0},  // Heavy Metal
	{500, 300, 0, 100, 300},  // Hip Hop
	{400, 200, -200, 200, 500}, // Jazz
	{-100, 200, 500, 100, -200}, // Pop
	{500, 300, -100, 300, 500}, // Rock
}

var frequencies = [NumBands]int{60, 230, 910, 3600, 14000}

var qFactors = [NumBands]float64{0.96, 0.96, 0.96, 0.96, 0.96}

// Count returns the number of built-in presets.
func Count() int {
	return NumPresets
}

// Valid reports whether idx refers to a built-in preset.
func Valid(idx int) bool {
	return idx >= 0 && idx < NumPresets
}

// Name returns the display name of the preset, or "" for an invalid index.
func Name(idx int) string {
	if !Valid(idx) {
		return ""
	}

	return names[idx]
}

// Index returns the preset index for a display name, or Custom if the name
// is unknown. The match is exact.
func Index(name string) int {
	for i, n := range names {
		if n == name {
			return i
		}
	}

	return Custom
}

// Gains returns a copy of the band gains for the preset in millibel.
// An invalid index yields the zero (flat) configuration.
func Gains(idx int) [NumBands]int {
	if !Valid(idx) {
		return [NumBands]int{}
	}

	return gains[idx]
}

// Frequency returns the center frequency in Hz of the given band.
// Bands outside [0, NumBands) yield 0.
func Frequency(band int) int {
	if band < 0 || band >= NumBands {
		return 0
	}

	return frequencies[band]
}

// QFactor returns the quality factor of the given band.
// Bands outside [0, NumBands) yield 0.
func QFactor(band int) float64 {
	if band < 0 || band >= NumBands {
		return 0
	}

	return qFactors[band]
}
