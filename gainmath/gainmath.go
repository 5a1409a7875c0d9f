// Package gainmath provides gain conversions between the linear
// fixed-point, decibel, and millibel domains used by the effect bundle
// and its processing engine.
//
// The fixed-point conversion mirrors the engine's own representation: a
// 32-bit unsigned linear magnitude maps to a signed Q11.4 decibel value
// via a leading-bit scan with a quadratic interpolation term, avoiding a
// transcendental logarithm in the control path.
package gainmath

import "math"

// SilenceFloorDB is the engine's silence floor in dB. Volume conversions
// never return a value below it.
const SilenceFloorDB = -96

// LinearToDecibelFixed converts a 32-bit unsigned fixed-point linear
// magnitude to decibels in Q11.4 format (sixteenths of a dB).
//
// Each leading zero bit of the normalized magnitude accounts for one
// 6.02 dB step (96 in Q11.4); the top seven bits of the remainder drive a
// quadratic correction that interpolates within the step. A zero input
// terminates the scan after 32 iterations and saturates at the most
// negative representable value.
func LinearToDecibelFixed(v uint32) int16 {
	remainder := v

	var shift int16
	for shift = 0; shift < 32; shift++ {
		if remainder&0x80000000 != 0 {
			break
		}

		remainder <<= 1
	}

	// dB = -96*shift + r - r^2/512, with r the top 7 remainder bits.
	db := int16(-96 * shift)
	small := int16((remainder & 0x7fffffff) >> 24)
	db += small
	small *= small
	db -= int16(uint16(small) >> 9)

	// Empirical offset compensating the approximation bias.
	db -= 5

	return db
}

// VolumeToDecibel converts a linear volume value (full scale at 1<<24) to
// whole decibels, rounded to the nearest step and clamped to
// SilenceFloorDB.
func VolumeToDecibel(vol uint32) int16 {
	db := LinearToDecibelFixed(vol << 7)

	db = (db + 8) >> 4
	if db < SilenceFloorDB {
		db = SilenceFloorDB
	}

	return db
}

// DBToLinear converts dB to linear amplitude (20*log10 convention).
func DBToLinear(db float64) float64 {
	return math.Pow(10, db/20)
}

// LinearToDB converts linear amplitude to dB (20*log10 convention).
// Returns -Inf for zero and NaN for negative values.
func LinearToDB(linear float64) float64 {
	if linear < 0 {
		return math.NaN()
	}

	if linear == 0 {
		return math.Inf(-1)
	}

	return 20 * math.Log10(linear)
}

// MillibelToDB converts a millibel gain to dB.
func MillibelToDB(mb int) float64 {
	return float64(mb) / 100
}

// Clamp limits value to the inclusive range [min, max].
func Clamp(value, min, max float64) float64 {
	if min > max {
		min, max = max, min
	}

	if value < min {
		return min
	}

	if value > max {
		return max
	}

	return value
}
