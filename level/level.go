// Package level estimates the aggregate loudness contribution of the
// equalizer band gains and derives the master-volume pulldown ("gain
// correction") that keeps multi-band constructive interference from
// overloading the output stage.
package level

// Per-band energy coefficients, precomputed from the five-band filter
// frequency responses and index-aligned with the equalizer bands.
var bandEnergyCoefficients = [...]float64{7.56, 9.69, 9.59, 7.37, 2.88}

// Cross-energy coefficients for adjacent band pairs (bands i and i+1).
var bandEnergyCrossCoefficients = [...]float64{126.0, 115.0, 125.0, 104.0}

const (
	// maxBandGainDB is the per-band gain ceiling; band gains are
	// normalized against it before entering the energy model.
	maxBandGainDB = 15.0

	// crossCorrectionFactor dampens the estimate when adjacent-band
	// correlation exceeds unity.
	crossCorrectionFactor = 0.7

	// bassBoostEnergy is reserved for a bass-boost contribution term;
	// the bass boost slot does not yet feed the estimator.
	bassBoostEnergy = 0.0
)

// Estimate returns the estimated aggregate loudness contribution in dB for
// the given band gains (millibel). When eqOn is false the equalizer
// contributes no energy and the estimate collapses to zero.
func Estimate(gainsMb []int, eqOn bool) float64 {
	var energy, cross, correction float64

	if eqOn {
		for i, mb := range gainsMb {
			factor := bandFactor(mb)
			coeff := bandCoefficient(i)

			if e := factor * coeff * coeff; e > 0 {
				energy += e
			}
		}

		var bandFactorSum float64

		for i := 0; i+1 < len(gainsMb); i++ {
			f1 := bandFactor(gainsMb[i])
			f2 := bandFactor(gainsMb[i+1])

			if f1 > 0 && f2 > 0 {
				bandFactorSum += f1 * f2

				if e := f1 * f2 * crossCoefficient(i); e > 0 {
					cross += e
				}
			}
		}

		bandFactorSum -= 1.0
		if bandFactorSum > 0 {
			correction = bandFactorSum * crossCorrectionFactor
		}
	}

	return sqrt(energy+cross+bassBoostEnergy) - correction
}

// RoundUp converts an estimate to whole dB using the ceiling-like bias
// applied before gain correction.
func RoundUp(estimate float64) int {
	return int(estimate + 0.99)
}

// GainCorrection returns the pulldown in dB required to keep the combined
// estimate and saved master level within 0 dB of headroom. It is zero when
// no pulldown is needed.
func GainCorrection(estimateDB, savedLevelDB int) int {
	if c := estimateDB + savedLevelDB; c > 0 {
		return c
	}

	return 0
}

func bandFactor(mb int) float64 {
	return float64(mb) / 100 / maxBandGainDB
}

func bandCoefficient(band int) float64 {
	if band < 0 || band >= len(bandEnergyCoefficients) {
		return 0
	}

	return bandEnergyCoefficients[band]
}

func crossCoefficient(pair int) float64 {
	if pair < 0 || pair >= len(bandEnergyCrossCoefficients) {
		return 0
	}

	return bandEnergyCrossCoefficients[pair]
}
