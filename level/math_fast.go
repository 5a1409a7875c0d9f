//go:build fastmath

package level

import "github.com/meko-christian/algo-approx"

// sqrt computes sqrt(x) using fast approximation.
func sqrt(x float64) float64 {
	return approx.FastSqrt(x)
}
