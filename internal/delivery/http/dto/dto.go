package dto

import "math"

// Round2 rounds a monetary figure to two decimals. Applied only here at the
// presentation boundary; intermediate calculations keep full precision.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}
