package tax

import "math"

// RoundPenny rounds a monetary amount to the nearest penny.
func RoundPenny(v float64) float64 {
	return math.Round(v*100) / 100
}
