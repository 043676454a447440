package tos

import "math"

// NormalizeRiskScore rounds a raw model score to the nearest multiple of 10
// (halves away from zero) and clamps it to [0,100].
func NormalizeRiskScore(raw float64) int {
	if math.IsNaN(raw) {
		return 0
	}
	r := math.Round(raw/10) * 10
	switch {
	case r < 0:
		return 0
	case r > 100:
		return 100
	}
	return int(r)
}
