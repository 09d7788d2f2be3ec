package freq

import "math"

// Percentile computes the rank-based percentile with linear interpolation
// over an ascending-sorted slice. Position is (p/100)*(n+1), 1-indexed,
// clamped to the first and last elements, interpolated between the floor
// and ceil ranks by the fractional part otherwise
func Percentile(sorted []float64, p float64) float64 {
	n := len(sorted)
	if n == 0 {
		return 0
	}
	if n == 1 {
		return sorted[0]
	}

	pos := (p / 100) * float64(n+1)
	if pos <= 1 {
		return sorted[0]
	}
	if pos >= float64(n) {
		return sorted[n-1]
	}

	lower := math.Floor(pos)
	frac := pos - lower
	i := int(lower) - 1 // to 0-indexed
	return sorted[i] + frac*(sorted[i+1]-sorted[i])
}
