package freq

import (
	"math"
	"testing"
)

func almostEqual(a, b float64) bool { return math.Abs(a-b) < 1e-9 }

func TestPercentileOddSet(t *testing.T) {
	vals := []float64{10, 20, 30, 40, 50}
	if got := Percentile(vals, 50); !almostEqual(got, 30) {
		t.Fatalf("P50 of %v = %v, want 30", vals, got)
	}
}

func TestPercentileInterpolation(t *testing.T) {
	vals := []float64{10, 20, 30, 40}
	// position = 0.5 * 5 = 2.5 -> 20 + 0.5*(30-20) = 25
	if got := Percentile(vals, 50); !almostEqual(got, 25) {
		t.Fatalf("P50 of %v = %v, want 25", vals, got)
	}
	// position = 0.9 * 5 = 4.5 -> clamps to last element
	if got := Percentile(vals, 90); !almostEqual(got, 40) {
		t.Fatalf("P90 of %v = %v, want 40", vals, got)
	}
	// position = 0.1 * 5 = 0.5 -> clamps to first element
	if got := Percentile(vals, 10); !almostEqual(got, 10) {
		t.Fatalf("P10 of %v = %v, want 10", vals, got)
	}
}

func TestPercentileEdges(t *testing.T) {
	if got := Percentile(nil, 50); got != 0 {
		t.Fatalf("empty slice P50 = %v, want 0", got)
	}
	if got := Percentile([]float64{7}, 99); !almostEqual(got, 7) {
		t.Fatalf("single element P99 = %v, want 7", got)
	}
	vals := []float64{1, 2, 3}
	if got := Percentile(vals, 0); !almostEqual(got, 1) {
		t.Fatalf("P0 = %v, want 1", got)
	}
	if got := Percentile(vals, 100); !almostEqual(got, 3) {
		t.Fatalf("P100 = %v, want 3", got)
	}
}

func TestPercentileLargerSet(t *testing.T) {
	vals := make([]float64, 9)
	for i := range vals {
		vals[i] = float64((i + 1) * 10) // 10..90
	}
	// position = 0.9 * 10 = 9 -> exactly the 9th value
	if got := Percentile(vals, 90); !almostEqual(got, 90) {
		t.Fatalf("P90 = %v, want 90", got)
	}
	// position = 0.25 * 10 = 2.5 -> 20 + 0.5*10 = 25
	if got := Percentile(vals, 25); !almostEqual(got, 25) {
		t.Fatalf("P25 = %v, want 25", got)
	}
}
