package testutil

import (
	"math"
	"testing"
)

// RequireSliceNearlyEqual fails t if got and want differ in length or
// any element pair differs by more than eps.
func RequireSliceNearlyEqual(t *testing.T, got, want []float64, eps float64) {
	t.Helper()

	if len(got) != len(want) {
		t.Fatalf("length mismatch: got %d, want %d", len(got), len(want))
	}

	for i := range got {
		diff := math.Abs(got[i] - want[i])
		if diff > eps {
			t.Fatalf("index %d: got %v, want %v (diff %v > eps %v)", i, got[i], want[i], diff, eps)
		}
	}
}

// RequireFinite fails t if any element is NaN or Inf.
func RequireFinite(t *testing.T, data []float64) {
	t.Helper()

	for i, v := range data {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			t.Fatalf("index %d: non-finite value %v", i, v)
		}
	}
}

// RequireSilent fails t if any element's magnitude exceeds eps.
func RequireSilent(t *testing.T, data []float64, eps float64) {
	t.Helper()

	for i, v := range data {
		if math.Abs(v) > eps {
			t.Fatalf("index %d: %v louder than %v", i, v, eps)
		}
	}
}

// PeakLevel returns the largest absolute value in the buffer.
func PeakLevel(data []float64) float64 {
	peak := 0.0

	for _, v := range data {
		if a := math.Abs(v); a > peak {
			peak = a
		}
	}

	return peak
}
