package testutil

import (
	"math"
	"testing"

	"github.com/cwbudde/algo-hrtf/hrtf/coord"
)

// RequireSliceNearlyEqual fails t if got and want differ in length or if
// any element pair exceeds eps (absolute tolerance).
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

// RequireNear fails t if |got-want| > eps. what names the checked quantity.
func RequireNear(t *testing.T, what string, got, want, eps float64) {
	t.Helper()
	if diff := math.Abs(got - want); diff > eps {
		t.Fatalf("%s = %v, want %v (diff %v > eps %v)", what, got, want, diff, eps)
	}
}

// AngleDiff returns the smallest absolute difference between two angles in
// degrees, so 359.9 and 0.1 are 0.2 apart.
func AngleDiff(a, b float64) float64 {
	d := math.Mod(math.Abs(a-b), 360)
	return math.Min(d, 360-d)
}

// RequirePolarNear fails t if got and want are not the same direction and
// distance within eps. Azimuth is ignored at the poles.
func RequirePolarNear(t *testing.T, got, want coord.Polar, eps float64) {
	t.Helper()
	if math.Abs(got.Radius-want.Radius) > eps || math.Abs(got.Elevation-want.Elevation) > eps {
		t.Fatalf("position = %+v, want %+v", got, want)
	}
	if math.Abs(want.Elevation) < 89 && AngleDiff(got.Azimuth, want.Azimuth) > eps {
		t.Fatalf("azimuth = %v, want %v", got.Azimuth, want.Azimuth)
	}
}
