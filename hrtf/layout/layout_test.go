package layout

import (
	"errors"
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/cwbudde/algo-hrtf/hrtf"
	"github.com/cwbudde/algo-hrtf/hrtf/coord"
	"github.com/cwbudde/algo-hrtf/internal/testutil"
)

func TestInferDefaultSphere(t *testing.T) {
	fields, err := Infer(testutil.DefaultSphere().Positions())
	if err != nil {
		t.Fatalf("Infer() error = %v", err)
	}

	want := []Field{{
		Distance: 1,
		EvStart:  3,
		AzCounts: []int{1, 2, 4, 6, 7, 8, 8, 8, 7, 6, 4, 2, 1},
	}}
	if diff := cmp.Diff(want, fields, cmp.Comparer(func(a, b float64) bool {
		return math.Abs(a-b) < 1e-9
	})); diff != "" {
		t.Fatalf("Infer() mismatch (-want +got):\n%s", diff)
	}

	if got := fields[0].Measured(); got != 57 {
		t.Fatalf("Measured() = %d, want 57", got)
	}
	if got := fields[0].Elevation(3); math.Abs(got+45) > 1e-12 {
		t.Fatalf("Elevation(3) = %v, want -45", got)
	}
}

func TestInferIsIdempotent(t *testing.T) {
	s := testutil.DefaultSphere()
	s.Radii = []float64{0.5, 1, 1.5}
	positions := s.Positions()

	a, err := Infer(positions)
	if err != nil {
		t.Fatalf("Infer() error = %v", err)
	}
	b, err := Infer(positions)
	if err != nil {
		t.Fatalf("second Infer() error = %v", err)
	}
	if diff := cmp.Diff(a, b); diff != "" {
		t.Fatalf("Infer() not idempotent (-first +second):\n%s", diff)
	}
	if len(a) != 3 || a[0].Distance != 0.5 || a[2].Distance != 1.5 {
		t.Fatalf("fields not ordered by distance: %+v", a)
	}
}

func TestInferFullSphere(t *testing.T) {
	s := testutil.DefaultSphere()
	s.MinEv = -90
	fields, err := Infer(s.Positions())
	if err != nil {
		t.Fatalf("Infer() error = %v", err)
	}
	if fields[0].EvStart != 0 {
		t.Fatalf("EvStart = %d, want 0", fields[0].EvStart)
	}
	if fields[0].AzCounts[0] != 1 {
		t.Fatalf("south pole az count = %d, want 1", fields[0].AzCounts[0])
	}
}

func TestInferToleratesJitter(t *testing.T) {
	clean := testutil.DefaultSphere().Positions()
	noise := testutil.DeterministicNoise(7, 0.03, 2*len(clean))

	noisy := make([]coord.Polar, len(clean))
	for i, p := range clean {
		if math.Abs(p.Elevation) < 89.9 {
			p.Elevation += noise[2*i]
			p.Azimuth = math.Mod(p.Azimuth+noise[2*i+1]+360, 360)
		}
		noisy[i] = p
	}

	want, err := Infer(clean)
	if err != nil {
		t.Fatalf("Infer(clean) error = %v", err)
	}
	got, err := Infer(noisy)
	if err != nil {
		t.Fatalf("Infer(noisy) error = %v", err)
	}
	if diff := cmp.Diff(want[0].AzCounts, got[0].AzCounts); diff != "" {
		t.Fatalf("jitter changed layout (-clean +noisy):\n%s", diff)
	}
	if got[0].EvStart != want[0].EvStart {
		t.Fatalf("EvStart = %d, want %d", got[0].EvStart, want[0].EvStart)
	}
}

func TestInferTooManyFields(t *testing.T) {
	s := testutil.DefaultSphere()
	s.Radii = nil
	for i := range MaxFieldCount + 1 {
		s.Radii = append(s.Radii, 0.5+0.1*float64(i))
	}

	_, err := Infer(s.Positions())
	if !errors.Is(err, hrtf.ErrLayout) {
		t.Fatalf("Infer() error = %v, want ErrLayout", err)
	}
}

func TestInferCountsUnusableRadii(t *testing.T) {
	s := testutil.DefaultSphere()
	s.Radii = nil
	for i := range MaxFieldCount {
		s.Radii = append(s.Radii, 0.5+0.1*float64(i))
	}
	positions := append(s.Positions(), coord.Polar{Azimuth: 30, Elevation: 10, Radius: 9})

	_, err := Infer(positions)
	if !errors.Is(err, hrtf.ErrLayout) {
		t.Fatalf("Infer() error = %v, want ErrLayout", err)
	}

	fields, err := Infer(s.Positions())
	if err != nil {
		t.Fatalf("Infer() without stray shell error = %v", err)
	}
	if len(fields) != MaxFieldCount {
		t.Fatalf("fields = %d, want %d", len(fields), MaxFieldCount)
	}
}

func TestInferRandomPositions(t *testing.T) {
	noise := testutil.DeterministicNoise(42, 1, 300)
	positions := make([]coord.Polar, 100)
	for i := range positions {
		positions[i] = coord.Polar{
			Azimuth:   180 + 180*noise[3*i],
			Elevation: 90 * noise[3*i+1],
			Radius:    1 + 0.5*noise[3*i+2],
		}
	}

	_, err := Infer(positions)
	if !errors.Is(err, hrtf.ErrLayout) {
		t.Fatalf("Infer() error = %v, want ErrLayout", err)
	}
}

func TestInferUpperHemisphereOnly(t *testing.T) {
	s := testutil.DefaultSphere()
	s.MinEv = 0

	_, err := Infer(s.Positions())
	if !errors.Is(err, hrtf.ErrLayout) {
		t.Fatalf("Infer() error = %v, want ErrLayout", err)
	}
}

func TestInferNonUniformAzimuths(t *testing.T) {
	var positions []coord.Polar
	for _, p := range testutil.DefaultSphere().Positions() {
		if p.Elevation == 0 {
			continue
		}
		positions = append(positions, p)
	}
	for _, az := range []float64{0, 10, 55, 200, 270} {
		positions = append(positions, coord.Polar{Azimuth: az, Elevation: 0, Radius: 1})
	}

	_, err := Infer(positions)
	if !errors.Is(err, hrtf.ErrLayout) {
		t.Fatalf("Infer() error = %v, want ErrLayout", err)
	}
}

func TestInferSkipsShellWithTooFewRings(t *testing.T) {
	s := testutil.DefaultSphere()
	positions := s.Positions()

	// A second shell with rings every 60 degrees yields only four rings.
	for _, ev := range []float64{-30, 30} {
		for ai := range 4 {
			positions = append(positions, coord.Polar{Azimuth: 90 * float64(ai), Elevation: ev, Radius: 2})
		}
	}
	positions = append(positions, coord.Polar{Elevation: 90, Radius: 2})

	fields, err := Infer(positions)
	if err != nil {
		t.Fatalf("Infer() error = %v", err)
	}
	if len(fields) != 1 || fields[0].Distance != 1 {
		t.Fatalf("fields = %+v, want only the 1 m shell", fields)
	}
}

func TestUniformStep(t *testing.T) {
	tests := []struct {
		name  string
		elems []float64
		want  float64
	}{
		{"regular", []float64{0, 30, 60, 90}, 30},
		{"gap", []float64{0, 30, 60, 120, 150, 180, 210, 240, 270, 300}, 30},
		{"finer lattice", []float64{0, 30, 60, 75, 120}, 15},
		{"single", []float64{10}, 0},
		{"too close", []float64{0, 0.05}, 0},
		{"irregular", []float64{0, 10, 55, 200, 270}, 0},
	}
	for _, tc := range tests {
		got := uniformStep(angleEpsilon, tc.elems)
		if math.Abs(got-tc.want) > 1e-9 {
			t.Fatalf("%s: uniformStep(%v) = %v, want %v", tc.name, tc.elems, got, tc.want)
		}
	}
}

func TestUniqueSortedMerges(t *testing.T) {
	points := []coord.Polar{{Azimuth: 10}, {Azimuth: 10.05}, {Azimuth: 5}, {Azimuth: 20}, {Azimuth: 4.95}}
	got := uniqueSorted(points, filter{}, angleEpsilon, azimuthOf)
	want := []float64{5, 10, 20}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("uniqueSorted mismatch (-want +got):\n%s", diff)
	}
}
