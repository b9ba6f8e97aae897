package resample

import (
	"math"
	"testing"

	"github.com/cwbudde/algo-hrtf/internal/testutil"
)

func TestNewRationalValidation(t *testing.T) {
	if _, err := NewRational(0, 1); err == nil {
		t.Fatal("expected error for up=0")
	}
	if _, err := NewRational(1, 0); err == nil {
		t.Fatal("expected error for down=0")
	}
}

func TestRatioReduction(t *testing.T) {
	r, err := NewRational(320, 294)
	if err != nil {
		t.Fatalf("NewRational() error = %v", err)
	}
	if r.up != 160 || r.down != 147 {
		t.Fatalf("ratio = %d/%d, want 160/147", r.up, r.down)
	}
}

func TestParseQuality(t *testing.T) {
	tests := []struct {
		in      string
		want    Quality
		wantErr bool
	}{
		{"fast", QualityFast, false},
		{" Balanced ", QualityBalanced, false},
		{"", QualityBalanced, false},
		{"BEST", QualityBest, false},
		{"ultra", QualityBalanced, true},
	}
	for _, tc := range tests {
		got, err := ParseQuality(tc.in)
		if (err != nil) != tc.wantErr {
			t.Fatalf("ParseQuality(%q) error = %v, wantErr %v", tc.in, err, tc.wantErr)
		}
		if got != tc.want {
			t.Fatalf("ParseQuality(%q) = %v, want %v", tc.in, got, tc.want)
		}
		if !tc.wantErr && tc.in != "" {
			if back, _ := ParseQuality(got.String()); back != got {
				t.Fatalf("String() %q does not parse back to %v", got.String(), got)
			}
		}
	}
}

func TestQualitySelectsFilterLength(t *testing.T) {
	tests := []struct {
		q    Quality
		taps int
	}{
		{QualityFast, 16},
		{QualityBalanced, 32},
		{QualityBest, 64},
		{Quality(42), 32},
	}
	for _, tc := range tests {
		r, err := NewRational(2, 1, WithQuality(tc.q))
		if err != nil {
			t.Fatalf("NewRational(%v) error = %v", tc.q, err)
		}
		// Branch 0 of a 2x prototype with taps*2+1 coefficients holds taps+1.
		if got := len(r.phases[0]); got != tc.taps+1 {
			t.Fatalf("%v: branch length = %d, want %d", tc.q, got, tc.taps+1)
		}
	}
}

func TestOutputLen(t *testing.T) {
	tests := []struct {
		up, down int
		in       int
		want     int
	}{
		{10, 1, 256, 2560},
		{1, 2, 257, 129},
		{160, 147, 147, 160},
		{160, 147, 0, 0},
	}
	for _, tc := range tests {
		r, err := NewRational(tc.up, tc.down)
		if err != nil {
			t.Fatalf("NewRational(%d,%d) error = %v", tc.up, tc.down, err)
		}
		if got := r.OutputLen(tc.in); got != tc.want {
			t.Fatalf("%d/%d OutputLen(%d) = %d, want %d", tc.up, tc.down, tc.in, got, tc.want)
		}
	}
}

func TestProcessBlockImpulseAlignment(t *testing.T) {
	r, err := NewRational(10, 1)
	if err != nil {
		t.Fatalf("NewRational() error = %v", err)
	}

	for _, k := range []int{0, 1, 7, 31} {
		in := make([]float64, 32)
		in[k] = 1
		out := make([]float64, 10*len(in))
		r.ProcessBlock(out, in)

		peak := 0
		for i := range out {
			if math.Abs(out[i]) > math.Abs(out[peak]) {
				peak = i
			}
		}
		if peak != 10*k {
			t.Fatalf("impulse at %d: peak at %d, want %d", k, peak, 10*k)
		}
	}
}

func TestProcessBlockUnityGainUpsampling(t *testing.T) {
	r, err := NewRational(10, 1)
	if err != nil {
		t.Fatalf("NewRational() error = %v", err)
	}
	in := testutil.DC(1, 256)
	out := make([]float64, 10*len(in))
	r.ProcessBlock(out, in)

	// Away from the edges the DC level must be preserved.
	testutil.RequireSliceNearlyEqual(t, out[800:1800], testutil.DC(1, 1000), 1e-3)
}

func TestProcessBlockOutputBeyondInputDecays(t *testing.T) {
	r, err := NewRational(2, 1)
	if err != nil {
		t.Fatalf("NewRational() error = %v", err)
	}
	in := sine(1000, 48000, 64)
	out := make([]float64, 1024)
	r.ProcessBlock(out, in)

	for i := 512; i < len(out); i++ {
		if out[i] != 0 {
			t.Fatalf("out[%d] = %v, want 0 past the filter tail", i, out[i])
		}
	}
}

func TestProcessBlockEmptyInput(t *testing.T) {
	r, err := NewRational(3, 2)
	if err != nil {
		t.Fatalf("NewRational() error = %v", err)
	}
	out := []float64{1, 2, 3}
	r.ProcessBlock(out, nil)
	for i, v := range out {
		if v != 0 {
			t.Fatalf("out[%d] = %v, want 0", i, v)
		}
	}
}

func TestStandardRatios_Length(t *testing.T) {
	tests := []struct {
		inRate  int
		outRate int
	}{
		{44100, 48000},
		{48000, 44100},
		{48000, 96000},
		{96000, 48000},
	}
	for _, tc := range tests {
		r, err := NewRational(tc.outRate, tc.inRate, WithQuality(QualityBalanced))
		if err != nil {
			t.Fatalf("NewRational(%v,%v) error = %v", tc.outRate, tc.inRate, err)
		}
		n := r.OutputLen(4096)
		expected := int(math.Round(4096 * float64(tc.outRate) / float64(tc.inRate)))
		if d := absInt(n - expected); d > 1 {
			t.Fatalf("%v->%v len=%d expected~%d", tc.inRate, tc.outRate, n, expected)
		}
	}
}

func TestProcessBlockReusable(t *testing.T) {
	r, err := NewRational(160, 147)
	if err != nil {
		t.Fatalf("NewRational() error = %v", err)
	}
	in := sine(1000, 44100, 512)
	a := make([]float64, r.OutputLen(len(in)))
	b := make([]float64, len(a))
	r.ProcessBlock(a, in)
	r.ProcessBlock(b, in)
	testutil.RequireSliceNearlyEqual(t, b, a, 0)
}

func sine(freq, sampleRate float64, n int) []float64 {
	return testutil.DeterministicSine(freq, sampleRate, 1, n)
}

func rms(x []float64) float64 {
	if len(x) == 0 {
		return 0
	}
	var s float64
	for _, v := range x {
		s += v * v
	}
	return math.Sqrt(s / float64(len(x)))
}

func dbRatio(out, in float64) float64 {
	if in == 0 || out == 0 {
		return -300
	}
	return 20 * math.Log10(out/in)
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
