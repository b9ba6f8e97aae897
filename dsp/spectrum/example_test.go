package spectrum_test

import (
	"fmt"

	"github.com/cwbudde/algo-hrtf/dsp/spectrum"
)

func ExampleMagnitudeResponse() {
	bins := []complex128{2, 1i, 0, -1i}
	dst := make([]float64, len(bins)/2+1)
	spectrum.MagnitudeResponse(dst, bins, 1e-9)
	fmt.Println(dst)
	// Output:
	// [2 1 1e-09]
}
