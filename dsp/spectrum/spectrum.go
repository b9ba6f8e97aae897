package spectrum

import (
	"sync"

	"github.com/cwbudde/algo-vecmath"
)

// scratchBuf holds pooled scratch memory for complex-to-real unpacking.
type scratchBuf struct {
	data []float64
}

var scratchPool = sync.Pool{
	New: func() any { return &scratchBuf{} },
}

func getScratch(n int) (re, im []float64, buf *scratchBuf) {
	buf = scratchPool.Get().(*scratchBuf)
	need := 2 * n
	if cap(buf.data) < need {
		buf.data = make([]float64, need)
	} else {
		buf.data = buf.data[:need]
	}
	return buf.data[:n], buf.data[n:need], buf
}

func putScratch(buf *scratchBuf) {
	scratchPool.Put(buf)
}

// MagnitudeInto writes |X[k]| for the first len(dst) bins of in into dst.
// dst must not be longer than in. It does not allocate in steady state, which
// makes it suitable for per-item use inside worker loops.
func MagnitudeInto(dst []float64, in []complex128) {
	n := len(dst)
	if n == 0 {
		return
	}

	re, im, buf := getScratch(n)

	for i, c := range in[:n] {
		re[i] = real(c)
		im[i] = imag(c)
	}

	vecmath.Magnitude(dst, re, im)
	putScratch(buf)
}

// MagnitudeResponse writes the single-sided magnitude response of a
// full-length spectrum into dst, clamping every value to at least floor.
// dst normally holds len(in)/2+1 bins (DC through Nyquist).
func MagnitudeResponse(dst []float64, in []complex128, floor float64) {
	MagnitudeInto(dst, in)

	for i, v := range dst {
		if v < floor {
			dst[i] = floor
		}
	}
}
