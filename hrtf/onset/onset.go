// Package onset refines per-slot delays with the position of each impulse
// response's peak.
package onset

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-hrtf/dsp/resample"
	"github.com/cwbudde/algo-hrtf/hrtf"
	"github.com/cwbudde/algo-hrtf/hrtf/grid"
	"github.com/cwbudde/algo-hrtf/hrtf/progress"
)

// Oversampling is the factor applied before searching for the peak.
const Oversampling = 10

// Estimate upsamples the first IRPoints samples of every owned slot and
// channel by Oversampling, finds the first sample of largest magnitude and
// adds its time to the slot's delay. q selects the interpolation filter. c is
// incremented once per slot and may be nil.
func Estimate(g *grid.Grid, q resample.Quality, c *progress.Counter) error {
	rs, err := resample.NewRational(Oversampling, 1, resample.WithQuality(q))
	if err != nil {
		return fmt.Errorf("%w: onset resampler: %v", hrtf.ErrResource, err)
	}

	up := make([]float64, Oversampling*g.IRPoints)
	rate := float64(Oversampling * g.Rate)

	for _, i := range g.Owned() {
		for ch := range g.Channels() {
			rs.ProcessBlock(up, g.IR(i, ch)[:g.IRPoints])
			g.Slots[i].Delays[ch] += float64(Peak(up)) / rate
		}
		c.Inc()
	}

	return nil
}

// Peak returns the index of the first sample with the largest magnitude, or
// 0 for an empty slice.
func Peak(x []float64) int {
	best, at := -1.0, 0
	for i, v := range x {
		if a := math.Abs(v); a > best {
			best, at = a, i
		}
	}
	return at
}
