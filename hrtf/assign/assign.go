// Package assign snaps measurements onto the slots of a directional grid
// and copies (or resamples) their impulse responses into grid storage.
package assign

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-hrtf/dsp/resample"
	"github.com/cwbudde/algo-hrtf/hrtf"
	"github.com/cwbudde/algo-hrtf/hrtf/coord"
	"github.com/cwbudde/algo-hrtf/hrtf/grid"
	"github.com/cwbudde/algo-hrtf/hrtf/progress"
	"github.com/cwbudde/algo-hrtf/hrtf/sofa"
)

// Snapping tolerances.
const (
	radiusEpsilon = 0.001
	angleEpsilon  = 0.1
	poleLimit     = 89.999
)

// DuplicateError reports a second measurement for an already filled slot.
type DuplicateError struct {
	// Position is the measurement position after azimuth normalization.
	Position coord.Polar
	Slot     grid.Coord
}

func (e *DuplicateError) Error() string {
	return fmt.Sprintf("multiple measurements near [ %5.1f, %5.1f, %5.2f ]",
		e.Position.Azimuth, e.Position.Elevation, e.Position.Radius)
}

func (e *DuplicateError) Unwrap() error { return hrtf.ErrDuplicate }

// Result summarizes an assignment run.
type Result struct {
	Assigned int
	// Skipped counts measurements that matched no field, fell between
	// rings or azimuths, or landed on a mirrored ring.
	Skipped int
}

// Assign places every measurement of d onto g in source order. When outRate
// is positive and differs from the source rate, each response is resampled
// to fill the whole slot and the grid's rate and impulse length are updated
// afterwards using a resampler of quality q. Delays are taken from the
// dataset and divided by the source rate. c is incremented once per
// measurement and may be nil.
func Assign(g *grid.Grid, d *sofa.Dataset, h sofa.Header, outRate int, q resample.Quality, c *progress.Counter) (Result, error) {
	positions, err := d.Positions()
	if err != nil {
		return Result{}, err
	}

	var rs *resample.Resampler
	if outRate > 0 && outRate != h.Rate {
		rs, err = resample.NewRational(outRate, h.Rate, resample.WithQuality(q))
		if err != nil {
			return Result{}, fmt.Errorf("%w: resampler %d -> %d: %v", hrtf.ErrResource, h.Rate, outRate, err)
		}
	}

	var res Result
	srcRate := float64(h.Rate)

	for m, p := range positions {
		c.Inc()

		p = normalize(p)

		sc, ok := locate(g, p)
		if !ok {
			res.Skipped++
			continue
		}

		idx := g.Slot(sc.Field, sc.Ev, sc.Az).Index
		slot := &g.Slots[idx]
		if slot.Filled {
			return res, &DuplicateError{Position: p, Slot: sc}
		}

		for ch := range g.Channels() {
			src := d.Response(m, ch)
			dst := g.IR(idx, ch)
			if rs != nil {
				rs.ProcessBlock(dst, src)
			} else {
				copy(dst, src)
			}

			switch h.Delay {
			case sofa.DelayPerChannel:
				slot.Delays[ch] = d.Delay.Values[ch] / srcRate
			case sofa.DelayPerMeasurement:
				slot.Delays[ch] = d.Delay.Values[m*d.Receivers+ch] / srcRate
			}
		}

		slot.Filled = true
		res.Assigned++
	}

	if rs != nil {
		g.SetRate(outRate, rs.OutputLen(g.IRPoints))
	}

	return res, nil
}

// normalize turns a SOFA position into grid convention: azimuth runs
// clockwise and is fixed at 0 on the poles.
func normalize(p coord.Polar) coord.Polar {
	if math.Abs(p.Elevation) >= poleLimit {
		p.Azimuth = 0
	} else {
		p.Azimuth = math.Mod(360-p.Azimuth, 360)
	}
	return p
}

// locate returns the owned slot nearest to p, if p is within tolerance of
// one.
func locate(g *grid.Grid, p coord.Polar) (grid.Coord, bool) {
	fi := -1
	for i, f := range g.Fields {
		if math.Abs(p.Radius-f.Distance) < radiusEpsilon {
			fi = i
			break
		}
	}
	if fi < 0 {
		return grid.Coord{}, false
	}
	f := g.Fields[fi]

	evScale := 180 / float64(len(f.Rings)-1)
	ef := (90 + p.Elevation) / evScale
	eir := math.Round(ef)
	if math.Abs(ef-eir)*evScale >= angleEpsilon {
		return grid.Coord{}, false
	}
	ei := int(eir)
	if ei < f.EvStart || ei >= len(f.Rings) {
		return grid.Coord{}, false
	}

	ring := f.Rings[ei]
	azCount := len(ring.Azimuths)
	azScale := 360 / float64(azCount)
	af := p.Azimuth / azScale
	air := math.Round(af)
	if math.Abs(af-air)*azScale >= angleEpsilon {
		return grid.Coord{}, false
	}
	ai := int(air) % azCount

	if ring.Azimuths[ai].Alias {
		return grid.Coord{}, false
	}
	return grid.Coord{Field: fi, Ev: ei, Az: ai}, true
}
