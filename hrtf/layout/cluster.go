package layout

import (
	"math"

	"github.com/cwbudde/algo-hrtf/hrtf/coord"
)

// Matching tolerances.
const (
	radiusEpsilon = 0.001
	angleEpsilon  = 0.1
)

// minCoverage is the share of values that must sit on a step lattice for the
// step to count as uniform.
const minCoverage = 0.9

// filter restricts a scan to positions near a given elevation and/or radius.
type filter struct {
	elevation *float64
	radius    *float64
}

func (f filter) match(p coord.Polar) bool {
	if f.elevation != nil && math.Abs(p.Elevation-*f.elevation) > angleEpsilon {
		return false
	}
	if f.radius != nil && math.Abs(p.Radius-*f.radius) > radiusEpsilon {
		return false
	}
	return true
}

// uniqueSorted returns the ascending distinct values of one coordinate over
// the positions accepted by f. Values within eps of an already collected
// value are merged into it (the first one seen wins).
func uniqueSorted(points []coord.Polar, f filter, eps float64, value func(coord.Polar) float64) []float64 {
	var elems []float64

	for _, p := range points {
		if !f.match(p) {
			continue
		}

		v := value(p)
		i := 0
		for ; i < len(elems); i++ {
			delta := v - elems[i]
			if delta > eps {
				continue
			}
			if delta >= -eps {
				break
			}
			elems = append(elems, 0)
			copy(elems[i+1:], elems[i:])
			elems[i] = v
			break
		}
		if i == len(elems) {
			elems = append(elems, v)
		}
	}

	return elems
}

// azimuthOf folds azimuths just below 360 onto 0 so a ring measured with a
// slightly negative first azimuth still starts at 0.
func azimuthOf(p coord.Polar) float64 {
	if p.Azimuth > 360-angleEpsilon {
		return p.Azimuth - 360
	}
	return p.Azimuth
}

func elevationOf(p coord.Polar) float64 { return p.Elevation }
func radiusOf(p coord.Polar) float64    { return p.Radius }

// uniformStep returns the spacing of a sorted list when the list fits a
// regular lattice, or 0 when it does not. Consecutive differences are grouped
// within eps; candidates are tried from most to least frequent and the first
// one whose lattice (anchored at elems[0]) holds at least 90% of the values
// wins. Values off the lattice are tolerated as outliers.
func uniformStep(eps float64, elems []float64) float64 {
	if len(elems) < 2 {
		return 0
	}

	type bucket struct {
		sum   float64
		count int
	}

	var buckets []bucket

	for i := 1; i < len(elems); i++ {
		d := elems[i] - elems[i-1]

		j := 0
		for ; j < len(buckets); j++ {
			mean := buckets[j].sum / float64(buckets[j].count)
			if math.Abs(d-mean) < eps {
				buckets[j].sum += d
				buckets[j].count++
				break
			}
		}
		if j == len(buckets) {
			buckets = append(buckets, bucket{sum: d, count: 1})
		}
	}

	tried := make([]bool, len(buckets))
	for range buckets {
		best := -1
		for j, b := range buckets {
			if tried[j] {
				continue
			}
			if best < 0 || b.count > buckets[best].count ||
				(b.count == buckets[best].count && b.sum/float64(b.count) < buckets[best].sum/float64(buckets[best].count)) {
				best = j
			}
		}
		tried[best] = true

		step := buckets[best].sum / float64(buckets[best].count)
		if step < eps {
			continue
		}

		on := 0
		for _, v := range elems {
			k := math.Round((v - elems[0]) / step)
			if math.Abs(v-elems[0]-k*step) < eps {
				on++
			}
		}
		if float64(on) >= minCoverage*float64(len(elems)) {
			return step
		}
	}

	return 0
}
