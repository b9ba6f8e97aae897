package grid

import (
	"fmt"
	"strings"

	"github.com/cwbudde/algo-hrtf/hrtf"
)

// Any marks a wildcard ring or azimuth in a Coord.
const Any = -1

// Coord addresses a slot by field, ring and azimuth index.
type Coord struct {
	Field, Ev, Az int
}

func (c Coord) String() string {
	part := func(v int) string {
		if v == Any {
			return "  *"
		}
		return fmt.Sprintf("%3d", v)
	}
	return "[" + part(c.Field) + "," + part(c.Ev) + "," + part(c.Az) + " ]"
}

// CompletenessError lists every slot left without a measurement.
type CompletenessError struct {
	Missing []Coord
}

const maxListed = 8

func (e *CompletenessError) Error() string {
	var b strings.Builder
	b.WriteString("missing source references ")
	for i, c := range e.Missing {
		if i == maxListed {
			fmt.Fprintf(&b, " and %d more", len(e.Missing)-maxListed)
			break
		}
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(c.String())
	}
	return b.String()
}

func (e *CompletenessError) Unwrap() error { return hrtf.ErrIncomplete }

// CheckComplete verifies that every measured ring is fully populated.
//
// For each field the first ring, from the layout's start ring upwards, that
// holds any measurement becomes the new start ring. Every slot from there on
// must be filled. Rings below the new start are rebuilt as aliases of their
// mirror ring. A field without any measurement is reported as [fi, *, *].
// The start ring may not move past the equator, since the mirror of a lower
// ring must itself be measured.
func CheckComplete(g *Grid) error {
	var missing []Coord

	for fi := range g.Fields {
		f := &g.Fields[fi]
		evCount := len(f.Rings)

		start := f.EvStart
		for ; start < evCount; start++ {
			if g.ringHasData(f.Rings[start]) {
				break
			}
		}
		if start == evCount {
			missing = append(missing, Coord{Field: fi, Ev: Any, Az: Any})
			continue
		}

		if start > (evCount-1)/2 {
			for ei := f.EvStart; ei <= (evCount-1)/2; ei++ {
				missing = g.appendMissing(missing, fi, ei)
			}
			continue
		}

		before := len(missing)
		for ei := start; ei < evCount; ei++ {
			missing = g.appendMissing(missing, fi, ei)
		}
		if len(missing) > before {
			continue
		}

		if start > f.EvStart {
			f.EvStart = start
			for ei := range start {
				f.Rings[ei] = aliasRing(f.Rings[ei].Elevation, f.Rings[evCount-1-ei])
			}
		}
	}

	if len(missing) > 0 {
		return &CompletenessError{Missing: missing}
	}
	return nil
}

func (g *Grid) ringHasData(r Ring) bool {
	for _, az := range r.Azimuths {
		if !az.Alias && g.Slots[az.Index].Filled {
			return true
		}
	}
	return false
}

func (g *Grid) appendMissing(missing []Coord, fi, ei int) []Coord {
	for ai, az := range g.Fields[fi].Rings[ei].Azimuths {
		if !g.Slots[az.Index].Filled {
			missing = append(missing, Coord{Field: fi, Ev: ei, Az: ai})
		}
	}
	return missing
}
