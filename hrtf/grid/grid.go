package grid

import (
	"fmt"
	"math"
	"math/bits"

	"github.com/cwbudde/algo-hrtf/hrtf"
	"github.com/cwbudde/algo-hrtf/hrtf/layout"
)

// DefaultMaxSamples caps the sample buffer when Params.MaxSamples is zero.
const DefaultMaxSamples = 1 << 28

// ChannelMode selects how many receiver channels the grid stores.
type ChannelMode int

const (
	// Mono keeps the first receiver only.
	Mono ChannelMode = iota
	// Stereo keeps both receivers.
	Stereo
)

// Channels returns the number of stored channels.
func (m ChannelMode) Channels() int {
	if m == Stereo {
		return 2
	}
	return 1
}

func (m ChannelMode) String() string {
	if m == Stereo {
		return "stereo"
	}
	return "mono"
}

// Azimuth is one slot on an elevation ring.
type Azimuth struct {
	Azimuth float64 // degrees
	// Index is the storage index the slot owns, or the index it reuses when
	// Alias is set.
	Index int
	Alias bool
}

// Ring is an elevation ring of evenly spaced azimuth slots.
type Ring struct {
	Elevation float64 // degrees
	Azimuths  []Azimuth
}

// Field is a distance shell.
type Field struct {
	Distance float64
	EvStart  int
	Rings    []Ring
}

// Slot is the per-index state shared by all views of a storage index.
type Slot struct {
	Filled bool
	// Delays holds the per-channel delay in seconds.
	Delays [2]float64
}

// Params describes the sample layout of a new grid.
type Params struct {
	Mode     ChannelMode
	Rate     int
	IRPoints int // impulse length in samples at Rate
	FFTSize  int
	// TruncSize is carried for later stages and not used by the allocator.
	TruncSize  int
	HeadRadius float64
	// MaxSamples limits the sample buffer; zero means DefaultMaxSamples.
	MaxSamples int
}

// Grid is the directional grid. It is built single-threaded; afterwards
// stages may touch disjoint storage indices concurrently.
type Grid struct {
	Mode       ChannelMode
	Rate       int
	FFTSize    int
	IRPoints   int
	IRSize     int
	TruncSize  int
	HeadRadius float64

	Fields []Field
	// Slots is indexed by storage index.
	Slots []Slot

	storage []float64
}

// New allocates a grid for the given layout. Every slot on a ring at or
// after the field's start ring gets its own storage index, in field, ring,
// azimuth order; earlier rings alias their mirror ring.
func New(fields []layout.Field, p Params) (*Grid, error) {
	if p.IRPoints <= 0 || p.FFTSize <= 0 {
		return nil, fmt.Errorf("%w: grid needs positive impulse and FFT sizes", hrtf.ErrResource)
	}

	irSize := max(p.FFTSize/2+1, p.IRPoints)

	g := &Grid{
		Mode:       p.Mode,
		Rate:       p.Rate,
		FFTSize:    p.FFTSize,
		IRPoints:   p.IRPoints,
		IRSize:     irSize,
		TruncSize:  p.TruncSize,
		HeadRadius: p.HeadRadius,
		Fields:     make([]Field, len(fields)),
	}

	irCount := 0
	for fi, lf := range fields {
		evCount := lf.EvCount()
		f := Field{Distance: lf.Distance, EvStart: lf.EvStart, Rings: make([]Ring, evCount)}

		for ei := lf.EvStart; ei < evCount; ei++ {
			f.Rings[ei] = newRing(lf.Elevation(ei), lf.AzCounts[ei], irCount)
			irCount += lf.AzCounts[ei]
		}
		for ei := range lf.EvStart {
			f.Rings[ei] = aliasRing(lf.Elevation(ei), f.Rings[lf.Mirror(ei)])
		}

		g.Fields[fi] = f
	}

	limit := p.MaxSamples
	if limit <= 0 {
		limit = DefaultMaxSamples
	}

	n, err := storageLen(p.Mode.Channels(), irCount, irSize)
	if err != nil {
		return nil, err
	}
	if n > limit {
		return nil, fmt.Errorf("%w: %d samples requested, limit %d", hrtf.ErrResource, n, limit)
	}

	g.Slots = make([]Slot, irCount)
	g.storage = make([]float64, n)

	return g, nil
}

func newRing(ev float64, azCount, base int) Ring {
	r := Ring{Elevation: ev, Azimuths: make([]Azimuth, azCount)}
	for ai := range r.Azimuths {
		r.Azimuths[ai] = Azimuth{Azimuth: 360 * float64(ai) / float64(azCount), Index: base + ai}
	}
	return r
}

func aliasRing(ev float64, mirror Ring) Ring {
	r := Ring{Elevation: ev, Azimuths: make([]Azimuth, len(mirror.Azimuths))}
	for ai, az := range mirror.Azimuths {
		r.Azimuths[ai] = Azimuth{Azimuth: az.Azimuth, Index: az.Index, Alias: true}
	}
	return r
}

func storageLen(channels, irCount, irSize int) (int, error) {
	hi, lo := bits.Mul64(uint64(irCount), uint64(irSize))
	if hi == 0 {
		hi, lo = bits.Mul64(lo, uint64(channels))
	}
	if hi != 0 || lo > math.MaxInt {
		return 0, fmt.Errorf("%w: storage size overflows (%d x %d x %d)", hrtf.ErrResource, channels, irCount, irSize)
	}
	return int(lo), nil
}

// Channels returns the number of stored channels.
func (g *Grid) Channels() int { return g.Mode.Channels() }

// IRCount returns the number of storage indices.
func (g *Grid) IRCount() int { return len(g.Slots) }

// StorageLen returns the number of samples in the backing buffer.
func (g *Grid) StorageLen() int { return len(g.storage) }

// IR returns the IRSize-long view of storage index i, channel c. Views of
// different (i, c) pairs never overlap.
func (g *Grid) IR(i, c int) []float64 {
	off := (g.IRCount()*c + i) * g.IRSize
	return g.storage[off : off+g.IRSize : off+g.IRSize]
}

// Slot returns the slot at field fi, ring ei, azimuth ai.
func (g *Grid) Slot(fi, ei, ai int) Azimuth {
	return g.Fields[fi].Rings[ei].Azimuths[ai]
}

// Owned returns the storage indices owned by a slot, ascending. Indices of
// rings that were turned into aliases after allocation are not included.
func (g *Grid) Owned() []int {
	var out []int
	for _, f := range g.Fields {
		for ei := f.EvStart; ei < len(f.Rings); ei++ {
			for _, az := range f.Rings[ei].Azimuths {
				if !az.Alias {
					out = append(out, az.Index)
				}
			}
		}
	}
	return out
}

// SetRate updates the sample rate and impulse length after resampling. The
// impulse length is clamped to IRSize.
func (g *Grid) SetRate(rate, irPoints int) {
	g.Rate = rate
	g.IRPoints = min(irPoints, g.IRSize)
}
