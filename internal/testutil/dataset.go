package testutil

import (
	"math"

	"github.com/cwbudde/algo-hrtf/hrtf/coord"
	"github.com/cwbudde/algo-hrtf/hrtf/sofa"
)

// Sphere describes a synthetic measurement set laid out on regular rings.
type Sphere struct {
	Rate      float64
	Receivers int
	Samples   int
	Radii     []float64
	// EvStep is the elevation spacing in degrees; rings run from MinEv up
	// to +90.
	EvStep float64
	MinEv  float64
	// AzBase is the azimuth count on the horizontal plane; other rings use
	// round(AzBase*cos(elevation)), with at least one azimuth.
	AzBase int
	// Response returns the impulse for measurement m, receiver r. When nil,
	// DefaultResponse is used.
	Response func(m, r, n int) []float64
}

// DefaultSphere returns a small stereo set: one shell at 1 m, rings every
// 15 degrees from -45 to +90 and 8 azimuths on the horizontal plane.
func DefaultSphere() Sphere {
	return Sphere{
		Rate:      48000,
		Receivers: 2,
		Samples:   32,
		Radii:     []float64{1},
		EvStep:    15,
		MinEv:     -45,
		AzBase:    8,
	}
}

// DefaultResponse places a unit impulse for receiver 0 and a half-amplitude
// one for receiver 1 at a position that depends on the measurement index.
func DefaultResponse(m, r, n int) []float64 {
	amp := 1.0
	if r == 1 {
		amp = 0.5
	}
	out := Impulse(n, 1+m%(n/2))
	out[1+m%(n/2)] = amp
	return out
}

// AzCount returns the number of azimuths the sphere uses at elevation ev.
func (s Sphere) AzCount(ev float64) int {
	if math.Abs(ev) > 89.999 {
		return 1
	}
	return max(1, int(math.Round(float64(s.AzBase)*math.Cos(ev*math.Pi/180))))
}

// Positions returns the polar positions in measurement order.
func (s Sphere) Positions() []coord.Polar {
	var out []coord.Polar
	for _, r := range s.Radii {
		for ev := s.MinEv; ev <= 90+1e-9; ev += s.EvStep {
			n := s.AzCount(ev)
			for ai := range n {
				out = append(out, coord.Polar{Azimuth: 360 * float64(ai) / float64(n), Elevation: ev, Radius: r})
			}
		}
	}
	return out
}

// Dataset builds the sphere as a dataset with Cartesian positions and one
// zero delay per receiver.
func (s Sphere) Dataset() *sofa.Dataset {
	return BuildDataset(s.Rate, s.Receivers, s.Samples, s.Positions(), s.response())
}

func (s Sphere) response() func(m, r, n int) []float64 {
	if s.Response != nil {
		return s.Response
	}
	return DefaultResponse
}

// BuildDataset assembles a well-formed dataset from explicit positions.
func BuildDataset(rate float64, receivers, samples int, positions []coord.Polar, response func(m, r, n int) []float64) *sofa.Dataset {
	d := &sofa.Dataset{
		Emitters:     1,
		Receivers:    receivers,
		Measurements: len(positions),
		Samples:      samples,
		SourcePosition: sofa.Array{
			Attributes: []sofa.Attribute{{Name: "Type", Value: "cartesian"}},
		},
		SampleRate: sofa.Array{
			Values: []float64{rate},
			Attributes: []sofa.Attribute{
				{Name: "DIMENSION_LIST", Value: "I"},
				{Name: "Units", Value: "hertz"},
			},
		},
		Delay: sofa.Array{
			Values:     make([]float64, receivers),
			Attributes: []sofa.Attribute{{Name: "DIMENSION_LIST", Value: "I,R"}},
		},
		IR: sofa.Array{
			Attributes: []sofa.Attribute{{Name: "DIMENSION_LIST", Value: "M,R,N"}},
		},
	}

	for m, p := range positions {
		v := p.Cartesian()
		d.SourcePosition.Values = append(d.SourcePosition.Values, v.X, v.Y, v.Z)
		for r := range receivers {
			d.IR.Values = append(d.IR.Values, response(m, r, samples)...)
		}
	}

	return d
}
