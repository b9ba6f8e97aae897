// Package coord converts measurement positions between Cartesian and
// spherical form using the SOFA conventions: azimuth counter-clockwise from
// +X in [0, 360), elevation from the horizontal plane in [-90, 90], both in
// degrees, radius in metres.
package coord

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// Polar is a spherical position.
type Polar struct {
	Azimuth   float64 // degrees, [0, 360)
	Elevation float64 // degrees, [-90, 90]
	Radius    float64 // metres
}

// FromCartesian converts a Cartesian position to spherical form.
func FromCartesian(v r3.Vec) Polar {
	planar := math.Hypot(v.X, v.Y)
	az := math.Mod(math.Atan2(v.Y, v.X)*180/math.Pi+360, 360)

	return Polar{
		Azimuth:   az,
		Elevation: math.Atan2(v.Z, planar) * 180 / math.Pi,
		Radius:    r3.Norm(v),
	}
}

// Cartesian converts p back to a Cartesian position.
func (p Polar) Cartesian() r3.Vec {
	phi := p.Azimuth * math.Pi / 180
	theta := p.Elevation * math.Pi / 180
	planar := math.Cos(theta) * p.Radius

	return r3.Vec{
		X: math.Cos(phi) * planar,
		Y: math.Sin(phi) * planar,
		Z: math.Sin(theta) * p.Radius,
	}
}

// FromTriplets converts a flat x,y,z array into polar positions. Trailing
// values that do not form a full triplet are ignored.
func FromTriplets(xyz []float64) []Polar {
	out := make([]Polar, len(xyz)/3)
	for i := range out {
		out[i] = FromCartesian(r3.Vec{X: xyz[3*i], Y: xyz[3*i+1], Z: xyz[3*i+2]})
	}
	return out
}
