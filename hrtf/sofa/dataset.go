package sofa

import (
	"fmt"
	"strings"

	"github.com/cwbudde/algo-hrtf/hrtf"
	"github.com/cwbudde/algo-hrtf/hrtf/coord"
)

// Attribute is a named string attribute attached to an array.
type Attribute struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// Array is a flat value array with its attributes.
type Array struct {
	Values     []float64   `json:"values"`
	Attributes []Attribute `json:"attributes,omitempty"`
}

// Attr returns the first attribute called name.
func (a Array) Attr(name string) (string, bool) {
	for _, attr := range a.Attributes {
		if attr.Name == name {
			return attr.Value, true
		}
	}
	return "", false
}

// Dataset is a loaded measurement set. It is treated as immutable once
// loaded.
type Dataset struct {
	Emitters     int `json:"E"`
	Receivers    int `json:"R"`
	Measurements int `json:"M"`
	Samples      int `json:"N"`

	// SourcePosition holds M x,y,z (or azimuth,elevation,radius) triplets.
	// The "Type" attribute selects "cartesian" (default) or "spherical".
	SourcePosition Array `json:"SourcePosition"`
	// SampleRate holds a single value with dimension "I".
	SampleRate Array `json:"Data.SamplingRate"`
	// Delay holds no values, R values ("I,R") or M*R values ("M,R").
	Delay Array `json:"Data.Delay"`
	// IR holds M*R*N samples ordered measurement, receiver, sample.
	IR Array `json:"Data.IR"`
}

// CheckShape verifies that the value arrays match the declared dimensions so
// later stages can index them without bounds surprises.
func (d *Dataset) CheckShape() error {
	if d.Measurements <= 0 {
		return fmt.Errorf("%w: no measurements", hrtf.ErrFormat)
	}
	if d.Samples <= 0 {
		return fmt.Errorf("%w: no samples per measurement", hrtf.ErrFormat)
	}
	if got, want := len(d.SourcePosition.Values), 3*d.Measurements; got != want {
		return fmt.Errorf("%w: SourcePosition has %d values, want %d", hrtf.ErrFormat, got, want)
	}
	if got, want := len(d.IR.Values), d.Measurements*d.Receivers*d.Samples; got != want {
		return fmt.Errorf("%w: IR has %d values, want %d", hrtf.ErrFormat, got, want)
	}
	return nil
}

// Positions returns every source position in spherical form. Spherical
// input goes through a Cartesian round trip so azimuths are normalized the
// same way as Cartesian input.
func (d *Dataset) Positions() ([]coord.Polar, error) {
	xyz := d.SourcePosition.Values
	typ, _ := d.SourcePosition.Attr("Type")

	switch strings.ToLower(strings.TrimSpace(typ)) {
	case "", "cartesian":
		return coord.FromTriplets(xyz), nil
	case "spherical":
		out := make([]coord.Polar, len(xyz)/3)
		for i := range out {
			p := coord.Polar{Azimuth: xyz[3*i], Elevation: xyz[3*i+1], Radius: xyz[3*i+2]}
			out[i] = coord.FromCartesian(p.Cartesian())
		}
		return out, nil
	default:
		return nil, fmt.Errorf("%w: unsupported SourcePosition type %q", hrtf.ErrFormat, typ)
	}
}

// Response returns the N samples of measurement m, receiver r.
func (d *Dataset) Response(m, r int) []float64 {
	off := (m*d.Receivers + r) * d.Samples
	return d.IR.Values[off : off+d.Samples]
}
