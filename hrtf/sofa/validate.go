package sofa

import (
	"fmt"
	"io"
	"log/slog"
	"math"

	"github.com/cwbudde/algo-hrtf/hrtf"
)

// Supported sample-rate range in Hz.
const (
	MinRate = 32000
	MaxRate = 96000
)

const dimensionList = "DIMENSION_LIST"

// DelayType describes how per-channel delays are stored.
type DelayType int

const (
	// DelayNone means the dataset carries no delays.
	DelayNone DelayType = iota
	// DelayPerChannel means one delay per receiver ("I,R").
	DelayPerChannel
	// DelayPerMeasurement means one delay per measurement and receiver ("M,R").
	DelayPerMeasurement
)

func (t DelayType) String() string {
	switch t {
	case DelayPerChannel:
		return "I,R"
	case DelayPerMeasurement:
		return "M,R"
	default:
		return "none"
	}
}

// Header is the validated metadata of a dataset.
type Header struct {
	Rate     int
	Channels int
	Delay    DelayType
}

// Validator checks dataset metadata. The zero value rejects unexpected
// attributes and logs nothing.
type Validator struct {
	// AllowUnknown downgrades unexpected attributes from an error to a
	// logged warning.
	AllowUnknown bool
	Logger       *slog.Logger
}

func (v Validator) logger() *slog.Logger {
	if v.Logger != nil {
		return v.Logger
	}
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// Check validates counts, sample rate, delay layout and IR layout, in that
// order, and stops at the first problem.
func (v Validator) Check(d *Dataset) (Header, error) {
	if d.Emitters != 1 {
		return Header{}, fmt.Errorf("%w: %d emitters not supported", hrtf.ErrFormat, d.Emitters)
	}
	if d.Receivers < 1 || d.Receivers > 2 {
		return Header{}, fmt.Errorf("%w: %d receivers not supported", hrtf.ErrFormat, d.Receivers)
	}
	if err := d.CheckShape(); err != nil {
		return Header{}, err
	}

	rate, err := v.SampleRate(d)
	if err != nil {
		return Header{}, err
	}

	delay, err := v.DelayLayout(d)
	if err != nil {
		return Header{}, err
	}

	if err := v.CheckIR(d); err != nil {
		return Header{}, err
	}

	return Header{
		Rate:     int(math.Round(rate)),
		Channels: d.Receivers,
		Delay:    delay,
	}, nil
}

// SampleRate returns the dataset's sample rate in Hz. The array must carry
// exactly one DIMENSION_LIST of "I" and one Units of "hertz".
func (v Validator) SampleRate(d *Dataset) (float64, error) {
	attrs, err := v.scan("SampleRate", d.SampleRate, dimensionList, "Units")
	if err != nil {
		return 0, err
	}

	dim, ok := attrs[dimensionList]
	if !ok {
		return 0, fmt.Errorf("%w: missing sample rate dimensions", hrtf.ErrFormat)
	}
	if dim != "I" {
		return 0, fmt.Errorf("%w: unsupported sample rate dimensions %q", hrtf.ErrFormat, dim)
	}

	units, ok := attrs["Units"]
	if !ok {
		return 0, fmt.Errorf("%w: missing sample rate unit type", hrtf.ErrFormat)
	}
	if units != "hertz" {
		return 0, fmt.Errorf("%w: unsupported sample rate unit type %q", hrtf.ErrFormat, units)
	}

	if len(d.SampleRate.Values) != 1 {
		return 0, fmt.Errorf("%w: sample rate has %d values, want 1", hrtf.ErrFormat, len(d.SampleRate.Values))
	}

	rate := d.SampleRate.Values[0]
	if !(rate >= MinRate && rate <= MaxRate) {
		return 0, fmt.Errorf("%w: sample rate out of range: %f (expected %d to %d)",
			hrtf.ErrFormat, rate, MinRate, MaxRate)
	}

	return rate, nil
}

// DelayLayout reports how delays are stored. A missing DIMENSION_LIST means
// there are no delays.
func (v Validator) DelayLayout(d *Dataset) (DelayType, error) {
	attrs, err := v.scan("Delay", d.Delay, dimensionList)
	if err != nil {
		return DelayNone, err
	}

	dim, ok := attrs[dimensionList]
	if !ok {
		v.logger().Warn("missing delay dimensions, assuming no delays")
		return DelayNone, nil
	}

	var (
		typ  DelayType
		want int
	)

	switch dim {
	case "I,R":
		typ, want = DelayPerChannel, d.Receivers
	case "M,R":
		typ, want = DelayPerMeasurement, d.Measurements*d.Receivers
	default:
		return DelayNone, fmt.Errorf("%w: unsupported delay dimensions %q", hrtf.ErrFormat, dim)
	}

	if len(d.Delay.Values) != want {
		return DelayNone, fmt.Errorf("%w: delay %s has %d values, want %d",
			hrtf.ErrFormat, dim, len(d.Delay.Values), want)
	}

	return typ, nil
}

// CheckIR verifies that impulse responses are laid out as "M,R,N".
func (v Validator) CheckIR(d *Dataset) error {
	attrs, err := v.scan("IR", d.IR, dimensionList)
	if err != nil {
		return err
	}

	dim, ok := attrs[dimensionList]
	if !ok {
		return fmt.Errorf("%w: missing IR dimensions", hrtf.ErrFormat)
	}
	if dim != "M,R,N" {
		return fmt.Errorf("%w: unsupported IR dimensions %q", hrtf.ErrFormat, dim)
	}

	return nil
}

// scan collects the known attributes of an array. Duplicates are always an
// error; anything not listed in known is an error unless AllowUnknown is set.
func (v Validator) scan(array string, a Array, known ...string) (map[string]string, error) {
	out := make(map[string]string, len(known))

	for _, attr := range a.Attributes {
		isKnown := false
		for _, k := range known {
			if attr.Name == k {
				isKnown = true
				break
			}
		}

		if !isKnown {
			if !v.AllowUnknown {
				return nil, fmt.Errorf("%w: unexpected %s attribute: %s = %s",
					hrtf.ErrFormat, array, attr.Name, attr.Value)
			}
			v.logger().Warn("unexpected attribute", "array", array, "name", attr.Name, "value", attr.Value)
			continue
		}

		if _, dup := out[attr.Name]; dup {
			return nil, fmt.Errorf("%w: duplicate %s.%s", hrtf.ErrFormat, array, attr.Name)
		}
		out[attr.Name] = attr.Value
	}

	return out, nil
}
