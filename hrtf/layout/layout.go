package layout

import (
	"fmt"
	"io"
	"log/slog"
	"math"
	"strings"

	"github.com/cwbudde/algo-hrtf/hrtf"
	"github.com/cwbudde/algo-hrtf/hrtf/coord"
)

// Grid limits.
const (
	MaxFieldCount = 16
	MinEvCount    = 5
	MaxEvCount    = 181
	MaxAzCount    = 255
)

// poleLimit is the elevation magnitude beyond which a position counts as a
// pole, where azimuth is undefined.
const poleLimit = 89.999

// Field is the inferred layout of one radial distance shell.
type Field struct {
	Distance float64
	// EvStart is the first measured ring. Rings before it mirror ring
	// len(AzCounts)-1-ei and are not measured independently.
	EvStart int
	// AzCounts holds the azimuth count of every ring, pole to pole, starting
	// at -90 degrees. Mirrored rings carry the count of their source ring.
	AzCounts []int
}

// EvCount returns the number of elevation rings.
func (f Field) EvCount() int { return len(f.AzCounts) }

// Elevation returns the elevation of ring ei in degrees.
func (f Field) Elevation(ei int) float64 {
	return -90 + float64(ei)*180/float64(len(f.AzCounts)-1)
}

// Mirror returns the ring whose data ring ei reuses.
func (f Field) Mirror(ei int) int { return len(f.AzCounts) - 1 - ei }

// Measured returns the number of independently measured slots.
func (f Field) Measured() int {
	n := 0
	for _, c := range f.AzCounts[f.EvStart:] {
		n += c
	}
	return n
}

type config struct {
	logger *slog.Logger
}

// Option configures Infer.
type Option func(*config)

// WithLogger sets the logger used for skipped fields and the usage summary.
func WithLogger(l *slog.Logger) Option {
	return func(c *config) {
		if l != nil {
			c.logger = l
		}
	}
}

// Infer clusters positions into fields ordered by ascending distance.
func Infer(positions []coord.Polar, opts ...Option) ([]Field, error) {
	cfg := config{logger: slog.New(slog.NewTextHandler(io.Discard, nil))}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	log := cfg.logger

	radii := uniqueSorted(positions, filter{}, radiusEpsilon, radiusOf)
	if len(radii) > MaxFieldCount {
		return nil, fmt.Errorf("%w: too many radii (%d distinct, max %d)", hrtf.ErrLayout, len(radii), MaxFieldCount)
	}

	var fields []Field
	for _, dist := range radii {
		f, ok, err := inferField(positions, dist, log)
		if err != nil {
			return nil, err
		}
		if ok {
			fields = append(fields, f)
		}
	}

	if len(fields) == 0 {
		return nil, fmt.Errorf("%w: no usable fields", hrtf.ErrLayout)
	}

	used := 0
	for _, f := range fields {
		used += f.Measured()
	}
	log.Info("detected compatible layout", "fields", len(fields), "used", used, "total", len(positions))

	return fields, nil
}

// inferField builds the layout of the shell at dist. A shell without a
// usable uniform elevation set is skipped (ok == false); structural problems
// inside an otherwise usable shell are errors.
func inferField(positions []coord.Polar, dist float64, log *slog.Logger) (Field, bool, error) {
	onShell := filter{radius: &dist}
	elevs := uniqueSorted(positions, onShell, angleEpsilon, elevationOf)

	var kept []float64
	for _, ev := range elevs {
		if validRing(positions, ev, dist) {
			kept = append(kept, ev)
		}
	}
	elevs = kept

	step := uniformStep(angleEpsilon, elevs)
	if step <= 0 {
		if len(elevs) == 0 {
			log.Warn("no usable elevations", "distance", dist)
		} else {
			log.Warn("non-uniform elevations", "distance", dist, "found", formatAngles(elevs))
		}
		return Field{}, false, nil
	}

	evStart := -1
	for _, ev := range elevs {
		if !(ev < 0) {
			break
		}
		eif := (90 + ev) / step
		if start := math.Round(eif); math.Abs(eif-start) < angleEpsilon/step {
			evStart = int(start)
			break
		}
	}
	if evStart < 0 {
		return Field{}, false, fmt.Errorf("%w: too many missing elevations on field distance %.3f", hrtf.ErrLayout, dist)
	}

	evCount := int(math.Round(180/step)) + 1
	if evCount < MinEvCount {
		log.Warn("too few uniform elevations", "distance", dist, "rings", evCount)
		return Field{}, false, nil
	}
	if evCount > MaxEvCount {
		return Field{}, false, fmt.Errorf("%w: %d elevations on field distance %.3f exceed %d",
			hrtf.ErrLayout, evCount, dist, MaxEvCount)
	}

	f := Field{Distance: dist, EvStart: evStart, AzCounts: make([]int, evCount)}

	for ei := evStart; ei < evCount; ei++ {
		ev := f.Elevation(ei)
		azims := uniqueSorted(positions, filter{elevation: &ev, radius: &dist}, angleEpsilon, azimuthOf)

		if ei == 0 || ei == evCount-1 {
			if len(azims) != 1 {
				return Field{}, false, fmt.Errorf("%w: non-singular poles on field distance %.3f", hrtf.ErrLayout, dist)
			}
			f.AzCounts[ei] = 1
			continue
		}

		azStep := uniformStep(angleEpsilon, azims)
		if azStep <= 0 {
			return Field{}, false, fmt.Errorf("%w: non-uniform azimuths on elevation %.2f, field distance %.3f",
				hrtf.ErrLayout, ev, dist)
		}

		n := int(math.Round(360 / azStep))
		if n > MaxAzCount {
			return Field{}, false, fmt.Errorf("%w: %d azimuths on elevation %.2f exceed %d",
				hrtf.ErrLayout, n, ev, MaxAzCount)
		}
		f.AzCounts[ei] = n
	}

	for ei := range evStart {
		f.AzCounts[ei] = f.AzCounts[f.Mirror(ei)]
	}

	return f, true, nil
}

// validRing reports whether the azimuths measured at elevation ev form a
// usable ring: a single azimuth at the poles, otherwise a uniform set that
// starts at (or near) 0 degrees.
func validRing(positions []coord.Polar, ev, dist float64) bool {
	azims := uniqueSorted(positions, filter{elevation: &ev, radius: &dist}, angleEpsilon, azimuthOf)

	if math.Abs(ev) > poleLimit {
		return len(azims) == 1
	}
	if len(azims) == 0 || !(math.Abs(azims[0]) < angleEpsilon) {
		return false
	}
	return uniformStep(angleEpsilon, azims) > 0
}

func formatAngles(v []float64) string {
	parts := make([]string, len(v))
	for i, a := range v {
		parts[i] = fmt.Sprintf("%+.2f", a)
	}
	return strings.Join(parts, ", ")
}
