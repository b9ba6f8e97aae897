package resample

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidRatio indicates an invalid up/down ratio.
var ErrInvalidRatio = errors.New("resample: invalid ratio")

// Quality controls default anti-aliasing filter settings.
type Quality int

const (
	// QualityFast prioritizes lower CPU usage.
	QualityFast Quality = iota
	// QualityBalanced is the default quality/performance trade-off.
	QualityBalanced
	// QualityBest prioritizes stopband attenuation and passband flatness.
	QualityBest
)

func (q Quality) String() string {
	switch q {
	case QualityFast:
		return "fast"
	case QualityBalanced:
		return "balanced"
	case QualityBest:
		return "best"
	default:
		return fmt.Sprintf("Quality(%d)", int(q))
	}
}

// ParseQuality maps "fast", "balanced" or "best" (any case) to a Quality.
func ParseQuality(s string) (Quality, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "fast":
		return QualityFast, nil
	case "balanced", "":
		return QualityBalanced, nil
	case "best":
		return QualityBest, nil
	default:
		return QualityBalanced, fmt.Errorf("resample: unknown quality %q", s)
	}
}

type config struct {
	quality      Quality
	tapsPerPhase int
	cutoffScale  float64
	kaiserBeta   float64
}

// Option configures the resampler.
type Option func(*config)

// WithQuality selects a predefined anti-aliasing quality mode.
func WithQuality(q Quality) Option {
	return func(cfg *config) {
		cfg.quality = q
	}
}

func applyOptions(opts []Option) config {
	cfg := config{quality: QualityBalanced}

	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	switch cfg.quality {
	case QualityFast:
		cfg.tapsPerPhase, cfg.cutoffScale, cfg.kaiserBeta = 16, 0.88, 5.0
	case QualityBest:
		cfg.tapsPerPhase, cfg.cutoffScale, cfg.kaiserBeta = 64, 0.96, 9.0
	default:
		cfg.quality = QualityBalanced
		cfg.tapsPerPhase, cfg.cutoffScale, cfg.kaiserBeta = 32, 0.92, 7.5
	}

	return cfg
}

// Resampler performs rational sample-rate conversion of whole blocks using a
// linear-phase polyphase FIR. The filter's group delay is removed, so output
// sample m is aligned with input time m*down/up.
//
// A Resampler is read-only after construction and may be reused for any
// number of blocks with the same ratio.
type Resampler struct {
	up   int
	down int

	phases [][]float64
	center int
}

// NewRational creates a resampler for ratio up/down.
func NewRational(up, down int, opts ...Option) (*Resampler, error) {
	if up <= 0 || down <= 0 {
		return nil, ErrInvalidRatio
	}

	g := gcd(up, down)
	up /= g
	down /= g

	cfg := applyOptions(opts)

	phases, center, err := designPolyphaseFIR(up, down, cfg)
	if err != nil {
		return nil, err
	}

	return &Resampler{
		up:     up,
		down:   down,
		phases: phases,
		center: center,
	}, nil
}

// OutputLen returns the number of output samples that cover inputLen input
// samples.
func (r *Resampler) OutputLen(inputLen int) int {
	if inputLen <= 0 {
		return 0
	}

	return (inputLen*r.up + r.down - 1) / r.down
}

// ProcessBlock fills dst with the resampled version of src. The input is
// treated as zero outside its bounds, so dst may be shorter or longer than
// OutputLen(len(src)); surplus output decays to zero.
func (r *Resampler) ProcessBlock(dst, src []float64) {
	last := len(src) - 1

	for m := range dst {
		t := m*r.down + r.center
		taps := r.phases[t%r.up]
		base := t / r.up

		var y float64

		lo := max(0, base-last)
		hi := min(len(taps), base+1)

		for k := lo; k < hi; k++ {
			y += taps[k] * src[base-k]
		}

		dst[m] = y
	}
}
