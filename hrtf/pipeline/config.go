package pipeline

import (
	"fmt"
	"math/bits"

	"github.com/cwbudde/algo-hrtf/dsp/resample"
	"github.com/cwbudde/algo-hrtf/hrtf"
	"github.com/cwbudde/algo-hrtf/hrtf/grid"
	"github.com/cwbudde/algo-hrtf/hrtf/sofa"
)

// Configuration limits.
const (
	MinFFTSize   = 16
	MaxFFTSize   = 131072
	MinTruncSize = 16
	MaxTruncSize = 128
	TruncStep    = 8
)

// Defaults.
const (
	DefaultWorkers    = 2
	DefaultFFTSize    = 65536
	DefaultTruncSize  = 64
	DefaultHeadRadius = 0.09
)

// Config controls a pipeline run.
type Config struct {
	// Workers is the size of the magnitude worker pool; 0 runs one worker.
	Workers int
	// FFTSize is the transform length; a power of two.
	FFTSize int
	// TruncSize is the minimum number of samples a measurement must have.
	TruncSize int
	// OutRate resamples every response to this rate; 0 keeps the source rate.
	OutRate int
	// ResampleQuality selects the filter used for rate conversion and onset
	// upsampling.
	ResampleQuality resample.Quality
	// Mode is the requested channel mode. Stereo is used only when the
	// dataset has two receivers.
	Mode grid.ChannelMode
	// HeadRadius is stored with the grid, in metres.
	HeadRadius float64
	// AllowUnknownAttributes logs unexpected dataset attributes instead of
	// failing.
	AllowUnknownAttributes bool
	// MaxSamples limits the grid's sample buffer; 0 uses the grid default.
	MaxSamples int
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		Workers:         DefaultWorkers,
		FFTSize:         DefaultFFTSize,
		TruncSize:       DefaultTruncSize,
		ResampleQuality: resample.QualityBalanced,
		Mode:            grid.Stereo,
		HeadRadius:      DefaultHeadRadius,
	}
}

// Validate reports the first invalid setting.
func (c Config) Validate() error {
	if c.Workers < 0 {
		return fmt.Errorf("%w: workers must not be negative, got %d", hrtf.ErrConfig, c.Workers)
	}
	if c.FFTSize < MinFFTSize || c.FFTSize > MaxFFTSize || bits.OnesCount(uint(c.FFTSize)) != 1 {
		return fmt.Errorf("%w: fft size %d must be a power of two in [%d, %d]",
			hrtf.ErrConfig, c.FFTSize, MinFFTSize, MaxFFTSize)
	}
	if c.TruncSize < MinTruncSize || c.TruncSize > MaxTruncSize || c.TruncSize%TruncStep != 0 {
		return fmt.Errorf("%w: truncation size %d must be a multiple of %d in [%d, %d]",
			hrtf.ErrConfig, c.TruncSize, TruncStep, MinTruncSize, MaxTruncSize)
	}
	if c.OutRate != 0 && (c.OutRate < sofa.MinRate || c.OutRate > sofa.MaxRate) {
		return fmt.Errorf("%w: output rate %d must be 0 or in [%d, %d]",
			hrtf.ErrConfig, c.OutRate, sofa.MinRate, sofa.MaxRate)
	}
	switch c.ResampleQuality {
	case resample.QualityFast, resample.QualityBalanced, resample.QualityBest:
	default:
		return fmt.Errorf("%w: unknown resample quality %v", hrtf.ErrConfig, c.ResampleQuality)
	}
	if c.Mode != grid.Mono && c.Mode != grid.Stereo {
		return fmt.Errorf("%w: unknown channel mode %d", hrtf.ErrConfig, c.Mode)
	}
	if !(c.HeadRadius > 0) {
		return fmt.Errorf("%w: head radius must be positive, got %g", hrtf.ErrConfig, c.HeadRadius)
	}
	if c.MaxSamples < 0 {
		return fmt.Errorf("%w: sample limit must not be negative", hrtf.ErrConfig)
	}
	return nil
}
