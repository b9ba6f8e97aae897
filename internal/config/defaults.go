package config

import "github.com/cwbudde/algo-hrtf/hrtf/pipeline"

const (
	channelsMono   = "mono"
	channelsStereo = "stereo"

	// Progress styles.
	ProgressAuto = "auto"
	ProgressBar  = "bar"
	ProgressLine = "line"
	ProgressLog  = "log"
	ProgressNone = "none"

	defaultProgressIntervalMS = 50
	defaultLogLevel           = "info"
	defaultLogFormat          = "console"
)

// Default returns a Config populated with the pipeline defaults.
func Default() Config {
	p := pipeline.DefaultConfig()

	return Config{
		Pipeline: Pipeline{
			Workers:         p.Workers,
			FFTSize:         p.FFTSize,
			TruncSize:       p.TruncSize,
			OutRate:         p.OutRate,
			ResampleQuality: p.ResampleQuality.String(),
			Channels:        channelsStereo,
			HeadRadius:      p.HeadRadius,
		},
		Progress: Progress{
			Style:      ProgressAuto,
			IntervalMS: defaultProgressIntervalMS,
		},
		Logging: Logging{
			Level:  defaultLogLevel,
			Format: defaultLogFormat,
		},
	}
}
