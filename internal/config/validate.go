package config

import (
	"fmt"

	"github.com/cwbudde/algo-hrtf/dsp/resample"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	switch c.Pipeline.Channels {
	case channelsMono, channelsStereo:
	default:
		return fmt.Errorf("pipeline.channels: unsupported value %q", c.Pipeline.Channels)
	}
	if _, err := resample.ParseQuality(c.Pipeline.ResampleQuality); err != nil {
		return fmt.Errorf("pipeline.resample_quality: %w", err)
	}
	if err := c.PipelineConfig().Validate(); err != nil {
		return fmt.Errorf("pipeline: %w", err)
	}

	switch c.Progress.Style {
	case ProgressAuto, ProgressBar, ProgressLine, ProgressLog, ProgressNone:
	default:
		return fmt.Errorf("progress.style: unsupported value %q", c.Progress.Style)
	}

	switch c.Logging.Level {
	case "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("logging.level: unsupported value %q", c.Logging.Level)
	}
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format: unsupported value %q", c.Logging.Format)
	}

	return nil
}
