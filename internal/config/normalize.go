package config

import (
	"strings"

	"github.com/cwbudde/algo-hrtf/dsp/resample"
)

func (c *Config) normalize() {
	c.Pipeline.Channels = strings.ToLower(strings.TrimSpace(c.Pipeline.Channels))
	if c.Pipeline.Channels == "" {
		c.Pipeline.Channels = channelsStereo
	}

	c.Pipeline.ResampleQuality = strings.ToLower(strings.TrimSpace(c.Pipeline.ResampleQuality))
	if c.Pipeline.ResampleQuality == "" {
		c.Pipeline.ResampleQuality = resample.QualityBalanced.String()
	}

	c.Progress.Style = strings.ToLower(strings.TrimSpace(c.Progress.Style))
	if c.Progress.Style == "" {
		c.Pipeline.ResampleQuality = strings.ToLower(strings.TrimSpace(c.Pipeline.ResampleQuality))
	if c.Pipeline.ResampleQuality == "" {
		c.Pipeline.ResampleQuality = resample.QualityBalanced.String()
	}

	c.Progress.Style = ProgressAuto
	}
	if c.Progress.IntervalMS <= 0 {
		c.Progress.IntervalMS = defaultProgressIntervalMS
	}

	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
}
