package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/cwbudde/algo-hrtf/dsp/resample"
	"github.com/cwbudde/algo-hrtf/hrtf/grid"
	"github.com/cwbudde/algo-hrtf/hrtf/pipeline"
)

//go:embed sample_config.toml
var sampleConfig string

// Pipeline mirrors pipeline.Config in file form.
type Pipeline struct {
	Workers                int     `toml:"workers"`
	FFTSize                int     `toml:"fft_size"`
	TruncSize              int     `toml:"trunc_size"`
	OutRate                int     `toml:"out_rate"`
	ResampleQuality        string  `toml:"resample_quality"`
	Channels               string  `toml:"channels"`
	HeadRadius             float64 `toml:"head_radius"`
	AllowUnknownAttributes bool    `toml:"allow_unknown_attributes"`
	MaxSamples             int     `toml:"max_samples"`
}

// Progress selects the progress display.
type Progress struct {
	Style      string `toml:"style"`
	IntervalMS int    `toml:"interval_ms"`
}

// Logging contains configuration for log output.
type Logging struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
}

// Config is the whole configuration file.
type Config struct {
	Pipeline Pipeline `toml:"pipeline"`
	Progress Progress `toml:"progress"`
	Logging  Logging  `toml:"logging"`
}

// SampleConfig returns a commented configuration file with the defaults.
func SampleConfig() string {
	return sampleConfig
}

// Load reads the file at path over the defaults. A missing file is not an
// error when path is empty or does not exist; the second result reports
// whether a file was read.
func Load(path string) (*Config, bool, error) {
	cfg := Default()

	exists := false
	if path != "" {
		file, err := os.Open(path)
		switch {
		case errors.Is(err, fs.ErrNotExist):
		case err != nil:
			return nil, false, fmt.Errorf("open config: %w", err)
		default:
			defer file.Close()
			exists = true

			decoder := toml.NewDecoder(file)
			decoder.DisallowUnknownFields()
			if err := decoder.Decode(&cfg); err != nil {
				return nil, false, fmt.Errorf("parse config: %w", err)
			}
		}
	}

	cfg.normalize()

	if err := cfg.Validate(); err != nil {
		return nil, false, err
	}

	return &cfg, exists, nil
}

// PipelineConfig converts the pipeline section. An unknown resample quality
// falls back to balanced; Validate reports it.
func (c *Config) PipelineConfig() pipeline.Config {
	mode := grid.Stereo
	if c.Pipeline.Channels == channelsMono {
		mode = grid.Mono
	}
	quality, _ := resample.ParseQuality(c.Pipeline.ResampleQuality)

	return pipeline.Config{
		Workers:                c.Pipeline.Workers,
		FFTSize:                c.Pipeline.FFTSize,
		TruncSize:              c.Pipeline.TruncSize,
		OutRate:                c.Pipeline.OutRate,
		ResampleQuality:        quality,
		Mode:                   mode,
		HeadRadius:             c.Pipeline.HeadRadius,
		AllowUnknownAttributes: c.Pipeline.AllowUnknownAttributes,
		MaxSamples:             c.Pipeline.MaxSamples,
	}
}

// PollInterval returns the progress poll interval.
func (c *Config) PollInterval() time.Duration {
	return time.Duration(c.Progress.IntervalMS) * time.Millisecond
}
