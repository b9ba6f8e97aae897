// Package pipeline turns a measurement dataset into a finished directional
// grid: validation, layout inference, allocation, assignment, completeness
// check, onset estimation and magnitude calculation.
package pipeline

import (
	"fmt"

	"github.com/dustin/go-humanize"

	"github.com/cwbudde/algo-hrtf/hrtf"
	"github.com/cwbudde/algo-hrtf/hrtf/assign"
	"github.com/cwbudde/algo-hrtf/hrtf/grid"
	"github.com/cwbudde/algo-hrtf/hrtf/layout"
	"github.com/cwbudde/algo-hrtf/hrtf/magnitude"
	"github.com/cwbudde/algo-hrtf/hrtf/onset"
	"github.com/cwbudde/algo-hrtf/hrtf/progress"
	"github.com/cwbudde/algo-hrtf/hrtf/sofa"
)

// Stage names passed to the progress reporter.
const (
	StageLoad      = "Loading HRIRs"
	StageOnset     = "Calculating HRIR onsets"
	StageMagnitude = "Calculating HRTF magnitudes"
)

// Load runs the whole pipeline on d. On any failure it returns a nil grid
// and an error wrapping one of the hrtf sentinel errors.
func Load(d *sofa.Dataset, cfg Config, opts ...Option) (*grid.Grid, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	o := applyOptions(opts)
	log := o.logger

	v := sofa.Validator{AllowUnknown: cfg.AllowUnknownAttributes, Logger: log}
	h, err := v.Check(d)
	if err != nil {
		return nil, err
	}

	if d.Samples > cfg.FFTSize {
		return nil, fmt.Errorf("%w: sample count %d exceeds the FFT size %d", hrtf.ErrFormat, d.Samples, cfg.FFTSize)
	}
	if d.Samples < cfg.TruncSize {
		return nil, fmt.Errorf("%w: sample count %d is below the truncation size %d", hrtf.ErrFormat, d.Samples, cfg.TruncSize)
	}

	mode := grid.Mono
	if h.Channels == 2 && cfg.Mode == grid.Stereo {
		mode = grid.Stereo
	}

	positions, err := d.Positions()
	if err != nil {
		return nil, err
	}
	fields, err := layout.Infer(positions, layout.WithLogger(log))
	if err != nil {
		return nil, err
	}

	g, err := grid.New(fields, grid.Params{
		Mode:       mode,
		Rate:       h.Rate,
		IRPoints:   d.Samples,
		FFTSize:    cfg.FFTSize,
		TruncSize:  cfg.TruncSize,
		HeadRadius: cfg.HeadRadius,
		MaxSamples: cfg.MaxSamples,
	})
	if err != nil {
		return nil, err
	}
	log.Info("allocated grid",
		"mode", mode,
		"slots", g.IRCount(),
		"slot_samples", g.IRSize,
		"size", humanize.IBytes(uint64(8*g.StorageLen())))

	var res assign.Result
	err = progress.Run(StageLoad, d.Measurements, o.interval, o.reporter, func(c *progress.Counter) error {
		var err error
		res, err = assign.Assign(g, d, h, cfg.OutRate, cfg.ResampleQuality, c)
		return err
	})
	if err != nil {
		return nil, err
	}
	if res.Skipped > 0 {
		log.Warn("measurements off the grid were ignored", "skipped", res.Skipped, "assigned", res.Assigned)
	}

	if err := grid.CheckComplete(g); err != nil {
		return nil, err
	}

	owned := len(g.Owned())

	err = progress.Run(StageOnset, owned, o.interval, o.reporter, func(c *progress.Counter) error {
		return onset.Estimate(g, cfg.ResampleQuality, c)
	})
	if err != nil {
		return nil, err
	}

	err = progress.Run(StageMagnitude, owned, o.interval, o.reporter, func(c *progress.Counter) error {
		return magnitude.Calculate(g, cfg.Workers, c)
	})
	if err != nil {
		return nil, err
	}

	log.Info("grid ready", "rate", g.Rate, "ir_points", g.IRPoints, "fft_size", g.FFTSize, "slots", owned)

	return g, nil
}
