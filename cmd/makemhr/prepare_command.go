package main

import (
	"fmt"
	"strconv"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/cwbudde/algo-hrtf/dsp/resample"
	"github.com/cwbudde/algo-hrtf/hrtf/grid"
	"github.com/cwbudde/algo-hrtf/hrtf/pipeline"
)

func newPrepareCommand(ctx *commandContext) *cobra.Command {
	var (
		workers   int
		fftSize   int
		truncSize int
		outRate   int
		mono      bool
		allow     bool
		style     string
		quality   string
	)

	cmd := &cobra.Command{
		Use:   "prepare <dataset.json>",
		Short: "Run the full pipeline and summarize the resulting grid",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.logger(cmd.ErrOrStderr())
			if err != nil {
				return err
			}

			pc := cfg.PipelineConfig()
			flags := cmd.Flags()
			if flags.Changed("workers") {
				pc.Workers = workers
			}
			if flags.Changed("fft-size") {
				pc.FFTSize = fftSize
			}
			if flags.Changed("trunc-size") {
				pc.TruncSize = truncSize
			}
			if flags.Changed("rate") {
				pc.OutRate = outRate
			}
			if flags.Changed("mono") {
				pc.Mode = grid.Stereo
				if mono {
					pc.Mode = grid.Mono
				}
			}
			if flags.Changed("quality") {
				q, err := resample.ParseQuality(quality)
				if err != nil {
					return err
				}
				pc.ResampleQuality = q
			}
			if flags.Changed("allow-unknown") {
				pc.AllowUnknownAttributes = allow
			}
			progressStyle := cfg.Progress.Style
			if flags.Changed("progress") {
				progressStyle = style
			}

			d, err := ctx.loadDataset(args[0])
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			g, err := pipeline.Load(d, pc,
				pipeline.WithLogger(logger),
				pipeline.WithReporter(newReporter(progressStyle, out, logger)),
				pipeline.WithPollInterval(cfg.PollInterval()),
			)
			if err != nil {
				return err
			}

			fmt.Fprintln(out, renderGridSummary(g))
			fmt.Fprintln(out, renderFieldTable(g))
			return nil
		},
	}

	flags := cmd.Flags()
	flags.IntVar(&workers, "workers", pipeline.DefaultWorkers, "Magnitude worker count")
	flags.IntVar(&fftSize, "fft-size", pipeline.DefaultFFTSize, "FFT length (power of two)")
	flags.IntVar(&truncSize, "trunc-size", pipeline.DefaultTruncSize, "Minimum impulse length (multiple of 8)")
	flags.IntVarP(&outRate, "rate", "r", 0, "Output sample rate in Hz (0 keeps the dataset rate)")
	flags.StringVar(&quality, "quality", "balanced", "Resampling filter: fast, balanced or best")
	flags.BoolVar(&mono, "mono", false, "Keep only the first receiver")
	flags.BoolVar(&allow, "allow-unknown", false, "Warn about unexpected dataset attributes instead of failing")
	flags.StringVar(&style, "progress", "auto", "Progress display: auto, bar, line, log or none")

	return cmd
}

func renderGridSummary(g *grid.Grid) string {
	rows := [][]string{
		{"Channels", g.Mode.String()},
		{"Sample rate", strconv.Itoa(g.Rate) + " Hz"},
		{"FFT size", strconv.Itoa(g.FFTSize)},
		{"Impulse points", strconv.Itoa(g.IRPoints)},
		{"Slot size", strconv.Itoa(g.IRSize)},
		{"Fields", strconv.Itoa(len(g.Fields))},
		{"Directions", strconv.Itoa(len(g.Owned()))},
		{"Storage", humanize.IBytes(uint64(8 * g.StorageLen()))},
		{"Head radius", fmt.Sprintf("%.3f m", g.HeadRadius)},
	}
	return renderTable([]string{"Property", "Value"}, rows, []columnAlignment{alignLeft, alignRight})
}

func renderFieldTable(g *grid.Grid) string {
	rows := make([][]string, 0, len(g.Fields))
	for fi, f := range g.Fields {
		measured := 0
		for ei := f.EvStart; ei < len(f.Rings); ei++ {
			measured += len(f.Rings[ei].Azimuths)
		}
		rows = append(rows, []string{
			strconv.Itoa(fi),
			fmt.Sprintf("%.3f", f.Distance),
			strconv.Itoa(len(f.Rings)),
			fmt.Sprintf("%d (%+.1f°)", f.EvStart, f.Rings[f.EvStart].Elevation),
			strconv.Itoa(measured),
		})
	}
	return renderTable(
		[]string{"Field", "Distance (m)", "Rings", "Start ring", "Directions"},
		rows,
		[]columnAlignment{alignRight, alignRight, alignRight, alignRight, alignRight},
	)
}
