package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/cwbudde/algo-hrtf/hrtf/layout"
	"github.com/cwbudde/algo-hrtf/hrtf/sofa"
)

func newLayoutCommand(ctx *commandContext) *cobra.Command {
	var allow bool

	cmd := &cobra.Command{
		Use:   "layout <dataset.json>",
		Short: "Validate a dataset and print the inferred measurement layout",
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

			d, err := ctx.loadDataset(args[0])
			if err != nil {
				return err
			}

			v := sofa.Validator{
				AllowUnknown: cfg.Pipeline.AllowUnknownAttributes || allow,
				Logger:       logger,
			}
			h, err := v.Check(d)
			if err != nil {
				return err
			}

			positions, err := d.Positions()
			if err != nil {
				return err
			}
			fields, err := layout.Infer(positions, layout.WithLogger(logger))
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			used := 0
			for _, f := range fields {
				used += f.Measured()
			}
			fmt.Fprintf(out, "%s Hz, %d receiver(s), delays %s, %s measurements of %d samples\n",
				humanize.Comma(int64(h.Rate)), h.Channels, h.Delay, humanize.Comma(int64(d.Measurements)), d.Samples)
			fmt.Fprintf(out, "Using %d of %d IRs.\n", used, len(positions))
			fmt.Fprintln(out, renderLayoutTable(fields))
			return nil
		},
	}

	cmd.Flags().BoolVar(&allow, "allow-unknown", false, "Warn about unexpected dataset attributes instead of failing")

	return cmd
}

func renderLayoutTable(fields []layout.Field) string {
	rows := make([][]string, 0, len(fields))
	for fi, f := range fields {
		counts := make([]string, len(f.AzCounts))
		for ei, n := range f.AzCounts {
			counts[ei] = strconv.Itoa(n)
			if ei < f.EvStart {
				counts[ei] = "(" + counts[ei] + ")"
			}
		}
		rows = append(rows, []string{
			strconv.Itoa(fi),
			fmt.Sprintf("%.3f", f.Distance),
			strconv.Itoa(f.EvCount()),
			strconv.Itoa(f.EvStart),
			strings.Join(counts, " "),
		})
	}
	return renderTable(
		[]string{"Field", "Distance (m)", "Rings", "Start", "Azimuths per ring"},
		rows,
		[]columnAlignment{alignRight, alignRight, alignRight, alignRight, alignLeft},
	)
}
