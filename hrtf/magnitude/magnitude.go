// Package magnitude replaces every impulse response in a grid with its
// single-sided magnitude response, spreading the slots over a pool of
// workers.
package magnitude

import (
	"context"
	"fmt"
	"sync/atomic"

	algofft "github.com/MeKo-Christian/algo-fft"
	"golang.org/x/sync/errgroup"

	"github.com/cwbudde/algo-hrtf/dsp/spectrum"
	"github.com/cwbudde/algo-hrtf/hrtf"
	"github.com/cwbudde/algo-hrtf/hrtf/grid"
	"github.com/cwbudde/algo-hrtf/hrtf/progress"
)

// Floor is the smallest magnitude written to the grid.
const Floor = 1e-9

// Calculate transforms the first IRPoints samples of every owned slot and
// channel into FFTSize/2+1 magnitude bins, written over the start of the
// slot's storage. Slots are handed out to workers through a shared cursor;
// c is incremented once per finished slot and may be nil. The result does
// not depend on the number of workers.
func Calculate(g *grid.Grid, workers int, c *progress.Counter) error {
	workers = max(workers, 1)

	items := g.Owned()

	var cursor atomic.Int64
	eg, ctx := errgroup.WithContext(context.Background())

	for range workers {
		eg.Go(func() error {
			w, err := newWorker(g)
			if err != nil {
				return err
			}
			return w.run(ctx, items, &cursor, c)
		})
	}

	return eg.Wait()
}

type worker struct {
	g    *grid.Grid
	plan *algofft.Plan[complex128]
	in   []complex128
	out  []complex128
}

func newWorker(g *grid.Grid) (*worker, error) {
	plan, err := algofft.NewPlan64(g.FFTSize)
	if err != nil {
		return nil, fmt.Errorf("%w: fft plan of size %d: %v", hrtf.ErrResource, g.FFTSize, err)
	}

	return &worker{
		g:    g,
		plan: plan,
		in:   make([]complex128, g.FFTSize),
		out:  make([]complex128, g.FFTSize),
	}, nil
}

// run claims items until none are left or another worker failed.
func (w *worker) run(ctx context.Context, items []int, cursor *atomic.Int64, c *progress.Counter) error {
	for {
		if ctx.Err() != nil {
			return nil
		}

		n := cursor.Load()
		if n >= int64(len(items)) {
			return nil
		}
		if !cursor.CompareAndSwap(n, n+1) {
			continue
		}

		if err := w.slot(items[n]); err != nil {
			return err
		}
		c.Inc()
	}
}

func (w *worker) slot(i int) error {
	g := w.g
	bins := g.FFTSize/2 + 1
	points := min(g.IRPoints, g.FFTSize)

	for ch := range g.Channels() {
		ir := g.IR(i, ch)

		for k, v := range ir[:points] {
			w.in[k] = complex(v, 0)
		}
		clear(w.in[points:])

		if err := w.plan.Forward(w.out, w.in); err != nil {
			return fmt.Errorf("%w: fft of slot %d: %v", hrtf.ErrResource, i, err)
		}

		spectrum.MagnitudeResponse(ir[:bins], w.out[:bins], Floor)
	}

	return nil
}
