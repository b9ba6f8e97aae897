// Package progress runs a long stage in the background and reports how far
// it got by polling an atomic counter.
package progress

import (
	"sync/atomic"
	"time"
)

// DefaultInterval is the poll interval used when none is given.
const DefaultInterval = 50 * time.Millisecond

// Update is one progress sample.
type Update struct {
	Stage string
	Done  int
	Total int
}

// Percent returns the completed share in [0, 100], or -1 when Total is 0.
func (u Update) Percent() float64 {
	if u.Total <= 0 {
		return -1
	}
	return 100 * float64(u.Done) / float64(u.Total)
}

// Reporter receives progress samples from the polling goroutine.
type Reporter interface {
	Report(Update)
}

// ReporterFunc adapts a function to [Reporter].
type ReporterFunc func(Update)

// Report calls f(u).
func (f ReporterFunc) Report(u Update) { f(u) }

// Discard drops every update.
var Discard Reporter = ReporterFunc(func(Update) {})

// Counter counts finished work items. It is safe for concurrent use, and a
// nil *Counter ignores increments.
type Counter struct {
	n atomic.Int64
}

// Inc marks one more item as done.
func (c *Counter) Inc() {
	if c != nil {
		c.n.Add(1)
	}
}

// Load returns the number of finished items.
func (c *Counter) Load() int {
	if c == nil {
		return 0
	}
	return int(c.n.Load())
}

// Run starts task in its own goroutine and reports the counter every
// interval until the task returns. A final update is always sent. Run
// returns the task's error.
func Run(stage string, total int, interval time.Duration, r Reporter, task func(*Counter) error) error {
	if r == nil {
		r = Discard
	}
	if interval <= 0 {
		interval = DefaultInterval
	}

	var c Counter
	done := make(chan error, 1)

	go func() {
		done <- task(&c)
	}()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case err := <-done:
			r.Report(Update{Stage: stage, Done: c.Load(), Total: total})
			return err
		case <-ticker.C:
			r.Report(Update{Stage: stage, Done: c.Load(), Total: total})
		}
	}
}
