package pipeline

import (
	"io"
	"log/slog"
	"time"

	"github.com/cwbudde/algo-hrtf/hrtf/progress"
)

type options struct {
	logger   *slog.Logger
	reporter progress.Reporter
	interval time.Duration
}

// Option configures Load.
type Option func(*options)

// WithLogger sets the logger for diagnostics. The default discards them.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithReporter sets where stage progress goes.
func WithReporter(r progress.Reporter) Option {
	return func(o *options) {
		if r != nil {
			o.reporter = r
		}
	}
}

// WithPollInterval sets how often progress is sampled.
func WithPollInterval(d time.Duration) Option {
	return func(o *options) {
		if d > 0 {
			o.interval = d
		}
	}
}

func applyOptions(opts []Option) options {
	o := options{
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
		reporter: progress.Discard,
		interval: progress.DefaultInterval,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}
	return o
}
