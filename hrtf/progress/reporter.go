package progress

import (
	"fmt"
	"io"
	"log/slog"
	"sync"
)

// lineReporter rewrites a single terminal line.
type lineReporter struct {
	mu   sync.Mutex
	w    io.Writer
	last Update
}

// NewLineReporter returns a reporter that prints "Stage... done of total"
// on one line, rewriting it in place, and ends the line once a stage
// completes. Repeated identical samples are not printed again.
func NewLineReporter(w io.Writer) Reporter {
	return &lineReporter{w: w, last: Update{Done: -1}}
}

func (l *lineReporter) Report(u Update) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if u == l.last {
		return
	}
	l.last = u

	fmt.Fprintf(l.w, "\r%s... %d of %d", u.Stage, u.Done, u.Total)
	if u.Done >= u.Total {
		fmt.Fprintln(l.w)
	}
}

// logReporter logs samples when the stage changes or the percentage crosses
// a bucket boundary.
type logReporter struct {
	mu         sync.Mutex
	logger     *slog.Logger
	bucketSize float64
	lastStage  string
	lastBucket int
}

// NewLogReporter returns a reporter that logs at info level each time a
// stage starts or its progress crosses another bucketSize percent (default
// 10).
func NewLogReporter(logger *slog.Logger, bucketSize float64) Reporter {
	if bucketSize <= 0 {
		bucketSize = 10
	}
	return &logReporter{logger: logger, bucketSize: bucketSize, lastBucket: -1}
}

func (l *logReporter) Report(u Update) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if !l.shouldLog(u) {
		return
	}
	l.logger.Info("progress", "stage", u.Stage, "done", u.Done, "total", u.Total)
}

func (l *logReporter) shouldLog(u Update) bool {
	emit := false
	if u.Stage != l.lastStage {
		l.lastStage = u.Stage
		l.lastBucket = -1
		emit = true
	}

	if p := u.Percent(); p >= 0 {
		bucket := int(p / l.bucketSize)
		if bucket > l.lastBucket {
			l.lastBucket = bucket
			emit = true
		}
	}
	return emit
}
