package main

import (
	"io"
	"log/slog"
	"os"
	"sync"

	"github.com/mattn/go-isatty"
	"github.com/schollz/progressbar/v3"

	"github.com/cwbudde/algo-hrtf/hrtf/progress"
	"github.com/cwbudde/algo-hrtf/internal/config"
)

// barReporter draws one progress bar per stage.
type barReporter struct {
	mu    sync.Mutex
	w     io.Writer
	stage string
	bar   *progressbar.ProgressBar
}

func newBarReporter(w io.Writer) *barReporter {
	return &barReporter{w: w}
}

func (b *barReporter) Report(u progress.Update) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.bar == nil || u.Stage != b.stage {
		if b.bar != nil {
			_ = b.bar.Finish()
		}
		b.stage = u.Stage
		b.bar = progressbar.NewOptions(u.Total,
			progressbar.OptionSetWriter(b.w),
			progressbar.OptionSetDescription(u.Stage),
			progressbar.OptionShowCount(),
			progressbar.OptionOnCompletion(func() { _, _ = io.WriteString(b.w, "\n") }),
		)
	}

	_ = b.bar.Set(u.Done)
}

func isTerminal(w io.Writer) bool {
	file, ok := w.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// newReporter picks the progress display for style. "auto" draws a bar on
// terminals and logs otherwise.
func newReporter(style string, w io.Writer, logger *slog.Logger) progress.Reporter {
	switch style {
	case config.ProgressBar:
		return newBarReporter(w)
	case config.ProgressLine:
		return progress.NewLineReporter(w)
	case config.ProgressLog:
		return progress.NewLogReporter(logger, 0)
	case config.ProgressNone:
		return progress.Discard
	default:
		if isTerminal(w) {
			return newBarReporter(w)
		}
		return progress.NewLogReporter(logger, 0)
	}
}
