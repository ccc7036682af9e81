package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"sync"

	"github.com/mattn/go-isatty"
	"github.com/schollz/progressbar/v3"

	burstpick "github.com/anatolykoptev/go-burstpick"
)

// newReporter picks a progress reporter for mode ("auto", "bar", "log",
// "none"). The returned finish func completes the bar and is safe to call
// more than once.
func newReporter(mode string, w io.Writer) (burstpick.Reporter, func()) {
	switch mode {
	case "none":
		return burstpick.NopReporter{}, func() {}
	case "log":
		return logReporter{}, func() {}
	case "bar":
	default:
		if !isTerminal(w) {
			return logReporter{}, func() {}
		}
	}
	r := &barReporter{w: w}
	return r, r.finish
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	fd := f.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// barReporter draws a terminal progress bar sized on the first event.
type barReporter struct {
	w    io.Writer
	once sync.Once
	bar  *progressbar.ProgressBar
	done sync.Once
}

func (r *barReporter) GroupDone(done, total int) {
	r.once.Do(func() {
		r.bar = progressbar.NewOptions(total,
			progressbar.OptionSetWriter(r.w),
			progressbar.OptionSetDescription("groups"),
			progressbar.OptionShowCount(),
			progressbar.OptionSetWidth(40),
			progressbar.OptionOnCompletion(func() { fmt.Fprintln(r.w) }),
		)
	})
	_ = r.bar.Set(done)
}

func (r *barReporter) finish() {
	r.done.Do(func() {
		if r.bar != nil && !r.bar.IsFinished() {
			_ = r.bar.Finish()
		}
	})
}

// logReporter writes one structured line per processed group.
type logReporter struct{}

func (logReporter) GroupDone(done, total int) {
	slog.Info("burstpick: progress", "done", done, "total", total,
		"percent", fmt.Sprintf("%.1f", 100*float64(done)/float64(total)))
}
