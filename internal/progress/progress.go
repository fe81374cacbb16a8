// Package progress draws batch progress on stderr.
package progress

import (
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/schollz/progressbar/v3"

	"github.com/panbanda/gauge/pkg/analyzer"
)

// Bar is a progress bar fed by an analyzer.Tracker.
type Bar struct {
	mu    sync.Mutex
	bar   *progressbar.ProgressBar
	out   io.Writer
	label string
	max   int
}

// New creates a bar writing to stderr. A disabled bar draws nothing but
// still reports the finish messages.
func New(label string, enabled bool) *Bar {
	var w io.Writer = os.Stderr
	if !enabled {
		w = io.Discard
	}
	return newBar(label, w, os.Stderr)
}

func newBar(label string, w, out io.Writer) *Bar {
	bar := progressbar.NewOptions(-1,
		progressbar.OptionSetWriter(w),
		progressbar.OptionShowCount(),
		progressbar.OptionSetWidth(30),
		progressbar.OptionSetDescription(label),
		progressbar.OptionUseANSICodes(true),
		progressbar.OptionSetElapsedTime(false),
		progressbar.OptionSetPredictTime(false),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "=",
			SaucerHead:    ">",
			SaucerPadding: " ",
			BarStart:      "[",
			BarEnd:        "]",
		}),
	)
	return &Bar{bar: bar, out: out, label: label, max: -1}
}

// Update moves the bar to p. Safe for concurrent use.
func (b *Bar) Update(p analyzer.Progress) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if p.Total > 0 && p.Total != b.max {
		b.max = p.Total
		b.bar.ChangeMax(p.Total)
	}
	_ = b.bar.Set(p.Current)
}

// Tracker returns an analyzer.Tracker that drives this bar.
func (b *Bar) Tracker() *analyzer.Tracker {
	return analyzer.NewTracker(b.Update)
}

// FinishSuccess clears the bar.
func (b *Bar) FinishSuccess() {
	_ = b.bar.Finish()
	_ = b.bar.Clear()
}

// FinishError clears the bar and prints err.
func (b *Bar) FinishError(err error) {
	_ = b.bar.Finish()
	_ = b.bar.Clear()
	fmt.Fprintf(b.out, "  %s error: %v\n", b.label, err)
}
