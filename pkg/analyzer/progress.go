package analyzer

import (
	"context"
	"sync/atomic"
)

// Progress is one progress report.
type Progress struct {
	Current int
	Total   int
	// Item names the file or corpus entry that just finished.
	Item string
}

// Fraction returns Current/Total, or 0 while the total is unknown.
func (p Progress) Fraction() float64 {
	if p.Total <= 0 {
		return 0
	}
	return float64(p.Current) / float64(p.Total)
}

// ProgressFunc receives a report after every finished item. It may be
// called from several goroutines at once.
type ProgressFunc func(Progress)

// Tracker counts finished items of a batch run. Safe for concurrent use.
type Tracker struct {
	total    atomic.Int64
	current  atomic.Int64
	callback ProgressFunc
}

// NewTracker creates a tracker. A nil callback only counts.
func NewTracker(callback ProgressFunc) *Tracker {
	return &Tracker{callback: callback}
}

// Add grows the expected total by n. Batches call it once they know
// how many items they will process.
func (t *Tracker) Add(n int) {
	t.total.Add(int64(n))
}

// Tick marks item as finished and reports.
func (t *Tracker) Tick(item string) {
	current := t.current.Add(1)
	if t.callback != nil {
		t.callback(Progress{Current: int(current), Total: int(t.total.Load()), Item: item})
	}
}

// Current returns how many items have finished.
func (t *Tracker) Current() int { return int(t.current.Load()) }

// Total returns the expected item count.
func (t *Tracker) Total() int { return int(t.total.Load()) }

type trackerKey struct{}

// WithTracker returns a context carrying t.
func WithTracker(ctx context.Context, t *Tracker) context.Context {
	return context.WithValue(ctx, trackerKey{}, t)
}

// TrackerFromContext returns the tracker carried by ctx, or nil.
// Methods of a nil *Tracker are not safe; callers check.
func TrackerFromContext(ctx context.Context) *Tracker {
	t, _ := ctx.Value(trackerKey{}).(*Tracker)
	return t
}
