package analyzer

import (
	"context"
	"sync"
	"testing"
)

func TestTrackerAddAndTick(t *testing.T) {
	var mu sync.Mutex
	var got []Progress

	tracker := NewTracker(func(p Progress) {
		mu.Lock()
		got = append(got, p)
		mu.Unlock()
	})

	tracker.Add(2)
	tracker.Add(1)
	tracker.Tick("a.js")
	tracker.Tick("b.py")
	tracker.Tick("c.go")

	if tracker.Total() != 3 || tracker.Current() != 3 {
		t.Fatalf("Total/Current = %d/%d, want 3/3", tracker.Total(), tracker.Current())
	}
	if len(got) != 3 {
		t.Fatalf("expected 3 reports, got %d", len(got))
	}
	if got[0] != (Progress{Current: 1, Total: 3, Item: "a.js"}) {
		t.Errorf("first report = %+v", got[0])
	}
	if got[2] != (Progress{Current: 3, Total: 3, Item: "c.go"}) {
		t.Errorf("last report = %+v", got[2])
	}
}

func TestProgressFraction(t *testing.T) {
	tests := []struct {
		p    Progress
		want float64
	}{
		{Progress{Current: 1, Total: 4}, 0.25},
		{Progress{Current: 4, Total: 4}, 1},
		{Progress{Current: 3, Total: 0}, 0},
	}
	for _, tt := range tests {
		if got := tt.p.Fraction(); got != tt.want {
			t.Errorf("%+v.Fraction() = %v, want %v", tt.p, got, tt.want)
		}
	}
}

func TestTrackerConcurrentTicks(t *testing.T) {
	tracker := NewTracker(nil)
	tracker.Add(100)

	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			tracker.Tick("snippet")
		}()
	}
	wg.Wait()

	if got := tracker.Current(); got != 100 {
		t.Errorf("Current() = %d, want 100", got)
	}
}

func TestTrackerContext(t *testing.T) {
	if TrackerFromContext(context.Background()) != nil {
		t.Error("expected nil tracker on a bare context")
	}

	tracker := NewTracker(nil)
	ctx := WithTracker(context.Background(), tracker)
	if TrackerFromContext(ctx) != tracker {
		t.Error("TrackerFromContext should return the stored tracker")
	}
}
