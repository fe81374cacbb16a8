package progress

import (
	"bytes"
	"errors"
	"io"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBarFollowsTracker(t *testing.T) {
	b := newBar("Analyzing", io.Discard, io.Discard)
	tracker := b.Tracker()
	tracker.Add(4)

	var wg sync.WaitGroup
	for _, item := range []string{"a.js", "b.py", "c.go", "d.rs"} {
		wg.Add(1)
		go func() {
			defer wg.Done()
			tracker.Tick(item)
		}()
	}
	wg.Wait()

	assert.Equal(t, 4, tracker.Current())
	assert.Equal(t, 4, b.max)
	b.FinishSuccess()
}

func TestBarFinishError(t *testing.T) {
	var out bytes.Buffer
	b := newBar("Comparing", io.Discard, &out)
	b.FinishError(errors.New("corpus missing"))
	assert.Contains(t, out.String(), "Comparing error: corpus missing")
}

func TestDisabledBar(t *testing.T) {
	b := New("quiet", false)
	assert.NotPanics(t, func() {
		tr := b.Tracker()
		tr.Add(1)
		tr.Tick("x")
		b.FinishSuccess()
	})
}
