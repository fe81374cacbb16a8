// Package fileproc provides concurrent file processing utilities.
package fileproc

import (
	"context"
	"fmt"
	"runtime"
	"sync"

	"github.com/sourcegraph/conc/pool"

	"github.com/panbanda/gauge/pkg/analyzer"
	"github.com/panbanda/gauge/pkg/source"
)

// ProcessingError represents an error that occurred while processing a file.
type ProcessingError struct {
	Path string
	Err  error
}

func (e ProcessingError) Error() string {
	return fmt.Sprintf("%s: %v", e.Path, e.Err)
}

// ProcessingErrors collects multiple file processing errors.
type ProcessingErrors struct {
	Errors []ProcessingError
	mu     sync.Mutex
}

// Add appends an error to the collection (thread-safe).
func (e *ProcessingErrors) Add(path string, err error) {
	e.mu.Lock()
	e.Errors = append(e.Errors, ProcessingError{Path: path, Err: err})
	e.mu.Unlock()
}

// HasErrors returns true if any errors were collected.
func (e *ProcessingErrors) HasErrors() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.Errors) > 0
}

// Error implements the error interface.
func (e *ProcessingErrors) Error() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	if len(e.Errors) == 0 {
		return "no errors"
	}
	if len(e.Errors) == 1 {
		return e.Errors[0].Error()
	}
	return fmt.Sprintf("%d files failed to process (first: %v)", len(e.Errors), e.Errors[0])
}

// Unwrap returns nil (ProcessingErrors doesn't wrap a single error).
func (e *ProcessingErrors) Unwrap() error {
	return nil
}

// DefaultWorkerMultiplier is the multiplier applied to NumCPU for worker count.
const DefaultWorkerMultiplier = 2

// Workers returns the default worker count.
func Workers() int {
	return runtime.NumCPU() * DefaultWorkerMultiplier
}

type fileWithContent struct {
	path    string
	content []byte
}

// MapSourceFiles reads files from src and processes them in parallel.
// Files that exceed maxSize bytes are skipped silently (0 = no limit).
// Read and processing failures are collected into the returned
// ProcessingErrors, which is nil when nothing failed. Results keep the
// order of files. Progress is tracked via context using analyzer.WithTracker.
func MapSourceFiles[T any](
	ctx context.Context,
	files []string,
	src source.ContentSource,
	maxSize int64,
	fn func(path string, content []byte) (T, error),
) ([]T, *ProcessingErrors) {
	if len(files) == 0 {
		return nil, nil
	}

	errs := &ProcessingErrors{}

	// Read sequentially; git trees are not safe for concurrent access.
	loaded := make([]fileWithContent, 0, len(files))
	for _, path := range files {
		content, err := src.Read(path)
		if err != nil {
			errs.Add(path, err)
			continue
		}
		if maxSize > 0 && int64(len(content)) > maxSize {
			continue
		}
		loaded = append(loaded, fileWithContent{path: path, content: content})
	}

	results, procErrs := Map(ctx, loaded, func(fc fileWithContent) (string, T, error) {
		out, err := fn(fc.path, fc.content)
		return fc.path, out, err
	})
	if procErrs != nil {
		for _, e := range procErrs.Errors {
			errs.Add(e.Path, e.Err)
		}
	}

	if !errs.HasErrors() {
		return results, nil
	}
	return results, errs
}

// Map applies fn to every item in parallel with 2x NumCPU workers. fn
// returns the item's label (used for progress and errors) with its result.
// Results keep the input order; failed items are left out. Items not yet
// started when ctx is cancelled are skipped.
func Map[In, Out any](
	ctx context.Context,
	items []In,
	fn func(In) (string, Out, error),
) ([]Out, *ProcessingErrors) {
	if len(items) == 0 {
		return nil, nil
	}

	tracker := analyzer.TrackerFromContext(ctx)
	if tracker != nil {
		tracker.Add(len(items))
	}

	out := make([]Out, len(items))
	ok := make([]bool, len(items))
	errs := &ProcessingErrors{}

	p := pool.New().WithMaxGoroutines(Workers()).WithContext(ctx)
	for i, item := range items {
		p.Go(func(ctx context.Context) error {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}

			label, result, err := fn(item)
			if tracker != nil {
				defer tracker.Tick(label)
			}
			if err != nil {
				errs.Add(label, err)
				return nil // individual failures do not stop the pool
			}
			out[i] = result
			ok[i] = true
			return nil
		})
	}
	_ = p.Wait() // cancellation is reported by the caller via ctx.Err

	results := make([]Out, 0, len(items))
	for i := range out {
		if ok[i] {
			results = append(results, out[i])
		}
	}

	if !errs.HasErrors() {
		return results, nil
	}
	return results, errs
}
