// Package analyzer holds the contracts shared by the complexity and
// similarity analyzers, and the progress plumbing batch runs report through.
package analyzer

import (
	"context"

	"github.com/panbanda/gauge/pkg/models"
)

// FileAnalyzer analyzes a collection of files.
type FileAnalyzer[T any] interface {
	// Analyze processes files and returns the batch result. The context
	// cancels the run and may carry a Tracker.
	Analyze(ctx context.Context, files []string) (T, error)

	// Close releases any resources held by the analyzer.
	Close()
}

// CorpusComparer scores a candidate snippet against a reference corpus.
type CorpusComparer interface {
	CompareContext(ctx context.Context, candidate string, corpus []models.CorpusEntry) (models.PlagiarismResult, error)
}
