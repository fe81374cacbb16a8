// Package gauge estimates the asymptotic complexity of source snippets and
// scores how much a snippet overlaps a corpus of reference snippets.
//
// Both estimates are heuristic. Complexity is read off loop and recursion
// structure in a normalized token stream, without parsing or running the
// code, and the classes it reports are approximations rather than proven
// bounds. Neither entry point returns an error: unknown languages fall back
// to a generic C-like profile, and empty inputs produce neutral results.
package gauge

import (
	"context"

	"github.com/panbanda/gauge/pkg/analyzer/complexity"
	"github.com/panbanda/gauge/pkg/analyzer/similarity"
	"github.com/panbanda/gauge/pkg/models"
)

// AnalyzeComplexity returns the time and space estimate for code written in
// language. Empty code is O(1)/O(1); structure too weak to classify under the
// generic profile is O(?) with low confidence.
func AnalyzeComplexity(code, language string) models.Estimate {
	return complexity.AnalyzeSnippet(code, language).Estimate
}

// AnalyzeSnippet is AnalyzeComplexity with the detected language, line
// count and structural profile attached.
func AnalyzeSnippet(code, language string) models.ComplexityResult {
	return complexity.AnalyzeSnippet(code, language)
}

// DetectPlagiarism returns the highest similarity of code to any corpus
// text, as an integer percentage. An empty code or corpus scores 0.
func DetectPlagiarism(code string, corpus []string) int {
	return similarity.New().Score(code, corpus)
}

// CompareSnippet scores code against every corpus entry and reports the
// per-entry matches with summary statistics.
func CompareSnippet(code string, corpus []models.CorpusEntry, opts ...similarity.Option) models.PlagiarismResult {
	return similarity.New(opts...).Compare(code, corpus)
}

// CompareSnippetContext is CompareSnippet with cancellation.
func CompareSnippetContext(ctx context.Context, code string, corpus []models.CorpusEntry, opts ...similarity.Option) (models.PlagiarismResult, error) {
	return similarity.New(opts...).CompareContext(ctx, code, corpus)
}
