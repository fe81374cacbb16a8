// Package complexity estimates asymptotic time and space complexity of
// source snippets from their loop and recursion structure.
//
// The estimate is heuristic. It is produced from a normalized token stream,
// never from a syntax tree, and reports low confidence or O(?) when the
// structure is ambiguous instead of guessing.
package complexity

import (
	"context"

	"github.com/panbanda/gauge/internal/fileproc"
	"github.com/panbanda/gauge/internal/logging"
	"github.com/panbanda/gauge/pkg/analyzer"
	"github.com/panbanda/gauge/pkg/lang"
	"github.com/panbanda/gauge/pkg/models"
	"github.com/panbanda/gauge/pkg/normalize"
	"github.com/panbanda/gauge/pkg/source"
)

// Ensure Analyzer implements analyzer.FileAnalyzer.
var _ analyzer.FileAnalyzer[*models.ComplexityReport] = (*Analyzer)(nil)

// AnalyzeSnippet estimates the complexity of code written in language.
// Unknown languages use the generic C-like profile; empty code is O(1).
// It never fails and is safe for concurrent use.
func AnalyzeSnippet(code, language string) models.ComplexityResult {
	p, ok := lang.Lookup(language)
	if !ok && language != "" {
		logging.Debug("unsupported language, using generic profile", "language", language)
	}

	ts := normalize.Tokenize(code, p)
	prof := BuildProfile(ts, p)
	est := Classify(prof)
	if !est.Time.Known() {
		logging.Debug("ambiguous structure", "language", language, "tokens", prof.Tokens)
	}

	return models.ComplexityResult{
		Language: string(p.Language),
		Fallback: p.IsFallback(),
		Lines:    ts.Lines,
		Estimate: est,
		Profile:  prof,
	}
}

// Analyzer estimates complexity for files.
type Analyzer struct {
	maxFileSize int64
	language    string
}

// Option is a functional option for configuring Analyzer.
type Option func(*Analyzer)

// WithMaxFileSize sets the maximum file size to analyze (0 = no limit).
func WithMaxFileSize(maxSize int64) Option {
	return func(a *Analyzer) {
		a.maxFileSize = maxSize
	}
}

// WithLanguage forces a language tag instead of detecting it from the
// file extension.
func WithLanguage(tag string) Option {
	return func(a *Analyzer) {
		a.language = tag
	}
}

// New creates a new complexity analyzer.
func New(opts ...Option) *Analyzer {
	a := &Analyzer{}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// AnalyzeFile analyzes a single file from the filesystem.
func (a *Analyzer) AnalyzeFile(path string) (*models.FileComplexity, error) {
	return a.AnalyzeFileFromSource(source.NewFilesystem(), path)
}

// AnalyzeFileFromSource analyzes a single file from a ContentSource.
func (a *Analyzer) AnalyzeFileFromSource(src source.ContentSource, path string) (*models.FileComplexity, error) {
	content, err := src.Read(path)
	if err != nil {
		return nil, err
	}
	fc := a.analyzeContent(path, content)
	return &fc, nil
}

func (a *Analyzer) analyzeContent(path string, content []byte) models.FileComplexity {
	tag := a.language
	if tag == "" {
		tag = lang.Detect(path)
	}
	return models.FileComplexity{
		Path:             path,
		ComplexityResult: AnalyzeSnippet(string(content), tag),
	}
}

// Analyze analyzes files from the filesystem using parallel processing.
// Progress is tracked via context using analyzer.WithTracker.
func (a *Analyzer) Analyze(ctx context.Context, files []string) (*models.ComplexityReport, error) {
	return a.AnalyzeProjectFromSource(ctx, files, source.NewFilesystem())
}

// AnalyzeProjectFromSource analyzes files from a ContentSource using
// parallel processing. Files that cannot be read are logged and skipped.
func (a *Analyzer) AnalyzeProjectFromSource(ctx context.Context, files []string, src source.ContentSource) (*models.ComplexityReport, error) {
	results, errs := fileproc.MapSourceFiles(ctx, files, src, a.maxFileSize,
		func(path string, content []byte) (models.FileComplexity, error) {
			return a.analyzeContent(path, content), nil
		})
	if errs != nil {
		for _, e := range errs.Errors {
			logging.Warn("skipping file", "path", e.Path, "error", e.Err)
		}
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return models.AggregateResults(results), nil
}

// Close releases analyzer resources.
func (a *Analyzer) Close() {}
