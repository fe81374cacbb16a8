package analysis

import (
	"context"
	"path/filepath"
	"sync/atomic"
	"testing"

	"github.com/panbanda/gauge/internal/testutil"
	"github.com/panbanda/gauge/pkg/analyzer"
	"github.com/panbanda/gauge/pkg/config"
	"github.com/panbanda/gauge/pkg/models"
	"github.com/panbanda/gauge/pkg/source"
)

func TestNew(t *testing.T) {
	svc := New()
	if svc == nil {
		t.Fatal("New() returned nil")
	}
	if svc.config == nil {
		t.Error("config should not be nil")
	}
	if svc.memo == nil {
		t.Error("memo should be enabled by default")
	}
}

func TestNewWithConfig(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Cache.MemoEntries = 0
	svc := New(WithConfig(cfg))
	if svc.config != cfg {
		t.Error("WithConfig did not set config")
	}
	if svc.memo != nil {
		t.Error("memo should be disabled when MemoEntries is 0")
	}
}

func TestAnalyzeComplexity(t *testing.T) {
	root := t.TempDir()
	files := testutil.CreateFileTree(t, root, testutil.Snippets)

	svc := New(WithConfig(config.DefaultConfig()))
	report, err := svc.AnalyzeComplexity(context.Background(), files, ComplexityOptions{})
	if err != nil {
		t.Fatalf("AnalyzeComplexity() error = %v", err)
	}

	want := map[string]models.ComplexityClass{
		"constant.go":  models.ClassConstant,
		"fib.java":     models.ClassExponential,
		"linear.js":    models.ClassLinear,
		"quadratic.py": models.ClassQuadratic,
	}
	if len(report.Files) != len(want) {
		t.Fatalf("got %d files, want %d", len(report.Files), len(want))
	}
	for _, f := range report.Files {
		name := filepath.Base(f.Path)
		if f.Estimate.Time != want[name] {
			t.Errorf("%s: Time = %s, want %s", name, f.Estimate.Time, want[name])
		}
	}
	if report.Summary.TotalFiles != 4 {
		t.Errorf("TotalFiles = %d, want 4", report.Summary.TotalFiles)
	}
	if report.Summary.WorstTime != models.ClassExponential {
		t.Errorf("WorstTime = %s, want O(2^n)", report.Summary.WorstTime)
	}
}

func TestAnalyzeComplexityForcedLanguage(t *testing.T) {
	src := source.MemorySource{
		"snippet.txt": []byte("for x in xs:\n    for y in ys:\n        pass\n"),
	}

	svc := New(WithConfig(config.DefaultConfig()))

	detected, err := svc.AnalyzeComplexity(context.Background(), []string{"snippet.txt"}, ComplexityOptions{Source: src})
	if err != nil {
		t.Fatalf("AnalyzeComplexity() error = %v", err)
	}
	if !detected.Files[0].Fallback {
		t.Error("unknown extension should use the generic profile")
	}

	forced, err := svc.AnalyzeComplexity(context.Background(), []string{"snippet.txt"}, ComplexityOptions{
		Source:   src,
		Language: "python",
	})
	if err != nil {
		t.Fatalf("AnalyzeComplexity() error = %v", err)
	}
	if got := forced.Files[0]; got.Language != "python" || got.Estimate.Time != models.ClassQuadratic {
		t.Errorf("forced python: language %s time %s", got.Language, got.Estimate.Time)
	}
}

func TestAnalyzeComplexityConfiguredLanguage(t *testing.T) {
	src := source.MemorySource{"a": []byte("while (x) { x--; }")}
	cfg := config.DefaultConfig()
	cfg.Analysis.Language = "java"

	report, err := New(WithConfig(cfg)).AnalyzeComplexity(context.Background(), []string{"a"}, ComplexityOptions{Source: src})
	if err != nil {
		t.Fatalf("AnalyzeComplexity() error = %v", err)
	}
	if report.Files[0].Language != "java" {
		t.Errorf("Language = %s, want java", report.Files[0].Language)
	}
}

func TestAnalyzeComplexitySkipsUnreadableAndLargeFiles(t *testing.T) {
	src := source.MemorySource{
		"small.js": []byte("let a = 1;"),
		"large.js": []byte("let a = 1; let b = 2; let c = 3; let d = 4;"),
	}

	svc := New(WithConfig(config.DefaultConfig()))
	report, err := svc.AnalyzeComplexity(context.Background(), []string{"small.js", "large.js", "missing.js"}, ComplexityOptions{
		Source:      src,
		MaxFileSize: 20,
	})
	if err != nil {
		t.Fatalf("AnalyzeComplexity() error = %v", err)
	}
	if len(report.Files) != 1 || report.Files[0].Path != "small.js" {
		t.Errorf("expected only small.js, got %+v", report.Files)
	}
}

func TestAnalyzeComplexityProgress(t *testing.T) {
	root := t.TempDir()
	files := testutil.CreateFileTree(t, root, testutil.Snippets)

	var ticks atomic.Int32
	tracker := analyzer.NewTracker(func(analyzer.Progress) { ticks.Add(1) })
	ctx := analyzer.WithTracker(context.Background(), tracker)

	if _, err := New(WithConfig(config.DefaultConfig())).AnalyzeComplexity(ctx, files, ComplexityOptions{}); err != nil {
		t.Fatalf("AnalyzeComplexity() error = %v", err)
	}
	if tracker.Current() != len(files) {
		t.Errorf("tracker current = %d, want %d", tracker.Current(), len(files))
	}
	if ticks.Load() == 0 {
		t.Error("progress callback was never called")
	}
}

func TestAnalyzeComplexityCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	src := source.MemorySource{"a.js": []byte("let a = 1;")}
	_, err := New(WithConfig(config.DefaultConfig())).AnalyzeComplexity(ctx, []string{"a.js"}, ComplexityOptions{Source: src})
	if err == nil {
		t.Error("expected context error")
	}
}

func TestAnalyzeSnippetMemo(t *testing.T) {
	svc := New(WithConfig(config.DefaultConfig()))

	code := "function f(n) { if (n < 2) return n; return f(n - 1) + f(n - 2); }"
	first := svc.AnalyzeSnippet(code, "javascript")
	second := svc.AnalyzeSnippet(code, "javascript")

	if first.Estimate.Time != models.ClassExponential {
		t.Errorf("Time = %s, want O(2^n)", first.Estimate.Time)
	}
	if first.Profile != second.Profile {
		t.Error("memoized result differs")
	}
	if svc.memo.Len() != 1 {
		t.Errorf("memo holds %d entries, want 1", svc.memo.Len())
	}
}

func TestSimilarityOptionsFromConfig(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Similarity.ShingleSize = 5
	cfg.Similarity.Threshold = 0.5
	cfg.Similarity.NormalizeIdentifiers = true
	cfg.Analysis.Language = "go"

	opts := New(WithConfig(cfg)).SimilarityOptions()
	want := SimilarityOptions{ShingleSize: 5, Threshold: 0.5, NormalizeIdentifiers: true, Language: "go"}
	if opts != want {
		t.Errorf("SimilarityOptions() = %+v, want %+v", opts, want)
	}
}

func TestComparePlagiarism(t *testing.T) {
	svc := New(WithConfig(config.DefaultConfig()))
	opts := svc.SimilarityOptions()

	corpus := []models.CorpusEntry{
		{ID: "copy", Text: "function add(a,b){return a+b;}"},
		{ID: "other", Text: "print('hello')"},
	}
	res, err := svc.ComparePlagiarism(context.Background(), "function add(a, b) {\n  return a + b;\n}", corpus, opts)
	if err != nil {
		t.Fatalf("ComparePlagiarism() error = %v", err)
	}
	if res.Score != 100 || res.BestMatch != "copy" {
		t.Errorf("Score = %d BestMatch = %q, want 100 copy", res.Score, res.BestMatch)
	}
	if res.Summary.Flagged != 1 {
		t.Errorf("Flagged = %d, want 1", res.Summary.Flagged)
	}
}

func TestCluster(t *testing.T) {
	svc := New(WithConfig(config.DefaultConfig()))
	corpus := []models.CorpusEntry{
		{ID: "a", Text: "for (i = 0; i < n; i++) { total += xs[i]; }"},
		{ID: "b", Text: "for (i = 0; i < n; i++) {\n  total += xs[i];\n}"},
		{ID: "c", Text: "return compute(x, y, z);"},
	}

	report, err := svc.Cluster(context.Background(), corpus, svc.SimilarityOptions())
	if err != nil {
		t.Fatalf("Cluster() error = %v", err)
	}
	if len(report.Clusters) != 1 {
		t.Fatalf("got %d clusters, want 1", len(report.Clusters))
	}
	if got := report.Clusters[0].Members; len(got) != 2 || got[0] != "a" || got[1] != "b" {
		t.Errorf("Members = %v, want [a b]", got)
	}
}
