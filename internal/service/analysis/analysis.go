// Package analysis orchestrates complexity estimation and similarity
// scoring for the CLI and the MCP server.
package analysis

import (
	"context"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/panbanda/gauge/internal/cache"
	"github.com/panbanda/gauge/internal/fileproc"
	"github.com/panbanda/gauge/internal/logging"
	"github.com/panbanda/gauge/pkg/analyzer/complexity"
	"github.com/panbanda/gauge/pkg/analyzer/similarity"
	"github.com/panbanda/gauge/pkg/config"
	"github.com/panbanda/gauge/pkg/lang"
	"github.com/panbanda/gauge/pkg/models"
	"github.com/panbanda/gauge/pkg/source"
)

// resultVersion is part of every cache key; bump it when classification
// rules change so stale results are not served.
const resultVersion = "1"

// Service orchestrates code analysis operations.
type Service struct {
	config *config.Config
	cache  *cache.Cache
	memo   *lru.Cache[string, models.ComplexityResult]
}

// Option configures a Service.
type Option func(*Service)

// WithConfig sets the configuration.
func WithConfig(cfg *config.Config) Option {
	return func(s *Service) {
		s.config = cfg
	}
}

// WithCache sets the on-disk result cache.
func WithCache(c *cache.Cache) Option {
	return func(s *Service) {
		s.cache = c
	}
}

// New creates a new analysis service.
func New(opts ...Option) *Service {
	s := &Service{}
	for _, opt := range opts {
		opt(s)
	}
	if s.config == nil {
		s.config = config.LoadOrDefault()
	}
	if n := s.config.Cache.MemoEntries; n > 0 {
		memo, err := lru.New[string, models.ComplexityResult](n)
		if err == nil {
			s.memo = memo
		}
	}
	return s
}

// ComplexityOptions configures complexity analysis.
type ComplexityOptions struct {
	// Language forces a tag for every file; empty uses the configured
	// language, then the file extension.
	Language string
	// MaxFileSize overrides the configured limit when positive.
	MaxFileSize int64
	// Source reads file content; nil reads the filesystem.
	Source source.ContentSource
}

// AnalyzeComplexity estimates the complexity of each file. Unreadable
// files are logged and skipped. Progress is tracked via ctx using
// analyzer.WithTracker.
func (s *Service) AnalyzeComplexity(ctx context.Context, files []string, opts ComplexityOptions) (*models.ComplexityReport, error) {
	src := opts.Source
	if src == nil {
		src = source.NewFilesystem()
	}
	maxSize := s.config.Analysis.MaxFileSize
	if opts.MaxFileSize > 0 {
		maxSize = opts.MaxFileSize
	}
	forced := opts.Language
	if forced == "" {
		forced = s.config.Analysis.Language
	}

	results, errs := fileproc.MapSourceFiles(ctx, files, src, maxSize,
		func(path string, content []byte) (models.FileComplexity, error) {
			tag := forced
			if tag == "" {
				tag = lang.Detect(path)
			}
			return models.FileComplexity{
				Path:             path,
				ComplexityResult: s.snippet(content, tag),
			}, nil
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

// AnalyzeSnippet estimates the complexity of a single snippet, consulting
// the memo and the disk cache.
func (s *Service) AnalyzeSnippet(code, language string) models.ComplexityResult {
	return s.snippet([]byte(code), language)
}

func (s *Service) snippet(content []byte, tag string) models.ComplexityResult {
	key := cache.Key("complexity", resultVersion, tag, cache.HashBytes(content))

	if s.memo != nil {
		if r, ok := s.memo.Get(key); ok {
			return r
		}
	}

	var r models.ComplexityResult
	if s.cache != nil && s.cache.Get(key, &r) {
		s.remember(key, r)
		return r
	}

	r = complexity.AnalyzeSnippet(string(content), tag)
	s.remember(key, r)
	if s.cache != nil {
		if err := s.cache.Put(key, r); err != nil {
			logging.Debug("cache write failed", "error", err)
		}
	}
	return r
}

func (s *Service) remember(key string, r models.ComplexityResult) {
	if s.memo != nil {
		s.memo.Add(key, r)
	}
}

// SimilarityOptions configures the similarity engine.
type SimilarityOptions struct {
	ShingleSize          int
	Threshold            float64
	NormalizeIdentifiers bool
	// Language is the candidate's language tag; empty uses the generic
	// profile.
	Language string
}

// SimilarityOptions returns the configured engine settings, to be
// overridden field by field.
func (s *Service) SimilarityOptions() SimilarityOptions {
	return SimilarityOptions{
		ShingleSize:          s.config.Similarity.ShingleSize,
		Threshold:            s.config.Similarity.Threshold,
		NormalizeIdentifiers: s.config.Similarity.NormalizeIdentifiers,
		Language:             s.config.Analysis.Language,
	}
}

func (s *Service) engine(opts SimilarityOptions) *similarity.Engine {
	return similarity.New(
		similarity.WithShingleSize(opts.ShingleSize),
		similarity.WithThreshold(opts.Threshold),
		similarity.WithNormalizeIdentifiers(opts.NormalizeIdentifiers),
		similarity.WithLanguage(opts.Language),
		similarity.WithParallel(true),
	)
}

// ComparePlagiarism scores candidate against every corpus entry.
func (s *Service) ComparePlagiarism(ctx context.Context, candidate string, corpus []models.CorpusEntry, opts SimilarityOptions) (models.PlagiarismResult, error) {
	return s.engine(opts).CompareContext(ctx, candidate, corpus)
}

// Cluster groups corpus entries by mutual similarity.
func (s *Service) Cluster(ctx context.Context, corpus []models.CorpusEntry, opts SimilarityOptions) (models.ClusterReport, error) {
	return s.engine(opts).Cluster(ctx, corpus)
}
