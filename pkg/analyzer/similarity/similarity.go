// Package similarity scores how much a candidate snippet overlaps a corpus
// of reference snippets.
//
// Each text is normalized (comments dropped, string literals erased,
// whitespace collapsed), cut into overlapping k-token shingles, and
// compared with the Jaccard index of the shingle sets. The score of a
// candidate is the best per-entry score, as an integer in [0, 100].
package similarity

import (
	"context"
	"math"
	"strconv"

	"github.com/RoaringBitmap/roaring/v2/roaring64"

	"github.com/panbanda/gauge/internal/fileproc"
	"github.com/panbanda/gauge/internal/logging"
	"github.com/panbanda/gauge/pkg/analyzer"
	"github.com/panbanda/gauge/pkg/lang"
	"github.com/panbanda/gauge/pkg/models"
	"github.com/panbanda/gauge/pkg/normalize"
	"github.com/panbanda/gauge/pkg/stats"
)

const (
	// DefaultShingleSize is the default number of tokens per shingle.
	DefaultShingleSize = 3
	// DefaultThreshold is the Jaccard similarity at which a match is flagged.
	DefaultThreshold = 0.8

	identifierPlaceholder = "$id"
)

var _ analyzer.CorpusComparer = (*Engine)(nil)

// Engine compares snippets. It holds only configuration and is safe for
// concurrent use.
type Engine struct {
	shingleSize          int
	normalizeIdentifiers bool
	threshold            float64
	language             string
	parallel             bool
}

// Option is a functional option for configuring Engine.
type Option func(*Engine)

// WithShingleSize sets the shingle width in tokens. Values below 1 are ignored.
func WithShingleSize(k int) Option {
	return func(e *Engine) {
		if k >= 1 {
			e.shingleSize = k
		}
	}
}

// WithNormalizeIdentifiers replaces every non-keyword identifier with a
// placeholder so that renamed copies still match.
func WithNormalizeIdentifiers(on bool) Option {
	return func(e *Engine) {
		e.normalizeIdentifiers = on
	}
}

// WithThreshold sets the Jaccard similarity (0..1) at which a match is flagged.
func WithThreshold(threshold float64) Option {
	return func(e *Engine) {
		e.threshold = math.Max(0, math.Min(1, threshold))
	}
}

// WithLanguage sets the language used to tokenize texts whose corpus
// entry does not name one. The default is the generic profile.
func WithLanguage(tag string) Option {
	return func(e *Engine) {
		e.language = tag
	}
}

// WithParallel prepares corpus entries on a worker pool. Off by default:
// a single comparison runs on the calling goroutine.
func WithParallel(on bool) Option {
	return func(e *Engine) {
		e.parallel = on
	}
}

// New creates a similarity engine.
func New(opts ...Option) *Engine {
	e := &Engine{
		shingleSize: DefaultShingleSize,
		threshold:   DefaultThreshold,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// ShingleSize returns the configured shingle width.
func (e *Engine) ShingleSize() int { return e.shingleSize }

// Threshold returns the configured flag threshold.
func (e *Engine) Threshold() float64 { return e.threshold }

// document is a prepared text.
type document struct {
	id          string
	tokens      []string
	shingles    *roaring64.Bitmap
	fingerprint uint64
}

func (d *document) empty() bool { return len(d.tokens) == 0 }

// Tokens returns the normalized token texts of text as the engine sees them.
func (e *Engine) Tokens(text, language string) []string {
	if language == "" {
		language = e.language
	}
	p := lang.MustLookup(language)
	tokens := normalize.Tokenize(text, p).Texts()
	if e.normalizeIdentifiers {
		for i, t := range tokens {
			if isIdentifier(t) && !p.IsReserved(t) {
				tokens[i] = identifierPlaceholder
			}
		}
	}
	return tokens
}

func isIdentifier(t string) bool {
	if t == "" {
		return false
	}
	c := t[0]
	return c == '_' || c == '$' || c >= 0x80 || (c|0x20 >= 'a' && c|0x20 <= 'z')
}

func (e *Engine) prepare(id, text, language string) document {
	tokens := e.Tokens(text, language)
	return document{
		id:          id,
		tokens:      tokens,
		shingles:    Shingles(tokens, e.shingleSize),
		fingerprint: Fingerprint(tokens),
	}
}

func (e *Engine) prepareAll(ctx context.Context, corpus []models.CorpusEntry) ([]document, error) {
	if e.parallel {
		docs, _ := fileproc.Map(ctx, corpus, func(c models.CorpusEntry) (string, document, error) {
			return c.ID, e.prepare(c.ID, c.Text, c.Language), nil
		})
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		return docs, nil
	}

	docs := make([]document, 0, len(corpus))
	for _, c := range corpus {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		docs = append(docs, e.prepare(c.ID, c.Text, c.Language))
	}
	return docs, nil
}

// score compares two prepared documents.
func (e *Engine) score(a, b *document) models.Match {
	m := models.Match{ID: b.id}
	if a.empty() || b.empty() {
		return m
	}
	if a.fingerprint == b.fingerprint {
		m.Score = 100
		m.Jaccard = 1
		m.SharedShingles = a.shingles.GetCardinality()
		m.Exact = true
		m.Flagged = true
		return m
	}
	j, shared := Jaccard(a.shingles, b.shingles)
	m.Jaccard = j
	m.SharedShingles = shared
	m.Score = toScore(j)
	m.Flagged = j >= e.threshold
	return m
}

func toScore(j float64) int {
	return int(math.Round(j * 100))
}

// Compare scores candidate against every corpus entry. It never fails: an
// empty candidate or corpus scores 0.
func (e *Engine) Compare(candidate string, corpus []models.CorpusEntry) models.PlagiarismResult {
	res, _ := e.CompareContext(context.Background(), candidate, corpus)
	return res
}

// CompareContext is Compare with cancellation for large corpora. With
// WithParallel the result still does not depend on scheduling. Ties for
// the best score go to the earliest entry.
func (e *Engine) CompareContext(ctx context.Context, candidate string, corpus []models.CorpusEntry) (models.PlagiarismResult, error) {
	res := models.PlagiarismResult{
		Threshold: e.threshold,
		Matches:   []models.Match{},
		Summary:   models.SimilaritySummary{Entries: len(corpus)},
	}

	cand := e.prepare("", candidate, "")
	res.Shingles = int(cand.shingles.GetCardinality())
	if cand.empty() || len(corpus) == 0 {
		logging.Debug("nothing to compare", "candidate_tokens", len(cand.tokens), "corpus", len(corpus))
		return res, nil
	}

	docs, err := e.prepareAll(ctx, corpus)
	if err != nil {
		return res, err
	}

	scores := make([]int, 0, len(docs))
	for i := range docs {
		m := e.score(&cand, &docs[i])
		res.Matches = append(res.Matches, m)
		scores = append(scores, m.Score)
		if m.Flagged {
			res.Summary.Flagged++
		}
		if m.Score > res.Score {
			res.Score = m.Score
			res.BestMatch = m.ID
		}
	}

	s := stats.Describe(stats.Ints(scores))
	res.Summary.Mean = s.Mean
	res.Summary.StdDev = s.StdDev
	res.Summary.Median = s.Median
	res.Summary.P90 = s.P90
	return res, nil
}

// Score returns only the best per-entry score of candidate against texts.
func (e *Engine) Score(candidate string, texts []string) int {
	corpus := make([]models.CorpusEntry, len(texts))
	for i, t := range texts {
		corpus[i] = models.CorpusEntry{ID: EntryID(i), Text: t}
	}
	return e.Compare(candidate, corpus).Score
}

// EntryID is the id given to the i-th entry of an unnamed corpus.
func EntryID(i int) string {
	return "corpus[" + strconv.Itoa(i) + "]"
}
