package gauge

import (
	"context"

	"github.com/panbanda/gauge/pkg/lang"
	"github.com/panbanda/gauge/pkg/models"
	"github.com/panbanda/gauge/pkg/source"
)

// LoadCorpus reads every path from src into a corpus entry named after the
// path, with the language detected from its extension. The first file that
// cannot be read fails the load with a *CorpusError.
func LoadCorpus(ctx context.Context, src source.ContentSource, paths []string) ([]models.CorpusEntry, error) {
	entries := make([]models.CorpusEntry, 0, len(paths))
	for _, path := range paths {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		content, err := src.Read(path)
		if err != nil {
			return nil, &CorpusError{Path: path, Err: err}
		}
		entries = append(entries, models.CorpusEntry{
			ID:       path,
			Text:     string(content),
			Language: lang.Detect(path),
		})
	}
	if len(entries) == 0 {
		return nil, ErrEmptyCorpus
	}
	return entries, nil
}
