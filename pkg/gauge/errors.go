package gauge

import (
	"errors"
	"fmt"
)

// ErrEmptyCorpus is returned when a corpus load yields no entries.
var ErrEmptyCorpus = errors.New("corpus is empty")

// CorpusError reports a corpus file that could not be loaded.
type CorpusError struct {
	Path string
	Err  error
}

func (e *CorpusError) Error() string {
	return fmt.Sprintf("corpus %s: %v", e.Path, e.Err)
}

func (e *CorpusError) Unwrap() error {
	return e.Err
}
