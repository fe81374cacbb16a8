package gauge

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/panbanda/gauge/pkg/source"
)

func TestLoadCorpus(t *testing.T) {
	src := source.MemorySource{
		"a.js":      []byte("function add(a,b){return a+b;}"),
		"b.py":      []byte("def add(a, b):\n    return a + b\n"),
		"notes.txt": []byte("plain words"),
	}

	entries, err := LoadCorpus(context.Background(), src, []string{"b.py", "a.js", "notes.txt"})
	require.NoError(t, err)
	require.Len(t, entries, 3)

	assert.Equal(t, "b.py", entries[0].ID)
	assert.Equal(t, "python", entries[0].Language)
	assert.Equal(t, "javascript", entries[1].Language)
	assert.Empty(t, entries[2].Language)
	assert.Equal(t, "plain words", entries[2].Text)

	assert.Equal(t, 100, CompareSnippet("function add(a, b) { return a + b; }", entries).Score)
}

func TestLoadCorpusFromFilesystem(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "ref.go")
	require.NoError(t, os.WriteFile(path, []byte("package ref\n"), 0o644))

	entries, err := LoadCorpus(context.Background(), source.NewFilesystem(), []string{path})
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "go", entries[0].Language)
}

func TestLoadCorpusErrors(t *testing.T) {
	src := source.MemorySource{"a.js": []byte("x")}

	_, err := LoadCorpus(context.Background(), src, []string{"a.js", "missing.js"})
	var cerr *CorpusError
	require.True(t, errors.As(err, &cerr))
	assert.Equal(t, "missing.js", cerr.Path)
	assert.ErrorIs(t, err, os.ErrNotExist)
	assert.Contains(t, err.Error(), "corpus missing.js")

	_, err = LoadCorpus(context.Background(), src, nil)
	assert.ErrorIs(t, err, ErrEmptyCorpus)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = LoadCorpus(ctx, src, []string{"a.js"})
	assert.ErrorIs(t, err, context.Canceled)
}
