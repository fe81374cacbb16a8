// Package source abstracts where file content comes from: the working
// tree, a git revision, or memory.
package source

import (
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/panbanda/gauge/internal/vcs"
)

// ContentSource provides file content from a specific source.
type ContentSource interface {
	// Read returns the content of the file at path.
	Read(path string) ([]byte, error)
}

// FilesystemSource reads files from the local filesystem.
type FilesystemSource struct{}

// NewFilesystem creates a source that reads from the filesystem.
func NewFilesystem() *FilesystemSource {
	return &FilesystemSource{}
}

// Read implements ContentSource.
func (f *FilesystemSource) Read(path string) ([]byte, error) {
	return os.ReadFile(path)
}

// TreeSource reads files from a git tree.
// It is safe for concurrent use by multiple goroutines.
type TreeSource struct {
	tree vcs.Tree
	root string
	mu   sync.Mutex
}

// NewTree creates a source that reads repository-relative paths from a git tree.
func NewTree(tree vcs.Tree) *TreeSource {
	return &TreeSource{tree: tree}
}

// NewTreeAt is NewTree for callers that hold paths under the working tree
// at root. Such paths are made relative to root before lookup.
func NewTreeAt(tree vcs.Tree, root string) *TreeSource {
	return &TreeSource{tree: tree, root: root}
}

// Read implements ContentSource.
func (t *TreeSource) Read(path string) ([]byte, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.tree.File(t.relative(path))
}

func (t *TreeSource) relative(path string) string {
	if t.root == "" || !filepath.IsAbs(path) {
		return filepath.ToSlash(path)
	}
	rel, err := filepath.Rel(t.root, path)
	if err != nil || strings.HasPrefix(rel, "..") {
		return filepath.ToSlash(path)
	}
	return filepath.ToSlash(rel)
}

// MemorySource serves content from a map keyed by path.
type MemorySource map[string][]byte

// Read implements ContentSource.
func (m MemorySource) Read(path string) ([]byte, error) {
	content, ok := m[path]
	if !ok {
		return nil, &os.PathError{Op: "read", Path: path, Err: os.ErrNotExist}
	}
	return content, nil
}
