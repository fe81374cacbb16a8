package scanner

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/panbanda/gauge/internal/testutil"
	"github.com/panbanda/gauge/internal/vcs"
	"github.com/panbanda/gauge/pkg/config"
)

type failingOpener struct{ err error }

func (o failingOpener) PlainOpen(string) (vcs.Repository, error)           { return nil, o.err }
func (o failingOpener) PlainOpenWithDetect(string) (vcs.Repository, error) { return nil, o.err }

func TestNew(t *testing.T) {
	svc := New()
	require.NotNil(t, svc)
	assert.NotNil(t, svc.config)
	assert.NotNil(t, svc.opener)

	cfg := config.DefaultConfig()
	opener := failingOpener{}
	svc = New(WithConfig(cfg), WithOpener(opener))
	assert.Same(t, cfg, svc.config)
	assert.Equal(t, opener, svc.opener)
}

func TestScanPaths(t *testing.T) {
	root := t.TempDir()
	testutil.CreateFileTree(t, root, map[string]string{
		"a.go":       "package a\n",
		"sub/b.py":   "x = 1\n",
		"sub/c.txt":  "text\n",
		"other/d.rs": "fn main() {}\n",
	})

	svc := New(WithConfig(config.DefaultConfig()))

	t.Run("directories", func(t *testing.T) {
		result, err := svc.ScanPaths([]string{filepath.Join(root, "sub"), filepath.Join(root, "other")})
		require.NoError(t, err)
		assert.Equal(t, []string{filepath.Join(root, "sub", "b.py"), filepath.Join(root, "other", "d.rs")}, result.Files)
		assert.Equal(t, []string{filepath.Join(root, "sub", "b.py")}, result.LanguageGroups["python"])
		require.NotNil(t, result.Source)

		content, err := result.Source.Read(result.Files[0])
		require.NoError(t, err)
		assert.Equal(t, "x = 1\n", string(content))
	})

	t.Run("explicit file in any language", func(t *testing.T) {
		result, err := svc.ScanPaths([]string{filepath.Join(root, "sub", "c.txt")})
		require.NoError(t, err)
		assert.Equal(t, []string{filepath.Join(root, "sub", "c.txt")}, result.Files)
		assert.Empty(t, result.LanguageGroups)
	})

	t.Run("missing path", func(t *testing.T) {
		_, err := svc.ScanPaths([]string{filepath.Join(root, "nope")})
		var pathErr *PathError
		require.ErrorAs(t, err, &pathErr)
		assert.True(t, errors.Is(err, os.ErrNotExist))
	})
}

func TestScanPathsSizeLimit(t *testing.T) {
	root := t.TempDir()
	testutil.CreateFileTree(t, root, map[string]string{
		"small.go": "package a\n",
		"big.go":   "package a\n\nvar x = \"" + string(make([]byte, 64)) + "\"\n",
	})

	cfg := config.DefaultConfig()
	cfg.Analysis.MaxFileSize = 32
	result, err := New(WithConfig(cfg)).ScanPaths([]string{root})
	require.NoError(t, err)

	assert.Equal(t, []string{filepath.Join(root, "small.go")}, result.Files)
	assert.Equal(t, 1, result.Skipped)
}

func TestScanPathsForGit(t *testing.T) {
	repo := testutil.InitRepo(t, map[string]string{"main.go": "package main\n"})
	svc := New(WithConfig(config.DefaultConfig()))

	result, err := svc.ScanPathsForGit([]string{repo}, true)
	require.NoError(t, err)
	assert.Equal(t, repo, result.RepoRoot)

	plain := t.TempDir()
	failing := New(WithConfig(config.DefaultConfig()), WithOpener(failingOpener{err: errors.New("no repo")}))

	_, err = failing.ScanPathsForGit([]string{plain}, true)
	var gitErr *GitError
	assert.ErrorAs(t, err, &gitErr)

	result, err = failing.ScanPathsForGit([]string{plain}, false)
	require.NoError(t, err)
	assert.Empty(t, result.RepoRoot)
}

func TestScanRef(t *testing.T) {
	repo := testutil.InitRepo(t, map[string]string{
		"main.go":       "package main\n",
		"lib/util.py":   "def f():\n    return 1\n",
		"lib/notes.md":  "# notes\n",
		"web/index.js":  "let a = 1;\n",
		"vendor/v/v.go": "package v\n",
	})

	// working-tree edits after the commit must not be visible
	testutil.WriteFile(t, filepath.Join(repo, "lib", "util.py"), "changed\n")
	testutil.WriteFile(t, filepath.Join(repo, "lib", "new.py"), "x = 2\n")

	svc := New(WithConfig(config.DefaultConfig()))

	t.Run("whole repository", func(t *testing.T) {
		result, err := svc.ScanRef("HEAD", []string{repo})
		require.NoError(t, err)
		assert.Equal(t, repo, result.RepoRoot)
		assert.Equal(t, "HEAD", result.Ref)
		assert.Equal(t, []string{
			filepath.Join(repo, "lib", "util.py"),
			filepath.Join(repo, "main.go"),
			filepath.Join(repo, "web", "index.js"),
		}, result.Files)

		content, err := result.Source.Read(filepath.Join(repo, "lib", "util.py"))
		require.NoError(t, err)
		assert.Equal(t, "def f():\n    return 1\n", string(content))
	})

	t.Run("subtree", func(t *testing.T) {
		result, err := svc.ScanRef("HEAD", []string{filepath.Join(repo, "web")})
		require.NoError(t, err)
		assert.Equal(t, []string{filepath.Join(repo, "web", "index.js")}, result.Files)
		assert.Contains(t, result.LanguageGroups, "javascript")
	})

	t.Run("unknown revision", func(t *testing.T) {
		_, err := svc.ScanRef("no-such-branch", []string{repo})
		var refErr *RefError
		assert.ErrorAs(t, err, &refErr)
	})

	t.Run("path outside repository", func(t *testing.T) {
		_, err := svc.ScanRef("HEAD", []string{repo, t.TempDir()})
		var pathErr *PathError
		assert.ErrorAs(t, err, &pathErr)
	})

	t.Run("not a repository", func(t *testing.T) {
		failing := New(WithConfig(config.DefaultConfig()), WithOpener(failingOpener{err: errors.New("no repo")}))
		_, err := failing.ScanRef("HEAD", []string{repo})
		var gitErr *GitError
		assert.ErrorAs(t, err, &gitErr)
	})
}

func TestErrors(t *testing.T) {
	inner := errors.New("boom")
	tests := []struct {
		err  error
		want string
	}{
		{&PathError{Path: "x", Err: inner}, "invalid path x: boom"},
		{&ScanError{Path: "x", Err: inner}, "failed to scan directory x: boom"},
		{&GitError{Err: inner}, "not a git repository (or any parent): boom"},
		{&RefError{Ref: "v1", Err: inner}, "cannot read revision v1: boom"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.err.Error())
		assert.ErrorIs(t, tt.err, inner)
	}
}
