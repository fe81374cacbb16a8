// Package testutil holds fixtures shared by package tests.
package testutil

import (
	"os"
	"path/filepath"
	"sort"
	"testing"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"
)

// Snippets are small programs with a known time class.
var Snippets = map[string]string{
	"linear.js":    "function sum(xs) {\n  let t = 0;\n  for (const x of xs) { t += x; }\n  return t;\n}\n",
	"quadratic.py": "def pairs(xs):\n    n = 0\n    for a in xs:\n        for b in xs:\n            n += 1\n    return n\n",
	"constant.go":  "package main\n\nfunc add(a, b int) int {\n\treturn a + b\n}\n",
	"fib.java":     "class F {\n    static int fib(int n) {\n        if (n < 2) return n;\n        return fib(n - 1) + fib(n - 2);\n    }\n}\n",
}

// WriteFile writes content to path, creating parent directories.
func WriteFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("MkdirAll(%s) error: %v", filepath.Dir(path), err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("WriteFile(%s) error: %v", path, err)
	}
}

// CreateFileTree writes files (relative path -> content) under root and
// returns their absolute paths, sorted.
func CreateFileTree(t *testing.T, root string, files map[string]string) []string {
	t.Helper()
	paths := make([]string, 0, len(files))
	for name, content := range files {
		path := filepath.Join(root, filepath.FromSlash(name))
		WriteFile(t, path, content)
		paths = append(paths, path)
	}
	sort.Strings(paths)
	return paths
}

// InitRepo creates a git repository in a temp dir with files committed
// in a single commit, and returns its path.
func InitRepo(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	repo, err := git.PlainInit(dir, false)
	if err != nil {
		t.Fatalf("PlainInit error: %v", err)
	}
	CreateFileTree(t, dir, files)

	wt, err := repo.Worktree()
	if err != nil {
		t.Fatalf("Worktree error: %v", err)
	}
	if err := wt.AddWithOptions(&git.AddOptions{All: true}); err != nil {
		t.Fatalf("Add error: %v", err)
	}
	_, err = wt.Commit("fixtures", &git.CommitOptions{
		Author: &object.Signature{Name: "test", Email: "test@example.com", When: time.Now()},
	})
	if err != nil {
		t.Fatalf("Commit error: %v", err)
	}
	return dir
}
