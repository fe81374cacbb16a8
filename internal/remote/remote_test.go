package remote

import (
	"context"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/go-git/go-git/v5"

	"github.com/panbanda/gauge/internal/testutil"
)

func TestParse_LocalPath(t *testing.T) {
	dir := t.TempDir()

	src, err := Parse(dir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if src != nil {
		t.Errorf("expected nil for local path, got %+v", src)
	}
}

func TestParse_NotRemote(t *testing.T) {
	for _, p := range []string{"./missing", "missing.py", filepath.Join(t.TempDir(), "a", "b")} {
		src, err := Parse(p)
		if err != nil {
			t.Fatalf("Parse(%q) error: %v", p, err)
		}
		if src != nil {
			t.Errorf("Parse(%q) = %+v, want nil", p, src)
		}
	}
}

func TestParse_GitHubShorthand(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantURL string
		wantRef string
	}{
		{
			name:    "simple owner/repo",
			input:   "facebook/react",
			wantURL: "https://github.com/facebook/react",
		},
		{
			name:    "with ref suffix",
			input:   "facebook/react@v18.2.0",
			wantURL: "https://github.com/facebook/react",
			wantRef: "v18.2.0",
		},
		{
			name:    "with branch ref",
			input:   "owner/repo@feature-branch",
			wantURL: "https://github.com/owner/repo",
			wantRef: "feature-branch",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src, err := Parse(tt.input)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if src == nil {
				t.Fatal("expected Source, got nil")
			}
			if src.URL != tt.wantURL {
				t.Errorf("URL = %q, want %q", src.URL, tt.wantURL)
			}
			if src.Ref != tt.wantRef {
				t.Errorf("Ref = %q, want %q", src.Ref, tt.wantRef)
			}
		})
	}
}

func TestParse_FullURLs(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantURL string
		wantRef string
	}{
		{
			name:    "github.com without scheme",
			input:   "github.com/golang/go",
			wantURL: "https://github.com/golang/go",
		},
		{
			name:    "https URL",
			input:   "https://github.com/kubernetes/kubernetes",
			wantURL: "https://github.com/kubernetes/kubernetes",
		},
		{
			name:    "gitlab URL",
			input:   "https://gitlab.com/group/project",
			wantURL: "https://gitlab.com/group/project",
		},
		{
			name:    "SSH URL",
			input:   "git@github.com:owner/repo.git",
			wantURL: "git@github.com:owner/repo.git",
		},
		{
			name:    "SSH URL with ref",
			input:   "git@github.com:owner/repo.git@main",
			wantURL: "git@github.com:owner/repo.git",
			wantRef: "main",
		},
		{
			name:    "URL with ref",
			input:   "github.com/golang/go@go1.21.0",
			wantURL: "https://github.com/golang/go",
			wantRef: "go1.21.0",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src, err := Parse(tt.input)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if src == nil {
				t.Fatal("expected Source, got nil")
			}
			if src.URL != tt.wantURL {
				t.Errorf("URL = %q, want %q", src.URL, tt.wantURL)
			}
			if src.Ref != tt.wantRef {
				t.Errorf("Ref = %q, want %q", src.Ref, tt.wantRef)
			}
		})
	}
}

// requireGit skips clone tests where the local transport has no git
// binary to run.
func requireGit(t *testing.T) {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping clone test in short mode")
	}
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not installed")
	}
}

func TestSource_Clone(t *testing.T) {
	requireGit(t)
	repo := testutil.InitRepo(t, map[string]string{"main.py": testutil.Snippets["quadratic.py"]})

	src := &Source{URL: repo}
	if err := src.Clone(context.Background(), io.Discard, false); err != nil {
		t.Fatalf("Clone failed: %v", err)
	}
	defer src.Cleanup()

	if src.CloneDir == "" {
		t.Fatal("CloneDir not set")
	}
	if _, err := os.Stat(filepath.Join(src.CloneDir, "main.py")); err != nil {
		t.Errorf("cloned file missing: %v", err)
	}
}

func TestSource_Clone_WithRef(t *testing.T) {
	requireGit(t)
	repoDir := testutil.InitRepo(t, map[string]string{"main.py": testutil.Snippets["quadratic.py"]})

	r, err := git.PlainOpen(repoDir)
	if err != nil {
		t.Fatalf("open repo: %v", err)
	}
	head, err := r.Head()
	if err != nil {
		t.Fatalf("get HEAD: %v", err)
	}

	for _, ref := range []string{head.Name().Short(), head.Hash().String()} {
		t.Run(ref, func(t *testing.T) {
			src := &Source{URL: repoDir, Ref: ref}
			if err := src.Clone(context.Background(), io.Discard, false); err != nil {
				t.Fatalf("Clone failed: %v", err)
			}
			defer src.Cleanup()

			cloned, err := git.PlainOpen(src.CloneDir)
			if err != nil {
				t.Fatalf("open clone: %v", err)
			}
			h, err := cloned.Head()
			if err != nil {
				t.Fatalf("clone HEAD: %v", err)
			}
			if h.Hash() != head.Hash() {
				t.Errorf("clone HEAD = %s, want %s", h.Hash(), head.Hash())
			}
		})
	}
}

func TestSource_Cleanup(t *testing.T) {
	dir := t.TempDir()
	sub := filepath.Join(dir, "clone")
	if err := os.Mkdir(sub, 0o755); err != nil {
		t.Fatal(err)
	}

	src := &Source{CloneDir: sub}
	if err := src.Cleanup(); err != nil {
		t.Fatalf("Cleanup() error: %v", err)
	}
	if _, err := os.Stat(sub); !os.IsNotExist(err) {
		t.Error("clone dir should be removed")
	}
	if src.CloneDir != "" {
		t.Error("CloneDir should be cleared")
	}
	if err := src.Cleanup(); err != nil {
		t.Errorf("second Cleanup() error: %v", err)
	}
}

func TestResolve_LocalPaths(t *testing.T) {
	dir := t.TempDir()
	paths := []string{dir, "."}

	got, cleanup, err := Resolve(context.Background(), paths, io.Discard)
	defer cleanup()
	if err != nil {
		t.Fatalf("Resolve() error: %v", err)
	}
	for i := range paths {
		if got[i] != paths[i] {
			t.Errorf("Resolve()[%d] = %q, want %q", i, got[i], paths[i])
		}
	}
}
