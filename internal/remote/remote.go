// Package remote resolves repository references such as owner/repo@ref
// and clones them for analysis.
package remote

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
)

// Source represents a remote repository to analyze.
type Source struct {
	URL      string // normalized git URL
	Ref      string // branch, tag, or SHA (empty = default branch)
	CloneDir string // temp directory after clone
}

// Parse detects if a path is a remote reference.
// Returns nil if path exists on filesystem (local path takes precedence).
func Parse(path string) (*Source, error) {
	if _, err := os.Stat(path); err == nil {
		return nil, nil
	}

	// scp-style URLs carry an @ before the host, so only the text after
	// the last slash may hold a ref.
	ref := ""
	if slash := strings.LastIndex(path, "/"); slash != -1 {
		if at := strings.LastIndex(path[slash:], "@"); at != -1 {
			ref = path[slash+at+1:]
			path = path[:slash+at]
		}
	}

	switch {
	case strings.HasPrefix(path, "https://"), strings.HasPrefix(path, "http://"), strings.HasPrefix(path, "ssh://"):
		return &Source{URL: path, Ref: ref}, nil
	case strings.HasPrefix(path, "git@"):
		return &Source{URL: path, Ref: ref}, nil
	case isHostPath(path):
		return &Source{URL: "https://" + path, Ref: ref}, nil
	case isGitHubShorthand(path):
		return &Source{URL: "https://github.com/" + path, Ref: ref}, nil
	}

	return nil, nil
}

// isHostPath matches host.tld/owner/repo without a scheme.
func isHostPath(path string) bool {
	parts := strings.Split(path, "/")
	if len(parts) < 3 {
		return false
	}
	return strings.Contains(parts[0], ".") && parts[1] != "" && parts[2] != ""
}

// isGitHubShorthand returns true if path matches owner/repo pattern.
func isGitHubShorthand(path string) bool {
	slashIdx := strings.Index(path, "/")
	if slashIdx == -1 {
		return false
	}
	if strings.Count(path, "/") != 1 {
		return false
	}
	if strings.Contains(path[:slashIdx], ".") {
		return false
	}
	return slashIdx > 0 && slashIdx < len(path)-1
}

// Clone clones the repository into a new temp directory and checks out
// Ref. Progress from the transport goes to progress. A shallow clone
// fetches only the tip of the ref; it cannot check out an arbitrary SHA.
func (s *Source) Clone(ctx context.Context, progress io.Writer, shallow bool) error {
	dir, err := os.MkdirTemp("", "gauge-clone-*")
	if err != nil {
		return fmt.Errorf("create clone dir: %w", err)
	}
	s.CloneDir = dir

	opts := &git.CloneOptions{URL: s.URL, Progress: progress}
	if shallow {
		opts.Depth = 1
	}

	if s.Ref == "" {
		_, err = git.PlainCloneContext(ctx, dir, false, opts)
		return s.cloneErr(err)
	}

	// Try the ref as a branch, then a tag, before falling back to a full
	// clone and a commit checkout.
	for _, name := range []plumbing.ReferenceName{
		plumbing.NewBranchReferenceName(s.Ref),
		plumbing.NewTagReferenceName(s.Ref),
	} {
		o := *opts
		o.ReferenceName = name
		o.SingleBranch = true
		if _, err = git.PlainCloneContext(ctx, dir, false, &o); err == nil {
			return nil
		}
		if ctx.Err() != nil {
			return s.cloneErr(ctx.Err())
		}
		if err := resetDir(dir); err != nil {
			return s.cloneErr(err)
		}
	}

	opts.Depth = 0
	repo, err := git.PlainCloneContext(ctx, dir, false, opts)
	if err != nil {
		return s.cloneErr(err)
	}
	hash, err := repo.ResolveRevision(plumbing.Revision(s.Ref))
	if err != nil {
		return s.cloneErr(fmt.Errorf("resolve %s: %w", s.Ref, err))
	}
	wt, err := repo.Worktree()
	if err != nil {
		return s.cloneErr(err)
	}
	return s.cloneErr(wt.Checkout(&git.CheckoutOptions{Hash: *hash}))
}

func (s *Source) cloneErr(err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("clone %s: %w", s.URL, err)
}

// resetDir empties dir after a failed clone attempt.
func resetDir(dir string) error {
	if err := os.RemoveAll(dir); err != nil {
		return err
	}
	return os.MkdirAll(dir, 0o755)
}

// Cleanup removes the clone directory.
func (s *Source) Cleanup() error {
	if s.CloneDir == "" {
		return nil
	}
	err := os.RemoveAll(s.CloneDir)
	s.CloneDir = ""
	return err
}

// Resolve clones every remote reference in paths and returns the paths
// with remotes replaced by their clone directories. The cleanup function
// removes all clones and is safe to call when err is non-nil.
func Resolve(ctx context.Context, paths []string, progress io.Writer) ([]string, func(), error) {
	var clones []*Source
	cleanup := func() {
		for _, s := range clones {
			_ = s.Cleanup()
		}
	}

	out := make([]string, len(paths))
	for i, p := range paths {
		src, err := Parse(p)
		if err != nil {
			return nil, cleanup, err
		}
		if src == nil {
			out[i] = p
			continue
		}
		clones = append(clones, src)
		if err := src.Clone(ctx, progress, src.Ref == ""); err != nil {
			return nil, cleanup, err
		}
		out[i] = src.CloneDir
	}
	return out, cleanup, nil
}
