// Package vcs provides read access to files at a git revision.
package vcs

// Repository provides access to git repository contents.
type Repository interface {
	// Tree returns the tree of the commit that rev resolves to. rev may be a
	// branch, tag, short or full hash, or any revision go-git understands
	// (HEAD~2, main^).
	Tree(rev string) (Tree, error)
	// RepoPath returns the root path of the repository.
	RepoPath() string
}

// TreeEntry represents a file in a git tree.
type TreeEntry struct {
	Path string
	Size int64
}

// Tree represents a git tree object.
type Tree interface {
	// File returns the contents of the file at path, relative to the
	// repository root.
	File(path string) ([]byte, error)
	// Entries returns all files in the tree (recursively).
	Entries() ([]TreeEntry, error)
}

// Opener opens git repositories.
type Opener interface {
	// PlainOpen opens an existing git repository.
	PlainOpen(path string) (Repository, error)
	// PlainOpenWithDetect opens a git repository, detecting .git in parent directories.
	PlainOpenWithDetect(path string) (Repository, error)
}
