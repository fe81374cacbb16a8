package scanner

import "errors"

var errOutsideRepo = errors.New("outside the repository")

// PathError indicates an invalid path.
type PathError struct {
	Path string
	Err  error
}

func (e *PathError) Error() string {
	return "invalid path " + e.Path + ": " + e.Err.Error()
}

func (e *PathError) Unwrap() error {
	return e.Err
}

// ScanError indicates a scanning failure.
type ScanError struct {
	Path string
	Err  error
}

func (e *ScanError) Error() string {
	return "failed to scan directory " + e.Path + ": " + e.Err.Error()
}

func (e *ScanError) Unwrap() error {
	return e.Err
}

// GitError indicates the path is not a git repository.
type GitError struct {
	Err error
}

func (e *GitError) Error() string {
	return "not a git repository (or any parent): " + e.Err.Error()
}

func (e *GitError) Unwrap() error {
	return e.Err
}

// RefError indicates a revision that could not be read.
type RefError struct {
	Ref string
	Err error
}

func (e *RefError) Error() string {
	return "cannot read revision " + e.Ref + ": " + e.Err.Error()
}

func (e *RefError) Unwrap() error {
	return e.Err
}
