package scanner

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/panbanda/gauge/internal/scanner"
	"github.com/panbanda/gauge/internal/vcs"
	"github.com/panbanda/gauge/pkg/config"
	"github.com/panbanda/gauge/pkg/source"
)

// ScanResult contains the result of a file scan.
type ScanResult struct {
	Files          []string
	LanguageGroups map[string][]string
	RepoRoot       string
	// Ref is the revision the files were read from; empty for the working tree.
	Ref string
	// Source reads the content of Files.
	Source source.ContentSource
	// Skipped counts files dropped for exceeding the size limit.
	Skipped int
}

// Service provides file scanning functionality.
type Service struct {
	config *config.Config
	opener vcs.Opener
}

// Option configures a Service.
type Option func(*Service)

// WithConfig sets the configuration.
func WithConfig(cfg *config.Config) Option {
	return func(s *Service) {
		s.config = cfg
	}
}

// WithOpener sets the VCS opener (for testing).
func WithOpener(opener vcs.Opener) Option {
	return func(s *Service) {
		s.opener = opener
	}
}

// New creates a new scanner service.
func New(opts ...Option) *Service {
	s := &Service{
		opener: vcs.DefaultOpener(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.config == nil {
		s.config = config.LoadOrDefault()
	}
	return s
}

// ScanPaths scans files and directories in the working tree. Directories
// are walked; files are taken as given. Files over the configured size
// limit are dropped and counted in Skipped.
func (s *Service) ScanPaths(paths []string) (*ScanResult, error) {
	if len(paths) == 0 {
		paths = []string{"."}
	}

	scan := scanner.NewScanner(s.config)
	var files []string

	for _, path := range paths {
		absPath, err := filepath.Abs(path)
		if err != nil {
			return nil, &PathError{Path: path, Err: err}
		}
		info, err := os.Stat(absPath)
		if err != nil {
			return nil, &PathError{Path: path, Err: err}
		}
		if !info.IsDir() {
			if ok, _ := scan.ScanFile(absPath); ok {
				files = append(files, absPath)
			}
			continue
		}
		found, err := scan.ScanDir(absPath)
		if err != nil {
			return nil, &ScanError{Path: path, Err: err}
		}
		files = append(files, found...)
	}

	files, skipped := scanner.FilterBySize(files, s.config.Analysis.MaxFileSize)

	return &ScanResult{
		Files:          files,
		LanguageGroups: scan.GroupByLanguage(files),
		Source:         source.NewFilesystem(),
		Skipped:        skipped,
	}, nil
}

// ScanPathsForGit scans paths and also resolves the git repository root.
// Returns an error if not in a git repository when gitRequired is true.
func (s *Service) ScanPathsForGit(paths []string, gitRequired bool) (*ScanResult, error) {
	result, err := s.ScanPaths(paths)
	if err != nil {
		return nil, err
	}

	if len(paths) == 0 {
		paths = []string{"."}
	}

	repoRoot, err := s.findGitRoot(paths[0])
	if err != nil {
		if gitRequired {
			return nil, &GitError{Err: err}
		}
	} else {
		result.RepoRoot = repoRoot
	}

	return result, nil
}

// ScanRef lists source files at revision ref of the repository enclosing
// paths[0]. Paths narrow the listing to those subtrees. The returned
// Files are absolute paths under the working tree root and Source reads
// them from the revision, so uncommitted changes are ignored.
func (s *Service) ScanRef(ref string, paths []string) (*ScanResult, error) {
	if len(paths) == 0 {
		paths = []string{"."}
	}

	absFirst, err := filepath.Abs(paths[0])
	if err != nil {
		return nil, &PathError{Path: paths[0], Err: err}
	}
	repo, err := s.opener.PlainOpenWithDetect(absFirst)
	if err != nil {
		return nil, &GitError{Err: err}
	}
	root := repo.RepoPath()

	tree, err := repo.Tree(ref)
	if err != nil {
		return nil, &RefError{Ref: ref, Err: err}
	}
	entries, err := tree.Entries()
	if err != nil {
		return nil, &RefError{Ref: ref, Err: err}
	}

	prefixes := make([]string, 0, len(paths))
	for _, p := range paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			return nil, &PathError{Path: p, Err: err}
		}
		rel, err := filepath.Rel(root, abs)
		if err != nil || strings.HasPrefix(rel, "..") {
			return nil, &PathError{Path: p, Err: errOutsideRepo}
		}
		prefixes = append(prefixes, filepath.ToSlash(rel))
	}

	scan := scanner.NewScanner(s.config)
	rel := scan.ScanTree(entries, prefixes, s.config.Analysis.MaxFileSize)

	files := make([]string, len(rel))
	for i, r := range rel {
		files[i] = filepath.Join(root, filepath.FromSlash(r))
	}

	return &ScanResult{
		Files:          files,
		LanguageGroups: scan.GroupByLanguage(files),
		RepoRoot:       root,
		Ref:            ref,
		Source:         source.NewTreeAt(tree, root),
	}, nil
}

// findGitRoot finds the git repository root containing the given path.
func (s *Service) findGitRoot(path string) (string, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}

	repo, err := s.opener.PlainOpenWithDetect(absPath)
	if err != nil {
		return "", err
	}

	return repo.RepoPath(), nil
}
