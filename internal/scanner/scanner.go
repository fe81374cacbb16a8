// Package scanner finds source files to analyze on disk or in a git tree.
package scanner

import (
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/go-git/go-billy/v5/osfs"
	"github.com/go-git/go-git/v5/plumbing/format/gitignore"

	"github.com/panbanda/gauge/internal/vcs"
	"github.com/panbanda/gauge/pkg/config"
	"github.com/panbanda/gauge/pkg/lang"
)

// Scanner finds source files in a directory.
type Scanner struct {
	config   *config.Config
	matchers []gitignore.Matcher
}

// NewScanner creates a new file scanner.
func NewScanner(cfg *config.Config) *Scanner {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	return &Scanner{config: cfg}
}

// findGitRoot walks up from start to the directory holding .git.
// Returns empty string if not in a git repository.
func findGitRoot(start string) string {
	dir := start
	for {
		if info, err := os.Stat(filepath.Join(dir, ".git")); err == nil && info.IsDir() {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return ""
		}
		dir = parent
	}
}

// loadExcludePatterns combines config exclude patterns (gitignore syntax)
// with every .gitignore of the enclosing repository.
func (s *Scanner) loadExcludePatterns(root string) {
	s.matchers = nil
	var patterns []gitignore.Pattern

	for _, pattern := range s.config.Exclude.Patterns {
		patterns = append(patterns, gitignore.ParsePattern(pattern, nil))
	}

	if s.config.Exclude.Gitignore {
		if gitRoot := findGitRoot(root); gitRoot != "" {
			if gitPatterns, err := gitignore.ReadPatterns(osfs.New(gitRoot), nil); err == nil {
				patterns = append(patterns, rebase(gitPatterns, gitRoot, root)...)
			}
		}
	}

	if len(patterns) > 0 {
		s.matchers = append(s.matchers, gitignore.NewMatcher(patterns))
	}
}

// rebase makes .gitignore patterns read at gitRoot usable for paths
// relative to root by prefixing each path with root's position in the
// repository.
func rebase(patterns []gitignore.Pattern, gitRoot, root string) []gitignore.Pattern {
	rel, err := filepath.Rel(gitRoot, root)
	if err != nil || rel == "." {
		return patterns
	}
	prefix := strings.Split(filepath.ToSlash(rel), "/")
	return []gitignore.Pattern{prefixed{patterns: patterns, prefix: prefix}}
}

// prefixed matches root-relative paths against patterns written for the
// git root.
type prefixed struct {
	patterns []gitignore.Pattern
	prefix   []string
}

func (p prefixed) Match(parts []string, isDir bool) gitignore.MatchResult {
	full := append(append([]string{}, p.prefix...), parts...)
	result := gitignore.NoMatch
	for _, pat := range p.patterns {
		if r := pat.Match(full, isDir); r != gitignore.NoMatch {
			result = r
		}
	}
	return result
}

// isExcluded checks a root-relative path against exclusions.
func (s *Scanner) isExcluded(rel string, isDir bool) bool {
	if rel == "." || rel == "" {
		return false
	}
	parts := strings.Split(filepath.ToSlash(rel), "/")
	if isDir {
		for _, dir := range s.config.Exclude.Dirs {
			if parts[len(parts)-1] == dir {
				return true
			}
		}
	} else if s.config.ShouldExclude(rel) {
		return true
	}
	for _, m := range s.matchers {
		if m.Match(parts, isDir) {
			return true
		}
	}
	return false
}

// ScanDir recursively scans root for files in a supported language.
// Symlinks that resolve outside root are skipped.
func (s *Scanner) ScanDir(root string) ([]string, error) {
	files := make([]string, 0, 256)

	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, err
	}
	absRoot, err = filepath.EvalSymlinks(absRoot)
	if err != nil {
		return nil, err
	}

	s.loadExcludePatterns(absRoot)

	walkErr := filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}

		rel, _ := filepath.Rel(root, p)

		if d.Type()&fs.ModeSymlink != 0 {
			resolved, err := filepath.EvalSymlinks(p)
			if err != nil || !isWithinRoot(resolved, absRoot) {
				return nil
			}
		}

		if d.IsDir() {
			if s.isExcluded(rel, true) {
				return filepath.SkipDir
			}
			return nil
		}

		if s.isExcluded(rel, false) {
			return nil
		}
		if lang.Detect(p) != "" {
			files = append(files, p)
		}
		return nil
	})

	return files, walkErr
}

// isWithinRoot reports whether p is root or inside it.
func isWithinRoot(p, root string) bool {
	absPath, err := filepath.Abs(p)
	if err != nil {
		return false
	}
	absPath = filepath.Clean(absPath)
	root = filepath.Clean(root)
	return absPath == root || strings.HasPrefix(absPath, root+string(filepath.Separator))
}

// ScanFile reports whether a single file should be analyzed. Files named
// explicitly are accepted in any language unless excluded.
func (s *Scanner) ScanFile(p string) (bool, error) {
	info, err := os.Stat(p)
	if err != nil {
		return false, err
	}
	if info.IsDir() {
		return false, nil
	}
	return !s.config.ShouldExclude(filepath.Base(p)), nil
}

// ScanTree filters git tree entries under prefixes (repository-relative,
// slash separated; none means the whole tree) to supported, non-excluded
// files within maxSize (0 = no limit). Results are sorted.
func (s *Scanner) ScanTree(entries []vcs.TreeEntry, prefixes []string, maxSize int64) []string {
	s.matchers = nil
	var patterns []gitignore.Pattern
	for _, pattern := range s.config.Exclude.Patterns {
		patterns = append(patterns, gitignore.ParsePattern(pattern, nil))
	}
	if len(patterns) > 0 {
		s.matchers = []gitignore.Matcher{gitignore.NewMatcher(patterns)}
	}

	var files []string
	for _, e := range entries {
		if !underAny(e.Path, prefixes) || lang.Detect(e.Path) == "" {
			continue
		}
		if maxSize > 0 && e.Size > maxSize {
			continue
		}
		if s.excludedTreePath(e.Path) {
			continue
		}
		files = append(files, e.Path)
	}
	sort.Strings(files)
	return files
}

func (s *Scanner) excludedTreePath(p string) bool {
	dir := path.Dir(p)
	for dir != "." && dir != "/" {
		if s.isExcluded(dir, true) {
			return true
		}
		dir = path.Dir(dir)
	}
	return s.isExcluded(p, false)
}

func underAny(p string, prefixes []string) bool {
	if len(prefixes) == 0 {
		return true
	}
	for _, pre := range prefixes {
		pre = strings.Trim(pre, "/")
		if pre == "" || pre == "." || p == pre || strings.HasPrefix(p, pre+"/") {
			return true
		}
	}
	return false
}

// GroupByLanguage groups files by detected language tag. Files without a
// known extension are left out.
func (s *Scanner) GroupByLanguage(files []string) map[string][]string {
	groups := make(map[string][]string)
	for _, f := range files {
		if tag := lang.Detect(f); tag != "" {
			groups[tag] = append(groups[tag], f)
		}
	}
	return groups
}

// FilterBySize drops files larger than maxSize bytes and returns the kept
// files with the number skipped. A maxSize of 0 keeps everything.
func FilterBySize(files []string, maxSize int64) ([]string, int) {
	if maxSize <= 0 {
		return files, 0
	}

	filtered := make([]string, 0, len(files))
	skipped := 0
	for _, f := range files {
		info, err := os.Stat(f)
		if err != nil || info.Size() > maxSize {
			skipped++
			continue
		}
		filtered = append(filtered, f)
	}
	return filtered, skipped
}
