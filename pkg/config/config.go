package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/panbanda/gauge/internal/logging"
	"github.com/panbanda/gauge/pkg/lang"
	"github.com/panbanda/gauge/pkg/models"
)

// Config holds all configuration options for gauge.
type Config struct {
	// Complexity analysis settings
	Analysis AnalysisConfig `koanf:"analysis" toml:"analysis"`

	// Similarity engine settings
	Similarity SimilarityConfig `koanf:"similarity" toml:"similarity"`

	// File exclusion patterns
	Exclude ExcludeConfig `koanf:"exclude" toml:"exclude"`

	// Cache settings
	Cache CacheConfig `koanf:"cache" toml:"cache"`

	// Output settings
	Output OutputConfig `koanf:"output" toml:"output"`

	// Log settings
	Log LogConfig `koanf:"log" toml:"log"`
}

// AnalysisConfig controls the complexity analyzer.
type AnalysisConfig struct {
	// Language forces a language tag for every file; empty detects by extension.
	Language    string `koanf:"language" toml:"language"`
	MaxFileSize int64  `koanf:"max_file_size" toml:"max_file_size"` // bytes, 0 = no limit
	// FailOn makes the complexity command exit non-zero when any file's
	// time class reaches it, e.g. "O(n^2)". Empty disables the gate.
	FailOn string `koanf:"fail_on" toml:"fail_on"`
}

// SimilarityConfig controls the similarity engine.
type SimilarityConfig struct {
	ShingleSize          int     `koanf:"shingle_size" toml:"shingle_size"`
	Threshold            float64 `koanf:"threshold" toml:"threshold"`
	NormalizeIdentifiers bool    `koanf:"normalize_identifiers" toml:"normalize_identifiers"`
}

// ExcludeConfig defines file exclusion patterns.
type ExcludeConfig struct {
	Patterns   []string `koanf:"patterns" toml:"patterns"`
	Extensions []string `koanf:"extensions" toml:"extensions"`
	Dirs       []string `koanf:"dirs" toml:"dirs"`
	Gitignore  bool     `koanf:"gitignore" toml:"gitignore"`
}

// CacheConfig controls caching behavior.
type CacheConfig struct {
	Enabled bool   `koanf:"enabled" toml:"enabled"`
	Dir     string `koanf:"dir" toml:"dir"`
	TTL     int    `koanf:"ttl" toml:"ttl"` // TTL in hours
	// MemoEntries bounds the in-process result memo; 0 disables it.
	MemoEntries int `koanf:"memo_entries" toml:"memo_entries"`
}

// OutputConfig controls output formatting.
type OutputConfig struct {
	Format  string `koanf:"format" toml:"format"` // text, json, markdown, toon
	Color   bool   `koanf:"color" toml:"color"`
	Verbose bool   `koanf:"verbose" toml:"verbose"`
}

// LogConfig controls diagnostic logging on stderr.
type LogConfig struct {
	Level string `koanf:"level" toml:"level"` // debug, info, warn, error
	JSON  bool   `koanf:"json" toml:"json"`
}

// DefaultConfig returns a config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Analysis: AnalysisConfig{
			MaxFileSize: 1 << 20,
		},
		Similarity: SimilarityConfig{
			ShingleSize: 3,
			Threshold:   0.8,
		},
		Exclude: ExcludeConfig{
			Patterns: []string{
				"*.min.js",
				"*.bundle.js",
			},
			Extensions: []string{
				".lock",
				".sum",
			},
			Dirs: []string{
				"vendor",
				"node_modules",
				".git",
				".gauge",
				"dist",
				"build",
				"target",
				"__pycache__",
			},
			Gitignore: true,
		},
		Cache: CacheConfig{
			Enabled:     true,
			Dir:         ".gauge/cache",
			TTL:         24,
			MemoEntries: 512,
		},
		Output: OutputConfig{
			Format: "text",
			Color:  true,
		},
		Log: LogConfig{
			Level: string(logging.LevelWarn),
		},
	}
}

// configNames are searched in order in each of searchDirs.
var (
	configNames = []string{
		"gauge.toml",
		"gauge.yaml",
		"gauge.yml",
		"gauge.json",
		".gauge.toml",
		".gauge.yaml",
		".gauge.yml",
		".gauge.json",
	}
	searchDirs = []string{".", ".gauge"}
)

// LoadResult is a loaded configuration and the file it came from.
type LoadResult struct {
	Config *Config
	// Source is the config file path; empty when defaults were used.
	Source string
}

type loadOptions struct {
	path string
	dir  string
}

// LoadOption configures LoadConfig.
type LoadOption func(*loadOptions)

// WithPath loads exactly this file instead of searching.
func WithPath(path string) LoadOption {
	return func(o *loadOptions) {
		o.path = path
	}
}

// WithDir searches for config files relative to dir instead of the
// working directory.
func WithDir(dir string) LoadOption {
	return func(o *loadOptions) {
		o.dir = dir
	}
}

// LoadConfig loads and validates configuration. An explicit path must
// exist; otherwise the standard locations are searched and defaults are
// used when none is found.
func LoadConfig(opts ...LoadOption) (*LoadResult, error) {
	o := &loadOptions{}
	for _, opt := range opts {
		opt(o)
	}

	path := o.path
	if path == "" {
		path = find(o.dir)
	}
	if path == "" {
		return &LoadResult{Config: DefaultConfig()}, nil
	}

	cfg, err := Load(path)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return &LoadResult{Config: cfg, Source: path}, nil
}

func find(base string) string {
	for _, dir := range searchDirs {
		for _, name := range configNames {
			path := filepath.Join(base, dir, name)
			if _, err := os.Stat(path); err == nil {
				return path
			}
		}
	}
	return ""
}

// Load loads configuration from a file over the defaults.
func Load(path string) (*Config, error) {
	k := koanf.New(".")
	cfg := DefaultConfig()

	var parser koanf.Parser
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		parser = yaml.Parser()
	case ".json":
		parser = json.Parser()
	default:
		parser = toml.Parser()
	}

	if err := k.Load(file.Provider(path), parser); err != nil {
		return nil, fmt.Errorf("load config %s: %w", path, err)
	}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("decode config %s: %w", path, err)
	}
	return cfg, nil
}

// LoadOrDefault tries the standard locations and falls back to defaults
// when nothing valid is found.
func LoadOrDefault() *Config {
	res, err := LoadConfig()
	if err != nil {
		logging.Warn("ignoring config", "error", err)
		return DefaultConfig()
	}
	return res.Config
}

var validFormats = map[string]bool{"text": true, "json": true, "markdown": true, "md": true, "toon": true}

// Validate checks value ranges. All problems are reported together.
func (c *Config) Validate() error {
	var errs []error

	if c.Analysis.Language != "" {
		if _, ok := lang.Lookup(c.Analysis.Language); !ok {
			errs = append(errs, fmt.Errorf("analysis.language: unknown language %q", c.Analysis.Language))
		}
	}
	if c.Analysis.MaxFileSize < 0 {
		errs = append(errs, fmt.Errorf("analysis.max_file_size must not be negative (got %d)", c.Analysis.MaxFileSize))
	}
	if c.Analysis.FailOn != "" {
		if _, err := models.ParseClass(c.Analysis.FailOn); err != nil {
			errs = append(errs, fmt.Errorf("analysis.fail_on: %w", err))
		}
	}
	if c.Similarity.ShingleSize < 1 {
		errs = append(errs, fmt.Errorf("similarity.shingle_size must be at least 1 (got %d)", c.Similarity.ShingleSize))
	}
	if c.Similarity.Threshold < 0 || c.Similarity.Threshold > 1 {
		errs = append(errs, fmt.Errorf("similarity.threshold must be in [0, 1] (got %g)", c.Similarity.Threshold))
	}
	if c.Cache.TTL < 0 {
		errs = append(errs, fmt.Errorf("cache.ttl must not be negative (got %d)", c.Cache.TTL))
	}
	if c.Cache.MemoEntries < 0 {
		errs = append(errs, fmt.Errorf("cache.memo_entries must not be negative (got %d)", c.Cache.MemoEntries))
	}
	if !validFormats[strings.ToLower(c.Output.Format)] {
		errs = append(errs, fmt.Errorf("output.format: unknown format %q", c.Output.Format))
	}
	if !logging.Valid(c.Log.Level) {
		errs = append(errs, fmt.Errorf("log.level: unknown level %q", c.Log.Level))
	}

	return errors.Join(errs...)
}

// ShouldExclude checks if a path should be excluded from analysis.
func (c *Config) ShouldExclude(path string) bool {
	for _, dir := range c.Exclude.Dirs {
		if strings.Contains(path, string(filepath.Separator)+dir+string(filepath.Separator)) ||
			strings.HasPrefix(path, dir+string(filepath.Separator)) {
			return true
		}
	}

	ext := filepath.Ext(path)
	for _, excludeExt := range c.Exclude.Extensions {
		if ext == excludeExt {
			return true
		}
	}

	base := filepath.Base(path)
	for _, pattern := range c.Exclude.Patterns {
		if matched, _ := filepath.Match(pattern, base); matched {
			return true
		}
	}

	return false
}
