package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/panbanda/gauge/internal/cache"
	"github.com/panbanda/gauge/internal/logging"
	"github.com/panbanda/gauge/internal/output"
	"github.com/panbanda/gauge/pkg/config"
	"github.com/panbanda/gauge/pkg/models"
)

// getPaths returns paths from positional args, defaulting to ["."]
func getPaths(c *cli.Context) []string {
	if c.Args().Len() > 0 {
		return c.Args().Slice()
	}
	return []string{"."}
}

// loadConfig loads the configuration named by --config, or searches the
// standard locations. The result is kept in the app metadata so every
// hook and command sees the same config.
func loadConfig(c *cli.Context) (*config.Config, error) {
	if cfg, ok := c.App.Metadata["config"].(*config.Config); ok {
		return cfg, nil
	}

	var opts []config.LoadOption
	if path := c.String("config"); path != "" {
		opts = append(opts, config.WithPath(path))
	}
	result, err := config.LoadConfig(opts...)
	if err != nil {
		return nil, err
	}
	c.App.Metadata["config"] = result.Config
	return result.Config, nil
}

// newFormatter builds the output formatter from --format and --output,
// falling back to the configured format.
func newFormatter(c *cli.Context, cfg *config.Config) (*output.Formatter, error) {
	format := c.String("format")
	if format == "" {
		format = cfg.Output.Format
	}
	return output.NewFormatter(output.ParseFormat(format), c.String("output"), cfg.Output.Color)
}

// openCache returns the on-disk result cache, or nil when caching is off.
// A cache that cannot be created only costs speed, so it is logged and
// skipped.
func openCache(c *cli.Context, cfg *config.Config) *cache.Cache {
	if c.Bool("no-cache") || !cfg.Cache.Enabled {
		return nil
	}
	cc, err := cache.New(cfg.Cache.Dir, cfg.Cache.TTL, true)
	if err != nil {
		logging.Warn("cache disabled", "dir", cfg.Cache.Dir, "error", err)
		return nil
	}
	return cc
}

// readInput reads a file, or stdin when path is "-".
func readInput(path string) (string, error) {
	if path == "-" {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return "", fmt.Errorf("failed to read stdin: %w", err)
		}
		return string(data), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", path, err)
	}
	return string(data), nil
}

// showProgress reports whether a progress bar belongs on stderr: only for
// human-readable output going to the terminal.
func showProgress(f *output.Formatter, c *cli.Context) bool {
	return f.Format() == output.FormatText && c.String("output") == ""
}

func classCell(class models.ComplexityClass, colored bool) string {
	if colored {
		return output.ClassColor(class)
	}
	return string(class)
}

func scoreCell(score int, flagged, colored bool) string {
	if colored {
		return output.ScoreColor(score, flagged)
	}
	return fmt.Sprintf("%d%%", score)
}

// truncate shortens a string to maxLen, adding "..." if truncated.
func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	if maxLen < 4 {
		return s[:maxLen]
	}
	return s[:maxLen-3] + "..."
}

// yesNo renders a flag column.
func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return ""
}

func joinRules(rules []string) string {
	return strings.Join(rules, ", ")
}
