package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/urfave/cli/v2"

	"github.com/panbanda/gauge/internal/cache"
	"github.com/panbanda/gauge/internal/output"
	"github.com/panbanda/gauge/pkg/config"
)

func cacheCmd() *cli.Command {
	return &cli.Command{
		Name:  "cache",
		Usage: "Inspect or clear the result cache",
		Subcommands: []*cli.Command{
			{
				Name:   "stats",
				Usage:  "Show entry count and size of the result cache",
				Action: runCacheStats,
			},
			{
				Name:   "clear",
				Usage:  "Remove every cached result",
				Action: runCacheClear,
			},
		},
	}
}

// openCacheDir opens the configured cache directory even when caching is
// disabled for analysis runs.
func openCacheDir(c *cli.Context) (*cache.Cache, *config.Config, error) {
	cfg, err := loadConfig(c)
	if err != nil {
		return nil, nil, err
	}
	cc, err := cache.New(cfg.Cache.Dir, cfg.Cache.TTL, true)
	if err != nil {
		return nil, nil, err
	}
	return cc, cfg, nil
}

func runCacheStats(c *cli.Context) error {
	cc, cfg, err := openCacheDir(c)
	if err != nil {
		return err
	}
	dir := cfg.Cache.Dir
	stats, err := cc.GetStats()
	if err != nil {
		return fmt.Errorf("read cache %s: %w", dir, err)
	}

	formatter, err := newFormatter(c, cfg)
	if err != nil {
		return err
	}
	defer formatter.Close()

	rows := [][]string{
		{"Directory", dir},
		{"Entries", fmt.Sprintf("%d", stats.Entries)},
		{"Size", fmt.Sprintf("%d bytes", stats.TotalSize)},
	}
	return formatter.Output(output.NewTable("Result Cache", []string{"Property", "Value"}, rows, nil, stats))
}

func runCacheClear(c *cli.Context) error {
	cc, cfg, err := openCacheDir(c)
	if err != nil {
		return err
	}
	dir := cfg.Cache.Dir
	if err := cc.Clear(); err != nil {
		return fmt.Errorf("clear cache %s: %w", dir, err)
	}
	color.Green("Cache cleared: %s", dir)
	return nil
}
