package main

import (
	"fmt"
	"os"
	"runtime"
	"runtime/pprof"

	"github.com/fatih/color"
	"github.com/urfave/cli/v2"

	"github.com/panbanda/gauge/internal/logging"
)

var (
	version = "dev"
	commit  = "none"    //nolint:unused // set via ldflags at build time
	date    = "unknown" //nolint:unused // set via ldflags at build time
)

func main() {
	if err := newApp().Run(os.Args); err != nil {
		color.Red("Error: %v", err)
		os.Exit(1)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:     "gauge",
		Usage:    "Heuristic complexity estimates and code similarity scoring",
		Version:  version,
		Metadata: make(map[string]interface{}),
		Description: `Gauge estimates the time and space complexity class of source code from its
loop and recursion structure, and scores how much of a snippet appears in a
reference corpus using token shingles and Jaccard similarity.

Supports: Go, Rust, Python, TypeScript, JavaScript, Java, C, C++, C#
Other languages are analyzed with a generic C-like profile.`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to config file (TOML, YAML, or JSON)",
				EnvVars: []string{"GAUGE_CONFIG"},
			},
			&cli.StringFlag{
				Name:    "format",
				Aliases: []string{"f"},
				Usage:   "Output format: text, json, markdown, toon (default from config, else text)",
			},
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "Write output to file",
			},
			&cli.BoolFlag{
				Name:  "no-cache",
				Usage: "Disable the result cache",
			},
			&cli.StringFlag{
				Name:    "log-level",
				Usage:   "Diagnostic log level: debug, info, warn, error",
				EnvVars: []string{"GAUGE_LOG_LEVEL"},
			},
			&cli.BoolFlag{
				Name:  "verbose",
				Usage: "Enable verbose output (debug logging)",
			},
			&cli.StringFlag{
				Name:  "pprof",
				Usage: "Enable pprof profiling and write to specified prefix (creates <prefix>.cpu.pprof and <prefix>.mem.pprof)",
			},
		},
		Before: func(c *cli.Context) error {
			initLogging(c)

			if pprofPrefix := c.String("pprof"); pprofPrefix != "" {
				cpuFile, err := os.Create(pprofPrefix + ".cpu.pprof")
				if err != nil {
					return fmt.Errorf("failed to create CPU profile: %w", err)
				}
				if err := pprof.StartCPUProfile(cpuFile); err != nil {
					cpuFile.Close()
					return fmt.Errorf("failed to start CPU profile: %w", err)
				}
				c.App.Metadata["pprofCPU"] = cpuFile
			}
			return nil
		},
		After: func(c *cli.Context) error {
			if pprofPrefix := c.String("pprof"); pprofPrefix != "" {
				pprof.StopCPUProfile()
				if cpuFile, ok := c.App.Metadata["pprofCPU"].(*os.File); ok {
					cpuFile.Close()
					color.Green("CPU profile written to %s.cpu.pprof", pprofPrefix)
				}

				memFile, err := os.Create(pprofPrefix + ".mem.pprof")
				if err != nil {
					return fmt.Errorf("failed to create memory profile: %w", err)
				}
				defer memFile.Close()

				runtime.GC()
				if err := pprof.WriteHeapProfile(memFile); err != nil {
					return fmt.Errorf("failed to write memory profile: %w", err)
				}
				color.Green("Memory profile written to %s.mem.pprof", pprofPrefix)
			}
			return nil
		},
		Commands: []*cli.Command{
			complexityCmd(),
			plagiarismCmd(),
			languagesCmd(),
			templateCmd(),
			configCmd(),
			cacheCmd(),
			mcpCmd(),
		},
	}
}

// initLogging sets up the process logger from the config file, then
// applies --log-level and --verbose on top. A broken config file is
// reported by the command that loads it, not here.
func initLogging(c *cli.Context) {
	logCfg := logging.DefaultConfig()
	if cfg, err := loadConfig(c); err == nil {
		if cfg.Log.Level != "" {
			logCfg.Level = logging.ParseLevel(cfg.Log.Level)
		}
		logCfg.JSONFormat = cfg.Log.JSON
		if cfg.Output.Verbose {
			logCfg.Level = logging.LevelDebug
		}
	}
	if lvl := c.String("log-level"); lvl != "" {
		logCfg.Level = logging.ParseLevel(lvl)
	}
	if c.Bool("verbose") {
		logCfg.Level = logging.LevelDebug
	}
	logging.Init(logCfg)
}
