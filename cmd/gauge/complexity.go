package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/urfave/cli/v2"

	"github.com/panbanda/gauge/internal/output"
	"github.com/panbanda/gauge/internal/progress"
	"github.com/panbanda/gauge/internal/remote"
	"github.com/panbanda/gauge/internal/service/analysis"
	scannerSvc "github.com/panbanda/gauge/internal/service/scanner"
	"github.com/panbanda/gauge/pkg/analyzer"
	"github.com/panbanda/gauge/pkg/config"
	"github.com/panbanda/gauge/pkg/models"
	"github.com/panbanda/gauge/pkg/source"
	"github.com/panbanda/gauge/pkg/watch"
)

func complexityCmd() *cli.Command {
	return &cli.Command{
		Name:      "complexity",
		Aliases:   []string{"cx"},
		Usage:     "Estimate time and space complexity classes",
		ArgsUsage: "[path...] | -",
		Description: `Estimates the asymptotic time and space class of each source file from its
loop nesting, recursion shape and container allocations. Directories are
scanned recursively; "-" reads one snippet from stdin.

Examples:
  gauge complexity ./src
  gauge complexity --code 'for i in a:
  for j in a: pass' -l python
  cat solve.js | gauge complexity -l javascript -
  gauge complexity --ref HEAD~1 ./pkg
  gauge complexity --fail-on 'O(n^2)' .
  gauge complexity golang/example@master
  gauge complexity --watch ./src`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "language",
				Aliases: []string{"l"},
				Usage:   "Language tag for every input; detected from the extension when empty",
			},
			&cli.StringFlag{
				Name:  "code",
				Usage: "Analyze this snippet instead of files",
			},
			&cli.StringFlag{
				Name:  "ref",
				Usage: "Analyze files as of this git revision instead of the working tree",
			},
			&cli.StringFlag{
				Name:  "fail-on",
				Usage: "Exit non-zero when any time class reaches this class, e.g. 'O(n^2)'",
			},
			&cli.BoolFlag{
				Name:    "watch",
				Aliases: []string{"w"},
				Usage:   "Keep running and re-estimate files as they change",
			},
		},
		Action: runComplexityCmd,
	}
}

func runComplexityCmd(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}

	failOn, err := failOnClass(c, cfg)
	if err != nil {
		return err
	}

	formatter, err := newFormatter(c, cfg)
	if err != nil {
		return err
	}
	defer formatter.Close()

	svc := analysis.New(analysis.WithConfig(cfg), analysis.WithCache(openCache(c, cfg)))

	if code, label, ok, err := snippetInput(c); err != nil {
		return err
	} else if ok {
		return runComplexitySnippet(c, svc, formatter, code, label, failOn)
	}

	ctx := context.Background()
	paths, cleanup, err := remote.Resolve(ctx, getPaths(c), os.Stderr)
	defer cleanup()
	if err != nil {
		return err
	}
	scanSvc := scannerSvc.New(scannerSvc.WithConfig(cfg))

	var scanResult *scannerSvc.ScanResult
	if ref := c.String("ref"); ref != "" {
		scanResult, err = scanSvc.ScanRef(ref, paths)
	} else {
		scanResult, err = scanSvc.ScanPaths(paths)
	}
	if err != nil {
		return err
	}

	if len(scanResult.Files) == 0 {
		formatter.Warning("No source files found")
		empty := models.AggregateResults([]models.FileComplexity{})
		if err := formatter.Output(complexityTable(empty, formatter.Colored(), scanResult.Skipped)); err != nil {
			return err
		}
		if c.Bool("watch") {
			return watchComplexity(c, cfg, svc, formatter, paths)
		}
		return nil
	}

	bar := progress.New("Estimating complexity...", showProgress(formatter, c))

	report, err := svc.AnalyzeComplexity(analyzer.WithTracker(ctx, bar.Tracker()), scanResult.Files, analysis.ComplexityOptions{
		Language: c.String("language"),
		Source:   scanResult.Source,
	})
	if err != nil {
		bar.FinishError(err)
		return err
	}
	bar.FinishSuccess()

	if err := formatter.Output(complexityTable(report, formatter.Colored(), scanResult.Skipped)); err != nil {
		return err
	}

	if c.Bool("watch") {
		return watchComplexity(c, cfg, svc, formatter, paths)
	}

	if failOn != "" {
		if n := report.CountAtLeast(failOn); n > 0 {
			return fmt.Errorf("%d file(s) at or above %s", n, failOn)
		}
	}
	return nil
}

// watchComplexity re-estimates each changed file under the single watched
// directory until interrupted.
func watchComplexity(c *cli.Context, cfg *config.Config, svc *analysis.Service, formatter *output.Formatter, paths []string) error {
	if len(paths) != 1 || c.String("ref") != "" {
		return fmt.Errorf("--watch needs exactly one directory and no --ref")
	}
	root, err := filepath.Abs(paths[0])
	if err != nil {
		return err
	}

	w, err := watch.NewWatcher(root, cfg, watch.DefaultDebounce)
	if err != nil {
		return err
	}
	defer w.Stop()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	src := source.NewFilesystem()
	w.SetCallback(func(path string) {
		rel, err := filepath.Rel(root, path)
		if err != nil {
			rel = path
		}
		formatter.Info("\nFile changed: %s", rel)
		formatter.Info(strings.Repeat("-", 40))

		report, err := svc.AnalyzeComplexity(ctx, []string{path}, analysis.ComplexityOptions{
			Language: c.String("language"),
			Source:   src,
		})
		if err != nil {
			formatter.Error("%v", err)
			return
		}
		if err := formatter.Output(complexityTable(report, formatter.Colored(), 0)); err != nil {
			formatter.Error("%v", err)
		}
	})

	formatter.Info("Watching for changes in %s...", root)
	formatter.Info("Press Ctrl+C to stop\n")

	if err := w.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

func runComplexitySnippet(c *cli.Context, svc *analysis.Service, formatter *output.Formatter, code, label string, failOn models.ComplexityClass) error {
	if strings.TrimSpace(code) == "" {
		formatter.Warning("No code to analyze")
		return formatter.Output(complexityTable(models.AggregateResults([]models.FileComplexity{}), formatter.Colored(), 0))
	}

	res := svc.AnalyzeSnippet(code, c.String("language"))
	report := models.AggregateResults([]models.FileComplexity{{Path: label, ComplexityResult: res}})
	if err := formatter.Output(complexityTable(report, formatter.Colored(), 0)); err != nil {
		return err
	}

	if failOn != "" && report.CountAtLeast(failOn) > 0 {
		return fmt.Errorf("snippet time %s is at or above %s", res.Estimate.Time, failOn)
	}
	return nil
}

// snippetInput returns the code to analyze when --code was given or the
// only argument is "-".
func snippetInput(c *cli.Context) (code, label string, ok bool, err error) {
	if c.IsSet("code") {
		return c.String("code"), "<code>", true, nil
	}
	if c.Args().Len() == 1 && c.Args().First() == "-" {
		code, err := readInput("-")
		return code, "<stdin>", true, err
	}
	return "", "", false, nil
}

// failOnClass resolves the gate from --fail-on or the config. Empty
// disables it.
func failOnClass(c *cli.Context, cfg *config.Config) (models.ComplexityClass, error) {
	s := cfg.Analysis.FailOn
	if c.IsSet("fail-on") {
		s = c.String("fail-on")
	}
	if strings.TrimSpace(s) == "" {
		return "", nil
	}
	class, err := models.ParseClass(s)
	if err != nil {
		return "", fmt.Errorf("invalid --fail-on: %w", err)
	}
	if !class.Known() {
		return "", fmt.Errorf("invalid --fail-on: %s is not a gate class", class)
	}
	return class, nil
}

func complexityTable(report *models.ComplexityReport, colored bool, skipped int) *output.Table {
	headers := []string{"File", "Language", "Time", "Space", "Confidence", "Rules"}

	rows := make([][]string, 0, len(report.Files))
	for _, f := range report.Files {
		language := f.Language
		if f.Fallback {
			language += " (generic)"
		}
		rows = append(rows, []string{
			displayPath(f.Path),
			language,
			classCell(f.Estimate.Time, colored),
			classCell(f.Estimate.Space, colored),
			string(f.Estimate.Confidence),
			truncate(joinRules(f.Estimate.Rules), 60),
		})
	}

	s := report.Summary
	footer := []string{
		fmt.Sprintf("Files: %d", s.TotalFiles),
		fmt.Sprintf("Generic: %d", s.FallbackFiles),
		fmt.Sprintf("Worst: %s", s.WorstTime),
		fmt.Sprintf("Worst: %s", s.WorstSpace),
		fmt.Sprintf("Low: %d", s.LowConfidence),
		"",
	}
	if skipped > 0 {
		footer[5] = fmt.Sprintf("Skipped (size): %d", skipped)
	}

	return output.NewTable("Complexity Estimates", headers, rows, footer, report)
}

// displayPath shows p relative to the working directory when it lies
// beneath it.
func displayPath(p string) string {
	if !filepath.IsAbs(p) {
		return p
	}
	wd, err := os.Getwd()
	if err != nil {
		return p
	}
	rel, err := filepath.Rel(wd, p)
	if err != nil || strings.HasPrefix(rel, "..") {
		return p
	}
	return rel
}
