package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/panbanda/gauge/internal/output"
	"github.com/panbanda/gauge/internal/remote"
	"github.com/panbanda/gauge/internal/service/analysis"
	scannerSvc "github.com/panbanda/gauge/internal/service/scanner"
	"github.com/panbanda/gauge/pkg/config"
	"github.com/panbanda/gauge/pkg/gauge"
	"github.com/panbanda/gauge/pkg/lang"
	"github.com/panbanda/gauge/pkg/models"
)

func plagiarismCmd() *cli.Command {
	return &cli.Command{
		Name:      "plagiarism",
		Aliases:   []string{"sim"},
		Usage:     "Score a snippet against a reference corpus",
		ArgsUsage: "<file|->",
		Description: `Compares a candidate against every corpus entry using token shingles and
Jaccard similarity. Whitespace, comments and literal values do not affect
the score. Corpus paths may be files or directories; directories are
scanned like the complexity command does.

With --clusters no candidate is read; instead the corpus entries are
compared with each other and groups of similar entries are reported.

Examples:
  gauge plagiarism submission.py --corpus solutions/
  cat answer.js | gauge plagiarism - --sample
  gauge plagiarism main.go --corpus ref/ --normalize-identifiers
  gauge plagiarism --clusters --corpus submissions/
  gauge plagiarism solve.go --corpus owner/solutions@main`,
		Flags: []cli.Flag{
			&cli.StringSliceFlag{
				Name:  "corpus",
				Usage: "Reference file or directory (repeatable)",
			},
			&cli.BoolFlag{
				Name:  "sample",
				Usage: "Add the built-in sample corpus",
			},
			&cli.StringFlag{
				Name:    "language",
				Aliases: []string{"l"},
				Usage:   "Language tag of the candidate; detected from the file extension when empty",
			},
			&cli.IntFlag{
				Name:  "shingle-size",
				Usage: "Tokens per shingle (default from config, else 3)",
			},
			&cli.Float64Flag{
				Name:  "threshold",
				Usage: "Jaccard similarity at which a match is flagged (default from config, else 0.8)",
			},
			&cli.BoolFlag{
				Name:  "normalize-identifiers",
				Usage: "Treat renamed identifiers as equal",
			},
			&cli.BoolFlag{
				Name:  "clusters",
				Usage: "Group similar corpus entries instead of scoring a candidate",
			},
			&cli.StringFlag{
				Name:  "ref",
				Usage: "Read corpus directories as of this git revision",
			},
		},
		Action: runPlagiarismCmd,
	}
}

func runPlagiarismCmd(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}

	formatter, err := newFormatter(c, cfg)
	if err != nil {
		return err
	}
	defer formatter.Close()

	ctx := context.Background()
	svc := analysis.New(analysis.WithConfig(cfg))
	opts := similarityFlags(c, svc.SimilarityOptions())

	corpus, err := loadCorpusFlags(ctx, c, cfg)
	if err != nil {
		return err
	}

	if c.Bool("clusters") {
		if len(corpus) < 2 {
			return fmt.Errorf("clustering needs at least two corpus entries, got %d", len(corpus))
		}
		report, err := svc.Cluster(ctx, corpus, opts)
		if err != nil {
			return err
		}
		return formatter.Output(clusterTable(report, formatter.Colored()))
	}

	if c.Args().Len() != 1 {
		return fmt.Errorf("expected one candidate file or \"-\" for stdin")
	}
	input := c.Args().First()
	candidate, err := readInput(input)
	if err != nil {
		return err
	}
	if strings.TrimSpace(candidate) == "" {
		formatter.Warning("No code to analyze")
		empty := models.PlagiarismResult{Threshold: opts.Threshold, Matches: []models.Match{}}
		return formatter.Output(plagiarismReport(empty, formatter.Colored()))
	}
	if opts.Language == "" && input != "-" {
		opts.Language = lang.Detect(input)
	}
	if len(corpus) == 0 {
		formatter.Warning("Corpus is empty; pass --corpus or --sample")
	}

	res, err := svc.ComparePlagiarism(ctx, candidate, corpus, opts)
	if err != nil {
		return err
	}
	return formatter.Output(plagiarismReport(res, formatter.Colored()))
}

// similarityFlags overrides the configured engine settings with the flags
// the user actually passed.
func similarityFlags(c *cli.Context, opts analysis.SimilarityOptions) analysis.SimilarityOptions {
	if c.IsSet("shingle-size") {
		opts.ShingleSize = c.Int("shingle-size")
	}
	if c.IsSet("threshold") {
		opts.Threshold = c.Float64("threshold")
	}
	if c.IsSet("normalize-identifiers") {
		opts.NormalizeIdentifiers = c.Bool("normalize-identifiers")
	}
	if c.IsSet("language") {
		opts.Language = c.String("language")
	}
	return opts
}

// loadCorpusFlags expands --corpus paths through the scanner and appends
// the sample corpus when --sample is set.
func loadCorpusFlags(ctx context.Context, c *cli.Context, cfg *config.Config) ([]models.CorpusEntry, error) {
	var corpus []models.CorpusEntry

	if paths := c.StringSlice("corpus"); len(paths) > 0 {
		paths, cleanup, err := remote.Resolve(ctx, paths, os.Stderr)
		defer cleanup()
		if err != nil {
			return nil, err
		}
		scanSvc := scannerSvc.New(scannerSvc.WithConfig(cfg))

		var scanResult *scannerSvc.ScanResult
		if ref := c.String("ref"); ref != "" {
			scanResult, err = scanSvc.ScanRef(ref, paths)
		} else {
			scanResult, err = scanSvc.ScanPaths(paths)
		}
		if err != nil {
			return nil, err
		}

		entries, err := gauge.LoadCorpus(ctx, scanResult.Source, scanResult.Files)
		if err != nil && !errors.Is(err, gauge.ErrEmptyCorpus) {
			return nil, err
		}
		for i := range entries {
			entries[i].ID = displayPath(entries[i].ID)
		}
		corpus = append(corpus, entries...)
	}

	if c.Bool("sample") {
		corpus = append(corpus, gauge.SampleCorpus()...)
	}
	return corpus, nil
}

// plagiarismReport leads with a one-line verdict, then the per-entry table.
// Structured formats carry the result itself.
func plagiarismReport(res models.PlagiarismResult, colored bool) *output.Report {
	return &output.Report{
		Title:    "Similarity",
		Sections: []output.Renderable{verdictSection(res, colored), plagiarismTable(res, colored)},
		Data:     res,
	}
}

func verdictSection(res models.PlagiarismResult, colored bool) *output.Section {
	content := "No corpus entry shares code with the candidate."
	if res.BestMatch != "" {
		verdict := "below"
		if res.Summary.Flagged > 0 {
			verdict = "at or above"
		}
		content = fmt.Sprintf("Best match %s scores %s, %s the %.2f threshold.",
			res.BestMatch, scoreCell(res.Score, res.Summary.Flagged > 0, colored), verdict, res.Threshold)
	}
	return &output.Section{Title: "Verdict", Content: content}
}

func plagiarismTable(res models.PlagiarismResult, colored bool) *output.Table {
	headers := []string{"Entry", "Score", "Jaccard", "Shared", "Exact", "Flagged"}

	rows := make([][]string, 0, len(res.Matches))
	for _, m := range res.Matches {
		rows = append(rows, []string{
			m.ID,
			scoreCell(m.Score, m.Flagged, colored),
			fmt.Sprintf("%.3f", m.Jaccard),
			fmt.Sprintf("%d", m.SharedShingles),
			yesNo(m.Exact),
			yesNo(m.Flagged),
		})
	}

	best := res.BestMatch
	if best == "" {
		best = "-"
	}
	footer := []string{
		fmt.Sprintf("Best: %s", best),
		fmt.Sprintf("Score: %d%%", res.Score),
		fmt.Sprintf("Mean: %.1f", res.Summary.Mean),
		fmt.Sprintf("StdDev: %.1f", res.Summary.StdDev),
		fmt.Sprintf("Median: %.1f  P90: %.1f", res.Summary.Median, res.Summary.P90),
		fmt.Sprintf("Flagged: %d (>= %.2f)", res.Summary.Flagged, res.Threshold),
	}

	return output.NewTable("Matches", headers, rows, footer, res)
}

func clusterTable(report models.ClusterReport, colored bool) *output.Table {
	headers := []string{"Cluster", "Members", "Max Score"}

	rows := make([][]string, 0, len(report.Clusters))
	for i, cl := range report.Clusters {
		rows = append(rows, []string{
			fmt.Sprintf("%d", i+1),
			strings.Join(cl.Members, ", "),
			scoreCell(cl.MaxScore, true, colored),
		})
	}

	footer := []string{
		fmt.Sprintf("Entries: %d", report.Entries),
		fmt.Sprintf("Similar pairs: %d", len(report.Pairs)),
		fmt.Sprintf("Threshold: %.2f", report.Threshold),
	}

	return output.NewTable("Similarity Clusters", headers, rows, footer, report)
}
