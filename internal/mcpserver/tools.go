package mcpserver

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	toon "github.com/toon-format/toon-go"

	"github.com/panbanda/gauge/internal/output"
	"github.com/panbanda/gauge/internal/service/analysis"
	"github.com/panbanda/gauge/pkg/analyzer/similarity"
	"github.com/panbanda/gauge/pkg/gauge"
	"github.com/panbanda/gauge/pkg/lang"
	"github.com/panbanda/gauge/pkg/models"
	"github.com/panbanda/gauge/pkg/source"
)

// FormatInput selects the response encoding.
type FormatInput struct {
	Format string `json:"format,omitempty" jsonschema:"Output format: toon (default), json, or markdown."`
}

// ComplexityInput is the input of analyze_complexity.
type ComplexityInput struct {
	FormatInput
	Code     string   `json:"code,omitempty" jsonschema:"Source snippet to analyze. Takes precedence over paths."`
	Language string   `json:"language,omitempty" jsonschema:"Language tag of the code, e.g. python or javascript. Unknown tags use a generic C-like profile."`
	Paths    []string `json:"paths,omitempty" jsonschema:"Files or directories to analyze when code is empty. Defaults to the current directory."`
}

// CorpusInput names the reference corpus of a similarity tool.
type CorpusInput struct {
	Corpus      []string `json:"corpus,omitempty" jsonschema:"Reference snippets, identified as corpus[0], corpus[1], ..."`
	CorpusPaths []string `json:"corpus_paths,omitempty" jsonschema:"Files to add to the corpus, identified by path."`
	UseSample   bool     `json:"use_sample,omitempty" jsonschema:"Add the built-in hello-world sample corpus."`
}

// SimilarityInput tunes the similarity engine. Omitted fields use the
// configured defaults; threshold and normalize_identifiers are pointers so
// that an explicit 0 or false still overrides the config.
type SimilarityInput struct {
	ShingleSize          int      `json:"shingle_size,omitempty" jsonschema:"Tokens per shingle. Default 3."`
	Threshold            *float64 `json:"threshold,omitempty" jsonschema:"Jaccard similarity (0.0-1.0) at which a match is flagged. Default 0.8; 0 flags every entry."`
	NormalizeIdentifiers *bool    `json:"normalize_identifiers,omitempty" jsonschema:"Replace identifiers with a placeholder so renamed copies still match."`
	Language             string   `json:"language,omitempty" jsonschema:"Language tag of the candidate code."`
}

// PlagiarismInput is the input of detect_plagiarism.
type PlagiarismInput struct {
	FormatInput
	CorpusInput
	SimilarityInput
	Code string `json:"code" jsonschema:"Candidate snippet to compare against the corpus."`
}

// ClusterInput is the input of cluster_corpus.
type ClusterInput struct {
	FormatInput
	CorpusInput
	SimilarityInput
}

// LanguagesInput is the input of list_languages.
type LanguagesInput struct {
	FormatInput
}

func getFormat(input FormatInput) output.Format {
	switch strings.ToLower(input.Format) {
	case "json":
		return output.FormatJSON
	case "markdown", "md":
		return output.FormatMarkdown
	default:
		return output.FormatTOON
	}
}

func formatOutput(data any, format output.Format) (string, error) {
	switch format {
	case output.FormatJSON:
		out, err := json.MarshalIndent(data, "", "  ")
		if err != nil {
			return "", err
		}
		return string(out), nil
	case output.FormatMarkdown:
		out, err := toon.Marshal(data, toon.WithIndent(2))
		if err != nil {
			return "", err
		}
		return "```\n" + string(out) + "\n```", nil
	default:
		out, err := toon.Marshal(data, toon.WithIndent(2))
		if err != nil {
			return "", err
		}
		return string(out), nil
	}
}

func toolResult(data any, format output.Format) (*mcp.CallToolResult, any, error) {
	text, err := formatOutput(data, format)
	if err != nil {
		return nil, nil, err
	}
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: text},
		},
	}, nil, nil
}

func toolError(msg string) (*mcp.CallToolResult, any, error) {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: "Error: " + msg},
		},
		IsError: true,
	}, nil, nil
}

// Tool handlers

func (s *Server) handleAnalyzeComplexity(ctx context.Context, req *mcp.CallToolRequest, input ComplexityInput) (*mcp.CallToolResult, any, error) {
	format := getFormat(input.FormatInput)

	if strings.TrimSpace(input.Code) != "" {
		return toolResult(s.analysis.AnalyzeSnippet(input.Code, input.Language), format)
	}

	paths := input.Paths
	if len(paths) == 0 {
		paths = []string{"."}
	}
	scanResult, err := s.scanner.ScanPaths(paths)
	if err != nil {
		return toolError(err.Error())
	}
	if len(scanResult.Files) == 0 {
		return toolError("no source files found")
	}

	report, err := s.analysis.AnalyzeComplexity(ctx, scanResult.Files, analysis.ComplexityOptions{
		Language: input.Language,
		Source:   scanResult.Source,
	})
	if err != nil {
		return toolError(err.Error())
	}
	return toolResult(report, format)
}

func (s *Server) handleDetectPlagiarism(ctx context.Context, req *mcp.CallToolRequest, input PlagiarismInput) (*mcp.CallToolResult, any, error) {
	corpus, err := s.corpus(ctx, input.CorpusInput)
	if err != nil {
		return toolError(err.Error())
	}

	res, err := s.analysis.ComparePlagiarism(ctx, input.Code, corpus, s.similarityOptions(input.SimilarityInput))
	if err != nil {
		return toolError(err.Error())
	}
	return toolResult(res, getFormat(input.FormatInput))
}

func (s *Server) handleClusterCorpus(ctx context.Context, req *mcp.CallToolRequest, input ClusterInput) (*mcp.CallToolResult, any, error) {
	corpus, err := s.corpus(ctx, input.CorpusInput)
	if err != nil {
		return toolError(err.Error())
	}
	if len(corpus) < 2 {
		return toolError("clustering needs at least two corpus entries")
	}

	report, err := s.analysis.Cluster(ctx, corpus, s.similarityOptions(input.SimilarityInput))
	if err != nil {
		return toolError(err.Error())
	}
	return toolResult(report, getFormat(input.FormatInput))
}

// languageInfo describes one supported language.
type languageInfo struct {
	Tag        string   `json:"tag" toon:"tag"`
	Name       string   `json:"name" toon:"name"`
	Extensions []string `json:"extensions" toon:"extensions"`
}

func (s *Server) handleListLanguages(ctx context.Context, req *mcp.CallToolRequest, input LanguagesInput) (*mcp.CallToolResult, any, error) {
	return toolResult(supportedLanguages(), getFormat(input.FormatInput))
}

func supportedLanguages() []languageInfo {
	var out []languageInfo
	for _, p := range lang.Profiles() {
		if p.IsFallback() {
			continue
		}
		out = append(out, languageInfo{Tag: string(p.Language), Name: p.Name, Extensions: p.Extensions})
	}
	return out
}

// corpus assembles inline snippets, files and the sample corpus, in that
// order. Inline snippets keep their index-based ids.
func (s *Server) corpus(ctx context.Context, input CorpusInput) ([]models.CorpusEntry, error) {
	entries := make([]models.CorpusEntry, 0, len(input.Corpus)+len(input.CorpusPaths))
	for i, text := range input.Corpus {
		entries = append(entries, models.CorpusEntry{ID: similarity.EntryID(i), Text: text})
	}
	if len(input.CorpusPaths) > 0 {
		files, err := gauge.LoadCorpus(ctx, source.NewFilesystem(), input.CorpusPaths)
		if err != nil {
			return nil, err
		}
		entries = append(entries, files...)
	}
	if input.UseSample {
		entries = append(entries, gauge.SampleCorpus()...)
	}
	return entries, nil
}

func (s *Server) similarityOptions(input SimilarityInput) analysis.SimilarityOptions {
	opts := s.analysis.SimilarityOptions()
	if input.ShingleSize > 0 {
		opts.ShingleSize = input.ShingleSize
	}
	if input.Threshold != nil {
		opts.Threshold = *input.Threshold
	}
	if input.NormalizeIdentifiers != nil {
		opts.NormalizeIdentifiers = *input.NormalizeIdentifiers
	}
	if input.Language != "" {
		opts.Language = input.Language
	}
	return opts
}
