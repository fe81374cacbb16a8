// Package mcpserver exposes the complexity analyzer and the similarity
// engine as Model Context Protocol tools over stdio.
package mcpserver

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/panbanda/gauge/internal/service/analysis"
	scannerSvc "github.com/panbanda/gauge/internal/service/scanner"
	"github.com/panbanda/gauge/pkg/config"
)

// Server wraps the MCP server and registers all gauge tools.
type Server struct {
	server   *mcp.Server
	config   *config.Config
	analysis *analysis.Service
	scanner  *scannerSvc.Service
}

// NewServer creates a new MCP server with all gauge tools registered. A
// nil cfg loads the configuration from the working directory.
func NewServer(version string, cfg *config.Config) *Server {
	if version == "" {
		version = "dev"
	}
	if cfg == nil {
		cfg = config.LoadOrDefault()
	}
	server := mcp.NewServer(
		&mcp.Implementation{
			Name:    "gauge",
			Version: version,
		},
		nil,
	)

	s := &Server{
		server:   server,
		config:   cfg,
		analysis: analysis.New(analysis.WithConfig(cfg)),
		scanner:  scannerSvc.New(scannerSvc.WithConfig(cfg)),
	}
	s.registerTools()
	s.registerPrompts()
	return s
}

// Run starts the MCP server over stdio transport.
func (s *Server) Run(ctx context.Context) error {
	return s.server.Run(ctx, &mcp.StdioTransport{})
}

func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "analyze_complexity",
		Description: describeComplexity(),
	}, s.handleAnalyzeComplexity)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "detect_plagiarism",
		Description: describePlagiarism(),
	}, s.handleDetectPlagiarism)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "cluster_corpus",
		Description: describeCluster(),
	}, s.handleClusterCorpus)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "list_languages",
		Description: describeLanguages(),
	}, s.handleListLanguages)
}
