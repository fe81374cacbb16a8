package main

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/panbanda/gauge/internal/mcpserver"
)

func mcpCmd() *cli.Command {
	return &cli.Command{
		Name:  "mcp",
		Usage: "Start MCP (Model Context Protocol) server for LLM tool integration",
		Description: `Starts an MCP server over stdio transport that exposes gauge's complexity
estimator and similarity engine as tools that LLMs can invoke.

To use with Claude Desktop, add to your config:
  {
    "mcpServers": {
      "gauge": {
        "command": "gauge",
        "args": ["mcp"]
      }
    }
  }

Available tools:
  - analyze_complexity    Time and space class of a snippet or files
  - detect_plagiarism     Shingle/Jaccard similarity against a corpus
  - cluster_corpus        Groups of mutually similar corpus entries
  - list_languages        Languages with dedicated profiles`,
		Action: runMCPCmd,
		Subcommands: []*cli.Command{
			{
				Name:   "manifest",
				Usage:  "Print the MCP registry server.json manifest",
				Action: runMCPManifestCmd,
			},
		},
	}
}

func runMCPCmd(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}
	server := mcpserver.NewServer(version, cfg)
	return server.Run(context.Background())
}

func runMCPManifestCmd(c *cli.Context) error {
	data, err := mcpserver.GenerateManifest(version)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(c.App.Writer, string(data))
	return err
}
