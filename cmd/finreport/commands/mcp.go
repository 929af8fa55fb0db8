// ABOUTME: MCP command starts Model Context Protocol server
// ABOUTME: Lets LLM agents generate reports, summaries and digests via stdio
package commands

import (
	"fmt"

	"github.com/harper/finreport/internal/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

// NewMCPCmd creates the MCP command
func NewMCPCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mcp",
		Short: "Start MCP server for LLM agents",
		Long: `Start MCP server for LLM agents

Runs finreport as an MCP (Model Context Protocol) server, so LLM
agents like Claude can generate financial reports, summaries and
retrieval digests via stdio.

Tools: generate_report, summarize_document, retrieve_context,
list_artifacts, list_runs.`,
		RunE: runMCP,
		Example: `  # Start MCP server (typically called by Claude Desktop)
  finreport mcp

  # Configure in claude_desktop_config.json:
  # {
  #   "mcpServers": {
  #     "finreport": {
  #       "command": "finreport",
  #       "args": ["mcp"]
  #     }
  #   }
  # }`,
	}

	return cmd
}

// runMCP starts the MCP server
func runMCP(cmd *cobra.Command, args []string) error {
	a, err := newApp(overrides{}, true)
	if err != nil {
		return err
	}
	defer a.close()

	server, handlers := mcp.NewServer(a.svc)

	ctx, stop := signalContext(cmd.Context())
	defer stop()

	log.Info().Str("data_dir", a.cfg.DataDir).Msg("finreport MCP server starting on stdio")

	serverErr := make(chan error, 1)
	go func() {
		serverErr <- mcpserver.ServeStdio(server)
	}()

	select {
	case <-ctx.Done():
		log.Info().Msg("shutdown signal received")
		handlers.Shutdown()
	case err := <-serverErr:
		handlers.Shutdown()
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
	}

	return nil
}
