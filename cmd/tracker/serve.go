package main

import (
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/spf13/cobra"

	trackermcp "github.com/gorewood/tracker/internal/mcp"
	"github.com/gorewood/tracker/internal/timelog"
)

// newServeCmd creates the serve command for running as an MCP server.
func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run as MCP server (stdio transport)",
		Long: `Run tracker as a Model Context Protocol (MCP) server over stdio.

This exposes the journal as MCP tools so an agent can read it, log tasks
and rename entries. The journal file is read and written on every call.

Configure in your agent's MCP settings:
  {
    "mcpServers": {
      "tracker": {
        "command": "tracker",
        "args": ["serve", "-f", "/path/to/journal.json"]
      }
    }
  }

Available tools: entries, report, track, rename`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			logger := newLogger(cmd)
			store := timelog.NewStore(logPath(cmd))
			logger.Debug("serving journal", "path", store.Path())
			server := trackermcp.NewServer(buildVersion(), store, logger)
			return server.Run(cmd.Context(), &mcp.StdioTransport{})
		},
	}
}
