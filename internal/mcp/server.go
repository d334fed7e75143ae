// Package mcp provides a Model Context Protocol server for tracker.
// It exposes one log file as MCP tools so an agent can read the journal,
// log tasks and rename entries.
package mcp

import (
	"log/slog"
	"sync"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/gorewood/tracker/internal/logging"
	"github.com/gorewood/tracker/internal/timelog"
)

// tools holds what every handler needs. Each call loads the file, applies
// its change and saves, so the file stays the only state.
type tools struct {
	mu     sync.Mutex
	store  *timelog.Store
	now    func() time.Time
	logger *slog.Logger
}

// NewServer creates an MCP server with all tracker tools registered.
func NewServer(version string, store *timelog.Store, logger *slog.Logger) *mcp.Server {
	server := mcp.NewServer(&mcp.Implementation{
		Name:    "tracker",
		Version: version,
	}, nil)
	registerTools(server, newTools(store, logger))
	return server
}

func newTools(store *timelog.Store, logger *slog.Logger) *tools {
	return &tools{store: store, now: time.Now, logger: logging.OrDiscard(logger)}
}

// boolPtr returns a pointer to a bool value.
func boolPtr(b bool) *bool {
	return &b
}

// readOnlyAnnotations returns annotations for read-only tools.
func readOnlyAnnotations() *mcp.ToolAnnotations {
	return &mcp.ToolAnnotations{
		ReadOnlyHint:   true,
		IdempotentHint: true,
		OpenWorldHint:  boolPtr(false),
	}
}

// writeAnnotations returns annotations for write tools (additive, not destructive).
func writeAnnotations() *mcp.ToolAnnotations {
	return &mcp.ToolAnnotations{
		DestructiveHint: boolPtr(false),
		OpenWorldHint:   boolPtr(false),
	}
}

// registerTools adds all tracker tools to the server.
func registerTools(server *mcp.Server, t *tools) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "entries",
		Description: "List the most recent journal entries with their index, label, timestamp and the time since the previous entry.",
		Annotations: readOnlyAnnotations(),
	}, t.handleEntries)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "report",
		Description: "Summarize the journal: every task with its duration, and total time per label.",
		Annotations: readOnlyAnnotations(),
	}, t.handleReport)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "track",
		Description: "Log a task now, or at an earlier moment given as YYYY-MM-DD HH:MM:SS. The entry is appended at the end of the journal and saved.",
		Annotations: writeAnnotations(),
	}, t.handleTrack)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "rename",
		Description: "Replace the label of the entry at an index. The timestamp is kept.",
		Annotations: &mcp.ToolAnnotations{
			DestructiveHint: boolPtr(true),
			IdempotentHint:  true,
			OpenWorldHint:   boolPtr(false),
		},
	}, t.handleRename)
}
