package mcp

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/gorewood/tracker/internal/export"
	"github.com/gorewood/tracker/internal/timelog"
)

// defaultLast is how many entries the entries tool returns by default.
const defaultLast = 30

// EntryOut is one journal entry.
type EntryOut struct {
	Index   int    `json:"index"             jsonschema:"position in the journal, used by rename"`
	Label   string `json:"label"             jsonschema:"task label"`
	At      string `json:"at"                jsonschema:"timestamp (YYYY-MM-DDTHH:MM:SS, local time)"`
	Elapsed string `json:"elapsed,omitempty" jsonschema:"time since the previous entry (HHh MMm SSs)"`
}

func toEntryOut(log *timelog.Log, i int) EntryOut {
	entry, _ := log.At(i)
	out := EntryOut{Index: i, Label: entry.Label, At: timelog.EncodeTimestamp(entry.At)}
	if prev, err := log.At(i - 1); err == nil {
		out.Elapsed = timelog.FormatElapsed(entry.At.Sub(prev.At))
	}
	return out
}

// --- Entries tool ---

// EntriesInput is the input for the entries tool.
type EntriesInput struct {
	Last int `json:"last,omitempty" jsonschema:"number of trailing entries to return (default 30)"`
}

// EntriesOutput is the output for the entries tool.
type EntriesOutput struct {
	File    string     `json:"file"    jsonschema:"journal file path"`
	Count   int        `json:"count"   jsonschema:"total number of entries in the journal"`
	Entries []EntryOut `json:"entries" jsonschema:"trailing entries, oldest first"`
}

func (t *tools) handleEntries(_ context.Context, _ *mcp.CallToolRequest, input EntriesInput) (*mcp.CallToolResult, EntriesOutput, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	log, err := t.store.Load()
	if err != nil {
		return nil, EntriesOutput{}, err
	}

	last := input.Last
	if last <= 0 {
		last = defaultLast
	}

	out := EntriesOutput{File: t.store.Path(), Count: log.Len(), Entries: []EntryOut{}}
	for _, ix := range log.Tail(last) {
		out.Entries = append(out.Entries, toEntryOut(log, ix.Index))
	}
	return nil, out, nil
}

// --- Report tool ---

// ReportInput is the input for the report tool (no parameters needed).
type ReportInput struct{}

// ReportOutput is the output for the report tool.
type ReportOutput struct {
	Report export.Report `json:"report" jsonschema:"tasks with durations and totals per label"`
}

func (t *tools) handleReport(_ context.Context, _ *mcp.CallToolRequest, _ ReportInput) (*mcp.CallToolResult, ReportOutput, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	log, err := t.store.Load()
	if err != nil {
		return nil, ReportOutput{}, err
	}
	return nil, ReportOutput{Report: export.Build(log, t.store.Path())}, nil
}

// --- Track tool ---

// TrackInput is the input for the track tool.
type TrackInput struct {
	Label string `json:"label"        jsonschema:"task label (required)"`
	At    string `json:"at,omitempty" jsonschema:"earlier moment as YYYY-MM-DD HH:MM:SS (default now)"`
}

// TrackOutput is the output for the track tool.
type TrackOutput struct {
	Entry   EntryOut `json:"entry"             jsonschema:"the logged entry"`
	Started bool     `json:"started,omitempty" jsonschema:"true when the journal was empty and a start entry was added first"`
}

func (t *tools) handleTrack(_ context.Context, _ *mcp.CallToolRequest, input TrackInput) (*mcp.CallToolResult, TrackOutput, error) {
	label := strings.TrimSpace(input.Label)
	if label == "" {
		return nil, TrackOutput{}, errors.New("label is required")
	}

	at := t.now()
	if input.At != "" {
		parsed, err := timelog.DecodeTimestamp(input.At)
		if err != nil {
			return nil, TrackOutput{}, fmt.Errorf("invalid at: %w", err)
		}
		at = parsed
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	log, err := t.store.Load()
	if err != nil {
		return nil, TrackOutput{}, err
	}
	started := log.Seed(t.now())
	log.Append(label, at)
	if err := t.store.Save(log); err != nil {
		return nil, TrackOutput{}, err
	}

	t.logger.Debug("mcp track", "label", label, "entries", log.Len())
	return nil, TrackOutput{Entry: toEntryOut(log, log.Len()-1), Started: started}, nil
}

// --- Rename tool ---

// RenameInput is the input for the rename tool.
type RenameInput struct {
	Index int    `json:"index" jsonschema:"entry index as returned by entries"`
	Label string `json:"label" jsonschema:"new label (required)"`
}

// RenameOutput is the output for the rename tool.
type RenameOutput struct {
	Previous string   `json:"previous" jsonschema:"label before the change"`
	Entry    EntryOut `json:"entry"    jsonschema:"the entry after the change"`
}

func (t *tools) handleRename(_ context.Context, _ *mcp.CallToolRequest, input RenameInput) (*mcp.CallToolResult, RenameOutput, error) {
	label := strings.TrimSpace(input.Label)
	if label == "" {
		return nil, RenameOutput{}, errors.New("label is required")
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	log, err := t.store.Load()
	if err != nil {
		return nil, RenameOutput{}, err
	}
	old, err := log.At(input.Index)
	if err != nil {
		return nil, RenameOutput{}, err
	}
	if err := log.Relabel(input.Index, label); err != nil {
		return nil, RenameOutput{}, err
	}
	if err := t.store.Save(log); err != nil {
		return nil, RenameOutput{}, err
	}

	t.logger.Debug("mcp rename", "index", input.Index)
	return nil, RenameOutput{Previous: old.Label, Entry: toEntryOut(log, input.Index)}, nil
}
