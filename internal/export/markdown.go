package export

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/gorewood/tracker/internal/output"
	"github.com/gorewood/tracker/internal/timelog"
)

// FormatMarkdown renders the report as a markdown document.
func FormatMarkdown(r Report) string {
	var builder strings.Builder

	writeFrontmatter(&builder, r)
	writeTasks(&builder, r)
	writeTotals(&builder, r)

	return builder.String()
}

// writeFrontmatter writes the YAML frontmatter section.
func writeFrontmatter(builder *strings.Builder, r Report) {
	builder.WriteString("---\n")
	fmt.Fprintf(builder, "schema: %s\n", r.Schema)
	if r.File != "" {
		fmt.Fprintf(builder, "file: %s\n", r.File)
	}
	if !r.Start.IsZero() {
		fmt.Fprintf(builder, "date: %s\n", r.Start.Format("2006-01-02"))
	}
	fmt.Fprintf(builder, "entries: %d\n", r.Entries)
	fmt.Fprintf(builder, "total: %s\n", r.Elapsed)
	builder.WriteString("---\n\n")
}

// writeTasks writes the title and the task table.
func writeTasks(builder *strings.Builder, r Report) {
	if r.Start.IsZero() {
		builder.WriteString("# Empty log\n")
		return
	}
	fmt.Fprintf(builder, "# %s\n\n", r.Start.Format("02/01/2006"))

	if len(r.Tasks) == 0 {
		builder.WriteString("No tasks logged.\n")
		return
	}

	layout := timelog.ClockLayout
	if !sameDay(r) {
		layout = timelog.DayClockLayout
	}

	builder.WriteString("| # | Task | From | To | Elapsed |\n")
	builder.WriteString("|---|------|------|----|---------|\n")
	for _, t := range r.Tasks {
		fmt.Fprintf(builder, "| %d | %s | %s | %s | %s |\n",
			t.Index, escapeCell(t.Label), t.From.Format(layout), t.To.Format(layout), t.Elapsed)
	}
}

// writeTotals writes time per label, longest first.
func writeTotals(builder *strings.Builder, r Report) {
	if len(r.Totals) == 0 {
		return
	}
	builder.WriteString("\n## Totals\n\n")
	for _, t := range r.Totals {
		fmt.Fprintf(builder, "- %s: %s\n", t.Label, t.Elapsed)
	}
}

func sameDay(r Report) bool {
	sy, sm, sd := r.Start.Date()
	ey, em, ed := r.End.Date()
	return sy == ey && sm == em && sd == ed
}

// escapeCell keeps a label from breaking the table row.
func escapeCell(s string) string {
	return strings.ReplaceAll(s, "|", `\|`)
}

// WriteFile writes content to path. An existing file is a conflict unless
// force is set.
func WriteFile(path string, content []byte, force bool) error {
	if !force {
		if _, err := os.Stat(path); err == nil {
			return output.NewConflictError(fmt.Sprintf("%s already exists (use --force to overwrite)", path))
		} else if !errors.Is(err, fs.ErrNotExist) {
			return output.NewSystemErrorWithCause("failed to check "+path, err)
		}
	}
	if err := os.WriteFile(path, content, 0o600); err != nil {
		return output.NewSystemError(fmt.Sprintf("failed to write file %s: %v", path, err))
	}
	return nil
}
