package console

import (
	"os"

	"github.com/charmbracelet/glamour"
	"golang.org/x/term"
)

// DefaultWidth is the wrap width when the terminal size is unknown.
const DefaultWidth = 80

// Markdown renders assistant answers for the terminal.
type Markdown struct {
	r *glamour.TermRenderer
}

// NewMarkdown creates a renderer wrapping at width. Styled output picks
// a dark or light theme from the terminal; unstyled output uses glamour's
// plain "notty" style.
func NewMarkdown(width int, styled bool) (*Markdown, error) {
	if width <= 0 {
		width = DefaultWidth
	}
	style := glamour.WithStylePath("notty")
	if styled {
		style = glamour.WithAutoStyle()
	}
	r, err := glamour.NewTermRenderer(style, glamour.WithWordWrap(width))
	if err != nil {
		return nil, err
	}
	return &Markdown{r: r}, nil
}

// Render converts markdown to terminal text.
func (m *Markdown) Render(markdown string) (string, error) {
	return m.r.Render(markdown)
}

// Width returns the width of the terminal on f, or DefaultWidth.
func Width(f *os.File) int {
	w, _, err := term.GetSize(int(f.Fd()))
	if err != nil || w <= 0 {
		return DefaultWidth
	}
	return w
}
