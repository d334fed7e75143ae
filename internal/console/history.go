package console

import (
	"bufio"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
)

// History is the list of previously entered lines. When backed by a file,
// every added line is appended to it.
type History struct {
	mu    sync.Mutex
	path  string
	lines []string
}

// NewHistory returns an in-memory history.
func NewHistory() *History {
	return &History{}
}

// LoadHistory reads the history file at path. A missing file starts an
// empty history that will be created on the first Add.
func LoadHistory(path string) (*History, error) {
	h := &History{path: path}

	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return h, nil
		}
		return nil, fmt.Errorf("opening history %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		if line := scanner.Text(); line != "" {
			h.lines = append(h.lines, line)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading history %s: %w", path, err)
	}
	return h, nil
}

// Lines returns the history, oldest first.
func (h *History) Lines() []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([]string, len(h.lines))
	copy(out, h.lines)
	return out
}

// Add records a line. Empty lines and immediate repeats are skipped.
func (h *History) Add(line string) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if line == "" || (len(h.lines) > 0 && h.lines[len(h.lines)-1] == line) {
		return nil
	}
	h.lines = append(h.lines, line)

	if h.path == "" {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(h.path), 0o755); err != nil {
		return fmt.Errorf("creating history directory: %w", err)
	}
	f, err := os.OpenFile(h.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o600)
	if err != nil {
		return fmt.Errorf("opening history %s: %w", h.path, err)
	}
	if _, err := f.WriteString(line + "\n"); err != nil {
		_ = f.Close()
		return fmt.Errorf("writing history %s: %w", h.path, err)
	}
	return f.Close()
}
