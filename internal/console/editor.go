package console

import (
	"bufio"
	"context"
	"io"
	"os"
	"strings"
	"sync"
	"unicode"

	"golang.org/x/term"
)

// Editor is a minimal line editor for terminals. Each ReadLine puts the
// terminal in raw mode and restores it before returning.
type Editor struct {
	in      *bufio.Reader
	out     io.Writer
	fd      int
	raw     bool
	history *History

	// Recall state for one ReadLine.
	historyIndex   int
	historyScratch string
}

// NewEditor creates an editor reading keys from in. Raw mode is used only
// when in is a terminal. A nil history disables recall and recording.
func NewEditor(in *os.File, out io.Writer, history *History) *Editor {
	fd := int(in.Fd())
	e := newEditor(in, out, history)
	e.fd = fd
	e.raw = term.IsTerminal(fd)
	return e
}

func newEditor(in io.Reader, out io.Writer, history *History) *Editor {
	if history == nil {
		history = NewHistory()
	}
	return &Editor{in: bufio.NewReader(in), out: out, fd: -1, history: history}
}

// ReadLine shows the prompt and edits one line. Enter accepts the line,
// Ctrl+C returns ErrInterrupted, and Ctrl+D on an empty line returns
// io.EOF. Accepted non-empty lines are added to the history.
func (e *Editor) ReadLine(ctx context.Context, prompt string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	restore := e.enterRaw()
	defer restore()

	line, err := readAsync(ctx, func() (string, error) { return e.edit(prompt) })
	if err != nil {
		return "", err
	}

	if trimmed := strings.TrimSpace(line); trimmed != "" {
		// History is a convenience; a failed append must not lose the line.
		_ = e.history.Add(trimmed)
	}
	return line, nil
}

// enterRaw switches the terminal to raw mode and returns a restore
// function that is safe to call more than once.
func (e *Editor) enterRaw() func() {
	if !e.raw {
		return func() {}
	}
	state, err := term.MakeRaw(e.fd)
	if err != nil {
		return func() {}
	}
	var once sync.Once
	return func() {
		once.Do(func() { _ = term.Restore(e.fd, state) })
	}
}

// edit runs the key loop for one line.
func (e *Editor) edit(prompt string) (string, error) {
	buf := make([]rune, 0, 64)
	e.historyIndex = -1
	e.historyScratch = ""
	e.redraw(prompt, buf)

	for {
		r, _, err := e.in.ReadRune()
		if err != nil {
			if err == io.EOF && len(buf) > 0 {
				e.print("\r\n")
				return string(buf), nil
			}
			return "", err
		}

		switch r {
		case '\r', '\n':
			e.print("\r\n")
			return string(buf), nil
		case 0x03: // Ctrl+C
			e.print("^C\r\n")
			return "", ErrInterrupted
		case 0x04: // Ctrl+D
			if len(buf) == 0 {
				e.print("\r\n")
				return "", io.EOF
			}
		case 0x7f, 0x08: // Backspace
			if len(buf) > 0 {
				buf = buf[:len(buf)-1]
				e.redraw(prompt, buf)
			}
		case 0x15: // Ctrl+U
			buf = buf[:0]
			e.redraw(prompt, buf)
		case 0x1b:
			if next, ok := e.escape(buf); ok {
				buf = next
				e.redraw(prompt, buf)
			}
		default:
			if unicode.IsPrint(r) {
				buf = append(buf, r)
				e.redraw(prompt, buf)
			}
		}
	}
}

// escape consumes an ANSI escape sequence. Up and down arrows walk the
// history and return the replacement buffer; everything else is dropped.
func (e *Editor) escape(buf []rune) ([]rune, bool) {
	if b, err := e.in.ReadByte(); err != nil || b != '[' {
		return nil, false
	}
	final, err := e.in.ReadByte()
	if err != nil {
		return nil, false
	}
	// Sequences like ESC [ 3 ~ carry parameters before the final byte.
	for final >= '0' && final <= '9' || final == ';' {
		if final, err = e.in.ReadByte(); err != nil {
			return nil, false
		}
	}

	lines := e.history.Lines()
	switch final {
	case 'A':
		if len(lines) == 0 {
			return nil, false
		}
		if e.historyIndex == -1 {
			e.historyScratch = string(buf)
			e.historyIndex = len(lines) - 1
		} else if e.historyIndex > 0 {
			e.historyIndex--
		}
		return []rune(lines[e.historyIndex]), true
	case 'B':
		if e.historyIndex == -1 {
			return nil, false
		}
		if e.historyIndex < len(lines)-1 {
			e.historyIndex++
			return []rune(lines[e.historyIndex]), true
		}
		e.historyIndex = -1
		scratch := e.historyScratch
		e.historyScratch = ""
		return []rune(scratch), true
	}
	return nil, false
}

// redraw clears the current line and paints prompt and buffer.
func (e *Editor) redraw(prompt string, buf []rune) {
	e.print("\r\x1b[K" + prompt + string(buf))
}

func (e *Editor) print(s string) {
	_, _ = io.WriteString(e.out, s)
}
