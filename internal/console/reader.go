package console

import (
	"bufio"
	"context"
	"errors"
	"io"
	"os"
	"strings"
	"sync"

	"golang.org/x/term"
)

// ErrInterrupted is returned when the user presses Ctrl+C at the prompt.
var ErrInterrupted = errors.New("interrupted")

// Reader reads one line of input after showing a prompt.
type Reader interface {
	ReadLine(ctx context.Context, prompt string) (string, error)
}

// Open returns a line editor when in is a terminal and a plain reader
// otherwise.
func Open(in *os.File, out io.Writer, history *History) Reader {
	if term.IsTerminal(int(in.Fd())) {
		return NewEditor(in, out, history)
	}
	return NewPlain(in, out)
}

type result struct {
	line string
	err  error
}

// readAsync runs read in a goroutine so the caller can give up when ctx
// is done. The abandoned goroutine stays blocked on input; callers only
// abandon a read on their way out.
func readAsync(ctx context.Context, read func() (string, error)) (string, error) {
	ch := make(chan result, 1)
	go func() {
		line, err := read()
		ch <- result{line, err}
	}()

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case r := <-ch:
		return r.line, r.err
	}
}

// Plain reads newline-terminated lines, for piped or redirected input.
type Plain struct {
	out io.Writer

	once  sync.Once
	in    *bufio.Scanner
	lines chan result
}

// NewPlain creates a Plain reader over in, writing prompts to out.
func NewPlain(in io.Reader, out io.Writer) *Plain {
	return &Plain{out: out, in: bufio.NewScanner(in), lines: make(chan result)}
}

// pump feeds lines to the channel until input ends.
func (p *Plain) pump() {
	for p.in.Scan() {
		p.lines <- result{line: p.in.Text()}
	}
	err := p.in.Err()
	if err == nil {
		err = io.EOF
	}
	p.lines <- result{err: err}
	close(p.lines)
}

// ReadLine writes the prompt and returns the next line without its
// newline. It returns io.EOF when input ends.
func (p *Plain) ReadLine(ctx context.Context, prompt string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	p.once.Do(func() { go p.pump() })

	if prompt != "" {
		_, _ = io.WriteString(p.out, prompt)
	}

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case r, ok := <-p.lines:
		if !ok {
			return "", io.EOF
		}
		return strings.TrimRight(r.line, "\r"), r.err
	}
}
