package session

import (
	"bytes"
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/gorewood/tracker/internal/assistant"
	"github.com/gorewood/tracker/internal/llm"
	"github.com/gorewood/tracker/internal/output"
	"github.com/gorewood/tracker/internal/timelog"
)

// scriptReader returns scripted lines, then end (io.EOF when nil).
type scriptReader struct {
	lines   []string
	end     error
	prompts []string
}

func (r *scriptReader) ReadLine(_ context.Context, prompt string) (string, error) {
	r.prompts = append(r.prompts, prompt)
	if len(r.lines) == 0 {
		if r.end != nil {
			return "", r.end
		}
		return "", io.EOF
	}
	line := r.lines[0]
	r.lines = r.lines[1:]
	return line, nil
}

// fakeClock returns the given times in order, then keeps returning the
// last one.
type fakeClock struct {
	times []time.Time
}

func clockAt(start time.Time, offsets ...time.Duration) *fakeClock {
	c := &fakeClock{}
	for _, off := range offsets {
		c.times = append(c.times, start.Add(off))
	}
	return c
}

func (c *fakeClock) Now() time.Time {
	t := c.times[0]
	if len(c.times) > 1 {
		c.times = c.times[1:]
	}
	return t
}

// memStore records saves as encoded bytes.
type memStore struct {
	saves [][]byte
	err   error
}

func (m *memStore) Save(log *timelog.Log) error {
	if m.err != nil {
		return m.err
	}
	data, err := timelog.Encode(log)
	if err != nil {
		return err
	}
	m.saves = append(m.saves, data)
	return nil
}

// recordingAssistant records requests and answers with a fixed reply.
type recordingAssistant struct {
	requests []llm.Request
	answer   string
	err      error
	readyErr error
}

func (a *recordingAssistant) Ready(assistant.Profile) error {
	return a.readyErr
}

func (a *recordingAssistant) Ask(_ context.Context, req llm.Request) (string, error) {
	a.requests = append(a.requests, req)
	return a.answer, a.err
}

type harness struct {
	session *Session
	reader  *scriptReader
	store   *memStore
	client  *recordingAssistant
	out     *bytes.Buffer
	errOut  *bytes.Buffer
}

type harnessOptions struct {
	log         *timelog.Log
	lines       []string
	end         error
	clock       *fakeClock
	profiles    []assistant.Profile
	contextSize int
}

var t0 = time.Date(2024, 1, 1, 10, 0, 0, 0, time.Local)

func newHarness(t *testing.T, opts harnessOptions) *harness {
	t.Helper()
	if opts.clock == nil {
		opts.clock = clockAt(t0, 0)
	}

	h := &harness{
		reader: &scriptReader{lines: opts.lines, end: opts.end},
		store:  &memStore{},
		client: &recordingAssistant{answer: "**ok**"},
		out:    &bytes.Buffer{},
		errOut: &bytes.Buffer{},
	}
	printer := output.NewPrinter(h.out, false, false).WithStderr(h.errOut)

	h.session = New(Options{
		Log:         opts.log,
		Store:       h.store,
		Registry:    assistant.NewRegistry(assistant.Settings{DeepSeekKey: "k"}, opts.profiles...),
		Client:      h.client,
		Reader:      h.reader,
		Printer:     printer,
		Now:         opts.clock.Now,
		ContextSize: opts.contextSize,
	})
	return h
}

// started returns a harness whose session has already run Start.
func started(t *testing.T, opts harnessOptions) *harness {
	t.Helper()
	h := newHarness(t, opts)
	h.session.Start()
	h.out.Reset()
	return h
}

func (h *harness) handle(t *testing.T, line string) {
	t.Helper()
	if err := h.session.Handle(context.Background(), line); err != nil {
		t.Fatalf("Handle(%q) error = %v", line, err)
	}
}

func mustEncode(t *testing.T, log *timelog.Log) []byte {
	t.Helper()
	data, err := timelog.Encode(log)
	if err != nil {
		t.Fatal(err)
	}
	return data
}

func labels(log *timelog.Log) []string {
	var out []string
	for _, e := range log.Entries() {
		out = append(out, e.Label)
	}
	return out
}

var errDisk = errors.New("disk full")
