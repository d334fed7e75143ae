// Package session runs the interactive journal: it reads lines, logs
// tasks with the time spent since the previous entry, dispatches slash
// commands, and saves the log on the way out.
package session

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"time"

	"github.com/gorewood/tracker/internal/assistant"
	"github.com/gorewood/tracker/internal/command"
	"github.com/gorewood/tracker/internal/console"
	"github.com/gorewood/tracker/internal/llm"
	"github.com/gorewood/tracker/internal/logging"
	"github.com/gorewood/tracker/internal/output"
	"github.com/gorewood/tracker/internal/timelog"
)

// Prompts.
const (
	Prompt      = ">> "
	LabelPrompt = "label: "
)

// StartLayout formats the start notice.
const StartLayout = "2006-01-02 15:04:05"

// ErrInterrupted is in the chain of the error Run returns after an
// interrupt. The log has been saved (or the save error is joined too).
var ErrInterrupted = errors.New("session interrupted")

// LineReader reads one line of input after a prompt.
type LineReader interface {
	ReadLine(ctx context.Context, prompt string) (string, error)
}

// Saver persists the log.
type Saver interface {
	Save(log *timelog.Log) error
}

// Assistant answers questions about the log.
type Assistant interface {
	// Ready reports, without any network call, whether p can be asked.
	Ready(p assistant.Profile) error
	Ask(ctx context.Context, req llm.Request) (string, error)
}

// Renderer turns an assistant's markdown answer into terminal text.
type Renderer interface {
	Render(markdown string) (string, error)
}

// Options configures a Session. Reader, Store and Printer are required.
type Options struct {
	Log      *timelog.Log        // nil starts empty
	Store    Saver               // where the log is saved
	Registry *assistant.Registry // nil uses only the built-in default profile
	Client   Assistant           // nil uses an llm.Client with the registry key
	Reader   LineReader
	Printer  *output.Printer
	Renderer Renderer     // nil prints answers as-is
	Logger   *slog.Logger // nil discards
	Now      func() time.Time

	// ContextSize overrides the registry's context window when positive.
	ContextSize int
}

// Session owns the log, the cursor and the active assistant for one run.
type Session struct {
	log      *timelog.Log
	store    Saver
	registry *assistant.Registry
	profiles []assistant.Profile
	client   Assistant
	reader   LineReader
	printer  *output.Printer
	renderer Renderer
	logger   *slog.Logger
	now      func() time.Time

	contextSize int
	active      int // index into profiles
	cursor      time.Time
}

// New creates a Session.
func New(opts Options) *Session {
	s := &Session{
		log:      opts.Log,
		store:    opts.Store,
		registry: opts.Registry,
		client:   opts.Client,
		reader:   opts.Reader,
		printer:  opts.Printer,
		renderer: opts.Renderer,
		logger:   logging.OrDiscard(opts.Logger),
		now:      opts.Now,
	}
	if s.log == nil {
		s.log = timelog.NewLog()
	}
	if s.registry == nil {
		s.registry = assistant.NewRegistry(assistant.Settings{})
	}
	if s.client == nil {
		s.client = llm.New(llm.Config{
			DeepSeekKey: s.registry.Settings().DeepSeekKey,
			Logger:      opts.Logger,
		})
	}
	if s.renderer == nil {
		s.renderer = plainRenderer{}
	}
	if s.now == nil {
		s.now = time.Now
	}

	s.contextSize = s.registry.Settings().ContextSize
	if opts.ContextSize > 0 {
		s.contextSize = opts.ContextSize
	}

	s.profiles = s.registry.Profiles()
	for i, p := range s.profiles {
		if p.IsDefault() {
			s.active = i
			break
		}
	}
	return s
}

// Log returns the session's log.
func (s *Session) Log() *timelog.Log {
	return s.log
}

// Cursor returns the timestamp the next task's elapsed time is measured
// from.
func (s *Session) Cursor() time.Time {
	return s.cursor
}

// Active returns the profile used by /d.
func (s *Session) Active() assistant.Profile {
	return s.profiles[s.active]
}

// Start seeds an empty log with the start marker and sets the cursor to
// the last entry. A non-empty log is resumed as is.
func (s *Session) Start() {
	if s.log.Seed(s.now()) {
		first, _ := s.log.Last()
		s.printer.Notice("Inicio da contagem %s", first.At.Format(StartLayout))
	} else {
		last, _ := s.log.Last()
		s.printer.Notice("Retomando %d entradas, ultima: %s em %s",
			s.log.Len(), last.Label, last.At.Format(StartLayout))
	}
	last, _ := s.log.Last()
	s.cursor = last.At
}

// Run starts the session and processes lines until input ends or an
// interrupt arrives. Either way the log is saved once and the summary is
// printed. End of input returns nil (or the save error); an interrupt
// returns an error carrying ErrInterrupted and exit code 130.
func (s *Session) Run(ctx context.Context) error {
	s.Start()

	for {
		line, err := s.reader.ReadLine(ctx, Prompt)
		if err == nil {
			err = s.Handle(ctx, line)
		}
		if err == nil && ctx.Err() != nil {
			err = ctx.Err()
		}
		if err != nil {
			return s.finish(ctx, err)
		}
	}
}

// finish saves the log and maps the reason the loop stopped to Run's
// result.
func (s *Session) finish(ctx context.Context, reason error) error {
	interrupted := isInterrupt(ctx, reason)
	if interrupted {
		s.printer.Notice("saindo ...")
	}

	saveErr := s.Save()
	s.PrintSummary()

	switch {
	case interrupted:
		exitErr := output.NewInterruptedError(saveErr)
		exitErr.Cause = errors.Join(ErrInterrupted, saveErr)
		return exitErr
	case errors.Is(reason, io.EOF):
		return saveErr
	default:
		return errors.Join(output.NewSystemErrorWithCause("reading input failed", reason), saveErr)
	}
}

func isInterrupt(ctx context.Context, err error) bool {
	return errors.Is(err, console.ErrInterrupted) ||
		errors.Is(err, context.Canceled) ||
		ctx.Err() != nil
}

// Save writes the log through the store.
func (s *Session) Save() error {
	err := s.store.Save(s.log)
	s.logger.Debug("save", "entries", s.log.Len(), "error", err)
	return err
}

// Handle processes one input line. Recoverable problems are printed and
// the returned error is nil; a non-nil error means a nested read failed
// (interrupt or end of input) and the session should stop.
func (s *Session) Handle(ctx context.Context, line string) error {
	cmd := command.Parse(line)
	s.logger.Debug("line", "kind", cmd.Kind, "word", cmd.Word)

	switch cmd.Kind {
	case command.Empty:
		return nil
	case command.Task:
		s.track(cmd.Arg)
		return nil
	case command.Backdate:
		return s.backdate(ctx, cmd.Arg)
	case command.Edit:
		return s.edit(ctx, cmd.Arg)
	case command.Ask:
		return s.ask(ctx, s.Active(), cmd.Arg)
	case command.Choose:
		s.choose(cmd.Arg)
		return nil
	case command.Assistants:
		s.listAssistants()
		return nil
	case command.List:
		s.listEntries()
		return nil
	case command.Summary:
		return nil
	case command.Write:
		if err := s.Save(); err != nil {
			s.printer.Error(err)
			return nil
		}
		s.printer.Notice("salvo")
		return nil
	case command.Profile:
		return s.askMatching(ctx, cmd.Word, cmd.Arg)
	default:
		return nil
	}
}

// track logs a task now and reports the time since the cursor.
func (s *Session) track(label string) {
	entry := s.log.Append(label, s.now())
	elapsed := entry.At.Sub(s.cursor)
	s.cursor = entry.At
	s.printer.Entry(entry.Label, timelog.FormatElapsed(elapsed))
}

// Ask sends message to profile with the current context window and prints
// the answer. An empty message uses the profile's default message. Only
// a cancelled context is returned as an error; every other failure is
// printed.
func (s *Session) Ask(ctx context.Context, profile assistant.Profile, message string) error {
	return s.ask(ctx, profile, message)
}

// AskPrefix asks every profile with the given prefix, in registry order.
// It reports whether any profile matched.
func (s *Session) AskPrefix(ctx context.Context, prefix, message string) (bool, error) {
	matches := s.registry.Matching(prefix)
	for _, p := range matches {
		if err := s.ask(ctx, p, message); err != nil {
			return true, err
		}
	}
	return len(matches) > 0, nil
}

type plainRenderer struct{}

func (plainRenderer) Render(markdown string) (string, error) {
	return markdown, nil
}
