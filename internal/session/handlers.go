package session

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/gorewood/tracker/internal/assistant"
	"github.com/gorewood/tracker/internal/llm"
	"github.com/gorewood/tracker/internal/output"
	"github.com/gorewood/tracker/internal/timelog"
)

// BackdateLayout is the timestamp format /t accepts. A "T" separator is
// also accepted.
const BackdateLayout = "2006-01-02 15:04:05"

// parseBackdate reads a /t argument as local time.
func parseBackdate(arg string) (time.Time, error) {
	arg = strings.Replace(strings.TrimSpace(arg), "T", " ", 1)
	if arg == "" {
		return time.Time{}, output.NewUserError("missing date: use /t YYYY-MM-DD HH:MM:SS")
	}
	at, err := time.ParseInLocation(BackdateLayout, arg, time.Local)
	if err != nil {
		return time.Time{}, output.NewUserErrorWithCause(
			fmt.Sprintf("invalid date %q: use YYYY-MM-DD HH:MM:SS", arg), err)
	}
	return at, nil
}

// readLabel prompts for a label. ok is false when the user gave none.
func (s *Session) readLabel(ctx context.Context) (label string, ok bool, err error) {
	line, err := s.reader.ReadLine(ctx, LabelPrompt)
	if err != nil {
		return "", false, err
	}
	label = strings.TrimSpace(line)
	if label == "" {
		s.printer.Error(output.NewUserError("empty label, nothing changed"))
		return "", false, nil
	}
	return label, true, nil
}

// backdate appends a task at an earlier moment. The entry goes to the end
// of the log whatever its timestamp, and the cursor moves to it.
func (s *Session) backdate(ctx context.Context, arg string) error {
	at, err := parseBackdate(arg)
	if err != nil {
		s.printer.Error(err)
		return nil
	}

	label, ok, err := s.readLabel(ctx)
	if err != nil || !ok {
		return err
	}

	entry := s.log.Append(label, at)
	s.cursor = entry.At
	s.printer.Entry(entry.Label, timelog.EncodeTimestamp(entry.At))
	return nil
}

// edit replaces the label at an index. The index is validated before the
// new label is asked for.
func (s *Session) edit(ctx context.Context, arg string) error {
	arg = strings.TrimSpace(arg)
	idx, err := strconv.Atoi(arg)
	if err != nil {
		s.printer.Error(output.NewUserError(fmt.Sprintf("invalid index %q: use /e <index>", arg)))
		return nil
	}
	old, err := s.log.At(idx)
	if err != nil {
		s.printer.Error(output.NewUserErrorWithCause(
			fmt.Sprintf("index %d out of range (0-%d)", idx, s.log.Len()-1), err))
		return nil
	}

	s.printer.Notice("%d: %s", idx, old.Label)
	label, ok, err := s.readLabel(ctx)
	if err != nil || !ok {
		return err
	}

	if err := s.log.Relabel(idx, label); err != nil {
		s.printer.Error(err)
		return nil
	}
	s.printer.Println(fmt.Sprintf("%d: %s", idx, label))
	return nil
}

// choose makes the first profile with prefix active. No match is a
// silent no-op.
func (s *Session) choose(prefix string) {
	prefix = strings.TrimSpace(prefix)
	for i, p := range s.profiles {
		if p.Prefix == prefix {
			s.active = i
			s.printer.Notice("assistente: %s", p.Name)
			return
		}
	}
	s.logger.Debug("choose: no profile", "prefix", prefix)
}

// askMatching fires every profile whose prefix is word. Unknown words are
// ignored.
func (s *Session) askMatching(ctx context.Context, word, message string) error {
	matched, err := s.AskPrefix(ctx, word, message)
	if !matched {
		s.logger.Debug("unknown command", "word", word)
	}
	return err
}

// window returns the entries sent to an assistant.
func (s *Session) window() []timelog.Entry {
	tail := s.log.Tail(s.contextSize)
	entries := make([]timelog.Entry, len(tail))
	for i, t := range tail {
		entries[i] = t.Entry
	}
	return entries
}

func (s *Session) ask(ctx context.Context, profile assistant.Profile, message string) error {
	message = strings.TrimSpace(message)
	if message == "" {
		message = profile.Message(s.now())
	}

	if err := s.client.Ready(profile); err != nil {
		s.printer.Error(err)
		return nil
	}

	s.printer.Notice("%s ...", profile.Name)
	answer, err := s.client.Ask(ctx, llm.Request{
		Profile: profile,
		Window:  s.window(),
		Message: message,
	})
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		s.printer.Error(err)
		return nil
	}

	rendered, err := s.renderer.Render(answer)
	if err != nil {
		s.logger.Debug("render failed", "error", err)
		rendered = answer
	}
	if !strings.HasSuffix(rendered, "\n") {
		rendered += "\n"
	}
	s.printer.Print("%s", rendered)
	return nil
}

// listAssistants prints the profiles with the active one marked.
func (s *Session) listAssistants() {
	rows := make([][]string, 0, len(s.profiles))
	for i, p := range s.profiles {
		mark := ""
		if i == s.active {
			mark = "*"
		}
		provider, err := llm.ResolveProvider(p)
		if err != nil {
			provider = llm.Provider(p.Provider)
		}
		rows = append(rows, []string{mark, p.Name, "/" + p.Prefix, string(provider)})
	}
	s.printer.Table([]string{"", "Name", "Prefix", "Provider"}, rows)
}

// listEntries prints the context window, most recent last. Labels are
// title-cased for display only.
func (s *Session) listEntries() {
	layout := timelog.SummaryLayout(s.log)
	caser := cases.Title(language.Und)

	tail := s.log.Tail(s.contextSize)
	rows := make([][]string, 0, len(tail))
	for _, t := range tail {
		elapsed := ""
		if prev, err := s.log.At(t.Index - 1); err == nil {
			elapsed = timelog.FormatElapsed(t.Entry.At.Sub(prev.At))
		}
		rows = append(rows, []string{
			strconv.Itoa(t.Index),
			caser.String(t.Entry.Label),
			t.Entry.At.Format(layout),
			elapsed,
		})
	}
	s.printer.Table([]string{"#", "Task", "At", "Elapsed"}, rows)
}

// PrintSummary prints every entry with the time spent on it.
func (s *Session) PrintSummary() {
	layout := timelog.SummaryLayout(s.log)
	s.printer.Notice("tarefas executadas:")
	for _, line := range timelog.Summarize(s.log) {
		if line.First() {
			s.printer.Println(fmt.Sprintf("%d: %s %s", line.Position, line.Label, line.At.Format(layout)))
			continue
		}
		s.printer.Println(fmt.Sprintf("%d: %s %s (%s até %s)",
			line.Position, line.Label, timelog.FormatElapsed(line.Elapsed),
			line.Previous.Format(layout), line.At.Format(layout)))
	}
}
