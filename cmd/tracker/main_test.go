package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gorewood/tracker/internal/output"
	"github.com/gorewood/tracker/internal/timelog"
)

// isolate points the config directory at a temp dir and clears credentials.
func isolate(t *testing.T) {
	t.Helper()
	t.Setenv("TRACKER_CONFIG_HOME", t.TempDir())
	t.Setenv("DEEPSEEK_API_KEY", "")
}

// writeJournal saves entries to a fresh file and returns its path.
func writeJournal(t *testing.T, entries ...timelog.Entry) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "journal.json")
	if err := timelog.Save(path, timelog.NewLog(entries...)); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	return path
}

func execute(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)
	err := cmd.Execute()
	return buf.String(), err
}

var base = time.Date(2024, 3, 7, 9, 0, 0, 0, time.Local)

func sampleEntries() []timelog.Entry {
	return []timelog.Entry{
		timelog.NewEntry(timelog.StartLabel, base),
		timelog.NewEntry("code", base.Add(90*time.Minute)),
		timelog.NewEntry("lunch", base.Add(150*time.Minute)),
	}
}

func TestRootCommand_Version(t *testing.T) {
	version = "1.2.3"

	out, err := execute(t, "", "--version")
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if !strings.Contains(out, "1.2.3") {
		t.Errorf("--version output should contain version: %q", out)
	}
	if !strings.Contains(out, "tracker") {
		t.Errorf("--version output should contain 'tracker': %q", out)
	}
}

func TestRootCommand_Help(t *testing.T) {
	out, err := execute(t, "", "--help")
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}

	expectations := []string{
		"tracker",
		"Usage:",
		"--json",
		"--file",
		"--send",
		"/t <YYYY-MM-DD HH:MM:SS>",
		"export",
		"serve",
	}
	for _, expected := range expectations {
		if !strings.Contains(out, expected) {
			t.Errorf("--help output should contain %q: %q", expected, out)
		}
	}
}

func TestBuildVersion(t *testing.T) {
	tests := []struct {
		name    string
		version string
		commit  string
		date    string
		want    string
	}{
		{"dev build", "dev", "none", "unknown", "dev"},
		{"release", "1.0.0", "abcdef123456", "2024-01-01", "1.0.0 (abcdef1, 2024-01-01)"},
		{"short commit", "1.0.0", "abc", "2024-01-01", "1.0.0 (abc, 2024-01-01)"},
	}
	oldVersion, oldCommit, oldDate := version, commit, date
	t.Cleanup(func() { version, commit, date = oldVersion, oldCommit, oldDate })

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			version, commit, date = tt.version, tt.commit, tt.date
			if got := buildVersion(); got != tt.want {
				t.Errorf("buildVersion() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestRootCommand_List(t *testing.T) {
	isolate(t)
	path := writeJournal(t, sampleEntries()...)

	out, err := execute(t, "", "-f", path, "--list", "--color", "never")
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	for _, want := range []string{"code", "lunch", "01h 30m 00s", "01h 00m 00s", "Totals"} {
		if !strings.Contains(out, want) {
			t.Errorf("--list output should contain %q: %q", want, out)
		}
	}
}

func TestRootCommand_ListEmpty(t *testing.T) {
	isolate(t)
	path := filepath.Join(t.TempDir(), "missing.json")

	out, err := execute(t, "", "-f", path, "--list")
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if !strings.Contains(out, "nenhuma entrada") {
		t.Errorf("--list on a missing file = %q", out)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Errorf("--list must not create the file, stat err = %v", err)
	}
}

func TestRootCommand_ListJSON(t *testing.T) {
	isolate(t)
	path := writeJournal(t, sampleEntries()...)

	out, err := execute(t, "", "-f", path, "--list", "--json")
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}

	var got journalOutput
	if err := json.Unmarshal([]byte(out), &got); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, out)
	}
	if len(got.Entries) != 3 {
		t.Fatalf("entries = %d, want 3", len(got.Entries))
	}
	if got.Entries[0].Elapsed != "" {
		t.Errorf("first entry elapsed = %q, want empty", got.Entries[0].Elapsed)
	}
	if got.Entries[1].Label != "code" || got.Entries[1].Elapsed != "01h 30m 00s" {
		t.Errorf("entries[1] = %+v", got.Entries[1])
	}
}

func TestRootCommand_MalformedFile(t *testing.T) {
	isolate(t)
	path := filepath.Join(t.TempDir(), "bad.json")
	if err := os.WriteFile(path, []byte("{not a log"), 0o600); err != nil {
		t.Fatal(err)
	}

	_, err := execute(t, "", "-f", path, "--list")
	if err == nil {
		t.Fatal("expected an error for a malformed file")
	}
	if code := output.GetExitCode(err); code == output.ExitSuccess {
		t.Errorf("exit code = %d, want non-zero", code)
	}
}

func TestRootCommand_Interactive(t *testing.T) {
	isolate(t)
	path := filepath.Join(t.TempDir(), "today.json")

	out, err := execute(t, "coding\n/l\n", "-f", path, "--color", "never")
	if err != nil {
		t.Fatalf("Execute() error = %v\n%s", err, out)
	}
	if !strings.Contains(out, ">> ") {
		t.Errorf("output should show the prompt: %q", out)
	}
	if !strings.Contains(out, "Inicio da contagem") {
		t.Errorf("output should announce the start: %q", out)
	}

	log, err := timelog.Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if log.Len() != 2 {
		t.Fatalf("saved entries = %d, want 2", log.Len())
	}
	first, _ := log.At(0)
	second, _ := log.At(1)
	if first.Label != timelog.StartLabel || second.Label != "coding" {
		t.Errorf("saved labels = %q, %q", first.Label, second.Label)
	}
}

func TestRootCommand_InteractiveResume(t *testing.T) {
	isolate(t)
	path := writeJournal(t, sampleEntries()...)

	out, err := execute(t, "review\n", "-f", path, "--color", "never")
	if err != nil {
		t.Fatalf("Execute() error = %v\n%s", err, out)
	}
	if !strings.Contains(out, "Retomando 3 entradas") {
		t.Errorf("output should announce the resume: %q", out)
	}

	log, err := timelog.Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	last, _ := log.Last()
	if log.Len() != 4 || last.Label != "review" {
		t.Errorf("saved %d entries, last %q", log.Len(), last.Label)
	}
}

func TestRootCommand_ArgsWithoutSend(t *testing.T) {
	isolate(t)

	_, err := execute(t, "", "-f", filepath.Join(t.TempDir(), "x.json"), "hello")
	if code := output.GetExitCode(err); code != output.ExitUserError {
		t.Errorf("exit code = %d, want %d", code, output.ExitUserError)
	}
}

func TestRootCommand_SendUnknownAssistant(t *testing.T) {
	isolate(t)
	path := writeJournal(t, sampleEntries()...)

	_, err := execute(t, "", "-f", path, "--send", "-a", "nobody")
	if code := output.GetExitCode(err); code != output.ExitUserError {
		t.Errorf("exit code = %d, want %d", code, output.ExitUserError)
	}
}

func TestRootCommand_SendWithoutKey(t *testing.T) {
	isolate(t)
	path := writeJournal(t, sampleEntries()...)

	out, err := execute(t, "", "-f", path, "--send")
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if !strings.Contains(out, "Error") {
		t.Errorf("missing credential should be reported: %q", out)
	}
}

func TestRootCommand_InvalidConfig(t *testing.T) {
	isolate(t)
	path := writeJournal(t, sampleEntries()...)
	configPath := filepath.Join(t.TempDir(), "config.json")
	if err := os.WriteFile(configPath, []byte("{"), 0o600); err != nil {
		t.Fatal(err)
	}

	_, err := execute(t, "", "-f", path, "-c", configPath)
	if code := output.GetExitCode(err); code != output.ExitUserError {
		t.Errorf("exit code = %d, want %d", code, output.ExitUserError)
	}
}
