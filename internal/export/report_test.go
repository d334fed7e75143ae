package export

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

var base = time.Date(2024, 1, 1, 10, 0, 0, 0, time.Local)

func sampleLog() *timelog.Log {
	return timelog.NewLog(
		timelog.NewEntry("inicio", base),
		timelog.NewEntry("code", base.Add(30*time.Minute)),
		timelog.NewEntry("lunch", base.Add(90*time.Minute)),
		timelog.NewEntry("code", base.Add(100*time.Minute)),
	)
}

func TestBuild(t *testing.T) {
	r := Build(sampleLog(), "tracker_01_01_2024.json")

	if r.Schema != Schema || r.Entries != 4 {
		t.Errorf("header = %+v", r)
	}
	if len(r.Tasks) != 3 {
		t.Fatalf("len(Tasks) = %d, want 3", len(r.Tasks))
	}
	if r.Tasks[0].Index != 1 || r.Tasks[0].Label != "code" || r.Tasks[0].Seconds != 1800 {
		t.Errorf("Tasks[0] = %+v", r.Tasks[0])
	}
	if r.Seconds != 6000 || r.Elapsed != "01h 40m 00s" {
		t.Errorf("total = %d %q", r.Seconds, r.Elapsed)
	}

	wantTotals := []Total{
		{Label: "lunch", Seconds: 3600, Elapsed: "01h 00m 00s"},
		{Label: "code", Seconds: 2400, Elapsed: "00h 40m 00s"},
	}
	if len(r.Totals) != len(wantTotals) {
		t.Fatalf("Totals = %+v", r.Totals)
	}
	for i, want := range wantTotals {
		if r.Totals[i] != want {
			t.Errorf("Totals[%d] = %+v, want %+v", i, r.Totals[i], want)
		}
	}
}

func TestBuild_Empty(t *testing.T) {
	r := Build(timelog.NewLog(), "")
	if r.Entries != 0 || len(r.Tasks) != 0 || !r.Start.IsZero() {
		t.Errorf("Build(empty) = %+v", r)
	}

	data, err := MarshalJSON(r)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Contains(data, []byte(`"tasks": []`)) {
		t.Errorf("empty tasks should encode as []:\n%s", data)
	}
}

func TestFormatMarkdown(t *testing.T) {
	md := FormatMarkdown(Build(sampleLog(), "day.json"))

	for _, want := range []string{
		"---\nschema: tracker.report/v1\nfile: day.json\ndate: 2024-01-01\nentries: 4\ntotal: 01h 40m 00s\n---\n",
		"# 01/01/2024",
		"| 1 | code | 10:00:00 | 10:30:00 | 00h 30m 00s |",
		"| 2 | lunch | 10:30:00 | 11:30:00 | 01h 00m 00s |",
		"## Totals\n\n- lunch: 01h 00m 00s\n- code: 00h 40m 00s\n",
	} {
		if !strings.Contains(md, want) {
			t.Errorf("markdown missing %q:\n%s", want, md)
		}
	}
}

func TestFormatMarkdown_AcrossDaysAndPipes(t *testing.T) {
	log := timelog.NewLog(
		timelog.NewEntry("inicio", base),
		timelog.NewEntry("a|b", base.Add(25*time.Hour)),
	)
	md := FormatMarkdown(Build(log, ""))

	if !strings.Contains(md, `| 1 | a\|b | 01/01 10:00:00 | 02/01 11:00:00 | 25h 00m 00s |`) {
		t.Errorf("markdown:\n%s", md)
	}
	if strings.Contains(md, "file:") {
		t.Error("file key written for an unnamed log")
	}
}

func TestFormatMarkdown_Empty(t *testing.T) {
	md := FormatMarkdown(Build(timelog.NewLog(), ""))
	if !strings.Contains(md, "# Empty log") {
		t.Errorf("markdown:\n%s", md)
	}
}

func TestFormatJSON(t *testing.T) {
	var buf bytes.Buffer
	printer := output.NewPrinter(&buf, true, false)

	if err := FormatJSON(printer, Build(sampleLog(), "")); err != nil {
		t.Fatalf("FormatJSON() error = %v", err)
	}

	var got Report
	if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, buf.String())
	}
	if len(got.Tasks) != 3 || got.Totals[0].Label != "lunch" {
		t.Errorf("decoded = %+v", got)
	}
}

func TestWriteFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.md")

	if err := WriteFile(path, []byte("one"), false); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	err := WriteFile(path, []byte("two"), false)
	if code := output.GetExitCode(err); code != output.ExitConflict {
		t.Errorf("second WriteFile() code = %d, want %d (err %v)", code, output.ExitConflict, err)
	}

	if err := WriteFile(path, []byte("three"), true); err != nil {
		t.Fatalf("forced WriteFile() error = %v", err)
	}
	data, _ := os.ReadFile(path)
	if string(data) != "three" {
		t.Errorf("file = %q", data)
	}
}

func TestWriteFile_BadDir(t *testing.T) {
	err := WriteFile(filepath.Join(t.TempDir(), "missing", "r.md"), []byte("x"), true)
	if code := output.GetExitCode(err); code != output.ExitSystemError {
		t.Errorf("code = %d, want %d", code, output.ExitSystemError)
	}
}
