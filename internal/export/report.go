package export

import (
	"sort"
	"time"

	"github.com/gorewood/tracker/internal/timelog"
)

// Schema identifies the report format.
const Schema = "tracker.report/v1"

// Task is one logged interval.
type Task struct {
	Index   int       `json:"index"`
	Label   string    `json:"label"`
	From    time.Time `json:"from"`
	To      time.Time `json:"to"`
	Seconds int64     `json:"seconds"`
	Elapsed string    `json:"elapsed"`
}

// Total is the time spent on one label across the log.
type Total struct {
	Label   string `json:"label"`
	Seconds int64  `json:"seconds"`
	Elapsed string `json:"elapsed"`
}

// Report is a log with computed durations.
type Report struct {
	Schema  string    `json:"schema"`
	File    string    `json:"file,omitempty"`
	Start   time.Time `json:"start"`
	End     time.Time `json:"end"`
	Entries int       `json:"entries"`
	Seconds int64     `json:"seconds"`
	Elapsed string    `json:"elapsed"`
	Tasks   []Task    `json:"tasks"`
	Totals  []Total   `json:"totals"`
}

// Build computes the report for log. file names the source in the output
// and may be empty. The first entry only marks a start and gets no task.
func Build(log *timelog.Log, file string) Report {
	r := Report{Schema: Schema, File: file, Entries: log.Len(), Tasks: []Task{}, Totals: []Total{}}
	if first, err := log.At(0); err == nil {
		r.Start = first.At
	}
	if last, ok := log.Last(); ok {
		r.End = last.At
	}

	byLabel := map[string]int64{}
	var order []string
	for _, line := range timelog.Summarize(log) {
		if line.First() {
			continue
		}
		secs := int64(line.Elapsed / time.Second)
		r.Tasks = append(r.Tasks, Task{
			Index:   line.Position - 1,
			Label:   line.Label,
			From:    line.Previous,
			To:      line.At,
			Seconds: secs,
			Elapsed: timelog.FormatElapsed(line.Elapsed),
		})
		if _, seen := byLabel[line.Label]; !seen {
			order = append(order, line.Label)
		}
		byLabel[line.Label] += secs
		r.Seconds += secs
	}
	r.Elapsed = timelog.FormatElapsed(time.Duration(r.Seconds) * time.Second)

	for _, label := range order {
		secs := byLabel[label]
		r.Totals = append(r.Totals, Total{
			Label:   label,
			Seconds: secs,
			Elapsed: timelog.FormatElapsed(time.Duration(secs) * time.Second),
		})
	}
	// Longest first; ties keep first-seen order.
	sort.SliceStable(r.Totals, func(i, j int) bool {
		return r.Totals[i].Seconds > r.Totals[j].Seconds
	})
	return r
}
