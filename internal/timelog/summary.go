package timelog

import "time"

// SummaryLine describes one entry of the end-of-session listing.
type SummaryLine struct {
	Position int // 1-based
	Label    string
	At       time.Time
	Previous time.Time // zero for the first entry
	Elapsed  time.Duration
}

// First reports whether the line describes the log's first entry.
func (s SummaryLine) First() bool {
	return s.Position == 1
}

// Summarize computes, for every entry, the time spent since the entry
// before it.
func Summarize(log *Log) []SummaryLine {
	entries := log.Entries()
	lines := make([]SummaryLine, 0, len(entries))
	for i, entry := range entries {
		line := SummaryLine{Position: i + 1, Label: entry.Label, At: entry.At}
		if i > 0 {
			line.Previous = entries[i-1].At
			line.Elapsed = entry.At.Sub(line.Previous)
		}
		lines = append(lines, line)
	}
	return lines
}

// Time layouts used when listing entries.
const (
	ClockLayout    = "15:04:05"
	DayClockLayout = "02/01 15:04:05"
)

// SummaryLayout picks the clock-only layout when the log starts and ends
// on the same calendar day, and includes the day otherwise.
func SummaryLayout(log *Log) string {
	first, err := log.At(0)
	if err != nil {
		return ClockLayout
	}
	last, _ := log.Last()
	fy, fm, fd := first.At.Date()
	ly, lm, ld := last.At.Date()
	if fy == ly && fm == lm && fd == ld {
		return ClockLayout
	}
	return DayClockLayout
}
