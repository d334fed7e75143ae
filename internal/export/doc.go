// Package export renders a time log as a report.
//
// A report lists every task with the time spent on it (the interval
// since the previous entry) and totals per label. Two formats exist:
//
//   - JSON: the Report structure, for scripts
//   - Markdown: YAML frontmatter, a task table and per-label totals
//
// Example markdown output:
//
//	---
//	schema: tracker.report/v1
//	file: tracker_01_01_2024.json
//	date: 2024-01-01
//	entries: 3
//	total: 01h 30m 00s
//	---
//
//	# 01/01/2024
//
//	| # | Task | From | To | Elapsed |
//	|---|------|------|----|---------|
//	| 1 | code | 10:00:00 | 10:30:00 | 00h 30m 00s |
//	| 2 | lunch | 10:30:00 | 11:30:00 | 01h 00m 00s |
//
//	## Totals
//
//	- lunch: 01h 00m 00s
//	- code: 00h 30m 00s
package export
