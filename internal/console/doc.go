// Package console reads lines from the user and renders assistant answers.
//
// On a terminal, input goes through a small raw-mode line editor with
// history recall (up/down arrows) and Ctrl+C detection; history is kept
// in an append-only file across runs. When stdin is not a terminal,
// lines are read as they come. Reads honour context cancellation so a
// signal can end a blocked read.
package console
