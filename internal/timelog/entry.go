// Package timelog holds the ordered task log, its on-disk JSON form and
// the elapsed-time arithmetic reported after each entry.
package timelog

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"time"
)

// StartLabel marks the synthetic first entry of a fresh log.
const StartLabel = "inicio"

// ErrIndexOutOfRange is returned when an entry position does not exist.
var ErrIndexOutOfRange = errors.New("entry index out of range")

// Entry is one task label and the moment it was logged.
type Entry struct {
	Label string
	At    time.Time
}

// NewEntry builds an entry at the codec's resolution (microseconds), so an
// entry compares equal to itself after a save and reload.
func NewEntry(label string, at time.Time) Entry {
	return Entry{Label: label, At: at.Truncate(time.Microsecond)}
}

// MarshalJSON encodes the entry as a [label, timestamp] pair.
func (e Entry) MarshalJSON() ([]byte, error) {
	return marshalRaw([2]string{e.Label, EncodeTimestamp(e.At)})
}

// UnmarshalJSON decodes a [label, timestamp] pair.
func (e *Entry) UnmarshalJSON(data []byte) error {
	var pair []json.RawMessage
	if err := json.Unmarshal(data, &pair); err != nil {
		return fmt.Errorf("%w: entry is not an array: %v", ErrMalformedLog, err)
	}
	if len(pair) != 2 {
		return fmt.Errorf("%w: entry has %d elements, want 2", ErrMalformedLog, len(pair))
	}

	var label, stamp string
	if err := json.Unmarshal(pair[0], &label); err != nil {
		return fmt.Errorf("%w: label is not a string", ErrMalformedLog)
	}
	if err := json.Unmarshal(pair[1], &stamp); err != nil {
		return fmt.Errorf("%w: timestamp is not a string", ErrMalformedLog)
	}

	at, err := DecodeTimestamp(stamp)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedLog, err)
	}
	*e = Entry{Label: label, At: at}
	return nil
}

// Indexed pairs an entry with its position in the log. The position is
// the entry's identity for /e and listings.
type Indexed struct {
	Index int
	Entry
}

// Log is the ordered task log. Order is insertion order; entries are never
// removed and only their labels can change.
type Log struct {
	entries []Entry
}

// NewLog returns a log holding entries in the given order.
func NewLog(entries ...Entry) *Log {
	return &Log{entries: slices.Clone(entries)}
}

// Len returns the number of entries.
func (l *Log) Len() int {
	return len(l.entries)
}

// Entries returns a copy of all entries in order.
func (l *Log) Entries() []Entry {
	return slices.Clone(l.entries)
}

// At returns the entry at position i.
func (l *Log) At(i int) (Entry, error) {
	if i < 0 || i >= len(l.entries) {
		return Entry{}, fmt.Errorf("%w: %d (log has %d entries)", ErrIndexOutOfRange, i, len(l.entries))
	}
	return l.entries[i], nil
}

// Last returns the most recently appended entry.
func (l *Log) Last() (Entry, bool) {
	if len(l.entries) == 0 {
		return Entry{}, false
	}
	return l.entries[len(l.entries)-1], true
}

// Append adds an entry at the end, whatever its timestamp.
// Back-dated entries are not moved into chronological position.
func (l *Log) Append(label string, at time.Time) Entry {
	entry := NewEntry(label, at)
	l.entries = append(l.entries, entry)
	return entry
}

// Relabel replaces the label at position i and keeps its timestamp.
func (l *Log) Relabel(i int, label string) error {
	if _, err := l.At(i); err != nil {
		return err
	}
	l.entries[i].Label = label
	return nil
}

// Seed appends the StartLabel entry when the log is empty and reports
// whether it did.
func (l *Log) Seed(now time.Time) bool {
	if len(l.entries) > 0 {
		return false
	}
	l.Append(StartLabel, now)
	return true
}

// Tail returns the last n entries with their positions, oldest first.
func (l *Log) Tail(n int) []Indexed {
	if n <= 0 {
		return nil
	}
	start := max(len(l.entries)-n, 0)
	tail := make([]Indexed, 0, len(l.entries)-start)
	for i := start; i < len(l.entries); i++ {
		tail = append(tail, Indexed{Index: i, Entry: l.entries[i]})
	}
	return tail
}

// MarshalJSON encodes the log as an array of [label, timestamp] pairs.
func (l *Log) MarshalJSON() ([]byte, error) {
	if l.entries == nil {
		return []byte("[]"), nil
	}
	return marshalRaw(l.entries)
}

// UnmarshalJSON decodes an array of [label, timestamp] pairs.
func (l *Log) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		return fmt.Errorf("%w: expected an array of [label, timestamp] pairs, got null", ErrMalformedLog)
	}
	var entries []Entry
	if err := json.Unmarshal(data, &entries); err != nil {
		return err
	}
	l.entries = entries
	return nil
}

// marshalRaw is json.Marshal without HTML escaping, so labels such as
// "a<b" are stored as typed.
func marshalRaw(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}
