package timelog

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrMalformedLog is wrapped by every error caused by log file contents.
var ErrMalformedLog = errors.New("malformed log")

// naiveLayout is the zone-less ISO-8601 form written to disk. When
// parsing, Go accepts an optional fractional second after the seconds
// field even though the layout omits it.
const naiveLayout = "2006-01-02T15:04:05"

// zonedLayout accepts timestamps written with an explicit offset.
const zonedLayout = "2006-01-02T15:04:05Z07:00"

// EncodeTimestamp renders t as naive local ISO-8601, appending six
// fractional digits only when the microsecond part is non-zero. A wall
// time that reads back as another instant, inside the repeated hour when
// clocks go back, gets its offset appended.
func EncodeTimestamp(t time.Time) string {
	local := t.In(time.Local)
	stamp := local.Format(naiveLayout)
	if micro := local.Nanosecond() / int(time.Microsecond); micro != 0 {
		stamp += fmt.Sprintf(".%06d", micro)
	}
	naive, err := time.ParseInLocation(naiveLayout, stamp, time.Local)
	if err != nil || !naive.Equal(local.Truncate(time.Microsecond)) {
		stamp += local.Format("-07:00")
	}
	return stamp
}

// DecodeTimestamp parses what EncodeTimestamp writes. It also accepts a
// space between date and time and an explicit zone offset; naive values
// are read as local time.
func DecodeTimestamp(s string) (time.Time, error) {
	stamp := strings.TrimSpace(s)
	if len(stamp) < len(naiveLayout) {
		return time.Time{}, fmt.Errorf("invalid timestamp %q", s)
	}
	if stamp[10] == ' ' {
		stamp = stamp[:10] + "T" + stamp[11:]
	}

	if hasZone(stamp) {
		t, err := time.Parse(zonedLayout, stamp)
		if err != nil {
			return time.Time{}, fmt.Errorf("invalid timestamp %q: %w", s, err)
		}
		return t.In(time.Local), nil
	}

	t, err := time.ParseInLocation(naiveLayout, stamp, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid timestamp %q: %w", s, err)
	}
	return t, nil
}

// hasZone reports whether the part after the seconds field carries a
// "Z" or a numeric offset.
func hasZone(stamp string) bool {
	rest := stamp[len(naiveLayout):]
	return strings.HasSuffix(rest, "Z") || strings.ContainsAny(rest, "+-")
}
