package timelog

import (
	"fmt"
	"time"
)

// FormatElapsed renders d as "HHh MMm SSs", truncated to whole seconds.
// Hours grow past two digits when needed. Back-dated entries can make d
// negative; the sign is kept in front.
func FormatElapsed(d time.Duration) string {
	sign := ""
	if d < 0 {
		sign = "-"
		d = -d
	}
	total := int64(d / time.Second)
	return fmt.Sprintf("%s%02dh %02dm %02ds", sign, total/3600, total%3600/60, total%60)
}
