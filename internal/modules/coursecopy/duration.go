package coursecopy

import (
	"fmt"
	"time"
)

// FormatDuration renders d as "Ns" under a minute, "Nm Ns" under an hour and
// "Nh Nm" beyond. Sub-second remainders are truncated.
func FormatDuration(d time.Duration) string {
	secs := int64(d / time.Second)
	if secs < 60 {
		return fmt.Sprintf("%ds", secs)
	}
	mins := secs / 60
	if mins < 60 {
		return fmt.Sprintf("%dm %ds", mins, secs%60)
	}
	return fmt.Sprintf("%dh %dm", mins/60, mins%60)
}
