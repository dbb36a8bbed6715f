package ui

import "time"

// formatClock renders a message timestamp (unix seconds) as a 24-hour
// clock. Absent timestamps render empty.
func formatClock(sentAt int64) string {
	if sentAt <= 0 {
		return ""
	}
	return time.Unix(sentAt, 0).Format("15:04")
}
