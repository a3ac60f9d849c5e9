package service

import (
	"fmt"
	"time"
)

// formatTimeSpent renders a duration the way the bot displays it.
func formatTimeSpent(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	total := int(d.Seconds())
	return fmt.Sprintf("%d min %d sec", total/60, total%60)
}

// sessionDuration is the elapsed time of a session, capped at completion.
func sessionDuration(start time.Time, completedAt *time.Time, now time.Time) time.Duration {
	if completedAt != nil {
		return completedAt.Sub(start)
	}
	return now.Sub(start)
}
