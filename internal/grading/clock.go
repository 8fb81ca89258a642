package grading

import (
	"fmt"
	"time"
)

// Expired reports whether an attempt has run out of time. The boundary
// is exclusive: an attempt at exactly the limit is still in time.
func Expired(startedAt time.Time, limitMinutes int, now time.Time) bool {
	return now.Sub(startedAt) > time.Duration(limitMinutes)*time.Minute
}

// Remaining returns the minutes left, floored at zero.
func Remaining(startedAt time.Time, limitMinutes int, now time.Time) float64 {
	remaining := time.Duration(limitMinutes)*time.Minute - now.Sub(startedAt)
	if remaining < 0 {
		return 0
	}
	return remaining.Minutes()
}

// FormatClock renders fractional minutes as M:SS for the time-check
// response.
func FormatClock(minutes float64) string {
	totalSeconds := int(minutes * 60)
	if totalSeconds < 0 {
		totalSeconds = 0
	}
	return fmt.Sprintf("%d:%02d", totalSeconds/60, totalSeconds%60)
}
