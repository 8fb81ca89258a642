package grading

import (
	"testing"
	"time"
)

func TestExpiredBoundary(t *testing.T) {
	start := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

	testCases := []struct {
		name    string
		elapsed time.Duration
		want    bool
	}{
		{"well within", 10 * time.Minute, false},
		{"exactly at limit", 60 * time.Minute, false},
		{"one second over", 60*time.Minute + time.Second, true},
		{"one minute over", 61 * time.Minute, true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Expired(start, 60, start.Add(tc.elapsed)); got != tc.want {
				t.Errorf("Expired(elapsed=%v) = %v, want %v", tc.elapsed, got, tc.want)
			}
		})
	}
}

func TestRemaining(t *testing.T) {
	start := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

	if got := Remaining(start, 60, start.Add(30*time.Minute)); got != 30 {
		t.Errorf("Expected 30 minutes remaining, got %v", got)
	}
	if got := Remaining(start, 60, start.Add(90*time.Minute)); got != 0 {
		t.Errorf("Expected remaining floored at 0, got %v", got)
	}
}

func TestFormatClock(t *testing.T) {
	testCases := []struct {
		minutes float64
		want    string
	}{
		{30, "30:00"},
		{0.5, "0:30"},
		{12.25, "12:15"},
		{0, "0:00"},
		{-1, "0:00"},
	}

	for _, tc := range testCases {
		if got := FormatClock(tc.minutes); got != tc.want {
			t.Errorf("FormatClock(%v) = %q, want %q", tc.minutes, got, tc.want)
		}
	}
}
