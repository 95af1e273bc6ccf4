package textutil

import "fmt"

// FormatClockMS renders a millisecond offset as h:mm:ss or m:ss.
// Negative values are clamped to zero.
func FormatClockMS(ms int64) string {
	if ms < 0 {
		ms = 0
	}
	totalSeconds := ms / 1000
	hours := totalSeconds / 3600
	minutes := (totalSeconds % 3600) / 60
	seconds := totalSeconds % 60
	if hours > 0 {
		return fmt.Sprintf("%d:%02d:%02d", hours, minutes, seconds)
	}
	return fmt.Sprintf("%d:%02d", minutes, seconds)
}

// FormatRangeMS renders a start/end millisecond pair as "start-end" clock
// offsets.
func FormatRangeMS(startMS, endMS int64) string {
	return FormatClockMS(startMS) + "-" + FormatClockMS(endMS)
}
