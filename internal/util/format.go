package util

import (
	"fmt"
	"math"
	"time"
)

// FormatDuration formats a duration as m:ss. Negative durations render
// as 0:00.
func FormatDuration(d time.Duration) string {
	return FormatSeconds(d.Seconds())
}

// FormatSeconds formats a number of seconds as m:ss. NaN, infinite and
// negative inputs render as 0:00.
func FormatSeconds(secs float64) string {
	if math.IsNaN(secs) || math.IsInf(secs, 0) || secs < 0 {
		return "0:00"
	}
	total := int(math.Floor(secs))
	return fmt.Sprintf("%d:%02d", total/60, total%60)
}
