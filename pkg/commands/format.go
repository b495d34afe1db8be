package commands

import (
	"fmt"
	"math"
	"strings"
	"time"
)

// FormatDuration renders a duration as "2d 3h 4m 5s"; the seconds part
// is always present.
func FormatDuration(d time.Duration) string {
	seconds := int(d.Seconds())
	if seconds < 0 {
		seconds = 0
	}

	days := seconds / 86400
	seconds %= 86400
	hours := seconds / 3600
	seconds %= 3600
	minutes := seconds / 60
	seconds %= 60

	var parts []string
	if days > 0 {
		parts = append(parts, fmt.Sprintf("%dd", days))
	}
	if hours > 0 {
		parts = append(parts, fmt.Sprintf("%dh", hours))
	}
	if minutes > 0 {
		parts = append(parts, fmt.Sprintf("%dm", minutes))
	}
	parts = append(parts, fmt.Sprintf("%ds", seconds))
	return strings.Join(parts, " ")
}

// FormatAge renders an elapsed duration in the compact form used by the
// seen command: "45s", "12m", "3h 7m", "2d 5h".
func FormatAge(d time.Duration) string {
	seconds := int(d.Seconds())
	if seconds < 0 {
		seconds = 0
	}
	if seconds < 60 {
		return fmt.Sprintf("%ds", seconds)
	}
	minutes := seconds / 60
	if minutes < 60 {
		return fmt.Sprintf("%dm", minutes)
	}
	hours := minutes / 60
	minutes %= 60
	if hours < 24 {
		return fmt.Sprintf("%dh %dm", hours, minutes)
	}
	days := hours / 24
	hours %= 24
	return fmt.Sprintf("%dd %dh", days, hours)
}

// FormatPct renders an optional utilization value; whole numbers drop
// the decimal.
func FormatPct(v *float64) string {
	if v == nil {
		return "?"
	}
	if math.Abs(*v-math.Round(*v)) < 1e-9 {
		return fmt.Sprintf("%d%%", int(math.Round(*v)))
	}
	return fmt.Sprintf("%.1f%%", *v)
}
