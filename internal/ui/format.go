package ui

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Formatting helpers shared across views.

func formatNumber(n uint64) string {
	if n > 1000000 {
		return fmt.Sprintf("%.1fM", float64(n)/1000000)
	} else if n > 1000 {
		return fmt.Sprintf("%.1fK", float64(n)/1000)
	}
	return fmt.Sprintf("%d", n)
}

func formatBytes(b uint64) string {
	if b > 1024*1024*1024 {
		return fmt.Sprintf("%.1fGB", float64(b)/(1024*1024*1024))
	} else if b > 1024*1024 {
		return fmt.Sprintf("%.1fMB", float64(b)/(1024*1024))
	} else if b > 1024 {
		return fmt.Sprintf("%.1fKB", float64(b)/1024)
	}
	return fmt.Sprintf("%dB", b)
}

func formatDuration(d time.Duration) string {
	if d == 0 {
		return "unlimited"
	}
	if d < time.Second {
		return fmt.Sprintf("%dms", d.Milliseconds())
	}
	if d < time.Minute {
		return fmt.Sprintf("%ds", int(d.Seconds()))
	}
	if d < time.Hour {
		return fmt.Sprintf("%dm", int(d.Minutes()))
	}
	if d < 24*time.Hour {
		return fmt.Sprintf("%dh", int(d.Hours()))
	}
	return fmt.Sprintf("%dd", int(d.Hours()/24))
}

// formatAge renders a timestamp as a relative age for list columns.
func formatAge(t time.Time) string {
	if t.IsZero() {
		return "never"
	}

	diff := time.Since(t)
	if diff < time.Minute {
		return fmt.Sprintf("%ds ago", int(diff.Seconds()))
	} else if diff < time.Hour {
		return fmt.Sprintf("%dm ago", int(diff.Minutes()))
	} else if diff < 24*time.Hour {
		return fmt.Sprintf("%dh ago", int(diff.Hours()))
	} else if diff < 7*24*time.Hour {
		return fmt.Sprintf("%dd ago", int(diff.Hours()/24))
	}
	return t.Format("2006-01-02")
}

// parseByteString parses human-readable sizes like "5GB" or "100MB".
// "unlimited" and garbage come back as 0; callers map that to their own
// sentinel.
func parseByteString(s string) uint64 {
	s = strings.TrimSpace(s)
	if strings.EqualFold(s, "unlimited") {
		return 0
	}
	s = strings.ToUpper(s)

	var value float64
	var unit string
	fmt.Sscanf(s, "%f%s", &value, &unit)

	switch unit {
	case "GB":
		return uint64(value * 1024 * 1024 * 1024)
	case "MB":
		return uint64(value * 1024 * 1024)
	case "KB":
		return uint64(value * 1024)
	default:
		val, _ := strconv.ParseUint(s, 10, 64)
		return val
	}
}

func formatBytesToString(bytes uint64) string {
	if bytes == 0 || bytes > uint64(1<<62) {
		return "unlimited"
	}
	if bytes >= 1024*1024*1024 {
		return fmt.Sprintf("%.0fGB", float64(bytes)/(1024*1024*1024))
	} else if bytes >= 1024*1024 {
		return fmt.Sprintf("%.0fMB", float64(bytes)/(1024*1024))
	} else if bytes >= 1024 {
		return fmt.Sprintf("%.0fKB", float64(bytes)/1024)
	}
	return fmt.Sprintf("%d", bytes)
}

func formatDurationToString(d time.Duration) string {
	if d == 0 {
		return "unlimited"
	}
	return d.String()
}

// truncate shortens a string for table cells.
func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	if max <= 3 {
		return s[:max]
	}
	return s[:max-3] + "..."
}
