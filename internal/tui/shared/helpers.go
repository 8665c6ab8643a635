package shared

import (
	"fmt"
	"time"

	"github.com/joe/file-inventory/internal/report"
)

// ============================================================================
// Formatting Functions
// These are used by multiple screens for consistent display
// ============================================================================

// FormatBytes formats bytes into human-readable format (e.g., "1.5 MiB")
func FormatBytes(bytes int64) string {
	return report.Size(bytes)
}

// FormatDuration formats duration into human-readable format (e.g., "2m 30s")
func FormatDuration(duration time.Duration) string {
	duration = duration.Round(time.Second)
	hours := duration / time.Hour
	duration %= time.Hour
	minutes := duration / time.Minute
	duration %= time.Minute
	seconds := duration / time.Second

	if hours > 0 {
		return fmt.Sprintf("%dh %dm %ds", hours, minutes, seconds)
	} else if minutes > 0 {
		return fmt.Sprintf("%dm %ds", minutes, seconds)
	}

	return fmt.Sprintf("%ds", seconds)
}

// TruncatePath keeps the tail of a path that does not fit in width.
func TruncatePath(path string, width int) string {
	runes := []rune(path)
	if width <= EllipsisLength || len(runes) <= width {
		return path
	}

	return "..." + string(runes[len(runes)-width+EllipsisLength:])
}
