package report

import (
	"fmt"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/joe/file-inventory/internal/inventory"
)

// MaxNameWidth is where long file names are cut in summaries.
const MaxNameWidth = 30

// Size renders bytes in binary units.
func Size(bytes int64) string {
	if bytes < 0 {
		bytes = 0
	}

	return humanize.IBytes(uint64(bytes))
}

// RelativeTime renders how long ago t was; under a minute is "just now".
func RelativeTime(t, now time.Time) string {
	if now.Sub(t) < time.Minute && !t.After(now) {
		return "just now"
	}

	return humanize.RelTime(t, now, "ago", "from now")
}

// Truncate cuts s to width runes, marking the cut with "...".
func Truncate(s string, width int) string {
	runes := []rune(s)
	if len(runes) <= width {
		return s
	}

	const ellipsis = "..."
	if width <= len(ellipsis) {
		return string(runes[:width])
	}

	return string(runes[:width-len(ellipsis)]) + ellipsis
}

// RecordLine renders a record on one line for listings.
func RecordLine(record inventory.Record) string {
	return fmt.Sprintf("%s  %9s  %s  %s",
		record.ModifiedAt().Format("2006-01-02 15:04"),
		Size(record.SizeBytes),
		record.Host,
		record.Path,
	)
}

// RecordLines renders records with RecordLine.
func RecordLines(records []inventory.Record) []string {
	lines := make([]string, 0, len(records))
	for _, record := range records {
		lines = append(lines, RecordLine(record))
	}

	return lines
}

// StatsLines renders summary statistics.
func StatsLines(stats Stats, now time.Time) []string {
	lines := []string{
		fmt.Sprintf("Total files: %s", humanize.Comma(int64(stats.Files))),
		fmt.Sprintf("Total size:  %s", Size(stats.TotalBytes)),
		fmt.Sprintf("Hosts:       %d", len(stats.Hosts)),
	}

	if recent := stats.MostRecent; recent != nil {
		modified := recent.ModifiedAt()
		lines = append(lines,
			"",
			"Most recent file:",
			fmt.Sprintf("  %s (%s)", Truncate(recent.Name, MaxNameWidth), Size(recent.SizeBytes)),
			fmt.Sprintf("  modified %s, %s", modified.Format("2006-01-02 15:04:05"), RelativeTime(modified, now)),
		)
	}

	if len(stats.Extensions) > 0 {
		lines = append(lines, "", "By extension:")
		for _, count := range stats.Extensions {
			lines = append(lines, fmt.Sprintf("  %-10s %8s files  %9s",
				count.Key, humanize.Comma(int64(count.Files)), Size(count.Bytes)))
		}
	}

	return lines
}

// GroupLines renders directory groups with their records indented below.
func GroupLines(groups []Group) []string {
	var lines []string

	for _, group := range groups {
		lines = append(lines, fmt.Sprintf("%s  (%d files, %s)", displayKey(group.Key), len(group.Records), Size(group.Bytes)))
		for _, record := range group.Records {
			lines = append(lines, fmt.Sprintf("    %-40s %9s", record.Name, Size(record.SizeBytes)))
		}
	}

	return lines
}

// HostGroupLines renders the host and drive breakdown.
func HostGroupLines(groups []HostGroup) []string {
	var lines []string

	for _, host := range groups {
		lines = append(lines, fmt.Sprintf("%s  (%d files, %s)", displayKey(host.Host), host.Files, Size(host.Bytes)))
		for _, drive := range host.Drives {
			lines = append(lines, fmt.Sprintf("    %-30s %8d files  %9s",
				displayKey(drive.Key), len(drive.Records), Size(drive.Bytes)))
		}
	}

	return lines
}

func displayKey(key string) string {
	if key == "" {
		return "(none)"
	}

	return key
}
