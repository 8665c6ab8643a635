// Package report answers read-only questions about a set of records: totals,
// searches, filters, rankings and groupings. Nothing here mutates the store.
package report

import (
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/joe/file-inventory/internal/discover"
	"github.com/joe/file-inventory/internal/inventory"
)

// Count aggregates files and bytes under a key.
type Count struct {
	Key   string
	Files int
	Bytes int64
}

// Stats summarises an inventory.
type Stats struct {
	Files      int
	TotalBytes int64
	Hosts      []string
	MostRecent *inventory.Record
	Extensions []Count
}

// Group is a set of records sharing a key.
type Group struct {
	Key     string
	Records []inventory.Record
	Bytes   int64
}

// HostGroup holds one host's records split by drive.
type HostGroup struct {
	Host   string
	Files  int
	Bytes  int64
	Drives []Group
}

// ComputeStats returns totals, hosts, the most recently modified record and
// per-extension counts ordered by file count.
func ComputeStats(records []inventory.Record) Stats {
	stats := Stats{Files: len(records)}
	extensions := map[string]*Count{}

	for i := range records {
		record := records[i]
		stats.TotalBytes += record.SizeBytes

		if stats.MostRecent == nil || record.ModifiedTimestamp > stats.MostRecent.ModifiedTimestamp {
			stats.MostRecent = &records[i]
		}

		key := record.Extension
		if key == "" {
			key = "(none)"
		}

		count, ok := extensions[key]
		if !ok {
			count = &Count{Key: key}
			extensions[key] = count
		}

		count.Files++
		count.Bytes += record.SizeBytes
	}

	stats.Hosts = Hosts(records)

	for _, count := range extensions {
		stats.Extensions = append(stats.Extensions, *count)
	}

	sort.Slice(stats.Extensions, func(i, j int) bool {
		a, b := stats.Extensions[i], stats.Extensions[j]
		if a.Files != b.Files {
			return a.Files > b.Files
		}

		return a.Key < b.Key
	})

	return stats
}

// SearchByName returns records whose name contains term, case-insensitively.
// A term with *, ? or a [class] is matched as a glob against the whole name.
func SearchByName(records []inventory.Record, term string) []inventory.Record {
	match := buildNameMatcher(term)
	if match == nil {
		return nil
	}

	return filter(records, func(r inventory.Record) bool { return match(r.Name) })
}

// FilterByExtension returns records with the given extension. The leading dot
// is optional and case is ignored; an empty extension selects files without one.
func FilterByExtension(records []inventory.Record, extension string) []inventory.Record {
	want := NormalizeExtension(extension)

	return filter(records, func(r inventory.Record) bool { return r.Extension == want })
}

// NormalizeExtension lowercases ext and adds the leading dot.
func NormalizeExtension(extension string) string {
	trimmed := strings.ToLower(strings.TrimSpace(extension))
	if trimmed == "" || strings.HasPrefix(trimmed, ".") {
		return trimmed
	}

	return "." + trimmed
}

// Largest returns the n biggest records, biggest first.
func Largest(records []inventory.Record, n int) []inventory.Record {
	sorted := make([]inventory.Record, len(records))
	copy(sorted, records)

	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].SizeBytes != sorted[j].SizeBytes {
			return sorted[i].SizeBytes > sorted[j].SizeBytes
		}

		return sorted[i].Path < sorted[j].Path
	})

	if n >= 0 && n < len(sorted) {
		sorted = sorted[:n]
	}

	return sorted
}

// GroupByDirectory groups records by the directory holding them.
func GroupByDirectory(records []inventory.Record) []Group {
	return groupBy(records, func(r inventory.Record) string { return ParentDir(r.Path) })
}

// GroupByHostDrive groups records by host, then by drive prefix.
func GroupByHostDrive(records []inventory.Record, mounts []string) []HostGroup {
	hosts := groupBy(records, func(r inventory.Record) string { return r.Host })
	out := make([]HostGroup, 0, len(hosts))

	for _, host := range hosts {
		out = append(out, HostGroup{
			Host:  host.Key,
			Files: len(host.Records),
			Bytes: host.Bytes,
			Drives: groupBy(host.Records, func(r inventory.Record) string {
				return discover.DrivePrefix(r.Path, mounts)
			}),
		})
	}

	return out
}

// Hosts returns the distinct hosts, sorted.
func Hosts(records []inventory.Record) []string {
	return distinct(records, func(r inventory.Record) string { return r.Host })
}

// Drives returns the distinct drive prefixes, sorted.
func Drives(records []inventory.Record, mounts []string) []string {
	return distinct(records, func(r inventory.Record) string { return discover.DrivePrefix(r.Path, mounts) })
}

// ParentDir returns the directory part of a stored path, honouring both
// separator styles.
func ParentDir(path string) string {
	i := strings.LastIndexAny(path, `/\`)

	switch {
	case i < 0:
		return ""
	case i == 0:
		return path[:1]
	case path[i-1] == ':':
		return path[:i+1]
	default:
		return path[:i]
	}
}

func buildNameMatcher(pattern string) func(string) bool {
	trimmed := strings.TrimSpace(pattern)
	if trimmed == "" {
		return nil
	}

	// Malformed globs such as an unclosed "[" fall back to a substring match.
	lowered := strings.ToLower(trimmed)
	if strings.ContainsAny(lowered, "*?[") && doublestar.ValidatePattern(lowered) {
		return func(name string) bool {
			ok, _ := doublestar.Match(lowered, strings.ToLower(name))

			return ok
		}
	}

	return func(name string) bool {
		return strings.Contains(strings.ToLower(name), lowered)
	}
}

func filter(records []inventory.Record, keep func(inventory.Record) bool) []inventory.Record {
	var out []inventory.Record

	for _, record := range records {
		if keep(record) {
			out = append(out, record)
		}
	}

	sort.SliceStable(out, func(i, j int) bool { return out[i].Path < out[j].Path })

	return out
}

func groupBy(records []inventory.Record, key func(inventory.Record) string) []Group {
	index := map[string]int{}

	var groups []Group

	for _, record := range records {
		k := key(record)

		i, ok := index[k]
		if !ok {
			i = len(groups)
			index[k] = i
			groups = append(groups, Group{Key: k})
		}

		groups[i].Records = append(groups[i].Records, record)
		groups[i].Bytes += record.SizeBytes
	}

	sort.Slice(groups, func(i, j int) bool { return groups[i].Key < groups[j].Key })

	for i := range groups {
		sort.SliceStable(groups[i].Records, func(a, b int) bool {
			return groups[i].Records[a].Path < groups[i].Records[b].Path
		})
	}

	return groups
}

func distinct(records []inventory.Record, key func(inventory.Record) string) []string {
	seen := map[string]bool{}

	var out []string

	for _, record := range records {
		if k := key(record); !seen[k] {
			seen[k] = true
			out = append(out, k)
		}
	}

	sort.Strings(out)

	return out
}
