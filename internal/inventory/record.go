// Package inventory holds the record model shared by scanning, storage and
// reporting: one Record per file path, collected into a path-keyed Snapshot.
package inventory

import (
	"math"
	"strings"
	"time"
)

// ISOLayout is the layout of Record.ModifiedISO.
const ISOLayout = "2006-01-02T15:04:05.999999Z07:00"

// Record is the metadata captured for one file. The JSON field names are the
// on-disk format of the inventory file.
type Record struct {
	Name              string  `json:"file_name"`
	Extension         string  `json:"file_extension"`
	SizeBytes         int64   `json:"file_size_bytes"`
	ModifiedTimestamp float64 `json:"last_modified_timestamp"`
	ModifiedISO       string  `json:"last_modified_iso"`
	Path              string  `json:"full_path"`
	Host              string  `json:"hostname"`
	ApplicationGroup  *string `json:"potential_application_group"`
}

// NewRecord builds a Record from inspected metadata. The extension is derived
// from name and the ISO string from modTime, truncated to microseconds.
func NewRecord(path, name string, size int64, modTime time.Time, host string) Record {
	record := Record{
		Name:              name,
		Extension:         ExtensionOf(name),
		SizeBytes:         size,
		ModifiedTimestamp: Timestamp(modTime),
		Path:              path,
		Host:              host,
	}
	record.ModifiedISO = FormatTimestamp(record.ModifiedTimestamp)

	return record
}

// ModifiedAt returns the modification time held by the timestamp.
func (r Record) ModifiedAt() time.Time {
	return TimeOf(r.ModifiedTimestamp)
}

// Group returns the application group tag, or "" when the record has none.
func (r Record) Group() string {
	if r.ApplicationGroup == nil {
		return ""
	}

	return *r.ApplicationGroup
}

// WithGroup returns a copy of r tagged with group; an empty group clears the tag.
func (r Record) WithGroup(group string) Record {
	if group == "" {
		r.ApplicationGroup = nil

		return r
	}

	r.ApplicationGroup = &group

	return r
}

// Normalize rederives the fields that follow from others, so a record read
// from disk always has an ISO string matching its timestamp and a lowercase
// extension.
func (r Record) Normalize() Record {
	r.ModifiedISO = FormatTimestamp(r.ModifiedTimestamp)
	r.Extension = strings.ToLower(r.Extension)

	if r.SizeBytes < 0 {
		r.SizeBytes = 0
	}

	return r
}

// ExtensionOf returns the lowercase extension of name including its dot.
// Leading dots do not start an extension, so ".bashrc" has none.
func ExtensionOf(name string) string {
	trimmed := strings.TrimLeft(name, ".")

	dot := strings.LastIndex(trimmed, ".")
	if dot < 0 {
		return ""
	}

	return strings.ToLower(trimmed[dot:])
}

// Timestamp converts t to fractional unix seconds with microsecond precision.
func Timestamp(t time.Time) float64 {
	const microsPerSecond = 1e6

	return float64(t.UnixMicro()) / microsPerSecond
}

// TimeOf converts fractional unix seconds back to a local time.
func TimeOf(timestamp float64) time.Time {
	const microsPerSecond = 1e6

	return time.UnixMicro(int64(math.Round(timestamp * microsPerSecond))).Local()
}

// FormatTimestamp renders fractional unix seconds as local ISO-8601.
func FormatTimestamp(timestamp float64) string {
	return TimeOf(timestamp).Format(ISOLayout)
}
