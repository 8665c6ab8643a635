package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/joe/file-inventory/internal/inventory"
)

// HumanLayout is the layout of the marker's human-readable timestamp.
const HumanLayout = "2006-01-02 15:04:05"

// ErrMarkerMalformed is returned when the marker file cannot be understood.
var ErrMarkerMalformed = errors.New("last-scan marker is malformed")

//nolint:gochecknoglobals // Layouts accepted when reading a marker
var markerLayouts = []string{
	time.RFC3339Nano,
	inventory.ISOLayout,
	"2006-01-02T15:04:05.999999",
	HumanLayout,
}

// Marker is the last-scan marker file. It is independent of the store: losing
// it only loses the "last scanned" display.
type Marker struct {
	path string
}

type markerFile struct {
	LastScanISO           *string `json:"last_scan_iso,omitempty"`
	LastScanHumanReadable *string `json:"last_scan_human_readable,omitempty"`
	LastScan              *string `json:"last_scan,omitempty"`
}

// NewMarker returns the marker at path.
func NewMarker(path string) *Marker {
	return &Marker{path: path}
}

// Path returns the marker's file path.
func (m *Marker) Path() string {
	return m.path
}

// Read returns the last scan time. ok is false when no scan was recorded,
// including a missing file or an explicit null. A malformed file also reports
// !ok and returns an error wrapping ErrMarkerMalformed.
func (m *Marker) Read() (time.Time, bool, error) {
	data, err := os.ReadFile(m.path)
	if errors.Is(err, os.ErrNotExist) {
		return time.Time{}, false, nil
	}

	if err != nil {
		return time.Time{}, false, fmt.Errorf("read marker %s: %w", m.path, err)
	}

	var file markerFile
	if err := json.Unmarshal(data, &file); err != nil {
		return time.Time{}, false, fmt.Errorf("%w: %s: %w", ErrMarkerMalformed, m.path, err)
	}

	for _, candidate := range []*string{file.LastScanISO, file.LastScan, file.LastScanHumanReadable} {
		if candidate == nil || *candidate == "" {
			continue
		}

		if at, ok := parseMarkerTime(*candidate); ok {
			return at, true, nil
		}

		return time.Time{}, false, fmt.Errorf("%w: %s: unparsable time %q", ErrMarkerMalformed, m.path, *candidate)
	}

	return time.Time{}, false, nil
}

// Write records at as the last scan time.
func (m *Marker) Write(at time.Time) error {
	iso := at.Format(inventory.ISOLayout)
	human := at.Format(HumanLayout)

	data, err := json.MarshalIndent(markerFile{LastScanISO: &iso, LastScanHumanReadable: &human}, "", "    ")
	if err != nil {
		return fmt.Errorf("encode marker: %w", err)
	}

	if err := writeFileAtomic(m.path, data); err != nil {
		return fmt.Errorf("write marker: %w", err)
	}

	return nil
}

func parseMarkerTime(value string) (time.Time, bool) {
	for _, layout := range markerLayouts {
		if at, err := time.ParseInLocation(layout, value, time.Local); err == nil {
			return at, true
		}
	}

	return time.Time{}, false
}
