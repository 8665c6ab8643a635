package store

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/joe/file-inventory/internal/inventory"
)

// JSONFile stores records as one indented JSON array.
type JSONFile struct {
	path string
}

// NewJSONFile returns a backend for the JSON file at path.
func NewJSONFile(path string) *JSONFile {
	return &JSONFile{path: path}
}

// Close is a no-op; the file is only open during Load and Save.
func (j *JSONFile) Close() error {
	return nil
}

// Load reads the array. An empty or null file is an empty inventory.
func (j *JSONFile) Load(_ context.Context) ([]inventory.Record, error) {
	data, err := os.ReadFile(j.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}

	if err != nil {
		return nil, fmt.Errorf("%w: read %s: %w", ErrIO, j.path, err)
	}

	if len(bytes.TrimSpace(data)) == 0 {
		return nil, nil
	}

	var records []inventory.Record
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrCorruptStore, j.path, err)
	}

	return records, nil
}

// Location returns the file path.
func (j *JSONFile) Location() string {
	return j.path
}

// ModTime returns the file's modification time.
func (j *JSONFile) ModTime() (time.Time, error) {
	return modTime(j.path)
}

// Quarantine renames the file to a .corrupt backup.
func (j *JSONFile) Quarantine(_ context.Context, suffix string) (string, error) {
	return quarantine(j.path, suffix)
}

// Save writes the records atomically.
func (j *JSONFile) Save(_ context.Context, records []inventory.Record) error {
	if records == nil {
		records = []inventory.Record{}
	}

	data, err := json.MarshalIndent(records, "", "    ")
	if err != nil {
		return fmt.Errorf("%w: encode records: %w", ErrIO, err)
	}

	if err := writeFileAtomic(j.path, data); err != nil {
		return fmt.Errorf("%w: %w", ErrIO, err)
	}

	return nil
}
