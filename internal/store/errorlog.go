package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/joe/file-inventory/internal/inventory"
)

// ErrorLog is the sidecar listing the paths the most recent scan failed on.
type ErrorLog struct {
	path string
}

// NewErrorLog returns the error log at path.
func NewErrorLog(path string) *ErrorLog {
	return &ErrorLog{path: path}
}

// Path returns the sidecar's file path.
func (e *ErrorLog) Path() string {
	return e.path
}

// Read returns the logged failures; a missing file is an empty log.
func (e *ErrorLog) Read() ([]inventory.Failure, error) {
	data, err := os.ReadFile(e.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}

	if err != nil {
		return nil, fmt.Errorf("read error log %s: %w", e.path, err)
	}

	var failures []inventory.Failure
	if err := json.Unmarshal(data, &failures); err != nil {
		return nil, fmt.Errorf("decode error log %s: %w", e.path, err)
	}

	return failures, nil
}

// Write replaces the log with failures.
func (e *ErrorLog) Write(failures []inventory.Failure) error {
	if failures == nil {
		failures = []inventory.Failure{}
	}

	data, err := json.MarshalIndent(failures, "", "    ")
	if err != nil {
		return fmt.Errorf("encode error log: %w", err)
	}

	if err := writeFileAtomic(e.path, data); err != nil {
		return fmt.Errorf("write error log: %w", err)
	}

	return nil
}
