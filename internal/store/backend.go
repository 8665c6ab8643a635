package store

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joe/file-inventory/internal/inventory"
)

// Exported variables.
var (
	ErrCorruptStore    = errors.New("inventory store is corrupt")
	ErrIO              = errors.New("inventory store i/o failure")
	ErrInvalidSelector = errors.New("selector must not be empty")
)

// Backend persists a full list of records at one location.
type Backend interface {
	// Load returns the stored records. A missing store yields (nil, nil).
	// Unparsable content wraps ErrCorruptStore; other failures wrap ErrIO.
	Load(ctx context.Context) ([]inventory.Record, error)

	// Save replaces the stored records atomically.
	Save(ctx context.Context, records []inventory.Record) error

	// ModTime returns the last modification time, zero when the store is missing.
	ModTime() (time.Time, error)

	// Quarantine moves the current file aside and returns the backup path.
	Quarantine(ctx context.Context, suffix string) (string, error)

	// Location returns the path of the store.
	Location() string

	Close() error
}

// OpenBackend picks a backend from the file extension: .db, .sqlite and
// .sqlite3 use SQLite, anything else the JSON file format.
func OpenBackend(path string) (Backend, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("%w: store path cannot be empty", ErrIO)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".db", ".sqlite", ".sqlite3":
		return OpenSQLite(path)
	default:
		return NewJSONFile(path), nil
	}
}

func modTime(path string) (time.Time, error) {
	info, err := os.Stat(path)
	if errors.Is(err, os.ErrNotExist) {
		return time.Time{}, nil
	}

	if err != nil {
		return time.Time{}, fmt.Errorf("%w: stat %s: %w", ErrIO, path, err)
	}

	return info.ModTime(), nil
}

func quarantine(path, suffix string) (string, error) {
	backup := path + ".corrupt-" + suffix

	if err := os.Rename(path, backup); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", nil
		}

		return "", fmt.Errorf("%w: back up %s: %w", ErrIO, path, err)
	}

	return backup, nil
}
