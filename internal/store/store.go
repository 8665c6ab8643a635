// Package store persists the inventory: a path-keyed record snapshot held in
// memory and written through to a JSON file or a SQLite database, plus the
// last-scan marker and the error log sidecar.
//
// The store is single-writer. Every mutation saves immediately, and a failed
// save leaves the mutated snapshot in memory, marked dirty, so the caller can
// retry Save. A dirty store is saved again by the next mutation and is never
// replaced by a refresh from disk.
package store

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/joe/file-inventory/internal/inventory"
)

// backupLayout names quarantined corrupt files.
const backupLayout = "20060102-150405"

// Store owns the in-memory snapshot and its backend.
type Store struct {
	backend  Backend
	logger   *slog.Logger
	now      func() time.Time
	snapshot *inventory.Snapshot
	lastSeen time.Time
	corrupt  bool

	// dirty is set by every mutation and cleared by a successful save or load
	dirty bool
}

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Store) {
		s.logger = logger
	}
}

// WithClock sets the clock used to name corrupt-file backups.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		s.now = now
	}
}

// New wraps backend. Call Load before use; until then the snapshot is empty.
func New(backend Backend, opts ...Option) *Store {
	s := &Store{
		backend:  backend,
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
		now:      time.Now,
		snapshot: inventory.NewSnapshot(),
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Open picks a backend for path and wraps it.
func Open(path string, opts ...Option) (*Store, error) {
	backend, err := OpenBackend(path)
	if err != nil {
		return nil, err
	}

	return New(backend, opts...), nil
}

// Close releases the backend.
func (s *Store) Close() error {
	return s.backend.Close()
}

// Dirty reports whether the snapshot holds changes that are not on disk.
func (s *Store) Dirty() bool {
	return s.dirty
}

// LastSeen returns the backend modification time recorded at the last load or save.
func (s *Store) LastSeen() time.Time {
	return s.lastSeen
}

// Load replaces the in-memory snapshot with the stored one. A missing store
// loads as empty. A corrupt store also loads as empty and returns an error
// wrapping ErrCorruptStore; the file stays untouched until the next save moves
// it aside.
func (s *Store) Load(ctx context.Context) (*inventory.Snapshot, error) {
	seen, err := s.backend.ModTime()
	if err != nil {
		return s.snapshot.Clone(), err
	}

	records, err := s.backend.Load(ctx)
	if err != nil {
		if errors.Is(err, ErrCorruptStore) {
			s.logger.Warn("store is corrupt, starting empty", "path", s.backend.Location(), "error", err)
			s.snapshot = inventory.NewSnapshot()
			s.corrupt = true
			s.dirty = false
			s.lastSeen = seen
		}

		return s.snapshot.Clone(), err
	}

	for i := range records {
		records[i] = records[i].Normalize()
	}

	snapshot := inventory.NewSnapshot()
	if stats := snapshot.Merge(records); stats.Skipped > 0 {
		s.logger.Warn("dropped stored records without a path",
			"path", s.backend.Location(), "dropped", stats.Skipped)
	}

	s.snapshot = snapshot
	s.corrupt = false
	s.dirty = false
	s.lastSeen = seen

	s.logger.Info("store loaded", "path", s.backend.Location(), "records", s.snapshot.Len())

	return s.snapshot.Clone(), nil
}

// Location returns where the store lives.
func (s *Store) Location() string {
	return s.backend.Location()
}

// Merge upserts batch by path, last write wins, and saves when the batch
// changed something or earlier changes are still unsaved. On a save failure
// the merged snapshot is kept in memory and the error wraps ErrIO.
func (s *Store) Merge(ctx context.Context, batch []inventory.Record) (inventory.MergeStats, error) {
	stats := s.snapshot.Merge(batch)

	s.logger.Info("merged batch",
		"added", stats.Added, "replaced", stats.Replaced, "skipped", stats.Skipped)

	if stats.Changed() {
		s.dirty = true
	}

	if !s.dirty {
		return stats, nil
	}

	return stats, s.Save(ctx)
}

// Records returns a copy of the current records.
func (s *Store) Records() []inventory.Record {
	return s.snapshot.Records()
}

// Refresh reloads when the backend changed since the last load or save.
func (s *Store) Refresh(ctx context.Context) (bool, error) {
	return s.ReloadIfStale(ctx, s.lastSeen)
}

// ReloadIfStale reloads the snapshot when the backend was modified after
// lastSeen. A dirty store is kept; only Load discards unsaved changes.
func (s *Store) ReloadIfStale(ctx context.Context, lastSeen time.Time) (bool, error) {
	if s.dirty {
		s.logger.Info("store has unsaved changes, not reloading", "path", s.backend.Location())

		return false, nil
	}

	current, err := s.backend.ModTime()
	if err != nil {
		return false, err
	}

	if current.IsZero() || !current.After(lastSeen) {
		return false, nil
	}

	s.logger.Info("store changed on disk, reloading", "path", s.backend.Location())

	if _, err := s.Load(ctx); err != nil {
		return true, err
	}

	return true, nil
}

// RemoveByDrivePrefix deletes every record whose path starts with prefix and saves.
// Zero matches report 0 and only save when earlier changes are unsaved.
func (s *Store) RemoveByDrivePrefix(ctx context.Context, prefix string) (int, error) {
	if strings.TrimSpace(prefix) == "" {
		return 0, fmt.Errorf("remove by drive: %w", ErrInvalidSelector)
	}

	return s.remove(ctx, "drive", prefix, func(r inventory.Record) bool {
		return strings.HasPrefix(r.Path, prefix)
	})
}

// RemoveByHost deletes every record attributed to host and saves.
// Zero matches report 0 and only save when earlier changes are unsaved.
func (s *Store) RemoveByHost(ctx context.Context, host string) (int, error) {
	if strings.TrimSpace(host) == "" {
		return 0, fmt.Errorf("remove by host: %w", ErrInvalidSelector)
	}

	return s.remove(ctx, "host", host, func(r inventory.Record) bool {
		return r.Host == host
	})
}

// Save writes the full snapshot. After a corrupt load the corrupt file is
// first renamed to a .corrupt-<timestamp> backup.
func (s *Store) Save(ctx context.Context) error {
	if s.corrupt {
		backup, err := s.backend.Quarantine(ctx, s.now().Format(backupLayout))
		if err != nil {
			return err
		}

		s.logger.Warn("moved corrupt store aside", "backup", backup)
		s.corrupt = false
	}

	if err := s.backend.Save(ctx, s.snapshot.Records()); err != nil {
		s.logger.Error("store save failed", "path", s.backend.Location(), "error", err)

		return err
	}

	seen, err := s.backend.ModTime()
	if err != nil {
		return err
	}

	s.dirty = false
	s.lastSeen = seen
	s.logger.Info("store saved", "path", s.backend.Location(), "records", s.snapshot.Len())

	return nil
}

// Snapshot returns a copy of the current snapshot.
func (s *Store) Snapshot() *inventory.Snapshot {
	return s.snapshot.Clone()
}

// Summary returns the record count and byte total.
func (s *Store) Summary() inventory.Summary {
	return s.snapshot.Summary()
}

func (s *Store) remove(
	ctx context.Context, kind, selector string, match func(inventory.Record) bool,
) (int, error) {
	removed := s.snapshot.RemoveWhere(match)

	s.logger.Info("bulk remove", "by", kind, "selector", selector, "removed", removed)

	if removed > 0 {
		s.dirty = true
	}

	if !s.dirty {
		return 0, nil
	}

	return removed, s.Save(ctx)
}
