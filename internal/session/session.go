// Package session ties one store to the scanner and the sidecar files. It is
// the only writer of the store, the last-scan marker and the error log, and
// every interface (menu or headless command) works through it.
package session

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/joe/file-inventory/internal/inventory"
	"github.com/joe/file-inventory/internal/report"
	"github.com/joe/file-inventory/internal/scan"
	"github.com/joe/file-inventory/internal/store"
)

// Save retry defaults.
const (
	DefaultSaveAttempts = 3
	DefaultSaveBackoff  = 500 * time.Millisecond
)

// Exported variables.
var (
	ErrSaveFailed = errors.New("inventory could not be saved")
)

// Config wires a Session. Store, Scanner and Marker are required.
type Config struct {
	Store    *store.Store
	Scanner  *scan.Scanner
	Marker   *store.Marker
	ErrorLog *store.ErrorLog // Optional

	// Host labels records of local (non-UNC) files.
	Host string

	// Mounts lists mount points used to split POSIX paths into drives.
	Mounts func() []string

	Logger       *slog.Logger
	Now          func() time.Time
	SaveAttempts int

	// SaveBackoff grows linearly per retry; zero retries immediately.
	SaveBackoff time.Duration
}

// ScanOutcome reports one scan-merge-save cycle.
type ScanOutcome struct {
	Result *scan.Result
	Merge  inventory.MergeStats

	// Saved is false when the merged records only live in memory.
	Saved bool

	// MarkerUpdated is false for partial scans and failed saves.
	MarkerUpdated bool

	// ErrorLogWritten is set when the scan had failures to report.
	ErrorLogWritten bool
}

// Session is the single owner of an open inventory.
type Session struct {
	store      *store.Store
	scanner    *scan.Scanner
	marker     *store.Marker
	errorLog   *store.ErrorLog
	host       string
	mounts     func() []string
	logger     *slog.Logger
	now        func() time.Time
	attempts   int
	backoff    time.Duration
}

// New creates a session from cfg, filling in defaults.
func New(cfg Config) *Session {
	s := &Session{
		store:    cfg.Store,
		scanner:  cfg.Scanner,
		marker:   cfg.Marker,
		errorLog: cfg.ErrorLog,
		host:     cfg.Host,
		mounts:   cfg.Mounts,
		logger:   cfg.Logger,
		now:      cfg.Now,
		attempts: cfg.SaveAttempts,
		backoff:  cfg.SaveBackoff,
	}

	if s.logger == nil {
		s.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	if s.now == nil {
		s.now = time.Now
	}

	if s.mounts == nil {
		s.mounts = func() []string { return nil }
	}

	if s.attempts <= 0 {
		s.attempts = DefaultSaveAttempts
	}

	return s
}

// Load reads the store. A corrupt store still opens (empty) and the error
// wrapping store.ErrCorruptStore is returned as a warning.
func (s *Session) Load(ctx context.Context) error {
	_, err := s.store.Load(ctx)
	if err != nil {
		return fmt.Errorf("failed to load inventory: %w", err)
	}

	return nil
}

// Close releases the store.
func (s *Session) Close() error {
	return s.store.Close()
}

// Host returns the label given to local files.
func (s *Session) Host() string {
	return s.host
}

// Location returns where the store lives.
func (s *Session) Location() string {
	return s.store.Location()
}

// Records returns a copy of every record.
func (s *Session) Records() []inventory.Record {
	return s.store.Records()
}

// Summary returns the record count and byte total.
func (s *Session) Summary() inventory.Summary {
	return s.store.Summary()
}

// Mounts returns the known mount points.
func (s *Session) Mounts() []string {
	return s.mounts()
}

// Hosts returns the distinct hosts in the inventory.
func (s *Session) Hosts() []string {
	return report.Hosts(s.store.Records())
}

// Drives returns the distinct drive prefixes in the inventory.
func (s *Session) Drives() []string {
	return report.Drives(s.store.Records(), s.mounts())
}

// LastScan returns when the last complete scan finished. Problems reading the
// marker are logged and reported as "never".
func (s *Session) LastScan() (time.Time, bool) {
	at, ok, err := s.marker.Read()
	if err != nil {
		s.logger.Warn("could not read last-scan marker", "path", s.marker.Path(), "error", err)

		return time.Time{}, false
	}

	return at, ok
}

// SaveFailed reports whether the in-memory inventory has unsaved changes.
func (s *Session) SaveFailed() bool {
	return s.store.Dirty()
}

// SetEventEmitter forwards scan events to emitter.
func (s *Session) SetEventEmitter(emitter scan.EventEmitter) {
	s.scanner.SetEventEmitter(emitter)
}

// Scan walks root, merges what it found and saves. Failures go to the error
// log; the marker moves only when the scan ran to completion and was saved.
// A cancelled scan still merges and saves what it found.
func (s *Session) Scan(ctx context.Context, root string) (*ScanOutcome, error) {
	if abs, err := filepath.Abs(root); err == nil && !filepath.IsAbs(root) {
		root = abs
	}

	result, scanErr := s.scanner.Scan(ctx, root, s.host)
	if result == nil {
		return nil, fmt.Errorf("scan %s: %w", root, scanErr)
	}

	// Persist even when ctx was cancelled mid-walk
	persistCtx := context.WithoutCancel(ctx)
	outcome := &ScanOutcome{Result: result}

	stats, err := s.store.Merge(persistCtx, result.Records)
	outcome.Merge = stats

	if err != nil {
		s.logger.Warn("save after merge failed, retrying", "error", err)
		err = s.retrySave(persistCtx, 2, err) //nolint:mnd // first attempt was the merge
	}

	outcome.Saved = err == nil && !s.store.Dirty()

	var errs []error

	if scanErr != nil {
		errs = append(errs, scanErr)
	}

	if err != nil {
		errs = append(errs, err)
	}

	failures := make([]inventory.Failure, 0, len(result.Failures)+len(result.Skipped))
	failures = append(failures, result.Failures...)
	failures = append(failures, result.Skipped...)

	if len(failures) > 0 && s.errorLog != nil {
		if logErr := s.errorLog.Write(failures); logErr != nil {
			s.logger.Error("could not write error log", "path", s.errorLog.Path(), "error", logErr)
			errs = append(errs, logErr)
		} else {
			outcome.ErrorLogWritten = true
		}
	}

	if outcome.Saved && !result.Partial && scanErr == nil {
		if markErr := s.marker.Write(s.now()); markErr != nil {
			s.logger.Error("could not update last-scan marker", "path", s.marker.Path(), "error", markErr)
			errs = append(errs, markErr)
		} else {
			outcome.MarkerUpdated = true
		}
	}

	return outcome, errors.Join(errs...)
}

// Save writes the inventory, retrying with a linear backoff.
func (s *Session) Save(ctx context.Context) error {
	return s.retrySave(ctx, 1, nil)
}

// RemoveHost deletes every record of host.
func (s *Session) RemoveHost(ctx context.Context, host string) (int, error) {
	removed, err := s.store.RemoveByHost(ctx, host)

	return removed, s.afterRemove(ctx, err)
}

// RemoveDrive deletes every record under the drive prefix.
func (s *Session) RemoveDrive(ctx context.Context, prefix string) (int, error) {
	removed, err := s.store.RemoveByDrivePrefix(ctx, prefix)

	return removed, s.afterRemove(ctx, err)
}

// Reload rereads the store from disk, dropping unsaved changes.
func (s *Session) Reload(ctx context.Context) error {
	return s.Load(ctx)
}

// Refresh reloads when another process changed the store. Unsaved changes
// win over the file on disk.
func (s *Session) Refresh(ctx context.Context) (bool, error) {
	if s.store.Dirty() {
		return false, nil
	}

	reloaded, err := s.store.Refresh(ctx)
	if err != nil {
		return reloaded, fmt.Errorf("failed to refresh inventory: %w", err)
	}

	return reloaded, nil
}

func (s *Session) afterRemove(ctx context.Context, err error) error {
	if err == nil || errors.Is(err, store.ErrInvalidSelector) {
		return err
	}

	s.logger.Warn("save after remove failed, retrying", "error", err)

	return s.retrySave(ctx, 2, err) //nolint:mnd // first attempt was the remove
}

// retrySave keeps saving until an attempt succeeds or attempts run out,
// starting at attempt first. err is the failure of the attempt before first.
func (s *Session) retrySave(ctx context.Context, first int, err error) error {
	for attempt := first; attempt <= s.attempts; attempt++ {
		if attempt > 1 {
			if waitErr := sleep(ctx, time.Duration(attempt-1)*s.backoff); waitErr != nil {
				return fmt.Errorf("%w: %w", ErrSaveFailed, errors.Join(err, waitErr))
			}
		}

		if err = s.store.Save(ctx); err == nil {
			return nil
		}

		s.logger.Warn("save attempt failed", "attempt", attempt, "of", s.attempts, "error", err)
	}

	if err == nil {
		return nil
	}

	return fmt.Errorf("%w after %d attempts: %w", ErrSaveFailed, s.attempts, err)
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
