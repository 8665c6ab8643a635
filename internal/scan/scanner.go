// Package scan walks a directory tree and inspects every file into a Record.
//
// A scan never persists anything and never stops on a single bad file:
// unreadable files become failures, unreadable directories are skipped with
// their subtree, and the walk carries on. Cancelling the context ends the walk
// early with a partial result.
package scan

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/joe/file-inventory/internal/classify"
	"github.com/joe/file-inventory/internal/inventory"
	pkgerrors "github.com/joe/file-inventory/pkg/errors"
	"github.com/joe/file-inventory/pkg/filesystem"
)

// DefaultProgressInterval is how many files pass between ScanProgress events.
const DefaultProgressInterval = 250

// Exported variables.
var (
	ErrInvalidRoot    = errors.New("scan root is not an existing directory")
	ErrInvalidPattern = errors.New("invalid glob pattern")
	ErrIsDirectory    = errors.New("is a directory")
)

// Result is the outcome of one scan.
type Result struct {
	Root       string
	Host       string
	Records    []inventory.Record
	Failures   []inventory.Failure
	Skipped    []inventory.Failure
	Excluded   int
	TotalBytes int64
	StartedAt  time.Time
	FinishedAt time.Time

	// Partial is set when the scan was cancelled before the walk finished.
	Partial bool
}

// Duration returns how long the scan took.
func (r *Result) Duration() time.Duration {
	return r.FinishedAt.Sub(r.StartedAt)
}

// Scanner orchestrates walking, filtering, probing and classification.
type Scanner struct {
	FS               filesystem.FileSystem
	Inspector           Inspector
	Filter           FileFilter // Optional include/exclude filter
	Classifier       *classify.Classifier
	TimeProvider     TimeProvider
	Logger           *slog.Logger
	ProgressInterval int
	emitter          EventEmitter
	enricher         pkgerrors.Enricher
}

// NewScanner creates a scanner over fsys with the default inspector and rules.
func NewScanner(fsys filesystem.FileSystem) *Scanner {
	return &Scanner{
		FS:               fsys,
		Inspector:           NewMetadataInspector(fsys),
		Classifier:       classify.Default(),
		TimeProvider:     &RealTimeProvider{},
		Logger:           slog.New(slog.NewTextHandler(io.Discard, nil)),
		ProgressInterval: DefaultProgressInterval,
		enricher:         pkgerrors.NewEnricher(),
	}
}

// SetEventEmitter sets the event emitter for progress reporting.
// The emitter is optional - if nil, no events will be emitted.
func (s *Scanner) SetEventEmitter(emitter EventEmitter) {
	s.emitter = emitter
}

// Scan walks root and returns every file it could inspect. host labels records
// not on a network share. The returned error is non-nil when root is invalid,
// when the root itself cannot be read, or when ctx was cancelled; in the last
// case the partial result is returned alongside.
func (s *Scanner) Scan(ctx context.Context, root, host string) (*Result, error) {
	info, err := s.FS.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrInvalidRoot, root, err)
	}

	if !info.IsDir() {
		return nil, fmt.Errorf("%w: %s", ErrInvalidRoot, root)
	}

	result := &Result{
		Root:      root,
		Host:      host,
		StartedAt: s.TimeProvider.Now(),
	}

	s.Logger.Info("scan started", "root", root, "host", host)
	s.emit(ScanStarted{Root: root, Host: host})

	walkErr := s.walk(ctx, result)

	result.FinishedAt = s.TimeProvider.Now()
	s.emit(ScanComplete{Result: result})
	s.Logger.Info("scan finished",
		"root", root,
		"files", len(result.Records),
		"failures", len(result.Failures),
		"skipped_dirs", len(result.Skipped),
		"partial", result.Partial,
		"duration", result.Duration(),
	)

	if walkErr != nil {
		return result, walkErr
	}

	return result, nil
}

func (s *Scanner) walk(ctx context.Context, result *Result) error {
	walker := s.FS.Walk(result.Root)

	for {
		if err := ctx.Err(); err != nil {
			result.Partial = true

			return fmt.Errorf("scan %s cancelled: %w", result.Root, err)
		}

		entry, ok := walker.Next()
		if !ok {
			break
		}

		switch {
		case entry.Err != nil:
			s.skipDirectory(result, entry)
		case entry.IsDir:
			if s.Filter != nil && !s.Filter.ShouldDescend(entry.RelativePath) {
				walker.SkipDir()
				result.Excluded++
			}
		case s.Filter != nil && !s.Filter.ShouldInclude(entry.RelativePath):
			result.Excluded++
		default:
			s.inspectFile(result, entry)
		}
	}

	if err := walker.Err(); err != nil {
		return fmt.Errorf("scan %s: %w", result.Root, err)
	}

	return nil
}

func (s *Scanner) skipDirectory(result *Result, entry filesystem.FileInfo) {
	failure := newInspectError(s.enricher, entry.Path, entry.Err).Failure()
	result.Skipped = append(result.Skipped, failure)

	s.Logger.Warn("directory skipped", "path", entry.Path, "error", entry.Err)
	s.emit(DirectorySkipped{Failure: failure})
}

func (s *Scanner) inspectFile(result *Result, entry filesystem.FileInfo) {
	record, err := s.inspectSafely(entry.Path, result.Host)
	if err != nil {
		failure := newInspectError(s.enricher, entry.Path, err).Failure()
		result.Failures = append(result.Failures, failure)

		s.Logger.Debug("inspect failed", "path", entry.Path, "error", err)
		s.emit(FileFailed{Failure: failure})

		return
	}

	if s.Classifier != nil {
		record = s.Classifier.Apply(record, entry.RelativePath)
	}

	result.Records = append(result.Records, record)
	result.TotalBytes += record.SizeBytes

	if s.ProgressInterval > 0 && len(result.Records)%s.ProgressInterval == 0 {
		s.emit(ScanProgress{
			Files:    len(result.Records),
			Failures: len(result.Failures),
			Bytes:    result.TotalBytes,
			Current:  entry.Path,
		})
	}
}

// inspectSafely turns a panicking inspector into an ordinary failure.
func (s *Scanner) inspectSafely(path, host string) (record inventory.Record, err error) {
	defer func() {
		if recovered := recover(); recovered != nil {
			err = fmt.Errorf("inspect panicked: %v", recovered) //nolint:err113 // Carries the recovered value
		}
	}()

	return s.Inspector.Inspect(path, host)
}

// emit sends an event if an emitter is configured.
func (s *Scanner) emit(event Event) {
	if s.emitter != nil {
		s.emitter.Emit(event)
	}
}
