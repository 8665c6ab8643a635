package session_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	. "github.com/onsi/gomega" //nolint:revive // Dot import is idiomatic for Gomega

	"github.com/joe/file-inventory/internal/inventory"
	"github.com/joe/file-inventory/internal/scan"
	"github.com/joe/file-inventory/internal/session"
	"github.com/joe/file-inventory/internal/store"
	"github.com/joe/file-inventory/pkg/filesystem"
)

var (
	errDiskFull = errors.New("no space left on device")
	scanTime    = time.Date(2024, 5, 6, 7, 8, 9, 0, time.UTC)
)

// fakeBackend keeps records in memory and fails the next failSaves saves.
type fakeBackend struct {
	mu        sync.Mutex
	records   []inventory.Record
	saves     int
	failSaves int
	modTime   time.Time
}

func (f *fakeBackend) Load(context.Context) ([]inventory.Record, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	return append([]inventory.Record(nil), f.records...), nil
}

func (f *fakeBackend) Save(_ context.Context, records []inventory.Record) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.saves++
	if f.failSaves > 0 {
		f.failSaves--

		return errors.Join(store.ErrIO, errDiskFull)
	}

	f.records = append([]inventory.Record(nil), records...)
	f.modTime = f.modTime.Add(time.Second)

	return nil
}

func (f *fakeBackend) ModTime() (time.Time, error) { return f.modTime, nil }

func (f *fakeBackend) Quarantine(context.Context, string) (string, error) { return "", nil }

func (f *fakeBackend) Location() string { return "memory" }

func (f *fakeBackend) Close() error { return nil }

type fixture struct {
	fs       *filesystem.MockFileSystem
	backend  *fakeBackend
	marker   *store.Marker
	errorLog *store.ErrorLog
	session  *session.Session
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	dir := t.TempDir()
	f := &fixture{
		fs:       filesystem.NewMockFileSystem(),
		backend:  &fakeBackend{modTime: scanTime},
		marker:   store.NewMarker(filepath.Join(dir, "last_scan.json")),
		errorLog: store.NewErrorLog(filepath.Join(dir, "error_log.json")),
	}

	scanner := scan.NewScanner(f.fs)
	scanner.TimeProvider = &scan.FixedTimeProvider{Time: scanTime}

	f.session = session.New(session.Config{
		Store:    store.New(f.backend),
		Scanner:  scanner,
		Marker:   f.marker,
		ErrorLog: f.errorLog,
		Host:     "laptop",
		Now:      func() time.Time { return scanTime },
	})

	return f
}

func TestScanMergesSavesAndMarks(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	f := newFixture(t)
	f.fs.AddFile("/data/a.txt", 10, scanTime)
	f.fs.AddFile("/data/sub/b.bin", 20, scanTime)

	outcome, err := f.session.Scan(context.Background(), "/data")

	g.Expect(err).ShouldNot(HaveOccurred())
	g.Expect(outcome.Merge.Added).Should(Equal(2))
	g.Expect(outcome.Saved).Should(BeTrue())
	g.Expect(outcome.MarkerUpdated).Should(BeTrue())
	g.Expect(outcome.ErrorLogWritten).Should(BeFalse())
	g.Expect(f.backend.records).Should(HaveLen(2))
	g.Expect(f.session.Summary()).Should(Equal(inventory.Summary{Count: 2, TotalBytes: 30}))
	g.Expect(f.session.Hosts()).Should(Equal([]string{"laptop"}))

	at, ok := f.session.LastScan()
	g.Expect(ok).Should(BeTrue())
	g.Expect(at.Equal(scanTime)).Should(BeTrue())

	_, statErr := os.Stat(f.errorLog.Path())
	g.Expect(os.IsNotExist(statErr)).Should(BeTrue())
}

func TestScanWritesErrorLog(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	f := newFixture(t)
	f.fs.AddFile("/data/secret.txt", 5, scanTime)
	f.fs.AddFile("/data/ok.txt", 10, scanTime)
	f.fs.SetStatError("/data/secret.txt", os.ErrPermission)

	outcome, err := f.session.Scan(context.Background(), "/data")

	g.Expect(err).ShouldNot(HaveOccurred())
	g.Expect(outcome.ErrorLogWritten).Should(BeTrue())

	failures, readErr := f.errorLog.Read()
	g.Expect(readErr).ShouldNot(HaveOccurred())
	g.Expect(failures).Should(HaveLen(1))
	g.Expect(failures[0].Path).Should(Equal("/data/secret.txt"))
	g.Expect(f.session.Records()).Should(HaveLen(1))
}

func TestScanInvalidRoot(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	f := newFixture(t)

	outcome, err := f.session.Scan(context.Background(), "/missing")

	g.Expect(err).Should(MatchError(scan.ErrInvalidRoot))
	g.Expect(outcome).Should(BeNil())

	_, ok := f.session.LastScan()
	g.Expect(ok).Should(BeFalse())
}

func TestScanRetriesFailedSave(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	f := newFixture(t)
	f.fs.AddFile("/data/a.txt", 10, scanTime)
	f.backend.failSaves = 2

	outcome, err := f.session.Scan(context.Background(), "/data")

	g.Expect(err).ShouldNot(HaveOccurred())
	g.Expect(outcome.Saved).Should(BeTrue())
	g.Expect(f.backend.saves).Should(Equal(3))
	g.Expect(f.session.SaveFailed()).Should(BeFalse())
}

func TestScanKeepsRecordsWhenSavesKeepFailing(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	f := newFixture(t)
	f.fs.AddFile("/data/a.txt", 10, scanTime)
	f.backend.failSaves = 5

	outcome, err := f.session.Scan(context.Background(), "/data")

	g.Expect(err).Should(MatchError(session.ErrSaveFailed))
	g.Expect(err).Should(MatchError(store.ErrIO))
	g.Expect(outcome.Saved).Should(BeFalse())
	g.Expect(outcome.MarkerUpdated).Should(BeFalse())
	g.Expect(f.backend.saves).Should(Equal(session.DefaultSaveAttempts))
	g.Expect(f.session.SaveFailed()).Should(BeTrue())
	g.Expect(f.session.Records()).Should(HaveLen(1))

	// Unsaved changes are not overwritten by a refresh
	reloaded, refreshErr := f.session.Refresh(context.Background())
	g.Expect(refreshErr).ShouldNot(HaveOccurred())
	g.Expect(reloaded).Should(BeFalse())

	g.Expect(f.session.Save(context.Background())).Should(Succeed())
	g.Expect(f.session.SaveFailed()).Should(BeFalse())
	g.Expect(f.backend.records).Should(HaveLen(1))
}

func TestScanCancelledMergesWithoutMarker(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	f := newFixture(t)
	f.fs.AddFile("/data/a.txt", 10, scanTime)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	outcome, err := f.session.Scan(ctx, "/data")

	g.Expect(err).Should(MatchError(context.Canceled))
	g.Expect(outcome.Result.Partial).Should(BeTrue())
	g.Expect(outcome.MarkerUpdated).Should(BeFalse())

	_, ok := f.session.LastScan()
	g.Expect(ok).Should(BeFalse())
}

func TestRemoveHostAndDrive(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	f := newFixture(t)
	f.backend.records = []inventory.Record{
		inventory.NewRecord("/data/a.txt", "a.txt", 1, scanTime, "laptop"),
		inventory.NewRecord(`C:\b.txt`, "b.txt", 2, scanTime, "desk"),
		inventory.NewRecord(`D:\c.txt`, "c.txt", 3, scanTime, "desk"),
	}
	g.Expect(f.session.Load(context.Background())).Should(Succeed())
	g.Expect(f.session.Drives()).Should(Equal([]string{"/", `C:\`, `D:\`}))

	removed, err := f.session.RemoveDrive(context.Background(), `C:\`)
	g.Expect(err).ShouldNot(HaveOccurred())
	g.Expect(removed).Should(Equal(1))

	removed, err = f.session.RemoveHost(context.Background(), "desk")
	g.Expect(err).ShouldNot(HaveOccurred())
	g.Expect(removed).Should(Equal(1))
	g.Expect(f.backend.records).Should(HaveLen(1))

	removed, err = f.session.RemoveHost(context.Background(), "nobody")
	g.Expect(err).ShouldNot(HaveOccurred())
	g.Expect(removed).Should(BeZero())

	_, err = f.session.RemoveHost(context.Background(), "")
	g.Expect(err).Should(MatchError(store.ErrInvalidSelector))
}

func TestRefreshAndReload(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	f := newFixture(t)
	g.Expect(f.session.Load(context.Background())).Should(Succeed())

	reloaded, err := f.session.Refresh(context.Background())
	g.Expect(err).ShouldNot(HaveOccurred())
	g.Expect(reloaded).Should(BeFalse())

	// Another writer replaces the store
	f.backend.records = []inventory.Record{inventory.NewRecord("/x", "x", 1, scanTime, "other")}
	f.backend.modTime = f.backend.modTime.Add(time.Minute)

	reloaded, err = f.session.Refresh(context.Background())
	g.Expect(err).ShouldNot(HaveOccurred())
	g.Expect(reloaded).Should(BeTrue())
	g.Expect(f.session.Records()).Should(HaveLen(1))

	f.backend.records = nil
	g.Expect(f.session.Reload(context.Background())).Should(Succeed())
	g.Expect(f.session.Records()).Should(BeEmpty())
}

func TestUnsavedRecordsSurviveEmptyScanAndRefresh(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	f := newFixture(t)
	f.fs.AddFile("/data/a.txt", 10, scanTime)
	f.fs.AddDir("/empty")
	f.backend.failSaves = 2 * session.DefaultSaveAttempts

	_, err := f.session.Scan(context.Background(), "/data")
	g.Expect(err).Should(MatchError(session.ErrSaveFailed))

	// Nothing new to merge, but the earlier records are still only in memory
	outcome, err := f.session.Scan(context.Background(), "/empty")
	g.Expect(err).Should(MatchError(session.ErrSaveFailed))
	g.Expect(outcome.Saved).Should(BeFalse())
	g.Expect(outcome.MarkerUpdated).Should(BeFalse())
	g.Expect(f.session.SaveFailed()).Should(BeTrue())

	_, scanned := f.session.LastScan()
	g.Expect(scanned).Should(BeFalse())

	f.backend.modTime = f.backend.modTime.Add(time.Minute)

	reloaded, err := f.session.Refresh(context.Background())
	g.Expect(err).ShouldNot(HaveOccurred())
	g.Expect(reloaded).Should(BeFalse())
	g.Expect(f.session.Records()).Should(HaveLen(1))
}

func TestEmptyScanSavesEarlierUnsavedRecords(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	f := newFixture(t)
	f.fs.AddFile("/data/a.txt", 10, scanTime)
	f.fs.AddDir("/empty")
	f.backend.failSaves = session.DefaultSaveAttempts

	_, err := f.session.Scan(context.Background(), "/data")
	g.Expect(err).Should(MatchError(session.ErrSaveFailed))
	g.Expect(f.backend.records).Should(BeEmpty())

	outcome, err := f.session.Scan(context.Background(), "/empty")
	g.Expect(err).ShouldNot(HaveOccurred())
	g.Expect(outcome.Merge.Changed()).Should(BeFalse())
	g.Expect(outcome.Saved).Should(BeTrue())
	g.Expect(outcome.MarkerUpdated).Should(BeTrue())
	g.Expect(f.session.SaveFailed()).Should(BeFalse())
	g.Expect(f.backend.records).Should(HaveLen(1))
}

func TestRemoveAfterFailedSaveClearsUnsavedState(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	f := newFixture(t)
	f.backend.records = []inventory.Record{inventory.NewRecord("/old/b.txt", "b.txt", 2, scanTime, "desk")}
	g.Expect(f.session.Load(context.Background())).Should(Succeed())

	f.fs.AddFile("/data/a.txt", 10, scanTime)
	f.backend.failSaves = session.DefaultSaveAttempts

	_, err := f.session.Scan(context.Background(), "/data")
	g.Expect(err).Should(MatchError(session.ErrSaveFailed))
	g.Expect(f.session.SaveFailed()).Should(BeTrue())

	removed, err := f.session.RemoveHost(context.Background(), "desk")
	g.Expect(err).ShouldNot(HaveOccurred())
	g.Expect(removed).Should(Equal(1))
	g.Expect(f.backend.saves).Should(Equal(session.DefaultSaveAttempts + 1))
	g.Expect(f.session.SaveFailed()).Should(BeFalse())
	g.Expect(f.backend.records).Should(HaveLen(1))
	g.Expect(f.backend.records[0].Path).Should(Equal("/data/a.txt"))

	// Clean again, so changes by other writers are picked up
	f.backend.modTime = f.backend.modTime.Add(time.Minute)

	reloaded, err := f.session.Refresh(context.Background())
	g.Expect(err).ShouldNot(HaveOccurred())
	g.Expect(reloaded).Should(BeTrue())
}
