package scan_test

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	. "github.com/onsi/gomega" //nolint:revive // Dot import is idiomatic for Gomega

	"github.com/joe/file-inventory/internal/classify"
	"github.com/joe/file-inventory/internal/inventory"
	"github.com/joe/file-inventory/internal/scan"
	pkgerrors "github.com/joe/file-inventory/pkg/errors"
	"github.com/joe/file-inventory/pkg/filesystem"
)

type recordingEmitter struct {
	mu     sync.Mutex
	events []scan.Event
}

func (r *recordingEmitter) Emit(event scan.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.events = append(r.events, event)
}

type panickingInspector struct{}

func (panickingInspector) Inspect(string, string) (inventory.Record, error) {
	panic("driver exploded")
}

func newMockScanner(mock *filesystem.MockFileSystem) *scan.Scanner {
	scanner := scan.NewScanner(mock)
	scanner.TimeProvider = &scan.FixedTimeProvider{Time: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)}

	return scanner
}

func TestScan_EmptyDirectory(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	mock := filesystem.NewMockFileSystem()
	mock.AddDir("/empty")

	result, err := newMockScanner(mock).Scan(context.Background(), "/empty", "laptop")

	g.Expect(err).ShouldNot(HaveOccurred())
	g.Expect(result.Records).Should(BeEmpty())
	g.Expect(result.Failures).Should(BeEmpty())
	g.Expect(result.Partial).Should(BeFalse())
}

func TestScan_UnreadableAndReadableFile(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	mock := filesystem.NewMockFileSystem()
	mock.AddFile("/data/locked.bin", 3, time.Now())
	mock.AddFile("/data/ten.txt", 10, time.Now())
	mock.SetStatError("/data/locked.bin", fs.ErrPermission)

	result, err := newMockScanner(mock).Scan(context.Background(), "/data", "laptop")

	g.Expect(err).ShouldNot(HaveOccurred())
	g.Expect(result.Records).Should(HaveLen(1))
	g.Expect(result.Records[0].Path).Should(Equal("/data/ten.txt"))
	g.Expect(result.Records[0].SizeBytes).Should(Equal(int64(10)))
	g.Expect(result.Records[0].Host).Should(Equal("laptop"))
	g.Expect(result.Failures).Should(HaveLen(1))
	g.Expect(result.Failures[0].Path).Should(Equal("/data/locked.bin"))
	g.Expect(result.Failures[0].Reason).Should(ContainSubstring("permission denied"))
	g.Expect(result.Failures[0].Category).Should(Equal(pkgerrors.CategoryPermission.String()))
	g.Expect(result.TotalBytes).Should(Equal(int64(10)))
}

func TestScan_InvalidRoot(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	mock := filesystem.NewMockFileSystem()
	mock.AddFile("/file.txt", 1, time.Now())

	_, err := newMockScanner(mock).Scan(context.Background(), "/missing", "h")
	g.Expect(errors.Is(err, scan.ErrInvalidRoot)).Should(BeTrue())
	g.Expect(errors.Is(err, fs.ErrNotExist)).Should(BeTrue())

	_, err = newMockScanner(mock).Scan(context.Background(), "/file.txt", "h")
	g.Expect(errors.Is(err, scan.ErrInvalidRoot)).Should(BeTrue())
}

func TestScan_UnreadableRootIsFatal(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	mock := filesystem.NewMockFileSystem()
	mock.AddDir("/locked")
	mock.SetReadDirError("/locked", fs.ErrPermission)

	result, err := newMockScanner(mock).Scan(context.Background(), "/locked", "h")

	g.Expect(errors.Is(err, fs.ErrPermission)).Should(BeTrue())
	g.Expect(result).ShouldNot(BeNil())
	g.Expect(result.Records).Should(BeEmpty())
}

func TestScan_SkipsUnreadableSubtree(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	mock := filesystem.NewMockFileSystem()
	mock.AddFile("/data/private/secret.txt", 1, time.Now())
	mock.AddFile("/data/public/ok.txt", 2, time.Now())
	mock.SetReadDirError("/data/private", fs.ErrPermission)

	emitter := &recordingEmitter{}
	scanner := newMockScanner(mock)
	scanner.SetEventEmitter(emitter)

	result, err := scanner.Scan(context.Background(), "/data", "h")

	g.Expect(err).ShouldNot(HaveOccurred())
	g.Expect(result.Records).Should(HaveLen(1))
	g.Expect(result.Skipped).Should(HaveLen(1))
	g.Expect(result.Skipped[0].Path).Should(Equal("/data/private"))
	g.Expect(emitter.events).Should(ContainElement(BeAssignableToTypeOf(scan.DirectorySkipped{})))
}

func TestScan_AppliesFilter(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	mock := filesystem.NewMockFileSystem()
	mock.AddFile("/data/keep.txt", 1, time.Now())
	mock.AddFile("/data/scratch.tmp", 1, time.Now())
	mock.AddFile("/data/node_modules/lib/index.js", 1, time.Now())

	filter, err := scan.NewPatternFilter(nil, []string{"*.tmp", "node_modules"})
	g.Expect(err).ShouldNot(HaveOccurred())

	scanner := newMockScanner(mock)
	scanner.Filter = filter

	result, err := scanner.Scan(context.Background(), "/data", "h")

	g.Expect(err).ShouldNot(HaveOccurred())
	g.Expect(result.Records).Should(HaveLen(1))
	g.Expect(result.Records[0].Name).Should(Equal("keep.txt"))
	g.Expect(result.Excluded).Should(Equal(2))
}

func TestScan_ClassifiesRecords(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	mock := filesystem.NewMockFileSystem()
	mock.AddFile("/data/settings/prefs.ini", 1, time.Now())
	mock.AddFile("/data/notes.txt", 1, time.Now())

	result, err := newMockScanner(mock).Scan(context.Background(), "/data", "h")

	g.Expect(err).ShouldNot(HaveOccurred())

	groups := map[string]string{}
	for _, r := range result.Records {
		groups[r.Name] = r.Group()
	}

	g.Expect(groups).Should(Equal(map[string]string{
		"prefs.ini": classify.GroupConfig,
		"notes.txt": "",
	}))
}

func TestScan_CancellationReturnsPartialResult(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	mock := filesystem.NewMockFileSystem()
	mock.AddFile("/data/a.txt", 1, time.Now())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result, err := newMockScanner(mock).Scan(ctx, "/data", "h")

	g.Expect(errors.Is(err, context.Canceled)).Should(BeTrue())
	g.Expect(result.Partial).Should(BeTrue())
	g.Expect(result.Records).Should(BeEmpty())
}

func TestScan_RecoversFromPanickingInspector(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	mock := filesystem.NewMockFileSystem()
	mock.AddFile("/data/a.txt", 1, time.Now())
	mock.AddFile("/data/b.txt", 1, time.Now())

	scanner := newMockScanner(mock)
	scanner.Inspector = panickingInspector{}

	result, err := scanner.Scan(context.Background(), "/data", "h")

	g.Expect(err).ShouldNot(HaveOccurred())
	g.Expect(result.Records).Should(BeEmpty())
	g.Expect(result.Failures).Should(HaveLen(2))
	g.Expect(result.Failures[0].Reason).Should(ContainSubstring("driver exploded"))
}

func TestScan_EmitsLifecycleEvents(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	mock := filesystem.NewMockFileSystem()
	mock.AddFile("/data/a.txt", 1, time.Now())
	mock.AddFile("/data/b.txt", 1, time.Now())
	mock.AddFile("/data/c.txt", 1, time.Now())

	emitter := &recordingEmitter{}
	scanner := newMockScanner(mock)
	scanner.ProgressInterval = 2
	scanner.SetEventEmitter(emitter)

	_, err := scanner.Scan(context.Background(), "/data", "h")
	g.Expect(err).ShouldNot(HaveOccurred())

	g.Expect(emitter.events).Should(HaveLen(3))
	g.Expect(emitter.events[0]).Should(Equal(scan.ScanStarted{Root: "/data", Host: "h"}))

	progress, ok := emitter.events[1].(scan.ScanProgress)
	g.Expect(ok).Should(BeTrue())
	g.Expect(progress.Files).Should(Equal(2))

	complete, ok := emitter.events[2].(scan.ScanComplete)
	g.Expect(ok).Should(BeTrue())
	g.Expect(complete.Result.Records).Should(HaveLen(3))
}

func TestScan_RealFileSystemWithDanglingSymlink(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	root := t.TempDir()
	g.Expect(os.WriteFile(filepath.Join(root, "ten.txt"), []byte("0123456789"), 0o600)).Should(Succeed())
	g.Expect(os.Symlink(filepath.Join(root, "gone"), filepath.Join(root, "broken"))).Should(Succeed())

	result, err := scan.NewScanner(filesystem.NewRealFileSystem()).Scan(context.Background(), root, "laptop")

	g.Expect(err).ShouldNot(HaveOccurred())
	g.Expect(result.Records).Should(HaveLen(1))
	g.Expect(result.Records[0].SizeBytes).Should(Equal(int64(10)))
	g.Expect(result.Records[0].Extension).Should(Equal(".txt"))
	g.Expect(result.Failures).Should(HaveLen(1))
	g.Expect(result.Failures[0].Path).Should(Equal(filepath.Join(root, "broken")))
	g.Expect(result.Failures[0].Category).Should(Equal(pkgerrors.CategoryPath.String()))
}
