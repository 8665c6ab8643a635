//nolint:varnamelen // Test files use idiomatic short variable names (t, g, etc.)
package screens_test

import (
	"errors"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	. "github.com/onsi/gomega" //nolint:revive // Dot import is idiomatic for Gomega matchers

	"github.com/joe/file-inventory/internal/inventory"
	"github.com/joe/file-inventory/internal/scan"
	"github.com/joe/file-inventory/internal/session"
	"github.com/joe/file-inventory/internal/tui/screens"
	"github.com/joe/file-inventory/internal/tui/shared"
)

var started = time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)

func TestScanScreen_AppliesEvents(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	var model tea.Model = screens.NewScanScreen("/data", func() {}, started)

	model, _ = model.Update(shared.ScanEventMsg{Event: scan.ScanProgress{Files: 250, Bytes: 2048, Current: "/data/x"}})
	model, _ = model.Update(shared.ScanEventMsg{Event: scan.FileFailed{Failure: inventory.Failure{Path: "/data/y"}}})
	model, _ = model.Update(shared.ClockMsg(started.Add(90 * time.Second)))

	screen := model.(screens.ScanScreen)
	g.Expect(screen.Files()).To(Equal(250))
	g.Expect(screen.Failures()).To(Equal(1))

	view := screen.View()
	g.Expect(view).To(ContainSubstring("/data"))
	g.Expect(view).To(ContainSubstring("2.0 KiB"))
	g.Expect(view).To(ContainSubstring("1m 30s"))
}

func TestScanScreen_CompleteUsesResultTotals(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	result := &scan.Result{
		Records:  []inventory.Record{{Path: "/a"}, {Path: "/b"}},
		Failures: []inventory.Failure{{Path: "/c"}},
	}

	model, _ := screens.NewScanScreen("/data", nil, started).Update(shared.ScanEventMsg{Event: scan.ScanComplete{Result: result}})

	g.Expect(model.(screens.ScanScreen).Files()).To(Equal(2))
	g.Expect(model.(screens.ScanScreen).Failures()).To(Equal(1))
}

func TestScanScreen_EscCancelsOnce(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	calls := 0
	var model tea.Model = screens.NewScanScreen("/data", func() { calls++ }, started)

	model, _ = model.Update(key(tea.KeyEsc))
	model, _ = model.Update(key(tea.KeyEsc))

	g.Expect(calls).To(Equal(1))
	g.Expect(model.(screens.ScanScreen).Cancelling()).To(BeTrue())
	g.Expect(model.View()).To(ContainSubstring("Stopping"))
}

func TestScanSummaryScreen_Saved(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	outcome := &session.ScanOutcome{
		Result: &scan.Result{Root: "/data", Records: []inventory.Record{{Path: "/data/a"}}},
		Merge:  inventory.MergeStats{Added: 1},
		Saved:  true,
	}
	screen := screens.NewScanSummaryScreen(outcome, nil, "error_log.json")

	g.Expect(screen.View()).To(ContainSubstring("Scan complete"))
	g.Expect(screen.View()).To(ContainSubstring("Inventory saved"))
	g.Expect(screen.CanRetrySave()).To(BeFalse())

	_, cmd := screen.Update(key(tea.KeyEnter))
	g.Expect(msgOf(cmd)).To(Equal(shared.HomeMsg{}))

	_, cmd = screen.Update(runes("r"))
	g.Expect(cmd).To(BeNil())
}

func TestScanSummaryScreen_UnsavedOffersRetry(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	outcome := &session.ScanOutcome{
		Result: &scan.Result{
			Root:     "/data",
			Partial:  true,
			Failures: []inventory.Failure{{Path: "/data/locked", Reason: "permission denied", Category: "permission"}},
		},
		ErrorLogWritten: true,
	}
	screen := screens.NewScanSummaryScreen(outcome, errors.New("disk full"), "error_log.json")

	view := screen.View()
	g.Expect(view).To(ContainSubstring("Scan stopped"))
	g.Expect(view).To(ContainSubstring("not saved"))
	g.Expect(view).To(ContainSubstring("/data/locked"))
	g.Expect(view).To(ContainSubstring("error_log.json"))
	g.Expect(view).To(ContainSubstring("r: retry save"))

	_, cmd := screen.Update(runes("r"))
	g.Expect(msgOf(cmd)).To(Equal(shared.RetrySaveMsg{}))
}

func TestScanSummaryScreen_FailedToStart(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	screen := screens.NewScanSummaryScreen(nil, scan.ErrInvalidRoot, "")

	g.Expect(screen.View()).To(ContainSubstring("Scan failed"))
	g.Expect(screen.View()).To(ContainSubstring(scan.ErrInvalidRoot.Error()))
}

func TestNoticeScreen(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	notice := screens.NewNoticeScreen("Save failed", nil, errors.New("no space left on device")).WithRetry(shared.RetrySaveMsg{})

	g.Expect(notice.View()).To(ContainSubstring("no space left on device"))
	g.Expect(notice.View()).To(ContainSubstring("r: retry"))

	_, cmd := notice.Update(runes("r"))
	g.Expect(msgOf(cmd)).To(Equal(shared.RetrySaveMsg{}))

	_, cmd = notice.Update(key(tea.KeyEnter))
	g.Expect(msgOf(cmd)).To(Equal(shared.BackMsg{}))
}
