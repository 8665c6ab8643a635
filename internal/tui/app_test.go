package tui_test

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	. "github.com/onsi/ginkgo/v2" //nolint:revive // Dot import is idiomatic for Ginkgo
	. "github.com/onsi/gomega"    //nolint:revive // Dot import is idiomatic for Gomega matchers

	"github.com/joe/file-inventory/internal/config"
	"github.com/joe/file-inventory/internal/discover"
	"github.com/joe/file-inventory/internal/report"
	"github.com/joe/file-inventory/internal/scan"
	"github.com/joe/file-inventory/internal/session"
	"github.com/joe/file-inventory/internal/store"
	"github.com/joe/file-inventory/internal/tui"
	"github.com/joe/file-inventory/internal/tui/screens"
	"github.com/joe/file-inventory/internal/tui/shared"
	"github.com/joe/file-inventory/pkg/filesystem"
)

var scanTime = time.Date(2024, 5, 6, 7, 8, 9, 0, time.UTC)

// drive feeds the messages of cmd back into model until no command is left.
// Timer ticks are dropped so animations do not loop forever.
func drive(model tea.Model, cmd tea.Cmd) tea.Model {
	msgs := make(chan tea.Msg)
	pending := 0

	start := func(c tea.Cmd) {
		if c == nil {
			return
		}

		pending++

		go func() { msgs <- c() }()
	}

	start(cmd)

	for pending > 0 {
		msg := <-msgs
		pending--

		switch msg := msg.(type) {
		case nil, shared.ClockMsg, spinner.TickMsg:
		case tea.BatchMsg:
			for _, c := range msg {
				start(c)
			}
		default:
			if strings.HasPrefix(fmt.Sprintf("%T", msg), "cursor.") {
				continue
			}

			var next tea.Cmd
			model, next = model.Update(msg)
			start(next)
		}
	}

	return model
}

// send delivers msg and everything it leads to.
func send(model tea.Model, msg tea.Msg) tea.Model {
	model, cmd := model.Update(msg)

	return drive(model, cmd)
}

func appOf(model tea.Model) tui.AppModel {
	if ptr, ok := model.(*tui.AppModel); ok {
		return *ptr
	}

	app, ok := model.(tui.AppModel)
	Expect(ok).To(BeTrue())

	return app
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

var _ = Describe("AppModel", func() {
	var (
		dir     string
		fs      *filesystem.MockFileSystem
		sess    *session.Session
		cfg     *config.Config
		model   tea.Model
		options tui.Options
	)

	BeforeEach(func() {
		dir = GinkgoT().TempDir()
		fs = filesystem.NewMockFileSystem()
		fs.AddFile("/data/report.pdf", 2048, scanTime)
		fs.AddFile("/data/photos/cat.jpg", 4096, scanTime)

		st, err := store.Open(filepath.Join(dir, "file_inventory.json"))
		Expect(err).NotTo(HaveOccurred())

		scanner := scan.NewScanner(fs)
		scanner.TimeProvider = &scan.FixedTimeProvider{Time: scanTime}

		sess = session.New(session.Config{
			Store:    st,
			Scanner:  scanner,
			Marker:   store.NewMarker(filepath.Join(dir, "last_scan.json")),
			ErrorLog: store.NewErrorLog(filepath.Join(dir, "error_log.json")),
			Host:     "laptop",
			Now:      func() time.Time { return scanTime },
		})
		Expect(sess.Load(context.Background())).To(Succeed())

		DeferCleanup(sess.Close)

		cfg = &config.Config{
			DefaultRoot:  "/data",
			ErrorLogPath: filepath.Join(dir, "error_log.json"),
			PageSize:     config.DefaultPageSize,
		}

		options = tui.Options{
			Session: sess,
			Config:  cfg,
			System:  discover.Local(),
			Now:     func() time.Time { return scanTime.Add(time.Hour) },
		}
		model = tui.NewAppModel(options)
	})

	Describe("Navigation", func() {
		It("starts on the main menu", func() {
			app := appOf(model)
			Expect(app.Depth()).To(Equal(1))

			menu, ok := app.CurrentScreen().(screens.MenuScreen)
			Expect(ok).To(BeTrue())
			Expect(menu.Title()).To(Equal("Main Menu"))
			Expect(model.View()).To(ContainSubstring("Last scan: never"))
		})

		It("opens a submenu by key and goes back", func() {
			model = send(model, runes("2"))

			menu, ok := appOf(model).CurrentScreen().(screens.MenuScreen)
			Expect(ok).To(BeTrue())
			Expect(menu.Title()).To(Equal("View Inventory"))

			model = send(model, shared.BackMsg{})
			Expect(appOf(model).Depth()).To(Equal(1))
		})

		It("returns home from any depth", func() {
			model = send(model, shared.OpenMenuMsg{Menu: shared.MenuManage})
			model = send(model, shared.OpenMenuMsg{Menu: shared.MenuRemove})
			Expect(appOf(model).Depth()).To(Equal(3))

			model = send(model, shared.HomeMsg{})
			Expect(appOf(model).Depth()).To(Equal(1))
		})

		It("shows start-up warnings over the main menu", func() {
			options.Warnings = []error{config.ErrThemeMalformed}
			model = tui.NewAppModel(options)

			notice, ok := appOf(model).CurrentScreen().(screens.NoticeScreen)
			Expect(ok).To(BeTrue())
			Expect(notice.Err()).To(MatchError(config.ErrThemeMalformed))
		})

		It("offers no retry while saves succeed", func() {
			model = send(model, shared.OpenMenuMsg{Menu: shared.MenuManage})

			menu := appOf(model).CurrentScreen().(screens.MenuScreen)
			Expect(menu.Items()).To(HaveLen(2))
		})

		It("lists an empty remove menu for an empty inventory", func() {
			model = send(model, shared.OpenMenuMsg{Menu: shared.MenuRemove})

			Expect(model.View()).To(ContainSubstring("The inventory is empty."))
		})
	})

	Describe("Scanning", func() {
		It("scans, saves and shows the summary", func() {
			var cmd tea.Cmd
			model, cmd = model.Update(shared.ScanRequestMsg{Root: "/data"})

			_, onScan := appOf(model).CurrentScreen().(screens.ScanScreen)
			Expect(onScan).To(BeTrue())
			Expect(appOf(model).Busy()).To(BeTrue())

			model = drive(model, cmd)

			app := appOf(model)
			Expect(app.Busy()).To(BeFalse())

			_, onSummary := app.CurrentScreen().(screens.ScanSummaryScreen)
			Expect(onSummary).To(BeTrue())
			Expect(model.View()).To(ContainSubstring("Scan complete"))
			Expect(sess.Records()).To(HaveLen(2))

			_, scanned := sess.LastScan()
			Expect(scanned).To(BeTrue())
		})

		It("scans a typed path in place of the prompt", func() {
			model = send(model, shared.OpenMenuMsg{Menu: shared.MenuScan})
			model = send(model, shared.PromptMsg{Purpose: shared.PromptScanPath, Title: "Path"})
			Expect(appOf(model).Depth()).To(Equal(3))

			model = send(model, shared.PromptSubmittedMsg{Purpose: shared.PromptScanPath, Value: "/data/photos"})

			Expect(appOf(model).Depth()).To(Equal(3))
			Expect(sess.Records()).To(HaveLen(1))
		})

		It("reports an invalid root", func() {
			model = send(model, shared.ScanRequestMsg{Root: "/missing"})

			Expect(model.View()).To(ContainSubstring("Scan failed"))
			Expect(sess.Records()).To(BeEmpty())
		})
	})

	Describe("Reports", func() {
		BeforeEach(func() {
			_, err := sess.Scan(context.Background(), "/data")
			Expect(err).NotTo(HaveOccurred())
		})

		It("shows the summary statistics", func() {
			model = send(model, shared.ReportMsg{Kind: shared.ReportSummary})

			_, ok := appOf(model).CurrentScreen().(screens.PagerScreen)
			Expect(ok).To(BeTrue())
			Expect(model.View()).To(ContainSubstring("Total files: 2"))
		})

		It("searches by name in place of the prompt", func() {
			model = send(model, shared.PromptMsg{Purpose: shared.PromptSearch})
			model = send(model, shared.PromptSubmittedMsg{Purpose: shared.PromptSearch, Value: "CAT"})

			Expect(appOf(model).Depth()).To(Equal(2))
			Expect(model.View()).To(ContainSubstring("/data/photos/cat.jpg"))
			Expect(model.View()).NotTo(ContainSubstring("report.pdf"))
		})

		It("rejects a count that is not positive", func() {
			model = send(model, shared.PromptMsg{Purpose: shared.PromptLargest})
			model = send(model, shared.PromptSubmittedMsg{Purpose: shared.PromptLargest, Value: "-3"})

			notice, ok := appOf(model).CurrentScreen().(screens.NoticeScreen)
			Expect(ok).To(BeTrue())
			Expect(notice.Err()).To(MatchError(tui.ErrNotPositive))
		})

		It("shows an invalid JSONPath query as an error", func() {
			model = send(model, shared.PromptMsg{Purpose: shared.PromptQuery})
			model = send(model, shared.PromptSubmittedMsg{Purpose: shared.PromptQuery, Value: "$[?("})

			notice, ok := appOf(model).CurrentScreen().(screens.NoticeScreen)
			Expect(ok).To(BeTrue())
			Expect(notice.Err()).To(MatchError(report.ErrInvalidQuery))
		})

		It("exports the folder tree as Markdown", func() {
			path := filepath.Join(dir, "tree.md")

			model = send(model, shared.ExportTreeMsg{Path: path})

			data, err := os.ReadFile(path)
			Expect(err).NotTo(HaveOccurred())
			Expect(string(data)).To(HavePrefix("# Folder Structure\n\n"))
			Expect(string(data)).To(ContainSubstring("- cat.jpg"))
			Expect(model.View()).To(ContainSubstring("Folder structure written to"))
		})
	})

	Describe("Removal", func() {
		BeforeEach(func() {
			_, err := sess.Scan(context.Background(), "/data")
			Expect(err).NotTo(HaveOccurred())
		})

		It("lists hosts and drives", func() {
			model = send(model, shared.OpenMenuMsg{Menu: shared.MenuRemove})

			Expect(model.View()).To(ContainSubstring("laptop"))
		})

		It("removes every record of a host", func() {
			model = send(model, shared.OpenMenuMsg{Menu: shared.MenuRemove})
			model = send(model, shared.RemoveRequestMsg{Host: "laptop"})

			Expect(sess.Records()).To(BeEmpty())
			Expect(appOf(model).Depth()).To(Equal(2))
			Expect(model.View()).To(ContainSubstring("Removed 2 records of host laptop."))
		})

		It("removes the records under a drive prefix", func() {
			model = send(model, shared.RemoveRequestMsg{Drive: "/data/photos"})

			Expect(sess.Records()).To(HaveLen(1))
		})

		It("reports when nothing matched", func() {
			model = send(model, shared.RemoveRequestMsg{Host: "desktop"})

			Expect(sess.Records()).To(HaveLen(2))
			Expect(model.View()).To(ContainSubstring("nothing removed"))
		})
	})

	Describe("Busy state", func() {
		It("ignores keys while an operation runs", func() {
			model, _ = model.Update(shared.ReloadRequestMsg{})
			Expect(appOf(model).Busy()).To(BeTrue())

			var cmd tea.Cmd
			model, cmd = model.Update(runes("2"))
			Expect(cmd).To(BeNil())
			Expect(appOf(model).Depth()).To(Equal(1))
			Expect(model.View()).To(ContainSubstring("Working..."))
		})

		It("reloads the inventory from disk", func() {
			model = send(model, shared.ReloadRequestMsg{})

			Expect(appOf(model).Busy()).To(BeFalse())
			Expect(model.View()).To(ContainSubstring("Loaded 0 records"))
		})
	})
})
