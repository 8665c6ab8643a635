package tui

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/joe/file-inventory/internal/inventory"
	"github.com/joe/file-inventory/internal/report"
	"github.com/joe/file-inventory/internal/store"
	"github.com/joe/file-inventory/internal/tui/screens"
	"github.com/joe/file-inventory/internal/tui/shared"
)

// Exported variables.
var (
	ErrNotPositive = errors.New("please enter a positive whole number")
)

func (a AppModel) handlePrompt(msg shared.PromptSubmittedMsg) (tea.Model, tea.Cmd) {
	switch msg.Purpose {
	case shared.PromptScanPath:
		return a.startScan(msg.Value)
	case shared.PromptSearch:
		return a.showReport(shared.ReportSearch, msg.Value, true)
	case shared.PromptExtension:
		return a.showReport(shared.ReportExtension, msg.Value, true)
	case shared.PromptLargest:
		return a.showReport(shared.ReportLargest, msg.Value, true)
	case shared.PromptQuery:
		return a.showReport(shared.ReportQuery, msg.Value, true)
	}

	return a.pop(), nil
}

func (a AppModel) startScan(root string) (tea.Model, tea.Cmd) {
	if a.scanning {
		return a, nil
	}

	ctx, cancel := context.WithCancel(context.Background())
	bridge := shared.NewEventBridge()

	a.session.SetEventEmitter(bridge)
	a.bridge = bridge
	a.scanning = true

	screen := screens.NewScanScreen(root, cancel, a.now())

	var (
		model tea.Model
		cmd   tea.Cmd
	)

	if _, prompted := a.top().(screens.PromptScreen); prompted {
		model, cmd = a.replace(screen)
	} else {
		model, cmd = a.push(screen)
	}

	sess := a.session
	logger := a.logger

	scanCmd := func() tea.Msg {
		defer cancel()
		defer bridge.Close()

		outcome, err := sess.Scan(ctx, root)
		if err != nil {
			logger.Warn("scan ended with errors", "root", root, "error", err)
		}

		return shared.ScanFinishedMsg{Outcome: outcome, Err: err}
	}

	return model, tea.Batch(cmd, bridge.ListenCmd(), scanCmd)
}

func (a AppModel) forwardScanEvent(msg shared.ScanEventMsg) (tea.Model, tea.Cmd) {
	model, cmd := a.forward(msg)
	app, _ := model.(AppModel)

	if app.bridge == nil {
		return model, cmd
	}

	return model, tea.Batch(cmd, app.bridge.ListenCmd())
}

func (a AppModel) finishScan(msg shared.ScanFinishedMsg) (tea.Model, tea.Cmd) {
	a.scanning = false
	a.bridge = nil
	a.session.SetEventEmitter(nil)

	summary := screens.NewScanSummaryScreen(msg.Outcome, msg.Err, a.config.ErrorLogPath)

	var (
		model tea.Model
		cmd   tea.Cmd
	)

	if _, onScan := a.top().(screens.ScanScreen); onScan {
		model, cmd = a.replace(summary)
	} else {
		model, cmd = a.push(summary)
	}

	app, _ := model.(AppModel)
	app, settle := app.settle()

	return app, tea.Batch(cmd, settle)
}

func (a AppModel) runOperation(cmd tea.Cmd) (tea.Model, tea.Cmd) {
	if a.busy || a.scanning {
		return a, nil
	}

	a.busy = true

	return a, cmd
}

func (a AppModel) operationDone(msg shared.OperationDoneMsg) (tea.Model, tea.Cmd) {
	a.busy = false

	var lines []string
	if msg.Message != "" {
		lines = []string{msg.Message}
	}

	notice := screens.NewNoticeScreen(msg.Title, lines, msg.Err)
	if msg.Err != nil && a.session.SaveFailed() {
		notice = notice.WithRetry(shared.RetrySaveMsg{})
	}

	var (
		model tea.Model
		cmd   tea.Cmd
	)

	if msg.Replace {
		model, cmd = a.replace(notice)
	} else {
		model, cmd = a.push(notice)
	}

	app, _ := model.(AppModel)
	app, settle := app.settle()

	return app, tea.Batch(cmd, settle)
}

func (a AppModel) removeCmd(msg shared.RemoveRequestMsg) tea.Cmd {
	sess := a.session

	return func() tea.Msg {
		ctx := context.Background()

		var (
			removed int
			err     error
			what    string
		)

		if msg.Host != "" {
			what = "host " + msg.Host
			removed, err = sess.RemoveHost(ctx, msg.Host)
		} else {
			what = "drive " + msg.Drive
			removed, err = sess.RemoveDrive(ctx, msg.Drive)
		}

		done := shared.OperationDoneMsg{Title: "Remove", Err: err, Replace: true}

		switch {
		case errors.Is(err, store.ErrInvalidSelector):
			done.Message = "Nothing selected."
		case removed == 0:
			done.Message = fmt.Sprintf("No records found for %s; nothing removed.", what)
		default:
			done.Message = fmt.Sprintf("Removed %d records of %s.", removed, what)
		}

		return done
	}
}

func (a AppModel) reloadCmd() tea.Cmd {
	sess := a.session

	return func() tea.Msg {
		err := sess.Reload(context.Background())

		message := fmt.Sprintf("Loaded %d records from %s.", len(sess.Records()), sess.Location())
		if errors.Is(err, store.ErrCorruptStore) {
			message = "The inventory file is corrupt; starting with an empty inventory."
		}

		return shared.OperationDoneMsg{Title: "Reload", Message: message, Err: err}
	}
}

func (a AppModel) saveCmd() tea.Cmd {
	sess := a.session

	return func() tea.Msg {
		err := sess.Save(context.Background())

		message := fmt.Sprintf("Saved %d records to %s.", len(sess.Records()), sess.Location())
		if err != nil {
			message = "The inventory is still only in memory."
		}

		return shared.OperationDoneMsg{Title: "Save", Message: message, Err: err, Replace: true}
	}
}

func (a AppModel) exportCmd(path string) tea.Cmd {
	records := a.session.Records()

	return func() tea.Msg {
		err := report.WriteMarkdownFile(path, report.BuildTree(records))

		message := "Folder structure written to " + path
		if err != nil {
			message = ""
		}

		return shared.OperationDoneMsg{Title: "Export", Message: message, Err: err}
	}
}

func parsePositive(value string) (int, error) {
	n, err := strconv.Atoi(value)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("%w: %q", ErrNotPositive, value)
	}

	return n, nil
}

func countUnder(records []inventory.Record, prefix string) int {
	count := 0

	for _, record := range records {
		if strings.HasPrefix(record.Path, prefix) {
			count++
		}
	}

	return count
}
