package screens

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/joe/file-inventory/internal/inventory"
	"github.com/joe/file-inventory/internal/session"
	"github.com/joe/file-inventory/internal/tui/shared"
)

// ScanSummaryScreen reports a finished scan-merge-save cycle.
type ScanSummaryScreen struct {
	outcome      *session.ScanOutcome
	err          error
	errorLogPath string
	width        int
}

// NewScanSummaryScreen creates the summary for outcome. outcome is nil when
// the scan could not start.
func NewScanSummaryScreen(outcome *session.ScanOutcome, err error, errorLogPath string) ScanSummaryScreen {
	return ScanSummaryScreen{outcome: outcome, err: err, errorLogPath: errorLogPath}
}

// CanRetrySave reports whether the merged records still need saving.
func (s ScanSummaryScreen) CanRetrySave() bool {
	return s.outcome != nil && !s.outcome.Saved
}

// Init implements tea.Model
func (s ScanSummaryScreen) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model
func (s ScanSummaryScreen) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		s.width = msg.Width
	case tea.KeyMsg:
		switch msg.String() {
		case shared.KeyCtrlC:
			return s, tea.Quit
		case "r":
			if s.CanRetrySave() {
				return s, shared.Send(shared.RetrySaveMsg{})
			}
		case "enter", shared.KeyBack, shared.KeyEsc:
			return s, shared.Send(shared.HomeMsg{})
		}
	}

	return s, nil
}

// View implements tea.Model
func (s ScanSummaryScreen) View() string {
	if s.outcome == nil {
		return shared.RenderTitle("Scan failed") + "\n" +
			shared.RenderActionableError(s.err) + "\n\n" +
			shared.RenderDim("enter: main menu")
	}

	result := s.outcome.Result

	var b strings.Builder

	switch {
	case result.Partial:
		b.WriteString(shared.RenderTitle("Scan stopped"))
	default:
		b.WriteString(shared.RenderTitle("Scan complete"))
	}

	b.WriteString("\n")
	fmt.Fprintf(&b, "Scanned:   %s\n", result.Root)
	fmt.Fprintf(&b, "Files:     %d (%s)\n", len(result.Records), shared.FormatBytes(result.TotalBytes))
	fmt.Fprintf(&b, "Added:     %d\n", s.outcome.Merge.Added)
	fmt.Fprintf(&b, "Updated:   %d\n", s.outcome.Merge.Replaced)
	fmt.Fprintf(&b, "Failures:  %d\n", len(result.Failures))
	fmt.Fprintf(&b, "Skipped:   %d directories\n", len(result.Skipped))
	fmt.Fprintf(&b, "Duration:  %s\n", shared.FormatDuration(result.Duration()))

	b.WriteString("\n")

	if s.outcome.Saved {
		b.WriteString(shared.RenderSuccess(shared.SuccessSymbol() + " Inventory saved"))
	} else {
		b.WriteString(shared.RenderError(shared.ErrorSymbol() + " Inventory not saved; the results are kept in memory"))
	}

	b.WriteString("\n")

	if result.Partial {
		b.WriteString(shared.RenderWarning("The last-scan time was not updated because the scan did not finish."))
		b.WriteString("\n")
	}

	if s.outcome.ErrorLogWritten {
		b.WriteString(shared.RenderDim("Failures were written to " + s.errorLogPath))
		b.WriteString("\n")
	}

	failures := make([]inventory.Failure, 0, len(result.Failures)+len(result.Skipped))
	failures = append(failures, result.Skipped...)
	failures = append(failures, result.Failures...)

	if list := shared.RenderErrorList(shared.ErrorListConfig{
		Failures:        failures,
		MaxWidth:        shared.PathDisplayWidth,
		ShowSuggestions: len(failures) == 1,
	}); list != "" {
		b.WriteString("\n")
		b.WriteString(list)
	}

	if s.err != nil && !s.outcome.Saved {
		b.WriteString("\n")
		b.WriteString(shared.RenderActionableError(s.err))
		b.WriteString("\n")
	}

	footer := "enter: main menu"
	if s.CanRetrySave() {
		footer += "  r: retry save"
	}

	return shared.RenderBox(b.String()) + "\n" + shared.RenderDim(footer)
}
