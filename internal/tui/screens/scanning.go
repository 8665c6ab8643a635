package screens

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/joe/file-inventory/internal/scan"
	"github.com/joe/file-inventory/internal/tui/shared"
)

// ScanScreen shows a running scan. Stopping it keeps what was found so far.
type ScanScreen struct {
	root       string
	cancel     context.CancelFunc
	spinner    spinner.Model
	files      int
	failures   int
	skipped    int
	bytes      int64
	current    string
	started    time.Time
	now        time.Time
	cancelling bool
	width      int
}

// NewScanScreen creates the progress screen of a scan of root.
func NewScanScreen(root string, cancel context.CancelFunc, started time.Time) ScanScreen {
	spin := spinner.New()
	spin.Spinner = spinner.Dot
	spin.Style = shared.LabelStyle()

	return ScanScreen{
		root:    root,
		cancel:  cancel,
		spinner: spin,
		started: started,
		now:     started,
	}
}

// Files returns the number of files inspected so far (for testing)
func (s ScanScreen) Files() int {
	return s.files
}

// Failures returns the number of failed files so far (for testing)
func (s ScanScreen) Failures() int {
	return s.failures
}

// Cancelling reports whether a stop was requested (for testing)
func (s ScanScreen) Cancelling() bool {
	return s.cancelling
}

// Init implements tea.Model
func (s ScanScreen) Init() tea.Cmd {
	return tea.Batch(s.spinner.Tick, shared.ClockCmd())
}

// Update implements tea.Model
func (s ScanScreen) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		s.width = msg.Width
	case tea.KeyMsg:
		return s.handleKey(msg)
	case shared.ClockMsg:
		s.now = time.Time(msg)

		return s, shared.ClockCmd()
	case spinner.TickMsg:
		var cmd tea.Cmd
		s.spinner, cmd = s.spinner.Update(msg)

		return s, cmd
	case shared.ScanEventMsg:
		s.applyEvent(msg.Event)
	}

	return s, nil
}

// View implements tea.Model
func (s ScanScreen) View() string {
	var b strings.Builder

	status := "Scanning"
	if s.cancelling {
		status = "Stopping"
	}

	fmt.Fprintf(&b, "%s %s %s\n\n", s.spinner.View(), shared.RenderLabel(status), s.root)
	fmt.Fprintf(&b, "Files:    %d (%s)\n", s.files, shared.FormatBytes(s.bytes))
	fmt.Fprintf(&b, "Failures: %d\n", s.failures)
	fmt.Fprintf(&b, "Skipped:  %d directories\n", s.skipped)
	fmt.Fprintf(&b, "Elapsed:  %s\n", shared.FormatDuration(s.now.Sub(s.started)))

	if s.current != "" {
		fmt.Fprintf(&b, "\n%s\n", shared.RenderDim(shared.TruncatePath(s.current, shared.PathDisplayWidth)))
	}

	content := shared.RenderBox(b.String())

	return content + "\n" + shared.RenderDim("esc: stop scan (files found so far are kept)")
}

func (s *ScanScreen) applyEvent(event scan.Event) {
	switch event := event.(type) {
	case scan.ScanStarted:
		s.root = event.Root
	case scan.ScanProgress:
		s.files = event.Files
		s.failures = event.Failures
		s.bytes = event.Bytes
		s.current = event.Current
	case scan.FileFailed:
		s.failures++
		s.current = event.Failure.Path
	case scan.DirectorySkipped:
		s.skipped++
	case scan.ScanComplete:
		if event.Result != nil {
			s.files = len(event.Result.Records)
			s.failures = len(event.Result.Failures)
			s.skipped = len(event.Result.Skipped)
			s.bytes = event.Result.TotalBytes
		}
	}
}

func (s ScanScreen) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case shared.KeyCtrlC, shared.KeyEsc, shared.KeyBack:
		if !s.cancelling && s.cancel != nil {
			s.cancel()
		}

		s.cancelling = true
	}

	return s, nil
}
