package screens

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/joe/file-inventory/internal/tui/shared"
)

// NoticeScreen shows the result of an operation, or its error.
type NoticeScreen struct {
	title string
	lines []string
	err   error
	retry tea.Msg
}

// NewNoticeScreen creates a notice.
func NewNoticeScreen(title string, lines []string, err error) NoticeScreen {
	return NoticeScreen{title: title, lines: lines, err: err}
}

// WithRetry offers r to send msg.
func (s NoticeScreen) WithRetry(msg tea.Msg) NoticeScreen {
	s.retry = msg

	return s
}

// Err returns the error shown (for testing)
func (s NoticeScreen) Err() error {
	return s.err
}

// Init implements tea.Model
func (s NoticeScreen) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model
func (s NoticeScreen) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return s, nil
	}

	switch keyMsg.String() {
	case shared.KeyCtrlC:
		return s, tea.Quit
	case "r":
		if s.retry != nil {
			return s, shared.Send(s.retry)
		}
	case "enter", shared.KeyBack, shared.KeyEsc:
		return s, shared.Send(shared.BackMsg{})
	}

	return s, nil
}

// View implements tea.Model
func (s NoticeScreen) View() string {
	var b strings.Builder

	b.WriteString(shared.RenderTitle(s.title))
	b.WriteString("\n")

	for _, line := range s.lines {
		b.WriteString(shared.RenderText(line))
		b.WriteString("\n")
	}

	if s.err != nil {
		if len(s.lines) > 0 {
			b.WriteString("\n")
		}

		b.WriteString(shared.RenderActionableError(s.err))
		b.WriteString("\n")
	}

	footer := "enter: continue"
	if s.retry != nil {
		footer += "  r: retry"
	}

	b.WriteString("\n")
	b.WriteString(shared.RenderDim(footer))

	return b.String()
}
