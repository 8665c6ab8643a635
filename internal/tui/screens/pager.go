package screens

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/joe/file-inventory/internal/tui/shared"
)

// PagerAction is an extra key offered below the results.
type PagerAction struct {
	Key   string
	Label string
	Msg   tea.Msg
}

// PagerScreen shows result lines a page at a time.
type PagerScreen struct {
	title    string
	lines    []string
	pageSize int
	page     int
	actions  []PagerAction
}

// NewPagerScreen creates a pager; pageSize below 1 shows everything.
func NewPagerScreen(title string, lines []string, pageSize int) PagerScreen {
	if pageSize < 1 {
		pageSize = max(len(lines), 1)
	}

	return PagerScreen{title: title, lines: lines, pageSize: pageSize}
}

// WithActions adds extra keys.
func (s PagerScreen) WithActions(actions ...PagerAction) PagerScreen {
	s.actions = append(s.actions, actions...)

	return s
}

// Page returns the zero-based current page (for testing)
func (s PagerScreen) Page() int {
	return s.page
}

// Pages returns the number of pages.
func (s PagerScreen) Pages() int {
	return max((len(s.lines)+s.pageSize-1)/s.pageSize, 1)
}

// Visible returns the lines of the current page.
func (s PagerScreen) Visible() []string {
	start := s.page * s.pageSize
	if start >= len(s.lines) {
		return nil
	}

	return s.lines[start:min(start+s.pageSize, len(s.lines))]
}

// Init implements tea.Model
func (s PagerScreen) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model
func (s PagerScreen) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return s, nil
	}

	switch keyMsg.String() {
	case shared.KeyCtrlC:
		return s, tea.Quit
	case shared.KeyBack, shared.KeyEsc, "q":
		return s, shared.Send(shared.BackMsg{})
	case "d", "right", "pgdown", " ":
		if s.page < s.Pages()-1 {
			s.page++
		}
	case "a", "left", "pgup":
		if s.page > 0 {
			s.page--
		}
	default:
		for _, action := range s.actions {
			if keyMsg.String() == action.Key {
				return s, shared.Send(action.Msg)
			}
		}
	}

	return s, nil
}

// View implements tea.Model
func (s PagerScreen) View() string {
	var b strings.Builder

	b.WriteString(shared.RenderTitle(s.title))
	b.WriteString("\n")

	if len(s.lines) == 0 {
		b.WriteString(shared.RenderDim("  No results."))
		b.WriteString("\n")
	}

	for _, line := range s.Visible() {
		b.WriteString(shared.RenderText(line))
		b.WriteString("\n")
	}

	b.WriteString("\n")

	footer := fmt.Sprintf("Page %d of %d (%d lines)  a: previous  d: next  x: back", s.page+1, s.Pages(), len(s.lines))
	for _, action := range s.actions {
		footer += fmt.Sprintf("  %s: %s", action.Key, action.Label)
	}

	b.WriteString(shared.RenderDim(footer))

	return b.String()
}
