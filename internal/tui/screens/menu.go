package screens

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/joe/file-inventory/internal/tui/shared"
)

// MenuItem is one numbered choice.
type MenuItem struct {
	Key   string
	Label string
	Msg   tea.Msg
}

// MenuScreen shows numbered choices and sends the chosen item's message.
// Keys select directly; arrows and enter work too, for lists longer than nine.
type MenuScreen struct {
	title   string
	header  func() []string
	items   []MenuItem
	root    bool
	empty   string
	cursor  int
	invalid string
	width   int
}

// NewMenuScreen creates a menu. x and esc go back.
func NewMenuScreen(title string, items []MenuItem) MenuScreen {
	return MenuScreen{title: title, items: items}
}

// WithHeader sets lines shown above the title, computed on every render.
func (s MenuScreen) WithHeader(header func() []string) MenuScreen {
	s.header = header

	return s
}

// WithRoot makes x and esc quit instead of going back.
func (s MenuScreen) WithRoot() MenuScreen {
	s.root = true

	return s
}

// WithEmptyText sets what to show when there are no items.
func (s MenuScreen) WithEmptyText(text string) MenuScreen {
	s.empty = text

	return s
}

// Items returns the choices (for testing)
func (s MenuScreen) Items() []MenuItem {
	return s.items
}

// Title returns the menu title (for testing)
func (s MenuScreen) Title() string {
	return s.title
}

// Init implements tea.Model
func (s MenuScreen) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model
func (s MenuScreen) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		s.width = msg.Width
	case tea.KeyMsg:
		return s.handleKey(msg)
	}

	return s, nil
}

// View implements tea.Model
func (s MenuScreen) View() string {
	var b strings.Builder

	if s.header != nil {
		b.WriteString(shared.RenderHeader(strings.Join(s.header(), "\n")))
		b.WriteString("\n\n")
	}

	b.WriteString(shared.RenderTitle(s.title))
	b.WriteString("\n")

	if len(s.items) == 0 && s.empty != "" {
		b.WriteString(shared.RenderDim("  " + s.empty))
		b.WriteString("\n")
	}

	for i, item := range s.items {
		marker := "  "
		if i == s.cursor {
			marker = shared.PromptArrow()
		}

		fmt.Fprintf(&b, "%s%s %s\n", marker,
			shared.MenuKeyStyle().Render("["+item.Key+"]"),
			shared.MenuItemStyle().Render(item.Label))
	}

	back := "Back"
	if s.root {
		back = "Exit"
	}

	fmt.Fprintf(&b, "  %s %s\n", shared.MenuKeyStyle().Render("["+shared.KeyBack+"]"), shared.MenuItemStyle().Render(back))

	if s.invalid != "" {
		b.WriteString("\n")
		b.WriteString(shared.RenderWarning(s.invalid))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(shared.RenderLabel("Enter your choice: "))

	return b.String()
}

func (s MenuScreen) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()
	s.invalid = ""

	switch key {
	case shared.KeyCtrlC:
		return s, tea.Quit
	case shared.KeyBack, shared.KeyEsc:
		if s.root {
			return s, tea.Quit
		}

		return s, shared.Send(shared.BackMsg{})
	case "up", "k":
		if s.cursor > 0 {
			s.cursor--
		}

		return s, nil
	case "down", "j":
		if s.cursor < len(s.items)-1 {
			s.cursor++
		}

		return s, nil
	case "enter":
		if s.cursor < len(s.items) {
			return s, shared.Send(s.items[s.cursor].Msg)
		}

		return s, nil
	}

	for i, item := range s.items {
		if strings.EqualFold(item.Key, key) {
			s.cursor = i

			return s, shared.Send(item.Msg)
		}
	}

	s.invalid = fmt.Sprintf("Invalid choice %q, please try again.", key)

	return s, nil
}
