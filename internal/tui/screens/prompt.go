package screens

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/joe/file-inventory/internal/tui/shared"
)

// PromptScreen asks for one line of text.
type PromptScreen struct {
	purpose         shared.PromptPurpose
	title           string
	input           textinput.Model
	validationError string
}

// NewPromptScreen creates a prompt from a PromptMsg.
func NewPromptScreen(msg shared.PromptMsg) PromptScreen {
	input := textinput.New()
	input.Placeholder = msg.Placeholder
	input.Prompt = shared.PromptArrow()
	input.CharLimit = 1024
	input.Focus()

	return PromptScreen{
		purpose: msg.Purpose,
		title:   msg.Title,
		input:   input,
	}
}

// Purpose returns what the prompt is for (for testing)
func (s PromptScreen) Purpose() shared.PromptPurpose {
	return s.purpose
}

// Value returns the current input (for testing)
func (s PromptScreen) Value() string {
	return s.input.Value()
}

// Init implements tea.Model
func (s PromptScreen) Init() tea.Cmd {
	return textinput.Blink
}

// Update implements tea.Model
func (s PromptScreen) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case shared.KeyCtrlC:
			return s, tea.Quit
		case shared.KeyEsc:
			return s, shared.Send(shared.BackMsg{})
		case "enter":
			value := strings.TrimSpace(s.input.Value())
			if value == "" {
				s.validationError = "Please enter a value (esc to go back)"

				return s, nil
			}

			return s, shared.Send(shared.PromptSubmittedMsg{Purpose: s.purpose, Value: value})
		}

		s.validationError = ""
	}

	var cmd tea.Cmd
	s.input, cmd = s.input.Update(msg)

	return s, cmd
}

// View implements tea.Model
func (s PromptScreen) View() string {
	var b strings.Builder

	b.WriteString(shared.RenderLabel(s.title))
	b.WriteString("\n\n")
	b.WriteString(s.input.View())
	b.WriteString("\n")

	if s.validationError != "" {
		b.WriteString("\n")
		b.WriteString(shared.RenderError(s.validationError))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(shared.RenderDim("enter: confirm  esc: back"))

	return b.String()
}
