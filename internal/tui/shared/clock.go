package shared

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// ClockMsg carries the wall time to screens that show how long something ran.
type ClockMsg time.Time

// ClockCmd sends one ClockMsg after ClockInterval. Screens re-arm it on receipt.
func ClockCmd() tea.Cmd {
	return tea.Tick(ClockInterval, func(t time.Time) tea.Msg {
		return ClockMsg(t)
	})
}
