package shared

import "github.com/charmbracelet/lipgloss"

// RenderWidgetBox renders content in a titled box with borders.
// Title is bold and colored using PrimaryColor.
// Width accounts for padding (width - 4 for borders and padding).
func RenderWidgetBox(title, content string, width int) string {
	const widthOverhead = 4 // Account for borders (2) and padding (2)

	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(PrimaryColor())

	boxStyle := BoxStyle()
	if width > widthOverhead {
		boxStyle = boxStyle.Width(width - widthOverhead)
	}

	rendered := titleStyle.Render(title) + "\n" + content

	return boxStyle.Render(rendered)
}
