package shared

import (
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/joe/file-inventory/internal/config"
)

// Exported constants organized by category for clarity.
const (
	// ============================================================================
	// UI Layout & Display
	// ============================================================================

	// DefaultPadding is the default padding for UI elements
	DefaultPadding = 2
	// ShareBarWidth is the width of the size-share bars in the summary
	ShareBarWidth = 24
	// PathDisplayWidth is where paths are cut on the scan screens
	PathDisplayWidth = 60

	// ============================================================================
	// Time Intervals
	// ============================================================================

	// ClockInterval is how often the scan screen redraws its elapsed time
	ClockInterval = 100 * time.Millisecond

	// ============================================================================
	// Display Limits & Formatting
	// ============================================================================

	// EllipsisLength is the length of the "..." marking cut text
	EllipsisLength = 3
	// PercentScale turns a fraction into a percentage
	PercentScale = 100

	// ============================================================================
	// Keys
	// ============================================================================

	// KeyCtrlC is the key binding for cancellation
	KeyCtrlC = "ctrl+c"
	// KeyEsc leaves the current screen
	KeyEsc = "esc"
	// KeyBack is the menu key for going back
	KeyBack = "x"
)

//nolint:gochecknoglobals // Set once at startup from the theme file
var theme = config.DefaultTheme()

// ApplyTheme replaces the colours used by every style.
func ApplyTheme(t config.Theme) {
	theme = t
}

// CurrentTheme returns the theme in use.
func CurrentTheme() config.Theme {
	return theme
}

func AccentColor() lipgloss.Color { return theme.HeaderForeground }

// ============================================================================
// Box and Container Styles
// ============================================================================

// BoxStyle returns the style for boxes with padding
func BoxStyle() lipgloss.Style {
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(AccentColor()).
		Padding(1, DefaultPadding)
}

// HeaderStyle returns the style of the inventory banner
func HeaderStyle() lipgloss.Style {
	return lipgloss.NewStyle().
		Background(theme.HeaderBackground).
		Foreground(theme.HeaderForeground).
		Bold(true).
		Padding(0, 1)
}

// MenuKeyStyle returns the style for the key of a menu entry
func MenuKeyStyle() lipgloss.Style {
	return lipgloss.NewStyle().
		Foreground(HighlightColor()).
		Bold(true)
}

// MenuItemStyle returns the style for the label of a menu entry
func MenuItemStyle() lipgloss.Style {
	return lipgloss.NewStyle().
		Foreground(TextColor())
}

func DimColor() lipgloss.Color { return lipgloss.Color(dimColorCode) }

// DimStyle returns the style for dimmed text
func DimStyle() lipgloss.Style {
	return lipgloss.NewStyle().
		Foreground(DimColor())
}

func ErrorColor() lipgloss.Color { return lipgloss.Color(errorColorCode) }

// ErrorStyle returns the style for error messages
func ErrorStyle() lipgloss.Style {
	return lipgloss.NewStyle().
		Foreground(ErrorColor()).
		Bold(true)
}

// FileItemErrorStyle returns the style for failed paths
func FileItemErrorStyle() lipgloss.Style {
	return lipgloss.NewStyle().
		Foreground(ErrorColor())
}

// FileItemStyle returns the style for listed records
func FileItemStyle() lipgloss.Style {
	return lipgloss.NewStyle().
		Foreground(TextColor())
}

func HighlightColor() lipgloss.Color { return theme.Highlight }

// LabelStyle returns the style for labels
func LabelStyle() lipgloss.Style {
	return lipgloss.NewStyle().
		Foreground(HighlightColor()).
		Bold(true)
}

func TextColor() lipgloss.Color { return theme.Text }

// PrimaryColor returns the primary color for the UI
func PrimaryColor() lipgloss.Color { return theme.HeaderForeground }

// RenderBox renders content in a box with consistent styling
func RenderBox(content string) string {
	return BoxStyle().Render(content)
}

// RenderDim renders dimmed text with consistent styling
func RenderDim(text string) string {
	return DimStyle().Render(text)
}

// RenderError renders an error message with consistent styling
func RenderError(text string) string {
	return ErrorStyle().Render(text)
}

// RenderHeader renders the inventory banner
func RenderHeader(text string) string {
	return HeaderStyle().Render(text)
}

// RenderLabel renders a label with consistent styling
func RenderLabel(text string) string {
	return LabelStyle().Render(text)
}

// RenderSubtitle renders a subtitle with consistent styling
func RenderSubtitle(text string) string {
	return SubtitleStyle().Render(text)
}

// RenderSuccess renders a success message with consistent styling
func RenderSuccess(text string) string {
	return SuccessStyle().Render(text)
}

// RenderText renders body text in the theme's text colour
func RenderText(text string) string {
	return FileItemStyle().Render(text)
}

// ============================================================================
// Helper Functions
// ============================================================================

// RenderTitle renders a title with consistent styling
func RenderTitle(text string) string {
	return TitleStyle().Render(text)
}

// RenderWarning renders a warning message with consistent styling
func RenderWarning(text string) string {
	return WarningStyle().Render(text)
}

// SubtitleStyle returns the style for subtitles
func SubtitleStyle() lipgloss.Style {
	return lipgloss.NewStyle().
		Foreground(SubtleColor()).
		MarginBottom(1)
}

func SubtleColor() lipgloss.Color { return lipgloss.Color(subtleColorCode) }

func SuccessColor() lipgloss.Color { return lipgloss.Color(successColorCode) }

// SuccessStyle returns the style for success messages
func SuccessStyle() lipgloss.Style {
	return lipgloss.NewStyle().
		Foreground(SuccessColor()).
		Bold(true)
}

// ============================================================================
// Text Styles
// ============================================================================

// TitleStyle returns the style for titles
func TitleStyle() lipgloss.Style {
	return lipgloss.NewStyle().
		Bold(true).
		Foreground(PrimaryColor()).
		MarginBottom(1)
}

func WarningColor() lipgloss.Color { return lipgloss.Color(warningColorCode) }

// WarningStyle returns the style for warning messages
func WarningStyle() lipgloss.Style {
	return lipgloss.NewStyle().
		Foreground(WarningColor()).
		Bold(true)
}

// unexported constants.
const (
	dimColorCode     = "240" // Dark gray
	errorColorCode   = "196" // Red
	subtleColorCode  = "241" // Medium gray
	successColorCode = "42"  // Green
	warningColorCode = "226"
)
