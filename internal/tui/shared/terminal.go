package shared

import "os"

//nolint:gochecknoglobals // Terminal capability detected once at startup
var colorsDisabled = detectColorsDisabled()

// GetColorsDisabled reports whether output is plain (NO_COLOR or TERM=dumb).
func GetColorsDisabled() bool {
	return colorsDisabled
}

// SetColorsDisabledForTesting overrides colour detection.
func SetColorsDisabledForTesting(disabled bool) {
	colorsDisabled = disabled
}

// ErrorSymbol marks a failed item.
func ErrorSymbol() string {
	if colorsDisabled {
		return "x"
	}

	return "✗"
}

// SuccessSymbol marks a finished item.
func SuccessSymbol() string {
	if colorsDisabled {
		return "+"
	}

	return "✓"
}

// PromptArrow prefixes text inputs.
func PromptArrow() string {
	if colorsDisabled {
		return "> "
	}

	return "▶ "
}

func detectColorsDisabled() bool {
	if _, ok := os.LookupEnv("NO_COLOR"); ok {
		return true
	}

	return os.Getenv("TERM") == "dumb"
}
