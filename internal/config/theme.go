package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"gopkg.in/yaml.v3"
)

// Exported variables.
var (
	ErrThemeNotFound  = errors.New("theme file not found")
	ErrThemeMalformed = errors.New("theme file is malformed")
	ErrUnknownColor   = errors.New("unknown colour")
)

// palette maps the colour names a theme may use to ANSI colour numbers.
//
//nolint:gochecknoglobals,mnd // Fixed lookup table
var palette = map[string]int{
	"black": 0, "red": 1, "green": 2, "yellow": 3,
	"blue": 4, "magenta": 5, "cyan": 6, "white": 7,
	"lightblack_ex": 8, "lightred_ex": 9, "lightgreen_ex": 10, "lightyellow_ex": 11,
	"lightblue_ex": 12, "lightmagenta_ex": 13, "lightcyan_ex": 14, "lightwhite_ex": 15,
}

// Theme holds the four colours of the interface.
type Theme struct {
	HeaderBackground lipgloss.Color
	HeaderForeground lipgloss.Color
	Text             lipgloss.Color
	Highlight        lipgloss.Color
}

// DefaultTheme is white-on-blue headers, red text and cyan highlights.
func DefaultTheme() Theme {
	return Theme{
		HeaderBackground: mustColor("WHITE"),
		HeaderForeground: mustColor("BLUE"),
		Text:             mustColor("RED"),
		Highlight:        mustColor("CYAN"),
	}
}

// ColorNames returns every accepted colour name.
func ColorNames() []string {
	names := make([]string, len(palette))
	for name, code := range palette {
		names[code] = strings.ToUpper(name)
	}

	return names
}

// ParseColor resolves a palette name, case-insensitively.
func ParseColor(name string) (lipgloss.Color, error) {
	code, ok := palette[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownColor, name)
	}

	return lipgloss.Color(strconv.Itoa(code)), nil
}

// LoadTheme reads a YAML or JSON theme file. The returned theme is always
// usable: a missing or malformed file yields the defaults, and an unknown
// colour falls back for its key only. The error reports what was ignored.
func LoadTheme(path string) (Theme, error) {
	theme := DefaultTheme()

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return theme, fmt.Errorf("%w: %s", ErrThemeNotFound, path)
	}

	if err != nil {
		return theme, fmt.Errorf("failed to read theme %s: %w", path, err)
	}

	var raw map[string]string
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return theme, fmt.Errorf("%w: %s: %w", ErrThemeMalformed, path, err)
	}

	keys := []struct {
		names  []string
		target *lipgloss.Color
	}{
		{[]string{"header_background", "header_bg"}, &theme.HeaderBackground},
		{[]string{"header_foreground", "header_fg"}, &theme.HeaderForeground},
		{[]string{"text_foreground", "text_fg"}, &theme.Text},
		{[]string{"highlight_foreground", "highlight_fg"}, &theme.Highlight},
	}

	var problems []error

	for _, key := range keys {
		value, ok := lookup(raw, key.names)
		if !ok {
			continue
		}

		color, err := ParseColor(value)
		if err != nil {
			problems = append(problems, fmt.Errorf("%s: %w", key.names[0], err))

			continue
		}

		*key.target = color
	}

	return theme, errors.Join(problems...)
}

func lookup(raw map[string]string, names []string) (string, bool) {
	for _, name := range names {
		if value, ok := raw[name]; ok {
			return value, true
		}
	}

	return "", false
}

func mustColor(name string) lipgloss.Color {
	color, err := ParseColor(name)
	if err != nil {
		panic(err)
	}

	return color
}
