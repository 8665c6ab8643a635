// Package errors turns raw filesystem and store errors into actionable errors.
//
// Scanning touches paths the user does not control: files vanish mid-walk, whole
// directory trees deny access, network shares drop. The Enricher sorts those
// failures into a small set of categories and attaches suggestions a user can act
// on. The scan records the category next to each failed path, and the interactive
// surface prints the suggestions under store errors.
//
// Basic usage:
//
//	enricher := errors.NewEnricher()
//	if _, err := os.Stat(path); err != nil {
//	    actionable := enricher.Enrich(err, path)
//	    fmt.Println(actionable.Error())
//	    fmt.Println(errors.FormatSuggestions(actionable))
//	}
//
// When no path is given, the enricher extracts one from messages shaped like
// "stat /some/path: permission denied".
package errors

import "strings"

// Exported constants.
const (
	CategoryCorrupt    ErrorCategory = "corrupt"
	CategoryDiskSpace  ErrorCategory = "disk_space"
	CategoryIO         ErrorCategory = "io"
	CategoryPath       ErrorCategory = "path"
	CategoryPermission ErrorCategory = "permission"
	CategoryUnknown    ErrorCategory = "unknown"
)

// ActionableError represents an error with actionable suggestions for the user.
type ActionableError interface {
	error
	OriginalError() string
	Category() ErrorCategory
	Suggestions() []string
	AffectedPath() string
	Unwrap() error
}

// NewActionableError creates a new ActionableError with the given details.
func NewActionableError(
	originalError string,
	category ErrorCategory,
	suggestions []string,
	affectedPath string,
) ActionableError {
	return &actionableError{
		originalError: originalError,
		category:      category,
		suggestions:   suggestions,
		affectedPath:  affectedPath,
	}
}

// ErrorCategory represents the type of error that occurred.
type ErrorCategory string

// String returns the category name.
func (c ErrorCategory) String() string {
	return string(c)
}

// FormatSuggestions formats the suggestions from an ActionableError as a bulleted list.
// Returns empty string if the error is nil, not actionable, or has no suggestions.
func FormatSuggestions(err error) string {
	if err == nil {
		return ""
	}

	actionable, ok := err.(ActionableError)
	if !ok {
		return ""
	}

	suggestions := actionable.Suggestions()
	if len(suggestions) == 0 {
		return ""
	}

	var builder strings.Builder
	for i, suggestion := range suggestions {
		if i > 0 {
			builder.WriteString("\n")
		}
		builder.WriteString("  • ")
		builder.WriteString(suggestion)
	}

	return builder.String()
}

// actionableError is the concrete implementation of ActionableError.
type actionableError struct {
	originalError string
	category      ErrorCategory
	suggestions   []string
	affectedPath  string
	cause         error
}

// AffectedPath returns the file path affected by this error.
func (e *actionableError) AffectedPath() string {
	return e.affectedPath
}

// Category returns the error category.
func (e *actionableError) Category() ErrorCategory {
	return e.category
}

// Error implements the error interface.
func (e *actionableError) Error() string {
	return e.originalError
}

// OriginalError returns the original error message.
func (e *actionableError) OriginalError() string {
	return e.originalError
}

// Suggestions returns the list of actionable suggestions.
func (e *actionableError) Suggestions() []string {
	return e.suggestions
}

// Unwrap returns the enriched error, so errors.Is keeps working on sentinels.
func (e *actionableError) Unwrap() error {
	return e.cause
}
