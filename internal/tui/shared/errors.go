package shared

import (
	"fmt"
	"strings"

	"github.com/joe/file-inventory/internal/inventory"
	"github.com/joe/file-inventory/pkg/errors"
)

// ErrorLimitSummary is how many failures the scan summary lists.
const ErrorLimitSummary = 5

// ErrorListConfig holds configuration for rendering failure lists
type ErrorListConfig struct {
	// Failures is the list of paths to display
	Failures []inventory.Failure

	// Limit caps the number of entries shown (0 means ErrorLimitSummary)
	Limit int

	// MaxWidth is the maximum width for path and reason display
	MaxWidth int

	// ShowSuggestions adds the category's suggestions under each entry
	ShowSuggestions bool
}

// RenderErrorList renders failures with a limit and an overflow line.
func RenderErrorList(config ErrorListConfig) string {
	if len(config.Failures) == 0 {
		return ""
	}

	limit := config.Limit
	if limit <= 0 {
		limit = ErrorLimitSummary
	}

	generator := errors.NewSuggestionGenerator()

	var builder strings.Builder

	for i, failure := range config.Failures {
		if i >= limit {
			fmt.Fprintf(&builder, "  ... and %d more (see error log)\n", len(config.Failures)-limit)

			break
		}

		displayPath := failure.Path
		if config.MaxWidth > 0 {
			displayPath = TruncatePath(displayPath, config.MaxWidth)
		}

		fmt.Fprintf(&builder, "  %s %s\n", ErrorSymbol(), FileItemErrorStyle().Render(displayPath))

		reason := failure.Reason
		if config.MaxWidth > 0 && len(reason) > config.MaxWidth {
			reason = reason[:config.MaxWidth-EllipsisLength] + "..."
		}

		fmt.Fprintf(&builder, "    %s\n", reason)

		if !config.ShowSuggestions {
			continue
		}

		for _, suggestion := range generator.Generate(errors.ErrorCategory(failure.Category), failure.Path) {
			fmt.Fprintf(&builder, "      • %s\n", suggestion)
		}
	}

	return builder.String()
}

// RenderActionableError renders err with its suggestions when it has any.
func RenderActionableError(err error) string {
	if err == nil {
		return ""
	}

	enriched := errors.NewEnricher().Enrich(err, "")

	var builder strings.Builder

	builder.WriteString(RenderError(fmt.Sprintf("%s %s", ErrorSymbol(), err.Error())))

	if suggestions := errors.FormatSuggestions(enriched); suggestions != "" {
		builder.WriteString("\n\n")
		builder.WriteString(suggestions)
	}

	return builder.String()
}
