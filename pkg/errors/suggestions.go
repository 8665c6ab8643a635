package errors

import "fmt"

// SuggestionGenerator generates actionable suggestions based on error category.
type SuggestionGenerator interface {
	Generate(category ErrorCategory, affectedPath string) []string
}

// NewSuggestionGenerator creates a new SuggestionGenerator.
func NewSuggestionGenerator() SuggestionGenerator {
	return &suggestionGenerator{}
}

// suggestionGenerator is the concrete implementation of SuggestionGenerator.
type suggestionGenerator struct{}

// Generate returns actionable suggestions based on the error category and affected path.
func (g *suggestionGenerator) Generate(category ErrorCategory, affectedPath string) []string {
	switch category {
	case CategoryPermission:
		return g.generatePermissionSuggestions(affectedPath)
	case CategoryCorrupt:
		return g.generateCorruptSuggestions(affectedPath)
	case CategoryDiskSpace:
		return g.generateDiskSpaceSuggestions(affectedPath)
	case CategoryPath:
		return g.generatePathSuggestions(affectedPath)
	case CategoryIO:
		return g.generateIOSuggestions(affectedPath)
	case CategoryUnknown:
		return g.generateUnknownSuggestions(affectedPath)
	default:
		return g.generateUnknownSuggestions(affectedPath)
	}
}

func (g *suggestionGenerator) generateCorruptSuggestions(path string) []string {
	suggestions := []string{
		"The inventory file could not be parsed; starting from an empty inventory",
		"The unreadable file is kept aside as a .corrupt backup on the next save",
	}

	if path != "" {
		suggestions = append(suggestions, "Inspect or restore the file by hand: "+path)
	}

	return suggestions
}

func (g *suggestionGenerator) generateDiskSpaceSuggestions(path string) []string {
	suggestions := []string{
		"Free up space on the device holding the inventory",
		"Check available space with 'df -h'",
	}

	if path != "" {
		suggestions = append(suggestions, "Or point --store at another location than "+path)
	}

	return suggestions
}

func (g *suggestionGenerator) generateIOSuggestions(path string) []string {
	suggestions := []string{
		"Check that the drive or network share is still connected",
		"Try the operation again - this may be a transient I/O error",
	}

	if path != "" {
		suggestions = append(suggestions, "Verify the device containing "+path+" is healthy")
	}

	return suggestions
}

func (g *suggestionGenerator) generatePathSuggestions(path string) []string {
	suggestions := []string{
		"The file may have been moved or deleted while scanning",
	}

	if path != "" {
		suggestions = append(suggestions, "Check if the path still exists: "+path)
	} else {
		suggestions = append(suggestions, "Verify the path exists and is spelled correctly")
	}

	return suggestions
}

func (g *suggestionGenerator) generatePermissionSuggestions(path string) []string {
	suggestions := []string{
		"Ensure you have read permission for the files and directories being scanned",
	}

	if path != "" {
		suggestions = append(suggestions, fmt.Sprintf("Check permissions with 'ls -la %s'", path))
	} else {
		suggestions = append(suggestions, "Check permissions with 'ls -la' on the affected path")
	}

	suggestions = append(suggestions, "Exclude protected folders with --exclude")

	return suggestions
}

func (g *suggestionGenerator) generateUnknownSuggestions(path string) []string {
	suggestions := []string{
		"Check the error message for more details",
		"See the debug log (--log) for the full error chain",
	}

	if path != "" {
		suggestions = append(suggestions, "Verify the path is accessible: "+path)
	}

	return suggestions
}
