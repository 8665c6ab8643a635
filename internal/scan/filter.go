package scan

import (
	"fmt"
	"path"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// FileFilter decides which walked entries take part in a scan.
type FileFilter interface {
	// ShouldInclude returns true if the file at the given relative path should be inspected.
	ShouldInclude(relativePath string) bool

	// ShouldDescend returns false for directories whose whole subtree is excluded.
	ShouldDescend(relativePath string) bool
}

// PatternFilter implements FileFilter using doublestar glob patterns.
// Matching is case-insensitive against the slash-separated path relative to
// the scan root. A pattern without a slash also matches the base name, so
// "*.tmp" excludes temp files at any depth.
type PatternFilter struct {
	include []string
	exclude []string
}

// NewPatternFilter creates a filter. No include patterns means include everything.
func NewPatternFilter(include, exclude []string) (*PatternFilter, error) {
	filter := &PatternFilter{}

	var err error

	filter.include, err = normalizePatterns(include)
	if err != nil {
		return nil, err
	}

	filter.exclude, err = normalizePatterns(exclude)
	if err != nil {
		return nil, err
	}

	return filter, nil
}

// ShouldDescend returns false when the directory matches an exclude pattern.
func (f *PatternFilter) ShouldDescend(relativePath string) bool {
	return !matchesAny(f.exclude, relativePath)
}

// ShouldInclude returns true if the file matches an include pattern (or there
// are none) and no exclude pattern.
func (f *PatternFilter) ShouldInclude(relativePath string) bool {
	if matchesAny(f.exclude, relativePath) {
		return false
	}

	return len(f.include) == 0 || matchesAny(f.include, relativePath)
}

func matchesAny(patterns []string, relativePath string) bool {
	normalizedPath := strings.ToLower(relativePath)
	base := path.Base(normalizedPath)

	for _, pattern := range patterns {
		if matched, _ := doublestar.Match(pattern, normalizedPath); matched {
			return true
		}

		if !strings.Contains(pattern, "/") {
			if matched, _ := doublestar.Match(pattern, base); matched {
				return true
			}
		}
	}

	return false
}

func normalizePatterns(patterns []string) ([]string, error) {
	normalized := make([]string, 0, len(patterns))

	for _, pattern := range patterns {
		pattern = strings.TrimSpace(pattern)
		if pattern == "" {
			continue
		}

		pattern = strings.ToLower(strings.ReplaceAll(pattern, `\`, "/"))
		if !doublestar.ValidatePattern(pattern) {
			return nil, fmt.Errorf("%w: %q", ErrInvalidPattern, pattern)
		}

		normalized = append(normalized, pattern)
	}

	return normalized, nil
}
