package errors

import "strings"

// PatternMatcher matches error messages to categories using string patterns.
type PatternMatcher interface {
	Match(errorMsg string) ErrorCategory
}

// NewPatternMatcher creates a new PatternMatcher with predefined patterns.
// Categories are checked in order, so a message naming both a permission
// problem and a missing path is reported as a permission problem.
func NewPatternMatcher() PatternMatcher {
	return &patternMatcher{
		patterns: []categoryPatterns{
			{CategoryPermission, []string{
				"permission denied",
				"access denied",
				"access is denied",
				"operation not permitted",
			}},
			{CategoryCorrupt, []string{
				"corrupt",
				"invalid character",
				"unexpected end of json input",
				"file is not a database",
				"malformed",
			}},
			{CategoryDiskSpace, []string{
				"no space left on device",
				"disk full",
				"quota exceeded",
			}},
			{CategoryPath, []string{
				"no such file or directory",
				"cannot find the file",
				"cannot find the path",
				"file not found",
				"path does not exist",
			}},
			{CategoryIO, []string{
				"input/output error",
				"i/o error",
				"i/o timeout",
				"stale nfs file handle",
				"network path was not found",
				"device not configured",
			}},
		},
	}
}

type categoryPatterns struct {
	category ErrorCategory
	patterns []string
}

// patternMatcher is the concrete implementation of PatternMatcher.
type patternMatcher struct {
	patterns []categoryPatterns
}

// Match returns the error category based on pattern matching.
func (m *patternMatcher) Match(errorMsg string) ErrorCategory {
	lowerMsg := strings.ToLower(errorMsg)

	for _, entry := range m.patterns {
		for _, pattern := range entry.patterns {
			if strings.Contains(lowerMsg, pattern) {
				return entry.category
			}
		}
	}

	return CategoryUnknown
}
