// Package classify tags records with a coarse application group using an
// ordered list of path rules. The first rule that matches wins.
package classify

import (
	"strings"

	"github.com/joe/file-inventory/internal/inventory"
)

// Group tags.
const (
	GroupApplication = "potential_application"
	GroupConfig      = "potential_config"
	GroupBundle      = "potential_bundle"
	GroupAppPrefix   = "potential_app_"
)

// Rule maps a predicate over a record's root-relative path to a group tag.
type Rule struct {
	Name  string
	Match func(path Path) string
}

// Path is a root-relative path split into lowercase parts, plus the record's
// extension.
type Path struct {
	Parts     []string
	Extension string
}

// Parent returns the directory holding the file, or "" for files at the root.
func (p Path) Parent() string {
	if len(p.Parts) < 2 { //nolint:mnd // a parent needs at least dir + file
		return ""
	}

	return p.Parts[len(p.Parts)-2]
}

// Classifier applies its rules in order.
type Classifier struct {
	rules []Rule
}

// New returns a Classifier with the given rules.
func New(rules ...Rule) *Classifier {
	return &Classifier{rules: rules}
}

// Default returns the standard rule set:
//  1. any directory named "app"
//  2. any directory named "program files"
//  3. a parent named config, configuration or settings
//  4. an .exe or .app file inside a directory, tagged with that directory
//  5. a parent whose name contains "bundle" or "package"
func Default() *Classifier {
	return New(
		Rule{Name: "app directory", Match: anyPart(GroupApplication, "app")},
		Rule{Name: "program files", Match: anyPart(GroupApplication, "program files")},
		Rule{Name: "config parent", Match: parentIn(GroupConfig, "config", "configuration", "settings")},
		Rule{Name: "executable", Match: executable},
		Rule{Name: "bundle parent", Match: parentContains(GroupBundle, "bundle", "package")},
	)
}

// Classify returns the tag of the first matching rule, or "".
func (c *Classifier) Classify(relativePath, extension string) string {
	path := Split(relativePath, extension)

	for _, rule := range c.rules {
		if tag := rule.Match(path); tag != "" {
			return tag
		}
	}

	return ""
}

// Apply tags record using its path relative to root.
func (c *Classifier) Apply(record inventory.Record, relativePath string) inventory.Record {
	return record.WithGroup(c.Classify(relativePath, record.Extension))
}

// Split breaks a relative path on both separator styles.
func Split(relativePath, extension string) Path {
	fields := strings.FieldsFunc(strings.ToLower(relativePath), func(r rune) bool {
		return r == '/' || r == '\\'
	})

	return Path{Parts: fields, Extension: strings.ToLower(extension)}
}

func anyPart(tag string, names ...string) func(Path) string {
	return func(p Path) string {
		for _, part := range p.Parts {
			for _, name := range names {
				if part == name {
					return tag
				}
			}
		}

		return ""
	}
}

func parentIn(tag string, names ...string) func(Path) string {
	return func(p Path) string {
		parent := p.Parent()

		for _, name := range names {
			if parent == name {
				return tag
			}
		}

		return ""
	}
}

func parentContains(tag string, needles ...string) func(Path) string {
	return func(p Path) string {
		parent := p.Parent()
		if parent == "" {
			return ""
		}

		for _, needle := range needles {
			if strings.Contains(parent, needle) {
				return tag
			}
		}

		return ""
	}
}

func executable(p Path) string {
	if p.Extension != ".exe" && p.Extension != ".app" {
		return ""
	}

	if parent := p.Parent(); parent != "" {
		return GroupAppPrefix + parent
	}

	return ""
}
