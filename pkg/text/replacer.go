package text

import (
	"context"
	"io"
	"path"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// ReplacementRule defines a single literal text replacement
type ReplacementRule struct {
	// Name identifies the rule in reports, optional
	Name string

	// FromText is the literal text to replace
	FromText string

	// ToText is the replacement text
	ToText string

	// FileFilterGlob limits the rule to files matching this doublestar pattern, empty means all files
	FileFilterGlob string
}

// String returns the rule name, falling back to the literal pair
func (r ReplacementRule) String() string {
	if r.Name != "" {
		return r.Name
	}
	return r.FromText + " -> " + r.ToText
}

// AppliesTo reports whether the rule should run against the file at p.
// Patterns without a slash are matched against the base name only.
func (r ReplacementRule) AppliesTo(p string) bool {
	if r.FileFilterGlob == "" {
		return true
	}
	p = filepath.ToSlash(p)
	if !strings.Contains(r.FileFilterGlob, "/") {
		p = path.Base(p)
	}
	ok, err := doublestar.Match(r.FileFilterGlob, p)
	return err == nil && ok
}

// RuleResult reports what a single rule did to the buffer
type RuleResult struct {
	Rule ReplacementRule

	// Found is the number of FromText occurrences in the buffer before the rule ran
	Found int

	// Resulting is the number of ToText occurrences in the buffer after the rule ran
	Resulting int
}

// ReplacementResult contains the results of a text replacement operation
type ReplacementResult struct {
	// WasModified indicates if any replacements were made
	WasModified bool

	// ReplacementCount is the number of replacements made across all rules
	ReplacementCount int

	// Rules holds one entry per applied rule, in order
	Rules []RuleResult

	// OriginalContent is the content before replacements
	OriginalContent []byte

	// ModifiedContent is the content after replacements
	ModifiedContent []byte
}

// TextReplacer defines the interface for text replacement operations
type TextReplacer interface {
	// ReplaceText applies a set of replacement rules to the content, in order
	ReplaceText(ctx context.Context, content io.Reader, rules []ReplacementRule) (*ReplacementResult, error)

	// ValidateRules checks that all rules are valid
	ValidateRules(rules []ReplacementRule) error
}
