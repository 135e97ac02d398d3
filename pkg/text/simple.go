package text

import (
	"context"
	"io"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"gitlab.com/tozd/go/errors"
)

var _ TextReplacer = (*SimpleTextReplacer)(nil)

// SimpleTextReplacer implements TextReplacer using literal, non-overlapping string replacement
type SimpleTextReplacer struct{}

// NewSimpleTextReplacer creates a new SimpleTextReplacer
func NewSimpleTextReplacer() *SimpleTextReplacer {
	return &SimpleTextReplacer{}
}

// ReplaceText implements TextReplacer.ReplaceText.
// Each rule scans the output of the previous one exactly once.
func (r *SimpleTextReplacer) ReplaceText(ctx context.Context, content io.Reader, rules []ReplacementRule) (*ReplacementResult, error) {
	originalContent, err := io.ReadAll(content)
	if err != nil {
		return nil, errors.Errorf("reading content: %w", err)
	}

	result := &ReplacementResult{
		OriginalContent: originalContent,
		ModifiedContent: originalContent,
		Rules:           make([]RuleResult, 0, len(rules)),
	}

	current := string(originalContent)
	for _, rule := range rules {
		if err := ctx.Err(); err != nil {
			return nil, errors.Errorf("applying rule %s: %w", rule, err)
		}

		// empty patterns would match between every rune
		if rule.FromText == "" {
			continue
		}

		found := strings.Count(current, rule.FromText)
		if found > 0 {
			current = strings.ReplaceAll(current, rule.FromText, rule.ToText)
			result.ReplacementCount += found
			if rule.FromText != rule.ToText {
				result.WasModified = true
			}
		}

		result.Rules = append(result.Rules, RuleResult{
			Rule:      rule,
			Found:     found,
			Resulting: countResulting(current, rule.ToText),
		})
	}

	if result.WasModified {
		result.ModifiedContent = []byte(current)
	}
	return result, nil
}

// countResulting counts occurrences of s, treating an empty replacement as zero occurrences
func countResulting(content, s string) int {
	if s == "" {
		return 0
	}
	return strings.Count(content, s)
}

// ValidateRules implements TextReplacer.ValidateRules
func (r *SimpleTextReplacer) ValidateRules(rules []ReplacementRule) error {
	for i, rule := range rules {
		if rule.FromText == "" {
			return errors.Errorf("rule %d: from_text is required", i)
		}
		if rule.FileFilterGlob != "" && !doublestar.ValidatePattern(rule.FileFilterGlob) {
			return errors.Errorf("rule %d: invalid file_filter_glob %q", i, rule.FileFilterGlob)
		}
	}
	return nil
}
