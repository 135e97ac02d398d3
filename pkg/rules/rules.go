// Package rules holds the fixed substitution rules used to move SQL dumps between
// MySQL-style and PostgreSQL-style quote escaping.
package rules

import (
	"sort"

	"github.com/walteh/dumpfix/pkg/text"
	"gitlab.com/tozd/go/errors"
)

const (
	PresetNormalize  = "normalize"
	PresetApostrophe = "apostrophe"
)

var (
	// CollapseDoubledQuotes replaces every '' with a single '.
	// This also un-escapes quotes that were doubled on purpose inside string literals.
	CollapseDoubledQuotes = text.ReplacementRule{
		Name:     "collapse-doubled-quotes",
		FromText: "''",
		ToText:   "'",
	}

	// DepartmentApostrophe rewrites the backslash-escaped apostrophe in Dep\'t to the
	// PostgreSQL doubled form Dep''t.
	DepartmentApostrophe = text.ReplacementRule{
		Name:     "department-apostrophe",
		FromText: `Dep\'t`,
		ToText:   `Dep''t`,
	}
)

var ErrUnknownPreset = errors.Base("unknown preset")

var presets = map[string][]text.ReplacementRule{
	PresetNormalize:  {CollapseDoubledQuotes},
	PresetApostrophe: {DepartmentApostrophe},
}

// Normalize returns the rules applied by the dump normalizer
func Normalize() []text.ReplacementRule {
	return mustLookup(PresetNormalize)
}

// Apostrophe returns the rules applied by the apostrophe fixer
func Apostrophe() []text.ReplacementRule {
	return mustLookup(PresetApostrophe)
}

// Lookup returns a copy of the named preset
func Lookup(name string) ([]text.ReplacementRule, error) {
	r, ok := presets[name]
	if !ok {
		return nil, errors.Errorf("%w: %q", ErrUnknownPreset, name)
	}
	out := make([]text.ReplacementRule, len(r))
	copy(out, r)
	return out, nil
}

// Names lists the preset names in sorted order
func Names() []string {
	names := make([]string, 0, len(presets))
	for name := range presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func mustLookup(name string) []text.ReplacementRule {
	r, err := Lookup(name)
	if err != nil {
		panic(err)
	}
	return r
}
