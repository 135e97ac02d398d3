// Copyright 2025 walteh LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package config

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/rs/zerolog"
	"github.com/walteh/dumpfix/pkg/rules"
	"github.com/walteh/dumpfix/pkg/text"
	"gitlab.com/tozd/go/errors"
)

// ErrConflict marks jobs that disagree about how a file is written
var ErrConflict = errors.Base("conflicting jobs")

// 🔌 Parser is the interface for config parsers
type Parser interface {
	// 📝 Parse parses the config from bytes
	Parse(ctx context.Context, data []byte) (*Config, error)

	// 🔍 CanParse checks if this parser can handle the given file
	CanParse(filename string) bool
}

var (
	// 🗺️ parsers is a list of available parsers
	parsers []Parser
)

// 📝 Register registers a parser
func Register(p Parser) {
	parsers = append(parsers, p)
}

// 🎯 GetParser returns a parser that can handle the given file
func GetParser(filename string) Parser {
	for _, p := range parsers {
		if p.CanParse(filename) {
			return p
		}
	}
	return nil
}

// 🔄 Rule is either a named preset or an explicit literal pair
type Rule struct {
	Preset string `json:"preset,omitempty" yaml:"preset,omitempty"`
	Name   string `json:"name,omitempty" yaml:"name,omitempty"`
	From   string `json:"from,omitempty" yaml:"from,omitempty"`
	To     string `json:"to,omitempty" yaml:"to,omitempty"`
	Files  string `json:"files,omitempty" yaml:"files,omitempty"` // optional doublestar filter
}

// 📄 Job selects the files to rewrite. Without Output or Suffix files are rewritten in place.
type Job struct {
	Input  string `json:"input,omitempty" yaml:"input,omitempty"`
	Output string `json:"output,omitempty" yaml:"output,omitempty"`
	Glob   string `json:"glob,omitempty" yaml:"glob,omitempty"`
	Suffix string `json:"suffix,omitempty" yaml:"suffix,omitempty"`
}

// 🎯 Target is a single expanded input/output pair
type Target struct {
	Input  string
	Output string
}

// 📚 Config represents a batch run
type Config struct {
	Rules  []Rule `json:"rules" yaml:"rules"`
	Jobs   []Job  `json:"jobs" yaml:"jobs"`
	Atomic *bool  `json:"atomic,omitempty" yaml:"atomic,omitempty"`
	Async  bool   `json:"async,omitempty" yaml:"async,omitempty"`

	location string
}

// 🎯 Load loads the configuration from a file
func Load(ctx context.Context, path string) (*Config, error) {
	logger := zerolog.Ctx(ctx)
	logger.Debug().Str("path", path).Msg("loading configuration")

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Errorf("reading config file: %w", err)
	}

	var cfg *Config
	if p := GetParser(path); p != nil {
		cfg, err = p.Parse(ctx, data)
		if err != nil {
			return nil, errors.Errorf("parsing config: %w", err)
		}
	} else if filepath.Base(path) == ".dumpfix" {
		// extensionless files may be YAML or HCL
		cfg, err = (&YAMLParser{}).Parse(ctx, data)
		if err != nil {
			cfg, err = (&HCLParser{}).Parse(ctx, data)
			if err != nil {
				return nil, errors.Errorf("failed to parse %s as YAML or HCL: %w", path, err)
			}
		}
	} else {
		return nil, errors.Errorf("no parser found for file: %s", path)
	}

	cfg.location = path

	if err := cfg.Validate(); err != nil {
		return nil, errors.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

// 📁 Dir is the directory relative paths resolve against
func (cfg *Config) Dir() string {
	if cfg.location == "" {
		return "."
	}
	return filepath.Dir(cfg.location)
}

// Location returns the file the config was loaded from
func (cfg *Config) Location() string {
	return cfg.location
}

// IsAtomic reports whether outputs are written through a temp file, true unless disabled
func (cfg *Config) IsAtomic() bool {
	return cfg.Atomic == nil || *cfg.Atomic
}

// 🔍 Validate checks if the configuration is valid
func (cfg *Config) Validate() error {
	if len(cfg.Rules) == 0 {
		return errors.Errorf("at least one rule is required")
	}
	if len(cfg.Jobs) == 0 {
		return errors.Errorf("at least one job is required")
	}

	for i, r := range cfg.Rules {
		switch {
		case r.Preset != "" && (r.From != "" || r.To != ""):
			return errors.Errorf("rule %d: preset cannot be combined with from/to", i)
		case r.Preset != "":
			if _, err := rules.Lookup(r.Preset); err != nil {
				return errors.Errorf("rule %d: %w", i, err)
			}
		case r.From == "":
			return errors.Errorf("rule %d: from is required", i)
		}
		if r.Files != "" && !doublestar.ValidatePattern(r.Files) {
			return errors.Errorf("rule %d: invalid files pattern %q", i, r.Files)
		}
	}

	for i, j := range cfg.Jobs {
		switch {
		case j.Input != "" && j.Glob != "":
			return errors.Errorf("job %d: input and glob are mutually exclusive", i)
		case j.Input == "" && j.Glob == "":
			return errors.Errorf("job %d: input or glob is required", i)
		case j.Glob != "" && j.Output != "":
			return errors.Errorf("job %d: output is only valid with input, use suffix for globs", i)
		case j.Input != "" && j.Suffix != "":
			return errors.Errorf("job %d: suffix is only valid with glob", i)
		case j.Glob != "" && !doublestar.ValidatePattern(filepath.ToSlash(j.Glob)):
			return errors.Errorf("job %d: invalid glob %q", i, j.Glob)
		}
	}

	return nil
}

// 🔄 ReplacementRules expands presets and explicit rules, keeping declaration order
func (cfg *Config) ReplacementRules() ([]text.ReplacementRule, error) {
	var out []text.ReplacementRule
	for i, r := range cfg.Rules {
		if r.Preset != "" {
			preset, err := rules.Lookup(r.Preset)
			if err != nil {
				return nil, errors.Errorf("rule %d: %w", i, err)
			}
			for _, p := range preset {
				if r.Files != "" {
					p.FileFilterGlob = r.Files
				}
				out = append(out, p)
			}
			continue
		}
		out = append(out, text.ReplacementRule{
			Name:           r.Name,
			FromText:       r.From,
			ToText:         r.To,
			FileFilterGlob: r.Files,
		})
	}
	return out, nil
}

// 📋 Targets expands jobs into concrete input/output pairs, relative to Dir
func (cfg *Config) Targets(ctx context.Context) ([]Target, error) {
	logger := zerolog.Ctx(ctx)
	base := cfg.Dir()

	type claim struct {
		job    int
		output string
	}

	var out []Target
	seen := map[string]claim{}
	add := func(i int, t Target) error {
		if prev, ok := seen[t.Input]; ok {
			if prev.output != t.Output {
				return errors.Errorf("%w: job %d writes %s to %s but job %d already writes it to %s",
					ErrConflict, i, t.Input, t.Output, prev.job, prev.output)
			}
			logger.Debug().Str("input", t.Input).Int("job", i).Msg("skipping duplicate input")
			return nil
		}
		seen[t.Input] = claim{job: i, output: t.Output}
		out = append(out, t)
		return nil
	}

	for i, j := range cfg.Jobs {
		if j.Input != "" {
			input := resolve(base, j.Input)
			output := input
			if j.Output != "" {
				output = resolve(base, j.Output)
			}
			if err := add(i, Target{Input: input, Output: output}); err != nil {
				return nil, err
			}
			continue
		}

		matches, err := expandGlob(base, j.Glob)
		if err != nil {
			return nil, errors.Errorf("job %d: expanding glob %q: %w", i, j.Glob, err)
		}
		if len(matches) == 0 {
			logger.Warn().Str("glob", j.Glob).Msg("glob matched no files")
		}
		for _, m := range matches {
			if j.Suffix != "" && isSuffixed(m, j.Suffix) {
				continue
			}
			if err := add(i, Target{Input: m, Output: withSuffix(m, j.Suffix)}); err != nil {
				return nil, err
			}
		}
	}

	return out, nil
}

func resolve(base, p string) string {
	if filepath.IsAbs(p) {
		return filepath.Clean(p)
	}
	return filepath.Join(base, p)
}

func expandGlob(base, pattern string) ([]string, error) {
	var matches []string
	if filepath.IsAbs(pattern) {
		found, err := doublestar.FilepathGlob(pattern, doublestar.WithFilesOnly())
		if err != nil {
			return nil, err
		}
		matches = found
	} else {
		found, err := doublestar.Glob(os.DirFS(base), filepath.ToSlash(pattern), doublestar.WithFilesOnly())
		if err != nil {
			return nil, err
		}
		for _, f := range found {
			matches = append(matches, filepath.Join(base, filepath.FromSlash(f)))
		}
	}
	sort.Strings(matches)
	return matches, nil
}

// withSuffix inserts suffix before the extension: dump.sql + -fixed = dump-fixed.sql
func withSuffix(p, suffix string) string {
	if suffix == "" {
		return p
	}
	ext := filepath.Ext(p)
	return strings.TrimSuffix(p, ext) + suffix + ext
}

func isSuffixed(p, suffix string) bool {
	ext := filepath.Ext(p)
	return strings.HasSuffix(strings.TrimSuffix(p, ext), suffix)
}
