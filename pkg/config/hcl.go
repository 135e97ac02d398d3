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
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/walteh/dumpfix/pkg/rules"
	"github.com/zclconf/go-cty/cty"
	"gitlab.com/tozd/go/errors"
)

func init() {
	Register(&HCLParser{})
}

// 🔧 HCLParser implements the Parser interface for HCL files
type HCLParser struct{}

// 🔍 CanParse checks if this parser can handle the given file
func (p *HCLParser) CanParse(filename string) bool {
	return strings.HasSuffix(filename, ".hcl")
}

// 📝 Parse parses the config from HCL
func (p *HCLParser) Parse(ctx context.Context, data []byte) (*Config, error) {
	parser := hclparse.NewParser()
	hclFile, diags := parser.ParseHCL(data, "dumpfix.hcl")
	if diags.HasErrors() {
		return nil, errors.Errorf("parsing HCL: %s", diags.Error())
	}

	// presets can be referenced as bare variables: preset = preset.normalize
	presetVars := map[string]cty.Value{}
	for _, name := range rules.Names() {
		presetVars[name] = cty.StringVal(name)
	}
	evalCtx := &hcl.EvalContext{
		Variables: map[string]cty.Value{
			"preset": cty.ObjectVal(presetVars),
		},
	}

	type hclConfig struct {
		Rules []struct {
			Preset string `hcl:"preset,optional"`
			Name   string `hcl:"name,optional"`
			From   string `hcl:"from,optional"`
			To     string `hcl:"to,optional"`
			Files  string `hcl:"files,optional"`
		} `hcl:"rule,block"`
		Jobs []struct {
			Input  string `hcl:"input,optional"`
			Output string `hcl:"output,optional"`
			Glob   string `hcl:"glob,optional"`
			Suffix string `hcl:"suffix,optional"`
		} `hcl:"job,block"`
		Atomic *bool `hcl:"atomic,optional"`
		Async  bool  `hcl:"async,optional"`
	}

	var hclCfg hclConfig
	diags = gohcl.DecodeBody(hclFile.Body, evalCtx, &hclCfg)
	if diags.HasErrors() {
		return nil, errors.Errorf("decoding HCL: %s", diags.Error())
	}

	cfg := &Config{
		Atomic: hclCfg.Atomic,
		Async:  hclCfg.Async,
	}
	for _, r := range hclCfg.Rules {
		cfg.Rules = append(cfg.Rules, Rule{
			Preset: r.Preset,
			Name:   r.Name,
			From:   r.From,
			To:     r.To,
			Files:  r.Files,
		})
	}
	for _, j := range hclCfg.Jobs {
		cfg.Jobs = append(cfg.Jobs, Job{
			Input:  j.Input,
			Output: j.Output,
			Glob:   j.Glob,
			Suffix: j.Suffix,
		})
	}

	return cfg, nil
}
