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

package status

import (
	"strconv"

	"github.com/pterm/pterm"
	"github.com/walteh/dumpfix/pkg/operation"
	"github.com/walteh/dumpfix/pkg/text"
	"gitlab.com/tozd/go/errors"
)

// 📋 RenderSummary renders one table row per outcome
func RenderSummary(t *Tracker, outcomes []operation.Outcome) (string, error) {
	data := pterm.TableData{{"Input", "Output", "Status", "Replacements"}}
	for _, o := range outcomes {
		replacements := "-"
		if o.Err == nil && o.Result != nil {
			replacements = strconv.Itoa(o.Result.Replacements)
		}
		output := o.Job.Output
		if o.Job.InPlace() {
			output = "(in place)"
		}
		data = append(data, []string{o.Job.Input, output, t.Classify(o).String(), replacements})
	}

	out, err := pterm.DefaultTable.WithHasHeader().WithData(data).Srender()
	if err != nil {
		return "", errors.Errorf("rendering summary: %w", err)
	}
	return out, nil
}

// 📋 RenderRules renders a named set of rules, one row per literal pair
func RenderRules(sets map[string][]text.ReplacementRule, order []string) (string, error) {
	data := pterm.TableData{{"Preset", "Rule", "From", "To"}}
	for _, name := range order {
		for _, r := range sets[name] {
			data = append(data, []string{name, r.String(), r.FromText, r.ToText})
		}
	}

	out, err := pterm.DefaultTable.WithHasHeader().WithData(data).Srender()
	if err != nil {
		return "", errors.Errorf("rendering rules: %w", err)
	}
	return out, nil
}
