package operation

import (
	"context"
	"path/filepath"

	"github.com/walteh/dumpfix/pkg/config"
	"github.com/walteh/dumpfix/pkg/substitute"
	"github.com/walteh/dumpfix/pkg/text"
	"gitlab.com/tozd/go/errors"
)

var ErrConflict = config.ErrConflict

// 📄 Job rewrites a single file
type Job struct {
	Input  string
	Output string
	Rules  []text.ReplacementRule
}

// InPlace reports whether the job overwrites its input
func (j Job) InPlace() bool {
	return cleanAbs(j.Input) == cleanAbs(j.Output)
}

// 📊 Outcome is the result of a single job
type Outcome struct {
	Job    Job
	Result *substitute.Result
	Err    error
}

// 🏭 JobsFromConfig expands a config into jobs
func JobsFromConfig(ctx context.Context, cfg *config.Config) ([]Job, error) {
	replacements, err := cfg.ReplacementRules()
	if err != nil {
		return nil, errors.Errorf("building rules: %w", err)
	}

	targets, err := cfg.Targets(ctx)
	if err != nil {
		return nil, errors.Errorf("expanding targets: %w", err)
	}

	jobs := make([]Job, 0, len(targets))
	for _, t := range targets {
		// file filters are written relative to the config file
		rel := t.Input
		if r, err := filepath.Rel(cfg.Dir(), t.Input); err == nil {
			rel = r
		}
		jobs = append(jobs, Job{
			Input:  t.Input,
			Output: t.Output,
			Rules:  rulesFor(rel, replacements),
		})
	}
	return jobs, nil
}

// rulesFor keeps the rules whose file filter matches path, in order
func rulesFor(path string, all []text.ReplacementRule) []text.ReplacementRule {
	out := make([]text.ReplacementRule, 0, len(all))
	for _, r := range all {
		if r.AppliesTo(path) {
			out = append(out, r)
		}
	}
	return out
}

// 🔍 ValidateJobs rejects batches whose results would depend on execution order
func ValidateJobs(jobs []Job) error {
	inputs := make(map[string]int, len(jobs))
	for i, j := range jobs {
		inputs[cleanAbs(j.Input)] = i
	}

	outputs := make(map[string]int, len(jobs))
	for i, j := range jobs {
		out := cleanAbs(j.Output)
		if prev, ok := outputs[out]; ok {
			return errors.Errorf("%w: jobs %d and %d both write %s", ErrConflict, prev, i, j.Output)
		}
		outputs[out] = i

		if other, ok := inputs[out]; ok && other != i {
			return errors.Errorf("%w: job %d writes %s which is the input of job %d", ErrConflict, i, j.Output, other)
		}
	}
	return nil
}

func cleanAbs(p string) string {
	abs, err := filepath.Abs(p)
	if err != nil {
		return filepath.Clean(p)
	}
	return abs
}
