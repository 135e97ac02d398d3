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

package operation

import (
	"context"

	"github.com/rs/zerolog"
	"github.com/walteh/dumpfix/pkg/substitute"
	"github.com/walteh/dumpfix/pkg/text"
	"gitlab.com/tozd/go/errors"
	"golang.org/x/sync/errgroup"
)

// 🏃 Runner executes jobs
type Runner struct {
	logger   *zerolog.Logger
	async    bool
	atomic   bool
	replacer text.TextReplacer
}

// 🏗️ NewRunner creates a new runner
func NewRunner(logger *zerolog.Logger, async, atomic bool) *Runner {
	return &Runner{
		logger:   logger,
		async:    async,
		atomic:   atomic,
		replacer: text.NewSimpleTextReplacer(),
	}
}

// WithReplacer swaps the text replacer used for every job
func (r *Runner) WithReplacer(replacer text.TextReplacer) *Runner {
	r.replacer = replacer
	return r
}

// 🏃 Run executes the jobs. Outcomes are returned in job order; on failure only jobs that ran are
// included.
func (r *Runner) Run(ctx context.Context, jobs []Job) ([]Outcome, error) {
	if err := ValidateJobs(jobs); err != nil {
		return nil, err
	}

	r.logger.Debug().Int("jobs", len(jobs)).Bool("async", r.async).Msg("running jobs")

	if r.async {
		return r.runAsync(ctx, jobs)
	}
	return r.runSync(ctx, jobs)
}

// 🔄 runSync runs jobs one after another, stopping at the first failure
func (r *Runner) runSync(ctx context.Context, jobs []Job) ([]Outcome, error) {
	outcomes := make([]Outcome, 0, len(jobs))
	for i, job := range jobs {
		if err := ctx.Err(); err != nil {
			return outcomes, errors.Errorf("operation cancelled: %w", err)
		}
		outcome := r.runJob(ctx, job)
		outcomes = append(outcomes, outcome)
		if outcome.Err != nil {
			return outcomes, errors.Errorf("job %d (%s): %w", i, job.Input, outcome.Err)
		}
	}
	return outcomes, nil
}

// ⚡ runAsync runs jobs concurrently, cancelling the rest after the first failure
func (r *Runner) runAsync(ctx context.Context, jobs []Job) ([]Outcome, error) {
	results := make([]*Outcome, len(jobs))

	g, gctx := errgroup.WithContext(ctx)
	for i, job := range jobs {
		i, job := i, job
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return nil
			}
			outcome := r.runJob(gctx, job)
			results[i] = &outcome
			if outcome.Err != nil {
				return errors.Errorf("job %d (%s): %w", i, job.Input, outcome.Err)
			}
			return nil
		})
	}
	err := g.Wait()

	outcomes := make([]Outcome, 0, len(jobs))
	for _, o := range results {
		if o != nil {
			outcomes = append(outcomes, *o)
		}
	}

	if err != nil {
		return outcomes, err
	}
	if err := ctx.Err(); err != nil {
		return outcomes, errors.Errorf("operation cancelled: %w", err)
	}
	return outcomes, nil
}

func (r *Runner) runJob(ctx context.Context, job Job) Outcome {
	logger := r.logger.With().Str("input", job.Input).Logger()
	ctx = logger.WithContext(ctx)

	result, err := substitute.Apply(ctx, substitute.Options{
		Input:    job.Input,
		Output:   job.Output,
		Rules:    job.Rules,
		Atomic:   r.atomic,
		Replacer: r.replacer,
	})
	if err != nil {
		logger.Debug().Err(err).Msg("job failed")
	}
	return Outcome{Job: job, Result: result, Err: err}
}
