package commands

import (
	"fmt"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/walteh/dumpfix/cmd/dumpfix/opts"
	"github.com/walteh/dumpfix/pkg/config"
	"github.com/walteh/dumpfix/pkg/log"
	"github.com/walteh/dumpfix/pkg/operation"
	"github.com/walteh/dumpfix/pkg/status"
	"gitlab.com/tozd/go/errors"
)

// NewRunCmd creates the batch command driven by a config file
func NewRunCmd(rootOpts *opts.RootOpts) *cobra.Command {
	var (
		configFile string
		async      bool
	)

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Apply the rules and jobs declared in a config file",
		Long: `Run loads a YAML, JSON or HCL config, expands its jobs and applies its rules to
every matched file. It will:
1. Load and validate the config
2. Expand globs into input/output pairs
3. Refuse batches where two jobs touch the same file
4. Rewrite each file and print a summary`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			logger := zerolog.Ctx(ctx).With().Str("command", "run").Logger()
			ctx = logger.WithContext(ctx)
			console := log.FromContext(ctx)

			cfg, err := config.Load(ctx, configFile)
			if err != nil {
				return errors.Errorf("loading config: %w", err)
			}

			jobs, err := operation.JobsFromConfig(ctx, cfg)
			if err != nil {
				return errors.Errorf("building jobs: %w", err)
			}

			console.Header("applying " + cfg.Location())
			for _, j := range jobs {
				if len(j.Rules) == 0 {
					console.Warningf("no rules apply to %s, it will be rewritten unchanged", j.Input)
				}
			}

			async = async || cfg.Async
			atomic := cfg.IsAtomic() && rootOpts.Atomic()

			tracker := status.NewTracker(jobs)
			formatter := status.NewDefaultFileFormatter()

			console.StartBatch(ctx, log.BatchOperation{Config: cfg.Location(), Jobs: len(jobs), Async: async})

			outcomes, runErr := operation.NewRunner(&logger, async, atomic).Run(ctx, jobs)
			for _, o := range outcomes {
				st := tracker.Classify(o)
				op := log.FileOperation{
					Path:       o.Job.Input,
					Output:     o.Job.Output,
					Status:     st.String(),
					IsNew:      st == status.StatusCreated,
					IsModified: st == status.StatusModified,
					IsFailed:   st == status.StatusFailed,
					InPlace:    o.Job.InPlace(),
				}
				if o.Err == nil && o.Result != nil {
					op.Replacements = o.Result.Replacements
				}
				console.LogFileOperation(ctx, op)
				logger.Debug().Msg(formatter.FormatFileOperation(o.Job.Input, st, op.Replacements))
			}
			console.EndBatch(ctx)
			console.LogNewline()

			summary, err := status.RenderSummary(tracker, outcomes)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), summary)

			if runErr != nil {
				console.Errorf("Error: %v", runErr)
				return opts.Reported(runErr)
			}

			console.Print(formatter.FormatProgress(len(outcomes), len(jobs)))
			return nil
		},
	}

	cmd.Flags().StringVarP(&configFile, "config", "c", ".dumpfix.yaml", "config file path")
	cmd.Flags().BoolVar(&async, "async", false, "rewrite files concurrently")

	return cmd
}
