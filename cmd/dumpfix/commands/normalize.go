package commands

import (
	"path/filepath"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/walteh/dumpfix/cmd/dumpfix/opts"
	"github.com/walteh/dumpfix/pkg/log"
	"github.com/walteh/dumpfix/pkg/rules"
	"github.com/walteh/dumpfix/pkg/substitute"
	"gitlab.com/tozd/go/errors"
)

const (
	DefaultNormalizeInput  = "meair-postgres-final.sql"
	DefaultNormalizeOutput = "meair-postgres-final-fixed.sql"
)

// NewNormalizeCmd creates the dump normalizer command
func NewNormalizeCmd(rootOpts *opts.RootOpts) *cobra.Command {
	var input, output string

	cmd := &cobra.Command{
		Use:   "normalize",
		Short: "Collapse doubled single quotes into a new file",
		Long: `Normalize reads the input dump, replaces every '' with ' and writes the result to a
separate output file. The input is never modified.

Every doubled quote is collapsed, including quotes that were escaped on purpose
inside string literals.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			ctx = zerolog.Ctx(ctx).With().Str("command", "normalize").Logger().WithContext(ctx)
			console := log.FromContext(ctx)

			if sameFile(input, output) {
				return errors.Errorf("output %s must differ from input %s", output, input)
			}

			result, err := substitute.Apply(ctx, substitute.Options{
				Input:  input,
				Output: output,
				Rules:  rules.Normalize(),
				Atomic: rootOpts.Atomic(),
			})
			if err != nil {
				return errors.Errorf("normalizing %s: %w", input, err)
			}

			if rr, ok := result.Rule(rules.CollapseDoubledQuotes.Name); ok && rr.Found > 0 {
				zerolog.Ctx(ctx).Warn().
					Int("collapsed", rr.Found).
					Msg("collapsed doubled quotes, intentionally escaped quotes inside literals were collapsed too")
			}

			console.Print("File converted successfully")
			console.Printf("Output: %s", output)
			return nil
		},
	}

	cmd.Flags().StringVarP(&input, "input", "i", DefaultNormalizeInput, "dump file to read")
	cmd.Flags().StringVarP(&output, "output", "o", DefaultNormalizeOutput, "file to write")

	return cmd
}

func sameFile(a, b string) bool {
	if ra, err := filepath.EvalSymlinks(a); err == nil {
		a = ra
	}
	if rb, err := filepath.EvalSymlinks(b); err == nil {
		b = rb
	}
	absA, errA := filepath.Abs(a)
	absB, errB := filepath.Abs(b)
	if errA != nil || errB != nil {
		return filepath.Clean(a) == filepath.Clean(b)
	}
	return absA == absB
}
