package commands

import (
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/walteh/dumpfix/cmd/dumpfix/opts"
	"github.com/walteh/dumpfix/pkg/log"
	"github.com/walteh/dumpfix/pkg/rules"
	"github.com/walteh/dumpfix/pkg/substitute"
)

const DefaultApostropheFile = "meair-postgres.sql"

// NewApostropheCmd creates the apostrophe fixer command
func NewApostropheCmd(rootOpts *opts.RootOpts) *cobra.Command {
	var backup bool

	cmd := &cobra.Command{
		Use:   "apostrophe [file]",
		Short: `Rewrite Dep\'t as Dep''t in place`,
		Long: `Apostrophe rewrites the backslash escaped apostrophe in Dep\'t to the doubled
form Dep''t and overwrites the file. The file defaults to ` + DefaultApostropheFile + `.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			ctx = zerolog.Ctx(ctx).With().Str("command", "apostrophe").Logger().WithContext(ctx)
			console := log.FromContext(ctx)

			filename := DefaultApostropheFile
			if len(args) > 0 {
				filename = args[0]
			}

			rule := rules.DepartmentApostrophe
			result, err := substitute.Apply(ctx, substitute.Options{
				Input:  filename,
				Output: filename,
				Rules:  rules.Apostrophe(),
				Atomic: rootOpts.Atomic(),
				Backup: backup,
			})
			if result != nil {
				rr, _ := result.Rule(rule.Name)
				console.Printf("Found %d occurrences of %s", rr.Found, rule.FromText)
				console.Printf("Replaced with %d occurrences of %s", rr.Resulting, rule.ToText)
			}
			if err != nil {
				console.Errorf("Error: %v", err)
				return opts.Reported(err)
			}

			console.Successf("Successfully fixed %s", filename)
			if result.BackupPath != "" {
				console.Infof("Backup: %s", result.BackupPath)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&backup, "backup", false, "keep a copy of the original file with a .bak suffix")

	return cmd
}
