package commands

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/walteh/dumpfix/cmd/dumpfix/opts"
	"github.com/walteh/dumpfix/pkg/rules"
	"github.com/walteh/dumpfix/pkg/status"
	"github.com/walteh/dumpfix/pkg/text"
	"gitlab.com/tozd/go/errors"
)

// NewRulesCmd creates a command listing the built-in presets
func NewRulesCmd(rootOpts *opts.RootOpts) *cobra.Command {
	return &cobra.Command{
		Use:   "rules",
		Short: "List the built-in rule presets",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			names := rules.Names()
			sets := make(map[string][]text.ReplacementRule, len(names))
			for _, name := range names {
				r, err := rules.Lookup(name)
				if err != nil {
					return errors.Errorf("looking up preset: %w", err)
				}
				sets[name] = r
			}

			table, err := status.RenderRules(sets, names)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), table)
			return nil
		},
	}
}
