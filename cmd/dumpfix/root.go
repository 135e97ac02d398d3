package main

import (
	"io"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/walteh/dumpfix/cmd/dumpfix/commands"
	"github.com/walteh/dumpfix/cmd/dumpfix/opts"
	"github.com/walteh/dumpfix/pkg/log"
)

// newRootCmd wires the subcommands and the shared logging setup
func newRootCmd(rootOpts *opts.RootOpts, stdout, stderr io.Writer) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "dumpfix",
		Short: "Fix quote escaping in SQL dumps moved between database systems",
		Long: `dumpfix applies fixed, ordered, literal substitutions to SQL dump files.
It does not parse SQL: every rule is a plain find-and-replace over the whole file.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			setupLogging(cmd, rootOpts)
		},
	}

	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)
	addRootFlags(rootCmd, rootOpts)

	rootCmd.AddCommand(
		commands.NewNormalizeCmd(rootOpts),
		commands.NewApostropheCmd(rootOpts),
		commands.NewRunCmd(rootOpts),
		commands.NewRulesCmd(rootOpts),
		newVersionCmd(),
	)

	return rootCmd
}

// addRootFlags adds shared flags to the root command
func addRootFlags(cmd *cobra.Command, rootOpts *opts.RootOpts) {
	cmd.PersistentFlags().BoolVarP(&rootOpts.Debug, "debug", "d", false, "enable debug logging")
	cmd.PersistentFlags().BoolVar(&rootOpts.NoAtomic, "no-atomic", false, "write outputs directly instead of through a temp file")
}

// setupLogging puts a zerolog logger on stderr and a console logger on stdout into the context
func setupLogging(cmd *cobra.Command, rootOpts *opts.RootOpts) {
	level := zerolog.WarnLevel
	if rootOpts.Debug {
		level = zerolog.DebugLevel
	}
	zlog := zerolog.New(zerolog.ConsoleWriter{Out: cmd.ErrOrStderr()}).Level(level).With().Timestamp().Logger()

	ctx := zlog.WithContext(cmd.Context())
	ctx = log.NewContext(ctx, log.New(cmd.OutOrStdout(), zlog))
	cmd.SetContext(ctx)
}
