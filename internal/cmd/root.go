package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

var rootCmd = &cobra.Command{
	Use:     "cronsched",
	Short:   "cronsched - a persistent, crash-safe cron task scheduler",
	Version: fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date),
	Long: `cronsched runs a fixed set of named tasks on cron schedules, persisting
their run history so a restart picks up missed and in-flight work instead
of silently dropping it.

Run "cronsched run --config FILE" to start the daemon, or use the other
subcommands to inspect schedules and registration files before committing
them.`,
	Run: func(cmd *cobra.Command, args []string) {
		_ = cmd.Help()
	},
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// SetOutput sets the output and error writers for the root command.
func SetOutput(out, err interface{}) {
	if w, ok := out.(interface{ Write([]byte) (int, error) }); ok {
		rootCmd.SetOut(w)
	}
	if w, ok := err.(interface{ Write([]byte) (int, error) }); ok {
		rootCmd.SetErr(w)
	}
}

func outputJSON(cmd *cobra.Command, data interface{}) error {
	return jsonEncode(cmd.OutOrStdout(), data)
}
