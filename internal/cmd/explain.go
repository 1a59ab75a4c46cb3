package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rjweaver/cronsched/internal/cronx"
	"github.com/rjweaver/cronsched/internal/human"
	"github.com/rjweaver/cronsched/internal/legacy"
)

var explainJSON bool

var explainCmd = &cobra.Command{
	Use:   "explain <cron-expression>",
	Short: "Explain a cron expression in plain English",
	Long: `Convert a cron expression to human-readable text.

Supports strict 5-field expressions, macros (@daily, @hourly, ...), named
months/weekdays, and step/range syntax.

Examples:
  cronsched explain "0 0 * * *"
  cronsched explain "*/15 9-17 * * 1-5"
  cronsched explain "@daily" --json`,
	Args: cobra.ExactArgs(1),
	RunE: runExplain,
}

func init() {
	rootCmd.AddCommand(explainCmd)
	explainCmd.Flags().BoolVarP(&explainJSON, "json", "j", false, "Output as JSON")
}

func runExplain(cmd *cobra.Command, args []string) error {
	expression := args[0]

	strict, err := legacy.Convert(expression)
	if err != nil {
		return fmt.Errorf("failed to parse expression: %w", err)
	}
	expr, err := cronx.Parse(strict)
	if err != nil {
		return fmt.Errorf("failed to parse expression: %w", err)
	}

	description := human.NewHumanizer().Humanize(expr)

	if explainJSON {
		return jsonEncode(cmd.OutOrStdout(), map[string]string{
			"expression":  expression,
			"strict":      strict,
			"description": description,
		})
	}

	fmt.Fprintln(cmd.OutOrStdout(), description)
	return nil
}
