package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/rjweaver/cronsched/internal/cronx"
	"github.com/rjweaver/cronsched/internal/human"
	"github.com/rjweaver/cronsched/internal/legacy"
)

// NextCommand wraps cobra.Command with next-specific flags.
type NextCommand struct {
	*cobra.Command
	count int
	from  string
	json  bool
}

type nextRun struct {
	Number    int    `json:"number"`
	Timestamp string `json:"timestamp"`
	Relative  string `json:"relative"`
}

type nextResult struct {
	Expression  string    `json:"expression"`
	Description string    `json:"description"`
	NextRuns    []nextRun `json:"next_runs"`
}

func newNextCommand() *NextCommand {
	nc := &NextCommand{}
	nc.Command = &cobra.Command{
		Use:   "next <cron-expression>",
		Short: "Show the next scheduled run times for a cron expression",
		Long: `Calculate and display the next scheduled run times for a cron expression,
using this scheduler's own calculator (cronx), not a third-party cron
library, so the output matches exactly what the daemon would fire.

Examples:
  cronsched next "*/15 * * * *"
  cronsched next "@daily" --count 5
  cronsched next "0 9 * * 1-5" --from "2026-01-01T00:00:00Z"`,
		Args: cobra.ExactArgs(1),
		RunE: nc.runNext,
	}

	nc.Flags().IntVarP(&nc.count, "count", "c", 10, "Number of runs to show (1-100)")
	nc.Flags().StringVar(&nc.from, "from", "", "RFC3339 timestamp to calculate from (default: now)")
	nc.Flags().BoolVarP(&nc.json, "json", "j", false, "Output as JSON")

	return nc
}

func init() {
	rootCmd.AddCommand(newNextCommand().Command)
}

func (nc *NextCommand) runNext(_ *cobra.Command, args []string) error {
	expression := args[0]

	if nc.count < 1 || nc.count > 100 {
		return fmt.Errorf("count must be between 1 and 100")
	}

	origin := time.Now()
	if nc.from != "" {
		t, err := time.Parse(time.RFC3339, nc.from)
		if err != nil {
			return fmt.Errorf("invalid --from timestamp: %w", err)
		}
		origin = t
	}

	strict, err := legacy.Convert(expression)
	if err != nil {
		return fmt.Errorf("failed to parse expression: %w", err)
	}
	expr, err := cronx.Parse(strict)
	if err != nil {
		return fmt.Errorf("failed to parse expression: %w", err)
	}

	times := make([]time.Time, 0, nc.count)
	t := origin
	for i := 0; i < nc.count; i++ {
		next, err := expr.GetNext(t)
		if err != nil {
			return fmt.Errorf("failed to calculate next run: %w", err)
		}
		times = append(times, next)
		t = next
	}

	description := human.NewHumanizer().Humanize(expr)

	if nc.json {
		return nc.outputJSON(expression, description, times, origin)
	}
	return nc.outputText(expression, description, times)
}

func (nc *NextCommand) outputText(expression, description string, times []time.Time) error {
	runWord := "runs"
	if len(times) == 1 {
		runWord = "run"
	}
	fmt.Fprintf(nc.OutOrStdout(), "Next %d %s for %q (%s):\n\n", len(times), runWord, expression, description)
	for i, t := range times {
		fmt.Fprintf(nc.OutOrStdout(), "%d. %s\n", i+1, t.Format("2006-01-02 15:04:05 MST"))
	}
	return nil
}

func (nc *NextCommand) outputJSON(expression, description string, times []time.Time, from time.Time) error {
	runs := make([]nextRun, len(times))
	for i, t := range times {
		runs[i] = nextRun{
			Number:    i + 1,
			Timestamp: t.Format(time.RFC3339),
			Relative:  formatRelativeTime(from, t),
		}
	}
	return jsonEncode(nc.OutOrStdout(), nextResult{
		Expression:  expression,
		Description: description,
		NextRuns:    runs,
	})
}

// formatRelativeTime converts a duration between two times into a short
// human-readable approximation.
func formatRelativeTime(from, to time.Time) string {
	duration := to.Sub(from)

	switch {
	case duration < time.Minute:
		return "in less than a minute"
	case duration < time.Hour:
		minutes := int(duration.Minutes())
		if minutes == 1 {
			return "in 1 minute"
		}
		return fmt.Sprintf("in %d minutes", minutes)
	case duration < 24*time.Hour:
		hours := int(duration.Hours())
		if hours == 1 {
			return "in 1 hour"
		}
		return fmt.Sprintf("in %d hours", hours)
	default:
		days := int(duration.Hours() / 24)
		if days == 1 {
			return "in 1 day"
		}
		return fmt.Sprintf("in %d days", days)
	}
}
