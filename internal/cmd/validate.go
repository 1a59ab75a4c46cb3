package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/rjweaver/cronsched/internal/validate"
)

// ValidateCommand wraps cobra.Command with validate-specific flags.
type ValidateCommand struct {
	*cobra.Command
	file          string
	json          bool
	pollInterval  string
	maxRunsPerDay int
}

func newValidateCommand() *ValidateCommand {
	vc := &ValidateCommand{}
	vc.Command = &cobra.Command{
		Use:   "validate [cron-expression]",
		Short: "Run pre-flight registration checks without installing tasks",
		Long: `Validate a single cron expression, or every task in a registration file,
using the name/duplicate/retry-delay/frequency checks the scheduler applies
at startup. Expressions are first converted from legacy syntax (macros,
names, steps), which the scheduler's own startup check does not accept.
Nothing is persisted.

Examples:
  cronsched validate "0 0 * * *"
  cronsched validate --file registrations.yaml
  cronsched validate --file registrations.yaml --poll-interval 30s`,
		Args: cobra.MaximumNArgs(1),
		RunE: vc.runValidate,
	}

	vc.Flags().StringVarP(&vc.file, "file", "f", "", "Path to a registration YAML file")
	vc.Flags().BoolVarP(&vc.json, "json", "j", false, "Output in JSON format")
	vc.Flags().StringVar(&vc.pollInterval, "poll-interval", "", "Poll interval to frequency-check against (e.g. 30s)")
	vc.Flags().IntVar(&vc.maxRunsPerDay, "max-runs-per-day", 0, "Advisory threshold for the excessive-runs warning (default: 1000)")

	return vc
}

func init() {
	rootCmd.AddCommand(newValidateCommand().Command)
}

func (vc *ValidateCommand) runValidate(_ *cobra.Command, args []string) error {
	var entries []validate.Entry

	switch {
	case len(args) == 1:
		entries = []validate.Entry{{Name: "expression", CronExpression: args[0]}}
	case vc.file != "":
		cfg, err := LoadConfig(vc.file)
		if err != nil {
			return err
		}
		for _, t := range cfg.Tasks {
			delay, err := t.RetryDelayDuration()
			if err != nil {
				return fmt.Errorf("task %q: invalid retry_delay: %w", t.Name, err)
			}
			entries = append(entries, validate.Entry{Name: t.Name, CronExpression: t.Cron, RetryDelay: delay})
		}
	default:
		return fmt.Errorf("must specify a cron expression or --file")
	}

	var pollInterval time.Duration
	if vc.pollInterval != "" {
		d, err := time.ParseDuration(vc.pollInterval)
		if err != nil {
			return fmt.Errorf("invalid --poll-interval: %w", err)
		}
		pollInterval = d
	}

	result := validate.Entries(entries, validate.Options{
		PollInterval:  pollInterval,
		MaxRunsPerDay: vc.maxRunsPerDay,
	})

	if vc.json {
		return vc.outputJSON(result)
	}
	return vc.outputText(result)
}

func (vc *ValidateCommand) outputText(result validate.Result) error {
	if len(result.Issues) == 0 {
		fmt.Fprintf(vc.OutOrStdout(), "✓ All valid (%d task(s))\n", result.TotalTasks)
		return nil
	}

	for _, issue := range result.Issues {
		prefix := "  "
		switch issue.Severity {
		case validate.SeverityError:
			prefix = "✗ ERROR: "
		case validate.SeverityWarn:
			prefix = "⚠ WARNING: "
		case validate.SeverityInfo:
			prefix = "ℹ INFO: "
		}
		name := issue.Name
		if name == "" {
			name = "(unnamed)"
		}
		fmt.Fprintf(vc.OutOrStdout(), "%s%s [%s] %s\n", prefix, name, issue.Code, issue.Message)
		if issue.Hint != "" {
			fmt.Fprintf(vc.OutOrStdout(), "    Hint: %s\n", issue.Hint)
		}
	}
	fmt.Fprintf(vc.OutOrStdout(), "\nTotal: %d, valid: %d, invalid: %d\n", result.TotalTasks, result.ValidTasks, result.InvalidTasks)

	if !result.Valid {
		osExit(1)
	}
	return nil
}

func (vc *ValidateCommand) outputJSON(result validate.Result) error {
	type issueJSON struct {
		Severity string `json:"severity"`
		Code     string `json:"code"`
		Name     string `json:"name,omitempty"`
		Message  string `json:"message"`
		Hint     string `json:"hint,omitempty"`
	}
	issues := make([]issueJSON, len(result.Issues))
	for i, iss := range result.Issues {
		issues[i] = issueJSON{
			Severity: iss.Severity.String(),
			Code:     iss.Code,
			Name:     iss.Name,
			Message:  iss.Message,
			Hint:     iss.Hint,
		}
	}

	if err := jsonEncode(vc.OutOrStdout(), map[string]interface{}{
		"valid":        result.Valid,
		"totalTasks":   result.TotalTasks,
		"validTasks":   result.ValidTasks,
		"invalidTasks": result.InvalidTasks,
		"issues":       issues,
	}); err != nil {
		return err
	}

	if !result.Valid {
		osExit(1)
	}
	return nil
}

// osExit is a variable so tests can override it.
var osExit = os.Exit
