package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/rjweaver/cronsched/internal/store"
)

// StatusCommand wraps cobra.Command with status-specific flags.
type StatusCommand struct {
	*cobra.Command
	storePath string
	json      bool
}

func newStatusCommand() *StatusCommand {
	sc := &StatusCommand{}
	sc.Command = &cobra.Command{
		Use:   "status --store PATH",
		Short: "List persisted task state from a store",
		Long: `Read a store directly and print each task's last success/failure/attempt
time, pending retry, and whether it looks orphaned by a previous scheduler
instance. Read-only; does not start the scheduler.

Examples:
  cronsched status --store tasks.db
  cronsched status --store tasks.db --json`,
		RunE: sc.runStatus,
	}

	sc.Flags().StringVar(&sc.storePath, "store", "", "Path to the SQLite store (required)")
	sc.Flags().BoolVarP(&sc.json, "json", "j", false, "Output in JSON format")

	return sc
}

func init() {
	rootCmd.AddCommand(newStatusCommand().Command)
}

func (sc *StatusCommand) runStatus(cmd *cobra.Command, _ []string) error {
	if sc.storePath == "" {
		return fmt.Errorf("--store is required")
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	db, err := store.OpenSQLite(ctx, sc.storePath)
	if err != nil {
		return fmt.Errorf("failed to open store: %w", err)
	}
	defer db.Close()

	var tasks []store.TaskState
	if err := db.Transaction(ctx, func(tx store.Transaction) error {
		existing, err := tx.GetExistingState(ctx)
		if err != nil {
			return err
		}
		tasks = existing
		tx.SetState(existing)
		return nil
	}); err != nil {
		return fmt.Errorf("failed to read store: %w", err)
	}

	if sc.json {
		return sc.outputJSON(tasks)
	}
	return sc.outputText(tasks)
}

func (sc *StatusCommand) outputText(tasks []store.TaskState) error {
	if len(tasks) == 0 {
		fmt.Fprintln(sc.OutOrStdout(), "No persisted tasks")
		return nil
	}

	fmt.Fprintln(sc.OutOrStdout(), "NAME                  CRON              LAST SUCCESS         LAST FAILURE         PENDING RETRY        ORPHANED")
	for _, t := range tasks {
		fmt.Fprintf(sc.OutOrStdout(), "%-20s  %-16s  %-19s  %-19s  %-19s  %v\n",
			t.Name, t.CronExpression,
			formatOptionalTime(t.LastSuccessTime),
			formatOptionalTime(t.LastFailureTime),
			formatOptionalTime(t.PendingRetryUntil),
			t.InFlight() && t.SchedulerIdentifier != "",
		)
	}
	return nil
}

func (sc *StatusCommand) outputJSON(tasks []store.TaskState) error {
	type taskJSON struct {
		Name              string  `json:"name"`
		CronExpression    string  `json:"cronExpression"`
		LastSuccessTime   *string `json:"lastSuccessTime,omitempty"`
		LastFailureTime   *string `json:"lastFailureTime,omitempty"`
		LastAttemptTime   *string `json:"lastAttemptTime,omitempty"`
		PendingRetryUntil *string `json:"pendingRetryUntil,omitempty"`
		InFlight          bool    `json:"inFlight"`
	}

	out := make([]taskJSON, len(tasks))
	for i, t := range tasks {
		out[i] = taskJSON{
			Name:              t.Name,
			CronExpression:    t.CronExpression,
			LastSuccessTime:   formatOptionalTimePtr(t.LastSuccessTime),
			LastFailureTime:   formatOptionalTimePtr(t.LastFailureTime),
			LastAttemptTime:   formatOptionalTimePtr(t.LastAttemptTime),
			PendingRetryUntil: formatOptionalTimePtr(t.PendingRetryUntil),
			InFlight:          t.InFlight(),
		}
	}
	return jsonEncode(sc.OutOrStdout(), map[string]interface{}{"tasks": out})
}

func formatOptionalTime(t *time.Time) string {
	if t == nil {
		return "-"
	}
	return t.Format("2006-01-02 15:04:05")
}

func formatOptionalTimePtr(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format(time.RFC3339)
	return &s
}
