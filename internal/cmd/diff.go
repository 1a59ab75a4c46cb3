package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rjweaver/cronsched/internal/diff"
	"github.com/rjweaver/cronsched/internal/store"
)

// DiffCommand wraps cobra.Command with diff-specific flags.
type DiffCommand struct {
	*cobra.Command
	config        string
	storePath     string
	format        string
	showUnchanged bool
}

func newDiffCommand() *DiffCommand {
	dc := &DiffCommand{}
	dc.Command = &cobra.Command{
		Use:   "diff --config FILE --store PATH",
		Short: "Preview what a registration file would do to persisted task state",
		Long: `Compare a registration file against a store's persisted task state and
show the create/keep/delete sets Initialize would produce, without writing
anything. A dry run of starting the daemon with this configuration.

Examples:
  cronsched diff --config registrations.yaml --store tasks.db
  cronsched diff --config registrations.yaml --store tasks.db --show-unchanged
  cronsched diff --config registrations.yaml --store tasks.db --format json`,
		RunE: dc.runDiff,
	}

	dc.Flags().StringVar(&dc.config, "config", "", "Path to a registration YAML file (required)")
	dc.Flags().StringVar(&dc.storePath, "store", "", "Path to the SQLite store (required)")
	dc.Flags().StringVar(&dc.format, "format", "text", "Output format: 'text' or 'json'")
	dc.Flags().BoolVar(&dc.showUnchanged, "show-unchanged", false, "Show unchanged tasks as well")

	return dc
}

func init() {
	rootCmd.AddCommand(newDiffCommand().Command)
}

func (dc *DiffCommand) runDiff(cmd *cobra.Command, _ []string) error {
	if dc.config == "" || dc.storePath == "" {
		return fmt.Errorf("both --config and --store are required")
	}

	cfg, err := LoadConfig(dc.config)
	if err != nil {
		return err
	}

	registrations := make([]diff.Entry, 0, len(cfg.Tasks))
	for _, t := range cfg.Tasks {
		delay, err := t.RetryDelayDuration()
		if err != nil {
			return fmt.Errorf("task %q: invalid retry_delay: %w", t.Name, err)
		}
		registrations = append(registrations, diff.Entry{Name: t.Name, CronExpression: t.Cron, RetryDelay: delay})
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	db, err := store.OpenSQLite(ctx, dc.storePath)
	if err != nil {
		return fmt.Errorf("failed to open store: %w", err)
	}
	defer db.Close()

	var persisted []store.TaskState
	if err := db.Transaction(ctx, func(tx store.Transaction) error {
		existing, err := tx.GetExistingState(ctx)
		if err != nil {
			return err
		}
		persisted = existing
		tx.SetState(existing)
		return nil
	}); err != nil {
		return fmt.Errorf("failed to read store: %w", err)
	}

	result := diff.Compare(persisted, registrations)

	renderer, err := diff.NewRenderer(dc.format)
	if err != nil {
		return err
	}

	return renderer.Render(dc.OutOrStdout(), result, &diff.RenderOptions{ShowUnchanged: dc.showUnchanged})
}
