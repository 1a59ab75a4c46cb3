package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/rjweaver/cronsched/internal/scheduler"
	"github.com/rjweaver/cronsched/internal/store"
)

// RunCommand wraps cobra.Command with daemon-specific flags.
type RunCommand struct {
	*cobra.Command
	config string
}

func newRunCommand() *RunCommand {
	rc := &RunCommand{}
	rc.Command = &cobra.Command{
		Use:   "run --config FILE",
		Short: "Start the scheduler daemon from a registration file",
		Long: `Load a registration YAML file, open its store, and run the scheduler
until interrupted (SIGINT/SIGTERM). Each task's command is shelled out to
through "sh -c" when its schedule fires.

Example:
  cronsched run --config registrations.yaml`,
		RunE: rc.runDaemon,
	}

	rc.Flags().StringVar(&rc.config, "config", "", "Path to a registration YAML file (required)")

	return rc
}

func init() {
	rootCmd.AddCommand(newRunCommand().Command)
}

func (rc *RunCommand) runDaemon(cmd *cobra.Command, _ []string) error {
	if rc.config == "" {
		return fmt.Errorf("--config is required")
	}

	cfg, err := LoadConfig(rc.config)
	if err != nil {
		return err
	}
	if cfg.Store == "" {
		return fmt.Errorf("config %s: store is required", rc.config)
	}

	pollInterval, err := cfg.PollIntervalDuration()
	if err != nil {
		return fmt.Errorf("config %s: invalid poll_interval: %w", rc.config, err)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	db, err := store.OpenSQLite(ctx, cfg.Store)
	if err != nil {
		return fmt.Errorf("failed to open store: %w", err)
	}
	defer db.Close()

	logger := slog.Default()

	regs := make([]scheduler.Registration, 0, len(cfg.Tasks))
	for _, t := range cfg.Tasks {
		delay, err := t.RetryDelayDuration()
		if err != nil {
			return fmt.Errorf("task %q: invalid retry_delay: %w", t.Name, err)
		}
		regs = append(regs, scheduler.Registration{
			Name:           t.Name,
			CronExpression: t.Cron,
			RetryDelay:     delay,
			Callback:       shellCallback(t.Name, t.Command, logger),
		})
	}

	instance := scheduler.New(scheduler.Options{
		Store:        db,
		Logger:       logger,
		PollInterval: pollInterval,
	})

	logger.Info("cronsched_starting", "scheduler_id", instance.Identifier(), "task_count", len(regs))
	if err := instance.Initialize(ctx, regs); err != nil {
		return fmt.Errorf("failed to initialize scheduler: %w", err)
	}

	<-ctx.Done()
	logger.Info("cronsched_stopping", "scheduler_id", instance.Identifier())

	stopCtx, stopCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer stopCancel()
	return instance.Stop(stopCtx)
}

// shellCallback runs command through "sh -c", logging its exit status. A
// task with no command configured is a no-op that always succeeds, useful
// for dry-running a schedule's timing without a real side effect.
func shellCallback(name, command string, logger *slog.Logger) scheduler.Callback {
	return func(ctx context.Context) error {
		if command == "" {
			return nil
		}
		cmd := exec.CommandContext(ctx, "sh", "-c", command)
		output, err := cmd.CombinedOutput()
		if err != nil {
			logger.Error("task_command_failed", "task", name, "error", err, "output", string(output))
			return fmt.Errorf("task %q: %w", name, err)
		}
		logger.Info("task_command_succeeded", "task", name)
		return nil
	}
}
