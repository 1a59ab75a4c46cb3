package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/rjweaver/cronsched/internal/cronx"
)

// Callback is the user-supplied task body. Returning a non-nil error marks
// the attempt as a failure and arms a retry.
type Callback func(ctx context.Context) error

// Registration is one entry in the ordered list passed to Initialize: a
// named task, its cron schedule, the work it runs, and how long to wait
// before retrying a failed attempt.
type Registration struct {
	Name           string
	CronExpression string
	Callback       Callback
	RetryDelay     time.Duration
}

// task is a validated, parsed Registration held for the lifetime of a run.
type task struct {
	Registration
	expr *cronx.Expression
}

// validateRegistrations checks registration shape, name, and duplicate
// constraints (spec §4.8), in that order, then parses and frequency-checks
// every cron expression. It never mutates persisted state: a single bad
// entry fails the whole batch.
func validateRegistrations(regs []Registration, now time.Time, pollInterval time.Duration) ([]task, error) {
	seen := make(map[string]struct{}, len(regs))
	tasks := make([]task, 0, len(regs))

	for i, r := range regs {
		if r.Callback == nil {
			return nil, &RegistrationShapeError{Index: i, Reason: "callback is required"}
		}
		if r.CronExpression == "" {
			return nil, &RegistrationShapeError{Index: i, Reason: "cron expression is required"}
		}
		if r.RetryDelay < 0 {
			return nil, &RegistrationShapeError{Index: i, Reason: "retry delay must not be negative"}
		}
		if r.Name == "" {
			return nil, &ScheduleInvalidNameError{Index: i}
		}
		if _, dup := seen[r.Name]; dup {
			return nil, &ScheduleDuplicateTaskError{TaskName: r.Name}
		}
		seen[r.Name] = struct{}{}

		expr, err := cronx.Parse(r.CronExpression)
		if err != nil {
			return nil, fmt.Errorf("registration %q: %w", r.Name, err)
		}
		if err := expr.ValidateFrequency(now, pollInterval); err != nil {
			return nil, fmt.Errorf("registration %q: %w", r.Name, err)
		}

		tasks = append(tasks, task{Registration: r, expr: expr})
	}
	return tasks, nil
}
