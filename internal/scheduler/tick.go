package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/rjweaver/cronsched/internal/store"
)

type reason string

const (
	reasonOrphan         reason = "orphan_recovery"
	reasonMissedSchedule reason = "missed_schedule"
	reasonRetry          reason = "retry"
)

// decision names one task selected to run this tick, and why.
type decision struct {
	task   task
	reason reason
}

// Tick runs exactly one polling cycle: it marks every due task as attempted
// under a single transaction, then runs the due tasks' callbacks outside
// that transaction, recording each outcome in its own follow-up
// transaction. Exported so tests can drive the loop deterministically
// instead of waiting on the poll interval.
func (s *Instance) Tick(ctx context.Context) error {
	s.mu.Lock()
	tasks := s.tasks
	s.mu.Unlock()

	now := s.clock.Now()
	var due []decision

	err := s.store.Transaction(ctx, func(tx store.Transaction) error {
		existing, err := tx.GetExistingState(ctx)
		if err != nil {
			return err
		}
		byName := make(map[string]store.TaskState, len(existing))
		for _, st := range existing {
			byName[st.Name] = st
		}

		next := make([]store.TaskState, 0, len(tasks))
		for _, t := range tasks {
			st, ok := byName[t.Name]
			if !ok {
				st = store.TaskState{Name: t.Name, CronExpression: t.CronExpression, RetryDelay: t.RetryDelay}
			}

			st, d, err := s.evaluate(t, st, now)
			if err != nil {
				s.logger.Error("scheduler_evaluate_error", "task_name", t.Name, "error", err)
				next = append(next, st)
				continue
			}
			if d != nil {
				st.LastAttemptTime = timePtr(now)
				st.SchedulerIdentifier = s.identifier
				due = append(due, *d)
			}
			next = append(next, st)
		}
		tx.SetState(next)
		return nil
	})
	if err != nil {
		return fmt.Errorf("scheduler: tick: %w", err)
	}

	for _, d := range due {
		s.execute(ctx, d)
	}
	return nil
}

// evaluate decides whether task t should run this tick, given its persisted
// state st. It returns the state as it should be persisted in the
// mark-attempt transaction (orphan fields cleared, or unchanged) and, when
// the task is selected, a decision describing why.
func (s *Instance) evaluate(t task, st store.TaskState, now time.Time) (store.TaskState, *decision, error) {
	if st.Orphaned(s.identifier) {
		s.logger.Warn("Task was interrupted during shutdown and will be restarted",
			"task_name", t.Name,
			"previous_scheduler_id", st.SchedulerIdentifier,
			"current_scheduler_id", s.identifier)
		st.LastAttemptTime = nil
		st.SchedulerIdentifier = ""
		st.PendingRetryUntil = nil
		return st, &decision{task: t, reason: reasonOrphan}, nil
	}

	if st.LastAttemptTime != nil && st.SchedulerIdentifier == s.identifier {
		return st, nil, nil // still running
	}

	scheduledAt, err := t.expr.GetPrev(now)
	if err != nil {
		return st, nil, err
	}

	missedOverdue := scheduleOverdue(st, scheduledAt)
	retryDue := st.PendingRetryUntil != nil && !st.PendingRetryUntil.After(now)

	switch {
	case missedOverdue && retryDue:
		if !scheduledAt.After(*st.PendingRetryUntil) {
			return st, &decision{task: t, reason: reasonMissedSchedule}, nil
		}
		return st, &decision{task: t, reason: reasonRetry}, nil
	case missedOverdue:
		return st, &decision{task: t, reason: reasonMissedSchedule}, nil
	case retryDue:
		return st, &decision{task: t, reason: reasonRetry}, nil
	default:
		return st, nil, nil
	}
}

// scheduleOverdue implements spec §4.5's missed-firing test. A task that has
// never succeeded and never failed is always overdue (its first run catches
// up on whatever firing it missed before registration); once it has failed
// at least once, it is no longer re-triggered by the missed-schedule check
// and relies solely on pending_retry_until until it eventually succeeds. A
// task with a recorded success is overdue whenever a firing has happened
// since that success.
func scheduleOverdue(st store.TaskState, scheduledAt time.Time) bool {
	if st.LastSuccessTime == nil {
		return st.LastFailureTime == nil
	}
	return scheduledAt.After(*st.LastSuccessTime)
}

// execute runs a selected task's callback outside any store transaction,
// then records the outcome in a transaction of its own: this is what gives
// "mark attempt committed before the callback runs, outcome committed after
// it returns" its literal meaning.
func (s *Instance) execute(ctx context.Context, d decision) {
	t := d.task
	s.logger.Info("scheduler_task_started", "task_name", t.Name, "scheduler_id", s.identifier, "reason", string(d.reason))

	callErr := t.Callback(ctx)
	now := s.clock.Now()

	err := s.store.Transaction(ctx, func(tx store.Transaction) error {
		existing, err := tx.GetExistingState(ctx)
		if err != nil {
			return err
		}
		next := make([]store.TaskState, 0, len(existing))
		for _, st := range existing {
			if st.Name == t.Name {
				st = recordOutcome(st, t, now, callErr)
			}
			next = append(next, st)
		}
		tx.SetState(next)
		return nil
	})
	if err != nil {
		s.logger.Error("scheduler_record_outcome_error", "task_name", t.Name, "error", err)
		return
	}

	if callErr != nil {
		s.logger.Error("scheduler_task_failed", "task_name", t.Name, "scheduler_id", s.identifier, "error", callErr)
		return
	}
	s.logger.Info("scheduler_task_succeeded", "task_name", t.Name, "scheduler_id", s.identifier)
}

func recordOutcome(st store.TaskState, t task, now time.Time, callErr error) store.TaskState {
	st.LastAttemptTime = nil
	st.SchedulerIdentifier = ""
	if callErr != nil {
		st.LastFailureTime = timePtr(now)
		retryAt := now.Add(t.RetryDelay)
		st.PendingRetryUntil = &retryAt
		return st
	}
	st.LastSuccessTime = timePtr(now)
	st.PendingRetryUntil = nil
	return st
}

func timePtr(t time.Time) *time.Time { return &t }
