// Package scheduler implements the declarative, persistent cron scheduler:
// task registration, a single polling loop, missed-schedule catch-up,
// retry-on-failure, and orphaned-task recovery across process restarts.
package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/rjweaver/cronsched/internal/clock"
	"github.com/rjweaver/cronsched/internal/store"
)

// Instance is one running scheduler: a fixed set of task registrations
// polled on a single cooperative loop, backed by a persistence Store.
type Instance struct {
	store        store.Store
	clock        clock.Clock
	logger       *slog.Logger
	pollInterval time.Duration
	identifier   string

	mu         sync.Mutex
	tasks      []task
	startedAt  time.Time
	cancel     context.CancelFunc
	group      *errgroup.Group
	registered bool
}

// New constructs an Instance from Options. It does not start polling;
// call Initialize with a registration list to do that.
func New(opts Options) *Instance {
	o := opts.withDefaults()
	id := o.Identifier
	if id == "" {
		id = uuid.NewString()
	}
	return &Instance{
		store:        o.Store,
		clock:        o.Clock,
		logger:       o.Logger,
		pollInterval: o.PollInterval,
		identifier:   id,
	}
}

// Identifier returns this instance's unique, process-lifetime identifier.
func (s *Instance) Identifier() string { return s.identifier }

// StartedAt returns the moment Initialize completed, the zero value before
// that.
func (s *Instance) StartedAt() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.startedAt
}

// Initialize validates regs (§4.8), diffs them against persisted state under
// a single transaction (new names get empty timestamps, existing names keep
// theirs, names no longer present are dropped), and starts the polling
// loop. Registration-time errors leave persisted state untouched.
func (s *Instance) Initialize(ctx context.Context, regs []Registration) error {
	now := s.clock.Now()
	tasks, err := validateRegistrations(regs, now, s.pollInterval)
	if err != nil {
		return err
	}

	if err := s.store.Transaction(ctx, func(tx store.Transaction) error {
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
			if st, ok := byName[t.Name]; ok {
				st.CronExpression = t.CronExpression
				st.RetryDelay = t.RetryDelay
				next = append(next, st)
				continue
			}
			next = append(next, store.TaskState{
				Name:           t.Name,
				CronExpression: t.CronExpression,
				RetryDelay:     t.RetryDelay,
			})
		}
		tx.SetState(next)
		return nil
	}); err != nil {
		return fmt.Errorf("scheduler: initialize: %w", err)
	}

	s.mu.Lock()
	s.tasks = tasks
	s.startedAt = now
	s.registered = true
	s.mu.Unlock()

	s.logger.Info("scheduler_initialized",
		"scheduler_id", s.identifier,
		"task_count", len(tasks),
		"poll_interval", s.pollInterval)

	s.run(ctx)
	return nil
}

// run starts the polling loop under an errgroup so Stop can await its exit.
func (s *Instance) run(parent context.Context) {
	ctx, cancel := context.WithCancel(parent)
	group, gctx := errgroup.WithContext(ctx)

	s.mu.Lock()
	s.cancel = cancel
	s.group = group
	s.mu.Unlock()

	group.Go(func() error {
		s.loop(gctx)
		return nil
	})
}

// loop ticks every pollInterval until ctx is cancelled, running a full tick
// to completion before checking for cancellation again: Stop is cooperative,
// never interrupting a tick in progress.
func (s *Instance) loop(ctx context.Context) {
	for {
		if ctx.Err() != nil {
			return
		}
		if err := s.Tick(ctx); err != nil {
			s.logger.Error("scheduler_tick_error", "scheduler_id", s.identifier, "error", err)
		}
		select {
		case <-ctx.Done():
			return
		case <-s.clock.After(s.pollInterval):
		}
	}
}

// Stop signals the loop to exit after its current tick and waits for it to
// finish. It does not wipe persisted state.
func (s *Instance) Stop(ctx context.Context) error {
	s.mu.Lock()
	cancel, group := s.cancel, s.group
	s.mu.Unlock()

	if cancel == nil || group == nil {
		return nil
	}
	cancel()

	done := make(chan error, 1)
	go func() { done <- group.Wait() }()

	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}
