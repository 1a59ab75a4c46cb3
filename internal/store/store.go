// Package store is the durable task-state container: the external
// collaborator that gives the scheduler "get current state / set new
// state / commit" transactional semantics, format-agnostic per spec,
// implemented here over SQLite.
package store

import (
	"context"
	"time"
)

// TaskState is the persisted record for one scheduled task.
type TaskState struct {
	Name                string
	CronExpression      string
	RetryDelay          time.Duration
	LastSuccessTime     *time.Time
	LastFailureTime     *time.Time
	LastAttemptTime     *time.Time
	PendingRetryUntil   *time.Time
	SchedulerIdentifier string
}

// InFlight reports whether this record shows a callback was started and
// never finished: the defining signal of both "still running" (owned by
// the current instance) and "orphaned" (owned by a previous one).
func (t *TaskState) InFlight() bool {
	return t != nil && t.LastAttemptTime != nil
}

// Orphaned reports whether this record was left mid-flight by a scheduler
// instance other than identifier. Legacy records with LastAttemptTime set
// but no SchedulerIdentifier are never orphaned (spec §4.5).
func (t *TaskState) Orphaned(identifier string) bool {
	return t.InFlight() && t.SchedulerIdentifier != "" && t.SchedulerIdentifier != identifier
}

// Transaction is the scope handed to a Store.Transaction callback. It reads
// the existing task list once and stages a replacement; the replacement is
// only durably committed if the callback returns nil.
type Transaction interface {
	// GetExistingState returns the persisted task list, or nil if the
	// store has never been written to.
	GetExistingState(ctx context.Context) ([]TaskState, error)
	// SetState stages the task list that will be committed when the
	// transaction's callback returns without error.
	SetState(tasks []TaskState)
}

// Store is the durable key/value state container named in spec §6.
type Store interface {
	// Transaction atomically reads current state, passes it to fn via the
	// Transaction's GetExistingState, and commits whatever SetState staged
	// if and only if fn returns nil. Two transactions against the same
	// Store never overlap: the SQLite implementation pins its pool to one
	// connection, so a second call waits until the first one finishes.
	Transaction(ctx context.Context, fn func(Transaction) error) error
	// Close releases underlying resources (the database connection).
	Close() error
}
