package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite" // pure-Go driver, registered as "sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS tasks (
	name                 TEXT PRIMARY KEY,
	cron_expression      TEXT NOT NULL,
	retry_delay_ms       INTEGER NOT NULL,
	last_success_time    TEXT,
	last_failure_time    TEXT,
	last_attempt_time    TEXT,
	pending_retry_until  TEXT,
	scheduler_identifier TEXT NOT NULL DEFAULT ''
);`

// SQLite is a Store backed by a single-file (or in-memory) SQLite database.
// SQLite is single-writer, so the pool is capped at one connection and every
// Transaction call queues for that connection: this is what gives the
// scheduler its "two instances can't both hold the write lock" guarantee
// without any application-level locking. Transactions open with the driver's
// default BEGIN, not BEGIN IMMEDIATE.
type SQLite struct {
	db *sqlx.DB
}

// OpenSQLite opens (creating if necessary) the SQLite database at dsn and
// ensures the tasks table exists. Use "file::memory:?cache=shared" for a
// throwaway database, e.g. in tests.
func OpenSQLite(ctx context.Context, dsn string) (*SQLite, error) {
	db, err := sqlx.ConnectContext(ctx, "sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("store: open sqlite: %w", err)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("store: create schema: %w", err)
	}
	return &SQLite{db: db}, nil
}

func (s *SQLite) Close() error { return s.db.Close() }

// Transaction runs fn inside a single SQLite transaction. The connection
// pool is pinned to one connection (see OpenSQLite), so database/sql itself
// serializes concurrent Transaction calls: a second caller blocks acquiring
// the connection until the first's transaction commits or rolls back. That
// gives the store its "two instances can't both hold the write lock"
// guarantee without any additional application-level locking.
func (s *SQLite) Transaction(ctx context.Context, fn func(Transaction) error) error {
	sqlTx, err := s.db.BeginTxx(ctx, &sql.TxOptions{})
	if err != nil {
		return fmt.Errorf("store: begin transaction: %w", err)
	}

	tx := &sqlTransaction{ctx: ctx, tx: sqlTx}
	if err := fn(tx); err != nil {
		_ = sqlTx.Rollback()
		return err
	}
	if tx.staged == nil {
		return sqlTx.Rollback()
	}
	if err := tx.commit(); err != nil {
		_ = sqlTx.Rollback()
		return fmt.Errorf("store: commit: %w", err)
	}
	return sqlTx.Commit()
}

type sqlTransaction struct {
	ctx    context.Context
	tx     *sqlx.Tx
	staged []TaskState
}

func (t *sqlTransaction) GetExistingState(ctx context.Context) ([]TaskState, error) {
	var rows []taskRow
	if err := t.tx.SelectContext(ctx, &rows, `SELECT * FROM tasks ORDER BY name`); err != nil {
		return nil, fmt.Errorf("store: select tasks: %w", err)
	}
	if len(rows) == 0 {
		return nil, nil
	}
	states := make([]TaskState, len(rows))
	for i, r := range rows {
		states[i] = r.toTaskState()
	}
	return states, nil
}

func (t *sqlTransaction) SetState(tasks []TaskState) {
	t.staged = tasks
	if t.staged == nil {
		t.staged = []TaskState{}
	}
}

func (t *sqlTransaction) commit() error {
	if _, err := t.tx.ExecContext(t.ctx, `DELETE FROM tasks`); err != nil {
		return err
	}
	for _, s := range t.staged {
		row := fromTaskState(s)
		_, err := t.tx.NamedExecContext(t.ctx, `
			INSERT INTO tasks (
				name, cron_expression, retry_delay_ms, last_success_time,
				last_failure_time, last_attempt_time, pending_retry_until,
				scheduler_identifier
			) VALUES (
				:name, :cron_expression, :retry_delay_ms, :last_success_time,
				:last_failure_time, :last_attempt_time, :pending_retry_until,
				:scheduler_identifier
			)`, row)
		if err != nil {
			return err
		}
	}
	return nil
}

// taskRow is the sqlx scan target; TaskState itself stays free of db tags so
// the rest of the codebase can treat it as a plain domain value.
type taskRow struct {
	Name                string         `db:"name"`
	CronExpression      string         `db:"cron_expression"`
	RetryDelayMs        int64          `db:"retry_delay_ms"`
	LastSuccessTime     sql.NullString `db:"last_success_time"`
	LastFailureTime     sql.NullString `db:"last_failure_time"`
	LastAttemptTime     sql.NullString `db:"last_attempt_time"`
	PendingRetryUntil   sql.NullString `db:"pending_retry_until"`
	SchedulerIdentifier string         `db:"scheduler_identifier"`
}

func (r taskRow) toTaskState() TaskState {
	return TaskState{
		Name:                r.Name,
		CronExpression:      r.CronExpression,
		RetryDelay:          time.Duration(r.RetryDelayMs) * time.Millisecond,
		LastSuccessTime:     parseNullTime(r.LastSuccessTime),
		LastFailureTime:     parseNullTime(r.LastFailureTime),
		LastAttemptTime:     parseNullTime(r.LastAttemptTime),
		PendingRetryUntil:   parseNullTime(r.PendingRetryUntil),
		SchedulerIdentifier: r.SchedulerIdentifier,
	}
}

func fromTaskState(s TaskState) taskRow {
	return taskRow{
		Name:                s.Name,
		CronExpression:      s.CronExpression,
		RetryDelayMs:        s.RetryDelay.Milliseconds(),
		LastSuccessTime:     formatNullTime(s.LastSuccessTime),
		LastFailureTime:     formatNullTime(s.LastFailureTime),
		LastAttemptTime:     formatNullTime(s.LastAttemptTime),
		PendingRetryUntil:   formatNullTime(s.PendingRetryUntil),
		SchedulerIdentifier: s.SchedulerIdentifier,
	}
}

func parseNullTime(ns sql.NullString) *time.Time {
	if !ns.Valid || ns.String == "" {
		return nil
	}
	t, err := time.Parse(time.RFC3339Nano, ns.String)
	if err != nil {
		return nil
	}
	return &t
}

func formatNullTime(t *time.Time) sql.NullString {
	if t == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: t.Format(time.RFC3339Nano), Valid: true}
}
