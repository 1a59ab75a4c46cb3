package scheduler

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rjweaver/cronsched/internal/clock"
	"github.com/rjweaver/cronsched/internal/store"
)

func newTestInstance(t *testing.T, now time.Time, identifier string) (*Instance, *clock.Mock, *store.SQLite) {
	t.Helper()
	s, err := store.OpenSQLite(context.Background(), "file::memory:?cache=shared")
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	mock := clock.NewMock(now)
	inst := New(Options{
		Store:        s,
		Clock:        mock,
		PollInterval: time.Minute,
		Identifier:   identifier,
	})
	return inst, mock, s
}

func TestInstance_RunsDueTaskExactlyOncePerTick(t *testing.T) {
	now := time.Date(2025, 1, 1, 10, 0, 0, 0, time.UTC)
	inst, _, _ := newTestInstance(t, now, "inst-a")

	var calls int32
	err := inst.Initialize(context.Background(), []Registration{
		{Name: "every-minute", CronExpression: "* * * * *", Callback: func(context.Context) error {
			atomic.AddInt32(&calls, 1)
			return nil
		}},
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = inst.Stop(context.Background()) })

	require.NoError(t, inst.Tick(context.Background()))
	require.NoError(t, inst.Tick(context.Background()))

	assert.Equal(t, int32(1), atomic.LoadInt32(&calls), "second tick within the same matching minute must not re-run")
}

func TestInstance_FailureArmsRetryAndClearsOnSuccess(t *testing.T) {
	now := time.Date(2025, 1, 1, 10, 0, 0, 0, time.UTC)
	inst, mock, s := newTestInstance(t, now, "inst-a")

	var shouldFail int32 = 1
	err := inst.Initialize(context.Background(), []Registration{
		{
			Name:           "flaky",
			CronExpression: "0 10 * * *",
			RetryDelay:     5 * time.Minute,
			Callback: func(context.Context) error {
				if atomic.LoadInt32(&shouldFail) == 1 {
					return assert.AnError
				}
				return nil
			},
		},
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = inst.Stop(context.Background()) })

	require.NoError(t, inst.Tick(context.Background()))

	states := readStates(t, s)
	require.Len(t, states, 1)
	require.NotNil(t, states[0].LastFailureTime)
	require.NotNil(t, states[0].PendingRetryUntil)
	assert.True(t, states[0].PendingRetryUntil.Equal(now.Add(5*time.Minute)))

	// Before the retry deadline: no second attempt.
	mock.Advance(time.Minute)
	require.NoError(t, inst.Tick(context.Background()))
	states = readStates(t, s)
	assert.NotNil(t, states[0].PendingRetryUntil)

	// At/after the retry deadline, with the callback now succeeding.
	atomic.StoreInt32(&shouldFail, 0)
	mock.Advance(4 * time.Minute)
	require.NoError(t, inst.Tick(context.Background()))
	states = readStates(t, s)
	assert.Nil(t, states[0].PendingRetryUntil)
	assert.NotNil(t, states[0].LastFailureTime, "LastFailureTime stays set as history")
	require.NotNil(t, states[0].LastSuccessTime)
}

func TestInstance_OrphanedTaskIsRecoveredAndRerun(t *testing.T) {
	now := time.Date(2025, 1, 1, 10, 0, 0, 0, time.UTC)

	s, err := store.OpenSQLite(context.Background(), "file::memory:?cache=shared")
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	// Simulate a previous instance that crashed mid-attempt.
	require.NoError(t, s.Transaction(context.Background(), func(tx store.Transaction) error {
		attempt := now.Add(-time.Hour)
		tx.SetState([]store.TaskState{
			{
				Name:                "orphaned",
				CronExpression:      "0 0 1 1 *", // last fired at 00:00 today, ten hours before now
				LastAttemptTime:     &attempt,
				SchedulerIdentifier: "inst-old",
			},
		})
		return nil
	}))

	mock := clock.NewMock(now)
	inst := New(Options{Store: s, Clock: mock, PollInterval: time.Minute, Identifier: "inst-new"})

	var ran int32
	require.NoError(t, inst.Initialize(context.Background(), []Registration{
		{Name: "orphaned", CronExpression: "0 0 1 1 *", Callback: func(context.Context) error {
			atomic.AddInt32(&ran, 1)
			return nil
		}},
	}))
	t.Cleanup(func() { _ = inst.Stop(context.Background()) })

	require.NoError(t, inst.Tick(context.Background()))
	assert.Equal(t, int32(1), atomic.LoadInt32(&ran), "orphan must be re-executed on the next tick")

	states := readStates(t, s)
	require.Len(t, states, 1)
	assert.Equal(t, "", states[0].SchedulerIdentifier)
	assert.Nil(t, states[0].LastAttemptTime)
}

func TestInstance_CatchesUpOnceAfterLongDowntime(t *testing.T) {
	start := time.Date(2024, 1, 1, 0, 30, 0, 0, time.UTC)
	inst, mock, _ := newTestInstance(t, start, "inst-a")

	var calls int32
	require.NoError(t, inst.Initialize(context.Background(), []Registration{
		{Name: "daily", CronExpression: "0 0 * * *", Callback: func(context.Context) error {
			atomic.AddInt32(&calls, 1)
			return nil
		}},
	}))
	t.Cleanup(func() { _ = inst.Stop(context.Background()) })

	// First-ever tick: a never-run task always catches up on the most
	// recent firing it missed before it existed.
	require.NoError(t, inst.Tick(context.Background()))
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
	require.NoError(t, inst.Tick(context.Background()))
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls), "already caught up; no further calls this cycle")

	// Simulate roughly a year of downtime: nothing ticks in between.
	mock.Advance(365 * 24 * time.Hour)
	require.NoError(t, inst.Tick(context.Background()))
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls), "a long downtime must catch up exactly once, not 365 times")

	require.NoError(t, inst.Tick(context.Background()))
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls), "already caught up; no further calls this cycle")
}

func TestInstance_DuplicateRegistrationFailsInitialize(t *testing.T) {
	inst, _, _ := newTestInstance(t, time.Now(), "inst-a")
	err := inst.Initialize(context.Background(), []Registration{
		{Name: "x", CronExpression: "0 * * * *", Callback: noop},
		{Name: "x", CronExpression: "0 * * * *", Callback: noop},
	})
	var dupErr *ScheduleDuplicateTaskError
	require.ErrorAs(t, err, &dupErr)
}

func readStates(t *testing.T, s *store.SQLite) []store.TaskState {
	t.Helper()
	var states []store.TaskState
	err := s.Transaction(context.Background(), func(tx store.Transaction) error {
		var err error
		states, err = tx.GetExistingState(context.Background())
		return err
	})
	require.NoError(t, err)
	return states
}
