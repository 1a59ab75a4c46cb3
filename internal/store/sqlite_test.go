package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *SQLite {
	t.Helper()
	s, err := OpenSQLite(context.Background(), "file::memory:?cache=shared")
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestSQLite_GetExistingStateEmptyIsNil(t *testing.T) {
	s := newTestStore(t)

	var got []TaskState
	err := s.Transaction(context.Background(), func(tx Transaction) error {
		var err error
		got, err = tx.GetExistingState(context.Background())
		return err
	})
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestSQLite_SetStateThenGetRoundTrips(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	success := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	err := s.Transaction(ctx, func(tx Transaction) error {
		tx.SetState([]TaskState{
			{
				Name:                "backup",
				CronExpression:      "0 2 * * *",
				RetryDelay:          5 * time.Minute,
				LastSuccessTime:     &success,
				SchedulerIdentifier: "instance-a",
			},
		})
		return nil
	})
	require.NoError(t, err)

	var got []TaskState
	err = s.Transaction(ctx, func(tx Transaction) error {
		var err error
		got, err = tx.GetExistingState(ctx)
		return err
	})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "backup", got[0].Name)
	assert.Equal(t, "0 2 * * *", got[0].CronExpression)
	assert.Equal(t, 5*time.Minute, got[0].RetryDelay)
	assert.Equal(t, "instance-a", got[0].SchedulerIdentifier)
	require.NotNil(t, got[0].LastSuccessTime)
	assert.True(t, success.Equal(*got[0].LastSuccessTime))
	assert.Nil(t, got[0].LastFailureTime)
}

func TestSQLite_FailedCallbackDoesNotCommit(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	boom := assert.AnError

	err := s.Transaction(ctx, func(tx Transaction) error {
		tx.SetState([]TaskState{{Name: "should-not-persist", CronExpression: "* * * * *"}})
		return boom
	})
	require.ErrorIs(t, err, boom)

	var got []TaskState
	err = s.Transaction(ctx, func(tx Transaction) error {
		var err error
		got, err = tx.GetExistingState(ctx)
		return err
	})
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestSQLite_CallbackWithoutSetStateLeavesStateUnchanged(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	err := s.Transaction(ctx, func(tx Transaction) error {
		tx.SetState([]TaskState{{Name: "one", CronExpression: "* * * * *"}})
		return nil
	})
	require.NoError(t, err)

	// A read-only transaction that never calls SetState must not wipe state.
	err = s.Transaction(ctx, func(tx Transaction) error {
		_, err := tx.GetExistingState(ctx)
		return err
	})
	require.NoError(t, err)

	var got []TaskState
	err = s.Transaction(ctx, func(tx Transaction) error {
		var err error
		got, err = tx.GetExistingState(ctx)
		return err
	})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "one", got[0].Name)
}

func TestTaskState_OrphanedRequiresMismatchedIdentifier(t *testing.T) {
	attempt := time.Now()
	owned := TaskState{LastAttemptTime: &attempt, SchedulerIdentifier: "a"}
	assert.False(t, owned.Orphaned("a"))
	assert.True(t, owned.Orphaned("b"))

	legacy := TaskState{LastAttemptTime: &attempt, SchedulerIdentifier: ""}
	assert.False(t, legacy.Orphaned("b"), "legacy records without an identifier are never orphaned")

	idle := TaskState{}
	assert.False(t, idle.Orphaned("a"))
	assert.False(t, idle.InFlight())
}
