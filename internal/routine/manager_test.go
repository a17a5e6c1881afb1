package routine

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func blockUntilCancelled(ctx context.Context) error {
	<-ctx.Done()
	return ctx.Err()
}

func TestRunTaskRejectsInvalidTasks(t *testing.T) {
	m := NewManager(context.Background())

	assert.ErrorIs(t, m.RunTask(nil), ErrNilTask)
	assert.ErrorIs(t, m.RunTask(&Task{Handler: blockUntilCancelled}), ErrEmptyID)
	assert.ErrorIs(t, m.RunTask(&Task{ID: "a"}), ErrTaskHandlerUnset)
}

func TestRunTaskRejectsDuplicateIDs(t *testing.T) {
	m := NewManager(context.Background())

	require.NoError(t, m.RunTask(&Task{ID: "whale", Handler: blockUntilCancelled}))
	assert.ErrorIs(t, m.RunTask(&Task{ID: "whale", Handler: blockUntilCancelled}), ErrRoutineExists)
	require.NoError(t, m.ShutdownAll())
}

func TestShutdownWaitsForTask(t *testing.T) {
	m := NewManager(context.Background())

	var finished atomic.Bool
	require.NoError(t, m.RunTask(&Task{
		ID: "whale",
		Handler: func(ctx context.Context) error {
			<-ctx.Done()
			finished.Store(true)
			return ctx.Err()
		},
	}))

	require.NoError(t, m.Shutdown("whale"))
	assert.True(t, finished.Load())
	assert.ErrorIs(t, m.Shutdown("whale"), ErrRoutineNotFound)
}

func TestOnErrorHookFires(t *testing.T) {
	m := NewManager(context.Background())

	boom := errors.New("boom")
	errCh := make(chan error, 1)
	require.NoError(t, m.RunTask(&Task{
		ID: "whale",
		Handler: func(context.Context) error {
			return boom
		},
		OnError: func(id string, err error) {
			errCh <- err
		},
	}))

	select {
	case err := <-errCh:
		assert.ErrorIs(t, err, boom)
	case <-time.After(time.Second):
		t.Fatal("OnError hook never fired")
	}
}

func TestShutdownAllStopsEveryTask(t *testing.T) {
	m := NewManager(context.Background())

	var running atomic.Int32
	for _, id := range []string{"a", "b", "c"} {
		require.NoError(t, m.RunTask(&Task{
			ID: id,
			Handler: func(ctx context.Context) error {
				running.Add(1)
				defer running.Add(-1)
				return blockUntilCancelled(ctx)
			},
		}))
	}

	require.NoError(t, m.ShutdownAll())
	assert.Equal(t, int32(0), running.Load())
}
