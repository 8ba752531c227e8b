package async_test

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trafficlens/internal/pkg/async"
)

func TestPoolExecutesAllTasks(t *testing.T) {
	pool := async.NewPool(3)

	var calls atomic.Int64
	tasks := []async.Task{
		{Name: "a", Execute: func() (any, error) { calls.Add(1); return 1, nil }},
		{Name: "b", Execute: func() (any, error) { calls.Add(1); return 2, nil }},
		{Name: "c", Execute: func() (any, error) { calls.Add(1); return 3, nil }},
	}

	results := pool.Execute(context.Background(), tasks)
	require.Len(t, results, 3)
	assert.Equal(t, int64(3), calls.Load())

	assert.Equal(t, 1, results["a"].Data)
	assert.Equal(t, 2, results["b"].Data)
	assert.Equal(t, 3, results["c"].Data)
}

func TestPoolPropagatesErrors(t *testing.T) {
	pool := async.NewPool(2)
	boom := errors.New("boom")

	results := pool.Execute(context.Background(), []async.Task{
		{Name: "ok", Execute: func() (any, error) { return "fine", nil }},
		{Name: "bad", Execute: func() (any, error) { return nil, boom }},
	})

	require.Len(t, results, 2)
	assert.NoError(t, results["ok"].Err)
	assert.ErrorIs(t, results["bad"].Err, boom)
}

func TestPoolMoreTasksThanWorkers(t *testing.T) {
	pool := async.NewPool(1)

	tasks := make([]async.Task, 10)
	for i := range tasks {
		n := i
		tasks[i] = async.Task{
			Name:    string(rune('a' + n)),
			Execute: func() (any, error) { return n, nil },
		}
	}

	results := pool.Execute(context.Background(), tasks)
	assert.Len(t, results, 10)
}

func TestPoolEmptyTaskList(t *testing.T) {
	pool := async.NewPool(4)
	results := pool.Execute(context.Background(), nil)
	assert.Empty(t, results)
}

func TestPoolCancelledContext(t *testing.T) {
	pool := async.NewPool(1)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	results := pool.Execute(ctx, []async.Task{
		{Name: "a", Execute: func() (any, error) { return 1, nil }},
	})

	// Cancellation returns whatever finished; never more than requested.
	assert.LessOrEqual(t, len(results), 1)
}
