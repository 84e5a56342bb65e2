package worker

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"docflow/internal/runner"
)

// scriptedExecutor fails the first failuresBefore attempts for a pipeline and
// succeeds afterwards.
type scriptedExecutor struct {
	mu             sync.Mutex
	failuresBefore int
	calls          map[int64]int
}

func newScriptedExecutor(failuresBefore int) *scriptedExecutor {
	return &scriptedExecutor{failuresBefore: failuresBefore, calls: make(map[int64]int)}
}

func (e *scriptedExecutor) Execute(_ context.Context, pipelineID int64) runner.Result {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.calls[pipelineID]++
	if e.calls[pipelineID] <= e.failuresBefore {
		return runner.Result{Status: "failed", Error: "transient failure"}
	}
	return runner.Result{Status: "success"}
}

func (e *scriptedExecutor) callCount(pipelineID int64) int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.calls[pipelineID]
}

func testOptions() Options {
	return Options{Workers: 2, Retries: 3, RetryDelay: time.Millisecond, QueueSize: 8}
}

func TestPoolRunsSuccessfulTaskOnce(t *testing.T) {
	exec := newScriptedExecutor(0)
	pool := NewPool(exec, testOptions(), zap.NewNop())
	pool.Start(context.Background())

	require.NoError(t, pool.Enqueue(7))
	pool.Stop()

	assert.Equal(t, 1, exec.callCount(7))
}

func TestPoolRetriesUntilSuccess(t *testing.T) {
	exec := newScriptedExecutor(2)
	pool := NewPool(exec, testOptions(), zap.NewNop())
	pool.Start(context.Background())

	require.NoError(t, pool.Enqueue(7))
	pool.Drain()
	pool.Stop()

	// Two failures, then a success on the third attempt.
	assert.Equal(t, 3, exec.callCount(7))
}

func TestPoolExhaustsRetries(t *testing.T) {
	exec := newScriptedExecutor(100)
	pool := NewPool(exec, testOptions(), zap.NewNop())
	pool.Start(context.Background())

	require.NoError(t, pool.Enqueue(7))
	pool.Drain()
	pool.Stop()

	// Initial attempt plus three retries.
	assert.Equal(t, 4, exec.callCount(7))
}

func TestPoolProcessesManyPipelines(t *testing.T) {
	exec := newScriptedExecutor(0)
	pool := NewPool(exec, testOptions(), zap.NewNop())
	pool.Start(context.Background())

	for id := int64(1); id <= 5; id++ {
		require.NoError(t, pool.Enqueue(id))
	}
	pool.Stop()

	for id := int64(1); id <= 5; id++ {
		assert.Equal(t, 1, exec.callCount(id), "pipeline %d", id)
	}
}

// blockingExecutor blocks the run of pipeline 1 until released; every other
// pipeline succeeds immediately.
type blockingExecutor struct {
	started chan struct{}
	release chan struct{}
}

func (e *blockingExecutor) Execute(_ context.Context, pipelineID int64) runner.Result {
	if pipelineID == 1 {
		close(e.started)
		<-e.release
	}
	return runner.Result{Status: "success"}
}

func TestPoolStopReturnsAfterCancellationWithQueuedTasks(t *testing.T) {
	exec := &blockingExecutor{started: make(chan struct{}), release: make(chan struct{})}
	pool := NewPool(exec, Options{Workers: 1, Retries: 1, RetryDelay: time.Millisecond, QueueSize: 8}, zap.NewNop())
	ctx, cancel := context.WithCancel(context.Background())
	pool.Start(ctx)

	require.NoError(t, pool.Enqueue(1))
	<-exec.started
	// Queued behind the blocked run; its pending count must be released even
	// though it may never execute.
	require.NoError(t, pool.Enqueue(2))

	cancel()
	close(exec.release)

	done := make(chan struct{})
	go func() {
		pool.Stop()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Stop did not return after context cancellation")
	}
}

func TestEnqueueAfterStop(t *testing.T) {
	pool := NewPool(newScriptedExecutor(0), testOptions(), zap.NewNop())
	pool.Start(context.Background())
	pool.Stop()

	assert.ErrorIs(t, pool.Enqueue(1), ErrStopped)
}

func TestOptionsDefaults(t *testing.T) {
	opts := Options{}.withDefaults()

	assert.Equal(t, 4, opts.Workers)
	assert.Equal(t, 3, opts.Retries)
	assert.Equal(t, 60*time.Second, opts.RetryDelay)
	assert.Equal(t, 64, opts.QueueSize)
}
