// Package worker provides the in-process task queue that dispatches pipeline
// runs to a bounded worker pool with at-least-once semantics: a failed run is
// re-enqueued with a countdown until its retries are exhausted.
package worker

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"

	"docflow/internal/runner"
)

// Executor runs one pipeline by id. Satisfied by *runner.Runner.
type Executor interface {
	Execute(ctx context.Context, pipelineID int64) runner.Result
}

// ErrStopped is returned by Enqueue after Stop has been called.
var ErrStopped = errors.New("worker pool is stopped")

// Options configure the pool. Zero values fall back to the defaults that
// match the scheduler's contract: 3 retries with a 60 second countdown.
type Options struct {
	Workers    int
	Retries    int
	RetryDelay time.Duration
	QueueSize  int
}

func (o Options) withDefaults() Options {
	if o.Workers <= 0 {
		o.Workers = 4
	}
	if o.Retries < 0 {
		o.Retries = 0
	}
	if o.Retries == 0 {
		o.Retries = 3
	}
	if o.RetryDelay <= 0 {
		o.RetryDelay = 60 * time.Second
	}
	if o.QueueSize <= 0 {
		o.QueueSize = 64
	}
	return o
}

type task struct {
	pipelineID int64
	attempt    int
}

// Pool consumes pipeline ids from its queue and executes them. Multiple runs
// of different pipelines proceed concurrently; same-pipeline exclusion is the
// runner's job.
type Pool struct {
	executor Executor
	opts     Options
	log      *zap.Logger

	tasks   chan task
	wg      sync.WaitGroup // workers
	pending sync.WaitGroup // tasks, including scheduled retries

	mu      sync.Mutex
	stopped bool
}

func NewPool(executor Executor, opts Options, log *zap.Logger) *Pool {
	opts = opts.withDefaults()
	return &Pool{
		executor: executor,
		opts:     opts,
		log:      log,
		tasks:    make(chan task, opts.QueueSize),
	}
}

// Start launches the workers. They run until ctx is cancelled or Stop is
// called.
func (p *Pool) Start(ctx context.Context) {
	for i := 0; i < p.opts.Workers; i++ {
		p.wg.Add(1)
		go p.work(ctx)
	}
}

// Enqueue submits a pipeline run to the pool.
func (p *Pool) Enqueue(pipelineID int64) error {
	return p.submit(task{pipelineID: pipelineID, attempt: 1})
}

func (p *Pool) submit(t task) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.stopped {
		return ErrStopped
	}
	p.pending.Add(1)
	p.tasks <- t
	return nil
}

// Drain blocks until every enqueued task, including scheduled retries, has
// finished.
func (p *Pool) Drain() {
	p.pending.Wait()
}

// Stop drains outstanding tasks and shuts the workers down.
func (p *Pool) Stop() {
	p.pending.Wait()

	p.mu.Lock()
	if p.stopped {
		p.mu.Unlock()
		return
	}
	p.stopped = true
	close(p.tasks)
	p.mu.Unlock()

	p.wg.Wait()
}

func (p *Pool) work(ctx context.Context) {
	defer p.wg.Done()
	for {
		select {
		case <-ctx.Done():
			p.discard()
			return
		case t, ok := <-p.tasks:
			if !ok {
				return
			}
			p.run(ctx, t)
		}
	}
}

// discard acks queued tasks without executing them once the context is
// cancelled. Every queued task holds a pending count; leaving them in the
// channel would park Drain and Stop forever.
func (p *Pool) discard() {
	for t := range p.tasks {
		p.log.Warn("discarding queued task, context cancelled",
			zap.Int64("pipeline_id", t.pipelineID))
		p.pending.Done()
	}
}

func (p *Pool) run(ctx context.Context, t task) {
	defer p.pending.Done()

	res := p.executor.Execute(ctx, t.pipelineID)
	if res.Status != "failed" {
		return
	}

	if t.attempt > p.opts.Retries {
		p.log.Error("pipeline task exhausted its retries",
			zap.Int64("pipeline_id", t.pipelineID),
			zap.Int("attempts", t.attempt),
			zap.String("error", res.Error))
		return
	}

	p.log.Warn("pipeline task failed, scheduling retry",
		zap.Int64("pipeline_id", t.pipelineID),
		zap.Int("attempt", t.attempt),
		zap.Duration("countdown", p.opts.RetryDelay),
		zap.String("error", res.Error))

	p.pending.Add(1)
	go func() {
		defer p.pending.Done()
		select {
		case <-ctx.Done():
			return
		case <-time.After(p.opts.RetryDelay):
		}
		if err := p.submit(task{pipelineID: t.pipelineID, attempt: t.attempt + 1}); err != nil {
			p.log.Warn("retry dropped, pool stopped", zap.Int64("pipeline_id", t.pipelineID))
		}
	}()
}
