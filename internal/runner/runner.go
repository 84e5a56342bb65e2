// Package runner owns the lifecycle of one pipeline execution attempt: it
// creates the execution record, drives it pending → running → terminal, and
// is the single place where pipeline errors become a failed record.
package runner

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"docflow/internal/etl"
	"docflow/internal/store"
	"docflow/pkg/models"
)

// ErrAlreadyRunning is returned when a trigger arrives while the same
// pipeline is still executing in this process.
var ErrAlreadyRunning = errors.New("pipeline is already running")

// Result is the synchronous trigger response.
type Result struct {
	Status          string  `json:"status"`
	ExecutionID     string  `json:"execution_id,omitempty"`
	DurationSeconds float64 `json:"duration_seconds"`
	RowsProcessed   *int64  `json:"rows_processed,omitempty"`
	RowsInserted    *int64  `json:"rows_inserted,omitempty"`
	RowsFailed      *int64  `json:"rows_failed,omitempty"`
	Error           string  `json:"error,omitempty"`
}

// Runner executes pipelines by id and tracks their execution records.
type Runner struct {
	definitions store.DefinitionStore
	executions  store.ExecutionStore
	pipeline    *etl.Pipeline
	log         *zap.Logger
	now         func() time.Time

	mu       sync.Mutex
	inflight map[int64]struct{}
}

func New(definitions store.DefinitionStore, executions store.ExecutionStore,
	pipeline *etl.Pipeline, log *zap.Logger) *Runner {
	return &Runner{
		definitions: definitions,
		executions:  executions,
		pipeline:    pipeline,
		log:         log,
		now:         time.Now,
		inflight:    make(map[int64]struct{}),
	}
}

// Execute runs the pipeline with the given id and returns the trigger
// result. A definition that is missing, inactive or disabled produces a
// failed result without creating an execution record; any later failure is
// recorded on the execution record before it is reported.
func (r *Runner) Execute(ctx context.Context, pipelineID int64) Result {
	if !r.acquire(pipelineID) {
		msg := fmt.Sprintf("pipeline with ID %d is already running", pipelineID)
		r.log.Warn("concurrent trigger rejected", zap.Int64("pipeline_id", pipelineID))
		return Result{Status: "failed", Error: fmt.Sprintf("%s: %v", msg, ErrAlreadyRunning)}
	}
	defer r.release(pipelineID)

	def, err := r.definitions.GetActiveDefinition(ctx, pipelineID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			msg := fmt.Sprintf("pipeline with ID %d not found or not active/enabled", pipelineID)
			r.log.Error(msg)
			return Result{Status: "failed", Error: msg}
		}
		msg := fmt.Sprintf("failed to load pipeline %d: %v", pipelineID, err)
		r.log.Error(msg)
		return Result{Status: "failed", Error: msg}
	}

	r.log.Info("starting pipeline execution",
		zap.Int64("pipeline_id", def.ID), zap.String("pipeline", def.Name))

	run := newRun(r, def)

	if err := etl.ValidateDefinition(def); err != nil {
		// Invalid configuration fails before extraction and before the
		// record is ever started: created, then directly failed.
		run.create(ctx)
		return run.fail(ctx, err)
	}

	run.create(ctx)
	run.start(ctx)

	result, err := r.pipeline.Run(ctx, def.SourceSpec(), def.DestinationSpec(), def.MaskingConfig, def.Name)
	if err != nil {
		return run.fail(ctx, err)
	}
	return run.succeed(ctx, result)
}

func (r *Runner) acquire(pipelineID int64) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, busy := r.inflight[pipelineID]; busy {
		return false
	}
	r.inflight[pipelineID] = struct{}{}
	return true
}

func (r *Runner) release(pipelineID int64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.inflight, pipelineID)
}

// run tracks the state of one execution record through its lifecycle. The
// record is single-writer: only this run mutates it.
type run struct {
	runner *Runner
	def    *models.PipelineDefinition
	rec    *models.ExecutionRecord
	logs   strings.Builder
}

func newRun(r *Runner, def *models.PipelineDefinition) *run {
	return &run{
		runner: r,
		def:    def,
		rec:    &models.ExecutionRecord{PipelineID: def.ID, Status: models.StatusPending},
	}
}

func (x *run) create(ctx context.Context) {
	if err := x.runner.executions.CreateExecution(ctx, x.rec); err != nil {
		x.runner.log.Error("failed to create execution record",
			zap.Int64("pipeline_id", x.def.ID), zap.Error(err))
	}
}

// start transitions pending → running: stamps started_at and mints the
// execution identifier.
func (x *run) start(ctx context.Context) {
	now := x.runner.now().UTC()
	x.rec.Status = models.StatusRunning
	x.rec.StartedAt = &now
	x.rec.ExecutionID = uuid.NewString()
	x.appendLog("Execution %s started for pipeline '%s'", x.rec.ExecutionID, x.def.Name)
	x.persist(ctx)
}

// succeed transitions running → success with the run metrics.
func (x *run) succeed(ctx context.Context, result *etl.LoadResult) Result {
	x.rec.Status = models.StatusSuccess
	x.complete()
	x.rec.RowsProcessed = &result.RowsProcessed
	x.rec.RowsInserted = &result.RowsInserted
	x.rec.RowsUpdated = &result.RowsUpdated
	x.rec.RowsFailed = &result.RowsFailed
	x.appendLog("Successfully processed %d records (%d inserted, %d updated, %d failed) across %d load batches",
		result.RowsProcessed, result.RowsInserted, result.RowsUpdated, result.RowsFailed, len(result.LoadIDs))
	x.persist(ctx)

	duration := 0.0
	if x.rec.DurationSeconds != nil {
		duration = *x.rec.DurationSeconds
	}
	x.runner.log.Info("pipeline execution completed",
		zap.String("pipeline", x.def.Name),
		zap.Float64("duration_seconds", duration),
		zap.Int64("rows_processed", result.RowsProcessed))

	return Result{
		Status:          "success",
		ExecutionID:     x.rec.ExecutionID,
		DurationSeconds: duration,
		RowsProcessed:   x.rec.RowsProcessed,
		RowsInserted:    x.rec.RowsInserted,
		RowsFailed:      x.rec.RowsFailed,
	}
}

// fail transitions the record to failed from any prior state, preserving the
// original error text. Duration is computed only if the run was started.
func (x *run) fail(ctx context.Context, err error) Result {
	msg := fmt.Sprintf("Pipeline execution failed: %v", err)
	x.rec.Status = models.StatusFailed
	if x.rec.StartedAt != nil {
		x.complete()
	}
	x.rec.ErrorMessage = msg
	x.appendLog(msg)
	x.persist(ctx)

	x.runner.log.Error("pipeline execution failed",
		zap.String("pipeline", x.def.Name), zap.Error(err))

	duration := 0.0
	if x.rec.DurationSeconds != nil {
		duration = *x.rec.DurationSeconds
	}
	return Result{
		Status:          "failed",
		ExecutionID:     x.rec.ExecutionID,
		DurationSeconds: duration,
		Error:           msg,
	}
}

// complete stamps completed_at and derives the duration from started_at.
func (x *run) complete() {
	now := x.runner.now().UTC()
	x.rec.CompletedAt = &now
	if x.rec.StartedAt != nil {
		d := now.Sub(*x.rec.StartedAt).Seconds()
		if d < 0 {
			d = 0
		}
		x.rec.DurationSeconds = &d
	}
}

func (x *run) appendLog(format string, args ...interface{}) {
	fmt.Fprintf(&x.logs, "[%s] %s\n", x.runner.now().UTC().Format(time.RFC3339), fmt.Sprintf(format, args...))
	x.rec.Logs = x.logs.String()
}

func (x *run) persist(ctx context.Context) {
	if x.rec.ID == 0 {
		// Record creation itself failed earlier; nothing to update.
		return
	}
	if err := x.runner.executions.UpdateExecution(ctx, x.rec); err != nil {
		x.runner.log.Error("failed to persist execution record",
			zap.Int64("execution_record_id", x.rec.ID), zap.Error(err))
	}
}
