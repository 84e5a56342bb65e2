// Package store contains the metadata persistence layer: pipeline
// definitions and execution records.
package store

import (
	"context"
	"errors"

	"docflow/pkg/models"
)

// ErrNotFound is returned when a definition or execution does not exist, or
// when an active+enabled lookup filters it out.
var ErrNotFound = errors.New("not found")

// DefinitionStore handles persistence of pipeline definitions.
type DefinitionStore interface {
	// CreateDefinition inserts a new definition and fills in its ID.
	CreateDefinition(ctx context.Context, def *models.PipelineDefinition) error

	// GetDefinition returns a definition regardless of its flags.
	GetDefinition(ctx context.Context, id int64) (*models.PipelineDefinition, error)

	// GetActiveDefinition returns a definition only if it is both active
	// and enabled; otherwise ErrNotFound.
	GetActiveDefinition(ctx context.Context, id int64) (*models.PipelineDefinition, error)

	// ListDefinitions returns all definitions, newest first.
	ListDefinitions(ctx context.Context) ([]models.PipelineDefinition, error)

	// SetEnabled flips the enabled flag of a definition.
	SetEnabled(ctx context.Context, id int64, enabled bool) error
}

// ExecutionStore handles persistence of execution records. Records are never
// deleted here; retention is an external concern.
type ExecutionStore interface {
	// CreateExecution inserts the initial state of a record and fills in
	// its ID.
	CreateExecution(ctx context.Context, rec *models.ExecutionRecord) error

	// UpdateExecution persists status, timing, metrics and logs.
	UpdateExecution(ctx context.Context, rec *models.ExecutionRecord) error

	// GetExecution returns one record by ID.
	GetExecution(ctx context.Context, id int64) (*models.ExecutionRecord, error)

	// ListExecutions returns the records of one pipeline, newest first.
	ListExecutions(ctx context.Context, pipelineID int64) ([]models.ExecutionRecord, error)
}
