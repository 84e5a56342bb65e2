// Package models defines the persistent data model shared by the ETL engine,
// the stores and the CLI: pipeline definitions and their execution records.
package models

import "time"

// LoadType selects between a full copy and an incremental load.
type LoadType string

const (
	LoadTypeFull        LoadType = "full"
	LoadTypeIncremental LoadType = "incremental"
)

// IncrementalStrategy describes how incremental loads write into the
// destination collection.
type IncrementalStrategy string

const (
	StrategyAppend  IncrementalStrategy = "append"
	StrategyMerge   IncrementalStrategy = "merge"
	StrategyReplace IncrementalStrategy = "replace"
	StrategyUpsert  IncrementalStrategy = "upsert"
)

// MaskRule is a per-field redaction rule applied between extract and load.
type MaskRule string

const (
	MaskRemove  MaskRule = "remove"
	MaskHash    MaskRule = "hash"
	MaskPartial MaskRule = "partial"
)

// MaskingConfig maps field names to the rule applied to them.
type MaskingConfig map[string]MaskRule

// SourceType tags the connector used for extraction. Only mongodb is
// implemented; the remaining tags are registered as stubs.
type SourceType string

const (
	SourceMongoDB    SourceType = "mongodb"
	SourcePostgreSQL SourceType = "postgresql"
	SourceMySQL      SourceType = "mysql"
	SourceAPI        SourceType = "api"
	SourceFile       SourceType = "file"
)

// DestinationType tags the connector used for loading.
type DestinationType string

const (
	DestinationMongoDB    DestinationType = "mongodb"
	DestinationPostgreSQL DestinationType = "postgresql"
	DestinationMySQL      DestinationType = "mysql"
	DestinationS3         DestinationType = "s3"
	DestinationBigQuery   DestinationType = "bigquery"
)

// ExecutionStatus is the lifecycle state of one execution attempt.
type ExecutionStatus string

const (
	StatusPending   ExecutionStatus = "pending"
	StatusRunning   ExecutionStatus = "running"
	StatusSuccess   ExecutionStatus = "success"
	StatusFailed    ExecutionStatus = "failed"
	StatusCancelled ExecutionStatus = "cancelled" // reserved, never produced by the engine
)

// IsTerminal reports whether no further transitions are allowed.
func (s ExecutionStatus) IsTerminal() bool {
	return s == StatusSuccess || s == StatusFailed || s == StatusCancelled
}

// PipelineDefinition is the declarative configuration for one recurring
// data-movement job. It is created and edited by operators and read-only to
// the engine for the duration of a run.
type PipelineDefinition struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`

	SourceType        SourceType               `json:"source_type"`
	SourceURI         string                   `json:"source_uri"`
	SourceDatabase    string                   `json:"source_database"`
	SourceCollection  string                   `json:"source_collection"`
	AggregationQuery  []map[string]interface{} `json:"aggregation_query,omitempty"`
	SourceFilterQuery map[string]interface{}   `json:"source_filter_query,omitempty"`

	DestinationType       DestinationType `json:"destination_type"`
	DestinationURI        string          `json:"destination_uri"`
	DestinationDatabase   string          `json:"destination_database"`
	DestinationCollection string          `json:"destination_collection"`

	LoadType            LoadType            `json:"load_type"`
	IncrementalStrategy IncrementalStrategy `json:"incremental_strategy,omitempty"`
	IncrementalKey      string              `json:"incremental_key,omitempty"`
	PrimaryKey          string              `json:"primary_key,omitempty"`

	MaskingConfig MaskingConfig `json:"masking_config,omitempty"`

	// Frequency is a cron expression consumed by the external scheduler.
	Frequency string `json:"frequency,omitempty"`
	IsEnabled bool   `json:"is_enabled"`
	IsActive  bool   `json:"is_active"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// SourceSpec is the transient, tagged source config handed to the connector
// registry at run time.
type SourceSpec struct {
	Type        SourceType
	URI         string
	Database    string
	Collection  string
	Query       map[string]interface{}
	Aggregation []map[string]interface{}
}

// DestinationSpec is the transient, tagged destination config handed to the
// connector registry at run time.
type DestinationSpec struct {
	Type       DestinationType
	URI        string
	Database   string
	Collection string

	LoadType LoadType
	Strategy IncrementalStrategy
	// MergeKey identifies documents for merge/upsert writes.
	MergeKey string
}

// SourceSpec derives the run-time source config from the definition.
func (d *PipelineDefinition) SourceSpec() SourceSpec {
	return SourceSpec{
		Type:        d.SourceType,
		URI:         d.SourceURI,
		Database:    d.SourceDatabase,
		Collection:  d.SourceCollection,
		Query:       d.SourceFilterQuery,
		Aggregation: d.AggregationQuery,
	}
}

// DestinationSpec derives the run-time destination config from the
// definition. The merge key falls back to the primary key and finally to the
// document identity field.
func (d *PipelineDefinition) DestinationSpec() DestinationSpec {
	key := d.IncrementalKey
	if key == "" {
		key = d.PrimaryKey
	}
	if key == "" {
		key = "_id"
	}
	return DestinationSpec{
		Type:       d.DestinationType,
		URI:        d.DestinationURI,
		Database:   d.DestinationDatabase,
		Collection: d.DestinationCollection,
		LoadType:   d.LoadType,
		Strategy:   d.IncrementalStrategy,
		MergeKey:   key,
	}
}

// ExecutionRecord tracks one timed attempt to run a pipeline. It is owned
// exclusively by the execution tracker for the lifetime of the run.
type ExecutionRecord struct {
	ID         int64           `json:"id"`
	PipelineID int64           `json:"pipeline_id"`
	Status     ExecutionStatus `json:"status"`

	// ExecutionID is an opaque token minted when the run starts.
	ExecutionID string `json:"execution_id,omitempty"`

	StartedAt       *time.Time `json:"started_at,omitempty"`
	CompletedAt     *time.Time `json:"completed_at,omitempty"`
	DurationSeconds *float64   `json:"duration_seconds,omitempty"`

	RowsProcessed *int64 `json:"rows_processed,omitempty"`
	RowsInserted  *int64 `json:"rows_inserted,omitempty"`
	RowsUpdated   *int64 `json:"rows_updated,omitempty"`
	RowsFailed    *int64 `json:"rows_failed,omitempty"`

	Logs         string `json:"logs,omitempty"`
	ErrorMessage string `json:"error_message,omitempty"`

	CreatedAt time.Time `json:"created_at"`
}
