package store

import (
	"database/sql"
	"fmt"

	"docflow/pkg/database"
)

// SQLite implements DefinitionStore and ExecutionStore on an embedded sqlite
// database. The schema is created on open.
type SQLite struct {
	db *sql.DB
}

const schema = `
CREATE TABLE IF NOT EXISTS pipeline_definitions (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	name TEXT NOT NULL UNIQUE,
	description TEXT NOT NULL DEFAULT '',
	source_type TEXT NOT NULL,
	source_uri TEXT NOT NULL,
	source_database TEXT NOT NULL DEFAULT '',
	source_collection TEXT NOT NULL,
	aggregation_query TEXT,
	source_filter_query TEXT,
	destination_type TEXT NOT NULL,
	destination_uri TEXT NOT NULL,
	destination_database TEXT NOT NULL DEFAULT '',
	destination_collection TEXT NOT NULL,
	load_type TEXT NOT NULL DEFAULT 'full',
	incremental_strategy TEXT NOT NULL DEFAULT '',
	incremental_key TEXT NOT NULL DEFAULT '',
	primary_key TEXT NOT NULL DEFAULT '',
	masking_config TEXT,
	frequency TEXT NOT NULL DEFAULT '',
	is_enabled INTEGER NOT NULL DEFAULT 1,
	is_active INTEGER NOT NULL DEFAULT 1,
	created_at DATETIME NOT NULL,
	updated_at DATETIME NOT NULL
);

CREATE TABLE IF NOT EXISTS executions (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	pipeline_id INTEGER NOT NULL REFERENCES pipeline_definitions(id),
	status TEXT NOT NULL DEFAULT 'pending',
	execution_id TEXT NOT NULL DEFAULT '',
	started_at DATETIME,
	completed_at DATETIME,
	duration_seconds REAL,
	rows_processed INTEGER,
	rows_inserted INTEGER,
	rows_updated INTEGER,
	rows_failed INTEGER,
	logs TEXT NOT NULL DEFAULT '',
	error_message TEXT NOT NULL DEFAULT '',
	created_at DATETIME NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_executions_pipeline ON executions(pipeline_id, created_at DESC);
`

// OpenSQLite opens (or creates) the metadata database at path.
func OpenSQLite(path string) (*SQLite, error) {
	db, err := database.OpenSQLite(path)
	if err != nil {
		return nil, err
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create metadata schema: %w", err)
	}
	return &SQLite{db: db}, nil
}

// Close closes the underlying database handle.
func (s *SQLite) Close() error {
	return s.db.Close()
}
