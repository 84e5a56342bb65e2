package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"docflow/pkg/models"
)

const definitionColumns = `id, name, description,
	source_type, source_uri, source_database, source_collection,
	aggregation_query, source_filter_query,
	destination_type, destination_uri, destination_database, destination_collection,
	load_type, incremental_strategy, incremental_key, primary_key,
	masking_config, frequency, is_enabled, is_active, created_at, updated_at`

func (s *SQLite) CreateDefinition(ctx context.Context, def *models.PipelineDefinition) error {
	aggregation, err := marshalJSON(def.AggregationQuery)
	if err != nil {
		return err
	}
	filter, err := marshalJSON(def.SourceFilterQuery)
	if err != nil {
		return err
	}
	masking, err := marshalJSON(def.MaskingConfig)
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	def.CreatedAt = now
	def.UpdatedAt = now

	res, err := s.db.ExecContext(ctx, `INSERT INTO pipeline_definitions (
		name, description,
		source_type, source_uri, source_database, source_collection,
		aggregation_query, source_filter_query,
		destination_type, destination_uri, destination_database, destination_collection,
		load_type, incremental_strategy, incremental_key, primary_key,
		masking_config, frequency, is_enabled, is_active, created_at, updated_at
	) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		def.Name, def.Description,
		def.SourceType, def.SourceURI, def.SourceDatabase, def.SourceCollection,
		aggregation, filter,
		def.DestinationType, def.DestinationURI, def.DestinationDatabase, def.DestinationCollection,
		def.LoadType, def.IncrementalStrategy, def.IncrementalKey, def.PrimaryKey,
		masking, def.Frequency, def.IsEnabled, def.IsActive, def.CreatedAt, def.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert pipeline definition: %w", err)
	}

	def.ID, err = res.LastInsertId()
	return err
}

func (s *SQLite) GetDefinition(ctx context.Context, id int64) (*models.PipelineDefinition, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+definitionColumns+` FROM pipeline_definitions WHERE id = ?`, id)
	return scanDefinition(row)
}

func (s *SQLite) GetActiveDefinition(ctx context.Context, id int64) (*models.PipelineDefinition, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+definitionColumns+` FROM pipeline_definitions
		 WHERE id = ? AND is_active = 1 AND is_enabled = 1`, id)
	return scanDefinition(row)
}

func (s *SQLite) ListDefinitions(ctx context.Context) ([]models.PipelineDefinition, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+definitionColumns+` FROM pipeline_definitions ORDER BY created_at DESC, id DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var defs []models.PipelineDefinition
	for rows.Next() {
		def, err := scanDefinition(rows)
		if err != nil {
			return nil, err
		}
		defs = append(defs, *def)
	}
	return defs, rows.Err()
}

func (s *SQLite) SetEnabled(ctx context.Context, id int64, enabled bool) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE pipeline_definitions SET is_enabled = ?, updated_at = ? WHERE id = ?`,
		enabled, time.Now().UTC(), id)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanDefinition(row rowScanner) (*models.PipelineDefinition, error) {
	var def models.PipelineDefinition
	var aggregation, filter, masking sql.NullString

	err := row.Scan(&def.ID, &def.Name, &def.Description,
		&def.SourceType, &def.SourceURI, &def.SourceDatabase, &def.SourceCollection,
		&aggregation, &filter,
		&def.DestinationType, &def.DestinationURI, &def.DestinationDatabase, &def.DestinationCollection,
		&def.LoadType, &def.IncrementalStrategy, &def.IncrementalKey, &def.PrimaryKey,
		&masking, &def.Frequency, &def.IsEnabled, &def.IsActive, &def.CreatedAt, &def.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	if err := unmarshalJSON(aggregation, &def.AggregationQuery); err != nil {
		return nil, err
	}
	if err := unmarshalJSON(filter, &def.SourceFilterQuery); err != nil {
		return nil, err
	}
	if err := unmarshalJSON(masking, &def.MaskingConfig); err != nil {
		return nil, err
	}
	return &def, nil
}

func marshalJSON(v interface{}) (sql.NullString, error) {
	if v == nil {
		return sql.NullString{}, nil
	}
	b, err := json.Marshal(v)
	if err != nil {
		return sql.NullString{}, fmt.Errorf("failed to encode definition field: %w", err)
	}
	return sql.NullString{String: string(b), Valid: true}, nil
}

func unmarshalJSON(src sql.NullString, dst interface{}) error {
	if !src.Valid || src.String == "" || src.String == "null" {
		return nil
	}
	return json.Unmarshal([]byte(src.String), dst)
}
