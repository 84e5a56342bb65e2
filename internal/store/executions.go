package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"docflow/pkg/models"
)

const executionColumns = `id, pipeline_id, status, execution_id,
	started_at, completed_at, duration_seconds,
	rows_processed, rows_inserted, rows_updated, rows_failed,
	logs, error_message, created_at`

func (s *SQLite) CreateExecution(ctx context.Context, rec *models.ExecutionRecord) error {
	if rec.Status == "" {
		rec.Status = models.StatusPending
	}
	rec.CreatedAt = time.Now().UTC()

	res, err := s.db.ExecContext(ctx, `INSERT INTO executions (
		pipeline_id, status, execution_id,
		started_at, completed_at, duration_seconds,
		rows_processed, rows_inserted, rows_updated, rows_failed,
		logs, error_message, created_at
	) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.PipelineID, rec.Status, rec.ExecutionID,
		rec.StartedAt, rec.CompletedAt, rec.DurationSeconds,
		rec.RowsProcessed, rec.RowsInserted, rec.RowsUpdated, rec.RowsFailed,
		rec.Logs, rec.ErrorMessage, rec.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert execution record: %w", err)
	}

	rec.ID, err = res.LastInsertId()
	return err
}

func (s *SQLite) UpdateExecution(ctx context.Context, rec *models.ExecutionRecord) error {
	res, err := s.db.ExecContext(ctx, `UPDATE executions SET
		status = ?, execution_id = ?,
		started_at = ?, completed_at = ?, duration_seconds = ?,
		rows_processed = ?, rows_inserted = ?, rows_updated = ?, rows_failed = ?,
		logs = ?, error_message = ?
		WHERE id = ?`,
		rec.Status, rec.ExecutionID,
		rec.StartedAt, rec.CompletedAt, rec.DurationSeconds,
		rec.RowsProcessed, rec.RowsInserted, rec.RowsUpdated, rec.RowsFailed,
		rec.Logs, rec.ErrorMessage, rec.ID)
	if err != nil {
		return fmt.Errorf("failed to update execution record: %w", err)
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

func (s *SQLite) GetExecution(ctx context.Context, id int64) (*models.ExecutionRecord, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+executionColumns+` FROM executions WHERE id = ?`, id)
	return scanExecution(row)
}

func (s *SQLite) ListExecutions(ctx context.Context, pipelineID int64) ([]models.ExecutionRecord, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+executionColumns+` FROM executions
		 WHERE pipeline_id = ? ORDER BY created_at DESC, id DESC`, pipelineID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var recs []models.ExecutionRecord
	for rows.Next() {
		rec, err := scanExecution(rows)
		if err != nil {
			return nil, err
		}
		recs = append(recs, *rec)
	}
	return recs, rows.Err()
}

func scanExecution(row rowScanner) (*models.ExecutionRecord, error) {
	var rec models.ExecutionRecord
	var startedAt, completedAt sql.NullTime
	var duration sql.NullFloat64
	var processed, inserted, updated, failed sql.NullInt64

	err := row.Scan(&rec.ID, &rec.PipelineID, &rec.Status, &rec.ExecutionID,
		&startedAt, &completedAt, &duration,
		&processed, &inserted, &updated, &failed,
		&rec.Logs, &rec.ErrorMessage, &rec.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	if startedAt.Valid {
		t := startedAt.Time
		rec.StartedAt = &t
	}
	if completedAt.Valid {
		t := completedAt.Time
		rec.CompletedAt = &t
	}
	if duration.Valid {
		d := duration.Float64
		rec.DurationSeconds = &d
	}
	if processed.Valid {
		v := processed.Int64
		rec.RowsProcessed = &v
	}
	if inserted.Valid {
		v := inserted.Int64
		rec.RowsInserted = &v
	}
	if updated.Valid {
		v := updated.Int64
		rec.RowsUpdated = &v
	}
	if failed.Valid {
		v := failed.Int64
		rec.RowsFailed = &v
	}
	return &rec, nil
}
