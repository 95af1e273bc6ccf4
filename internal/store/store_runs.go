package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// NewRun inserts a pending run for a source recording.
func (s *Store) NewRun(ctx context.Context, sourcePath, title, correlationID string) (*Run, error) {
	now := time.Now().UTC()
	timestamp := now.Format(time.RFC3339Nano)

	res, err := s.execWithRetry(
		ctx,
		`INSERT INTO runs (
            source_path, title, status, correlation_id, created_at, updated_at
        ) VALUES (?, ?, ?, ?, ?, ?)`,
		sourcePath,
		nullableString(title),
		StatusPending,
		nullableString(correlationID),
		timestamp,
		timestamp,
	)
	if err != nil {
		return nil, fmt.Errorf("insert run: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}

	return s.GetByID(ctx, id)
}

// GetByID fetches a run by identifier.
func (s *Store) GetByID(ctx context.Context, id int64) (*Run, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+runColumns+` FROM runs WHERE id = ?`, id)
	run, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get run: %w", err)
	}
	return run, nil
}

// Update persists changes to an existing run.
func (s *Store) Update(ctx context.Context, run *Run) error {
	if run == nil {
		return errors.New("run is nil")
	}
	run.UpdatedAt = time.Now().UTC()
	if err := s.execWithoutResultRetry(
		ctx,
		`UPDATE runs
         SET source_path = ?, title = ?, output_dir = ?, status = ?, correlation_id = ?,
             threshold_db = ?, threshold_auto = ?, duration_ms = ?, span_count = ?,
             track_count = ?, spans_json = ?, report_json = ?, error_message = ?,
             needs_review = ?, review_reason = ?, updated_at = ?
         WHERE id = ?`,
		run.SourcePath,
		nullableString(run.Title),
		nullableString(run.OutputDir),
		run.Status,
		nullableString(run.CorrelationID),
		run.ThresholdDB,
		boolToInt(run.ThresholdAuto),
		run.DurationMS,
		run.SpanCount,
		run.TrackCount,
		nullableString(run.SpansJSON),
		nullableString(run.ReportJSON),
		nullableString(run.ErrorMessage),
		boolToInt(run.NeedsReview),
		nullableString(run.ReviewReason),
		run.UpdatedAt.Format(time.RFC3339Nano),
		run.ID,
	); err != nil {
		return fmt.Errorf("update run: %w", err)
	}
	return nil
}

// List returns runs filtered by status set, newest first. No statuses means all runs.
func (s *Store) List(ctx context.Context, statuses ...Status) ([]*Run, error) {
	var (
		rows *sql.Rows
		err  error
	)

	baseQuery := `SELECT ` + runColumns + ` FROM runs`
	orderClause := ` ORDER BY created_at DESC`

	if len(statuses) == 0 {
		rows, err = s.db.QueryContext(ctx, baseQuery+orderClause)
	} else {
		placeholders := makePlaceholders(len(statuses))
		args := make([]any, len(statuses))
		for i, status := range statuses {
			args[i] = status
		}
		query := baseQuery + ` WHERE status IN (` + placeholders + `)` + orderClause
		rows, err = s.db.QueryContext(ctx, query, args...)
	}
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	var runs []*Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

// Remove deletes a run by identifier.
func (s *Store) Remove(ctx context.Context, id int64) (bool, error) {
	res, err := s.execWithRetry(ctx, `DELETE FROM runs WHERE id = ?`, id)
	if err != nil {
		return false, fmt.Errorf("delete run: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected: %w", err)
	}
	return affected > 0, nil
}

// Clear removes all runs from the history.
func (s *Store) Clear(ctx context.Context) (int64, error) {
	res, err := s.execWithRetry(ctx, `DELETE FROM runs`)
	if err != nil {
		return 0, fmt.Errorf("clear runs: %w", err)
	}
	return res.RowsAffected()
}

// ClearCompleted removes only completed runs from the history.
func (s *Store) ClearCompleted(ctx context.Context) (int64, error) {
	res, err := s.execWithRetry(ctx, `DELETE FROM runs WHERE status = ?`, StatusCompleted)
	if err != nil {
		return 0, fmt.Errorf("clear completed: %w", err)
	}
	return res.RowsAffected()
}

// ResetProcessing rolls interrupted runs back to their last durable status.
// Returns the number of runs reset.
func (s *Store) ResetProcessing(ctx context.Context) (int64, error) {
	var total int64
	timestamp := time.Now().UTC().Format(time.RFC3339Nano)
	for _, transition := range processingRollbackTransitions {
		res, err := s.execWithRetry(
			ctx,
			`UPDATE runs SET status = ?, updated_at = ? WHERE status = ?`,
			transition.to,
			timestamp,
			transition.from,
		)
		if err != nil {
			return total, fmt.Errorf("reset %s runs: %w", transition.from, err)
		}
		affected, err := res.RowsAffected()
		if err != nil {
			return total, fmt.Errorf("rows affected: %w", err)
		}
		total += affected
	}
	return total, nil
}
