package store

import (
	"database/sql"
	"errors"
	"time"
)

const runColumns = "id, source_path, title, output_dir, status, correlation_id, threshold_db, threshold_auto, duration_ms, span_count, track_count, spans_json, report_json, error_message, needs_review, review_reason, created_at, updated_at"

func scanRun(scanner interface{ Scan(dest ...any) error }) (*Run, error) {
	var (
		id            int64
		sourcePath    string
		title         sql.NullString
		outputDir     sql.NullString
		statusStr     string
		correlationID sql.NullString
		thresholdDB   sql.NullFloat64
		thresholdAuto sql.NullInt64
		durationMS    sql.NullInt64
		spanCount     sql.NullInt64
		trackCount    sql.NullInt64
		spansJSON     sql.NullString
		reportJSON    sql.NullString
		errorMessage  sql.NullString
		needsReview   sql.NullInt64
		reviewReason  sql.NullString
		createdRaw    sql.NullString
		updatedRaw    sql.NullString
	)

	if err := scanner.Scan(
		&id,
		&sourcePath,
		&title,
		&outputDir,
		&statusStr,
		&correlationID,
		&thresholdDB,
		&thresholdAuto,
		&durationMS,
		&spanCount,
		&trackCount,
		&spansJSON,
		&reportJSON,
		&errorMessage,
		&needsReview,
		&reviewReason,
		&createdRaw,
		&updatedRaw,
	); err != nil {
		return nil, err
	}

	run := &Run{
		ID:            id,
		SourcePath:    sourcePath,
		Title:         title.String,
		OutputDir:     outputDir.String,
		Status:        Status(statusStr),
		CorrelationID: correlationID.String,
		ThresholdDB:   thresholdDB.Float64,
		DurationMS:    durationMS.Int64,
		SpanCount:     int(spanCount.Int64),
		TrackCount:    int(trackCount.Int64),
		SpansJSON:     spansJSON.String,
		ReportJSON:    reportJSON.String,
		ErrorMessage:  errorMessage.String,
		ReviewReason:  reviewReason.String,
	}
	if thresholdAuto.Valid {
		run.ThresholdAuto = thresholdAuto.Int64 != 0
	}
	if needsReview.Valid {
		run.NeedsReview = needsReview.Int64 != 0
	}

	if created, err := parseTimeString(createdRaw.String); err == nil {
		run.CreatedAt = created
	}
	if updated, err := parseTimeString(updatedRaw.String); err == nil {
		run.UpdatedAt = updated
	}
	return run, nil
}

func nullableString(value string) any {
	if value == "" {
		return nil
	}
	return value
}

func boolToInt(value bool) int {
	if value {
		return 1
	}
	return 0
}

func parseTimeString(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, errors.New("empty")
	}
	if t, err := time.Parse(time.RFC3339Nano, value); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02 15:04:05", value)
}

func makePlaceholders(count int) string {
	if count <= 0 {
		return ""
	}
	placeholders := make([]byte, 0, count*2)
	for i := 0; i < count; i++ {
		if i > 0 {
			placeholders = append(placeholders, ',')
		}
		placeholders = append(placeholders, '?')
	}
	return string(placeholders)
}
