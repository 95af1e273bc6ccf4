package store

import (
	"strings"
	"time"
)

// Status represents the lifecycle of a segmentation run.
type Status string

const (
	StatusPending   Status = "pending"
	StatusAnalyzing Status = "analyzing"
	StatusAnalyzed  Status = "analyzed"
	StatusExporting Status = "exporting"
	StatusCompleted Status = "completed"
	StatusFailed    Status = "failed"
	StatusReview    Status = "review"
)

var allStatuses = []Status{
	StatusPending,
	StatusAnalyzing,
	StatusAnalyzed,
	StatusExporting,
	StatusCompleted,
	StatusFailed,
	StatusReview,
}

var statusSet = func() map[Status]struct{} {
	set := make(map[Status]struct{}, len(allStatuses))
	for _, status := range allStatuses {
		set[status] = struct{}{}
	}
	return set
}()

var processingStatuses = map[Status]struct{}{
	StatusAnalyzing: {},
	StatusExporting: {},
}

type statusTransition struct {
	from Status
	to   Status
}

// Interrupted runs roll back to the last durable state so a rerun can
// resume the stage from scratch.
var processingRollbackTransitions = []statusTransition{
	{from: StatusAnalyzing, to: StatusPending},
	{from: StatusExporting, to: StatusAnalyzed},
}

// Run represents a segmentation run persisted in SQLite.
type Run struct {
	ID            int64
	SourcePath    string
	Title         string
	OutputDir     string
	Status        Status
	CorrelationID string
	ThresholdDB   float64
	ThresholdAuto bool
	DurationMS    int64
	SpanCount     int
	TrackCount    int
	SpansJSON     string
	ReportJSON    string
	ErrorMessage  string
	NeedsReview   bool
	ReviewReason  string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// AllStatuses returns the ordered list of known statuses.
func AllStatuses() []Status {
	cp := make([]Status, len(allStatuses))
	copy(cp, allStatuses)
	return cp
}

// ParseStatus converts a string into a known Status.
func ParseStatus(value string) (Status, bool) {
	normalized := Status(strings.ToLower(strings.TrimSpace(value)))
	if normalized == "" {
		return "", false
	}
	_, ok := statusSet[normalized]
	return normalized, ok
}

// IsProcessing returns true when the status reflects an in-flight stage.
func (r Run) IsProcessing() bool {
	_, ok := processingStatuses[r.Status]
	return ok
}

// IsProcessingStatus reports whether a status reflects an in-flight stage.
func IsProcessingStatus(status Status) bool {
	_, ok := processingStatuses[status]
	return ok
}

// SetFailed marks the run as failed with the given error message.
func (r *Run) SetFailed(message string) {
	r.Status = StatusFailed
	r.ErrorMessage = message
}

// SetReview flags the run for manual attention with the given reason.
func (r *Run) SetReview(reason string) {
	r.Status = StatusReview
	r.NeedsReview = true
	r.ReviewReason = reason
}
