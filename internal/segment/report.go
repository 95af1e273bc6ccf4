package segment

// Span is one candidate or final song region, always expressed in stream
// time, never window-index time.
type Span struct {
	StartMS int64 `json:"start_ms"`
	EndMS   int64 `json:"end_ms"`
}

// DurationMS returns the span length.
func (s Span) DurationMS() int64 {
	return s.EndMS - s.StartMS
}

// Report aggregates the non-fatal diagnostics of a segmentation run so the
// caller can log them. Warnings never abort a run.
type Report struct {
	// DroppedFragments are spans removed because they were shorter than
	// MinFragmentMS after merging.
	DroppedFragments []Span `json:"dropped_fragments,omitempty"`
	// OversizeSpans exceed TargetSongMaxMS. They are passed through intact;
	// splitting on weak evidence is worse than leaving a long track whole.
	OversizeSpans []Span `json:"oversize_spans,omitempty"`
	// SkippedSlices are export slices whose duration collapsed to zero after
	// clamping and were therefore not produced.
	SkippedSlices []Slice `json:"skipped_slices,omitempty"`
}

// Empty reports whether the run produced no diagnostics.
func (r Report) Empty() bool {
	return len(r.DroppedFragments) == 0 && len(r.OversizeSpans) == 0 && len(r.SkippedSlices) == 0
}

// Merge folds the diagnostics of another report into this one.
func (r *Report) Merge(other Report) {
	r.DroppedFragments = append(r.DroppedFragments, other.DroppedFragments...)
	r.OversizeSpans = append(r.OversizeSpans, other.OversizeSpans...)
	r.SkippedSlices = append(r.SkippedSlices, other.SkippedSlices...)
}
