package pipeline

import (
	"encore/internal/media/wavio"
	"encore/internal/segment"
)

// session carries in-memory state between the analyze and export stages of a
// single run. The persisted run record holds the durable copy (spans and
// report as JSON); the session avoids re-reading the recording between
// stages.
type session struct {
	recording *wavio.Recording
	spans     []segment.Span
	slices    []segment.Slice
	report    segment.Report
}

func (s *session) stream() *segment.SampleStream {
	if s == nil || s.recording == nil {
		return nil
	}
	return s.recording.Stream
}
