package segment

// SampleStream is a decoded PCM recording held in memory. Samples are
// interleaved across channels and normalized to full scale, so a value of
// ±1.0 corresponds to 0 dBFS. The engine borrows the stream read-only;
// export materializes new buffers and never mutates Data.
type SampleStream struct {
	Data       []float64
	SampleRate int
	Channels   int
}

// Frames returns the number of per-channel sample frames in the stream.
func (s *SampleStream) Frames() int {
	if s == nil || s.Channels <= 0 {
		return 0
	}
	return len(s.Data) / s.Channels
}

// DurationMS returns the stream duration in milliseconds, derived from the
// frame count and sample rate.
func (s *SampleStream) DurationMS() int64 {
	if s == nil || s.SampleRate <= 0 {
		return 0
	}
	return int64(s.Frames()) * 1000 / int64(s.SampleRate)
}

// frameAt converts a stream timestamp to a frame offset, clamped to the
// stream bounds.
func (s *SampleStream) frameAt(ms int64) int {
	if ms <= 0 {
		return 0
	}
	frame := int(ms * int64(s.SampleRate) / 1000)
	if frames := s.Frames(); frame > frames {
		return frames
	}
	return frame
}

func (s *SampleStream) valid() bool {
	return s != nil && len(s.Data) > 0 && s.SampleRate > 0 && s.Channels > 0
}
