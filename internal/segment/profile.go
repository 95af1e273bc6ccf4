package segment

import (
	"fmt"
	"math"
)

// silenceFloorDB clamps window levels so digital silence never produces -Inf
// and the percentile math stays finite.
const silenceFloorDB = -120.0

// Window is one fixed-size analysis window with its measured loudness.
type Window struct {
	StartMS int64
	LevelDB float64
}

// LoudnessProfile is the windowed loudness reduction of a sample stream.
// Windows are contiguous, non-overlapping, and cover the full stream; the
// final window may be shorter than WindowMS. Immutable after creation.
type LoudnessProfile struct {
	WindowMS int
	EndMS    int64
	Windows  []Window
}

// windowEnd returns the end timestamp of window i, which is the start of the
// next window or the profile end for the final window.
func (p LoudnessProfile) windowEnd(i int) int64 {
	if i+1 < len(p.Windows) {
		return p.Windows[i+1].StartMS
	}
	return p.EndMS
}

// Profile reduces a sample stream to a loudness profile with the given
// analysis window size. Multi-channel input is collapsed by averaging the
// per-channel RMS before converting to dBFS. Deterministic: identical input
// always produces an identical profile.
func Profile(stream *SampleStream, windowMS int) (LoudnessProfile, error) {
	if windowMS <= 0 {
		return LoudnessProfile{}, fmt.Errorf("%w: window_ms must be positive, got %d", ErrInvalidParameter, windowMS)
	}
	if !stream.valid() {
		return LoudnessProfile{}, fmt.Errorf("%w: empty sample stream", ErrInsufficientData)
	}
	if len(stream.Data)%stream.Channels != 0 {
		return LoudnessProfile{}, fmt.Errorf("%w: sample count %d not divisible by %d channels", ErrInsufficientData, len(stream.Data), stream.Channels)
	}

	framesPerWindow := stream.SampleRate * windowMS / 1000
	if framesPerWindow < 1 {
		framesPerWindow = 1
	}

	totalFrames := stream.Frames()
	windows := make([]Window, 0, totalFrames/framesPerWindow+1)
	for start := 0; start < totalFrames; start += framesPerWindow {
		end := start + framesPerWindow
		if end > totalFrames {
			end = totalFrames
		}
		windows = append(windows, Window{
			StartMS: int64(start) * 1000 / int64(stream.SampleRate),
			LevelDB: windowLevelDB(stream, start, end),
		})
	}

	return LoudnessProfile{
		WindowMS: windowMS,
		EndMS:    stream.DurationMS(),
		Windows:  windows,
	}, nil
}

// windowLevelDB measures one window: per-channel RMS averaged across
// channels, then converted to dBFS with the silence floor clamp.
func windowLevelDB(stream *SampleStream, startFrame, endFrame int) float64 {
	frames := endFrame - startFrame
	if frames <= 0 {
		return silenceFloorDB
	}

	channels := stream.Channels
	sums := make([]float64, channels)
	base := startFrame * channels
	for f := 0; f < frames; f++ {
		offset := base + f*channels
		for c := 0; c < channels; c++ {
			v := stream.Data[offset+c]
			sums[c] += v * v
		}
	}

	var meanRMS float64
	for _, sum := range sums {
		meanRMS += math.Sqrt(sum / float64(frames))
	}
	meanRMS /= float64(channels)

	if meanRMS <= 0 {
		return silenceFloorDB
	}
	db := 20 * math.Log10(meanRMS)
	if db < silenceFloorDB {
		return silenceFloorDB
	}
	return db
}
