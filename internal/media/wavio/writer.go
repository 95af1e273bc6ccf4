package wavio

import (
	"fmt"
	"math"
	"os"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

// WriteFile encodes an interleaved float buffer as a PCM WAV file with the
// given sample rate, channel count, and bit depth. Values outside ±1.0 are
// clipped rather than wrapped.
func WriteFile(path string, data []float64, sampleRate, channels, bitDepth int) error {
	if len(data) == 0 {
		return fmt.Errorf("write track %s: empty slice buffer", path)
	}
	if sampleRate <= 0 || channels <= 0 {
		return fmt.Errorf("write track %s: invalid format %dHz/%dch", path, sampleRate, channels)
	}
	switch bitDepth {
	case 16, 24, 32:
	default:
		return fmt.Errorf("write track %s: unsupported bit depth %d", path, bitDepth)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create track file: %w", err)
	}

	limit := float64(int64(1)<<(bitDepth-1) - 1)
	buf := &audio.IntBuffer{
		Format:         &audio.Format{NumChannels: channels, SampleRate: sampleRate},
		SourceBitDepth: bitDepth,
		Data:           make([]int, len(data)),
	}
	for i, v := range data {
		if v > 1 {
			v = 1
		} else if v < -1 {
			v = -1
		}
		buf.Data[i] = int(math.Round(v * limit))
	}

	encoder := wav.NewEncoder(f, sampleRate, bitDepth, channels, 1)
	if err := encoder.Write(buf); err != nil {
		f.Close()
		return fmt.Errorf("encode track %s: %w", path, err)
	}
	if err := encoder.Close(); err != nil {
		f.Close()
		return fmt.Errorf("finalize track %s: %w", path, err)
	}
	return f.Close()
}
