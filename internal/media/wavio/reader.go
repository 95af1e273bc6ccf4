package wavio

import (
	"fmt"
	"os"

	"github.com/go-audio/wav"

	"encore/internal/segment"
)

// Recording is a decoded WAV file plus the source attributes the writer
// needs to produce matching track files.
type Recording struct {
	Stream   *segment.SampleStream
	BitDepth int
}

// ReadFile decodes a PCM WAV file into a normalized sample stream. Samples
// are scaled to ±1.0 full scale regardless of source bit depth.
func ReadFile(path string) (*Recording, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open recording: %w", err)
	}
	defer f.Close()

	decoder := wav.NewDecoder(f)
	if !decoder.IsValidFile() {
		return nil, fmt.Errorf("decode recording %s: not a valid WAV file", path)
	}

	buf, err := decoder.FullPCMBuffer()
	if err != nil {
		return nil, fmt.Errorf("decode recording %s: %w", path, err)
	}
	if buf == nil || len(buf.Data) == 0 {
		return nil, fmt.Errorf("decode recording %s: no audio frames", path)
	}

	bitDepth := buf.SourceBitDepth
	if bitDepth <= 0 {
		bitDepth = int(decoder.BitDepth)
	}
	if bitDepth <= 0 {
		return nil, fmt.Errorf("decode recording %s: unknown bit depth", path)
	}

	scale := float64(int64(1) << (bitDepth - 1))
	data := make([]float64, len(buf.Data))
	for i, v := range buf.Data {
		data[i] = float64(v) / scale
	}

	return &Recording{
		Stream: &segment.SampleStream{
			Data:       data,
			SampleRate: buf.Format.SampleRate,
			Channels:   buf.Format.NumChannels,
		},
		BitDepth: bitDepth,
	}, nil
}
