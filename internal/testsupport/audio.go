package testsupport

import (
	"os"
	"path/filepath"
	"testing"

	"encore/internal/media/wavio"
)

// AppendTone appends durMS milliseconds of a constant-amplitude signal to
// data. Amplitude 0 produces digital silence.
func AppendTone(data []float64, amplitude float64, durMS int64, sampleRate int) []float64 {
	frames := int(durMS * int64(sampleRate) / 1000)
	for i := 0; i < frames; i++ {
		sample := amplitude
		if i%2 == 1 {
			sample = -amplitude
		}
		data = append(data, sample)
	}
	return data
}

// WriteRecording writes mono sample data as a 16-bit WAV file for tests.
func WriteRecording(t testing.TB, path string, data []float64, sampleRate int) {
	t.Helper()

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}
	if err := wavio.WriteFile(path, data, sampleRate, 1, 16); err != nil {
		t.Fatalf("write recording %s: %v", path, err)
	}
}
