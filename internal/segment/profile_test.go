package segment_test

import (
	"errors"
	"math"
	"reflect"
	"testing"

	"encore/internal/segment"
)

func constantStream(frames, channels, sampleRate int, value float64) *segment.SampleStream {
	data := make([]float64, frames*channels)
	for i := range data {
		data[i] = value
	}
	return &segment.SampleStream{Data: data, SampleRate: sampleRate, Channels: channels}
}

func TestProfileConstantLevel(t *testing.T) {
	// Constant amplitude 0.1 has RMS 0.1, which is exactly -20 dBFS.
	stream := constantStream(1000, 1, 1000, 0.1)

	profile, err := segment.Profile(stream, 10)
	if err != nil {
		t.Fatalf("Profile: %v", err)
	}
	if len(profile.Windows) != 100 {
		t.Fatalf("expected 100 windows, got %d", len(profile.Windows))
	}
	if profile.EndMS != 1000 {
		t.Fatalf("expected profile end 1000ms, got %d", profile.EndMS)
	}
	for i, w := range profile.Windows {
		if want := int64(i * 10); w.StartMS != want {
			t.Fatalf("window %d: start %d, want %d", i, w.StartMS, want)
		}
		if math.Abs(w.LevelDB-(-20)) > 1e-9 {
			t.Fatalf("window %d: level %f, want -20", i, w.LevelDB)
		}
	}
}

func TestProfileCoversPartialFinalWindow(t *testing.T) {
	stream := constantStream(1005, 1, 1000, 0.5)

	profile, err := segment.Profile(stream, 100)
	if err != nil {
		t.Fatalf("Profile: %v", err)
	}
	if len(profile.Windows) != 11 {
		t.Fatalf("expected 11 windows, got %d", len(profile.Windows))
	}
	last := profile.Windows[len(profile.Windows)-1]
	if last.StartMS != 1000 {
		t.Fatalf("last window start %d, want 1000", last.StartMS)
	}
	if profile.EndMS != 1005 {
		t.Fatalf("profile end %d, want 1005", profile.EndMS)
	}
	// The short tail still carries a valid measurement.
	if math.Abs(last.LevelDB-20*math.Log10(0.5)) > 1e-9 {
		t.Fatalf("last window level %f", last.LevelDB)
	}
}

func TestProfileAveragesChannelRMS(t *testing.T) {
	frames := 500
	data := make([]float64, frames*2)
	for f := 0; f < frames; f++ {
		data[f*2] = 0.1
		data[f*2+1] = 0.3
	}
	stream := &segment.SampleStream{Data: data, SampleRate: 1000, Channels: 2}

	profile, err := segment.Profile(stream, 50)
	if err != nil {
		t.Fatalf("Profile: %v", err)
	}
	want := 20 * math.Log10(0.2)
	for i, w := range profile.Windows {
		if math.Abs(w.LevelDB-want) > 1e-9 {
			t.Fatalf("window %d: level %f, want %f", i, w.LevelDB, want)
		}
	}
}

func TestProfileClampsDigitalSilence(t *testing.T) {
	stream := constantStream(200, 1, 1000, 0)

	profile, err := segment.Profile(stream, 50)
	if err != nil {
		t.Fatalf("Profile: %v", err)
	}
	for i, w := range profile.Windows {
		if math.IsInf(w.LevelDB, -1) {
			t.Fatalf("window %d: level is -Inf", i)
		}
		if w.LevelDB != -120 {
			t.Fatalf("window %d: level %f, want -120", i, w.LevelDB)
		}
	}
}

func TestProfileDeterministic(t *testing.T) {
	stream := constantStream(4410, 2, 44100, 0.25)

	first, err := segment.Profile(stream, 25)
	if err != nil {
		t.Fatalf("Profile: %v", err)
	}
	second, err := segment.Profile(stream, 25)
	if err != nil {
		t.Fatalf("Profile: %v", err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Fatal("identical input produced different profiles")
	}
}

func TestProfileRejectsBadInput(t *testing.T) {
	tests := []struct {
		name     string
		stream   *segment.SampleStream
		windowMS int
		want     error
	}{
		{"nil stream", nil, 50, segment.ErrInsufficientData},
		{"empty stream", &segment.SampleStream{SampleRate: 1000, Channels: 1}, 50, segment.ErrInsufficientData},
		{"zero window", constantStream(100, 1, 1000, 0.1), 0, segment.ErrInvalidParameter},
		{"negative window", constantStream(100, 1, 1000, 0.1), -10, segment.ErrInvalidParameter},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := segment.Profile(tt.stream, tt.windowMS)
			if !errors.Is(err, tt.want) {
				t.Fatalf("Profile error = %v, want %v", err, tt.want)
			}
		})
	}
}
