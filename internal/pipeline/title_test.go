package pipeline_test

import (
	"testing"

	"encore/internal/pipeline"
)

func TestDeriveTitle(t *testing.T) {
	cases := []struct {
		path string
		want string
	}{
		{"/recordings/live_at_the_fillmore-1997.wav", "Live At The Fillmore 1997"},
		{"/recordings/SHOW.2024.03.01.wav", "Show 2024 03 01"},
		{"plain.wav", "Plain"},
		{"", "Unknown Recording"},
		{"/recordings/____.wav", "Unknown Recording"},
	}
	for _, tc := range cases {
		if got := pipeline.DeriveTitle(tc.path); got != tc.want {
			t.Fatalf("DeriveTitle(%q) = %q, want %q", tc.path, got, tc.want)
		}
	}
}
