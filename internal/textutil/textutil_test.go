package textutil_test

import (
	"testing"

	"encore/internal/textutil"
)

func TestSanitizeFileName(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"Live at the Fillmore: 1997", "Live at the Fillmore- 1997"},
		{"a/b\\c", "a-b-c"},
		{"what?", "what"},
		{"  padded  ", "padded"},
		{"", ""},
	}
	for _, tc := range cases {
		if got := textutil.SanitizeFileName(tc.in); got != tc.want {
			t.Fatalf("SanitizeFileName(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestSanitizeToken(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"Live Show 1997", "live_show_1997"},
		{"already-safe_token", "already-safe_token"},
		{"???", "unknown"},
		{"", "unknown"},
	}
	for _, tc := range cases {
		if got := textutil.SanitizeToken(tc.in); got != tc.want {
			t.Fatalf("SanitizeToken(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestFormatClockMS(t *testing.T) {
	cases := []struct {
		ms   int64
		want string
	}{
		{0, "0:00"},
		{61000, "1:01"},
		{599999, "9:59"},
		{3600000, "1:00:00"},
		{3723000, "1:02:03"},
		{-500, "0:00"},
	}
	for _, tc := range cases {
		if got := textutil.FormatClockMS(tc.ms); got != tc.want {
			t.Fatalf("FormatClockMS(%d) = %q, want %q", tc.ms, got, tc.want)
		}
	}
}

func TestFormatRangeMS(t *testing.T) {
	if got := textutil.FormatRangeMS(0, 3723000); got != "0:00-1:02:03" {
		t.Fatalf("unexpected range: %q", got)
	}
}
