package segment_test

import (
	"errors"
	"reflect"
	"testing"

	"encore/internal/segment"
)

const (
	sonicLevelDB  = -20
	silentLevelDB = -60
	testThreshold = -40
)

// buildProfile synthesizes a 50ms-window profile that is sonic everywhere
// except inside the given silent ranges. Range bounds must align to the
// window grid.
func buildProfile(t *testing.T, endMS int64, silent ...segment.Span) segment.LoudnessProfile {
	t.Helper()
	const windowMS = 50
	windows := make([]segment.Window, 0, endMS/windowMS)
	for start := int64(0); start < endMS; start += windowMS {
		level := float64(sonicLevelDB)
		for _, r := range silent {
			if start >= r.StartMS && start < r.EndMS {
				level = silentLevelDB
				break
			}
		}
		windows = append(windows, segment.Window{StartMS: start, LevelDB: level})
	}
	return segment.LoudnessProfile{WindowMS: windowMS, EndMS: endMS, Windows: windows}
}

func detect(t *testing.T, profile segment.LoudnessProfile, params segment.Params) ([]segment.Span, segment.Report) {
	t.Helper()
	spans, report, err := segment.DetectSpans(profile, testThreshold, params)
	if err != nil {
		t.Fatalf("DetectSpans: %v", err)
	}
	return spans, report
}

func TestDetectSpansBracketsSilentGaps(t *testing.T) {
	// One hour of uniform -20 dB with three 3s gaps: four songs, each keeping
	// 900ms of silence at its cut edges.
	profile := buildProfile(t, 3600000,
		segment.Span{StartMS: 600000, EndMS: 603000},
		segment.Span{StartMS: 1800000, EndMS: 1803000},
		segment.Span{StartMS: 3000000, EndMS: 3003000},
	)

	spans, report := detect(t, profile, segment.DefaultParams())

	want := []segment.Span{
		{StartMS: 0, EndMS: 600900},
		{StartMS: 602100, EndMS: 1800900},
		{StartMS: 1802100, EndMS: 3000900},
		{StartMS: 3002100, EndMS: 3600000},
	}
	if !reflect.DeepEqual(spans, want) {
		t.Fatalf("spans = %v, want %v", spans, want)
	}

	// The first three spans run just over target_song_max_ms: they are
	// flagged, never split.
	if !reflect.DeepEqual(report.OversizeSpans, want[:3]) {
		t.Fatalf("oversize spans = %v, want %v", report.OversizeSpans, want[:3])
	}
	if len(report.DroppedFragments) != 0 || len(report.SkippedSlices) != 0 {
		t.Fatalf("unexpected diagnostics: %+v", report)
	}
}

func TestDetectSpansAbsorbsShortSilence(t *testing.T) {
	// An 800ms dropout is a quiet bridge, not a boundary.
	profile := buildProfile(t, 200000, segment.Span{StartMS: 100000, EndMS: 100800})

	spans, _ := detect(t, profile, segment.DefaultParams())

	want := []segment.Span{{StartMS: 0, EndMS: 200000}}
	if !reflect.DeepEqual(spans, want) {
		t.Fatalf("spans = %v, want %v", spans, want)
	}
}

func TestDetectSpansMergesAcrossNarrowGap(t *testing.T) {
	// The 2.5s silence qualifies as a separator, but after keep-silence
	// extension only 700ms remains between the candidates, within the merge
	// gap, so they fuse back into one span.
	profile := buildProfile(t, 200000, segment.Span{StartMS: 100000, EndMS: 102500})

	spans, _ := detect(t, profile, segment.DefaultParams())

	want := []segment.Span{{StartMS: 0, EndMS: 200000}}
	if !reflect.DeepEqual(spans, want) {
		t.Fatalf("spans = %v, want %v", spans, want)
	}
}

func TestDetectSpansMergeLawAtBoundary(t *testing.T) {
	params := segment.DefaultParams()

	// 2.8s separator leaves exactly the merge gap after extension: merge.
	profile := buildProfile(t, 300000, segment.Span{StartMS: 100000, EndMS: 102800})
	spans, _ := detect(t, profile, params)
	if len(spans) != 1 {
		t.Fatalf("gap equal to merge_adjacent_gap_ms: got %d spans, want 1", len(spans))
	}

	// One window wider and the spans stay apart.
	profile = buildProfile(t, 300000, segment.Span{StartMS: 100000, EndMS: 102850})
	spans, _ = detect(t, profile, params)
	if len(spans) != 2 {
		t.Fatalf("gap above merge_adjacent_gap_ms: got %d spans, want 2", len(spans))
	}
}

func TestDetectSpansDropsFragments(t *testing.T) {
	// A 20s burst followed by a long song: the burst is reported, not kept.
	profile := buildProfile(t, 200000, segment.Span{StartMS: 20000, EndMS: 80000})

	spans, report := detect(t, profile, segment.DefaultParams())

	wantSpans := []segment.Span{{StartMS: 79100, EndMS: 200000}}
	if !reflect.DeepEqual(spans, wantSpans) {
		t.Fatalf("spans = %v, want %v", spans, wantSpans)
	}
	wantDropped := []segment.Span{{StartMS: 0, EndMS: 20900}}
	if !reflect.DeepEqual(report.DroppedFragments, wantDropped) {
		t.Fatalf("dropped = %v, want %v", report.DroppedFragments, wantDropped)
	}
}

func TestDetectSpansFlagsOversizeWithoutSplitting(t *testing.T) {
	// 11 minutes of continuous music: flagged, passed through intact.
	profile := buildProfile(t, 660000)

	spans, report := detect(t, profile, segment.DefaultParams())

	want := []segment.Span{{StartMS: 0, EndMS: 660000}}
	if !reflect.DeepEqual(spans, want) {
		t.Fatalf("spans = %v, want %v", spans, want)
	}
	if !reflect.DeepEqual(report.OversizeSpans, want) {
		t.Fatalf("oversize = %v, want %v", report.OversizeSpans, want)
	}
}

func TestDetectSpansUndersizeTargetPassesUnflagged(t *testing.T) {
	// Above the fragment floor but under target_song_min_ms: advisory only.
	profile := buildProfile(t, 60000)

	spans, report := detect(t, profile, segment.DefaultParams())

	if len(spans) != 1 {
		t.Fatalf("got %d spans, want 1", len(spans))
	}
	if !report.Empty() {
		t.Fatalf("unexpected diagnostics: %+v", report)
	}
}

func TestDetectSpansKeepSilenceNeverCrossesMidpoint(t *testing.T) {
	// With keep_silence wider than half the separator, extension stops at
	// the silence midpoint. The candidates meet there without overlapping,
	// which the merge step then fuses into one clean span.
	params := segment.DefaultParams()
	params.KeepSilenceMS = 1500
	params.MergeAdjacentGapMS = 0

	profile := buildProfile(t, 300000, segment.Span{StartMS: 100000, EndMS: 102000})

	spans, _ := detect(t, profile, params)

	want := []segment.Span{{StartMS: 0, EndMS: 300000}}
	if !reflect.DeepEqual(spans, want) {
		t.Fatalf("spans = %v, want %v", spans, want)
	}
}

func TestDetectSpansSortedAndNonOverlapping(t *testing.T) {
	profile := buildProfile(t, 1200000,
		segment.Span{StartMS: 200000, EndMS: 204000},
		segment.Span{StartMS: 400000, EndMS: 410000},
		segment.Span{StartMS: 700000, EndMS: 702500},
		segment.Span{StartMS: 900000, EndMS: 905000},
	)

	spans, _ := detect(t, profile, segment.DefaultParams())

	for i, span := range spans {
		if span.StartMS >= span.EndMS {
			t.Fatalf("span %d inverted: %+v", i, span)
		}
		if i > 0 && span.StartMS < spans[i-1].EndMS {
			t.Fatalf("span %d overlaps predecessor: %v then %v", i, spans[i-1], span)
		}
	}
}

func TestDetectSpansIdempotent(t *testing.T) {
	profile := buildProfile(t, 1200000,
		segment.Span{StartMS: 300000, EndMS: 304000},
		segment.Span{StartMS: 800000, EndMS: 803000},
	)
	params := segment.DefaultParams()

	firstSpans, firstReport := detect(t, profile, params)
	secondSpans, secondReport := detect(t, profile, params)

	if !reflect.DeepEqual(firstSpans, secondSpans) {
		t.Fatal("span lists differ between identical runs")
	}
	if !reflect.DeepEqual(firstReport, secondReport) {
		t.Fatal("reports differ between identical runs")
	}
}

func TestDetectSpansAllSilentYieldsNoSpans(t *testing.T) {
	profile := buildProfile(t, 100000, segment.Span{StartMS: 0, EndMS: 100000})

	spans, report := detect(t, profile, segment.DefaultParams())
	if len(spans) != 0 {
		t.Fatalf("got %d spans from silence, want 0", len(spans))
	}
	if !report.Empty() {
		t.Fatalf("unexpected diagnostics: %+v", report)
	}
}

func TestDetectSpansEmptyProfile(t *testing.T) {
	_, _, err := segment.DetectSpans(segment.LoudnessProfile{}, testThreshold, segment.DefaultParams())
	if !errors.Is(err, segment.ErrInsufficientData) {
		t.Fatalf("error = %v, want ErrInsufficientData", err)
	}
}

func TestDetectSpansRejectsInvalidParams(t *testing.T) {
	profile := buildProfile(t, 100000)

	tests := []struct {
		name   string
		mutate func(*segment.Params)
	}{
		{"zero min silence", func(p *segment.Params) { p.MinSilenceLenMS = 0 }},
		{"negative keep silence", func(p *segment.Params) { p.KeepSilenceMS = -1 }},
		{"negative merge gap", func(p *segment.Params) { p.MergeAdjacentGapMS = -1 }},
		{"min target above max", func(p *segment.Params) { p.TargetSongMinMS = p.TargetSongMaxMS + 1 }},
		{"negative fragment floor", func(p *segment.Params) { p.MinFragmentMS = -1 }},
		{"percentile out of range", func(p *segment.Params) { p.BottomPercentile = 1.5 }},
		{"negative headroom", func(p *segment.Params) { p.HeadroomDB = -0.5 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			params := segment.DefaultParams()
			tt.mutate(&params)
			_, _, err := segment.DetectSpans(profile, testThreshold, params)
			if !errors.Is(err, segment.ErrInvalidParameter) {
				t.Fatalf("error = %v, want ErrInvalidParameter", err)
			}
		})
	}
}
