package segment

import "fmt"

// classifiedRun is a maximal stretch of consecutive windows sharing one
// silent/sonic classification.
type classifiedRun struct {
	silent  bool
	startMS int64
	endMS   int64
}

func (r classifiedRun) durationMS() int64 {
	return r.endMS - r.startMS
}

// DetectSpans is the algorithmic core of the engine. It walks the profile
// once and produces the final, conservative span list in a fixed order:
//
//  1. run-length classification of windows against the threshold,
//  2. absorption of silent runs shorter than MinSilenceLenMS,
//  3. span construction with keep-silence extension, clamped at separator
//     midpoints and stream bounds,
//  4. merging of spans separated by at most MergeAdjacentGapMS,
//  5. dropping of fragments shorter than MinFragmentMS (reported),
//  6. flagging of spans longer than TargetSongMaxMS (reported, never split).
//
// The order is load-bearing: merging happens after padding, so the padded
// edges decide whether two runs are close enough to fuse. Output spans are
// sorted ascending and mutually non-overlapping.
func DetectSpans(profile LoudnessProfile, thresholdDB float64, params Params) ([]Span, Report, error) {
	if err := params.Validate(); err != nil {
		return nil, Report{}, err
	}
	if len(profile.Windows) == 0 {
		return nil, Report{}, fmt.Errorf("%w: loudness profile has no windows", ErrInsufficientData)
	}
	var report Report

	runs := classifyRuns(profile, thresholdDB)
	runs = absorbShortSilences(runs, params.MinSilenceLenMS)
	spans := constructSpans(runs, profile.EndMS, params.KeepSilenceMS)
	spans = mergeAdjacent(spans, params.MergeAdjacentGapMS)
	spans = filterFragments(spans, params.MinFragmentMS, &report)
	flagOversize(spans, params.TargetSongMaxMS, &report)
	return spans, report, nil
}

// classifyRuns collapses the window sequence into alternating silent/sonic
// runs. Every window is consumed exactly once; a window is silent when its
// level is strictly below the threshold.
func classifyRuns(profile LoudnessProfile, thresholdDB float64) []classifiedRun {
	var runs []classifiedRun
	for i, w := range profile.Windows {
		silent := w.LevelDB < thresholdDB
		end := profile.windowEnd(i)
		if n := len(runs); n > 0 && runs[n-1].silent == silent {
			runs[n-1].endMS = end
			continue
		}
		runs = append(runs, classifiedRun{silent: silent, startMS: w.StartMS, endMS: end})
	}
	return runs
}

// absorbShortSilences reclassifies silent runs shorter than minSilenceLenMS
// as sonic (a quiet bridge belongs to its song, not between songs) and
// re-coalesces the result.
func absorbShortSilences(runs []classifiedRun, minSilenceLenMS int64) []classifiedRun {
	out := make([]classifiedRun, 0, len(runs))
	for _, r := range runs {
		if r.silent && r.durationMS() < minSilenceLenMS {
			r.silent = false
		}
		if n := len(out); n > 0 && out[n-1].silent == r.silent {
			out[n-1].endMS = r.endMS
			continue
		}
		out = append(out, r)
	}
	return out
}

// constructSpans turns each surviving sonic run into a candidate span whose
// edges are pushed keepSilenceMS into the adjacent separator silence. The
// extension never crosses a separator's midpoint, so neighboring spans
// cannot steal silence from each other, and never crosses the stream bounds.
func constructSpans(runs []classifiedRun, streamEndMS, keepSilenceMS int64) []Span {
	var spans []Span
	for i, r := range runs {
		if r.silent {
			continue
		}

		start := r.startMS - keepSilenceMS
		if start < 0 {
			start = 0
		}
		if i > 0 {
			prev := runs[i-1]
			if mid := prev.startMS + prev.durationMS()/2; start < mid {
				start = mid
			}
		}

		end := r.endMS + keepSilenceMS
		if end > streamEndMS {
			end = streamEndMS
		}
		if i+1 < len(runs) {
			next := runs[i+1]
			if mid := next.startMS + next.durationMS()/2; end > mid {
				end = mid
			}
		}

		spans = append(spans, Span{StartMS: start, EndMS: end})
	}
	return spans
}

// mergeAdjacent fuses consecutive spans whose gap is at most gapMS. Two
// spans [a,b] and [c,d] with c-b <= gapMS always become [a,d]; a wider gap
// never merges.
func mergeAdjacent(spans []Span, gapMS int64) []Span {
	if len(spans) < 2 {
		return spans
	}
	merged := spans[:1]
	for _, span := range spans[1:] {
		last := &merged[len(merged)-1]
		if span.StartMS-last.EndMS <= gapMS {
			last.EndMS = span.EndMS
			continue
		}
		merged = append(merged, span)
	}
	return merged
}

// filterFragments drops spans shorter than minFragmentMS and records them in
// the report so the caller can log what was discarded.
func filterFragments(spans []Span, minFragmentMS int64, report *Report) []Span {
	kept := spans[:0]
	for _, span := range spans {
		if span.DurationMS() < minFragmentMS {
			report.DroppedFragments = append(report.DroppedFragments, span)
			continue
		}
		kept = append(kept, span)
	}
	return kept
}

// flagOversize records spans longer than targetSongMaxMS. They stay in the
// output: with no reliable interior boundary, splitting would be guesswork.
func flagOversize(spans []Span, targetSongMaxMS int64, report *Report) {
	for _, span := range spans {
		if span.DurationMS() > targetSongMaxMS {
			report.OversizeSpans = append(report.OversizeSpans, span)
		}
	}
}
