package segment

import (
	"context"
	"fmt"
	"runtime"
	"sync"
)

// ExportOptions configures slice planning and extraction.
type ExportOptions struct {
	// HeadMS and TailMS pad each span outward before extraction so attacks
	// and decays survive the cut.
	HeadMS int64
	TailMS int64
	// FadeMS is the linear fade applied at both edges of each slice to avoid
	// clicks. Slices shorter than twice the fade are extracted without fades.
	FadeMS int64
	// StartIndex is the 1-based sequence number assigned to the first slice.
	// Zero means 1.
	StartIndex int
	// Workers bounds the extraction pool. Zero or negative selects
	// runtime.NumCPU.
	Workers int
}

// DefaultExportOptions returns the documented export defaults.
func DefaultExportOptions() ExportOptions {
	return ExportOptions{
		HeadMS:     DefaultHeadMS,
		TailMS:     DefaultTailMS,
		FadeMS:     DefaultFadeMS,
		StartIndex: 1,
	}
}

// Validate rejects unusable export options.
func (o ExportOptions) Validate() error {
	if o.HeadMS < 0 || o.TailMS < 0 {
		return fmt.Errorf("%w: export padding must not be negative, got head=%d tail=%d", ErrInvalidParameter, o.HeadMS, o.TailMS)
	}
	if o.FadeMS < 0 {
		return fmt.Errorf("%w: fade_ms must not be negative, got %d", ErrInvalidParameter, o.FadeMS)
	}
	if o.StartIndex < 0 {
		return fmt.Errorf("%w: start_index must not be negative, got %d", ErrInvalidParameter, o.StartIndex)
	}
	return nil
}

// Slice is a materializable region of the stream: one span after padding,
// overlap clamping, and fade annotation, tagged with its 1-based sequence
// index.
type Slice struct {
	Index     int   `json:"index"`
	Span      Span  `json:"span"`
	StartMS   int64 `json:"start_ms"`
	EndMS     int64 `json:"end_ms"`
	FadeInMS  int64 `json:"fade_in_ms,omitempty"`
	FadeOutMS int64 `json:"fade_out_ms,omitempty"`
}

// DurationMS returns the padded slice length.
func (s Slice) DurationMS() int64 {
	return s.EndMS - s.StartMS
}

// PlanSlices computes the export slice for each span, in ascending start
// order. Padding extends HeadMS before and TailMS after the span, clamped to
// the stream bounds. When the padding of two consecutive slices would
// overlap, both give up padding back to the midpoint of the gap between
// their spans; the span content itself is never shrunk. Slices whose
// duration collapses to zero are skipped and reported.
func PlanSlices(durationMS int64, spans []Span, opts ExportOptions) ([]Slice, Report, error) {
	if err := opts.Validate(); err != nil {
		return nil, Report{}, err
	}
	var report Report
	if len(spans) == 0 {
		return nil, report, nil
	}

	index := opts.StartIndex
	if index == 0 {
		index = 1
	}

	slices := make([]Slice, 0, len(spans))
	for _, span := range spans {
		start := span.StartMS - opts.HeadMS
		if start < 0 {
			start = 0
		}
		end := span.EndMS + opts.TailMS
		if end > durationMS {
			end = durationMS
		}
		slices = append(slices, Slice{Span: span, StartMS: start, EndMS: end})
	}

	// Padding never overlaps a neighbor: shrink both touching edges back to
	// the midpoint of the inter-span gap, leaving outer edges intact.
	for i := 1; i < len(slices); i++ {
		prev, cur := &slices[i-1], &slices[i]
		if cur.StartMS >= prev.EndMS {
			continue
		}
		gapStart := prev.Span.EndMS
		mid := gapStart + (cur.Span.StartMS-gapStart)/2
		prev.EndMS = mid
		cur.StartMS = mid
	}

	kept := slices[:0]
	for _, slice := range slices {
		if slice.DurationMS() <= 0 {
			report.SkippedSlices = append(report.SkippedSlices, slice)
			continue
		}
		slice.Index = index
		index++
		if slice.DurationMS() > 2*opts.FadeMS {
			slice.FadeInMS = opts.FadeMS
			slice.FadeOutMS = opts.FadeMS
		}
		kept = append(kept, slice)
	}
	return kept, report, nil
}

// ExtractSlice copies the slice region out of the stream into a fresh
// interleaved buffer and applies its linear edge fades. The source stream is
// never modified.
func ExtractSlice(stream *SampleStream, slice Slice) []float64 {
	startFrame := stream.frameAt(slice.StartMS)
	endFrame := stream.frameAt(slice.EndMS)
	if endFrame <= startFrame {
		return nil
	}

	channels := stream.Channels
	out := make([]float64, (endFrame-startFrame)*channels)
	copy(out, stream.Data[startFrame*channels:endFrame*channels])

	frames := endFrame - startFrame
	if fadeFrames := int(slice.FadeInMS * int64(stream.SampleRate) / 1000); fadeFrames > 0 {
		if fadeFrames > frames {
			fadeFrames = frames
		}
		for f := 0; f < fadeFrames; f++ {
			gain := float64(f) / float64(fadeFrames)
			for c := 0; c < channels; c++ {
				out[f*channels+c] *= gain
			}
		}
	}
	if fadeFrames := int(slice.FadeOutMS * int64(stream.SampleRate) / 1000); fadeFrames > 0 {
		if fadeFrames > frames {
			fadeFrames = frames
		}
		for f := 0; f < fadeFrames; f++ {
			gain := float64(f) / float64(fadeFrames)
			for c := 0; c < channels; c++ {
				out[(frames-1-f)*channels+c] *= gain
			}
		}
	}
	return out
}

// ExtractAll materializes every slice on a bounded worker pool. Slices read
// disjoint regions of the immutable stream and write distinct result
// entries, so no synchronization beyond the pool itself is needed. Results
// are ordered to match the input slices.
func ExtractAll(ctx context.Context, stream *SampleStream, slices []Slice, workers int) ([][]float64, error) {
	if !stream.valid() {
		return nil, fmt.Errorf("%w: empty sample stream", ErrInsufficientData)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if workers > len(slices) {
		workers = len(slices)
	}
	if workers < 1 {
		workers = 1
	}

	results := make([][]float64, len(slices))
	jobs := make(chan int)

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				results[i] = ExtractSlice(stream, slices[i])
			}
		}()
	}

	var err error
feed:
	for i := range slices {
		select {
		case jobs <- i:
		case <-ctx.Done():
			err = ctx.Err()
			break feed
		}
	}
	close(jobs)
	wg.Wait()

	if err != nil {
		return nil, err
	}
	return results, nil
}
