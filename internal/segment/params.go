package segment

import "fmt"

// Default parameter values, tuned for continuous live-music recordings with
// between-song crowd noise. All durations are milliseconds.
const (
	DefaultWindowMS           = 50
	DefaultMinSilenceLenMS    = 2000
	DefaultKeepSilenceMS      = 900
	DefaultMergeAdjacentGapMS = 1000
	DefaultTargetSongMinMS    = 120000
	DefaultTargetSongMaxMS    = 600000
	DefaultMinFragmentMS      = 45000
	DefaultBottomPercentile   = 0.25
	DefaultHeadroomDB         = 3.5
	DefaultHeadMS             = 1000
	DefaultTailMS             = 1500
	DefaultFadeMS             = 30
)

// Params is the immutable configuration bundle consumed by the span
// detector. The engine never hardcodes these values; callers supply them,
// typically starting from DefaultParams.
type Params struct {
	// MinSilenceLenMS is the shortest silent run that counts as a song
	// separator. Shorter silences are absorbed into the surrounding song.
	MinSilenceLenMS int64
	// KeepSilenceMS is how far span boundaries extend outward into the
	// adjacent silence so cuts are not abrupt.
	KeepSilenceMS int64
	// MergeAdjacentGapMS merges candidate spans whose gap is at most this
	// wide, covering cross-fades and brief announcer interjections.
	MergeAdjacentGapMS int64
	// TargetSongMinMS and TargetSongMaxMS are advisory bounds on plausible
	// song lengths. Oversize spans are flagged, never split; undersize spans
	// pass through unflagged.
	TargetSongMinMS int64
	TargetSongMaxMS int64
	// MinFragmentMS drops spans too short to plausibly be songs. Dropped
	// spans are reported, not silently discarded.
	MinFragmentMS int64
	// BottomPercentile selects the window level treated as the ambient noise
	// floor during threshold estimation.
	BottomPercentile float64
	// HeadroomDB is added above the noise floor so near-silent passages
	// inside a song are not misread as boundaries.
	HeadroomDB float64
}

// DefaultParams returns the documented default parameter bundle.
func DefaultParams() Params {
	return Params{
		MinSilenceLenMS:    DefaultMinSilenceLenMS,
		KeepSilenceMS:      DefaultKeepSilenceMS,
		MergeAdjacentGapMS: DefaultMergeAdjacentGapMS,
		TargetSongMinMS:    DefaultTargetSongMinMS,
		TargetSongMaxMS:    DefaultTargetSongMaxMS,
		MinFragmentMS:      DefaultMinFragmentMS,
		BottomPercentile:   DefaultBottomPercentile,
		HeadroomDB:         DefaultHeadroomDB,
	}
}

// Validate rejects unusable parameter combinations before any analysis runs.
func (p Params) Validate() error {
	if p.MinSilenceLenMS <= 0 {
		return fmt.Errorf("%w: min_silence_len_ms must be positive, got %d", ErrInvalidParameter, p.MinSilenceLenMS)
	}
	if p.KeepSilenceMS < 0 {
		return fmt.Errorf("%w: keep_silence_ms must not be negative, got %d", ErrInvalidParameter, p.KeepSilenceMS)
	}
	if p.MergeAdjacentGapMS < 0 {
		return fmt.Errorf("%w: merge_adjacent_gap_ms must not be negative, got %d", ErrInvalidParameter, p.MergeAdjacentGapMS)
	}
	if p.TargetSongMinMS <= 0 || p.TargetSongMaxMS <= 0 {
		return fmt.Errorf("%w: target song bounds must be positive, got min=%d max=%d", ErrInvalidParameter, p.TargetSongMinMS, p.TargetSongMaxMS)
	}
	if p.TargetSongMinMS > p.TargetSongMaxMS {
		return fmt.Errorf("%w: target_song_min_ms %d exceeds target_song_max_ms %d", ErrInvalidParameter, p.TargetSongMinMS, p.TargetSongMaxMS)
	}
	if p.MinFragmentMS < 0 {
		return fmt.Errorf("%w: min_fragment_ms must not be negative, got %d", ErrInvalidParameter, p.MinFragmentMS)
	}
	if p.BottomPercentile < 0 || p.BottomPercentile > 1 {
		return fmt.Errorf("%w: bottom_percentile must be within [0, 1], got %g", ErrInvalidParameter, p.BottomPercentile)
	}
	if p.HeadroomDB < 0 {
		return fmt.Errorf("%w: headroom_db must not be negative, got %g", ErrInvalidParameter, p.HeadroomDB)
	}
	return nil
}
