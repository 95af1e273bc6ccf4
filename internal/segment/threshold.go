package segment

import (
	"fmt"
	"sort"
)

// EstimateThreshold derives an adaptive silence threshold from the level
// distribution of a profile. The window levels are sorted ascending and the
// value at bottomPercentile is taken as the ambient noise floor estimate;
// headroomDB is added on top so the threshold sits deliberately above true
// silence. The bias is intentional: near-silent passages inside a song must
// not read as boundaries, so the estimator prefers under-splitting over
// false splits.
//
// Percentile selection uses the nearest-rank rule: index floor(N*p), clamped
// to the last element. This keeps results reproducible across runs; no
// interpolation is performed.
func EstimateThreshold(profile LoudnessProfile, bottomPercentile, headroomDB float64) (float64, error) {
	if len(profile.Windows) == 0 {
		return 0, fmt.Errorf("%w: loudness profile has no windows", ErrInsufficientData)
	}
	if bottomPercentile < 0 || bottomPercentile > 1 {
		return 0, fmt.Errorf("%w: bottom_percentile must be within [0, 1], got %g", ErrInvalidParameter, bottomPercentile)
	}
	if headroomDB < 0 {
		return 0, fmt.Errorf("%w: headroom_db must not be negative, got %g", ErrInvalidParameter, headroomDB)
	}

	levels := make([]float64, len(profile.Windows))
	for i, w := range profile.Windows {
		levels[i] = w.LevelDB
	}
	sort.Float64s(levels)

	rank := int(float64(len(levels)) * bottomPercentile)
	if rank >= len(levels) {
		rank = len(levels) - 1
	}
	return levels[rank] + headroomDB, nil
}
