package segment

import "errors"

var (
	// ErrInsufficientData marks fatal failures caused by an empty or
	// degenerate stream or profile. The segmentation call for that
	// recording is aborted.
	ErrInsufficientData = errors.New("insufficient audio data")

	// ErrInvalidParameter marks fatal failures caused by unusable
	// caller-supplied parameters. Raised before any analysis runs.
	ErrInvalidParameter = errors.New("invalid segmentation parameter")
)
