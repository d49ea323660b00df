package proximity

import "errors"

var (
	// ErrInvalidCandidateCap is returned when the per-set candidate cap is negative.
	ErrInvalidCandidateCap = errors.New("candidate cap must not be negative")

	// ErrScorerRequired is returned when a nil scorer is configured.
	ErrScorerRequired = errors.New("scorer required")

	// ErrAnchorRequired is returned by Report when the anchor term has no occurrence set.
	ErrAnchorRequired = errors.New("anchor occurrences required")
)
