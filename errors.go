package elscan

import "errors"

var (
	// ErrTextRequired is returned when no text is configured.
	ErrTextRequired = errors.New("text required")

	// ErrLexiconRequired is returned when a build has no lexicon.
	ErrLexiconRequired = errors.New("lexicon required")

	// ErrIndexMismatch indicates the published index was built over a different text.
	ErrIndexMismatch = errors.New("index was built over a different text")
)
