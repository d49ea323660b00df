package index

import "errors"

var (
	// ErrTextRequired is returned when Build is called without a text.
	ErrTextRequired = errors.New("text required")

	// ErrLexiconRequired is returned when Build is called without a lexicon.
	ErrLexiconRequired = errors.New("lexicon required")

	// ErrSkipFailed indicates a skip's walk failed and its partial result was discarded.
	ErrSkipFailed = errors.New("skip walk failed")

	// ErrInvalidMaxAttempts is returned when the retry count is invalid.
	ErrInvalidMaxAttempts = errors.New("maxAttempts must be greater than 0")
)
