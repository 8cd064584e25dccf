package model

import (
	"errors"
	"fmt"
)

// ErrEmptyEvidence signals that no chunks or graph anchors matched the
// query. It is recoverable: the engine still returns a result with empty
// supporting evidence instead of fabricating grounding.
var ErrEmptyEvidence = errors.New("no evidence matched the query")

// ErrCorpusUnavailable signals that no corpus snapshot is installed or a
// swap is in progress. The request fails fast rather than reading partial
// state; the process recovers once a snapshot is swapped in.
var ErrCorpusUnavailable = errors.New("corpus snapshot unavailable")

// GenerationError is surfaced when the external text-generation capability
// fails or times out after the bounded retry budget is exhausted. It is
// distinct from a low-confidence answer.
type GenerationError struct {
	Attempts int
	Err      error
}

// Error implements the error interface.
func (e *GenerationError) Error() string {
	return fmt.Sprintf("text generation failed after %d attempt(s): %v", e.Attempts, e.Err)
}

// Unwrap returns the underlying error.
func (e *GenerationError) Unwrap() error {
	return e.Err
}
