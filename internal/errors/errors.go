package errors

import "errors"

// Sentinel errors for the composition pipeline. Every stage wraps one of
// these so the HTTP layer can map failures with errors.Is.
var (
	// ErrInvalidInput covers empty text or an unrecognized mood; caught
	// before any network call is made.
	ErrInvalidInput = errors.New("invalid input")

	// ErrGeneration is an upstream script-generation failure or a
	// response from which no valid script could be extracted.
	ErrGeneration = errors.New("script generation failed")

	// ErrInvalidMarkup is an internal invariant violation in the markup
	// converter. It indicates a defect, not a transient condition.
	ErrInvalidMarkup = errors.New("invalid speech markup")

	// Synthesis failures, distinguishable for user messaging.
	ErrSynthesisAuth        = errors.New("speech synthesis unauthorized")
	ErrRateLimited          = errors.New("rate limited")
	ErrSynthesisUnavailable = errors.New("speech synthesis unavailable")

	// ErrMixFailed covers any failure writing temporary media or
	// executing the filter graph.
	ErrMixFailed = errors.New("audio mix failed")

	ErrNotFound = errors.New("not found")
)
