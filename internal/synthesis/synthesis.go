// Package synthesis turns a markup utterance into raw speech audio via
// an external voice collaborator.
package synthesis

import "context"

// Synthesizer is the speech-synthesis capability. One utterance in,
// complete audio payload out; no streaming and no retries at this
// layer. Failures map onto the sentinel errors in internal/errors.
type Synthesizer interface {
	Synthesize(ctx context.Context, markupUtterance string) ([]byte, error)
}
