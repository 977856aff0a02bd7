package script

import "context"

// TextGenerator is the upstream text-generation capability. One prompt
// in, free-form text out. Implementations are expected to embed exactly
// one JSON object somewhere in the response; surrounding prose is fine.
type TextGenerator interface {
	GenerateText(ctx context.Context, prompt string) (string, error)
}
