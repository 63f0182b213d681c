package captions

import "context"

// Generator produces caption text from a fully templated prompt.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}
