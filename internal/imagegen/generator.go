package imagegen

import "context"

// Generator produces illustration bytes for a text prompt.
type Generator interface {
	Generate(ctx context.Context, prompt string) ([]byte, error)
}
