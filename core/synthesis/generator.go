package synthesis

import "context"

// Generator is the external text-generation capability. It is opaque,
// fallible and network-bound; calls must respect the context.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// GenerateFunc adapts a function to the Generator interface.
type GenerateFunc func(ctx context.Context, prompt string) (string, error)

// Generate implements Generator.
func (f GenerateFunc) Generate(ctx context.Context, prompt string) (string, error) {
	return f(ctx, prompt)
}
