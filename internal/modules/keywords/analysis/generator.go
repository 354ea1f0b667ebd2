package analysis

import "context"

// GenerateConfig is passed through to the language model on every call.
type GenerateConfig struct {
	Temperature     float64
	MaxOutputTokens int
	// ResponseFormat is "json" for every prompt built here.
	ResponseFormat string
}

// Generator is the external text generation capability.
type Generator interface {
	Generate(ctx context.Context, prompt string, cfg GenerateConfig) (string, error)
}

type GeneratorFunc func(ctx context.Context, prompt string, cfg GenerateConfig) (string, error)

func (f GeneratorFunc) Generate(ctx context.Context, prompt string, cfg GenerateConfig) (string, error) {
	return f(ctx, prompt, cfg)
}

// DefaultGenerateConfig favours stable, parseable output.
var DefaultGenerateConfig = GenerateConfig{
	Temperature:     0.3,
	MaxOutputTokens: 8192,
	ResponseFormat:  "json",
}
