package ai

import "context"

// GenerateOptions controls a single generation call. Premium selects
// the higher-tier model configured for the operation.
type GenerateOptions struct {
	Temperature *float32
	MaxTokens   int32
	Premium     bool
}

// Generator is the text-generation capability consumed by the
// pipeline. Implementations take a prompt and return the raw model
// text; structured recovery is the caller's concern.
type Generator interface {
	Generate(ctx context.Context, prompt string, opts GenerateOptions) (string, *TokenUsage, error)
	GetModelInfo(ctx context.Context) *ModelInfo
	Close() error
}
