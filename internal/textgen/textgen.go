// Package textgen defines the LLM text-generation port the synthesizer
// depends on, kept external so the synthesizer never needs to know which
// model or vendor is behind it.
package textgen

import "context"

// Generator produces text from a prompt pair. Implementations must treat
// ctx's deadline as authoritative.
type Generator interface {
	Generate(ctx context.Context, systemPrompt, userPrompt string, maxTokens int, temperature float64) (string, error)
}
