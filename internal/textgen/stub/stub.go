// Package stub implements a deterministic canned text generator for tests
// and for running the engine without LLM API credentials.
package stub

import (
	"context"
	"strings"
)

// Generator returns a fixed transformation of its input so tests can assert
// on output without depending on a live model.
type Generator struct{}

// New builds a Generator.
func New() *Generator { return &Generator{} }

// Generate implements textgen.Generator.
func (g *Generator) Generate(ctx context.Context, systemPrompt, userPrompt string, maxTokens int, temperature float64) (string, error) {
	summary := strings.TrimSpace(userPrompt)
	if len(summary) > 200 {
		summary = summary[:200]
	}
	return summary, nil
}
