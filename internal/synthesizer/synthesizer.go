// Package synthesizer generates the shortBio and companySummary fields from
// already-accepted facts via the text generation port. It never invents
// claims absent from its input snippets.
package synthesizer

import (
	"context"
	"fmt"
	"strings"
	"time"

	"enrichcore/internal/textgen"
	"enrichcore/pkg/domain"
)

// snippetFields lists the canonical fields that may feed a synthesis call.
var snippetFields = []string{"name", "title", "company", "shortBio", "location", "industry", "companySummary"}

const maxTokens = 200
const temperature = 0.3

// Synthesizer fuses accepted facts into generated text fields.
type Synthesizer struct {
	generator textgen.Generator
}

// New builds a Synthesizer over the given text generator.
func New(generator textgen.Generator) *Synthesizer {
	return &Synthesizer{generator: generator}
}

// Synthesize produces field if it is one of the two supported targets and
// canonical carries at least one usable input snippet. Returns nil, nil when
// there are too few snippets or generation fails; callers treat that as
// "nothing to add", not an error.
func (s *Synthesizer) Synthesize(ctx context.Context, field string, canonical domain.CanonicalData) (*domain.ProviderResult, error) {
	if field != "shortBio" && field != "companySummary" {
		return nil, nil
	}

	snippets, avgConfidence, count := collectSnippets(canonical)
	if count < 1 {
		return nil, nil
	}

	prompt := buildPrompt(field, snippets)
	text, err := s.generator.Generate(ctx, systemPromptFor(field), prompt, maxTokens, temperature)
	if err != nil || strings.TrimSpace(text) == "" {
		return nil, nil
	}

	confidence := (baseConfidence(count) + avgConfidence) / 2
	return &domain.ProviderResult{
		Field: field, Value: domain.StringValue(text), Confidence: confidence,
		Source: "llm", Timestamp: time.Now(), Verified: false,
	}, nil
}

func collectSnippets(canonical domain.CanonicalData) (map[string]string, float64, int) {
	snippets := make(map[string]string)
	var sum float64
	count := 0
	for _, f := range snippetFields {
		v, ok := canonical[f]
		if !ok || v.Value.IsEmpty() {
			continue
		}
		snippets[f] = v.Value.String()
		sum += v.Confidence
		count++
	}
	if count == 0 {
		return snippets, 0, 0
	}
	return snippets, sum / float64(count), count
}

func baseConfidence(sourceCount int) float64 {
	switch {
	case sourceCount >= 3:
		return 0.7
	case sourceCount >= 2:
		return 0.6
	default:
		return 0.4
	}
}

func systemPromptFor(field string) string {
	return "You write a single factual " + field + " sentence using only the facts provided. Never state anything not present in the input."
}

func buildPrompt(field string, snippets map[string]string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Generate a %s using only these facts:\n", field)
	for _, f := range snippetFields {
		if v, ok := snippets[f]; ok {
			fmt.Fprintf(&b, "- %s: %s\n", f, v)
		}
	}
	return b.String()
}
