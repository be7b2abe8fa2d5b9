package smartenrich

import (
	"context"
	"strings"
	"time"

	"enrichcore/pkg/domain"
)

const (
	thresholdVerified  = 0.8
	thresholdEstimated = 0.6
	ambiguityGap       = 0.1
	ambiguityCap       = 0.72
)

// Outcome is the decide layer's verdict for the whole search.
type Outcome string

const (
	OutcomeVerified  Outcome = "verified"
	OutcomeEstimated Outcome = "estimated"
	OutcomeNone      Outcome = "none"
)

type scoredCandidate struct {
	Candidate
	score float64
}

// Engine runs the candidate -> verify -> decide pipeline and implements
// providers.Provider so the orchestrator can schedule it like any other
// provider for domain/website/industry/companySummary/company.
type Engine struct {
	searcher Searcher
	fetcher  Fetcher
}

// New builds an Engine.
func New(searcher Searcher, fetcher Fetcher) *Engine {
	return &Engine{searcher: searcher, fetcher: fetcher}
}

// ID implements providers.Provider.
func (e *Engine) ID() domain.ProviderID { return "smart_enrichment" }

// Capabilities implements providers.Provider. Smart enrichment is a free
// probe: its cost is the SERP call, modeled as zero cents here since the
// mock searcher has no billing surface; a real search backend would report
// a per-query cost instead.
func (e *Engine) Capabilities() domain.ProviderCapability {
	return domain.ProviderCapability{
		Name: e.ID(), Tier: domain.TierFree, CostCents: 0,
		SupportedFields: map[string]bool{
			"domain": true, "website": true, "industry": true,
			"companySummary": true, "company": true,
		},
	}
}

// Health implements providers.Provider.
func (e *Engine) Health(ctx context.Context) error { return nil }

// Enrich implements providers.Provider by running the full discovery flow
// and projecting the result onto the requested field.
func (e *Engine) Enrich(ctx context.Context, input domain.NormalizedInput, field string) (*domain.ProviderResult, error) {
	if !e.Capabilities().CanEnrich(field) || input.Company == "" {
		return nil, nil
	}

	candidates, err := collectCandidates(ctx, e.searcher, input.Company)
	if err != nil || len(candidates) == 0 {
		return nil, nil
	}

	scored := e.verifyAll(ctx, candidates, input.Company)
	winner, outcome := decide(scored, input.Company)
	if outcome == OutcomeNone {
		return nil, nil
	}

	value := projectField(field, winner, input.Company)
	if value.IsEmpty() {
		return nil, nil
	}

	return &domain.ProviderResult{
		Field: field, Value: value, Confidence: winner.score, Source: e.ID(),
		CostCents: 0, Timestamp: time.Now(), Verified: outcome == OutcomeVerified,
	}, nil
}

// verifyAll scores every candidate, taking the fast path: once position 1
// is confirmed canonical, positions 3+ skip full homepage verification and
// inherit a SERP-only score.
func (e *Engine) verifyAll(ctx context.Context, candidates []Candidate, companyName string) []scoredCandidate {
	out := make([]scoredCandidate, 0, len(candidates))
	fastPath := len(candidates) > 0 && candidates[0].Domain == canonicalDomainGuess(companyName)

	for i, c := range candidates {
		if fastPath && i >= 2 {
			out = append(out, scoredCandidate{Candidate: c, score: serpOnlyScore(c, companyName)})
			continue
		}
		out = append(out, scoredCandidate{Candidate: c, score: verifyCandidate(ctx, e.fetcher, c, companyName)})
	}
	return out
}

func serpOnlyScore(c Candidate, companyName string) float64 {
	score := baseScore
	if c.Domain == canonicalDomainGuess(companyName) {
		score += bonusCanonicalDomain
	}
	serpText := strings.ToLower(c.Title + " " + c.Snippet)
	if strings.Contains(serpText, strings.ToLower(companyName)) {
		score += bonusNameInTitle
	}
	return clamp(score)
}

// decide applies the threshold table, including the ambiguity-gap cap on
// an estimated (non-canonical) winner.
func decide(scored []scoredCandidate, companyName string) (scoredCandidate, Outcome) {
	if len(scored) == 0 {
		return scoredCandidate{}, OutcomeNone
	}
	sortDescending(scored)
	top := scored[0]

	switch {
	case top.score >= thresholdVerified:
		return top, OutcomeVerified
	case top.score >= thresholdEstimated:
		if len(scored) >= 2 {
			gap := top.score - scored[1].score
			isCanonical := top.Domain == canonicalDomainGuess(companyName)
			if gap < ambiguityGap && !isCanonical {
				top.score = minFloat(top.score, ambiguityCap)
			}
		}
		return top, OutcomeEstimated
	default:
		return scoredCandidate{}, OutcomeNone
	}
}

func sortDescending(scored []scoredCandidate) {
	for i := 1; i < len(scored); i++ {
		for j := i; j > 0 && scored[j-1].score < scored[j].score; j-- {
			scored[j-1], scored[j] = scored[j], scored[j-1]
		}
	}
}

func projectField(field string, winner scoredCandidate, companyName string) domain.FieldValue {
	normalizedURL := "https://" + winner.Domain + "/"
	switch field {
	case "domain":
		return domain.StringValue(winner.Domain)
	case "website":
		return domain.StringValue(normalizedURL)
	case "company":
		return domain.StringValue(companyName)
	case "industry":
		if industryKeywordPresent(strings.ToLower(winner.Title + " " + winner.Snippet)) {
			return domain.StringValue("technology")
		}
		return domain.FieldValue{}
	case "companySummary":
		return domain.StringValue(companyName + " operates at " + normalizedURL)
	}
	return domain.FieldValue{}
}

func minFloat(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}
