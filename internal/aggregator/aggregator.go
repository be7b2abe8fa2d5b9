// Package aggregator fuses a flat evidence list into one AggregatedField
// per field, grouping similar values across sources and computing a
// weighted, consensus-boosted, conflict-penalized confidence.
package aggregator

import (
	"sort"
	"strings"

	"github.com/agnivade/levenshtein"

	"enrichcore/pkg/domain"
)

// sourceWeights is the fixed per-source trust table.
var sourceWeights = map[domain.ProviderID]float64{
	"linkedin": 0.95, "hunter": 0.9, "opencorporates": 0.95, "github": 0.9,
	"whois": 0.85, "serp": 0.7, "serper": 0.7, "pattern_inference": 0.3,
	"llm": 0.2, "llm_synthesizer": 0.2, "cache": 1.0,
}

func sourceWeight(source domain.ProviderID) float64 {
	if w, ok := sourceWeights[source]; ok {
		return w
	}
	return 0.5
}

const similarityGroupThreshold = 0.85

type group struct {
	results    []domain.ProviderResult
	confidence float64
}

// Aggregator groups and scores evidence.
type Aggregator struct{}

// New builds an Aggregator. It holds no state.
func New() *Aggregator { return &Aggregator{} }

// Aggregate buckets results by field and fuses each bucket.
func (a *Aggregator) Aggregate(results []domain.ProviderResult) map[string]domain.AggregatedField {
	byField := make(map[string][]domain.ProviderResult)
	for _, r := range results {
		byField[r.Field] = append(byField[r.Field], r)
	}

	out := make(map[string]domain.AggregatedField, len(byField))
	for field, bucket := range byField {
		out[field] = a.aggregateField(field, bucket)
	}
	return out
}

func (a *Aggregator) aggregateField(field string, results []domain.ProviderResult) domain.AggregatedField {
	groups := groupBySimilarity(results)

	for i := range groups {
		groups[i].confidence = weightedConfidence(groups[i].results)
	}
	sort.SliceStable(groups, func(i, j int) bool { return groups[i].confidence > groups[j].confidence })

	winner := groups[0]
	canonical := bestSourceValue(winner.results)

	confidence := winner.confidence
	if len(winner.results) >= 2 {
		confidence = min1(confidence + 0.1)
	}
	if len(groups) > 1 {
		confidence = max(confidence-0.05*float64(len(groups)-1), 0.1)
	}

	agg := domain.AggregatedField{
		Field:          field,
		CanonicalValue: canonical,
		Confidence:     confidence,
		HasConflict:    len(groups) > 1,
		AllResults:     results,
	}
	for _, r := range winner.results {
		agg.Sources = append(agg.Sources, r.Source)
	}
	for _, g := range groups[1:] {
		agg.ConflictingValues = append(agg.ConflictingValues, bestSourceValue(g.results))
	}
	return agg
}

func groupBySimilarity(results []domain.ProviderResult) []group {
	var groups []group
	for _, r := range results {
		placed := false
		for i := range groups {
			if similarity(groups[i].results[0].Value, r.Value) >= similarityGroupThreshold {
				groups[i].results = append(groups[i].results, r)
				placed = true
				break
			}
		}
		if !placed {
			groups = append(groups, group{results: []domain.ProviderResult{r}})
		}
	}
	return groups
}

func weightedConfidence(results []domain.ProviderResult) float64 {
	var sum float64
	for _, r := range results {
		sum += r.Confidence * sourceWeight(r.Source)
	}
	return sum
}

func bestSourceValue(results []domain.ProviderResult) domain.FieldValue {
	best := results[0]
	bestWeight := sourceWeight(best.Source)
	for _, r := range results[1:] {
		if w := sourceWeight(r.Source); w > bestWeight {
			best, bestWeight = r, w
		}
	}
	return best.Value
}

// similarity computes a [0,1] score between two field values per the fixed
// normalize -> exact/contains/levenshtein cascade.
func similarity(a, b domain.FieldValue) float64 {
	na, nb := normalize(a.String()), normalize(b.String())
	if na == nb {
		return 1
	}
	if na == "" || nb == "" {
		return 0
	}
	shorter, longer := na, nb
	if len(shorter) > len(longer) {
		shorter, longer = longer, shorter
	}
	if strings.Contains(longer, shorter) {
		return 0.7 + 0.3*(float64(len(shorter))/float64(len(longer)))
	}
	if len(longer) <= 64 {
		dist := levenshtein.ComputeDistance(na, nb)
		return 1 - float64(dist)/float64(len(longer))
	}
	return 0
}

func normalize(s string) string {
	fields := strings.Fields(strings.ToLower(strings.TrimSpace(s)))
	return strings.Join(fields, " ")
}

func min1(f float64) float64 {
	if f > 1 {
		return 1
	}
	return f
}

func max(f, floor float64) float64 {
	if f < floor {
		return floor
	}
	return f
}
