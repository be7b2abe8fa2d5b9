// Package planner builds an EnrichmentPlan from an input and a budget.
// Planning is pure: it never performs I/O and never calls a provider.
package planner

import (
	"sort"

	"enrichcore/internal/costgovernor"
	"enrichcore/internal/health"
	"enrichcore/internal/providers"
	platformstrings "enrichcore/pkg/platform/strings"
	"enrichcore/pkg/domain"
)

// fieldPriority is the static ordering table; lower sorts first.
var fieldPriority = map[string]int{
	"name": 1, "company": 1, "title": 2, "domain": 3, "website": 3,
	"email": 4, "linkedinUrl": 4, "industry": 5, "shortBio": 6,
	"companySummary": 6, "whois": 7,
}

// fieldDependencies lists fields that must already be present (in the input
// or earlier in the plan) before a dependent field may be scheduled.
var fieldDependencies = map[string][]string{
	"emailCandidates": {"name", "company"},
	"shortBio":        {"name", "title"},
	"companySummary":  {"company"},
}

// Planner builds plans given a provider registry and a health pool for
// tie-breaking.
type Planner struct {
	registry *providers.Registry
	health   *health.Pool
}

// New builds a Planner.
func New(registry *providers.Registry, healthPool *health.Pool) *Planner {
	return &Planner{registry: registry, health: healthPool}
}

// Plan produces an EnrichmentPlan for fieldsToEnrich against input, subject
// to budgetCents.
func (p *Planner) Plan(input domain.NormalizedInput, fieldsToEnrich []string, budgetCents int) domain.EnrichmentPlan {
	fieldsToEnrich = platformstrings.DedupeAndTrim(fieldsToEnrich)
	existing := existingFields(input)
	missing := subtract(fieldsToEnrich, existing)
	if len(missing) == 0 {
		return domain.EnrichmentPlan{BudgetCents: budgetCents, Note: "no missing fields"}
	}

	ordered := topoOrder(missing)

	plan := domain.EnrichmentPlan{BudgetCents: budgetCents}
	used := make(map[domain.ProviderID]bool)
	remaining := budgetCents

	for _, field := range ordered {
		candidates := p.registry.ListByField(field)
		if len(candidates) == 0 {
			continue
		}

		if input.LinkedInURL != "" {
			candidates = preferLinkedIn(candidates)
		}

		chosen := p.selectProvider(candidates, field, remaining, used)
		if chosen == nil {
			continue
		}

		cost := chosen.Capabilities().CostCents
		plan.Steps = append(plan.Steps, domain.PlanStep{
			Index: len(plan.Steps), ProviderID: chosen.ID(), Field: field,
			Priority: priorityLabel(field, input), MaxCostCents: cost,
		})
		used[chosen.ID()] = true
		remaining -= cost
	}

	// shortBio and companySummary get a provider step only when a registered
	// provider declares the field, like any other field; the plan holds no
	// synthesis step. Generated text for them comes from the orchestrator's
	// synthesizer after aggregation, outside this plan.
	return plan
}

// Provider is a narrow alias so this file's manual reordering code reads
// cleanly; it is exactly providers.Provider.
type Provider = providers.Provider

func (p *Planner) selectProvider(candidates []Provider, field string, remainingBudget int, used map[domain.ProviderID]bool) Provider {
	var affordable []Provider
	for _, c := range candidates {
		if used[c.ID()] {
			continue
		}
		if c.Capabilities().CostCents > remainingBudget {
			continue
		}
		if !p.health.IsAvailable(c.ID()) {
			continue
		}
		affordable = append(affordable, c)
	}
	if len(affordable) == 0 {
		return nil
	}
	if len(affordable) == 1 {
		return affordable[0]
	}

	ids := make([]domain.ProviderID, len(affordable))
	byID := make(map[domain.ProviderID]Provider, len(affordable))
	for i, c := range affordable {
		ids[i] = c.ID()
		byID[c.ID()] = c
	}
	ranked := p.health.SortByHealth(ids)
	return byID[ranked[0]]
}

// preferLinkedIn moves the LinkedIn provider to the front of candidates, if
// present, so an available LinkedIn URL always gets first crack at a field.
func preferLinkedIn(candidates []Provider) []Provider {
	for i, c := range candidates {
		if c.ID() != "linkedin" {
			continue
		}
		reordered := make([]Provider, 0, len(candidates))
		reordered = append(reordered, c)
		reordered = append(reordered, candidates[:i]...)
		reordered = append(reordered, candidates[i+1:]...)
		return reordered
	}
	return candidates
}

func priorityLabel(field string, input domain.NormalizedInput) string {
	if input.LinkedInURL != "" {
		return "high"
	}
	return "normal"
}

func existingFields(input domain.NormalizedInput) []string {
	var out []string
	for _, f := range []string{"name", "domain", "linkedinUrl", "email", "company"} {
		if input.HasField(f) {
			out = append(out, f)
		}
	}
	return out
}

func subtract(all, existing []string) []string {
	existingSet := make(map[string]bool, len(existing))
	for _, f := range existing {
		existingSet[f] = true
	}
	var out []string
	for _, f := range all {
		if !existingSet[f] {
			out = append(out, f)
		}
	}
	return out
}

// topoOrder orders fields by explicit dependency first (a dependent field
// sorts after the fields it depends on), then by the static priority
// table.
func topoOrder(fields []string) []string {
	sorted := append([]string(nil), fields...)
	depth := func(f string) int {
		if deps, ok := fieldDependencies[f]; ok {
			return len(deps)
		}
		return 0
	}
	sort.SliceStable(sorted, func(i, j int) bool {
		di, dj := depth(sorted[i]), depth(sorted[j])
		if di != dj {
			return di < dj
		}
		return fieldPriority[sorted[i]] < fieldPriority[sorted[j]]
	})
	return sorted
}

// CostGovernorPartition is re-exported for callers that want the planner's
// view of a row's remaining budget without importing costgovernor
// directly.
type CostGovernorPartition = costgovernor.RowBudgetPartition
