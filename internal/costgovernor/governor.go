// Package costgovernor tracks spend against total, per-row, and
// per-provider budgets, and disables providers that exceed their cap.
package costgovernor

import (
	"sort"
	"sync"
	"time"

	"enrichcore/pkg/domain"
)

// RowBudgetPartition splits a row's remaining budget across tiers.
type RowBudgetPartition struct {
	FreeCents    int // unbounded in practice; free providers cost 0
	CheapCents   int
	PremiumCents int
}

// Governor maintains the cost ledger and the disabled-provider set for the
// lifetime of one job (typically one Governor per Orchestrator.Enrich run,
// or shared across a batch at the caller's discretion).
type Governor struct {
	mu sync.Mutex

	totalBudgetCents int
	totalSpentCents  int

	rowBudgetCents int
	rowSpent       map[domain.RowID]int
	rowTierSpent   map[domain.RowID]map[domain.Tier]int

	providerCapCents map[domain.ProviderID]int
	providerSpent    map[domain.ProviderID]int

	disabled map[domain.ProviderID]bool
	entries  []domain.LedgerEntry
}

// Option configures a Governor at construction time.
type Option func(*Governor)

// WithProviderCap sets a hard spend cap for one provider, independent of
// the total and row budgets.
func WithProviderCap(provider domain.ProviderID, capCents int) Option {
	return func(g *Governor) { g.providerCapCents[provider] = capCents }
}

// New builds a Governor with the given total and per-row budgets.
func New(totalBudgetCents, rowBudgetCents int, opts ...Option) *Governor {
	g := &Governor{
		totalBudgetCents: totalBudgetCents,
		rowBudgetCents:   rowBudgetCents,
		rowSpent:         make(map[domain.RowID]int),
		rowTierSpent:     make(map[domain.RowID]map[domain.Tier]int),
		providerCapCents: make(map[domain.ProviderID]int),
		providerSpent:    make(map[domain.ProviderID]int),
		disabled:         make(map[domain.ProviderID]bool),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// CanAfford reports whether a call of estCents against provider, optionally
// scoped to rowID, fits within every applicable budget.
func (g *Governor) CanAfford(provider domain.ProviderID, estCents int, rowID domain.RowID) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.canAffordLocked(provider, estCents, rowID)
}

func (g *Governor) canAffordLocked(provider domain.ProviderID, estCents int, rowID domain.RowID) bool {
	if g.disabled[provider] {
		return false
	}
	if g.totalSpentCents+estCents > g.totalBudgetCents {
		return false
	}
	if cap, ok := g.providerCapCents[provider]; ok && g.providerSpent[provider]+estCents > cap {
		return false
	}
	if !rowID.IsNil() {
		if g.rowSpent[rowID]+estCents > g.rowBudgetCents {
			return false
		}
	}
	return true
}

// RecordCost appends a ledger entry and disables provider once its cap is
// hit. Must only be called when a provider call succeeded enough to
// contribute to evidence.
func (g *Governor) RecordCost(rowID domain.RowID, tableID domain.TableID, provider domain.ProviderID, field string, cents int, tier domain.Tier) {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.totalSpentCents += cents
	g.rowSpent[rowID] += cents
	g.providerSpent[provider] += cents
	if g.rowTierSpent[rowID] == nil {
		g.rowTierSpent[rowID] = make(map[domain.Tier]int)
	}
	g.rowTierSpent[rowID][tier] += cents
	g.entries = append(g.entries, domain.LedgerEntry{
		RowID: rowID, TableID: tableID, Provider: provider, Field: field,
		CostCents: cents, Timestamp: time.Now(),
	})

	if cap, ok := g.providerCapCents[provider]; ok && g.providerSpent[provider] >= cap {
		g.disabled[provider] = true
	}
}

// AllocateRowBudget returns the tiered partition of a row's remaining
// budget: free is unbounded, cheap gets 40% of what's left, premium 60%.
func (g *Governor) AllocateRowBudget(rowID domain.RowID) RowBudgetPartition {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.allocateRowBudgetLocked(rowID)
}

func (g *Governor) allocateRowBudgetLocked(rowID domain.RowID) RowBudgetPartition {
	remaining := g.rowBudgetCents - g.rowSpent[rowID]
	if remaining < 0 {
		remaining = 0
	}
	return RowBudgetPartition{
		FreeCents:    0, // providers in this tier cost 0 cents by definition
		CheapCents:   remaining * 40 / 100,
		PremiumCents: remaining * 60 / 100,
	}
}

// CanAffordTier reports whether a call of estCents against provider, in the
// given tier, fits within every budget CanAfford checks plus the row's
// tier share: the row's cheap-tier spend may not pass 40% of the row
// budget, nor its premium-tier spend 60%. Free-tier
// calls are never partition-limited since they cost 0 cents by definition.
func (g *Governor) CanAffordTier(provider domain.ProviderID, tier domain.Tier, estCents int, rowID domain.RowID) bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	if !g.canAffordLocked(provider, estCents, rowID) {
		return false
	}
	if rowID.IsNil() || tier == domain.TierFree {
		return true
	}

	var pct int
	switch tier {
	case domain.TierCheap:
		pct = 40
	case domain.TierPremium:
		pct = 60
	default:
		return true
	}
	return g.rowTierSpent[rowID][tier]+estCents <= g.rowBudgetCents*pct/100
}

// EnableProvider clears a provider's disabled flag.
func (g *Governor) EnableProvider(provider domain.ProviderID) {
	g.mu.Lock()
	defer g.mu.Unlock()
	delete(g.disabled, provider)
}

// Reset clears the disabled-provider set and all spend counters.
func (g *Governor) Reset() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.totalSpentCents = 0
	g.rowSpent = make(map[domain.RowID]int)
	g.rowTierSpent = make(map[domain.RowID]map[domain.Tier]int)
	g.providerSpent = make(map[domain.ProviderID]int)
	g.disabled = make(map[domain.ProviderID]bool)
	g.entries = nil
}

// FilterAffordableProviders returns the subset of candidates the governor
// currently permits a call against, scoped to rowID.
func (g *Governor) FilterAffordableProviders(candidates []domain.ProviderCapability, rowID domain.RowID) []domain.ProviderCapability {
	var out []domain.ProviderCapability
	for _, c := range candidates {
		if g.CanAfford(c.Name, c.CostCents, rowID) {
			out = append(out, c)
		}
	}
	return out
}

// SortByEfficiency orders candidates by tier then cost, cheapest first.
func SortByEfficiency(candidates []domain.ProviderCapability) []domain.ProviderCapability {
	sorted := append([]domain.ProviderCapability(nil), candidates...)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].Tier != sorted[j].Tier {
			return sorted[i].Tier.Less(sorted[j].Tier)
		}
		return sorted[i].CostCents < sorted[j].CostCents
	})
	return sorted
}

// TotalSpentCents reports the ledger's running total.
func (g *Governor) TotalSpentCents() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.totalSpentCents
}

// Entries returns a copy of the ledger's entries in insertion order.
func (g *Governor) Entries() []domain.LedgerEntry {
	g.mu.Lock()
	defer g.mu.Unlock()
	return append([]domain.LedgerEntry(nil), g.entries...)
}
