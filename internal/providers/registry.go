package providers

import (
	"sort"
	"sync"

	dErrors "enrichcore/pkg/domainerrors"
	"enrichcore/pkg/domain"
	"enrichcore/pkg/platform/sentinel"
)

// Registry holds the set of providers available to this process and answers
// lookups by name, by field, and by tier. It is safe for concurrent use.
type Registry struct {
	mu        sync.RWMutex
	providers map[domain.ProviderID]Provider
	disabled  map[domain.ProviderID]bool
}

// NewRegistry builds an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		providers: make(map[domain.ProviderID]Provider),
		disabled:  make(map[domain.ProviderID]bool),
	}
}

// Register adds a provider, replacing any existing one with the same ID.
func (r *Registry) Register(p Provider) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.providers[p.ID()] = p
}

// Get returns the provider with the given ID.
//
// Errors: CodeProviderMissing (wrapping sentinel.ErrNotFound) when the plan
// references an unknown provider name.
func (r *Registry) Get(id domain.ProviderID) (Provider, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.providers[id]
	if !ok {
		return nil, dErrors.Wrap(sentinel.ErrNotFound, dErrors.CodeProviderMissing, "provider not found: "+string(id))
	}
	return p, nil
}

// Disable marks a provider as unavailable for the remainder of the
// registry's lifetime (typically one job), independent of its circuit
// breaker state.
func (r *Registry) Disable(id domain.ProviderID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.disabled[id] = true
}

// IsDisabled reports whether Disable was called for this provider.
func (r *Registry) IsDisabled(id domain.ProviderID) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.disabled[id]
}

// ListByField returns all enabled providers that can enrich the given
// field, sorted by tier (free, then cheap, then premium).
func (r *Registry) ListByField(field string) []Provider {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var matches []Provider
	for id, p := range r.providers {
		if r.disabled[id] {
			continue
		}
		if p.Capabilities().CanEnrich(field) {
			matches = append(matches, p)
		}
	}
	sort.Slice(matches, func(i, j int) bool {
		ti, tj := matches[i].Capabilities().Tier, matches[j].Capabilities().Tier
		if ti == tj {
			return matches[i].ID() < matches[j].ID()
		}
		return ti.Less(tj)
	})
	return matches
}

// ListByTier returns all enabled providers in the given tier.
func (r *Registry) ListByTier(tier domain.Tier) []Provider {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var matches []Provider
	for id, p := range r.providers {
		if r.disabled[id] {
			continue
		}
		if p.Capabilities().Tier == tier {
			matches = append(matches, p)
		}
	}
	return matches
}

// All returns every registered provider, disabled or not.
func (r *Registry) All() []Provider {
	r.mu.RLock()
	defer r.mu.RUnlock()
	all := make([]Provider, 0, len(r.providers))
	for _, p := range r.providers {
		all = append(all, p)
	}
	return all
}
