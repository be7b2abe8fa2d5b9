// Package health owns the set of per-provider circuit breakers and exposes
// the health-sorted selection the planner and executor need.
package health

import (
	"sort"
	"sync"
	"time"

	"enrichcore/pkg/domain"
	"enrichcore/pkg/platform/circuit"
)

// Pool holds one breaker per provider, created lazily on first use.
type Pool struct {
	mu       sync.Mutex
	breakers map[domain.ProviderID]*circuit.Breaker
	opts     []circuit.Option
}

// New builds a Pool; opts apply to every breaker it creates.
func New(opts ...circuit.Option) *Pool {
	return &Pool{breakers: make(map[domain.ProviderID]*circuit.Breaker), opts: opts}
}

// Breaker returns the breaker for provider, creating it on first access.
func (p *Pool) Breaker(provider domain.ProviderID) *circuit.Breaker {
	p.mu.Lock()
	defer p.mu.Unlock()
	b, ok := p.breakers[provider]
	if !ok {
		b = circuit.New(string(provider), p.opts...)
		p.breakers[provider] = b
	}
	return b
}

// IsAvailable reports whether provider may currently be called: not open,
// or open but past its reset timeout (a single half-open probe allowed).
func (p *Pool) IsAvailable(provider domain.ProviderID) bool {
	return p.Breaker(provider).AllowProbe(time.Now())
}

// SortByHealth orders providers best-health-first: closed before
// half-open before open, then lower error rate, then lower p50 latency.
func (p *Pool) SortByHealth(providerIDs []domain.ProviderID) []domain.ProviderID {
	sorted := append([]domain.ProviderID(nil), providerIDs...)
	sort.SliceStable(sorted, func(i, j int) bool {
		hi := p.Breaker(sorted[i]).Health()
		hj := p.Breaker(sorted[j]).Health()
		if hi.State != hj.State {
			return hi.State < hj.State
		}
		if hi.ErrorRate != hj.ErrorRate {
			return hi.ErrorRate < hj.ErrorRate
		}
		return hi.P50Latency < hj.P50Latency
	})
	return sorted
}
