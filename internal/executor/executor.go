// Package executor runs an EnrichmentPlan's steps against the provider
// registry through the cache -> free/cheap parallel probe -> premium
// fallback waterfall, producing the raw evidence the aggregator consumes.
package executor

import (
	"context"
	"log/slog"
	"sort"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"enrichcore/internal/cache"
	"enrichcore/internal/costgovernor"
	"enrichcore/internal/health"
	"enrichcore/internal/providers"
	"enrichcore/pkg/domain"
	"enrichcore/pkg/platform/coalesce"
)

var tracer = otel.Tracer("enrichcore/executor")

// Config tunes the executor's concurrency and timeout behavior.
type Config struct {
	MaxConcurrentProbes int
	ProbeTimeout        time.Duration
	EnsembleFusion      bool
	ConfidenceThreshold float64
}

// DefaultConfig returns the engine's default concurrency and fusion settings.
func DefaultConfig() Config {
	return Config{MaxConcurrentProbes: 5, ProbeTimeout: 10 * time.Second, EnsembleFusion: false, ConfidenceThreshold: 0.8}
}

// Executor runs plans.
type Executor struct {
	registry  *providers.Registry
	cache     *cache.Cache
	breakers  *health.Pool
	governor  *costgovernor.Governor
	coalescer *coalesce.Group
	cfg       Config
	log       *slog.Logger
}

// New builds an Executor.
func New(registry *providers.Registry, c *cache.Cache, breakers *health.Pool, governor *costgovernor.Governor, coalescer *coalesce.Group, cfg Config, log *slog.Logger) *Executor {
	return &Executor{registry: registry, cache: c, breakers: breakers, governor: governor, coalescer: coalescer, cfg: cfg, log: log}
}

// Run executes plan against input, returning the evidence collected before
// ctx's deadline (partial success is allowed).
func (e *Executor) Run(ctx context.Context, input domain.NormalizedInput, plan domain.EnrichmentPlan, premiumOnly bool) []domain.ProviderResult {
	byField := make(map[string][]domain.PlanStep)
	var order []string
	for _, step := range plan.Steps {
		if _, ok := byField[step.Field]; !ok {
			order = append(order, step.Field)
		}
		byField[step.Field] = append(byField[step.Field], step)
	}

	var evidence []domain.ProviderResult
	var mu sync.Mutex

	// Fields are independent: one field's provider failures never abort
	// another's, so errgroup's per-field goroutines always return nil and
	// only ctx's own cancellation short-circuits the group.
	g, gctx := errgroup.WithContext(ctx)
	for _, field := range order {
		field, steps := field, byField[field]
		g.Go(func() error {
			results := e.runFieldCoalesced(gctx, input, field, steps, premiumOnly)
			mu.Lock()
			evidence = append(evidence, results...)
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()

	return evidence
}

// runFieldCoalesced coalesces concurrent callers racing to enrich the same
// cell (e.g. two overlapping Run calls for the same row after a retry) onto
// a single waterfall execution, in addition to call's own per-provider
// coalescing.
func (e *Executor) runFieldCoalesced(ctx context.Context, input domain.NormalizedInput, field string, steps []domain.PlanStep, premiumOnly bool) []domain.ProviderResult {
	cellCoalesceKey := "cell:" + input.RowID.String() + ":" + field
	val, _, _ := e.coalescer.Do(ctx, cellCoalesceKey, func(ctx context.Context) (any, error) {
		return e.runField(ctx, input, field, steps, premiumOnly), nil
	})
	results, _ := val.([]domain.ProviderResult)
	return results
}

func (e *Executor) runField(ctx context.Context, input domain.NormalizedInput, field string, steps []domain.PlanStep, premiumOnly bool) []domain.ProviderResult {
	cellKey := e.cache.CellKey(input.RowID, field)
	if hit := e.cache.Get(ctx, cellKey); hit.Hit {
		if hit.IsNegative {
			return nil
		}
		return []domain.ProviderResult{{
			Field: field, Value: hit.Value, Confidence: 1.0, Source: "cache",
			CostCents: 0, Timestamp: time.Now(),
		}}
	}

	var free, cheap, premium []domain.PlanStep
	for _, s := range steps {
		p, err := e.registry.Get(s.ProviderID)
		if err != nil {
			continue
		}
		switch p.Capabilities().Tier {
		case domain.TierPremium:
			premium = append(premium, s)
		case domain.TierCheap:
			cheap = append(cheap, s)
		default:
			free = append(free, s)
		}
	}

	var results []domain.ProviderResult
	if !premiumOnly {
		results = e.probeParallel(ctx, input, append(free, cheap...))
		if e.acceptable(results) {
			e.cache.Set(ctx, cellKey, bestOf(results).Value)
			return results
		}
	}

	premiumResults := e.probeSequential(ctx, input, premium)
	results = append(results, premiumResults...)

	if len(results) == 0 {
		e.cache.SetNegative(ctx, cellKey)
		return nil
	}
	e.cache.Set(ctx, cellKey, bestOf(results).Value)
	return results
}

// bestOf returns the highest-confidence result, so a weak free/cheap-tier
// guess that later triggered a premium fallback never displaces the
// fallback's stronger answer in the cell cache.
func bestOf(results []domain.ProviderResult) domain.ProviderResult {
	best := results[0]
	for _, r := range results[1:] {
		if r.Confidence > best.Confidence {
			best = r
		}
	}
	return best
}

func (e *Executor) acceptable(results []domain.ProviderResult) bool {
	if len(results) == 0 {
		return false
	}
	if e.cfg.EnsembleFusion {
		return true // let the aggregator fuse every completed probe
	}
	for _, r := range results {
		if r.Confidence >= e.cfg.ConfidenceThreshold {
			return true
		}
	}
	return false
}

// probeParallel fans out bounded-concurrency calls across steps and waits
// for all to finish or for ctx to end, whichever comes first. A provider
// returning "not found" does not abort its siblings.
func (e *Executor) probeParallel(ctx context.Context, input domain.NormalizedInput, steps []domain.PlanStep) []domain.ProviderResult {
	if len(steps) == 0 {
		return nil
	}

	sem := make(chan struct{}, e.cfg.MaxConcurrentProbes)
	resultCh := make(chan *domain.ProviderResult, len(steps))
	var wg sync.WaitGroup

	for _, step := range steps {
		step := step
		wg.Add(1)
		go func() {
			defer wg.Done()
			select {
			case sem <- struct{}{}:
				defer func() { <-sem }()
			case <-ctx.Done():
				return
			}
			resultCh <- e.call(ctx, input, step)
		}()
	}

	go func() {
		wg.Wait()
		close(resultCh)
	}()

	var results []domain.ProviderResult
	for {
		select {
		case <-ctx.Done():
			return results
		case r, ok := <-resultCh:
			if !ok {
				return results
			}
			if r != nil {
				results = append(results, *r)
			}
		}
	}
}

// probeSequential runs premium steps one at a time, health-sorted, until
// one produces an acceptable result.
func (e *Executor) probeSequential(ctx context.Context, input domain.NormalizedInput, steps []domain.PlanStep) []domain.ProviderResult {
	ids := make([]domain.ProviderID, len(steps))
	for i, s := range steps {
		ids[i] = s.ProviderID
	}
	rank := make(map[domain.ProviderID]int, len(ids))
	for i, id := range e.breakers.SortByHealth(ids) {
		if _, seen := rank[id]; !seen {
			rank[id] = i
		}
	}
	steps = append([]domain.PlanStep(nil), steps...)
	sort.SliceStable(steps, func(i, j int) bool { return rank[steps[i].ProviderID] < rank[steps[j].ProviderID] })

	var results []domain.ProviderResult
	for _, step := range steps {
		if ctx.Err() != nil {
			break
		}
		r := e.call(ctx, input, step)
		if r != nil {
			results = append(results, *r)
			if r.Confidence >= e.cfg.ConfidenceThreshold {
				break
			}
		}
	}
	return results
}

// call performs one provider invocation, coalesced at the provider-row
// granularity and bounded by the probe timeout.
func (e *Executor) call(ctx context.Context, input domain.NormalizedInput, step domain.PlanStep) *domain.ProviderResult {
	ctx, span := tracer.Start(ctx, "ProviderCall", trace.WithAttributes(
		attribute.String("provider", string(step.ProviderID)),
		attribute.String("field", step.Field),
	))
	defer span.End()

	p, err := e.registry.Get(step.ProviderID)
	if err != nil {
		return nil
	}

	providerKey := e.cache.ProviderKey(input.RowID, step.ProviderID)
	if raw, ok := e.cache.GetProviderResponse(ctx, providerKey); ok {
		if v, found := fieldValueFromRaw(raw, step.Field); found {
			return &domain.ProviderResult{
				Field: step.Field, Value: v, Confidence: 0.8, Source: step.ProviderID,
				CostCents: 0, Timestamp: time.Now(),
			}
		}
	}

	breaker := e.breakers.Breaker(step.ProviderID)
	if !breaker.AcquireProbeSlot(time.Now()) {
		return nil
	}
	tier := p.Capabilities().Tier
	if !e.governor.CanAffordTier(step.ProviderID, tier, step.MaxCostCents, input.RowID) {
		return nil
	}

	coalesceKey := "provider:" + input.RowID.String() + ":" + string(step.ProviderID)
	callCtx, cancel := context.WithTimeout(ctx, e.cfg.ProbeTimeout)
	defer cancel()

	val, err, joined := e.coalescer.Do(callCtx, coalesceKey, func(ctx context.Context) (any, error) {
		return p.Enrich(ctx, input, step.Field)
	})
	if err != nil {
		breaker.RecordFailure()
		e.log.WarnContext(ctx, "provider call failed", "provider", step.ProviderID, "field", step.Field, "error", err)
		return nil
	}
	breaker.RecordSuccess()

	result, _ := val.(*domain.ProviderResult)
	if result == nil {
		return nil
	}

	if result.Raw != nil {
		e.cache.SetProviderResponse(ctx, providerKey, result.Raw)
	}

	if !joined {
		e.governor.RecordCost(input.RowID, input.TableID, step.ProviderID, step.Field, result.CostCents, tier)
	}
	return result
}

// fieldValueFromRaw extracts field from a provider's cached raw response map,
// handling the shapes json.Unmarshal produces for a string, number, or list
// of strings.
func fieldValueFromRaw(raw map[string]any, field string) (domain.FieldValue, bool) {
	v, ok := raw[field]
	if !ok || v == nil {
		return domain.FieldValue{}, false
	}
	switch t := v.(type) {
	case string:
		if t == "" {
			return domain.FieldValue{}, false
		}
		return domain.StringValue(t), true
	case float64:
		return domain.NumberValue(t), true
	case []any:
		items := make([]string, 0, len(t))
		for _, e := range t {
			if s, ok := e.(string); ok {
				items = append(items, s)
			}
		}
		if len(items) == 0 {
			return domain.FieldValue{}, false
		}
		return domain.ListValue(items), true
	}
	return domain.FieldValue{}, false
}
