package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus collectors for the enrichment engine.
type Metrics struct {
	ProviderCalls      *prometheus.CounterVec
	ProviderErrors     *prometheus.CounterVec
	CacheHits          *prometheus.CounterVec
	CacheMisses        *prometheus.CounterVec
	BreakerTrips       *prometheus.CounterVec
	CoalescedRequests  *prometheus.CounterVec
	CostSpendCents     *prometheus.CounterVec
	RowDuration        prometheus.Histogram
	RowsByStatus       *prometheus.CounterVec
	ProviderLatency    *prometheus.HistogramVec
}

// New creates and registers all Prometheus metrics for the engine.
func New() *Metrics {
	return &Metrics{
		ProviderCalls: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "enrichcore_provider_calls_total",
			Help: "Total number of provider calls attempted, by provider and field.",
		}, []string{"provider", "field"}),
		ProviderErrors: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "enrichcore_provider_errors_total",
			Help: "Total number of provider calls that returned an error.",
		}, []string{"provider", "class"}),
		CacheHits: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "enrichcore_cache_hits_total",
			Help: "Cache hits, split by positive/negative.",
		}, []string{"kind"}),
		CacheMisses: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "enrichcore_cache_misses_total",
			Help: "Cache misses by cache layer.",
		}, []string{"layer"}),
		BreakerTrips: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "enrichcore_breaker_trips_total",
			Help: "Circuit breaker open transitions, by provider.",
		}, []string{"provider"}),
		CoalescedRequests: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "enrichcore_coalesced_requests_total",
			Help: "Callers that joined an in-flight singleflight call instead of issuing a new one.",
		}, []string{"key_kind"}),
		CostSpendCents: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "enrichcore_cost_spend_cents_total",
			Help: "Cost recorded against the ledger, in cents, by provider.",
		}, []string{"provider"}),
		RowDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "enrichcore_row_duration_seconds",
			Help:    "Wall-clock time to enrich one row end to end.",
			Buckets: prometheus.DefBuckets,
		}),
		RowsByStatus: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "enrichcore_rows_total",
			Help: "Rows processed, by terminal status.",
		}, []string{"status"}),
		ProviderLatency: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "enrichcore_provider_latency_seconds",
			Help:    "Per-call provider latency.",
			Buckets: prometheus.DefBuckets,
		}, []string{"provider"}),
	}
}
