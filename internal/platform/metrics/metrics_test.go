package metrics_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"enrichcore/internal/platform/metrics"
)

// A single test function registering the collectors once: promauto
// registers into the default Prometheus registry, so a second New() call
// anywhere else in this package's test binary would panic on a duplicate
// collector registration.
func TestNew_InitializesAllCollectors(t *testing.T) {
	m := metrics.New()

	require.NotNil(t, m.ProviderCalls)
	require.NotNil(t, m.ProviderErrors)
	require.NotNil(t, m.CacheHits)
	require.NotNil(t, m.CacheMisses)
	require.NotNil(t, m.BreakerTrips)
	require.NotNil(t, m.CoalescedRequests)
	require.NotNil(t, m.CostSpendCents)
	require.NotNil(t, m.RowDuration)
	require.NotNil(t, m.RowsByStatus)
	require.NotNil(t, m.ProviderLatency)

	m.ProviderCalls.WithLabelValues("hunter", "email").Inc()
	m.RowsByStatus.WithLabelValues("success").Inc()
}
