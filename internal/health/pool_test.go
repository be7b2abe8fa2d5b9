package health_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"enrichcore/internal/health"
	"enrichcore/pkg/domain"
	"enrichcore/pkg/platform/circuit"
)

func TestBreaker_CreatedLazilyAndReused(t *testing.T) {
	p := health.New()

	b1 := p.Breaker("hunter")
	b2 := p.Breaker("hunter")

	require.Same(t, b1, b2)
}

func TestIsAvailable_TrueForFreshProvider(t *testing.T) {
	p := health.New()
	require.True(t, p.IsAvailable("hunter"))
}

func TestIsAvailable_FalseWhileOpenAndNotPastResetTimeout(t *testing.T) {
	p := health.New(circuit.WithFailureThreshold(1), circuit.WithResetTimeout(time.Hour), circuit.WithRollingWindow(time.Minute, 1))
	p.Breaker("hunter").RecordFailure()

	require.False(t, p.IsAvailable("hunter"))
}

func TestSortByHealth_ClosedBeforeOpen(t *testing.T) {
	p := health.New(circuit.WithFailureThreshold(1), circuit.WithRollingWindow(time.Minute, 1))
	p.Breaker("flaky").RecordFailure()

	sorted := p.SortByHealth([]domain.ProviderID{"flaky", "healthy"})

	require.Equal(t, []domain.ProviderID{"healthy", "flaky"}, sorted)
}

func TestSortByHealth_LowerErrorRateFirstWithinSameState(t *testing.T) {
	p := health.New(circuit.WithFailureThreshold(100))

	noisy := p.Breaker("noisy")
	noisy.RecordFailure()
	noisy.RecordSuccess()
	noisy.RecordFailure()

	quiet := p.Breaker("quiet")
	quiet.RecordSuccess()
	quiet.RecordSuccess()
	quiet.RecordFailure()

	sorted := p.SortByHealth([]domain.ProviderID{"noisy", "quiet"})

	require.Equal(t, []domain.ProviderID{"quiet", "noisy"}, sorted)
}
