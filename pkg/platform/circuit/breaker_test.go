package circuit

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestWithWindow_ResizesTheHealthReportingWindow(t *testing.T) {
	b := New("test", WithWindow(3))

	for i := 0; i < 5; i++ {
		b.RecordSuccess()
	}
	b.RecordFailure()

	h := b.Health()
	assert.Equal(t, 3, h.SampleCount, "the window should hold at most the configured 3 samples, not the default 50")
}

func TestBreaker_InitialState(t *testing.T) {
	b := New("test")
	assert.False(t, b.IsOpen())
	assert.Equal(t, StateClosed, b.State())
	assert.Equal(t, "test", b.Name())
}

func TestBreaker_OpensAfterThreshold(t *testing.T) {
	b := New("test", WithFailureThreshold(3), WithRollingWindow(time.Minute, 1))

	// First two failures don't open
	useFallback, change := b.RecordFailure()
	assert.False(t, useFallback)
	assert.False(t, change.Opened)

	useFallback, change = b.RecordFailure()
	assert.False(t, useFallback)
	assert.False(t, change.Opened)

	// Third failure opens the circuit
	useFallback, change = b.RecordFailure()
	assert.True(t, useFallback)
	assert.True(t, change.Opened)
	assert.True(t, b.IsOpen())
}

func TestBreaker_ClosesAfterSuccessThreshold(t *testing.T) {
	b := New("test", WithFailureThreshold(1), WithSuccessThreshold(2), WithRollingWindow(time.Minute, 1))

	// Open the circuit
	b.RecordFailure()
	assert.True(t, b.IsOpen())

	// First success doesn't close
	usePrimary, change := b.RecordSuccess()
	assert.False(t, usePrimary)
	assert.False(t, change.Closed)
	assert.True(t, b.IsOpen())

	// Second success closes
	usePrimary, change = b.RecordSuccess()
	assert.True(t, usePrimary)
	assert.True(t, change.Closed)
	assert.False(t, b.IsOpen())
}

func TestBreaker_SuccessResetsFailureCount(t *testing.T) {
	b := New("test", WithFailureThreshold(3), WithRollingWindow(time.Minute, 1))

	// Two failures
	b.RecordFailure()
	b.RecordFailure()
	assert.False(t, b.IsOpen())

	// Success resets count
	b.RecordSuccess()

	// Two more failures don't open (count was reset)
	b.RecordFailure()
	b.RecordFailure()
	assert.False(t, b.IsOpen())

	// Third failure opens
	b.RecordFailure()
	assert.True(t, b.IsOpen())
}

func TestBreaker_FailureResetsSuccessCount(t *testing.T) {
	b := New("test", WithFailureThreshold(1), WithSuccessThreshold(3), WithRollingWindow(time.Minute, 1))

	// Open the circuit
	b.RecordFailure()
	assert.True(t, b.IsOpen())

	// Two successes
	b.RecordSuccess()
	b.RecordSuccess()

	// Failure resets success count (stays open)
	b.RecordFailure()
	assert.True(t, b.IsOpen())

	// Need 3 successes again to close
	b.RecordSuccess()
	b.RecordSuccess()
	assert.True(t, b.IsOpen())
	b.RecordSuccess()
	assert.False(t, b.IsOpen())
}

func TestBreaker_Reset(t *testing.T) {
	b := New("test", WithFailureThreshold(1), WithRollingWindow(time.Minute, 1))

	// Open the circuit
	b.RecordFailure()
	assert.True(t, b.IsOpen())

	// Reset closes it
	b.Reset()
	assert.False(t, b.IsOpen())
	assert.Equal(t, StateClosed, b.State())
}

func TestBreaker_OpenCircuitReturnsFallback(t *testing.T) {
	b := New("test", WithFailureThreshold(1), WithRollingWindow(time.Minute, 1))

	// Open the circuit
	b.RecordFailure()

	// Additional failures return fallback without state change
	useFallback, change := b.RecordFailure()
	assert.True(t, useFallback)
	assert.False(t, change.Opened) // Already open, no state change
}

func TestBreaker_DoesNotOpenBelowMinimumRequests(t *testing.T) {
	b := New("test", WithFailureThreshold(2), WithRollingWindow(time.Minute, 5))

	// Two consecutive failures meet the failure threshold, but only two
	// calls total have landed, short of the five-request minimum.
	b.RecordFailure()
	_, change := b.RecordFailure()
	assert.False(t, change.Opened)
	assert.False(t, b.IsOpen())

	// Three successes bring the window past the minimum and reset the
	// consecutive-failure count; two more failures are needed to trip it.
	b.RecordSuccess()
	b.RecordSuccess()
	b.RecordSuccess()
	_, change = b.RecordFailure()
	assert.False(t, change.Opened)
	_, change = b.RecordFailure()
	assert.True(t, change.Opened)
}

func TestBreaker_HalfOpenAdmitsOnlyOneProbeAtATime(t *testing.T) {
	b := New("test", WithFailureThreshold(1), WithResetTimeout(0), WithRollingWindow(time.Minute, 1))

	b.RecordFailure()
	require := assert.New(t)
	require.True(b.IsOpen())

	require.True(b.AcquireProbeSlot(time.Now()), "first caller claims the half-open probe slot")
	require.Equal(StateHalfOpen, b.State())
	require.False(b.AcquireProbeSlot(time.Now()), "a second concurrent caller must be refused")

	// Releasing the outcome frees the slot for the next probe.
	b.RecordFailure()
	require.True(b.AcquireProbeSlot(time.Now()), "slot is released once the outstanding probe's outcome is recorded")
}

func TestBreaker_AllowProbeDoesNotClaimTheHalfOpenSlot(t *testing.T) {
	b := New("test", WithFailureThreshold(1), WithResetTimeout(0), WithRollingWindow(time.Minute, 1))
	b.RecordFailure()

	now := time.Now()
	assert.True(t, b.AllowProbe(now))
	assert.True(t, b.AllowProbe(now), "AllowProbe is a non-consuming viability check")
	assert.True(t, b.AcquireProbeSlot(now), "the slot is still free for the first real caller")
}
