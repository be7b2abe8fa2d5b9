// Package circuit implements a per-provider circuit breaker: closed, open,
// and half-open states. The closed->open transition requires a minimum
// number of requests within a rolling time window before the failure count
// trips it, half-open admits a single in-flight probe at a time, and a
// separate rolling window of recent call outcomes feeds the planner's
// health-based ranking.
package circuit

import (
	"sync"
	"time"
)

// State is one of the three breaker states.
type State int

const (
	StateClosed State = iota
	StateOpen
	StateHalfOpen
)

func (s State) String() string {
	switch s {
	case StateOpen:
		return "open"
	case StateHalfOpen:
		return "half_open"
	default:
		return "closed"
	}
}

// StateChange reports whether a RecordFailure/RecordSuccess call caused a
// transition, so callers can log or emit metrics only on the edges.
type StateChange struct {
	Opened bool
	Closed bool
}

// Option configures a Breaker at construction time.
type Option func(*Breaker)

// WithFailureThreshold sets how many consecutive failures trip the breaker
// from closed to open. Default 5.
func WithFailureThreshold(n int) Option {
	return func(b *Breaker) { b.failureThreshold = n }
}

// WithSuccessThreshold sets how many consecutive successes while half-open
// (or open, in this breaker's simplified model) are required to close it.
// Default 2.
func WithSuccessThreshold(n int) Option {
	return func(b *Breaker) { b.successThreshold = n }
}

// WithResetTimeout sets how long the breaker stays open before allowing a
// probe call through as half-open. Default 30s.
func WithResetTimeout(d time.Duration) Option {
	return func(b *Breaker) { b.resetTimeout = d }
}

// WithWindow sets the size of the rolling call-outcome window used for
// health reporting. Default 50.
func WithWindow(n int) Option {
	return func(b *Breaker) {
		b.windowCap = n
		b.window = make([]bool, 0, n)
	}
}

// WithRollingWindow sets the time window and minimum request count gating
// the closed->open transition: the breaker only opens once at least
// minimumRequests calls have landed within the last windowDuration and the
// failure count among them meets failureThreshold. Defaults: 60s, 10.
func WithRollingWindow(windowDuration time.Duration, minimumRequests int) Option {
	return func(b *Breaker) {
		b.windowDuration = windowDuration
		b.minimumRequests = minimumRequests
	}
}

// Breaker tracks the health of calls to a single named dependency (normally
// a provider ID) and decides when callers should fall back.
type Breaker struct {
	mu sync.Mutex

	name  string
	state State

	failureThreshold int
	successThreshold int
	resetTimeout     time.Duration

	consecutiveFailures  int
	consecutiveSuccesses int
	openedAt             time.Time

	window       []bool
	windowCap    int
	latencies    []time.Duration
	latencyCap   int

	windowDuration  time.Duration
	minimumRequests int
	events          []event
	probeInFlight   bool
}

// event is a timestamped call outcome used to evaluate the rolling-window
// open condition, independent of the health-reporting window above.
type event struct {
	at      time.Time
	success bool
}

// New builds a closed Breaker for the given name.
func New(name string, opts ...Option) *Breaker {
	b := &Breaker{
		name:             name,
		state:            StateClosed,
		failureThreshold: 5,
		successThreshold: 2,
		resetTimeout:     30 * time.Second,
		windowCap:        50,
		latencyCap:       50,
		windowDuration:   60 * time.Second,
		minimumRequests:  10,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Name returns the breaker's identifier.
func (b *Breaker) Name() string {
	return b.name
}

// State returns the current state.
func (b *Breaker) State() State {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.state
}

// IsOpen reports whether calls should currently be routed to a fallback.
// A breaker past its reset timeout is reported as still open here; callers
// that want half-open probe semantics should use AllowProbe.
func (b *Breaker) IsOpen() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.state == StateOpen || b.state == StateHalfOpen
}

// AllowProbe reports whether the dependency is currently viable to call at
// all: closed, half-open, or open past its reset timeout. It transitions
// Open -> HalfOpen once resetTimeout has elapsed, but does not claim the
// half-open probe slot; a caller about to actually place the call should use
// AcquireProbeSlot so only one probe is in flight at a time.
func (b *Breaker) AllowProbe(now time.Time) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.viable(now)
}

// AcquireProbeSlot reports whether the caller may place a call right now. In
// Closed it always admits. In HalfOpen it admits exactly one caller until
// RecordSuccess or RecordFailure releases the slot; every other concurrent
// caller is refused rather than piling more trial traffic onto a recovering
// dependency.
func (b *Breaker) AcquireProbeSlot(now time.Time) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	if !b.viable(now) {
		return false
	}
	if b.state == StateHalfOpen {
		if b.probeInFlight {
			return false
		}
		b.probeInFlight = true
	}
	return true
}

func (b *Breaker) viable(now time.Time) bool {
	switch b.state {
	case StateClosed, StateHalfOpen:
		return true
	case StateOpen:
		if now.Sub(b.openedAt) >= b.resetTimeout {
			b.state = StateHalfOpen
			return true
		}
		return false
	}
	return false
}

// RecordFailure records a failed call. It returns whether the caller should
// use its fallback path, and whether this call transitioned the breaker to
// open.
func (b *Breaker) RecordFailure() (useFallback bool, change StateChange) {
	b.mu.Lock()
	defer b.mu.Unlock()

	now := time.Now()
	b.recordOutcome(false)
	b.recordEvent(now, false)
	b.consecutiveFailures++
	b.consecutiveSuccesses = 0

	switch b.state {
	case StateClosed:
		if b.shouldOpen(now) {
			b.state = StateOpen
			b.openedAt = now
			change.Opened = true
		}
	case StateHalfOpen:
		b.state = StateOpen
		b.openedAt = now
		b.probeInFlight = false
	}

	useFallback = b.state == StateOpen || b.state == StateHalfOpen
	return useFallback, change
}

// RecordSuccess records a successful call. It returns whether the caller
// may now use the primary path, and whether this call closed the breaker.
func (b *Breaker) RecordSuccess() (usePrimary bool, change StateChange) {
	b.mu.Lock()
	defer b.mu.Unlock()

	now := time.Now()
	b.recordOutcome(true)
	b.recordEvent(now, true)
	b.consecutiveSuccesses++
	b.consecutiveFailures = 0

	switch b.state {
	case StateHalfOpen:
		b.probeInFlight = false
		if b.consecutiveSuccesses >= b.successThreshold {
			b.state = StateClosed
			change.Closed = true
			b.events = b.events[:0]
		}
	case StateOpen:
		if b.consecutiveSuccesses >= b.successThreshold {
			b.state = StateClosed
			change.Closed = true
			b.events = b.events[:0]
		}
	}

	usePrimary = b.state == StateClosed
	return usePrimary, change
}

// shouldOpen reports whether the closed->open condition holds: at least
// minimumRequests calls within the last windowDuration, and the
// consecutive-failure count has reached failureThreshold. The window guards
// against tripping on a handful of calls right after startup or a long
// idle period; the consecutive count is what a success resets.
func (b *Breaker) shouldOpen(now time.Time) bool {
	b.trimEvents(now)
	if len(b.events) < b.minimumRequests {
		return false
	}
	return b.consecutiveFailures >= b.failureThreshold
}

func (b *Breaker) recordEvent(at time.Time, success bool) {
	b.events = append(b.events, event{at: at, success: success})
	b.trimEvents(at)
}

func (b *Breaker) trimEvents(now time.Time) {
	cutoff := now.Add(-b.windowDuration)
	i := 0
	for i < len(b.events) && b.events[i].at.Before(cutoff) {
		i++
	}
	if i > 0 {
		b.events = b.events[i:]
	}
}

// RecordLatency appends an observed call latency to the rolling window,
// used by Health for p50 reporting. It does not affect open/closed state.
func (b *Breaker) RecordLatency(d time.Duration) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.latencies = append(b.latencies, d)
	if len(b.latencies) > b.latencyCap {
		b.latencies = b.latencies[len(b.latencies)-b.latencyCap:]
	}
}

// Reset forces the breaker back to closed with all counters cleared.
func (b *Breaker) Reset() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.state = StateClosed
	b.consecutiveFailures = 0
	b.consecutiveSuccesses = 0
	b.window = b.window[:0]
	b.events = b.events[:0]
	b.probeInFlight = false
}

// Health summarizes the rolling window for provider ranking.
type Health struct {
	State        State
	ErrorRate    float64
	SampleCount  int
	P50Latency   time.Duration
}

// Health reports the breaker's current state plus rolling error rate and
// p50 latency, used by the planner to prefer the healthiest provider within
// a tier.
func (b *Breaker) Health() Health {
	b.mu.Lock()
	defer b.mu.Unlock()

	h := Health{State: b.state, SampleCount: len(b.window)}
	if len(b.window) > 0 {
		failures := 0
		for _, ok := range b.window {
			if !ok {
				failures++
			}
		}
		h.ErrorRate = float64(failures) / float64(len(b.window))
	}
	if len(b.latencies) > 0 {
		sorted := append([]time.Duration(nil), b.latencies...)
		insertionSort(sorted)
		h.P50Latency = sorted[len(sorted)/2]
	}
	return h
}

func (b *Breaker) recordOutcome(success bool) {
	cap := b.windowCap
	if cap == 0 {
		cap = 50
	}
	b.window = append(b.window, success)
	if len(b.window) > cap {
		b.window = b.window[len(b.window)-cap:]
	}
}

func insertionSort(d []time.Duration) {
	for i := 1; i < len(d); i++ {
		for j := i; j > 0 && d[j-1] > d[j]; j-- {
			d[j-1], d[j] = d[j], d[j-1]
		}
	}
}
