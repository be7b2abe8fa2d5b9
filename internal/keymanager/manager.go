// Package keymanager implements the per-provider rotating API key pool:
// key selection, exhaustion tracking, and best-effort persistence to a
// shared store.
package keymanager

import (
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"sync"
	"time"

	dErrors "enrichcore/pkg/domainerrors"
	"enrichcore/internal/providers"
	"enrichcore/pkg/domain"
)

// KeyStatus is the lifecycle state of one API key.
type KeyStatus string

const (
	KeyActive    KeyStatus = "active"
	KeyExhausted KeyStatus = "exhausted"
	KeyError     KeyStatus = "error"
)

// keyState is the persisted shape of one key's state.
type keyState struct {
	Key         string     `json:"key"`
	Status      KeyStatus  `json:"status"`
	ErrorCount  int        `json:"errorCount"`
	ExhaustedAt *time.Time `json:"exhaustedAt,omitempty"`
	LastError   string     `json:"lastError,omitempty"`
}

// providerPool is one provider's set of keys.
type providerPool struct {
	mu   sync.Mutex
	keys []*keyState
}

// Manager tracks key health per provider and persists state best-effort.
type Manager struct {
	mu                  sync.RWMutex
	pools               map[domain.ProviderID]*providerPool
	store               Store
	log                 *slog.Logger
	recoveryTimeout     time.Duration
	maxErrorsBeforeSwitch int
}

// Option configures a Manager at construction time.
type Option func(*Manager)

// WithRecoveryTimeout overrides how long an exhausted key stays exhausted
// before it is retried. Default 15 minutes.
func WithRecoveryTimeout(d time.Duration) Option {
	return func(m *Manager) { m.recoveryTimeout = d }
}

// WithMaxErrorsBeforeSwitch overrides how many plain errors promote a key
// to exhausted. Default 3.
func WithMaxErrorsBeforeSwitch(n int) Option {
	return func(m *Manager) { m.maxErrorsBeforeSwitch = n }
}

// New builds a Manager. keysByProvider seeds each provider's pool from its
// <PROVIDER>_API_KEY comma-separated environment value.
func New(store Store, log *slog.Logger, keysByProvider map[domain.ProviderID][]string, opts ...Option) *Manager {
	m := &Manager{
		pools:                 make(map[domain.ProviderID]*providerPool),
		store:                 store,
		log:                   log,
		recoveryTimeout:       15 * time.Minute,
		maxErrorsBeforeSwitch: 3,
	}
	for _, opt := range opts {
		opt(m)
	}
	for provider, keys := range keysByProvider {
		pool := &providerPool{}
		for _, k := range keys {
			k = strings.TrimSpace(k)
			if k == "" {
				continue
			}
			pool.keys = append(pool.keys, &keyState{Key: k, Status: KeyActive})
		}
		m.pools[provider] = pool
	}
	return m
}

func (m *Manager) poolFor(provider domain.ProviderID) *providerPool {
	m.mu.Lock()
	defer m.mu.Unlock()
	pool, ok := m.pools[provider]
	if !ok {
		pool = &providerPool{}
		m.pools[provider] = pool
	}
	return pool
}

// GetKey returns the first active key for provider, recovering an exhausted
// key whose recovery timeout has elapsed if no key is currently active.
//
// Errors: CodeUnavailable when the provider has no usable key.
func (m *Manager) GetKey(ctx context.Context, provider domain.ProviderID) (string, error) {
	pool := m.poolFor(provider)
	pool.mu.Lock()
	defer pool.mu.Unlock()

	for _, k := range pool.keys {
		if k.Status == KeyActive {
			return k.Key, nil
		}
	}
	now := time.Now()
	for _, k := range pool.keys {
		if k.Status == KeyExhausted && k.ExhaustedAt != nil && now.Sub(*k.ExhaustedAt) >= m.recoveryTimeout {
			k.Status = KeyActive
			k.ErrorCount = 0
			go m.persist(provider, pool)
			return k.Key, nil
		}
	}
	return "", dErrors.New(dErrors.CodeUnavailable, "no active key for provider "+string(provider))
}

// MarkExhausted marks key as exhausted for provider.
func (m *Manager) MarkExhausted(ctx context.Context, provider domain.ProviderID, key, reason string) {
	pool := m.poolFor(provider)
	pool.mu.Lock()
	now := time.Now()
	for _, k := range pool.keys {
		if k.Key == key {
			k.Status = KeyExhausted
			k.ExhaustedAt = &now
			k.LastError = reason
		}
	}
	pool.mu.Unlock()
	m.persist(provider, pool)
}

// MarkError increments key's error count, promoting it to exhausted once
// maxErrorsBeforeSwitch is reached.
func (m *Manager) MarkError(ctx context.Context, provider domain.ProviderID, key string, err error) {
	pool := m.poolFor(provider)
	pool.mu.Lock()
	now := time.Now()
	for _, k := range pool.keys {
		if k.Key == key {
			k.ErrorCount++
			k.LastError = err.Error()
			if k.ErrorCount >= m.maxErrorsBeforeSwitch {
				k.Status = KeyExhausted
				k.ExhaustedAt = &now
			}
		}
	}
	pool.mu.Unlock()
	m.persist(provider, pool)
}

// WithKey attempts fn with each active key at most once, rotating on
// rate-limit-type errors only; any other error bubbles up after one
// attempt.
func (m *Manager) WithKey(ctx context.Context, provider domain.ProviderID, fn func(key string) error) error {
	pool := m.poolFor(provider)
	attempted := make(map[string]bool)

	for {
		key, err := m.GetKey(ctx, provider)
		if err != nil {
			return err
		}
		if attempted[key] {
			return dErrors.New(dErrors.CodeUnavailable, "exhausted all keys for provider "+string(provider))
		}
		attempted[key] = true

		callErr := fn(key)
		if callErr == nil {
			return nil
		}
		if rle, ok := callErr.(*providers.RateLimitError); ok {
			m.MarkExhausted(ctx, provider, key, rle.Reason)
			if len(attempted) >= len(pool.keys) {
				return callErr
			}
			continue
		}
		m.MarkError(ctx, provider, key, callErr)
		return callErr
	}
}

// persist writes the pool's state to the shared store, best-effort. A
// failure here never surfaces to the caller; it is logged and swallowed.
func (m *Manager) persist(provider domain.ProviderID, pool *providerPool) {
	if m.store == nil {
		return
	}
	pool.mu.Lock()
	payload, err := json.Marshal(pool.keys)
	pool.mu.Unlock()
	if err != nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := m.store.Set(ctx, "apikey:state:"+string(provider), payload, 7*24*3600); err != nil {
		m.log.WarnContext(ctx, "key state persist failed", "provider", provider, "error", err)
	}
}
