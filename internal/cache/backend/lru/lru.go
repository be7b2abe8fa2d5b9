// Package lru is the mandatory in-process fallback used when the shared
// cache store is unavailable, capped by entry count rather than memory.
package lru

import (
	"context"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
)

type entry struct {
	value     []byte
	expiresAt time.Time
}

// Backend wraps a bounded, concurrency-safe LRU as a cache backend.
type Backend struct {
	cache *lru.Cache[string, entry]
}

// New builds a Backend capped at maxEntries.
func New(maxEntries int) (*Backend, error) {
	c, err := lru.New[string, entry](maxEntries)
	if err != nil {
		return nil, err
	}
	return &Backend{cache: c}, nil
}

// Get implements backend.Backend.
func (b *Backend) Get(ctx context.Context, key string) ([]byte, bool, error) {
	e, ok := b.cache.Get(key)
	if !ok {
		return nil, false, nil
	}
	if time.Now().After(e.expiresAt) {
		b.cache.Remove(key)
		return nil, false, nil
	}
	return e.value, true, nil
}

// Set implements backend.Backend.
func (b *Backend) Set(ctx context.Context, key string, value []byte, ttlSeconds int) error {
	b.cache.Add(key, entry{value: value, expiresAt: time.Now().Add(time.Duration(ttlSeconds) * time.Second)})
	return nil
}

// Delete implements backend.Backend.
func (b *Backend) Delete(ctx context.Context, key string) error {
	b.cache.Remove(key)
	return nil
}
