// Package cache implements the cell-level and provider-response caches,
// with negative entries and a versioned-key invalidation scheme. A shared
// backend is preferred; an in-process LRU fallback is always consulted
// first and kept warm so a shared-store outage degrades, rather than fails,
// lookups.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"enrichcore/internal/cache/backend"
	"enrichcore/pkg/domain"
)

const negativeMarker = "\x00negative\x00"

// Result is the outcome of a Get.
type Result struct {
	Hit        bool
	IsNegative bool
	Value      domain.FieldValue
}

// Cache fronts a shared backend with a process-local LRU, and supports
// negative caching and version-based bulk invalidation.
type Cache struct {
	shared     backend.Backend
	local      backend.Backend
	log        *slog.Logger
	version    atomic.Int64
	defaultTTL int
	negativeTTL int
}

// Option configures a Cache at construction time.
type Option func(*Cache)

// WithDefaultTTL overrides the positive-entry TTL in seconds. Default 3600.
func WithDefaultTTL(seconds int) Option {
	return func(c *Cache) { c.defaultTTL = seconds }
}

// WithNegativeTTL overrides the negative-entry TTL in seconds. Default 300.
func WithNegativeTTL(seconds int) Option {
	return func(c *Cache) { c.negativeTTL = seconds }
}

// WithVersion seeds the cache's version counter; bumping it invalidates
// every previously written key without touching the backend.
func WithVersion(v int64) Option {
	return func(c *Cache) { c.version.Store(v) }
}

// New builds a Cache. shared may be nil, in which case only local is used.
func New(shared, local backend.Backend, log *slog.Logger, opts ...Option) *Cache {
	c := &Cache{shared: shared, local: local, log: log, defaultTTL: 3600, negativeTTL: 300}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// CellKey builds the versioned key for a cell-level cache entry.
func (c *Cache) CellKey(rowID domain.RowID, field string) string {
	return fmt.Sprintf("v%d:cell:%s:%s", c.version.Load(), rowID, field)
}

// ProviderKey builds the versioned key for a provider-response cache entry.
func (c *Cache) ProviderKey(rowID domain.RowID, provider domain.ProviderID) string {
	return fmt.Sprintf("v%d:provider:%s:%s", c.version.Load(), rowID, provider)
}

// InvalidateAll bumps the version, making every previously written key
// unreachable without touching the backend.
func (c *Cache) InvalidateAll() {
	c.version.Add(1)
}

// Get looks up key, checking the local LRU first, then the shared backend
// if present. A shared hit is copied into local.
func (c *Cache) Get(ctx context.Context, key string) Result {
	raw, ok := c.getRaw(ctx, key)
	if !ok {
		return Result{}
	}
	return decode(raw)
}

func (c *Cache) getRaw(ctx context.Context, key string) ([]byte, bool) {
	if raw, ok, _ := c.local.Get(ctx, key); ok {
		return raw, true
	}
	if c.shared != nil {
		raw, ok, err := c.shared.Get(ctx, key)
		if err != nil {
			c.log.WarnContext(ctx, "shared cache get failed, using local only", "error", err)
		} else if ok {
			_ = c.local.Set(ctx, key, raw, c.defaultTTL)
			return raw, true
		}
	}
	return nil, false
}

// SetProviderResponse caches a provider's raw per-row response, so a second
// field routed to the same provider for the same row can be served from the
// cached payload instead of a second upstream call.
func (c *Cache) SetProviderResponse(ctx context.Context, key string, raw map[string]any) {
	data, err := json.Marshal(raw)
	if err != nil {
		return
	}
	c.write(ctx, key, data, c.defaultTTL)
}

// GetProviderResponse looks up a cached raw provider response. ok is false
// on a miss, a negative entry, or a decode failure.
func (c *Cache) GetProviderResponse(ctx context.Context, key string) (raw map[string]any, ok bool) {
	data, hit := c.getRaw(ctx, key)
	if !hit || string(data) == negativeMarker {
		return nil, false
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, false
	}
	return raw, true
}

// Set writes a positive entry.
func (c *Cache) Set(ctx context.Context, key string, value domain.FieldValue) {
	raw, err := json.Marshal(value)
	if err != nil {
		return
	}
	c.write(ctx, key, raw, c.defaultTTL)
}

// SetNegative writes a negative entry: "known to be unenrichable".
func (c *Cache) SetNegative(ctx context.Context, key string) {
	c.write(ctx, key, []byte(negativeMarker), c.negativeTTL)
}

func (c *Cache) write(ctx context.Context, key string, raw []byte, ttl int) {
	if err := c.local.Set(ctx, key, raw, ttl); err != nil {
		c.log.WarnContext(ctx, "local cache set failed", "error", err)
	}
	if c.shared != nil {
		if err := c.shared.Set(ctx, key, raw, ttl); err != nil {
			c.log.WarnContext(ctx, "shared cache set failed, local remains authoritative", "error", err)
		}
	}
}

// GetMultiple looks up several keys in one call.
func (c *Cache) GetMultiple(ctx context.Context, keys []string) map[string]Result {
	out := make(map[string]Result, len(keys))
	for _, k := range keys {
		out[k] = c.Get(ctx, k)
	}
	return out
}

// SetMultiple writes several positive entries in one call.
func (c *Cache) SetMultiple(ctx context.Context, values map[string]domain.FieldValue) {
	for k, v := range values {
		c.Set(ctx, k, v)
	}
}

func decode(raw []byte) Result {
	if string(raw) == negativeMarker {
		return Result{Hit: true, IsNegative: true}
	}
	var v domain.FieldValue
	if err := json.Unmarshal(raw, &v); err != nil {
		return Result{}
	}
	return Result{Hit: true, Value: v}
}

// Clock is a time-source function type. Nothing in this package takes one:
// Cache hands TTLs to its backends and reads no clock itself.
type Clock func() time.Time
