// Package backend defines the shared key-value store port the cache layer
// is built on, plus redis and in-process LRU adapters.
package backend

import "context"

// Backend is a TTL-respecting byte store. A miss is (nil, false, nil), not
// an error; only transport failures return an error.
type Backend interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttlSeconds int) error
	Delete(ctx context.Context, key string) error
}
