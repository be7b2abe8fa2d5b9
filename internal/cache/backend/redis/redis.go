// Package redis adapts a shared Redis instance to the cache backend port.
package redis

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// Backend adapts a go-redis client to backend.Backend.
type Backend struct {
	client *redis.Client
}

// New builds a Backend from a Redis connection URL.
func New(url string) (*Backend, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, err
	}
	return &Backend{client: redis.NewClient(opts)}, nil
}

// Get implements backend.Backend.
func (b *Backend) Get(ctx context.Context, key string) ([]byte, bool, error) {
	val, err := b.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return val, true, nil
}

// Set implements backend.Backend.
func (b *Backend) Set(ctx context.Context, key string, value []byte, ttlSeconds int) error {
	return b.client.Set(ctx, key, value, time.Duration(ttlSeconds)*time.Second).Err()
}

// Delete implements backend.Backend.
func (b *Backend) Delete(ctx context.Context, key string) error {
	return b.client.Del(ctx, key).Err()
}
