// Package redis backs the key store with a shared Redis instance so key
// state survives process restarts across a fleet of workers.
package redis

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// Store adapts a go-redis client to keymanager.Store.
type Store struct {
	client *redis.Client
}

// New builds a Store from a Redis connection URL (e.g. "redis://host:6379/0").
func New(url string) (*Store, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, err
	}
	return &Store{client: redis.NewClient(opts)}, nil
}

// Get implements keymanager.Store.
func (s *Store) Get(ctx context.Context, key string) ([]byte, bool, error) {
	val, err := s.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return val, true, nil
}

// Set implements keymanager.Store.
func (s *Store) Set(ctx context.Context, key string, value []byte, ttlSeconds int) error {
	return s.client.Set(ctx, key, value, time.Duration(ttlSeconds)*time.Second).Err()
}
