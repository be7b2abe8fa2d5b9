package keymanager

import "context"

// Store persists serialized per-provider key state to a shared backend.
// Any failure must be treated as "no state available" — the manager falls
// back to process-local state rather than erroring.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttlSeconds int) error
}
