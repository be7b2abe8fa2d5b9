//go:build integration

package redis_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	backendredis "enrichcore/internal/cache/backend/redis"
	"enrichcore/pkg/testutil/containers"
)

func TestBackend_SetGetDelete(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	rc := containers.NewRedisContainer(t)
	require.NoError(t, rc.FlushAll(context.Background()))

	backend, err := backendredis.New("redis://" + rc.Addr)
	require.NoError(t, err)

	ctx := context.Background()

	_, ok, err := backend.Get(ctx, "cell:missing")
	require.NoError(t, err)
	require.False(t, ok)

	require.NoError(t, backend.Set(ctx, "cell:present", []byte(`{"v":1}`), 60))
	val, ok, err := backend.Get(ctx, "cell:present")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, `{"v":1}`, string(val))

	require.NoError(t, backend.Delete(ctx, "cell:present"))
	_, ok, err = backend.Get(ctx, "cell:present")
	require.NoError(t, err)
	require.False(t, ok)
}

func TestBackend_TTLExpires(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	rc := containers.NewRedisContainer(t)
	require.NoError(t, rc.FlushAll(context.Background()))

	backend, err := backendredis.New("redis://" + rc.Addr)
	require.NoError(t, err)

	ctx := context.Background()
	require.NoError(t, backend.Set(ctx, "cell:short", []byte("x"), 1))
	time.Sleep(1200 * time.Millisecond)

	_, ok, err := backend.Get(ctx, "cell:short")
	require.NoError(t, err)
	require.False(t, ok)
}
