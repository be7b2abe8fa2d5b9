package memory_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"enrichcore/internal/keymanager/store/memory"
)

func TestSetGet_RoundTrips(t *testing.T) {
	s := memory.New()
	require.NoError(t, s.Set(context.Background(), "k", []byte("v"), 60))

	v, ok, err := s.Get(context.Background(), "k")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, []byte("v"), v)
}

func TestGet_MissingKey(t *testing.T) {
	s := memory.New()
	_, ok, err := s.Get(context.Background(), "missing")
	require.NoError(t, err)
	require.False(t, ok)
}

func TestGet_ExpiredEntryIsEvicted(t *testing.T) {
	s := memory.New()
	require.NoError(t, s.Set(context.Background(), "k", []byte("v"), 0))
	time.Sleep(5 * time.Millisecond)

	_, ok, err := s.Get(context.Background(), "k")
	require.NoError(t, err)
	require.False(t, ok)
}
