package coalesce_test

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"enrichcore/pkg/platform/coalesce"
)

func TestDo_ConcurrentCallsShareOneExecution(t *testing.T) {
	var calls int32
	var joins int32
	g := coalesce.New(func(key string) { atomic.AddInt32(&joins, 1) })

	started := make(chan struct{})
	release := make(chan struct{})
	fn := func(ctx context.Context) (any, error) {
		n := atomic.AddInt32(&calls, 1)
		if n == 1 {
			close(started)
			<-release
		}
		return "value", nil
	}

	var wg sync.WaitGroup
	results := make([]any, 2)
	wg.Add(2)
	go func() {
		defer wg.Done()
		v, _, _ := g.Do(context.Background(), "row:field", fn)
		results[0] = v
	}()

	<-started
	go func() {
		defer wg.Done()
		v, _, _ := g.Do(context.Background(), "row:field", fn)
		results[1] = v
	}()

	time.Sleep(20 * time.Millisecond)
	close(release)
	wg.Wait()

	require.Equal(t, int32(1), atomic.LoadInt32(&calls), "only the first caller actually executes fn")
	require.Equal(t, "value", results[0])
	require.Equal(t, "value", results[1])
	require.Equal(t, int32(1), atomic.LoadInt32(&joins), "the joining caller triggers exactly one onJoin")
}

func TestDo_DifferentKeysRunIndependently(t *testing.T) {
	g := coalesce.New(nil)
	var calls int32

	fn := func(ctx context.Context) (any, error) {
		atomic.AddInt32(&calls, 1)
		return nil, nil
	}

	_, _, _ = g.Do(context.Background(), "a", fn)
	_, _, _ = g.Do(context.Background(), "b", fn)

	require.Equal(t, int32(2), atomic.LoadInt32(&calls))
}

func TestDo_SharedCallStillRespectsTheFirstCallersDeadline(t *testing.T) {
	g := coalesce.New(nil)
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	fnDone := make(chan error, 1)
	fn := func(ctx context.Context) (any, error) {
		select {
		case <-ctx.Done():
			fnDone <- ctx.Err()
		case <-time.After(200 * time.Millisecond):
			fnDone <- nil
		}
		return nil, nil
	}

	_, _, _ = g.Do(ctx, "row:field", fn)

	select {
	case err := <-fnDone:
		require.ErrorIs(t, err, context.DeadlineExceeded, "detaching from caller cancellation must not also erase the caller's deadline")
	case <-time.After(500 * time.Millisecond):
		t.Fatal("fn never observed its context ending")
	}
}

func TestDo_CallerContextCancellationReturnsEarly(t *testing.T) {
	g := coalesce.New(nil)
	ctx, cancel := context.WithCancel(context.Background())

	fn := func(ctx context.Context) (any, error) {
		time.Sleep(50 * time.Millisecond)
		return "late", nil
	}

	cancel()
	_, err, _ := g.Do(ctx, "row:field", fn)

	require.ErrorIs(t, err, context.Canceled)
}
