// Package coalesce wraps golang.org/x/sync/singleflight with the counted
// "joined" signal and context-cancellation forwarding the engine needs: the
// stdlib group alone reports only a single "shared" bool, not how many
// callers joined, and does not itself observe an individual caller's
// context being cancelled while another caller's call is in flight.
package coalesce

import (
	"context"

	"golang.org/x/sync/singleflight"
)

// JoinObserver is notified whenever a caller coalesces onto an in-flight
// call rather than starting a new one. Typically wired to a metrics
// counter (coalescedRequests).
type JoinObserver func(key string)

// Group coalesces concurrent calls sharing a key.
type Group struct {
	group    singleflight.Group
	onJoin   JoinObserver
}

// New builds a Group. onJoin may be nil.
func New(onJoin JoinObserver) *Group {
	if onJoin == nil {
		onJoin = func(string) {}
	}
	return &Group{onJoin: onJoin}
}

// Do runs fn for key, or waits for and returns an in-flight call's result
// if one is already running. It returns early if ctx is cancelled while
// waiting on someone else's call, even though the underlying call (run on
// behalf of the first caller) continues until its own context ends: that
// context is detached from every individual caller's cancellation, but it
// keeps whichever deadline the first caller's ctx carried, so the shared
// call still times out instead of running unbounded once nobody is left
// waiting on it. The bool result reports whether this caller joined another
// caller's in-flight call instead of running fn itself.
func (g *Group) Do(ctx context.Context, key string, fn func(ctx context.Context) (any, error)) (any, error, bool) {
	type outcome struct {
		singleflight.Result
		joined bool
	}
	resultCh := make(chan outcome, 1)

	go func() {
		sharedCtx := context.WithoutCancel(ctx)
		if deadline, ok := ctx.Deadline(); ok {
			var cancel context.CancelFunc
			sharedCtx, cancel = context.WithDeadline(sharedCtx, deadline)
			defer cancel()
		}
		ran := false
		v, err, shared := g.group.Do(key, func() (any, error) {
			ran = true
			return fn(sharedCtx)
		})
		resultCh <- outcome{Result: singleflight.Result{Val: v, Err: err, Shared: shared}, joined: shared && !ran}
	}()

	select {
	case <-ctx.Done():
		return nil, ctx.Err(), false
	case res := <-resultCh:
		if res.joined {
			g.onJoin(key)
		}
		return res.Val, res.Err, res.joined
	}
}
