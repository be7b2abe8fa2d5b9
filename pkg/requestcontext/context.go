// Package requestcontext provides HTTP-independent context accessors for request-scoped values.
//
// This package defines context keys and getter/setter functions for values that are
// typically set by middleware but consumed by services. By keeping this package free
// of net/http dependencies, services can import only what they need without pulling
// in HTTP-related code.
//
// Usage in services (read values):
//
//	rowID := requestcontext.RowID(ctx)
//	requestID := requestcontext.RequestID(ctx)
//	now := requestcontext.Now(ctx)
//
// Usage in middleware (set values):
//
//	ctx = requestcontext.WithRowID(ctx, rowID)
//	ctx = requestcontext.WithRequestID(ctx, requestID)
package requestcontext

import (
	"context"
	"time"

	id "enrichcore/pkg/domain"
)

// Context key types (unexported for encapsulation).
type (
	rowIDKey       struct{}
	tableIDKey     struct{}
	requestIDKey   struct{}
	requestTimeKey struct{}
)

// Exported context keys for direct use in tests that need context.WithValue.
var (
	ContextKeyRowID       = rowIDKey{}
	ContextKeyTableID     = tableIDKey{}
	ContextKeyRequestID   = requestIDKey{}
	ContextKeyRequestTime = requestTimeKey{}
)

// RowID retrieves the row being enriched from the context.
// Returns the zero value if not set.
func RowID(ctx context.Context) id.RowID {
	if rowID, ok := ctx.Value(ContextKeyRowID).(id.RowID); ok {
		return rowID
	}
	return id.RowID{}
}

// WithRowID injects a row ID into the context.
func WithRowID(ctx context.Context, rowID id.RowID) context.Context {
	return context.WithValue(ctx, ContextKeyRowID, rowID)
}

// TableID retrieves the owning table from the context.
func TableID(ctx context.Context) id.TableID {
	if tableID, ok := ctx.Value(ContextKeyTableID).(id.TableID); ok {
		return tableID
	}
	return id.TableID{}
}

// WithTableID injects a table ID into the context.
func WithTableID(ctx context.Context, tableID id.TableID) context.Context {
	return context.WithValue(ctx, ContextKeyTableID, tableID)
}

// RequestID retrieves the request ID from the context.
func RequestID(ctx context.Context) string {
	if reqID, ok := ctx.Value(ContextKeyRequestID).(string); ok {
		return reqID
	}
	return ""
}

// WithRequestID injects a request ID into the context.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, ContextKeyRequestID, requestID)
}

// Now retrieves the request-scoped time from context.
// Falls back to time.Now() if not set (for non-HTTP contexts like workers, CLI, tests).
func Now(ctx context.Context) time.Time {
	if t, ok := ctx.Value(ContextKeyRequestTime).(time.Time); ok {
		return t
	}
	return time.Now()
}

// WithTime injects a specific time into a context.
// Useful for tests and batch jobs that need a consistent "now" across a run.
func WithTime(ctx context.Context, t time.Time) context.Context {
	return context.WithValue(ctx, ContextKeyRequestTime, t)
}
