// Package providers defines the uniform contract every data source — mock
// or real — implements, and the registry that indexes them by tier and
// field.
package providers

import (
	"context"
	"errors"

	"enrichcore/pkg/domain"
)

// Provider is the contract every data source implements. A provider
// declares its own capability; the registry never maintains a separate
// static table that could drift from what the provider actually does.
type Provider interface {
	ID() domain.ProviderID
	Capabilities() domain.ProviderCapability
	Enrich(ctx context.Context, input domain.NormalizedInput, field string) (*domain.ProviderResult, error)
	Health(ctx context.Context) error
}

// RateLimitError marks an error as a key-exhaustion / rate-limit signal so
// the key manager can rotate without escalating it as a hard failure.
type RateLimitError struct {
	Provider domain.ProviderID
	Reason   string
}

func (e *RateLimitError) Error() string {
	return "rate limited: " + string(e.Provider) + ": " + e.Reason
}

// IsRateLimit reports whether err (possibly wrapped) is a RateLimitError.
func IsRateLimit(err error) bool {
	var rle *RateLimitError
	return errors.As(err, &rle)
}
