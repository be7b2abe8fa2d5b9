package smartenrich

import (
	"context"
	"strings"
)

// MockFetcher returns canned homepage HTML so tests and demos never hit
// the network. Domains containing "parked" return a parked page; domains
// containing "unreachable" fail the fetch.
type MockFetcher struct{}

// NewMockFetcher builds a MockFetcher.
func NewMockFetcher() *MockFetcher { return &MockFetcher{} }

// Fetch implements Fetcher.
func (f *MockFetcher) Fetch(ctx context.Context, url string) (string, error) {
	switch {
	case strings.Contains(url, "parked"):
		return "<html><head><title>Domain Parked</title></head><body>This domain is for sale.</body></html>", nil
	case strings.Contains(url, "unreachable"):
		return "", errUnreachable
	default:
		name := strings.TrimSuffix(url, ".com")
		return "<html><head><title>" + name + " | Official Site</title></head><body>Welcome to " + name + ", a technology company.</body></html>", nil
	}
}

var errUnreachable = &transientStatusError{status: 0}
