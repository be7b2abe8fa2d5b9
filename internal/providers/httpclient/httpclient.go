// Package httpclient is the shared HTTP plumbing every real provider driver
// builds on: a per-call timeout, status-to-error-taxonomy classification,
// and rate-limit-marker detection for the key manager.
package httpclient

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"enrichcore/internal/providers"
	"enrichcore/pkg/domain"
)

// Client wraps net/http with the timeout and classification every provider
// driver needs, so individual drivers stay focused on request shaping.
type Client struct {
	httpClient *http.Client
	timeout    time.Duration
}

// New builds a Client with the given per-call timeout.
func New(timeout time.Duration) *Client {
	return &Client{httpClient: &http.Client{}, timeout: timeout}
}

// Do issues req bounded by the client's timeout (layered onto req's own
// context) and classifies the response.
//
// A non-2xx status is turned into a RateLimitError for 429/403 (so the key
// manager can rotate without escalating), or a plain error for everything
// else. The caller is responsible for decoding a 2xx body.
func (c *Client) Do(req *http.Request, provider domain.ProviderID) (*http.Response, error) {
	ctx, cancel := context.WithTimeout(req.Context(), c.timeout)
	req = req.WithContext(ctx)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		cancel()
		return nil, fmt.Errorf("%s: request failed: %w", provider, err)
	}

	switch {
	case resp.StatusCode == http.StatusTooManyRequests, resp.StatusCode == http.StatusForbidden:
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		resp.Body.Close()
		cancel()
		return nil, &providers.RateLimitError{Provider: provider, Reason: string(body)}
	case resp.StatusCode >= 500:
		resp.Body.Close()
		cancel()
		return nil, fmt.Errorf("%s: upstream error %d", provider, resp.StatusCode)
	case resp.StatusCode >= 400:
		resp.Body.Close()
		cancel()
		return nil, fmt.Errorf("%s: client error %d", provider, resp.StatusCode)
	}
	// The caller still needs to read resp.Body; tie cancel to its Close
	// instead of firing it the moment Do returns.
	resp.Body = &cancelOnCloseBody{ReadCloser: resp.Body, cancel: cancel}
	return resp, nil
}

// cancelOnCloseBody defers releasing the per-call timeout context until the
// caller closes the response body, instead of canceling it as soon as Do
// returns and before the body has been read.
type cancelOnCloseBody struct {
	io.ReadCloser
	cancel context.CancelFunc
}

func (b *cancelOnCloseBody) Close() error {
	defer b.cancel()
	return b.ReadCloser.Close()
}
