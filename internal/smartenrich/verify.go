package smartenrich

import (
	"context"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"golang.org/x/net/html"
)

const (
	baseScore = 0.3

	bonusCanonicalDomain  = 0.25
	bonusNameInTitle      = 0.25
	bonusIndustryInSERP   = 0.15
	penaltyDirectoryPage  = -0.3
	penaltyUnreachable    = -0.2
	bonusNameInHomeTitle  = 0.2
	penaltyParkedDomain   = -0.4
	bonusIndustryOnHome   = 0.1

	homepageFetchTimeout = 5 * time.Second
)

var directoryKeywords = []string{"directory", "listing", "yellow pages", "business directory"}
var parkedMarkers = []string{"domain is parked", "buy this domain", "this domain is for sale", "future home of"}

// Fetcher retrieves a homepage's HTML. Split out from verify for testing.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (string, error)
}

// HTTPFetcher fetches over the network with retry on transient failures.
type HTTPFetcher struct {
	client *http.Client
}

// NewHTTPFetcher builds an HTTPFetcher.
func NewHTTPFetcher() *HTTPFetcher {
	return &HTTPFetcher{client: &http.Client{Timeout: homepageFetchTimeout}}
}

// Fetch implements Fetcher, retrying network errors and 5xx responses up to
// twice with exponential backoff; each attempt is bounded by the homepage
// fetch timeout.
func (f *HTTPFetcher) Fetch(ctx context.Context, url string) (string, error) {
	var body string
	operation := func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, "https://"+url, nil)
		if err != nil {
			return backoff.Permanent(err)
		}
		resp, err := f.client.Do(req)
		if err != nil {
			return err
		}
		defer resp.Body.Close()
		if resp.StatusCode >= 500 {
			return &transientStatusError{resp.StatusCode}
		}
		if resp.StatusCode >= 400 {
			return backoff.Permanent(&transientStatusError{resp.StatusCode})
		}
		raw, err := io.ReadAll(io.LimitReader(resp.Body, 512*1024))
		if err != nil {
			return err
		}
		body = string(raw)
		return nil
	}

	policy := backoff.WithMaxRetries(backoff.NewExponentialBackOff(), 2)
	if err := backoff.Retry(operation, backoff.WithContext(policy, ctx)); err != nil {
		return "", err
	}
	return body, nil
}

type transientStatusError struct{ status int }

func (e *transientStatusError) Error() string { return "homepage fetch failed with transient status" }

// verifyCandidate scores c against companyName and the SERP text it came
// with, optionally fetching its homepage for the on-page signals.
func verifyCandidate(ctx context.Context, fetcher Fetcher, c Candidate, companyName string) float64 {
	score := baseScore

	if c.Domain == canonicalDomainGuess(companyName) {
		score += bonusCanonicalDomain
	}

	serpText := strings.ToLower(c.Title + " " + c.Snippet)
	companyLower := strings.ToLower(companyName)
	if strings.Contains(serpText, companyLower) {
		score += bonusNameInTitle
	}
	if industryKeywordPresent(serpText) {
		score += bonusIndustryInSERP
	}
	if containsAny(serpText, directoryKeywords) {
		score += penaltyDirectoryPage
	}

	homepage, err := fetcher.Fetch(ctx, c.Domain)
	if err != nil || strings.TrimSpace(homepage) == "" {
		score += penaltyUnreachable
		return clamp(score)
	}

	title := extractTitle(homepage)
	lowerHomepage := strings.ToLower(homepage)
	lowerTitle := strings.ToLower(title)

	if strings.Contains(lowerTitle, companyLower) {
		score += bonusNameInHomeTitle
	}
	if containsAny(lowerHomepage, parkedMarkers) {
		score += penaltyParkedDomain
	}
	if industryKeywordPresent(lowerHomepage) {
		score += bonusIndustryOnHome
	}

	return clamp(score)
}

func extractTitle(document string) string {
	tokenizer := html.NewTokenizer(strings.NewReader(document))
	inTitle := false
	for {
		tt := tokenizer.Next()
		switch tt {
		case html.ErrorToken:
			return ""
		case html.StartTagToken:
			if tokenizer.Token().Data == "title" {
				inTitle = true
			}
		case html.TextToken:
			if inTitle {
				return strings.TrimSpace(tokenizer.Token().Data)
			}
		}
	}
}

func industryKeywordPresent(text string) bool {
	keywords := []string{"software", "technology", "consulting", "manufacturing", "healthcare", "finance", "retail"}
	return containsAny(text, keywords)
}

func containsAny(haystack string, needles []string) bool {
	for _, n := range needles {
		if strings.Contains(haystack, n) {
			return true
		}
	}
	return false
}

func clamp(f float64) float64 {
	if f < 0 {
		return 0
	}
	if f > 1 {
		return 1
	}
	return f
}
