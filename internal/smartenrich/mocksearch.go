package smartenrich

import (
	"context"
	"strings"
)

// MockSearcher returns a small deterministic result set so the engine runs
// without a live SERP API, mirroring the shape a real search backend
// would return.
type MockSearcher struct{}

// NewMockSearcher builds a MockSearcher.
func NewMockSearcher() *MockSearcher { return &MockSearcher{} }

// Search implements Searcher.
func (s *MockSearcher) Search(ctx context.Context, query string) ([]SearchResult, error) {
	companyName := strings.TrimSuffix(query, " official website - landing page")
	guess := canonicalDomainGuess(companyName)

	return []SearchResult{
		{
			URL:     "https://" + guess + "/",
			Title:   companyName + " | Official Site",
			Snippet: companyName + " official website - landing page for products and services.",
		},
		{
			URL:     "https://www.linkedin.com/company/" + strings.ToLower(companyName),
			Title:   companyName + " | LinkedIn",
			Snippet: companyName + " company profile on LinkedIn.",
		},
		{
			URL:     "https://www.crunchbase.com/organization/" + strings.ToLower(companyName),
			Title:   companyName + " - Crunchbase",
			Snippet: "Crunchbase profile for " + companyName + ".",
		},
	}, nil
}
