// Package smartenrich implements the three-layer candidate -> verify ->
// decide discovery flow for domain/website/industry/companySummary/company,
// used as a specialized provider rather than a generic HTTP driver.
package smartenrich

import (
	"context"
	"fmt"
	"strings"
)

// excludedHosts are never returned as a company's official website.
var excludedHosts = map[string]bool{
	"linkedin.com": true, "twitter.com": true, "x.com": true,
	"facebook.com": true, "instagram.com": true, "youtube.com": true,
	"wikipedia.org": true, "crunchbase.com": true, "bloomberg.com": true,
	"yelp.com": true, "glassdoor.com": true, "zoominfo.com": true,
	"forbes.com": true, "g2.com": true, "capterra.com": true,
	"yellowpages.com": true, "bbb.org": true, "manta.com": true,
}

const maxCandidates = 5

// SearchResult is one SERP hit.
type SearchResult struct {
	URL     string
	Title   string
	Snippet string
}

// Searcher issues the fixed SERP query and returns raw hits.
type Searcher interface {
	Search(ctx context.Context, query string) ([]SearchResult, error)
}

// Candidate is a surviving, non-excluded SERP hit ready for verification.
type Candidate struct {
	Position int
	Domain   string
	Title    string
	Snippet  string
}

// collectCandidates runs the fixed query and filters out excluded hosts,
// keeping at most maxCandidates.
func collectCandidates(ctx context.Context, searcher Searcher, companyName string) ([]Candidate, error) {
	query := fmt.Sprintf("%s official website - landing page", companyName)
	hits, err := searcher.Search(ctx, query)
	if err != nil {
		return nil, err
	}

	var out []Candidate
	for i, hit := range hits {
		host := hostOf(hit.URL)
		if host == "" || isExcluded(host) {
			continue
		}
		out = append(out, Candidate{Position: i, Domain: host, Title: hit.Title, Snippet: hit.Snippet})
		if len(out) >= maxCandidates {
			break
		}
	}
	return out, nil
}

func isExcluded(host string) bool {
	labels := strings.Split(host, ".")
	if len(labels) >= 2 {
		base := strings.Join(labels[len(labels)-2:], ".")
		if excludedHosts[base] {
			return true
		}
	}
	return excludedHosts[host]
}

func hostOf(rawURL string) string {
	s := strings.TrimPrefix(strings.TrimPrefix(rawURL, "https://"), "http://")
	if idx := strings.IndexAny(s, "/?#"); idx >= 0 {
		s = s[:idx]
	}
	return strings.ToLower(strings.TrimPrefix(s, "www."))
}

// canonicalDomainGuess mirrors the SERP mock's naive company-name-to-domain
// transform, used to detect a "canonical match" bonus during verification.
func canonicalDomainGuess(companyName string) string {
	normalized := strings.ToLower(strings.Join(strings.Fields(companyName), ""))
	return normalized + ".com"
}
