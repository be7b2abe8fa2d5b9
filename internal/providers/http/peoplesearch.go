// Package http holds real, network-backed provider drivers. Each driver
// reads its API key(s) from its own <PROVIDER>_API_KEY environment variable
// via the key manager and speaks whatever wire format its upstream uses;
// only the resulting ProviderResult crosses into the rest of the engine.
package http

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"enrichcore/internal/keymanager"
	"enrichcore/internal/providers/httpclient"
	"enrichcore/pkg/domain"
)

// PeopleSearch looks up a person's name/title/company by LinkedIn URL or
// email against an upstream people-search API.
type PeopleSearch struct {
	client  *httpclient.Client
	keys    *keymanager.Manager
	baseURL string
}

// NewPeopleSearch builds the driver. baseURL defaults to the upstream's
// production endpoint when empty.
func NewPeopleSearch(keys *keymanager.Manager, baseURL string) *PeopleSearch {
	if baseURL == "" {
		baseURL = "https://api.peoplesearch.example/v1/lookup"
	}
	return &PeopleSearch{client: httpclient.New(10 * time.Second), keys: keys, baseURL: baseURL}
}

// ID implements providers.Provider.
func (p *PeopleSearch) ID() domain.ProviderID { return "peoplesearch" }

// Capabilities implements providers.Provider.
func (p *PeopleSearch) Capabilities() domain.ProviderCapability {
	return domain.ProviderCapability{
		Name: p.ID(), Tier: domain.TierCheap, CostCents: 3,
		SupportedFields: map[string]bool{"name": true, "title": true, "company": true},
	}
}

// Health implements providers.Provider by checking whether any API key is
// currently usable.
func (p *PeopleSearch) Health(ctx context.Context) error {
	_, err := p.keys.GetKey(ctx, p.ID())
	return err
}

type peopleSearchResponse struct {
	Name    string `json:"name"`
	Title   string `json:"title"`
	Company string `json:"company"`
}

// Enrich implements providers.Provider.
func (p *PeopleSearch) Enrich(ctx context.Context, in domain.NormalizedInput, field string) (*domain.ProviderResult, error) {
	if !p.Capabilities().CanEnrich(field) {
		return nil, nil
	}
	if in.LinkedInURL == "" && in.Email == "" {
		return nil, nil
	}

	var parsed *peopleSearchResponse
	err := p.keys.WithKey(ctx, p.ID(), func(key string) error {
		url := fmt.Sprintf("%s?linkedin=%s&email=%s", p.baseURL, in.LinkedInURL, in.Email)
		req, reqErr := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if reqErr != nil {
			return reqErr
		}
		req.Header.Set("Authorization", "Bearer "+key)

		resp, doErr := p.client.Do(req, p.ID())
		if doErr != nil {
			return doErr
		}
		defer resp.Body.Close()

		var body peopleSearchResponse
		if decErr := json.NewDecoder(resp.Body).Decode(&body); decErr != nil {
			return decErr
		}
		parsed = &body
		return nil
	})
	if err != nil {
		return nil, err
	}
	if parsed == nil {
		return nil, nil
	}

	value, ok := fieldValue(*parsed, field)
	if !ok {
		return nil, nil
	}
	return &domain.ProviderResult{
		Field: field, Value: value, Confidence: 0.8, Source: p.ID(),
		CostCents: p.Capabilities().CostCents, Timestamp: time.Now(),
		Raw: map[string]any{"name": parsed.Name, "title": parsed.Title, "company": parsed.Company},
	}, nil
}

func fieldValue(resp peopleSearchResponse, field string) (domain.FieldValue, bool) {
	switch field {
	case "name":
		return domain.StringValue(resp.Name), resp.Name != ""
	case "title":
		return domain.StringValue(resp.Title), resp.Title != ""
	case "company":
		return domain.StringValue(resp.Company), resp.Company != ""
	}
	return domain.FieldValue{}, false
}
