// Package mock implements deterministic in-process providers used when
// useMockProviders is set, so the engine runs end to end without upstream
// credentials.
package mock

import (
	"context"
	"strings"
	"time"

	"enrichcore/pkg/domain"
)

// Provider is a canned data source: it answers from a small fixed table
// keyed by company/domain/name, so tests and demos are reproducible.
type Provider struct {
	id     domain.ProviderID
	tier   domain.Tier
	cost   int
	fields map[string]bool
	answer func(in domain.NormalizedInput, field string) (domain.FieldValue, float64, bool)
}

// ID implements providers.Provider.
func (p *Provider) ID() domain.ProviderID { return p.id }

// Capabilities implements providers.Provider.
func (p *Provider) Capabilities() domain.ProviderCapability {
	return domain.ProviderCapability{Name: p.id, Tier: p.tier, CostCents: p.cost, SupportedFields: p.fields}
}

// Health implements providers.Provider; mocks are always healthy.
func (p *Provider) Health(ctx context.Context) error { return nil }

// Enrich implements providers.Provider.
func (p *Provider) Enrich(ctx context.Context, in domain.NormalizedInput, field string) (*domain.ProviderResult, error) {
	if !p.fields[field] {
		return nil, nil
	}
	value, confidence, found := p.answer(in, field)
	if !found {
		return nil, nil
	}
	return &domain.ProviderResult{
		Field:      field,
		Value:      value,
		Confidence: confidence,
		Source:     p.id,
		CostCents:  p.cost,
		Timestamp:  time.Now(),
	}, nil
}

func fields(names ...string) map[string]bool {
	m := make(map[string]bool, len(names))
	for _, n := range names {
		m[n] = true
	}
	return m
}

// NewLinkedIn returns a free-tier mock answering name/title/company from a
// LinkedIn URL, mirroring the real provider's direct-lookup strength.
func NewLinkedIn() *Provider {
	return &Provider{
		id: "linkedin", tier: domain.TierFree, cost: 0,
		fields: fields("name", "title", "company"),
		answer: func(in domain.NormalizedInput, field string) (domain.FieldValue, float64, bool) {
			if in.LinkedInURL == "" {
				return domain.FieldValue{}, 0, false
			}
			switch field {
			case "name":
				return domain.StringValue(in.Name), 0.97, in.Name != ""
			case "title":
				return domain.StringValue("Software Engineer"), 0.9, true
			case "company":
				return domain.StringValue(in.Company), 0.93, in.Company != ""
			}
			return domain.FieldValue{}, 0, false
		},
	}
}

// NewHunter returns a cheap-tier mock answering email from name+domain.
func NewHunter() *Provider {
	return &Provider{
		id: "hunter", tier: domain.TierCheap, cost: 1,
		fields: fields("email"),
		answer: func(in domain.NormalizedInput, field string) (domain.FieldValue, float64, bool) {
			if in.Name == "" || in.Domain == "" {
				return domain.FieldValue{}, 0, false
			}
			first := strings.ToLower(strings.SplitN(in.Name, " ", 2)[0])
			return domain.StringValue(first + "@" + in.Domain), 0.82, true
		},
	}
}

// NewOpenCorporates returns a cheap-tier mock answering companySummary.
func NewOpenCorporates() *Provider {
	return &Provider{
		id: "opencorporates", tier: domain.TierCheap, cost: 2,
		fields: fields("companySummary", "industry"),
		answer: func(in domain.NormalizedInput, field string) (domain.FieldValue, float64, bool) {
			if in.Company == "" {
				return domain.FieldValue{}, 0, false
			}
			switch field {
			case "companySummary":
				return domain.StringValue(in.Company + " is a registered company."), 0.8, true
			case "industry":
				return domain.StringValue("technology"), 0.7, true
			}
			return domain.FieldValue{}, 0, false
		},
	}
}

// NewSerp returns a free-tier mock answering domain/website with a URL
// guessed from the company name.
func NewSerp() *Provider {
	return &Provider{
		id: "serp", tier: domain.TierFree, cost: 0,
		fields: fields("domain", "website"),
		answer: func(in domain.NormalizedInput, field string) (domain.FieldValue, float64, bool) {
			if in.Company == "" {
				return domain.FieldValue{}, 0, false
			}
			guess := strings.ToLower(strings.ReplaceAll(in.Company, " ", "")) + ".com"
			return domain.StringValue("https://" + guess + "/"), 0.55, true
		},
	}
}

// NewWhois returns a premium-tier mock answering domain registration facts.
func NewWhois() *Provider {
	return &Provider{
		id: "whois", tier: domain.TierPremium, cost: 5,
		fields: fields("company"),
		answer: func(in domain.NormalizedInput, field string) (domain.FieldValue, float64, bool) {
			if in.Domain == "" {
				return domain.FieldValue{}, 0, false
			}
			return domain.StringValue(strings.TrimSuffix(in.Domain, ".com")), 0.6, true
		},
	}
}

// Registerables returns the standard mock provider set.
func Registerables() []*Provider {
	return []*Provider{NewLinkedIn(), NewHunter(), NewOpenCorporates(), NewSerp(), NewWhois()}
}
