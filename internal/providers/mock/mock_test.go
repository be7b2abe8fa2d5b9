package mock_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"enrichcore/internal/providers/mock"
	"enrichcore/pkg/domain"
)

func TestLinkedIn_RequiresLinkedInURL(t *testing.T) {
	p := mock.NewLinkedIn()
	result, err := p.Enrich(context.Background(), domain.NormalizedInput{Name: "Jane Doe"}, "name")
	require.NoError(t, err)
	require.Nil(t, result)
}

func TestLinkedIn_AnswersNameTitleCompany(t *testing.T) {
	p := mock.NewLinkedIn()
	in := domain.NormalizedInput{LinkedInURL: "https://linkedin.com/in/jane", Name: "Jane Doe", Company: "Acme Corp"}

	for _, field := range []string{"name", "title", "company"} {
		result, err := p.Enrich(context.Background(), in, field)
		require.NoError(t, err)
		require.NotNil(t, result, field)
		require.Equal(t, domain.ProviderID("linkedin"), result.Source)
	}
}

func TestLinkedIn_UnsupportedFieldReturnsNil(t *testing.T) {
	p := mock.NewLinkedIn()
	in := domain.NormalizedInput{LinkedInURL: "https://linkedin.com/in/jane"}
	result, err := p.Enrich(context.Background(), in, "email")
	require.NoError(t, err)
	require.Nil(t, result)
}

func TestHunter_BuildsEmailFromFirstNameAndDomain(t *testing.T) {
	p := mock.NewHunter()
	in := domain.NormalizedInput{Name: "Jane Doe", Domain: "acme.com"}

	result, err := p.Enrich(context.Background(), in, "email")
	require.NoError(t, err)
	require.NotNil(t, result)
	require.Equal(t, "jane@acme.com", result.Value.Str)
	require.Equal(t, 1, result.CostCents)
}

func TestHunter_MissingDomainReturnsNil(t *testing.T) {
	p := mock.NewHunter()
	result, err := p.Enrich(context.Background(), domain.NormalizedInput{Name: "Jane Doe"}, "email")
	require.NoError(t, err)
	require.Nil(t, result)
}

func TestOpenCorporates_RequiresCompanyName(t *testing.T) {
	p := mock.NewOpenCorporates()
	result, err := p.Enrich(context.Background(), domain.NormalizedInput{}, "companySummary")
	require.NoError(t, err)
	require.Nil(t, result)
}

func TestOpenCorporates_AnswersCompanySummaryAndIndustry(t *testing.T) {
	p := mock.NewOpenCorporates()
	in := domain.NormalizedInput{Company: "Acme Corp"}

	summary, err := p.Enrich(context.Background(), in, "companySummary")
	require.NoError(t, err)
	require.Contains(t, summary.Value.Str, "Acme Corp")

	industry, err := p.Enrich(context.Background(), in, "industry")
	require.NoError(t, err)
	require.Equal(t, "technology", industry.Value.Str)
}

func TestSerp_GuessesDomainFromCompanyName(t *testing.T) {
	p := mock.NewSerp()
	result, err := p.Enrich(context.Background(), domain.NormalizedInput{Company: "Acme Corp"}, "website")
	require.NoError(t, err)
	require.Equal(t, "https://acmecorp.com/", result.Value.Str)
}

func TestWhois_DerivesCompanyFromDomain(t *testing.T) {
	p := mock.NewWhois()
	result, err := p.Enrich(context.Background(), domain.NormalizedInput{Domain: "acme.com"}, "company")
	require.NoError(t, err)
	require.Equal(t, "acme", result.Value.Str)
	require.Equal(t, domain.TierPremium, p.Capabilities().Tier)
}

func TestRegisterables_ReturnsTheStandardFiveProviders(t *testing.T) {
	providers := mock.Registerables()
	require.Len(t, providers, 5)

	ids := make(map[domain.ProviderID]bool)
	for _, p := range providers {
		ids[p.ID()] = true
	}
	for _, want := range []domain.ProviderID{"linkedin", "hunter", "opencorporates", "serp", "whois"} {
		require.True(t, ids[want], want)
	}
}
