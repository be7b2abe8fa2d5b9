package identity_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"enrichcore/internal/identity"
	"enrichcore/pkg/domain"
)

func TestResolve_LinkedInURLIsStrong(t *testing.T) {
	r := identity.New()
	in := domain.NormalizedInput{LinkedInURL: "https://linkedin.com/in/janedoe"}

	got := r.Resolve(in, []string{"email"})

	require.Equal(t, domain.IdentityStrong, got.IdentityStrength)
	require.Equal(t, domain.StrategyDirectLookup, got.Strategy)
	require.True(t, got.HasMinimumIdentity())
}

func TestResolve_CommonNameAndSmallCompanyFailsFast(t *testing.T) {
	r := identity.New()
	in := domain.NormalizedInput{Name: "John Smith", Company: "Tiny Co"}

	got := r.Resolve(in, []string{"email"})

	require.Equal(t, domain.IdentityInvalid, got.IdentityStrength)
	require.Equal(t, domain.StrategyFailFast, got.Strategy)
	require.False(t, got.HasMinimumIdentity())
}

func TestResolve_CommonNameAtBigCompanyIsWeakButProceeds(t *testing.T) {
	r := identity.New()
	in := domain.NormalizedInput{Name: "John Smith", Company: "Google"}

	got := r.Resolve(in, []string{"email"})

	require.Equal(t, domain.IdentityWeak, got.IdentityStrength)
	require.Equal(t, domain.StrategyHypothesisScore, got.Strategy)
	require.True(t, got.HasMinimumIdentity())
}

func TestResolve_UniqueNameWithCompanyIsModerate(t *testing.T) {
	r := identity.New()
	in := domain.NormalizedInput{Name: "Zendaya Okonkwo", Company: "Acme Corp"}

	got := r.Resolve(in, []string{"email"})

	require.Equal(t, domain.IdentityModerate, got.IdentityStrength)
	require.Equal(t, domain.StrategySearchValidate, got.Strategy)
}

func TestResolve_DomainOnlyIsCompanyEntity(t *testing.T) {
	r := identity.New()
	in := domain.NormalizedInput{Domain: "acme.com"}

	got := r.Resolve(in, []string{"companySummary"})

	require.Equal(t, domain.EntityCompany, got.EntityType)
	require.Equal(t, domain.IdentityStrong, got.IdentityStrength)
}

func TestResolve_FreeEmailDomainAloneIsInvalid(t *testing.T) {
	r := identity.New()
	in := domain.NormalizedInput{Domain: "gmail.com"}

	got := r.Resolve(in, []string{"title"})

	require.Equal(t, domain.IdentityInvalid, got.IdentityStrength)
	require.Equal(t, domain.StrategyFailFast, got.Strategy)
	require.False(t, got.HasMinimumIdentity())
}

func TestResolve_EmptyInputIsUnknownAndFailsFast(t *testing.T) {
	r := identity.New()

	got := r.Resolve(domain.NormalizedInput{}, []string{"email"})

	require.Equal(t, domain.EntityUnknown, got.EntityType)
	require.Equal(t, "none", got.InputSignature)
	require.False(t, got.HasMinimumIdentity())
}

func TestResolve_AvailableFieldsReflectsInput(t *testing.T) {
	r := identity.New()
	in := domain.NormalizedInput{Name: "Jane Doe", Email: "jane@acme.com"}

	got := r.Resolve(in, []string{"company"})

	require.ElementsMatch(t, []string{"name", "email"}, got.AvailableFields)
}
