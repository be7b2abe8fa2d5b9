package normalize_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"enrichcore/internal/normalize"
	"enrichcore/pkg/domain"
)

func TestNormalizeDomain(t *testing.T) {
	cases := []struct {
		name string
		in   string
		opts normalize.DomainOptions
		want string
	}{
		{"bare host", "example.com", normalize.DomainOptions{}, "example.com"},
		{"full url with path stripped by hostname parse", "https://Example.com/about", normalize.DomainOptions{Lowercase: true}, "example.com"},
		{"www subdomain stripped", "www.example.com", normalize.DomainOptions{StripSubdomain: true}, "example.com"},
		{"multi-part suffix preserved", "shop.example.co.uk", normalize.DomainOptions{StripSubdomain: true}, "shop.example.co.uk"},
		{"service subdomain over multi-part suffix", "www.example.co.uk", normalize.DomainOptions{StripSubdomain: true}, "example.co.uk"},
		{"empty input", "", normalize.DomainOptions{}, ""},
		{"unparseable input", "://", normalize.DomainOptions{}, ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.want, normalize.NormalizeDomain(tc.in, tc.opts))
		})
	}
}

func TestExtractDomainFromEmail(t *testing.T) {
	require.Equal(t, "acme.com", normalize.ExtractDomainFromEmail("jane@acme.com"))
	require.Equal(t, "", normalize.ExtractDomainFromEmail("jane@gmail.com"), "free email providers carry no company signal")
	require.Equal(t, "", normalize.ExtractDomainFromEmail("not-an-email"))
}

func TestMapColumnKeyToField(t *testing.T) {
	require.Equal(t, "name", normalize.MapColumnKeyToField("Full_Name"))
	require.Equal(t, "domain", normalize.MapColumnKeyToField("website"))
	require.Equal(t, "linkedinUrl", normalize.MapColumnKeyToField("li_url"))
	require.Equal(t, "", normalize.MapColumnKeyToField("unrelated_column"))
}

func TestNormalizeExistingDataToInput_CanonicalWinsOverAlias(t *testing.T) {
	raw := domain.RawRow{
		"name":      "Canonical Name",
		"full_name": "Alias Name",
		"website":   "https://www.acme.com",
		"email":     "Person@Acme.com",
	}
	rowID, tableID := domain.NewRowID(), domain.NewTableID()

	in := normalize.NormalizeExistingDataToInput(rowID, tableID, raw)

	require.Equal(t, "Canonical Name", in.Name)
	require.Equal(t, "acme.com", in.Domain)
	require.Equal(t, "person@acme.com", in.Email)
	require.Equal(t, rowID, in.RowID)
	require.Equal(t, tableID, in.TableID)
}

func TestNormalizeExistingDataToInput_DomainDerivedFromEmailWhenMissing(t *testing.T) {
	raw := domain.RawRow{"work_email": "jane@initech.com"}

	in := normalize.NormalizeExistingDataToInput(domain.NewRowID(), domain.NewTableID(), raw)

	require.Equal(t, "initech.com", in.Domain)
	require.Equal(t, "jane@initech.com", in.Email)
}

func TestNormalizeExistingDataToInput_FreeEmailDomainFieldIsRejected(t *testing.T) {
	raw := domain.RawRow{"domain": "gmail.com"}

	in := normalize.NormalizeExistingDataToInput(domain.NewRowID(), domain.NewTableID(), raw)

	require.Equal(t, "", in.Domain, "a free email provider's domain carries no company signal")
}

func TestIsFreeEmailDomain(t *testing.T) {
	require.True(t, normalize.IsFreeEmailDomain("gmail.com"))
	require.True(t, normalize.IsFreeEmailDomain("Gmail.com"), "comparison is case-insensitive")
	require.False(t, normalize.IsFreeEmailDomain("acme.com"))
}
