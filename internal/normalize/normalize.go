// Package normalize provides the pure, side-effect-free functions that turn
// raw row data into the canonical shapes the rest of the engine consumes.
// Every function here fails soft: invalid input yields a zero value, never
// an error or panic.
package normalize

import (
	"net/mail"
	"net/url"
	"strings"

	"enrichcore/pkg/domain"
)

// freeEmailDomains are providers whose domain carries no company signal.
var freeEmailDomains = map[string]bool{
	"gmail.com": true, "yahoo.com": true, "outlook.com": true,
	"hotmail.com": true, "icloud.com": true, "aol.com": true,
	"protonmail.com": true, "live.com": true, "mail.com": true,
}

// IsFreeEmailDomain reports whether d is a recognized free email provider's
// domain, the same table ExtractDomainFromEmail filters against.
func IsFreeEmailDomain(d string) bool {
	return freeEmailDomains[strings.ToLower(strings.TrimSpace(d))]
}

// serviceSubdomains are stripped when canonicalizing a domain, leaving the
// registrable domain behind.
var serviceSubdomains = map[string]bool{
	"www": true, "www2": true, "mail": true, "api": true, "cdn": true,
	"app": true, "go": true, "get": true, "m": true,
}

// multiPartSuffixes are public suffixes with two labels; stripping
// subdomains must never eat into these.
var multiPartSuffixes = map[string]bool{
	"co.uk": true, "com.au": true, "co.jp": true, "com.br": true,
	"co.nz": true, "com.mx": true, "co.in": true,
}

// DomainOptions controls NormalizeDomain's behavior.
type DomainOptions struct {
	StripSubdomain bool
	StripPath      bool
	Lowercase      bool
}

// NormalizeDomain reduces a free-form URL or hostname to a canonical bare
// hostname, or "" if the input cannot be parsed into one.
func NormalizeDomain(s string, opts DomainOptions) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	if !strings.Contains(s, "://") {
		s = "https://" + s
	}
	u, err := url.Parse(s)
	if err != nil || u.Hostname() == "" {
		return ""
	}
	host := u.Hostname()
	if opts.Lowercase {
		host = strings.ToLower(host)
	}
	if opts.StripSubdomain {
		host = stripServiceSubdomain(host)
	}
	return host
}

func stripServiceSubdomain(host string) string {
	labels := strings.Split(host, ".")
	if len(labels) <= 2 {
		return host
	}
	// Preserve multi-part public suffixes: never strip below a label count
	// that would cut into "co.uk"-style endings.
	tail2 := strings.Join(labels[len(labels)-2:], ".")
	minLabels := 2
	if multiPartSuffixes[tail2] {
		minLabels = 3
	}
	for len(labels) > minLabels && serviceSubdomains[labels[0]] {
		labels = labels[1:]
	}
	return strings.Join(labels, ".")
}

// ExtractDomainFromEmail returns the sending domain of an email address, or
// "" if the address is malformed or belongs to a recognized free provider.
func ExtractDomainFromEmail(email string) string {
	addr, err := mail.ParseAddress(strings.TrimSpace(email))
	if err != nil {
		return ""
	}
	parts := strings.Split(addr.Address, "@")
	if len(parts) != 2 {
		return ""
	}
	domain := strings.ToLower(parts[1])
	if freeEmailDomains[domain] {
		return ""
	}
	return domain
}

// columnAliases maps arbitrary user column names to canonical field keys.
var columnAliases = map[string]string{
	"full_name": "name", "fullname": "name", "person_name": "name",
	"website": "domain", "company_domain": "domain", "url": "domain",
	"linkedin": "linkedinUrl", "linkedin_url": "linkedinUrl", "li_url": "linkedinUrl",
	"email_address": "email", "work_email": "email",
	"company_name": "company", "organization": "company", "employer": "company",
}

// MapColumnKeyToField resolves a user-supplied column name to the internal
// canonical field key it aliases, or "" if unrecognized.
func MapColumnKeyToField(columnKey string) string {
	key := strings.ToLower(strings.TrimSpace(columnKey))
	if canonical, ok := columnAliases[key]; ok {
		return canonical
	}
	switch key {
	case "name", "domain", "linkedinurl", "email", "company":
		if key == "linkedinurl" {
			return "linkedinUrl"
		}
		return key
	}
	return ""
}

// NormalizeExistingDataToInput merges a raw, user-column-keyed row into the
// canonical NormalizedInput shape, preferring canonical keys over aliases
// when both are present.
func NormalizeExistingDataToInput(rowID domain.RowID, tableID domain.TableID, raw domain.RawRow) domain.NormalizedInput {
	in := domain.NormalizedInput{RowID: rowID, TableID: tableID, Raw: raw}

	assign := func(field, value string) {
		if value == "" {
			return
		}
		switch field {
		case "name":
			if in.Name == "" {
				in.Name = value
			}
		case "domain":
			if in.Domain == "" {
				d := NormalizeDomain(value, DomainOptions{StripSubdomain: true, Lowercase: true})
				if d != "" && !IsFreeEmailDomain(d) {
					in.Domain = d
				}
			}
		case "linkedinUrl":
			if in.LinkedInURL == "" {
				in.LinkedInURL = value
			}
		case "email":
			if in.Email == "" {
				in.Email = strings.ToLower(value)
			}
		case "company":
			if in.Company == "" {
				in.Company = value
			}
		}
	}

	// Canonical keys win: process them first so aliases never overwrite.
	for _, canonical := range []string{"name", "domain", "linkedinUrl", "email", "company"} {
		if v, ok := raw.StringField(canonical); ok {
			assign(canonical, v)
		}
	}
	for rawKey, v := range raw {
		s, ok := v.(string)
		if !ok || s == "" {
			continue
		}
		if field := MapColumnKeyToField(rawKey); field != "" {
			assign(field, s)
		}
	}

	if in.Domain == "" && in.Email != "" {
		if d := ExtractDomainFromEmail(in.Email); d != "" {
			in.Domain = d
		}
	}

	return in
}
