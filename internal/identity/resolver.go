// Package identity classifies a normalized input and decides how (or
// whether) the engine should attempt to enrich it.
package identity

import (
	"strings"

	"enrichcore/internal/normalize"
	"enrichcore/pkg/domain"
)

// commonFirstNames is a closed set used to flag a name as too generic to
// trust without a distinguishing company signal.
var commonFirstNames = map[string]bool{
	"john": true, "mike": true, "dave": true, "mary": true, "chris": true,
	"james": true, "jen": true, "steve": true, "bob": true, "sarah": true,
}

// bigCompanies is a closed set of companies common enough that "common
// first name + big company" still leaves real ambiguity.
var bigCompanies = map[string]bool{
	"google": true, "microsoft": true, "amazon": true, "meta": true,
	"apple": true, "ibm": true, "oracle": true,
}

// Resolver classifies NormalizedInput into an EntityIdentity.
type Resolver struct{}

// New builds a Resolver. It holds no state; methods are pure.
func New() *Resolver {
	return &Resolver{}
}

// Resolve classifies the input and returns the identity the rest of the
// engine should treat it under.
func (r *Resolver) Resolve(in domain.NormalizedInput, fieldsToEnrich []string) domain.EntityIdentity {
	signature := r.signature(in)
	entityType := r.classifyEntityType(in, signature)
	strength := r.classifyStrength(in)
	strategy := r.classifyStrategy(strength)
	sensitivity := r.classifySensitivity(strength, r.ambiguityRisk(in))

	available := r.availableFields(in)

	return domain.EntityIdentity{
		EntityType:       entityType,
		IdentityStrength: strength,
		InputSignature:   signature,
		Strategy:         strategy,
		SensitivityLevel: sensitivity,
		RequiredFields:   fieldsToEnrich,
		AvailableFields:  available,
		Confidence:       r.confidenceFor(strength),
	}
}

func (r *Resolver) signature(in domain.NormalizedInput) string {
	var parts []string
	if in.LinkedInURL != "" {
		parts = append(parts, "linkedin")
	}
	if in.Email != "" {
		parts = append(parts, "email")
	}
	if in.Name != "" && in.Company != "" {
		parts = append(parts, "name+company")
	}
	if in.Domain != "" {
		parts = append(parts, "domain")
	}
	if len(parts) == 0 {
		return "none"
	}
	return strings.Join(parts, "|")
}

func (r *Resolver) classifyEntityType(in domain.NormalizedInput, signature string) domain.EntityType {
	switch {
	case in.Domain != "" && in.Name == "" && in.LinkedInURL == "":
		return domain.EntityCompany
	case in.Company != "" || in.LinkedInURL != "" || in.Name != "":
		return domain.EntityPerson
	default:
		return domain.EntityUnknown
	}
}

func (r *Resolver) classifyStrength(in domain.NormalizedInput) domain.IdentityStrength {
	if in.LinkedInURL != "" {
		return domain.IdentityStrong
	}
	if in.Domain != "" && !normalize.IsFreeEmailDomain(in.Domain) {
		return domain.IdentityStrong
	}
	if in.Email != "" && isDeliverableLooking(in.Email) {
		return domain.IdentityStrong
	}
	if in.Name != "" && in.Company != "" && isUniqueName(in.Name) {
		return domain.IdentityModerate
	}
	if in.Name != "" && in.Company != "" && isCommonFirstName(in.Name) && bigCompanies[strings.ToLower(in.Company)] {
		return domain.IdentityWeak
	}
	return domain.IdentityInvalid
}

func (r *Resolver) classifyStrategy(strength domain.IdentityStrength) domain.Strategy {
	switch strength {
	case domain.IdentityStrong:
		return domain.StrategyDirectLookup
	case domain.IdentityModerate:
		return domain.StrategySearchValidate
	case domain.IdentityWeak:
		return domain.StrategyHypothesisScore
	default:
		return domain.StrategyFailFast
	}
}

func (r *Resolver) ambiguityRisk(in domain.NormalizedInput) string {
	if in.Name != "" && isCommonFirstName(in.Name) {
		return "high"
	}
	return "low"
}

func (r *Resolver) classifySensitivity(strength domain.IdentityStrength, ambiguityRisk string) domain.SensitivityLevel {
	if strength == domain.IdentityStrong && ambiguityRisk == "low" {
		return domain.SensitivitySemiPrivate
	}
	return domain.SensitivityPublicOnly
}

func (r *Resolver) confidenceFor(strength domain.IdentityStrength) float64 {
	switch strength {
	case domain.IdentityStrong:
		return 0.9
	case domain.IdentityModerate:
		return 0.6
	case domain.IdentityWeak:
		return 0.3
	default:
		return 0.0
	}
}

func (r *Resolver) availableFields(in domain.NormalizedInput) []string {
	var fields []string
	for _, f := range []string{"name", "domain", "linkedinUrl", "email", "company"} {
		if in.HasField(f) {
			fields = append(fields, f)
		}
	}
	return fields
}

func isCommonFirstName(name string) bool {
	first := strings.ToLower(strings.SplitN(name, " ", 2)[0])
	return commonFirstNames[first]
}

func isUniqueName(name string) bool {
	return !isCommonFirstName(name)
}

func isDeliverableLooking(email string) bool {
	return strings.Contains(email, "@") && !strings.HasPrefix(email, "@")
}
