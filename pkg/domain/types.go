package domain

import "time"

// EntityType classifies what kind of real-world thing a row describes.
type EntityType string

const (
	EntityPerson  EntityType = "PERSON"
	EntityCompany EntityType = "COMPANY"
	EntityUnknown EntityType = "UNKNOWN"
)

// IdentityStrength is the engine's confidence that the input uniquely
// identifies one real-world entity, prior to any enrichment.
type IdentityStrength string

const (
	IdentityStrong   IdentityStrength = "STRONG"
	IdentityModerate IdentityStrength = "MODERATE"
	IdentityWeak     IdentityStrength = "WEAK"
	IdentityInvalid  IdentityStrength = "INVALID"
)

// Strategy is the approach the resolver recommends for this input.
type Strategy string

const (
	StrategyDirectLookup     Strategy = "DIRECT_LOOKUP"
	StrategySearchValidate   Strategy = "SEARCH_AND_VALIDATE"
	StrategyHypothesisScore  Strategy = "HYPOTHESIS_AND_SCORE"
	StrategyFailFast         Strategy = "FAIL_FAST"
)

// SensitivityLevel bounds what class of provider may be consulted.
type SensitivityLevel string

const (
	SensitivitySemiPrivate SensitivityLevel = "SEMI_PRIVATE"
	SensitivityPublicOnly  SensitivityLevel = "PUBLIC_ONLY"
)

// Tier is a provider's cost class.
type Tier string

const (
	TierFree    Tier = "free"
	TierCheap   Tier = "cheap"
	TierPremium Tier = "premium"
)

// tierOrder gives free < cheap < premium a total order for sorting.
var tierOrder = map[Tier]int{TierFree: 0, TierCheap: 1, TierPremium: 2}

// Less reports whether t sorts before other (cheaper tiers first).
func (t Tier) Less(other Tier) bool {
	return tierOrder[t] < tierOrder[other]
}

// RowStatus is the terminal outcome of an Enrich call.
type RowStatus string

const (
	RowStatusSuccess RowStatus = "success"
	RowStatusPartial RowStatus = "partial"
	RowStatusFailed  RowStatus = "failed"
)

// VerifyMode overrides per-field acceptance thresholds.
type VerifyMode string

const (
	ModeCritical   VerifyMode = "critical"
	ModeNormal     VerifyMode = "normal"
	ModeBestEffort VerifyMode = "bestEffort"
)

// FieldDecision is the verifier's per-field verdict.
type FieldDecision string

const (
	DecisionAccept      FieldDecision = "accept"
	DecisionEscalate    FieldDecision = "escalate"
	DecisionRequireMore FieldDecision = "require-more"
	DecisionFail        FieldDecision = "fail"
)

// RawRow is an opaque key/value bag for a row's raw column data. Accessors
// return typed options instead of exposing reflection over the map.
type RawRow map[string]any

// StringField returns raw[key] as a string if present and non-empty.
func (r RawRow) StringField(key string) (string, bool) {
	v, ok := r[key]
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	if !ok || s == "" {
		return "", false
	}
	return s, true
}

// NormalizedInput is the canonical shape every downstream component reads.
type NormalizedInput struct {
	RowID       RowID
	TableID     TableID
	Name        string
	Domain      string
	LinkedInURL string
	Email       string
	Company     string
	Raw         RawRow
}

// HasField reports whether the canonical field name has a non-empty value.
func (n NormalizedInput) HasField(field string) bool {
	switch field {
	case "name":
		return n.Name != ""
	case "domain":
		return n.Domain != ""
	case "linkedinUrl":
		return n.LinkedInURL != ""
	case "email":
		return n.Email != ""
	case "company":
		return n.Company != ""
	default:
		return false
	}
}

// EntityIdentity is the output of identity resolution.
type EntityIdentity struct {
	EntityType       EntityType
	IdentityStrength IdentityStrength
	InputSignature   string
	Strategy         Strategy
	SensitivityLevel SensitivityLevel
	RequiredFields   []string
	AvailableFields  []string
	Confidence       float64
}

// HasMinimumIdentity reports whether the row may proceed to planning.
func (e EntityIdentity) HasMinimumIdentity() bool {
	return e.Strategy != StrategyFailFast
}

// ProviderCapability describes what a provider can do and what it costs.
type ProviderCapability struct {
	Name            ProviderID
	Tier            Tier
	CostCents       int
	SupportedFields map[string]bool
}

// CanEnrich reports whether the provider declares support for a field.
func (c ProviderCapability) CanEnrich(field string) bool {
	return c.SupportedFields[field]
}

// PlanStep is one scheduled (provider, field) unit of work.
type PlanStep struct {
	Index        int
	ProviderID   ProviderID
	Field        string
	Priority     string
	MaxCostCents int
}

// EnrichmentPlan is the ordered output of the planner.
type EnrichmentPlan struct {
	Steps       []PlanStep
	BudgetCents int
	Note        string
}

// TotalCostCents sums the plan's per-step cost ceiling.
func (p EnrichmentPlan) TotalCostCents() int {
	total := 0
	for _, s := range p.Steps {
		total += s.MaxCostCents
	}
	return total
}

// FieldValue is a discriminated union over the value shapes a provider may
// return: string, number, or string list. Only one field is populated.
type FieldValue struct {
	Str   string
	Num   float64
	IsNum bool
	List  []string
}

// String renders the value for logging and similarity comparisons.
func (v FieldValue) String() string {
	switch {
	case v.IsNum:
		return formatFloat(v.Num)
	case v.List != nil:
		return joinSorted(v.List)
	default:
		return v.Str
	}
}

// ProviderResult is one provider's answer for one field.
type ProviderResult struct {
	Field     string
	Value     FieldValue
	Confidence float64
	Source    ProviderID
	CostCents int
	Timestamp time.Time
	Verified  bool
	Raw       map[string]any
}

// Provenance is the permanent audit record of one contributing result.
type Provenance struct {
	ID        string
	RowID     RowID
	TableID   TableID
	Field     string
	Source    ProviderID
	Value     FieldValue
	Confidence float64
	RawResponse map[string]any
	Timestamp time.Time
	CostCents int
}

// AggregatedField is the fused view of all evidence for one field.
type AggregatedField struct {
	Field             string
	CanonicalValue    FieldValue
	Confidence        float64
	Sources           []ProviderID
	HasConflict       bool
	ConflictingValues []FieldValue
	AllResults        []ProviderResult
}

// CanonicalFieldValue is one accepted field in the final output map.
type CanonicalFieldValue struct {
	Value      FieldValue
	Confidence float64
	Source     ProviderID
	Verified   bool
}

// CanonicalData is the accepted subset of fields handed back to the caller.
type CanonicalData map[string]CanonicalFieldValue

// LedgerEntry is one append-only cost-governor record.
type LedgerEntry struct {
	RowID     RowID
	TableID   TableID
	Provider  ProviderID
	Field     string
	CostCents int
	Timestamp time.Time
}

// EnrichResult is the top-level return value of Orchestrator.Enrich.
type EnrichResult struct {
	Status      RowStatus
	Canonical   CanonicalData
	Provenance  []Provenance
	CostCents   int
	DurationMs  int64
	Summary     string
	Escalated   []string
	Unresolved  []string
}
