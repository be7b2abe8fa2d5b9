// Package verifier decides, per field, whether aggregated confidence meets
// the bar to accept, escalate, require more evidence, or fail — a pure
// function of the aggregated fields and the active mode, with no side
// effects and no knowledge of how the evidence was produced.
package verifier

import "enrichcore/pkg/domain"

// defaultThresholds are the acceptance bars for "normal" mode.
var defaultThresholds = map[string]float64{
	"name": 0.6, "company": 0.6, "email": 0.5, "title": 0.5,
	"shortBio": 0.4, "socialLinks": 0.5, "companySummary": 0.4,
}

const fallbackThreshold = 0.5

// coreFields get bumped thresholds in critical mode.
var coreFields = map[string]bool{"name": true, "company": true}

// Decision is one field's verdict plus the confidence it was judged against.
type Decision struct {
	Field      string
	Outcome    domain.FieldDecision
	Confidence float64
	Threshold  float64
}

// Status is the verifier's own overall verdict for a row, distinct from
// the orchestrator's final RowStatus: "needs-escalation" tells the
// orchestrator to run a second executor pass before deciding anything
// final.
type Status string

const (
	StatusVerified        Status = "verified"
	StatusPartial         Status = "partial"
	StatusNeedsEscalation Status = "needs-escalation"
	StatusFailed          Status = "failed"
)

// Report is the verifier's full per-row output.
type Report struct {
	Decisions        map[string]Decision
	FieldsToEscalate []string
	Status           Status
}

// Verify evaluates every requested field against its threshold under mode.
func Verify(aggregated map[string]domain.AggregatedField, requestedFields []string, mode domain.VerifyMode) Report {
	report := Report{Decisions: make(map[string]Decision, len(requestedFields))}

	accepted := 0
	escalatable := 0
	for _, field := range requestedFields {
		threshold := thresholdFor(field, mode)
		agg, ok := aggregated[field]
		if !ok {
			report.Decisions[field] = Decision{Field: field, Outcome: domain.DecisionRequireMore, Threshold: threshold}
			continue
		}

		decision := EvaluateDecision(agg.Confidence, threshold)
		report.Decisions[field] = Decision{Field: field, Outcome: decision, Confidence: agg.Confidence, Threshold: threshold}

		switch decision {
		case domain.DecisionAccept:
			accepted++
		case domain.DecisionEscalate:
			escalatable++
			report.FieldsToEscalate = append(report.FieldsToEscalate, field)
		}
	}

	report.Status = overallStatus(accepted, escalatable, len(requestedFields))
	return report
}

// EvaluateDecision is the pure threshold rule shared by Verify: accept at
// or above threshold, escalate in [threshold/2, threshold), otherwise
// require more evidence.
func EvaluateDecision(confidence, threshold float64) domain.FieldDecision {
	switch {
	case confidence >= threshold:
		return domain.DecisionAccept
	case confidence >= threshold/2:
		return domain.DecisionEscalate
	default:
		return domain.DecisionRequireMore
	}
}

func thresholdFor(field string, mode domain.VerifyMode) float64 {
	base, ok := defaultThresholds[field]
	if !ok {
		base = fallbackThreshold
	}
	switch mode {
	case domain.ModeCritical:
		if coreFields[field] {
			return 0.8
		}
		return base
	case domain.ModeBestEffort:
		if base > 0.4 {
			return base - 0.2
		}
		return 0.3
	default:
		return base
	}
}

func overallStatus(accepted, escalatable, total int) Status {
	switch {
	case total == 0:
		return StatusVerified
	case accepted == total:
		return StatusVerified
	case escalatable > 0:
		return StatusNeedsEscalation
	case accepted > 0:
		return StatusPartial
	default:
		return StatusFailed
	}
}

// BuildResult assembles the accepted fields into CanonicalData.
func BuildResult(aggregated map[string]domain.AggregatedField, report Report) domain.CanonicalData {
	out := make(domain.CanonicalData)
	for field, decision := range report.Decisions {
		if decision.Outcome != domain.DecisionAccept {
			continue
		}
		agg := aggregated[field]
		out[field] = domain.CanonicalFieldValue{
			Value: agg.CanonicalValue, Confidence: agg.Confidence,
			Source: primarySource(agg), Verified: true,
		}
	}
	return out
}

func primarySource(agg domain.AggregatedField) domain.ProviderID {
	if len(agg.Sources) == 0 {
		return ""
	}
	return agg.Sources[0]
}
