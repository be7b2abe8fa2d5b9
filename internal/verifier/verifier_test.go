package verifier_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"enrichcore/internal/verifier"
	"enrichcore/pkg/domain"
)

func field(confidence float64, source domain.ProviderID) domain.AggregatedField {
	return domain.AggregatedField{
		CanonicalValue: domain.FieldValue{Str: "value"},
		Confidence:     confidence,
		Sources:        []domain.ProviderID{source},
	}
}

func TestEvaluateDecision(t *testing.T) {
	require.Equal(t, domain.DecisionAccept, verifier.EvaluateDecision(0.9, 0.6))
	require.Equal(t, domain.DecisionAccept, verifier.EvaluateDecision(0.6, 0.6))
	require.Equal(t, domain.DecisionEscalate, verifier.EvaluateDecision(0.4, 0.6))
	require.Equal(t, domain.DecisionRequireMore, verifier.EvaluateDecision(0.2, 0.6))
}

func TestVerify_AllFieldsAcceptedIsVerified(t *testing.T) {
	aggregated := map[string]domain.AggregatedField{
		"name": field(0.9, "linkedin"),
	}
	report := verifier.Verify(aggregated, []string{"name"}, domain.ModeNormal)

	require.Equal(t, verifier.StatusVerified, report.Status)
	require.Equal(t, domain.DecisionAccept, report.Decisions["name"].Outcome)
}

func TestVerify_MissingFieldRequiresMore(t *testing.T) {
	report := verifier.Verify(map[string]domain.AggregatedField{}, []string{"email"}, domain.ModeNormal)

	require.Equal(t, verifier.StatusFailed, report.Status)
	require.Equal(t, domain.DecisionRequireMore, report.Decisions["email"].Outcome)
}

func TestVerify_LowConfidenceEscalates(t *testing.T) {
	aggregated := map[string]domain.AggregatedField{
		"email": field(0.3, "serp"), // threshold 0.5, escalate band is [0.25, 0.5)
	}
	report := verifier.Verify(aggregated, []string{"email"}, domain.ModeNormal)

	require.Equal(t, verifier.StatusNeedsEscalation, report.Status)
	require.Equal(t, []string{"email"}, report.FieldsToEscalate)
}

func TestVerify_CriticalModeRaisesCoreFieldThreshold(t *testing.T) {
	aggregated := map[string]domain.AggregatedField{
		"name": field(0.7, "hunter"), // passes normal (0.6) but not critical (0.8)
	}
	report := verifier.Verify(aggregated, []string{"name"}, domain.ModeCritical)

	require.NotEqual(t, domain.DecisionAccept, report.Decisions["name"].Outcome)
}

func TestVerify_BestEffortLowersThreshold(t *testing.T) {
	aggregated := map[string]domain.AggregatedField{
		"name": field(0.5, "hunter"), // fails normal (0.6) but passes bestEffort (0.4)
	}
	report := verifier.Verify(aggregated, []string{"name"}, domain.ModeBestEffort)

	require.Equal(t, domain.DecisionAccept, report.Decisions["name"].Outcome)
}

func TestBuildResult_OnlyIncludesAcceptedFields(t *testing.T) {
	aggregated := map[string]domain.AggregatedField{
		"name":  field(0.9, "linkedin"),
		"email": field(0.3, "serp"),
	}
	report := verifier.Verify(aggregated, []string{"name", "email"}, domain.ModeNormal)

	canonical := verifier.BuildResult(aggregated, report)

	require.Contains(t, canonical, "name")
	require.NotContains(t, canonical, "email")
	require.Equal(t, domain.ProviderID("linkedin"), canonical["name"].Source)
	require.True(t, canonical["name"].Verified)
}
