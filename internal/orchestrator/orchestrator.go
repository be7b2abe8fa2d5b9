// Package orchestrator wires normalization, identity resolution, planning,
// execution, aggregation, verification, and synthesis into the engine's
// single per-row entry point.
package orchestrator

import (
	"context"
	"log/slog"
	"strconv"
	"time"

	"enrichcore/internal/aggregator"
	"enrichcore/internal/costgovernor"
	"enrichcore/internal/executor"
	"enrichcore/internal/health"
	"enrichcore/internal/identity"
	"enrichcore/internal/normalize"
	"enrichcore/internal/planner"
	"enrichcore/internal/provenance"
	"enrichcore/internal/providers"
	"enrichcore/internal/rowstore"
	"enrichcore/internal/synthesizer"
	"enrichcore/internal/verifier"
	"enrichcore/pkg/domain"
	"enrichcore/pkg/requestcontext"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

var tracer = otel.Tracer("enrichcore/orchestrator")

// Options carries the per-call knobs from the Enrich entry point.
type Options struct {
	BudgetCents int
	Mode        domain.VerifyMode
	PlanName    string
	SkipCache   bool
}

// Orchestrator is the engine's top-level entry point.
type Orchestrator struct {
	rows       rowstore.RowLoader
	resolver   *identity.Resolver
	planner    *planner.Planner
	exec       *executor.Executor
	agg        *aggregator.Aggregator
	governor   *costgovernor.Governor
	synth      *synthesizer.Synthesizer
	breakers   *health.Pool
	registry   *providers.Registry
	log        *slog.Logger
}

// New builds an Orchestrator from its collaborators.
func New(
	rows rowstore.RowLoader,
	resolver *identity.Resolver,
	plannerSvc *planner.Planner,
	execSvc *executor.Executor,
	agg *aggregator.Aggregator,
	governor *costgovernor.Governor,
	synth *synthesizer.Synthesizer,
	breakers *health.Pool,
	registry *providers.Registry,
	log *slog.Logger,
) *Orchestrator {
	return &Orchestrator{
		rows: rows, resolver: resolver, planner: plannerSvc, exec: execSvc,
		agg: agg, governor: governor, synth: synth, breakers: breakers,
		registry: registry, log: log,
	}
}

// Enrich runs the full pipeline for one row.
func (o *Orchestrator) Enrich(ctx context.Context, tableID domain.TableID, rowID domain.RowID, fieldsToEnrich []string, opts Options) domain.EnrichResult {
	ctx, span := tracer.Start(ctx, "Enrich", trace.WithAttributes(
		attribute.String("table_id", tableID.String()),
		attribute.String("row_id", rowID.String()),
		attribute.StringSlice("fields", fieldsToEnrich),
	))
	defer span.End()

	ctx = requestcontext.WithRowID(requestcontext.WithTableID(ctx, tableID), rowID)
	start := requestcontext.Now(ctx)

	raw, err := o.rows.Load(ctx, tableID, rowID)
	if err != nil {
		return failedResult(start, "row not found")
	}

	input := normalize.NormalizeExistingDataToInput(rowID, tableID, raw)
	ident := o.resolver.Resolve(input, fieldsToEnrich)
	if !ident.HasMinimumIdentity() {
		return domain.EnrichResult{
			Status: domain.RowStatusFailed, Canonical: domain.CanonicalData{},
			DurationMs: since(start), Summary: "identity resolution failed fast: " + string(ident.IdentityStrength),
		}
	}

	plan := o.planner.Plan(input, fieldsToEnrich, opts.BudgetCents)

	evidence := o.exec.Run(ctx, input, plan, false)
	aggregated := o.agg.Aggregate(evidence)

	mode := opts.Mode
	if mode == "" {
		mode = domain.ModeNormal
	}
	report := verifier.Verify(aggregated, fieldsToEnrich, mode)

	if report.Status == verifier.StatusNeedsEscalation {
		escalationPlan := o.planner.Plan(input, report.FieldsToEscalate, opts.BudgetCents-o.governor.TotalSpentCents())
		moreEvidence := o.exec.Run(ctx, input, escalationPlan, true)
		evidence = append(evidence, moreEvidence...)
		aggregated = o.agg.Aggregate(evidence)
		report = verifier.Verify(aggregated, fieldsToEnrich, mode)
	}

	canonical := verifier.BuildResult(aggregated, report)

	if o.synth != nil {
		synthesized := o.synthesizeEligible(ctx, rowID, tableID, fieldsToEnrich, canonical)
		if len(synthesized) > 0 {
			evidence = append(evidence, synthesized...)
			aggregated = o.agg.Aggregate(evidence)
			report = verifier.Verify(aggregated, fieldsToEnrich, mode)
			canonical = verifier.BuildResult(aggregated, report)
		}
	}

	rec := provenance.New()
	prov := rec.Record(rowID, tableID, evidence)

	status := finalStatus(report)
	return domain.EnrichResult{
		Status: status, Canonical: canonical, Provenance: prov,
		CostCents: o.governor.TotalSpentCents(), DurationMs: since(start),
		Summary: summaryFor(status, report), Escalated: report.FieldsToEscalate,
		Unresolved: unresolvedFields(report),
	}
}

// synthesisProviderID and synthesisCostCents record generated-text fields
// against the same per-row cost ledger real provider calls use, even though
// synthesis never goes through the provider registry.
const synthesisProviderID domain.ProviderID = "llm_synthesizer"
const synthesisCostCents = 1

func (o *Orchestrator) synthesizeEligible(ctx context.Context, rowID domain.RowID, tableID domain.TableID, fields []string, canonical domain.CanonicalData) []domain.ProviderResult {
	var out []domain.ProviderResult
	for _, f := range fields {
		if f != "shortBio" && f != "companySummary" {
			continue
		}
		if _, already := canonical[f]; already {
			continue
		}
		if !o.governor.CanAffordTier(synthesisProviderID, domain.TierCheap, synthesisCostCents, rowID) {
			continue
		}
		result, err := o.synth.Synthesize(ctx, f, canonical)
		if err != nil || result == nil {
			continue
		}
		result.CostCents = synthesisCostCents
		o.governor.RecordCost(rowID, tableID, synthesisProviderID, f, synthesisCostCents, domain.TierCheap)
		out = append(out, *result)
	}
	return out
}

func finalStatus(report verifier.Report) domain.RowStatus {
	switch report.Status {
	case verifier.StatusVerified:
		return domain.RowStatusSuccess
	case verifier.StatusFailed:
		return domain.RowStatusFailed
	default:
		return domain.RowStatusPartial
	}
}

func summaryFor(status domain.RowStatus, report verifier.Report) string {
	accepted, total := 0, len(report.Decisions)
	for _, d := range report.Decisions {
		if d.Outcome == domain.DecisionAccept {
			accepted++
		}
	}
	switch status {
	case domain.RowStatusSuccess:
		return "all requested fields enriched"
	case domain.RowStatusFailed:
		return "no fields could be enriched"
	default:
		return "partial enrichment: " + strconv.Itoa(accepted) + " of " + strconv.Itoa(total) + " fields accepted"
	}
}

func unresolvedFields(report verifier.Report) []string {
	var out []string
	for field, d := range report.Decisions {
		if d.Outcome == domain.DecisionRequireMore || d.Outcome == domain.DecisionFail {
			out = append(out, field)
		}
	}
	return out
}

func failedResult(start time.Time, reason string) domain.EnrichResult {
	return domain.EnrichResult{Status: domain.RowStatusFailed, DurationMs: since(start), Summary: reason}
}

func since(start time.Time) int64 {
	return time.Since(start).Milliseconds()
}
