package provenance_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"enrichcore/internal/provenance"
	"enrichcore/pkg/domain"
)

func TestRecord_PreservesOrderAndFields(t *testing.T) {
	rec := provenance.New()
	rowID, tableID := domain.NewRowID(), domain.NewTableID()
	ts := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	results := []domain.ProviderResult{
		{Field: "name", Value: domain.FieldValue{Str: "Jane"}, Confidence: 0.9, Source: "linkedin", CostCents: 0, Timestamp: ts},
		{Field: "email", Value: domain.FieldValue{Str: "jane@acme.com"}, Confidence: 0.8, Source: "hunter", CostCents: 1},
	}

	out := rec.Record(rowID, tableID, results)

	require.Len(t, out, 2)
	require.Equal(t, "name", out[0].Field)
	require.Equal(t, domain.ProviderID("linkedin"), out[0].Source)
	require.Equal(t, ts, out[0].Timestamp)
	require.Equal(t, "email", out[1].Field)
	require.False(t, out[1].Timestamp.IsZero(), "a zero timestamp is filled in with the current time")
	require.NotEqual(t, out[0].ID, out[1].ID, "each record gets a distinct id")
	require.Equal(t, rowID, out[0].RowID)
	require.Equal(t, tableID, out[0].TableID)
}

func TestRecord_EmptyEvidenceYieldsEmptySlice(t *testing.T) {
	rec := provenance.New()
	out := rec.Record(domain.NewRowID(), domain.NewTableID(), nil)
	require.Empty(t, out)
}
