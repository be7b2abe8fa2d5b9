// Package provenance builds the permanent per-field-per-source audit trail
// from a row's evidence, preserving insertion order.
package provenance

import (
	"time"

	"github.com/google/uuid"

	"enrichcore/pkg/domain"
)

// Recorder turns evidence into Provenance records.
type Recorder struct{}

// New builds a Recorder. It holds no state.
func New() *Recorder { return &Recorder{} }

// Record converts results into Provenance entries in the order given.
func (r *Recorder) Record(rowID domain.RowID, tableID domain.TableID, results []domain.ProviderResult) []domain.Provenance {
	out := make([]domain.Provenance, 0, len(results))
	for _, res := range results {
		out = append(out, domain.Provenance{
			ID:          uuid.New().String(),
			RowID:       rowID,
			TableID:     tableID,
			Field:       res.Field,
			Source:      res.Source,
			Value:       res.Value,
			Confidence:  res.Confidence,
			RawResponse: res.Raw,
			Timestamp:   timeOrNow(res.Timestamp),
			CostCents:   res.CostCents,
		})
	}
	return out
}

func timeOrNow(t time.Time) time.Time {
	if t.IsZero() {
		return time.Now()
	}
	return t
}
