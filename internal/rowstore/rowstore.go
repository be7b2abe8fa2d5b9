// Package rowstore defines the read-only row-loading port the engine's
// caller may implement; the engine never writes rows back.
package rowstore

import (
	"context"

	"enrichcore/pkg/domain"
)

// RowLoader loads a row's raw data by id.
type RowLoader interface {
	Load(ctx context.Context, tableID domain.TableID, rowID domain.RowID) (domain.RawRow, error)
}
