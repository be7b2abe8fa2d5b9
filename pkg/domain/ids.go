// Package domain holds small value types shared across the enrichment
// engine's packages: typed identifiers that prevent cross-type mixups at
// compile time.
package domain

import (
	"fmt"

	"github.com/google/uuid"

	dErrors "enrichcore/pkg/domainerrors"
)

// RowID identifies a single tabular row being enriched.
type RowID uuid.UUID

// TableID identifies the table a row belongs to.
type TableID uuid.UUID

// ProviderID identifies a registered provider.
type ProviderID string

// IsNil reports whether the row ID is the zero value.
func (r RowID) IsNil() bool { return r == RowID{} }

// String returns the canonical UUID string form.
func (r RowID) String() string { return uuid.UUID(r).String() }

// IsNil reports whether the table ID is the zero value.
func (t TableID) IsNil() bool { return t == TableID{} }

// String returns the canonical UUID string form.
func (t TableID) String() string { return uuid.UUID(t).String() }

// NewRowID generates a fresh random row ID.
func NewRowID() RowID { return RowID(uuid.New()) }

// NewTableID generates a fresh random table ID.
func NewTableID() TableID { return TableID(uuid.New()) }

// ParseRowID validates and returns a RowID.
//
// Errors: CodeBadRequest when the string is empty, malformed, or the nil
// UUID — rows are always concrete entities, never the zero identifier.
func ParseRowID(s string) (RowID, error) {
	u, err := parseNonNilUUID(s)
	if err != nil {
		return RowID{}, err
	}
	return RowID(u), nil
}

// ParseTableID validates and returns a TableID.
func ParseTableID(s string) (TableID, error) {
	u, err := parseNonNilUUID(s)
	if err != nil {
		return TableID{}, err
	}
	return TableID(u), nil
}

func parseNonNilUUID(s string) (uuid.UUID, error) {
	if s == "" {
		return uuid.Nil, dErrors.New(dErrors.CodeBadRequest, "id cannot be empty")
	}
	u, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, dErrors.Wrap(err, dErrors.CodeBadRequest, fmt.Sprintf("invalid id %q", s))
	}
	if u == uuid.Nil {
		return uuid.Nil, dErrors.New(dErrors.CodeBadRequest, "id cannot be the nil uuid")
	}
	return u, nil
}
