// Package static implements a RowLoader backed by an in-memory map, used by
// the example cmd/enrichd binary and by tests.
package static

import (
	"context"
	"sync"

	dErrors "enrichcore/pkg/domainerrors"
	"enrichcore/pkg/domain"
	"enrichcore/pkg/platform/sentinel"
)

// Store is a RowLoader over a fixed, concurrency-safe in-memory table.
type Store struct {
	mu   sync.RWMutex
	rows map[domain.TableID]map[domain.RowID]domain.RawRow
}

// New builds an empty Store.
func New() *Store {
	return &Store{rows: make(map[domain.TableID]map[domain.RowID]domain.RawRow)}
}

// Put seeds a row's raw data for later loading.
func (s *Store) Put(tableID domain.TableID, rowID domain.RowID, raw domain.RawRow) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.rows[tableID] == nil {
		s.rows[tableID] = make(map[domain.RowID]domain.RawRow)
	}
	s.rows[tableID][rowID] = raw
}

// Load implements rowstore.RowLoader.
func (s *Store) Load(ctx context.Context, tableID domain.TableID, rowID domain.RowID) (domain.RawRow, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	table, ok := s.rows[tableID]
	if !ok {
		return nil, dErrors.Wrap(sentinel.ErrNotFound, dErrors.CodeNotFound, "table not found")
	}
	row, ok := table[rowID]
	if !ok {
		return nil, dErrors.Wrap(sentinel.ErrNotFound, dErrors.CodeNotFound, "row not found")
	}
	return row, nil
}
