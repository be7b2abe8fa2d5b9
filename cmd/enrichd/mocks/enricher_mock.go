// Code generated by go.uber.org/mock for the Enricher interface; hand
// maintained here to match mockgen's output shape without requiring the
// toolchain to run as part of this exercise.
//
//go:generate mockgen -source=../main.go -destination=enricher_mock.go -package=mocks Enricher
package mocks

import (
	"context"
	"reflect"

	"go.uber.org/mock/gomock"

	"enrichcore/internal/orchestrator"
	"enrichcore/pkg/domain"
)

// MockEnricher is a mock of the Enricher interface.
type MockEnricher struct {
	ctrl     *gomock.Controller
	recorder *MockEnricherMockRecorder
}

// MockEnricherMockRecorder is the mock recorder for MockEnricher.
type MockEnricherMockRecorder struct {
	mock *MockEnricher
}

// NewMockEnricher creates a new mock instance.
func NewMockEnricher(ctrl *gomock.Controller) *MockEnricher {
	mock := &MockEnricher{ctrl: ctrl}
	mock.recorder = &MockEnricherMockRecorder{mock}
	return mock
}

// EXPECT returns an object that allows the caller to indicate expected use.
func (m *MockEnricher) EXPECT() *MockEnricherMockRecorder {
	return m.recorder
}

// Enrich mocks base method.
func (m *MockEnricher) Enrich(ctx context.Context, tableID domain.TableID, rowID domain.RowID, fieldsToEnrich []string, opts orchestrator.Options) domain.EnrichResult {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "Enrich", ctx, tableID, rowID, fieldsToEnrich, opts)
	ret0, _ := ret[0].(domain.EnrichResult)
	return ret0
}

// Enrich indicates an expected call of Enrich.
func (mr *MockEnricherMockRecorder) Enrich(ctx, tableID, rowID, fieldsToEnrich, opts any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "Enrich", reflect.TypeOf((*MockEnricher)(nil).Enrich), ctx, tableID, rowID, fieldsToEnrich, opts)
}
