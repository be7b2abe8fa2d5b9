package main

import (
	"io"
	"log/slog"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"enrichcore/cmd/enrichd/mocks"
	"enrichcore/internal/orchestrator"
	"enrichcore/pkg/domain"
	"enrichcore/pkg/testutil"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestEnrichHandler_Success(t *testing.T) {
	testutil.Given(t, "a row that the orchestrator can enrich", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		mockEnricher := mocks.NewMockEnricher(ctrl)

		tableID := domain.NewTableID()
		rowID := domain.NewRowID()
		want := domain.EnrichResult{
			Status:  domain.RowStatusSuccess,
			Summary: "all requested fields enriched",
		}
		mockEnricher.EXPECT().
			Enrich(gomock.Any(), tableID, rowID, []string{"email"}, gomock.Any()).
			Return(want)

		handler := enrichHandler(mockEnricher, discardLogger())

		testutil.When(t, "a well-formed enrich request is posted", func(t *testing.T) {
			req := testutil.NewJSONRequest(t, http.MethodPost, "/enrich", enrichRequest{
				TableID:        tableID.String(),
				RowID:          rowID.String(),
				FieldsToEnrich: []string{"email"},
			})
			rr := testutil.DoRequest(handler, req)

			testutil.Then(t, "the orchestrator result is returned as JSON", func(t *testing.T) {
				testutil.AssertStatus(t, rr, http.StatusOK)
				got := testutil.UnmarshalResponse[domain.EnrichResult](t, rr)
				require.Equal(t, want.Status, got.Status)
				require.Equal(t, want.Summary, got.Summary)
			})
		})
	})
}

func TestEnrichHandler_InvalidBody(t *testing.T) {
	testutil.Given(t, "a request body that is not valid JSON", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		mockEnricher := mocks.NewMockEnricher(ctrl)
		handler := enrichHandler(mockEnricher, discardLogger())

		testutil.When(t, "the malformed request is posted", func(t *testing.T) {
			req := testutil.NewRequestWithBody(t, http.MethodPost, "/enrich", "{not json")
			rr := testutil.DoRequest(handler, req)

			testutil.Then(t, "a bad request error is returned without calling the orchestrator", func(t *testing.T) {
				testutil.AssertStatus(t, rr, http.StatusBadRequest)
			})
		})
	})
}

func TestEnrichHandler_InvalidTableID(t *testing.T) {
	testutil.Given(t, "a request with a malformed table id", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		mockEnricher := mocks.NewMockEnricher(ctrl)
		handler := enrichHandler(mockEnricher, discardLogger())

		testutil.When(t, "the request is posted", func(t *testing.T) {
			body := `{"tableId":"not-a-uuid","rowId":"` + domain.NewRowID().String() + `","fieldsToEnrich":["email"]}`
			req := testutil.NewRequestWithBody(t, http.MethodPost, "/enrich", body)
			rr := testutil.DoRequest(handler, req)

			testutil.Then(t, "a bad request error is returned", func(t *testing.T) {
				testutil.AssertStatus(t, rr, http.StatusBadRequest)
			})
		})
	})
}

var _ Enricher = (*orchestrator.Orchestrator)(nil)
