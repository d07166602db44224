package controllers

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"prescriptions-service/internal/app/config"
	"prescriptions-service/internal/app/models"
	"prescriptions-service/internal/pkg/fhir_dto"
	"prescriptions-service/internal/pkg/testutils"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type MockPrescriptionUsecase struct {
	mock.Mock
}

func (m *MockPrescriptionUsecase) GetEnrichedPrescriptions(ctx context.Context, headers http.Header) *models.PrescriptionsResult {
	args := m.Called(ctx, headers)
	return args.Get(0).(*models.PrescriptionsResult)
}

type MockStatusUpdateClient struct {
	mock.Mock
}

func (m *MockStatusUpdateClient) GetStatusUpdates(ctx context.Context, requests []models.StatusUpdateRequest) (*models.StatusUpdatePayload, error) {
	args := m.Called(ctx, requests)
	payload, _ := args.Get(0).(*models.StatusUpdatePayload)
	return payload, args.Error(1)
}

var testNow = time.Date(2023, 9, 11, 10, 11, 12, 0, time.UTC)

func testInternalConfig(statusUpdatesEnabled bool) *config.InternalConfig {
	return &config.InternalConfig{
		StatusUpdates: config.StatusUpdates{Enabled: statusUpdatesEnabled},
		Timeouts: config.Timeouts{
			Pipeline:     time.Second,
			Spine:        900 * time.Millisecond,
			Enrichment:   500 * time.Millisecond,
			StatusUpdate: 100 * time.Millisecond,
		},
	}
}

var testRequests = []models.StatusUpdateRequest{{OdsCode: "FLM49", PrescriptionID: "727066-A83008-2EFE36"}}

func successResult() *models.PrescriptionsResult {
	headers := http.Header{}
	headers.Set("x-request-id", "test-x-request-id")
	headers.Set("x-correlation-id", "test-x-correlation-id")
	return &models.PrescriptionsResult{
		StatusCode: http.StatusOK,
		Body: testutils.SearchsetBundle(testutils.Prescription(testutils.PrescriptionSpec{
			PrescriptionID: "727066-A83008-2EFE36",
			OdsCode:        "FLM49",
			ItemIDs:        []string{"item-1"},
		})),
		Headers:              headers,
		StatusUpdateRequests: testRequests,
	}
}

func newTestController(usecase *MockPrescriptionUsecase, client *MockStatusUpdateClient, cfg *config.InternalConfig) *PrescriptionController {
	controller := NewPrescriptionController(zap.NewNop(), usecase, client, cfg)
	controller.Now = func() time.Time { return testNow }
	return controller
}

// firstItem returns the status, status history code and status history date
// of the first line item in the response body.
func firstItem(t *testing.T, body []byte) (string, string, string) {
	var bundle fhir_dto.Bundle
	require.NoError(t, json.Unmarshal(body, &bundle))
	item := testutils.MedicationRequests(&bundle, 0)[0]
	require.Len(t, item.Extension, 1)
	sub := item.Extension[0].Extension
	require.Len(t, sub, 2)
	require.NotNil(t, sub[0].ValueCoding)
	return item.Status, sub[0].ValueCoding.Code, sub[1].ValueDateTime
}

func TestPrescriptionController_GetMyPrescriptions(t *testing.T) {
	t.Run("applies status updates", func(t *testing.T) {
		usecase := new(MockPrescriptionUsecase)
		client := new(MockStatusUpdateClient)
		usecase.On("GetEnrichedPrescriptions", mock.Anything, mock.Anything).Return(successResult())
		client.On("GetStatusUpdates", mock.Anything, testRequests).Return(&models.StatusUpdatePayload{
			SchemaVersion: 1,
			IsSuccess:     true,
			Prescriptions: []models.PrescriptionStatusRecord{{
				PrescriptionID: "727066-A83008-2EFE36",
				Onboarded:      true,
				Items: []models.ItemStatusUpdate{{
					ItemId:             "item-1",
					LatestStatus:       "Ready to Collect",
					IsTerminalState:    "false",
					LastUpdateDateTime: "2023-09-11T10:11:12.000Z",
				}},
			}},
		}, nil)

		rec := httptest.NewRecorder()
		newTestController(usecase, client, testInternalConfig(true)).GetMyPrescriptions(rec, httptest.NewRequest(http.MethodGet, "/Bundle", nil))

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "application/fhir+json", rec.Header().Get("Content-Type"))
		assert.Equal(t, "no-cache", rec.Header().Get("Cache-Control"))
		assert.Equal(t, "test-x-request-id", rec.Header().Get("x-request-id"))
		assert.Equal(t, "test-x-correlation-id", rec.Header().Get("x-correlation-id"))

		status, code, date := firstItem(t, rec.Body.Bytes())
		assert.Equal(t, "active", status)
		assert.Equal(t, "Ready to Collect", code)
		assert.Equal(t, "2023-09-11T10:11:12.000Z", date)
		client.AssertExpectations(t)
	})

	t.Run("status service failure applies temporary updates", func(t *testing.T) {
		usecase := new(MockPrescriptionUsecase)
		client := new(MockStatusUpdateClient)
		usecase.On("GetEnrichedPrescriptions", mock.Anything, mock.Anything).Return(successResult())
		client.On("GetStatusUpdates", mock.Anything, testRequests).Return(nil, errors.New("unavailable"))

		rec := httptest.NewRecorder()
		newTestController(usecase, client, testInternalConfig(true)).GetMyPrescriptions(rec, httptest.NewRequest(http.MethodGet, "/Bundle", nil))

		assert.Equal(t, http.StatusOK, rec.Code)
		status, code, date := firstItem(t, rec.Body.Bytes())
		assert.Equal(t, "active", status)
		assert.Equal(t, "Tracking Temporarily Unavailable", code)
		assert.Equal(t, "2023-09-11T10:11:12.000Z", date)
	})

	t.Run("unsuccessful payload applies temporary updates", func(t *testing.T) {
		usecase := new(MockPrescriptionUsecase)
		client := new(MockStatusUpdateClient)
		usecase.On("GetEnrichedPrescriptions", mock.Anything, mock.Anything).Return(successResult())
		client.On("GetStatusUpdates", mock.Anything, testRequests).Return(&models.StatusUpdatePayload{IsSuccess: false}, nil)

		rec := httptest.NewRecorder()
		newTestController(usecase, client, testInternalConfig(true)).GetMyPrescriptions(rec, httptest.NewRequest(http.MethodGet, "/Bundle", nil))

		_, code, _ := firstItem(t, rec.Body.Bytes())
		assert.Equal(t, "Tracking Temporarily Unavailable", code)
	})

	t.Run("slow status service applies temporary updates", func(t *testing.T) {
		usecase := new(MockPrescriptionUsecase)
		client := new(MockStatusUpdateClient)
		usecase.On("GetEnrichedPrescriptions", mock.Anything, mock.Anything).Return(successResult())
		client.On("GetStatusUpdates", mock.Anything, testRequests).
			After(300*time.Millisecond).
			Return(&models.StatusUpdatePayload{IsSuccess: true}, nil)

		rec := httptest.NewRecorder()
		newTestController(usecase, client, testInternalConfig(true)).GetMyPrescriptions(rec, httptest.NewRequest(http.MethodGet, "/Bundle", nil))

		_, code, _ := firstItem(t, rec.Body.Bytes())
		assert.Equal(t, "Tracking Temporarily Unavailable", code)
	})

	t.Run("status updates disabled leaves items untouched", func(t *testing.T) {
		usecase := new(MockPrescriptionUsecase)
		client := new(MockStatusUpdateClient)
		usecase.On("GetEnrichedPrescriptions", mock.Anything, mock.Anything).Return(successResult())

		rec := httptest.NewRecorder()
		newTestController(usecase, client, testInternalConfig(false)).GetMyPrescriptions(rec, httptest.NewRequest(http.MethodGet, "/Bundle", nil))

		var bundle fhir_dto.Bundle
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &bundle))
		item := testutils.MedicationRequests(&bundle, 0)[0]
		assert.Empty(t, item.Extension)
		client.AssertNotCalled(t, "GetStatusUpdates", mock.Anything, mock.Anything)
	})

	t.Run("error outcomes are written as is", func(t *testing.T) {
		usecase := new(MockPrescriptionUsecase)
		client := new(MockStatusUpdateClient)
		usecase.On("GetEnrichedPrescriptions", mock.Anything, mock.Anything).Return(&models.PrescriptionsResult{
			StatusCode: http.StatusBadRequest,
			Body: &fhir_dto.OperationOutcome{
				ResourceType: "OperationOutcome",
				Issue:        []fhir_dto.OperationOutcomeIssue{{Severity: "error", Code: "value"}},
			},
			Headers: http.Header{},
		})

		rec := httptest.NewRecorder()
		newTestController(usecase, client, testInternalConfig(true)).GetMyPrescriptions(rec, httptest.NewRequest(http.MethodGet, "/Bundle", nil))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.JSONEq(t, `{"resourceType":"OperationOutcome","issue":[{"severity":"error","code":"value"}]}`, rec.Body.String())
		client.AssertNotCalled(t, "GetStatusUpdates", mock.Anything, mock.Anything)
	})
}
