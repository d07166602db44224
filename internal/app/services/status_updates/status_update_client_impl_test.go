package status_updates

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"prescriptions-service/internal/app/models"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestGetStatusUpdates(t *testing.T) {
	requests := []models.StatusUpdateRequest{{OdsCode: "FLM49", PrescriptionID: "727066-A83008-2EFE36"}}

	t.Run("posts the request list and decodes the payload", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodPost, r.Method)
			assert.Equal(t, "test-key", r.Header.Get("X-Api-Key"))
			body, _ := io.ReadAll(r.Body)
			assert.JSONEq(t, `{"schemaVersion":1,"prescriptions":[{"odsCode":"FLM49","prescriptionID":"727066-A83008-2EFE36"}]}`, string(body))
			_, _ = w.Write([]byte(`{
				"schemaVersion": 1,
				"isSuccess": true,
				"prescriptions": [{
					"prescriptionID": "727066-A83008-2EFE36",
					"onboarded": true,
					"items": [{"itemId": "item-1", "latestStatus": "Ready to Collect", "isTerminalState": "false", "lastUpdateDateTime": "2023-09-11T10:11:12.000Z"}]
				}]
			}`))
		}))
		defer server.Close()

		client := newStatusUpdateClient(server.URL, "test-key", server.Client(), zap.NewNop())
		payload, err := client.GetStatusUpdates(context.Background(), requests)
		require.NoError(t, err)
		assert.True(t, payload.IsSuccess)
		require.Len(t, payload.Prescriptions, 1)
		assert.Equal(t, "Ready to Collect", payload.Prescriptions[0].Items[0].LatestStatus)
	})

	t.Run("rejects a payload with an invalid terminal flag", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"isSuccess":true,"prescriptions":[{"prescriptionID":"p","onboarded":true,"items":[{"itemId":"i","latestStatus":"s","isTerminalState":"maybe","lastUpdateDateTime":"d"}]}]}`))
		}))
		defer server.Close()

		client := newStatusUpdateClient(server.URL, "", server.Client(), zap.NewNop())
		_, err := client.GetStatusUpdates(context.Background(), requests)
		assert.Error(t, err)
	})

	t.Run("non 200 response", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
		}))
		defer server.Close()

		client := newStatusUpdateClient(server.URL, "", server.Client(), zap.NewNop())
		_, err := client.GetStatusUpdates(context.Background(), requests)
		assert.Error(t, err)
	})
}
