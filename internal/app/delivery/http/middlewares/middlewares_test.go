package middlewares

import (
	"net/http"
	"net/http/httptest"
	"prescriptions-service/internal/app/config"
	"prescriptions-service/internal/pkg/constvars"
	"strings"
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func newTestMiddlewares(maxRequests int) *Middlewares {
	return NewMiddlewares(zap.NewNop(), &config.InternalConfig{
		App: config.App{MaxRequests: maxRequests},
	})
}

func TestRequestIDMiddleware(t *testing.T) {
	m := newTestMiddlewares(10)

	t.Run("uses the client request id", func(t *testing.T) {
		var requestID string
		var isClient bool
		handler := m.RequestIDMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			requestID, _ = r.Context().Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
			isClient, _ = r.Context().Value(constvars.CONTEXT_IS_CLIENT_REQUEST_ID_KEY).(bool)
		}))

		req := httptest.NewRequest(http.MethodGet, "/Bundle", nil)
		req.Header.Set(constvars.HeaderXRequestID, "client-request-id")
		handler.ServeHTTP(httptest.NewRecorder(), req)

		assert.Equal(t, "client-request-id", requestID)
		assert.True(t, isClient)
	})

	t.Run("generates a request id when missing", func(t *testing.T) {
		var requestID string
		var inboundHeader string
		handler := m.RequestIDMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			requestID, _ = r.Context().Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
			inboundHeader = r.Header.Get(constvars.HeaderXRequestID)
		}))

		handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/Bundle", nil))

		assert.True(t, strings.HasPrefix(requestID, constvars.REQUEST_ID_PREFIX))
		assert.Empty(t, inboundHeader)
	})
}

func TestLoggingRecordsStatusAndTraceHeaders(t *testing.T) {
	m := newTestMiddlewares(10)
	core, logs := observer.New(zap.InfoLevel)
	handler := m.RequestIDMiddleware(m.Logging(zap.New(core))(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})))

	req := httptest.NewRequest(http.MethodGet, "/Bundle", nil)
	req.Header.Set(constvars.HeaderXRequestID, "request-1")
	req.Header.Set(constvars.HeaderXCorrelationID, "correlation-1")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusTeapot, rec.Code)

	entries := logs.All()
	require.Len(t, entries, 2)
	assert.Equal(t, "API request started", entries[0].Message)
	assert.Equal(t, "API request completed", entries[1].Message)

	fields := entries[1].ContextMap()
	assert.Equal(t, "request-1", fields[constvars.LoggingRequestIDKey])
	assert.Equal(t, "correlation-1", fields["x-correlation-id"])
	assert.Equal(t, int64(http.StatusTeapot), fields[constvars.LoggingStatusCodeKey])
	assert.Equal(t, false, fields[constvars.LoggingSuccessKey])
	assert.NotContains(t, fields, "nhsd-request-id")
}

func TestErrorHandlerRecoversPanics(t *testing.T) {
	m := newTestMiddlewares(10)

	for _, panicValue := range []interface{}{"boom", assert.AnError, 42} {
		handler := m.ErrorHandler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			panic(panicValue)
		}))

		req := httptest.NewRequest(http.MethodGet, "/Bundle", nil)
		req.Header.Set(constvars.HeaderApigwRequestID, "apigw-id")
		req.Header.Set(constvars.HeaderXRequestID, "req-1")
		req.Header.Set(constvars.HeaderXCorrelationID, "corr-1")
		rec := httptest.NewRecorder()
		require.NotPanics(t, func() { handler.ServeHTTP(rec, req) })

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.Equal(t, "req-1", rec.Header().Get(constvars.HeaderXRequestID))
		assert.Equal(t, "corr-1", rec.Header().Get(constvars.HeaderXCorrelationID))
		assert.Equal(t, "apigw-id", rec.Header().Get(constvars.HeaderApigwRequestID))
		assert.Equal(t, constvars.MIMEApplicationFHIRJSON, rec.Header().Get(constvars.HeaderContentType))

		var body map[string]interface{}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, "OperationOutcome", body["resourceType"])
		assert.Equal(t, "apigw-id", body["id"])
	}
}

func TestRateLimit(t *testing.T) {
	m := newTestMiddlewares(2)
	handler := m.RateLimit()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodGet, "/Bundle", nil)
		req.RemoteAddr = "10.0.0.1:1234"
		req.Header.Set(constvars.HeaderXRequestID, "req-1")
		req.Header.Set(constvars.HeaderXCorrelationID, "corr-1")
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		codes = append(codes, rec.Code)

		if rec.Code == http.StatusTooManyRequests {
			assert.Contains(t, rec.Body.String(), constvars.OutcomeCodeTooManyRequests)
			assert.Equal(t, "req-1", rec.Header().Get(constvars.HeaderXRequestID))
			assert.Equal(t, "corr-1", rec.Header().Get(constvars.HeaderXCorrelationID))
		}
	}

	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)
}
