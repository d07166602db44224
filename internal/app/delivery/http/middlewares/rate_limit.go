package middlewares

import (
	"net/http"
	"prescriptions-service/internal/pkg/constvars"
	"prescriptions-service/internal/pkg/utils"
	"time"

	"github.com/go-chi/httprate"
	"go.uber.org/zap"
)

// RateLimit limits each client IP to App.MaxRequests per second and
// answers the excess with a throttled OperationOutcome.
func (m *Middlewares) RateLimit() func(next http.Handler) http.Handler {
	return httprate.Limit(
		m.InternalConfig.App.MaxRequests,
		time.Second,
		httprate.WithKeyFuncs(httprate.KeyByIP),
		httprate.WithLimitHandler(func(w http.ResponseWriter, r *http.Request) {
			requestID, _ := r.Context().Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
			m.Log.Warn("Middlewares.RateLimit request rejected",
				zap.String(constvars.LoggingRequestIDKey, requestID),
				zap.String(constvars.LoggingRemoteAddrKey, r.RemoteAddr),
			)
			utils.EchoTraceHeaders(w, r.Header)
			utils.WriteFHIRResponse(w, constvars.StatusTooManyRequests, utils.BuildTooManyRequestsOutcome())
		}),
	)
}
