package spine

import (
	"context"
	"errors"
	"io"
	"net"
	"net/http"
	"prescriptions-service/internal/app/models"
	"prescriptions-service/internal/pkg/constvars"

	"go.uber.org/zap"
)

// serviceHealthCheck calls url and reports the result without failing.
func serviceHealthCheck(ctx context.Context, httpClient *http.Client, url string, logger *zap.Logger) models.StatusCheckResponse {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)

	req, err := http.NewRequestWithContext(ctx, constvars.MethodGet, url, nil)
	if err != nil {
		return models.StatusCheckResponse{
			Status:       constvars.StatusCheckError,
			Timeout:      "false",
			ResponseCode: constvars.StatusInternalServerError,
			Links:        url,
		}
	}

	resp, err := httpClient.Do(req)
	if err != nil {
		logger.Error("serviceHealthCheck error calling external service for status check",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingUrlKey, url),
			zap.Error(err),
		)
		timeout := "false"
		var netErr net.Error
		if errors.As(err, &netErr) && netErr.Timeout() {
			timeout = "true"
		}
		return models.StatusCheckResponse{
			Status:       constvars.StatusCheckError,
			Timeout:      timeout,
			ResponseCode: constvars.StatusInternalServerError,
			Links:        url,
		}
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	status := constvars.StatusCheckPass
	if resp.StatusCode != constvars.StatusOK {
		status = constvars.StatusCheckError
	}
	return models.StatusCheckResponse{
		Status:       status,
		Timeout:      "false",
		ResponseCode: resp.StatusCode,
		Outcome:      string(body),
		Links:        url,
	}
}
