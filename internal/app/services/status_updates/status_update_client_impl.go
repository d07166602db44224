package status_updates

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"prescriptions-service/internal/app/contracts"
	"prescriptions-service/internal/app/models"
	"prescriptions-service/internal/pkg/constvars"
	"prescriptions-service/internal/pkg/exceptions"
	"prescriptions-service/internal/pkg/utils"
	"sync"
	"time"

	"github.com/goccy/go-json"
	"go.uber.org/zap"
)

var (
	statusUpdateClientInstance contracts.StatusUpdateClient
	onceStatusUpdateClient     sync.Once
)

type statusUpdateClient struct {
	Url        string
	ApiKey     string
	HTTPClient *http.Client
	Log        *zap.Logger
}

func NewStatusUpdateClient(url, apiKey string, timeout time.Duration, logger *zap.Logger) contracts.StatusUpdateClient {
	onceStatusUpdateClient.Do(func() {
		statusUpdateClientInstance = newStatusUpdateClient(url, apiKey, &http.Client{Timeout: timeout}, logger)
	})
	return statusUpdateClientInstance
}

func newStatusUpdateClient(url, apiKey string, httpClient *http.Client, logger *zap.Logger) *statusUpdateClient {
	return &statusUpdateClient{
		Url:        url,
		ApiKey:     apiKey,
		HTTPClient: httpClient,
		Log:        logger,
	}
}

func (c *statusUpdateClient) GetStatusUpdates(ctx context.Context, requests []models.StatusUpdateRequest) (*models.StatusUpdatePayload, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	c.Log.Info("statusUpdateClient.GetStatusUpdates called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.Int(constvars.LoggingCountKey, len(requests)),
	)

	requestBody, err := json.Marshal(models.StatusUpdateRequestBody{
		SchemaVersion: constvars.StatusUpdateSchemaVersion,
		Prescriptions: requests,
	})
	if err != nil {
		c.Log.Error("statusUpdateClient.GetStatusUpdates error marshaling request body",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return nil, exceptions.ErrCannotMarshalJSON(err)
	}

	req, err := http.NewRequestWithContext(ctx, constvars.MethodPost, c.Url, bytes.NewBuffer(requestBody))
	if err != nil {
		c.Log.Error("statusUpdateClient.GetStatusUpdates error creating HTTP request",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return nil, exceptions.ErrCreateHTTPRequest(err)
	}
	req.Header.Set(constvars.HeaderContentType, constvars.MIMEApplicationJSON)
	req.Header.Set(constvars.HeaderXApiKey, c.ApiKey)
	if requestID != "" {
		req.Header.Set(constvars.HeaderXRequestID, requestID)
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		c.Log.Error("statusUpdateClient.GetStatusUpdates error sending HTTP request",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return nil, exceptions.ErrStatusUpdateRequest(err)
	}
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, exceptions.ErrStatusUpdateRequest(exceptions.ErrReadHTTPResponse(err))
	}

	if resp.StatusCode != constvars.StatusOK {
		c.Log.Error("statusUpdateClient.GetStatusUpdates unexpected response",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Int(constvars.LoggingStatusCodeKey, resp.StatusCode),
		)
		return nil, exceptions.ErrStatusUpdateRequest(exceptions.ErrUnexpectedHTTPStatus(resp.StatusCode, c.Url))
	}

	var payload models.StatusUpdatePayload
	err = json.Unmarshal(bodyBytes, &payload)
	if err != nil {
		c.Log.Error("statusUpdateClient.GetStatusUpdates error unmarshaling payload",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return nil, exceptions.ErrCannotParseJSON(err)
	}

	err = utils.ValidateStruct(payload)
	if err != nil {
		c.Log.Error("statusUpdateClient.GetStatusUpdates invalid payload",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingErrorTypeKey, exceptions.FormatFirstValidationError(err)),
		)
		return nil, exceptions.ErrInputValidation(err)
	}

	c.Log.Info("statusUpdateClient.GetStatusUpdates succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.Bool(constvars.LoggingSuccessKey, payload.IsSuccess),
		zap.Int(constvars.LoggingCountKey, len(payload.Prescriptions)),
	)
	return &payload, nil
}
