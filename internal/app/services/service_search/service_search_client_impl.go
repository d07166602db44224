package service_search

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"prescriptions-service/internal/app/contracts"
	"prescriptions-service/internal/app/models"
	"prescriptions-service/internal/pkg/constvars"
	"prescriptions-service/internal/pkg/exceptions"
	"prescriptions-service/internal/pkg/metrics"
	"strings"
	"sync"
	"time"

	"github.com/goccy/go-json"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

var (
	serviceSearchClientInstance contracts.ServiceSearchClient
	onceServiceSearchClient     sync.Once
)

type service struct {
	URL                 *string `json:"URL"`
	OrganisationSubType string  `json:"OrganisationSubType"`
}

type serviceSearchData struct {
	Value []service `json:"value"`
}

type serviceSearchClient struct {
	BaseUrl         string
	SubscriptionKey string
	MaxRetries      int
	HTTPClient      *http.Client
	Limiter         *rate.Limiter
	Log             *zap.Logger
}

// NewServiceSearchClient builds the live client for targetServer, a host
// name reached over https.
func NewServiceSearchClient(targetServer, subscriptionKey string, timeout time.Duration, requestsPerSecond float64, logger *zap.Logger) contracts.ServiceSearchClient {
	onceServiceSearchClient.Do(func() {
		serviceSearchClientInstance = newServiceSearchClient(
			fmt.Sprintf("https://%s/%s", targetServer, constvars.ServiceSearchPath),
			subscriptionKey,
			&http.Client{Timeout: timeout},
			requestsPerSecond,
			logger,
		)
	})
	return serviceSearchClientInstance
}

func newServiceSearchClient(baseUrl, subscriptionKey string, httpClient *http.Client, requestsPerSecond float64, logger *zap.Logger) *serviceSearchClient {
	burst := int(requestsPerSecond)
	if burst < 1 {
		burst = 1
	}
	return &serviceSearchClient{
		BaseUrl:         baseUrl,
		SubscriptionKey: subscriptionKey,
		MaxRetries:      constvars.ServiceSearchMaxRetries,
		HTTPClient:      httpClient,
		Limiter:         rate.NewLimiter(rate.Limit(requestsPerSecond), burst),
		Log:             logger,
	}
}

func (c *serviceSearchClient) SearchService(ctx context.Context, odsCode string) (*url.URL, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	c.Log.Info("serviceSearchClient.SearchService called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingOdsCodeKey, odsCode),
	)

	data, err := c.fetch(ctx, odsCode)
	if err != nil {
		metrics.ServiceSearchRequestsTotal.WithLabelValues(metrics.LookupResultError).Inc()
		return nil, err
	}

	if len(data.Value) == 0 {
		metrics.ServiceSearchRequestsTotal.WithLabelValues(metrics.LookupResultNotFound).Inc()
		return nil, nil
	}

	found := data.Value[0]
	if found.URL == nil {
		c.Log.Warn("serviceSearchClient.SearchService distance selling pharmacy has no URL",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingOdsCodeKey, odsCode),
		)
		metrics.ServiceSearchRequestsTotal.WithLabelValues(metrics.LookupResultNotFound).Inc()
		return nil, nil
	}

	serviceUrl := c.handleUrl(*found.URL, odsCode, requestID)
	if serviceUrl == nil {
		metrics.ServiceSearchRequestsTotal.WithLabelValues(metrics.LookupResultNotFound).Inc()
		return nil, nil
	}

	c.Log.Info("serviceSearchClient.SearchService succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingOdsCodeKey, odsCode),
		zap.String(constvars.LoggingServiceUrlKey, serviceUrl.String()),
	)
	metrics.ServiceSearchRequestsTotal.WithLabelValues(metrics.LookupResultFound).Inc()
	return serviceUrl, nil
}

// fetch performs the query, retrying transport failures and server errors.
func (c *serviceSearchClient) fetch(ctx context.Context, odsCode string) (*serviceSearchData, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)

	var lastErr error
	for attempt := 0; attempt <= c.MaxRetries; attempt++ {
		if attempt > 0 {
			c.Log.Warn("serviceSearchClient.fetch retrying request",
				zap.String(constvars.LoggingRequestIDKey, requestID),
				zap.String(constvars.LoggingOdsCodeKey, odsCode),
				zap.Int(constvars.LoggingAttemptKey, attempt),
				zap.Error(lastErr),
			)
		}

		err := c.Limiter.Wait(ctx)
		if err != nil {
			return nil, exceptions.ErrServiceSearchRequest(err)
		}

		data, retryable, err := c.do(ctx, odsCode)
		if err == nil {
			return data, nil
		}
		lastErr = err
		if !retryable || ctx.Err() != nil {
			break
		}
	}

	c.Log.Error("serviceSearchClient.fetch error calling service search",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingOdsCodeKey, odsCode),
		zap.Error(lastErr),
	)
	return nil, lastErr
}

func (c *serviceSearchClient) do(ctx context.Context, odsCode string) (*serviceSearchData, bool, error) {
	query := url.Values{}
	query.Set("api-version", constvars.ServiceSearchAPIVersion)
	query.Set("searchFields", constvars.ServiceSearchFields)
	query.Set("$filter", constvars.ServiceSearchFilter)
	query.Set("$select", constvars.ServiceSearchSelect)
	query.Set("$top", constvars.ServiceSearchTop)
	query.Set("search", odsCode)

	req, err := http.NewRequestWithContext(ctx, constvars.MethodGet, c.BaseUrl+"?"+query.Encode(), nil)
	if err != nil {
		return nil, false, exceptions.ErrCreateHTTPRequest(err)
	}
	req.Header.Set(constvars.HeaderAccept, constvars.MIMEApplicationJSON)
	req.Header.Set(constvars.HeaderSubscriptionKey, c.SubscriptionKey)

	startTime := time.Now()
	resp, err := c.HTTPClient.Do(req)
	c.Log.Info("serviceSearchClient.do request duration",
		zap.String(constvars.LoggingOdsCodeKey, odsCode),
		zap.Duration(constvars.LoggingDurationKey, time.Since(startTime)),
	)
	if err != nil {
		return nil, true, exceptions.ErrSendHTTPRequest(c.stripSubscriptionKey(err))
	}
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, true, exceptions.ErrReadHTTPResponse(err)
	}

	if resp.StatusCode != constvars.StatusOK {
		retryable := resp.StatusCode >= constvars.StatusInternalServerError || resp.StatusCode == constvars.StatusTooManyRequests
		return nil, retryable, exceptions.ErrServiceSearchRequest(
			exceptions.ErrUnexpectedHTTPStatus(resp.StatusCode, constvars.ServiceSearchPath),
		)
	}

	var data serviceSearchData
	err = json.Unmarshal(bodyBytes, &data)
	if err != nil {
		return nil, false, exceptions.ErrCannotParseJSON(err)
	}
	return &data, false, nil
}

// handleUrl accepts absolute http and https URLs only.
func (c *serviceSearchClient) handleUrl(rawUrl, odsCode, requestID string) *url.URL {
	parsed, err := url.Parse(rawUrl)
	if err != nil || parsed.Host == "" {
		c.Log.Info("serviceSearchClient.handleUrl invalid URL",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingOdsCodeKey, odsCode),
			zap.String(constvars.LoggingServiceUrlKey, rawUrl),
		)
		return nil
	}

	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		c.Log.Info("serviceSearchClient.handleUrl invalid protocol",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingOdsCodeKey, odsCode),
			zap.String(constvars.LoggingServiceUrlKey, rawUrl),
		)
		return nil
	}
	return parsed
}

// stripSubscriptionKey keeps the API key out of logged transport errors.
func (c *serviceSearchClient) stripSubscriptionKey(err error) error {
	if c.SubscriptionKey == "" || !strings.Contains(err.Error(), c.SubscriptionKey) {
		return err
	}
	return fmt.Errorf("%s", strings.ReplaceAll(err.Error(), c.SubscriptionKey, "[REDACTED]"))
}

func (c *serviceSearchClient) GetStatus(ctx context.Context) models.StatusCheckResponse {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)

	req, err := http.NewRequestWithContext(ctx, constvars.MethodGet, c.BaseUrl+"?api-version="+constvars.ServiceSearchAPIVersion, nil)
	if err != nil {
		return models.StatusCheckResponse{Status: constvars.StatusCheckError, Timeout: "false", Outcome: err.Error()}
	}
	req.Header.Set(constvars.HeaderSubscriptionKey, c.SubscriptionKey)

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		c.Log.Warn("serviceSearchClient.GetStatus error",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(c.stripSubscriptionKey(err)),
		)
		timeout := "false"
		if ctx.Err() != nil || isTimeoutError(err) {
			timeout = "true"
		}
		return models.StatusCheckResponse{Status: constvars.StatusCheckError, Timeout: timeout, Links: c.BaseUrl}
	}
	defer resp.Body.Close()

	status := constvars.StatusCheckPass
	if resp.StatusCode != constvars.StatusOK {
		status = constvars.StatusCheckError
	}
	return models.StatusCheckResponse{
		Status:       status,
		Timeout:      "false",
		ResponseCode: resp.StatusCode,
		Links:        c.BaseUrl,
	}
}

func isTimeoutError(err error) bool {
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}
