package spine

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"errors"
	"fmt"
	"io"
	"net/http"
	"prescriptions-service/internal/app/contracts"
	"prescriptions-service/internal/app/models"
	"prescriptions-service/internal/pkg/constvars"
	"prescriptions-service/internal/pkg/exceptions"
	"prescriptions-service/internal/pkg/fhir_dto"
	"sync"
	"time"

	"github.com/goccy/go-json"
	"go.uber.org/zap"
)

var (
	spineClientInstance contracts.SpineClient
	onceSpineClient     sync.Once
)

type spineClient struct {
	BaseUrl               string
	ASID                  string
	PartyKey              string
	HTTPClient            *http.Client
	CertificateConfigured bool
	Log                   *zap.Logger
}

type SpineCredentials struct {
	ASID        string
	PartyKey    string
	PrivateKey  string
	Certificate string
	CAChain     string
}

// NewSpineClient builds the mTLS client for targetServer. Missing or
// placeholder credentials leave the client unconfigured rather than failing
// start up, so requests are answered with a security outcome.
func NewSpineClient(targetServer string, credentials SpineCredentials, timeout time.Duration, logger *zap.Logger) contracts.SpineClient {
	onceSpineClient.Do(func() {
		tlsConfig, err := buildTLSConfig(credentials)
		if err != nil {
			logger.Error("spineClient.NewSpineClient spine certificate is not usable",
				zap.Error(err),
			)
		}

		transport := http.DefaultTransport.(*http.Transport).Clone()
		transport.TLSClientConfig = tlsConfig

		spineClientInstance = newSpineClient(
			fmt.Sprintf("https://%s", targetServer),
			credentials.ASID,
			credentials.PartyKey,
			&http.Client{Timeout: timeout, Transport: transport},
			err == nil,
			logger,
		)
	})
	return spineClientInstance
}

func newSpineClient(baseUrl, asid, partyKey string, httpClient *http.Client, certificateConfigured bool, logger *zap.Logger) *spineClient {
	return &spineClient{
		BaseUrl:               baseUrl,
		ASID:                  asid,
		PartyKey:              partyKey,
		HTTPClient:            httpClient,
		CertificateConfigured: certificateConfigured,
		Log:                   logger,
	}
}

func buildTLSConfig(credentials SpineCredentials) (*tls.Config, error) {
	for _, value := range []string{credentials.PrivateKey, credentials.Certificate, credentials.CAChain} {
		if value == "" || value == constvars.SpineCertificatePlaceholder {
			return nil, exceptions.ErrCertificateNotConfigured
		}
	}

	certificate, err := tls.X509KeyPair([]byte(credentials.Certificate), []byte(credentials.PrivateKey))
	if err != nil {
		return nil, err
	}

	caPool := x509.NewCertPool()
	if !caPool.AppendCertsFromPEM([]byte(credentials.CAChain)) {
		return nil, errors.New("spine CA chain contains no certificates")
	}

	return &tls.Config{
		Certificates: []tls.Certificate{certificate},
		RootCAs:      caPool,
		MinVersion:   tls.VersionTLS12,
	}, nil
}

func (c *spineClient) IsCertificateConfigured() bool {
	return c.CertificateConfigured
}

func (c *spineClient) GetPrescriptions(ctx context.Context, nhsNumber string, headers http.Header) (*fhir_dto.Bundle, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	c.Log.Info("spineClient.GetPrescriptions called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
	)

	url := fmt.Sprintf("%s/%s", c.BaseUrl, constvars.SpinePrescriptionsPath)
	req, err := http.NewRequestWithContext(ctx, constvars.MethodGet, url, nil)
	if err != nil {
		c.Log.Error("spineClient.GetPrescriptions error creating HTTP request",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return nil, exceptions.ErrCreateHTTPRequest(err)
	}

	for _, header := range constvars.TraceHeaders {
		if value := headers.Get(header); value != "" {
			req.Header.Set(header, value)
		}
	}
	req.Header.Set(constvars.HeaderAccept, constvars.MIMEApplicationFHIRJSON)
	req.Header.Set(constvars.HeaderNHSNumber, nhsNumber)
	req.Header.Set(constvars.HeaderSpineFromASID, c.ASID)
	req.Header.Set(constvars.HeaderNHSDSessionURID, c.PartyKey)

	startTime := time.Now()
	resp, err := c.HTTPClient.Do(req)
	c.Log.Info("spineClient.GetPrescriptions request duration",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.Duration(constvars.LoggingDurationKey, time.Since(startTime)),
	)
	if err != nil {
		c.Log.Error("spineClient.GetPrescriptions error sending HTTP request",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return nil, exceptions.ErrSpineRequest(err)
	}
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		c.Log.Error("spineClient.GetPrescriptions error reading response body",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return nil, exceptions.ErrSpineRequest(exceptions.ErrReadHTTPResponse(err))
	}

	if resp.StatusCode != constvars.StatusOK {
		c.Log.Error("spineClient.GetPrescriptions unexpected response",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Int(constvars.LoggingStatusCodeKey, resp.StatusCode),
		)
		return nil, exceptions.ErrSpineRequest(exceptions.ErrUnexpectedHTTPStatus(resp.StatusCode, constvars.SpinePrescriptionsPath))
	}

	var bundle fhir_dto.Bundle
	err = json.Unmarshal(bodyBytes, &bundle)
	if err != nil {
		c.Log.Error("spineClient.GetPrescriptions error unmarshaling bundle",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return nil, exceptions.ErrSpineRequest(exceptions.ErrCannotParseJSON(err))
	}

	c.Log.Info("spineClient.GetPrescriptions succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.Int(constvars.LoggingCountKey, len(bundle.Entry)),
	)
	return &bundle, nil
}

func (c *spineClient) GetStatus(ctx context.Context) models.StatusCheckResponse {
	url := fmt.Sprintf("%s/%s", c.BaseUrl, constvars.SpineHealthcheckPath)
	return serviceHealthCheck(ctx, c.HTTPClient, url, c.Log)
}
