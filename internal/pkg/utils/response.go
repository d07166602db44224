package utils

import (
	"errors"
	"net/http"
	"prescriptions-service/internal/pkg/constvars"
	"prescriptions-service/internal/pkg/exceptions"
	"prescriptions-service/internal/pkg/fhir_dto"

	"github.com/goccy/go-json"
	"go.uber.org/zap"
)

func buildOutcome(severity, code, system, detailCode, display, diagnostics string) *fhir_dto.OperationOutcome {
	return &fhir_dto.OperationOutcome{
		ResourceType: constvars.ResourceOperationOutcome,
		Issue: []fhir_dto.OperationOutcomeIssue{{
			Severity: severity,
			Code:     code,
			Details: &fhir_dto.CodeableConcept{
				Coding: []fhir_dto.Coding{{System: system, Code: detailCode, Display: display}},
			},
			Diagnostics: diagnostics,
		}},
	}
}

func BuildTimeoutOutcome() *fhir_dto.OperationOutcome {
	return buildOutcome(
		constvars.IssueSeverityFatal,
		constvars.IssueCodeTimeout,
		constvars.CodeSystemHTTPErrorCodes,
		constvars.OutcomeCodeTimeout,
		constvars.OutcomeDisplayTimeout,
		"",
	)
}

// BuildServerErrorOutcome uses the gateway request id as the outcome id
// when one is known.
func BuildServerErrorOutcome(apigwRequestID string) *fhir_dto.OperationOutcome {
	outcome := buildOutcome(
		constvars.IssueSeverityFatal,
		constvars.IssueCodeException,
		constvars.CodeSystemHTTPErrorCodes,
		constvars.OutcomeCodeServerError,
		constvars.OutcomeDisplayServerError,
		"",
	)
	outcome.ID = apigwRequestID
	return outcome
}

func BuildCertificateNotConfiguredOutcome() *fhir_dto.OperationOutcome {
	return buildOutcome(
		constvars.IssueSeverityFatal,
		constvars.IssueCodeSecurity,
		constvars.CodeSystemHTTPErrorCodes,
		constvars.OutcomeCodeServerError,
		constvars.OutcomeDisplayServerError,
		constvars.OutcomeDiagnosticsCertNotSet,
	)
}

func BuildInvalidNHSNumberOutcome() *fhir_dto.OperationOutcome {
	return buildOutcome(
		constvars.IssueSeverityError,
		constvars.IssueCodeValue,
		constvars.CodeSystemSpineErrorOrWarning,
		constvars.OutcomeCodeInvalidResourceID,
		constvars.OutcomeDisplayInvalidResourceID,
		"",
	)
}

func BuildTooManyRequestsOutcome() *fhir_dto.OperationOutcome {
	return buildOutcome(
		constvars.IssueSeverityError,
		constvars.IssueCodeThrottled,
		constvars.CodeSystemHTTPErrorCodes,
		constvars.OutcomeCodeTooManyRequests,
		constvars.OutcomeDisplayTooManyRequests,
		"",
	)
}

// BuildOperationOutcome maps an error to the status code and outcome body
// returned to the caller.
func BuildOperationOutcome(err error, apigwRequestID string) (int, *fhir_dto.OperationOutcome) {
	switch {
	case errors.Is(err, exceptions.ErrCertificateNotConfigured):
		return constvars.StatusInternalServerError, BuildCertificateNotConfiguredOutcome()
	case IsNHSNumberValidationError(err):
		return constvars.StatusBadRequest, BuildInvalidNHSNumberOutcome()
	case IsTimeout(err):
		return constvars.StatusRequestTimeout, BuildTimeoutOutcome()
	}

	var customErr *exceptions.CustomError
	if errors.As(err, &customErr) && customErr.StatusCode == constvars.StatusRequestTimeout {
		return constvars.StatusRequestTimeout, BuildTimeoutOutcome()
	}
	return constvars.StatusInternalServerError, BuildServerErrorOutcome(apigwRequestID)
}

func IsNHSNumberValidationError(err error) bool {
	return errors.Is(err, ErrIdentifierMissing) ||
		errors.Is(err, ErrIdentifierMalformed) ||
		errors.Is(err, ErrProofingLevelInsufficient) ||
		errors.Is(err, ErrChecksumInvalid)
}

// WriteFHIRResponse writes body as application/fhir+json with caching
// disabled. Headers already set on w are kept.
func WriteFHIRResponse(w http.ResponseWriter, statusCode int, body interface{}) {
	w.Header().Set(constvars.HeaderContentType, constvars.MIMEApplicationFHIRJSON)
	w.Header().Set(constvars.HeaderCacheControl, constvars.CacheControlNoCache)
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(body)
}

// TraceHeaders returns the inbound trace headers that are echoed on every
// response.
func TraceHeaders(headers http.Header) http.Header {
	echoed := http.Header{}
	for _, header := range constvars.TraceHeaders {
		if value := headers.Get(header); value != "" {
			echoed.Set(header, value)
		}
	}
	return echoed
}

// EchoTraceHeaders copies the inbound trace headers onto w.
func EchoTraceHeaders(w http.ResponseWriter, headers http.Header) {
	for header, values := range TraceHeaders(headers) {
		for _, value := range values {
			w.Header().Set(header, value)
		}
	}
}

// BuildErrorResponse logs err with its recorded locations and writes the
// matching OperationOutcome.
func BuildErrorResponse(log *zap.Logger, w http.ResponseWriter, r *http.Request, err error) {
	requestID, _ := r.Context().Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)

	var customErr *exceptions.CustomError
	if errors.As(err, &customErr) {
		for _, location := range customErr.Locations {
			log.Error(customErr.DevMessage,
				zap.String(constvars.LoggingRequestIDKey, requestID),
				zap.String("file", location.File),
				zap.Int("line", location.Line),
				zap.String("function_name", location.FunctionName),
				zap.Error(customErr.Err),
			)
		}
	} else {
		log.Error(err.Error(), zap.String(constvars.LoggingRequestIDKey, requestID))
	}

	statusCode, outcome := BuildOperationOutcome(err, r.Header.Get(constvars.HeaderApigwRequestID))
	EchoTraceHeaders(w, r.Header)
	WriteFHIRResponse(w, statusCode, outcome)
}
