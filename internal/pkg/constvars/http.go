package constvars

const (
	MethodGet     = "GET"
	MethodHead    = "HEAD"
	MethodPost    = "POST"
	MethodPut     = "PUT"
	MethodPatch   = "PATCH"
	MethodDelete  = "DELETE"
	MethodOptions = "OPTIONS"
)

const (
	MIMETextPlain           = "text/plain"
	MIMEApplicationJSON     = "application/json"
	MIMEApplicationFHIRJSON = "application/fhir+json"
)

const (
	StatusOK                  = 200
	StatusBadRequest          = 400
	StatusUnauthorized        = 401
	StatusForbidden           = 403
	StatusNotFound            = 404
	StatusRequestTimeout      = 408
	StatusTooManyRequests     = 429
	StatusInternalServerError = 500
	StatusBadGateway          = 502
	StatusServiceUnavailable  = 503
	StatusGatewayTimeout      = 504
)

const (
	HeaderAccept       = "Accept"
	HeaderCacheControl = "Cache-Control"
	HeaderContentType  = "Content-Type"
	HeaderUserAgent    = "User-Agent"
	HeaderXRequestID   = "X-Request-ID"

	HeaderXCorrelationID    = "X-Correlation-ID"
	HeaderNHSDRequestID     = "NHSD-Request-ID"
	HeaderNHSDCorrelationID = "NHSD-Correlation-ID"
	HeaderApigwRequestID    = "Apigw-Request-ID"

	HeaderNHSLoginUser    = "NHSD-NHSlogin-User"
	HeaderNHSDSessionURID = "NHSD-Session-URID"
	HeaderNHSNumber       = "nhsNumber"
	HeaderSubscriptionKey = "Subscription-Key"
	HeaderSpineFromASID   = "Spine-From-Asid"
	HeaderXApiKey         = "X-Api-Key"
)

const (
	CacheControlNoCache = "no-cache"
)

// TraceHeaders are echoed back on every response.
var TraceHeaders = []string{
	HeaderXRequestID,
	HeaderXCorrelationID,
	HeaderNHSDRequestID,
	HeaderNHSDCorrelationID,
	HeaderApigwRequestID,
}

const (
	HeaderNHSLoginIdentityProofingLevel = "NHS-Login-Identity-Proofing-Level"
	RequiredProofingLevel               = "P9"
)
