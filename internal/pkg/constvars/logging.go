package constvars

const (
	LoggingRequestIDKey      = "request_id"
	LoggingMethodKey         = "method"
	LoggingEndpointKey       = "endpoint"
	LoggingRemoteAddrKey     = "remote_addr"
	LoggingUserAgentKey      = "user_agent"
	LoggingStatusCodeKey     = "status_code"
	LoggingDurationKey       = "duration"
	LoggingSuccessKey        = "success"
	LoggingErrorTypeKey      = "error_type"
	LoggingUrlKey            = "url"
	LoggingOdsCodeKey        = "ods_code"
	LoggingOdsCodesKey       = "ods_codes"
	LoggingPrescriptionIDKey = "prescription_id"
	LoggingServiceUrlKey     = "service_url"
	LoggingCacheKey          = "cache_key"
	LoggingTimeoutKey        = "timeout"
	LoggingAttemptKey        = "attempt"
	LoggingCountKey          = "count"
	LoggingScenarioKey       = "scenario"
	LoggingOutcomeKey        = "outcome"
	LoggingStatusRequestsKey = "status_update_requests"
)
