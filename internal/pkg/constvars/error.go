package constvars

// Validation messages for clients, keyed by validator tag
var CustomValidationErrorMessages = map[string]string{
	"required": "is required",
	"min":      "must be at least %s",
	"max":      "must be at most %s",
	"oneof":    "must be one of [%s]",
	"len":      "must be exactly %s characters long",
	"numeric":  "must be numeric",
	"url":      "must be a valid URL",
}

var TagsWithParams = map[string]bool{
	"min":   true,
	"max":   true,
	"oneof": true,
	"len":   true,
}

// Error messages for clients
const (
	ErrClientCannotProcessRequest          = "failed to process your request"
	ErrClientSomethingWrongWithApplication = "there is something wrong with the application"
	ErrClientServerLongRespond             = "the app taking too long to respond"
	ErrClientInvalidNHSNumber              = "invalid NHS number"
	ErrClientSpineUnavailable              = "prescriptions could not be retrieved"
)

// Error messages for developers
const (
	ErrDevInvalidInput           = "invalid input"
	ErrDevValidationFailed       = "validation failed"
	ErrDevCannotParseJSON        = "cannot parse JSON"
	ErrDevCannotMarshalJSON      = "cannot marshal JSON"
	ErrDevCreateHTTPRequest      = "failed to create HTTP request"
	ErrDevSendHTTPRequest        = "failed to send HTTP request"
	ErrDevReadHTTPResponse       = "failed to read HTTP response"
	ErrDevUnexpectedHTTPStatus   = "unexpected HTTP status %d from %s"
	ErrDevServerProcess          = "server failed to process the request"
	ErrDevNHSNumberValidation    = "NHS number validation failed"
	ErrDevSpineRequest           = "spine request failed"
	ErrDevSpineTimeout           = "spine request timed out"
	ErrDevSpineCertNotConfigured = "spine certificate is not configured"
	ErrDevSpineTestError         = "forced error for test NHS number"
	ErrDevServiceSearchRequest   = "service search request failed"
	ErrDevStatusUpdateRequest    = "status update request failed"
	ErrDevCopyBundle             = "failed to copy bundle"
	ErrDevRedisGetData           = "failed to get data from redis"
	ErrDevRedisSetData           = "failed to set data to redis"
)
