package constvars

type ContextKey string

const (
	CONTEXT_REQUEST_ID_KEY           ContextKey = "request_id"
	CONTEXT_IS_CLIENT_REQUEST_ID_KEY ContextKey = "is_client_request_id"
)

const (
	REQUEST_ID_PREFIX = "PFP_SVC_"
)

const (
	AppEnvProduction  = "production"
	AppEnvDevelopment = "development"

	// TargetServerSandbox selects the sandbox upstream clients.
	TargetServerSandbox = "sandbox"
)

const (
	DefaultServicesCacheMaxEntries = 1000
	ServicesCacheRedisKeyPrefix    = "distance_selling:ods:"
	ServicesCacheBackendMemory     = "memory"
	ServicesCacheBackendRedis      = "redis"
)

const (
	ResponseUnknown = "unknown"
)

const (
	StatusCheckPass  = "pass"
	StatusCheckWarn  = "warn"
	StatusCheckError = "error"
)

// SpineCertificatePlaceholder is the value deployments store before the
// real spine secrets are provisioned.
const SpineCertificatePlaceholder = "ChangeMe"
