package config

import (
	"prescriptions-service/internal/pkg/constvars"
	"prescriptions-service/internal/pkg/utils"
	"time"

	"github.com/joho/godotenv"
)

func init() {
	godotenv.Load()
}

func NewDriverConfig() *DriverConfig {
	return &DriverConfig{
		Redis: Redis{
			Host:     utils.GetEnvString("REDIS_HOST", "localhost"),
			Port:     utils.GetEnvString("REDIS_PORT", "6379"),
			Password: utils.GetEnvString("REDIS_PASSWORD", ""),
			DB:       utils.GetEnvInt("REDIS_DB", 0),
		},
		Logger: Logger{
			Level:               utils.GetEnvString("LOGGER_LEVEL", "info"),
			OutputFileName:      utils.GetEnvString("LOGGER_OUTPUT_FILENAME", "logger.log"),
			OutputErrorFileName: utils.GetEnvString("LOGGER_OUTPUT_ERROR_FILENAME", "logger_error.log"),
		},
	}
}

func NewInternalConfig() *InternalConfig {
	return &InternalConfig{
		App: App{
			Env:                      utils.GetEnvString("APP_ENV", constvars.AppEnvDevelopment),
			Port:                     utils.GetEnvString("APP_PORT", ":8080"),
			Version:                  utils.GetEnvString("APP_VERSION", "v1.0"),
			Timezone:                 utils.GetEnvString("APP_TIMEZONE", "Europe/London"),
			EndpointPrefix:           utils.GetEnvString("APP_ENDPOINT_PREFIX", ""),
			MaxRequests:              utils.GetEnvInt("APP_MAX_REQUEST", 50),
			ShutdownTimeoutInSeconds: utils.GetEnvInt("APP_SHUTDOWN_TIMEOUT", 10),
			TestErrorNHSNumbers:      utils.GetEnvStringSlice("APP_TEST_ERROR_NHS_NUMBERS", nil),
		},
		Spine: Spine{
			TargetServer:   utils.GetEnvString("SPINE_TARGET_SERVER", constvars.TargetServerSandbox),
			ASID:           utils.GetEnvString("SPINE_ASID", ""),
			PartyKey:       utils.GetEnvString("SPINE_PARTY_KEY", ""),
			PrivateKey:     utils.GetEnvString("SPINE_PRIVATE_KEY", ""),
			Certificate:    utils.GetEnvString("SPINE_CERTIFICATE", ""),
			CAChain:        utils.GetEnvString("SPINE_CA_CHAIN", ""),
			RequestTimeout: utils.GetEnvDuration("SPINE_REQUEST_TIMEOUT", 45*time.Second),
		},
		ServiceSearch: ServiceSearch{
			TargetServer:      utils.GetEnvString("SERVICE_SEARCH_TARGET_SERVER", constvars.TargetServerSandbox),
			SubscriptionKey:   utils.GetEnvString("SERVICE_SEARCH_SUBSCRIPTION_KEY", ""),
			RequestTimeout:    utils.GetEnvDuration("SERVICE_SEARCH_REQUEST_TIMEOUT", 45*time.Second),
			RequestsPerSecond: float64(utils.GetEnvInt("SERVICE_SEARCH_REQUESTS_PER_SECOND", 20)),
			MaxConcurrency:    utils.GetEnvInt("SERVICE_SEARCH_MAX_CONCURRENCY", 10),
		},
		StatusUpdates: StatusUpdates{
			Enabled: utils.GetEnvBool("STATUS_UPDATES_ENABLED", false),
			Url:     utils.GetEnvString("STATUS_UPDATES_URL", ""),
			ApiKey:  utils.GetEnvString("STATUS_UPDATES_API_KEY", ""),
		},
		Timeouts: Timeouts{
			Pipeline:     utils.GetEnvDuration("TIMEOUT_PIPELINE", 10*time.Second),
			Spine:        utils.GetEnvDuration("TIMEOUT_SPINE", 9*time.Second),
			Enrichment:   utils.GetEnvDuration("TIMEOUT_ENRICHMENT", 5*time.Second),
			StatusUpdate: utils.GetEnvDuration("TIMEOUT_STATUS_UPDATE", 5*time.Second),
		},
		ServicesCache: ServicesCache{
			Backend:    utils.GetEnvString("SERVICES_CACHE_BACKEND", constvars.ServicesCacheBackendMemory),
			MaxEntries: utils.GetEnvInt("SERVICES_CACHE_MAX_ENTRIES", constvars.DefaultServicesCacheMaxEntries),
			TTL:        utils.GetEnvDuration("SERVICES_CACHE_TTL", 24*time.Hour),
		},
	}
}

// Validate checks the loaded values, including that each nested deadline
// is shorter than its parent.
func (c *InternalConfig) Validate() error {
	return utils.ValidateStruct(c)
}

func (c *InternalConfig) IsProduction() bool {
	return c.App.Env == constvars.AppEnvProduction
}
