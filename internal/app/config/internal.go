package config

import "time"

type InternalConfig struct {
	App           App
	Spine         Spine
	ServiceSearch ServiceSearch
	StatusUpdates StatusUpdates
	Timeouts      Timeouts
	ServicesCache ServicesCache
}

type App struct {
	Env                      string `validate:"required"`
	Port                     string `validate:"required"`
	Version                  string
	Timezone                 string
	EndpointPrefix           string
	MaxRequests              int `validate:"min=1"`
	ShutdownTimeoutInSeconds int `validate:"min=0"`
	// TestErrorNHSNumbers always receive a server error outside production.
	TestErrorNHSNumbers []string
}

type Spine struct {
	TargetServer   string `validate:"required"`
	ASID           string
	PartyKey       string
	PrivateKey     string
	Certificate    string
	CAChain        string
	RequestTimeout time.Duration `validate:"gt=0"`
}

type ServiceSearch struct {
	TargetServer      string `validate:"required"`
	SubscriptionKey   string
	RequestTimeout    time.Duration `validate:"gt=0"`
	RequestsPerSecond float64       `validate:"gt=0"`
	MaxConcurrency    int           `validate:"min=1"`
}

type StatusUpdates struct {
	Enabled bool
	Url     string `validate:"required_if=Enabled true"`
	ApiKey  string
}

type Timeouts struct {
	Pipeline     time.Duration `validate:"gt=0"`
	Spine        time.Duration `validate:"gt=0,ltfield=Pipeline"`
	Enrichment   time.Duration `validate:"gt=0,ltfield=Spine"`
	StatusUpdate time.Duration `validate:"gt=0"`
}

type ServicesCache struct {
	// Backend is "memory" or "redis".
	Backend    string `validate:"oneof=memory redis"`
	MaxEntries int    `validate:"min=0"`
	TTL        time.Duration
}
