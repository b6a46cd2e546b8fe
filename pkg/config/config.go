package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const (
	EnvPrefix = "statio"

	AppEnvDev  = "development"
	AppEnvProd = "production"

	// Environment variable names referenced by tests and deploy tooling.
	EnvAppEnv     = "STATIO_APP_ENV"
	EnvAPIBaseURL = "STATIO_API_BASE_URL"
	EnvSimPort    = "STATIO_SIM_PORT"
	EnvJWTSecret  = "STATIO_JWT_SECRET"
)

type Config struct {
	App      AppConfig
	Portal   PortalConfig
	Sim      SimConfig
	JWT      JWTConfig
	Password PasswordConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"STATIO_APP_ENV" default:"development"`
	LogLevel     string `envconfig:"STATIO_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"STATIO_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

// PortalConfig drives the client side: base URL of the parking API, request
// timeout, and the cadence of session revalidation.
type PortalConfig struct {
	BaseURL             string        `envconfig:"STATIO_API_BASE_URL" default:"http://localhost:8080/api"`
	RequestTimeout      time.Duration `envconfig:"STATIO_REQUEST_TIMEOUT" default:"10s"`
	RevalidateInterval  time.Duration `envconfig:"STATIO_REVALIDATE_INTERVAL" default:"30s"`
	ExpirySoonThreshold time.Duration `envconfig:"STATIO_EXPIRY_SOON_THRESHOLD" default:"5m"`
	StateDir            string        `envconfig:"STATIO_STATE_DIR"`
}

// SimConfig configures the local API simulator.
type SimConfig struct {
	Port     string `envconfig:"STATIO_SIM_PORT" default:"8080"`
	DBPath   string `envconfig:"STATIO_SIM_DB_PATH" default:"statio-sim.db"`
	SeedDemo bool   `envconfig:"STATIO_SIM_SEED_DEMO" default:"true"`
}

type JWTConfig struct {
	Secret            string `envconfig:"STATIO_JWT_SECRET"`
	Issuer            string `envconfig:"STATIO_JWT_ISSUER" default:"statio-sim"`
	ExpirationMinutes int    `envconfig:"STATIO_JWT_EXPIRATION_MINUTES" default:"60"`
}

// AccessTokenTTL returns the configured access token lifetime.
func (j JWTConfig) AccessTokenTTL() time.Duration {
	if j.ExpirationMinutes <= 0 {
		return 0
	}
	return time.Duration(j.ExpirationMinutes) * time.Minute
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"STATIO_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"STATIO_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"STATIO_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"STATIO_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"STATIO_ARGON_KEY_LEN" default:"32"`
}
