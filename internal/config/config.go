package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/shopspring/decimal"
)

const (
	EnvPrefix = "POS"

	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	DriverMemory = "memory"
	DriverSQLite = "sqlite"
	DriverMySQL  = "mysql"
	DriverRedis  = "redis"
)

type Config struct {
	App      AppConfig
	Store    StoreConfig
	JWT      JWTConfig
	Checkout CheckoutConfig
	Features FeatureFlagsConfig
}

// Load reads an optional .env file and then the POS_* environment.
func Load() (*Config, error) {
	// .env is optional; real environment variables always win.
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	switch c.Store.Driver {
	case DriverMemory:
	case DriverSQLite, DriverMySQL:
		if c.Store.DSN == "" {
			return fmt.Errorf("POS_DB_DSN is required for store driver %q", c.Store.Driver)
		}
	case DriverRedis:
		if c.Store.RedisURL == "" {
			return errors.New("POS_REDIS_URL is required for store driver \"redis\"")
		}
	default:
		return fmt.Errorf("unknown store driver %q", c.Store.Driver)
	}

	if c.JWT.Secret == "" && !c.App.IsDev() {
		return errors.New("POS_JWT_SECRET is required outside dev")
	}
	if c.JWT.TTL <= 0 {
		return errors.New("POS_JWT_TTL must be positive")
	}
	if c.Checkout.TaxRate.IsNegative() {
		return errors.New("POS_TAX_RATE cannot be negative")
	}
	return nil
}

type AppConfig struct {
	Env            string   `envconfig:"POS_APP_ENV" default:"dev"`
	Port           string   `envconfig:"POS_PORT" default:"8080"`
	BaseURL        string   `envconfig:"POS_BASE_URL" default:"http://localhost:8080"`
	LogLevel       string   `envconfig:"POS_LOG_LEVEL" default:"info"`
	LogFormat      string   `envconfig:"POS_LOG_FORMAT" default:"json"`
	LogWarnStack   bool     `envconfig:"POS_LOG_WARN_STACK" default:"false"`
	AllowedOrigins []string `envconfig:"POS_ALLOWED_ORIGINS" default:"http://localhost:5173"`
	UploadDir      string   `envconfig:"POS_UPLOAD_DIR" default:"./uploads"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

func (a AppConfig) Addr() string {
	return ":" + strings.TrimPrefix(a.Port, ":")
}

type StoreConfig struct {
	Driver      string `envconfig:"POS_STORE_DRIVER" default:"memory"`
	DSN         string `envconfig:"POS_DB_DSN"`
	RedisURL    string `envconfig:"POS_REDIS_URL"`
	RedisPrefix string `envconfig:"POS_REDIS_PREFIX" default:"pos"`
	// ConnectAttempts bounds the start-up retry loop for SQL backends.
	ConnectAttempts int           `envconfig:"POS_DB_CONNECT_ATTEMPTS" default:"5"`
	ConnectBackoff  time.Duration `envconfig:"POS_DB_CONNECT_BACKOFF" default:"2s"`
}

type JWTConfig struct {
	Secret string        `envconfig:"POS_JWT_SECRET"`
	Issuer string        `envconfig:"POS_JWT_ISSUER" default:"go-pos-terminal"`
	TTL    time.Duration `envconfig:"POS_JWT_TTL" default:"24h"`
}

// SigningKey falls back to a fixed development key when no secret is configured.
func (j JWTConfig) SigningKey() []byte {
	if j.Secret == "" {
		return []byte("dev_only_pos_terminal_key")
	}
	return []byte(j.Secret)
}

type CheckoutConfig struct {
	TaxRate decimal.Decimal `envconfig:"POS_TAX_RATE" default:"0"`
}

type FeatureFlagsConfig struct {
	AllowRegistration bool `envconfig:"POS_ALLOW_REGISTRATION" default:"false"`
}
