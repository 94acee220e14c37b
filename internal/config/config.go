package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config aggregates runtime configuration for the service.
type Config struct {
	App      AppConfig
	Postgres PostgresConfig
	Redis    RedisConfig
	Logger   LoggerConfig
	Auth     AuthConfig
	SMS      SMSConfig
	Email    EmailConfig
	Dispatch DispatchConfig
}

// AppConfig controls server level behavior.
type AppConfig struct {
	Name                  string
	Env                   string
	Host                  string
	Port                  string
	Version               string
	RequestTimeoutSeconds int
}

// PostgresConfig holds DB connection values.
type PostgresConfig struct {
	DSN            string
	MaxConns       int32
	MinConns       int32
	RunMigrations  bool
	ConnMaxIdleSec int32
	ConnMaxLifeSec int32
}

// RedisConfig holds Redis connection values.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// LoggerConfig configures logging behavior.
type LoggerConfig struct {
	Level string
}

// AuthConfig defines authentication parameters.
type AuthConfig struct {
	JWTSecret             string
	AccessTokenTTLMinutes int
	BcryptCost            int
}

// SMSConfig holds the Twilio transport credentials. All three values must be
// present for the channel to be enabled; a partial configuration disables it.
type SMSConfig struct {
	AccountSID         string
	AuthToken          string
	FromNumber         string
	DefaultCountryCode string
}

// Enabled reports whether the SMS channel has a usable transport.
func (s SMSConfig) Enabled() bool {
	return s.AccountSID != "" && s.AuthToken != "" && s.FromNumber != ""
}

// EmailConfig holds the SES transport settings.
type EmailConfig struct {
	Region    string
	FromEmail string
}

// Enabled reports whether the email channel has a usable transport.
func (e EmailConfig) Enabled() bool {
	return e.FromEmail != ""
}

// DispatchConfig bounds channel delivery retries.
type DispatchConfig struct {
	MaxAttempts           int
	InitialBackoffSeconds int
	AttemptTimeoutSeconds int
}

// InitialBackoff returns the first retry delay.
func (d DispatchConfig) InitialBackoff() time.Duration {
	if d.InitialBackoffSeconds <= 0 {
		return time.Second
	}
	return time.Duration(d.InitialBackoffSeconds) * time.Second
}

// AttemptTimeout returns the per-attempt transport timeout.
func (d DispatchConfig) AttemptTimeout() time.Duration {
	if d.AttemptTimeoutSeconds <= 0 {
		return 10 * time.Second
	}
	return time.Duration(d.AttemptTimeoutSeconds) * time.Second
}

// Load reads configuration from environment variables, applying defaults where possible.
func Load() (*Config, error) {
	_ = godotenv.Load()

	redisDB, err := strconv.Atoi(getEnv("REDIS_DB", "0"))
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_DB: %w", err)
	}

	cfg := &Config{
		App: AppConfig{
			Name:                  getEnv("APP_NAME", "complaint-service"),
			Env:                   getEnv("APP_ENV", "development"),
			Host:                  getEnv("APP_HOST", "0.0.0.0"),
			Port:                  getEnv("APP_PORT", "8080"),
			Version:               getEnv("APP_VERSION", "dev"),
			RequestTimeoutSeconds: getEnvAsInt("HTTP_REQUEST_TIMEOUT_SECONDS", 30),
		},
		Postgres: PostgresConfig{
			DSN:            os.Getenv("POSTGRES_DSN"),
			MaxConns:       int32(getEnvAsInt("POSTGRES_MAX_CONNS", 10)),
			MinConns:       int32(getEnvAsInt("POSTGRES_MIN_CONNS", 2)),
			RunMigrations:  getEnvAsBool("POSTGRES_RUN_MIGRATIONS", true),
			ConnMaxIdleSec: int32(getEnvAsInt("POSTGRES_CONN_MAX_IDLE_SECONDS", 30)),
			ConnMaxLifeSec: int32(getEnvAsInt("POSTGRES_CONN_MAX_LIFE_SECONDS", 300)),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", "127.0.0.1:6379"),
			Password: os.Getenv("REDIS_PASSWORD"),
			DB:       redisDB,
		},
		Logger: LoggerConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
		Auth: AuthConfig{
			JWTSecret:             getEnv("AUTH_JWT_SECRET", "dev-secret"),
			AccessTokenTTLMinutes: getEnvAsInt("AUTH_ACCESS_TOKEN_TTL_MINUTES", 60),
			BcryptCost:            getEnvAsInt("AUTH_BCRYPT_COST", 12),
		},
		SMS: SMSConfig{
			AccountSID:         os.Getenv("TWILIO_ACCOUNT_SID"),
			AuthToken:          os.Getenv("TWILIO_AUTH_TOKEN"),
			FromNumber:         os.Getenv("TWILIO_PHONE_NUMBER"),
			DefaultCountryCode: getEnv("SMS_DEFAULT_COUNTRY_CODE", "+91"),
		},
		Email: EmailConfig{
			Region:    getEnv("SES_REGION", "us-east-1"),
			FromEmail: os.Getenv("SES_FROM_EMAIL"),
		},
		Dispatch: DispatchConfig{
			MaxAttempts:           getEnvAsInt("DISPATCH_MAX_ATTEMPTS", 3),
			InitialBackoffSeconds: getEnvAsInt("DISPATCH_INITIAL_BACKOFF_SECONDS", 1),
			AttemptTimeoutSeconds: getEnvAsInt("DISPATCH_ATTEMPT_TIMEOUT_SECONDS", 10),
		},
	}

	return cfg, nil
}

// Addr returns the HTTP bind address.
func (a AppConfig) Addr() string {
	return fmt.Sprintf("%s:%s", a.Host, a.Port)
}

// RequestTimeout returns the configured request timeout duration.
func (a AppConfig) RequestTimeout() time.Duration {
	if a.RequestTimeoutSeconds <= 0 {
		return 0
	}
	return time.Duration(a.RequestTimeoutSeconds) * time.Second
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(val)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvAsBool(key string, fallback bool) bool {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(val)
	if err != nil {
		return fallback
	}
	return parsed
}
