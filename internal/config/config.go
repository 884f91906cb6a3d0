package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"

	"github.com/galihvsx/better-commuline-api/internal/constants"
)

// Config holds all application configuration
type Config struct {
	Port   string `validate:"required,numeric"`
	DBPath string `validate:"required"`

	// Upstream KRL API
	BaseURL string `validate:"required,url"`
	Token   string `validate:"required"`

	// Sync behaviour
	SyncSchedules    bool
	SyncBatchSize    int           `validate:"min=1"`
	SyncStationDelay time.Duration `validate:"min=0"`
	SyncInterval     time.Duration `validate:"min=0"`

	// Per-IP rate limiting
	RateLimitRPS   float64 `validate:"gt=0"`
	RateLimitBurst int     `validate:"min=1"`

	LogLevel  string `validate:"oneof=debug info warn error"`
	LogFormat string `validate:"oneof=text json"`
}

// Load loads configuration from the environment with defaults. A .env file
// in the working directory is read first when present.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		Port:             getEnv("PORT", constants.DefaultPort),
		DBPath:           getEnv("DB_PATH", constants.DefaultDBPath),
		BaseURL:          getEnv("KRL_BASE_URL", ""),
		Token:            getEnv("KRL_TOKEN", ""),
		SyncSchedules:    getEnvBool("SYNC_SCHEDULES", true),
		SyncBatchSize:    getEnvInt("SYNC_BATCH_SIZE", constants.DefaultBatchSize),
		SyncStationDelay: time.Duration(getEnvInt("SYNC_STATION_DELAY_MS", int(constants.DefaultStationDelay/time.Millisecond))) * time.Millisecond,
		SyncInterval:     time.Duration(getEnvInt("SYNC_INTERVAL_MINUTES", 0)) * time.Minute,
		RateLimitRPS:     getEnvFloat("RATE_LIMIT_RPS", constants.DefaultRateLimitRPS),
		RateLimitBurst:   getEnvInt("RATE_LIMIT_BURST", constants.DefaultRateLimitBurst),
		LogLevel:         getEnv("LOG_LEVEL", "info"),
		LogFormat:        getEnv("LOG_FORMAT", "text"),
	}
}

// Validate validates the configuration and returns detailed errors
func (c *Config) Validate() error {
	v := validator.New()
	if err := v.Struct(c); err != nil {
		if errs, ok := err.(validator.ValidationErrors); ok && len(errs) > 0 {
			fe := errs[0]
			switch fe.Field() {
			case "BaseURL":
				return fmt.Errorf("KRL_BASE_URL must be a valid URL, got: %q", c.BaseURL)
			case "Token":
				return fmt.Errorf("KRL_TOKEN cannot be empty")
			default:
				return fmt.Errorf("configuration validation failed on %s (%s)", fe.Field(), fe.Tag())
			}
		}
		return err
	}
	return nil
}

// getEnv retrieves an environment variable with a fallback default
func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if value, ok := os.LookupEnv(key); ok {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvFloat(key string, fallback float64) float64 {
	if value, ok := os.LookupEnv(key); ok {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if value, ok := os.LookupEnv(key); ok {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return fallback
}
