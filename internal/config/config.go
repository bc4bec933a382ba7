package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
)

// Storage drivers
const (
	StoragePostgres = "postgres"
	StorageMemory   = "memory"
)

// Config holds all configuration for the application
type Config struct {
	StorageDriver     string
	DatabaseURL       string
	MigrationsPath    string
	JWTSecret         string
	JWTIssuer         string
	TokenTTL          time.Duration
	TelegramToken     string
	DueDigestSchedule string
	LogLevel          string
	LogFormat         string
	PrometheusPort    string
	Port              string
}

// Load reads an optional .env file and then builds the configuration from
// environment variables.
func Load() (*Config, error) {
	// A missing .env is normal outside local development.
	_ = godotenv.Load()
	return FromEnv()
}

// FromEnv builds the configuration from the current environment only.
func FromEnv() (*Config, error) {
	cfg := &Config{
		StorageDriver:     getEnvOrDefault("STORAGE_DRIVER", StoragePostgres),
		DatabaseURL:       os.Getenv("DATABASE_URL"),
		MigrationsPath:    getEnvOrDefault("MIGRATIONS_PATH", "migrations"),
		JWTSecret:         os.Getenv("JWT_SECRET"),
		JWTIssuer:         getEnvOrDefault("JWT_ISSUER", "chorebot"),
		TelegramToken:     os.Getenv("TELEGRAM_TOKEN"),
		DueDigestSchedule: getEnvOrDefault("DUE_DIGEST_SCHEDULE", "0 9 * * *"),
		LogLevel:          getEnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:         getEnvOrDefault("LOG_FORMAT", "text"),
		PrometheusPort:    getEnvOrDefault("PROMETHEUS_PORT", "9090"),
		Port:              getEnvOrDefault("PORT", "8080"),
	}

	ttl, err := time.ParseDuration(getEnvOrDefault("TOKEN_TTL", "720h"))
	if err != nil {
		return nil, fmt.Errorf("TOKEN_TTL is not a valid duration: %w", err)
	}
	cfg.TokenTTL = ttl

	switch cfg.StorageDriver {
	case StoragePostgres:
		if cfg.DatabaseURL == "" {
			return nil, fmt.Errorf("DATABASE_URL environment variable is required")
		}
	case StorageMemory:
	default:
		return nil, fmt.Errorf("unknown STORAGE_DRIVER %q", cfg.StorageDriver)
	}

	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET environment variable is required")
	}

	return cfg, nil
}

// TelegramEnabled reports whether the chat bot should be started.
func (c *Config) TelegramEnabled() bool {
	return c.TelegramToken != ""
}

// getEnvOrDefault returns environment variable value or default if not set
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
