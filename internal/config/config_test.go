package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestFromEnvDefaults(t *testing.T) {
	for _, key := range []string{"STORAGE_DRIVER", "MIGRATIONS_PATH", "JWT_ISSUER", "TOKEN_TTL",
		"TELEGRAM_TOKEN", "DUE_DIGEST_SCHEDULE", "PORT", "PROMETHEUS_PORT", "LOG_FORMAT"} {
		t.Setenv(key, "")
	}
	t.Setenv("DATABASE_URL", "postgres://localhost/chorebot")
	t.Setenv("JWT_SECRET", "secret")

	cfg, err := FromEnv()
	require.NoError(t, err)

	require.Equal(t, StoragePostgres, cfg.StorageDriver)
	require.Equal(t, "migrations", cfg.MigrationsPath)
	require.Equal(t, "chorebot", cfg.JWTIssuer)
	require.Equal(t, 720*time.Hour, cfg.TokenTTL)
	require.Equal(t, "0 9 * * *", cfg.DueDigestSchedule)
	require.Equal(t, "8080", cfg.Port)
	require.Equal(t, "9090", cfg.PrometheusPort)
	require.Equal(t, "text", cfg.LogFormat)
	require.False(t, cfg.TelegramEnabled())
}

func TestFromEnvRequiresDatabaseForPostgres(t *testing.T) {
	t.Setenv("STORAGE_DRIVER", "")
	t.Setenv("TOKEN_TTL", "")
	t.Setenv("DATABASE_URL", "")
	t.Setenv("JWT_SECRET", "secret")

	_, err := FromEnv()
	require.EqualError(t, err, "DATABASE_URL environment variable is required")
}

func TestFromEnvMemoryStorage(t *testing.T) {
	t.Setenv("STORAGE_DRIVER", StorageMemory)
	t.Setenv("DATABASE_URL", "")
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("TELEGRAM_TOKEN", "123:abc")
	t.Setenv("TOKEN_TTL", "1h")

	cfg, err := FromEnv()
	require.NoError(t, err)
	require.Equal(t, time.Hour, cfg.TokenTTL)
	require.True(t, cfg.TelegramEnabled())
}

func TestFromEnvRejectsUnknownDriver(t *testing.T) {
	t.Setenv("STORAGE_DRIVER", "mongo")
	t.Setenv("TOKEN_TTL", "")
	t.Setenv("JWT_SECRET", "secret")

	_, err := FromEnv()
	require.Error(t, err)
}

func TestFromEnvRequiresSecret(t *testing.T) {
	t.Setenv("STORAGE_DRIVER", StorageMemory)
	t.Setenv("TOKEN_TTL", "")
	t.Setenv("JWT_SECRET", "")

	_, err := FromEnv()
	require.EqualError(t, err, "JWT_SECRET environment variable is required")
}
