package config_test

import (
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/msomdec/forum/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const validSecret = "0123456789abcdef0123456789abcdef"

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"PORT", "DATABASE_PATH", "DATABASE_URL", "SESSION_SECRET", "SESSION_TTL", "COOKIE_SECURE",
		"BCRYPT_COST", "CORS_ALLOWED_ORIGIN", "LOG_LEVEL", "OTEL_ENDPOINT", "OTEL_ENABLED",
	} {
		t.Setenv(key, "")
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)
	t.Setenv("SESSION_SECRET", validSecret)

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "forum.db", cfg.DatabasePath)
	assert.Empty(t, cfg.DatabaseURL)
	assert.Equal(t, 24*time.Hour, cfg.SessionTTL)
	assert.True(t, cfg.CookieSecure)
	assert.Equal(t, 12, cfg.BcryptCost)
	assert.Equal(t, slog.LevelInfo, cfg.LogLevel)
	assert.True(t, cfg.OTelEnabled)
}

func TestLoad_Overrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("SESSION_SECRET", validSecret)
	t.Setenv("PORT", "9090")
	t.Setenv("SESSION_TTL", "30m")
	t.Setenv("COOKIE_SECURE", "false")
	t.Setenv("BCRYPT_COST", "4")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("CORS_ALLOWED_ORIGIN", "http://localhost:5173")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, 30*time.Minute, cfg.SessionTTL)
	assert.False(t, cfg.CookieSecure)
	assert.Equal(t, 4, cfg.BcryptCost)
	assert.Equal(t, slog.LevelDebug, cfg.LogLevel)
	assert.Equal(t, "http://localhost:5173", cfg.CORSAllowedOrigin)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
		want string
	}{
		{"missing secret", map[string]string{}, "SESSION_SECRET"},
		{"short secret", map[string]string{"SESSION_SECRET": "short"}, "at least 32"},
		{"cost too low", map[string]string{"SESSION_SECRET": validSecret, "BCRYPT_COST": "3"}, "BCRYPT_COST"},
		{"cost too high", map[string]string{"SESSION_SECRET": validSecret, "BCRYPT_COST": "15"}, "BCRYPT_COST"},
		{"cost not a number", map[string]string{"SESSION_SECRET": validSecret, "BCRYPT_COST": "abc"}, "parse env"},
		{"bad ttl", map[string]string{"SESSION_SECRET": validSecret, "SESSION_TTL": "soon"}, "parse env"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			clearEnv(t)
			for k, v := range tc.env {
				t.Setenv(k, v)
			}

			_, err := config.Load()
			require.Error(t, err)
			assert.True(t, strings.Contains(err.Error(), tc.want), "error %q should mention %q", err, tc.want)
		})
	}
}
