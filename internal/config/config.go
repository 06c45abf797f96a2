// Package config loads the server configuration from the environment.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config is the complete server configuration.
type Config struct {
	Port         string `env:"PORT"          envDefault:"8080"`
	DatabasePath string `env:"DATABASE_PATH" envDefault:"forum.db"`

	// DatabaseURL selects the Postgres store when set.
	DatabaseURL string `env:"DATABASE_URL"`

	SessionSecret string        `env:"SESSION_SECRET"`
	SessionTTL    time.Duration `env:"SESSION_TTL"    envDefault:"24h"`
	CookieSecure  bool          `env:"COOKIE_SECURE"  envDefault:"true"`
	BcryptCost    int           `env:"BCRYPT_COST"    envDefault:"12"`

	// CORSAllowedOrigin is the single front-end origin allowed to make
	// credentialed requests. Empty disables CORS.
	CORSAllowedOrigin string `env:"CORS_ALLOWED_ORIGIN"`

	LogLevel     slog.Level `env:"LOG_LEVEL"     envDefault:"info"`
	OTelEndpoint string     `env:"OTEL_ENDPOINT"`
	OTelEnabled  bool       `env:"OTEL_ENABLED"  envDefault:"true"`
}

// Load parses the environment into a Config and validates it.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks the values env tags cannot express.
func (c Config) Validate() error {
	if c.SessionSecret == "" {
		return errors.New("SESSION_SECRET environment variable is required")
	}
	if len(c.SessionSecret) < 32 {
		return errors.New("SESSION_SECRET must be at least 32 characters for HMAC-SHA256 security")
	}
	if c.BcryptCost < 4 || c.BcryptCost > 14 {
		return fmt.Errorf("BCRYPT_COST must be between 4 and 14, got %d", c.BcryptCost)
	}
	if c.SessionTTL <= 0 {
		return fmt.Errorf("SESSION_TTL must be positive, got %s", c.SessionTTL)
	}
	return nil
}
