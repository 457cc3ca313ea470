// Package config loads server settings from defaults, an optional config
// file and the environment, in that order of precedence.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/caarlos0/env/v11"
	"github.com/spf13/viper"
)

// Config holds every runtime setting of the scorekeeper.
type Config struct {
	Port         string `mapstructure:"port" env:"PORT"`
	DatabasePath string `mapstructure:"database_path" env:"DATABASE_PATH"`
	JWTSecret    string `mapstructure:"jwt_secret" env:"JWT_SECRET"`
	// Default to secure cookies; disable only for local development.
	CookieSecure bool   `mapstructure:"cookie_secure" env:"COOKIE_SECURE"`
	BcryptCost   int    `mapstructure:"bcrypt_cost" env:"BCRYPT_COST"`
	LogLevel     string `mapstructure:"log_level" env:"LOG_LEVEL"`
	OTELEndpoint string `mapstructure:"otel_endpoint" env:"OTEL_ENDPOINT"`

	LoginRatePerSec float64 `mapstructure:"login_rate_per_sec" env:"LOGIN_RATE_PER_SEC"`
	LoginBurst      int     `mapstructure:"login_burst" env:"LOGIN_BURST"`

	// Only enable behind a reverse proxy that overwrites X-Forwarded-For.
	TrustProxyHeaders bool `mapstructure:"trust_proxy_headers" env:"TRUST_PROXY_HEADERS"`
}

// Default returns the settings used when nothing overrides them.
func Default() Config {
	return Config{
		Port:            "8080",
		DatabasePath:    "minigolf.db",
		CookieSecure:    true,
		BcryptCost:      12,
		LogLevel:        "info",
		LoginRatePerSec: 0.5,
		LoginBurst:      5,
	}
}

// Load builds a Config from defaults, the file at path (skipped when path is
// empty) and environment variables. The result is not validated.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		v := viper.New()
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config file: %w", err)
		}
		if err := v.Unmarshal(&cfg); err != nil {
			return Config{}, fmt.Errorf("decode config file: %w", err)
		}
	}

	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}

// Validate reports the first setting that would keep the server from
// running safely.
func (c Config) Validate() error {
	if c.JWTSecret == "" {
		return errors.New("JWT_SECRET is required")
	}
	if len(c.JWTSecret) < 32 {
		return errors.New("JWT_SECRET must be at least 32 characters for HMAC-SHA256 security")
	}
	if c.BcryptCost < 4 || c.BcryptCost > 14 {
		return fmt.Errorf("BCRYPT_COST must be between 4 and 14, got %d", c.BcryptCost)
	}
	if c.Port == "" {
		return errors.New("PORT must not be empty")
	}
	if c.DatabasePath == "" {
		return errors.New("DATABASE_PATH must not be empty")
	}
	if c.LoginRatePerSec < 0 || c.LoginBurst < 1 {
		return fmt.Errorf("login rate limit must be non-negative with a burst of at least 1")
	}
	if _, err := c.Level(); err != nil {
		return err
	}
	return nil
}

// Level parses LogLevel into a slog level.
func (c Config) Level() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.TrimSpace(c.LogLevel))); err != nil {
		return 0, fmt.Errorf("invalid LOG_LEVEL %q", c.LogLevel)
	}
	return level, nil
}
