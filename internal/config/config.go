// Package config loads server settings from the environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all server configuration.
type Config struct {
	DBPath         string
	Port           int
	JWTSecret      string
	TokenTTL       time.Duration
	LogLevel       string
	LogFormat      string
	Location       *time.Location
	MetricsEnabled bool
}

const devSecret = "dev-secret-change-me"

// Load reads configuration from environment variables, after loading a .env
// file from the working directory if there is one.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}
	return FromEnv(os.LookupEnv)
}

// FromEnv builds a Config from lookup. Invalid values are errors, not defaults.
func FromEnv(lookup func(string) (string, bool)) (*Config, error) {
	get := func(key, fallback string) string {
		if v, ok := lookup(key); ok && v != "" {
			return v
		}
		return fallback
	}

	cfg := &Config{
		DBPath:    get("DB_PATH", "./data/birthdays.db"),
		JWTSecret: get("JWT_SECRET", devSecret),
		LogLevel:  get("LOG_LEVEL", "info"),
		LogFormat: get("LOG_FORMAT", "text"),
	}

	var err error
	if cfg.Port, err = strconv.Atoi(get("PORT", "8080")); err != nil || cfg.Port <= 0 {
		return nil, fmt.Errorf("invalid PORT %q", get("PORT", ""))
	}
	if cfg.TokenTTL, err = time.ParseDuration(get("TOKEN_TTL", "720h")); err != nil || cfg.TokenTTL <= 0 {
		return nil, fmt.Errorf("invalid TOKEN_TTL %q", get("TOKEN_TTL", ""))
	}
	if cfg.Location, err = time.LoadLocation(get("TIMEZONE", "Local")); err != nil {
		return nil, fmt.Errorf("invalid TIMEZONE: %w", err)
	}
	if cfg.MetricsEnabled, err = strconv.ParseBool(get("METRICS_ENABLED", "true")); err != nil {
		return nil, fmt.Errorf("invalid METRICS_ENABLED %q", get("METRICS_ENABLED", ""))
	}
	switch cfg.LogFormat {
	case "text", "json":
	default:
		return nil, fmt.Errorf("invalid LOG_FORMAT %q: want text or json", cfg.LogFormat)
	}

	return cfg, nil
}

// InsecureSecret reports whether the built-in development secret is in use.
func (c *Config) InsecureSecret() bool {
	return c.JWTSecret == devSecret
}
