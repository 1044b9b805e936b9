// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package config loads application configuration from environment variables.
package config

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config holds the configuration for both the pman client and the pmand
// backend, loaded from PMAN_-prefixed environment variables.
type Config struct {
	// Client side.
	APIBaseURL      string        `env:"PMAN_API_URL" envDefault:"http://localhost:3000/persons"`
	SessionPath     string        `env:"PMAN_SESSION_PATH" envDefault:"./data/session.json"`
	SessionLifetime time.Duration `env:"PMAN_SESSION_LIFETIME" envDefault:"1h"`
	DebounceWindow  time.Duration `env:"PMAN_DEBOUNCE_WINDOW" envDefault:"300ms"`
	CheckLatency    time.Duration `env:"PMAN_CHECK_LATENCY" envDefault:"1500ms"`
	SuccessTTL      time.Duration `env:"PMAN_SUCCESS_TTL" envDefault:"5s"`

	// Backend side.
	ServerHost string  `env:"PMAN_SERVER_HOST" envDefault:"localhost"`
	ServerPort int     `env:"PMAN_SERVER_PORT" envDefault:"3000"`
	DBPath     string  `env:"PMAN_DB_PATH" envDefault:"./data/persons.db"`
	RateLimit  float64 `env:"PMAN_RATE_LIMIT" envDefault:"50"`
	RateBurst  int     `env:"PMAN_RATE_BURST" envDefault:"100"`
	DoSeed     bool    `env:"PMAN_DO_SEED" envDefault:"false"`

	Env      string `env:"PMAN_ENV" envDefault:"development"`
	LogLevel string `env:"PMAN_LOG_LEVEL" envDefault:"info"`
}

// IsDevelopment returns true if the application is running in development mode.
func (c Config) IsDevelopment() bool {
	return c.Env == "development"
}

// ServerAddr returns the backend address in host:port format.
func (c Config) ServerAddr() string {
	return fmt.Sprintf("%s:%d", c.ServerHost, c.ServerPort)
}

// SlogLevel maps the configured log level string to a slog.Level.
// Unknown values fall back to info.
func (c Config) SlogLevel() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Load parses environment variables and returns a Config struct.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	for name, d := range map[string]time.Duration{
		"PMAN_SESSION_LIFETIME": cfg.SessionLifetime,
		"PMAN_DEBOUNCE_WINDOW":  cfg.DebounceWindow,
		"PMAN_CHECK_LATENCY":    cfg.CheckLatency,
		"PMAN_SUCCESS_TTL":      cfg.SuccessTTL,
	} {
		if d <= 0 {
			return nil, fmt.Errorf("%s must be a positive duration, got %s", name, d)
		}
	}

	if cfg.ServerPort < 1 || cfg.ServerPort > 65535 {
		return nil, fmt.Errorf("PMAN_SERVER_PORT must be between 1 and 65535, got %d", cfg.ServerPort)
	}
	if cfg.RateLimit <= 0 {
		return nil, fmt.Errorf("PMAN_RATE_LIMIT must be positive, got %g", cfg.RateLimit)
	}

	return cfg, nil
}
