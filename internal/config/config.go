// Package config loads service configuration from environment variables.
package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config holds everything the server needs to start.
type Config struct {
	// Addr is the listen address for the HTTP server.
	Addr string `env:"ADDR" envDefault:":8080"`

	// DBPath is the SQLite database file path.
	DBPath string `env:"DB_PATH" envDefault:"./data/bookshare.db"`

	// StaticPath is the directory holding the built web frontend.
	StaticPath string `env:"STATIC_PATH" envDefault:"../frontend/dist"`

	// JWTSecret signs session tokens. Required outside of dev.
	JWTSecret string `env:"JWT_SECRET" envDefault:"dev-secret-change-me"`

	// TokenTTL is how long issued session tokens stay valid.
	TokenTTL time.Duration `env:"TOKEN_TTL" envDefault:"24h"`

	// LoanPeriod is how long an approved loan runs before it is due back.
	LoanPeriod time.Duration `env:"LOAN_PERIOD" envDefault:"336h"` // 14 days

	// ReminderSchedule is the cron expression for the due-date sweep.
	ReminderSchedule string `env:"REMINDER_SCHEDULE" envDefault:"0 9 * * *"`

	// RateLimitRPS and RateLimitBurst bound requests per client.
	RateLimitRPS   int `env:"RATE_LIMIT_RPS" envDefault:"20"`
	RateLimitBurst int `env:"RATE_LIMIT_BURST" envDefault:"40"`

	// AdminEmail and AdminPassword, when both set, seed an admin account
	// on startup if no user with that email exists.
	AdminEmail    string `env:"ADMIN_EMAIL"`
	AdminPassword string `env:"ADMIN_PASSWORD"`
}

// Load parses configuration from the environment.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	if cfg.JWTSecret == "" {
		return nil, errors.New("JWT_SECRET must not be empty")
	}
	if cfg.LoanPeriod <= 0 {
		return nil, errors.New("LOAN_PERIOD must be positive")
	}
	return cfg, nil
}
