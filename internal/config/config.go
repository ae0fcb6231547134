// Package config manages application configuration
package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config holds all application configuration
type Config struct {
	// Server settings
	Port        string `env:"LOANBOOK_PORT" envDefault:"8080"`
	Environment string `env:"LOANBOOK_ENV" envDefault:"development"` // "development" or "production"

	// Database
	DatabaseURL string `env:"LOANBOOK_DATABASE_URL" envDefault:"loanbook.db"`

	// Security
	SecretKey string `env:"LOANBOOK_SECRET_KEY" envDefault:"dev-secret-key-change-in-production"`

	// Session settings; the cookie lifetime follows the signing TTL
	SessionTTL time.Duration `env:"LOANBOOK_SESSION_TTL" envDefault:"168h"`
}

// Load reads configuration from environment variables with sensible defaults
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}

// IsDevelopment returns true if running in development mode
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// IsProduction returns true if running in production mode
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}
