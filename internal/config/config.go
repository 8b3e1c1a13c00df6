// Package config holds the server configuration.
package config

import (
	"fmt"

	pkgconfig "github.com/PresidentialParadise/The-Big-Cheese/pkg/config"
)

// Config holds all configuration for the server.
type Config struct {
	Environment string `env:"ENVIRONMENT" envDefault:"development"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`

	// HTTP server
	HTTPPort int `env:"HTTP_PORT" envDefault:"3000"`

	// MongoDB
	MongoURI string `env:"DB_URI" envDefault:"mongodb://localhost:27017"`
	DBName   string `env:"DB_NAME" envDefault:"big-cheese"`

	// Initial account created when the user collection is empty.
	InitialUser     string `env:"INITIAL_USER" envDefault:"admin"`
	InitialPassword string `env:"INITIAL_PASSWORD" envDefault:""`

	// CORS
	CORSAllowedOrigins []string `env:"CORS_ALLOWED_ORIGINS" envDefault:"*" envSeparator:","`
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := pkgconfig.Load(cfg); err != nil {
		return nil, fmt.Errorf("load server config: %w", err)
	}
	if cfg.HTTPPort < 1 || cfg.HTTPPort > 65535 {
		return nil, fmt.Errorf("invalid HTTP port: %d", cfg.HTTPPort)
	}

	// Outside development a bootstrap password must be chosen explicitly,
	// otherwise the first account would be trivially guessable.
	if cfg.Environment != "development" && cfg.InitialPassword == "" {
		return nil, fmt.Errorf("INITIAL_PASSWORD must be set in %q mode", cfg.Environment)
	}

	return cfg, nil
}
