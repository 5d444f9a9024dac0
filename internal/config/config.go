package config

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"

	"github.com/forgo/playlister/internal/store/vendor"
)

// Config holds all application configuration
type Config struct {
	Server   ServerConfig
	Store    StoreConfig
	Surreal  SurrealConfig
	SQL      SQLConfig
	JWT      JWTConfig
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`
	Metrics  bool   `env:"METRICS_ENABLED" envDefault:"true"`
}

// ServerConfig holds HTTP server settings
type ServerConfig struct {
	Port           string        `env:"SERVER_PORT" envDefault:"4000"`
	Env            string        `env:"SERVER_ENV" envDefault:"development"`
	ReadTimeout    time.Duration `env:"SERVER_READ_TIMEOUT" envDefault:"15s"`
	WriteTimeout   time.Duration `env:"SERVER_WRITE_TIMEOUT" envDefault:"15s"`
	AllowedOrigins []string      `env:"CORS_ALLOWED_ORIGINS" envDefault:"http://localhost:3000" envSeparator:","`
	CookieSecure   bool          `env:"AUTH_COOKIE_SECURE" envDefault:"false"`
}

// StoreConfig selects the storage backend. The value is read once at
// startup and never changes for the life of the process.
type StoreConfig struct {
	Vendor string `env:"DB_VENDOR"`
}

// SurrealConfig holds document store connection settings
type SurrealConfig struct {
	Host      string `env:"SURREAL_HOST" envDefault:"localhost"`
	Port      string `env:"SURREAL_PORT" envDefault:"8000"`
	Namespace string `env:"SURREAL_NAMESPACE" envDefault:"playlister"`
	Database  string `env:"SURREAL_DATABASE" envDefault:"main"`
	User      string `env:"SURREAL_USER" envDefault:"root"`
	Password  string `env:"SURREAL_PASSWORD" envDefault:"root"`
}

// SQLConfig holds relational store connection settings
type SQLConfig struct {
	Dialect            string        `env:"SQL_DIALECT" envDefault:"postgres"`
	Host               string        `env:"POSTGRES_HOST" envDefault:"localhost"`
	Port               string        `env:"POSTGRES_PORT" envDefault:"5432"`
	User               string        `env:"POSTGRES_USER" envDefault:"postgres"`
	Password           string        `env:"POSTGRES_PASSWORD"`
	Database           string        `env:"POSTGRES_DB" envDefault:"playlister"`
	DSN                string        `env:"SQL_DSN"`
	SlowQueryThreshold time.Duration `env:"SQL_SLOW_QUERY_THRESHOLD" envDefault:"200ms"`
}

// JWTConfig holds session token settings
type JWTConfig struct {
	Secret         string `env:"JWT_SECRET"`
	Issuer         string `env:"JWT_ISSUER" envDefault:"playlister.forgo.software"`
	ExpirationMins int    `env:"JWT_EXPIRATION_MINS" envDefault:"1440"`
}

// devSecret signs tokens in development when JWT_SECRET is unset.
const devSecret = "playlister-development-secret"

// Load reads configuration from environment variables with sensible defaults
func Load() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	cfg.SQL.Dialect = strings.ToLower(strings.TrimSpace(cfg.SQL.Dialect))
	if cfg.JWT.Secret == "" && !cfg.IsProduction() {
		cfg.JWT.Secret = devSecret
	}
	return &cfg, nil
}

// IsDevelopment returns true if running in development mode
func (c *Config) IsDevelopment() bool {
	return c.Server.Env == "development"
}

// IsProduction returns true if running in production mode
func (c *Config) IsProduction() bool {
	return c.Server.Env == "production"
}

// SlogLevel maps LOG_LEVEL onto a slog level, defaulting to info.
func (c *Config) SlogLevel() slog.Level {
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

// Validate checks that all required configuration values are present and valid.
// It returns an error describing all validation failures, or nil if valid.
func (c *Config) Validate() error {
	var errs []error

	// Server validation
	if c.Server.Port == "" {
		errs = append(errs, errors.New("SERVER_PORT is required"))
	}
	if c.Server.Env != "development" && c.Server.Env != "production" && c.Server.Env != "test" {
		errs = append(errs, fmt.Errorf("SERVER_ENV must be 'development', 'production', or 'test', got '%s'", c.Server.Env))
	}
	if len(c.Server.AllowedOrigins) == 0 {
		errs = append(errs, errors.New("CORS_ALLOWED_ORIGINS must have at least one origin"))
	}

	// Only the selected backend needs complete settings
	if c.Store.UsesRelational() {
		if err := c.SQL.Validate(); err != nil {
			errs = append(errs, err)
		}
	} else if err := c.Surreal.Validate(); err != nil {
		errs = append(errs, err)
	}

	if c.JWT.Secret == "" {
		errs = append(errs, errors.New("JWT_SECRET is required"))
	}
	if c.JWT.ExpirationMins <= 0 {
		errs = append(errs, errors.New("JWT_EXPIRATION_MINS must be positive"))
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	return nil
}

// UsesRelational reports whether DB_VENDOR names the relational backend.
func (s StoreConfig) UsesRelational() bool {
	return vendor.Parse(s.Vendor) == vendor.Relational
}

// Validate checks that all required SurrealDB fields are present
func (s SurrealConfig) Validate() error {
	var missing []string
	if s.Host == "" {
		missing = append(missing, "SURREAL_HOST")
	}
	if s.Port == "" {
		missing = append(missing, "SURREAL_PORT")
	}
	if s.Namespace == "" {
		missing = append(missing, "SURREAL_NAMESPACE")
	}
	if s.Database == "" {
		missing = append(missing, "SURREAL_DATABASE")
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required fields: %s", strings.Join(missing, ", "))
	}
	return nil
}

// Validate checks the relational dialect and its connection fields
func (s SQLConfig) Validate() error {
	switch s.Dialect {
	case "postgres":
		if s.DSN != "" {
			return nil
		}
		var missing []string
		if s.Host == "" {
			missing = append(missing, "POSTGRES_HOST")
		}
		if s.User == "" {
			missing = append(missing, "POSTGRES_USER")
		}
		if s.Database == "" {
			missing = append(missing, "POSTGRES_DB")
		}
		if len(missing) > 0 {
			return fmt.Errorf("missing required fields: %s", strings.Join(missing, ", "))
		}
		return nil
	case "mysql", "sqlite":
		if s.DSN == "" {
			return fmt.Errorf("SQL_DSN is required for dialect %q", s.Dialect)
		}
		return nil
	default:
		return fmt.Errorf("SQL_DIALECT must be 'postgres', 'mysql', or 'sqlite', got '%s'", s.Dialect)
	}
}
