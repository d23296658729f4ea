// Package config loads runtime settings from the environment.
package config

import (
	"crypto/sha256"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joeshaw/envdecode"
	"github.com/joho/godotenv"
)

const (
	// DevelopmentSecretKey is the SECRET_KEY default; only development may run with it.
	DevelopmentSecretKey = "development-secret-key"
	// DefaultSQLitePath is used when STORE_DRIVER=sqlite3 and DATABASE_URL is unset.
	DefaultSQLitePath = "data/project.db"
)

// Config holds application configuration loaded from environment variables.
// Defaults suit local development.
type Config struct {
	AppName string `env:"APP_NAME,default=blogdesk" validate:"required"`
	Env     string `env:"APP_ENV,default=development" validate:"oneof=development staging production test"`
	Addr    string `env:"HTTP_ADDR,default=:8080" validate:"required"`

	// Store
	StoreDriver string `env:"STORE_DRIVER,default=sqlite3" validate:"oneof=sqlite3 postgres badger"`
	DatabaseURL string `env:"DATABASE_URL" validate:"required_unless=StoreDriver badger"`
	BadgerPath  string `env:"BADGER_PATH,default=data/badger" validate:"required_if=StoreDriver badger"`
	BackupDir   string `env:"BACKUP_DIR,default=data/backups" validate:"required"`

	// Cookies and CSRF
	SecretKey    string `env:"SECRET_KEY,default=development-secret-key" validate:"min=16"`
	CookieSecure bool   `env:"COOKIE_SECURE,default=false"`

	LogLevel        string        `env:"LOG_LEVEL,default=info" validate:"oneof=trace debug info warn warning error fatal panic"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT,default=10s" validate:"gt=0"`
}

// Load reads an optional .env file, then decodes and validates the
// environment. Variables already set win over the file.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}
	return FromEnv()
}

// FromEnv decodes and validates the current environment without touching
// any .env file.
func FromEnv() (*Config, error) {
	var cfg Config
	if err := envdecode.Decode(&cfg); err != nil && !errors.Is(err, envdecode.ErrNoTargetFieldsAreSet) {
		return nil, fmt.Errorf("decode environment: %w", err)
	}
	if cfg.DatabaseURL == "" && cfg.StoreDriver == "sqlite3" {
		cfg.DatabaseURL = DefaultSQLitePath
	}

	validate := validator.New()
	validate.RegisterStructValidation(validateConfig, Config{})
	if err := validate.Struct(&cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return &cfg, nil
}

// validateConfig holds the rules that span fields.
func validateConfig(sl validator.StructLevel) {
	cfg := sl.Current().Interface().(Config)
	if cfg.StoreDriver == "postgres" && !isPostgresURL(cfg.DatabaseURL) {
		sl.ReportError(cfg.DatabaseURL, "DatabaseURL", "DatabaseURL", "postgres_url", "")
	}
	if !cfg.IsDevelopment() && cfg.SecretKey == DevelopmentSecretKey {
		sl.ReportError(cfg.SecretKey, "SecretKey", "SecretKey", "not_default", "")
	}
}

func isPostgresURL(dsn string) bool {
	return strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://")
}

// IsDevelopment reports whether the app runs with development defaults
func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}

// CSRFKey derives the 32-byte authentication key gorilla/csrf requires.
func (c *Config) CSRFKey() []byte {
	sum := sha256.Sum256([]byte("csrf:" + c.SecretKey))
	return sum[:]
}

// SessionKey derives the cookie signing key for flash sessions.
func (c *Config) SessionKey() []byte {
	sum := sha256.Sum256([]byte("session:" + c.SecretKey))
	return sum[:]
}
