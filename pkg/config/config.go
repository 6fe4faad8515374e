// Package config loads process configuration from an optional .env file and
// the environment. Environment variables win over the file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	EnvProduction = "production"

	DefaultAdminUsername = "admin"
	DefaultAdminPassword = "admin123"
)

type Config struct {
	App     AppConfig
	HTTP    HTTPConfig
	Admin   AdminConfig
	Catalog CatalogConfig
	Metrics MetricsConfig
	Log     LogConfig
}

type AppConfig struct {
	Env string // development, staging, production
}

// IsProduction reports whether cookies must be marked Secure.
func (c AppConfig) IsProduction() bool {
	return strings.EqualFold(c.Env, EnvProduction)
}

type HTTPConfig struct {
	Addr string
	// TrustProxyHeaders honours X-Forwarded-For; only safe behind a proxy.
	TrustProxyHeaders bool
}

// AdminConfig holds the single admin identity and the session signing secret.
// PasswordHash, when set, takes precedence over Password.
type AdminConfig struct {
	Username      string
	Password      string
	PasswordHash  string
	SessionSecret string
	// LoginRateLimit is login attempts per minute per IP; 0 disables it.
	LoginRateLimit int
}

type CatalogConfig struct {
	SeedFile  string
	SeedDSN   string
	Collation string
}

type MetricsConfig struct {
	Enabled bool
	Token   string
}

type LogConfig struct {
	Level string
	File  string
}

// Load reads .env from the working directory if present, then the environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}
	return fromViper(newViper())
}

func newViper() *viper.Viper {
	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault("APP_ENV", "development")
	v.SetDefault("HTTP_ADDR", ":8080")
	v.SetDefault("ADMIN_USERNAME", DefaultAdminUsername)
	v.SetDefault("ADMIN_PASSWORD", DefaultAdminPassword)
	v.SetDefault("LOGIN_RATE_LIMIT", 0)
	v.SetDefault("CATALOG_COLLATION", "en")
	v.SetDefault("METRICS_ENABLED", true)
	v.SetDefault("LOG_LEVEL", "info")
	return v
}

func fromViper(v *viper.Viper) (*Config, error) {
	cfg := &Config{
		App: AppConfig{
			Env: v.GetString("APP_ENV"),
		},
		HTTP: HTTPConfig{
			Addr:              v.GetString("HTTP_ADDR"),
			TrustProxyHeaders: v.GetBool("TRUST_PROXY_HEADERS"),
		},
		Admin: AdminConfig{
			Username:       v.GetString("ADMIN_USERNAME"),
			Password:       v.GetString("ADMIN_PASSWORD"),
			PasswordHash:   v.GetString("ADMIN_PASSWORD_HASH"),
			SessionSecret:  v.GetString("SESSION_SECRET"),
			LoginRateLimit: v.GetInt("LOGIN_RATE_LIMIT"),
		},
		Catalog: CatalogConfig{
			SeedFile:  v.GetString("CATALOG_SEED_FILE"),
			SeedDSN:   v.GetString("CATALOG_SEED_DSN"),
			Collation: v.GetString("CATALOG_COLLATION"),
		},
		Metrics: MetricsConfig{
			Enabled: v.GetBool("METRICS_ENABLED"),
			Token:   v.GetString("METRICS_TOKEN"),
		},
		Log: LogConfig{
			Level: v.GetString("LOG_LEVEL"),
			File:  v.GetString("LOG_FILE"),
		},
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.Admin.Username == "" {
		return errors.New("config: ADMIN_USERNAME must not be empty")
	}
	if c.Admin.Password == "" && c.Admin.PasswordHash == "" {
		return errors.New("config: one of ADMIN_PASSWORD or ADMIN_PASSWORD_HASH is required")
	}
	if c.Admin.LoginRateLimit < 0 {
		return fmt.Errorf("config: LOGIN_RATE_LIMIT must be >= 0, got %d", c.Admin.LoginRateLimit)
	}
	if c.Catalog.SeedFile != "" && c.Catalog.SeedDSN != "" {
		return errors.New("config: CATALOG_SEED_FILE and CATALOG_SEED_DSN are mutually exclusive")
	}
	return nil
}
