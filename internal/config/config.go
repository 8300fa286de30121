package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"
)

// Config 应用配置
type Config struct {
	Server   ServerConfig   `koanf:"server"`
	API      APIConfig      `koanf:"api"`
	Database DatabaseConfig `koanf:"database"`
	Security SecurityConfig `koanf:"security"`
	Listing  ListingConfig  `koanf:"listing"`
	Logging  LoggingConfig  `koanf:"logging"`
}

// ServerConfig controls the gateway's own HTTP listener.
type ServerConfig struct {
	Port        string   `koanf:"port"`
	Mode        string   `koanf:"mode"` // gin mode: debug, release, test
	CORSOrigins []string `koanf:"cors_origins"`
	// SecureCookie marks the session cookie Secure; enable behind TLS.
	SecureCookie bool `koanf:"secure_cookie"`
}

// APIConfig points at the external iceberg REST API.
type APIConfig struct {
	BaseURL string        `koanf:"base_url"`
	Timeout time.Duration `koanf:"timeout"`
	// BreakerTimeout is how long the circuit stays open before probing again.
	BreakerTimeout time.Duration `koanf:"breaker_timeout"`
}

// DatabaseConfig holds the sqlite session store location.
type DatabaseConfig struct {
	Path string `koanf:"path"`
}

// SecurityConfig covers session tokens and inbound rate limiting.
type SecurityConfig struct {
	JWTSecret       string        `koanf:"jwt_secret"`
	SessionTTL      time.Duration `koanf:"session_ttl"`
	SweepInterval   time.Duration `koanf:"sweep_interval"`
	RateLimitReqs   int           `koanf:"rate_limit_reqs"`
	RateLimitWindow time.Duration `koanf:"rate_limit_window"`
}

// ListingConfig tunes the home listing.
type ListingConfig struct {
	// RecentSince hides rows last observed before this date (YYYY-MM-DD) in the default view.
	RecentSince string `koanf:"recent_since"`
	MaxResults  int    `koanf:"max_results"`
}

// LoggingConfig mirrors logging.Config.
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
	Caller bool   `koanf:"caller"`
}

const defaultJWTSecret = "your-secret-key-change-in-production"

func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Port:        ":8090",
			Mode:        "release",
			CORSOrigins: []string{"*"},
		},
		API: APIConfig{
			BaseURL:        "http://localhost:8080",
			Timeout:        30 * time.Second,
			BreakerTimeout: time.Minute,
		},
		Database: DatabaseConfig{
			Path: "./data/dashboard/sessions.db",
		},
		Security: SecurityConfig{
			JWTSecret:       defaultJWTSecret,
			SessionTTL:      24 * time.Hour,
			SweepInterval:   10 * time.Minute,
			RateLimitReqs:   120,
			RateLimitWindow: time.Minute,
		},
		Listing: ListingConfig{
			RecentSince: "2024-12-01",
			MaxResults:  10,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
	}
}

// Validate rejects configurations the gateway cannot run with.
func (c *Config) Validate() error {
	var errs []error

	if c.Server.Port == "" {
		errs = append(errs, errors.New("server.port is required"))
	}
	u, err := url.Parse(c.API.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		errs = append(errs, fmt.Errorf("api.base_url %q is not an absolute URL", c.API.BaseURL))
	}
	if c.API.Timeout <= 0 {
		errs = append(errs, errors.New("api.timeout must be positive"))
	}
	if c.Database.Path == "" {
		errs = append(errs, errors.New("database.path is required"))
	}
	if len(c.Security.JWTSecret) < 16 {
		errs = append(errs, errors.New("security.jwt_secret must be at least 16 characters"))
	}
	if c.Security.SessionTTL <= 0 {
		errs = append(errs, errors.New("security.session_ttl must be positive"))
	}
	if c.Security.SweepInterval <= 0 {
		errs = append(errs, errors.New("security.sweep_interval must be positive"))
	}
	if c.Security.RateLimitReqs < 0 {
		errs = append(errs, errors.New("security.rate_limit_reqs must not be negative"))
	}
	if c.Security.RateLimitReqs > 0 && c.Security.RateLimitWindow <= 0 {
		errs = append(errs, errors.New("security.rate_limit_window must be positive when rate limiting is on"))
	}
	if _, err := time.Parse("2006-01-02", c.Listing.RecentSince); err != nil {
		errs = append(errs, fmt.Errorf("listing.recent_since %q: %w", c.Listing.RecentSince, err))
	}
	if c.Listing.MaxResults <= 0 {
		errs = append(errs, errors.New("listing.max_results must be positive"))
	}

	return errors.Join(errs...)
}

// RecentSinceTime returns Listing.RecentSince parsed as a UTC date.
func (c *Config) RecentSinceTime() time.Time {
	t, err := time.Parse("2006-01-02", c.Listing.RecentSince)
	if err != nil {
		return time.Time{}
	}
	return t
}

// APIBaseURL returns the base URL without a trailing slash.
func (c *Config) APIBaseURL() string {
	return strings.TrimRight(c.API.BaseURL, "/")
}
