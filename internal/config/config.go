// Package config provides configuration loading for the SharePoint tools.
package config

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/joeshaw/envdecode"

	"github.com/nucleus/ucl-sharepoint/internal/sharepoint"
)

// Config holds site credentials, transport tuning and logging settings.
type Config struct {
	// SharePoint app-only credentials
	ClientID string `env:"SHAREPOINT_CLIENT_ID"`
	TenantID string `env:"SHAREPOINT_TENANT_ID"`
	Secret   string `env:"SHAREPOINT_SECRET"`
	Domain   string `env:"SHAREPOINT_DOMAIN"`
	Site     string `env:"SHAREPOINT_SITE"`
	TokenURL string `env:"SHAREPOINT_TOKEN_URL"`

	// Transport settings
	RateLimit  float64       `env:"SHAREPOINT_RATE_LIMIT,default=10"`
	RateBurst  int           `env:"SHAREPOINT_RATE_BURST,default=5"`
	MaxRetries int           `env:"SHAREPOINT_MAX_RETRIES,default=5"`
	Backoff    time.Duration `env:"SHAREPOINT_BACKOFF,default=100ms"`
	Timeout    time.Duration `env:"SHAREPOINT_TIMEOUT,default=30s"`

	// Logging
	LogLevel  string `env:"LOG_LEVEL,default=info"`
	LogFormat string `env:"LOG_FORMAT,default=text"`
}

// Load reads the configuration from the environment. Unset variables take
// their defaults; a value that does not parse is an error.
func Load() (*Config, error) {
	var cfg Config
	if err := envdecode.StrictDecode(&cfg); err != nil && !errors.Is(err, envdecode.ErrNoTargetFieldsAreSet) {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return &cfg, nil
}

// SharePoint returns the site credentials.
func (c *Config) SharePoint() *sharepoint.Config {
	return &sharepoint.Config{
		ClientID: c.ClientID,
		TenantID: c.TenantID,
		Secret:   c.Secret,
		Domain:   c.Domain,
		Site:     c.Site,
		TokenURL: c.TokenURL,
	}
}

// ClientOptions returns the transport tuning for sharepoint.New.
func (c *Config) ClientOptions(logger *slog.Logger) sharepoint.Options {
	return sharepoint.Options{
		Logger:     logger,
		Timeout:    c.Timeout,
		MaxRetries: c.MaxRetries,
		Backoff:    c.Backoff,
		RateLimit:  c.RateLimit,
		RateBurst:  c.RateBurst,
	}
}

// Logger builds a text or JSON slog logger writing to w.
func (c *Config) Logger(w io.Writer) (*slog.Logger, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return nil, fmt.Errorf("LOG_LEVEL: %w", err)
	}
	opts := &slog.HandlerOptions{Level: level}

	switch strings.ToLower(c.LogFormat) {
	case "", "text":
		return slog.New(slog.NewTextHandler(w, opts)), nil
	case "json":
		return slog.New(slog.NewJSONHandler(w, opts)), nil
	default:
		return nil, fmt.Errorf("LOG_FORMAT: unknown format %q", c.LogFormat)
	}
}
