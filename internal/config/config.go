// Package config loads process configuration from the environment.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config holds every setting the API and migrate commands need.
type Config struct {
	HTTPAddr     string        `env:"FBAUTH_HTTP_ADDR"      envDefault:":8080"`
	GRPCAddr     string        `env:"FBAUTH_GRPC_ADDR"      envDefault:":9090"`
	DatabaseDSN  string        `env:"FBAUTH_PG_DSN"`
	LogLevel     string        `env:"FBAUTH_LOG_LEVEL"      envDefault:"info"`
	MaxBodyBytes int64         `env:"FBAUTH_MAX_BODY_BYTES" envDefault:"1048576"`
	CORSOrigins  []string      `env:"FBAUTH_CORS_ORIGINS"   envSeparator:","`
	TokenSecret  string        `env:"FBAUTH_TOKEN_SECRET"`
	TokenTTL     time.Duration `env:"FBAUTH_TOKEN_TTL"      envDefault:"30m"`
	TokenIssuer  string        `env:"FBAUTH_TOKEN_ISSUER"   envDefault:"fbauth"`

	FacebookGraphURL  string        `env:"FBAUTH_FACEBOOK_GRAPH_URL"  envDefault:"https://graph.facebook.com"`
	FacebookAppID     string        `env:"FBAUTH_FACEBOOK_APP_ID"`
	FacebookAppSecret string        `env:"FBAUTH_FACEBOOK_APP_SECRET"`
	FacebookTimeout   time.Duration `env:"FBAUTH_FACEBOOK_TIMEOUT"    envDefault:"10s"`
}

// Load parses the environment into a Config.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	cfg.CORSOrigins = trimCSV(cfg.CORSOrigins)
	return cfg, nil
}

// Validate checks the settings the API cannot start without.
func (c Config) Validate() error {
	if strings.TrimSpace(c.TokenSecret) == "" {
		return fmt.Errorf("config: FBAUTH_TOKEN_SECRET is required")
	}
	if strings.TrimSpace(c.DatabaseDSN) == "" {
		return fmt.Errorf("config: FBAUTH_PG_DSN is required")
	}
	if c.TokenTTL < time.Second {
		return fmt.Errorf("config: FBAUTH_TOKEN_TTL must be at least 1s, got %s", c.TokenTTL)
	}
	if (c.FacebookAppID == "") != (c.FacebookAppSecret == "") {
		return fmt.Errorf("config: FBAUTH_FACEBOOK_APP_ID and FBAUTH_FACEBOOK_APP_SECRET must be set together")
	}
	return nil
}

// trimCSV removes empty entries from a string slice.
func trimCSV(values []string) []string {
	if len(values) == 0 {
		return nil
	}
	result := make([]string, 0, len(values))
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			result = append(result, v)
		}
	}
	if len(result) == 0 {
		return nil
	}
	return result
}
