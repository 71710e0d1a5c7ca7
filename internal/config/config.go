// Ping - Campus Event Discovery
// Copyright 2026 Ping contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config provides layered configuration for the Ping backend using
// Koanf v2: built-in defaults, then an optional YAML file, then PING_*
// environment variables (highest priority).
package config

import (
	"fmt"
	"time"
)

// Config is the root configuration for the server binary.
type Config struct {
	Server   ServerConfig   `koanf:"server"`
	Database DatabaseConfig `koanf:"database"`
	Auth     AuthConfig     `koanf:"auth"`
	Drafts   DraftsConfig   `koanf:"drafts"`
	Notify   NotifyConfig   `koanf:"notify"`
	Logging  LoggingConfig  `koanf:"logging"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host            string        `koanf:"host"`
	Port            int           `koanf:"port"`
	CORSOrigins     []string      `koanf:"cors_origins"`
	RateLimit       int           `koanf:"rate_limit"`
	RateLimitWindow time.Duration `koanf:"rate_limit_window"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
	SeedDemoData    bool          `koanf:"seed_demo_data"`
}

// DatabaseConfig holds DuckDB settings.
type DatabaseConfig struct {
	Path      string `koanf:"path"`
	MaxMemory string `koanf:"max_memory"`
	Threads   int    `koanf:"threads"`
}

// AuthConfig holds the session token settings and the development login.
// The development login stands in for the external identity provider: it
// issues a verified user for a bare email address and must be disabled in
// production deployments.
type AuthConfig struct {
	JWTSecret      string        `koanf:"jwt_secret"`
	SessionTTL     time.Duration `koanf:"session_ttl"`
	DevAuthEnabled bool          `koanf:"dev_auth_enabled"`
	DevLoginEmail  string        `koanf:"dev_login_email"`
}

// DraftsConfig holds the per-user draft store settings.
type DraftsConfig struct {
	Path string `koanf:"path"`
}

// NotifyConfig holds comment notification settings. Delivery is best-effort
// and at-most-once; when SMTP is not configured the dispatcher logs instead
// of sending.
type NotifyConfig struct {
	Enabled      bool          `koanf:"enabled"`
	PollInterval time.Duration `koanf:"poll_interval"`
	FrontendURL  string        `koanf:"frontend_url"`
	SMTPHost     string        `koanf:"smtp_host"`
	SMTPPort     int           `koanf:"smtp_port"`
	SMTPFrom     string        `koanf:"smtp_from"`
	SMTPUser     string        `koanf:"smtp_user"`
	SMTPPass     string        `koanf:"smtp_pass"`
}

// LoggingConfig holds log output settings.
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
}

// SMTPConfigured reports whether enough SMTP settings are present to send.
func (c *NotifyConfig) SMTPConfigured() bool {
	return c.SMTPHost != "" && c.SMTPPort != 0 && c.SMTPFrom != ""
}

// Validate checks configuration invariants after loading.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be 1-65535, got %d", c.Server.Port)
	}
	if c.Database.Path == "" {
		return fmt.Errorf("database.path is required")
	}
	if c.Auth.JWTSecret == "" {
		return fmt.Errorf("auth.jwt_secret is required")
	}
	if len(c.Auth.JWTSecret) < 32 && !c.Auth.DevAuthEnabled {
		return fmt.Errorf("auth.jwt_secret must be at least 32 characters outside dev mode")
	}
	if c.Auth.SessionTTL <= 0 {
		return fmt.Errorf("auth.session_ttl must be positive")
	}
	if c.Notify.PollInterval <= 0 {
		return fmt.Errorf("notify.poll_interval must be positive")
	}
	if c.Notify.SMTPHost != "" && (c.Notify.SMTPPort == 0 || c.Notify.SMTPFrom == "") {
		return fmt.Errorf("notify.smtp_port and notify.smtp_from are required when notify.smtp_host is set")
	}
	return nil
}
