// Ping - Campus Event Discovery
// Copyright 2026 Ping contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestDefaultConfig(t *testing.T) {
	cfg := defaultConfig()

	if cfg.Server.Port != 8080 {
		t.Errorf("Server.Port = %d, want 8080", cfg.Server.Port)
	}
	if cfg.Auth.SessionTTL != 7*24*time.Hour {
		t.Errorf("Auth.SessionTTL = %v, want 168h", cfg.Auth.SessionTTL)
	}
	if cfg.Notify.PollInterval != 15*time.Second {
		t.Errorf("Notify.PollInterval = %v, want 15s", cfg.Notify.PollInterval)
	}
	if cfg.Logging.Level != "info" {
		t.Errorf("Logging.Level = %q, want info", cfg.Logging.Level)
	}
}

func TestLoadWithKoanf_EnvOverrides(t *testing.T) {
	t.Setenv("PING_SERVER_PORT", "9090")
	t.Setenv("PING_AUTH_JWT_SECRET", strings.Repeat("s", 32))
	t.Setenv("PING_SERVER_CORS_ORIGINS", "https://ping.example.edu, https://staging.ping.example.edu")
	t.Setenv("PING_NOTIFY_ENABLED", "false")

	cfg, err := LoadWithKoanf()
	if err != nil {
		t.Fatalf("LoadWithKoanf() error = %v", err)
	}

	if cfg.Server.Port != 9090 {
		t.Errorf("Server.Port = %d, want 9090", cfg.Server.Port)
	}
	if cfg.Notify.Enabled {
		t.Error("Notify.Enabled = true, want false")
	}
	want := []string{"https://ping.example.edu", "https://staging.ping.example.edu"}
	if len(cfg.Server.CORSOrigins) != len(want) {
		t.Fatalf("CORSOrigins = %v, want %v", cfg.Server.CORSOrigins, want)
	}
	for i := range want {
		if cfg.Server.CORSOrigins[i] != want[i] {
			t.Errorf("CORSOrigins[%d] = %q, want %q", i, cfg.Server.CORSOrigins[i], want[i])
		}
	}
}

func TestLoadWithKoanf_ConfigFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := `
server:
  port: 3000
auth:
  jwt_secret: "` + strings.Repeat("f", 32) + `"
database:
  path: /tmp/ping-test.duckdb
`
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	t.Setenv(ConfigPathEnvVar, path)

	cfg, err := LoadWithKoanf()
	if err != nil {
		t.Fatalf("LoadWithKoanf() error = %v", err)
	}

	if cfg.Server.Port != 3000 {
		t.Errorf("Server.Port = %d, want 3000", cfg.Server.Port)
	}
	if cfg.Database.Path != "/tmp/ping-test.duckdb" {
		t.Errorf("Database.Path = %q, want /tmp/ping-test.duckdb", cfg.Database.Path)
	}
	// Untouched fields keep defaults
	if cfg.Database.MaxMemory != "1GB" {
		t.Errorf("Database.MaxMemory = %q, want 1GB", cfg.Database.MaxMemory)
	}
}

func TestConfigValidate(t *testing.T) {
	valid := func() *Config {
		cfg := defaultConfig()
		cfg.Auth.JWTSecret = strings.Repeat("a", 32)
		return cfg
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"valid defaults", func(c *Config) {}, false},
		{"port zero", func(c *Config) { c.Server.Port = 0 }, true},
		{"port too large", func(c *Config) { c.Server.Port = 70000 }, true},
		{"missing database path", func(c *Config) { c.Database.Path = "" }, true},
		{"missing jwt secret", func(c *Config) { c.Auth.JWTSecret = "" }, true},
		{"short secret prod", func(c *Config) { c.Auth.JWTSecret = "short" }, true},
		{"short secret dev allowed", func(c *Config) {
			c.Auth.JWTSecret = "short"
			c.Auth.DevAuthEnabled = true
		}, false},
		{"non-positive session ttl", func(c *Config) { c.Auth.SessionTTL = 0 }, true},
		{"non-positive poll interval", func(c *Config) { c.Notify.PollInterval = 0 }, true},
		{"smtp host without from", func(c *Config) {
			c.Notify.SMTPHost = "smtp.example.edu"
			c.Notify.SMTPPort = 587
			c.Notify.SMTPFrom = ""
		}, true},
		{"smtp fully configured", func(c *Config) {
			c.Notify.SMTPHost = "smtp.example.edu"
			c.Notify.SMTPPort = 587
			c.Notify.SMTPFrom = "ping@example.edu"
		}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestSMTPConfigured(t *testing.T) {
	n := NotifyConfig{}
	if n.SMTPConfigured() {
		t.Error("SMTPConfigured() = true for empty config")
	}
	n = NotifyConfig{SMTPHost: "smtp.example.edu", SMTPPort: 587, SMTPFrom: "ping@example.edu"}
	if !n.SMTPConfigured() {
		t.Error("SMTPConfigured() = false for complete config")
	}
}
