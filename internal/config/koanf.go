// Ping - Campus Event Discovery
// Copyright 2026 Ping contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// DefaultConfigPaths lists the paths where config files are searched in order
// of priority. The first file found will be used.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/ping/config.yaml",
	"/etc/ping/config.yml",
}

// ConfigPathEnvVar is the environment variable that can override the config
// file path.
const ConfigPathEnvVar = "PING_CONFIG_PATH"

// defaultConfig returns a Config with all default values. These are applied
// first, then overridden by the config file and environment variables.
func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host:            "0.0.0.0",
			Port:            8080,
			CORSOrigins:     []string{"http://localhost:5173"},
			RateLimit:       120,
			RateLimitWindow: time.Minute,
			ShutdownTimeout: 10 * time.Second,
			SeedDemoData:    false,
		},
		Database: DatabaseConfig{
			Path:      "/data/ping.duckdb",
			MaxMemory: "1GB",
			Threads:   0, // 0 = use runtime.NumCPU()
		},
		Auth: AuthConfig{
			JWTSecret:      "",
			SessionTTL:     7 * 24 * time.Hour,
			DevAuthEnabled: false,
			DevLoginEmail:  "",
		},
		Drafts: DraftsConfig{
			Path: "/data/ping-drafts",
		},
		Notify: NotifyConfig{
			Enabled:      true,
			PollInterval: 15 * time.Second,
			FrontendURL:  "http://localhost:5173",
			SMTPHost:     "",
			SMTPPort:     0,
			SMTPFrom:     "",
			SMTPUser:     "",
			SMTPPass:     "",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
	}
}

// LoadWithKoanf loads configuration from three layers with clear precedence:
//
//  1. Defaults: built-in values from defaultConfig
//  2. Config file: optional YAML file (if one exists)
//  3. Environment variables: PING_* overrides (highest priority)
func LoadWithKoanf() (*Config, error) {
	k := koanf.New(".")

	// Layer 1: defaults from struct
	defaults := defaultConfig()
	if err := k.Load(structs.Provider(defaults, "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	// Layer 2: config file (optional)
	configPath := findConfigFile()
	if configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	}

	// Layer 3: environment variables (highest priority)
	// PING_SERVER_PORT -> server.port, PING_AUTH_JWT_SECRET -> auth.jwt_secret
	envProvider := env.Provider("PING_", ".", envTransformFunc)
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	// Post-process slice fields from comma-separated strings
	if err := processSliceFields(k); err != nil {
		return nil, fmt.Errorf("failed to process slice fields: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// findConfigFile searches for a config file in the default paths.
// Returns the path to the first file found, or empty string if none found.
func findConfigFile() string {
	if envPath := os.Getenv(ConfigPathEnvVar); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
	}

	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}

	return ""
}

// sliceConfigPaths defines which config paths are parsed as comma-separated
// slices when they arrive as strings from the environment.
var sliceConfigPaths = []string{
	"server.cors_origins",
}

// processSliceFields converts comma-separated string values to slices for
// known slice fields. Env vars come in as strings, but the config expects
// slices.
func processSliceFields(k *koanf.Koanf) error {
	for _, path := range sliceConfigPaths {
		val := k.Get(path)
		if val == nil {
			continue
		}

		// Already a slice (from YAML file or defaults), skip
		if _, ok := val.([]interface{}); ok {
			continue
		}
		if _, ok := val.([]string); ok {
			continue
		}

		if strVal, ok := val.(string); ok {
			if strVal == "" {
				continue
			}
			parts := strings.Split(strVal, ",")
			trimmed := make([]string, 0, len(parts))
			for _, p := range parts {
				p = strings.TrimSpace(p)
				if p != "" {
					trimmed = append(trimmed, p)
				}
			}
			if len(trimmed) > 0 {
				if err := k.Set(path, trimmed); err != nil {
					return fmt.Errorf("failed to set %s: %w", path, err)
				}
			}
		}
	}
	return nil
}

// envMappings maps PING_* environment variable names (lowercased, prefix
// stripped) to koanf config paths. Unknown variables are ignored so unrelated
// PING_ variables in the environment cannot corrupt the config tree.
var envMappings = map[string]string{
	"server_host":              "server.host",
	"server_port":              "server.port",
	"server_cors_origins":      "server.cors_origins",
	"server_rate_limit":        "server.rate_limit",
	"server_rate_limit_window": "server.rate_limit_window",
	"server_shutdown_timeout":  "server.shutdown_timeout",
	"server_seed_demo_data":    "server.seed_demo_data",

	"database_path":       "database.path",
	"database_max_memory": "database.max_memory",
	"database_threads":    "database.threads",

	"auth_jwt_secret":       "auth.jwt_secret",
	"auth_session_ttl":      "auth.session_ttl",
	"auth_dev_auth_enabled": "auth.dev_auth_enabled",
	"auth_dev_login_email":  "auth.dev_login_email",

	"drafts_path": "drafts.path",

	"notify_enabled":       "notify.enabled",
	"notify_poll_interval": "notify.poll_interval",
	"notify_frontend_url":  "notify.frontend_url",
	"notify_smtp_host":     "notify.smtp_host",
	"notify_smtp_port":     "notify.smtp_port",
	"notify_smtp_from":     "notify.smtp_from",
	"notify_smtp_user":     "notify.smtp_user",
	"notify_smtp_pass":     "notify.smtp_pass",

	"logging_level":  "logging.level",
	"logging_format": "logging.format",
}

// envTransformFunc transforms environment variable names to koanf config
// paths. Variables without a known mapping are dropped.
func envTransformFunc(key string) string {
	key = strings.ToLower(strings.TrimPrefix(key, "PING_"))
	if path, ok := envMappings[key]; ok {
		return path
	}
	return ""
}
