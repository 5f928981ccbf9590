// Package config handles application configuration management.
package config

import (
	"os"
	"strconv"
)

// Config holds all application configuration.
type Config struct {
	// Base directory for all versetag data
	BaseDir string

	// Remote authority settings
	Remote RemoteConfig
}

// RemoteConfig holds tag authority endpoint settings.
type RemoteConfig struct {
	// Endpoint is the GraphQL endpoint of the tag authority.
	Endpoint string
	// Token is an optional bearer credential.
	Token string
	// EmbeddingAppID identifies this client installation to the authority.
	EmbeddingAppID string
	// RateLimit is requests per minute.
	RateLimit int
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	cfg := DefaultConfig()

	if dir := os.Getenv("VERSETAG_BASE_DIR"); dir != "" {
		cfg.BaseDir = dir
	}
	if endpoint := os.Getenv("VERSETAG_ENDPOINT"); endpoint != "" {
		cfg.Remote.Endpoint = endpoint
	}
	if token := os.Getenv("VERSETAG_API_TOKEN"); token != "" {
		cfg.Remote.Token = token
	}
	if appID := os.Getenv("VERSETAG_EMBEDDING_APP_ID"); appID != "" {
		cfg.Remote.EmbeddingAppID = appID
	}
	if limit := os.Getenv("VERSETAG_RATE_LIMIT"); limit != "" {
		if n, err := strconv.Atoi(limit); err == nil && n > 0 {
			cfg.Remote.RateLimit = n
		}
	}

	if err := ensureDirectories(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// ensureDirectories creates the data and log directories.
func ensureDirectories(cfg *Config) error {
	paths := GetPaths(cfg)
	for _, dir := range []string{cfg.BaseDir, paths.Logs} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}
	return nil
}
