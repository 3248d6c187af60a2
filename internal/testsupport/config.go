// Package testsupport holds shared fixtures for package tests.
package testsupport

import (
	"path/filepath"
	"testing"

	"stashdup/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*config.Config)

// NewConfig produces a config seeded with unique temp directories per test.
// It defaults common fields and applies any provided options.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfg := config.Default()
	cfg.Stash.Endpoint = "http://127.0.0.1:9999/graphql"
	cfg.Paths.DataDir = filepath.Join(base, "data")
	cfg.Paths.LogDir = filepath.Join(base, "logs")
	cfg.Dashboard.Bind = "127.0.0.1:0"

	for _, opt := range opts {
		opt(&cfg)
	}

	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("ensure directories: %v", err)
	}
	return &cfg
}

// WithEndpoint overrides the Stash GraphQL endpoint on the test config.
func WithEndpoint(endpoint string) ConfigOption {
	return func(cfg *config.Config) {
		cfg.Stash.Endpoint = endpoint
	}
}

// WithAPIKey sets the Stash API key on the test config.
func WithAPIKey(key string) ConfigOption {
	return func(cfg *config.Config) {
		cfg.Stash.APIKey = key
	}
}
