package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.Equal(t, "127.0.0.1:8080", cfg.Server.Addr())
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "metadata.csv", cfg.Dataset.Path)
	assert.Equal(t, 15, cfg.Dataset.TopJournals)
	assert.Equal(t, 10, cfg.Dataset.TopSources)
	assert.Equal(t, 25, cfg.Dataset.TopKeywords)
	assert.Equal(t, 10*time.Minute, cfg.Dataset.CacheTTL)
	assert.Contains(t, cfg.Dataset.ExtraStopWords, "covid")
	assert.True(t, cfg.Security.RateLimit.Enabled)

	require.NoError(t, cfg.Validate())
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("CORDEX_SERVER_PORT", "9090")
	t.Setenv("CORDEX_DATASET_PATH", "/data/metadata.csv")
	t.Setenv("CORDEX_DATASET_TOP_KEYWORDS", "40")
	t.Setenv("CORDEX_LOGGING_LEVEL", "debug")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "/data/metadata.csv", cfg.Dataset.Path)
	assert.Equal(t, 40, cfg.Dataset.TopKeywords)
	assert.Equal(t, "debug", cfg.Logging.Level)

	// Untouched values keep their defaults.
	assert.Equal(t, "127.0.0.1", cfg.Server.Host)
	assert.Equal(t, 15, cfg.Dataset.TopJournals)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"valid defaults", func(c *Config) {}, ""},
		{"bad port", func(c *Config) { c.Server.Port = 0 }, "Port"},
		{"bad log level", func(c *Config) { c.Logging.Level = "verbose" }, "Level"},
		{"bad log output", func(c *Config) { c.Logging.Output = "syslog" }, "Output"},
		{"missing dataset path", func(c *Config) { c.Dataset.Path = "" }, "Path"},
		{"top journals too large", func(c *Config) { c.Dataset.TopJournals = 1000 }, "TopJournals"},
		{"zero read timeout", func(c *Config) { c.Server.ReadTimeout = 0 }, "ReadTimeout"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
			} else {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
			}
		})
	}
}
