package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)

	assert.Equal(t, 8000, cfg.Server.Port)
	assert.Equal(t, 24*time.Hour, cfg.Session.TTL)
	assert.Equal(t, "gemini", cfg.Providers.Primary)
	assert.Equal(t, 1000, cfg.Knowledge.ChunkSize)
	assert.Equal(t, 200, cfg.Knowledge.ChunkOverlap)
}

func TestLoadFileWithSecretExpansion(t *testing.T) {
	t.Setenv("TEST_GEMINI_KEY", "sekrit")
	path := filepath.Join(t.TempDir(), "tutord.yaml")
	content := `
server:
  port: 9090
providers:
  primary: anthropic
  gemini_api_key: ${TEST_GEMINI_KEY}
session:
  ttl: 1h
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "anthropic", cfg.Providers.Primary)
	assert.Equal(t, "sekrit", cfg.Providers.GeminiAPIKey)
	assert.Equal(t, time.Hour, cfg.Session.TTL)
}

func TestEnvOverridesWin(t *testing.T) {
	t.Setenv("TUTORD_PRIMARY_PROVIDER", "openai")
	t.Setenv("OPENAI_API_KEY", "k-123")

	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "openai", cfg.Providers.Primary)
	assert.Equal(t, "k-123", cfg.Providers.OpenAIAPIKey)
}

func TestValidateRejectsBadValues(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"bad port", func(c *Config) { c.Server.Port = -1 }},
		{"zero ttl", func(c *Config) { c.Session.TTL = 0 }},
		{"overlap >= size", func(c *Config) { c.Knowledge.ChunkOverlap = c.Knowledge.ChunkSize }},
		{"unknown provider", func(c *Config) { c.Providers.Primary = "palm" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Defaults()
			tt.mutate(&cfg)
			assert.Error(t, cfg.validate())
		})
	}
}
