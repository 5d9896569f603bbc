package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.Environment)
	assert.Equal(t, "0.0.0.0:8080", cfg.Server.Addr())
	assert.Equal(t, "redis", cfg.Store.Driver)
	assert.Equal(t, "localhost:6379", cfg.Redis.Addr())
	assert.Equal(t, 24*time.Hour, cfg.Tokens.ActivationTTL)
	assert.Equal(t, time.Hour, cfg.Tokens.ResetTTL)
	assert.Equal(t, 30*24*time.Hour, cfg.Tokens.SessionTTL)
	assert.False(t, cfg.MedSearch.Enabled)
	assert.True(t, cfg.Metrics.Enabled)
	assert.Equal(t, "info", cfg.Logging.Level)
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
environment: staging
server:
  port: 9000
store:
  driver: memory
tokens:
  session_ttl: 1h
`), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "staging", cfg.Environment)
	assert.Equal(t, 9000, cfg.Server.Port)
	assert.Equal(t, "memory", cfg.Store.Driver)
	assert.Equal(t, time.Hour, cfg.Tokens.SessionTTL)
	assert.Equal(t, time.Hour, cfg.Tokens.ResetTTL, "unset values keep defaults")
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		cfg, err := Load("")
		require.NoError(t, err)
		return cfg
	}

	cfg := valid()
	cfg.Environment = "bad:env"
	assert.Error(t, cfg.Validate(), "a colon in the environment would break the key layout")

	cfg = valid()
	cfg.Server.Port = 0
	assert.Error(t, cfg.Validate())

	cfg = valid()
	cfg.Store.Driver = "postgres"
	assert.Error(t, cfg.Validate())

	cfg = valid()
	cfg.Tokens.SessionTTL = 0
	assert.Error(t, cfg.Validate())

	cfg = valid()
	cfg.MedSearch.Enabled = true
	cfg.MedSearch.Path = ""
	assert.Error(t, cfg.Validate())

	cfg = valid()
	cfg.Logging.Level = "verbose"
	assert.Error(t, cfg.Validate())
}
