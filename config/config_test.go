package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noeul-sumini/travel-agent/core"
	"github.com/noeul-sumini/travel-agent/registry"
)

func TestParse_FullConfig(t *testing.T) {
	cfg, err := Parse([]byte(`
server:
  addr: ":9090"
session:
  backend: redis
  redis_addr: localhost:6379
  ttl: 48h
model:
  provider: openai
  name: gpt-4o
  api_key: sk-test
handlers:
  timeout: 10s
tools:
  weather_api_key: w-key
logging:
  level: debug
  format: json
`))
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.Server.Addr)
	assert.Equal(t, "redis", cfg.Session.Backend)
	assert.Equal(t, "localhost:6379", cfg.Session.RedisAddr)
	assert.Equal(t, 48*time.Hour, cfg.Session.TTL)
	assert.Equal(t, "openai", cfg.Model.Provider)
	assert.Equal(t, "gpt-4o", cfg.Model.Name)
	assert.Equal(t, 10*time.Second, cfg.Handlers.Timeout)
	assert.Equal(t, "w-key", cfg.Tools.WeatherAPIKey)
	assert.Equal(t, "debug", cfg.Logging.Level)
}

func TestParse_AppliesDefaults(t *testing.T) {
	cfg, err := Parse([]byte(`{}`))
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Equal(t, "memory", cfg.Session.Backend)
	assert.Equal(t, core.DefaultSessionTTL, cfg.Session.TTL)
	assert.Equal(t, "mock", cfg.Model.Provider)
	assert.Equal(t, registry.DefaultTimeout, cfg.Handlers.Timeout)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "text", cfg.Logging.Format)
}

func TestParse_ExpandsEnvVars(t *testing.T) {
	t.Setenv("TEST_WEATHER_KEY", "from-env")

	cfg, err := Parse([]byte(`
tools:
  weather_api_key: ${TEST_WEATHER_KEY}
`))
	require.NoError(t, err)
	assert.Equal(t, "from-env", cfg.Tools.WeatherAPIKey)
}

func TestParse_Invalid(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"unknown backend", "session:\n  backend: dynamo"},
		{"redis without addr", "session:\n  backend: redis"},
		{"sqlite without path", "session:\n  backend: sqlite"},
		{"unknown provider", "model:\n  provider: llama"},
		{"bad duration", "session:\n  ttl: soon"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.yaml))
			assert.Error(t, err)
		})
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("server:\n  addr: \":7070\"\n"), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, ":7070", cfg.Server.Addr)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
