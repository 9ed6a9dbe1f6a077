package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("CONFIG_PATH", filepath.Join(t.TempDir(), "missing.yaml"))

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "mongo", cfg.Store.Driver)
	assert.Equal(t, "sessions", cfg.Store.Mongo.Collection)
	assert.Equal(t, 3, cfg.Dispatch.MaxRetries)
	assert.Equal(t, 250*time.Millisecond, cfg.Dispatch.BaseBackoff)
	assert.Equal(t, 4*time.Second, cfg.Dispatch.MaxBackoff)
	assert.Equal(t, 60*time.Second, cfg.Dispatch.AttemptTimeout)
	assert.Equal(t, 2*time.Second, cfg.Health.ProbeTimeout)
	assert.Equal(t, "gpt-4o-mini", cfg.LLM.OpenAI.Model)
	assert.Equal(t, "whisper-1", cfg.LLM.OpenAI.TranscriptionModel)
	assert.Equal(t, "https://api.deepseek.com/v1", cfg.LLM.DeepSeek.BaseURL)
}

func TestLoad_FileAndEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	yaml := []byte(`
store:
  driver: postgres
dispatch:
  max_retries: 1
llm:
  default_provider: gemini
`)
	require.NoError(t, os.WriteFile(path, yaml, 0o600))

	t.Setenv("CONFIG_PATH", path)
	t.Setenv("OPENAI_API_KEY", "sk-test")
	t.Setenv("POSTGRES_PASSWORD", "secret")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "postgres", cfg.Store.Driver)
	assert.Equal(t, 1, cfg.Dispatch.MaxRetries)
	assert.Equal(t, "gemini", cfg.LLM.DefaultProvider)
	assert.Equal(t, "sk-test", cfg.LLM.OpenAI.APIKey)
	assert.Contains(t, cfg.Store.Postgres.DSN(), "omniai:secret@localhost:5432/omniai")
}

func TestConfig_Validate(t *testing.T) {
	t.Run("unknown driver", func(t *testing.T) {
		cfg := &Config{Store: StoreConfig{Driver: "sqlite"}}
		assert.Error(t, cfg.Validate())
	})

	t.Run("auth without secret", func(t *testing.T) {
		cfg := &Config{Store: StoreConfig{Driver: "mongo"}, Auth: AuthConfig{Enabled: true}}
		assert.Error(t, cfg.Validate())
	})

	t.Run("valid", func(t *testing.T) {
		cfg := &Config{Store: StoreConfig{Driver: "mongo"}}
		assert.NoError(t, cfg.Validate())
	})
}
