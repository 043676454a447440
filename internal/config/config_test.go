package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	for _, k := range []string{"LLM_PROVIDER", "LLM_MODEL", "LLM_API_KEY", "GEMINI_API_KEY", "OPENAI_API_KEY", "STORE_DRIVER", "STORE_DSN", "LOG_LEVEL", "PORT"} {
		t.Setenv(k, "")
	}
}

func writeFile(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoad_YAML(t *testing.T) {
	clearEnv(t)
	path := writeFile(t, `
server:
  port: 8080
  corsOrigins: ["https://rd-flg.tech"]
llm:
  provider: openai
  model: gpt-4o-mini
  apiKey: sk-test
  timeout: 30s
store:
  driver: mysql
  host: db
  port: 3306
community:
  sampleSize: 20
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, []string{"https://rd-flg.tech"}, cfg.Server.CORSOrigins)
	assert.Equal(t, ProviderOpenAI, cfg.LLM.Provider)
	assert.Equal(t, 30*time.Second, cfg.LLM.Timeout)
	assert.Equal(t, 20, cfg.Community.SampleSize)
	assert.Equal(t, 5*time.Second, cfg.Community.ReadTimeout)
	assert.True(t, cfg.StoreEnabled())
	assert.False(t, cfg.ArchiveEnabled())
	assert.NoError(t, cfg.Validate())
}

func TestLoad_MissingFileUsesDefaultsAndEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv("GEMINI_API_KEY", "g-key")
	t.Setenv("PORT", "9000")

	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)

	assert.Equal(t, 9000, cfg.Server.Port)
	assert.Equal(t, ProviderGemini, cfg.LLM.Provider)
	assert.Equal(t, "g-key", cfg.LLM.APIKey)
	assert.Equal(t, 90*time.Second, cfg.LLM.Timeout)
	assert.Equal(t, 50, cfg.Community.SampleSize)
	assert.False(t, cfg.StoreEnabled())
	assert.NoError(t, cfg.Validate())
}

func TestLoad_OpenAIKeyFromEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv("LLM_PROVIDER", "openai")
	t.Setenv("GEMINI_API_KEY", "g-key")
	t.Setenv("OPENAI_API_KEY", "o-key")

	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "o-key", cfg.LLM.APIKey)
}

func TestValidate(t *testing.T) {
	clearEnv(t)
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.ErrorContains(t, cfg.Validate(), "no API key")

	cfg.LLM.APIKey = "k"
	cfg.Store.Driver = "firestore"
	assert.ErrorContains(t, cfg.Validate(), "store.driver")

	cfg.Store.Driver = ""
	cfg.LLM.Provider = "claude"
	assert.ErrorContains(t, cfg.Validate(), "llm.provider")
}

func TestLoad_BadYAML(t *testing.T) {
	clearEnv(t)
	_, err := Load(writeFile(t, "server: [oops"))
	assert.Error(t, err)
}

func TestPostgresDSN(t *testing.T) {
	var cfg Config
	cfg.Store.Host, cfg.Store.Port, cfg.Store.User, cfg.Store.Name = "db", 5432, "reader", "rdflg"
	assert.Equal(t, "host=db port=5432 user=reader password= dbname=rdflg sslmode=disable", cfg.PostgresDSN())

	cfg.Store.DSN = "postgres://x"
	assert.Equal(t, "postgres://x", cfg.PostgresDSN())
}
