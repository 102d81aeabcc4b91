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
	for _, k := range []string{
		"FINNHUB_API_KEY", "FINNHUB_BASE_URL", "LLM_PROVIDER", "LLM_MODEL", "OPENAI_API_KEY",
		"GEMINI_API_KEY", "TELEGRAM_BOT_TOKEN", "SESSION_STORE", "SQLITE_PATH", "RETRY_ATTEMPTS",
		"LOG_LEVEL", "HTTPS_PROXY",
	} {
		t.Setenv(k, "")
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "https://finnhub.io/api/v1", cfg.Finnhub.BaseURL)
	assert.Equal(t, "https://query1.finance.yahoo.com", cfg.Yahoo.BaseURL)
	assert.Equal(t, "openai", cfg.LLM.Provider)
	assert.Equal(t, "gpt-4o-mini", cfg.LLM.Model)
	assert.Equal(t, "memory", cfg.Session.Store)
	assert.Equal(t, 2*time.Hour, cfg.Session.IdleTTL)
	assert.Equal(t, 3, cfg.Retry.Attempts)
	assert.Equal(t, 2*time.Second, cfg.Retry.Delay)
	assert.Equal(t, "info", cfg.Log.Level)

	assert.Error(t, cfg.Validate(), "finnhub key is required")
}

func TestLoad_YAMLAndEnvOverrides(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "config.yaml")
	yml := `
finnhub:
  api_key: from-file
llm:
  provider: gemini
session:
  store: sqlite
  idle_ttl: 30m
retry:
  attempts: 5
  delay: 500ms
`
	require.NoError(t, os.WriteFile(path, []byte(yml), 0o644))
	t.Setenv("FINNHUB_API_KEY", "from-env")
	t.Setenv("GEMINI_API_KEY", "gem-key")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "from-env", cfg.Finnhub.APIKey)
	assert.Equal(t, "gemini", cfg.LLM.Provider)
	assert.Equal(t, "gem-key", cfg.LLM.APIKey)
	assert.Equal(t, "gemini-2.0-flash", cfg.LLM.Model)
	assert.Equal(t, "sqlite", cfg.Session.Store)
	assert.Equal(t, 30*time.Minute, cfg.Session.IdleTTL)
	assert.Equal(t, 5, cfg.Retry.Attempts)
	assert.Equal(t, 500*time.Millisecond, cfg.Retry.Delay)
	assert.NoError(t, cfg.Validate())
	assert.Error(t, cfg.ValidateBot(), "bot needs a telegram token")
}

func TestValidate_RejectsUnknownProvider(t *testing.T) {
	clearEnv(t)
	t.Setenv("FINNHUB_API_KEY", "k")
	t.Setenv("LLM_PROVIDER", "claude")
	cfg, err := Load(filepath.Join(t.TempDir(), "none.yaml"))
	require.NoError(t, err)
	assert.Error(t, cfg.Validate())
}

func TestLoadDotEnv_IgnoresMissingFiles(t *testing.T) {
	dir := t.TempDir()
	envFile := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(envFile, []byte("STOCKLENS_DOTENV_PROBE=yes\n"), 0o644))
	t.Setenv("STOCKLENS_DOTENV_PROBE", "")
	os.Unsetenv("STOCKLENS_DOTENV_PROBE")

	require.NoError(t, LoadDotEnv(filepath.Join(dir, "absent.env"), envFile))
	assert.Equal(t, "yes", os.Getenv("STOCKLENS_DOTENV_PROBE"))
}
