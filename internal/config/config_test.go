package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// clearEnv blanks every variable applyEnvOverrides reads.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, name := range []string{
		"API_KEY", "GOOGLE_API_KEY", "GEMINI_API_KEY",
		"NOVA_LLM_PROVIDER", "NOVA_LLM_MODEL", "NOVA_LLM_BASE_URL",
		"NOVA_LLM_TIMEOUT", "NOVA_LOG_LEVEL",
	} {
		t.Setenv(name, "")
	}
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, ProviderGemini, cfg.LLM.Provider)
	assert.Equal(t, "gemini-3-flash-preview", cfg.LLM.Model)
	assert.Equal(t, 20*time.Second, cfg.GetLLMTimeout())
	assert.Empty(t, cfg.LLM.APIKey)
	require.NoError(t, cfg.Validate(), "defaults must validate without an API key")
}

func TestConfig_SaveLoad(t *testing.T) {
	clearEnv(t)

	path := filepath.Join(t.TempDir(), "nested", "nova.yaml")

	cfg := DefaultConfig()
	cfg.LLM.Provider = ProviderGenAI
	cfg.LLM.APIKey = "sk-test"
	cfg.Advisor.SystemPrompt = "be brief"
	cfg.Logging.Categories = map[string]bool{"api": false}

	require.NoError(t, cfg.Save(path))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}

func TestLoad_MissingFileReturnsDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestLoad_MissingFileStillAppliesEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv("API_KEY", "from-env")

	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "from-env", cfg.LLM.APIKey)
}

func TestLoad_PartialFileKeepsDefaults(t *testing.T) {
	clearEnv(t)

	path := filepath.Join(t.TempDir(), "nova.yaml")
	require.NoError(t, os.WriteFile(path, []byte("llm:\n  model: gemini-2.5-flash\n"), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "gemini-2.5-flash", cfg.LLM.Model)
	assert.Equal(t, DefaultBaseURL, cfg.LLM.BaseURL)
	assert.Equal(t, "20s", cfg.LLM.Timeout)
}

func TestLoad_InvalidYAML(t *testing.T) {
	clearEnv(t)

	path := filepath.Join(t.TempDir(), "nova.yaml")
	require.NoError(t, os.WriteFile(path, []byte("llm: [unterminated"), 0644))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestGetLLMTimeout_FallsBackOnGarbage(t *testing.T) {
	cfg := DefaultConfig()
	cfg.LLM.Timeout = "soon"
	assert.Equal(t, DefaultTimeout, cfg.GetLLMTimeout())

	cfg.LLM.Timeout = "45s"
	assert.Equal(t, 45*time.Second, cfg.GetLLMTimeout())
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr bool
	}{
		{"defaults", func(c *Config) {}, false},
		{"genai provider", func(c *Config) { c.LLM.Provider = ProviderGenAI }, false},
		{"unknown provider", func(c *Config) { c.LLM.Provider = "zai" }, true},
		{"empty model", func(c *Config) { c.LLM.Model = " " }, true},
		{"bad timeout", func(c *Config) { c.LLM.Timeout = "fast" }, true},
		{"timeout too short", func(c *Config) { c.LLM.Timeout = "10ms" }, true},
		{"timeout too long", func(c *Config) { c.LLM.Timeout = "1h" }, true},
		{"negative tokens", func(c *Config) { c.LLM.MaxOutputTokens = -1 }, true},
		{"temperature", func(c *Config) { c.LLM.Temperature = 3 }, true},
		{"bad log level", func(c *Config) { c.Logging.Level = "chatty" }, true},
		{"bad log format", func(c *Config) { c.Logging.Format = "xml" }, true},
		{"json log format", func(c *Config) { c.Logging.Format = "json" }, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestRedacted(t *testing.T) {
	cfg := DefaultConfig()
	cfg.LLM.APIKey = "AIzaSecretValue1234"
	cfg.Logging.Categories = map[string]bool{"api": true}

	red := cfg.Redacted()
	assert.Equal(t, "****1234", red.LLM.APIKey)
	assert.Equal(t, "AIzaSecretValue1234", cfg.LLM.APIKey, "original must not change")

	red.Logging.Categories["api"] = false
	assert.True(t, cfg.Logging.Categories["api"], "categories map must be copied")
}

func TestMaskSecret(t *testing.T) {
	assert.Equal(t, "", MaskSecret(""))
	assert.Equal(t, "****", MaskSecret("abc"))
	assert.Equal(t, "****7890", MaskSecret("1234567890"))
}
