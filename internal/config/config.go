package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all nova configuration.
type Config struct {
	// LLM configuration
	LLM LLMConfig `yaml:"llm"`

	// Strategy advisor settings
	Advisor AdvisorConfig `yaml:"advisor"`

	// Logging
	Logging LoggingConfig `yaml:"logging"`
}

// AdvisorConfig tunes the strategy advisor.
type AdvisorConfig struct {
	// SystemPrompt is sent as the system instruction when non-empty.
	SystemPrompt string `yaml:"system_prompt,omitempty"`
}

// DefaultConfigPath is where the CLI looks when --config is not given.
const DefaultConfigPath = "nova.yaml"

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		LLM: LLMConfig{
			Provider:        ProviderGemini,
			Model:           DefaultModel,
			BaseURL:         DefaultBaseURL,
			Timeout:         "20s",
			MaxOutputTokens: 2048,
			Temperature:     0.7,
		},
		Logging: LoggingConfig{
			Level:  "warn",
			Format: "console",
		},
	}
}

// Load loads configuration from a YAML file. A missing file yields the
// defaults. Environment overrides are applied in both cases.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	case os.IsNotExist(err):
	default:
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	cfg.applyEnvOverrides()
	return cfg, nil
}

// Save saves configuration to a YAML file.
func (c *Config) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	return nil
}

// applyEnvOverrides applies environment variable overrides.
func (c *Config) applyEnvOverrides() {
	// API key from environment (later entries win)
	for _, name := range []string{"API_KEY", "GOOGLE_API_KEY", "GEMINI_API_KEY"} {
		if key := os.Getenv(name); key != "" {
			c.LLM.APIKey = key
		}
	}

	if p := os.Getenv("NOVA_LLM_PROVIDER"); p != "" {
		c.LLM.Provider = strings.ToLower(strings.TrimSpace(p))
	}
	if m := os.Getenv("NOVA_LLM_MODEL"); m != "" {
		c.LLM.Model = m
	}
	if u := os.Getenv("NOVA_LLM_BASE_URL"); u != "" {
		c.LLM.BaseURL = u
	}
	if t := os.Getenv("NOVA_LLM_TIMEOUT"); t != "" {
		c.LLM.Timeout = t
	}
	if l := os.Getenv("NOVA_LOG_LEVEL"); l != "" {
		c.Logging.Level = l
	}
}

// GetLLMTimeout returns the LLM timeout as a duration.
func (c *Config) GetLLMTimeout() time.Duration {
	d, err := time.ParseDuration(c.LLM.Timeout)
	if err != nil || d <= 0 {
		return DefaultTimeout
	}
	return d
}

// Validate validates the configuration.
// A missing API key is not an error here: it surfaces as a transport
// failure when a request is made.
func (c *Config) Validate() error {
	validProvider := false
	for _, p := range ValidProviders {
		if c.LLM.Provider == p {
			validProvider = true
			break
		}
	}
	if !validProvider {
		return fmt.Errorf("invalid LLM provider: %s (valid: %v)", c.LLM.Provider, ValidProviders)
	}

	if strings.TrimSpace(c.LLM.Model) == "" {
		return fmt.Errorf("llm.model must not be empty")
	}

	if c.LLM.Timeout != "" {
		d, err := time.ParseDuration(c.LLM.Timeout)
		if err != nil {
			return fmt.Errorf("invalid llm.timeout %q: %w", c.LLM.Timeout, err)
		}
		if d < MinTimeout || d > MaxTimeout {
			return fmt.Errorf("llm.timeout %v out of range [%v, %v]", d, MinTimeout, MaxTimeout)
		}
	}

	if c.LLM.MaxOutputTokens < 0 {
		return fmt.Errorf("llm.max_output_tokens must be >= 0")
	}
	if c.LLM.Temperature < 0 || c.LLM.Temperature > 2 {
		return fmt.Errorf("llm.temperature %.2f out of range [0, 2]", c.LLM.Temperature)
	}

	return c.Logging.Validate()
}

// Redacted returns a copy safe for display: the API key is masked.
func (c *Config) Redacted() *Config {
	cp := *c
	cp.LLM.APIKey = MaskSecret(c.LLM.APIKey)
	if c.Logging.Categories != nil {
		cp.Logging.Categories = make(map[string]bool, len(c.Logging.Categories))
		for k, v := range c.Logging.Categories {
			cp.Logging.Categories[k] = v
		}
	}
	return &cp
}

// MaskSecret keeps the last four characters of a secret.
func MaskSecret(s string) string {
	if s == "" {
		return ""
	}
	if len(s) <= 4 {
		return "****"
	}
	return "****" + s[len(s)-4:]
}
