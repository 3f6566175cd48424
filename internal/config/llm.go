package config

import "time"

const (
	ProviderGemini = "gemini" // REST generateContent client
	ProviderGenAI  = "genai"  // google.golang.org/genai SDK

	DefaultModel   = "gemini-3-flash-preview"
	DefaultBaseURL = "https://generativelanguage.googleapis.com/v1beta"

	DefaultTimeout = 20 * time.Second
	MinTimeout     = time.Second
	MaxTimeout     = 5 * time.Minute
)

// ValidProviders lists all supported LLM providers.
var ValidProviders = []string{ProviderGemini, ProviderGenAI}

// LLMConfig configures the generative-text endpoint.
type LLMConfig struct {
	Provider        string  `yaml:"provider"` // gemini, genai
	APIKey          string  `yaml:"api_key"`
	Model           string  `yaml:"model"`
	BaseURL         string  `yaml:"base_url"`
	Timeout         string  `yaml:"timeout"`
	MaxOutputTokens int     `yaml:"max_output_tokens"`
	Temperature     float64 `yaml:"temperature"`
}
