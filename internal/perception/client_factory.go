package perception

import (
	"fmt"
	"strings"

	"novapro/internal/config"
)

// ConfigFromLLM resolves a GeminiConfig from the YAML-level settings.
func ConfigFromLLM(cfg config.LLMConfig) GeminiConfig {
	c := &config.Config{LLM: cfg}
	return GeminiConfig{
		APIKey:          cfg.APIKey,
		BaseURL:         cfg.BaseURL,
		Model:           cfg.Model,
		Timeout:         c.GetLLMTimeout(),
		MaxOutputTokens: cfg.MaxOutputTokens,
		Temperature:     cfg.Temperature,
	}
}

// NewClientFromConfig builds the SchemaClient selected by llm.provider.
// An unknown provider is a configuration error; a missing API key is not.
func NewClientFromConfig(cfg config.LLMConfig) (SchemaClient, error) {
	gc := ConfigFromLLM(cfg)
	switch Provider(strings.ToLower(strings.TrimSpace(cfg.Provider))) {
	case ProviderGemini, "":
		return NewGeminiClientWithConfig(gc), nil
	case ProviderGenAI:
		return NewGenAIClient(gc), nil
	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s", cfg.Provider)
	}
}
