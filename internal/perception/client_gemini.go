package perception

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/tidwall/gjson"

	"novapro/internal/config"
	"novapro/internal/logging"
)

// maxErrorBody bounds how much of a failed response is kept for diagnostics.
const maxErrorBody = 512

// GeminiClient implements SchemaClient for the Gemini generateContent REST API.
// It is safe for concurrent use and keeps no per-call state.
type GeminiClient struct {
	apiKey          string
	baseURL         string
	model           string
	maxOutputTokens int
	temperature     float64
	timeout         time.Duration
	httpClient      *http.Client
}

// DefaultGeminiConfig returns sensible defaults.
func DefaultGeminiConfig(apiKey string) GeminiConfig {
	return GeminiConfig{
		APIKey:          apiKey,
		BaseURL:         config.DefaultBaseURL,
		Model:           config.DefaultModel,
		Timeout:         config.DefaultTimeout,
		MaxOutputTokens: 2048,
		Temperature:     0.7,
	}
}

// NewGeminiClient creates a new Gemini client.
func NewGeminiClient(apiKey string) *GeminiClient {
	return NewGeminiClientWithConfig(DefaultGeminiConfig(apiKey))
}

// NewGeminiClientWithConfig creates a new Gemini client with custom config.
func NewGeminiClientWithConfig(cfg GeminiConfig) *GeminiClient {
	model := strings.TrimSpace(cfg.Model)
	if model == "" {
		model = config.DefaultModel
	}
	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		baseURL = config.DefaultBaseURL
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = config.DefaultTimeout
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: timeout}
	}

	return &GeminiClient{
		apiKey:          cfg.APIKey,
		baseURL:         baseURL,
		model:           model,
		maxOutputTokens: cfg.MaxOutputTokens,
		temperature:     cfg.Temperature,
		timeout:         timeout,
		httpClient:      httpClient,
	}
}

// GetModel returns the model name sent upstream.
func (c *GeminiClient) GetModel() string {
	return c.model
}

// CompleteWithSchema sends a prompt and enforces a JSON schema in the response.
// Uses generationConfig.response_schema with response_mime_type. One HTTP
// attempt is made; retries are the caller's business.
func (c *GeminiClient) CompleteWithSchema(ctx context.Context, systemPrompt, userPrompt string, schema map[string]interface{}) (string, error) {
	// Auto-apply timeout if context has no deadline
	if _, hasDeadline := ctx.Deadline(); !hasDeadline {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	startTime := time.Now()
	logging.PerceptionDebug("[Gemini] CompleteWithSchema: model=%s system_len=%d user_len=%d", c.model, len(systemPrompt), len(userPrompt))

	if c.apiKey == "" {
		logging.PerceptionError("[Gemini] CompleteWithSchema: API key not configured")
		return "", ErrAPIKeyMissing
	}
	if len(schema) == 0 {
		return "", ErrSchemaEmpty
	}

	reqBody := GeminiRequest{
		Contents: []GeminiContent{
			{
				Role:  "user",
				Parts: []GeminiPart{{Text: userPrompt}},
			},
		},
		GenerationConfig: GeminiGenerationConfig{
			Temperature:      c.temperature,
			MaxOutputTokens:  c.maxOutputTokens,
			ResponseMimeType: "application/json",
			ResponseSchema:   schema,
		},
	}
	if strings.TrimSpace(systemPrompt) != "" {
		reqBody.SystemInstruction = &GeminiContent{
			Parts: []GeminiPart{{Text: systemPrompt}},
		}
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	endpoint := fmt.Sprintf("%s/models/%s:generateContent", c.baseURL, c.model)
	logging.APIDebug("[Gemini] request: POST %s?key=%s body_len=%d", endpoint, config.MaskSecret(c.apiKey), len(jsonData))

	query := url.Values{"key": {c.apiKey}}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint+"?"+query.Encode(), bytes.NewReader(jsonData))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		// url.Error embeds the full URL; keep the key out of the message.
		masked := config.MaskSecret(c.apiKey)
		msg := strings.ReplaceAll(err.Error(), url.QueryEscape(c.apiKey), masked)
		msg = strings.ReplaceAll(msg, c.apiKey, masked)
		return "", fmt.Errorf("request failed: %s", msg)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		apiErr := &APIError{StatusCode: resp.StatusCode, Status: resp.Status, Message: summarizeErrorBody(body)}
		logging.PerceptionWarn("[Gemini] CompleteWithSchema: %v", apiErr)
		return "", apiErr
	}

	var geminiResp GeminiResponse
	if err := json.Unmarshal(body, &geminiResp); err != nil {
		return "", fmt.Errorf("failed to parse response: %w", err)
	}

	if geminiResp.Error != nil {
		return "", &APIError{StatusCode: geminiResp.Error.Code, Status: geminiResp.Error.Status, Message: geminiResp.Error.Message}
	}

	if len(geminiResp.Candidates) == 0 || len(geminiResp.Candidates[0].Content.Parts) == 0 {
		return "", ErrNoCompletion
	}

	var result strings.Builder
	for _, part := range geminiResp.Candidates[0].Content.Parts {
		result.WriteString(part.Text)
	}
	response := strings.TrimSpace(result.String())

	logging.Perception("[Gemini] CompleteWithSchema: completed in %v response_len=%d finish=%s tokens=%d",
		time.Since(startTime), len(response), geminiResp.Candidates[0].FinishReason, geminiResp.UsageMetadata.TotalTokenCount)
	return response, nil
}

// summarizeErrorBody pulls error.message out of a Google API error body,
// falling back to a truncated raw body.
func summarizeErrorBody(body []byte) string {
	if gjson.ValidBytes(body) {
		if msg := gjson.GetBytes(body, "error.message"); msg.Exists() && msg.String() != "" {
			return msg.String()
		}
	}
	s := strings.TrimSpace(string(body))
	if len(s) > maxErrorBody {
		s = s[:maxErrorBody] + "..."
	}
	return s
}
