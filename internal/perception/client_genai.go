package perception

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"google.golang.org/genai"

	"novapro/internal/config"
	"novapro/internal/logging"
)

// GenAIClient implements SchemaClient on top of the google.golang.org/genai SDK.
// The SDK client is built on first use so a missing credential surfaces at
// call time rather than at startup.
type GenAIClient struct {
	apiKey          string
	baseURL         string
	apiVersion      string
	model           string
	timeout         time.Duration
	maxOutputTokens int32
	temperature     float32
	httpClient      *http.Client

	mu     sync.Mutex
	client *genai.Client
}

// NewGenAIClient creates an SDK-backed client. cfg.BaseURL may carry an API
// version suffix (".../v1beta"); it is split into the SDK's BaseURL and
// APIVersion options.
func NewGenAIClient(cfg GeminiConfig) *GenAIClient {
	model := strings.TrimSpace(cfg.Model)
	if model == "" {
		model = config.DefaultModel
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = config.DefaultTimeout
	}
	base, version := splitAPIVersion(cfg.BaseURL)
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: timeout}
	}
	return &GenAIClient{
		apiKey:          cfg.APIKey,
		baseURL:         base,
		apiVersion:      version,
		model:           model,
		timeout:         timeout,
		maxOutputTokens: int32(cfg.MaxOutputTokens),
		temperature:     float32(cfg.Temperature),
		httpClient:      httpClient,
	}
}

// GetModel returns the model name sent upstream.
func (c *GenAIClient) GetModel() string {
	return c.model
}

func (c *GenAIClient) sdk(ctx context.Context) (*genai.Client, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.client != nil {
		return c.client, nil
	}
	if c.apiKey == "" {
		return nil, ErrAPIKeyMissing
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:     c.apiKey,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: c.httpClient,
		HTTPOptions: genai.HTTPOptions{
			BaseURL:    c.baseURL,
			APIVersion: c.apiVersion,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create GenAI client: %w", err)
	}
	c.client = client
	return client, nil
}

// CompleteWithSchema sends one GenerateContent call with a response schema.
func (c *GenAIClient) CompleteWithSchema(ctx context.Context, systemPrompt, userPrompt string, schema map[string]interface{}) (string, error) {
	if _, hasDeadline := ctx.Deadline(); !hasDeadline {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	startTime := time.Now()
	logging.PerceptionDebug("[GenAI] CompleteWithSchema: model=%s system_len=%d user_len=%d", c.model, len(systemPrompt), len(userPrompt))

	responseSchema, err := ToGenAISchema(schema)
	if err != nil {
		return "", err
	}

	client, err := c.sdk(ctx)
	if err != nil {
		logging.PerceptionError("[GenAI] CompleteWithSchema: %v", err)
		return "", err
	}

	genCfg := &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
		ResponseSchema:   responseSchema,
	}
	if c.temperature > 0 {
		genCfg.Temperature = genai.Ptr(c.temperature)
	}
	if c.maxOutputTokens > 0 {
		genCfg.MaxOutputTokens = c.maxOutputTokens
	}
	if strings.TrimSpace(systemPrompt) != "" {
		genCfg.SystemInstruction = genai.NewContentFromText(systemPrompt, genai.RoleUser)
	}

	contents := []*genai.Content{genai.NewContentFromText(userPrompt, genai.RoleUser)}
	result, err := client.Models.GenerateContent(ctx, c.model, contents, genCfg)
	if err != nil {
		var apiErr genai.APIError
		if errors.As(err, &apiErr) {
			return "", &APIError{StatusCode: apiErr.Code, Status: apiErr.Status, Message: apiErr.Message}
		}
		return "", fmt.Errorf("GenAI generate failed: %w", err)
	}
	if result == nil || len(result.Candidates) == 0 {
		return "", ErrNoCompletion
	}

	response := strings.TrimSpace(result.Text())
	logging.Perception("[GenAI] CompleteWithSchema: completed in %v response_len=%d", time.Since(startTime), len(response))
	return response, nil
}

// splitAPIVersion turns "https://host/v1beta" into ("https://host/", "v1beta").
// Empty input keeps the SDK defaults.
func splitAPIVersion(baseURL string) (string, string) {
	base := strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if base == "" {
		return "", ""
	}
	idx := strings.LastIndex(base, "/")
	if idx < 0 {
		return base + "/", ""
	}
	last := base[idx+1:]
	if strings.HasPrefix(last, "v1") {
		return base[:idx+1], last
	}
	return base + "/", ""
}
