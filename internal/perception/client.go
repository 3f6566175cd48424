// Package perception holds the clients that talk to hosted generative-text
// models. Every client answers a single structured-output completion; callers
// decide what to do with failures.
package perception

import (
	"context"
	"errors"
	"fmt"
)

// SchemaClient is the contract the strategy advisor depends on: one prompt in,
// one JSON document constrained by schema out.
type SchemaClient interface {
	CompleteWithSchema(ctx context.Context, systemPrompt, userPrompt string, schema map[string]interface{}) (string, error)
}

// Provider represents an LLM provider.
type Provider string

const (
	ProviderGemini Provider = "gemini"
	ProviderGenAI  Provider = "genai"
)

var (
	// ErrAPIKeyMissing is returned at call time when no credential is configured.
	ErrAPIKeyMissing = errors.New("API key not configured")
	// ErrNoCompletion is returned when the endpoint answers without candidates.
	ErrNoCompletion = errors.New("no completion returned")
	// ErrSchemaEmpty is returned when a caller passes a nil or empty schema.
	ErrSchemaEmpty = errors.New("json schema is empty")
)

// APIError is a non-2xx answer or an error object in a 2xx body.
type APIError struct {
	StatusCode int
	Status     string
	Message    string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("API request failed with status %d", e.StatusCode)
	}
	return fmt.Sprintf("API request failed with status %d: %s", e.StatusCode, e.Message)
}

type requestIDKey struct{}

// WithRequestID tags ctx so clients and decorators can correlate log lines.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, id)
}

// RequestIDFrom returns the request ID carried by ctx, or "".
func RequestIDFrom(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}
