package perception

import (
	"context"
	"sync"
	"time"

	"novapro/internal/logging"
)

// Trace captures one structured-output call for diagnostics.
type Trace struct {
	RequestID    string        `json:"request_id,omitempty"`
	Model        string        `json:"model,omitempty"`
	SystemPrompt string        `json:"system_prompt"`
	UserPrompt   string        `json:"user_prompt"`
	Response     string        `json:"response"`
	Duration     time.Duration `json:"duration"`
	Success      bool          `json:"success"`
	ErrorMessage string        `json:"error_message,omitempty"`
	Timestamp    time.Time     `json:"timestamp"`
}

// TraceSink receives completed traces. Implementations must be safe for
// concurrent use.
type TraceSink interface {
	RecordTrace(trace Trace)
}

type modelGetter interface {
	GetModel() string
}

// TracingClient wraps any SchemaClient, logging every call on the api
// category and handing a Trace to the optional sink.
type TracingClient struct {
	underlying SchemaClient
	sink       TraceSink
}

// NewTracingClient creates a tracing wrapper around an existing client.
// sink may be nil.
func NewTracingClient(underlying SchemaClient, sink TraceSink) *TracingClient {
	return &TracingClient{underlying: underlying, sink: sink}
}

// GetModel forwards to the wrapped client when it knows its model.
func (tc *TracingClient) GetModel() string {
	if mg, ok := tc.underlying.(modelGetter); ok {
		return mg.GetModel()
	}
	return ""
}

// CompleteWithSchema implements SchemaClient with tracing.
func (tc *TracingClient) CompleteWithSchema(ctx context.Context, systemPrompt, userPrompt string, schema map[string]interface{}) (string, error) {
	reqID := RequestIDFrom(ctx)
	log := logging.WithRequestID(logging.CategoryAPI, reqID)

	start := time.Now()
	log.Info("LLM call started: model=%s prompt_len=%d", tc.GetModel(), len(userPrompt))

	response, err := tc.underlying.CompleteWithSchema(ctx, systemPrompt, userPrompt, schema)

	duration := time.Since(start)
	if err != nil {
		log.Warn("LLM call failed: duration=%v error=%v", duration, err)
	} else {
		log.Info("LLM call completed: duration=%v response_len=%d", duration, len(response))
	}

	if tc.sink != nil {
		trace := Trace{
			RequestID:    reqID,
			Model:        tc.GetModel(),
			SystemPrompt: systemPrompt,
			UserPrompt:   userPrompt,
			Response:     response,
			Duration:     duration,
			Success:      err == nil,
			Timestamp:    start,
		}
		if err != nil {
			trace.ErrorMessage = err.Error()
		}
		tc.sink.RecordTrace(trace)
	}

	return response, err
}

// TraceRecorder is an in-memory TraceSink.
type TraceRecorder struct {
	mu     sync.Mutex
	traces []Trace
}

// RecordTrace implements TraceSink.
func (r *TraceRecorder) RecordTrace(trace Trace) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.traces = append(r.traces, trace)
}

// Traces returns a copy of everything recorded so far.
func (r *TraceRecorder) Traces() []Trace {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Trace(nil), r.traces...)
}

// Find returns the trace for a request ID.
func (r *TraceRecorder) Find(requestID string) (Trace, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, t := range r.traces {
		if t.RequestID == requestID {
			return t, true
		}
	}
	return Trace{}, false
}
