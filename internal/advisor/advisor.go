package advisor

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"novapro/internal/config"
	"novapro/internal/logging"
	"novapro/internal/perception"
)

// Advisor issues strategy requests against a SchemaClient. It holds no
// per-call state and is safe for concurrent use.
type Advisor struct {
	client       perception.SchemaClient
	timeout      time.Duration
	systemPrompt string
	newID        func() string
}

// Option configures an Advisor.
type Option func(*Advisor)

// WithTimeout bounds calls whose context has no deadline. Non-positive values
// keep the default.
func WithTimeout(d time.Duration) Option {
	return func(a *Advisor) {
		if d > 0 {
			a.timeout = d
		}
	}
}

// WithSystemPrompt sets an optional system instruction sent with every call.
func WithSystemPrompt(prompt string) Option {
	return func(a *Advisor) { a.systemPrompt = strings.TrimSpace(prompt) }
}

// WithRequestIDs replaces the request ID generator.
func WithRequestIDs(gen func() string) Option {
	return func(a *Advisor) {
		if gen != nil {
			a.newID = gen
		}
	}
}

// New creates an Advisor. A nil client is allowed; every call then falls back
// with a TransportFailure.
func New(client perception.SchemaClient, opts ...Option) *Advisor {
	a := &Advisor{
		client:  client,
		timeout: config.DefaultTimeout,
		newID:   uuid.NewString,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Report is a StrategyResult plus the diagnostics behind it.
type Report struct {
	RequestID string         `json:"requestId"`
	Result    StrategyResult `json:"result"`
	Fallback  bool           `json:"fallback"`
	Kind      FailureKind    `json:"failureKind"`
	Cause     string         `json:"cause,omitempty"`
	Latency   time.Duration  `json:"latency"`
}

// outcome is the internal tagged result of one request: either result is set
// and failure is nil, or failure is set.
type outcome struct {
	result  StrategyResult
	failure *Failure
}

// RequestStrategy returns advice for the given device and playstyle. It never
// returns an error: any failure yields Fallback().
func (a *Advisor) RequestStrategy(ctx context.Context, deviceProfile, playstyle string) StrategyResult {
	return a.Evaluate(ctx, OptimizationRequest{DeviceProfile: deviceProfile, Playstyle: playstyle}).Result
}

// Evaluate runs one request and reports how it resolved.
func (a *Advisor) Evaluate(ctx context.Context, req OptimizationRequest) Report {
	if ctx == nil {
		ctx = context.Background()
	}
	reqID := a.newID()
	log := logging.WithRequestID(logging.CategoryAdvisor, reqID)
	start := time.Now()

	out := a.run(perception.WithRequestID(ctx, reqID), req, log)

	report := Report{RequestID: reqID, Latency: time.Since(start)}
	if out.failure != nil {
		log.Warn("strategy request fell back: kind=%s cause=%v latency=%v", out.failure.Kind, out.failure.Err, report.Latency)
		report.Result = Fallback()
		report.Fallback = true
		report.Kind = out.failure.Kind
		if out.failure.Err != nil {
			report.Cause = out.failure.Err.Error()
		}
		return report
	}

	log.Info("strategy received: danger=%s latency=%v", out.result.DangerLevel, report.Latency)
	report.Result = out.result
	return report
}

func (a *Advisor) run(ctx context.Context, req OptimizationRequest, log *logging.RequestLogger) (out outcome) {
	defer func() {
		if r := recover(); r != nil {
			out = outcome{failure: fail(KindTransportFailure, fmt.Errorf("client panic: %v", r))}
		}
	}()

	if err := req.Validate(); err != nil {
		return outcome{failure: fail(KindInvalidRequest, err)}
	}
	if a.client == nil {
		return outcome{failure: fail(KindTransportFailure, errors.New("no completion client configured"))}
	}

	if _, hasDeadline := ctx.Deadline(); !hasDeadline {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, a.timeout)
		defer cancel()
	}

	prompt := BuildPrompt(req)
	log.Debug("requesting strategy: prompt_len=%d", len(prompt))

	text, err := a.client.CompleteWithSchema(ctx, a.systemPrompt, prompt, ResponseSchema())
	if err != nil {
		return outcome{failure: fail(KindTransportFailure, err)}
	}

	result, err := parseResult(text)
	if err != nil {
		var f *Failure
		if errors.As(err, &f) {
			return outcome{failure: f}
		}
		return outcome{failure: fail(KindMalformedResponse, err)}
	}
	return outcome{result: result}
}
