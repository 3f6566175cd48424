package advisor

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidRequest marks inputs rejected before any network call.
	ErrInvalidRequest = errors.New("invalid optimization request")
	// ErrEmptyResponse is returned when the model answers with no text.
	ErrEmptyResponse = errors.New("no response from AI")
)

// FailureKind classifies why a request fell back. It is visible in logs and
// in Report, never in StrategyResult.
type FailureKind int

const (
	KindNone FailureKind = iota
	KindInvalidRequest
	KindTransportFailure
	KindMalformedResponse
	KindSchemaViolation
)

func (k FailureKind) String() string {
	switch k {
	case KindNone:
		return "None"
	case KindInvalidRequest:
		return "InvalidRequest"
	case KindTransportFailure:
		return "TransportFailure"
	case KindMalformedResponse:
		return "MalformedResponse"
	case KindSchemaViolation:
		return "SchemaViolation"
	default:
		return fmt.Sprintf("FailureKind(%d)", int(k))
	}
}

// MarshalText renders the kind by name in JSON reports.
func (k FailureKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// Failure carries the classified cause of a fallback.
type Failure struct {
	Kind FailureKind
	Err  error
}

func (f *Failure) Error() string {
	if f.Err == nil {
		return f.Kind.String()
	}
	return fmt.Sprintf("%s: %v", f.Kind, f.Err)
}

func (f *Failure) Unwrap() error { return f.Err }

func fail(kind FailureKind, err error) *Failure {
	return &Failure{Kind: kind, Err: err}
}

// KindOf extracts the FailureKind from err, or KindNone when err carries none.
func KindOf(err error) FailureKind {
	var f *Failure
	if errors.As(err, &f) {
		return f.Kind
	}
	return KindNone
}

// UnmarshalText parses a kind name written by MarshalText.
func (k *FailureKind) UnmarshalText(text []byte) error {
	for _, candidate := range []FailureKind{KindNone, KindInvalidRequest, KindTransportFailure, KindMalformedResponse, KindSchemaViolation} {
		if candidate.String() == string(text) {
			*k = candidate
			return nil
		}
	}
	return fmt.Errorf("unknown failure kind %q", text)
}
