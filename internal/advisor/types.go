// Package advisor turns a device profile and a playstyle into a tuning
// strategy by asking a hosted model for a schema-constrained JSON answer.
// Every failure resolves to a fixed fallback result; callers never handle
// errors from RequestStrategy.
package advisor

import (
	"fmt"
	"strings"
)

// DangerLevel is the coarse risk classification attached to a strategy.
type DangerLevel string

const (
	DangerLow    DangerLevel = "Low"
	DangerMedium DangerLevel = "Medium"
	DangerHigh   DangerLevel = "High"
)

// DangerLevels lists the allowed values in schema order.
var DangerLevels = []DangerLevel{DangerLow, DangerMedium, DangerHigh}

// Valid reports whether d is one of the three allowed values.
func (d DangerLevel) Valid() bool {
	switch d {
	case DangerLow, DangerMedium, DangerHigh:
		return true
	}
	return false
}

// ParseDangerLevel accepts only the exact enum spellings.
func ParseDangerLevel(s string) (DangerLevel, error) {
	d := DangerLevel(s)
	if !d.Valid() {
		return "", fmt.Errorf("invalid danger level %q", s)
	}
	return d, nil
}

// OptimizationRequest is the input to one strategy request.
type OptimizationRequest struct {
	DeviceProfile string `json:"deviceProfile" yaml:"device"`
	Playstyle     string `json:"playstyle" yaml:"playstyle"`
}

// Validate rejects blank fields.
func (r OptimizationRequest) Validate() error {
	if strings.TrimSpace(r.DeviceProfile) == "" {
		return fmt.Errorf("%w: device profile is empty", ErrInvalidRequest)
	}
	if strings.TrimSpace(r.Playstyle) == "" {
		return fmt.Errorf("%w: playstyle is empty", ErrInvalidRequest)
	}
	return nil
}

// StrategyResult is the caller-visible answer. It is always fully populated.
type StrategyResult struct {
	Advice            string      `json:"advice"`
	RecommendedConfig string      `json:"recommendedConfig"`
	DangerLevel       DangerLevel `json:"dangerLevel"`
}

const (
	FallbackAdvice = "Failed to fetch AI strategies. Ensure you have a stable connection."
	FallbackConfig = "N/A"
)

// Fallback returns the fixed result used whenever the request path fails.
func Fallback() StrategyResult {
	return StrategyResult{
		Advice:            FallbackAdvice,
		RecommendedConfig: FallbackConfig,
		DangerLevel:       DangerMedium,
	}
}

// IsFallback reports whether r equals the fallback value.
func (r StrategyResult) IsFallback() bool {
	return r == Fallback()
}
