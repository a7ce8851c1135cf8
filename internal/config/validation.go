package config

import (
	"fmt"
	"strings"
	"time"
)

// Lattice bounds mirrored from the instrument layer so a misconfigured
// default is rejected before any request reaches it.
const (
	minBinomialSteps = 1
	maxBinomialSteps = 10000
)

// ValidationErrors collects all configuration problems so the operator
// sees every mistake at once.
type ValidationErrors struct {
	Problems []string
}

// Add records a problem.
func (e *ValidationErrors) Add(format string, args ...any) {
	e.Problems = append(e.Problems, fmt.Sprintf(format, args...))
}

// HasErrors returns true if any validation errors exist.
func (e *ValidationErrors) HasErrors() bool {
	return len(e.Problems) > 0
}

// Error formats all validation errors into a clear message.
func (e *ValidationErrors) Error() string {
	var sb strings.Builder
	sb.WriteString("configuration validation failed:\n")
	for _, p := range e.Problems {
		sb.WriteString("  - " + p + "\n")
	}
	return sb.String()
}

func validateBinomialSteps(errs *ValidationErrors, steps int) {
	if steps < minBinomialSteps || steps > maxBinomialSteps {
		errs.Add("binomial steps must be between %d and %d, got %d", minBinomialSteps, maxBinomialSteps, steps)
	}
}

func validateServerLimits(errs *ValidationErrors, ratePerSecond, rateBurst int, streamInterval time.Duration) {
	if ratePerSecond < 1 {
		errs.Add("rate per second must be >= 1, got %d", ratePerSecond)
	}
	if rateBurst < ratePerSecond {
		errs.Add("rate burst must be >= rate per second, got burst=%d rate=%d", rateBurst, ratePerSecond)
	}
	if streamInterval < 100*time.Millisecond {
		errs.Add("stream interval must be >= 100ms, got %s", streamInterval)
	}
}
