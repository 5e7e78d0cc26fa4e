package categorizer

import (
	"fmt"
	"strings"
)

// StrategyResult represents the outcome of one strategy attempt.
type StrategyResult struct {
	Strategy   string
	Category   string
	Rule       string
	Found      bool
	Error      error
	Confidence float64
}

// StrategyResults is the trace of a classification: the normalized text,
// the leak marker if any, and every strategy attempt in order.
type StrategyResults struct {
	Description string
	Normalized  string
	LeakMarker  string
	Results     []StrategyResult
}

// GetBestResult returns the first successful result.
func (sr StrategyResults) GetBestResult() (StrategyResult, bool) {
	for _, r := range sr.Results {
		if r.Found && r.Error == nil {
			return r, true
		}
	}
	return StrategyResult{}, false
}

// GetErrors returns all errors encountered during strategy execution
func (sr StrategyResults) GetErrors() []error {
	var errs []error
	for _, result := range sr.Results {
		if result.Error != nil {
			errs = append(errs, fmt.Errorf("%s strategy: %w", result.Strategy, result.Error))
		}
	}
	return errs
}

// Summary returns a human-readable summary of all strategy attempts
func (sr StrategyResults) Summary() string {
	var parts []string
	for _, result := range sr.Results {
		status := "failed"
		if result.Found {
			status = "success"
		} else if result.Error == nil {
			status = "no_match"
		}
		parts = append(parts, fmt.Sprintf("%s:%s", result.Strategy, status))
	}
	return strings.Join(parts, ", ")
}
