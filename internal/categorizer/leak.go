package categorizer

import (
	"context"

	"fjacquet/maint-report/internal/logging"
	"fjacquet/maint-report/internal/rules"
)

// LeakStrategy resolves which fluid is leaking. It only applies when the
// description carries a leak marker, and evaluates the fluid rules in table
// order so that hydraulic wins over oil and oil over fuel.
type LeakStrategy struct {
	rules  *rules.Compiled
	logger logging.Logger
}

// NewLeakStrategy creates a new LeakStrategy instance.
func NewLeakStrategy(compiled *rules.Compiled, logger logging.Logger) *LeakStrategy {
	if logger == nil {
		logger = logging.GetLogger()
	}
	return &LeakStrategy{rules: compiled, logger: logger}
}

// Name returns the name of this strategy for logging and debugging.
func (s *LeakStrategy) Name() string {
	return "Leak"
}

// Categorize returns the first fluid rule matching a leaking description.
func (s *LeakStrategy) Categorize(_ context.Context, normalized string) (Match, bool, error) {
	if normalized == "" {
		return Match{}, false, nil
	}

	marker, leaking := s.rules.LeakMarker(normalized)
	if !leaking {
		return Match{}, false, nil
	}

	for _, r := range s.rules.LeakRules() {
		if src, ok := r.Match(normalized); ok {
			s.logger.WithFields(
				logging.Field{Key: logging.FieldStrategy, Value: s.Name()},
				logging.Field{Key: "leak_marker", Value: marker},
				logging.Field{Key: logging.FieldPattern, Value: src},
				logging.Field{Key: logging.FieldCategory, Value: r.Category},
			).Debug("Description categorized as fluid leak")
			return Match{Category: r.Category, Rule: src, Confidence: 1}, true, nil
		}
	}

	return Match{}, false, nil
}
