package categorizer

import (
	"context"

	"fjacquet/maint-report/internal/logging"
	"fjacquet/maint-report/internal/rules"
)

// RuleStrategy scans the general rules in priority order. Rules that
// require the leak signal are skipped for descriptions without a leak
// marker. The catch-all rule is last in the table and therefore last here.
type RuleStrategy struct {
	rules  *rules.Compiled
	logger logging.Logger
}

// NewRuleStrategy creates a new RuleStrategy instance.
func NewRuleStrategy(compiled *rules.Compiled, logger logging.Logger) *RuleStrategy {
	if logger == nil {
		logger = logging.GetLogger()
	}
	return &RuleStrategy{rules: compiled, logger: logger}
}

// Name returns the name of this strategy for logging and debugging.
func (s *RuleStrategy) Name() string {
	return "Rule"
}

// Categorize returns the first general rule matching the description.
func (s *RuleStrategy) Categorize(_ context.Context, normalized string) (Match, bool, error) {
	if normalized == "" {
		return Match{}, false, nil
	}

	_, leaking := s.rules.LeakMarker(normalized)

	for _, r := range s.rules.GeneralRules() {
		if r.RequiresLeak && !leaking {
			continue
		}
		if src, ok := r.Match(normalized); ok {
			s.logger.WithFields(
				logging.Field{Key: logging.FieldStrategy, Value: s.Name()},
				logging.Field{Key: logging.FieldPattern, Value: src},
				logging.Field{Key: logging.FieldCategory, Value: r.Category},
			).Debug("Description categorized by rule")
			return Match{Category: r.Category, Rule: src, Confidence: 1}, true, nil
		}
	}

	return Match{}, false, nil
}
