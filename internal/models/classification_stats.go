package models

import (
	"fjacquet/maint-report/internal/logging"
)

// ClassificationStats tracks how work orders were classified in one pass.
type ClassificationStats struct {
	Total        int `json:"total" yaml:"total"`               // Total number of work orders processed
	ByRule       int `json:"by_rule" yaml:"by_rule"`           // Classified by the rule table
	ByFallback   int `json:"by_fallback" yaml:"by_fallback"`   // Relabeled by the statistical fallback
	Unclassified int `json:"unclassified" yaml:"unclassified"` // Left as Não Classificado
}

// Record counts one classification result.
func (cs *ClassificationStats) Record(c Classification) {
	cs.Total++
	switch c.Method {
	case MethodRule:
		cs.ByRule++
	case MethodFallback:
		cs.ByFallback++
	default:
		cs.Unclassified++
	}
}

// Relabeled moves n results from unclassified to fallback.
func (cs *ClassificationStats) Relabeled(n int) {
	if n > cs.Unclassified {
		n = cs.Unclassified
	}
	cs.Unclassified -= n
	cs.ByFallback += n
}

// CoverageRate returns the classified share as a percentage.
func (cs ClassificationStats) CoverageRate() float64 {
	if cs.Total == 0 {
		return 0.0
	}
	return float64(cs.ByRule+cs.ByFallback) / float64(cs.Total) * 100.0
}

// LogSummary logs a summary of classification statistics
func (cs ClassificationStats) LogSummary(logger logging.Logger, source string) {
	if logger == nil {
		return
	}

	logger.Info("Classification summary",
		logging.Field{Key: "source", Value: source},
		logging.Field{Key: "total_work_orders", Value: cs.Total},
		logging.Field{Key: "by_rule", Value: cs.ByRule},
		logging.Field{Key: "by_fallback", Value: cs.ByFallback},
		logging.Field{Key: "unclassified", Value: cs.Unclassified},
		logging.Field{Key: "coverage_rate", Value: cs.CoverageRate()},
	)
}
