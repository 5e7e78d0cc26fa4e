// Package categorizer assigns a failure-component category to free-text
// maintenance descriptions. Classification runs an ordered list of
// strategies over the normalized description:
//  1. Leak disambiguation (hydraulic, oil, fuel) when a leak marker is present
//  2. The general rule scan in priority order, ending with the catch-all
//
// Descriptions no strategy recognizes get the Não Classificado sentinel. An
// optional statistical fallback can relabel those afterwards.
package categorizer

import (
	"context"
	"fmt"

	"fjacquet/maint-report/internal/logging"
	"fjacquet/maint-report/internal/models"
	"fjacquet/maint-report/internal/rules"
	"fjacquet/maint-report/internal/textutils"
)

// ctxCheckInterval is how many work orders ClassifyAll processes between
// context cancellation checks.
const ctxCheckInterval = 512

// Categorizer classifies descriptions against a compiled rule table. It holds
// no mutable state and is safe for concurrent use.
type Categorizer struct {
	rules      *rules.Compiled
	strategies []ClassificationStrategy
	logger     logging.Logger
}

// NewCategorizer creates a categorizer over a compiled rule table.
func NewCategorizer(compiled *rules.Compiled, logger logging.Logger) *Categorizer {
	if logger == nil {
		logger = logging.GetLogger()
	}

	return &Categorizer{
		rules: compiled,
		strategies: []ClassificationStrategy{
			NewLeakStrategy(compiled, logger),
			NewRuleStrategy(compiled, logger),
		},
		logger: logger,
	}
}

// NewCategorizerFromStore loads the rule table and the optional external
// dictionary from store, merges them and compiles the result. Invalid
// patterns are reported here, before any classification.
func NewCategorizerFromStore(store RuleStoreInterface, logger logging.Logger) (*Categorizer, error) {
	if logger == nil {
		logger = logging.GetLogger()
	}

	table, err := store.LoadRuleTable()
	if err != nil {
		return nil, fmt.Errorf("failed to load rule table: %w", err)
	}

	entries, err := store.LoadDictionary()
	if err != nil {
		return nil, fmt.Errorf("failed to load dictionary: %w", err)
	}
	if len(entries) > 0 {
		table = table.Merge(entries)
		logger.WithFields(
			logging.Field{Key: logging.FieldCount, Value: len(entries)},
		).Debug("Merged external dictionary into rule table")
	}

	compiled, err := rules.Compile(table)
	if err != nil {
		return nil, fmt.Errorf("failed to compile rule table: %w", err)
	}

	logger.WithFields(
		logging.Field{Key: "version", Value: compiled.Version},
		logging.Field{Key: logging.FieldCount, Value: len(compiled.Categories())},
	).Debug("Rule table ready")

	return NewCategorizer(compiled, logger), nil
}

// Rules returns the compiled rule table in use.
func (c *Categorizer) Rules() *rules.Compiled {
	return c.rules
}

// Classify returns the category of description. It never fails: empty or
// unrecognized text yields models.CategoryUnclassified.
func (c *Categorizer) Classify(description string) models.Classification {
	normalized := textutils.Normalize(description)
	if normalized == "" {
		return models.Unclassified(description)
	}

	ctx := context.Background()
	for _, strategy := range c.strategies {
		match, found, err := strategy.Categorize(ctx, normalized)
		if err != nil {
			c.logger.WithError(err).WithField(logging.FieldStrategy, strategy.Name()).
				Warn("Strategy failed, trying next")
			continue
		}
		if found {
			return models.Classification{
				Description: description,
				Category:    match.Category,
				Method:      models.MethodRule,
				Rule:        match.Rule,
				Confidence:  match.Confidence,
			}
		}
	}

	return models.Unclassified(description)
}

// Explain runs every strategy on description and records each outcome.
// The winning result is the first successful one, as in Classify.
func (c *Categorizer) Explain(description string) StrategyResults {
	normalized := textutils.Normalize(description)
	results := StrategyResults{
		Description: description,
		Normalized:  normalized,
	}
	if normalized == "" {
		return results
	}

	results.LeakMarker, _ = c.rules.LeakMarker(normalized)

	ctx := context.Background()
	for _, strategy := range c.strategies {
		match, found, err := strategy.Categorize(ctx, normalized)
		results.Results = append(results.Results, StrategyResult{
			Strategy:   strategy.Name(),
			Category:   match.Category,
			Rule:       match.Rule,
			Found:      found,
			Error:      err,
			Confidence: match.Confidence,
		})
	}

	return results
}

// Progress receives the number of work orders classified since the last
// call. *progressbar.ProgressBar satisfies it.
type Progress interface {
	Add(n int) error
}

// ClassifyAll classifies every work order in place, filling the component
// and method columns, and returns the per-method counts.
func (c *Categorizer) ClassifyAll(ctx context.Context, orders []models.WorkOrder) (models.ClassificationStats, error) {
	return c.ClassifyAllWithProgress(ctx, orders, nil)
}

// ClassifyAllWithProgress is ClassifyAll reporting to progress, which may be
// nil. Progress errors are logged and otherwise ignored.
func (c *Categorizer) ClassifyAllWithProgress(ctx context.Context, orders []models.WorkOrder, progress Progress) (models.ClassificationStats, error) {
	var stats models.ClassificationStats
	pending := 0

	report := func() {
		if progress == nil || pending == 0 {
			return
		}
		if err := progress.Add(pending); err != nil {
			c.logger.WithError(err).Debug("Failed to update progress")
		}
		pending = 0
	}

	for i := range orders {
		if i%ctxCheckInterval == 0 {
			report()
			if err := ctx.Err(); err != nil {
				return stats, fmt.Errorf("classification interrupted after %d work orders: %w", i, err)
			}
		}

		result := c.Classify(orders[i].Descricao)
		orders[i].Componente = result.Category
		orders[i].MetodoClass = result.Method
		stats.Record(result)
		pending++
	}
	report()

	return stats, nil
}
