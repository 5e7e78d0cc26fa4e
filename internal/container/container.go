// Package container provides dependency injection for the maint-report
// application. It centralizes the creation and wiring of all application
// dependencies, making them explicit and testable.
package container

import (
	"fmt"

	"fjacquet/maint-report/internal/batch"
	"fjacquet/maint-report/internal/categorizer"
	"fjacquet/maint-report/internal/config"
	"fjacquet/maint-report/internal/logging"
	"fjacquet/maint-report/internal/report"
	"fjacquet/maint-report/internal/storage"
	"fjacquet/maint-report/internal/store"
	"fjacquet/maint-report/internal/textmodel"
	"fjacquet/maint-report/internal/workorders"
)

// Container holds all application dependencies and provides methods to access them.
// It is immutable after creation; dependencies are reached through getters.
type Container struct {
	logger      logging.Logger
	config      *config.Config
	store       *store.RuleStore
	categorizer *categorizer.Categorizer
	fallback    *categorizer.FallbackStrategy
	loader      *workorders.Loader
	aggregator  *batch.BatchAggregator
	reports     *report.ReportGenerator
}

// NewContainer creates and wires all application dependencies, logging
// through a logrus adapter configured from cfg.
func NewContainer(cfg *config.Config) (*Container, error) {
	if cfg == nil {
		return nil, fmt.Errorf("configuration cannot be nil")
	}
	return NewContainerWithLogger(cfg, logging.NewLogrusAdapter(cfg.Log.Level, cfg.Log.Format))
}

// NewContainerWithLogger is NewContainer with an explicit logger.
func NewContainerWithLogger(cfg *config.Config, logger logging.Logger) (*Container, error) {
	if cfg == nil {
		return nil, fmt.Errorf("configuration cannot be nil")
	}
	if logger == nil {
		return nil, fmt.Errorf("logger cannot be nil")
	}

	delimiter := cfg.Delimiter()

	ruleStore := store.NewRuleStore(cfg.Rules.File, cfg.Rules.Dictionary, delimiter, logger)

	// Rule table errors are configuration errors and surface before any
	// work order is classified.
	cat, err := categorizer.NewCategorizerFromStore(ruleStore, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create categorizer: %w", err)
	}

	c := &Container{
		logger:      logger,
		config:      cfg,
		store:       ruleStore,
		categorizer: cat,
		loader:      workorders.NewLoader(delimiter, logger),
		aggregator:  batch.NewBatchAggregator(logger),
		reports:     report.NewReportGenerator(logger, cfg.Report.TopN),
	}

	if cfg.Fallback.Enabled {
		fb, err := c.NewFallback(cfg.Fallback.ConfidenceThreshold)
		if err != nil {
			return nil, err
		}
		c.fallback = fb
		logger.Info("Fallback relabeling enabled",
			logging.Field{Key: logging.FieldConfidence, Value: cfg.Fallback.ConfidenceThreshold})
	}

	logger.Debug("Container initialized successfully",
		logging.Field{Key: "rule_version", Value: cat.Rules().Version},
		logging.Field{Key: "fallback_enabled", Value: cfg.Fallback.Enabled})

	return c, nil
}

// NewFallback builds a fallback strategy backed by a fresh naive Bayes
// model, using threshold instead of the configured one.
func (c *Container) NewFallback(threshold float64) (*categorizer.FallbackStrategy, error) {
	fb, err := categorizer.NewFallbackStrategy(
		textmodel.NewNaiveBayes(),
		threshold,
		c.config.Fallback.MinExamples,
		c.categorizer.Rules().CatchAll,
		c.logger,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create fallback strategy: %w", err)
	}
	return fb, nil
}

// FallbackFor returns the configured fallback strategy when it uses
// threshold, and a fresh one otherwise.
func (c *Container) FallbackFor(threshold float64) (*categorizer.FallbackStrategy, error) {
	if c.fallback != nil && c.fallback.Threshold() == threshold {
		return c.fallback, nil
	}
	return c.NewFallback(threshold)
}

// OpenExporter opens the SQLite export database at path, or at the
// configured storage.sqlite path when path is empty. The caller closes it.
func (c *Container) OpenExporter(path string) (*storage.SQLiteExporter, error) {
	if path == "" {
		path = c.config.Storage.SQLite
	}
	if path == "" {
		return nil, fmt.Errorf("no SQLite database path configured")
	}
	return storage.NewSQLiteExporter(path, c.logger)
}

// GetLogger returns the container's logger instance.
func (c *Container) GetLogger() logging.Logger {
	return c.logger
}

// GetConfig returns the container's configuration instance.
func (c *Container) GetConfig() *config.Config {
	return c.config
}

// GetStore returns the rule store.
func (c *Container) GetStore() *store.RuleStore {
	return c.store
}

// GetCategorizer returns the container's categorizer instance.
func (c *Container) GetCategorizer() *categorizer.Categorizer {
	return c.categorizer
}

// GetFallback returns the configured fallback strategy, or nil when the
// fallback is disabled.
func (c *Container) GetFallback() *categorizer.FallbackStrategy {
	return c.fallback
}

// GetLoader returns the work-order loader.
func (c *Container) GetLoader() *workorders.Loader {
	return c.loader
}

// GetAggregator returns the multi-export aggregator.
func (c *Container) GetAggregator() *batch.BatchAggregator {
	return c.aggregator
}

// GetReportGenerator returns the report generator.
func (c *Container) GetReportGenerator() *report.ReportGenerator {
	return c.reports
}
