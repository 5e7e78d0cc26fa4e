package categorizer

import (
	"context"
	"fmt"

	"fjacquet/maint-report/internal/logging"
	"fjacquet/maint-report/internal/models"
	"fjacquet/maint-report/internal/textutils"
)

// TextModel is a text classifier trained on labelled descriptions.
type TextModel interface {
	// Fit trains the model; docs and labels are parallel slices.
	Fit(ctx context.Context, docs []string, labels []string) error
	// Predict returns the most probable label for doc and its probability.
	Predict(doc string) (string, float64)
}

// DefaultConfidenceThreshold is the minimum probability for a fallback label.
const DefaultConfidenceThreshold = 0.7

// FallbackStrategy relabels unclassified work orders with a text model
// trained on the rule-classified ones of the same dataset.
type FallbackStrategy struct {
	model       TextModel
	threshold   float64
	minExamples int
	catchAll    string
	logger      logging.Logger
}

// NewFallbackStrategy creates a fallback over model. threshold must lie in
// [0, 1]. Rows labelled with catchAll are not used for training.
func NewFallbackStrategy(model TextModel, threshold float64, minExamples int, catchAll string, logger logging.Logger) (*FallbackStrategy, error) {
	if model == nil {
		return nil, fmt.Errorf("fallback model cannot be nil")
	}
	if threshold < 0 || threshold > 1 {
		return nil, fmt.Errorf("confidence threshold must be between 0 and 1, got %v", threshold)
	}
	if minExamples < 0 {
		return nil, fmt.Errorf("minimum training examples cannot be negative, got %d", minExamples)
	}
	if logger == nil {
		logger = logging.GetLogger()
	}

	return &FallbackStrategy{
		model:       model,
		threshold:   threshold,
		minExamples: minExamples,
		catchAll:    catchAll,
		logger:      logger,
	}, nil
}

// Name returns the name of this strategy for logging and debugging.
func (f *FallbackStrategy) Name() string {
	return "Fallback"
}

// Threshold returns the minimum accepted prediction probability.
func (f *FallbackStrategy) Threshold() float64 {
	return f.threshold
}

// Relabel trains the model on rule-classified work orders, excluding the
// catch-all, and assigns its prediction to each unclassified work order
// whose probability reaches the threshold. It returns the number of
// relabeled rows. With fewer than two distinct training labels it does
// nothing. Call it once per dataset, after ClassifyAll.
func (f *FallbackStrategy) Relabel(ctx context.Context, orders []models.WorkOrder) (int, error) {
	var docs, labels []string
	distinct := make(map[string]struct{})
	pending := 0

	for _, o := range orders {
		if o.Componente == models.CategoryUnclassified {
			pending++
			continue
		}
		if o.MetodoClass != models.MethodRule || o.Componente == f.catchAll {
			continue
		}
		if textutils.Normalize(o.Descricao) == "" {
			continue
		}
		docs = append(docs, o.Descricao)
		labels = append(labels, o.Componente)
		distinct[o.Componente] = struct{}{}
	}

	if pending == 0 {
		f.logger.Debug("No unclassified work orders, skipping fallback")
		return 0, nil
	}

	if len(distinct) < 2 {
		f.logger.WithFields(
			logging.Field{Key: "labels", Value: len(distinct)},
		).Info("Not enough distinct categories to train fallback model, skipping")
		return 0, nil
	}

	if len(docs) < f.minExamples {
		f.logger.WithFields(
			logging.Field{Key: "examples", Value: len(docs)},
			logging.Field{Key: "min_examples", Value: f.minExamples},
		).Info("Not enough training examples for fallback model, skipping")
		return 0, nil
	}

	if err := f.model.Fit(ctx, docs, labels); err != nil {
		return 0, fmt.Errorf("failed to train fallback model: %w", err)
	}

	relabeled := 0
	for i := range orders {
		if orders[i].Componente != models.CategoryUnclassified {
			continue
		}
		if textutils.Normalize(orders[i].Descricao) == "" {
			continue
		}

		label, prob := f.model.Predict(orders[i].Descricao)
		if label == "" || prob < f.threshold {
			continue
		}

		orders[i].Componente = label
		orders[i].MetodoClass = models.MethodFallback
		relabeled++

		f.logger.WithFields(
			logging.Field{Key: logging.FieldStrategy, Value: f.Name()},
			logging.Field{Key: logging.FieldWorkOrder, Value: orders[i].Boletim},
			logging.Field{Key: logging.FieldCategory, Value: label},
			logging.Field{Key: logging.FieldConfidence, Value: prob},
		).Debug("Work order relabeled by fallback model")
	}

	f.logger.WithFields(
		logging.Field{Key: "training_examples", Value: len(docs)},
		logging.Field{Key: "unclassified", Value: pending},
		logging.Field{Key: "relabeled", Value: relabeled},
		logging.Field{Key: "threshold", Value: f.threshold},
	).Info("Fallback relabeling complete")

	return relabeled, nil
}
