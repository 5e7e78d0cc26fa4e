package categorizer

import (
	"context"
)

// Match is a category found by a strategy, with the keyword or pattern
// that produced it.
type Match struct {
	Category   string
	Rule       string
	Confidence float64
}

// ClassificationStrategy defines one stage of description classification.
// Stages run in order and the first one that finds a category wins.
type ClassificationStrategy interface {
	// Categorize inspects a normalized description. It returns the match and
	// whether the strategy found a category.
	Categorize(ctx context.Context, normalized string) (Match, bool, error)

	// Name returns the name of this strategy for logging and debugging purposes.
	Name() string
}
