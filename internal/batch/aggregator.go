// Package batch consolidates several work-order exports (field, internal and
// third-party workshops) into one dataset.
package batch

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"fjacquet/maint-report/internal/logging"
	"fjacquet/maint-report/internal/models"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// DateRange represents a date range with start and end dates
type DateRange struct {
	Start time.Time `json:"start" yaml:"start"`
	End   time.Time `json:"end" yaml:"end"`
}

// String returns the date range in the format "YYYY-MM-DD_YYYY-MM-DD"
func (dr DateRange) String() string {
	if dr.Start.IsZero() || dr.End.IsZero() {
		return ""
	}
	return fmt.Sprintf("%s_%s",
		dr.Start.Format("2006-01-02"),
		dr.End.Format("2006-01-02"))
}

// IsZero reports whether neither bound is set.
func (dr DateRange) IsZero() bool {
	return dr.Start.IsZero() && dr.End.IsZero()
}

// Merge combines this date range with another, returning the overall range
func (dr DateRange) Merge(other DateRange) DateRange {
	start := dr.Start
	end := dr.End

	if dr.Start.IsZero() {
		start = other.Start
	} else if !other.Start.IsZero() && other.Start.Before(start) {
		start = other.Start
	}

	if dr.End.IsZero() {
		end = other.End
	} else if !other.End.IsZero() && other.End.After(end) {
		end = other.End
	}

	return DateRange{Start: start, End: end}
}

// DateRangeOf returns the span of the parsed entry dates of orders.
func DateRangeOf(orders []models.WorkOrder) DateRange {
	var dr DateRange
	for _, o := range orders {
		if o.HasEntry() {
			dr = dr.Merge(DateRange{Start: o.Entrada, End: o.Entrada})
		}
	}
	return dr
}

// LoadFunc reads one export file.
type LoadFunc func(path string) ([]models.WorkOrder, error)

// Result is a consolidated dataset and the files it came from.
type Result struct {
	Orders      []models.WorkOrder
	SourceFiles []string
	FailedFiles []string
	DateRange   DateRange
	Duplicates  int
}

// BatchAggregator merges work-order exports.
type BatchAggregator struct {
	logger logging.Logger
}

// NewBatchAggregator creates a new BatchAggregator instance
func NewBatchAggregator(logger logging.Logger) *BatchAggregator {
	if logger == nil {
		logger = logging.GetLogger()
	}
	return &BatchAggregator{
		logger: logger,
	}
}

// OriginFromFilename derives an origin label from a file name, e.g.
// "os_terceiros.csv" gives "Terceiros" and "campo-2024.csv" gives "Campo".
func OriginFromFilename(path string) string {
	base := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	parts := strings.FieldsFunc(base, func(r rune) bool {
		return r == '_' || r == '-' || r == ' ' || r == '.'
	})

	var words []string
	for _, p := range parts {
		if strings.EqualFold(p, "os") || isDigits(p) {
			continue
		}
		words = append(words, p)
	}
	if len(words) == 0 {
		return ""
	}
	return cases.Title(language.BrazilianPortuguese).String(strings.ToLower(strings.Join(words, " ")))
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return s != ""
}

// Consolidate loads every file with load and merges the work orders. Rows
// without an origin take the origin derived from their file name. Files that
// fail to load are skipped and reported; it is an error only when every file
// fails. Work orders are sorted chronologically, undated ones last.
func (ba *BatchAggregator) Consolidate(files []string, load LoadFunc) (Result, error) {
	var result Result

	for _, file := range files {
		orders, err := load(file)
		if err != nil {
			ba.logger.WithError(err).Error("Failed to load work orders file",
				logging.Field{Key: logging.FieldFile, Value: file})
			result.FailedFiles = append(result.FailedFiles, file)
			continue
		}

		origin := OriginFromFilename(file)
		for i := range orders {
			if orders[i].Origem == "" {
				orders[i].Origem = origin
			}
		}

		ba.logger.Debug("Loaded work orders from file",
			logging.Field{Key: logging.FieldCount, Value: len(orders)},
			logging.Field{Key: logging.FieldFile, Value: filepath.Base(file)})

		result.Orders = append(result.Orders, orders...)
		result.SourceFiles = append(result.SourceFiles, filepath.Base(file))
	}

	if len(files) > 0 && len(result.SourceFiles) == 0 {
		return result, fmt.Errorf("none of the %d work orders files could be loaded", len(files))
	}
	if result.Orders == nil {
		result.Orders = []models.WorkOrder{}
	}

	ba.sortChronologically(result.Orders)
	result.Duplicates = ba.detectAndLogDuplicates(result.Orders)
	result.DateRange = DateRangeOf(result.Orders)

	ba.logger.Info("Consolidated work orders",
		logging.Field{Key: "total_work_orders", Value: len(result.Orders)},
		logging.Field{Key: "source_files", Value: strings.Join(result.SourceFiles, ", ")},
		logging.Field{Key: "period", Value: result.DateRange.String()})

	return result, nil
}

// sortChronologically sorts by entry date, then origin and work-order id.
func (ba *BatchAggregator) sortChronologically(orders []models.WorkOrder) {
	sort.SliceStable(orders, func(i, j int) bool {
		a, b := orders[i], orders[j]
		if a.HasEntry() != b.HasEntry() {
			return a.HasEntry()
		}
		if !a.Entrada.Equal(b.Entrada) {
			return a.Entrada.Before(b.Entrada)
		}
		if a.Origem != b.Origem {
			return a.Origem < b.Origem
		}
		return a.Boletim < b.Boletim
	})
}

// detectAndLogDuplicates counts work orders sharing origin and id with an
// earlier one. Duplicates are kept.
func (ba *BatchAggregator) detectAndLogDuplicates(orders []models.WorkOrder) int {
	seen := make(map[string]bool, len(orders))
	duplicates := 0

	for _, o := range orders {
		if strings.TrimSpace(o.Boletim) == "" {
			continue
		}
		key := strings.ToLower(o.Origem) + "\x00" + strings.TrimSpace(o.Boletim)
		if seen[key] {
			duplicates++
			ba.logger.Debug("Potential duplicate work order",
				logging.Field{Key: logging.FieldWorkOrder, Value: o.Boletim},
				logging.Field{Key: "origin", Value: o.Origem})
			continue
		}
		seen[key] = true
	}

	if duplicates > 0 {
		ba.logger.Warn("Found potential duplicate work orders",
			logging.Field{Key: logging.FieldCount, Value: duplicates})
	}
	return duplicates
}
