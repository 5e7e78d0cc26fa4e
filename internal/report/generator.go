package report

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"fjacquet/maint-report/internal/batch"
	"fjacquet/maint-report/internal/logging"
	"fjacquet/maint-report/internal/models"

	"gopkg.in/yaml.v3"
)

// Supported output formats.
const (
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// Formats lists the supported output formats.
func Formats() []string {
	return []string{FormatJSON, FormatYAML}
}

// ReportGenerator builds reports and renders them in various formats.
type ReportGenerator struct {
	logger logging.Logger
	topN   int
	now    func() time.Time
}

// NewReportGenerator creates a new instance of ReportGenerator. A topN of
// zero or less uses DefaultTopN.
func NewReportGenerator(logger logging.Logger, topN int) *ReportGenerator {
	if logger == nil {
		logger = logging.GetLogger()
	}
	if topN <= 0 {
		topN = DefaultTopN
	}
	return &ReportGenerator{
		logger: logger.WithField("component", "ReportGenerator"),
		topN:   topN,
		now:    time.Now,
	}
}

// TopN returns the size of the top-N tables.
func (g *ReportGenerator) TopN() int {
	return g.topN
}

// Build aggregates classified work orders. An empty dataset yields an empty
// report and an informational log entry.
func (g *ReportGenerator) Build(orders []models.WorkOrder, stats models.ClassificationStats) *Report {
	r := &Report{
		GeneratedAt:      g.now().UTC().Truncate(time.Second),
		TotalOrders:      len(orders),
		Classification:   stats,
		Causes:           []Count{},
		TopFleetsByCount: []Count{},
		TopFleetsByDwell: []FleetDwell{},
		DwellPareto:      []ParetoEntry{},
		MonthlyTrend:     []MonthCount{},
		Components:       []Count{},
		Unmatched:        []Count{},
	}

	if len(orders) == 0 {
		g.logger.Info("No work orders match the selected filters, report is empty")
		return r
	}

	r.Period = batch.DateRangeOf(orders)
	r.Causes = CauseCounts(orders)
	r.TopFleetsByCount = TopFleetsByCount(orders, g.topN)
	r.TopFleetsByDwell = TopFleetsByDwell(orders, g.topN)
	r.DwellPareto = DwellPareto(orders)
	r.MonthlyTrend = MonthlyTrend(orders)
	r.Components = ComponentCounts(orders)
	r.Unmatched = UnmatchedDescriptions(orders)

	if len(r.Causes) == 0 {
		g.logger.Info("No maintenance causes in the selected work orders")
	}
	if len(r.DwellPareto) == 0 {
		g.logger.Info("No dwell time recorded for the selected work orders")
	}

	g.logger.Debug("Report built",
		logging.Field{Key: logging.FieldCount, Value: r.TotalOrders},
		logging.Field{Key: "unmatched_descriptions", Value: len(r.Unmatched)})
	return r
}

// GenerateReport renders a report in the specified format (json or yaml).
func (g *ReportGenerator) GenerateReport(report *Report, format string) ([]byte, error) {
	switch strings.ToLower(format) {
	case FormatJSON:
		return g.generateJSONReport(report)
	case FormatYAML:
		return g.generateYAMLReport(report)
	default:
		return nil, fmt.Errorf("unsupported report format: %s", format)
	}
}

func (g *ReportGenerator) generateJSONReport(report *Report) ([]byte, error) {
	out, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		g.logger.WithError(err).Error("Failed to marshal JSON report")
		return nil, fmt.Errorf("failed to marshal JSON report: %w", err)
	}
	return append(out, '\n'), nil
}

func (g *ReportGenerator) generateYAMLReport(report *Report) ([]byte, error) {
	out, err := yaml.Marshal(report)
	if err != nil {
		g.logger.WithError(err).Error("Failed to marshal YAML report")
		return nil, fmt.Errorf("failed to marshal YAML report: %w", err)
	}
	return out, nil
}
