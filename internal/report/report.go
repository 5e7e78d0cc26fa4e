// Package report aggregates classified work orders into the tables the
// maintenance dashboard charts.
package report

import (
	"time"

	"fjacquet/maint-report/internal/batch"
	"fjacquet/maint-report/internal/models"

	"github.com/shopspring/decimal"
)

// DefaultTopN is the number of fleets listed in the top-N tables.
const DefaultTopN = 15

// Count is one row of a frequency table.
type Count struct {
	Label string `json:"label" yaml:"label"`
	Count int    `json:"count" yaml:"count"`
}

// FleetDwell is the total dwell time of one fleet.
type FleetDwell struct {
	Fleet  string          `json:"fleet" yaml:"fleet"`
	Hours  decimal.Decimal `json:"hours" yaml:"hours"`
	Orders int             `json:"orders" yaml:"orders"`
}

// ParetoEntry is one cause in the dwell-time Pareto table. Shares are
// percentages of the total dwell time.
type ParetoEntry struct {
	Cause           string          `json:"cause" yaml:"cause"`
	Hours           decimal.Decimal `json:"hours" yaml:"hours"`
	Share           decimal.Decimal `json:"share" yaml:"share"`
	CumulativeShare decimal.Decimal `json:"cumulative_share" yaml:"cumulative_share"`
}

// MonthCount is the number of work orders entered in one month.
type MonthCount struct {
	Month  string `json:"month" yaml:"month"`
	Orders int    `json:"orders" yaml:"orders"`
}

// Report is the full set of aggregations over one filtered dataset.
type Report struct {
	GeneratedAt    time.Time                  `json:"generated_at" yaml:"generated_at"`
	Sources        []string                   `json:"sources,omitempty" yaml:"sources,omitempty"`
	Period         batch.DateRange            `json:"period" yaml:"period"`
	TotalOrders    int                        `json:"total_orders" yaml:"total_orders"`
	Classification models.ClassificationStats `json:"classification" yaml:"classification"`

	Causes           []Count       `json:"causes" yaml:"causes"`
	TopFleetsByCount []Count       `json:"top_fleets_by_count" yaml:"top_fleets_by_count"`
	TopFleetsByDwell []FleetDwell  `json:"top_fleets_by_dwell" yaml:"top_fleets_by_dwell"`
	DwellPareto      []ParetoEntry `json:"dwell_pareto" yaml:"dwell_pareto"`
	MonthlyTrend     []MonthCount  `json:"monthly_trend" yaml:"monthly_trend"`
	Components       []Count       `json:"components" yaml:"components"`
	Unmatched        []Count       `json:"unmatched" yaml:"unmatched"`
}

// IsEmpty reports whether the report covers no work orders.
func (r *Report) IsEmpty() bool {
	return r == nil || r.TotalOrders == 0
}

// UnmatchedRow is one line of the unmatched-descriptions CSV.
type UnmatchedRow struct {
	Description string `csv:"Descrição"`
	Count       int    `csv:"Ocorrências"`
}

// UnmatchedRows returns the unmatched descriptions as CSV rows.
func (r *Report) UnmatchedRows() []UnmatchedRow {
	rows := make([]UnmatchedRow, 0, len(r.Unmatched))
	for _, u := range r.Unmatched {
		rows = append(rows, UnmatchedRow{Description: u.Label, Count: u.Count})
	}
	return rows
}
