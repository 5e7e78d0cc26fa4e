package report

import (
	"sort"
	"strings"

	"fjacquet/maint-report/internal/models"

	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// countBy counts the non-empty keys of orders, most frequent first. Ties are
// broken alphabetically.
func countBy(orders []models.WorkOrder, key func(models.WorkOrder) string) []Count {
	counts := make(map[string]int)
	for _, o := range orders {
		k := strings.TrimSpace(key(o))
		if k == "" {
			continue
		}
		counts[k]++
	}

	result := make([]Count, 0, len(counts))
	for label, n := range counts {
		result = append(result, Count{Label: label, Count: n})
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].Count != result[j].Count {
			return result[i].Count > result[j].Count
		}
		return result[i].Label < result[j].Label
	})
	return result
}

func limit[T any](rows []T, n int) []T {
	if n > 0 && len(rows) > n {
		return rows[:n]
	}
	return rows
}

// CauseCounts counts work orders per maintenance cause.
func CauseCounts(orders []models.WorkOrder) []Count {
	return countBy(orders, func(o models.WorkOrder) string { return o.Causa })
}

// ComponentCounts counts work orders per detected component.
func ComponentCounts(orders []models.WorkOrder) []Count {
	return countBy(orders, func(o models.WorkOrder) string { return o.Componente })
}

// TopFleetsByCount returns the n fleets with the most work orders.
func TopFleetsByCount(orders []models.WorkOrder, n int) []Count {
	return limit(countBy(orders, func(o models.WorkOrder) string { return o.Frota }), n)
}

// TopFleetsByDwell returns the n fleets with the highest total dwell hours.
func TopFleetsByDwell(orders []models.WorkOrder, n int) []FleetDwell {
	totals := make(map[string]*FleetDwell)
	for _, o := range orders {
		fleet := strings.TrimSpace(o.Frota)
		if fleet == "" {
			continue
		}
		fd, ok := totals[fleet]
		if !ok {
			fd = &FleetDwell{Fleet: fleet, Hours: decimal.Zero}
			totals[fleet] = fd
		}
		fd.Hours = fd.Hours.Add(o.DwellHours)
		fd.Orders++
	}

	result := make([]FleetDwell, 0, len(totals))
	for _, fd := range totals {
		fd.Hours = fd.Hours.Round(2)
		result = append(result, *fd)
	}
	sort.Slice(result, func(i, j int) bool {
		if c := result[i].Hours.Cmp(result[j].Hours); c != 0 {
			return c > 0
		}
		return result[i].Fleet < result[j].Fleet
	})
	return limit(result, n)
}

// DwellPareto sums dwell hours per cause, largest first, with each cause's
// share and the running cumulative share. Causes without positive dwell time
// are left out.
func DwellPareto(orders []models.WorkOrder) []ParetoEntry {
	totals := make(map[string]decimal.Decimal)
	for _, o := range orders {
		cause := strings.TrimSpace(o.Causa)
		if cause == "" {
			continue
		}
		totals[cause] = totals[cause].Add(o.DwellHours)
	}

	grand := decimal.Zero
	result := make([]ParetoEntry, 0, len(totals))
	for cause, hours := range totals {
		if !hours.IsPositive() {
			continue
		}
		grand = grand.Add(hours)
		result = append(result, ParetoEntry{Cause: cause, Hours: hours})
	}
	if grand.IsZero() {
		return []ParetoEntry{}
	}

	sort.Slice(result, func(i, j int) bool {
		if c := result[i].Hours.Cmp(result[j].Hours); c != 0 {
			return c > 0
		}
		return result[i].Cause < result[j].Cause
	})

	running := decimal.Zero
	for i := range result {
		running = running.Add(result[i].Hours)
		result[i].Share = result[i].Hours.Div(grand).Mul(hundred).Round(2)
		result[i].CumulativeShare = running.Div(grand).Mul(hundred).Round(2)
		result[i].Hours = result[i].Hours.Round(2)
	}
	return result
}

// MonthlyTrend counts work orders per entry month in chronological order.
// Orders without a parsed entry date are not counted.
func MonthlyTrend(orders []models.WorkOrder) []MonthCount {
	counts := make(map[string]int)
	for _, o := range orders {
		if o.MonthBucket == "" {
			continue
		}
		counts[o.MonthBucket]++
	}

	result := make([]MonthCount, 0, len(counts))
	for month, n := range counts {
		result = append(result, MonthCount{Month: month, Orders: n})
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Month < result[j].Month })
	return result
}

// UnmatchedDescriptions lists the distinct descriptions left unclassified,
// most frequent first, for rule-table curation.
func UnmatchedDescriptions(orders []models.WorkOrder) []Count {
	return countBy(orders, func(o models.WorkOrder) string {
		if o.Componente != models.CategoryUnclassified {
			return ""
		}
		return o.Descricao
	})
}
