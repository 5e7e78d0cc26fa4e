package workorders

import (
	"sort"
	"strings"
	"time"

	"fjacquet/maint-report/internal/dateutils"
	"fjacquet/maint-report/internal/models"
)

// Filter selects work orders by origin, entry date range and class code.
// Zero-valued fields do not filter.
type Filter struct {
	Origin  string
	From    time.Time
	To      time.Time
	Classes []string
}

// IsEmpty reports whether the filter accepts every work order.
func (f Filter) IsEmpty() bool {
	return strings.TrimSpace(f.Origin) == "" && f.From.IsZero() && f.To.IsZero() && len(f.classSet()) == 0
}

// Match reports whether o passes the filter. Work orders without a parsed
// entry date fail any date bound. The To bound includes its whole day.
func (f Filter) Match(o models.WorkOrder) bool {
	if origin := strings.TrimSpace(f.Origin); origin != "" && !strings.EqualFold(origin, o.Origem) {
		return false
	}

	if !f.From.IsZero() || !f.To.IsZero() {
		if !o.HasEntry() {
			return false
		}
		if !f.From.IsZero() && o.Entrada.Before(dateutils.StartOfDay(f.From)) {
			return false
		}
		if !f.To.IsZero() && o.Entrada.After(dateutils.EndOfDay(f.To)) {
			return false
		}
	}

	if classes := f.classSet(); len(classes) > 0 {
		if !classes[strings.ToLower(strings.TrimSpace(o.Classe))] {
			return false
		}
	}

	return true
}

// Apply returns the work orders passing the filter, in input order.
func (f Filter) Apply(orders []models.WorkOrder) []models.WorkOrder {
	out := make([]models.WorkOrder, 0, len(orders))
	for _, o := range orders {
		if f.Match(o) {
			out = append(out, o)
		}
	}
	return out
}

func (f Filter) classSet() map[string]bool {
	set := make(map[string]bool, len(f.Classes))
	for _, c := range f.Classes {
		if c = strings.ToLower(strings.TrimSpace(c)); c != "" {
			set[c] = true
		}
	}
	return set
}

// Origins returns the distinct non-empty origins in sorted order.
func Origins(orders []models.WorkOrder) []string {
	seen := make(map[string]bool)
	var out []string
	for _, o := range orders {
		if o.Origem != "" && !seen[o.Origem] {
			seen[o.Origem] = true
			out = append(out, o.Origem)
		}
	}
	sort.Strings(out)
	return out
}
