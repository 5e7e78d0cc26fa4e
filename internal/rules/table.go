// Package rules holds the ordered component rule table: the category catalog,
// the match predicates of each category and the leak markers that gate the
// fluid-specific leak categories.
//
// Keywords match whole words only: "ac" matches "ac nao gela" but not
// "acabamento". Older tables that relied on substring containment need a
// regex pattern instead.
package rules

import (
	"fmt"
	"strings"

	"fjacquet/maint-report/internal/parsererror"
	"fjacquet/maint-report/internal/textutils"
)

// RegexPrefix marks a dictionary pattern as a regular expression. Patterns
// without it are literal keywords.
const RegexPrefix = "re:"

// Predicates is a set of alternatives; it matches when any member matches.
type Predicates struct {
	// Keywords are literals matched on word boundaries after normalization.
	Keywords []string `yaml:"keywords,omitempty"`
	// Patterns are regular expressions evaluated against normalized text.
	Patterns []string `yaml:"patterns,omitempty"`
}

// Empty reports whether the set has no alternatives at all.
func (p Predicates) Empty() bool {
	return len(p.Keywords) == 0 && len(p.Patterns) == 0
}

func (p Predicates) clone() Predicates {
	return Predicates{
		Keywords: append([]string(nil), p.Keywords...),
		Patterns: append([]string(nil), p.Patterns...),
	}
}

// Rule associates a category with its match predicates.
type Rule struct {
	Category   string `yaml:"name"`
	Predicates `yaml:",inline"`
	// Exclude keywords veto a match, e.g. "diesel" keeps "oleo diesel" out of the oil leak rule.
	Exclude []string `yaml:"exclude,omitempty"`
	// LeakFluid rules form the leak disambiguation stage and only apply when a leak marker is present.
	LeakFluid bool `yaml:"leak_fluid,omitempty"`
	// RequiresLeak rules belong to the general scan but need the leak signal.
	RequiresLeak bool `yaml:"requires_leak,omitempty"`
}

func (r Rule) clone() Rule {
	c := r
	c.Predicates = r.Predicates.clone()
	c.Exclude = append([]string(nil), r.Exclude...)
	return c
}

// Table is the versioned rule configuration. Rules are evaluated in slice
// order; the catch-all category must be the last rule.
type Table struct {
	Version  int        `yaml:"version"`
	Leak     Predicates `yaml:"leak_markers"`
	CatchAll string     `yaml:"catch_all"`
	Rules    []Rule     `yaml:"categories"`
}

// DictionaryEntry is one row of an external (category, pattern) dictionary.
type DictionaryEntry struct {
	Category string `csv:"categoria" yaml:"categoria"`
	Pattern  string `csv:"padrao" yaml:"padrao"`
}

// Clone returns a deep copy of the table.
func (t Table) Clone() Table {
	c := Table{
		Version:  t.Version,
		Leak:     t.Leak.clone(),
		CatchAll: t.CatchAll,
		Rules:    make([]Rule, len(t.Rules)),
	}
	for i, r := range t.Rules {
		c.Rules[i] = r.clone()
	}
	return c
}

// Categories returns the category names in priority order.
func (t Table) Categories() []string {
	names := make([]string, len(t.Rules))
	for i, r := range t.Rules {
		names[i] = r.Category
	}
	return names
}

// Index returns the position of category in the table, comparing normalized
// names so that "freio" finds "Freio". It returns -1 when absent.
func (t Table) Index(category string) int {
	key := textutils.Normalize(category)
	for i, r := range t.Rules {
		if textutils.Normalize(r.Category) == key {
			return i
		}
	}
	return -1
}

// Merge returns a copy of t extended with the dictionary entries. Patterns
// for a known category are appended to it; unknown categories are inserted
// just before the catch-all so the catch-all keeps the lowest priority.
// Blank rows are skipped.
func (t Table) Merge(entries []DictionaryEntry) Table {
	merged := t.Clone()

	for _, e := range entries {
		category := strings.TrimSpace(e.Category)
		pattern := strings.TrimSpace(e.Pattern)
		if category == "" || pattern == "" {
			continue
		}

		idx := merged.Index(category)
		if idx < 0 {
			idx = merged.insertBeforeCatchAll(Rule{Category: category})
		}

		rule := &merged.Rules[idx]
		if strings.HasPrefix(pattern, RegexPrefix) {
			rule.Patterns = appendUnique(rule.Patterns, strings.TrimPrefix(pattern, RegexPrefix))
		} else {
			rule.Keywords = appendUnique(rule.Keywords, pattern)
		}
	}

	return merged
}

func (t *Table) insertBeforeCatchAll(r Rule) int {
	pos := len(t.Rules)
	if t.CatchAll != "" {
		if i := t.Index(t.CatchAll); i >= 0 {
			pos = i
		}
	}
	t.Rules = append(t.Rules, Rule{})
	copy(t.Rules[pos+1:], t.Rules[pos:])
	t.Rules[pos] = r
	return pos
}

func appendUnique(list []string, v string) []string {
	for _, existing := range list {
		if existing == v {
			return list
		}
	}
	return append(list, v)
}

// Validate checks the structural invariants of the table: unique non-empty
// category names, predicates on every rule, leak markers when leak rules
// exist, and the catch-all in last position.
func (t Table) Validate() error {
	if len(t.Rules) == 0 {
		return &parsererror.ValidationError{FilePath: "rule table", Reason: "no categories defined"}
	}

	seen := make(map[string]bool, len(t.Rules))
	needsLeak := false
	for i, r := range t.Rules {
		name := strings.TrimSpace(r.Category)
		if name == "" {
			return &parsererror.ValidationError{
				FilePath: "rule table",
				Reason:   fmt.Sprintf("category at position %d has no name", i+1),
			}
		}
		key := textutils.Normalize(name)
		if seen[key] {
			return &parsererror.ValidationError{
				FilePath: "rule table",
				Reason:   fmt.Sprintf("duplicate category %q", name),
			}
		}
		seen[key] = true

		if r.Predicates.Empty() {
			return &parsererror.ValidationError{
				FilePath: "rule table",
				Reason:   fmt.Sprintf("category %q has no keywords or patterns", name),
			}
		}
		if r.LeakFluid || r.RequiresLeak {
			needsLeak = true
		}
	}

	if needsLeak && t.Leak.Empty() {
		return &parsererror.ValidationError{
			FilePath: "rule table",
			Reason:   "leak rules defined without leak markers",
		}
	}

	if t.CatchAll != "" {
		last := t.Rules[len(t.Rules)-1]
		if textutils.Normalize(last.Category) != textutils.Normalize(t.CatchAll) {
			return &parsererror.ValidationError{
				FilePath: "rule table",
				Reason:   fmt.Sprintf("catch-all category %q must be the last rule", t.CatchAll),
			}
		}
	}

	return nil
}
