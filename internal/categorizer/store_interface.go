package categorizer

import "fjacquet/maint-report/internal/rules"

// RuleStoreInterface defines the interface for rule configuration storage.
// This allows for dependency injection and easier testing.
type RuleStoreInterface interface {
	LoadRuleTable() (rules.Table, error)
	LoadDictionary() ([]rules.DictionaryEntry, error)
	SaveRuleTable(table rules.Table) error
}
