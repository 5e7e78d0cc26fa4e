package store

import (
	"fjacquet/maint-report/internal/rules"
)

// MockRuleStore is a mock implementation of RuleStore for testing.
type MockRuleStore struct {
	Table      rules.Table
	Dictionary []rules.DictionaryEntry
	Saved      []rules.Table

	// Error flags for testing error conditions
	LoadErr       error
	DictionaryErr error
	SaveErr       error
}

// NewMockRuleStore returns a mock serving the built-in table and no dictionary.
func NewMockRuleStore() *MockRuleStore {
	return &MockRuleStore{Table: rules.DefaultTable()}
}

// LoadRuleTable returns a copy of the mock table.
func (m *MockRuleStore) LoadRuleTable() (rules.Table, error) {
	if m.LoadErr != nil {
		return rules.Table{}, m.LoadErr
	}
	return m.Table.Clone(), nil
}

// LoadDictionary returns a copy of the mock dictionary.
func (m *MockRuleStore) LoadDictionary() ([]rules.DictionaryEntry, error) {
	if m.DictionaryErr != nil {
		return nil, m.DictionaryErr
	}
	return append([]rules.DictionaryEntry(nil), m.Dictionary...), nil
}

// SaveRuleTable records the saved table.
func (m *MockRuleStore) SaveRuleTable(table rules.Table) error {
	if m.SaveErr != nil {
		return m.SaveErr
	}
	m.Saved = append(m.Saved, table.Clone())
	return nil
}
