// Package store loads and saves the rule configuration: the YAML rule table
// and the external (categoria, padrao) dictionary.
package store

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"fjacquet/maint-report/internal/common"
	"fjacquet/maint-report/internal/fileutils"
	"fjacquet/maint-report/internal/logging"
	"fjacquet/maint-report/internal/models"
	"fjacquet/maint-report/internal/parsererror"
	"fjacquet/maint-report/internal/rules"

	"gopkg.in/yaml.v3"
)

// DefaultRulesFile is the file name used when exporting without a path.
const DefaultRulesFile = "rules.yaml"

// Dictionary column names.
const (
	ColumnCategory = "categoria"
	ColumnPattern  = "padrao"
)

// SearchDirs are the standard locations searched for relative config files.
var SearchDirs = []string{
	".",
	"config",
	"database",
	"~/.config/maint-report",
}

// RuleStore manages loading and saving of rule configuration files.
type RuleStore struct {
	RulesFile      string
	DictionaryFile string
	Delimiter      rune
	logger         logging.Logger
}

// NewRuleStore creates a store. An empty rulesFile selects the built-in
// table; an empty dictionaryFile means no external dictionary.
func NewRuleStore(rulesFile, dictionaryFile string, delimiter rune, logger logging.Logger) *RuleStore {
	if logger == nil {
		logger = logging.GetLogger()
	}
	if delimiter == 0 {
		delimiter = common.DefaultDelimiter
	}
	return &RuleStore{
		RulesFile:      rulesFile,
		DictionaryFile: dictionaryFile,
		Delimiter:      delimiter,
		logger:         logger,
	}
}

// FindConfigFile looks for a configuration file in standard locations
func (s *RuleStore) FindConfigFile(filename string) (string, error) {
	return fileutils.FindFile(filename, SearchDirs)
}

func (s *RuleStore) resolve(filename, kind string) (string, error) {
	path, err := s.FindConfigFile(filename)
	if err != nil {
		s.logger.WithFields(
			logging.Field{Key: logging.FieldFile, Value: filename},
		).Warn("Configuration file not found")
		return "", fmt.Errorf("%s file %s: %w", kind, filename, err)
	}
	return path, nil
}

// LoadRuleTable returns the configured rule table, or the built-in table
// when no file is configured. The loaded table is validated.
func (s *RuleStore) LoadRuleTable() (rules.Table, error) {
	if s.RulesFile == "" {
		s.logger.Debug("No rule table file configured, using built-in rules")
		return rules.DefaultTable(), nil
	}

	path, err := s.resolve(s.RulesFile, "rule table")
	if err != nil {
		return rules.Table{}, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return rules.Table{}, fmt.Errorf("error reading rule table file: %w", err)
	}

	table, err := DecodeRuleTable(bytes.NewReader(data))
	if err != nil {
		return rules.Table{}, fmt.Errorf("error parsing rule table %s: %w", path, err)
	}

	s.logger.WithFields(
		logging.Field{Key: logging.FieldFile, Value: path},
		logging.Field{Key: "version", Value: table.Version},
		logging.Field{Key: logging.FieldCount, Value: len(table.Rules)},
	).Debug("Loaded rule table")
	return table, nil
}

// DecodeRuleTable parses and validates a YAML rule table. Unknown keys are
// rejected so that a misspelled "keywords" does not silently drop a rule.
func DecodeRuleTable(r io.Reader) (rules.Table, error) {
	var table rules.Table
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&table); err != nil {
		if errors.Is(err, io.EOF) {
			return rules.Table{}, &parsererror.ValidationError{FilePath: "rule table", Reason: "file is empty"}
		}
		return rules.Table{}, err
	}
	if err := table.Validate(); err != nil {
		return rules.Table{}, err
	}
	return table, nil
}

// SaveRuleTable writes table to the configured rules file, or to
// DefaultRulesFile when none is configured.
func (s *RuleStore) SaveRuleTable(table rules.Table) error {
	path := s.RulesFile
	if path == "" {
		path = DefaultRulesFile
	}
	return s.SaveRuleTableTo(fileutils.ExpandHome(path), table)
}

// EncodeRuleTable writes table as YAML to w.
func EncodeRuleTable(w io.Writer, table rules.Table) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(table); err != nil {
		return fmt.Errorf("error marshaling rule table: %w", err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("error marshaling rule table: %w", err)
	}
	return nil
}

// SaveRuleTableTo writes table as YAML to path, creating parent directories.
func (s *RuleStore) SaveRuleTableTo(path string, table rules.Table) error {
	var buf bytes.Buffer
	if err := EncodeRuleTable(&buf, table); err != nil {
		return err
	}

	if err := fileutils.WriteFile(path, buf.Bytes(), models.PermissionConfigFile); err != nil {
		return fmt.Errorf("error writing rule table: %w", err)
	}

	s.logger.WithFields(
		logging.Field{Key: logging.FieldFile, Value: path},
		logging.Field{Key: logging.FieldCount, Value: len(table.Rules)},
	).Info("Saved rule table")
	return nil
}

// LoadEffectiveTable returns the rule table with the dictionary merged in,
// the table the categorizer classifies with.
func (s *RuleStore) LoadEffectiveTable() (rules.Table, error) {
	table, err := s.LoadRuleTable()
	if err != nil {
		return rules.Table{}, err
	}
	entries, err := s.LoadDictionary()
	if err != nil {
		return rules.Table{}, err
	}
	return table.Merge(entries), nil
}

// LoadDictionary reads the external dictionary. It returns no entries when
// no dictionary is configured. Rows with a blank category or pattern are skipped.
func (s *RuleStore) LoadDictionary() ([]rules.DictionaryEntry, error) {
	if s.DictionaryFile == "" {
		return nil, nil
	}

	path, err := s.resolve(s.DictionaryFile, "dictionary")
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error reading dictionary file: %w", err)
	}

	entries, err := DecodeDictionary(bytes.NewReader(data), s.Delimiter)
	if err != nil {
		var formatErr *parsererror.InvalidFormatError
		if errors.As(err, &formatErr) {
			formatErr.FilePath = path
		}
		return nil, err
	}

	s.logger.WithFields(
		logging.Field{Key: logging.FieldFile, Value: path},
		logging.Field{Key: logging.FieldCount, Value: len(entries)},
	).Info("Loaded rule dictionary")
	return entries, nil
}

// DecodeDictionary parses a two-column dictionary. Header names are matched
// after trimming; both columns are required.
func DecodeDictionary(r io.Reader, delimiter rune) ([]rules.DictionaryEntry, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	header, err := common.NewCSVReader(bytes.NewReader(data), delimiter).Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, fmt.Errorf("error reading dictionary header: %w", err)
	}
	if !hasColumns(header, ColumnCategory, ColumnPattern) {
		return nil, &parsererror.InvalidFormatError{
			ExpectedFormat:       fmt.Sprintf("columns %q and %q", ColumnCategory, ColumnPattern),
			ActualContentSnippet: strings.Join(header, string(delimiter)),
			Msg:                  "missing dictionary columns",
		}
	}

	rows, err := common.ReadCSV[rules.DictionaryEntry](bytes.NewReader(data), delimiter)
	if err != nil {
		return nil, fmt.Errorf("error parsing dictionary: %w", err)
	}

	entries := make([]rules.DictionaryEntry, 0, len(rows))
	for _, row := range rows {
		row.Category = strings.TrimSpace(row.Category)
		row.Pattern = strings.TrimSpace(row.Pattern)
		if row.Category == "" || row.Pattern == "" {
			continue
		}
		entries = append(entries, row)
	}
	return entries, nil
}

func hasColumns(header []string, names ...string) bool {
	present := make(map[string]bool, len(header))
	for _, h := range header {
		present[h] = true
	}
	for _, n := range names {
		if !present[n] {
			return false
		}
	}
	return true
}
