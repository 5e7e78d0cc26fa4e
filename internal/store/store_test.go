package store

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"fjacquet/maint-report/internal/logging"
	"fjacquet/maint-report/internal/models"
	"fjacquet/maint-report/internal/parsererror"
	"fjacquet/maint-report/internal/rules"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
}

const sampleRules = `version: 7
leak_markers:
  patterns: ['\bvaz\w*\b']
catch_all: Avaliar
categories:
  - name: Vazamento - Hidráulico
    leak_fluid: true
    patterns: ['\bhidraulic[oa]\b']
  - name: Motor
    keywords: [motor, cabeçote]
  - name: Avaliar
    keywords: [avaliar]
`

func TestNewRuleStore_Defaults(t *testing.T) {
	s := NewRuleStore("", "", 0, nil)
	assert.Equal(t, ',', s.Delimiter)
	assert.Empty(t, s.RulesFile)
}

func TestLoadRuleTable_BuiltIn(t *testing.T) {
	s := NewRuleStore("", "", ',', logging.NewMockLogger())

	table, err := s.LoadRuleTable()
	require.NoError(t, err)
	assert.Equal(t, rules.DefaultTable(), table)
}

func TestLoadRuleTable_FromFile(t *testing.T) {
	file := filepath.Join(t.TempDir(), "rules.yaml")
	writeFile(t, file, sampleRules)

	s := NewRuleStore(file, "", ',', logging.NewMockLogger())
	table, err := s.LoadRuleTable()
	require.NoError(t, err)

	assert.Equal(t, 7, table.Version)
	assert.Equal(t, "Avaliar", table.CatchAll)
	assert.Equal(t, []string{"Vazamento - Hidráulico", "Motor", "Avaliar"}, table.Categories())
	assert.True(t, table.Rules[0].LeakFluid)
	assert.Equal(t, []string{"motor", "cabeçote"}, table.Rules[1].Keywords)
	assert.Equal(t, []string{`\bvaz\w*\b`}, table.Leak.Patterns)
}

func TestLoadRuleTable_Errors(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		name    string
		content string
		wantErr string
	}{
		{"unknown key", "version: 1\ncategories:\n  - name: Motor\n    keyword: [motor]\n", "keyword"},
		{"malformed", "categories: [\n", "error parsing rule table"},
		{"empty", "", "file is empty"},
		{"invalid table", "version: 1\ncategories:\n  - name: Motor\n", "no keywords or patterns"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			file := filepath.Join(dir, strings.ReplaceAll(tt.name, " ", "_")+".yaml")
			writeFile(t, file, tt.content)

			_, err := NewRuleStore(file, "", ',', logging.NewMockLogger()).LoadRuleTable()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLoadRuleTable_Missing(t *testing.T) {
	logger := logging.NewMockLogger()
	s := NewRuleStore(filepath.Join(t.TempDir(), "missing.yaml"), "", ',', logger)

	_, err := s.LoadRuleTable()
	require.Error(t, err)
	assert.True(t, errors.Is(err, os.ErrNotExist))
	assert.True(t, logger.HasEntry("WARN", "Configuration file not found"))
}

func TestSaveRuleTable_RoundTrip(t *testing.T) {
	file := filepath.Join(t.TempDir(), "out", "rules.yaml")
	s := NewRuleStore(file, "", ',', logging.NewMockLogger())

	table := rules.DefaultTable().Merge([]rules.DictionaryEntry{
		{Category: "Rádio Transmissor", Pattern: "transmissor"},
		{Category: "Freio", Pattern: `re:\bservo ?freio\b`},
	})
	require.NoError(t, s.SaveRuleTable(table))

	info, err := os.Stat(file)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(models.PermissionConfigFile), info.Mode().Perm())

	loaded, err := s.LoadRuleTable()
	require.NoError(t, err)
	assert.Equal(t, table, loaded)
}

func TestLoadDictionary(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "dict.csv")
	writeFile(t, file, " categoria ; padrao \nRádio Transmissor;transmissor\n;orphan\nFreio;  \nFreio;re:\\bservo\\b\n")

	s := NewRuleStore("", file, ';', logging.NewMockLogger())
	entries, err := s.LoadDictionary()
	require.NoError(t, err)

	assert.Equal(t, []rules.DictionaryEntry{
		{Category: "Rádio Transmissor", Pattern: "transmissor"},
		{Category: "Freio", Pattern: `re:\bservo\b`},
	}, entries)
}

func TestLoadDictionary_NotConfigured(t *testing.T) {
	entries, err := NewRuleStore("", "", ',', nil).LoadDictionary()
	require.NoError(t, err)
	assert.Nil(t, entries)
}

func TestLoadDictionary_MissingColumns(t *testing.T) {
	file := filepath.Join(t.TempDir(), "dict.csv")
	writeFile(t, file, "category,pattern\nFreio,lona\n")

	_, err := NewRuleStore("", file, ',', nil).LoadDictionary()
	require.Error(t, err)

	var formatErr *parsererror.InvalidFormatError
	require.True(t, errors.As(err, &formatErr))
	assert.Equal(t, file, formatErr.FilePath)
	assert.Contains(t, err.Error(), "category,pattern")
}

func TestDecodeDictionary_Empty(t *testing.T) {
	entries, err := DecodeDictionary(strings.NewReader(""), ',')
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestFindConfigFile_SearchDirs(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "config"), 0750))
	writeFile(t, filepath.Join(dir, "config", "rules.yaml"), sampleRules)
	chdir(t, dir)

	s := NewRuleStore("rules.yaml", "", ',', logging.NewMockLogger())
	path, err := s.FindConfigFile("rules.yaml")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join("config", "rules.yaml"), path)

	table, err := s.LoadRuleTable()
	require.NoError(t, err)
	assert.Equal(t, 7, table.Version)
}

func TestMockRuleStore(t *testing.T) {
	m := NewMockRuleStore()

	table, err := m.LoadRuleTable()
	require.NoError(t, err)
	assert.Equal(t, rules.DefaultTable(), table)

	require.NoError(t, m.SaveRuleTable(table))
	assert.Len(t, m.Saved, 1)

	m.SaveErr = errors.New("read-only")
	assert.Error(t, m.SaveRuleTable(table))

	m.LoadErr = errors.New("gone")
	_, err = m.LoadRuleTable()
	assert.Error(t, err)
}

func TestLoadEffectiveTable(t *testing.T) {
	dir := t.TempDir()
	rulesFile := filepath.Join(dir, "rules.yaml")
	dictFile := filepath.Join(dir, "dict.csv")
	writeFile(t, rulesFile, sampleRules)
	writeFile(t, dictFile, "categoria,padrao\nRádio Transmissor,transmissor\n")

	s := NewRuleStore(rulesFile, dictFile, ',', logging.NewMockLogger())
	table, err := s.LoadEffectiveTable()
	require.NoError(t, err)

	assert.Equal(t, []string{"Vazamento - Hidráulico", "Motor", "Rádio Transmissor", "Avaliar"}, table.Categories())

	s.DictionaryFile = filepath.Join(dir, "missing.csv")
	_, err = s.LoadEffectiveTable()
	assert.Error(t, err)
}

func TestEncodeRuleTable(t *testing.T) {
	var buf strings.Builder
	require.NoError(t, EncodeRuleTable(&buf, rules.DefaultTable()))

	decoded, err := DecodeRuleTable(strings.NewReader(buf.String()))
	require.NoError(t, err)
	assert.Equal(t, rules.DefaultTable().Categories(), decoded.Categories())
}
