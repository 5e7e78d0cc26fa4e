package container

import (
	"os"
	"path/filepath"
	"testing"

	"fjacquet/maint-report/internal/config"
	"fjacquet/maint-report/internal/logging"
	"fjacquet/maint-report/internal/models"
	"fjacquet/maint-report/internal/report"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() *config.Config {
	c := &config.Config{}
	c.Log.Level = "info"
	c.Log.Format = "text"
	c.CSV.Delimiter = ","
	c.Fallback.ConfidenceThreshold = 0.7
	c.Fallback.MinExamples = 2
	c.Report.TopN = 10
	c.Report.Format = "json"
	return c
}

func TestNewContainer(t *testing.T) {
	tests := []struct {
		name        string
		config      func() *config.Config
		expectError bool
		errorMsg    string
	}{
		{
			name:        "nil config",
			config:      func() *config.Config { return nil },
			expectError: true,
			errorMsg:    "configuration cannot be nil",
		},
		{
			name:   "built-in rules without fallback",
			config: testConfig,
		},
		{
			name: "fallback enabled",
			config: func() *config.Config {
				c := testConfig()
				c.Fallback.Enabled = true
				return c
			},
		},
		{
			name: "fallback with invalid threshold",
			config: func() *config.Config {
				c := testConfig()
				c.Fallback.Enabled = true
				c.Fallback.ConfidenceThreshold = 2
				return c
			},
			expectError: true,
			errorMsg:    "failed to create fallback strategy",
		},
		{
			name: "missing rules file",
			config: func() *config.Config {
				c := testConfig()
				c.Rules.File = filepath.Join(t.TempDir(), "missing.yaml")
				return c
			},
			expectError: true,
			errorMsg:    "failed to create categorizer",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			container, err := NewContainer(tt.config())

			if tt.expectError {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errorMsg)
				assert.Nil(t, container)
				return
			}

			require.NoError(t, err)
			assert.NotNil(t, container.GetLogger())
			assert.NotNil(t, container.GetConfig())
			assert.NotNil(t, container.GetStore())
			assert.NotNil(t, container.GetCategorizer())
			assert.NotNil(t, container.GetLoader())
			assert.NotNil(t, container.GetAggregator())
			assert.NotNil(t, container.GetReportGenerator())
			assert.Equal(t, container.GetConfig().Fallback.Enabled, container.GetFallback() != nil)
		})
	}
}

func TestNewContainerWithLogger_NilLogger(t *testing.T) {
	_, err := NewContainerWithLogger(testConfig(), nil)
	assert.EqualError(t, err, "logger cannot be nil")
}

func TestContainer_UsesDictionary(t *testing.T) {
	dict := filepath.Join(t.TempDir(), "dicionario.csv")
	require.NoError(t, os.WriteFile(dict, []byte("categoria,padrao\nRádio Transmissor,transmissor\n"), 0600))

	cfg := testConfig()
	cfg.Rules.Dictionary = dict

	container, err := NewContainerWithLogger(cfg, logging.NewMockLogger())
	require.NoError(t, err)

	result := container.GetCategorizer().Classify("TRANSMISSOR sem sinal")
	assert.Equal(t, "Rádio Transmissor", result.Category)
	assert.Equal(t, models.MethodRule, result.Method)
}

func TestContainer_ReportGeneratorTopN(t *testing.T) {
	cfg := testConfig()
	cfg.Report.TopN = 3

	container, err := NewContainerWithLogger(cfg, logging.NewMockLogger())
	require.NoError(t, err)
	assert.Equal(t, 3, container.GetReportGenerator().TopN())

	cfg.Report.TopN = 0
	container, err = NewContainerWithLogger(cfg, logging.NewMockLogger())
	require.NoError(t, err)
	assert.Equal(t, report.DefaultTopN, container.GetReportGenerator().TopN())
}

func TestContainer_NewFallback(t *testing.T) {
	container, err := NewContainerWithLogger(testConfig(), logging.NewMockLogger())
	require.NoError(t, err)

	fb, err := container.NewFallback(0.9)
	require.NoError(t, err)
	assert.Equal(t, 0.9, fb.Threshold())

	_, err = container.NewFallback(-1)
	assert.Error(t, err)
}

func TestContainer_OpenExporter(t *testing.T) {
	cfg := testConfig()
	container, err := NewContainerWithLogger(cfg, logging.NewMockLogger())
	require.NoError(t, err)

	_, err = container.OpenExporter("")
	assert.EqualError(t, err, "no SQLite database path configured")

	cfg.Storage.SQLite = filepath.Join(t.TempDir(), "out.db")
	exporter, err := container.OpenExporter("")
	require.NoError(t, err)
	defer exporter.Close()
	assert.Equal(t, cfg.Storage.SQLite, exporter.Path())
}

func TestContainer_FallbackFor(t *testing.T) {
	cfg := testConfig()
	cfg.Fallback.Enabled = true
	cfg.Fallback.ConfidenceThreshold = 0.8

	c, err := NewContainerWithLogger(cfg, logging.NewMockLogger())
	require.NoError(t, err)
	require.NotNil(t, c.GetFallback())

	same, err := c.FallbackFor(0.8)
	require.NoError(t, err)
	assert.Same(t, c.GetFallback(), same)

	other, err := c.FallbackFor(0.9)
	require.NoError(t, err)
	assert.NotSame(t, c.GetFallback(), other)
	assert.Equal(t, 0.9, other.Threshold())

	_, err = c.FallbackFor(1.5)
	assert.ErrorContains(t, err, "failed to create fallback strategy")
}

func TestContainer_FallbackForDisabled(t *testing.T) {
	c, err := NewContainerWithLogger(testConfig(), logging.NewMockLogger())
	require.NoError(t, err)
	require.Nil(t, c.GetFallback())

	fb, err := c.FallbackFor(0.7)
	require.NoError(t, err)
	assert.Equal(t, 0.7, fb.Threshold())
}
