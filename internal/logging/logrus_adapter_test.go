package logging

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLogrusAdapter(t *testing.T) {
	tests := []struct {
		name        string
		level       string
		format      string
		expectLevel logrus.Level
	}{
		{name: "debug level with text format", level: "debug", format: "text", expectLevel: logrus.DebugLevel},
		{name: "info level with json format", level: "info", format: "json", expectLevel: logrus.InfoLevel},
		{name: "upper case level", level: "WARN", format: "text", expectLevel: logrus.WarnLevel},
		{name: "invalid level defaults to info", level: "loud", format: "text", expectLevel: logrus.InfoLevel},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger := NewLogrusAdapter(tt.level, tt.format)
			require.NotNil(t, logger)

			adapter, ok := logger.(*LogrusAdapter)
			require.True(t, ok, "logger should be a LogrusAdapter")
			assert.Equal(t, tt.expectLevel, adapter.logger.Level)

			if tt.format == "json" {
				_, ok := adapter.logger.Formatter.(*logrus.JSONFormatter)
				assert.True(t, ok, "formatter should be JSONFormatter")
			} else {
				_, ok := adapter.logger.Formatter.(*logrus.TextFormatter)
				assert.True(t, ok, "formatter should be TextFormatter")
			}
		})
	}
}

func TestNewLogrusAdapterWithOutput_JSON(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogrusAdapterWithOutput("debug", "json", &buf)

	logger.Info("classified", Field{Key: FieldCategory, Value: "Motor"})

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, "classified", decoded["msg"])
	assert.Equal(t, "Motor", decoded[FieldCategory])
}

func TestNewLogrusAdapterFromLogger(t *testing.T) {
	t.Run("with existing logger", func(t *testing.T) {
		existing := logrus.New()
		logger := NewLogrusAdapterFromLogger(existing)
		adapter, ok := logger.(*LogrusAdapter)
		require.True(t, ok)
		assert.Equal(t, existing, adapter.logger)
	})

	t.Run("with nil logger creates new one", func(t *testing.T) {
		logger := NewLogrusAdapterFromLogger(nil)
		adapter, ok := logger.(*LogrusAdapter)
		require.True(t, ok)
		assert.NotNil(t, adapter.logger)
	})
}

func newBufferedAdapter(level logrus.Level) (Logger, *bytes.Buffer) {
	logrusLogger := logrus.New()
	var buf bytes.Buffer
	logrusLogger.SetOutput(&buf)
	logrusLogger.SetLevel(level)
	logrusLogger.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})
	return NewLogrusAdapterFromLogger(logrusLogger), &buf
}

func TestLogrusAdapter_LoggingMethods(t *testing.T) {
	tests := []struct {
		name    string
		logFunc func(Logger, string, ...Field)
		message string
	}{
		{name: "Debug", logFunc: func(l Logger, m string, f ...Field) { l.Debug(m, f...) }, message: "debug message"},
		{name: "Info", logFunc: func(l Logger, m string, f ...Field) { l.Info(m, f...) }, message: "info message"},
		{name: "Warn", logFunc: func(l Logger, m string, f ...Field) { l.Warn(m, f...) }, message: "warn message"},
		{name: "Error", logFunc: func(l Logger, m string, f ...Field) { l.Error(m, f...) }, message: "error message"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger, buf := newBufferedAdapter(logrus.DebugLevel)
			tt.logFunc(logger, tt.message, Field{Key: "boletim", Value: "OS-1"})

			output := buf.String()
			assert.Contains(t, output, tt.message)
			assert.Contains(t, output, "boletim")
			assert.Contains(t, output, "OS-1")
		})
	}
}

func TestLogrusAdapter_ChainedCalls(t *testing.T) {
	logger, buf := newBufferedAdapter(logrus.InfoLevel)
	testErr := errors.New("bad regex")

	logger.
		WithField(FieldCategory, "Freio").
		WithFields(Field{Key: FieldPattern, Value: "(pastilha"}).
		WithError(testErr).
		Error("rule rejected")

	output := buf.String()
	assert.Contains(t, output, "rule rejected")
	assert.Contains(t, output, "Freio")
	assert.Contains(t, output, "(pastilha")
	assert.Contains(t, output, "bad regex")
}

func TestConvertFields(t *testing.T) {
	fields := convertFields([]Field{{Key: "a", Value: 1}, {Key: "b", Value: "x"}})
	assert.Equal(t, 1, fields["a"])
	assert.Equal(t, "x", fields["b"])
	assert.Len(t, convertFields(nil), 0)
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, logrus.DebugLevel, ParseLevel(" debug "))
	assert.Equal(t, logrus.ErrorLevel, ParseLevel("ERROR"))
	assert.Equal(t, logrus.InfoLevel, ParseLevel(""))
}

func TestDefaultLogger(t *testing.T) {
	original := GetLogger()
	t.Cleanup(func() { SetLogger(original) })

	mock := NewMockLogger()
	SetLogger(mock)
	GetLogger().Info("hello")
	assert.True(t, mock.HasEntry("INFO", "hello"))

	SetLogger(nil)
	assert.Equal(t, mock, GetLogger())
}

func TestMockLogger_DerivedLoggersShareEntries(t *testing.T) {
	mock := NewMockLogger()
	child := mock.WithField(FieldStrategy, "Leak").WithError(errors.New("boom"))
	child.Debug("matched", Field{Key: FieldCategory, Value: "Vazamento - Óleo"})
	mock.Warn("plain")

	entries := mock.GetEntries()
	require.Len(t, entries, 2)
	assert.Equal(t, "DEBUG", entries[0].Level)
	assert.Equal(t, []Field{
		{Key: FieldStrategy, Value: "Leak"},
		{Key: FieldCategory, Value: "Vazamento - Óleo"},
	}, entries[0].Fields)
	assert.EqualError(t, entries[0].Error, "boom")
	assert.Len(t, mock.GetEntriesByLevel("WARN"), 1)

	mock.Clear()
	assert.Empty(t, mock.GetEntries())
}

func TestLogrusAdapter_ImplementsInterface(t *testing.T) {
	var _ Logger = (*LogrusAdapter)(nil)
	var _ Logger = (*MockLogger)(nil)
}
