// Package config provides Viper-based hierarchical configuration management
package config

import (
	"errors"
	"fmt"
	"strings"

	"fjacquet/maint-report/internal/common"

	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment variable override, e.g.
// MAINT_FALLBACK_ENABLED=true.
const EnvPrefix = "MAINT"

// Config represents the complete application configuration
type Config struct {
	Log struct {
		Level  string `mapstructure:"level" yaml:"level"`
		Format string `mapstructure:"format" yaml:"format"`
	} `mapstructure:"log" yaml:"log"`

	CSV struct {
		Delimiter string `mapstructure:"delimiter" yaml:"delimiter"`
	} `mapstructure:"csv" yaml:"csv"`

	Rules struct {
		File       string `mapstructure:"file" yaml:"file"`
		Dictionary string `mapstructure:"dictionary" yaml:"dictionary"`
	} `mapstructure:"rules" yaml:"rules"`

	Fallback struct {
		Enabled             bool    `mapstructure:"enabled" yaml:"enabled"`
		ConfidenceThreshold float64 `mapstructure:"confidence_threshold" yaml:"confidence_threshold"`
		MinExamples         int     `mapstructure:"min_examples" yaml:"min_examples"`
	} `mapstructure:"fallback" yaml:"fallback"`

	Report struct {
		TopN   int    `mapstructure:"top_n" yaml:"top_n"`
		Format string `mapstructure:"format" yaml:"format"`
	} `mapstructure:"report" yaml:"report"`

	Storage struct {
		SQLite string `mapstructure:"sqlite" yaml:"sqlite"`
	} `mapstructure:"storage" yaml:"storage"`
}

// InitializeConfig initializes Viper configuration with hierarchical loading
func InitializeConfig() (*Config, error) {
	return InitializeConfigFromFile("")
}

// InitializeConfigFromFile loads configuration like InitializeConfig but
// reads the given file instead of searching the standard locations. An
// explicitly named file that cannot be read is an error.
func InitializeConfigFromFile(configFile string) (*Config, error) {
	v := viper.New()

	// 1. Set defaults
	setDefaults(v)

	// 2. Config file locations
	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("$HOME/.maint-report")
		v.AddConfigPath(".maint-report")
		v.AddConfigPath(".")
	}

	// 3. Environment variables
	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// 4. Read config file
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file %s: %w", v.ConfigFileUsed(), err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// 5. Validate configuration
	if err := validateConfig(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")

	v.SetDefault("csv.delimiter", ",")

	// Empty rule file means the built-in table.
	v.SetDefault("rules.file", "")
	v.SetDefault("rules.dictionary", "")

	v.SetDefault("fallback.enabled", false)
	v.SetDefault("fallback.confidence_threshold", 0.7)
	v.SetDefault("fallback.min_examples", 10)

	v.SetDefault("report.top_n", 15)
	v.SetDefault("report.format", "json")

	v.SetDefault("storage.sqlite", "")
}

// validateConfig validates the configuration values
func validateConfig(config *Config) error {
	if _, err := logrus.ParseLevel(config.Log.Level); err != nil {
		return fmt.Errorf("invalid log level: %s", config.Log.Level)
	}

	if config.Log.Format != "text" && config.Log.Format != "json" {
		return fmt.Errorf("invalid log format: %s (must be 'text' or 'json')", config.Log.Format)
	}

	if _, err := common.ParseDelimiter(config.CSV.Delimiter); err != nil {
		return fmt.Errorf("csv.delimiter: %w", err)
	}

	if config.Fallback.ConfidenceThreshold < 0.0 || config.Fallback.ConfidenceThreshold > 1.0 {
		return fmt.Errorf("fallback.confidence_threshold must be between 0.0 and 1.0, got: %f", config.Fallback.ConfidenceThreshold)
	}

	if config.Fallback.MinExamples < 0 {
		return fmt.Errorf("fallback.min_examples must not be negative, got: %d", config.Fallback.MinExamples)
	}

	if config.Report.TopN < 1 || config.Report.TopN > 1000 {
		return fmt.Errorf("report.top_n must be between 1 and 1000, got: %d", config.Report.TopN)
	}

	switch strings.ToLower(config.Report.Format) {
	case "json", "yaml":
	default:
		return fmt.Errorf("invalid report format: %s (must be 'json' or 'yaml')", config.Report.Format)
	}

	return nil
}

// Delimiter returns the configured CSV delimiter as a rune.
func (c *Config) Delimiter() rune {
	d, err := common.ParseDelimiter(c.CSV.Delimiter)
	if err != nil {
		return common.DefaultDelimiter
	}
	return d
}

// Validate checks the configuration values, e.g. after command-line
// overrides were applied.
func (c *Config) Validate() error {
	return validateConfig(c)
}
