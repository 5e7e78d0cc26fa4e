// Package root contains the root command for the application
package root

import (
	"fmt"

	"fjacquet/maint-report/internal/config"
	"fjacquet/maint-report/internal/container"
	"fjacquet/maint-report/internal/logging"

	"github.com/spf13/cobra"
)

// Persistent flag names shared by every command.
const (
	FlagConfig       = "config"
	FlagLogLevel     = "log-level"
	FlagLogFormat    = "log-format"
	FlagCSVDelimiter = "csv-delimiter"
	FlagRules        = "rules"
	FlagDictionary   = "dictionary"
)

// Cmd is the root command
var Cmd = NewRootCommand()

// NewRootCommand builds a root command with the persistent configuration
// flags. Subcommands are added by the caller.
func NewRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "maint-report",
		Short: "A CLI tool to classify maintenance work orders and build the maintenance report.",
		Long: `maint-report classifies the free-text description of vehicle and equipment
maintenance work orders into failure components, using an ordered keyword and
regex rule table with an optional statistical fallback, and aggregates the
classified work orders into the maintenance report tables.`,
		SilenceUsage: true,
		Run: func(cmd *cobra.Command, args []string) {
			_ = cmd.Help()
		},
	}

	flags := cmd.PersistentFlags()
	flags.String(FlagConfig, "", "Config file (default searches ./config.yaml, ./.maint-report and $HOME/.maint-report)")
	flags.String(FlagLogLevel, "", "Log level (trace, debug, info, warn, error)")
	flags.String(FlagLogFormat, "", "Log format (text or json)")
	flags.String(FlagCSVDelimiter, "", `CSV delimiter for work orders and dictionaries (use \t for tab)`)
	flags.String(FlagRules, "", "Rule table YAML file (default: built-in table)")
	flags.String(FlagDictionary, "", "Extra (categoria, padrao) dictionary CSV merged into the rule table")

	return cmd
}

// LoadConfig loads the configuration and applies the persistent flags set
// on cmd's command line.
func LoadConfig(cmd *cobra.Command) (*config.Config, error) {
	configFile, _ := cmd.Flags().GetString(FlagConfig)

	cfg, err := config.InitializeConfigFromFile(configFile)
	if err != nil {
		return nil, err
	}

	overrides := map[string]*string{
		FlagLogLevel:     &cfg.Log.Level,
		FlagLogFormat:    &cfg.Log.Format,
		FlagCSVDelimiter: &cfg.CSV.Delimiter,
		FlagRules:        &cfg.Rules.File,
		FlagDictionary:   &cfg.Rules.Dictionary,
	}
	for name, target := range overrides {
		if f := cmd.Flags().Lookup(name); f != nil && f.Changed {
			*target = f.Value.String()
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// NewContainer loads the configuration for cmd and wires the application.
// The container's logger becomes the process default logger.
func NewContainer(cmd *cobra.Command) (*container.Container, error) {
	cfg, err := LoadConfig(cmd)
	if err != nil {
		return nil, err
	}

	logger := logging.NewLogrusAdapterWithOutput(cfg.Log.Level, cfg.Log.Format, cmd.ErrOrStderr())
	logging.SetLogger(logger)

	c, err := container.NewContainerWithLogger(cfg, logger)
	if err != nil {
		return nil, err
	}
	return c, nil
}
