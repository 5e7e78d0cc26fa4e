package main

import (
	"fmt"
	"os"
	"strings"

	"fjacquet/maint-report/cmd/classify"
	"fjacquet/maint-report/cmd/report"
	"fjacquet/maint-report/cmd/root"
	"fjacquet/maint-report/cmd/rules"
	"fjacquet/maint-report/internal/config"
	"fjacquet/maint-report/internal/logging"

	"github.com/sirupsen/logrus"
)

func init() {
	// 1. Load environment variables first so MAINT_* and LOG_LEVEL from .env apply
	config.LoadEnv(logging.NewLogrusAdapterFromLogger(silentLogger()))

	// 2. Configure the global log level before any logger is created
	logging.SetAllLogLevels(logging.ParseLevel(config.GetEnv("LOG_LEVEL", "info")))

	// 3. Add all subcommands
	root.Cmd.AddCommand(classify.Cmd)
	root.Cmd.AddCommand(report.Cmd)
	root.Cmd.AddCommand(rules.Cmd)
}

// silentLogger discards everything below warnings so that .env loading
// stays quiet unless it fails.
func silentLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(os.Stderr)
	l.SetLevel(logrus.WarnLevel)
	return l
}

func main() {
	if err := root.Cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, strings.TrimSpace(err.Error()))
		os.Exit(1)
	}
}
