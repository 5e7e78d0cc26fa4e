package config

import (
	"os"
	"path/filepath"

	"fjacquet/maint-report/internal/logging"

	"github.com/joho/godotenv"
)

// EnvFileCandidates are the .env locations tried by LoadEnv, in order.
var EnvFileCandidates = []string{".env", filepath.Join("..", ".env")}

// LoadEnv loads environment variables from the first .env file found.
// Variables already set in the environment are not overridden. It returns
// the file that was loaded, or "" when none was found.
func LoadEnv(logger logging.Logger) string {
	if logger == nil {
		logger = logging.GetLogger()
	}

	for _, envFile := range EnvFileCandidates {
		if _, err := os.Stat(envFile); err != nil {
			continue
		}
		if err := godotenv.Load(envFile); err != nil {
			logger.WithError(err).Warn("Error loading .env file",
				logging.Field{Key: logging.FieldFile, Value: envFile})
			return ""
		}
		logger.Debug("Loaded environment variables",
			logging.Field{Key: logging.FieldFile, Value: envFile})
		return envFile
	}
	return ""
}

// GetEnv retrieves an environment variable with a fallback value if not set
func GetEnv(key, fallback string) string {
	value, exists := os.LookupEnv(key)
	if !exists {
		return fallback
	}
	return value
}
