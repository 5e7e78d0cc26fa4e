// Package validation checks command inputs before any work is done.
package validation

import (
	"fmt"
	"os"
	"strings"
)

// IsValidInputFile checks that path names an existing, non-empty regular file.
func IsValidInputFile(path string) error {
	if strings.TrimSpace(path) == "" {
		return fmt.Errorf("input file path cannot be empty")
	}
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return fmt.Errorf("input file does not exist: %s", path)
	}
	if err != nil {
		return fmt.Errorf("error checking input file %s: %w", path, err)
	}
	if !info.Mode().IsRegular() {
		return fmt.Errorf("input path %s is not a regular file", path)
	}
	if info.Size() == 0 {
		return fmt.Errorf("input file %s is empty", path)
	}
	return nil
}

// IsValidOutputPath checks that path can be written as a file: it must not
// be an existing directory.
func IsValidOutputPath(path string) error {
	if path == "" || path == "-" {
		return nil
	}
	info, err := os.Stat(path)
	if err == nil && info.IsDir() {
		return fmt.Errorf("output path %s is a directory", path)
	}
	return nil
}

// IsValidOutputFormat checks if the given format is supported.
func IsValidOutputFormat(format string) error {
	switch strings.ToLower(format) {
	case "json", "yaml":
		return nil
	default:
		return fmt.Errorf("unsupported report format: %s. Supported formats are 'json', 'yaml'", format)
	}
}
