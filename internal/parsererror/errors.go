// Package parsererror defines the typed errors raised while loading work
// orders and rule configuration. Classification itself never fails.
package parsererror

import "fmt"

// ParseError represents a value that could not be parsed from an input row.
type ParseError struct {
	Source string
	Row    int
	Field  string
	Value  string
	Err    error
}

func (e *ParseError) Error() string {
	if e.Row > 0 {
		return fmt.Sprintf("%s: row %d: failed to parse %s='%s': %v",
			e.Source, e.Row, e.Field, e.Value, e.Err)
	}
	return fmt.Sprintf("%s: failed to parse %s='%s': %v",
		e.Source, e.Field, e.Value, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// ValidationError represents a validation failure of a file or setting.
type ValidationError struct {
	FilePath string
	Reason   string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed for %s: %s", e.FilePath, e.Reason)
}

// RuleError reports a rule-table entry whose pattern cannot be compiled.
type RuleError struct {
	Category string
	Pattern  string
	Err      error
}

func (e *RuleError) Error() string {
	return fmt.Sprintf("invalid pattern %q for category %q: %v",
		e.Pattern, e.Category, e.Err)
}

func (e *RuleError) Unwrap() error {
	return e.Err
}

// InvalidFormatError represents an input file that does not have the shape
// the loader expects, such as a dictionary without its two columns.
type InvalidFormatError struct {
	FilePath             string
	ExpectedFormat       string
	ActualContentSnippet string // Optional: a snippet of the actual content for debugging
	Msg                  string
}

func (e *InvalidFormatError) Error() string {
	if e.ActualContentSnippet != "" {
		return fmt.Sprintf("invalid format in file '%s': %s. Expected: %s. Content snippet: '%s'",
			e.FilePath, e.Msg, e.ExpectedFormat, e.ActualContentSnippet)
	}
	return fmt.Sprintf("invalid format in file '%s': %s. Expected: %s",
		e.FilePath, e.Msg, e.ExpectedFormat)
}
