// Package dateutils provides the lenient date parsing used for work-order
// timestamps and the month bucket derived from them.
package dateutils

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

// Common date format constants used throughout the application
const (
	DateLayoutISO       = "2006-01-02"
	DateLayoutBrazil    = "02/01/2006"
	DateLayoutFull      = "2006-01-02 15:04:05"
	DateLayoutBrazilMin = "02/01/2006 15:04"
	DateLayoutBrazilSec = "02/01/2006 15:04:05"
	MonthLayout         = "2006-01"
)

// CommonFormats lists the accepted layouts in the order they are tried.
// Day-first layouts come before ISO ones; month-first layouts are not
// accepted since "03/04/2024" would be ambiguous.
var CommonFormats = []string{
	DateLayoutBrazilSec,
	DateLayoutBrazilMin,
	DateLayoutBrazil,
	"2/1/2006 15:04:05",
	"2/1/2006 15:04",
	"2/1/2006",
	"02-01-2006 15:04",
	"02-01-2006",
	"02.01.2006",
	DateLayoutFull,
	"2006-01-02 15:04",
	DateLayoutISO + "T15:04:05",
	time.RFC3339,
	DateLayoutISO,
}

var whitespace = regexp.MustCompile(`\s+`)

// CleanDateString trims the value and collapses internal whitespace.
func CleanDateString(dateStr string) string {
	return whitespace.ReplaceAllString(strings.TrimSpace(dateStr), " ")
}

// ParseDate attempts to parse a date string using the common formats.
// Returns the parsed time and the detected format.
func ParseDate(dateStr string) (time.Time, string, error) {
	clean := CleanDateString(dateStr)
	if clean == "" {
		return time.Time{}, "", fmt.Errorf("unable to parse empty date")
	}

	for _, format := range CommonFormats {
		if t, err := time.Parse(format, clean); err == nil {
			return t, format, nil
		}
	}

	return time.Time{}, "", fmt.Errorf("unable to parse date: %s", dateStr)
}

// ParseDateString parses dateStr, returning the zero time for an empty value.
func ParseDateString(dateStr string) (time.Time, error) {
	if CleanDateString(dateStr) == "" {
		return time.Time{}, nil
	}
	t, _, err := ParseDate(dateStr)
	return t, err
}

// ParseLenient parses dateStr and returns the zero time when it cannot be
// parsed, the same way a coercing reader turns bad cells into missing values.
func ParseLenient(dateStr string) time.Time {
	t, err := ParseDateString(dateStr)
	if err != nil {
		return time.Time{}
	}
	return t
}

// MonthBucket returns the YYYY-MM period of date, or "" for the zero time.
func MonthBucket(date time.Time) string {
	if date.IsZero() {
		return ""
	}
	return date.Format(MonthLayout)
}

// ToISODate formats a time.Time value as an ISO date (YYYY-MM-DD)
func ToISODate(date time.Time) string {
	if date.IsZero() {
		return ""
	}
	return date.Format(DateLayoutISO)
}

// StartOfDay truncates date to midnight in its location.
func StartOfDay(date time.Time) time.Time {
	return time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())
}

// EndOfDay returns the last nanosecond of date's day.
func EndOfDay(date time.Time) time.Time {
	return StartOfDay(date).AddDate(0, 0, 1).Add(-time.Nanosecond)
}
