package models

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// ParseHours parses a dwell-time cell such as "12,5", "12.5" or "1.234,5".
// Unparseable or empty values yield zero, mirroring the lenient coercion of
// the spreadsheet export.
func ParseHours(raw string) decimal.Decimal {
	s := strings.TrimSpace(raw)
	s = strings.TrimSuffix(strings.ToLower(s), "h")
	s = strings.ReplaceAll(s, " ", "")
	if s == "" {
		return decimal.Zero
	}

	// A comma means decimal comma; dots before it are thousand separators.
	if strings.Contains(s, ",") {
		s = strings.ReplaceAll(s, ".", "")
		s = strings.ReplaceAll(s, ",", ".")
	}

	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}

// HoursBetween returns the elapsed hours from entry to exit, or zero when
// either timestamp is missing or exit precedes entry.
func HoursBetween(entry, exit time.Time) decimal.Decimal {
	if entry.IsZero() || exit.IsZero() || exit.Before(entry) {
		return decimal.Zero
	}
	return decimal.NewFromFloat(exit.Sub(entry).Hours()).Round(2)
}
