// Package common provides the CSV input and output shared by the work-order
// loader, the rule dictionary and the report writers.
package common

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"fjacquet/maint-report/internal/logging"
	"fjacquet/maint-report/internal/models"

	"github.com/gocarina/gocsv"
)

// DefaultDelimiter is the field separator used when none is configured.
const DefaultDelimiter = ','

const utf8BOM = "\ufeff"

// ParseDelimiter validates a configured delimiter: exactly one character
// that is not a quote, a line break or the replacement rune.
func ParseDelimiter(s string) (rune, error) {
	if s == "" {
		return DefaultDelimiter, nil
	}
	if s == `\t` {
		return '\t', nil
	}
	if utf8.RuneCountInString(s) != 1 {
		return 0, fmt.Errorf("delimiter must be a single character, got %q", s)
	}
	r, _ := utf8.DecodeRuneInString(s)
	if r == '"' || r == '\r' || r == '\n' || r == utf8.RuneError {
		return 0, fmt.Errorf("invalid delimiter %q", s)
	}
	return r, nil
}

// headerTrimReader wraps a csv.Reader and strips surrounding whitespace and
// a leading byte order mark from the header cells, so " Descrição " binds
// to the Descrição column.
type headerTrimReader struct {
	r          *csv.Reader
	headerDone bool
}

// NewCSVReader returns a lenient gocsv reader: variable field counts, lazy
// quotes and trimmed header names.
func NewCSVReader(in io.Reader, delimiter rune) gocsv.CSVReader {
	r := csv.NewReader(in)
	r.Comma = delimiter
	r.FieldsPerRecord = -1
	r.LazyQuotes = true
	return &headerTrimReader{r: r}
}

func (h *headerTrimReader) Read() ([]string, error) {
	record, err := h.r.Read()
	if err != nil {
		return record, err
	}
	if !h.headerDone {
		h.headerDone = true
		for i, cell := range record {
			record[i] = strings.TrimSpace(strings.TrimPrefix(cell, utf8BOM))
		}
	}
	return record, nil
}

func (h *headerTrimReader) ReadAll() ([][]string, error) {
	var records [][]string
	for {
		record, err := h.Read()
		if err == io.EOF {
			return records, nil
		}
		if err != nil {
			return nil, err
		}
		records = append(records, record)
	}
}

// ReadCSV decodes delimited rows into a slice of structs using gocsv tags.
func ReadCSV[TCSVRow any](in io.Reader, delimiter rune) ([]TCSVRow, error) {
	var rows []TCSVRow
	if err := gocsv.UnmarshalCSV(NewCSVReader(in, delimiter), &rows); err != nil {
		return nil, err
	}
	return rows, nil
}

// WriteCSV encodes rows with a header line using the given delimiter.
func WriteCSV[TCSVRow any](out io.Writer, rows []TCSVRow, delimiter rune) error {
	w := csv.NewWriter(out)
	w.Comma = delimiter

	if err := gocsv.MarshalCSV(rows, gocsv.NewSafeCSVWriter(w)); err != nil {
		return err
	}
	w.Flush()
	return w.Error()
}

// WriteCSVFile writes rows to filePath, creating parent directories.
func WriteCSVFile[TCSVRow any](filePath string, rows []TCSVRow, delimiter rune, logger logging.Logger) error {
	if rows == nil {
		return fmt.Errorf("cannot write nil rows to CSV")
	}
	if logger == nil {
		logger = logging.GetLogger()
	}

	dir := filepath.Dir(filePath)
	if err := os.MkdirAll(dir, models.PermissionDirectory); err != nil {
		return fmt.Errorf("error creating directory: %w", err)
	}

	file, err := os.Create(filePath)
	if err != nil {
		return fmt.Errorf("error creating CSV file: %w", err)
	}
	defer func() {
		if err := file.Close(); err != nil {
			logger.WithError(err).Warn("Failed to close file")
		}
	}()

	if err := WriteCSV(file, rows, delimiter); err != nil {
		return fmt.Errorf("error writing CSV data: %w", err)
	}

	logger.WithFields(
		logging.Field{Key: logging.FieldFile, Value: filePath},
		logging.Field{Key: logging.FieldCount, Value: len(rows)},
		logging.Field{Key: logging.FieldDelimiter, Value: string(delimiter)},
	).Info("Wrote CSV file")
	return nil
}
