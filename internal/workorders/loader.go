// Package workorders loads the work-order export, derives the computed
// columns and applies the report filters.
package workorders

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"fjacquet/maint-report/internal/common"
	"fjacquet/maint-report/internal/dateutils"
	"fjacquet/maint-report/internal/logging"
	"fjacquet/maint-report/internal/models"
	"fjacquet/maint-report/internal/parsererror"
)

// Export column names.
const (
	ColumnDescription = "Descrição"
	ColumnEntry       = "Entrada"
	ColumnOrigin      = "Origem"
	ColumnDwell       = "Tempo de Permanência(h)"
)

// Loader reads and writes work-order files.
type Loader struct {
	Delimiter rune
	logger    logging.Logger
}

// NewLoader creates a loader for files using delimiter.
func NewLoader(delimiter rune, logger logging.Logger) *Loader {
	if logger == nil {
		logger = logging.GetLogger()
	}
	if delimiter == 0 {
		delimiter = common.DefaultDelimiter
	}
	return &Loader{Delimiter: delimiter, logger: logger}
}

// Load reads the export at path and derives the computed columns.
func (l *Loader) Load(path string) ([]models.WorkOrder, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("error opening work orders file: %w", err)
	}
	defer func() {
		if err := file.Close(); err != nil {
			l.logger.WithError(err).Warn("Failed to close file")
		}
	}()

	orders, err := l.Read(file)
	if err != nil {
		var formatErr *parsererror.InvalidFormatError
		if errors.As(err, &formatErr) {
			formatErr.FilePath = path
		}
		return nil, err
	}

	l.logger.WithFields(
		logging.Field{Key: logging.FieldInputFile, Value: path},
		logging.Field{Key: logging.FieldCount, Value: len(orders)},
	).Info("Loaded work orders")
	return orders, nil
}

// Read decodes work orders from r. The description column is required;
// other columns are optional.
func (l *Loader) Read(r io.Reader) ([]models.WorkOrder, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("error reading work orders: %w", err)
	}

	header, err := common.NewCSVReader(bytes.NewReader(data), l.Delimiter).Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return []models.WorkOrder{}, nil
		}
		return nil, fmt.Errorf("error reading work orders header: %w", err)
	}

	columns := make(map[string]bool, len(header))
	for _, h := range header {
		columns[h] = true
	}
	if !columns[ColumnDescription] {
		return nil, &parsererror.InvalidFormatError{
			ExpectedFormat:       fmt.Sprintf("a %q column", ColumnDescription),
			ActualContentSnippet: strings.Join(header, string(l.Delimiter)),
			Msg:                  "missing description column",
		}
	}
	for _, optional := range []string{ColumnEntry, ColumnOrigin} {
		if !columns[optional] {
			l.logger.WithField("column", optional).Warn("Column not found in work orders export")
		}
	}

	orders, err := common.ReadCSV[models.WorkOrder](bytes.NewReader(data), l.Delimiter)
	if err != nil {
		return nil, fmt.Errorf("error parsing work orders: %w", err)
	}
	if orders == nil {
		orders = []models.WorkOrder{}
	}

	unparsed := Derive(orders)
	for _, perr := range unparsed {
		l.logger.WithError(perr).Debug("Coerced unparseable entry date to missing")
	}
	if len(unparsed) > 0 {
		l.logger.WithFields(
			logging.Field{Key: logging.FieldCount, Value: len(unparsed)},
		).Warn("Work orders with unparseable entry date")
	}

	return orders, nil
}

// Derive fills the parsed timestamps, the month bucket and the dwell hours
// of every work order. Unparseable dates become the zero time. The dwell
// column wins when present; otherwise dwell is exit minus entry. It returns
// a ParseError for every non-empty entry value that could not be parsed.
// Rows are numbered from 1, excluding the header.
func Derive(orders []models.WorkOrder) []*parsererror.ParseError {
	var unparsed []*parsererror.ParseError
	for i := range orders {
		o := &orders[i]
		o.Origem = strings.TrimSpace(o.Origem)
		o.Frota = strings.TrimSpace(o.Frota)
		o.Classe = strings.TrimSpace(o.Classe)
		o.Causa = strings.TrimSpace(o.Causa)

		entry, err := dateutils.ParseDateString(o.EntradaRaw)
		if err != nil {
			unparsed = append(unparsed, &parsererror.ParseError{
				Source: "work orders",
				Row:    i + 1,
				Field:  ColumnEntry,
				Value:  o.EntradaRaw,
				Err:    err,
			})
		}
		o.Entrada = entry
		o.Saida = dateutils.ParseLenient(o.SaidaRaw)
		o.MonthBucket = dateutils.MonthBucket(o.Entrada)

		if strings.TrimSpace(o.DwellRaw) != "" {
			o.DwellHours = models.ParseHours(o.DwellRaw)
		} else {
			o.DwellHours = models.HoursBetween(o.Entrada, o.Saida)
		}
	}
	return unparsed
}

// Write writes the work orders, including the component and method columns, to path.
func (l *Loader) Write(path string, orders []models.WorkOrder) error {
	if orders == nil {
		orders = []models.WorkOrder{}
	}
	return common.WriteCSVFile(path, orders, l.Delimiter, l.logger)
}
