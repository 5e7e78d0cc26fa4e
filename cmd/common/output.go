// Package common contains shared functionality for command handlers
package common

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"fjacquet/maint-report/internal/fileutils"
	"fjacquet/maint-report/internal/models"

	"github.com/charmbracelet/lipgloss"
)

var (
	// HeaderStyle renders table headers.
	HeaderStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("86"))
	// MutedStyle renders placeholders and secondary values.
	MutedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	// MatchStyle renders a successful strategy result.
	MatchStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
)

// Table writes aligned rows with a styled header.
type Table struct {
	w       *tabwriter.Writer
	columns int
}

// NewTable writes the header and an underline for each column to out.
func NewTable(out io.Writer, headers ...string) *Table {
	t := &Table{w: tabwriter.NewWriter(out, 0, 0, 2, ' ', 0), columns: len(headers)}

	styled := make([]string, len(headers))
	rules := make([]string, len(headers))
	for i, h := range headers {
		styled[i] = HeaderStyle.Render(h)
		rules[i] = strings.Repeat("-", max(len([]rune(h)), 4))
	}
	fmt.Fprintln(t.w, strings.Join(styled, "\t"))
	fmt.Fprintln(t.w, strings.Join(rules, "\t"))
	return t
}

// Row writes one row. Missing cells are left blank and empty cells show a
// muted dash.
func (t *Table) Row(cells ...string) {
	row := make([]string, t.columns)
	for i := range row {
		if i < len(cells) && cells[i] != "" {
			row[i] = cells[i]
		} else {
			row[i] = MutedStyle.Render("-")
		}
	}
	fmt.Fprintln(t.w, strings.Join(row, "\t"))
}

// Flush writes the buffered table.
func (t *Table) Flush() error {
	return t.w.Flush()
}

// WriteOutput writes data to path, or to out when path is empty or "-".
func WriteOutput(out io.Writer, path string, data []byte) error {
	if path == "" || path == "-" {
		_, err := out.Write(data)
		return err
	}
	if err := fileutils.WriteFile(path, data, models.PermissionReportFile); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}
