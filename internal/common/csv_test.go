package common

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"fjacquet/maint-report/internal/logging"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestCSVRow represents a test CSV row for gocsv unmarshaling
type TestCSVRow struct {
	Name    string `csv:"Name"`
	Age     string `csv:"Age"`
	Country string `csv:"País"`
}

func TestReadCSV_TrimsHeaders(t *testing.T) {
	in := utf8BOM + " Name ;Age ; País \nJoão;30;Brasil\n"

	rows, err := ReadCSV[TestCSVRow](strings.NewReader(in), ';')
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "João", rows[0].Name)
	assert.Equal(t, "30", rows[0].Age)
	assert.Equal(t, "Brasil", rows[0].Country)
}

func TestReadCSV_UnevenRowsAndExtraColumns(t *testing.T) {
	in := "Name,Extra,Age\nJoão,x\nAna,y,25,overflow\n"

	rows, err := ReadCSV[TestCSVRow](strings.NewReader(in), ',')
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "João", rows[0].Name)
	assert.Equal(t, "", rows[0].Age)
	assert.Equal(t, "25", rows[1].Age)
}

func TestWriteCSV_RoundTripWithDelimiter(t *testing.T) {
	rows := []TestCSVRow{{Name: "João", Age: "30", Country: "Brasil"}}

	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, rows, ';'))
	assert.Equal(t, "Name;Age;País\nJoão;30;Brasil\n", buf.String())

	back, err := ReadCSV[TestCSVRow](&buf, ';')
	require.NoError(t, err)
	assert.Equal(t, rows, back)
}

func TestWriteCSVFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "out.csv")
	logger := logging.NewMockLogger()

	require.NoError(t, WriteCSVFile(path, []TestCSVRow{{Name: "Ana"}}, ',', logger))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "Name,Age,País\nAna,,\n", string(data))
	assert.True(t, logger.HasEntry("INFO", "Wrote CSV file"))

	err = WriteCSVFile[TestCSVRow](path, nil, ',', logger)
	assert.Error(t, err)
}

func TestParseDelimiter(t *testing.T) {
	tests := []struct {
		in      string
		want    rune
		wantErr bool
	}{
		{"", ',', false},
		{",", ',', false},
		{";", ';', false},
		{`\t`, '\t', false},
		{"|", '|', false},
		{";;", 0, true},
		{`"`, 0, true},
		{"\n", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseDelimiter(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
