package common

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTable(t *testing.T) {
	var buf bytes.Buffer
	table := NewTable(&buf, "Category", "Rule")
	table.Row("Freio", "freio")
	table.Row("Motor")
	require.NoError(t, table.Flush())

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, lines, 4)
	assert.Contains(t, lines[0], "Category")
	assert.Contains(t, lines[1], "--------")
	assert.Contains(t, lines[2], "freio")
	assert.True(t, strings.HasSuffix(strings.TrimSpace(lines[3]), "-"))
}

func TestWriteOutput(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteOutput(&buf, "", []byte("stdout")))
	require.NoError(t, WriteOutput(&buf, "-", []byte("!")))
	assert.Equal(t, "stdout!", buf.String())

	path := filepath.Join(t.TempDir(), "out", "report.json")
	require.NoError(t, WriteOutput(&buf, path, []byte("{}")))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "{}", string(data))
}
