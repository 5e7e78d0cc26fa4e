package fileutils_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"fjacquet/maint-report/internal/fileutils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileExists(t *testing.T) {
	tmpDir := t.TempDir()

	testFile := filepath.Join(tmpDir, "test.txt")
	require.NoError(t, os.WriteFile(testFile, []byte("test"), 0600))

	assert.True(t, fileutils.FileExists(testFile))
	assert.False(t, fileutils.FileExists(filepath.Join(tmpDir, "nonexistent.txt")))
	// Directories are not files
	assert.False(t, fileutils.FileExists(tmpDir))
}

func TestDirectoryExists(t *testing.T) {
	tmpDir := t.TempDir()

	assert.True(t, fileutils.DirectoryExists(tmpDir))
	assert.False(t, fileutils.DirectoryExists(filepath.Join(tmpDir, "missing")))
}

func TestWriteFile_CreatesParents(t *testing.T) {
	path := filepath.Join(t.TempDir(), "a", "b", "out.json")

	require.NoError(t, fileutils.WriteFile(path, []byte("{}"), 0600))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "{}", string(data))
}

func TestExpandHome(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(home, ".config"), fileutils.ExpandHome("~/.config"))
	assert.Equal(t, "relative/path", fileutils.ExpandHome("relative/path"))
	assert.Equal(t, "~user/x", fileutils.ExpandHome("~user/x"))
}

func TestFindFile(t *testing.T) {
	first := t.TempDir()
	second := t.TempDir()
	target := filepath.Join(second, "rules.yaml")
	require.NoError(t, os.WriteFile(target, []byte("version: 1"), 0600))

	found, err := fileutils.FindFile("rules.yaml", []string{first, second})
	require.NoError(t, err)
	assert.Equal(t, target, found)

	found, err = fileutils.FindFile(target, nil)
	require.NoError(t, err)
	assert.Equal(t, target, found)

	_, err = fileutils.FindFile("missing.yaml", []string{first, second})
	assert.True(t, errors.Is(err, os.ErrNotExist))

	_, err = fileutils.FindFile(filepath.Join(first, "missing.yaml"), nil)
	assert.True(t, errors.Is(err, os.ErrNotExist))
}
