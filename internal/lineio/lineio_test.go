package lineio

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teranos/erbench/errors"
)

func TestReadLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "in.txt")
	require.NoError(t, os.WriteFile(path, []byte("  first  \n\n\t\nsecond\n   \nthird"), 0644))

	lines, err := ReadLines(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"first", "second", "third"}, lines)
}

func TestReadLines_Missing(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing.txt")

	_, err := ReadLines(path)
	require.Error(t, err)
	assert.True(t, errors.IsFileUnavailable(err))
	assert.Contains(t, err.Error(), path)
}

func TestCreateTruncates(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.txt")
	require.NoError(t, os.WriteFile(path, []byte("stale\n"), 0644))

	w, err := Create(path)
	require.NoError(t, err)
	require.NoError(t, w.WriteLine("a\tb"))
	require.NoError(t, w.WriteLine("c\td"))
	assert.Equal(t, 2, w.Lines())
	assert.Equal(t, path, w.Path())
	require.NoError(t, w.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "a\tb\nc\td\n", string(data))
}

func TestWriteLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "w.txt")
	require.NoError(t, WriteLines(path, []string{"x", "y"}))
	require.NoError(t, WriteLines(path, []string{"z"}))

	lines, err := ReadLines(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"z"}, lines)
}

func TestCreate_Unwritable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "no", "such", "dir", "out.txt")

	_, err := Create(path)
	require.Error(t, err)
	assert.True(t, errors.IsFileUnavailable(err))
}
