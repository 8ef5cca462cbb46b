package fs

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileExists(t *testing.T) {
	f := New()
	dir := t.TempDir()

	path := filepath.Join(dir, "sample.txt")
	require.NoError(t, f.WriteFile(path, "data"))

	ok, err := f.FileExists(path)
	assert.NoError(t, err)
	assert.True(t, ok)

	ok, err = f.FileExists(filepath.Join(dir, "missing.txt"))
	assert.NoError(t, err)
	assert.False(t, ok)

	// A directory is not a file.
	ok, err = f.FileExists(dir)
	assert.NoError(t, err)
	assert.False(t, ok)
}

func TestDirExists(t *testing.T) {
	f := New()
	dir := t.TempDir()

	ok, err := f.DirExists(dir)
	assert.NoError(t, err)
	assert.True(t, ok)

	ok, err = f.DirExists(filepath.Join(dir, "missing"))
	assert.NoError(t, err)
	assert.False(t, ok)
}

func TestReadWriteRemove(t *testing.T) {
	f := New()
	path := filepath.Join(t.TempDir(), "sample.txt")

	require.NoError(t, f.WriteFile(path, "data"))
	data, err := f.ReadFile(path)
	assert.NoError(t, err)
	assert.Equal(t, "data", string(data))

	assert.NoError(t, f.Remove(path))
	_, err = f.ReadFile(path)
	assert.Error(t, err)
}

func TestMkdirAllAndTempFile(t *testing.T) {
	f := New()
	dir := filepath.Join(t.TempDir(), "a", "b")

	require.NoError(t, f.MkdirAll(dir))
	file, err := f.TempFile(dir, "")
	require.NoError(t, err)
	defer file.Close()

	ok, err := f.FileExists(file.Name())
	assert.NoError(t, err)
	assert.True(t, ok)
}
