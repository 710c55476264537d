package helpers_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/rawbytedev/domainstore/helpers"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPathExists(t *testing.T) {
	dir := t.TempDir()
	assert.True(t, helpers.PathExists(dir))
	assert.False(t, helpers.PathExists(filepath.Join(dir, "missing")))

	file := filepath.Join(dir, "f")
	require.NoError(t, os.WriteFile(file, []byte("x"), 0o600))
	assert.True(t, helpers.PathExists(file))
}

func TestIsReadable(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "f")
	require.NoError(t, os.WriteFile(file, []byte("x"), 0o600))

	assert.True(t, helpers.IsReadable(dir))
	assert.True(t, helpers.IsReadable(file))
	assert.False(t, helpers.IsReadable(filepath.Join(dir, "missing")))
}

func TestMovePath(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "src")
	dst := filepath.Join(dir, "dst")
	require.NoError(t, os.MkdirAll(filepath.Join(src, "nested"), 0o700))

	require.NoError(t, helpers.MovePath(src, dst))
	assert.False(t, helpers.PathExists(src))
	assert.True(t, helpers.PathExists(filepath.Join(dst, "nested")))
}

func TestRemovePath(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "target")
	require.NoError(t, os.MkdirAll(filepath.Join(target, "nested"), 0o700))
	require.NoError(t, os.WriteFile(filepath.Join(target, "nested", "f"), []byte("x"), 0o600))

	require.NoError(t, helpers.RemovePath(target))
	assert.False(t, helpers.PathExists(target))

	// Removing a missing path is not an error.
	require.NoError(t, helpers.RemovePath(target))
}

func TestChmod(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, helpers.Chmod(dir, 0o700))

	info, err := os.Stat(dir)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o700), info.Mode().Perm())
}
