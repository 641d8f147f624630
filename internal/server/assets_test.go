package server

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveAssetsDirFrom(t *testing.T) {
	root := t.TempDir()
	web := filepath.Join(root, "web")
	require.NoError(t, os.Mkdir(web, 0o755))
	bin := filepath.Join(root, "bin")
	require.NoError(t, os.Mkdir(bin, 0o755))

	dir, ok := resolveAssetsDirFrom(root)
	require.True(t, ok)
	assert.Equal(t, web, dir)

	dir, ok = resolveAssetsDirFrom(bin)
	require.True(t, ok)
	assert.Equal(t, web, dir)

	_, ok = resolveAssetsDirFrom(t.TempDir())
	assert.False(t, ok)
}

func TestResolveConfiguredAssetsDir(t *testing.T) {
	dir := t.TempDir()
	got, err := ResolveAssetsDir(dir)
	require.NoError(t, err)
	assert.Equal(t, dir, got)

	_, err = ResolveAssetsDir(filepath.Join(dir, "missing"))
	assert.ErrorIs(t, err, os.ErrNotExist)

	file := filepath.Join(dir, "index.html")
	require.NoError(t, os.WriteFile(file, nil, 0o644))
	_, err = ResolveAssetsDir(file)
	assert.Error(t, err)
}
