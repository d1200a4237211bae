package cmdutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteBundle_CreatesDirectories(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dist", "nested", "bundle.lua")
	require.NoError(t, WriteBundle(path, "return 1\n"))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "return 1\n", string(data))
}

func TestCheckBundle(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bundle.lua")

	diff, err := CheckBundle(path, "return 1\n")
	require.NoError(t, err)
	assert.Contains(t, diff, "+return 1", "missing bundle is stale")

	require.NoError(t, WriteBundle(path, "return 1\n"))
	diff, err = CheckBundle(path, "return 1\n")
	require.NoError(t, err)
	assert.Empty(t, diff)

	diff, err = CheckBundle(path, "return 2\n")
	require.NoError(t, err)
	assert.Contains(t, diff, "-return 1")
	assert.Contains(t, diff, "+return 2")
}
