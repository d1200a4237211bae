package cmd

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/luapack/luapack/internal/version"
)

func TestNewVersionCmd(t *testing.T) {
	cmd := NewVersionCmd()

	assert.Equal(t, "version", cmd.Use)
	assert.NotEmpty(t, cmd.Short)
	assert.NotEmpty(t, cmd.Long)
}

func TestVersionCmd_Execute(t *testing.T) {
	stdout, _, err := execute(t, "version")
	require.NoError(t, err)
	assert.Contains(t, stdout, version.Version)
	assert.Contains(t, stdout, "Lua:")
}

func TestVersionCmd_JSON(t *testing.T) {
	stdout, _, err := execute(t, "version", "--json")
	require.NoError(t, err)

	var got map[string]any
	require.NoError(t, json.Unmarshal([]byte(stdout), &got))
	assert.Equal(t, version.Version, got["version"])
	assert.Contains(t, got, "lua")
}
