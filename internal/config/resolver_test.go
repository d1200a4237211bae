package config

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/luapack/luapack/internal/testutil"
)

func TestResolveConfigPath_FlagPrecedence(t *testing.T) {
	t.Setenv(EnvConfig, "/env/luapack.toml")

	result := ResolveConfigPath(ResolveConfigPathOptions{FlagValue: "/flag/luapack.toml"})

	assert.Equal(t, "/flag/luapack.toml", result.ConfigPath)
	assert.Equal(t, SourceFlag, result.Source)
	assert.Equal(t, "/env/luapack.toml", result.Shadowed[SourceEnv])
}

func TestResolveConfigPath_EnvPrecedence(t *testing.T) {
	dir := t.TempDir()
	testutil.WriteFile(t, dir, "luapack.toml", "")
	t.Setenv(EnvConfig, "/env/luapack.toml")

	result := ResolveConfigPath(ResolveConfigPathOptions{WorkDir: dir})

	assert.Equal(t, "/env/luapack.toml", result.ConfigPath)
	assert.Equal(t, SourceEnv, result.Source)
	assert.Empty(t, result.Shadowed)
}

func TestResolveConfigPath_Discovery(t *testing.T) {
	t.Setenv(EnvConfig, "")
	dir := t.TempDir()

	result := ResolveConfigPath(ResolveConfigPathOptions{WorkDir: dir})
	assert.Empty(t, result.ConfigPath)
	assert.Equal(t, SourceDefault, result.Source)

	testutil.WriteFile(t, dir, "luapack.cue", "")
	result = ResolveConfigPath(ResolveConfigPathOptions{WorkDir: dir})
	assert.Equal(t, filepath.Join(dir, "luapack.cue"), result.ConfigPath)
}

func valueFor(t *testing.T, r *ResolvedBundle, key string) ResolvedValue {
	t.Helper()
	for _, v := range r.Values {
		if v.Key == key {
			return v
		}
	}
	t.Fatalf("no resolved value for %q", key)
	return ResolvedValue{}
}

func TestResolveBundle_Precedence(t *testing.T) {
	cfg := &Config{
		Bundle: BundleConfig{
			Lua:         "5.3",
			Paths:       []string{"/cfg/src/?.lua"},
			BindRequire: "global",
			Diagnostics: true,
		},
		sources: map[string]ConfigSource{"bind_require": SourceEnv},
	}

	r := ResolveBundle(BundleFlags{
		Lua:   "5.4",
		Paths: []string{"lib/?.lua"},
	}, cfg)

	assert.Equal(t, "5.4", r.Lua)
	assert.Equal(t, []string{"lib/?.lua"}, r.Paths, "flag lists replace config lists")
	assert.Equal(t, "global", r.BindRequire)
	assert.True(t, r.Diagnostics)

	lua := valueFor(t, r, "lua")
	assert.Equal(t, SourceFlag, lua.Source)
	assert.Equal(t, "5.3", lua.Shadowed[SourceConfig])

	bind := valueFor(t, r, "bind_require")
	assert.Equal(t, SourceEnv, bind.Source)

	diag := valueFor(t, r, "diagnostics")
	assert.Equal(t, SourceConfig, diag.Source)
}

func TestResolveBundle_Defaults(t *testing.T) {
	r := ResolveBundle(BundleFlags{}, nil)

	assert.Equal(t, DefaultLua, r.Lua)
	assert.Equal(t, DefaultBindRequire, r.BindRequire)
	assert.Empty(t, r.Paths)
	assert.Empty(t, r.Output)
	assert.False(t, r.Diagnostics)
	assert.Equal(t, SourceDefault, valueFor(t, r, "lua").Source)
	assert.Equal(t, SourceDefault, valueFor(t, r, "vendors").Source)
}

func TestResolveBundle_DiagnosticsFlagFalseDoesNotCancel(t *testing.T) {
	r := ResolveBundle(BundleFlags{Diagnostics: false}, &Config{Bundle: BundleConfig{Diagnostics: true}})
	assert.True(t, r.Diagnostics)
}
