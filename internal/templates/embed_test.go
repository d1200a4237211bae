package templates

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"github.com/pelletier/go-toml/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestValidConfigFormats(t *testing.T) {
	formats := ValidConfigFormats()
	assert.Equal(t, []string{"toml", "yaml", "json", "cue"}, formats)
}

func TestIsValidConfigFormat(t *testing.T) {
	tests := []struct {
		name   string
		format string
		want   bool
	}{
		{"toml is valid", "toml", true},
		{"cue is valid", "cue", true},
		{"yml is not a format name", "yml", false},
		{"empty is invalid", "", false},
		{"TOML case-sensitive", "TOML", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsValidConfigFormat(tt.format))
		})
	}
}

type renderedConfig struct {
	Bundle struct {
		Lua         string   `json:"lua" yaml:"lua" toml:"lua"`
		Paths       []string `json:"paths" yaml:"paths" toml:"paths"`
		Vendors     []string `json:"vendors" yaml:"vendors" toml:"vendors"`
		Output      string   `json:"output" yaml:"output" toml:"output"`
		BindRequire string   `json:"bind_require" yaml:"bind_require" toml:"bind_require"`
		Diagnostics bool     `json:"diagnostics" yaml:"diagnostics" toml:"diagnostics"`
	} `json:"bundle" yaml:"bundle" toml:"bundle"`
	Log struct {
		Timestamps bool `json:"timestamps" yaml:"timestamps" toml:"timestamps"`
	} `json:"log" yaml:"log" toml:"log"`
}

func decodeRendered(t *testing.T, format ConfigFormat, content string) renderedConfig {
	t.Helper()
	var cfg renderedConfig
	switch format {
	case TOML:
		require.NoError(t, toml.Unmarshal([]byte(content), &cfg))
	case YAML:
		require.NoError(t, yaml.Unmarshal([]byte(content), &cfg))
	case JSON:
		require.NoError(t, json.Unmarshal([]byte(content), &cfg))
	case CUE:
		v := cuecontext.New().CompileString(content)
		require.NoError(t, v.Err())
		require.NoError(t, v.Validate(cue.Concrete(true)))
		require.NoError(t, v.Decode(&cfg))
	}
	return cfg
}

func TestRenderConfig_AllFormatsDecode(t *testing.T) {
	data := DefaultConfigData()
	data.Vendors = []string{`path=vendor/?.lua,exclude=name:"odd"`}
	data.Diagnostics = true

	for _, f := range ValidConfigFormats() {
		t.Run(f, func(t *testing.T) {
			content, err := RenderConfig(ConfigFormat(f), data)
			require.NoError(t, err)

			cfg := decodeRendered(t, ConfigFormat(f), content)
			assert.Equal(t, "5.4", cfg.Bundle.Lua)
			assert.Equal(t, []string{"src/?.lua", "src/?/init.lua"}, cfg.Bundle.Paths)
			assert.Equal(t, data.Vendors, cfg.Bundle.Vendors)
			assert.Equal(t, "dist/bundle.lua", cfg.Bundle.Output)
			assert.Equal(t, "router", cfg.Bundle.BindRequire)
			assert.True(t, cfg.Bundle.Diagnostics)
			assert.True(t, cfg.Log.Timestamps)
		})
	}
}

func TestRenderConfig_UnknownFormat(t *testing.T) {
	_, err := RenderConfig("ini", DefaultConfigData())
	assert.ErrorContains(t, err, "unknown config format")
}

func TestRenderLoader(t *testing.T) {
	router, err := RenderLoader(LoaderData{Version: "1.2.3"})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(router, "-- luapack bundle v1.2.3 auto-generated: DO NOT EDIT\n"))
	assert.Contains(t, router, "error('module not found: ' .. name)")
	assert.Contains(t, router, "__B_LOADED[name] = __B_EMPTY")
	assert.True(t, strings.HasSuffix(router, "end\n\n__B_REQ_TO_PASS = __B_REQUIRE\n\n"))
	assert.NotContains(t, router, "pcall")

	global, err := RenderLoader(LoaderData{Version: "1.2.3", Global: true})
	require.NoError(t, err)
	assert.Contains(t, global, "local ok, mod = pcall(require, name)")
	assert.True(t, strings.HasSuffix(global, "end)()\n\n"))
}

func TestGenerator(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "project")

	res, err := NewGenerator(GenerateOptions{TargetDir: dir}).Generate()
	require.NoError(t, err)
	assert.Equal(t, TOML, res.Format)
	assert.Equal(t, filepath.Join(dir, "luapack.toml"), res.Path)
	assert.FileExists(t, res.Path)

	_, err = NewGenerator(GenerateOptions{TargetDir: dir}).Generate()
	assert.ErrorContains(t, err, "already exists")

	require.NoError(t, os.WriteFile(res.Path, []byte("stale"), 0o644))
	_, err = NewGenerator(GenerateOptions{TargetDir: dir, Force: true}).Generate()
	require.NoError(t, err)
	content, err := os.ReadFile(res.Path)
	require.NoError(t, err)
	assert.Contains(t, string(content), "[bundle]")
}

func TestGenerator_TargetIsFile(t *testing.T) {
	file := filepath.Join(t.TempDir(), "file")
	require.NoError(t, os.WriteFile(file, nil, 0o644))

	_, err := NewGenerator(GenerateOptions{TargetDir: file, Format: YAML}).Generate()
	assert.ErrorContains(t, err, "is not a directory")
}
