package pipeline

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/luapack/luapack/internal/bundle"
	lperrors "github.com/luapack/luapack/internal/errors"
	"github.com/luapack/luapack/internal/testutil"
)

func luaPaths(dir string) []string {
	return []string{
		filepath.Join(dir, "lua", "?.lua"),
		filepath.Join(dir, "lua", "?", "init.lua"),
	}
}

func TestBundle_InitSearch(t *testing.T) {
	dir := testutil.CopyFixture(t, "init_search")

	res, err := Bundle(context.Background(), Options{
		InputPath:  filepath.Join(dir, "lua", "main.lua"),
		Paths:      luaPaths(dir),
		RedactBase: dir,
	})
	require.NoError(t, err)

	want := map[string]string{
		"pkg":        filepath.Join(dir, "lua", "pkg", "init.lua"),
		"pkg.helper": filepath.Join(dir, "lua", "pkg", "helper.lua"),
		"util":       filepath.Join(dir, "lua", "util.lua"),
	}
	if diff := cmp.Diff(want, res.Graph.FirstParty); diff != "" {
		t.Errorf("first-party mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, []string{"init"}, res.Normalizer.Suffixes())
	assert.Contains(t, res.Bundle, "-- module: pkg  (from lua/pkg/init.lua)\n__B_MODULES['pkg'] = function(require, ...)\n")
	assert.Empty(t, res.Warnings)
	assert.Zero(t, res.Rewrites)
}

func TestBundle_ReplaceExact(t *testing.T) {
	dir := testutil.CopyFixture(t, "replace_exact")

	res, err := Bundle(context.Background(), Options{
		InputPath: filepath.Join(dir, "lua", "main.lua"),
		Paths:     luaPaths(dir),
		Replace:   []string{"match=exact,name=core.greet,new=greet_require"},
	})
	require.NoError(t, err)

	assert.Equal(t, 1, res.Rewrites)
	assert.Contains(t, res.Bundle, "local greet = greet_require('core.greet')\n")
	assert.Contains(t, res.Bundle, "local fmt = require('core.fmt')\n")
	assert.Contains(t, res.Bundle, "__B_MODULES['core.fmt'] =")
	assert.Equal(t, []string{"unresolved module: core.greet"}, res.Warnings)
}

func TestBundle_ReplacePrefix(t *testing.T) {
	dir := testutil.CopyFixture(t, "replace_prefix")

	res, err := Bundle(context.Background(), Options{
		InputPath: filepath.Join(dir, "lua", "main.lua"),
		Paths:     luaPaths(dir),
		Replace:   []string{"match=prefix,prefix=bar.,new=bar_require,arg={rest}"},
	})
	require.NoError(t, err)

	assert.Equal(t, 2, res.Rewrites)
	assert.Contains(t, res.Bundle, "local tablex = bar_require('common.tablex')\n")
	assert.Contains(t, res.Bundle, `local list = bar_require "common.list"`)
	assert.Contains(t, res.Bundle, "return require('bar.untouched'), list")
}

func TestBundle_VendorOnly(t *testing.T) {
	dir := testutil.CopyFixture(t, "vendor_only")
	spec := "path=" + filepath.Join(dir, "vendor", "?.lua") +
		",path=" + filepath.Join(dir, "vendor", "?", "init.lua") +
		",exclude=prefix:test."

	res, err := Bundle(context.Background(), Options{
		InputPath: filepath.Join(dir, "lua", "main.lua"),
		Vendors:   []string{spec},
	})
	require.NoError(t, err)

	assert.Empty(t, res.Graph.FirstParty)
	assert.Equal(t, []string{"foo", "mock_recoil"}, res.Vendor.Names())
	assert.Contains(t, res.Bundle, "__B_MODULES['foo'] = function(require, ...)\n")
	assert.Equal(t, 1, strings.Count(res.Bundle, "__B_MODULES['mock_recoil'] ="))
	assert.NotContains(t, res.Bundle, "mock_recoil.init")
	assert.NotContains(t, res.Bundle, "excluded")
	assert.Contains(t, res.Warnings, "unresolved module: foo")
	assert.Contains(t, res.Warnings, "duplicate vendor module: mock_recoil")
}

func TestBundle_VendorReplacedByRule(t *testing.T) {
	dir := testutil.CopyFixture(t, "vendor_only")

	res, err := Bundle(context.Background(), Options{
		InputPath: filepath.Join(dir, "lua", "main.lua"),
		Vendors:   []string{filepath.Join(dir, "vendor", "?.lua")},
		Replace:   []string{"match=exact,name=foo,new=host_require"},
	})
	require.NoError(t, err)

	assert.NotContains(t, res.Bundle, "__B_MODULES['foo']")
	assert.Contains(t, res.Bundle, "local foo = host_require('foo')")
}

func TestBundle_PreludesOrder(t *testing.T) {
	dir := testutil.CopyFixture(t, "preludes_order")

	res, err := Bundle(context.Background(), Options{
		InputPath:  filepath.Join(dir, "lua", "main.lua"),
		Preludes:   []string{filepath.Join(dir, "preludes", "second.lua"), filepath.Join(dir, "preludes", "first.lua")},
		RedactBase: dir,
	})
	require.NoError(t, err)

	root := strings.Index(res.Bundle, "__B_MODULES['__root']")
	second := strings.Index(res.Bundle, "-- prelude: preludes/second.lua")
	first := strings.Index(res.Bundle, "-- prelude: preludes/first.lua")
	require.True(t, root >= 0 && second >= 0 && first >= 0, res.Bundle)
	assert.Less(t, root, second)
	assert.Less(t, second, first)
}

func TestBundle_EntryModule(t *testing.T) {
	dir := testutil.CopyFixture(t, "entry_module")

	res, err := Bundle(context.Background(), Options{
		InputPath: filepath.Join(dir, "lua", "main.lua"),
		Paths:     luaPaths(dir),
		Entry:     "core.runner",
		Bind:      bundle.BindGlobal,
	})
	require.NoError(t, err)

	assert.True(t, strings.HasSuffix(res.Bundle, "return __B_REQUIRE('core.runner')\n"))
	assert.Contains(t, res.Bundle, "pcall(require, name)")
}

func TestPlan_Unresolved(t *testing.T) {
	dir := testutil.CopyFixture(t, "unresolved")

	res, err := Plan(context.Background(), Options{
		InputPath: filepath.Join(dir, "lua", "main.lua"),
		Paths:     luaPaths(dir),
	})
	require.NoError(t, err)

	assert.Empty(t, res.Bundle)
	assert.Equal(t, []string{"a", "b"}, res.Graph.Names())
	assert.Equal(t, []string{"cjson"}, res.Graph.UnresolvedNames())
	assert.Equal(t, []string{"unresolved module: cjson"}, res.Warnings)
	require.Len(t, res.Requires, 2)
	assert.Equal(t, "cjson", res.Requires[0].Module)
	assert.Equal(t, 1, res.Requires[0].Line)
}

func TestBundle_UnparsableEntryStillBundles(t *testing.T) {
	dir := t.TempDir()
	input := testutil.WriteFile(t, dir, "main.lua", "local = require('x')")

	res, err := Bundle(context.Background(), Options{InputPath: input})
	require.NoError(t, err)
	require.Error(t, res.ParseError)
	require.Len(t, res.Warnings, 1)
	assert.Contains(t, res.Warnings[0], "'<name>' expected")
	assert.Contains(t, res.Bundle, "__B_MODULES['__root']")
}

func TestBundle_Errors(t *testing.T) {
	dir := t.TempDir()
	input := testutil.WriteFile(t, dir, "main.lua", "return 1")

	tests := []struct {
		name     string
		opts     Options
		sentinel error
		msg      string
	}{
		{
			name:     "missing input",
			opts:     Options{InputPath: filepath.Join(dir, "absent.lua")},
			sentinel: lperrors.ErrNotFound,
		},
		{
			name:     "bad replace rule",
			opts:     Options{InputPath: input, Replace: []string{"match=glob,new=x"}},
			sentinel: lperrors.ErrValidation,
		},
		{
			name:     "bad vendor spec",
			opts:     Options{InputPath: input, Vendors: []string{"path=v/?.lua,bogus=1"}},
			sentinel: lperrors.ErrValidation,
		},
		{
			name:     "missing vendor root",
			opts:     Options{InputPath: input, Vendors: []string{filepath.Join(dir, "nope", "?.lua")}},
			sentinel: lperrors.ErrNotFound,
		},
		{
			name:     "bad bind mode",
			opts:     Options{InputPath: input, Bind: "sandbox"},
			sentinel: lperrors.ErrValidation,
		},
		{
			name: "bad dialect",
			opts: Options{InputPath: input, Lua: "6.0"},
			msg:  "unsupported lua dialect",
		},
		{
			name: "no input",
			opts: Options{},
			msg:  "input path is required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Bundle(context.Background(), tt.opts)
			require.Error(t, err)
			if tt.sentinel != nil {
				assert.ErrorIs(t, err, tt.sentinel)
			}
			if tt.msg != "" {
				assert.ErrorContains(t, err, tt.msg)
			}
		})
	}
}

func TestBundle_Canceled(t *testing.T) {
	dir := t.TempDir()
	input := testutil.WriteFile(t, dir, "main.lua", "return 1")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := Bundle(ctx, Options{InputPath: input})
	assert.ErrorIs(t, err, context.Canceled)
}
