package bundle

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/luapack/luapack/internal/module"
	"github.com/luapack/luapack/internal/replace"
	"github.com/luapack/luapack/internal/testutil"
)

func graphOf(firstParty map[string]string) *module.Graph {
	return &module.Graph{FirstParty: firstParty, Unresolved: map[string]struct{}{}}
}

func generate(t *testing.T, g *module.Graph, ctx Context) string {
	t.Helper()
	if ctx.Version == "" {
		ctx.Version = "9.9.9"
	}
	out, _, err := Generate(g, ctx)
	require.NoError(t, err)
	return out
}

// indexes returns the offset of each needle in s, failing on a missing one.
func indexes(t *testing.T, s string, needles ...string) []int {
	t.Helper()
	out := make([]int, len(needles))
	for i, n := range needles {
		out[i] = strings.Index(s, n)
		require.GreaterOrEqual(t, out[i], 0, "missing %q in:\n%s", n, s)
	}
	return out
}

func TestGenerate_Layout(t *testing.T) {
	dir := t.TempDir()
	b := testutil.WriteFile(t, dir, "src/b.lua", "return 'b'")
	a := testutil.WriteFile(t, dir, "src/a.lua", "return 'a'\n")
	v := testutil.WriteFile(t, dir, "vendor/v.lua", "return 'v'")
	p1 := testutil.WriteFile(t, dir, "p1.lua", "print('one')")
	p2 := testutil.WriteFile(t, dir, "p2.lua", "print('two')")

	out := generate(t, graphOf(map[string]string{"b": b, "a": a}), Context{
		Preludes:    []string{p2, p1},
		Vendor:      map[string]string{"v": v},
		EntrySource: "local a = require('a')",
		EntryPath:   filepath.Join(dir, "main.lua"),
		RedactBase:  dir,
	})

	assert.True(t, strings.HasPrefix(out, "-- luapack bundle v9.9.9 auto-generated: DO NOT EDIT\n"))
	pos := indexes(t, out,
		"-- module: a  (from src/a.lua)\n__B_MODULES['a'] = function(require, ...)\nreturn 'a'\nend\n\n",
		"-- module: b  (from src/b.lua)\n__B_MODULES['b'] = function(require, ...)\nreturn 'b'\nend\n\n",
		"-- vendor module: v  (from vendor/v.lua)\n",
		"-- root module: __root\n__B_MODULES['__root'] = function(require, ...)\nlocal a = require('a')\nend\n\n",
		"-- prelude: p2.lua\nprint('two')\n\n",
		"-- prelude: p1.lua\nprint('one')\n\n",
	)
	for i := 1; i < len(pos); i++ {
		assert.Less(t, pos[i-1], pos[i], "section %d out of order", i)
	}
	assert.True(t, strings.HasSuffix(out, "return __B_REQUIRE('__root')\n"))
	assert.Equal(t, 1, strings.Count(out, "__B_MODULES['__root'] ="))
}

func TestGenerate_EntryModule(t *testing.T) {
	out := generate(t, graphOf(map[string]string{}), Context{Entry: "core.runner"})
	assert.True(t, strings.HasSuffix(out, "return __B_REQUIRE('core.runner')\n"))
	assert.NotContains(t, out, "return __B_REQUIRE('__root')")
}

func TestGenerate_VendorCollisionFirstPartyWins(t *testing.T) {
	dir := t.TempDir()
	first := testutil.WriteFile(t, dir, "src/util.lua", "return 'mine'")
	vendored := testutil.WriteFile(t, dir, "vendor/util.lua", "return 'theirs'")
	foo := testutil.WriteFile(t, dir, "vendor/foo.lua", "return 'foo'")

	out := generate(t, graphOf(map[string]string{"util": first}), Context{
		Vendor: map[string]string{"util": vendored, "foo": foo},
	})

	assert.Equal(t, 1, strings.Count(out, "__B_MODULES['util'] ="))
	assert.Contains(t, out, "return 'mine'")
	assert.NotContains(t, out, "return 'theirs'")
	assert.Contains(t, out, "-- vendor module: foo")
	assert.Contains(t, out, "__B_MODULES['foo'] = function(require, ...)\nreturn 'foo'\n")
}

func TestGenerate_IndexModuleName(t *testing.T) {
	dir := t.TempDir()
	pkg := testutil.WriteFile(t, dir, "src/pkg/init.lua", "return {}")

	out := generate(t, graphOf(map[string]string{"pkg": pkg}), Context{RedactBase: dir})
	assert.Contains(t, out, "-- module: pkg  (from src/pkg/init.lua)\n__B_MODULES['pkg'] =")
}

func TestGenerate_RewritesFirstPartyAndRootOnly(t *testing.T) {
	dir := t.TempDir()
	a := testutil.WriteFile(t, dir, "src/a.lua", "return require('bar.x')")
	v := testutil.WriteFile(t, dir, "vendor/v.lua", "return require('bar.y')")
	rules, err := replace.ParseRules([]string{"match=prefix,prefix=bar.,new=bar_require,arg={rest}"})
	require.NoError(t, err)

	out, n, err := Generate(graphOf(map[string]string{"a": a}), Context{
		Rules:       rules,
		Vendor:      map[string]string{"v": v},
		EntrySource: "require 'bar.z'\n",
		Version:     "1",
	})
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Contains(t, out, "return bar_require('x')")
	assert.Contains(t, out, "return require('bar.y')")
	assert.Contains(t, out, "bar_require 'z'\n")
}

func TestGenerate_BindModes(t *testing.T) {
	router := generate(t, graphOf(nil), Context{Bind: BindRouter})
	assert.Contains(t, router, "__B_REQ_TO_PASS = __B_REQUIRE\n")
	assert.NotContains(t, router, "pcall(require, name)")

	global := generate(t, graphOf(nil), Context{Bind: BindGlobal})
	assert.Contains(t, global, "pcall(require, name)")
}

func TestGenerate_RedactsPathsOutsideBase(t *testing.T) {
	base := t.TempDir()
	other := t.TempDir()
	inside := testutil.WriteFile(t, base, "in.lua", "return 1")
	outside := testutil.WriteFile(t, other, "out.lua", "return 2")
	prelude := testutil.WriteFile(t, other, "prelude.lua", "x = 1")

	out := generate(t, graphOf(map[string]string{"in": inside, "out": outside}), Context{
		RedactBase: base,
		Preludes:   []string{prelude},
	})

	assert.Contains(t, out, "-- module: in  (from in.lua)\n")
	assert.Contains(t, out, "-- module: out\n")
	assert.Contains(t, out, "-- prelude\nx = 1\n")
	assert.NotContains(t, out, other)
}

func TestGenerate_SkipsUnreadablePrelude(t *testing.T) {
	dir := t.TempDir()
	ok := testutil.WriteFile(t, dir, "ok.lua", "ok = true")

	out := generate(t, graphOf(nil), Context{
		Preludes:   []string{filepath.Join(dir, "missing.lua"), ok},
		RedactBase: dir,
	})
	assert.Equal(t, 1, strings.Count(out, "-- prelude"))
	assert.Contains(t, out, "-- prelude: ok.lua\nok = true\n\n")
}

func TestGenerate_CommentsShebang(t *testing.T) {
	dir := t.TempDir()
	a := testutil.WriteFile(t, dir, "a.lua", "#!/usr/bin/env lua\nreturn 1\n")

	out := generate(t, graphOf(map[string]string{"a": a}), Context{
		EntrySource: "#!/usr/bin/lua\nrequire('a')\n",
	})
	assert.Contains(t, out, "function(require, ...)\n--#!/usr/bin/env lua\nreturn 1\nend\n")
	assert.Contains(t, out, "function(require, ...)\n--#!/usr/bin/lua\nrequire('a')\nend\n")
}

func TestGenerate_QuotesNames(t *testing.T) {
	dir := t.TempDir()
	odd := testutil.WriteFile(t, dir, "odd.lua", "return 1")
	out := generate(t, graphOf(map[string]string{"it's": odd}), Context{Entry: "it's"})
	assert.Contains(t, out, `__B_MODULES['it\'s'] =`)
	assert.True(t, strings.HasSuffix(out, `return __B_REQUIRE('it\'s')`+"\n"))
}

func TestGenerate_Deterministic(t *testing.T) {
	dir := t.TempDir()
	mods := map[string]string{}
	for _, n := range []string{"c", "a", "b", "d.e", "d"} {
		mods[n] = testutil.WriteFile(t, dir, n+".lua", "return '"+n+"'")
	}
	ctx := Context{RedactBase: dir}
	first := generate(t, graphOf(mods), ctx)
	for range 5 {
		assert.Equal(t, first, generate(t, graphOf(mods), ctx))
	}
}

func TestParseBindMode(t *testing.T) {
	m, err := ParseBindMode("")
	require.NoError(t, err)
	assert.Equal(t, BindRouter, m)

	m, err = ParseBindMode("global")
	require.NoError(t, err)
	assert.Equal(t, BindGlobal, m)

	_, err = ParseBindMode("sandbox")
	assert.ErrorContains(t, err, `invalid bind mode "sandbox"`)
}

func TestRedactor(t *testing.T) {
	base := t.TempDir()
	r := newRedactor(base)

	rel, ok := r.rel(filepath.Join(base, "a", "b.lua"))
	assert.True(t, ok)
	assert.Equal(t, "a/b.lua", rel)

	_, ok = r.rel(filepath.Dir(base))
	assert.False(t, ok)

	wd, err := os.Getwd()
	require.NoError(t, err)
	rel, ok = newRedactor("").rel(filepath.Join(wd, "x.lua"))
	assert.True(t, ok)
	assert.Equal(t, "x.lua", rel)
}
