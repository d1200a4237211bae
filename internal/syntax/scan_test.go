package syntax

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func modules(reqs []Require) []string {
	var out []string
	for _, r := range reqs {
		out = append(out, r.Module)
	}
	return out
}

func TestFindRequires(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want []string
	}{
		{
			name: "call forms",
			src:  "local a = require(\"a\")\nlocal b = require 'b'\nrequire [[c]]\n",
			want: []string{"a", "b", "c"},
		},
		{
			name: "nested in expressions",
			src:  "return { x = require('x').field, f = function() return require('y') end }",
			want: []string{"x", "y"},
		},
		{
			name: "chained call keeps the first",
			src:  "require('a')('b')",
			want: []string{"a"},
		},
		{
			name: "extra argument",
			src:  "require('a', 'b')",
			want: nil,
		},
		{
			name: "non literal argument",
			src:  "require(name); require('a' .. b); require(('c'))",
			want: nil,
		},
		{
			name: "qualified callee",
			src:  "x.require('a'); obj:require('b'); (require)('c')",
			want: nil,
		},
		{
			name: "shadowed by local",
			src:  "local require = function() end\nrequire('x')",
			want: nil,
		},
		{
			name: "shadowing is order sensitive",
			src:  "require('a')\nlocal require = nil\nrequire('b')",
			want: []string{"a"},
		},
		{
			name: "local initializer sees the outer binding",
			src:  "local require = require('a')\nrequire('b')",
			want: []string{"a"},
		},
		{
			name: "shadowing ends with its block",
			src:  "do local require = f end\nrequire('c')",
			want: []string{"c"},
		},
		{
			name: "parameter shadows",
			src:  "local function f(require) return require('x') end\nrequire('y')",
			want: []string{"y"},
		},
		{
			name: "local function shadows its own body",
			src:  "local function require(n) return require('inner') end\nrequire('z')",
			want: nil,
		},
		{
			name: "global function declaration shadows",
			src:  "require('before')\nfunction require(n) end\nrequire('after')",
			want: []string{"before"},
		},
		{
			name: "qualified function declaration does not shadow",
			src:  "function M.require(n) end\nrequire('ok')",
			want: []string{"ok"},
		},
		{
			name: "loop variables",
			src:  "for require in pairs(t) do require('x') end\nfor require = 1, 2 do require('y') end\nrequire('z')",
			want: []string{"z"},
		},
		{
			name: "repeat condition sees body locals",
			src:  "repeat local require = g until require('r')",
			want: nil,
		},
		{
			name: "assignment does not declare",
			src:  "require = nil\nrequire('still')",
			want: []string{"still"},
		},
		{
			name: "goto used as a name",
			src:  "local goto = 1\nt.goto = require('a')\nlocal u = {goto = require('b')}\nrequire('c')",
			want: []string{"a", "b", "c"},
		},
		{
			name: "goto statement",
			src:  "for i = 1, 2 do goto skip; require('x') ::skip:: end",
			want: []string{"x"},
		},
		{
			name: "parse error yields nothing",
			src:  "local x = require('a')\nlocal = ",
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, modules(FindRequires(tt.src)))
		})
	}
}

func TestFindRequires_Positions(t *testing.T) {
	reqs := FindRequires("local x = 1\n  require('a')\nlocal y = require \"b\"")
	assert.Equal(t, []Require{
		{Module: "a", Line: 2, Col: 3},
		{Module: "b", Line: 3, Col: 11},
	}, reqs)
}

func TestScope_Declared(t *testing.T) {
	root := NewScope(nil)
	root.Declare("a")
	child := NewScope(root)
	child.Declare("b")

	assert.True(t, child.Declared("a"))
	assert.True(t, child.Declared("b"))
	assert.False(t, root.Declared("b"))
	assert.False(t, child.Declared("c"))
}
