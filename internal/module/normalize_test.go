package module

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizer_Normalize(t *testing.T) {
	n := NewNormalizer("init", "lib")

	tests := []struct {
		in   string
		want string
	}{
		{"pkg.init", "pkg"},
		{"pkg", "pkg"},
		{"a.b.init", "a.b"},
		{"a.init.init", "a"},
		{"a.lib.init", "a"},
		{"init", "init"},
		{"a.initial", "a.initial"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got := n.Normalize(tt.in)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, got, n.Normalize(got), "normalize must be idempotent")
		})
	}
}

func TestNormalizer_Empty(t *testing.T) {
	assert.Equal(t, "pkg.init", NewNormalizer().Normalize("pkg.init"))

	var n *Normalizer
	assert.Equal(t, "pkg.init", n.Normalize("pkg.init"))
	assert.Nil(t, n.Suffixes())
}

func TestNormalizer_Suffixes(t *testing.T) {
	n := NewNormalizer("lib", "", "init", "lib")
	assert.Equal(t, []string{"init", "lib"}, n.Suffixes())
}

func TestInferSuffixes(t *testing.T) {
	tests := []struct {
		name string
		src  SuffixSources
		want []string
	}{
		{"none", SuffixSources{Paths: []string{"src/?.lua"}}, nil},
		{"first party index", SuffixSources{Paths: []string{"src/?.lua", "src/?/init.lua"}}, []string{"init"}},
		{"vendor index", SuffixSources{VendorPaths: []string{"vendor/?/init.lua"}}, []string{"init"}},
		{"rule pattern", SuffixSources{RulePatterns: []string{"/abs/?/init.lua"}}, []string{"init"}},
		{"explicit suffixes", SuffixSources{VendorSuffixes: []string{"core", "", "init"}}, []string{"core", "init"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, InferSuffixes(tt.src))
		})
	}
}
