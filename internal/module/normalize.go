// Package module maps dotted Lua module names to files and builds the
// dependency graph of an entry script.
package module

import (
	"slices"
	"strings"
)

// IndexTemplate is the path template fragment that makes a directory's
// init.lua the body of the directory's module.
const IndexTemplate = "?/init.lua"

// IndexSuffix is the name suffix implied by IndexTemplate.
const IndexSuffix = "init"

// Normalizer strips index-file suffixes from module names so that "pkg" and
// "pkg.init" map to the same key. A nil Normalizer leaves names unchanged.
type Normalizer struct {
	suffixes []string
}

// NewNormalizer returns a normalizer for the given suffixes. Empty and
// duplicate suffixes are ignored.
func NewNormalizer(suffixes ...string) *Normalizer {
	set := make([]string, 0, len(suffixes))
	for _, s := range suffixes {
		if s != "" && !slices.Contains(set, s) {
			set = append(set, s)
		}
	}
	// Longest first, so overlapping suffixes strip deterministically.
	slices.SortFunc(set, func(a, b string) int {
		if len(a) != len(b) {
			return len(b) - len(a)
		}
		return strings.Compare(a, b)
	})
	return &Normalizer{suffixes: set}
}

// Normalize repeatedly strips a trailing ".<suffix>" until none matches.
func (n *Normalizer) Normalize(name string) string {
	if n == nil {
		return name
	}
	for {
		changed := false
		for _, s := range n.suffixes {
			if strings.HasSuffix(name, "."+s) {
				name = name[:len(name)-len(s)-1]
				changed = true
				break
			}
		}
		if !changed {
			return name
		}
	}
}

// Suffixes returns the configured suffixes in sorted order.
func (n *Normalizer) Suffixes() []string {
	if n == nil {
		return nil
	}
	out := slices.Clone(n.suffixes)
	slices.Sort(out)
	return out
}

// SuffixSources lists everything suffix inference looks at.
type SuffixSources struct {
	Paths          []string
	VendorPaths    []string
	VendorSuffixes []string
	RulePatterns   []string
}

// InferSuffixes derives the normalization suffixes: "init" when any template
// or path-rule pattern uses the index layout, plus explicit vendor suffixes.
func InferSuffixes(src SuffixSources) []string {
	var out []string
	for _, group := range [][]string{src.Paths, src.VendorPaths, src.RulePatterns} {
		for _, p := range group {
			if strings.Contains(p, IndexTemplate) && !slices.Contains(out, IndexSuffix) {
				out = append(out, IndexSuffix)
			}
		}
	}
	for _, s := range src.VendorSuffixes {
		if s != "" && !slices.Contains(out, s) {
			out = append(out, s)
		}
	}
	slices.Sort(out)
	return out
}
