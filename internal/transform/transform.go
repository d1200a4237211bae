// Package transform rewrites module references in Lua source according to
// replace rules.
package transform

import (
	"slices"
	"strings"

	"github.com/luapack/luapack/internal/module"
	"github.com/luapack/luapack/internal/replace"
	"github.com/luapack/luapack/internal/syntax"
)

// edit replaces src[start:end] with text.
type edit struct {
	start, end int
	text       string
}

// Requires rewrites every module reference in code matched by a rule and
// returns the new source with the number of call sites rewritten. file is
// the path of code for file-scoped rules; res resolves names for path rules.
//
// Only the callee and the string argument change. Formatting around the
// argument is kept, while comments and indentation directly before the
// callee are dropped. Source that does not parse is returned unchanged.
func Requires(code string, rules []replace.Rule, file string, res replace.PathResolver, n *module.Normalizer) (string, int) {
	if len(rules) == 0 {
		return code, 0
	}
	block, err := syntax.Parse(code)
	if err != nil {
		return code, 0
	}

	var edits []edit
	syntax.WalkRequires(block, func(rc syntax.RequireCall) {
		rw, ok := replace.Find(rules, rc.Module(), file, res, n)
		if !ok {
			return
		}
		callee := rc.Callee.Tok
		arg := rc.Arg.Tok
		edits = append(edits,
			edit{start: callee.LeadStart, end: callee.End, text: rw.Callee},
			edit{start: arg.Start, end: arg.End, text: syntax.QuoteLike(rw.Arg, arg)},
		)
	})
	if len(edits) == 0 {
		return code, 0
	}

	slices.SortFunc(edits, func(a, b edit) int { return a.start - b.start })
	return apply(code, edits), len(edits) / 2
}

func apply(code string, edits []edit) string {
	var b strings.Builder
	b.Grow(len(code))
	last := 0
	for _, e := range edits {
		b.WriteString(code[last:e.start])
		b.WriteString(e.text)
		last = e.end
	}
	b.WriteString(code[last:])
	return b.String()
}
