// Package replace parses and evaluates rules that redirect module
// references to a different loader function.
package replace

import (
	"path/filepath"
	"strings"

	"github.com/gobwas/glob"

	"github.com/luapack/luapack/internal/module"
)

// MatchKind selects how a rule matches a module reference.
type MatchKind int

const (
	// MatchExact matches one normalized module name.
	MatchExact MatchKind = iota
	// MatchPrefix matches every normalized name starting with a prefix.
	MatchPrefix
	// MatchPath matches modules whose resolved file path matches a pattern.
	MatchPath
)

func (k MatchKind) String() string {
	switch k {
	case MatchExact:
		return "exact"
	case MatchPrefix:
		return "prefix"
	case MatchPath:
		return "path"
	default:
		return "unknown"
	}
}

// ArgMode selects the argument written at a rewritten call site.
type ArgMode int

const (
	// ArgFull passes the full normalized module name.
	ArgFull ArgMode = iota
	// ArgRest passes the name with the rule's prefix removed (prefix rules
	// only; other kinds always pass the full name).
	ArgRest
)

func (m ArgMode) String() string {
	if m == ArgRest {
		return "{rest}"
	}
	return "{full}"
}

// Rule redirects matching module references to the loader named New.
type Rule struct {
	Match MatchKind

	// Old names the loader the rule was written against. Informational.
	Old string

	// New is the replacement callee identifier.
	New string

	Name   string
	Prefix string

	// FileScopePatterns restrict exact and prefix rules to source files
	// whose path matches one of them. Empty means every file.
	FileScopePatterns []string

	// TargetPathPatterns are matched against the resolved file path of the
	// referenced module by path rules.
	TargetPathPatterns []string

	Arg ArgMode

	// Raw is the rule as written.
	Raw string
}

// PathResolver resolves a module name to a file path.
type PathResolver interface {
	Resolve(name string) (string, bool)
}

// Rewrite is the replacement for a matched call site.
type Rewrite struct {
	Callee string
	Arg    string
}

// Apply evaluates the rule against a module name. Path rules need a
// resolver and never match without one.
func (r *Rule) Apply(name string, res PathResolver, n *module.Normalizer) (Rewrite, bool) {
	name = n.Normalize(name)
	switch r.Match {
	case MatchExact:
		if r.Name != "" && r.Name == name {
			return Rewrite{Callee: r.New, Arg: name}, true
		}
	case MatchPrefix:
		if r.Prefix != "" && strings.HasPrefix(name, r.Prefix) {
			arg := name
			if r.Arg == ArgRest {
				arg = name[len(r.Prefix):]
			}
			return Rewrite{Callee: r.New, Arg: arg}, true
		}
	case MatchPath:
		if res == nil {
			return Rewrite{}, false
		}
		path, ok := res.Resolve(name)
		if ok && r.MatchesPath(path) {
			return Rewrite{Callee: r.New, Arg: name}, true
		}
	}
	return Rewrite{}, false
}

// AppliesToFile reports whether an exact or prefix rule is active in file.
func (r *Rule) AppliesToFile(file string) bool {
	if len(r.FileScopePatterns) == 0 {
		return true
	}
	return matchAny(r.FileScopePatterns, file)
}

// MatchesName reports whether an exact or prefix rule claims name.
func (r *Rule) MatchesName(name string, n *module.Normalizer) bool {
	name = n.Normalize(name)
	switch r.Match {
	case MatchExact:
		return r.Name != "" && r.Name == name
	case MatchPrefix:
		return r.Prefix != "" && strings.HasPrefix(name, r.Prefix)
	}
	return false
}

// MatchesPath reports whether a path rule targets the file at path.
func (r *Rule) MatchesPath(path string) bool {
	return r.Match == MatchPath && matchAny(r.TargetPathPatterns, path)
}

func matchAny(patterns []string, path string) bool {
	path = filepath.ToSlash(path)
	for _, p := range patterns {
		if MatchPattern(p, path) {
			return true
		}
	}
	return false
}

// MatchPattern matches a slash-separated path against a glob pattern in
// which '*' also crosses '/'. A pattern that does not compile matches by
// substring.
func MatchPattern(pattern, path string) bool {
	g, err := glob.Compile(pattern)
	if err != nil {
		return strings.Contains(path, pattern)
	}
	return g.Match(path)
}

// Find returns the rewrite of the first rule matching name at a call site in
// file. An empty file skips file scoping.
func Find(rules []Rule, name, file string, res PathResolver, n *module.Normalizer) (Rewrite, bool) {
	for i := range rules {
		r := &rules[i]
		if r.Match != MatchPath && file != "" && !r.AppliesToFile(file) {
			continue
		}
		if rw, ok := r.Apply(name, res, n); ok {
			return rw, true
		}
	}
	return Rewrite{}, false
}

// MatchesAnyName reports whether any exact or prefix rule claims name.
func MatchesAnyName(rules []Rule, name string, n *module.Normalizer) bool {
	for i := range rules {
		if rules[i].MatchesName(name, n) {
			return true
		}
	}
	return false
}

// MatchesAnyPath reports whether any path rule targets the file at path.
func MatchesAnyPath(rules []Rule, path string) bool {
	for i := range rules {
		if rules[i].MatchesPath(path) {
			return true
		}
	}
	return false
}

// TargetPatterns collects the target patterns of all path rules.
func TargetPatterns(rules []Rule) []string {
	var out []string
	for _, r := range rules {
		if r.Match == MatchPath {
			out = append(out, r.TargetPathPatterns...)
		}
	}
	return out
}
