// Package bundle assembles the single-file output: loader preamble, module
// bodies, root module, preludes and epilogue.
package bundle

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/luapack/luapack/internal/module"
	"github.com/luapack/luapack/internal/output"
	"github.com/luapack/luapack/internal/replace"
	"github.com/luapack/luapack/internal/syntax"
	"github.com/luapack/luapack/internal/templates"
	"github.com/luapack/luapack/internal/transform"
	"github.com/luapack/luapack/internal/version"
)

// RootModule is the registry key of the wrapped entry script.
const RootModule = "__root"

// Context carries everything assembly reads besides the graph.
type Context struct {
	// Preludes are emitted as top-level code, in order, after the root
	// module definition.
	Preludes []string

	// Entry is the module the epilogue requests. Empty requests RootModule.
	Entry string

	Rules []replace.Rule

	// Vendor maps normalized names to vendor files.
	Vendor map[string]string

	EntrySource string
	EntryPath   string

	Bind BindMode

	// Resolver resolves names for path rules. May be nil.
	Resolver replace.PathResolver

	// RedactBase is the directory provenance comments are relative to. Empty
	// means the working directory.
	RedactBase string

	Normalizer *module.Normalizer

	// Version is written into the header. Empty uses the build version.
	Version string
}

// Generate assembles the bundle and returns its text with the number of
// rewritten module references.
func Generate(g *module.Graph, ctx Context) (string, int, error) {
	ver := ctx.Version
	if ver == "" {
		ver = version.Bundle()
	}
	header, err := templates.RenderLoader(templates.LoaderData{
		Version: ver,
		Global:  ctx.Bind == BindGlobal,
	})
	if err != nil {
		return "", 0, fmt.Errorf("rendering loader: %w", err)
	}

	var b strings.Builder
	b.WriteString(header)
	red := newRedactor(ctx.RedactBase)
	rewrites := 0

	rewrite := func(code, path string) string {
		if len(ctx.Rules) == 0 {
			return code
		}
		out, n := transform.Requires(code, ctx.Rules, path, ctx.Resolver, ctx.Normalizer)
		rewrites += n
		return out
	}

	names := g.Names()
	var vendored []string
	paths := make([]string, 0, len(names)+len(ctx.Vendor)+len(ctx.Preludes))
	for _, name := range names {
		paths = append(paths, g.FirstParty[name])
	}
	for _, name := range sortedKeys(ctx.Vendor) {
		if _, ok := g.FirstParty[name]; ok {
			output.Debug("vendor module shadowed by first-party module", "module", name)
			continue
		}
		vendored = append(vendored, name)
		paths = append(paths, ctx.Vendor[name])
	}
	paths = append(paths, ctx.Preludes...)
	sources := readSources(paths)

	for _, name := range names {
		path := g.FirstParty[name]
		writeComment(&b, "module: "+name, red, path)
		code := sources[path].code
		if sources[path].ok {
			code = rewrite(code, path)
		}
		writeModule(&b, name, code)
	}

	for _, name := range vendored {
		path := ctx.Vendor[name]
		writeComment(&b, "vendor module: "+name, red, path)
		writeModule(&b, name, sources[path].code)
	}

	b.WriteString("-- root module: " + RootModule + "\n")
	writeModule(&b, RootModule, rewrite(ctx.EntrySource, ctx.EntryPath))

	for _, p := range ctx.Preludes {
		text, ok := sources[p].code, sources[p].ok
		if !ok {
			continue
		}
		if rel, ok := red.rel(p); ok {
			b.WriteString("-- prelude: " + rel + "\n")
		} else {
			b.WriteString("-- prelude\n")
		}
		b.WriteString(withNewline(commentShebang(text)))
		b.WriteString("\n")
	}

	entry := ctx.Entry
	if entry == "" {
		entry = RootModule
	}
	b.WriteString("return __B_REQUIRE(" + syntax.Quote(entry, '\'') + ")\n")

	return b.String(), rewrites, nil
}

func writeComment(b *strings.Builder, label string, red redactor, path string) {
	b.WriteString("-- " + label)
	if rel, ok := red.rel(path); ok {
		b.WriteString("  (from " + rel + ")")
	}
	b.WriteString("\n")
}

func writeModule(b *strings.Builder, name, code string) {
	b.WriteString("__B_MODULES[" + syntax.Quote(name, '\'') + "] = function(require, ...)\n")
	if code != "" {
		b.WriteString(withNewline(commentShebang(code)))
	}
	b.WriteString("end\n\n")
}

func withNewline(s string) string {
	if strings.HasSuffix(s, "\n") {
		return s
	}
	return s + "\n"
}

// commentShebang turns a leading "#" line into a comment; it is only legal
// on the first line of a chunk.
func commentShebang(code string) string {
	if strings.HasPrefix(code, "#") {
		return "--" + code
	}
	return code
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

// redactor renders paths relative to a base directory.
type redactor struct {
	base string
}

func newRedactor(base string) redactor {
	if base == "" {
		wd, err := os.Getwd()
		if err != nil {
			return redactor{}
		}
		base = wd
	}
	abs, err := filepath.Abs(base)
	if err != nil {
		return redactor{}
	}
	return redactor{base: abs}
}

// rel returns path relative to the base with forward slashes. Paths outside
// the base are not rendered.
func (r redactor) rel(path string) (string, bool) {
	if r.base == "" {
		return "", false
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", false
	}
	rel, err := filepath.Rel(r.base, abs)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", false
	}
	return filepath.ToSlash(rel), true
}
