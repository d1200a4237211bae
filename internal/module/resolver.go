package module

import (
	"os"
	"strings"
)

// Resolver maps module names to files through ordered path templates such
// as "src/?.lua" and "src/?/init.lua".
type Resolver struct {
	templates []string
}

// NewResolver returns a resolver trying templates in order.
func NewResolver(templates []string) *Resolver {
	return &Resolver{templates: templates}
}

// Templates returns the configured templates.
func (r *Resolver) Templates() []string {
	return r.templates
}

// DottedToPath converts "a.b.c" to "a/b/c".
func DottedToPath(name string) string {
	return strings.ReplaceAll(name, ".", "/")
}

// Resolve returns the first template expansion of name that is an existing
// file.
func (r *Resolver) Resolve(name string) (string, bool) {
	rel := DottedToPath(name)
	for _, t := range r.templates {
		candidate := strings.ReplaceAll(t, "?", rel)
		info, err := os.Stat(candidate)
		if err == nil && !info.IsDir() {
			return candidate, true
		}
	}
	return "", false
}
