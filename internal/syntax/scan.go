// Package syntax parses Lua source and finds module references in it.
package syntax

// Require is a module reference found in source.
type Require struct {
	Module string
	Line   int
	Col    int
}

// FindRequires returns the module references in src in source order.
// Source that does not parse yields no references.
func FindRequires(src string) []Require {
	block, err := Parse(src)
	if err != nil {
		return nil
	}
	var out []Require
	WalkRequires(block, func(rc RequireCall) {
		out = append(out, Require{
			Module: rc.Module(),
			Line:   rc.Callee.Tok.Line,
			Col:    rc.Callee.Tok.Col,
		})
	})
	return out
}
