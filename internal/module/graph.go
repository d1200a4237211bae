package module

import (
	"os"
	"slices"

	"github.com/luapack/luapack/internal/output"
	"github.com/luapack/luapack/internal/syntax"
)

// Graph is the set of first-party modules reachable from an entry script.
type Graph struct {
	// FirstParty maps normalized module names to resolved file paths. The
	// first path discovered for a name is kept.
	FirstParty map[string]string

	// Unresolved holds normalized names no template resolved.
	Unresolved map[string]struct{}
}

// Names returns the first-party module names in sorted order.
func (g *Graph) Names() []string {
	names := make([]string, 0, len(g.FirstParty))
	for name := range g.FirstParty {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// UnresolvedNames returns the unresolved names in sorted order.
func (g *Graph) UnresolvedNames() []string {
	names := make([]string, 0, len(g.Unresolved))
	for name := range g.Unresolved {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

type pending struct {
	name string
	path string
}

// BuildGraph walks module references breadth first from the entry source.
// The name as written is resolved and the normalized name is recorded.
// Files are visited at most once; unreadable or unparsable files are leaves.
func BuildGraph(entrySrc string, r *Resolver, n *Normalizer) *Graph {
	g := &Graph{
		FirstParty: make(map[string]string),
		Unresolved: make(map[string]struct{}),
	}
	visited := make(map[string]bool)
	var queue []pending

	enqueue := func(reqs []syntax.Require) {
		for _, req := range reqs {
			name := n.Normalize(req.Module)
			path, ok := r.Resolve(req.Module)
			if !ok {
				g.Unresolved[name] = struct{}{}
				continue
			}
			if !visited[path] {
				queue = append(queue, pending{name: name, path: path})
			}
		}
	}

	enqueue(syntax.FindRequires(entrySrc))

	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]

		if visited[current.path] {
			continue
		}
		visited[current.path] = true
		if _, ok := g.FirstParty[current.name]; !ok {
			g.FirstParty[current.name] = current.path
		}

		code, err := os.ReadFile(current.path)
		if err != nil {
			output.Debug("module unreadable", "module", current.name, "path", current.path, "error", err)
			continue
		}
		enqueue(syntax.FindRequires(string(code)))
	}

	return g
}
