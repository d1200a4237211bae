package bundle

import (
	"os"

	"github.com/luapack/luapack/internal/output"
)

// source is the text of one file read for assembly.
type source struct {
	code string
	ok   bool
}

// readSources reads every path once, in order. Unreadable files are logged
// and come back with ok false.
func readSources(paths []string) map[string]source {
	out := make(map[string]source, len(paths))
	for _, p := range paths {
		if _, seen := out[p]; seen {
			continue
		}
		code, ok := readSource(p)
		out[p] = source{code: code, ok: ok}
	}
	output.Debug("read module sources", "files", len(out))
	return out
}

func readSource(path string) (string, bool) {
	data, err := os.ReadFile(path)
	if err != nil {
		output.Warn("skipping unreadable file", "path", path, "error", err)
		return "", false
	}
	return string(data), true
}
