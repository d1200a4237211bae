package cmdutil

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	lperrors "github.com/luapack/luapack/internal/errors"
	"github.com/luapack/luapack/internal/output"
)

// WriteBundle writes content to path, creating parent directories.
func WriteBundle(path, content string) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fileError("create output directory", dir, err)
		}
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return fileError("write bundle", path, err)
	}
	return nil
}

// CheckBundle compares content with the bundle at path and returns a
// unified diff from the file to content. A missing file diffs against
// empty text. An empty diff means the bundle is current.
func CheckBundle(path, content string) (string, error) {
	existing, err := os.ReadFile(path)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return "", fileError("read bundle", path, err)
	}
	return output.UnifiedDiff(path, path+" (generated)", string(existing), content), nil
}

// PrintWarnings logs each pipeline warning.
func PrintWarnings(warnings []string) {
	for _, w := range warnings {
		output.Warn(w)
	}
}

func fileError(action, path string, err error) error {
	if errors.Is(err, os.ErrPermission) {
		return lperrors.NewPermissionError(fmt.Sprintf("cannot %s", action),
			map[string]string{"Path": path}, "")
	}
	return fmt.Errorf("%s %s: %w", action, path, err)
}
