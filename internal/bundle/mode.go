package bundle

import (
	"fmt"

	lperrors "github.com/luapack/luapack/internal/errors"
)

// BindMode selects the loader function bundled modules receive as require.
type BindMode string

const (
	// BindRouter passes the bundled loader only.
	BindRouter BindMode = "router"

	// BindGlobal tries the host require first and falls back to the
	// bundled loader.
	BindGlobal BindMode = "global"
)

// ValidBindModes returns all valid mode names.
func ValidBindModes() []string {
	return []string{string(BindRouter), string(BindGlobal)}
}

// ParseBindMode parses a mode name. The empty string selects BindRouter.
func ParseBindMode(s string) (BindMode, error) {
	switch BindMode(s) {
	case "", BindRouter:
		return BindRouter, nil
	case BindGlobal:
		return BindGlobal, nil
	default:
		return "", lperrors.NewValidationError(
			fmt.Sprintf("invalid bind mode %q", s),
			"", "bind_require",
			"valid values: router, global",
		)
	}
}
