// Package cmdtypes provides shared types for the cmd package and its
// helpers. It is separate from internal/cmd so internal/cmdutil can use it
// without an import cycle.
package cmdtypes

import (
	"github.com/luapack/luapack/internal/config"
	lperrors "github.com/luapack/luapack/internal/errors"
)

// GlobalConfig holds CLI-wide configuration resolved during
// PersistentPreRunE. It is populated once at startup and passed explicitly
// into every sub-command constructor.
type GlobalConfig struct {
	// Config is the loaded config file plus environment overlay. Nil until
	// PersistentPreRunE runs or when loading failed.
	Config *config.Config

	// ConfigFlag is the raw --config flag value.
	ConfigFlag string

	Verbose bool

	// LoadErr is the config loading error, reported by commands that need
	// the config.
	LoadErr error
}

// Exit codes, aliased from internal/errors.
const (
	ExitSuccess          = lperrors.ExitSuccess
	ExitGeneralError     = lperrors.ExitGeneralError
	ExitValidationError  = lperrors.ExitValidationError
	ExitPermissionDenied = lperrors.ExitPermissionDenied
	ExitNotFound         = lperrors.ExitNotFound
	ExitStale            = lperrors.ExitStale
)

// ExitError is a type alias to internal/errors.ExitError.
type ExitError = lperrors.ExitError
