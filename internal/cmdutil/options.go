package cmdutil

import (
	"errors"

	"github.com/luapack/luapack/internal/bundle"
	"github.com/luapack/luapack/internal/cmdtypes"
	"github.com/luapack/luapack/internal/config"
	lperrors "github.com/luapack/luapack/internal/errors"
	"github.com/luapack/luapack/internal/output"
	"github.com/luapack/luapack/internal/pipeline"
)

// ResolveOpts holds the inputs for ResolveOptions.
type ResolveOpts struct {
	// Args from the cobra command (first arg is the entry script).
	Args []string
	// Flags are the command-line values; they win over the config.
	Flags config.BundleFlags
	// Config is the CLI-wide configuration.
	Config *cmdtypes.GlobalConfig
}

// ResolveOptions merges flags over the loaded config, validates the result
// and turns it into pipeline options.
//
// On failure it returns an *ExitError with the appropriate exit code.
func ResolveOptions(opts ResolveOpts) (pipeline.Options, *config.ResolvedBundle, error) {
	input := ResolveInputPath(opts.Args)
	if input == "" {
		err := lperrors.NewValidationError("an entry script is required", "", "INPUT",
			"Pass the Lua file to bundle, e.g. luapack bundle main.lua")
		return pipeline.Options{}, nil, &cmdtypes.ExitError{Code: cmdtypes.ExitValidationError, Err: err}
	}

	var cfg *config.Config
	if opts.Config != nil {
		if opts.Config.LoadErr != nil {
			return pipeline.Options{}, nil, &cmdtypes.ExitError{
				Code: lperrors.ExitCodeFromError(opts.Config.LoadErr),
				Err:  opts.Config.LoadErr,
			}
		}
		cfg = opts.Config.Config
	}

	resolved := config.ResolveBundle(opts.Flags, cfg)
	config.LogResolvedValues(resolved.Values)

	if err := config.ValidateBundleConfig(resolved.BundleConfig); err != nil {
		return pipeline.Options{}, nil, &cmdtypes.ExitError{Code: cmdtypes.ExitValidationError, Err: err}
	}

	bind, err := bundle.ParseBindMode(resolved.BindRequire)
	if err != nil {
		return pipeline.Options{}, nil, &cmdtypes.ExitError{Code: cmdtypes.ExitValidationError, Err: err}
	}

	popts := pipeline.Options{
		InputPath:  input,
		Lua:        resolved.Lua,
		Paths:      resolved.Paths,
		Preludes:   resolved.Preludes,
		Replace:    resolved.Replace,
		Vendors:    resolved.Vendors,
		Entry:      resolved.Entry,
		Bind:       bind,
		RedactBase: resolved.RedactBase,
	}

	output.Debug("resolved bundle options",
		"input", popts.InputPath,
		"lua", popts.Lua,
		"paths", len(popts.Paths),
		"bind_require", popts.Bind,
	)
	return popts, resolved, nil
}

// ExitErrorFrom wraps err with the exit code its sentinel maps to. Nil and
// existing exit errors pass through.
func ExitErrorFrom(err error) error {
	if err == nil {
		return nil
	}
	var exitErr *cmdtypes.ExitError
	if errors.As(err, &exitErr) {
		return err
	}
	return &cmdtypes.ExitError{Code: lperrors.ExitCodeFromError(err), Err: err}
}
