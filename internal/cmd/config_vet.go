package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/luapack/luapack/internal/cmdtypes"
	"github.com/luapack/luapack/internal/cmdutil"
	"github.com/luapack/luapack/internal/config"
	lperrors "github.com/luapack/luapack/internal/errors"
	"github.com/luapack/luapack/internal/output"
)

// NewConfigVetCmd creates the config vet command.
func NewConfigVetCmd(cfg *cmdtypes.GlobalConfig) *cobra.Command {
	return &cobra.Command{
		Use:   "vet",
		Short: "Validate configuration",
		Long: `Validate the luapack config file.

Checks performed:
  1. A config file exists at the resolved path
  2. The file parses and has no unknown keys (CUE files are also checked
     against the config schema)
  3. Dialect and bind mode are known values
  4. Every path template holds a '?'
  5. Every replace rule and vendor spec parses

The config path is resolved using precedence:
  --config flag > LUAPACK_CONFIG env > luapack.* in the working directory

Examples:
  # Validate the discovered config
  luapack config vet

  # Validate a specific file
  luapack config vet --config ci/luapack.yaml`,
		Args: cobra.NoArgs,
		RunE: func(c *cobra.Command, args []string) error {
			return runConfigVet(c, cfg)
		},
	}
}

func runConfigVet(c *cobra.Command, cfg *cmdtypes.GlobalConfig) error {
	if cfg.LoadErr != nil {
		return cmdutil.ExitErrorFrom(cfg.LoadErr)
	}
	if cfg.Config == nil || cfg.Config.Path == "" {
		return &cmdtypes.ExitError{
			Code: cmdtypes.ExitNotFound,
			Err: lperrors.NewNotFoundError("no config file found", "",
				"Run 'luapack config init' to create one, or pass --config."),
		}
	}

	output.Debug("validating config", "path", cfg.Config.Path, "source", cfg.Config.Source)

	if err := config.ValidateBundleConfig(cfg.Config.Bundle); err != nil {
		return &cmdtypes.ExitError{Code: cmdtypes.ExitValidationError, Err: err}
	}

	fmt.Fprintln(c.OutOrStdout(), output.FormatCheckmark("Configuration is valid: "+cfg.Config.Path))
	return nil
}
