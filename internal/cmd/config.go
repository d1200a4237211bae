package cmd

import (
	"github.com/spf13/cobra"

	"github.com/luapack/luapack/internal/cmdtypes"
)

// NewConfigCmd creates the config command group.
func NewConfigCmd(cfg *cmdtypes.GlobalConfig) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Configuration management",
		Long: `Create and check luapack config files.

A config file holds the defaults for bundle and graph. luapack looks for
luapack.toml, luapack.yaml, luapack.yml, luapack.json or luapack.cue in the
working directory unless --config or ` + "LUAPACK_CONFIG" + ` names one.`,
	}

	cmd.AddCommand(NewConfigInitCmd())
	cmd.AddCommand(NewConfigVetCmd(cfg))

	return cmd
}
