package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/luapack/luapack/internal/cmdutil"
	"github.com/luapack/luapack/internal/output"
	"github.com/luapack/luapack/internal/templates"
)

// NewConfigInitCmd creates the config init command.
func NewConfigInitCmd() *cobra.Command {
	var (
		formatFlag string
		dirFlag    string
		forceFlag  bool
	)

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a starter config file",
		Long: `Write a starter luapack config file.

The file sets the path templates to src/?.lua and src/?/init.lua, the
output to dist/bundle.lua and leaves preludes, replace rules and vendor
specs empty.

Examples:
  # luapack.toml in the working directory
  luapack config init

  # CUE config, checked against the config schema when loaded
  luapack config init --format cue

  # Overwrite an existing file
  luapack config init --force`,
		Args: cobra.NoArgs,
		RunE: func(c *cobra.Command, args []string) error {
			return runConfigInit(c, formatFlag, dirFlag, forceFlag)
		},
	}

	cmd.Flags().StringVar(&formatFlag, "format", string(templates.TOML),
		"Config format: "+strings.Join(templates.ValidConfigFormats(), ", "))
	cmd.Flags().StringVar(&dirFlag, "dir", ".", "Directory to write the config to")
	cmd.Flags().BoolVarP(&forceFlag, "force", "f", false, "Overwrite an existing config file")

	return cmd
}

func runConfigInit(c *cobra.Command, format, dir string, force bool) error {
	format = strings.ToLower(format)
	if !templates.IsValidConfigFormat(format) {
		return validationExit(fmt.Sprintf("invalid config format %q", format), "--format",
			"Use one of: "+strings.Join(templates.ValidConfigFormats(), ", "))
	}

	gen := templates.NewGenerator(templates.GenerateOptions{
		TargetDir: dir,
		Format:    templates.ConfigFormat(format),
		Force:     force,
	})
	result, err := gen.Generate()
	if err != nil {
		return cmdutil.ExitErrorFrom(err)
	}

	fmt.Fprintln(c.OutOrStdout(), output.FormatCheckmark("Created "+result.Path))
	fmt.Fprintln(c.OutOrStdout(), "Validate with: luapack config vet")
	return nil
}
