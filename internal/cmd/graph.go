package cmd

import (
	"fmt"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/luapack/luapack/internal/cmdtypes"
	"github.com/luapack/luapack/internal/cmdutil"
	"github.com/luapack/luapack/internal/output"
	"github.com/luapack/luapack/internal/pipeline"
)

// NewGraphCmd creates the graph command.
func NewGraphCmd(cfg *cmdtypes.GlobalConfig) *cobra.Command {
	var sf cmdutil.SourceFlags
	var formatFlag string

	c := &cobra.Command{
		Use:   "graph INPUT",
		Short: "Show the modules a bundle would contain",
		Long: `Show every module a bundle of INPUT would contain without writing it.

Each module is listed with its kind:
  first-party   reached from the entry script through the path templates
  vendor        collected from a vendor spec
  shadowed      vendored, but a first-party module of the same name wins
  unresolved    required but not found; the host require handles it

Examples:
  # Module table
  luapack graph main.lua --path 'src/?.lua'

  # Dotted names as a tree
  luapack graph main.lua --path 'src/?.lua' -o tree

  # Machine-readable
  luapack graph main.lua --path 'src/?.lua' -o json`,
		Args: cobra.ExactArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			return runGraph(c, args, cfg, &sf, formatFlag)
		},
	}

	sf.AddTo(c)
	c.Flags().StringVarP(&formatFlag, "output", "o", "table",
		"Output format: "+strings.Join(output.ValidFormats(), ", "))

	return c
}

func runGraph(c *cobra.Command, args []string, cfg *cmdtypes.GlobalConfig, sf *cmdutil.SourceFlags, formatFlag string) error {
	name := strings.ToLower(formatFlag)
	if name == "yml" {
		name = string(output.FormatYAML)
	}
	if !slices.Contains(output.ValidFormats(), name) {
		return validationExit(fmt.Sprintf("invalid output format %q", formatFlag), "--output",
			"Use one of: "+strings.Join(output.ValidFormats(), ", "))
	}

	opts, _, err := cmdutil.ResolveOptions(cmdutil.ResolveOpts{Args: args, Flags: sf.ToConfig(), Config: cfg})
	if err != nil {
		return err
	}

	res, err := pipeline.Plan(c.Context(), opts)
	if err != nil {
		return cmdutil.ExitErrorFrom(err)
	}
	cmdutil.PrintWarnings(res.Warnings)

	report := cmdutil.BuildGraphReport(res, opts)
	return output.WriteGraph(c.OutOrStdout(), report, output.ParseOutputFormat(name))
}
