package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/luapack/luapack/internal/version"
)

// NewVersionCmd creates the version command.
func NewVersionCmd() *cobra.Command {
	var jsonFlag bool

	cmd := &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Long: `Show luapack version information.

Displays:
  - luapack version, commit, and build date
  - CUE SDK version (used to read luapack.cue)
  - the Lua interpreter found in PATH, if any`,
		Args: cobra.NoArgs,
		RunE: func(c *cobra.Command, args []string) error {
			return runVersion(c, jsonFlag)
		},
	}
	cmd.Flags().BoolVar(&jsonFlag, "json", false, "Print version information as JSON")
	return cmd
}

func runVersion(c *cobra.Command, asJSON bool) error {
	info := version.Get()
	lua := version.DetectLua()

	if asJSON {
		data, err := json.MarshalIndent(struct {
			version.Info
			Lua version.LuaBinaryInfo `json:"lua"`
		}{info, lua}, "", "  ")
		if err != nil {
			return err
		}
		fmt.Fprintln(c.OutOrStdout(), string(data))
		return nil
	}

	fmt.Fprintln(c.OutOrStdout(), version.FullVersionString(info, lua))
	return nil
}
