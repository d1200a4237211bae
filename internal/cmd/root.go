// Package cmd provides CLI command implementations.
package cmd

import (
	"github.com/spf13/cobra"

	"github.com/luapack/luapack/internal/cmdtypes"
	"github.com/luapack/luapack/internal/config"
	"github.com/luapack/luapack/internal/output"
)

// NewRootCmd creates the root command for the luapack CLI.
func NewRootCmd() *cobra.Command {
	cfg := &cmdtypes.GlobalConfig{}
	var timestamps bool

	rootCmd := &cobra.Command{
		Use:   "luapack",
		Short: "Bundle Lua modules into a single file",
		Long: `luapack follows the string-literal require calls of a Lua entry script,
resolves them against path templates and writes one self-contained Lua file
that registers every module under its name.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return initializeGlobals(cmd, cfg, timestamps)
		},
	}

	rootCmd.PersistentFlags().StringVar(&cfg.ConfigFlag, "config", "", "Path to config file (env: "+config.EnvConfig+")")
	rootCmd.PersistentFlags().BoolVarP(&cfg.Verbose, "verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().BoolVar(&timestamps, "timestamps", true, "Show timestamps in log output")

	rootCmd.AddCommand(NewBundleCmd(cfg))
	rootCmd.AddCommand(NewGraphCmd(cfg))
	rootCmd.AddCommand(NewConfigCmd(cfg))
	rootCmd.AddCommand(NewVersionCmd())

	return rootCmd
}

// initializeGlobals loads the config and sets up logging.
func initializeGlobals(cmd *cobra.Command, cfg *cmdtypes.GlobalConfig, timestamps bool) error {
	// Config errors are kept for the commands that need the config, so
	// `config init` and `version` still work next to a broken file.
	loaded, err := config.Load(config.LoaderOptions{ConfigFlag: cfg.ConfigFlag})
	cfg.Config = loaded
	cfg.LoadErr = err

	logCfg := output.LogConfig{Verbose: cfg.Verbose}

	// flag (if explicitly set) > config > default (nil = true)
	if cmd.Flags().Changed("timestamps") {
		logCfg.Timestamps = output.BoolPtr(timestamps)
	} else if loaded != nil && loaded.Log.Timestamps != nil {
		logCfg.Timestamps = loaded.Log.Timestamps
	}

	output.SetupLogging(logCfg)

	if err != nil {
		output.Debug("config load error", "error", err)
		return nil
	}
	if loaded != nil && loaded.Path != "" {
		output.Debug("loaded config", "path", loaded.Path, "source", loaded.Source)
	}
	return nil
}
