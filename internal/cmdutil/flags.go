// Package cmdutil provides shared command utilities for the bundle and
// graph commands: flag groups, option resolution, and output helpers.
package cmdutil

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/luapack/luapack/internal/bundle"
	"github.com/luapack/luapack/internal/config"
	"github.com/luapack/luapack/internal/version"
)

// SourceFlags holds the flags that decide what goes into a bundle
// (bundle, graph).
type SourceFlags struct {
	Lua         string
	Paths       []string
	Preludes    []string
	Replace     []string
	Vendors     []string
	Entry       string
	BindRequire string
	RedactBase  string
}

// AddTo registers the source flags on the given cobra command.
func (f *SourceFlags) AddTo(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.Lua, "lua", "",
		fmt.Sprintf("Lua dialect: %s (default %s)", strings.Join(version.Dialects, ", "), config.DefaultLua))
	cmd.Flags().StringArrayVar(&f.Paths, "path", nil,
		"Module path template such as src/?.lua (can be repeated)")
	cmd.Flags().StringArrayVar(&f.Preludes, "prelude", nil,
		"File emitted before the entry script (can be repeated)")
	cmd.Flags().StringArrayVar(&f.Replace, "replace", nil,
		"Replace rule, e.g. match=prefix,prefix=old.,new=require (can be repeated)")
	cmd.Flags().StringArrayVar(&f.Vendors, "vendor", nil,
		"Vendor spec, e.g. path=vendor/?.lua,exclude=prefix:test. (can be repeated)")
	cmd.Flags().StringVar(&f.Entry, "entry", "",
		"Module to run instead of the entry script")
	cmd.Flags().StringVar(&f.BindRequire, "bind-require", "",
		fmt.Sprintf("How modules see require: %s", strings.Join(bundle.ValidBindModes(), ", ")))
	cmd.Flags().StringVar(&f.RedactBase, "redact-base", "",
		"Show source paths relative to this directory (default: working directory)")
}

// ToConfig converts the flags for config.ResolveBundle. Output and
// diagnostics come from the caller's own flags.
func (f *SourceFlags) ToConfig() config.BundleFlags {
	return config.BundleFlags{
		Lua:         f.Lua,
		Paths:       f.Paths,
		Preludes:    f.Preludes,
		Replace:     f.Replace,
		Vendors:     f.Vendors,
		Entry:       f.Entry,
		BindRequire: f.BindRequire,
		RedactBase:  f.RedactBase,
	}
}

// ResolveInputPath returns the entry script from command args.
func ResolveInputPath(args []string) string {
	if len(args) > 0 {
		return args[0]
	}
	return ""
}
