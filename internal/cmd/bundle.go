package cmd

import (
	"context"
	"fmt"
	"slices"

	"github.com/spf13/cobra"

	"github.com/luapack/luapack/internal/cmdtypes"
	"github.com/luapack/luapack/internal/cmdutil"
	"github.com/luapack/luapack/internal/config"
	lperrors "github.com/luapack/luapack/internal/errors"
	"github.com/luapack/luapack/internal/output"
	"github.com/luapack/luapack/internal/pipeline"
	"github.com/luapack/luapack/internal/vendor"
	"github.com/luapack/luapack/internal/watch"
)

// NewBundleCmd creates the bundle command.
func NewBundleCmd(cfg *cmdtypes.GlobalConfig) *cobra.Command {
	var sf cmdutil.SourceFlags
	var (
		outputFlag        string
		diagnosticsFlag   bool
		diagnosticsFormat string
		checkFlag         bool
		watchFlag         bool
	)

	c := &cobra.Command{
		Use:   "bundle INPUT",
		Short: "Bundle an entry script and its modules",
		Long: `Bundle an entry script and every module it requires into one Lua file.

Modules are found by following string-literal require calls through the
path templates. Vendor specs add whole directory trees, replace rules rename
module references, and preludes are emitted before the entry script.

Examples:
  # Bundle to stdout
  luapack bundle main.lua --path 'src/?.lua' --path 'src/?/init.lua'

  # Bundle to a file, including a vendored tree
  luapack bundle main.lua -o dist/app.lua --vendor 'path=vendor/?.lua'

  # Fail when the committed bundle is out of date
  luapack bundle main.lua -o dist/app.lua --check

  # Rebuild on every change
  luapack bundle main.lua -o dist/app.lua --watch`,
		Args: cobra.ExactArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			flags := sf.ToConfig()
			flags.Output = outputFlag
			flags.Diagnostics = diagnosticsFlag
			return runBundle(c, args, cfg, flags, bundleMode{
				diagnosticsFormat: diagnosticsFormat,
				check:             checkFlag,
				watch:             watchFlag,
			})
		},
	}

	sf.AddTo(c)
	c.Flags().StringVarP(&outputFlag, "output", "o", "",
		"Write the bundle to this file (default: stdout)")
	c.Flags().BoolVar(&diagnosticsFlag, "diagnostics", false,
		"Print a diagnostics report to stderr")
	c.Flags().StringVar(&diagnosticsFormat, "diagnostics-format", "text",
		"Diagnostics format: text, json")
	c.Flags().BoolVar(&checkFlag, "check", false,
		"Compare with the existing output file instead of writing it")
	c.Flags().BoolVar(&watchFlag, "watch", false,
		"Rebuild when a source file changes")

	return c
}

type bundleMode struct {
	diagnosticsFormat string
	check             bool
	watch             bool
}

func runBundle(c *cobra.Command, args []string, cfg *cmdtypes.GlobalConfig, flags config.BundleFlags, mode bundleMode) error {
	if mode.diagnosticsFormat != "text" && mode.diagnosticsFormat != "json" {
		return validationExit(fmt.Sprintf("invalid diagnostics format %q", mode.diagnosticsFormat),
			"--diagnostics-format", "Use text or json.")
	}
	if mode.check && mode.watch {
		return validationExit("--check and --watch cannot be combined", "--check", "")
	}

	opts, resolved, err := cmdutil.ResolveOptions(cmdutil.ResolveOpts{Args: args, Flags: flags, Config: cfg})
	if err != nil {
		return err
	}

	b := &bundler{cmd: c, json: mode.diagnosticsFormat == "json", check: mode.check}
	b.apply(opts, resolved)

	if (mode.check || mode.watch) && b.output == "" {
		return validationExit("an output file is required", "--output",
			"--check and --watch need -o/--output or bundle.output in the config.")
	}

	if mode.watch {
		return b.watch(c.Context(), cfg, args, flags)
	}
	return b.run(c.Context())
}

func validationExit(msg, field, hint string) error {
	return &cmdtypes.ExitError{
		Code: cmdtypes.ExitValidationError,
		Err:  lperrors.NewValidationError(msg, "", field, hint),
	}
}

// bundler runs one bundle pass and reports its result.
type bundler struct {
	cmd         *cobra.Command
	opts        pipeline.Options
	output      string
	diagnostics bool
	json        bool
	check       bool
}

func (b *bundler) apply(opts pipeline.Options, resolved *config.ResolvedBundle) {
	b.opts = opts
	b.output = resolved.Output
	b.diagnostics = resolved.Diagnostics
}

func (b *bundler) run(ctx context.Context) error {
	var res *pipeline.Result
	action := func() error {
		var err error
		res, err = pipeline.Bundle(ctx, b.opts)
		return err
	}

	var err error
	if b.output != "" {
		err = output.RunWithSpinner(ctx, action, output.WithTitle("Bundling "+b.opts.InputPath))
	} else {
		err = action()
	}
	if err != nil {
		return cmdutil.ExitErrorFrom(err)
	}

	cmdutil.PrintWarnings(res.Warnings)

	if b.diagnostics {
		info := cmdutil.BuildDiagnostics(res, b.opts, b.output)
		if err := output.WriteDiagnostics(b.cmd.ErrOrStderr(), info, b.json); err != nil {
			return err
		}
	}

	out := b.cmd.OutOrStdout()
	switch {
	case b.check:
		diff, err := cmdutil.CheckBundle(b.output, res.Bundle)
		if err != nil {
			return cmdutil.ExitErrorFrom(err)
		}
		if diff == "" {
			fmt.Fprintln(out, output.FormatCheckmark(b.output+" is up to date"))
			return nil
		}
		fmt.Fprint(out, output.RenderDiff(diff))
		return &cmdtypes.ExitError{Code: cmdtypes.ExitStale, Err: lperrors.NewStaleError(b.output)}

	case b.output == "":
		fmt.Fprint(out, res.Bundle)

	default:
		if err := cmdutil.WriteBundle(b.output, res.Bundle); err != nil {
			return cmdutil.ExitErrorFrom(err)
		}
		fmt.Fprintln(out, output.FormatBundleSummary(b.output, moduleCount(res), res.Rewrites))
	}
	return nil
}

// watch rebuilds on every relevant change until ctx is cancelled. A failed
// build is logged and watching continues.
func (b *bundler) watch(ctx context.Context, cfg *cmdtypes.GlobalConfig, args []string, flags config.BundleFlags) error {
	log := output.ModuleLogger("watch")

	if err := b.run(ctx); err != nil {
		log.Error("build failed", "error", err)
	}

	var cfgPath string
	if cfg.Config != nil {
		cfgPath = cfg.Config.Path
	}

	var files []string
	if cfgPath != "" {
		files = append(files, cfgPath)
	}

	w, err := watch.New(watch.Config{
		Roots: watch.RootsFor(b.templates(), slices.Concat([]string{b.opts.InputPath}, b.opts.Preludes)),
		Files: files,
		Skip:  []string{b.output},
		OnChange: func(ctx context.Context, changed []string) error {
			if cfgPath != "" && slices.Contains(changed, cfgPath) {
				if err := b.reload(cfg, cfgPath, args, flags); err != nil {
					log.Error("config reload failed", "error", err)
					return nil
				}
			}
			log.Info("rebuilding", "changed", len(changed))
			if err := b.run(ctx); err != nil {
				log.Error("build failed", "error", err)
			}
			return nil
		},
	})
	if err != nil {
		return cmdutil.ExitErrorFrom(err)
	}

	log.Info("watching for changes", "roots", len(w.Roots()), "output", b.output)
	return w.Run(ctx)
}

// templates returns every path template the build reads from.
func (b *bundler) templates() []string {
	templates := slices.Clone(b.opts.Paths)
	// Specs were validated by ResolveOptions.
	if specs, err := vendor.ParseSpecs(b.opts.Vendors); err == nil {
		templates = append(templates, vendor.AllPaths(specs)...)
	}
	return templates
}

func (b *bundler) reload(cfg *cmdtypes.GlobalConfig, path string, args []string, flags config.BundleFlags) error {
	loaded, err := config.NewLoader().Load(path)
	if err != nil {
		return err
	}
	loaded.Source = cfg.Config.Source
	cfg.Config = loaded
	cfg.LoadErr = nil

	opts, resolved, err := cmdutil.ResolveOptions(cmdutil.ResolveOpts{Args: args, Flags: flags, Config: cfg})
	if err != nil {
		return err
	}
	// The output path stays fixed for the watcher's lifetime.
	out := b.output
	b.apply(opts, resolved)
	b.output = out
	return nil
}

// moduleCount counts distinct module names in the bundle.
func moduleCount(res *pipeline.Result) int {
	n := len(res.Graph.FirstParty)
	for name := range res.Vendor.Paths {
		if _, ok := res.Graph.FirstParty[name]; !ok {
			n++
		}
	}
	return n
}
