package pipeline

import (
	"fmt"

	"github.com/luapack/luapack/internal/bundle"
	"github.com/luapack/luapack/internal/module"
	"github.com/luapack/luapack/internal/replace"
	"github.com/luapack/luapack/internal/syntax"
	"github.com/luapack/luapack/internal/vendor"
	"github.com/luapack/luapack/internal/version"
)

// DefaultDialect is the Lua dialect assumed when none is configured.
const DefaultDialect = "5.1"

// Options are the resolved inputs of one bundling run. Paths are used as
// given; the caller resolves them against the working or config directory.
type Options struct {
	// InputPath is the entry script (required).
	InputPath string

	// Lua is the target dialect. Informational; validated only.
	Lua string

	// Paths are first-party path templates tried in order.
	Paths []string

	Preludes []string

	// Replace and Vendors are raw rule and spec strings.
	Replace []string
	Vendors []string

	// Entry is the module the bundle runs; empty runs the entry script.
	Entry string

	Bind bundle.BindMode

	RedactBase string
}

// Validate checks the options before any file is read.
func (o *Options) Validate() error {
	if o.InputPath == "" {
		return fmt.Errorf("input path is required")
	}
	if _, err := bundle.ParseBindMode(string(o.Bind)); err != nil {
		return err
	}
	if o.Lua != "" && !version.IsValidDialect(o.Lua) {
		return fmt.Errorf("unsupported lua dialect %q (valid: %v)", o.Lua, version.Dialects)
	}
	return nil
}

// Result holds everything a run discovered. Bundle is empty for Plan.
type Result struct {
	Bundle   string
	Rewrites int

	Graph  *module.Graph
	Vendor *vendor.Modules

	// Requires are the module references of the entry script.
	Requires []syntax.Require

	// ParseError is set when the entry script does not parse; the run
	// continues with no references.
	ParseError error

	Rules      []replace.Rule
	Specs      []vendor.Spec
	Normalizer *module.Normalizer
	Resolver   *module.Resolver

	// Warnings are non-fatal findings in a stable order.
	Warnings []string
}
