package config

import (
	"os"

	"github.com/luapack/luapack/internal/output"
)

// ConfigSource indicates where a configuration value came from.
type ConfigSource string

const (
	// SourceFlag indicates value came from command-line flag.
	SourceFlag ConfigSource = "flag"
	// SourceEnv indicates value came from environment variable.
	SourceEnv ConfigSource = "env"
	// SourceConfig indicates value came from config file.
	SourceConfig ConfigSource = "config"
	// SourceDefault indicates value is the built-in default or was
	// discovered.
	SourceDefault ConfigSource = "default"
)

// ResolvedValue is one configuration value with its provenance.
type ResolvedValue struct {
	Key    string
	Value  any
	Source ConfigSource
	// Shadowed contains values that were overridden by higher precedence.
	Shadowed map[ConfigSource]any
}

// ResolveConfigPathOptions contains options for config path resolution.
type ResolveConfigPathOptions struct {
	// FlagValue is the --config flag value (empty if not set).
	FlagValue string
	// WorkDir is searched for ConfigFileNames when neither flag nor env is
	// set.
	WorkDir string
}

// ResolveConfigPathResult contains the resolved config path and its source.
type ResolveConfigPathResult struct {
	// ConfigPath is the resolved config file path. Empty when nothing was
	// given or discovered.
	ConfigPath string
	// Source indicates where the config path came from.
	Source ConfigSource
	// Shadowed contains values that were overridden by higher precedence.
	Shadowed map[ConfigSource]string
}

// ResolveConfigPath resolves the config file path using precedence:
// (1) --config flag, (2) LUAPACK_CONFIG env, (3) discovery in WorkDir.
func ResolveConfigPath(opts ResolveConfigPathOptions) ResolveConfigPathResult {
	result := ResolveConfigPathResult{
		Shadowed: make(map[ConfigSource]string),
	}

	envValue := os.Getenv(EnvConfig)

	switch {
	case opts.FlagValue != "":
		result.ConfigPath = opts.FlagValue
		result.Source = SourceFlag
		if envValue != "" {
			result.Shadowed[SourceEnv] = envValue
		}
	case envValue != "":
		result.ConfigPath = envValue
		result.Source = SourceEnv
	default:
		result.ConfigPath = FindConfigFile(opts.WorkDir)
		result.Source = SourceDefault
	}

	return result
}

// BundleFlags are the command-line values that override a BundleConfig.
// Zero values mean "not set".
type BundleFlags struct {
	Lua         string
	Paths       []string
	Preludes    []string
	Replace     []string
	Vendors     []string
	Output      string
	Entry       string
	BindRequire string
	Diagnostics bool
	RedactBase  string
}

// ResolvedBundle is the effective bundle configuration after applying
// flag > env/config > default precedence. Lists replace, never merge.
type ResolvedBundle struct {
	BundleConfig
	Values []ResolvedValue
}

// Defaults applied when neither flag nor config sets a value.
const (
	DefaultLua         = "5.1"
	DefaultBindRequire = "router"
)

// ResolveBundle merges flags over cfg. A nil cfg is treated as empty.
func ResolveBundle(flags BundleFlags, cfg *Config) *ResolvedBundle {
	if cfg == nil {
		cfg = &Config{}
	}
	b := cfg.Bundle
	r := &ResolvedBundle{}

	r.Lua = resolveString(r, "lua", flags.Lua, b.Lua, cfg.sourceOf("lua"), DefaultLua)
	r.Paths = resolveList(r, "paths", flags.Paths, b.Paths, cfg.sourceOf("paths"))
	r.Preludes = resolveList(r, "preludes", flags.Preludes, b.Preludes, cfg.sourceOf("preludes"))
	r.Replace = resolveList(r, "replace", flags.Replace, b.Replace, cfg.sourceOf("replace"))
	r.Vendors = resolveList(r, "vendors", flags.Vendors, b.Vendors, cfg.sourceOf("vendors"))
	r.Output = resolveString(r, "output", flags.Output, b.Output, cfg.sourceOf("output"), "")
	r.Entry = resolveString(r, "entry", flags.Entry, b.Entry, cfg.sourceOf("entry"), "")
	r.BindRequire = resolveString(r, "bind_require", flags.BindRequire, b.BindRequire, cfg.sourceOf("bind_require"), DefaultBindRequire)
	r.RedactBase = resolveString(r, "redact_base", flags.RedactBase, b.RedactBase, cfg.sourceOf("redact_base"), "")

	// A true flag wins; false does not cancel the config.
	r.Diagnostics = flags.Diagnostics || b.Diagnostics
	src := SourceDefault
	switch {
	case flags.Diagnostics:
		src = SourceFlag
	case b.Diagnostics:
		src = cfg.sourceOf("diagnostics")
	}
	r.Values = append(r.Values, ResolvedValue{Key: "diagnostics", Value: r.Diagnostics, Source: src})

	return r
}

func resolveString(r *ResolvedBundle, key, flag, cfgValue string, cfgSource ConfigSource, def string) string {
	v := ResolvedValue{Key: key, Shadowed: make(map[ConfigSource]any)}
	switch {
	case flag != "":
		v.Value, v.Source = flag, SourceFlag
		if cfgValue != "" {
			v.Shadowed[cfgSource] = cfgValue
		}
	case cfgValue != "":
		v.Value, v.Source = cfgValue, cfgSource
	default:
		v.Value, v.Source = def, SourceDefault
	}
	r.Values = append(r.Values, v)
	return v.Value.(string)
}

func resolveList(r *ResolvedBundle, key string, flag, cfgValue []string, cfgSource ConfigSource) []string {
	v := ResolvedValue{Key: key, Shadowed: make(map[ConfigSource]any)}
	var out []string
	switch {
	case len(flag) > 0:
		out, v.Source = flag, SourceFlag
		if len(cfgValue) > 0 {
			v.Shadowed[cfgSource] = cfgValue
		}
	case len(cfgValue) > 0:
		out, v.Source = cfgValue, cfgSource
	default:
		v.Source = SourceDefault
	}
	v.Value = out
	r.Values = append(r.Values, v)
	return out
}

// LogResolvedValues logs configuration resolution at DEBUG level.
func LogResolvedValues(values []ResolvedValue) {
	for _, v := range values {
		output.Debug("config value resolved",
			"key", v.Key,
			"value", v.Value,
			"source", v.Source,
		)
		for source, shadowed := range v.Shadowed {
			output.Debug("  shadowed by higher precedence",
				"key", v.Key,
				"shadowed_source", source,
				"shadowed_value", shadowed,
			)
		}
	}
}
