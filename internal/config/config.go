// Package config provides configuration loading and management.
package config

// BundleConfig is the [bundle] table of a luapack config file.
type BundleConfig struct {
	// Lua is the target dialect.
	// Env: LUAPACK_BUNDLE_LUA, Default: "5.1"
	Lua string `mapstructure:"lua" json:"lua,omitempty"`

	// Paths are path templates such as "src/?.lua". Relative entries are
	// resolved against the config file's directory.
	// Env: LUAPACK_BUNDLE_PATHS (";" separated)
	Paths []string `mapstructure:"paths" json:"paths,omitempty"`

	// Preludes are files emitted verbatim before the entry script.
	Preludes []string `mapstructure:"preludes" json:"preludes,omitempty"`

	// Replace holds raw replace rules.
	Replace []string `mapstructure:"replace" json:"replace,omitempty"`

	// Vendors holds raw vendor specs.
	Vendors []string `mapstructure:"vendors" json:"vendors,omitempty"`

	// Output is the bundle path. Empty writes to stdout.
	Output string `mapstructure:"output" json:"output,omitempty"`

	// Entry names the module the bundle runs instead of the entry script.
	Entry string `mapstructure:"entry" json:"entry,omitempty"`

	// BindRequire is "router" or "global".
	// Env: LUAPACK_BUNDLE_BIND_REQUIRE, Default: "router"
	BindRequire string `mapstructure:"bind_require" json:"bind_require,omitempty"`

	Diagnostics bool `mapstructure:"diagnostics" json:"diagnostics,omitempty"`

	// RedactBase is the directory source paths are shown relative to.
	RedactBase string `mapstructure:"redact_base" json:"redact_base,omitempty"`
}

// LogConfig contains logging-related settings.
type LogConfig struct {
	// Timestamps controls whether timestamps are shown in log output.
	// Default: true. Override with --timestamps flag.
	Timestamps *bool `mapstructure:"timestamps" json:"timestamps,omitempty"`
}

// Config represents a loaded luapack configuration.
type Config struct {
	Bundle BundleConfig `mapstructure:"bundle" json:"bundle"`
	Log    LogConfig    `mapstructure:"log" json:"log"`

	// Path is the file the config was loaded from. Empty when no file was
	// found.
	Path string `mapstructure:"-" json:"-"`

	// Source records how Path was chosen.
	Source ConfigSource `mapstructure:"-" json:"-"`

	// sources maps bundle keys to where their value came from.
	sources map[string]ConfigSource
}

// sourceOf reports where the bundle key's value came from.
func (c *Config) sourceOf(key string) ConfigSource {
	if src, ok := c.sources[key]; ok {
		return src
	}
	return SourceConfig
}

// Dir returns the directory relative config paths are resolved against.
// Empty when no file was loaded.
func (c *Config) Dir() string {
	if c == nil || c.Path == "" {
		return ""
	}
	return dirOf(c.Path)
}
