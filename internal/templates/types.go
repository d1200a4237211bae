package templates

// LoaderData holds the data passed to the bundle loader template.
type LoaderData struct {
	// Version is written into the bundle header.
	Version string

	// Global selects the delegating binding, which tries the host require
	// before the bundled loader.
	Global bool
}

// ConfigData holds the values written into a starter config.
type ConfigData struct {
	Lua         string
	Paths       []string
	Preludes    []string
	Replace     []string
	Vendors     []string
	Output      string
	BindRequire string
	Diagnostics bool
	Timestamps  bool
}

// DefaultConfigData returns the values `config init` writes.
func DefaultConfigData() ConfigData {
	return ConfigData{
		Lua:         "5.4",
		Paths:       []string{"src/?.lua", "src/?/init.lua"},
		Preludes:    []string{},
		Replace:     []string{},
		Vendors:     []string{},
		Output:      "dist/bundle.lua",
		BindRequire: "router",
		Timestamps:  true,
	}
}

// GenerateOptions configures config file generation.
type GenerateOptions struct {
	// TargetDir is the directory the config is written to.
	TargetDir string

	// Format selects the file format.
	Format ConfigFormat

	// Data overrides the default values when non-nil.
	Data *ConfigData

	// Force allows overwriting an existing config file.
	Force bool
}

// GenerateResult contains the result of config generation.
type GenerateResult struct {
	// Path is the written file.
	Path string

	// Format is the format that was written.
	Format ConfigFormat
}
