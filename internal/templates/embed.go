// Package templates provides the embedded bundle loader and starter
// configuration templates.
package templates

import (
	"embed"
	"fmt"
)

//go:embed loader/*.tmpl
var loaderFS embed.FS

//go:embed config/*.tmpl
var configFS embed.FS

// ConfigFormat is a config file format supported by `config init`.
type ConfigFormat string

const (
	// TOML is the default format.
	TOML ConfigFormat = "toml"

	YAML ConfigFormat = "yaml"
	JSON ConfigFormat = "json"

	// CUE configs are evaluated with the CUE SDK before loading.
	CUE ConfigFormat = "cue"
)

// ValidConfigFormats returns all valid format names.
func ValidConfigFormats() []string {
	return []string{
		string(TOML),
		string(YAML),
		string(JSON),
		string(CUE),
	}
}

// IsValidConfigFormat checks if a format name is valid.
func IsValidConfigFormat(name string) bool {
	switch ConfigFormat(name) {
	case TOML, YAML, JSON, CUE:
		return true
	default:
		return false
	}
}

// FileName returns the config file name for the format.
func (f ConfigFormat) FileName() string {
	return "luapack." + string(f)
}

// readTemplate returns the raw text of an embedded template.
func readTemplate(fsys embed.FS, path string) (string, error) {
	content, err := fsys.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("reading template %s: %w", path, err)
	}
	return string(content), nil
}
