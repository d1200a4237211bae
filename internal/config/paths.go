package config

import (
	"os"
	"path/filepath"
)

// EnvConfig names the environment variable holding a config file path.
const EnvConfig = "LUAPACK_CONFIG"

// ConfigFileNames are the files discovered in the working directory, in
// order of preference.
var ConfigFileNames = []string{
	"luapack.toml",
	"luapack.yaml",
	"luapack.yml",
	"luapack.json",
	"luapack.cue",
}

// FindConfigFile returns the first of ConfigFileNames that is a regular
// file in dir, or "".
func FindConfigFile(dir string) string {
	for _, name := range ConfigFileNames {
		path := filepath.Join(dir, name)
		if info, err := os.Stat(path); err == nil && info.Mode().IsRegular() {
			return path
		}
	}
	return ""
}

// ExpandPath expands ~ to the user's home directory.
func ExpandPath(path string) (string, error) {
	if len(path) == 0 {
		return path, nil
	}

	if path[0] != '~' {
		return path, nil
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}

	if len(path) == 1 {
		return homeDir, nil
	}

	// Handle ~/path/to/something
	if path[1] == '/' || path[1] == filepath.Separator {
		return filepath.Join(homeDir, path[2:]), nil
	}

	// Handle ~username (not supported, return as-is)
	return path, nil
}

// ResolvePath expands ~ in value and joins relative results onto base.
// An empty base leaves relative paths untouched.
func ResolvePath(base, value string) (string, error) {
	expanded, err := ExpandPath(value)
	if err != nil {
		return "", err
	}
	if expanded == "" || filepath.IsAbs(expanded) || base == "" {
		return expanded, nil
	}
	return filepath.Join(base, expanded), nil
}

func dirOf(path string) string {
	return filepath.Dir(path)
}
