package config

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueerrors "cuelang.org/go/cue/errors"
	"github.com/go-viper/mapstructure/v2"
	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/viper"

	lperrors "github.com/luapack/luapack/internal/errors"
	"github.com/luapack/luapack/internal/output"
)

//go:embed schema/config.cue
var configSchemaCUE []byte

// Environment variable prefix for luapack configuration.
const envPrefix = "LUAPACK"

// bundleKeys are the keys of the [bundle] table.
var bundleKeys = []string{
	"lua", "paths", "preludes", "replace", "vendors",
	"output", "entry", "bind_require", "diagnostics", "redact_base",
}

// pathKeys hold filesystem paths resolved against the config directory.
var pathKeys = map[string]bool{
	"paths": true, "preludes": true, "output": true, "redact_base": true,
}

// EnvName returns the environment variable that overrides a dotted key,
// e.g. "bundle.bind_require" -> LUAPACK_BUNDLE_BIND_REQUIRE.
func EnvName(key string) string {
	return envPrefix + "_" + strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
}

// Loader handles loading and merging configuration from a file and the
// environment.
type Loader struct {
	v *viper.Viper
}

// NewLoader creates a new configuration loader.
func NewLoader() *Loader {
	v := viper.New()

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	for _, key := range bundleKeys {
		_ = v.BindEnv("bundle."+key, EnvName("bundle."+key))
	}
	_ = v.BindEnv("log.timestamps", EnvName("log.timestamps"))

	return &Loader{v: v}
}

// LoaderOptions selects the config file.
type LoaderOptions struct {
	// ConfigFlag is the --config flag value.
	ConfigFlag string
	// WorkDir is searched when no file is named. Empty uses the process
	// working directory.
	WorkDir string
}

// Load resolves the config path and loads it. No file found yields a
// Config carrying only environment values.
func Load(opts LoaderOptions) (*Config, error) {
	workDir := opts.WorkDir
	if workDir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("determining working directory: %w", err)
		}
		workDir = wd
	}

	res := ResolveConfigPath(ResolveConfigPathOptions{
		FlagValue: opts.ConfigFlag,
		WorkDir:   workDir,
	})
	output.Debug("config path resolved", "path", res.ConfigPath, "source", res.Source)

	cfg, err := NewLoader().Load(res.ConfigPath)
	if err != nil {
		return nil, err
	}
	cfg.Source = res.Source
	return cfg, nil
}

// Load reads configFile, overlays the environment and decodes the result.
// An empty configFile loads the environment only.
func (l *Loader) Load(configFile string) (*Config, error) {
	var path string
	if configFile != "" {
		expanded, err := ExpandPath(configFile)
		if err != nil {
			return nil, fmt.Errorf("expanding config path: %w", err)
		}
		if path, err = filepath.Abs(expanded); err != nil {
			return nil, fmt.Errorf("resolving config path: %w", err)
		}
		if err := l.readFile(path); err != nil {
			return nil, err
		}
	}

	var cfg Config
	if err := l.v.UnmarshalExact(&cfg, viper.DecodeHook(listHook())); err != nil {
		return nil, &lperrors.DetailError{
			Type:     "invalid config",
			Message:  err.Error(),
			Location: path,
			Hint:     "Run 'luapack config init' for a commented starting point.",
			Cause:    lperrors.ErrValidation,
		}
	}
	cfg.Path = path
	cfg.sources = make(map[string]ConfigSource)

	dir := ""
	if path != "" {
		dir = filepath.Dir(path)
	}
	for _, key := range bundleKeys {
		full := "bundle." + key
		switch {
		case os.Getenv(EnvName(full)) != "":
			cfg.sources[key] = SourceEnv
		case path != "" && l.v.InConfig(full):
			cfg.sources[key] = SourceConfig
		}
	}
	if err := cfg.resolvePaths(dir); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// readFile loads path into viper, picking the codec from its extension.
func (l *Loader) readFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		switch {
		case errors.Is(err, os.ErrNotExist):
			return lperrors.NewNotFoundError("configuration file not found", path,
				"Run 'luapack config init' to create one, or unset "+EnvConfig+".")
		case errors.Is(err, os.ErrPermission):
			return lperrors.NewPermissionError("cannot read configuration file",
				map[string]string{"Path": path}, "")
		default:
			return fmt.Errorf("reading config file: %w", err)
		}
	}

	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
	switch ext {
	case "toml":
		if err := checkTOML(path, data); err != nil {
			return err
		}
	case "yaml", "yml", "json":
	case "cue":
		if data, err = compileCUE(path, data); err != nil {
			return err
		}
		ext = "json"
	default:
		return lperrors.NewValidationError(
			fmt.Sprintf("unsupported config format %q", ext), path, "",
			"Use one of: "+strings.Join(ConfigFileNames, ", "))
	}

	l.v.SetConfigType(ext)
	if err := l.v.ReadConfig(bytes.NewReader(data)); err != nil {
		return &lperrors.DetailError{
			Type:     "invalid config",
			Message:  err.Error(),
			Location: path,
			Cause:    lperrors.ErrValidation,
		}
	}
	output.Debug("config file loaded", "path", path, "format", ext)
	return nil
}

// resolvePaths expands ~ in path-valued keys and joins relative values
// from the file onto dir.
func (c *Config) resolvePaths(dir string) error {
	base := func(key string) string {
		if c.sources[key] == SourceConfig {
			return dir
		}
		return ""
	}

	var err error
	resolveOne := func(key, value string) string {
		if err != nil {
			return value
		}
		var out string
		out, err = ResolvePath(base(key), value)
		return out
	}

	for i, p := range c.Bundle.Paths {
		c.Bundle.Paths[i] = resolveOne("paths", p)
	}
	for i, p := range c.Bundle.Preludes {
		c.Bundle.Preludes[i] = resolveOne("preludes", p)
	}
	c.Bundle.Output = resolveOne("output", c.Bundle.Output)
	c.Bundle.RedactBase = resolveOne("redact_base", c.Bundle.RedactBase)
	if err != nil {
		return fmt.Errorf("resolving config paths: %w", err)
	}
	return nil
}

// SplitList splits a ";"-separated list, trimming entries and dropping
// empty ones.
func SplitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ";") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// listHook decodes a string into a []string with SplitList, so list keys
// can be set from a single environment variable.
func listHook() mapstructure.DecodeHookFuncType {
	stringSlice := reflect.TypeOf([]string(nil))
	return func(from, to reflect.Type, data any) (any, error) {
		if from.Kind() != reflect.String || to != stringSlice {
			return data, nil
		}
		return SplitList(data.(string)), nil
	}
}

// checkTOML decodes data with go-toml to report syntax errors with their
// line and column.
func checkTOML(path string, data []byte) error {
	var doc map[string]any
	err := toml.Unmarshal(data, &doc)
	if err == nil {
		return nil
	}

	var derr *toml.DecodeError
	if errors.As(err, &derr) {
		row, col := derr.Position()
		return &lperrors.DetailError{
			Type:     "invalid config",
			Message:  derr.Error(),
			Location: fmt.Sprintf("%s:%d:%d", path, row, col),
			Cause:    lperrors.ErrValidation,
		}
	}
	return &lperrors.DetailError{
		Type:     "invalid config",
		Message:  err.Error(),
		Location: path,
		Cause:    lperrors.ErrValidation,
	}
}

// compileCUE evaluates a CUE config against the embedded #Config schema and
// exports it as JSON.
func compileCUE(path string, data []byte) ([]byte, error) {
	ctx := cuecontext.New()

	schema := ctx.CompileBytes(configSchemaCUE, cue.Filename("schema/config.cue"))
	if err := schema.Err(); err != nil {
		return nil, fmt.Errorf("compiling config schema: %w", err)
	}

	val := ctx.CompileBytes(data, cue.Filename(path))
	if err := val.Err(); err != nil {
		return nil, cueDetail(path, err)
	}

	unified := schema.LookupPath(cue.ParsePath("#Config")).Unify(val)
	if err := unified.Validate(cue.Concrete(true)); err != nil {
		return nil, cueDetail(path, err)
	}

	out, err := unified.MarshalJSON()
	if err != nil {
		return nil, cueDetail(path, err)
	}
	return out, nil
}

func cueDetail(path string, err error) error {
	return &lperrors.DetailError{
		Type:     "invalid config",
		Message:  strings.TrimSpace(cueerrors.Details(err, nil)),
		Location: path,
		Hint:     "Allowed keys are described by 'luapack config init --format cue'.",
		Cause:    lperrors.ErrValidation,
	}
}
