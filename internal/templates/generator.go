package templates

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/luapack/luapack/internal/output"
)

// Generator writes starter config files.
type Generator struct {
	opts GenerateOptions
}

// NewGenerator creates a new generator with the given options.
func NewGenerator(opts GenerateOptions) *Generator {
	return &Generator{opts: opts}
}

// Generate renders and writes the config file.
func (g *Generator) Generate() (*GenerateResult, error) {
	format := g.opts.Format
	if format == "" {
		format = TOML
	}

	data := DefaultConfigData()
	if g.opts.Data != nil {
		data = *g.opts.Data
	}

	if err := g.checkTargetDir(); err != nil {
		return nil, err
	}

	content, err := RenderConfig(format, data)
	if err != nil {
		return nil, fmt.Errorf("rendering config: %w", err)
	}

	targetPath := filepath.Join(g.opts.TargetDir, format.FileName())
	if !g.opts.Force {
		if _, err := os.Stat(targetPath); err == nil {
			return nil, fmt.Errorf("file %s already exists; use --force to overwrite", targetPath)
		}
	}

	if err := os.MkdirAll(g.opts.TargetDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating directory %s: %w", g.opts.TargetDir, err)
	}
	if err := os.WriteFile(targetPath, []byte(content), 0o644); err != nil {
		return nil, fmt.Errorf("writing %s: %w", targetPath, err)
	}

	output.Debug("created config", "path", targetPath, "format", format)
	return &GenerateResult{Path: targetPath, Format: format}, nil
}

// checkTargetDir validates the target directory.
func (g *Generator) checkTargetDir() error {
	info, err := os.Stat(g.opts.TargetDir)
	if os.IsNotExist(err) {
		// Directory doesn't exist, will be created
		return nil
	}
	if err != nil {
		return fmt.Errorf("checking target directory: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("%s is not a directory", g.opts.TargetDir)
	}
	return nil
}
