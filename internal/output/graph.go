package output

import (
	"encoding/json"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

// ModuleEntry is one row of a module graph report.
type ModuleEntry struct {
	Name string `json:"name" yaml:"name"`
	Kind string `json:"kind" yaml:"kind"`
	Path string `json:"path,omitempty" yaml:"path,omitempty"`
}

// GraphReport lists every module a bundle would contain, plus the names
// that could not be resolved.
type GraphReport struct {
	Input   string        `json:"input" yaml:"input"`
	Entry   string        `json:"entry" yaml:"entry"`
	Modules []ModuleEntry `json:"modules" yaml:"modules"`
}

// WriteGraph writes report to w in the given format.
func WriteGraph(w io.Writer, report GraphReport, format OutputFormat) error {
	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(report)
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(report); err != nil {
			return fmt.Errorf("encoding graph: %w", err)
		}
		return enc.Close()
	case FormatTree:
		desc := make(map[string]string, len(report.Modules))
		for _, m := range report.Modules {
			// A shadowed vendor row never hides the module that wins.
			if _, ok := desc[m.Name]; !ok {
				desc[m.Name] = m.Kind
			}
		}
		_, err := io.WriteString(w, RenderModuleTree(report.Entry, desc))
		return err
	default:
		_, err := fmt.Fprintln(w, RenderModuleTable(report.Modules))
		return err
	}
}
