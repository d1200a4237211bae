package output

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
)

// RequireInfo is one module reference found in the entry source.
type RequireInfo struct {
	Module   string `json:"module"`
	Line     int    `json:"line"`
	Col      int    `json:"col"`
	Resolved string `json:"resolved,omitempty"`
}

// DiagnosticsInfo is everything the bundle command reports with
// --diagnostics.
type DiagnosticsInfo struct {
	Input            string        `json:"input"`
	Lua              string        `json:"lua"`
	ParseError       string        `json:"parse_error,omitempty"`
	Paths            []string      `json:"paths"`
	Preludes         []string      `json:"preludes"`
	Rules            []string      `json:"replace_rules"`
	VendorSpecs      []string      `json:"vendor_specs"`
	Output           string        `json:"output"`
	Requires         []RequireInfo `json:"requires"`
	FirstParty       int           `json:"first_party"`
	Unresolved       []string      `json:"unresolved"`
	VendorModules    int           `json:"vendor_modules"`
	VendorDuplicates []string      `json:"vendor_duplicates"`
	Rewrites         int           `json:"rewrites"`
}

// WriteDiagnostics writes info to w as indented JSON or as a plain report.
func WriteDiagnostics(w io.Writer, info *DiagnosticsInfo, asJSON bool) error {
	if asJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(info)
	}
	_, err := io.WriteString(w, formatDiagnostics(info))
	return err
}

func formatDiagnostics(info *DiagnosticsInfo) string {
	var sb strings.Builder

	if info.ParseError != "" {
		fmt.Fprintf(&sb, "parse error: %s: %s (lua=%s)\n", info.Input, info.ParseError, info.Lua)
	} else {
		fmt.Fprintf(&sb, "parsed ok: %s (lua=%s)\n", info.Input, info.Lua)
	}

	if len(info.Paths) > 0 {
		fmt.Fprintf(&sb, "paths: %s\n", strings.Join(info.Paths, ", "))
	}
	if len(info.Preludes) > 0 {
		fmt.Fprintf(&sb, "preludes: %s\n", strings.Join(info.Preludes, ", "))
	}
	writeList(&sb, "replace rules", info.Rules, "  ")
	writeList(&sb, "vendor specs", info.VendorSpecs, "  ")
	fmt.Fprintf(&sb, "output: %s\n", info.Output)

	fmt.Fprintf(&sb, "require literals found (%d):\n", len(info.Requires))
	for _, r := range info.Requires {
		fmt.Fprintf(&sb, "  %s:%d:%d -> %s\n", info.Input, r.Line, r.Col, r.Module)
		if r.Resolved != "" {
			fmt.Fprintf(&sb, "    resolved: %s\n", r.Resolved)
		} else {
			sb.WriteString("    unresolved with given paths\n")
		}
	}

	fmt.Fprintf(&sb, "graph: first_party=%d unresolved=%d\n", info.FirstParty, len(info.Unresolved))
	if len(info.Unresolved) > 0 {
		sb.WriteString("unresolved modules (unique):\n")
		for _, name := range info.Unresolved {
			fmt.Fprintf(&sb, "  - %s\n", name)
		}
	}
	writeList(&sb, "vendor duplicate module names", info.VendorDuplicates, "  - ")
	fmt.Fprintf(&sb, "vendor included modules: %d\n", info.VendorModules)
	fmt.Fprintf(&sb, "bundle literal rewrites: %d\n", info.Rewrites)
	return sb.String()
}

// writeList writes a counted heading and one line per item. Empty lists
// are omitted.
func writeList(sb *strings.Builder, heading string, items []string, indent string) {
	if len(items) == 0 {
		return
	}
	fmt.Fprintf(sb, "%s (%d):\n", heading, len(items))
	for _, item := range items {
		sb.WriteString(indent)
		sb.WriteString(item)
		sb.WriteString("\n")
	}
}
