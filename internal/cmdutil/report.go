package cmdutil

import (
	"cmp"
	"slices"

	"github.com/luapack/luapack/internal/bundle"
	"github.com/luapack/luapack/internal/output"
	"github.com/luapack/luapack/internal/pipeline"
)

// BuildDiagnostics gathers the --diagnostics report for a run. outputPath
// empty means stdout.
func BuildDiagnostics(res *pipeline.Result, opts pipeline.Options, outputPath string) *output.DiagnosticsInfo {
	info := &output.DiagnosticsInfo{
		Input:            opts.InputPath,
		Lua:              opts.Lua,
		Paths:            opts.Paths,
		Preludes:         opts.Preludes,
		Output:           outputPath,
		FirstParty:       len(res.Graph.FirstParty),
		Unresolved:       res.Graph.UnresolvedNames(),
		VendorModules:    len(res.Vendor.Paths),
		VendorDuplicates: res.Vendor.DuplicateNames(),
		Rewrites:         res.Rewrites,
	}
	if info.Output == "" {
		info.Output = "stdout"
	}
	if res.ParseError != nil {
		info.ParseError = res.ParseError.Error()
	}
	for _, r := range res.Rules {
		info.Rules = append(info.Rules, r.Raw)
	}
	for _, s := range res.Specs {
		info.VendorSpecs = append(info.VendorSpecs, s.Raw)
	}
	for _, r := range res.Requires {
		ri := output.RequireInfo{Module: r.Module, Line: r.Line, Col: r.Col}
		if path, ok := res.Resolver.Resolve(r.Module); ok {
			ri.Resolved = path
		}
		info.Requires = append(info.Requires, ri)
	}
	return info
}

// BuildGraphReport lists first-party, vendor and unresolved modules. A
// vendor module whose name is also first-party is reported as shadowed.
func BuildGraphReport(res *pipeline.Result, opts pipeline.Options) output.GraphReport {
	report := output.GraphReport{
		Input: opts.InputPath,
		Entry: opts.Entry,
	}
	if report.Entry == "" {
		report.Entry = bundle.RootModule
	}

	for name, path := range res.Graph.FirstParty {
		report.Modules = append(report.Modules, output.ModuleEntry{Name: name, Kind: output.KindFirstParty, Path: path})
	}
	for name, path := range res.Vendor.Paths {
		kind := output.KindVendor
		if _, ok := res.Graph.FirstParty[name]; ok {
			kind = output.KindShadowed
		}
		report.Modules = append(report.Modules, output.ModuleEntry{Name: name, Kind: kind, Path: path})
	}
	for _, name := range res.Graph.UnresolvedNames() {
		report.Modules = append(report.Modules, output.ModuleEntry{Name: name, Kind: output.KindUnresolved})
	}

	slices.SortFunc(report.Modules, func(a, b output.ModuleEntry) int {
		return cmp.Or(cmp.Compare(a.Name, b.Name), cmp.Compare(a.Kind, b.Kind))
	})
	return report
}
