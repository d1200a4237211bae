// Package pipeline runs one bundling pass: parse rules and vendor specs,
// infer normalization suffixes, build the module graph, collect vendor
// modules and assemble the bundle.
package pipeline

import (
	"context"
	"fmt"
	"os"

	"github.com/luapack/luapack/internal/bundle"
	"github.com/luapack/luapack/internal/module"
	"github.com/luapack/luapack/internal/output"
	"github.com/luapack/luapack/internal/replace"
	"github.com/luapack/luapack/internal/syntax"
	"github.com/luapack/luapack/internal/vendor"
)

// Plan runs every phase except assembly.
//
// Phase sequence:
//  1. PREPARATION: read the entry, parse rules and vendor specs
//  2. NORMALIZE:   infer suffixes → *module.Normalizer
//  3. GRAPH:       module.BuildGraph() → *module.Graph
//  4. VENDOR:      vendor.Collect() → *vendor.Modules
//
// Malformed rules or specs and a missing vendor root are fatal. Unresolved
// names and vendor duplicates land in Result.Warnings.
func Plan(ctx context.Context, opts Options) (*Result, error) {
	res, _, err := plan(ctx, opts)
	return res, err
}

// Bundle runs Plan and assembles the bundle.
func Bundle(ctx context.Context, opts Options) (*Result, error) {
	res, src, err := plan(ctx, opts)
	if err != nil {
		return nil, err
	}

	// Phase 5: ASSEMBLE
	text, rewrites, err := bundle.Generate(res.Graph, bundle.Context{
		Preludes:    opts.Preludes,
		Entry:       opts.Entry,
		Rules:       res.Rules,
		Vendor:      res.Vendor.Paths,
		EntrySource: src,
		EntryPath:   opts.InputPath,
		Bind:        opts.Bind,
		Resolver:    res.Resolver,
		RedactBase:  opts.RedactBase,
		Normalizer:  res.Normalizer,
	})
	if err != nil {
		return nil, err
	}
	res.Bundle = text
	res.Rewrites = rewrites

	output.Debug("bundle assembled", "bytes", len(text), "rewrites", rewrites)
	return res, nil
}

func plan(ctx context.Context, opts Options) (*Result, string, error) {
	if err := opts.Validate(); err != nil {
		return nil, "", err
	}

	// Phase 1: PREPARATION
	code, err := os.ReadFile(opts.InputPath)
	if err != nil {
		return nil, "", &InputError{Path: opts.InputPath, Err: err}
	}
	src := string(code)

	rules, err := replace.ParseRules(opts.Replace)
	if err != nil {
		return nil, "", err
	}
	specs, err := vendor.ParseSpecs(opts.Vendors)
	if err != nil {
		return nil, "", err
	}

	res := &Result{Rules: rules, Specs: specs}
	if _, perr := syntax.Parse(src); perr != nil {
		res.ParseError = perr
		res.Warnings = append(res.Warnings, fmt.Sprintf("%s: %v", opts.InputPath, perr))
	}
	res.Requires = syntax.FindRequires(src)

	// Phase 2: NORMALIZE
	suffixes := module.InferSuffixes(module.SuffixSources{
		Paths:          opts.Paths,
		VendorPaths:    vendor.AllPaths(specs),
		VendorSuffixes: vendor.AllSuffixes(specs),
		RulePatterns:   replace.TargetPatterns(rules),
	})
	res.Normalizer = module.NewNormalizer(suffixes...)
	res.Resolver = module.NewResolver(opts.Paths)
	output.Debug("normalization suffixes", "suffixes", suffixes)

	if err := ctx.Err(); err != nil {
		return nil, "", err
	}

	// Phase 3: GRAPH
	res.Graph = module.BuildGraph(src, res.Resolver, res.Normalizer)
	output.Debug("module graph built",
		"first_party", len(res.Graph.FirstParty),
		"unresolved", len(res.Graph.Unresolved),
	)
	for _, name := range res.Graph.UnresolvedNames() {
		res.Warnings = append(res.Warnings, "unresolved module: "+name)
	}

	if err := ctx.Err(); err != nil {
		return nil, "", err
	}

	// Phase 4: VENDOR
	res.Vendor, err = vendor.Collect(specs, rules, res.Normalizer)
	if err != nil {
		return nil, "", err
	}
	output.Debug("vendor modules collected", "count", len(res.Vendor.Paths))
	for _, name := range res.Vendor.DuplicateNames() {
		res.Warnings = append(res.Warnings, "duplicate vendor module: "+name)
	}

	return res, src, nil
}
