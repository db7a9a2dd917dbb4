// Package fluidgen turns HTTP API descriptors into typed frontend
// clients.
//
// The pipeline reads route and schema descriptors (from a snapshot file or
// an OpenAPI document), resolves folder-convention route groups, builds a
// language-neutral project model, and renders one client file per route
// group plus a shared runtime module.
//
// Quick start:
//
//	import "github.com/blimu-dev/fluid-gen"
//
//	report, err := fluidgen.Generate(ctx, fluidgen.Options{
//		Config:   "fluid.config.yaml",
//		Snapshot: "routes.snapshot.yaml",
//		Root:     ".",
//	})
//
// For finer control, wire the pieces from pkg/descriptor, pkg/builder, and
// pkg/generator directly.
package fluidgen

import (
	"context"
	"fmt"

	"github.com/blimu-dev/fluid-gen/pkg/builder"
	"github.com/blimu-dev/fluid-gen/pkg/config"
	"github.com/blimu-dev/fluid-gen/pkg/descriptor"
	"github.com/blimu-dev/fluid-gen/pkg/generator"
	"github.com/blimu-dev/fluid-gen/pkg/generator/sink"

	// Registers the TypeScript renderer.
	_ "github.com/blimu-dev/fluid-gen/pkg/generator/typescript"
)

// Options configures one generation run.
type Options struct {
	// Config is the path to the YAML configuration file. Empty uses the
	// defaults.
	Config string

	// Exactly one descriptor source: Snapshot is a descriptor snapshot
	// file, OpenAPI is a specification file or URL, and Source overrides
	// both for callers bringing their own implementation.
	Snapshot string
	OpenAPI  string
	Source   descriptor.Source

	// Root is the project root output paths are resolved against.
	// Defaults to the current directory.
	Root string

	// Sink overrides the output destination; tests use a MemorySink.
	Sink sink.OutputSink
}

// Report is the outcome of a generation run.
type Report struct {
	// Files lists every path written, sorted.
	Files []string
	// Warnings are the non-fatal degradations from descriptor conversion.
	Warnings []builder.Warning
	// Diagnostics are the isolated render and write failures.
	Diagnostics []generator.Diagnostic
}

// Generate runs the full pipeline: load config, read descriptors, build
// the project, render and write artifacts.
func Generate(ctx context.Context, opts Options) (*Report, error) {
	cfg, err := loadConfig(opts.Config)
	if err != nil {
		return nil, err
	}

	src, err := openSource(ctx, opts)
	if err != nil {
		return nil, err
	}

	project, warnings, err := builder.Build(ctx, src, cfg)
	if err != nil {
		return nil, err
	}

	lang, err := generator.Lookup(cfg.Language)
	if err != nil {
		return nil, err
	}

	out := opts.Sink
	if out == nil {
		root := opts.Root
		if root == "" {
			root = "."
		}
		out = sink.NewFilesystemSink(root)
	}

	report, err := generator.NewService(lang, out).Generate(ctx, project, cfg)
	if err != nil {
		return nil, err
	}
	return &Report{
		Files:       report.Files,
		Warnings:    warnings,
		Diagnostics: report.Diagnostics,
	}, nil
}

// Validate checks configuration and descriptors without writing anything:
// the pipeline runs up to and including discovery validation and IR
// construction.
func Validate(ctx context.Context, opts Options) ([]builder.Warning, error) {
	cfg, err := loadConfig(opts.Config)
	if err != nil {
		return nil, err
	}
	src, err := openSource(ctx, opts)
	if err != nil {
		return nil, err
	}
	_, warnings, err := builder.Build(ctx, src, cfg)
	return warnings, err
}

func loadConfig(path string) (*config.Config, error) {
	if path == "" {
		return config.Default(), nil
	}
	return config.Load(path)
}

func openSource(ctx context.Context, opts Options) (descriptor.Source, error) {
	switch {
	case opts.Source != nil:
		return opts.Source, nil
	case opts.Snapshot != "":
		return descriptor.LoadSnapshot(opts.Snapshot)
	case opts.OpenAPI != "":
		return descriptor.LoadOpenAPI(ctx, opts.OpenAPI)
	default:
		return nil, fmt.Errorf("fluidgen: no descriptor source configured (need Snapshot, OpenAPI, or Source)")
	}
}
