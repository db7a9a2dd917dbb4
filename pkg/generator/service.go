package generator

import (
	"context"
	"fmt"
	"runtime"
	"sort"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/blimu-dev/fluid-gen/pkg/config"
	"github.com/blimu-dev/fluid-gen/pkg/generator/sink"
	"github.com/blimu-dev/fluid-gen/pkg/ir"
)

// Service renders a project's artifacts through one Language and writes
// them to a sink.
type Service struct {
	Language Language
	Sink     sink.OutputSink

	// Concurrency caps the number of units rendered and written in
	// parallel. Zero means GOMAXPROCS.
	Concurrency int
}

// NewService wires a language to a sink.
func NewService(lang Language, out sink.OutputSink) *Service {
	return &Service{Language: lang, Sink: out}
}

// Report summarizes one generation run.
type Report struct {
	// Files lists every path written, sorted.
	Files []string
	// Diagnostics carries the warnings and isolated failures of the run.
	Diagnostics []Diagnostic
}

// Generate plans and writes every artifact for the project. Planning
// failures (including output collisions) abort the run. A unit that fails
// to render is isolated: a placeholder file is written in its place and the
// failure is recorded as an error diagnostic, so one bad route group never
// blocks the rest of the output. Write failures are likewise recorded per
// file rather than aborting the run.
func (s *Service) Generate(ctx context.Context, project *ir.Project, cfg *config.Config) (*Report, error) {
	if s.Language == nil {
		return nil, fmt.Errorf("generator: no language configured")
	}
	if s.Sink == nil {
		return nil, fmt.Errorf("generator: no output sink configured")
	}

	plan, err := BuildPlan(project, cfg, s.Language.FileExtension())
	if err != nil {
		return nil, err
	}

	diags := &Diagnostics{}
	var mu sync.Mutex
	var written []string
	record := func(path string) {
		mu.Lock()
		written = append(written, path)
		mu.Unlock()
	}

	limit := s.Concurrency
	if limit <= 0 {
		limit = runtime.GOMAXPROCS(0)
	}
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)

	for i := range plan.Units {
		unit := &plan.Units[i]
		g.Go(func() error {
			content, renderErr := s.renderUnit(gctx, project, unit, cfg)
			if renderErr != nil {
				diags.Errorf("render", unit.Path, "%v", renderErr)
				content = placeholder(unit, renderErr)
			}
			if writeErr := s.Sink.WriteFile(gctx, unit.Path, content); writeErr != nil {
				if gctx.Err() != nil {
					return gctx.Err()
				}
				diags.Errorf("write", unit.Path, "%v", &IOError{Path: unit.Path, Cause: writeErr})
				return nil
			}
			record(unit.Path)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	if cfg.TargetEnv().Mode == config.ModeUnified {
		if err := s.writeProxies(ctx, cfg, diags, record); err != nil {
			return nil, err
		}
	}

	sort.Strings(written)
	return &Report{Files: written, Diagnostics: diags.Items()}, nil
}

func (s *Service) renderUnit(ctx context.Context, project *ir.Project, unit *Unit, cfg *config.Config) ([]byte, error) {
	switch unit.Kind {
	case UnitRuntime:
		return s.Language.RenderRuntime(ctx, cfg)
	case UnitRoutes:
		return s.Language.RenderUnit(ctx, project, unit, cfg)
	default:
		return nil, fmt.Errorf("unknown unit kind %q", unit.Kind)
	}
}

// writeProxies emits the framework proxy artifacts for unified mode.
func (s *Service) writeProxies(ctx context.Context, cfg *config.Config, diags *Diagnostics, record func(string)) error {
	files, err := s.Language.RenderProxy(ctx, cfg)
	if err != nil {
		diags.Errorf("render", "", "proxy: %v", err)
		return nil
	}
	for _, f := range files {
		if err := s.Sink.WriteFile(ctx, f.Path, f.Content); err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			diags.Errorf("write", f.Path, "%v", &IOError{Path: f.Path, Cause: err})
			continue
		}
		record(f.Path)
	}
	return nil
}

// placeholder is the content written when a unit fails to render. The file
// exists so downstream imports resolve, and names the failure so the reader
// finds it without digging through logs.
func placeholder(unit *Unit, err error) []byte {
	src := ""
	if unit.Group != nil {
		src = unit.Group.SourceFile
	}
	return []byte(fmt.Sprintf(
		"// Code generated by fluid-gen. DO NOT EDIT.\n//\n// Generation failed for %s: %v\n// Regenerate after fixing the source descriptors.\n",
		src, err))
}
