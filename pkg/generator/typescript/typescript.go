// Package typescript renders typed TypeScript fetch clients. It registers
// itself under the name "typescript".
package typescript

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	"text/template"

	"github.com/Masterminds/sprig/v3"

	"github.com/blimu-dev/fluid-gen/pkg/config"
	"github.com/blimu-dev/fluid-gen/pkg/generator"
	"github.com/blimu-dev/fluid-gen/pkg/ir"
	"github.com/blimu-dev/fluid-gen/pkg/utils"
)

//go:embed templates/*
var templatesFS embed.FS

func init() {
	generator.Register(New())
}

// TypeScript implements generator.Language.
type TypeScript struct{}

// New creates a TypeScript language renderer.
func New() *TypeScript {
	return &TypeScript{}
}

// Name returns the registry key.
func (g *TypeScript) Name() string { return "typescript" }

// FileExtension returns the generated file extension.
func (g *TypeScript) FileExtension() string { return "ts" }

// RenderUnit renders one route-group client file: the interfaces and enum
// aliases for every model the group references, then one exported async
// function per route.
func (g *TypeScript) RenderUnit(ctx context.Context, project *ir.Project, unit *generator.Unit, cfg *config.Config) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	view := buildUnitView(project, unit, cfg)
	out, err := render("client.ts.gotmpl", view)
	if err != nil {
		return nil, &generator.GenerationError{
			Item:  unit.Group.Prefix,
			File:  unit.Group.SourceFile,
			Cause: err,
		}
	}
	return out, nil
}

// RenderRuntime renders the shared runtime module. In unified mode the
// base URL is empty and requests flow through the framework proxy on the
// same origin; in separate mode the target environment's API URL is baked
// in.
func (g *TypeScript) RenderRuntime(ctx context.Context, cfg *config.Config) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	env := cfg.TargetEnv()
	out, err := render("runtime.ts.gotmpl", map[string]any{
		"Unified": env.Mode == config.ModeUnified,
		"APIUrl":  env.APIUrl,
	})
	if err != nil {
		return nil, &generator.GenerationError{Item: "runtime", Cause: err}
	}
	return out, nil
}

// RenderProxy renders the framework's catch-all API proxy for unified
// mode.
func (g *TypeScript) RenderProxy(ctx context.Context, cfg *config.Config) ([]generator.ProxyFile, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	backendURL := fmt.Sprintf("http://%s:%d", cfg.Backend.Host, cfg.Backend.Port)
	data := map[string]any{"BackendURL": backendURL}

	switch cfg.Framework {
	case "sveltekit":
		content, err := render("proxy_sveltekit.ts.gotmpl", data)
		if err != nil {
			return nil, &generator.GenerationError{Item: "proxy", Cause: err}
		}
		return []generator.ProxyFile{{Path: "src/routes/api/[...path]/+server.ts", Content: content}}, nil
	case "nextjs":
		content, err := render("proxy_nextjs.ts.gotmpl", data)
		if err != nil {
			return nil, &generator.GenerationError{Item: "proxy", Cause: err}
		}
		return []generator.ProxyFile{{Path: "app/api/[...path]/route.ts", Content: content}}, nil
	case "":
		return nil, nil
	default:
		return nil, fmt.Errorf("no proxy template for framework %q", cfg.Framework)
	}
}

func render(name string, data any) ([]byte, error) {
	raw, err := templatesFS.ReadFile("templates/" + name)
	if err != nil {
		return nil, fmt.Errorf("read template %s: %w", name, err)
	}

	funcMap := template.FuncMap{
		"pascal": utils.ToPascalCase,
		"camel":  utils.ToCamelCase,
		"kebab":  utils.ToKebabCase,
	}
	for k, v := range sprig.FuncMap() {
		funcMap[k] = v
	}

	tmpl, err := template.New(name).Funcs(funcMap).Parse(string(raw))
	if err != nil {
		return nil, fmt.Errorf("parse template %s: %w", name, err)
	}
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("execute template %s: %w", name, err)
	}
	return buf.Bytes(), nil
}
