package generator

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/blimu-dev/fluid-gen/pkg/config"
	"github.com/blimu-dev/fluid-gen/pkg/generator/sink"
	"github.com/blimu-dev/fluid-gen/pkg/ir"
)

// fakeLang renders deterministic content and can be told to fail on a
// specific source file.
type fakeLang struct {
	failOn string
}

func (f *fakeLang) Name() string          { return "fake" }
func (f *fakeLang) FileExtension() string { return "ts" }

func (f *fakeLang) RenderUnit(ctx context.Context, project *ir.Project, unit *Unit, cfg *config.Config) ([]byte, error) {
	if unit.Group.SourceFile == f.failOn {
		return nil, &GenerationError{Item: unit.Group.Prefix, File: unit.Group.SourceFile, Message: "boom"}
	}
	return []byte("// unit " + unit.Group.SourceFile + "\n"), nil
}

func (f *fakeLang) RenderRuntime(ctx context.Context, cfg *config.Config) ([]byte, error) {
	return []byte("// runtime\n"), nil
}

func (f *fakeLang) RenderProxy(ctx context.Context, cfg *config.Config) ([]ProxyFile, error) {
	return []ProxyFile{{Path: "src/routes/api/[...path]/+server.ts", Content: []byte("// proxy\n")}}, nil
}

func serviceProject() *ir.Project {
	p := ir.NewProject()
	p.Groups = []ir.RouteGroup{
		{SourceFile: "users/users.api.py", Routes: []ir.Route{{Name: "a", Method: "GET", Path: "/users"}}},
		{SourceFile: "orders/orders.api.py", Routes: []ir.Route{{Name: "b", Method: "GET", Path: "/orders"}}},
	}
	return p
}

func TestServiceGenerate(t *testing.T) {
	mem := sink.NewMemorySink()
	svc := NewService(&fakeLang{}, mem)

	report, err := svc.Generate(context.Background(), serviceProject(), config.Default())
	if err != nil {
		t.Fatal(err)
	}
	if len(report.Diagnostics) != 0 {
		t.Errorf("diagnostics = %v", report.Diagnostics)
	}

	files := mem.Files()
	for _, want := range []string{
		".fluid/users/users.api.ts",
		".fluid/orders/orders.api.ts",
		".fluid/runtime.ts",
	} {
		if _, ok := files[want]; !ok {
			t.Errorf("missing output %q; have %v", want, report.Files)
		}
	}
}

func TestServiceIsolatesRenderFailure(t *testing.T) {
	mem := sink.NewMemorySink()
	svc := NewService(&fakeLang{failOn: "users/users.api.py"}, mem)

	report, err := svc.Generate(context.Background(), serviceProject(), config.Default())
	if err != nil {
		t.Fatal(err)
	}

	// The failed unit still produces a file, so imports of it resolve.
	content := mem.Get(".fluid/users/users.api.ts")
	if content == nil {
		t.Fatal("placeholder not written for failed unit")
	}
	if !strings.Contains(string(content), "Generation failed") {
		t.Errorf("placeholder content = %q", content)
	}

	// The sibling unit is unaffected.
	if mem.Get(".fluid/orders/orders.api.ts") == nil {
		t.Error("healthy unit blocked by sibling failure")
	}

	var renderErrors int
	for _, d := range report.Diagnostics {
		if d.Severity == SeverityError && d.Stage == "render" {
			renderErrors++
		}
	}
	if renderErrors != 1 {
		t.Errorf("render error diagnostics = %d, want 1", renderErrors)
	}
}

func TestServiceCollisionIsFatal(t *testing.T) {
	p := ir.NewProject()
	p.Groups = []ir.RouteGroup{
		{SourceFile: "users/users.api.py"},
		{SourceFile: "users/users.api.pyi"},
	}
	svc := NewService(&fakeLang{}, sink.NewMemorySink())
	_, err := svc.Generate(context.Background(), p, config.Default())
	if !errors.Is(err, ErrOutputCollision) {
		t.Fatalf("err = %v, want collision", err)
	}
}

func TestServiceUnifiedModeWritesProxy(t *testing.T) {
	cfg := config.Default()
	cfg.Framework = "sveltekit"
	cfg.Environments["development"] = config.Environment{Mode: config.ModeUnified, APIUrl: "http://127.0.0.1:8000"}

	mem := sink.NewMemorySink()
	svc := NewService(&fakeLang{}, mem)
	if _, err := svc.Generate(context.Background(), serviceProject(), cfg); err != nil {
		t.Fatal(err)
	}
	if mem.Get("src/routes/api/[...path]/+server.ts") == nil {
		t.Error("proxy not written in unified mode")
	}
}

func TestServiceDeterministic(t *testing.T) {
	run := func() map[string][]byte {
		mem := sink.NewMemorySink()
		svc := NewService(&fakeLang{}, mem)
		if _, err := svc.Generate(context.Background(), serviceProject(), config.Default()); err != nil {
			t.Fatal(err)
		}
		return mem.Files()
	}

	first, second := run(), run()
	if len(first) != len(second) {
		t.Fatalf("file counts differ: %d vs %d", len(first), len(second))
	}
	for path, content := range first {
		if !bytes.Equal(content, second[path]) {
			t.Errorf("output for %q differs between identical runs", path)
		}
	}
}
