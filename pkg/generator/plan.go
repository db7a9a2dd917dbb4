package generator

import (
	"fmt"
	"path"
	"sort"
	"strings"

	"github.com/blimu-dev/fluid-gen/pkg/config"
	"github.com/blimu-dev/fluid-gen/pkg/ir"
)

// UnitKind distinguishes the artifacts a plan emits.
type UnitKind string

const (
	// UnitRoutes is one client file per route group.
	UnitRoutes UnitKind = "routes"
	// UnitRuntime is the shared runtime module, emitted once per run.
	UnitRuntime UnitKind = "runtime"
)

// Unit is one planned output file. Routes units carry their route group
// plus the IDs of every model the group transitively references, in
// deterministic order.
type Unit struct {
	Kind     UnitKind
	Path     string
	Group    *ir.RouteGroup
	ModelIDs []ir.ModelID
}

// Plan maps a project onto concrete output paths for one strategy. Building
// a plan performs no I/O; collisions are detected here, before anything is
// written.
type Plan struct {
	Units []Unit
}

// RuntimeBaseName is the shared runtime module's file name without
// extension.
const RuntimeBaseName = "runtime"

// BuildPlan computes the output file for every route group plus the shared
// runtime module. Two groups mapping to the same output path is a fatal
// CollisionError: proceeding would mean one silently overwriting the other.
func BuildPlan(project *ir.Project, cfg *config.Config, ext string) (*Plan, error) {
	plan := &Plan{}
	sources := make(map[string][]string)

	groups := make([]*ir.RouteGroup, 0, len(project.Groups))
	for i := range project.Groups {
		groups = append(groups, &project.Groups[i])
	}
	sort.Slice(groups, func(i, j int) bool {
		return groups[i].SourceFile < groups[j].SourceFile
	})

	for _, group := range groups {
		out, err := outputPath(group.SourceFile, cfg, ext)
		if err != nil {
			return nil, err
		}
		plan.Units = append(plan.Units, Unit{
			Kind:     UnitRoutes,
			Path:     out,
			Group:    group,
			ModelIDs: closure(project, group),
		})
		sources[out] = append(sources[out], group.SourceFile)
	}

	runtimePath := path.Join(cfg.Output.Location, RuntimeBaseName+"."+ext)
	plan.Units = append(plan.Units, Unit{Kind: UnitRuntime, Path: runtimePath})
	sources[runtimePath] = append(sources[runtimePath], "<runtime>")

	for out, srcs := range sources {
		if len(srcs) > 1 {
			sort.Strings(srcs)
			return nil, &CollisionError{Path: out, Sources: srcs}
		}
	}
	return plan, nil
}

// outputPath maps a source file to its artifact path. The final extension
// of the source is replaced with the target language's: "users/list.api.py"
// becomes "users/list.api.ts". Mirror places the result under the
// configured output location; co-locate places it next to the source.
func outputPath(sourceFile string, cfg *config.Config, ext string) (string, error) {
	if sourceFile == "" {
		return "", fmt.Errorf("route group has no source file")
	}
	src := path.Clean(strings.ReplaceAll(sourceFile, "\\", "/"))
	base := strings.TrimSuffix(src, path.Ext(src))
	out := base + "." + ext

	switch cfg.Output.Strategy {
	case config.StrategyMirror:
		return path.Join(cfg.Output.Location, out), nil
	case config.StrategyCoLocate:
		return out, nil
	default:
		return "", fmt.Errorf("unknown output strategy %q", cfg.Output.Strategy)
	}
}

// closure returns every model the group's routes reference, directly or
// through other models, ordered by name then ID.
func closure(project *ir.Project, group *ir.RouteGroup) []ir.ModelID {
	seen := make(map[ir.ModelID]struct{})
	var visit func(id ir.ModelID)
	visit = func(id ir.ModelID) {
		if _, ok := seen[id]; ok {
			return
		}
		seen[id] = struct{}{}
		m := project.Model(id)
		if m == nil {
			return
		}
		for _, ref := range m.References() {
			visit(ref)
		}
	}
	for i := range group.Routes {
		for _, id := range group.Routes[i].References() {
			visit(id)
		}
	}

	out := make([]ir.ModelID, 0, len(seen))
	for id := range seen {
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool {
		a, b := project.Model(out[i]), project.Model(out[j])
		if a != nil && b != nil && a.Name != b.Name {
			return a.Name < b.Name
		}
		return out[i] < out[j]
	})
	return out
}
