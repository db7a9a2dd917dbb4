// Package builder converts raw descriptors into the canonical Project IR.
//
// Model construction is two-pass: the first pass registers a stub model for
// every distinct source identity so forward and mutually-recursive
// references resolve, and the second pass fills in fields. References are
// kept as identity edges; nothing is ever inlined.
package builder

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/blimu-dev/fluid-gen/pkg/config"
	"github.com/blimu-dev/fluid-gen/pkg/descriptor"
	"github.com/blimu-dev/fluid-gen/pkg/discovery"
	"github.com/blimu-dev/fluid-gen/pkg/ir"
)

// Warning is a non-fatal diagnostic collected during IR construction.
type Warning struct {
	// Context names the schema, field, or route the warning concerns.
	Context string
	Message string
}

func (w Warning) String() string {
	return w.Context + ": " + w.Message
}

// Build produces the Project IR for one generation run. Unrecognized type
// descriptors degrade to the Unknown type with a collected warning; only a
// failing Source or a discovery validation failure is fatal.
func Build(ctx context.Context, src descriptor.Source, cfg *config.Config) (*ir.Project, []Warning, error) {
	routes, err := src.Routes(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("enumerate routes: %w", err)
	}
	schemas, err := src.Schemas(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("enumerate schemas: %w", err)
	}

	routes, err = filterRoutes(routes, cfg)
	if err != nil {
		return nil, nil, err
	}
	groups, err := discovery.Resolve(routes)
	if err != nil {
		return nil, nil, err
	}

	b := &build{
		project: ir.NewProject(),
		schemas: map[string]descriptor.SchemaDescriptor{},
	}

	// Pass 1: a stub per distinct source identity. Forward references in
	// pass 2 resolve against these.
	for _, sd := range schemas {
		if _, ok := b.schemas[sd.SourceID]; ok {
			b.warnf(sd.SourceID, "duplicate schema identity; first definition wins")
			continue
		}
		b.schemas[sd.SourceID] = sd
		b.project.AddModel(&ir.Model{
			ID:         ir.ModelID(sd.SourceID),
			Name:       sd.Name,
			SourceFile: sd.File,
			IsEnum:     sd.IsEnum,
			EnumValues: sd.Values,
		})
	}

	// Pass 2: fill fields, resolving nested and recursive types to
	// Reference edges.
	for _, m := range b.project.Models() {
		sd := b.schemas[string(m.ID)]
		m.Doc = sd.Doc
		m.Fields = b.buildFields(sd)
	}

	for _, g := range groups {
		b.project.Groups = append(b.project.Groups, b.buildGroup(g))
	}

	b.prune()
	return b.project, b.warnings, nil
}

type build struct {
	project  *ir.Project
	schemas  map[string]descriptor.SchemaDescriptor
	warnings []Warning
}

func (b *build) warnf(context, format string, args ...any) {
	b.warnings = append(b.warnings, Warning{Context: context, Message: fmt.Sprintf(format, args...)})
}

func (b *build) buildFields(sd descriptor.SchemaDescriptor) []ir.Field {
	seen := map[string]bool{}
	fields := make([]ir.Field, 0, len(sd.Fields))
	for _, fd := range sd.Fields {
		if seen[fd.Name] {
			b.warnf(sd.Name, "duplicate field %q ignored", fd.Name)
			continue
		}
		seen[fd.Name] = true
		fields = append(fields, ir.Field{
			Name:     fd.Name,
			Type:     b.typeRef(fd.Type, sd.Name+"."+fd.Name),
			Optional: fd.Optional || fd.Default != nil,
			Default:  fd.Default,
			Doc:      fd.Doc,
			Constraints: ir.Constraints{
				MinValue:  fd.Constraints.MinValue,
				MaxValue:  fd.Constraints.MaxValue,
				MinLength: fd.Constraints.MinLength,
				MaxLength: fd.Constraints.MaxLength,
				Pattern:   fd.Constraints.Pattern,
			},
		})
	}
	return fields
}

func (b *build) buildGroup(g discovery.Group) ir.RouteGroup {
	out := ir.RouteGroup{Prefix: g.Prefix, SourceFile: g.File}
	for _, rd := range g.Routes {
		out.Routes = append(out.Routes, b.buildRoute(g, rd))
	}
	sort.Slice(out.Routes, func(i, j int) bool {
		if out.Routes[i].Path == out.Routes[j].Path {
			return out.Routes[i].Method < out.Routes[j].Method
		}
		return out.Routes[i].Path < out.Routes[j].Path
	})
	return out
}

func (b *build) buildRoute(g discovery.Group, rd descriptor.RouteDescriptor) ir.Route {
	route := ir.Route{
		Name:       rd.Name,
		Method:     strings.ToUpper(rd.Method),
		Path:       discovery.ResolvedPath(g.Prefix, rd.Path),
		Doc:        rd.Doc,
		SourceFile: rd.File,
		Response:   ir.Primitive(ir.PrimAny),
	}
	ctx := routeContext(rd)
	for _, pd := range rd.Params {
		route.Params = append(route.Params, ir.Parameter{
			Name:     pd.Name,
			Location: paramLocation(pd.Location),
			Type:     b.typeRef(pd.Type, ctx+" param "+pd.Name),
			Required: pd.Required && pd.Default == nil,
			Default:  pd.Default,
			Doc:      pd.Doc,
		})
	}
	if rd.Response != nil {
		route.Response = b.typeRef(*rd.Response, ctx+" response")
	}
	return route
}

// typeRef converts a raw type descriptor, degrading unrecognized kinds to
// Unknown with a collected warning rather than failing the run.
func (b *build) typeRef(td descriptor.TypeDescriptor, context string) ir.TypeRef {
	switch td.Kind {
	case "string":
		return ir.Primitive(ir.PrimString)
	case "int", "integer":
		return ir.Primitive(ir.PrimInt)
	case "float", "number":
		return ir.Primitive(ir.PrimFloat)
	case "bool", "boolean":
		return ir.Primitive(ir.PrimBool)
	case "null", "none":
		return ir.Primitive(ir.PrimNull)
	case "any":
		return ir.Primitive(ir.PrimAny)
	case "array":
		if td.Items == nil {
			return ir.Array(ir.Primitive(ir.PrimAny))
		}
		return ir.Array(b.typeRef(*td.Items, context))
	case "optional":
		if td.Items == nil {
			return ir.Optional(ir.Primitive(ir.PrimAny))
		}
		return ir.Optional(b.typeRef(*td.Items, context))
	case "map":
		key := ir.Primitive(ir.PrimString)
		if td.Key != nil {
			key = b.typeRef(*td.Key, context)
		}
		value := ir.Primitive(ir.PrimAny)
		if td.Value != nil {
			value = b.typeRef(*td.Value, context)
		}
		return ir.Map(key, value)
	case "union":
		variants := make([]ir.TypeRef, 0, len(td.Variants))
		for _, v := range td.Variants {
			variants = append(variants, b.typeRef(v, context))
		}
		return ir.Union(variants...)
	case "enum":
		return ir.Enum(td.Name, td.Values)
	case "literal":
		return ir.Literal(td.Literal)
	case "ref":
		if _, ok := b.schemas[td.Ref]; !ok {
			b.warnf(context, "reference to unknown schema %q; using unknown type", td.Ref)
			return ir.Unknown()
		}
		return ir.Reference(ir.ModelID(td.Ref))
	default:
		b.warnf(context, "unsupported type kind %q; using unknown type", td.Kind)
		return ir.Unknown()
	}
}

// prune keeps only models transitively reachable from route parameters and
// responses. When the surface declares no routes at all the full model set
// is kept, so schema-only snapshots still generate declarations.
func (b *build) prune() {
	routes := b.project.Routes()
	if len(routes) == 0 {
		return
	}
	reachable := map[ir.ModelID]bool{}
	var visit func(id ir.ModelID)
	visit = func(id ir.ModelID) {
		if reachable[id] {
			return
		}
		reachable[id] = true
		if m := b.project.Model(id); m != nil {
			for _, ref := range m.References() {
				visit(ref)
			}
		}
	}
	for i := range routes {
		for _, id := range routes[i].References() {
			visit(id)
		}
	}

	pruned := ir.NewProject()
	pruned.Groups = b.project.Groups
	for _, m := range b.project.Models() {
		if reachable[m.ID] {
			pruned.AddModel(m)
		}
	}
	b.project = pruned
}

func filterRoutes(routes []descriptor.RouteDescriptor, cfg *config.Config) ([]descriptor.RouteDescriptor, error) {
	files := map[string][]descriptor.RouteDescriptor{}
	var order []string
	for _, r := range routes {
		if _, ok := files[r.File]; !ok {
			order = append(order, r.File)
		}
		files[r.File] = append(files[r.File], r)
	}
	kept, err := discovery.FilterPaths(order, cfg.Include, cfg.Exclude)
	if err != nil {
		return nil, &config.Error{Option: "include/exclude", Message: err.Error()}
	}
	var out []descriptor.RouteDescriptor
	for _, f := range kept {
		if cfg.AutoDiscovery.Enabled && f != "" && !discovery.Eligible(f, cfg.AutoDiscovery.FilePatterns) {
			continue
		}
		out = append(out, files[f]...)
	}
	return out, nil
}

func paramLocation(raw string) ir.ParamLocation {
	switch raw {
	case "path":
		return ir.InPath
	case "query":
		return ir.InQuery
	case "header":
		return ir.InHeader
	case "body":
		return ir.InBody
	default:
		return ir.InQuery
	}
}

func routeContext(rd descriptor.RouteDescriptor) string {
	if rd.Name != "" {
		return rd.Name
	}
	return rd.Method + " " + rd.Path
}
