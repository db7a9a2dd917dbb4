package typescript

import (
	"path"
	"sort"
	"strings"

	"github.com/blimu-dev/fluid-gen/pkg/config"
	"github.com/blimu-dev/fluid-gen/pkg/generator"
	"github.com/blimu-dev/fluid-gen/pkg/ir"
	"github.com/blimu-dev/fluid-gen/pkg/utils"
)

// The view structs flatten the IR into exactly what the templates print.
// All type mapping and naming happens here so the templates stay free of
// logic.

type fieldView struct {
	Prop string // property name, quoted if needed, with "?" for optional
	Type string
	Doc  string
}

type modelView struct {
	Name   string
	Doc    string
	IsEnum bool
	Union  string // enum alias body
	Fields []fieldView
}

type paramView struct {
	Name     string // TypeScript identifier
	Wire     string // on-the-wire name for query/header keys
	Type     string
	Optional bool
}

type routeView struct {
	Name       string
	Doc        string
	Method     string
	Signature  string
	ReturnType string
	PathExpr   string // template-literal body with interpolations
	Query      []paramView
	Headers    []paramView
	Body       []paramView
	// BodyExpr is the JSON.stringify argument: the lone body parameter's
	// name, or an object literal merging several body parameters under
	// their wire names.
	BodyExpr     string
	BodyOptional bool
}

type unitView struct {
	Source        string
	RuntimeImport string
	Models        []modelView
	Routes        []routeView
}

func buildUnitView(project *ir.Project, unit *generator.Unit, cfg *config.Config) unitView {
	v := unitView{
		Source:        unit.Group.SourceFile,
		RuntimeImport: runtimeImport(unit.Path, runtimePath(cfg)),
	}
	for _, id := range unit.ModelIDs {
		if m := project.Model(id); m != nil {
			v.Models = append(v.Models, buildModelView(project, m))
		}
	}
	for i := range unit.Group.Routes {
		v.Routes = append(v.Routes, buildRouteView(project, &unit.Group.Routes[i]))
	}
	v.Models = append(v.Models, inlineEnumViews(project, unit)...)
	return v
}

// inlineEnumViews declares every named enum that appears inline in the
// unit's types, so the bare identifiers the type mapper emits always
// resolve. Names already declared by a unit model keep precedence, and
// duplicates collapse first-wins.
func inlineEnumViews(project *ir.Project, unit *generator.Unit) []modelView {
	declared := map[string]bool{}
	for _, id := range unit.ModelIDs {
		if m := project.Model(id); m != nil {
			declared[m.Name] = true
		}
	}
	var out []modelView
	visit := func(name string, values []string) {
		if declared[name] {
			return
		}
		declared[name] = true
		out = append(out, modelView{Name: name, IsEnum: true, Union: enumUnion(values)})
	}
	for _, id := range unit.ModelIDs {
		if m := project.Model(id); m != nil {
			for _, f := range m.Fields {
				walkNamedEnums(f.Type, visit)
			}
		}
	}
	for i := range unit.Group.Routes {
		r := &unit.Group.Routes[i]
		for _, p := range r.Params {
			walkNamedEnums(p.Type, visit)
		}
		walkNamedEnums(r.Response, visit)
	}
	return out
}

// walkNamedEnums visits every named enum node in a type shape.
func walkNamedEnums(t ir.TypeRef, visit func(name string, values []string)) {
	if t.Kind == ir.KindEnum && t.EnumName != "" {
		visit(t.EnumName, t.EnumValues)
	}
	for _, sub := range []*ir.TypeRef{t.Elem, t.Key, t.Value} {
		if sub != nil {
			walkNamedEnums(*sub, visit)
		}
	}
	for _, v := range t.Variants {
		walkNamedEnums(v, visit)
	}
}

func buildModelView(project *ir.Project, m *ir.Model) modelView {
	mv := modelView{Name: m.Name, Doc: m.Doc, IsEnum: m.IsEnum}
	if m.IsEnum {
		mv.Union = enumUnion(m.EnumValues)
		return mv
	}
	for _, f := range m.Fields {
		prop := quotePropName(f.Name)
		// An Optional wrapper keeps its "| null" in the type; the "?"
		// marker covers absence.
		if f.Optional || f.Type.Kind == ir.KindOptional {
			prop += "?"
		}
		mv.Fields = append(mv.Fields, fieldView{
			Prop: prop,
			Type: typeToTS(project, f.Type),
			Doc:  f.Doc,
		})
	}
	return mv
}

func buildRouteView(project *ir.Project, route *ir.Route) routeView {
	rv := routeView{
		Name:       functionName(route),
		Doc:        route.Doc,
		Method:     route.Method,
		ReturnType: typeToTS(project, route.Response),
		PathExpr:   pathTemplate(route.Path),
	}

	var args []string
	appendArg := func(p paramView) {
		if p.Optional {
			args = append(args, p.Name+"?: "+p.Type)
		} else {
			args = append(args, p.Name+": "+p.Type)
		}
	}

	// Path params come first, then required body params, then required
	// query and header params in declaration order, then optional ones.
	// Optionals must trail in a TypeScript signature; serialization always
	// follows declaration order regardless.
	for _, p := range route.ParamsIn(ir.InPath) {
		appendArg(paramView{Name: utils.ToCamelCase(p.Name), Type: paramType(project, p)})
	}
	for _, p := range route.ParamsIn(ir.InBody) {
		rv.Body = append(rv.Body, paramView{Name: utils.ToCamelCase(p.Name), Wire: p.Name, Type: paramType(project, p), Optional: !p.Required})
	}
	for _, p := range route.ParamsIn(ir.InQuery) {
		rv.Query = append(rv.Query, paramView{Name: utils.ToCamelCase(p.Name), Wire: p.Name, Type: paramType(project, p), Optional: !p.Required})
	}
	for _, p := range route.ParamsIn(ir.InHeader) {
		rv.Headers = append(rv.Headers, paramView{Name: utils.ToCamelCase(p.Name), Wire: p.Name, Type: paramType(project, p), Optional: !p.Required})
	}

	switch len(rv.Body) {
	case 0:
	case 1:
		rv.BodyExpr = rv.Body[0].Name
		rv.BodyOptional = rv.Body[0].Optional
	default:
		// Several body params merge into one synthesized payload object.
		// JSON.stringify drops undefined members, so omitted optionals
		// never reach the wire.
		parts := make([]string, 0, len(rv.Body))
		for _, b := range rv.Body {
			if b.Wire == b.Name {
				parts = append(parts, b.Name)
			} else {
				parts = append(parts, quotePropName(b.Wire)+": "+b.Name)
			}
		}
		rv.BodyExpr = "{ " + strings.Join(parts, ", ") + " }"
	}

	for _, b := range rv.Body {
		if !b.Optional {
			appendArg(b)
		}
	}
	rest := append(append([]paramView{}, rv.Query...), rv.Headers...)
	sort.SliceStable(rest, func(i, j int) bool {
		return !rest[i].Optional && rest[j].Optional
	})
	for _, pv := range rest {
		appendArg(pv)
	}
	for _, b := range rv.Body {
		if b.Optional {
			appendArg(b)
		}
	}
	args = append(args, "options?: RequestInit")
	rv.Signature = strings.Join(args, ", ")
	return rv
}

// paramType maps a parameter's type. An Optional wrapper on an already
// optional parameter is unwrapped: the "?" marker covers it, and callers
// never pass null for an omitted argument.
func paramType(project *ir.Project, p ir.Parameter) string {
	t := p.Type
	if !p.Required && t.Kind == ir.KindOptional && t.Elem != nil {
		t = *t.Elem
	}
	return typeToTS(project, t)
}

func runtimePath(cfg *config.Config) string {
	return path.Join(cfg.Output.Location, generator.RuntimeBaseName+".ts")
}
