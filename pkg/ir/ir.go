// Package ir defines the language-agnostic intermediate representation that
// fluid-gen builds from raw route and schema descriptors and feeds to the
// per-language generators.
package ir

import "sort"

// ModelID is the stable source identity of a model, e.g. "models/user.py:User".
// Two descriptors produce the same Model iff their IDs match; structural
// equality is never used, so logically distinct types are never merged.
type ModelID string

// Kind discriminates the closed TypeRef variant set.
type Kind string

const (
	KindPrimitive Kind = "primitive"
	KindArray     Kind = "array"
	KindOptional  Kind = "optional"
	KindUnion     Kind = "union"
	KindMap       Kind = "map"
	KindEnum      Kind = "enum"
	KindReference Kind = "reference"
	KindLiteral   Kind = "literal"
	KindUnknown   Kind = "unknown"
)

// PrimKind is the scalar subset of the type system.
type PrimKind string

const (
	PrimString PrimKind = "string"
	PrimInt    PrimKind = "int"
	PrimFloat  PrimKind = "float"
	PrimBool   PrimKind = "bool"
	PrimNull   PrimKind = "null"
	PrimAny    PrimKind = "any"
)

// TypeRef is a node in the recursive type shape. Exactly the fields relevant
// to its Kind are set. Reference nodes carry a ModelID and are resolved by
// name at render time; cycles are broken by identity, never by inlining.
type TypeRef struct {
	Kind Kind

	// Primitive
	Prim PrimKind

	// Array, Optional
	Elem *TypeRef

	// Map
	Key   *TypeRef
	Value *TypeRef

	// Union
	Variants []TypeRef

	// Enum
	EnumName   string
	EnumValues []string

	// Reference
	Ref ModelID

	// Literal
	LiteralValue any
}

// Primitive returns a scalar TypeRef.
func Primitive(p PrimKind) TypeRef { return TypeRef{Kind: KindPrimitive, Prim: p} }

// Array returns a sequence-of-elem TypeRef.
func Array(elem TypeRef) TypeRef { return TypeRef{Kind: KindArray, Elem: &elem} }

// Optional returns a nullable TypeRef.
func Optional(elem TypeRef) TypeRef { return TypeRef{Kind: KindOptional, Elem: &elem} }

// Union returns a union over the given variants.
func Union(variants ...TypeRef) TypeRef { return TypeRef{Kind: KindUnion, Variants: variants} }

// Map returns a keyed-container TypeRef.
func Map(key, value TypeRef) TypeRef { return TypeRef{Kind: KindMap, Key: &key, Value: &value} }

// Enum returns a named enumeration TypeRef with stringified values.
func Enum(name string, values []string) TypeRef {
	return TypeRef{Kind: KindEnum, EnumName: name, EnumValues: values}
}

// Reference returns a by-identity reference to a Model.
func Reference(id ModelID) TypeRef { return TypeRef{Kind: KindReference, Ref: id} }

// Literal returns a literal-value TypeRef.
func Literal(v any) TypeRef { return TypeRef{Kind: KindLiteral, LiteralValue: v} }

// Unknown is the graceful-degradation type for unsupported descriptors.
func Unknown() TypeRef { return TypeRef{Kind: KindUnknown} }

// References reports the ModelIDs reachable from this type shape, in
// first-visit order.
func (t TypeRef) References() []ModelID {
	var out []ModelID
	seen := map[ModelID]struct{}{}
	var walk func(r TypeRef)
	walk = func(r TypeRef) {
		if r.Kind == KindReference {
			if _, ok := seen[r.Ref]; !ok {
				seen[r.Ref] = struct{}{}
				out = append(out, r.Ref)
			}
		}
		for _, sub := range []*TypeRef{r.Elem, r.Key, r.Value} {
			if sub != nil {
				walk(*sub)
			}
		}
		for _, v := range r.Variants {
			walk(v)
		}
	}
	walk(t)
	return out
}

// Constraints carries advisory validation metadata. The generated client
// never enforces these; they surface in documentation only.
type Constraints struct {
	MinValue  *float64
	MaxValue  *float64
	MinLength *int
	MaxLength *int
	Pattern   string
}

// Empty reports whether no constraint is set.
func (c Constraints) Empty() bool {
	return c.MinValue == nil && c.MaxValue == nil &&
		c.MinLength == nil && c.MaxLength == nil && c.Pattern == ""
}

// Field is one member of a Model.
type Field struct {
	Name        string
	Type        TypeRef
	Optional    bool
	Default     any
	Constraints Constraints
	Doc         string
}

// Model is a named record type.
type Model struct {
	ID         ModelID
	Name       string
	Fields     []Field
	Doc        string
	SourceFile string
	IsEnum     bool
	// EnumValues holds the members when IsEnum is set; Fields is empty
	// for enum models.
	EnumValues []string
}

// References reports all ModelIDs referenced by the model's fields.
func (m *Model) References() []ModelID {
	var out []ModelID
	seen := map[ModelID]struct{}{}
	for _, f := range m.Fields {
		for _, id := range f.Type.References() {
			if _, ok := seen[id]; !ok {
				seen[id] = struct{}{}
				out = append(out, id)
			}
		}
	}
	return out
}

// ParamLocation classifies where a Parameter travels in the HTTP request.
type ParamLocation string

const (
	InPath   ParamLocation = "path"
	InQuery  ParamLocation = "query"
	InHeader ParamLocation = "header"
	InBody   ParamLocation = "body"
)

// Parameter is a route input in declaration order.
type Parameter struct {
	Name     string
	Location ParamLocation
	Type     TypeRef
	Required bool
	Default  any
	Doc      string
}

// Route is one HTTP operation. Path is a template of literal segments and
// {name} / {name:path} placeholders.
type Route struct {
	Name       string
	Method     string
	Path       string
	Params     []Parameter
	Response   TypeRef
	Doc        string
	SourceFile string
}

// ParamsIn returns the route's parameters with the given location, in
// declaration order.
func (r *Route) ParamsIn(loc ParamLocation) []Parameter {
	var out []Parameter
	for _, p := range r.Params {
		if p.Location == loc {
			out = append(out, p)
		}
	}
	return out
}

// References reports all ModelIDs referenced by parameters and the response.
func (r *Route) References() []ModelID {
	var out []ModelID
	seen := map[ModelID]struct{}{}
	add := func(ids []ModelID) {
		for _, id := range ids {
			if _, ok := seen[id]; !ok {
				seen[id] = struct{}{}
				out = append(out, id)
			}
		}
	}
	for _, p := range r.Params {
		add(p.Type.References())
	}
	add(r.Response.References())
	return out
}

// RouteGroup is a folder-derived namespace: all routes of one source file
// under their resolved path prefix.
type RouteGroup struct {
	Prefix     string
	SourceFile string
	Routes     []Route
}

// Project is the closed set of Models and RouteGroups for one generation
// run. It is immutable once built; an unchanged Project plus unchanged
// configuration yields byte-identical output.
type Project struct {
	models map[ModelID]*Model
	order  []ModelID
	Groups []RouteGroup
}

// NewProject returns an empty Project arena.
func NewProject() *Project {
	return &Project{models: make(map[ModelID]*Model)}
}

// AddModel registers a model, keeping first-registration order. Re-adding
// the same ID replaces the stored model in place (the builder's second pass
// fills stubs this way).
func (p *Project) AddModel(m *Model) {
	if _, ok := p.models[m.ID]; !ok {
		p.order = append(p.order, m.ID)
	}
	p.models[m.ID] = m
}

// Model returns the model with the given ID, or nil.
func (p *Project) Model(id ModelID) *Model {
	return p.models[id]
}

// Models returns all models in registration order.
func (p *Project) Models() []*Model {
	out := make([]*Model, 0, len(p.order))
	for _, id := range p.order {
		out = append(out, p.models[id])
	}
	return out
}

// ModelsSorted returns all models ordered by name, then ID, for
// deterministic rendering.
func (p *Project) ModelsSorted() []*Model {
	out := p.Models()
	sort.Slice(out, func(i, j int) bool {
		if out[i].Name == out[j].Name {
			return out[i].ID < out[j].ID
		}
		return out[i].Name < out[j].Name
	})
	return out
}

// Routes returns every route across all groups.
func (p *Project) Routes() []Route {
	var out []Route
	for _, g := range p.Groups {
		out = append(out, g.Routes...)
	}
	return out
}
