package descriptor

import (
	"context"
	"fmt"
	"net/url"
	"sort"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"
)

// OpenAPI adapts an OpenAPI 3 document to the Source interface. It is the
// bridge for backends that publish a spec instead of a fluid-gen snapshot.
// Operations are filed under their first path segment so auto-discovery
// grouping still applies ("/users/{id}" -> "users.api").
type OpenAPI struct {
	doc *openapi3.T
}

// LoadOpenAPI loads and validates an OpenAPI document from a file path or
// HTTP(S) URL.
func LoadOpenAPI(ctx context.Context, input string) (*OpenAPI, error) {
	loader := &openapi3.Loader{Context: ctx, IsExternalRefsAllowed: true}
	var (
		doc *openapi3.T
		err error
	)
	if u, perr := url.Parse(input); perr == nil && (u.Scheme == "http" || u.Scheme == "https") {
		doc, err = loader.LoadFromURI(u)
	} else {
		doc, err = loader.LoadFromFile(input)
	}
	if err != nil {
		return nil, err
	}
	if err := doc.Validate(ctx); err != nil {
		return nil, fmt.Errorf("invalid OpenAPI document: %w", err)
	}
	return &OpenAPI{doc: doc}, nil
}

// Routes implements Source.
func (o *OpenAPI) Routes(ctx context.Context) ([]RouteDescriptor, error) {
	var out []RouteDescriptor
	paths := o.doc.Paths.Map()
	keys := make([]string, 0, len(paths))
	for p := range paths {
		keys = append(keys, p)
	}
	sort.Strings(keys)

	methods := []string{"GET", "POST", "PUT", "PATCH", "DELETE"}
	for _, path := range keys {
		item := paths[path]
		ops := []*openapi3.Operation{item.Get, item.Post, item.Put, item.Patch, item.Delete}
		for i, op := range ops {
			if op == nil {
				continue
			}
			out = append(out, o.routeDescriptor(methods[i], path, op))
		}
	}
	return out, nil
}

// Schemas implements Source.
func (o *OpenAPI) Schemas(ctx context.Context) ([]SchemaDescriptor, error) {
	if o.doc.Components == nil || o.doc.Components.Schemas == nil {
		return nil, nil
	}
	names := make([]string, 0, len(o.doc.Components.Schemas))
	for name := range o.doc.Components.Schemas {
		names = append(names, name)
	}
	sort.Strings(names)

	out := make([]SchemaDescriptor, 0, len(names))
	for _, name := range names {
		sr := o.doc.Components.Schemas[name]
		sd := SchemaDescriptor{
			SourceID: componentID(name),
			Name:     name,
			File:     o.schemaFile(name),
		}
		if sr != nil && sr.Value != nil {
			sd.Doc = sr.Value.Description
			if len(sr.Value.Enum) > 0 {
				sd.IsEnum = true
				for _, v := range sr.Value.Enum {
					sd.Values = append(sd.Values, fmt.Sprint(v))
				}
			}
			sd.Fields = objectFields(sr.Value)
		}
		out = append(out, sd)
	}
	return out, nil
}

func (o *OpenAPI) routeDescriptor(method, path string, op *openapi3.Operation) RouteDescriptor {
	rd := RouteDescriptor{
		Name:   op.OperationID,
		Method: method,
		Path:   path,
		Doc:    firstNonEmpty(op.Summary, op.Description),
		File:   o.routeFile(path),
	}
	if rd.Name == "" {
		rd.Name = strings.ToLower(method) + pathIdent(path)
	}
	for _, pr := range op.Parameters {
		if pr == nil || pr.Value == nil {
			continue
		}
		p := pr.Value
		loc := p.In
		if loc == "cookie" {
			continue // not representable in the generated client
		}
		rd.Params = append(rd.Params, ParamDescriptor{
			Name:     p.Name,
			Location: loc,
			Type:     schemaType(p.Schema),
			Required: p.Required,
			Doc:      p.Description,
		})
	}
	if op.RequestBody != nil && op.RequestBody.Value != nil {
		if media, ok := op.RequestBody.Value.Content["application/json"]; ok {
			rd.Params = append(rd.Params, ParamDescriptor{
				Name:     "body",
				Location: "body",
				Type:     schemaType(media.Schema),
				Required: op.RequestBody.Value.Required,
			})
		}
	}
	if resp := responseSchema(op); resp != nil {
		t := schemaType(resp)
		rd.Response = &t
	}
	return rd
}

// routeFile synthesizes a source-file identity from the leading literal path
// segments, so that OpenAPI-sourced routes form per-resource groups.
func (o *OpenAPI) routeFile(path string) string {
	segs := strings.Split(strings.Trim(path, "/"), "/")
	var lits []string
	for _, s := range segs {
		if s == "" || strings.HasPrefix(s, "{") {
			break
		}
		lits = append(lits, s)
	}
	if len(lits) == 0 {
		return "root.api"
	}
	return strings.Join(lits, "/") + ".api"
}

func (o *OpenAPI) schemaFile(name string) string {
	return "schemas/" + name + ".api"
}

func componentID(name string) string {
	return "#/components/schemas/" + name
}

func objectFields(s *openapi3.Schema) []FieldDescriptor {
	if s.Properties == nil {
		return nil
	}
	required := map[string]bool{}
	for _, r := range s.Required {
		required[r] = true
	}
	names := make([]string, 0, len(s.Properties))
	for n := range s.Properties {
		names = append(names, n)
	}
	sort.Strings(names)

	out := make([]FieldDescriptor, 0, len(names))
	for _, n := range names {
		pr := s.Properties[n]
		fd := FieldDescriptor{
			Name:     n,
			Type:     schemaType(pr),
			Optional: !required[n],
		}
		if pr != nil && pr.Value != nil {
			fd.Doc = pr.Value.Description
			fd.Default = pr.Value.Default
			fd.Constraints = constraintsOf(pr.Value)
		}
		out = append(out, fd)
	}
	return out
}

func constraintsOf(s *openapi3.Schema) ConstraintDescriptor {
	c := ConstraintDescriptor{Pattern: s.Pattern}
	if s.Min != nil {
		c.MinValue = s.Min
	}
	if s.Max != nil {
		c.MaxValue = s.Max
	}
	if s.MinLength > 0 {
		v := int(s.MinLength)
		c.MinLength = &v
	}
	if s.MaxLength != nil {
		v := int(*s.MaxLength)
		c.MaxLength = &v
	}
	return c
}

// schemaType converts an OpenAPI schema reference into the raw type
// descriptor shape the IR builder consumes.
func schemaType(sr *openapi3.SchemaRef) TypeDescriptor {
	if sr == nil {
		return TypeDescriptor{Kind: "any"}
	}
	if sr.Ref != "" {
		name := sr.Ref[strings.LastIndex(sr.Ref, "/")+1:]
		return TypeDescriptor{Kind: "ref", Ref: componentID(name)}
	}
	s := sr.Value
	if s == nil {
		return TypeDescriptor{Kind: "any"}
	}
	if len(s.Enum) > 0 {
		values := make([]string, 0, len(s.Enum))
		for _, v := range s.Enum {
			values = append(values, fmt.Sprint(v))
		}
		return TypeDescriptor{Kind: "enum", Name: s.Title, Values: values}
	}
	if len(s.OneOf) > 0 || len(s.AnyOf) > 0 {
		subs := s.OneOf
		if len(subs) == 0 {
			subs = s.AnyOf
		}
		var variants []TypeDescriptor
		for _, sub := range subs {
			variants = append(variants, schemaType(sub))
		}
		return TypeDescriptor{Kind: "union", Variants: variants}
	}
	switch {
	case s.Type != nil && s.Type.Is("string"):
		return TypeDescriptor{Kind: "string"}
	case s.Type != nil && s.Type.Is("integer"):
		return TypeDescriptor{Kind: "int"}
	case s.Type != nil && s.Type.Is("number"):
		return TypeDescriptor{Kind: "float"}
	case s.Type != nil && s.Type.Is("boolean"):
		return TypeDescriptor{Kind: "bool"}
	case s.Type != nil && s.Type.Is("null"):
		return TypeDescriptor{Kind: "null"}
	case s.Type != nil && s.Type.Is("array"):
		items := schemaType(s.Items)
		return TypeDescriptor{Kind: "array", Items: &items}
	case s.Type != nil && s.Type.Is("object"):
		if s.AdditionalProperties.Schema != nil {
			key := TypeDescriptor{Kind: "string"}
			value := schemaType(s.AdditionalProperties.Schema)
			return TypeDescriptor{Kind: "map", Key: &key, Value: &value}
		}
		return TypeDescriptor{Kind: "any"}
	}
	return TypeDescriptor{Kind: "any"}
}

func responseSchema(op *openapi3.Operation) *openapi3.SchemaRef {
	if op.Responses == nil {
		return nil
	}
	for _, code := range []string{"200", "201"} {
		if rr, ok := op.Responses.Map()[code]; ok && rr != nil && rr.Value != nil {
			if media, ok := rr.Value.Content["application/json"]; ok {
				return media.Schema
			}
		}
	}
	return nil
}

func pathIdent(path string) string {
	var b strings.Builder
	for _, seg := range strings.Split(strings.Trim(path, "/"), "/") {
		seg = strings.Trim(seg, "{}")
		if seg == "" {
			continue
		}
		b.WriteString(strings.ToUpper(seg[:1]))
		b.WriteString(seg[1:])
	}
	return b.String()
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
