// Package descriptor defines the boundary between fluid-gen and the source
// ecosystems it generates clients for. A Source supplies raw route and schema
// descriptors; the IR builder and route resolver depend only on this
// interface, never on a concrete framework's object model.
package descriptor

import "context"

// Source enumerates the raw descriptors for one generation run.
type Source interface {
	// Routes returns every route descriptor exposed by the API surface.
	Routes(ctx context.Context) ([]RouteDescriptor, error)
	// Schemas returns every schema descriptor reachable from those routes.
	Schemas(ctx context.Context) ([]SchemaDescriptor, error)
}

// TypeDescriptor is the raw, ecosystem-specific type expression. Kind values
// the builder recognizes: "string", "int", "float", "bool", "null", "any",
// "array", "map", "union", "optional", "enum", "literal", "ref". Anything
// else degrades to the IR Unknown type with a collected warning.
type TypeDescriptor struct {
	Kind string `yaml:"kind" json:"kind"`

	// Array, Optional
	Items *TypeDescriptor `yaml:"items,omitempty" json:"items,omitempty"`

	// Map
	Key   *TypeDescriptor `yaml:"key,omitempty" json:"key,omitempty"`
	Value *TypeDescriptor `yaml:"value,omitempty" json:"value,omitempty"`

	// Union
	Variants []TypeDescriptor `yaml:"variants,omitempty" json:"variants,omitempty"`

	// Enum
	Name   string   `yaml:"name,omitempty" json:"name,omitempty"`
	Values []string `yaml:"values,omitempty" json:"values,omitempty"`

	// Literal
	Literal any `yaml:"literal,omitempty" json:"literal,omitempty"`

	// Ref: the SourceID of the referenced schema.
	Ref string `yaml:"ref,omitempty" json:"ref,omitempty"`
}

// ConstraintDescriptor mirrors the advisory validation metadata attached to
// fields and parameters.
type ConstraintDescriptor struct {
	MinValue  *float64 `yaml:"minValue,omitempty" json:"minValue,omitempty"`
	MaxValue  *float64 `yaml:"maxValue,omitempty" json:"maxValue,omitempty"`
	MinLength *int     `yaml:"minLength,omitempty" json:"minLength,omitempty"`
	MaxLength *int     `yaml:"maxLength,omitempty" json:"maxLength,omitempty"`
	Pattern   string   `yaml:"pattern,omitempty" json:"pattern,omitempty"`
}

// FieldDescriptor is one raw schema field.
type FieldDescriptor struct {
	Name        string               `yaml:"name" json:"name"`
	Type        TypeDescriptor       `yaml:"type" json:"type"`
	Optional    bool                 `yaml:"optional,omitempty" json:"optional,omitempty"`
	Default     any                  `yaml:"default,omitempty" json:"default,omitempty"`
	Constraints ConstraintDescriptor `yaml:"constraints,omitempty" json:"constraints,omitempty"`
	Doc         string               `yaml:"doc,omitempty" json:"doc,omitempty"`
}

// SchemaDescriptor is one raw named record type. SourceID is the identity
// used for deduplication; descriptors with equal SourceIDs describe the same
// model even when their shapes differ between snapshots.
type SchemaDescriptor struct {
	SourceID string            `yaml:"sourceId" json:"sourceId"`
	Name     string            `yaml:"name" json:"name"`
	Fields   []FieldDescriptor `yaml:"fields,omitempty" json:"fields,omitempty"`
	Doc      string            `yaml:"doc,omitempty" json:"doc,omitempty"`
	File     string            `yaml:"file,omitempty" json:"file,omitempty"`
	IsEnum   bool              `yaml:"isEnum,omitempty" json:"isEnum,omitempty"`
	// Values holds the members of an enum schema; only meaningful when
	// IsEnum is set.
	Values []string `yaml:"values,omitempty" json:"values,omitempty"`
}

// ParamDescriptor is one raw route parameter. Location is one of "path",
// "query", "header", "body".
type ParamDescriptor struct {
	Name     string         `yaml:"name" json:"name"`
	Location string         `yaml:"in" json:"in"`
	Type     TypeDescriptor `yaml:"type" json:"type"`
	Required bool           `yaml:"required,omitempty" json:"required,omitempty"`
	Default  any            `yaml:"default,omitempty" json:"default,omitempty"`
	Doc      string         `yaml:"doc,omitempty" json:"doc,omitempty"`
}

// RouteDescriptor is one raw HTTP operation. File is the path of the
// defining source file relative to the scan root; the route resolver derives
// the group prefix from it.
type RouteDescriptor struct {
	Name     string            `yaml:"name" json:"name"`
	Method   string            `yaml:"method" json:"method"`
	Path     string            `yaml:"path,omitempty" json:"path,omitempty"`
	Params   []ParamDescriptor `yaml:"params,omitempty" json:"params,omitempty"`
	Response *TypeDescriptor   `yaml:"response,omitempty" json:"response,omitempty"`
	Doc      string            `yaml:"doc,omitempty" json:"doc,omitempty"`
	File     string            `yaml:"file,omitempty" json:"file,omitempty"`
}
