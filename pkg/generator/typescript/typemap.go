package typescript

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/blimu-dev/fluid-gen/pkg/ir"
)

// typeToTS converts a TypeRef to a TypeScript type expression. The mapping
// is total: every kind produces a valid expression, with "unknown" as the
// floor for anything the source could not describe.
func typeToTS(project *ir.Project, t ir.TypeRef) string {
	switch t.Kind {
	case ir.KindPrimitive:
		switch t.Prim {
		case ir.PrimString:
			return "string"
		case ir.PrimInt, ir.PrimFloat:
			return "number"
		case ir.PrimBool:
			return "boolean"
		case ir.PrimNull:
			return "null"
		case ir.PrimAny:
			return "any"
		default:
			return "unknown"
		}
	case ir.KindArray:
		if t.Elem == nil {
			return "Array<unknown>"
		}
		inner := typeToTS(project, *t.Elem)
		if strings.Contains(inner, " | ") || strings.Contains(inner, " & ") {
			inner = "(" + inner + ")"
		}
		return "Array<" + inner + ">"
	case ir.KindOptional:
		// Optional values serialize as null on the wire.
		if t.Elem == nil {
			return "unknown | null"
		}
		return typeToTS(project, *t.Elem) + " | null"
	case ir.KindUnion:
		if len(t.Variants) == 0 {
			return "unknown"
		}
		parts := make([]string, 0, len(t.Variants))
		for _, v := range t.Variants {
			parts = append(parts, typeToTS(project, v))
		}
		return strings.Join(parts, " | ")
	case ir.KindMap:
		key := "string"
		if t.Key != nil && t.Key.Kind == ir.KindPrimitive && (t.Key.Prim == ir.PrimInt || t.Key.Prim == ir.PrimFloat) {
			key = "number"
		}
		value := "unknown"
		if t.Value != nil {
			value = typeToTS(project, *t.Value)
		}
		return "Record<" + key + ", " + value + ">"
	case ir.KindEnum:
		// Named enums render as a type alias declaration; referencing code
		// uses the name. Anonymous enums inline the value union.
		if t.EnumName != "" {
			return t.EnumName
		}
		return enumUnion(t.EnumValues)
	case ir.KindReference:
		if m := project.Model(t.Ref); m != nil {
			return m.Name
		}
		return "unknown"
	case ir.KindLiteral:
		return literalTS(t.LiteralValue)
	case ir.KindUnknown:
		return "unknown"
	default:
		return "unknown"
	}
}

// enumUnion renders enum values as a union of string literals.
func enumUnion(values []string) string {
	if len(values) == 0 {
		return "unknown"
	}
	parts := make([]string, 0, len(values))
	for _, v := range values {
		parts = append(parts, strconv.Quote(v))
	}
	return strings.Join(parts, " | ")
}

// literalTS renders a literal value as a TypeScript literal type.
func literalTS(v any) string {
	switch x := v.(type) {
	case nil:
		return "null"
	case string:
		return strconv.Quote(x)
	case bool:
		return strconv.FormatBool(x)
	case int:
		return strconv.Itoa(x)
	case int64:
		return strconv.FormatInt(x, 10)
	case float64:
		return strconv.FormatFloat(x, 'g', -1, 64)
	default:
		return strconv.Quote(fmt.Sprint(x))
	}
}
