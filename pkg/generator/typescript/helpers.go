package typescript

import (
	"path"
	"strings"

	"github.com/go-openapi/inflect"

	"github.com/blimu-dev/fluid-gen/pkg/ir"
	"github.com/blimu-dev/fluid-gen/pkg/utils"
)

// functionName picks the exported function name for a route. A declared
// route name wins; otherwise the name is derived REST-style from the method
// and path:
//
//	GET    /users        -> listUsers
//	GET    /users/{id}   -> getUser
//	POST   /users        -> createUser
//	PUT    /users/{id}   -> updateUser
//	DELETE /users/{id}   -> deleteUser
func functionName(route *ir.Route) string {
	if route.Name != "" {
		return utils.ToCamelCase(route.Name)
	}

	resource := lastLiteralSegment(route.Path)
	if resource == "" {
		resource = "root"
	}
	// A trailing parameter segment addresses a single item; anything else
	// is a collection.
	addressesItem := strings.HasSuffix(strings.TrimSuffix(route.Path, "/"), "}")

	var verb, noun string
	switch route.Method {
	case "GET":
		if addressesItem {
			verb, noun = "get", inflect.Singularize(resource)
		} else {
			verb, noun = "list", inflect.Pluralize(resource)
		}
	case "POST":
		verb, noun = "create", inflect.Singularize(resource)
	case "PUT", "PATCH":
		verb, noun = "update", inflect.Singularize(resource)
	case "DELETE":
		verb, noun = "delete", inflect.Singularize(resource)
	default:
		verb, noun = strings.ToLower(route.Method), resource
	}
	return utils.ToCamelCase(verb + "_" + utils.ToSnakeCase(noun))
}

// lastLiteralSegment returns the final non-parameter segment of a path.
func lastLiteralSegment(p string) string {
	segments := strings.Split(strings.Trim(p, "/"), "/")
	for i := len(segments) - 1; i >= 0; i-- {
		s := segments[i]
		if s != "" && !strings.HasPrefix(s, "{") {
			return s
		}
	}
	return ""
}

// pathTemplate converts a route path into a TypeScript template literal
// body: "/users/{id}/posts" becomes "/users/${id}/posts". Rest parameters
// ("{slug:path}") interpolate the raw value so embedded slashes survive.
func pathTemplate(p string) string {
	var b strings.Builder
	for {
		open := strings.Index(p, "{")
		if open < 0 {
			b.WriteString(p)
			break
		}
		end := strings.Index(p[open:], "}")
		if end < 0 {
			b.WriteString(p)
			break
		}
		b.WriteString(p[:open])
		name := p[open+1 : open+end]
		if idx := strings.Index(name, ":"); idx >= 0 {
			b.WriteString("${" + utils.ToCamelCase(name[:idx]) + "}")
		} else {
			b.WriteString("${encodeURIComponent(String(" + utils.ToCamelCase(name) + "))}")
		}
		p = p[open+end+1:]
	}
	return b.String()
}

// quotePropName quotes object property names that are not valid TypeScript
// identifiers.
func quotePropName(name string) string {
	needsQuoting := len(name) == 0
	for _, char := range name {
		if !((char >= 'a' && char <= 'z') || (char >= 'A' && char <= 'Z') || (char >= '0' && char <= '9') || char == '_' || char == '$') {
			needsQuoting = true
			break
		}
	}
	if len(name) > 0 && name[0] >= '0' && name[0] <= '9' {
		needsQuoting = true
	}
	if needsQuoting {
		return `"` + name + `"`
	}
	return name
}

// runtimeImport computes the module specifier a unit file uses to import
// the shared runtime: a relative path from the unit's directory to the
// runtime module, without the extension.
func runtimeImport(unitPath, runtimePath string) string {
	fromDir := path.Dir(unitPath)
	target := strings.TrimSuffix(runtimePath, path.Ext(runtimePath))

	rel := relPath(fromDir, target)
	if !strings.HasPrefix(rel, ".") {
		rel = "./" + rel
	}
	return rel
}

// relPath is a slash-only relative path computation; both inputs are clean
// slash-separated paths relative to the same root.
func relPath(fromDir, target string) string {
	if fromDir == "." {
		return target
	}
	fromParts := strings.Split(fromDir, "/")
	targetParts := strings.Split(target, "/")

	common := 0
	for common < len(fromParts) && common < len(targetParts) && fromParts[common] == targetParts[common] {
		common++
	}

	var parts []string
	for i := common; i < len(fromParts); i++ {
		parts = append(parts, "..")
	}
	parts = append(parts, targetParts[common:]...)
	return strings.Join(parts, "/")
}
