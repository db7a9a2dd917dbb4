// Package discovery resolves folder hierarchies into route tables.
// Folder naming follows filesystem-routing conventions: "[name]" marks a
// dynamic segment, "[...name]" a rest segment matching the remaining path,
// and "(name)" an organizational group that contributes nothing to the
// resolved path.
package discovery

import (
	"fmt"
	"path"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/blimu-dev/fluid-gen/pkg/descriptor"
)

// SegmentKind classifies one folder component.
type SegmentKind string

const (
	SegmentLiteral SegmentKind = "literal"
	SegmentDynamic SegmentKind = "dynamic"
	SegmentRest    SegmentKind = "rest"
	SegmentGroup   SegmentKind = "group"
)

// Segment is a resolved folder component.
type Segment struct {
	Kind SegmentKind
	// Name is the parameter or group name; empty for literals.
	Name string
	// Raw is the original folder component.
	Raw string
}

// ParseSegment resolves a single folder component against the segment
// grammar.
func ParseSegment(raw string) Segment {
	switch {
	case strings.HasPrefix(raw, "[...") && strings.HasSuffix(raw, "]"):
		return Segment{Kind: SegmentRest, Name: raw[4 : len(raw)-1], Raw: raw}
	case strings.HasPrefix(raw, "[") && strings.HasSuffix(raw, "]"):
		return Segment{Kind: SegmentDynamic, Name: raw[1 : len(raw)-1], Raw: raw}
	case strings.HasPrefix(raw, "(") && strings.HasSuffix(raw, ")"):
		return Segment{Kind: SegmentGroup, Name: raw[1 : len(raw)-1], Raw: raw}
	default:
		return Segment{Kind: SegmentLiteral, Raw: raw}
	}
}

// Template returns the path-template contribution of the segment: the
// literal itself, "{name}" for dynamic, "{name:path}" for rest, and ""
// for groups.
func (s Segment) Template() string {
	switch s.Kind {
	case SegmentDynamic:
		return "{" + s.Name + "}"
	case SegmentRest:
		return "{" + s.Name + ":path}"
	case SegmentGroup:
		return ""
	default:
		return s.Raw
	}
}

// ResolvePrefix computes the route prefix for a file at relPath (slash
// separated, relative to the scan root) and returns the dynamic/rest
// segments that routes in that file must declare as path parameters.
func ResolvePrefix(relPath string) (string, []Segment) {
	dir := path.Dir(relPath)
	if dir == "." || dir == "/" {
		return "", nil
	}
	var (
		parts    []string
		required []Segment
	)
	for _, raw := range strings.Split(dir, "/") {
		if raw == "" {
			continue
		}
		seg := ParseSegment(raw)
		if t := seg.Template(); t != "" {
			parts = append(parts, t)
		}
		if seg.Kind == SegmentDynamic || seg.Kind == SegmentRest {
			required = append(required, seg)
		}
	}
	if len(parts) == 0 {
		return "", required
	}
	return "/" + strings.Join(parts, "/"), required
}

// Eligible reports whether a filename qualifies as an auto-discovery
// candidate under one of the configured patterns. The predicate is pure:
// it consults only the base name and the pattern set.
func Eligible(filename string, patterns []string) bool {
	base := path.Base(filename)
	for _, p := range patterns {
		if ok, err := path.Match(p, base); err == nil && ok {
			return true
		}
	}
	return false
}

// FilterPaths applies include/exclude glob sets to candidate relative
// paths. Empty include means include everything. Patterns follow
// doublestar syntax ("src/**/*.py").
func FilterPaths(paths, include, exclude []string) ([]string, error) {
	for _, p := range append(append([]string{}, include...), exclude...) {
		if !doublestar.ValidatePattern(p) {
			return nil, fmt.Errorf("invalid glob pattern %q", p)
		}
	}
	var out []string
	for _, candidate := range paths {
		if len(include) > 0 {
			matched := false
			for _, p := range include {
				if ok, _ := doublestar.Match(p, candidate); ok {
					matched = true
					break
				}
			}
			if !matched {
				continue
			}
		}
		excluded := false
		for _, p := range exclude {
			if ok, _ := doublestar.Match(p, candidate); ok {
				excluded = true
				break
			}
		}
		if !excluded {
			out = append(out, candidate)
		}
	}
	sort.Strings(out)
	return out, nil
}

// Group is a resolved per-file route namespace at the descriptor level.
type Group struct {
	Prefix string
	File   string
	Routes []descriptor.RouteDescriptor
}

// Resolve builds the validated, prefixed route table from route descriptors
// grouped by originating file. Every dynamic or rest segment introduced
// above a file must be declared as a path parameter on every route in that
// file; a mismatch is a startup-time *ValidationError, never tolerated.
func Resolve(routes []descriptor.RouteDescriptor) ([]Group, error) {
	byFile := map[string][]descriptor.RouteDescriptor{}
	for _, r := range routes {
		byFile[r.File] = append(byFile[r.File], r)
	}
	files := make([]string, 0, len(byFile))
	for f := range byFile {
		files = append(files, f)
	}
	sort.Strings(files)

	groups := make([]Group, 0, len(files))
	for _, file := range files {
		prefix, required := ResolvePrefix(file)
		for _, route := range byFile[file] {
			for _, seg := range required {
				if !declaresPathParam(route, seg.Name) {
					return nil, &ValidationError{
						File:    file,
						Segment: seg.Raw,
						Param:   seg.Name,
						Route:   routeIdentity(route),
					}
				}
			}
		}
		groups = append(groups, Group{
			Prefix: prefix,
			File:   file,
			Routes: byFile[file],
		})
	}
	return groups, nil
}

// ResolvedPath joins a group prefix with a route's declared path. The
// folder-derived prefix is outer; the declared path is appended after.
func ResolvedPath(prefix, declared string) string {
	declared = strings.TrimSuffix(declared, "/")
	if declared != "" && !strings.HasPrefix(declared, "/") {
		declared = "/" + declared
	}
	full := prefix + declared
	if full == "" {
		return "/"
	}
	return full
}

func declaresPathParam(route descriptor.RouteDescriptor, name string) bool {
	for _, p := range route.Params {
		if p.Location == "path" && p.Name == name {
			return true
		}
	}
	return false
}

func routeIdentity(route descriptor.RouteDescriptor) string {
	if route.Name != "" {
		return route.Name
	}
	return route.Method + " " + route.Path
}

// ValidationError is the fatal auto-discovery failure: a folder-derived
// parameter is missing from a route's declared parameters. It is raised
// before the API becomes servable.
type ValidationError struct {
	File    string
	Segment string
	Param   string
	Route   string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return fmt.Sprintf(
		"fluid-gen: discovery validation failed: file %s: segment %q requires a path parameter %q on route %s",
		e.File, e.Segment, e.Param, e.Route,
	)
}
