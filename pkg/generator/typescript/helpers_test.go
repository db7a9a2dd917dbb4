package typescript

import (
	"testing"

	"github.com/blimu-dev/fluid-gen/pkg/ir"
)

func TestFunctionName(t *testing.T) {
	tests := []struct {
		name   string
		route  ir.Route
		want   string
	}{
		{"declared name wins", ir.Route{Name: "fetch_user_list", Method: "GET", Path: "/users"}, "fetchUserList"},
		{"list", ir.Route{Method: "GET", Path: "/users"}, "listUsers"},
		{"get by id", ir.Route{Method: "GET", Path: "/users/{id}"}, "getUser"},
		{"create", ir.Route{Method: "POST", Path: "/users"}, "createUser"},
		{"update", ir.Route{Method: "PUT", Path: "/users/{id}"}, "updateUser"},
		{"patch", ir.Route{Method: "PATCH", Path: "/users/{id}"}, "updateUser"},
		{"delete", ir.Route{Method: "DELETE", Path: "/users/{id}"}, "deleteUser"},
		{"nested resource", ir.Route{Method: "GET", Path: "/users/{id}/posts"}, "listPosts"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := functionName(&tt.route); got != tt.want {
				t.Errorf("functionName = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestPathTemplate(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"/users", "/users"},
		{"/users/{id}", "/users/${encodeURIComponent(String(id))}"},
		{"/users/{user_id}/posts", "/users/${encodeURIComponent(String(userId))}/posts"},
		{"/docs/{slug:path}", "/docs/${slug}"},
	}
	for _, tt := range tests {
		if got := pathTemplate(tt.in); got != tt.want {
			t.Errorf("pathTemplate(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestQuotePropName(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"name", "name"},
		{"user_id", "user_id"},
		{"$ref", "$ref"},
		{"content-type", `"content-type"`},
		{"2fa", `"2fa"`},
		{"with space", `"with space"`},
	}
	for _, tt := range tests {
		if got := quotePropName(tt.in); got != tt.want {
			t.Errorf("quotePropName(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestRuntimeImport(t *testing.T) {
	tests := []struct {
		unit    string
		runtime string
		want    string
	}{
		{".fluid/users/users.api.ts", ".fluid/runtime.ts", "../runtime"},
		{".fluid/a/b/c.api.ts", ".fluid/runtime.ts", "../../runtime"},
		{".fluid/health.api.ts", ".fluid/runtime.ts", "./runtime"},
		{"src/users/users.api.ts", ".fluid/runtime.ts", "../../.fluid/runtime"},
	}
	for _, tt := range tests {
		if got := runtimeImport(tt.unit, tt.runtime); got != tt.want {
			t.Errorf("runtimeImport(%q, %q) = %q, want %q", tt.unit, tt.runtime, got, tt.want)
		}
	}
}
