package descriptor

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

func TestLoadSnapshot(t *testing.T) {
	content := `
routes:
  - name: listUsers
    method: GET
    path: /users
    file: users/users.api.py
    params:
      - name: limit
        in: query
        type:
          kind: int
        default: 20
    response:
      kind: array
      items:
        kind: ref
        ref: "app.models.User"
schemas:
  - sourceId: "app.models.User"
    name: User
    file: users/users.api.py
    fields:
      - name: id
        type:
          kind: int
      - name: email
        type:
          kind: string
        optional: true
  - sourceId: "app.models.Role"
    name: Role
    isEnum: true
    values: [admin, member]
`
	path := filepath.Join(t.TempDir(), "routes.snapshot.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	snap, err := LoadSnapshot(path)
	if err != nil {
		t.Fatal(err)
	}

	routes, err := snap.Routes(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(routes) != 1 {
		t.Fatalf("routes = %d", len(routes))
	}
	r := routes[0]
	if r.Name != "listUsers" || r.Method != "GET" || r.File != "users/users.api.py" {
		t.Errorf("route = %+v", r)
	}
	if r.Params[0].Location != "query" || r.Params[0].Default != 20 {
		t.Errorf("param = %+v", r.Params[0])
	}
	if r.Response == nil || r.Response.Kind != "array" || r.Response.Items.Ref != "app.models.User" {
		t.Errorf("response = %+v", r.Response)
	}

	schemas, err := snap.Schemas(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(schemas) != 2 {
		t.Fatalf("schemas = %d", len(schemas))
	}
	if schemas[0].SourceID != "app.models.User" || len(schemas[0].Fields) != 2 {
		t.Errorf("schema = %+v", schemas[0])
	}
	if !schemas[0].Fields[1].Optional {
		t.Error("optional flag lost")
	}
	role := schemas[1]
	if !role.IsEnum || len(role.Values) != 2 || role.Values[0] != "admin" {
		t.Errorf("enum schema = %+v", role)
	}
}

func TestLoadSnapshotMissing(t *testing.T) {
	if _, err := LoadSnapshot(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Error("expected error for missing snapshot")
	}
}
