package fluidgen

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/blimu-dev/fluid-gen/pkg/generator/sink"
)

const e2eSnapshot = `
routes:
  - name: listUsers
    method: GET
    path: /
    file: users/users.api.py
    params:
      - name: limit
        in: query
        type:
          kind: int
    response:
      kind: array
      items:
        kind: ref
        ref: "app.models.User"
  - name: getProfile
    method: GET
    path: /profile
    file: users/[user_id]/profile.api.py
    params:
      - name: user_id
        in: path
        type:
          kind: int
        required: true
    response:
      kind: ref
      ref: "app.models.User"
schemas:
  - sourceId: "app.models.User"
    name: User
    fields:
      - name: id
        type:
          kind: int
      - name: role
        type:
          kind: ref
          ref: "app.models.Role"
  - sourceId: "app.models.Role"
    name: Role
    isEnum: true
    values: [admin, member]
  - sourceId: "app.models.Orphan"
    name: Orphan
`

func writeSnapshot(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "routes.snapshot.yaml")
	if err := os.WriteFile(path, []byte(e2eSnapshot), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestGenerateEndToEnd(t *testing.T) {
	mem := sink.NewMemorySink()
	report, err := Generate(context.Background(), Options{
		Snapshot: writeSnapshot(t),
		Sink:     mem,
	})
	if err != nil {
		t.Fatal(err)
	}

	files := mem.Files()
	for _, want := range []string{
		".fluid/users/users.api.ts",
		".fluid/users/[user_id]/profile.api.ts",
		".fluid/runtime.ts",
	} {
		if _, ok := files[want]; !ok {
			t.Errorf("missing %q; wrote %v", want, report.Files)
		}
	}

	users := string(files[".fluid/users/users.api.ts"])
	if !strings.Contains(users, "export async function listUsers(") {
		t.Errorf("users client missing function:\n%s", users)
	}
	if !strings.Contains(users, "export interface User {") {
		t.Errorf("users client missing referenced model:\n%s", users)
	}
	if !strings.Contains(users, `export type Role = "admin" | "member";`) {
		t.Errorf("users client missing transitive enum:\n%s", users)
	}
	if strings.Contains(users, "Orphan") {
		t.Error("unreachable model leaked into output")
	}

	profile := string(files[".fluid/users/[user_id]/profile.api.ts"])
	if !strings.Contains(profile, "/users/${encodeURIComponent(String(userId))}/profile") {
		t.Errorf("folder prefix not applied to route path:\n%s", profile)
	}
	if !strings.Contains(profile, "from '../../runtime'") {
		t.Errorf("runtime import wrong:\n%s", profile)
	}
}

func TestGenerateMissingSource(t *testing.T) {
	_, err := Generate(context.Background(), Options{Sink: sink.NewMemorySink()})
	if err == nil {
		t.Error("expected error when no source is configured")
	}
}

func TestValidateReportsDiscoveryFailure(t *testing.T) {
	bad := `
routes:
  - name: getProfile
    method: GET
    path: /profile
    file: users/[user_id]/profile.api.py
`
	path := filepath.Join(t.TempDir(), "bad.snapshot.yaml")
	if err := os.WriteFile(path, []byte(bad), 0o644); err != nil {
		t.Fatal(err)
	}
	_, err := Validate(context.Background(), Options{Snapshot: path})
	if err == nil || !strings.Contains(err.Error(), "discovery validation failed") {
		t.Errorf("err = %v", err)
	}
}
