package sink

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

func TestFilesystemSinkWrite(t *testing.T) {
	dir := t.TempDir()
	s := NewFilesystemSink(dir)

	if err := s.WriteFile(context.Background(), "a/b/client.ts", []byte("content")); err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(filepath.Join(dir, "a", "b", "client.ts"))
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "content" {
		t.Errorf("content = %q", data)
	}

	// Overwrites atomically.
	if err := s.WriteFile(context.Background(), "a/b/client.ts", []byte("v2")); err != nil {
		t.Fatal(err)
	}
	data, _ = os.ReadFile(filepath.Join(dir, "a", "b", "client.ts"))
	if string(data) != "v2" {
		t.Errorf("content after overwrite = %q", data)
	}

	// No temp files left behind.
	entries, err := os.ReadDir(filepath.Join(dir, "a", "b"))
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		t.Errorf("leftover files: %v", entries)
	}
}

func TestFilesystemSinkRejectsEscape(t *testing.T) {
	s := NewFilesystemSink(t.TempDir())
	for _, path := range []string{"../outside.ts", "/etc/passwd", "a/../../b.ts", ""} {
		if err := s.WriteFile(context.Background(), path, []byte("x")); err == nil {
			t.Errorf("WriteFile(%q) accepted an invalid path", path)
		}
	}
}

func TestFilesystemSinkCancelledContext(t *testing.T) {
	dir := t.TempDir()
	s := NewFilesystemSink(dir)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := s.WriteFile(ctx, "x.ts", []byte("x")); err == nil {
		t.Error("expected context error")
	}
	if _, err := os.Stat(filepath.Join(dir, "x.ts")); !os.IsNotExist(err) {
		t.Error("file written despite cancelled context")
	}
}

func TestMemorySink(t *testing.T) {
	s := NewMemorySink()
	if err := s.WriteFile(context.Background(), "a.ts", []byte("one")); err != nil {
		t.Fatal(err)
	}
	if got := s.Get("a.ts"); string(got) != "one" {
		t.Errorf("Get = %q", got)
	}
	if got := s.Get("missing.ts"); got != nil {
		t.Errorf("Get(missing) = %q, want nil", got)
	}

	// Files returns copies; mutating them does not affect the sink.
	files := s.Files()
	files["a.ts"][0] = 'X'
	if got := s.Get("a.ts"); string(got) != "one" {
		t.Errorf("sink mutated through Files copy: %q", got)
	}

	s.Reset()
	if len(s.Files()) != 0 {
		t.Error("Reset left files behind")
	}
}

func TestValidatePath(t *testing.T) {
	tests := []struct {
		path string
		ok   bool
	}{
		{"a/b.ts", true},
		{"src/routes/api/[...path]/+server.ts", true},
		{".fluid/runtime.ts", true},
		{"", false},
		{"/abs.ts", false},
		{"../up.ts", false},
		{"a/../b.ts", false},
		{"a//b.ts", false},
	}
	for _, tt := range tests {
		err := ValidatePath(tt.path)
		if (err == nil) != tt.ok {
			t.Errorf("ValidatePath(%q) = %v, want ok=%v", tt.path, err, tt.ok)
		}
	}
}
