package emit

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/goliatone/go-uigen/pkg/generate"
)

func TestWriter_SyncWritesNestedFiles(t *testing.T) {
	dest := t.TempDir()
	files := []generate.File{
		{Path: "task/list.js", Contents: []byte("export const list = [];\n")},
		{Path: "runtime/client.js", Contents: []byte("export function configure() {}\n")},
	}

	written, err := New().Sync(dest, files)
	if err != nil {
		t.Fatalf("sync: %v", err)
	}
	if len(written) != 2 {
		t.Fatalf("written = %v, want 2 paths", written)
	}

	data, err := os.ReadFile(filepath.Join(dest, "task", "list.js"))
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	if string(data) != "export const list = [];\n" {
		t.Fatalf("contents mismatch: %q", data)
	}
}

func TestWriter_SyncOverwrites(t *testing.T) {
	dest := t.TempDir()
	target := filepath.Join(dest, "task", "actions.js")
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(target, []byte("stale"), 0o644); err != nil {
		t.Fatal(err)
	}

	_, err := New().Sync(dest, []generate.File{
		{Path: "task/actions.js", Contents: []byte("fresh")},
	})
	if err != nil {
		t.Fatalf("sync: %v", err)
	}

	data, err := os.ReadFile(target)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "fresh" {
		t.Fatalf("expected overwrite, got %q", data)
	}
}

func TestWriter_SyncRejectsEscapingPaths(t *testing.T) {
	dest := t.TempDir()
	for _, path := range []string{"../outside.js", "/etc/passwd", ""} {
		if _, err := New().Sync(dest, []generate.File{{Path: path}}); err == nil {
			t.Errorf("path %q accepted", path)
		}
	}
}

func TestWriter_SyncRequiresDestination(t *testing.T) {
	if _, err := New().Sync("  ", nil); err == nil {
		t.Fatal("expected error for empty destination")
	}
}

func TestWriter_SyncStopsAtFirstFailure(t *testing.T) {
	dest := t.TempDir()
	blocker := filepath.Join(dest, "task")
	if err := os.WriteFile(blocker, []byte("not a directory"), 0o644); err != nil {
		t.Fatal(err)
	}

	written, err := New().Sync(dest, []generate.File{
		{Path: "first.js", Contents: []byte("ok")},
		{Path: "task/list.js", Contents: []byte("blocked")},
		{Path: "last.js", Contents: []byte("never written")},
	})
	if err == nil {
		t.Fatal("expected write failure")
	}
	if len(written) != 1 {
		t.Fatalf("written = %v, want only the first file", written)
	}
	if _, statErr := os.Stat(filepath.Join(dest, "last.js")); !os.IsNotExist(statErr) {
		t.Error("sync continued past the failure")
	}
}
