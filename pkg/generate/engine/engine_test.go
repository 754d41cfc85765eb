package engine

import (
	"strings"
	"testing"
	"testing/fstest"
)

func TestEngine_RendersWithGlobals(t *testing.T) {
	files := fstest.MapFS{
		"greet.tmpl": {Data: []byte("{{ greeting }}, {{ name }}!")},
	}

	eng, err := New(
		WithFS(files),
		WithGlobals(map[string]any{"greeting": "Hello"}),
	)
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}

	out, err := eng.Render("greet", map[string]any{"name": "world"})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if got := string(out); got != "Hello, world!" {
		t.Fatalf("render = %q", got)
	}
}

func TestEngine_CachesTemplates(t *testing.T) {
	files := fstest.MapFS{
		"page.tmpl": {Data: []byte("v={{ v }}")},
	}

	eng, err := New(WithFS(files))
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}
	if _, err := eng.Render("page", map[string]any{"v": 1}); err != nil {
		t.Fatalf("first render: %v", err)
	}

	// Mutate the backing file; the cached parse should keep serving.
	files["page.tmpl"].Data = []byte("changed")
	out, err := eng.Render("page", map[string]any{"v": 2})
	if err != nil {
		t.Fatalf("second render: %v", err)
	}
	if got := string(out); got != "v=2" {
		t.Fatalf("render after mutation = %q", got)
	}
}

func TestEngine_MissingTemplate(t *testing.T) {
	eng, err := New(WithFS(fstest.MapFS{}))
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}
	if _, err := eng.Render("absent", nil); err == nil || !strings.Contains(err.Error(), "absent") {
		t.Fatalf("expected missing template error, got %v", err)
	}
}

func TestEngine_RequiresFS(t *testing.T) {
	if _, err := New(); err == nil {
		t.Fatal("expected error without template filesystem")
	}
}
