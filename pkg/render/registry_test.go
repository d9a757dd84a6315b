package render_test

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formmacros/pkg/forms"
	"github.com/goliatone/go-formmacros/pkg/render"
)

type namedRenderer struct {
	forms.DefaultRenderer
	name string
}

func (r namedRenderer) Name() string {
	return r.name
}

func TestRegistry_RegisterAndGet(t *testing.T) {
	registry := render.NewRegistry()
	registry.MustRegister(forms.DefaultRenderer{}, namedRenderer{name: "compact"})

	if diff := cmp.Diff([]string{"compact", "default"}, registry.List()); diff != "" {
		t.Fatalf("names mismatch (-want +got):\n%s", diff)
	}
	if !registry.Has("default") {
		t.Fatalf("expected default renderer")
	}

	got, err := registry.Get("compact")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Name() != "compact" {
		t.Fatalf("unexpected renderer %q", got.Name())
	}
}

func TestRegistry_Errors(t *testing.T) {
	registry := render.NewRegistry()
	if err := registry.Register(nil); err == nil {
		t.Fatalf("expected nil renderer to be rejected")
	}
	if err := registry.Register(namedRenderer{}); err == nil {
		t.Fatalf("expected empty name to be rejected")
	}

	registry.MustRegister(forms.DefaultRenderer{})
	if err := registry.Register(forms.DefaultRenderer{}); !errors.Is(err, render.ErrDuplicateRenderer) {
		t.Fatalf("expected duplicate error, got %v", err)
	}
	if _, err := registry.Get("bootstrap"); !errors.Is(err, render.ErrRendererNotFound) {
		t.Fatalf("expected not found error, got %v", err)
	}
}
