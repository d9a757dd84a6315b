package extension_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formmacros/pkg/extension"
)

func TestParseConfig_Defaults(t *testing.T) {
	cfg, err := extension.ParseConfig([]byte("debug: true\nrenderer: \" \"\n"))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}

	want := extension.Config{
		Name:     extension.DefaultName,
		Renderer: extension.RendererBootstrap,
		Debug:    true,
	}
	if diff := cmp.Diff(want, cfg); diff != "" {
		t.Fatalf("config mismatch (-want +got):\n%s", diff)
	}
}

func TestParseConfig_Full(t *testing.T) {
	data := []byte(`
name: adminForms
renderer: Default
theme: admin
variant: dark
classes:
  form: form-horizontal well
`)
	cfg, err := extension.ParseConfig(data)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}

	want := extension.Config{
		Name:     "adminForms",
		Renderer: extension.RendererDefault,
		Theme:    "admin",
		Variant:  "dark",
		Classes:  map[string]string{"form": "form-horizontal well"},
	}
	if diff := cmp.Diff(want, cfg); diff != "" {
		t.Fatalf("config mismatch (-want +got):\n%s", diff)
	}
}

func TestParseConfig_Errors(t *testing.T) {
	cases := map[string]string{
		"unknown renderer": "renderer: uikit",
		"variant only":     "variant: dark",
		"bad yaml":         "classes: [",
	}
	for name, data := range cases {
		t.Run(name, func(t *testing.T) {
			if _, err := extension.ParseConfig([]byte(data)); err == nil {
				t.Fatalf("expected error for %q", data)
			}
		})
	}

	_, err := extension.ParseConfig([]byte("renderer: uikit"))
	if !errors.Is(err, extension.ErrUnknownRenderer) {
		t.Fatalf("expected ErrUnknownRenderer, got %v", err)
	}
}

func TestLoadConfig(t *testing.T) {
	dir := t.TempDir()

	cfg, err := extension.LoadConfig(filepath.Join(dir, "missing.yaml"))
	if err != nil {
		t.Fatalf("load missing: %v", err)
	}
	if diff := cmp.Diff(extension.DefaultConfig(), cfg); diff != "" {
		t.Fatalf("missing file should yield defaults (-want +got):\n%s", diff)
	}

	path := filepath.Join(dir, "formmacros.yaml")
	if err := os.WriteFile(path, []byte("renderer: default\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	cfg, err = extension.LoadConfig(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Renderer != extension.RendererDefault || cfg.Name != extension.DefaultName {
		t.Fatalf("unexpected config %+v", cfg)
	}
}
