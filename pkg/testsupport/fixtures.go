package testsupport

import (
	"bytes"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formmacros/pkg/forms"
)

// MustLoadHost builds the forms defined under fsys into a host container, the
// value templates receive as their "control" binding.
func MustLoadHost(t *testing.T, fsys fs.FS) *forms.Container {
	t.Helper()

	host, err := forms.LoadFS(fsys)
	if err != nil {
		t.Fatalf("load forms: %v", err)
	}
	return host
}

// MustForm returns the named form from a host container.
func MustForm(t *testing.T, host *forms.Container, name string) *forms.Form {
	t.Helper()

	component, ok := host.Component(name)
	if !ok {
		t.Fatalf("form %q not found", name)
	}
	form, ok := component.(*forms.Form)
	if !ok {
		t.Fatalf("component %q is %T, not a form", name, component)
	}
	return form
}

// CompareGolden returns a diff string if the values differ.
func CompareGolden(want, got any) string {
	return cmp.Diff(want, got)
}

// MustReadGoldenString reads a golden file and returns its string content.
func MustReadGoldenString(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read golden: %v", err)
	}
	return string(data)
}

// WriteMaybeGolden updates a golden file when UPDATE_GOLDENS is set. Returns
// true if the golden was written (test should exit early).
func WriteMaybeGolden(t *testing.T, path string, data []byte) bool {
	t.Helper()
	if os.Getenv("UPDATE_GOLDENS") == "" {
		return false
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir golden dir: %v", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write golden: %v", err)
	}
	return true
}

// AssertContains fails the test when got is missing any fragment, in order.
func AssertContains(t *testing.T, got string, fragments ...string) {
	t.Helper()

	rest := got
	for _, fragment := range fragments {
		idx := strings.Index(rest, fragment)
		if idx < 0 {
			t.Fatalf("expected %q (in order) in output:\n%s", fragment, got)
		}
		rest = rest[idx+len(fragment):]
	}
}

// CaptureTemplateOutput executes a render function that writes to an io.Writer,
// returning both the string result and the writer contents. Tests can assert
// the renderer returns and writes the same payload without duplicating buffer
// setup.
func CaptureTemplateOutput(t *testing.T, render func(io.Writer) (string, error)) (string, string) {
	t.Helper()

	var buf bytes.Buffer
	out, err := render(&buf)
	if err != nil {
		t.Fatalf("render template: %v", err)
	}

	return out, buf.String()
}
