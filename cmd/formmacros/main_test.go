package main

import (
	"bytes"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"testing/fstest"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/goliatone/go-formmacros/pkg/extension"
	"github.com/goliatone/go-formmacros/pkg/forms"
	"github.com/goliatone/go-formmacros/pkg/render/template/gotemplate"
	"github.com/goliatone/go-formmacros/pkg/testsupport"
)

const loginDefinitions = "forms:\n  login:\n    action: /login\n    controls:\n      - name: user\n        label: User\n"

func runCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()

	cmd := rootCommand(newApp())
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(io.Discard)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()

	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func quietLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func TestVersionCommand(t *testing.T) {
	out, err := runCommand(t, "version")
	if err != nil {
		t.Fatalf("version: %v", err)
	}
	if !strings.HasPrefix(out, "formmacros version ") {
		t.Fatalf("unexpected output %q", out)
	}
}

func TestMacrosCommand(t *testing.T) {
	out, err := runCommand(t, "macros")
	if err != nil {
		t.Fatalf("macros: %v", err)
	}
	testsupport.AssertContains(t, out,
		"{% form name [args] %}...{% endform %}",
		"{% pair name [args] %}",
		"{% group name [args] %}",
		"{% container name [args] %}",
	)
}

func TestRenderCommand(t *testing.T) {
	dir := t.TempDir()
	template := writeFile(t, dir, "page.html", `{% form "login" / %}`)
	definitions := writeFile(t, dir, "login.yaml", loginDefinitions)

	out, err := runCommand(t, "render", template,
		"--forms", definitions,
		"--set", "login.user=ada",
		"--hidden", "_csrf=s3cret",
		"--renderer", "default",
	)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	testsupport.AssertContains(t, out,
		`<form action="/login" id="frm-login" method="post"><table>`,
		`<input id="frm-login-user" name="user" type="text" value="ada">`,
		`<div><input id="frm-login-_csrf" name="_csrf" type="hidden" value="s3cret"></div></form>`,
	)
}

func TestRenderCommand_OutputFile(t *testing.T) {
	dir := t.TempDir()
	template := writeFile(t, dir, "page.tpl", `{% form "login" %}{% pair user %}{% endform %}`)
	formsDir := filepath.Join(dir, "forms")
	if err := os.Mkdir(formsDir, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	writeFile(t, formsDir, "login.yaml", loginDefinitions)
	output := filepath.Join(dir, "out.html")

	if _, err := runCommand(t, "render", template, "--forms", formsDir, "-o", output); err != nil {
		t.Fatalf("render: %v", err)
	}
	data, err := os.ReadFile(output)
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	testsupport.AssertContains(t, string(data),
		`<form action="/login" class="form-horizontal" id="frm-login" method="post">`,
		`<div class="control-group"><label class="control-label" for="frm-login-user">User</label>`,
		`</form>`,
	)
}

func TestRenderCommand_ValidationErrors(t *testing.T) {
	dir := t.TempDir()
	template := writeFile(t, dir, "page.tpl", `{% form "login" / %}`)
	definitions := writeFile(t, dir, "login.yaml", loginDefinitions)
	messages := writeFile(t, dir, "errors.yaml", "login:\n  user: [User is taken]\n  form: [Check the fields]\n")

	out, err := runCommand(t, "render", template, "--forms", definitions, "--errors", messages)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	testsupport.AssertContains(t, out,
		`<div class="alert alert-error">Check the fields</div>`,
		`<div class="control-group error">`,
		`<span class="help-inline">User is taken</span>`,
	)
}

func TestRenderCommand_Errors(t *testing.T) {
	dir := t.TempDir()
	template := writeFile(t, dir, "page.tpl", `{% form "login" / %}`)
	definitions := writeFile(t, dir, "login.yaml", loginDefinitions)

	cases := map[string][]string{
		"bad assignment":     {"render", template, "--forms", definitions, "--set", "user=ada"},
		"bad hidden":         {"render", template, "--forms", definitions, "--hidden", "novalue"},
		"unknown form":       {"render", template, "--forms", definitions, "--set", "signup.user=ada"},
		"unknown control":    {"render", template, "--forms", definitions, "--set", "login.email=ada"},
		"missing operation":  {"render", template, "--openapi", definitions},
		"unknown renderer":   {"render", template, "--renderer", "uikit"},
		"missing definition": {"render", template, "--forms", filepath.Join(dir, "missing.yaml")},
		"errors for unknown": {"render", template, "--forms", definitions, "--errors", writeFile(t, dir, "signup-errors.yaml", "signup:\n  user: [taken]\n")},
		"malformed errors":   {"render", template, "--forms", definitions, "--errors", writeFile(t, dir, "bad-errors.yaml", "login: [unclosed")},
	}
	for name, args := range cases {
		t.Run(name, func(t *testing.T) {
			if _, err := runCommand(t, args...); err == nil {
				t.Fatalf("expected error for %v", args)
			}
		})
	}
}

func TestApplyValues_UnknownForm(t *testing.T) {
	err := applyValues([]*forms.Form{forms.New("login")}, []string{"signup.user=ada"})
	if !errors.Is(err, forms.ErrComponentNotFound) {
		t.Fatalf("expected ErrComponentNotFound, got %v", err)
	}
}

func newTestHandler(t *testing.T, formsPath string, templates fstest.MapFS) http.Handler {
	t.Helper()

	ext, err := extension.New(extension.DefaultConfig(), extension.WithLogger(quietLogger()))
	if err != nil {
		t.Fatalf("extension: %v", err)
	}
	engine, err := ext.Engine(gotemplate.WithFS(templates))
	if err != nil {
		t.Fatalf("engine: %v", err)
	}
	return newPreviewHandler(quietLogger(), ext, engine, formsPath)
}

func TestPreviewHandler_RendersTemplate(t *testing.T) {
	definitions := writeFile(t, t.TempDir(), "login.yaml", loginDefinitions)
	handler := newTestHandler(t, definitions, fstest.MapFS{
		"login.tpl": {Data: []byte(`<h1>{{ title }}</h1>{% form login %}{% form controls %}{% endform %}`)},
	})

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/login?title=Hello", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status %d: %s", rec.Code, rec.Body.String())
	}
	testsupport.AssertContains(t, rec.Body.String(),
		`<h1>Hello</h1>`,
		`<form action="/login" class="form-horizontal" id="frm-login" method="post">`,
		`for="frm-login-user"`,
	)
}

func TestPreviewHandler_Errors(t *testing.T) {
	handler := newTestHandler(t, "", fstest.MapFS{
		"broken.tpl": {Data: []byte(`{% pair user %}`)},
	})

	for _, path := range []string{"/missing", "/broken"} {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		if rec.Code != http.StatusInternalServerError {
			t.Fatalf("%s: expected 500, got %d", path, rec.Code)
		}
	}
}

func TestPreviewHandler_MacroReference(t *testing.T) {
	handler := newTestHandler(t, "", fstest.MapFS{})

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/_macros", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status %d", rec.Code)
	}
	testsupport.AssertContains(t, rec.Body.String(),
		"<h1>Form macros</h1>",
		"<table>",
		"<code>{% pair name [args] %}</code>",
	)
}

func TestWatchTemplates_InvalidatesChangedFiles(t *testing.T) {
	dir := t.TempDir()
	changed := make(chan string, 16)

	watcher, err := watchTemplates(dir, quietLogger(), func(names ...string) {
		for _, name := range names {
			changed <- name
		}
	})
	if err != nil {
		t.Fatalf("watch: %v", err)
	}
	defer watcher.Close()

	writeFile(t, dir, "page.tpl", "hello")

	select {
	case name := <-changed:
		if name != "page.tpl" {
			t.Fatalf("unexpected invalidated template %q", name)
		}
	case <-time.After(5 * time.Second):
		t.Fatalf("timed out waiting for invalidation")
	}
}
