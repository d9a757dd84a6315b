package template_test

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/flosch/pongo2/v6"
	"github.com/sirupsen/logrus"

	"github.com/goliatone/go-formmacros/pkg/forms"
	"github.com/goliatone/go-formmacros/pkg/macros"
	"github.com/goliatone/go-formmacros/pkg/render/template/gotemplate"
	"github.com/goliatone/go-formmacros/pkg/testsupport"
)

func newEngine(t *testing.T, files fstest.MapFS, options ...gotemplate.Option) *gotemplate.Engine {
	t.Helper()

	logger := logrus.New()
	logger.SetOutput(io.Discard)
	options = append([]gotemplate.Option{gotemplate.WithFS(files), gotemplate.WithLogger(logger)}, options...)

	engine, err := gotemplate.New(options...)
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}
	return engine
}

func TestGoTemplateEngine_RenderTemplate(t *testing.T) {
	engine := newEngine(t, fstest.MapFS{
		"hello.tpl": {Data: []byte(`Hello {{ name|trim }}!`)},
	})

	result, written := testsupport.CaptureTemplateOutput(t, func(w io.Writer) (string, error) {
		return engine.RenderTemplate("hello", map[string]any{"name": "  Ada "}, w)
	})

	if result != "Hello Ada!" || written != result {
		t.Fatalf("render mismatch: result %q written %q", result, written)
	}
}

func TestGoTemplateEngine_GlobalContextAndFuncs(t *testing.T) {
	engine := newEngine(t, fstest.MapFS{
		"env.tpl": {Data: []byte(`{{ settings.env }} {{ shout("hi") }}`)},
	}, gotemplate.WithTemplateFunc(map[string]any{
		"shout": func(s string) string { return strings.ToUpper(s) + "!" },
	}))

	if err := engine.GlobalContext(map[string]any{"settings": map[string]any{"env": "staging"}}); err != nil {
		t.Fatalf("global context: %v", err)
	}

	result, err := engine.RenderTemplate("env.tpl", nil)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if result != "staging HI!" {
		t.Fatalf("unexpected output %q", result)
	}
}

func TestGoTemplateEngine_RegisterFilter(t *testing.T) {
	engine := newEngine(t, fstest.MapFS{})
	name := "exclaim"
	err := engine.RegisterFilter(name, func(input any, _ any) (any, error) {
		return fmt.Sprintf("%v!", input), nil
	})
	if err != nil {
		t.Fatalf("register filter: %v", err)
	}
	if err := engine.RegisterFilter(name, func(input any, _ any) (any, error) { return input, nil }); err == nil {
		t.Fatalf("expected duplicate filter error")
	}

	result, err := engine.Render("{{ word|"+name+" }}", map[string]any{"word": "go"})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if result != "go!" {
		t.Fatalf("unexpected output %q", result)
	}
}

func TestGoTemplateEngine_FormMacrosKeepLiveForms(t *testing.T) {
	engine := newEngine(t, fstest.MapFS{
		"signup.tpl": {Data: []byte(`<main>{% form signup %}{% form body %}{% endform %}</main>`)},
	})

	form := forms.New("signup", forms.WithAction("/signup"))
	form.MustAdd(forms.NewControl("email", forms.TypeEmail, "Email"))

	result, err := engine.RenderTemplate("signup", map[string]any{"signup": form})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if !strings.HasPrefix(result, `<main><form action="/signup" id="frm-signup" method="post">`) {
		t.Fatalf("unexpected begin: %s", result)
	}
	if !strings.Contains(result, `name="email"`) || !strings.HasSuffix(result, "</form></main>") {
		t.Fatalf("unexpected output: %s", result)
	}
}

func TestGoTemplateEngine_ErrorsDoNotWrite(t *testing.T) {
	engine := newEngine(t, fstest.MapFS{
		"broken.tpl": {Data: []byte(`partial {% form errors %}`)},
	})

	var buf bytes.Buffer
	_, err := engine.RenderTemplate("broken", map[string]any{}, &buf)
	if err == nil {
		t.Fatalf("expected resolution error")
	}
	if !strings.Contains(err.Error(), "no form-like object found in local scope") {
		t.Fatalf("unexpected error: %v", err)
	}
	if buf.Len() != 0 {
		t.Fatalf("expected nothing written, got %q", buf.String())
	}

	if !errors.Is(err, macros.ErrResolution) {
		t.Fatalf("expected errors.Is to reach ErrResolution: %v", err)
	}
	var resolution *macros.ResolutionError
	if !errors.As(err, &resolution) || resolution.Tag != macros.TagForm {
		t.Fatalf("expected a form ResolutionError, got %v", err)
	}
	var perr *pongo2.Error
	if !errors.As(err, &perr) || perr.Line != 1 {
		t.Fatalf("expected the pongo2 error with its position, got %v", err)
	}
}

func TestGoTemplateEngine_Invalidate(t *testing.T) {
	files := fstest.MapFS{"page.tpl": {Data: []byte("v1")}}
	engine := newEngine(t, files)

	if got, _ := engine.RenderTemplate("page", nil); got != "v1" {
		t.Fatalf("unexpected first render %q", got)
	}
	files["page.tpl"] = &fstest.MapFile{Data: []byte("v2")}
	if got, _ := engine.RenderTemplate("page", nil); got != "v1" {
		t.Fatalf("expected cached template, got %q", got)
	}

	engine.Invalidate("page")
	if got, _ := engine.RenderTemplate("page", nil); got != "v2" {
		t.Fatalf("expected recompiled template, got %q", got)
	}
}

func TestGoTemplateEngine_RequiresSource(t *testing.T) {
	if _, err := gotemplate.New(); err == nil {
		t.Fatalf("expected error without base dir or fs")
	}
}
