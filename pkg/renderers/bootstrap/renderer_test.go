package bootstrap_test

import (
	"bytes"
	"errors"
	"io"
	"strings"
	"testing"
	"testing/fstest"

	theme "github.com/goliatone/go-theme"
	"github.com/google/go-cmp/cmp"
	"github.com/sirupsen/logrus"

	"github.com/goliatone/go-formmacros/pkg/forms"
	"github.com/goliatone/go-formmacros/pkg/render/template/gotemplate"
	"github.com/goliatone/go-formmacros/pkg/renderers/bootstrap"
	"github.com/goliatone/go-formmacros/pkg/testsupport"
)

func newRenderer(t *testing.T, options ...bootstrap.Option) *bootstrap.Renderer {
	t.Helper()

	renderer, err := bootstrap.New(options...)
	if err != nil {
		t.Fatalf("new renderer: %v", err)
	}
	return renderer
}

func newSignup(t *testing.T, renderer forms.Renderer) *forms.Form {
	t.Helper()

	form := forms.New("signup", forms.WithAction("/signup"), forms.WithRenderer(renderer))
	email, err := form.AddControl("email", forms.TypeEmail, "Email")
	if err != nil {
		t.Fatalf("add email: %v", err)
	}
	email.Required = true

	address, err := form.AddContainer("address")
	if err != nil {
		t.Fatalf("add address: %v", err)
	}
	address.MustAdd(forms.NewControl("street", forms.TypeText, "Street"))

	form.MustAdd(
		forms.NewControl("token", forms.TypeHidden, ""),
		forms.NewControl("save", forms.TypeSubmit, "Save"),
	)
	form.AddGroup("account", "Account").Add(email)
	return form
}

func TestRenderer_WholeForm(t *testing.T) {
	renderer := newRenderer(t)
	form := newSignup(t, renderer)
	form.AddError("Check the form")
	email, _ := form.Component("email")
	email.(*forms.Control).AddError("is required")

	var buf bytes.Buffer
	if err := form.Render(&buf, nil, nil); err != nil {
		t.Fatalf("render: %v", err)
	}

	testsupport.AssertContains(t, buf.String(),
		`<form action="/signup" class="form-horizontal" id="frm-signup" method="post">`,
		`<div class="alert alert-error">Check the form</div>`,
		`<fieldset id="frm-signup-account-group"><legend>Account</legend>`,
		`<div class="control-group error"><label class="control-label required" for="frm-signup-email">Email</label>`,
		`<div class="controls"><input id="frm-signup-email" name="email" required type="email">`,
		`<span class="help-inline">is required</span>`,
		`</fieldset>`,
		`<label class="control-label" for="frm-signup-address-street">Street</label>`,
		`<div class="form-actions"><input class="btn btn-primary" id="frm-signup-save" name="save" type="submit" value="Save"></div>`,
		`<div><input id="frm-signup-token" name="token" type="hidden"></div></form>`,
	)
	if strings.Count(buf.String(), `name="email"`) != 1 {
		t.Fatalf("expected email to render once:\n%s", buf.String())
	}
}

func TestRenderer_ErrorsList(t *testing.T) {
	form := newSignup(t, newRenderer(t))
	form.AddError("first")
	form.AddError("<second>")

	var buf bytes.Buffer
	if err := form.Render(&buf, forms.PartErrors, nil); err != nil {
		t.Fatalf("render: %v", err)
	}

	want := `<div class="alert alert-error"><ul><li>first</li><li>&lt;second&gt;</li></ul></div>`
	if diff := cmp.Diff(want, buf.String()); diff != "" {
		t.Fatalf("errors mismatch (-want +got):\n%s", diff)
	}
}

func TestRenderer_CheckboxPair(t *testing.T) {
	renderer := newRenderer(t)
	form := forms.New("login", forms.WithRenderer(renderer))
	remember, err := form.AddControl("remember", forms.TypeCheckbox, "Remember me")
	if err != nil {
		t.Fatalf("add control: %v", err)
	}

	var buf bytes.Buffer
	if err := renderer.Render(&buf, form, remember, nil); err != nil {
		t.Fatalf("render: %v", err)
	}

	want := `<div class="control-group"><div class="controls"><label class="checkbox">` +
		`<input id="frm-login-remember" name="remember" type="checkbox" value="1"> Remember me</label></div></div>`
	if diff := cmp.Diff(want, buf.String()); diff != "" {
		t.Fatalf("checkbox mismatch (-want +got):\n%s", diff)
	}
	if !remember.Rendered() {
		t.Fatalf("expected control to be marked rendered")
	}
}

func TestRenderer_GroupAndContainerParts(t *testing.T) {
	renderer := newRenderer(t)
	form := newSignup(t, renderer)
	group, _ := form.Group("account")
	address, _ := form.Component("address")

	var buf bytes.Buffer
	if err := renderer.Render(&buf, form, group, forms.Args{{Key: "legend", Value: "Your account"}}); err != nil {
		t.Fatalf("render group: %v", err)
	}
	if err := renderer.Render(&buf, form, address, nil); err != nil {
		t.Fatalf("render container: %v", err)
	}

	testsupport.AssertContains(t, buf.String(),
		`<fieldset id="frm-signup-account-group"><legend>Your account</legend>`,
		`name="email"`,
		`</fieldset>`,
		`<input id="frm-signup-address-street" name="address[street]" type="text">`,
	)
}

func TestRenderer_UnsupportedPart(t *testing.T) {
	renderer := newRenderer(t)
	form := newSignup(t, renderer)

	for _, part := range []any{"legend", 42} {
		err := renderer.Render(io.Discard, form, part, nil)
		if !errors.Is(err, forms.ErrUnsupportedPart) {
			t.Fatalf("part %v: expected ErrUnsupportedPart, got %v", part, err)
		}
	}
	if renderer.RendersPart("legend") || !renderer.RendersPart(forms.PartBegin) {
		t.Fatalf("unexpected RendersPart answers")
	}
}

func TestRenderer_ClassPrecedence(t *testing.T) {
	manifest := &theme.Manifest{
		Name:    "admin",
		Version: "1.0.0",
		Tokens: map[string]string{
			"bootstrap.form":    "form-stacked",
			"bootstrap.actions": "actions",
			"color.primary":     "#000",
		},
		Variants: map[string]theme.Variant{
			"dark": {Tokens: map[string]string{"bootstrap.form": "form-dark"}},
		},
	}
	selection := &theme.Selection{Theme: "admin", Variant: "dark", Manifest: manifest}

	renderer := newRenderer(t,
		bootstrap.WithTheme(selection),
		bootstrap.WithClasses(map[bootstrap.ClassKey]string{bootstrap.ClassActions: " form-footer "}),
	)

	got := map[bootstrap.ClassKey]string{
		bootstrap.ClassForm:    renderer.Class(bootstrap.ClassForm),
		bootstrap.ClassActions: renderer.Class(bootstrap.ClassActions),
		bootstrap.ClassLabel:   renderer.Class(bootstrap.ClassLabel),
	}
	want := map[bootstrap.ClassKey]string{
		bootstrap.ClassForm:    "form-dark",
		bootstrap.ClassActions: "form-footer",
		bootstrap.ClassLabel:   "control-label",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("classes mismatch (-want +got):\n%s", diff)
	}
}

func TestRenderer_CustomTemplates(t *testing.T) {
	files := fstest.MapFS{
		"errors.tpl":  {Data: []byte(`{% for message in messages %}!{{ message }}{% endfor %}`)},
		"pair.tpl":    {Data: []byte(`{{ control|safe }}`)},
		"group.tpl":   {Data: []byte(`{{ body|safe }}`)},
		"buttons.tpl": {Data: []byte(`{{ buttons|join:","|safe }}`)},
	}
	renderer := newRenderer(t, bootstrap.WithTemplatesFS(files))
	form := newSignup(t, renderer)
	form.AddError("oops")

	var buf bytes.Buffer
	if err := form.Render(&buf, forms.PartErrors, nil); err != nil {
		t.Fatalf("render: %v", err)
	}
	if buf.String() != "!oops" {
		t.Fatalf("unexpected errors output %q", buf.String())
	}
}

func TestRenderer_WithTemplateMacros(t *testing.T) {
	logger := logrus.New()
	logger.SetOutput(io.Discard)

	engine, err := gotemplate.New(
		gotemplate.WithLogger(logger),
		gotemplate.WithFS(fstest.MapFS{
			"signup.tpl": {Data: []byte(
				`{% form signup %}{% form errors %}{% pair email class="span4" label="E-mail" %}{% form buttons %}{% endform %}`,
			)},
		}),
	)
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}

	form := newSignup(t, newRenderer(t))
	out, err := engine.RenderTemplate("signup", map[string]any{"signup": form})
	if err != nil {
		t.Fatalf("render: %v", err)
	}

	testsupport.AssertContains(t, out,
		`<form action="/signup" class="form-horizontal" id="frm-signup" method="post">`,
		`<label class="control-label required" for="frm-signup-email">E-mail</label>`,
		`<input class="span4" id="frm-signup-email" name="email" required type="email">`,
		`<div class="form-actions"><input class="btn btn-primary"`,
		`<div><input id="frm-signup-token" name="token" type="hidden"></div></form>`,
	)
	if strings.Contains(out, "alert") {
		t.Fatalf("expected no error block:\n%s", out)
	}
}
