package forms_test

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formmacros/pkg/forms"
)

func newSignup(t *testing.T) *forms.Form {
	t.Helper()

	form := forms.New("signup", forms.WithAction("/signup"))
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
	return form
}

func TestContainer_ComponentPath(t *testing.T) {
	form := newSignup(t)

	component, ok := form.Component("address-street")
	if !ok {
		t.Fatalf("expected address-street to resolve")
	}
	street, ok := component.(*forms.Control)
	if !ok {
		t.Fatalf("expected control, got %T", component)
	}
	if got := street.HTMLID(); got != "frm-signup-address-street" {
		t.Fatalf("html id mismatch: %s", got)
	}
	if got := street.HTMLName(); got != "address[street]" {
		t.Fatalf("html name mismatch: %s", got)
	}

	if _, ok := form.Component("address-missing"); ok {
		t.Fatalf("expected missing nested component to fail")
	}
	if _, ok := form.Component("email-street"); ok {
		t.Fatalf("controls must not resolve nested paths")
	}
}

func TestContainer_AddRejectsInvalidNames(t *testing.T) {
	form := newSignup(t)

	err := form.Add(forms.NewControl("email", forms.TypeText, "Other"))
	if !errors.Is(err, forms.ErrDuplicateComponent) {
		t.Fatalf("expected duplicate error, got %v", err)
	}
	if err := form.Add(forms.NewControl("first-name", forms.TypeText, "")); err == nil {
		t.Fatalf("expected separator in name to be rejected")
	}
	if err := form.Add(forms.NewControl("", forms.TypeText, "")); err == nil {
		t.Fatalf("expected empty name to be rejected")
	}
}

func TestContainer_ControlsDepthFirst(t *testing.T) {
	form := newSignup(t)

	var names []string
	for _, control := range form.Controls() {
		names = append(names, control.HTMLName())
	}
	want := []string{"email", "address[street]", "token", "save"}
	if diff := cmp.Diff(want, names); diff != "" {
		t.Fatalf("controls mismatch (-want +got):\n%s", diff)
	}
}

func TestForm_ErrorsDeduplicated(t *testing.T) {
	form := newSignup(t)
	form.AddError("Please fix the errors below")
	form.AddError("  Please fix the errors below ")

	component, _ := form.Component("email")
	email := component.(*forms.Control)
	email.AddError("Email is required")
	email.AddError("Please fix the errors below")

	want := []string{"Please fix the errors below", "Email is required"}
	if diff := cmp.Diff(want, form.Errors()); diff != "" {
		t.Fatalf("errors mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"Please fix the errors below"}, form.OwnErrors()); diff != "" {
		t.Fatalf("own errors mismatch (-want +got):\n%s", diff)
	}
}

func TestGroup_MovesControlBetweenGroups(t *testing.T) {
	form := newSignup(t)
	component, _ := form.Component("email")
	email := component.(*forms.Control)

	account := form.AddGroup("account", "Account")
	profile := form.AddGroup("profile", "Profile")
	account.Add(email)
	profile.Add(email)

	if got := len(account.Controls()); got != 0 {
		t.Fatalf("expected account group to be empty, got %d", got)
	}
	if email.Group() != profile {
		t.Fatalf("expected control to belong to profile group")
	}
	if again := form.AddGroup("account", "Ignored"); again != account {
		t.Fatalf("expected AddGroup to return the existing group")
	}
}

func TestRenderFormBegin_MethodOverride(t *testing.T) {
	form := forms.New("users", forms.WithAction("/users/1"), forms.WithMethod("put"))

	var buf bytes.Buffer
	err := forms.RenderFormBegin(&buf, form, forms.Args{{Key: "class", Value: "wide"}, {Key: "novalidate", Value: true}})
	if err != nil {
		t.Fatalf("render begin: %v", err)
	}

	want := `<form action="/users/1" class="wide" id="frm-users" method="post" novalidate>` +
		`<input name="_method" type="hidden" value="PUT">`
	if got := buf.String(); got != want {
		t.Fatalf("begin mismatch\nwant: %q\n got: %q", want, got)
	}
}

func TestRenderFormBegin_ArgsOverrideAttributes(t *testing.T) {
	form := forms.New("search", forms.WithMethod("get"))
	form.Attrs = map[string]string{"role": "search"}

	var buf bytes.Buffer
	if err := forms.RenderFormBegin(&buf, form, forms.Args{{Key: "role", Value: nil}, {Key: "data-x", Value: 3}}); err != nil {
		t.Fatalf("render begin: %v", err)
	}

	want := `<form data-x="3" id="frm-search" method="get">`
	if got := buf.String(); got != want {
		t.Fatalf("begin mismatch\nwant: %q\n got: %q", want, got)
	}
}

func TestRenderFormEnd_EmitsPendingHiddenControls(t *testing.T) {
	form := newSignup(t)
	component, _ := form.Component("token")
	component.(*forms.Control).Value = "abc"

	var buf bytes.Buffer
	if err := forms.RenderFormEnd(&buf, form); err != nil {
		t.Fatalf("render end: %v", err)
	}
	want := `<div><input id="frm-signup-token" name="token" type="hidden" value="abc"></div></form>`
	if got := buf.String(); got != want {
		t.Fatalf("end mismatch\nwant: %q\n got: %q", want, got)
	}

	buf.Reset()
	if err := forms.RenderFormEnd(&buf, form); err != nil {
		t.Fatalf("render end again: %v", err)
	}
	if got := buf.String(); got != "</form>" {
		t.Fatalf("expected hidden controls to render once, got %q", got)
	}
}

func TestDefaultRenderer_WholeForm(t *testing.T) {
	form := newSignup(t)
	form.AddError("Something went wrong")
	account := form.AddGroup("account", "Account")
	component, _ := form.Component("email")
	account.Add(component.(*forms.Control))

	var buf bytes.Buffer
	if err := form.Render(&buf, nil, nil); err != nil {
		t.Fatalf("render: %v", err)
	}
	out := buf.String()

	for _, fragment := range []string{
		`<form action="/signup" id="frm-signup" method="post">`,
		`<ul class="error"><li>Something went wrong</li></ul>`,
		`<fieldset><legend>Account</legend>`,
		`<label class="required" for="frm-signup-email">Email</label>`,
		`<input id="frm-signup-address-street" name="address[street]" type="text">`,
		`<input class="button" id="frm-signup-save" name="save" type="submit" value="Save">`,
		`<div><input id="frm-signup-token" name="token" type="hidden"></div></form>`,
	} {
		if !strings.Contains(out, fragment) {
			t.Fatalf("expected output to contain %q\n got: %s", fragment, out)
		}
	}
	if strings.Count(out, `name="email"`) != 1 {
		t.Fatalf("grouped control rendered more than once: %s", out)
	}
	if strings.Index(out, "<fieldset>") > strings.Index(out, `name="address[street]"`) {
		t.Fatalf("expected groups before ungrouped controls: %s", out)
	}
}

func TestDefaultRenderer_Parts(t *testing.T) {
	form := newSignup(t)

	var buf bytes.Buffer
	if err := form.Render(&buf, forms.PartControls, nil); err != nil {
		t.Fatalf("render controls: %v", err)
	}
	if strings.Contains(buf.String(), "<form") || !strings.Contains(buf.String(), `name="email"`) {
		t.Fatalf("unexpected controls output: %s", buf.String())
	}

	buf.Reset()
	if err := form.Render(&buf, forms.PartButtons, nil); err != nil {
		t.Fatalf("render buttons: %v", err)
	}
	if !strings.Contains(buf.String(), `type="submit"`) {
		t.Fatalf("expected submit button: %s", buf.String())
	}

	buf.Reset()
	if err := form.Render(&buf, forms.PartErrors, nil); err != nil {
		t.Fatalf("render errors: %v", err)
	}
	if buf.Len() != 0 {
		t.Fatalf("expected no output without errors, got %q", buf.String())
	}
}

func TestDefaultRenderer_UnsupportedPart(t *testing.T) {
	form := newSignup(t)

	err := form.Render(&bytes.Buffer{}, 42, nil)
	if !errors.Is(err, forms.ErrUnsupportedPart) {
		t.Fatalf("expected unsupported part error, got %v", err)
	}
	err = form.Render(&bytes.Buffer{}, "sidebar", nil)
	if !errors.Is(err, forms.ErrUnsupportedPart) {
		t.Fatalf("expected unsupported part error, got %v", err)
	}
	if !strings.Contains(err.Error(), `render "signup"`) {
		t.Fatalf("expected form name in error, got %v", err)
	}
}

func TestDefaultRenderer_IsNotPartRenderer(t *testing.T) {
	var renderer forms.Renderer = forms.DefaultRenderer{}
	if _, ok := renderer.(forms.PartRenderer); ok {
		t.Fatalf("default renderer must not render parts itself")
	}
	if _, ok := forms.New("x").Renderer().(forms.DefaultRenderer); !ok {
		t.Fatalf("expected forms without renderer to fall back to the default renderer")
	}
}
