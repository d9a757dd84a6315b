package macros_test

import (
	"fmt"
	"io"
	"strings"
	"testing"

	"github.com/flosch/pongo2/v6"
	"github.com/sirupsen/logrus"

	"github.com/goliatone/go-formmacros/pkg/forms"
	"github.com/goliatone/go-formmacros/pkg/macros"
)

// partRenderer records each render call as "[name:part args]".
type partRenderer struct {
	name string
}

func (r partRenderer) Render(w io.Writer, _ *forms.Form, part any, args forms.Args) error {
	label := "whole"
	switch v := part.(type) {
	case string:
		label = v
	case forms.Component:
		label = v.ComponentName()
	}
	var extra strings.Builder
	for _, arg := range args {
		fmt.Fprintf(&extra, " %s=%v", arg.Key, arg.Value)
	}
	_, err := fmt.Fprintf(w, "[%s:%s%s]", r.name, label, extra.String())
	return err
}

func (partRenderer) RendersPart(string) bool {
	return true
}

// argsRecorder keeps the arguments of the last render call.
type argsRecorder struct {
	args forms.Args
}

func (r *argsRecorder) Render(_ io.Writer, _ *forms.Form, _ any, args forms.Args) error {
	r.args = args
	return nil
}

type lookahead string

func (l lookahead) PeekWord() string {
	return string(l)
}

func quietLogger() logrus.FieldLogger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func newSignup(t *testing.T, options ...forms.Option) *forms.Form {
	t.Helper()

	form := forms.New("signup", options...)
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

func newHost(t *testing.T, defined ...*forms.Form) *forms.Container {
	t.Helper()

	host := forms.NewContainer(forms.HostName)
	for _, form := range defined {
		if err := host.Add(form); err != nil {
			t.Fatalf("add form: %v", err)
		}
	}
	return host
}

func install(t *testing.T) {
	t.Helper()

	if _, err := macros.Install(macros.WithLogger(quietLogger())); err != nil {
		t.Fatalf("install: %v", err)
	}
}

func renderString(t *testing.T, source string, ctx pongo2.Context) (string, error) {
	t.Helper()

	install(t)
	tpl, err := pongo2.FromString(source)
	if err != nil {
		t.Fatalf("compile %q: %v", source, err)
	}
	return tpl.Execute(ctx)
}
