package macros_test

import (
	"testing"

	"github.com/flosch/pongo2/v6"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"

	"github.com/goliatone/go-formmacros/pkg/macros"
)

func TestInstalledTags_EmitCanonicalCode(t *testing.T) {
	cases := []struct {
		name   string
		source string
		want   string
	}{
		{
			name:   "self closing string",
			source: `{% form "signup" / %}`,
			want:   `form = __form = _form = resolveForm("signup"); __form.Render(nil, [])`,
		},
		{
			name:   "block with named args",
			source: `{% form signup class="wide", novalidate=true %}{% endform %}`,
			want:   `form = __form = _form = RenderFormPart(signup, [class="wide", novalidate=true], scope)`,
		},
		{
			name:   "part keyword",
			source: `{% form controls %}`,
			want:   `form = __form = _form = RenderFormPart(controls, [], scope)`,
		},
		{
			name:   "pair with numbers",
			source: `{% pair email 1, -2, rows=2.5 %}`,
			want:   `__form.Render(__form[email], [1, -2, rows=2.5])`,
		},
		{
			name:   "pair path",
			source: `{% pair fields.contact["email"] %}`,
			want:   `__form.Render(__form[fields["contact"]["email"]], [])`,
		},
		{
			name:   "group",
			source: `{% group "account" legend=title %}`,
			want:   `__form.Render(resolveGroup("account"), [legend=title])`,
		},
		{
			name:   "container",
			source: `{% container address %}`,
			want:   `__form.Render(__form[address], [])`,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			logger, hook := test.NewNullLogger()
			logger.SetLevel(logrus.DebugLevel)
			if _, err := macros.Install(macros.WithLogger(logger)); err != nil {
				t.Fatalf("install: %v", err)
			}
			if _, err := pongo2.FromString(tc.source); err != nil {
				t.Fatalf("compile: %v", err)
			}

			for _, entry := range hook.AllEntries() {
				if entry.Message == tc.want {
					return
				}
			}
			var got []string
			for _, entry := range hook.AllEntries() {
				got = append(got, entry.Message)
			}
			t.Fatalf("expected emitted code %q, got %q", tc.want, got)
		})
	}
}
