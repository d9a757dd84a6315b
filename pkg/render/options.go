package render

import (
	"fmt"
	"strings"

	"github.com/goliatone/go-formmacros/pkg/forms"
)

// RenderOptions describe per-request data applied to a form before a
// template renders it.
type RenderOptions struct {
	// Method overrides the HTTP method declared by the form. Verbs other than
	// GET and POST are sent as POST plus a hidden _method input.
	Method string
	// Values pre-populates controls by dotted path (e.g. "address.street").
	Values map[string]any
	// Errors surfaces server-side validation feedback keyed by control path,
	// JSON pointer or form-level key. See MapErrorPayload.
	Errors map[string][]string
	// Hidden adds hidden inputs such as CSRF tokens.
	Hidden []HiddenField
	// Locale and Translator localize labels, placeholders and descriptions.
	Locale     string
	Translator Translator
	OnMissing  MissingTranslationHandler
}

// Apply mutates form according to opts. Unknown value paths are an error so
// typos in request data surface early.
func Apply(form *forms.Form, opts RenderOptions) error {
	if form == nil {
		return fmt.Errorf("render: form is required")
	}

	if method := strings.TrimSpace(opts.Method); method != "" {
		forms.WithMethod(method)(form)
	}

	for path, value := range opts.Values {
		control, ok := LookupControl(form, path)
		if !ok {
			return fmt.Errorf("%w: value for %q in form %q", forms.ErrComponentNotFound, path, form.ComponentName())
		}
		control.Value = value
	}

	if len(opts.Errors) > 0 {
		ApplyErrors(form, opts.Errors)
	}

	if err := AddHiddenFields(form, opts.Hidden...); err != nil {
		return err
	}

	LocalizeForm(form, opts.Locale, opts.Translator, opts.OnMissing)
	return nil
}
