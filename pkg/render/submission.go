package render

import (
	"fmt"
	"sort"
	"strings"

	"github.com/goliatone/go-formmacros/pkg/forms"
)

// HiddenField is a hidden input added to a form before rendering. Fields a
// template never places explicitly are emitted by the form end routine.
type HiddenField struct {
	Name  string
	Value string
}

// Hidden returns a HiddenField for an arbitrary name/value pair.
func Hidden(name string, value any) HiddenField {
	return HiddenField{
		Name:  strings.TrimSpace(name),
		Value: fmt.Sprint(value),
	}
}

// CSRFToken constructs a hidden field carrying the provided token. Callers
// supply the input name to match their backend expectations (for example,
// "_csrf" or "csrf_token").
func CSRFToken(name, token string) HiddenField {
	return Hidden(name, token)
}

// SortedHiddenFields normalises and sorts hidden fields for deterministic
// rendering. Empty names are dropped and later fields win on collisions.
func SortedHiddenFields(fields ...HiddenField) []HiddenField {
	clean := make(map[string]string, len(fields))
	for _, field := range fields {
		name := strings.TrimSpace(field.Name)
		if name == "" {
			continue
		}
		clean[name] = field.Value
	}
	if len(clean) == 0 {
		return nil
	}

	names := make([]string, 0, len(clean))
	for name := range clean {
		names = append(names, name)
	}
	sort.Strings(names)

	result := make([]HiddenField, 0, len(names))
	for _, name := range names {
		result = append(result, HiddenField{Name: name, Value: clean[name]})
	}
	return result
}

// AddHiddenFields attaches hidden controls to the form root. Existing hidden
// controls with the same name get the new value; other controls with that
// name are a conflict.
func AddHiddenFields(form *forms.Form, fields ...HiddenField) error {
	for _, field := range SortedHiddenFields(fields...) {
		if component, ok := form.Component(field.Name); ok {
			control, isControl := component.(*forms.Control)
			if !isControl || !control.IsHidden() {
				return fmt.Errorf("render: hidden field %q conflicts with an existing component", field.Name)
			}
			control.Value = field.Value
			continue
		}
		control := forms.NewControl(field.Name, forms.TypeHidden, "")
		control.Value = field.Value
		if err := form.Add(control); err != nil {
			return fmt.Errorf("render: add hidden field: %w", err)
		}
	}
	return nil
}
