package bootstrap

import (
	"strings"

	theme "github.com/goliatone/go-theme"
)

// ClassKey names a piece of bootstrap chrome whose CSS classes can be
// overridden.
type ClassKey string

const (
	ClassForm         ClassKey = "form"
	ClassErrors       ClassKey = "errors"
	ClassControlGroup ClassKey = "control_group"
	ClassErrorState   ClassKey = "error_state"
	ClassLabel        ClassKey = "label"
	ClassControls     ClassKey = "controls"
	ClassHelpInline   ClassKey = "help_inline"
	ClassHelpBlock    ClassKey = "help_block"
	ClassActions      ClassKey = "actions"
	ClassButton       ClassKey = "button"
	ClassPrimary      ClassKey = "button_primary"
	ClassCheckbox     ClassKey = "checkbox"
	ClassRadio        ClassKey = "radio"
	ClassInput        ClassKey = "input"
)

// ThemeTokenPrefix prefixes go-theme tokens that override classes, e.g.
// "bootstrap.form".
const ThemeTokenPrefix = "bootstrap."

// DefaultClasses follows Twitter Bootstrap 2 horizontal form markup.
func DefaultClasses() map[ClassKey]string {
	return map[ClassKey]string{
		ClassForm:         "form-horizontal",
		ClassErrors:       "alert alert-error",
		ClassControlGroup: "control-group",
		ClassErrorState:   "error",
		ClassLabel:        "control-label",
		ClassControls:     "controls",
		ClassHelpInline:   "help-inline",
		ClassHelpBlock:    "help-block",
		ClassActions:      "form-actions",
		ClassButton:       "btn",
		ClassPrimary:      "btn-primary",
		ClassCheckbox:     "checkbox",
		ClassRadio:        "radio",
		ClassInput:        "",
	}
}

// classesFromTheme reads "bootstrap.<key>" tokens from the selected manifest;
// tokens of the selected variant win.
func classesFromTheme(selection *theme.Selection) map[ClassKey]string {
	if selection == nil || selection.Manifest == nil {
		return nil
	}
	out := make(map[ClassKey]string)
	collect := func(tokens map[string]string) {
		for token, value := range tokens {
			key, ok := strings.CutPrefix(token, ThemeTokenPrefix)
			if !ok || key == "" {
				continue
			}
			out[ClassKey(key)] = strings.TrimSpace(value)
		}
	}
	collect(selection.Manifest.Tokens)
	if variant, ok := selection.Manifest.Variants[selection.Variant]; ok {
		collect(variant.Tokens)
	}
	return out
}
