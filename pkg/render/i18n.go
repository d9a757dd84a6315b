package render

import (
	"errors"
	"strings"

	"github.com/goliatone/go-formmacros/pkg/forms"
)

// ErrMissingTranslator is passed to MissingTranslationHandler when no
// translator is configured.
var ErrMissingTranslator = errors.New("render: translator not configured")

// Translator resolves message keys for a locale.
type Translator interface {
	Translate(locale, key string, args ...any) (string, error)
}

// MissingTranslationHandler decides the text used when a key cannot be
// translated. args carries the template parameters, or a {"default": text}
// map when localizing form labels.
type MissingTranslationHandler func(locale, key string, args []any, err error) string

// MapTranslator is an in-memory Translator keyed by locale, then message key.
type MapTranslator map[string]map[string]string

func (m MapTranslator) Translate(locale, key string, _ ...any) (string, error) {
	messages, ok := m[locale]
	if !ok {
		if base, _, found := strings.Cut(locale, "-"); found {
			messages, ok = m[base]
		}
	}
	if !ok {
		return "", errors.New("render: unknown locale " + locale)
	}
	msg, ok := messages[key]
	if !ok {
		return "", errors.New("render: missing translation " + key)
	}
	return msg, nil
}

// LocalizeForm translates control labels, placeholders and descriptions and
// group labels in place. Each text is used as its own message key and is kept
// when no translation exists.
func LocalizeForm(form *forms.Form, locale string, t Translator, onMissing MissingTranslationHandler) {
	if form == nil || t == nil {
		return
	}
	if onMissing == nil {
		onMissing = keepFallback
	}

	for _, control := range form.Controls() {
		control.Label = translate(locale, control.Label, t, onMissing)
		control.Placeholder = translate(locale, control.Placeholder, t, onMissing)
		control.Description = translate(locale, control.Description, t, onMissing)
	}
	for _, group := range form.Groups() {
		group.Label = translate(locale, group.Label, t, onMissing)
		group.Description = translate(locale, group.Description, t, onMissing)
	}
}

func translate(locale, text string, t Translator, onMissing MissingTranslationHandler) string {
	key := strings.TrimSpace(text)
	if key == "" {
		return text
	}

	result, err := t.Translate(locale, key)
	if err == nil && strings.TrimSpace(result) != "" {
		return result
	}
	return onMissing(locale, key, []any{map[string]any{"default": text}}, err)
}

func keepFallback(_ string, key string, args []any, _ error) string {
	for _, arg := range args {
		if values, ok := arg.(map[string]any); ok {
			if fallback, ok := values["default"].(string); ok && strings.TrimSpace(fallback) != "" {
				return fallback
			}
		}
	}
	return key
}
