package render

import (
	"errors"
	"strconv"
	"strings"

	"github.com/goliatone/go-formmacros/pkg/forms"
)

var (
	// ErrDuplicateRenderer is returned when a renderer name is registered twice.
	ErrDuplicateRenderer = errors.New("render: renderer already registered")
	// ErrRendererNotFound is returned by Registry.Get for unknown names.
	ErrRendererNotFound = errors.New("render: renderer not found")
)

// ErrorMapping splits a server error payload into control-level messages,
// keyed by dotted control path ("address.street"), and form-level messages.
type ErrorMapping struct {
	Fields map[string][]string
	Form   []string
}

// MapErrorPayload normalises server error payloads (including JSON pointer
// paths such as "/body/address/street") onto the controls of form. Unknown
// paths become form-level errors so messages are not lost.
func MapErrorPayload(form *forms.Form, payload map[string][]string) ErrorMapping {
	mapping := ErrorMapping{
		Fields: make(map[string][]string),
	}
	if form == nil || len(payload) == 0 {
		mapping.Fields = nil
		return mapping
	}

	fieldPaths := make(map[string]struct{})
	for _, control := range form.Controls() {
		fieldPaths[ControlPath(control)] = struct{}{}
	}

	for rawPath, messages := range payload {
		normalized := normalizeMessages(messages)
		if len(normalized) == 0 {
			continue
		}

		mapped, formLevel := mapErrorPath(rawPath, fieldPaths)
		if formLevel || mapped == "" {
			mapping.Form = append(mapping.Form, normalized...)
			continue
		}
		mapping.Fields[mapped] = append(mapping.Fields[mapped], normalized...)
	}

	if len(mapping.Fields) == 0 {
		mapping.Fields = nil
	}
	mapping.Form = normalizeMessages(mapping.Form)
	return mapping
}

// ApplyErrors maps payload onto form and records the messages on the
// matching controls, or on the form itself.
func ApplyErrors(form *forms.Form, payload map[string][]string) ErrorMapping {
	mapping := MapErrorPayload(form, payload)
	for path, messages := range mapping.Fields {
		control, ok := LookupControl(form, path)
		if !ok {
			continue
		}
		for _, message := range messages {
			control.AddError(message)
		}
	}
	for _, message := range mapping.Form {
		form.AddError(message)
	}
	return mapping
}

// ControlPath returns the dotted path of a control relative to its form.
func ControlPath(control *forms.Control) string {
	name := control.HTMLName()
	replacer := strings.NewReplacer("][", ".", "[", ".", "]", "")
	return replacer.Replace(name)
}

// LookupControl resolves a dotted control path on form.
func LookupControl(form *forms.Form, path string) (*forms.Control, bool) {
	if form == nil {
		return nil, false
	}
	component, ok := form.Component(strings.ReplaceAll(strings.TrimSpace(path), ".", forms.PathSeparator))
	if !ok {
		return nil, false
	}
	control, ok := component.(*forms.Control)
	return control, ok
}

func normalizeMessages(messages []string) []string {
	if len(messages) == 0 {
		return nil
	}

	out := make([]string, 0, len(messages))
	seen := make(map[string]struct{}, len(messages))

	for _, message := range messages {
		trimmed := strings.TrimSpace(message)
		if trimmed == "" {
			continue
		}
		if _, exists := seen[trimmed]; exists {
			continue
		}
		seen[trimmed] = struct{}{}
		out = append(out, trimmed)
	}

	if len(out) == 0 {
		return nil
	}
	return out
}

func mapErrorPath(raw string, fieldPaths map[string]struct{}) (string, bool) {
	trimmed := strings.TrimSpace(raw)
	if isFormLevelKey(trimmed) {
		return "", true
	}

	segments := parsePathSegments(trimmed)
	if len(segments) == 0 {
		return "", true
	}

	best := ""
	for _, variant := range buildSegmentVariants(segments) {
		if path := longestMatchingPath(variant, fieldPaths); path != "" {
			if best == "" || strings.Count(path, ".") > strings.Count(best, ".") {
				best = path
			}
		}
	}

	if best != "" {
		return best, false
	}
	return "", true
}

func parsePathSegments(path string) []string {
	clean := strings.TrimSpace(path)
	clean = strings.TrimLeft(clean, "#$/.")
	clean = strings.NewReplacer("[", ".", "]", "").Replace(clean)
	clean = strings.Trim(clean, "./")
	if clean == "" {
		return nil
	}

	parts := strings.FieldsFunc(clean, func(r rune) bool {
		return r == '.' || r == '/'
	})

	out := make([]string, 0, len(parts))
	for _, part := range parts {
		segment := strings.TrimSpace(part)
		if segment == "" {
			continue
		}
		segment = strings.ReplaceAll(segment, "~1", "/")
		segment = strings.ReplaceAll(segment, "~0", "~")
		out = append(out, segment)
	}
	return out
}

// buildSegmentVariants tries the raw path, the path without request wrapper
// prefixes and both without array indexes.
func buildSegmentVariants(segments []string) [][]string {
	var variants [][]string
	seen := make(map[string]struct{}, 4)

	appendVariant := func(candidate []string) {
		if len(candidate) == 0 {
			return
		}
		key := strings.Join(candidate, ".")
		if _, exists := seen[key]; exists {
			return
		}
		seen[key] = struct{}{}
		variants = append(variants, append([]string(nil), candidate...))
	}

	noWrappers := dropWrapperSegments(segments)
	appendVariant(segments)
	appendVariant(noWrappers)
	appendVariant(stripNumericSegments(segments))
	appendVariant(stripNumericSegments(noWrappers))
	return variants
}

var wrapperSegments = map[string]struct{}{
	"body": {}, "request": {}, "payload": {}, "data": {}, "attributes": {},
}

func dropWrapperSegments(segments []string) []string {
	out := segments
	for len(out) > 0 {
		if _, ok := wrapperSegments[strings.ToLower(out[0])]; !ok {
			break
		}
		out = out[1:]
	}
	return out
}

func stripNumericSegments(segments []string) []string {
	out := make([]string, 0, len(segments))
	for _, segment := range segments {
		if _, err := strconv.Atoi(segment); err == nil {
			continue
		}
		out = append(out, segment)
	}
	return out
}

func longestMatchingPath(segments []string, fieldPaths map[string]struct{}) string {
	for end := len(segments); end > 0; end-- {
		candidate := strings.Join(segments[:end], ".")
		if _, ok := fieldPaths[candidate]; ok {
			return candidate
		}
	}
	return ""
}

func isFormLevelKey(key string) bool {
	switch strings.ToLower(strings.TrimSpace(key)) {
	case "", ".", "/", "#", "$", "form", "base", "__all__", "non_field_errors", "non-field-errors":
		return true
	default:
		return false
	}
}
