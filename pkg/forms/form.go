package forms

import (
	"fmt"
	"io"
	"strings"
)

// FormLike is the capability set template macros rely on: component and
// group lookup plus whole or partial rendering.
type FormLike interface {
	Component
	Lookup
	Group(name string) (*Group, bool)
	Render(w io.Writer, part any, args Args) error
	Renderer() Renderer
	// Element returns a fresh <form> element prototype.
	Element() *Element
	Controls() []*Control
}

// Option configures a Form at construction.
type Option func(*Form)

// WithAction sets the form action URL.
func WithAction(action string) Option {
	return func(f *Form) {
		f.Action = strings.TrimSpace(action)
	}
}

// WithMethod sets the HTTP method. Verbs other than GET and POST are sent as
// POST with a hidden _method input.
func WithMethod(method string) Option {
	return func(f *Form) {
		f.Method = strings.ToUpper(strings.TrimSpace(method))
	}
}

// WithRenderer sets the renderer used by Render.
func WithRenderer(renderer Renderer) Option {
	return func(f *Form) {
		f.renderer = renderer
	}
}

// Form is the root of a component tree.
type Form struct {
	*Container

	Action string
	Method string
	Attrs  map[string]string

	errors   []string
	groups   []*Group
	renderer Renderer
}

var _ FormLike = (*Form)(nil)

// New creates a form named name.
func New(name string, options ...Option) *Form {
	container := NewContainer(name)
	container.root = true
	form := &Form{
		Container: container,
		Method:    "POST",
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(form)
	}
	return form
}

// AddControl creates a control and attaches it to the form root.
func (f *Form) AddControl(name string, typ ControlType, label string) (*Control, error) {
	control := NewControl(name, typ, label)
	if err := f.Add(control); err != nil {
		return nil, err
	}
	return control, nil
}

// AddGroup creates a group, or returns the existing one with that name.
func (f *Form) AddGroup(name, label string) *Group {
	if group, ok := f.Group(name); ok {
		return group
	}
	group := NewGroup(name, label)
	f.groups = append(f.groups, group)
	return group
}

// Group returns the group registered under name.
func (f *Form) Group(name string) (*Group, bool) {
	name = strings.TrimSpace(name)
	for _, group := range f.groups {
		if group.name == name {
			return group, true
		}
	}
	return nil, false
}

// Groups returns all groups in declaration order.
func (f *Form) Groups() []*Group {
	return append([]*Group(nil), f.groups...)
}

// AddError records a form-level error.
func (f *Form) AddError(message string) {
	f.errors = normalizeMessages(append(f.errors, message))
}

// OwnErrors returns form-level errors only.
func (f *Form) OwnErrors() []string {
	return append([]string(nil), f.errors...)
}

// Errors returns form-level errors followed by control errors, without
// duplicates.
func (f *Form) Errors() []string {
	combined := append([]string(nil), f.errors...)
	for _, control := range f.Controls() {
		combined = append(combined, control.errors...)
	}
	return normalizeMessages(combined)
}

// Buttons returns the submit and button controls.
func (f *Form) Buttons() []*Control {
	var out []*Control
	for _, control := range f.Controls() {
		if control.IsButton() {
			out = append(out, control)
		}
	}
	return out
}

// Renderer returns the configured renderer, or the framework default.
func (f *Form) Renderer() Renderer {
	if f.renderer == nil {
		return DefaultRenderer{}
	}
	return f.renderer
}

// SetRenderer replaces the renderer.
func (f *Form) SetRenderer(renderer Renderer) {
	f.renderer = renderer
}

// HasRenderer reports whether a renderer was configured explicitly.
func (f *Form) HasRenderer() bool {
	return f.renderer != nil
}

// Render renders part of the form; a nil part renders the whole form.
func (f *Form) Render(w io.Writer, part any, args Args) error {
	if err := f.Renderer().Render(w, f, part, args); err != nil {
		return fmt.Errorf("forms: render %q: %w", f.ComponentName(), err)
	}
	return nil
}

// Element returns the <form> prototype with action, method, id and the
// configured attributes.
func (f *Form) Element() *Element {
	el := NewElement("form")
	if f.Action != "" {
		el.Set("action", f.Action)
	}
	method := f.Method
	if method == "" {
		method = "POST"
	}
	el.Set("method", strings.ToLower(method))
	if name := f.ComponentName(); name != "" {
		el.Set("id", "frm-"+name)
	}
	for key, value := range f.Attrs {
		if key == "class" {
			el.AddClass(value)
			continue
		}
		el.Set(key, value)
	}
	return el
}

// ResetRendered clears the rendered flag on every control.
func (f *Form) ResetRendered() {
	for _, control := range f.Controls() {
		control.rendered = false
	}
}

// normalizeMessages trims and de-duplicates messages while preserving order.
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
