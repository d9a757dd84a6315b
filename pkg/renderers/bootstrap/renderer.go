package bootstrap

import (
	"fmt"
	"html"
	"io"
	"io/fs"
	"os"
	"strings"

	theme "github.com/goliatone/go-theme"

	"github.com/goliatone/go-formmacros/pkg/forms"
	rendertemplate "github.com/goliatone/go-formmacros/pkg/render/template"
	"github.com/goliatone/go-formmacros/pkg/render/template/gotemplate"
)

// Name is the registry name of the bootstrap renderer.
const Name = "bootstrap"

type Option func(*config)

type config struct {
	templateFS       fs.FS
	templateRenderer rendertemplate.TemplateRenderer
	selection        *theme.Selection
	classes          map[ClassKey]string
}

// WithTemplatesFS supplies an alternate template bundle via fs.FS.
func WithTemplatesFS(files fs.FS) Option {
	return func(cfg *config) {
		cfg.templateFS = files
	}
}

// WithTemplatesDir loads templates from a directory on disk.
func WithTemplatesDir(path string) Option {
	return func(cfg *config) {
		if path == "" {
			return
		}
		cfg.templateFS = os.DirFS(path)
	}
}

// WithTemplateRenderer injects a custom template renderer implementation.
func WithTemplateRenderer(renderer rendertemplate.TemplateRenderer) Option {
	return func(cfg *config) {
		if renderer != nil {
			cfg.templateRenderer = renderer
		}
	}
}

// WithTheme reads class overrides from "bootstrap.<key>" tokens of a go-theme
// selection.
func WithTheme(selection *theme.Selection) Option {
	return func(cfg *config) {
		cfg.selection = selection
	}
}

// WithClasses overrides chrome classes. Explicit classes win over theme
// tokens.
func WithClasses(classes map[ClassKey]string) Option {
	return func(cfg *config) {
		if cfg.classes == nil {
			cfg.classes = make(map[ClassKey]string, len(classes))
		}
		for key, value := range classes {
			cfg.classes[key] = strings.TrimSpace(value)
		}
	}
}

// Renderer renders forms with Twitter Bootstrap horizontal form markup. It
// renders every part itself, including begin, so template macros delegate the
// opening tag to it.
type Renderer struct {
	templates rendertemplate.TemplateRenderer
	classes   map[ClassKey]string
}

var _ forms.PartRenderer = (*Renderer)(nil)

// New constructs the bootstrap renderer applying any provided options.
func New(options ...Option) (*Renderer, error) {
	cfg := config{templateFS: TemplatesFS()}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(&cfg)
	}

	if cfg.templateFS == nil {
		cfg.templateFS = TemplatesFS()
	}

	renderer := cfg.templateRenderer
	if renderer == nil {
		engine, err := gotemplate.New(
			gotemplate.WithFS(cfg.templateFS),
			gotemplate.WithExtension(".tpl"),
			gotemplate.WithoutMacros(),
		)
		if err != nil {
			return nil, fmt.Errorf("bootstrap renderer: configure template renderer: %w", err)
		}
		renderer = engine
	}

	classes := DefaultClasses()
	for key, value := range classesFromTheme(cfg.selection) {
		classes[key] = value
	}
	for key, value := range cfg.classes {
		classes[key] = value
	}

	return &Renderer{templates: renderer, classes: classes}, nil
}

func (r *Renderer) Name() string {
	return Name
}

// Class returns the CSS classes configured for key.
func (r *Renderer) Class(key ClassKey) string {
	return r.classes[key]
}

// RendersPart reports the named parts the renderer handles.
func (r *Renderer) RendersPart(part string) bool {
	switch part {
	case forms.PartBegin, forms.PartErrors, forms.PartBody, forms.PartControls,
		forms.PartButtons, forms.PartActions, forms.PartEnd:
		return true
	default:
		return false
	}
}

func (r *Renderer) Render(w io.Writer, form *forms.Form, part any, args forms.Args) error {
	if r.templates == nil {
		return fmt.Errorf("bootstrap renderer: template renderer is nil")
	}
	if form == nil {
		return fmt.Errorf("bootstrap renderer: form is nil")
	}

	switch v := part.(type) {
	case nil:
		for _, step := range []string{forms.PartBegin, forms.PartErrors, forms.PartBody, forms.PartEnd} {
			if err := r.renderNamed(w, form, step, args); err != nil {
				return err
			}
			args = nil
		}
		return nil
	case string:
		return r.renderNamed(w, form, v, args)
	case *forms.Control:
		return r.write(w, func() (string, error) { return r.pair(v, args) })
	case *forms.Group:
		return r.write(w, func() (string, error) { return r.group(form, v, args) })
	case *forms.Container:
		return r.write(w, func() (string, error) { return r.controls(v.Controls(), false) })
	default:
		return fmt.Errorf("%w: %T", forms.ErrUnsupportedPart, part)
	}
}

func (r *Renderer) renderNamed(w io.Writer, form *forms.Form, part string, args forms.Args) error {
	switch part {
	case forms.PartBegin:
		begin := append(forms.Args{{Key: "class", Value: r.classes[ClassForm]}}, args...)
		return forms.RenderFormBegin(w, form, begin)
	case forms.PartErrors:
		return r.write(w, func() (string, error) { return r.errors(form.OwnErrors()) })
	case forms.PartBody:
		return r.write(w, func() (string, error) { return r.body(form) })
	case forms.PartControls:
		return r.write(w, func() (string, error) {
			return r.controls(forms.PendingControls(form.Controls(), true), true)
		})
	case forms.PartButtons, forms.PartActions:
		return r.write(w, func() (string, error) { return r.buttons(forms.PendingButtons(form.Controls())) })
	case forms.PartEnd:
		return forms.RenderFormEnd(w, form)
	default:
		return fmt.Errorf("%w: %q", forms.ErrUnsupportedPart, part)
	}
}

func (r *Renderer) body(form *forms.Form) (string, error) {
	var builder strings.Builder
	for _, group := range form.Groups() {
		if len(forms.PendingControls(group.Controls(), true)) == 0 {
			continue
		}
		markup, err := r.group(form, group, nil)
		if err != nil {
			return "", err
		}
		builder.WriteString(markup)
	}

	controls, err := r.controls(forms.PendingControls(form.Controls(), false), true)
	if err != nil {
		return "", err
	}
	builder.WriteString(controls)

	buttons, err := r.buttons(forms.PendingButtons(form.Controls()))
	if err != nil {
		return "", err
	}
	builder.WriteString(buttons)
	return builder.String(), nil
}

func (r *Renderer) errors(messages []string) (string, error) {
	return r.templates.RenderTemplate("errors", map[string]any{
		"messages": messages,
		"classes":  r.classMap(),
	})
}

func (r *Renderer) group(form *forms.Form, group *forms.Group, args forms.Args) (string, error) {
	body, err := r.controls(forms.PendingControls(group.Controls(), true), true)
	if err != nil {
		return "", err
	}
	buttons, err := r.buttons(forms.PendingButtons(group.Controls()))
	if err != nil {
		return "", err
	}

	legend := group.Label
	if value, ok := args.Get("legend"); ok {
		legend = fmt.Sprint(value)
	}
	return r.templates.RenderTemplate("group", map[string]any{
		"id":          "frm-" + form.ComponentName() + forms.PathSeparator + group.ComponentName() + "-group",
		"legend":      legend,
		"description": forms.RenderDescription(group.Description),
		"body":        body + buttons,
		"classes":     r.classMap(),
	})
}

// controls renders control groups. Hidden controls are left for the end
// routine when skipHidden is set.
func (r *Renderer) controls(controls []*forms.Control, skipHidden bool) (string, error) {
	var builder strings.Builder
	for _, control := range controls {
		if control.IsButton() || (skipHidden && control.IsHidden()) {
			continue
		}
		markup, err := r.pair(control, nil)
		if err != nil {
			return "", err
		}
		builder.WriteString(markup)
	}
	return builder.String(), nil
}

func (r *Renderer) pair(control *forms.Control, args forms.Args) (string, error) {
	control.MarkRendered()
	if control.IsHidden() {
		return control.ControlHTML(""), nil
	}
	if control.IsButton() {
		return r.button(control, args), nil
	}

	view := *control
	if value, ok := args.Get("label"); ok {
		view.Label = fmt.Sprint(value)
	}
	inputClass := joinClasses(r.classes[ClassInput], argString(args, "class"))

	var label, markup string
	switch control.Type {
	case forms.TypeCheckbox:
		wrapper := forms.NewElement("label").AddClass(r.classes[ClassCheckbox])
		markup = wrapper.HTML(view.ControlHTML(inputClass) + " " + html.EscapeString(view.Label))
	case forms.TypeRadio:
		label = view.LabelHTML(r.classes[ClassLabel])
		markup = view.ControlHTML(r.classes[ClassRadio])
	default:
		label = view.LabelHTML(r.classes[ClassLabel])
		markup = view.ControlHTML(inputClass)
	}

	groupClass := r.classes[ClassControlGroup]
	if control.HasErrors() {
		groupClass = joinClasses(groupClass, r.classes[ClassErrorState])
	}

	return r.templates.RenderTemplate("pair", map[string]any{
		"group_class": groupClass,
		"label":       label,
		"control":     markup,
		"errors":      control.Errors(),
		"description": control.DescriptionHTML(),
		"classes":     r.classMap(),
	})
}

func (r *Renderer) buttons(buttons []*forms.Control) (string, error) {
	markup := make([]string, 0, len(buttons))
	for idx, button := range buttons {
		button.MarkRendered()
		class := r.classes[ClassButton]
		if idx == 0 && button.Type == forms.TypeSubmit {
			class = joinClasses(class, r.classes[ClassPrimary])
		}
		markup = append(markup, button.ControlHTML(class))
	}
	return r.templates.RenderTemplate("buttons", map[string]any{
		"buttons": markup,
		"classes": r.classMap(),
	})
}

func (r *Renderer) button(control *forms.Control, args forms.Args) string {
	class := r.classes[ClassButton]
	if control.Type == forms.TypeSubmit {
		class = joinClasses(class, r.classes[ClassPrimary])
	}
	return control.ControlHTML(joinClasses(class, argString(args, "class")))
}

func (r *Renderer) write(w io.Writer, render func() (string, error)) error {
	markup, err := render()
	if err != nil {
		return fmt.Errorf("bootstrap renderer: %w", err)
	}
	if markup == "" {
		return nil
	}
	_, err = io.WriteString(w, markup)
	return err
}

func (r *Renderer) classMap() map[string]string {
	out := make(map[string]string, len(r.classes))
	for key, value := range r.classes {
		out[string(key)] = value
	}
	return out
}

func argString(args forms.Args, key string) string {
	value, ok := args.Get(key)
	if !ok || value == nil {
		return ""
	}
	return fmt.Sprint(value)
}

func joinClasses(classes ...string) string {
	var out []string
	for _, class := range classes {
		if trimmed := strings.TrimSpace(class); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return strings.Join(out, " ")
}
