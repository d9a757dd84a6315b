package forms

import (
	"fmt"
	"html"
	"io"
	"strings"
)

// DefaultRenderer is the framework renderer: a table layout that renders the
// whole form or one of the declared parts. It does not implement
// PartRenderer, so template macros open forms through RenderFormBegin.
type DefaultRenderer struct{}

func (DefaultRenderer) Name() string {
	return "default"
}

func (r DefaultRenderer) Render(w io.Writer, form *Form, part any, args Args) error {
	if form == nil {
		return fmt.Errorf("default renderer: form is nil")
	}

	switch v := part.(type) {
	case nil:
		for _, step := range []string{PartBegin, PartErrors, PartBody, PartEnd} {
			if err := r.Render(w, form, step, args); err != nil {
				return err
			}
			args = nil
		}
		return nil
	case string:
		return r.renderNamed(w, form, v, args)
	case *Control:
		return writeString(w, r.pair(v))
	case *Group:
		return writeString(w, r.group(v))
	case *Container:
		return writeString(w, r.table(v.Controls()))
	default:
		return fmt.Errorf("%w: %T", ErrUnsupportedPart, part)
	}
}

func (r DefaultRenderer) renderNamed(w io.Writer, form *Form, part string, args Args) error {
	switch part {
	case PartBegin:
		return RenderFormBegin(w, form, args)
	case PartErrors:
		return writeString(w, r.errors(form.OwnErrors()))
	case PartBody:
		return writeString(w, r.body(form))
	case PartControls:
		return writeString(w, r.table(PendingControls(form.Controls(), true)))
	case PartButtons, PartActions:
		return writeString(w, r.buttons(PendingButtons(form.Controls())))
	case PartEnd:
		return RenderFormEnd(w, form)
	default:
		return fmt.Errorf("%w: %q", ErrUnsupportedPart, part)
	}
}

func (r DefaultRenderer) errors(messages []string) string {
	if len(messages) == 0 {
		return ""
	}
	var builder strings.Builder
	builder.WriteString(`<ul class="error">`)
	for _, message := range messages {
		builder.WriteString("<li>")
		builder.WriteString(html.EscapeString(message))
		builder.WriteString("</li>")
	}
	builder.WriteString("</ul>")
	return builder.String()
}

func (r DefaultRenderer) body(form *Form) string {
	var builder strings.Builder
	for _, group := range form.Groups() {
		if len(PendingControls(group.Controls(), true)) == 0 {
			continue
		}
		builder.WriteString(r.group(group))
	}
	builder.WriteString(r.table(PendingControls(form.Controls(), false)))
	builder.WriteString(r.buttons(PendingButtons(form.Controls())))
	return builder.String()
}

func (r DefaultRenderer) group(group *Group) string {
	var builder strings.Builder
	builder.WriteString("<fieldset>")
	if group.Label != "" {
		builder.WriteString(NewElement("legend").Text(group.Label))
	}
	if description := RenderDescription(group.Description); description != "" {
		builder.WriteString(description)
	}
	builder.WriteString(r.table(PendingControls(group.Controls(), true)))
	builder.WriteString(r.buttons(PendingButtons(group.Controls())))
	builder.WriteString("</fieldset>")
	return builder.String()
}

func (r DefaultRenderer) table(controls []*Control) string {
	var rows strings.Builder
	for _, control := range controls {
		if control.IsButton() || control.IsHidden() {
			continue
		}
		rows.WriteString(r.pair(control))
	}
	if rows.Len() == 0 {
		return ""
	}
	return "<table>" + rows.String() + "</table>"
}

func (r DefaultRenderer) pair(control *Control) string {
	control.MarkRendered()
	if control.IsHidden() {
		return control.ControlHTML("")
	}

	var builder strings.Builder
	builder.WriteString("<tr")
	if control.Required {
		builder.WriteString(` class="required"`)
	}
	builder.WriteString("><th>")
	builder.WriteString(control.LabelHTML(""))
	builder.WriteString("</th><td>")
	builder.WriteString(control.ControlHTML(""))
	for _, message := range control.Errors() {
		builder.WriteString(NewElement("span").Set("class", "error").Text(message))
	}
	if description := control.DescriptionHTML(); description != "" {
		builder.WriteString(NewElement("small").HTML(description))
	}
	builder.WriteString("</td></tr>")
	return builder.String()
}

func (r DefaultRenderer) buttons(buttons []*Control) string {
	if len(buttons) == 0 {
		return ""
	}
	parts := make([]string, 0, len(buttons))
	for _, button := range buttons {
		button.MarkRendered()
		parts = append(parts, button.ControlHTML("button"))
	}
	return "<table><tr><th></th><td>" + strings.Join(parts, " ") + "</td></tr></table>"
}

// PendingControls returns controls not rendered yet, excluding buttons and
// hidden controls.
// Grouped controls are only included when grouped is true.
func PendingControls(controls []*Control, grouped bool) []*Control {
	var out []*Control
	for _, control := range controls {
		if control.Rendered() || control.IsButton() || control.IsHidden() {
			continue
		}
		if !grouped && control.Group() != nil {
			continue
		}
		out = append(out, control)
	}
	return out
}

// PendingButtons returns buttons not rendered yet.
func PendingButtons(controls []*Control) []*Control {
	var out []*Control
	for _, control := range controls {
		if control.IsButton() && !control.Rendered() {
			out = append(out, control)
		}
	}
	return out
}

func writeString(w io.Writer, s string) error {
	if s == "" {
		return nil
	}
	_, err := io.WriteString(w, s)
	return err
}
