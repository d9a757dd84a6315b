package forms

import (
	"io"
	"strings"
)

// Named render parts.
const (
	PartBegin    = "begin"
	PartErrors   = "errors"
	PartBody     = "body"
	PartControls = "controls"
	PartButtons  = "buttons"
	PartActions  = "actions"
	PartEnd      = "end"
)

// Renderer renders a form or one of its parts. part is nil for the whole
// form, a Part* string, or a *Control, *Group or *Container.
type Renderer interface {
	Render(w io.Writer, form *Form, part any, args Args) error
}

// PartRenderer is implemented by renderers able to render a form in parts,
// including its begin tag. Templates use it to decide whether "begin" goes
// through the renderer or through RenderFormBegin.
type PartRenderer interface {
	Renderer
	RendersPart(part string) bool
}

type renderedResetter interface {
	ResetRendered()
}

// RenderFormBegin writes the opening <form> tag with args applied as
// attributes. It is the framework routine used when the form's renderer
// cannot render parts itself.
func RenderFormBegin(w io.Writer, form FormLike, args Args) error {
	if resetter, ok := form.(renderedResetter); ok {
		resetter.ResetRendered()
	}
	el := args.Apply(form.Element())

	override := ""
	switch method := strings.ToUpper(el.Attr("method")); method {
	case "", "GET", "POST":
	default:
		override = method
		el.Set("method", "post")
	}

	if _, err := io.WriteString(w, el.StartTag()); err != nil {
		return err
	}
	if override == "" {
		return nil
	}
	hidden := NewElement("input").Set("type", "hidden").Set("name", "_method").Set("value", override)
	_, err := io.WriteString(w, hidden.StartTag())
	return err
}

// RenderFormEnd writes the hidden controls no renderer emitted yet followed
// by the closing </form> tag.
func RenderFormEnd(w io.Writer, form FormLike) error {
	var hidden strings.Builder
	for _, control := range form.Controls() {
		if !control.IsHidden() || control.Rendered() {
			continue
		}
		hidden.WriteString(control.ControlHTML(""))
		control.MarkRendered()
	}
	if hidden.Len() > 0 {
		if _, err := io.WriteString(w, "<div>"+hidden.String()+"</div>"); err != nil {
			return err
		}
	}
	_, err := io.WriteString(w, form.Element().EndTag())
	return err
}
