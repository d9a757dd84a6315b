package forms

import (
	"fmt"
	"html"
	"sort"
	"strings"
)

// ControlType selects the markup a control renders.
type ControlType string

const (
	TypeText     ControlType = "text"
	TypeEmail    ControlType = "email"
	TypePassword ControlType = "password"
	TypeNumber   ControlType = "number"
	TypeTextArea ControlType = "textarea"
	TypeSelect   ControlType = "select"
	TypeCheckbox ControlType = "checkbox"
	TypeRadio    ControlType = "radio"
	TypeHidden   ControlType = "hidden"
	TypeSubmit   ControlType = "submit"
	TypeButton   ControlType = "button"
)

// Choice is an option offered by select and radio controls.
type Choice struct {
	Value string `json:"value" yaml:"value"`
	Label string `json:"label" yaml:"label"`
}

// Control is a single form input.
type Control struct {
	Name        string
	Type        ControlType
	Label       string
	Value       any
	Required    bool
	Placeholder string
	// Description is Markdown; see DescriptionHTML.
	Description string
	Options     []Choice
	Attrs       map[string]string

	errors   []string
	parent   *Container
	group    *Group
	rendered bool
}

// NewControl creates a control. An empty type defaults to TypeText.
func NewControl(name string, typ ControlType, label string) *Control {
	if typ == "" {
		typ = TypeText
	}
	return &Control{
		Name:  strings.TrimSpace(name),
		Type:  typ,
		Label: label,
	}
}

func (c *Control) ComponentName() string {
	return c.Name
}

func (c *Control) path() []string {
	return append(c.parent.path(), c.Name)
}

// HTMLName returns the submitted field name, e.g. address[street].
func (c *Control) HTMLName() string {
	segments := c.path()
	if len(segments) == 1 {
		return segments[0]
	}
	return segments[0] + "[" + strings.Join(segments[1:], "][") + "]"
}

// HTMLID returns the element id, e.g. frm-signup-address-street.
func (c *Control) HTMLID() string {
	segments := c.path()
	if root := c.parent.rootName(); root != "" {
		segments = append([]string{root}, segments...)
	}
	return "frm-" + strings.Join(segments, PathSeparator)
}

// IsButton reports whether the control submits or triggers the form.
func (c *Control) IsButton() bool {
	return c.Type == TypeSubmit || c.Type == TypeButton
}

// IsHidden reports whether the control has no visible chrome.
func (c *Control) IsHidden() bool {
	return c.Type == TypeHidden
}

// AddError records a validation message for the control.
func (c *Control) AddError(message string) {
	c.errors = normalizeMessages(append(c.errors, message))
}

// Errors returns the control's validation messages.
func (c *Control) Errors() []string {
	return append([]string(nil), c.errors...)
}

// HasErrors reports whether the control failed validation.
func (c *Control) HasErrors() bool {
	return len(c.errors) > 0
}

// Group returns the group the control was assigned to, if any.
func (c *Control) Group() *Group {
	return c.group
}

// Rendered reports whether a renderer already emitted the control.
func (c *Control) Rendered() bool {
	return c.rendered
}

// MarkRendered flags the control as emitted.
func (c *Control) MarkRendered() {
	c.rendered = true
}

// DescriptionHTML renders the Markdown description as sanitized HTML.
func (c *Control) DescriptionHTML() string {
	return RenderDescription(c.Description)
}

// LabelHTML renders the <label> element. Buttons and hidden controls have no
// label and return an empty string.
func (c *Control) LabelHTML(class string) string {
	if c.IsButton() || c.IsHidden() || c.Label == "" {
		return ""
	}
	el := NewElement("label")
	if c.Type != TypeRadio {
		el.Set("for", c.HTMLID())
	}
	el.AddClass(class)
	if c.Required {
		el.AddClass("required")
	}
	return el.Text(c.Label)
}

// ControlHTML renders the input markup. class is added to the element's
// class list (buttons use it for their style classes).
func (c *Control) ControlHTML(class string) string {
	switch c.Type {
	case TypeTextArea:
		el := c.element("textarea", class)
		return el.Text(c.valueString())
	case TypeSelect:
		return c.selectHTML(class)
	case TypeRadio:
		return c.radioHTML(class)
	case TypeCheckbox:
		el := c.element("input", class).Set("type", "checkbox").Set("value", "1")
		if truthy(c.Value) {
			el.SetFlag("checked")
		}
		return el.StartTag()
	case TypeSubmit, TypeButton:
		el := c.element("input", class).Set("type", string(c.Type)).Set("value", c.Label)
		el.Remove("required")
		return el.StartTag()
	default:
		el := c.element("input", class).Set("type", string(c.Type))
		if c.Type != TypePassword && c.Value != nil {
			el.Set("value", c.valueString())
		}
		if c.Placeholder != "" {
			el.Set("placeholder", c.Placeholder)
		}
		return el.StartTag()
	}
}

func (c *Control) element(name, class string) *Element {
	el := NewElement(name).Set("name", c.HTMLName()).Set("id", c.HTMLID())
	keys := make([]string, 0, len(c.Attrs))
	for key := range c.Attrs {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		if key == "class" {
			el.AddClass(c.Attrs[key])
			continue
		}
		el.Set(key, c.Attrs[key])
	}
	el.AddClass(class)
	if c.Required {
		el.SetFlag("required")
	}
	return el
}

func (c *Control) selectHTML(class string) string {
	var builder strings.Builder
	current := c.valueString()
	for _, option := range c.Options {
		el := NewElement("option").Set("value", option.Value)
		if c.Value != nil && option.Value == current {
			el.SetFlag("selected")
		}
		builder.WriteString(el.Text(optionLabel(option)))
	}
	return c.element("select", class).HTML(builder.String())
}

func (c *Control) radioHTML(class string) string {
	var builder strings.Builder
	current := c.valueString()
	for idx, option := range c.Options {
		id := fmt.Sprintf("%s-%d", c.HTMLID(), idx)
		input := NewElement("input").
			Set("type", "radio").
			Set("name", c.HTMLName()).
			Set("id", id).
			Set("value", option.Value)
		if c.Value != nil && option.Value == current {
			input.SetFlag("checked")
		}
		if c.Required {
			input.SetFlag("required")
		}
		label := NewElement("label").Set("for", id).AddClass(class)
		builder.WriteString(label.HTML(input.StartTag() + " " + html.EscapeString(optionLabel(option))))
	}
	return builder.String()
}

func (c *Control) valueString() string {
	if c.Value == nil {
		return ""
	}
	return fmt.Sprint(c.Value)
}

func optionLabel(option Choice) string {
	if option.Label != "" {
		return option.Label
	}
	return option.Value
}
