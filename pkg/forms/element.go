package forms

import (
	"html"
	"sort"
	"strings"
)

var voidElements = map[string]struct{}{
	"input": {}, "br": {}, "hr": {}, "img": {}, "meta": {}, "link": {},
}

// Element is a minimal HTML element prototype. Attributes are written in
// sorted order so rendered markup is stable.
type Element struct {
	Name  string
	attrs map[string]string
	flags map[string]struct{}
}

// NewElement creates an element prototype named name.
func NewElement(name string) *Element {
	return &Element{
		Name:  name,
		attrs: make(map[string]string),
		flags: make(map[string]struct{}),
	}
}

// Set assigns a valued attribute.
func (e *Element) Set(key, value string) *Element {
	delete(e.flags, key)
	e.attrs[key] = value
	return e
}

// SetFlag assigns a boolean attribute such as required or disabled.
func (e *Element) SetFlag(key string) *Element {
	delete(e.attrs, key)
	e.flags[key] = struct{}{}
	return e
}

// Remove drops an attribute of either kind.
func (e *Element) Remove(key string) *Element {
	delete(e.attrs, key)
	delete(e.flags, key)
	return e
}

// Attr returns the value of a valued attribute.
func (e *Element) Attr(key string) string {
	return e.attrs[key]
}

// HasFlag reports whether a boolean attribute is set.
func (e *Element) HasFlag(key string) bool {
	_, ok := e.flags[key]
	return ok
}

// AddClass appends CSS classes, skipping ones already present.
func (e *Element) AddClass(classes string) *Element {
	existing := strings.Fields(e.attrs["class"])
	seen := make(map[string]struct{}, len(existing))
	for _, cls := range existing {
		seen[cls] = struct{}{}
	}
	for _, cls := range strings.Fields(classes) {
		if _, ok := seen[cls]; ok {
			continue
		}
		seen[cls] = struct{}{}
		existing = append(existing, cls)
	}
	if len(existing) > 0 {
		e.attrs["class"] = strings.Join(existing, " ")
	}
	return e
}

// StartTag renders the opening tag.
func (e *Element) StartTag() string {
	keys := make([]string, 0, len(e.attrs)+len(e.flags))
	for key := range e.attrs {
		keys = append(keys, key)
	}
	for key := range e.flags {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	var builder strings.Builder
	builder.WriteByte('<')
	builder.WriteString(e.Name)
	for _, key := range keys {
		builder.WriteByte(' ')
		builder.WriteString(html.EscapeString(key))
		if _, flag := e.flags[key]; flag {
			continue
		}
		builder.WriteString(`="`)
		builder.WriteString(html.EscapeString(e.attrs[key]))
		builder.WriteByte('"')
	}
	builder.WriteByte('>')
	return builder.String()
}

// EndTag renders the closing tag, or nothing for void elements.
func (e *Element) EndTag() string {
	if _, void := voidElements[e.Name]; void {
		return ""
	}
	return "</" + e.Name + ">"
}

// HTML wraps inner markup, which must already be escaped.
func (e *Element) HTML(inner string) string {
	return e.StartTag() + inner + e.EndTag()
}

// Text wraps plain text, escaping it.
func (e *Element) Text(text string) string {
	return e.HTML(html.EscapeString(text))
}
