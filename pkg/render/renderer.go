package render

import "github.com/goliatone/go-formmacros/pkg/forms"

// Renderer is a form renderer selectable by name.
type Renderer interface {
	forms.Renderer
	Name() string
}
