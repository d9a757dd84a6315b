package forms

import "errors"

var (
	// ErrComponentNotFound is returned when a named component is missing from
	// a form or container.
	ErrComponentNotFound = errors.New("forms: component not found")
	// ErrGroupNotFound is returned when a form has no group with the requested name.
	ErrGroupNotFound = errors.New("forms: group not found")
	// ErrDuplicateComponent is returned when a container already holds a
	// component with the same name.
	ErrDuplicateComponent = errors.New("forms: duplicate component")
	// ErrUnsupportedPart is returned by renderers for parts they cannot render.
	ErrUnsupportedPart = errors.New("forms: unsupported render part")
)
