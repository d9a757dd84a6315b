package forms

import (
	"fmt"
	"strings"
)

// PathSeparator joins nested component names in lookups and HTML ids.
const PathSeparator = "-"

// Component is anything that can live in the component tree.
type Component interface {
	ComponentName() string
}

// Lookup resolves named sub-components. Names may address nested components
// with PathSeparator, e.g. "address-street".
type Lookup interface {
	Component(name string) (Component, bool)
}

// Container is an ordered set of named components. A container marked as
// root terminates control paths; forms embed a root container.
type Container struct {
	name       string
	parent     *Container
	root       bool
	components []Component
	index      map[string]Component
}

// NewContainer creates an empty container. Containers used as a component
// host for forms (the template "control" binding) are created the same way.
func NewContainer(name string) *Container {
	return &Container{
		name:  strings.TrimSpace(name),
		index: make(map[string]Component),
	}
}

func (c *Container) ComponentName() string {
	return c.name
}

// Add attaches a component. Controls and nested containers are re-parented;
// forms keep their own root so their control ids stay form-relative.
func (c *Container) Add(component Component) error {
	if component == nil {
		return fmt.Errorf("forms: component is required")
	}
	name := component.ComponentName()
	if name == "" {
		return fmt.Errorf("forms: component name is required")
	}
	if strings.Contains(name, PathSeparator) {
		return fmt.Errorf("forms: component name %q must not contain %q", name, PathSeparator)
	}
	if _, exists := c.index[name]; exists {
		return fmt.Errorf("%w: %q in %q", ErrDuplicateComponent, name, c.name)
	}

	switch v := component.(type) {
	case *Control:
		v.parent = c
	case *Container:
		v.parent = c
	}

	c.index[name] = component
	c.components = append(c.components, component)
	return nil
}

// MustAdd panics when Add fails. Useful when building fixed forms in code.
func (c *Container) MustAdd(components ...Component) *Container {
	for _, component := range components {
		if err := c.Add(component); err != nil {
			panic(err)
		}
	}
	return c
}

// AddContainer creates and attaches a nested container.
func (c *Container) AddContainer(name string) (*Container, error) {
	child := NewContainer(name)
	if err := c.Add(child); err != nil {
		return nil, err
	}
	return child, nil
}

// Component resolves a direct child or a PathSeparator joined path.
func (c *Container) Component(name string) (Component, bool) {
	head, rest, nested := strings.Cut(strings.TrimSpace(name), PathSeparator)
	component, ok := c.index[head]
	if !ok {
		return nil, false
	}
	if !nested {
		return component, true
	}
	lookup, ok := component.(Lookup)
	if !ok {
		return nil, false
	}
	return lookup.Component(rest)
}

// Components returns direct children in insertion order.
func (c *Container) Components() []Component {
	return append([]Component(nil), c.components...)
}

// Controls returns every control below the container, depth first. Nested
// forms are skipped.
func (c *Container) Controls() []*Control {
	var out []*Control
	for _, component := range c.components {
		switch v := component.(type) {
		case *Control:
			out = append(out, v)
		case *Container:
			out = append(out, v.Controls()...)
		}
	}
	return out
}

// path lists the container names between the root and c, excluding the root.
func (c *Container) path() []string {
	if c == nil || c.root {
		return nil
	}
	return append(c.parent.path(), c.name)
}

// rootName returns the name of the enclosing root container, if any.
func (c *Container) rootName() string {
	for current := c; current != nil; current = current.parent {
		if current.root {
			return current.name
		}
	}
	return ""
}
