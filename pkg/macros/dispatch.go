package macros

import (
	"fmt"
	"io"

	"github.com/goliatone/go-formmacros/pkg/forms"
)

// RenderFormPart is the run-time side of a {% form %} tag:
//
//  1. mode is already a form: begin rendering it;
//  2. the "control" binding holds a form named mode: begin rendering that;
//  3. the "form" binding is a form: render part mode of it in one shot;
//  4. otherwise fail with a ResolutionError.
//
// The resolved form is returned so nested tags can reuse it.
func RenderFormPart(w io.Writer, mode any, args forms.Args, scope Scope) (forms.FormLike, error) {
	if form, ok := mode.(forms.FormLike); ok {
		if err := RenderFormBegin(w, form, args); err != nil {
			return nil, err
		}
		return form, nil
	}

	if form, ok := controlForm(scope, mode); ok {
		if err := RenderFormBegin(w, form, args); err != nil {
			return nil, err
		}
		return form, nil
	}

	if value, ok := ScopeVar(scope, "form"); ok {
		if form, ok := value.(forms.FormLike); ok {
			if err := form.Render(w, mode, args); err != nil {
				return nil, err
			}
			return form, nil
		}
	}

	return nil, &ResolutionError{Tag: TagForm, Mode: mode}
}

// RenderFormBegin opens a form. Renderers that render in parts emit their own
// begin part; any other renderer goes through forms.RenderFormBegin.
func RenderFormBegin(w io.Writer, form forms.FormLike, args forms.Args) error {
	if _, ok := form.Renderer().(forms.PartRenderer); ok {
		return form.Render(w, forms.PartBegin, args)
	}
	return forms.RenderFormBegin(w, form, args)
}

// resolveForm backs the self-closing form tag: the word is either a form or
// the name of one under the "control" binding.
func resolveForm(mode any, scope Scope) (forms.FormLike, error) {
	if form, ok := mode.(forms.FormLike); ok {
		return form, nil
	}
	if form, ok := controlForm(scope, mode); ok {
		return form, nil
	}
	return nil, &ResolutionError{Tag: TagForm, Mode: mode}
}

func controlForm(scope Scope, mode any) (forms.FormLike, bool) {
	name, ok := mode.(string)
	if !ok || name == "" {
		return nil, false
	}
	value, ok := ScopeVar(scope, "control")
	if !ok {
		return nil, false
	}
	lookup, ok := value.(forms.Lookup)
	if !ok {
		return nil, false
	}
	component, found := lookup.Component(name)
	if !found {
		return nil, false
	}
	form, ok := component.(forms.FormLike)
	return form, ok
}

// boundForm returns the form bound by an enclosing form tag.
func boundForm(scope Scope, tag string) (forms.FormLike, error) {
	value, ok := scope.Lookup("__form")
	if !ok {
		return nil, &ResolutionError{Tag: tag}
	}
	form, ok := value.(forms.FormLike)
	if !ok {
		return nil, &ResolutionError{Tag: tag}
	}
	return form, nil
}

func resolveComponent(form forms.FormLike, word any) (forms.Component, error) {
	if component, ok := word.(forms.Component); ok {
		return component, nil
	}
	name := fmt.Sprint(word)
	component, ok := form.Component(name)
	if !ok {
		return nil, fmt.Errorf("%w: %q in form %q", forms.ErrComponentNotFound, name, form.ComponentName())
	}
	return component, nil
}

func resolveGroup(form forms.FormLike, word any) (*forms.Group, error) {
	if group, ok := word.(*forms.Group); ok {
		return group, nil
	}
	name := fmt.Sprint(word)
	group, ok := form.Group(name)
	if !ok {
		return nil, fmt.Errorf("%w: %q in form %q", forms.ErrGroupNotFound, name, form.ComponentName())
	}
	return group, nil
}
