// Package macros implements the form macro set for pongo2 templates:
//
//	{% form "signup" %} ... {% endform %}   begin, body, end
//	{% form "signup" / %}                   whole form at once
//	{% form errors %}                       one part: errors, body, controls, buttons
//	{% pair email %}                        one control with label and errors
//	{% group "account" %}                   a fieldset group
//	{% container address %}                 a nested container
//
// Each tag is translated once at compile time into an Emitted call. At render
// time the call locates the active form in the template scope (see
// RenderFormPart and ScopeVar) and renders through the form's renderer, so
// templates work the same with the bootstrap renderer and the framework
// default one.
//
// Install registers the tags in pongo2's process-wide tag table.
package macros
