// Package forms holds the form component tree the template macros render:
// forms, nested containers, controls and fieldset groups, together with the
// framework default renderer and the begin/end routines every renderer can
// fall back to.
//
// A Form is built per request. Renderers flag controls as rendered so the end
// routine can emit the hidden controls a template did not place explicitly.
package forms
