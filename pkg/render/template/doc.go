// Package template defines the template engine seam the bootstrap renderer
// and the CLI render through. The pongo2 implementation lives in gotemplate.
package template
