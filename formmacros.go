// Package formmacros renders HTML forms from pongo2 templates through the
// {% form %}, {% pair %}, {% group %} and {% container %} tags.
//
// Typical use:
//
//	ext, _ := formmacros.NewExtension(extension.DefaultConfig())
//	engine, _ := ext.Engine(gotemplate.WithBaseDir("./views"))
//	host, _ := forms.LoadFS(os.DirFS("./forms"))
//	_ = ext.PrepareHost(host)
//	html, _ := engine.RenderTemplate("signup", map[string]any{"control": host})
package formmacros

import (
	"context"
	"fmt"
	"io"
	"io/fs"

	"github.com/goliatone/go-formmacros/internal/openapi"
	"github.com/goliatone/go-formmacros/pkg/extension"
	"github.com/goliatone/go-formmacros/pkg/forms"
	"github.com/goliatone/go-formmacros/pkg/render"
	"github.com/goliatone/go-formmacros/pkg/render/template/gotemplate"
	"github.com/goliatone/go-formmacros/pkg/renderers/bootstrap"
)

// HostBinding is the template variable holding the host container of loaded
// forms.
const HostBinding = "control"

// EmbeddedTemplates exposes the built-in bootstrap renderer templates so
// callers can copy or extend them without importing the renderer package.
func EmbeddedTemplates() fs.FS {
	return bootstrap.TemplatesFS()
}

// NewExtension exposes the extension constructor from the top-level module.
func NewExtension(cfg extension.Config, options ...extension.Option) (*extension.Extension, error) {
	return extension.New(cfg, options...)
}

// FormFromOpenAPI builds a form from the request body of operationID in the
// OpenAPI document stored at path.
func FormFromOpenAPI(ctx context.Context, path, operationID string, options ...openapi.Option) (*forms.Form, error) {
	doc, err := openapi.LoadFile(ctx, path)
	if err != nil {
		return nil, err
	}
	return openapi.BuildForm(doc, operationID, options...)
}

// Request describes a one-shot render.
type Request struct {
	// Templates holds the template named Template.
	Templates fs.FS
	Template  string
	// Forms holds form definitions loaded with forms.LoadFS. Optional.
	Forms fs.FS
	// Extra forms are added to the host container next to the loaded ones.
	Extra []*forms.Form
	// Errors holds server-side validation messages per form name, keyed the
	// way render.MapErrorPayload accepts them.
	Errors map[string]map[string][]string
	Data   map[string]any
	// EngineOptions are applied after the template source.
	EngineOptions []gotemplate.Option
}

// Render loads the forms, prepares them with ext and renders the template to
// w. The forms are bound under HostBinding and under their own names.
func Render(w io.Writer, ext *extension.Extension, req Request) error {
	if ext == nil {
		return fmt.Errorf("formmacros: extension is required")
	}

	host := forms.NewContainer(forms.HostName)
	if req.Forms != nil {
		loaded, err := forms.LoadFS(req.Forms)
		if err != nil {
			return err
		}
		host = loaded
	}
	for _, form := range req.Extra {
		if err := host.Add(form); err != nil {
			return fmt.Errorf("formmacros: %w", err)
		}
	}
	if err := applyErrors(host, req.Errors); err != nil {
		return err
	}
	if err := ext.PrepareHost(host); err != nil {
		return err
	}

	engineOptions := append([]gotemplate.Option{gotemplate.WithFS(req.Templates)}, req.EngineOptions...)
	engine, err := ext.Engine(engineOptions...)
	if err != nil {
		return err
	}

	data := make(map[string]any, len(req.Data)+len(host.Components())+1)
	for _, component := range host.Components() {
		data[component.ComponentName()] = component
	}
	for key, value := range req.Data {
		data[key] = value
	}
	data[HostBinding] = host

	_, err = engine.RenderTemplate(req.Template, data, w)
	return err
}

func applyErrors(host *forms.Container, payloads map[string]map[string][]string) error {
	for name, payload := range payloads {
		component, ok := host.Component(name)
		if !ok {
			return fmt.Errorf("formmacros: errors: %w: form %q", forms.ErrComponentNotFound, name)
		}
		form, ok := component.(*forms.Form)
		if !ok {
			return fmt.Errorf("formmacros: errors for %q: %T is not a form", name, component)
		}
		if err := render.Apply(form, render.RenderOptions{Errors: payload}); err != nil {
			return err
		}
	}
	return nil
}
