// Package openapi builds forms from the request bodies of OpenAPI operations
// using kin-openapi.
package openapi

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/goliatone/go-formmacros/pkg/forms"
)

// WidgetExtension overrides the control type picked for a property, e.g.
// "x-formmacros-widget: textarea".
const WidgetExtension = "x-formmacros-widget"

var ErrOperationNotFound = errors.New("openapi: operation not found")

// Operation identifies an operation of a loaded document.
type Operation struct {
	ID      string
	Method  string
	Path    string
	Summary string
}

// Load parses an OpenAPI document from data.
func Load(ctx context.Context, data []byte) (*openapi3.T, error) {
	loader := &openapi3.Loader{Context: ctx}
	doc, err := loader.LoadFromData(data)
	if err != nil {
		return nil, fmt.Errorf("openapi: load document: %w", err)
	}
	return doc, nil
}

// LoadFile parses the OpenAPI document stored at path.
func LoadFile(ctx context.Context, path string) (*openapi3.T, error) {
	loader := &openapi3.Loader{Context: ctx}
	doc, err := loader.LoadFromFile(path)
	if err != nil {
		return nil, fmt.Errorf("openapi: load %q: %w", path, err)
	}
	return doc, nil
}

// Operations lists the operations of doc sorted by ID. Operations without an
// operationId are keyed "<method>:<path>".
func Operations(doc *openapi3.T) []Operation {
	if doc == nil || doc.Paths == nil {
		return nil
	}
	var out []Operation
	for path, item := range doc.Paths.Map() {
		if item == nil {
			continue
		}
		for method, operation := range item.Operations() {
			out = append(out, Operation{
				ID:      operationID(method, path, operation),
				Method:  method,
				Path:    path,
				Summary: operation.Summary,
			})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

type Option func(*builder)

// WithRenderer sets the renderer of built forms.
func WithRenderer(renderer forms.Renderer) Option {
	return func(b *builder) {
		b.renderer = renderer
	}
}

// WithSubmitLabel sets the label of the generated submit button. An empty
// label omits the button.
func WithSubmitLabel(label string) Option {
	return func(b *builder) {
		b.submit = label
	}
}

// WithLabeler replaces DefaultLabeler for properties without a title.
func WithLabeler(labeler func(string) string) Option {
	return func(b *builder) {
		if labeler != nil {
			b.labeler = labeler
		}
	}
}

type builder struct {
	renderer forms.Renderer
	submit   string
	labeler  func(string) string
}

// BuildForm converts the request body of the operation operationID into a
// form posting to the operation path. Object properties become nested
// containers; read-only properties are skipped.
func BuildForm(doc *openapi3.T, operationID string, options ...Option) (*forms.Form, error) {
	b := builder{submit: "Submit", labeler: DefaultLabeler}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(&b)
	}

	method, path, operation, err := findOperation(doc, operationID)
	if err != nil {
		return nil, err
	}

	formOptions := []forms.Option{forms.WithAction(path), forms.WithMethod(method)}
	if b.renderer != nil {
		formOptions = append(formOptions, forms.WithRenderer(b.renderer))
	}
	form := forms.New(componentName(operationID), formOptions...)

	if schema := requestSchema(operation.RequestBody); schema != nil {
		if err := b.addProperties(form.Container, schema); err != nil {
			return nil, fmt.Errorf("openapi: operation %q: %w", operationID, err)
		}
	}
	if b.submit != "" {
		if err := form.Add(forms.NewControl("submit", forms.TypeSubmit, b.submit)); err != nil {
			return nil, fmt.Errorf("openapi: operation %q: %w", operationID, err)
		}
	}
	return form, nil
}

func findOperation(doc *openapi3.T, id string) (string, string, *openapi3.Operation, error) {
	if doc == nil || doc.Paths == nil {
		return "", "", nil, fmt.Errorf("%w: %q", ErrOperationNotFound, id)
	}
	for path, item := range doc.Paths.Map() {
		if item == nil {
			continue
		}
		for method, operation := range item.Operations() {
			if operationID(method, path, operation) == id {
				return method, path, operation, nil
			}
		}
	}
	return "", "", nil, fmt.Errorf("%w: %q", ErrOperationNotFound, id)
}

func operationID(method, path string, operation *openapi3.Operation) string {
	if operation != nil && operation.OperationID != "" {
		return operation.OperationID
	}
	return strings.ToLower(method) + ":" + path
}

// requestSchema prefers form encodings, then JSON, then any media type.
func requestSchema(body *openapi3.RequestBodyRef) *openapi3.Schema {
	if body == nil || body.Value == nil {
		return nil
	}
	content := body.Value.Content
	for _, mediaType := range []string{"application/x-www-form-urlencoded", "multipart/form-data", "application/json"} {
		if mt, ok := content[mediaType]; ok && mt.Schema != nil {
			return mt.Schema.Value
		}
	}
	keys := make([]string, 0, len(content))
	for key := range content {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		if mt := content[key]; mt != nil && mt.Schema != nil {
			return mt.Schema.Value
		}
	}
	return nil
}

func (b builder) addProperties(parent *forms.Container, schema *openapi3.Schema) error {
	required := make(map[string]bool, len(schema.Required))
	for _, name := range schema.Required {
		required[name] = true
	}

	names := make([]string, 0, len(schema.Properties))
	for name := range schema.Properties {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		ref := schema.Properties[name]
		if ref == nil || ref.Value == nil || ref.Value.ReadOnly {
			continue
		}
		property := ref.Value

		if schemaType(property) == openapi3.TypeObject && len(property.Properties) > 0 {
			child, err := parent.AddContainer(componentName(name))
			if err != nil {
				return err
			}
			if err := b.addProperties(child, property); err != nil {
				return err
			}
			continue
		}

		label := property.Title
		if label == "" {
			label = b.labeler(name)
		}
		control := forms.NewControl(componentName(name), controlType(property), label)
		control.Required = required[name]
		control.Description = property.Description
		control.Value = property.Default
		for _, value := range property.Enum {
			option := fmt.Sprint(value)
			control.Options = append(control.Options, forms.Choice{Value: option})
		}
		if property.MaxLength != nil && control.Type != forms.TypeTextArea {
			control.Attrs = map[string]string{"maxlength": fmt.Sprint(*property.MaxLength)}
		}
		if err := parent.Add(control); err != nil {
			return err
		}
	}
	return nil
}

func controlType(schema *openapi3.Schema) forms.ControlType {
	if widget, ok := schema.Extensions[WidgetExtension].(string); ok && widget != "" {
		return forms.ControlType(strings.ToLower(widget))
	}
	if len(schema.Enum) > 0 {
		return forms.TypeSelect
	}
	switch schemaType(schema) {
	case openapi3.TypeBoolean:
		return forms.TypeCheckbox
	case openapi3.TypeInteger, openapi3.TypeNumber:
		return forms.TypeNumber
	}
	switch schema.Format {
	case "email":
		return forms.TypeEmail
	case "password":
		return forms.TypePassword
	}
	return forms.TypeText
}

func schemaType(schema *openapi3.Schema) string {
	if schema.Type == nil {
		return ""
	}
	values := schema.Type.Slice()
	if len(values) == 0 {
		return ""
	}
	return values[0]
}

// componentName maps OpenAPI identifiers onto component names, which may not
// contain the path separator.
func componentName(name string) string {
	return strings.ReplaceAll(strings.TrimSpace(name), forms.PathSeparator, "_")
}
