package forms

import (
	"encoding/json"
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// HostName is the name of the container LoadFS returns. Templates receive it
// as their "control" binding.
const HostName = "presenter"

type definitionFile struct {
	Forms map[string]formDefinition `json:"forms" yaml:"forms"`
}

type formDefinition struct {
	Action   string              `json:"action" yaml:"action"`
	Method   string              `json:"method" yaml:"method"`
	Attrs    map[string]string   `json:"attrs" yaml:"attrs"`
	Errors   []string            `json:"errors" yaml:"errors"`
	Controls []controlDefinition `json:"controls" yaml:"controls"`
	Groups   []groupDefinition   `json:"groups" yaml:"groups"`
}

type controlDefinition struct {
	Name        string              `json:"name" yaml:"name"`
	Type        string              `json:"type" yaml:"type"`
	Label       string              `json:"label" yaml:"label"`
	Value       any                 `json:"value" yaml:"value"`
	Required    bool                `json:"required" yaml:"required"`
	Placeholder string              `json:"placeholder" yaml:"placeholder"`
	Description string              `json:"description" yaml:"description"`
	Options     []Choice            `json:"options" yaml:"options"`
	Attrs       map[string]string   `json:"attrs" yaml:"attrs"`
	Errors      []string            `json:"errors" yaml:"errors"`
	Controls    []controlDefinition `json:"controls" yaml:"controls"`
}

type groupDefinition struct {
	Name        string   `json:"name" yaml:"name"`
	Label       string   `json:"label" yaml:"label"`
	Description string   `json:"description" yaml:"description"`
	Controls    []string `json:"controls" yaml:"controls"`
}

// containerType marks a definition entry that nests further controls.
const containerType = "container"

// LoadFS walks fsys and builds every form defined in JSON/YAML files into a
// host container. A nil fsys yields an empty host.
func LoadFS(fsys fs.FS) (*Container, error) {
	host := NewContainer(HostName)
	if fsys == nil {
		return host, nil
	}

	err := fs.WalkDir(fsys, ".", func(path string, entry fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if entry.IsDir() || !isDefinitionFile(path) {
			return nil
		}

		data, err := fs.ReadFile(fsys, path)
		if err != nil {
			return fmt.Errorf("forms: read %s: %w", path, err)
		}
		defined, err := ParseDefinitions(data, path)
		if err != nil {
			return err
		}
		for _, form := range defined {
			if err := host.Add(form); err != nil {
				return fmt.Errorf("forms: file %s: %w", path, err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return host, nil
}

// ParseDefinitions builds the forms declared in a JSON or YAML document,
// sorted by name. source is only used in error messages.
func ParseDefinitions(data []byte, source string) ([]*Form, error) {
	doc, err := parseDefinitionFile(data, source)
	if err != nil {
		return nil, err
	}

	names := make([]string, 0, len(doc.Forms))
	for name := range doc.Forms {
		names = append(names, name)
	}
	sort.Strings(names)

	out := make([]*Form, 0, len(names))
	for _, name := range names {
		id := strings.TrimSpace(name)
		if id == "" {
			return nil, fmt.Errorf("forms: file %s defines a form with an empty name", source)
		}
		form, err := buildForm(id, doc.Forms[name])
		if err != nil {
			return nil, fmt.Errorf("forms: file %s form %q: %w", source, id, err)
		}
		out = append(out, form)
	}
	return out, nil
}

func parseDefinitionFile(data []byte, source string) (definitionFile, error) {
	var doc definitionFile
	if len(strings.TrimSpace(string(data))) == 0 {
		return definitionFile{}, fmt.Errorf("forms: file %s is empty", source)
	}

	if err := json.Unmarshal(data, &doc); err == nil {
		return doc, nil
	}

	if err := yaml.Unmarshal(data, &doc); err != nil {
		return definitionFile{}, fmt.Errorf("forms: parse %s: invalid JSON or YAML: %w", source, err)
	}
	return doc, nil
}

func buildForm(name string, def formDefinition) (*Form, error) {
	form := New(name, WithAction(def.Action))
	if def.Method != "" {
		WithMethod(def.Method)(form)
	}
	if len(def.Attrs) > 0 {
		form.Attrs = cloneStrings(def.Attrs)
	}
	for _, message := range def.Errors {
		form.AddError(message)
	}

	if err := addControls(form.Container, def.Controls); err != nil {
		return nil, err
	}

	for _, groupDef := range def.Groups {
		if strings.TrimSpace(groupDef.Name) == "" {
			return nil, fmt.Errorf("group name is required")
		}
		group := form.AddGroup(groupDef.Name, groupDef.Label)
		group.Description = groupDef.Description
		for _, path := range groupDef.Controls {
			component, ok := form.Component(path)
			if !ok {
				return nil, fmt.Errorf("group %q: %w: %q", groupDef.Name, ErrComponentNotFound, path)
			}
			control, ok := component.(*Control)
			if !ok {
				return nil, fmt.Errorf("group %q: %q is not a control", groupDef.Name, path)
			}
			group.Add(control)
		}
	}
	return form, nil
}

func addControls(parent *Container, defs []controlDefinition) error {
	for _, def := range defs {
		if strings.EqualFold(def.Type, containerType) {
			child, err := parent.AddContainer(def.Name)
			if err != nil {
				return err
			}
			if err := addControls(child, def.Controls); err != nil {
				return err
			}
			continue
		}

		control := NewControl(def.Name, ControlType(strings.ToLower(def.Type)), def.Label)
		control.Value = def.Value
		control.Required = def.Required
		control.Placeholder = def.Placeholder
		control.Description = def.Description
		control.Options = append([]Choice(nil), def.Options...)
		if len(def.Attrs) > 0 {
			control.Attrs = cloneStrings(def.Attrs)
		}
		for _, message := range def.Errors {
			control.AddError(message)
		}
		if err := parent.Add(control); err != nil {
			return err
		}
	}
	return nil
}

func isDefinitionFile(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json", ".yaml", ".yml":
		return true
	default:
		return false
	}
}

func cloneStrings(in map[string]string) map[string]string {
	out := make(map[string]string, len(in))
	for key, value := range in {
		out[key] = value
	}
	return out
}
