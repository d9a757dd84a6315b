package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/mattn/go-isatty"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-formmacros"
	"github.com/goliatone/go-formmacros/pkg/forms"
	"github.com/goliatone/go-formmacros/pkg/prompt"
	"github.com/goliatone/go-formmacros/pkg/render"
	"github.com/goliatone/go-formmacros/pkg/render/template/gotemplate"
)

type renderFlags struct {
	forms       string
	openapi     string
	operation   string
	output      string
	values      []string
	hidden      []string
	errors      string
	interactive bool
}

func renderCommand(a *app) *cobra.Command {
	var flags renderFlags

	renderCmd := &cobra.Command{
		Use:   "render TEMPLATE",
		Short: "Renders a template with the form macros installed",
		Long: `Renders a pongo2 template with the form macros installed. Forms come from
JSON/YAML definitions and, optionally, from an OpenAPI operation.

For example:
formmacros render views/signup.tpl --forms forms/ --set signup.email=ada@example.com
formmacros render views/pet.tpl --openapi petstore.yaml --operation createPet
formmacros render views/signup.tpl --forms forms/ --errors errors.yaml`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			if flags.output != "" {
				file, err := os.Create(flags.output)
				if err != nil {
					return fmt.Errorf("create output: %w", err)
				}
				defer file.Close()
				out = file
			}

			if err := a.render(cmd.Context(), out, args[0], flags); err != nil {
				return err
			}
			if flags.output != "" {
				fmt.Fprintln(cmd.ErrOrStderr(), colorOk("Form written to"), flags.output)
			}
			return nil
		},
	}

	renderCmd.Flags().StringVar(&flags.forms, "forms", "", "form definitions file or directory")
	renderCmd.Flags().StringVar(&flags.openapi, "openapi", "", "OpenAPI document to build a form from")
	renderCmd.Flags().StringVar(&flags.operation, "operation", "", "operation ID used with --openapi")
	renderCmd.Flags().StringVarP(&flags.output, "output", "o", "", "output file (stdout if empty)")
	renderCmd.Flags().StringArrayVar(&flags.values, "set", nil, "control value as form.path=value (repeatable)")
	renderCmd.Flags().StringArrayVar(&flags.hidden, "hidden", nil, "hidden input added to every form as name=value, e.g. a CSRF token (repeatable)")
	renderCmd.Flags().StringVar(&flags.errors, "errors", "", "YAML file of validation messages per form and control path")
	renderCmd.Flags().BoolVarP(&flags.interactive, "interactive", "i", false, "prompt for control values on the terminal")
	return renderCmd
}

func (a *app) render(ctx context.Context, out io.Writer, template string, flags renderFlags) error {
	if ctx == nil {
		ctx = context.Background()
	}
	ext, err := a.extension()
	if err != nil {
		return err
	}

	loaded, err := loadForms(flags.forms)
	if err != nil {
		return err
	}
	if flags.openapi != "" {
		if flags.operation == "" {
			return fmt.Errorf("--operation is required with --openapi")
		}
		form, err := formmacros.FormFromOpenAPI(ctx, flags.openapi, flags.operation)
		if err != nil {
			return err
		}
		loaded = append(loaded, form)
	}

	if err := applyValues(loaded, flags.values); err != nil {
		return err
	}
	if err := applyHidden(loaded, flags.hidden); err != nil {
		return err
	}
	if flags.interactive {
		if !isatty.IsTerminal(os.Stdin.Fd()) {
			return fmt.Errorf("--interactive needs a terminal on stdin")
		}
		for _, form := range loaded {
			fmt.Fprintln(os.Stderr, colorHeader(form.ComponentName()))
			values, err := prompt.Fill(ctx, form, prompt.SurveyDriver())
			if err != nil {
				return err
			}
			if err := render.Apply(form, render.RenderOptions{Values: values}); err != nil {
				return err
			}
		}
	}

	validation, err := loadErrors(flags.errors)
	if err != nil {
		return err
	}

	name := filepath.Base(template)
	a.logger.WithFields(log.Fields{
		"template": template,
		"forms":    len(loaded),
	}).Debug("rendering template")

	return formmacros.Render(out, ext, formmacros.Request{
		Templates:     os.DirFS(filepath.Dir(template)),
		Template:      name,
		Extra:         loaded,
		Errors:        validation,
		EngineOptions: []gotemplate.Option{gotemplate.WithExtension(filepath.Ext(name))},
	})
}

// loadForms reads a definitions file, or every definitions file below a
// directory.
func loadForms(path string) ([]*forms.Form, error) {
	if path == "" {
		return nil, nil
	}
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("forms: %w", err)
	}
	if !info.IsDir() {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("forms: %w", err)
		}
		return forms.ParseDefinitions(data, path)
	}

	host, err := forms.LoadFS(os.DirFS(path))
	if err != nil {
		return nil, err
	}
	var loaded []*forms.Form
	for _, component := range host.Components() {
		if form, ok := component.(*forms.Form); ok {
			loaded = append(loaded, form)
		}
	}
	return loaded, nil
}

// loadErrors reads validation messages keyed by form name, then by control
// path or form-level key:
//
//	signup:
//	  email: [Email is taken]
//	  form: [Check the highlighted fields]
func loadErrors(path string) (map[string]map[string][]string, error) {
	if path == "" {
		return nil, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("errors: %w", err)
	}
	var out map[string]map[string][]string
	if err := yaml.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("errors: parse %s: %w", path, err)
	}
	return out, nil
}

// applyValues applies --set assignments of the form "form.path=value".
func applyValues(loaded []*forms.Form, assignments []string) error {
	if len(assignments) == 0 {
		return nil
	}
	byForm := make(map[string]map[string]any)
	for _, assignment := range assignments {
		key, value, ok := strings.Cut(assignment, "=")
		formName, path, nested := strings.Cut(strings.TrimSpace(key), ".")
		if !ok || !nested || formName == "" || path == "" {
			return fmt.Errorf("invalid --set %q: want form.path=value", assignment)
		}
		if byForm[formName] == nil {
			byForm[formName] = make(map[string]any)
		}
		byForm[formName][path] = value
	}

	for _, form := range loaded {
		values, ok := byForm[form.ComponentName()]
		if !ok {
			continue
		}
		if err := render.Apply(form, render.RenderOptions{Values: values}); err != nil {
			return err
		}
		delete(byForm, form.ComponentName())
	}
	for formName := range byForm {
		return fmt.Errorf("%w: form %q", forms.ErrComponentNotFound, formName)
	}
	return nil
}

// applyHidden adds "name=value" hidden inputs to every form.
func applyHidden(loaded []*forms.Form, assignments []string) error {
	var fields []render.HiddenField
	for _, assignment := range assignments {
		name, value, ok := strings.Cut(assignment, "=")
		if !ok || strings.TrimSpace(name) == "" {
			return fmt.Errorf("invalid --hidden %q: want name=value", assignment)
		}
		fields = append(fields, render.Hidden(name, value))
	}
	if len(fields) == 0 {
		return nil
	}
	for _, form := range loaded {
		if err := render.Apply(form, render.RenderOptions{Hidden: fields}); err != nil {
			return err
		}
	}
	return nil
}
