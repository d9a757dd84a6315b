// Package prompt collects control values for a form on the terminal. The
// collected values feed render.RenderOptions.Values.
package prompt

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/goliatone/go-formmacros/pkg/forms"
	"github.com/goliatone/go-formmacros/pkg/render"
)

var errRequired = errors.New("a value is required")

// Fill prompts for every visible control of form and returns the answers
// keyed by dotted control path. Current control values are offered as
// defaults.
func Fill(ctx context.Context, form *forms.Form, driver Driver) (map[string]any, error) {
	if driver == nil {
		return nil, ErrNoDriver
	}
	if form == nil {
		return nil, fmt.Errorf("prompt: form is required")
	}

	values := make(map[string]any)
	for _, control := range form.Controls() {
		if control.IsButton() || control.IsHidden() {
			continue
		}
		value, err := ask(ctx, driver, control)
		if err != nil {
			return nil, fmt.Errorf("prompt: %s: %w", render.ControlPath(control), err)
		}
		values[render.ControlPath(control)] = value
	}
	return values, nil
}

func ask(ctx context.Context, driver Driver, control *forms.Control) (any, error) {
	message := control.Label
	if message == "" {
		message = control.Name
	}
	current := ""
	if control.Value != nil {
		current = fmt.Sprint(control.Value)
	}

	switch control.Type {
	case forms.TypeCheckbox:
		return driver.Confirm(ctx, ConfirmConfig{
			Message: message,
			Default: current != "" && current != "0" && current != "false",
			Help:    control.Description,
		})
	case forms.TypeSelect, forms.TypeRadio:
		options := make([]string, 0, len(control.Options))
		defaultIndex := -1
		for idx, choice := range control.Options {
			options = append(options, choice.Value)
			if control.Value != nil && choice.Value == current {
				defaultIndex = idx
			}
		}
		if len(options) == 0 {
			return nil, fmt.Errorf("no options to choose from")
		}
		idx, err := driver.Select(ctx, SelectConfig{
			Message:      message,
			Options:      options,
			DefaultIndex: defaultIndex,
			Help:         control.Description,
		})
		if err != nil {
			return nil, err
		}
		if idx < 0 || idx >= len(options) {
			return nil, fmt.Errorf("choice %d out of range", idx)
		}
		return options[idx], nil
	case forms.TypeTextArea:
		return driver.TextArea(ctx, TextAreaConfig{
			Message: message,
			Default: current,
			Help:    control.Description,
		})
	case forms.TypePassword:
		return driver.Password(ctx, InputConfig{
			Message:   message,
			Help:      control.Description,
			Validator: requiredValidator(control.Required),
		})
	default:
		return driver.Input(ctx, InputConfig{
			Message:   message,
			Default:   current,
			Help:      control.Description,
			Validator: requiredValidator(control.Required),
		})
	}
}

func requiredValidator(required bool) func(string) error {
	if !required {
		return nil
	}
	return func(value string) error {
		if strings.TrimSpace(value) == "" {
			return errRequired
		}
		return nil
	}
}
