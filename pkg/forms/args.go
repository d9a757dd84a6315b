package forms

import (
	"fmt"
	"strings"
)

// Arg is a single argument forwarded from a template tag to a renderer.
// Positional arguments carry an empty Key.
type Arg struct {
	Key   string
	Value any
}

// Args keeps tag arguments in source order.
type Args []Arg

// Get returns the value of the last named argument matching key.
func (a Args) Get(key string) (any, bool) {
	for i := len(a) - 1; i >= 0; i-- {
		if a[i].Key == key {
			return a[i].Value, true
		}
	}
	return nil, false
}

// Bool reports whether key was passed with a truthy value.
func (a Args) Bool(key string) bool {
	value, ok := a.Get(key)
	if !ok {
		return false
	}
	return truthy(value)
}

// Positional returns the values passed without a key.
func (a Args) Positional() []any {
	var out []any
	for _, arg := range a {
		if arg.Key == "" {
			out = append(out, arg.Value)
		}
	}
	return out
}

// Apply copies named arguments onto el as HTML attributes. Boolean values
// toggle flag attributes, nil values remove the attribute and "class" is
// appended to the existing class list.
func (a Args) Apply(el *Element) *Element {
	for _, arg := range a {
		key := strings.TrimSpace(arg.Key)
		if key == "" {
			continue
		}
		switch value := arg.Value.(type) {
		case nil:
			el.Remove(key)
		case bool:
			if value {
				el.SetFlag(key)
			} else {
				el.Remove(key)
			}
		default:
			if key == "class" {
				el.AddClass(fmt.Sprint(value))
				continue
			}
			el.Set(key, fmt.Sprint(value))
		}
	}
	return el
}

func truthy(value any) bool {
	switch v := value.(type) {
	case nil:
		return false
	case bool:
		return v
	case string:
		return v != "" && v != "0" && v != "false"
	case int:
		return v != 0
	case int64:
		return v != 0
	case float64:
		return v != 0
	default:
		return true
	}
}
