package macros

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"

	"github.com/goliatone/go-formmacros/pkg/forms"
)

// Tag names handled by the macro set.
const (
	TagForm      = "form"
	TagPair      = "pair"
	TagGroup     = "group"
	TagContainer = "container"
)

// partKeywords make a form tag self-closing when they follow the tag name.
var partKeywords = []string{forms.PartErrors, forms.PartBody, forms.PartControls, forms.PartButtons}

// IsPartKeyword reports whether word turns a form tag into a one-shot part
// render.
func IsPartKeyword(word string) bool {
	for _, keyword := range partKeywords {
		if word == keyword {
			return true
		}
	}
	return false
}

// Invocation is one parsed tag occurrence.
type Invocation struct {
	Name string
	// Word identifies the form, control, group or container. Nil when the
	// tag has no arguments.
	Word Expr
	Args []Arg
	// SelfClosed is set when the arguments ended with "/". The marker is not
	// part of Word or Args.
	SelfClosed bool

	Filename string
	Line     int
	Col      int
}

// Arg is an argument expression; Key is empty for positional arguments.
type Arg struct {
	Key   string
	Value Expr
}

func (a Arg) String() string {
	if a.Key == "" {
		return a.Value.String()
	}
	return a.Key + "=" + a.Value.String()
}

// Expr is an argument expression evaluated against the render scope.
type Expr interface {
	Eval(scope Scope) any
	String() string
}

// Literal is a string, number or boolean constant.
type Literal struct {
	Value any
}

func (l Literal) Eval(Scope) any {
	return l.Value
}

func (l Literal) String() string {
	if s, ok := l.Value.(string); ok {
		return strconv.Quote(s)
	}
	return fmt.Sprint(l.Value)
}

// Name is a bare identifier. As an argument value it evaluates to the bound
// variable, falling back to its own text.
type Name string

func (n Name) Eval(scope Scope) any {
	if value, ok := scope.Lookup(string(n)); ok {
		return value
	}
	return string(n)
}

func (n Name) String() string {
	return string(n)
}

// Path is a variable followed by attribute or index steps: a.b, a["b"].
type Path struct {
	Root  string
	Steps []string
}

func (p Path) Eval(scope Scope) any {
	current, ok := scope.Lookup(p.Root)
	if !ok {
		return nil
	}
	for _, step := range p.Steps {
		current = stepInto(current, step)
		if current == nil {
			return nil
		}
	}
	return current
}

func (p Path) String() string {
	var builder strings.Builder
	builder.WriteString(p.Root)
	for _, step := range p.Steps {
		builder.WriteString("[")
		builder.WriteString(strconv.Quote(step))
		builder.WriteString("]")
	}
	return builder.String()
}

// evalWord resolves the tag word. A bare name refers to a bound component
// when the scope holds one, otherwise it is the literal name.
func evalWord(word Expr, scope Scope) any {
	switch w := word.(type) {
	case nil:
		return nil
	case Name:
		if value, ok := scope.Lookup(string(w)); ok {
			if _, component := value.(forms.Component); component {
				return value
			}
		}
		return string(w)
	default:
		return w.Eval(scope)
	}
}

func evalArgs(args []Arg, scope Scope) forms.Args {
	if len(args) == 0 {
		return nil
	}
	out := make(forms.Args, 0, len(args))
	for _, arg := range args {
		out = append(out, forms.Arg{Key: arg.Key, Value: arg.Value.Eval(scope)})
	}
	return out
}

func formatWord(word Expr) string {
	if word == nil {
		return "nil"
	}
	return word.String()
}

func formatArgs(args []Arg) string {
	parts := make([]string, 0, len(args))
	for _, arg := range args {
		parts = append(parts, arg.String())
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

// stepInto follows one path step through component lookups, maps and
// exported struct fields.
func stepInto(value any, step string) any {
	if lookup, ok := value.(forms.Lookup); ok {
		if component, found := lookup.Component(step); found {
			return component
		}
	}

	switch v := value.(type) {
	case map[string]any:
		return v[step]
	case map[string]string:
		if s, ok := v[step]; ok {
			return s
		}
		return nil
	}

	rv := reflect.ValueOf(value)
	for rv.Kind() == reflect.Ptr || rv.Kind() == reflect.Interface {
		if rv.IsNil() {
			return nil
		}
		rv = rv.Elem()
	}
	switch rv.Kind() {
	case reflect.Map:
		if rv.Type().Key().Kind() != reflect.String {
			return nil
		}
		item := rv.MapIndex(reflect.ValueOf(step).Convert(rv.Type().Key()))
		if !item.IsValid() {
			return nil
		}
		return item.Interface()
	case reflect.Struct:
		field := rv.FieldByName(step)
		if !field.IsValid() || !field.CanInterface() {
			return nil
		}
		return field.Interface()
	case reflect.Slice, reflect.Array:
		idx, err := strconv.Atoi(step)
		if err != nil || idx < 0 || idx >= rv.Len() {
			return nil
		}
		return rv.Index(idx).Interface()
	}
	return nil
}
