package macros

import "reflect"

// Scope is a snapshot of the variables visible to a tag at render time.
type Scope map[string]any

// Lookup returns a bound, non-nil value.
func (s Scope) Lookup(name string) (any, bool) {
	value, ok := s[name]
	if !ok || isNil(value) {
		return nil, false
	}
	return value, true
}

// ScopeVar resolves a logical variable through its aliases: "__name" first,
// then "_name", then "name". The first bound, non-nil value wins.
func ScopeVar(scope Scope, name string) (any, bool) {
	for _, key := range []string{"__" + name, "_" + name, name} {
		if value, ok := scope.Lookup(key); ok {
			return value, true
		}
	}
	return nil, false
}

// Bind stores form under the aliases nested tags read it from.
func Bind(scope Scope, form any) {
	for _, key := range boundNames {
		scope[key] = form
	}
}

var boundNames = []string{"form", "__form", "_form"}

func isNil(value any) bool {
	if value == nil {
		return true
	}
	rv := reflect.ValueOf(value)
	switch rv.Kind() {
	case reflect.Ptr, reflect.Map, reflect.Slice, reflect.Interface, reflect.Func, reflect.Chan:
		return rv.IsNil()
	default:
		return false
	}
}
