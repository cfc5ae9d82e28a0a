package registry

import (
	"fmt"
	"reflect"

	"github.com/anvil-platform/opwire/internal/marker"
)

// TypeName returns the fully qualified name of t: "pkg/path.Name" for named
// types, prefixed with "*" for pointers to named types.
func TypeName(t reflect.Type) string {
	if t == nil {
		return "<nil>"
	}
	if t.Kind() == reflect.Pointer && t.Name() == "" {
		return "*" + TypeName(t.Elem())
	}
	if t.PkgPath() != "" && t.Name() != "" {
		return t.PkgPath() + "." + t.Name()
	}
	return t.String()
}

// IsInstance reports whether v can be used as a value of type t.
func IsInstance(v any, t reflect.Type) bool {
	if v == nil || t == nil {
		return false
	}
	return reflect.TypeOf(v).AssignableTo(t)
}

// ComponentAs returns the component registered under name, checked against t.
func ComponentAs(r Registry, name string, t reflect.Type) (any, error) {
	v, err := r.Component(name)
	if err != nil {
		return nil, err
	}
	if !IsInstance(v, t) {
		var actual reflect.Type
		if v != nil {
			actual = reflect.TypeOf(v)
		}
		return nil, &TypeMismatchError{Name: name, Required: t, Actual: actual}
	}
	return v, nil
}

// QualifiedOfType returns the single component of type t qualified by
// qualifier. A candidate matches when its name equals the qualifier or when a
// plain qualifier marker on its factory method or type carries the value.
// When no candidate matches, a component named qualifier is returned if one
// exists.
func QualifiedOfType(r Registry, t reflect.Type, qualifier string) (any, error) {
	name, err := QualifiedNameOfType(r, t, qualifier)
	if err != nil {
		return nil, err
	}
	return ComponentAs(r, name, t)
}

// QualifiedNameOfType is QualifiedOfType returning the matched name instead
// of the instance.
func QualifiedNameOfType(r Registry, t reflect.Type, qualifier string) (string, error) {
	var match string
	for _, name := range r.NamesForType(t) {
		ok, err := qualifierMatches(r, name, qualifier)
		if err != nil {
			return "", err
		}
		if !ok {
			continue
		}
		if match != "" {
			return "", &NotUniqueError{Type: t, Candidates: []string{match, name}}
		}
		match = name
	}
	if match != "" {
		return match, nil
	}
	if _, err := r.Definition(qualifier); err == nil {
		return qualifier, nil
	}
	return "", &NoSuchComponentError{
		Type:    t,
		Message: fmt.Sprintf("no component matches qualifier %q", qualifier),
	}
}

func qualifierMatches(r Registry, name, qualifier string) (bool, error) {
	if name == qualifier {
		return true, nil
	}
	def, err := r.Definition(name)
	if err != nil {
		return false, err
	}
	if attrs := def.Source.Attributes(marker.Qualifier); attrs != nil {
		return attrs.String(marker.AttrValue) == qualifier, nil
	}
	v, err := r.Component(name)
	if err != nil {
		return false, err
	}
	if attrs := marker.Of(v).Attributes(marker.Qualifier); attrs != nil {
		return attrs.String(marker.AttrValue) == qualifier, nil
	}
	return false, nil
}
