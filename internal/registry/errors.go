package registry

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
)

var (
	// ErrNoSuchComponent indicates that no component matched a lookup.
	ErrNoSuchComponent = errors.New("no such component")
	// ErrNotUnique indicates that a single-result lookup matched several components.
	ErrNotUnique = errors.New("component not unique")
	// ErrTypeMismatch indicates that a named component is not of the required type.
	ErrTypeMismatch = errors.New("component not of required type")
)

// NoSuchComponentError reports a failed lookup by name or by type.
type NoSuchComponentError struct {
	Name    string
	Type    reflect.Type
	Message string
}

func (e *NoSuchComponentError) Error() string {
	var b strings.Builder
	b.WriteString("no such component")
	if e.Name != "" {
		fmt.Fprintf(&b, " %q", e.Name)
	}
	if e.Type != nil {
		fmt.Fprintf(&b, " of type %s", TypeName(e.Type))
	}
	if e.Message != "" {
		b.WriteString(": ")
		b.WriteString(e.Message)
	}
	return b.String()
}

func (e *NoSuchComponentError) Is(target error) bool {
	return target == ErrNoSuchComponent
}

// NotUniqueError reports an ambiguous lookup by type.
type NotUniqueError struct {
	Type       reflect.Type
	Candidates []string
}

func (e *NotUniqueError) Error() string {
	return fmt.Sprintf("expected single component of type %s but found %d: %s",
		TypeName(e.Type), len(e.Candidates), strings.Join(e.Candidates, ", "))
}

func (e *NotUniqueError) Is(target error) bool {
	return target == ErrNotUnique
}

// TypeMismatchError reports a named component that cannot be used as the required type.
type TypeMismatchError struct {
	Name     string
	Required reflect.Type
	Actual   reflect.Type
}

func (e *TypeMismatchError) Error() string {
	actual := "<nil>"
	if e.Actual != nil {
		actual = TypeName(e.Actual)
	}
	return fmt.Sprintf("component %q is of type %s, expected %s", e.Name, actual, TypeName(e.Required))
}

func (e *TypeMismatchError) Is(target error) bool {
	return target == ErrTypeMismatch
}
