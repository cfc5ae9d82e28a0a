package discovery

import (
	"errors"
	"fmt"

	"github.com/anvil-platform/opwire/internal/marker"
	"github.com/anvil-platform/opwire/internal/registry"
)

var (
	// ErrUnsupportedScope indicates a component that is neither singleton nor prototype.
	ErrUnsupportedScope = errors.New("unsupported component scope")
	// ErrMalformedMarker indicates provider marker attributes that cannot be read.
	ErrMalformedMarker = errors.New("malformed provider marker")
)

// UnsupportedScopeError reports a component whose scope is neither singleton
// nor prototype, e.g. a request or session scope.
type UnsupportedScopeError struct {
	Name string
	// Scope is the registry's scope name when the definition exposes one.
	Scope registry.Scope
}

func (e *UnsupportedScopeError) Error() string {
	if e.Scope != "" {
		return fmt.Sprintf("component %q: unsupported scope %q", e.Name, e.Scope)
	}
	return fmt.Sprintf("component %q: unsupported scope", e.Name)
}

func (e *UnsupportedScopeError) Is(target error) bool {
	return target == ErrUnsupportedScope
}

// MarkerError reports unreadable provider marker attributes on a component.
type MarkerError struct {
	Component string
	Kind      marker.Kind
	Reason    string
}

func (e *MarkerError) Error() string {
	return fmt.Sprintf("component %q: %s marker: %s", e.Component, e.Kind.ShortName(), e.Reason)
}

func (e *MarkerError) Is(target error) bool {
	return target == ErrMalformedMarker
}
