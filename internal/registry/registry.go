// Package registry defines the component registry boundary the discovery and
// resolution engine reads from, plus an ordered in-memory implementation.
//
// The engine never mutates a Registry and never owns the instances it returns.
package registry

import (
	"reflect"

	"github.com/anvil-platform/opwire/internal/marker"
)

// Scope is the lifetime a registry assigns to a component definition.
type Scope string

const (
	ScopeSingleton Scope = "singleton"
	ScopePrototype Scope = "prototype"
)

// FactoryMethod describes the factory method a definition was declared by.
type FactoryMethod struct {
	// DeclaringType is the fully qualified name of the type declaring the method.
	DeclaringType string
	Name          string
	// ReturnTypeName is the fully qualified name of the declared return type.
	ReturnTypeName string
	Markers        marker.Set
}

// Attributes returns the attributes of the method-level marker of kind k,
// or nil when the method does not carry it.
func (m *FactoryMethod) Attributes(k marker.Kind) marker.Attributes {
	if m == nil {
		return nil
	}
	return m.Markers.Attributes(k)
}

// Definition is the registry's metadata for one named component.
type Definition struct {
	Name  string
	Scope Scope
	// Source is set when the definition originates from a factory method.
	Source *FactoryMethod
}

// NamedComponent pairs a registry name with its live instance.
type NamedComponent struct {
	Name     string
	Instance any
}

// Registry is the read-only view of a component container.
//
// Enumeration methods return names in the registry's own order. Callers that
// pick the first match inherit that order.
type Registry interface {
	IsSingleton(name string) (bool, error)
	IsPrototype(name string) (bool, error)

	// Component returns the instance registered under name.
	Component(name string) (any, error)
	// ComponentOfType returns the single instance assignable to t.
	// It fails with ErrNoSuchComponent when there is none and ErrNotUnique
	// when there is more than one.
	ComponentOfType(t reflect.Type) (any, error)

	NamesForType(t reflect.Type) []string
	// NamesForMarker lists components whose type carries a marker of kind k.
	NamesForMarker(k marker.Kind) []string
	// ComponentsWithMarker returns the instances whose type carries a marker of kind k.
	ComponentsWithMarker(k marker.Kind) ([]NamedComponent, error)

	DefinitionNames() []string
	Definition(name string) (*Definition, error)
}
