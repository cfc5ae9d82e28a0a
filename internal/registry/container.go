package registry

import (
	"fmt"
	"reflect"

	"github.com/anvil-platform/opwire/internal/marker"
)

// Container is an in-memory Registry that enumerates components in
// registration order. It is populated once and read afterwards; it performs no
// locking and no instantiation: prototype definitions hand out the instance
// they were registered with.
type Container struct {
	entries []*containerEntry
	index   map[string]int
}

type containerEntry struct {
	def      Definition
	instance any
	// candidate reports whether the entry takes part in lookups by type.
	candidate bool
}

// Option customises a registration.
type Option func(*containerEntry)

// WithScope sets the scope of the registered definition. Defaults to ScopeSingleton.
func WithScope(s Scope) Option {
	return func(e *containerEntry) { e.def.Scope = s }
}

// FromFactory marks the definition as declared by the factory method m.
func FromFactory(m FactoryMethod) Option {
	return func(e *containerEntry) {
		fm := m
		e.def.Source = &fm
	}
}

// NotCandidate excludes the definition from lookups by type. It stays
// reachable by name and through definition metadata.
func NotCandidate() Option {
	return func(e *containerEntry) { e.candidate = false }
}

// NewFactoryMethod describes a factory method on declaringType returning a value of type returns.
func NewFactoryMethod(declaringType, name string, returns reflect.Type, markers ...marker.Marker) FactoryMethod {
	return FactoryMethod{
		DeclaringType:  declaringType,
		Name:           name,
		ReturnTypeName: TypeName(returns),
		Markers:        marker.NewSet(markers...),
	}
}

// NewContainer returns an empty Container.
func NewContainer() *Container {
	return &Container{index: make(map[string]int)}
}

// Register adds instance under name.
func (c *Container) Register(name string, instance any, opts ...Option) error {
	if name == "" {
		return fmt.Errorf("registry: component name must not be empty")
	}
	if instance == nil {
		return fmt.Errorf("registry: component %q has a nil instance", name)
	}
	if _, exists := c.index[name]; exists {
		return fmt.Errorf("registry: component %q already registered", name)
	}
	e := &containerEntry{
		def:       Definition{Name: name, Scope: ScopeSingleton},
		instance:  instance,
		candidate: true,
	}
	for _, opt := range opts {
		opt(e)
	}
	c.index[name] = len(c.entries)
	c.entries = append(c.entries, e)
	return nil
}

// MustRegister is Register that panics on error.
func (c *Container) MustRegister(name string, instance any, opts ...Option) {
	if err := c.Register(name, instance, opts...); err != nil {
		panic(err)
	}
}

// Contains reports whether a component is registered under name.
func (c *Container) Contains(name string) bool {
	_, ok := c.index[name]
	return ok
}

// Len returns the number of registered components.
func (c *Container) Len() int {
	return len(c.entries)
}

func (c *Container) lookup(name string) (*containerEntry, error) {
	i, ok := c.index[name]
	if !ok {
		return nil, &NoSuchComponentError{Name: name}
	}
	return c.entries[i], nil
}

func (c *Container) IsSingleton(name string) (bool, error) {
	e, err := c.lookup(name)
	if err != nil {
		return false, err
	}
	return e.def.Scope == ScopeSingleton, nil
}

func (c *Container) IsPrototype(name string) (bool, error) {
	e, err := c.lookup(name)
	if err != nil {
		return false, err
	}
	return e.def.Scope == ScopePrototype, nil
}

func (c *Container) Component(name string) (any, error) {
	e, err := c.lookup(name)
	if err != nil {
		return nil, err
	}
	return e.instance, nil
}

func (c *Container) ComponentOfType(t reflect.Type) (any, error) {
	names := c.NamesForType(t)
	switch len(names) {
	case 0:
		return nil, &NoSuchComponentError{Type: t}
	case 1:
		return c.entries[c.index[names[0]]].instance, nil
	default:
		return nil, &NotUniqueError{Type: t, Candidates: names}
	}
}

func (c *Container) NamesForType(t reflect.Type) []string {
	var names []string
	for _, e := range c.entries {
		if e.candidate && IsInstance(e.instance, t) {
			names = append(names, e.def.Name)
		}
	}
	return names
}

func (c *Container) NamesForMarker(k marker.Kind) []string {
	var names []string
	for _, e := range c.entries {
		if marker.Of(e.instance).Has(k) {
			names = append(names, e.def.Name)
		}
	}
	return names
}

func (c *Container) ComponentsWithMarker(k marker.Kind) ([]NamedComponent, error) {
	var out []NamedComponent
	for _, e := range c.entries {
		if marker.Of(e.instance).Has(k) {
			out = append(out, NamedComponent{Name: e.def.Name, Instance: e.instance})
		}
	}
	return out, nil
}

func (c *Container) DefinitionNames() []string {
	names := make([]string, len(c.entries))
	for i, e := range c.entries {
		names[i] = e.def.Name
	}
	return names
}

func (c *Container) Definition(name string) (*Definition, error) {
	e, err := c.lookup(name)
	if err != nil {
		return nil, err
	}
	def := e.def
	return &def, nil
}

var _ Registry = (*Container)(nil)
