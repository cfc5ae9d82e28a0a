package discovery

import (
	"github.com/anvil-platform/opwire/internal/registry"
)

// Classify returns the scope of the component registered under name.
// Anything other than singleton or prototype is an *UnsupportedScopeError.
func Classify(reg registry.Registry, name string) (Scope, error) {
	singleton, err := reg.IsSingleton(name)
	if err != nil {
		return 0, err
	}
	if singleton {
		return ScopeSingleton, nil
	}

	prototype, err := reg.IsPrototype(name)
	if err != nil {
		return 0, err
	}
	if prototype {
		return ScopePrototype, nil
	}

	scopeErr := &UnsupportedScopeError{Name: name}
	if def, err := reg.Definition(name); err == nil {
		scopeErr.Scope = def.Scope
	}
	return 0, scopeErr
}
