package assembly

import (
	"errors"
	"fmt"

	"github.com/anvil-platform/opwire/internal/discovery"
	"github.com/anvil-platform/opwire/internal/resolver"
)

var (
	// ErrAssembly is matched by every error returned from Driver.Assemble.
	ErrAssembly = errors.New("schema assembly failed")
)

// Error names the operation source and the provider request that could not
// be resolved.
type Error struct {
	Component string
	Origin    discovery.Origin
	// Index is the position of Spec among the component's provider requests.
	Index int
	Spec  resolver.ProviderSpec
	Err   error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s component %q: provider %d %s: %v", ErrAssembly, e.Origin, e.Component, e.Index, e.Spec, e.Err)
}

func (e *Error) Is(target error) bool {
	return target == ErrAssembly
}

func (e *Error) Unwrap() error {
	return e.Err
}
