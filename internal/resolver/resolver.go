package resolver

import (
	"context"

	"github.com/anvil-platform/opwire/internal/registry"
)

// Resolver turns a ProviderSpec into a concrete provider instance.
//
// The registry is passed on every call; implementations hold no reference to it
// and cache nothing between calls.
type Resolver interface {
	Resolve(ctx context.Context, reg registry.Registry, spec ProviderSpec) (any, error)
}

// DetailedResolver is a Resolver that can also report how a provider was found.
type DetailedResolver interface {
	Resolver
	ResolveDetailed(ctx context.Context, reg registry.Registry, spec ProviderSpec) (Resolution, error)
}
