package resolver

import (
	"context"
	"errors"
	"fmt"
	"reflect"

	"sigs.k8s.io/controller-runtime/pkg/log"

	"github.com/anvil-platform/opwire/internal/marker"
	"github.com/anvil-platform/opwire/internal/registry"
)

// QualifiedLookup is the default Resolver.
//
// It asks the registry directly first (by type, by custom qualifier marker, or
// by type and qualifier value). Only when that lookup reports
// registry.ErrNoSuchComponent does it fall back to walking factory-method
// metadata, matching the declared return type name and the qualifier marker.
// Ambiguity and every other lookup error are returned as is.
type QualifiedLookup struct {
	strictFallback bool
}

// Option configures a QualifiedLookup.
type Option func(*QualifiedLookup)

// WithStrictFallback makes the metadata fallback skip factory methods whose
// plain qualifier value differs from the requested one. By default the first
// factory method with a matching return type and a plain qualifier marker is
// returned whatever its value.
func WithStrictFallback(strict bool) Option {
	return func(r *QualifiedLookup) { r.strictFallback = strict }
}

func NewDefault(opts ...Option) *QualifiedLookup {
	r := &QualifiedLookup{}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *QualifiedLookup) Resolve(ctx context.Context, reg registry.Registry, spec ProviderSpec) (any, error) {
	res, err := r.ResolveDetailed(ctx, reg, spec)
	if err != nil {
		return nil, err
	}
	return res.Instance, nil
}

// ResolveDetailed is Resolve that also reports which tier found the provider.
func (r *QualifiedLookup) ResolveDetailed(ctx context.Context, reg registry.Registry, spec ProviderSpec) (Resolution, error) {
	logger := log.FromContext(ctx).WithValues("provider", spec.String())

	if spec.Type == nil {
		resolverFailuresTotal.WithLabelValues("invalid").Inc()
		return Resolution{}, fmt.Errorf("%w: provider type must be set", ErrInvalidSpec)
	}

	res, err := r.direct(reg, spec)
	if err == nil {
		resolverResolutionsTotal.WithLabelValues(string(res.Tier)).Inc()
		logger.V(1).Info("resolved provider", "tier", res.Tier, "component", res.Name)
		return res, nil
	}
	if !errors.Is(err, registry.ErrNoSuchComponent) {
		resolverFailuresTotal.WithLabelValues("lookup_error").Inc()
		return Resolution{}, err
	}

	logger.V(1).Info("direct lookup found nothing, scanning factory metadata", "cause", err.Error())
	res, err = r.metadata(ctx, reg, spec, err)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			resolverFailuresTotal.WithLabelValues("not_found").Inc()
		} else {
			resolverFailuresTotal.WithLabelValues("lookup_error").Inc()
		}
		return Resolution{}, err
	}
	resolverResolutionsTotal.WithLabelValues(string(res.Tier)).Inc()
	logger.V(1).Info("resolved provider", "tier", res.Tier, "component", res.Name)
	return res, nil
}

func (r *QualifiedLookup) direct(reg registry.Registry, spec ProviderSpec) (Resolution, error) {
	switch {
	case spec.Qualifier == "" && spec.DefaultKind():
		v, err := reg.ComponentOfType(spec.Type)
		if err != nil {
			return Resolution{}, err
		}
		return Resolution{Name: soleName(reg, spec.Type), Instance: v, Tier: TierType}, nil

	case spec.Qualifier == "":
		// First match in registry enumeration order.
		for _, name := range reg.NamesForMarker(spec.Kind()) {
			v, err := reg.Component(name)
			if err != nil {
				return Resolution{}, err
			}
			if !registry.IsInstance(v, spec.Type) {
				continue
			}
			v, err = registry.ComponentAs(reg, name, spec.Type)
			if err != nil {
				return Resolution{}, err
			}
			return Resolution{Name: name, Instance: v, Tier: TierMarker}, nil
		}
		return Resolution{}, &registry.NoSuchComponentError{
			Type:    spec.Type,
			Message: fmt.Sprintf("no component carries marker %s", spec.Kind()),
		}

	default:
		name, err := registry.QualifiedNameOfType(reg, spec.Type, spec.Qualifier)
		if err != nil {
			return Resolution{}, err
		}
		v, err := registry.ComponentAs(reg, name, spec.Type)
		if err != nil {
			return Resolution{}, err
		}
		return Resolution{Name: name, Instance: v, Tier: TierQualified}, nil
	}
}

// soleName returns the only candidate name for t. A successful
// ComponentOfType implies exactly one.
func soleName(reg registry.Registry, t reflect.Type) string {
	if names := reg.NamesForType(t); len(names) == 1 {
		return names[0]
	}
	return ""
}

func (r *QualifiedLookup) metadata(ctx context.Context, reg registry.Registry, spec ProviderSpec, cause error) (Resolution, error) {
	want := registry.TypeName(spec.Type)

	for _, name := range reg.DefinitionNames() {
		def, err := reg.Definition(name)
		if err != nil {
			return Resolution{}, err
		}
		if def.Source == nil || def.Source.ReturnTypeName != want {
			continue
		}
		attrs := def.Source.Attributes(spec.Kind())
		if attrs == nil {
			continue
		}
		if spec.DefaultKind() {
			if value := attrs.String(marker.AttrValue); value != spec.Qualifier {
				if r.strictFallback {
					continue
				}
				// The first plain-qualified factory method of the right type
				// wins even when its value differs.
				resolverFallbackMismatchTotal.Inc()
				log.FromContext(ctx).V(1).Info("factory qualifier value differs from the requested one",
					"component", name, "requested", spec.Qualifier, "declared", value)
			}
		}
		v, err := registry.ComponentAs(reg, name, spec.Type)
		if err != nil {
			return Resolution{}, err
		}
		return Resolution{Name: name, Instance: v, Tier: TierMetadata}, nil
	}

	return Resolution{}, &NotFoundError{
		Type:      spec.Type,
		Qualifier: spec.Qualifier,
		Kind:      spec.Kind(),
		Cause:     cause,
	}
}

var _ DetailedResolver = (*QualifiedLookup)(nil)
