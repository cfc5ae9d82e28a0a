// Package discovery finds the operation sources of a registry and the
// capability providers each one requests.
//
// Two channels run on every scan:
//   - components whose type carries marker.OperationSource (provider markers
//     are read from the type), and
//   - definitions declared by a factory method carrying marker.OperationSource
//     (provider markers are read from the method).
//
// Their results are merged into one Catalog without deduplication.
package discovery

import (
	"context"
	"fmt"
	"reflect"

	"sigs.k8s.io/controller-runtime/pkg/log"

	"github.com/anvil-platform/opwire/internal/marker"
	"github.com/anvil-platform/opwire/internal/registry"
	"github.com/anvil-platform/opwire/internal/resolver"
)

// Scan runs both discovery channels against reg and merges their results.
func Scan(ctx context.Context, reg registry.Registry) (*Catalog, error) {
	scanned, err := ScanComponents(ctx, reg)
	if err != nil {
		return nil, err
	}
	declared, err := ScanFactories(ctx, reg)
	if err != nil {
		return nil, err
	}

	catalog := newCatalog(scanned, declared)
	discoveredComponents.WithLabelValues(OriginScanned.String()).Set(float64(catalog.Count(OriginScanned)))
	discoveredComponents.WithLabelValues(OriginFactory.String()).Set(float64(catalog.Count(OriginFactory)))

	log.FromContext(ctx).Info("discovered operation sources",
		"scanned", catalog.Count(OriginScanned),
		"factory", catalog.Count(OriginFactory),
	)
	return catalog, nil
}

// ScanComponents returns the components whose type carries the operation
// source marker. A type-level WithProvider marker yields one provider spec;
// otherwise a type-level WithProviders marker yields one spec per entry.
func ScanComponents(ctx context.Context, reg registry.Registry) ([]Entry, error) {
	logger := log.FromContext(ctx)

	components, err := reg.ComponentsWithMarker(marker.OperationSource)
	if err != nil {
		return nil, err
	}

	entries := make([]Entry, 0, len(components))
	for _, c := range components {
		scope, err := Classify(reg, c.Name)
		if err != nil {
			return nil, err
		}

		typeMarkers := marker.Of(c.Instance)
		var specs []resolver.ProviderSpec
		if attrs := typeMarkers.Attributes(marker.WithProvider); attrs != nil {
			spec, err := providerSpec(attrs)
			if err != nil {
				return nil, &MarkerError{Component: c.Name, Kind: marker.WithProvider, Reason: err.Error()}
			}
			specs = append(specs, spec)
		} else if attrs := typeMarkers.Attributes(marker.WithProviders); attrs != nil {
			specs, err = providerSpecList(attrs)
			if err != nil {
				return nil, &MarkerError{Component: c.Name, Kind: marker.WithProviders, Reason: err.Error()}
			}
		}

		logger.V(1).Info("found scanned operation source", "component", c.Name, "scope", scope, "providers", len(specs))
		entries = append(entries, Entry{
			Name:      c.Name,
			Origin:    OriginScanned,
			Instance:  c.Instance,
			Scope:     scope,
			Providers: specs,
		})
	}
	return entries, nil
}

// ScanFactories returns the definitions declared by a factory method that
// carries the operation source marker. The method's WithProviders marker is
// read first, then its WithProvider marker.
func ScanFactories(ctx context.Context, reg registry.Registry) ([]Entry, error) {
	logger := log.FromContext(ctx)

	var entries []Entry
	for _, name := range reg.DefinitionNames() {
		def, err := reg.Definition(name)
		if err != nil {
			return nil, err
		}
		if def.Source == nil || def.Source.Attributes(marker.OperationSource) == nil {
			continue
		}

		instance, err := reg.Component(name)
		if err != nil {
			return nil, err
		}
		scope, err := Classify(reg, name)
		if err != nil {
			return nil, err
		}

		var specs []resolver.ProviderSpec
		if attrs := def.Source.Attributes(marker.WithProviders); attrs != nil {
			specs, err = providerSpecList(attrs)
			if err != nil {
				return nil, &MarkerError{Component: name, Kind: marker.WithProviders, Reason: err.Error()}
			}
		} else if attrs := def.Source.Attributes(marker.WithProvider); attrs != nil {
			spec, err := providerSpec(attrs)
			if err != nil {
				return nil, &MarkerError{Component: name, Kind: marker.WithProvider, Reason: err.Error()}
			}
			specs = append(specs, spec)
		}

		logger.V(1).Info("found factory operation source",
			"component", name, "factory", def.Source.DeclaringType+"."+def.Source.Name,
			"scope", scope, "providers", len(specs))
		entries = append(entries, Entry{
			Name:      name,
			Origin:    OriginFactory,
			Instance:  instance,
			Scope:     scope,
			Providers: specs,
		})
	}
	return entries, nil
}

func providerSpec(attrs marker.Attributes) (resolver.ProviderSpec, error) {
	t, ok := attrs[marker.AttrValue].(reflect.Type)
	if !ok || t == nil {
		return resolver.ProviderSpec{}, fmt.Errorf("%q must be a reflect.Type, got %T", marker.AttrValue, attrs[marker.AttrValue])
	}

	qualifier := ""
	if raw, ok := attrs[marker.AttrQualifierValue]; ok && raw != nil {
		s, ok := raw.(string)
		if !ok {
			return resolver.ProviderSpec{}, fmt.Errorf("%q must be a string, got %T", marker.AttrQualifierValue, raw)
		}
		qualifier = s
	}

	var kind marker.Kind
	switch raw := attrs[marker.AttrQualifierType].(type) {
	case nil:
	case marker.Kind:
		kind = raw
	case string:
		kind = marker.Kind(raw)
	default:
		return resolver.ProviderSpec{}, fmt.Errorf("%q must be a marker kind, got %T", marker.AttrQualifierType, raw)
	}

	return resolver.NewProviderSpec(t, qualifier, kind), nil
}

func providerSpecList(attrs marker.Attributes) ([]resolver.ProviderSpec, error) {
	var list []marker.Attributes
	switch raw := attrs[marker.AttrValue].(type) {
	case []marker.Attributes:
		list = raw
	case []map[string]any:
		for _, m := range raw {
			list = append(list, marker.Attributes(m))
		}
	case []any:
		for i, item := range raw {
			switch m := item.(type) {
			case marker.Attributes:
				list = append(list, m)
			case map[string]any:
				list = append(list, marker.Attributes(m))
			default:
				return nil, fmt.Errorf("entry %d must be an attribute map, got %T", i, item)
			}
		}
	default:
		return nil, fmt.Errorf("%q must be a list of attribute maps, got %T", marker.AttrValue, raw)
	}

	specs := make([]resolver.ProviderSpec, 0, len(list))
	for i, entry := range list {
		spec, err := providerSpec(entry)
		if err != nil {
			return nil, fmt.Errorf("entry %d: %w", i, err)
		}
		specs = append(specs, spec)
	}
	return specs, nil
}
