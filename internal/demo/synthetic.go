package demo

import (
	"context"
	"fmt"
	"reflect"

	"github.com/anvil-platform/opwire/internal/builders"
	"github.com/anvil-platform/opwire/internal/marker"
	"github.com/anvil-platform/opwire/internal/registry"
)

// generatedSource is an operation source whose type-level markers are set at
// construction time.
type generatedSource struct {
	markers marker.Set
}

func (s *generatedSource) Markers() marker.Set { return s.markers }

// NewLoadRegistry returns the bookstore registry extended with n generated
// operation sources. Even-numbered sources are found by the component scan,
// odd-numbered ones are declared through factory methods; both request the
// annotated builder by type and the catalog builder by qualifier.
func NewLoadRegistry(ctx context.Context, n int) (*registry.Container, error) {
	c, err := NewRegistry(ctx, nil)
	if err != nil {
		return nil, err
	}

	providers := []marker.Attributes{
		marker.ProviderAttributes(builders.AnnotatedType),
		marker.ProviderAttributes(builders.PublicType, marker.QualifierValue("catalogPublic")),
	}
	for i := 0; i < n; i++ {
		name := fmt.Sprintf("generated%d", i)
		ops := marker.Marker{Kind: marker.Operations, Attributes: marker.Attributes{
			marker.AttrQuery:    []string{name + "Items"},
			marker.AttrMutation: []string{name + "Touch"},
		}}

		if i%2 == 0 {
			src := &generatedSource{markers: marker.NewSet(marker.Tag(marker.OperationSource), ops, marker.Providers(providers...))}
			if err := c.Register(name, src); err != nil {
				return nil, err
			}
			continue
		}

		src := &generatedSource{markers: marker.NewSet(ops)}
		method := registry.NewFactoryMethod(ConfigType, name, reflect.TypeOf(src),
			marker.Tag(marker.OperationSource), marker.Providers(providers...))
		if err := c.Register(name, src, registry.FromFactory(method)); err != nil {
			return nil, err
		}
	}
	return c, nil
}
