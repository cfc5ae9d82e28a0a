package builders

import (
	"context"
	"fmt"
	"reflect"

	"sigs.k8s.io/controller-runtime/pkg/log"

	"github.com/anvil-platform/opwire/internal/registry"
)

// Component names of the default builders.
const (
	AnnotatedName = "annotatedResolverBuilder"
	BeanName      = "beanResolverBuilder"
	PublicName    = "publicResolverBuilder"
)

// DefaultsFactory is the declaring type recorded on the default builder definitions.
const DefaultsFactory = "builders.Defaults"

var (
	AnnotatedType = reflect.TypeOf(&Annotated{})
	BeanType      = reflect.TypeOf(&Bean{})
	PublicType    = reflect.TypeOf(&Public{})
)

// RegisterDefaults adds the Annotated, Bean and Public builders to c, each
// only when no lookup candidate of its type is registered yet. Bean and Public
// are restricted to basePackages. It returns the names it registered.
func RegisterDefaults(ctx context.Context, c *registry.Container, basePackages []string) ([]string, error) {
	logger := log.FromContext(ctx)

	defaults := []struct {
		name     string
		t        reflect.Type
		instance any
	}{
		{AnnotatedName, AnnotatedType, &Annotated{}},
		{BeanName, BeanType, &Bean{BasePackages: basePackages}},
		{PublicName, PublicType, &Public{BasePackages: basePackages}},
	}

	var registered []string
	for _, d := range defaults {
		if existing := c.NamesForType(d.t); len(existing) > 0 {
			logger.V(1).Info("keeping existing resolver builder", "type", registry.TypeName(d.t), "components", existing)
			continue
		}
		err := c.Register(d.name, d.instance, registry.FromFactory(registry.NewFactoryMethod(DefaultsFactory, d.name, d.t)))
		if err != nil {
			return registered, fmt.Errorf("register default %s: %w", d.name, err)
		}
		registered = append(registered, d.name)
	}

	logger.Info("registered default resolver builders", "names", registered)
	return registered, nil
}
