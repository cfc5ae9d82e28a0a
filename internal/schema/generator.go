// Package schema contains Generator, an Assembler that derives the list of
// queries and mutations from the registered operation sources.
package schema

import (
	"context"
	"errors"
	"fmt"
	"reflect"

	"sigs.k8s.io/controller-runtime/pkg/log"

	"github.com/anvil-platform/opwire/internal/assembly"
	"github.com/anvil-platform/opwire/internal/builders"
	"github.com/anvil-platform/opwire/internal/registry"
)

var (
	// ErrNotResolverBuilder indicates a provider that cannot derive operations.
	ErrNotResolverBuilder = errors.New("provider is not a resolver builder")
	// ErrDuplicateOperation indicates two sources exposing the same operation name.
	ErrDuplicateOperation = errors.New("duplicate operation")
)

// Field is one generated query or mutation.
type Field struct {
	Name string `json:"name"`
	// Source is the type name of the operation source.
	Source string `json:"source"`
	Method string `json:"method,omitempty"`
	// Input is the relay input argument wrapping a mutation's arguments.
	Input            string `json:"input,omitempty"`
	InputDescription string `json:"inputDescription,omitempty"`
}

type Schema struct {
	Queries   []Field `json:"queries,omitempty"`
	Mutations []Field `json:"mutations,omitempty"`
}

// Extensions is a snapshot of the extension hooks a Generator received.
type Extensions struct {
	ResolverBuilders            []any
	TypeMappers                 []any
	InputConverters             []any
	OutputConverters            []any
	ArgumentInjectors           []any
	ValueMapperFactory          any
	InputFieldDiscoveryStrategy any
	TypeInfoGenerator           any
}

type relaySettings struct {
	wrapper     string
	description string
}

type source struct {
	instance  any
	providers []any
}

// Generator records registrations and builds a Schema from them on Generate.
// Sources registered without providers use the global resolver builders,
// which default to builders.Annotated.
type Generator struct {
	basePackages []string
	relay        *relaySettings
	sources      []source
	ext          Extensions
}

func NewGenerator() *Generator {
	return &Generator{
		ext: Extensions{ResolverBuilders: []any{builders.Annotated{}}},
	}
}

func (g *Generator) WithOperationsFromSingleton(instance any, providers ...any) {
	g.sources = append(g.sources, source{instance: instance, providers: append([]any(nil), providers...)})
}

func (g *Generator) WithResolverBuilders(p assembly.ExtensionProvider) {
	g.ext.ResolverBuilders = extend(g.ext.ResolverBuilders, p)
}

func (g *Generator) WithTypeMappers(p assembly.ExtensionProvider) {
	g.ext.TypeMappers = extend(g.ext.TypeMappers, p)
}

func (g *Generator) WithInputConverters(p assembly.ExtensionProvider) {
	g.ext.InputConverters = extend(g.ext.InputConverters, p)
}

func (g *Generator) WithOutputConverters(p assembly.ExtensionProvider) {
	g.ext.OutputConverters = extend(g.ext.OutputConverters, p)
}

func (g *Generator) WithArgumentInjectors(p assembly.ExtensionProvider) {
	g.ext.ArgumentInjectors = extend(g.ext.ArgumentInjectors, p)
}

func (g *Generator) WithValueMapperFactory(factory any) {
	g.ext.ValueMapperFactory = factory
}

func (g *Generator) WithInputFieldDiscoveryStrategy(strategy any) {
	g.ext.InputFieldDiscoveryStrategy = strategy
}

func (g *Generator) WithTypeInfoGenerator(generator any) {
	g.ext.TypeInfoGenerator = generator
}

// WithBasePackages restricts package-scoped builders that carry no base
// packages of their own to pkgs when Generate runs.
func (g *Generator) WithBasePackages(pkgs ...string) {
	g.basePackages = append(g.basePackages, pkgs...)
}

func (g *Generator) WithRelayCompliantMutations(wrapper, description string) {
	if wrapper == "" {
		wrapper = "input"
	}
	g.relay = &relaySettings{wrapper: wrapper, description: description}
}

// BasePackages returns the base packages received so far.
func (g *Generator) BasePackages() []string {
	return append([]string(nil), g.basePackages...)
}

// Extensions returns the extension hooks received so far.
func (g *Generator) Extensions() Extensions {
	return g.ext
}

// Generate asks the resolver builders of every registered source for its
// operations. The same name from one source is kept once; the same name from
// two different sources fails with ErrDuplicateOperation.
func (g *Generator) Generate(ctx context.Context) (*Schema, error) {
	logger := log.FromContext(ctx).WithName("schema")

	out := &Schema{}
	owners := map[builders.OperationKind]map[string]int{
		builders.KindQuery:    {},
		builders.KindMutation: {},
	}

	for i, src := range g.sources {
		sourceName := registry.TypeName(reflect.TypeOf(src.instance))
		rbs := src.providers
		if len(rbs) == 0 {
			rbs = g.ext.ResolverBuilders
		}

		for _, p := range rbs {
			rb, ok := p.(builders.ResolverBuilder)
			if !ok {
				return nil, fmt.Errorf("%w: %T for source %s", ErrNotResolverBuilder, p, sourceName)
			}
			if scoped, ok := rb.(builders.PackageScoped); ok && len(g.basePackages) > 0 {
				rb = scoped.InPackages(g.basePackages)
			}
			for _, op := range rb.Operations(src.instance) {
				if op.Kind != builders.KindMutation {
					op.Kind = builders.KindQuery
				}
				if owner, seen := owners[op.Kind][op.Name]; seen {
					if owner == i {
						continue
					}
					return nil, fmt.Errorf("%w: %s %q exposed by %s and %s",
						ErrDuplicateOperation, op.Kind, op.Name,
						registry.TypeName(reflect.TypeOf(g.sources[owner].instance)), sourceName)
				}
				owners[op.Kind][op.Name] = i

				f := Field{Name: op.Name, Source: sourceName, Method: op.Method}
				if op.Kind == builders.KindQuery {
					out.Queries = append(out.Queries, f)
					continue
				}
				if g.relay != nil {
					f.Input = g.relay.wrapper
					f.InputDescription = g.relay.description
				}
				out.Mutations = append(out.Mutations, f)
			}
		}
	}

	logger.V(1).Info("generated schema", "queries", len(out.Queries), "mutations", len(out.Mutations))
	return out, nil
}

func extend(defaults []any, p assembly.ExtensionProvider) []any {
	return p(append([]any(nil), defaults...))
}

var _ assembly.Assembler = (*Generator)(nil)
