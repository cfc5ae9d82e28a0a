package assembly

// ExtensionProvider receives the assembler's default extensions of one kind
// and returns the list to use instead.
type ExtensionProvider func(defaults []any) []any

// Assembler is the schema-building collaborator that receives operation
// sources and extension hooks. Its internals are not part of this package.
type Assembler interface {
	// WithOperationsFromSingleton registers source together with the provider
	// instances resolved for it, in request order.
	WithOperationsFromSingleton(source any, providers ...any)

	WithResolverBuilders(p ExtensionProvider)
	WithTypeMappers(p ExtensionProvider)
	WithInputConverters(p ExtensionProvider)
	WithOutputConverters(p ExtensionProvider)
	WithArgumentInjectors(p ExtensionProvider)
	WithValueMapperFactory(factory any)
	WithInputFieldDiscoveryStrategy(strategy any)
	WithTypeInfoGenerator(generator any)

	WithBasePackages(pkgs ...string)
	// WithRelayCompliantMutations wraps every mutation argument list in a
	// single input object named wrapper.
	WithRelayCompliantMutations(wrapper, description string)
}

// Hooks are the optional extension points applied to the assembler after the
// operation sources. Unset hooks are skipped.
type Hooks struct {
	// ResolverBuilders replaces the global resolver builders used for sources
	// registered without providers.
	ResolverBuilders  ExtensionProvider
	TypeMappers       ExtensionProvider
	InputConverters   ExtensionProvider
	OutputConverters  ExtensionProvider
	ArgumentInjectors ExtensionProvider

	ValueMapperFactory          any
	InputFieldDiscoveryStrategy any
	TypeInfoGenerator           any
}

// apply hands every set hook to asm once and returns the names of those applied.
func (h Hooks) apply(asm Assembler) []string {
	var applied []string
	lists := []struct {
		name string
		p    ExtensionProvider
		set  func(ExtensionProvider)
	}{
		{"resolverBuilders", h.ResolverBuilders, asm.WithResolverBuilders},
		{"typeMappers", h.TypeMappers, asm.WithTypeMappers},
		{"inputConverters", h.InputConverters, asm.WithInputConverters},
		{"outputConverters", h.OutputConverters, asm.WithOutputConverters},
		{"argumentInjectors", h.ArgumentInjectors, asm.WithArgumentInjectors},
	}
	for _, l := range lists {
		if l.p != nil {
			l.set(l.p)
			applied = append(applied, l.name)
		}
	}

	singles := []struct {
		name string
		v    any
		set  func(any)
	}{
		{"valueMapperFactory", h.ValueMapperFactory, asm.WithValueMapperFactory},
		{"inputFieldDiscoveryStrategy", h.InputFieldDiscoveryStrategy, asm.WithInputFieldDiscoveryStrategy},
		{"typeInfoGenerator", h.TypeInfoGenerator, asm.WithTypeInfoGenerator},
	}
	for _, s := range singles {
		if s.v != nil {
			s.set(s.v)
			applied = append(applied, s.name)
		}
	}
	return applied
}
