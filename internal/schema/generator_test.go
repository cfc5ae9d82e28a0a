package schema

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/anvil-platform/opwire/internal/assembly"
	"github.com/anvil-platform/opwire/internal/builders"
	"github.com/anvil-platform/opwire/internal/marker"
	"github.com/anvil-platform/opwire/internal/registry"
)

const pkg = "github.com/anvil-platform/opwire/internal/schema"

type bookQueries struct{}

func (bookQueries) Markers() marker.Set {
	return marker.NewSet(
		marker.Tag(marker.OperationSource),
		marker.Marker{Kind: marker.Operations, Attributes: marker.Attributes{
			marker.AttrQuery:    []string{"books"},
			marker.AttrMutation: []string{"addBook"},
		}},
	)
}

func (bookQueries) Books() []string { return nil }
func (bookQueries) AddBook(string) error { return nil }

type authorQueries struct{}

func (authorQueries) Authors() []string { return nil }

// Books clashes with bookQueries.Books when exposed publicly.
func (authorQueries) Books() []string { return nil }

func TestGenerator_UsesGlobalBuildersWithoutProviders(t *testing.T) {
	g := NewGenerator()
	g.WithOperationsFromSingleton(bookQueries{})

	s, err := g.Generate(context.Background())
	if err != nil {
		t.Fatalf("Generate error: %v", err)
	}
	want := &Schema{
		Queries:   []Field{{Name: "books", Source: pkg + ".bookQueries", Method: "Books"}},
		Mutations: []Field{{Name: "addBook", Source: pkg + ".bookQueries", Method: "AddBook"}},
	}
	if diff := cmp.Diff(want, s); diff != "" {
		t.Fatalf("schema mismatch (-want +got):\n%s", diff)
	}
}

func TestGenerator_ProvidersOverrideGlobalBuilders(t *testing.T) {
	g := NewGenerator()
	g.WithOperationsFromSingleton(authorQueries{}, &builders.Public{})

	s, err := g.Generate(context.Background())
	if err != nil {
		t.Fatalf("Generate error: %v", err)
	}
	names := []string{}
	for _, f := range s.Queries {
		names = append(names, f.Name)
	}
	if diff := cmp.Diff([]string{"authors", "books"}, names); diff != "" {
		t.Fatalf("queries mismatch (-want +got):\n%s", diff)
	}
}

func TestGenerator_BasePackagesScopeUnscopedBuilders(t *testing.T) {
	outside := NewGenerator()
	outside.WithBasePackages("example.com/elsewhere")
	outside.WithOperationsFromSingleton(authorQueries{}, &builders.Public{})

	s, err := outside.Generate(context.Background())
	if err != nil {
		t.Fatalf("Generate error: %v", err)
	}
	if len(s.Queries) != 0 {
		t.Fatalf("expected no queries outside the base packages, got %+v", s.Queries)
	}

	// A builder with its own base packages keeps them.
	own := NewGenerator()
	own.WithBasePackages("example.com/elsewhere")
	own.WithOperationsFromSingleton(authorQueries{}, &builders.Public{BasePackages: []string{pkg}})

	s, err = own.Generate(context.Background())
	if err != nil {
		t.Fatalf("Generate error: %v", err)
	}
	if len(s.Queries) != 2 {
		t.Fatalf("expected the builder's own base packages to apply, got %+v", s.Queries)
	}

	inside := NewGenerator()
	inside.WithBasePackages(pkg)
	inside.WithOperationsFromSingleton(authorQueries{}, &builders.Public{})

	s, err = inside.Generate(context.Background())
	if err != nil {
		t.Fatalf("Generate error: %v", err)
	}
	if len(s.Queries) != 2 {
		t.Fatalf("expected queries inside the base packages, got %+v", s.Queries)
	}
}

func TestGenerator_SameOperationFromOneSourceIsKeptOnce(t *testing.T) {
	g := NewGenerator()
	g.WithOperationsFromSingleton(bookQueries{}, builders.Annotated{}, &builders.Public{})

	s, err := g.Generate(context.Background())
	if err != nil {
		t.Fatalf("Generate error: %v", err)
	}
	if len(s.Queries) != 1 || len(s.Mutations) != 1 {
		t.Fatalf("expected one query and one mutation, got %+v", s)
	}
}

func TestGenerator_DuplicateOperationAcrossSources(t *testing.T) {
	g := NewGenerator()
	g.WithOperationsFromSingleton(bookQueries{})
	g.WithOperationsFromSingleton(authorQueries{}, &builders.Public{})

	if _, err := g.Generate(context.Background()); !errors.Is(err, ErrDuplicateOperation) {
		t.Fatalf("expected ErrDuplicateOperation, got %v", err)
	}
}

func TestGenerator_RejectsNonBuilderProvider(t *testing.T) {
	g := NewGenerator()
	g.WithOperationsFromSingleton(bookQueries{}, "not a builder")

	if _, err := g.Generate(context.Background()); !errors.Is(err, ErrNotResolverBuilder) {
		t.Fatalf("expected ErrNotResolverBuilder, got %v", err)
	}
}

func TestGenerator_RelayWrapsMutations(t *testing.T) {
	g := NewGenerator()
	g.WithRelayCompliantMutations("", "Mutation input")
	g.WithOperationsFromSingleton(bookQueries{})

	s, err := g.Generate(context.Background())
	if err != nil {
		t.Fatalf("Generate error: %v", err)
	}
	if m := s.Mutations[0]; m.Input != "input" || m.InputDescription != "Mutation input" {
		t.Fatalf("unexpected relay wrapping %+v", m)
	}
	if q := s.Queries[0]; q.Input != "" {
		t.Fatalf("queries must not be wrapped, got %+v", q)
	}
}

func TestGenerator_ExtensionProvidersReceiveDefaults(t *testing.T) {
	g := NewGenerator()

	var seen []any
	g.WithResolverBuilders(func(defaults []any) []any {
		seen = defaults
		return append(defaults, &builders.Bean{})
	})
	g.WithInputConverters(func(defaults []any) []any { return append(defaults, "converter") })
	g.WithTypeInfoGenerator("info")

	if diff := cmp.Diff([]any{builders.Annotated{}}, seen); diff != "" {
		t.Fatalf("defaults mismatch (-want +got):\n%s", diff)
	}
	ext := g.Extensions()
	if len(ext.ResolverBuilders) != 2 || len(ext.InputConverters) != 1 || ext.TypeInfoGenerator != "info" {
		t.Fatalf("unexpected extensions %+v", ext)
	}
}

func TestGenerator_ThroughDriver(t *testing.T) {
	c := registry.NewContainer()
	c.MustRegister("bookQueries", bookQueries{})
	if _, err := builders.RegisterDefaults(context.Background(), c, nil); err != nil {
		t.Fatalf("RegisterDefaults error: %v", err)
	}

	g := NewGenerator()
	d := &assembly.Driver{}
	if _, err := d.Assemble(context.Background(), c, g); err != nil {
		t.Fatalf("Assemble error: %v", err)
	}
	s, err := g.Generate(context.Background())
	if err != nil {
		t.Fatalf("Generate error: %v", err)
	}
	if len(s.Queries) != 1 || s.Queries[0].Name != "books" {
		t.Fatalf("unexpected schema %+v", s)
	}
}
