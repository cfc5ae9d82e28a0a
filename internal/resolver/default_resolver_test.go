package resolver

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/anvil-platform/opwire/internal/marker"
	"github.com/anvil-platform/opwire/internal/registry"
)

type builder interface{ ID() string }

type plainBuilder struct{ id string }

func (b *plainBuilder) ID() string { return b.id }

// fastBuilder carries the custom "test.Fast" marker on its type.
type fastBuilder struct{ id string }

func (b *fastBuilder) ID() string { return b.id }

func (b *fastBuilder) Markers() marker.Set { return marker.NewSet(marker.Tag(fastKind)) }

// fastNotBuilder carries the marker but is not a builder.
type fastNotBuilder struct{}

func (fastNotBuilder) Markers() marker.Set { return marker.NewSet(marker.Tag(fastKind)) }

const fastKind marker.Kind = "test.Fast"

var builderType = reflect.TypeOf((*builder)(nil)).Elem()

func factory(name string, returns reflect.Type, markers ...marker.Marker) registry.Option {
	return registry.FromFactory(registry.NewFactoryMethod("example.Config", name, returns, markers...))
}

func idOf(t *testing.T, v any) string {
	t.Helper()
	b, ok := v.(builder)
	if !ok {
		t.Fatalf("expected a builder, got %T", v)
	}
	return b.ID()
}

func TestQualifiedLookup_ResolvesByType(t *testing.T) {
	c := registry.NewContainer()
	c.MustRegister("only", &plainBuilder{id: "only"})

	res, err := NewDefault().ResolveDetailed(context.Background(), c, NewProviderSpec(builderType, "", ""))
	if err != nil {
		t.Fatalf("Resolve error: %v", err)
	}
	if res.Tier != TierType {
		t.Fatalf("expected tier %q, got %q", TierType, res.Tier)
	}
	if res.Name != "only" || idOf(t, res.Instance) != "only" {
		t.Fatalf("unexpected provider %q %v", res.Name, res.Instance)
	}
}

func TestQualifiedLookup_AmbiguityPropagatesWithoutFallback(t *testing.T) {
	c := registry.NewContainer()
	c.MustRegister("a", &plainBuilder{id: "a"})
	c.MustRegister("b", &plainBuilder{id: "b"})
	c.MustRegister("c", &plainBuilder{id: "c"}, registry.NotCandidate(), factory("c", builderType, marker.Qualified("")))

	_, err := NewDefault().Resolve(context.Background(), c, NewProviderSpec(builderType, "", marker.Qualifier))
	if !errors.Is(err, registry.ErrNotUnique) {
		t.Fatalf("expected ErrNotUnique, got %v", err)
	}
	if errors.Is(err, ErrNotFound) {
		t.Fatal("ambiguity must not be reported as not found")
	}
}

func TestQualifiedLookup_CustomMarkerTakesFirstAssignableMatch(t *testing.T) {
	c := registry.NewContainer()
	c.MustRegister("plain", &plainBuilder{id: "plain"})
	c.MustRegister("decoy", fastNotBuilder{})
	c.MustRegister("fast-1", &fastBuilder{id: "fast-1"})
	c.MustRegister("fast-2", &fastBuilder{id: "fast-2"})

	r := NewDefault()
	spec := NewProviderSpec(builderType, "", fastKind)
	for i := 0; i < 5; i++ {
		res, err := r.ResolveDetailed(context.Background(), c, spec)
		if err != nil {
			t.Fatalf("Resolve error: %v", err)
		}
		if res.Tier != TierMarker || res.Name != "fast-1" {
			t.Fatalf("run %d: expected fast-1 via marker tier, got %q via %q", i, res.Name, res.Tier)
		}
	}
}

func TestQualifiedLookup_ResolvesByQualifierValue(t *testing.T) {
	c := registry.NewContainer()
	c.MustRegister("slow", &plainBuilder{id: "slow"}, factory("slow", builderType, marker.Qualified("slow")))
	c.MustRegister("fast", &plainBuilder{id: "fast"}, factory("fast", builderType, marker.Qualified("quick")))

	res, err := NewDefault().ResolveDetailed(context.Background(), c, NewProviderSpec(builderType, "quick", ""))
	if err != nil {
		t.Fatalf("Resolve error: %v", err)
	}
	if res.Tier != TierQualified {
		t.Fatalf("expected tier %q, got %q", TierQualified, res.Tier)
	}
	if res.Name != "fast" || idOf(t, res.Instance) != "fast" {
		t.Fatalf("expected fast, got %q", res.Name)
	}
}

func TestQualifiedLookup_InvalidSpec(t *testing.T) {
	_, err := NewDefault().Resolve(context.Background(), registry.NewContainer(), ProviderSpec{})
	if !errors.Is(err, ErrInvalidSpec) {
		t.Fatalf("expected ErrInvalidSpec, got %v", err)
	}
}

func TestProviderSpec_String(t *testing.T) {
	s := NewProviderSpec(builderType, "fast", "")
	want := "github.com/anvil-platform/opwire/internal/resolver.builder[Qualifier=\"fast\"]"
	if s.String() != want {
		t.Fatalf("expected %q, got %q", want, s.String())
	}
	if !s.DefaultKind() {
		t.Fatal("expected default kind")
	}
	if (ProviderSpec{Type: builderType}).Kind() != marker.Qualifier {
		t.Fatal("expected empty kind to read as the plain qualifier")
	}
}

func TestQualifiedLookup_RecordsTierMetric(t *testing.T) {
	c := registry.NewContainer()
	c.MustRegister("only", &plainBuilder{id: "only"})

	before := testutil.ToFloat64(resolverResolutionsTotal.WithLabelValues(string(TierType)))
	if _, err := NewDefault().Resolve(context.Background(), c, NewProviderSpec(builderType, "", "")); err != nil {
		t.Fatalf("Resolve error: %v", err)
	}
	after := testutil.ToFloat64(resolverResolutionsTotal.WithLabelValues(string(TierType)))
	if after-before != 1 {
		t.Fatalf("expected type tier counter to grow by 1, got %v", after-before)
	}
}
