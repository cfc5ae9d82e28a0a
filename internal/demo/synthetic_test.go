package demo

import (
	"context"
	"testing"

	"github.com/anvil-platform/opwire/internal/assembly"
	"github.com/anvil-platform/opwire/internal/discovery"
	"github.com/anvil-platform/opwire/internal/schema"
)

func TestNewLoadRegistry_SplitsChannels(t *testing.T) {
	ctx := context.Background()
	reg, err := NewLoadRegistry(ctx, 5)
	if err != nil {
		t.Fatalf("NewLoadRegistry error: %v", err)
	}

	catalog, err := discovery.Scan(ctx, reg)
	if err != nil {
		t.Fatalf("Scan error: %v", err)
	}
	// Bookstore: 4 scanned, 2 factory. Generated: 3 scanned, 2 factory.
	if got := catalog.Count(discovery.OriginScanned); got != 7 {
		t.Fatalf("expected 7 scanned sources, got %d", got)
	}
	if got := catalog.Count(discovery.OriginFactory); got != 4 {
		t.Fatalf("expected 4 factory sources, got %d", got)
	}
	for _, name := range []string{"generated0", "generated1"} {
		entries := catalog.Lookup(name)
		if len(entries) != 1 || len(entries[0].Providers) != 2 {
			t.Fatalf("expected one entry with two providers for %s, got %+v", name, entries)
		}
	}
}

func TestNewLoadRegistry_Assembles(t *testing.T) {
	ctx := context.Background()
	reg, err := NewLoadRegistry(ctx, 4)
	if err != nil {
		t.Fatalf("NewLoadRegistry error: %v", err)
	}

	gen := schema.NewGenerator()
	report, err := (&assembly.Driver{}).Assemble(ctx, reg, gen)
	if err != nil {
		t.Fatalf("Assemble error: %v", err)
	}
	if len(report.Registered) != 9 {
		t.Fatalf("expected 9 registered sources, got %d", len(report.Registered))
	}
	s, err := gen.Generate(ctx)
	if err != nil {
		t.Fatalf("Generate error: %v", err)
	}
	if len(s.Mutations) != 3+4 {
		t.Fatalf("expected 7 mutations, got %d", len(s.Mutations))
	}
}
