package discovery

import (
	"fmt"

	"github.com/anvil-platform/opwire/internal/resolver"
)

// Scope is the lifetime classification of a discovered operation source.
type Scope int

const (
	ScopeSingleton Scope = iota + 1
	ScopePrototype
)

func (s Scope) String() string {
	switch s {
	case ScopeSingleton:
		return "singleton"
	case ScopePrototype:
		return "prototype"
	default:
		return "unknown"
	}
}

// MarshalText renders the scope by name.
func (s Scope) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Origin records which discovery channel found a component. It decides where
// the requested providers are read from.
type Origin int

const (
	// OriginScanned components carry the operation source marker on their type.
	// Provider markers are read from the type.
	OriginScanned Origin = iota + 1
	// OriginFactory components are declared by a factory method carrying the
	// operation source marker. Provider markers are read from the method.
	OriginFactory
)

func (o Origin) String() string {
	switch o {
	case OriginScanned:
		return "scanned"
	case OriginFactory:
		return "factory"
	default:
		return "unknown"
	}
}

// MarshalText renders the origin by name.
func (o Origin) MarshalText() ([]byte, error) {
	return []byte(o.String()), nil
}

// Entry is one discovered operation source.
type Entry struct {
	Name   string
	Origin Origin
	// Instance is owned by the registry.
	Instance any
	Scope    Scope
	// Providers are in declaration order; duplicates are kept.
	Providers []resolver.ProviderSpec
}

// Key identifies an entry within a Catalog.
type Key struct {
	Origin Origin
	Name   string
}

func (k Key) String() string {
	return fmt.Sprintf("%s/%s", k.Origin, k.Name)
}

// Catalog is the merged result of both discovery channels: scanned entries
// first, then factory entries, each in registry order. A name found by both
// channels appears twice, once per origin.
type Catalog struct {
	entries []Entry
	index   map[Key]int
}

func newCatalog(channels ...[]Entry) *Catalog {
	c := &Catalog{index: make(map[Key]int)}
	for _, entries := range channels {
		for _, e := range entries {
			k := Key{Origin: e.Origin, Name: e.Name}
			if i, ok := c.index[k]; ok {
				c.entries[i] = e
				continue
			}
			c.index[k] = len(c.entries)
			c.entries = append(c.entries, e)
		}
	}
	return c
}

// Entries returns all entries in catalog order.
func (c *Catalog) Entries() []Entry {
	out := make([]Entry, len(c.entries))
	copy(out, c.entries)
	return out
}

func (c *Catalog) Len() int {
	return len(c.entries)
}

// Get returns the entry found by origin under name.
func (c *Catalog) Get(origin Origin, name string) (Entry, bool) {
	i, ok := c.index[Key{Origin: origin, Name: name}]
	if !ok {
		return Entry{}, false
	}
	return c.entries[i], true
}

// Lookup returns every entry registered under name, whatever its origin.
func (c *Catalog) Lookup(name string) []Entry {
	var out []Entry
	for _, e := range c.entries {
		if e.Name == name {
			out = append(out, e)
		}
	}
	return out
}

// Count returns the number of entries found by origin.
func (c *Catalog) Count(origin Origin) int {
	n := 0
	for _, e := range c.entries {
		if e.Origin == origin {
			n++
		}
	}
	return n
}
