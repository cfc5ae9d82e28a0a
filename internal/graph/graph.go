// Package graph models which providers each registered operation source was
// wired to, for diagnostics output.
package graph

import (
	"fmt"
	"sort"
	"strings"

	"github.com/anvil-platform/opwire/internal/assembly"
)

type SourceKey struct {
	Component string `json:"component"`
	Origin    string `json:"origin"`
}

func (k SourceKey) String() string {
	return k.Origin + "/" + k.Component
}

type SourceNode struct {
	Key SourceKey `json:"key"`
	// Reason is set for sources that were discovered but not registered.
	Reason string `json:"reason,omitempty"`
}

// ProviderNode is a distinct provider instance, identified by its component
// name when the resolver reported one and by its request otherwise.
type ProviderNode struct {
	Type      string `json:"type"`
	Qualifier string `json:"qualifier,omitempty"`
	Kind      string `json:"kind"`
	Component string `json:"component,omitempty"`
	Tier      string `json:"tier,omitempty"`
}

func (p ProviderNode) id() string {
	if p.Component != "" {
		return "component:" + p.Component
	}
	return fmt.Sprintf("request:%s[%s=%q]", p.Type, p.Kind, p.Qualifier)
}

// Label is the provider's display name.
func (p ProviderNode) Label() string {
	if p.Component != "" {
		return p.Component
	}
	return fmt.Sprintf("%s[%s=%q]", p.Type, p.Kind, p.Qualifier)
}

// Edge links a source to the provider it requested at position Index.
type Edge struct {
	Source   SourceKey `json:"source"`
	Provider int       `json:"provider"`
	Index    int       `json:"index"`
}

type WiringGraph struct {
	Sources   []SourceNode   `json:"sources"`
	Providers []ProviderNode `json:"providers,omitempty"`
	Edges     []Edge         `json:"edges,omitempty"`
}

// FromReport builds the graph of an assembly report. Excluded sources become
// nodes without edges.
func FromReport(r *assembly.Report) *WiringGraph {
	g := &WiringGraph{}
	if r == nil {
		return g
	}

	providerIndex := map[string]int{}
	for _, reg := range r.Registered {
		key := SourceKey{Component: reg.Component, Origin: reg.Origin.String()}
		g.Sources = append(g.Sources, SourceNode{Key: key})

		for i, rp := range reg.Providers {
			node := ProviderNode{
				Type:      rp.Type,
				Qualifier: rp.Qualifier,
				Kind:      rp.Kind,
				Component: rp.Component,
				Tier:      string(rp.Tier),
			}
			idx, ok := providerIndex[node.id()]
			if !ok {
				idx = len(g.Providers)
				providerIndex[node.id()] = idx
				g.Providers = append(g.Providers, node)
			}
			g.Edges = append(g.Edges, Edge{Source: key, Provider: idx, Index: i})
		}
	}

	for _, ex := range r.Excluded {
		g.Sources = append(g.Sources, SourceNode{
			Key:    SourceKey{Component: ex.Component, Origin: ex.Origin.String()},
			Reason: ex.Reason,
		})
	}
	return g
}

// ProvidersOf returns the providers wired to source in request order.
func (g *WiringGraph) ProvidersOf(source SourceKey) []ProviderNode {
	var out []ProviderNode
	for _, e := range g.Edges {
		if e.Source == source {
			out = append(out, g.Providers[e.Provider])
		}
	}
	return out
}

// Dependents returns the sources wired to the provider at index provider,
// sorted and without duplicates.
func (g *WiringGraph) Dependents(provider int) []SourceKey {
	seen := map[SourceKey]bool{}
	var out []SourceKey
	for _, e := range g.Edges {
		if e.Provider == provider && !seen[e.Source] {
			seen[e.Source] = true
			out = append(out, e.Source)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].String() < out[j].String() })
	return out
}

// DOT renders the graph in Graphviz format.
func (g *WiringGraph) DOT() string {
	var b strings.Builder
	b.WriteString("digraph wiring {\n")
	for _, s := range g.Sources {
		if s.Reason != "" {
			fmt.Fprintf(&b, "  %q [shape=box, style=dashed, label=%q];\n", "source:"+s.Key.String(), s.Key.String()+" ("+s.Reason+")")
			continue
		}
		fmt.Fprintf(&b, "  %q [shape=box, label=%q];\n", "source:"+s.Key.String(), s.Key.String())
	}
	for _, p := range g.Providers {
		fmt.Fprintf(&b, "  %q [label=%q];\n", p.id(), p.Label())
	}
	for _, e := range g.Edges {
		fmt.Fprintf(&b, "  %q -> %q [label=\"%d\"];\n", "source:"+e.Source.String(), g.Providers[e.Provider].id(), e.Index)
	}
	b.WriteString("}\n")
	return b.String()
}
