// Package graph provides the definition dependency graph used to order
// resolution.
package graph

import (
	"slices"
)

// Symbol uniquely identifies a definition in a module.
type Symbol struct {
	Module string
	Name   string
}

func (s Symbol) String() string {
	return s.Module + "." + s.Name
}

// Graph is a dependency graph of symbols with forward edges. Nodes and
// edges keep insertion order so every traversal is deterministic.
type Graph struct {
	order []Symbol
	nodes map[Symbol]int
	edges map[Symbol][]Symbol
}

// New returns an empty graph sized for about n nodes.
func New(n int) *Graph {
	return &Graph{
		order: make([]Symbol, 0, n),
		nodes: make(map[Symbol]int, n),
		edges: make(map[Symbol][]Symbol, n),
	}
}

// AddNode registers a symbol. Duplicate calls are no-ops.
func (g *Graph) AddNode(sym Symbol) {
	if _, ok := g.nodes[sym]; ok {
		return
	}
	g.nodes[sym] = len(g.order)
	g.order = append(g.order, sym)
}

// AddEdge records that "from" depends on "to", meaning "to" must be
// resolved before "from". Missing nodes are created implicitly.
// Duplicate edges are ignored.
func (g *Graph) AddEdge(from, to Symbol) {
	g.AddNode(from)
	g.AddNode(to)

	if slices.Contains(g.edges[from], to) {
		return
	}
	g.edges[from] = append(g.edges[from], to)
}

// Dependencies returns the symbols that sym depends on (forward edges).
func (g *Graph) Dependencies(sym Symbol) []Symbol {
	return g.edges[sym]
}

// HasNode reports whether the symbol exists in the graph.
func (g *Graph) HasNode(sym Symbol) bool {
	_, ok := g.nodes[sym]
	return ok
}

// Nodes returns all symbols in insertion order.
func (g *Graph) Nodes() []Symbol {
	return slices.Clone(g.order)
}

// Len returns the number of nodes.
func (g *Graph) Len() int {
	return len(g.order)
}
