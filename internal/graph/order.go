package graph

import "slices"

// ResolutionOrder returns symbols ordered so that dependencies come before
// dependents, using Tarjan's algorithm. Strongly connected components with
// more than one node (or a single node with a self-loop) are reported as
// cycles and excluded from the resolution order.
//
// Roots are visited in insertion order and edges in the order they were
// added, so equal graphs always produce equal orders.
func (g *Graph) ResolutionOrder() (order []Symbol, cycles [][]Symbol) {
	t := newTarjan(g)
	for _, sym := range g.order {
		if _, visited := t.indices[sym]; !visited {
			t.strongConnect(sym)
		}
	}
	for _, scc := range t.sccs {
		if len(scc) > 1 || slices.Contains(g.edges[scc[0]], scc[0]) {
			cycles = append(cycles, g.sortByInsertion(scc))
		} else {
			order = append(order, scc[0])
		}
	}
	return order, cycles
}

type tarjan struct {
	g        *Graph
	index    int
	stack    []Symbol
	onStack  map[Symbol]bool
	indices  map[Symbol]int
	lowlinks map[Symbol]int
	sccs     [][]Symbol
}

func newTarjan(g *Graph) *tarjan {
	return &tarjan{
		g:        g,
		onStack:  make(map[Symbol]bool, len(g.order)),
		indices:  make(map[Symbol]int, len(g.order)),
		lowlinks: make(map[Symbol]int, len(g.order)),
	}
}

func (t *tarjan) strongConnect(sym Symbol) {
	t.indices[sym] = t.index
	t.lowlinks[sym] = t.index
	t.index++
	t.stack = append(t.stack, sym)
	t.onStack[sym] = true

	for _, dep := range t.g.edges[sym] {
		if _, visited := t.indices[dep]; !visited {
			t.strongConnect(dep)
			t.lowlinks[sym] = min(t.lowlinks[sym], t.lowlinks[dep])
		} else if t.onStack[dep] {
			t.lowlinks[sym] = min(t.lowlinks[sym], t.indices[dep])
		}
	}

	if t.lowlinks[sym] != t.indices[sym] {
		return
	}
	var scc []Symbol
	for {
		w := t.stack[len(t.stack)-1]
		t.stack = t.stack[:len(t.stack)-1]
		t.onStack[w] = false
		scc = append(scc, w)
		if w == sym {
			break
		}
	}
	t.sccs = append(t.sccs, scc)
}

func (g *Graph) sortByInsertion(syms []Symbol) []Symbol {
	slices.SortFunc(syms, func(a, b Symbol) int {
		return g.nodes[a] - g.nodes[b]
	})
	return syms
}
