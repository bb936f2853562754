package graph

import "slices"

// FindCycles returns every cycle in the graph, each as its members in
// insertion order.
func (g *Graph) FindCycles() [][]Symbol {
	_, cycles := g.ResolutionOrder()
	return cycles
}

// HasCycles reports whether the graph contains any cycles.
func (g *Graph) HasCycles() bool {
	return len(g.FindCycles()) > 0
}

// Reachable returns the symbols reachable from sym, excluding sym itself
// unless it lies on a cycle, in depth-first order.
func (g *Graph) Reachable(sym Symbol) []Symbol {
	seen := make(map[Symbol]bool)
	var out []Symbol
	var walk func(Symbol)
	walk = func(s Symbol) {
		for _, dep := range g.edges[s] {
			if seen[dep] {
				continue
			}
			seen[dep] = true
			out = append(out, dep)
			walk(dep)
		}
	}
	walk(sym)
	return slices.Clip(out)
}
