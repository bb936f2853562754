package graph

import (
	"slices"
	"testing"
)

func sym(module, name string) Symbol {
	return Symbol{Module: module, Name: name}
}

func TestGraphBasic(t *testing.T) {
	g := New(0)

	cause := sym("NGAP", "Cause")
	radio := sym("NGAP", "CauseRadioNetwork")

	g.AddNode(cause)
	g.AddNode(radio)
	g.AddEdge(cause, radio)

	if !g.HasNode(cause) || !g.HasNode(radio) {
		t.Fatal("graph should have both nodes")
	}
	if deps := g.Dependencies(cause); len(deps) != 1 || deps[0] != radio {
		t.Errorf("Cause dependencies = %v, want [%v]", deps, radio)
	}
	if g.Len() != 2 {
		t.Errorf("Len() = %d, want 2", g.Len())
	}
	if got := cause.String(); got != "NGAP.Cause" {
		t.Errorf("String() = %q, want NGAP.Cause", got)
	}
}

func TestAddEdgeCreatesNodes(t *testing.T) {
	g := New(0)
	a, b := sym("M", "A"), sym("M", "B")

	g.AddEdge(a, b)

	if !g.HasNode(a) {
		t.Error("AddEdge should create 'from' node")
	}
	if !g.HasNode(b) {
		t.Error("AddEdge should create 'to' node")
	}
	if !slices.Equal(g.Nodes(), []Symbol{a, b}) {
		t.Errorf("Nodes() = %v, want [%v %v]", g.Nodes(), a, b)
	}
}

func TestDuplicateEdgesAndNodes(t *testing.T) {
	g := New(0)
	a, b := sym("M", "a"), sym("M", "b")

	g.AddEdge(a, b)
	g.AddEdge(a, b)
	g.AddNode(a)

	if len(g.Dependencies(a)) != 1 {
		t.Errorf("dependencies = %d, want 1 (duplicate edges deduplicated)", len(g.Dependencies(a)))
	}
	if g.Len() != 2 {
		t.Errorf("Len() = %d, want 2", g.Len())
	}
}

func TestResolutionOrderEmpty(t *testing.T) {
	order, cycles := New(0).ResolutionOrder()
	if len(order) != 0 || len(cycles) != 0 {
		t.Errorf("order = %v, cycles = %v, want both empty", order, cycles)
	}
}

func TestResolutionOrderChain(t *testing.T) {
	g := New(0)
	alias, base, bound := sym("M", "Alias"), sym("M", "Base"), sym("M", "maxBound")

	g.AddEdge(alias, base)
	g.AddEdge(base, bound)

	order, cycles := g.ResolutionOrder()
	if len(cycles) != 0 {
		t.Errorf("cycles = %d, want 0", len(cycles))
	}
	want := []Symbol{bound, base, alias}
	if !slices.Equal(order, want) {
		t.Errorf("order = %v, want %v", order, want)
	}
}

func TestResolutionOrderDiamond(t *testing.T) {
	g := New(0)
	a, b, c, d := sym("M", "a"), sym("M", "b"), sym("M", "c"), sym("M", "d")

	g.AddEdge(a, b)
	g.AddEdge(a, c)
	g.AddEdge(b, d)
	g.AddEdge(c, d)

	order, cycles := g.ResolutionOrder()
	if len(cycles) != 0 {
		t.Errorf("cycles = %d, want 0", len(cycles))
	}
	want := []Symbol{d, b, c, a}
	if !slices.Equal(order, want) {
		t.Errorf("order = %v, want %v", order, want)
	}
}

func TestResolutionOrderInsertionOrder(t *testing.T) {
	// Unrelated nodes keep the order they were added in, not name order.
	g := New(0)
	z, a, m := sym("M", "Z"), sym("M", "A"), sym("Other", "M")
	g.AddNode(z)
	g.AddNode(a)
	g.AddNode(m)

	order, _ := g.ResolutionOrder()
	if want := []Symbol{z, a, m}; !slices.Equal(order, want) {
		t.Errorf("order = %v, want %v", order, want)
	}
}

func TestResolutionOrderDeterministic(t *testing.T) {
	build := func() *Graph {
		g := New(0)
		for i, name := range []string{"E", "D", "C", "B", "A"} {
			s := sym("M", name)
			g.AddNode(s)
			if i > 0 {
				g.AddEdge(s, sym("M", "E"))
			}
		}
		return g
	}
	first, _ := build().ResolutionOrder()
	for range 10 {
		again, _ := build().ResolutionOrder()
		if !slices.Equal(first, again) {
			t.Fatalf("order changed between runs: %v vs %v", first, again)
		}
	}
}

func TestResolutionOrderSimpleCycle(t *testing.T) {
	g := New(0)
	a, b := sym("M", "A"), sym("M", "B")

	g.AddEdge(b, a)
	g.AddEdge(a, b)

	order, cycles := g.ResolutionOrder()
	if len(order) != 0 {
		t.Errorf("order = %d, want 0 (all nodes in cycle)", len(order))
	}
	if len(cycles) != 1 {
		t.Fatalf("cycles = %d, want 1", len(cycles))
	}
	// Members are reported in insertion order.
	if want := []Symbol{b, a}; !slices.Equal(cycles[0], want) {
		t.Errorf("cycle = %v, want %v", cycles[0], want)
	}
}

func TestResolutionOrderCycleDependents(t *testing.T) {
	g := New(0)
	a, b, c := sym("M", "a"), sym("M", "b"), sym("M", "c")

	g.AddEdge(a, b)
	g.AddEdge(b, a)
	g.AddEdge(c, a)

	order, cycles := g.ResolutionOrder()
	if len(cycles) != 1 || len(cycles[0]) != 2 {
		t.Fatalf("cycles = %v, want one cycle of 2", cycles)
	}
	// c still appears in the order despite depending on a cycle member.
	if want := []Symbol{c}; !slices.Equal(order, want) {
		t.Errorf("order = %v, want %v", order, want)
	}
}

func TestSelfLoop(t *testing.T) {
	g := New(0)
	a, b := sym("M", "a"), sym("M", "b")

	g.AddEdge(a, a)
	g.AddEdge(b, a)

	order, cycles := g.ResolutionOrder()
	if len(cycles) != 1 || len(cycles[0]) != 1 || cycles[0][0] != a {
		t.Fatalf("cycles = %v, want [[%v]]", cycles, a)
	}
	if want := []Symbol{b}; !slices.Equal(order, want) {
		t.Errorf("order = %v, want %v", order, want)
	}
	if !g.HasCycles() {
		t.Error("HasCycles() = false, want true")
	}
}

func TestResolutionOrderMultipleSCCs(t *testing.T) {
	// Three cycles ({a,b,c}, {d,e}, {f,g}) and one self-loop (h).
	g := New(0)
	n := func(name string) Symbol { return sym("M", name) }
	a, b, c := n("a"), n("b"), n("c")
	d, e := n("d"), n("e")
	f, gg := n("f"), n("g")
	h := n("h")

	g.AddEdge(a, b)
	g.AddEdge(b, c)
	g.AddEdge(c, a)
	g.AddEdge(d, b)
	g.AddEdge(d, c)
	g.AddEdge(d, e)
	g.AddEdge(e, d)
	g.AddEdge(f, c)
	g.AddEdge(f, gg)
	g.AddEdge(gg, f)
	g.AddEdge(h, e)
	g.AddEdge(h, gg)
	g.AddEdge(h, h)

	order, cycles := g.ResolutionOrder()
	if len(cycles) != 4 {
		t.Errorf("cycles = %d, want 4", len(cycles))
		for i, cyc := range cycles {
			t.Logf("  cycle %d: %v", i, cyc)
		}
	}
	if len(order) != 0 {
		t.Errorf("order = %v, want empty (all nodes are in cycles)", order)
	}
	if len(g.FindCycles()) != 4 {
		t.Errorf("FindCycles() = %d, want 4", len(g.FindCycles()))
	}
}

func TestResolutionOrderCrossModule(t *testing.T) {
	g := New(0)
	ax, ay, bx := sym("A", "x"), sym("A", "y"), sym("B", "x")

	g.AddEdge(ay, ax)
	g.AddEdge(bx, ax)

	order, cycles := g.ResolutionOrder()
	if len(cycles) != 0 {
		t.Errorf("cycles = %d, want 0", len(cycles))
	}
	if want := []Symbol{ax, ay, bx}; !slices.Equal(order, want) {
		t.Errorf("order = %v, want %v", order, want)
	}
}

func TestNoCycles(t *testing.T) {
	g := New(0)
	g.AddEdge(sym("M", "a"), sym("M", "b"))
	if g.HasCycles() {
		t.Error("HasCycles() = true, want false")
	}
}

func TestReachable(t *testing.T) {
	g := New(0)
	a, b, c, d := sym("M", "a"), sym("M", "b"), sym("M", "c"), sym("M", "d")
	g.AddEdge(a, b)
	g.AddEdge(b, c)
	g.AddEdge(c, a)
	g.AddNode(d)

	if got, want := g.Reachable(a), []Symbol{b, c, a}; !slices.Equal(got, want) {
		t.Errorf("Reachable(a) = %v, want %v", got, want)
	}
	if got := g.Reachable(d); len(got) != 0 {
		t.Errorf("Reachable(d) = %v, want empty", got)
	}
}
