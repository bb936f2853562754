package resolver

import (
	"log/slog"
	"strings"

	"github.com/golangsnmp/goaper/internal/ast"
	"github.com/golangsnmp/goaper/internal/graph"
	"github.com/golangsnmp/goaper/internal/module"
	"github.com/golangsnmp/goaper/schema"
)

// buildGraph adds one node per definition, modules in name order and
// definitions in insertion order, then the hard dependency edges.
// References that cannot be located add no edge; resolving the
// definition reports them.
func buildGraph(ctx *resolverContext) *graph.Graph {
	n := 0
	for _, mod := range ctx.modules {
		n += len(mod.Definitions)
	}
	g := graph.New(n)

	mods := ctx.sortedModules()
	for _, mod := range mods {
		for _, e := range mod.Definitions {
			g.AddNode(graph.Symbol{Module: mod.Name, Name: e.Name()})
		}
	}
	for _, mod := range mods {
		for _, e := range mod.Definitions {
			from := graph.Symbol{Module: mod.Name, Name: e.Name()}
			for _, to := range hardDependencies(ctx, mod, e.Def) {
				g.AddEdge(from, to)
			}
		}
	}

	if ctx.TraceEnabled() {
		for _, sym := range g.Nodes() {
			if deps := g.Dependencies(sym); len(deps) > 0 {
				ctx.Trace("dependencies",
					slog.String("definition", sym.String()),
					slog.Int("count", len(deps)))
			}
		}
	}
	return g
}

// depCollector gathers the definitions one definition must be resolved
// after.
type depCollector struct {
	ctx  *resolverContext
	mod  *module.Module
	deps []graph.Symbol
}

func hardDependencies(ctx *resolverContext, mod *module.Module, def ast.Definition) []graph.Symbol {
	d := &depCollector{ctx: ctx, mod: mod}
	switch def := def.(type) {
	case *ast.TypeAssignment:
		d.typ(def.Type, true)
	case *ast.ValueAssignment:
		d.typ(def.Type, true)
		if def.Value.IsRef() {
			d.name(nil, def.Value.Ref.Name)
		}
	}
	return d.deps
}

// typ collects the dependencies of t. topLevel is false for a CHOICE
// payload, where a plain type reference is an identity reference.
func (d *depCollector) typ(t ast.Type, topLevel bool) {
	switch t := t.(type) {
	case *ast.Integer:
		d.constraint(t.Constraint)
	case *ast.BitString:
		d.constraint(t.Size)
	case *ast.OctetString:
		d.constraint(t.Size)
	case *ast.Enumerated:
		for _, item := range t.Items {
			if item.Value != nil {
				d.value(*item.Value)
			}
		}
	case *ast.Choice:
		for _, alt := range t.Alternatives {
			d.typ(alt.Type, false)
		}
	case *ast.TypeRef:
		d.constraint(t.Constraint)
		if topLevel || t.Constraint != nil {
			d.name(t.Module, t.Name.Name)
		}
	}
}

func (d *depCollector) constraint(c *ast.Constraint) {
	if c == nil {
		return
	}
	for _, b := range []ast.Bound{c.Lower, c.Upper} {
		if b.Kind == ast.BoundRef {
			d.name(nil, b.Ref.Name)
		}
	}
}

// value records a reference to a value assignment. Named values of an
// INTEGER or BIT STRING refer to siblings in the same list and are not
// collected.
func (d *depCollector) value(v ast.ValueRef) {
	if v.IsRef() {
		d.name(nil, v.Ref.Name)
	}
}

func (d *depCollector) name(moduleName *ast.Ident, name string) {
	var (
		mod *module.Module
		err error
	)
	if moduleName != nil {
		mod, _, err = d.ctx.locateIn(moduleName.Name, name)
	} else {
		mod, _, err = d.ctx.locate(d.mod, name)
	}
	if err != nil {
		return
	}
	d.add(mod, name)
}

func (d *depCollector) add(mod *module.Module, name string) {
	d.deps = append(d.deps, graph.Symbol{Module: mod.Name, Name: name})
}

// cycleErrors reports each cycle as one error naming every member.
func cycleErrors(cycles [][]graph.Symbol) error {
	var errs schema.ErrorList
	for _, cycle := range cycles {
		names := make([]string, len(cycle))
		for i, sym := range cycle {
			names[i] = sym.String()
		}
		errs.Append(&schema.ResolutionError{
			Module:     cycle[0].Module,
			Definition: cycle[0].Name,
			Message:    "circular definition: " + strings.Join(names, ", "),
		})
	}
	return errs.Err()
}
