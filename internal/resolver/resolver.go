// Package resolver turns registered ASN.1 modules into resolved schema
// types.
//
// Resolution runs in two phases:
//
//  1. Imports: every imported name must come from a registered module.
//     Whether the definition exists in that module is checked later.
//  2. Definitions: a dependency graph over all definitions is ordered
//     topologically and each definition is resolved against the table of
//     definitions resolved before it.
//
// Only hard dependencies become graph edges: the target of a type alias
// and every value named in a constraint or a value assignment. A CHOICE
// alternative that names another type refers to it by identity and adds
// no edge, so recursive CHOICE graphs resolve.
//
// # Usage
//
//	if err := resolver.CheckImports(mods, logger); err != nil { ... }
//	table, err := resolver.Resolve(mods, logger)
package resolver

import (
	"log/slog"

	"github.com/golangsnmp/goaper/internal/module"
	"github.com/golangsnmp/goaper/internal/types"
	"github.com/golangsnmp/goaper/schema"
)

// resolver holds the logger shared by the phases.
type resolver struct {
	types.Logger
}

// Resolve resolves every definition of mods into a new table. Each
// module's entries are marked resolved as they are processed. On failure
// the table is nil and the error is a *schema.ResolutionError, an
// *schema.ImportError, or a schema.ErrorList of them.
//
// If logger is nil, logging is disabled.
func Resolve(mods map[string]*module.Module, logger *slog.Logger) (*schema.Table, error) {
	r := &resolver{Logger: types.Logger{L: logger}}
	return r.resolve(mods)
}

func (r *resolver) resolve(mods map[string]*module.Module) (*schema.Table, error) {
	ctx := newResolverContext(mods, r.L)
	for _, mod := range ctx.sortedModules() {
		mod.ResetResolved()
	}

	r.Log(slog.LevelDebug, "starting phase", slog.String("phase", "graph"))
	g := buildGraph(ctx)
	order, cycles := g.ResolutionOrder()
	r.Log(slog.LevelDebug, "phase complete", slog.String("phase", "graph"),
		slog.Int("definitions", g.Len()),
		slog.Int("cycles", len(cycles)))
	if len(cycles) > 0 {
		return nil, cycleErrors(cycles)
	}

	r.Log(slog.LevelDebug, "starting phase", slog.String("phase", "definitions"))
	for _, sym := range order {
		mod := ctx.modules[sym.Module]
		if mod == nil {
			continue
		}
		entry := mod.Definition(sym.Name)
		if entry == nil {
			continue
		}
		if err := resolveEntry(ctx, mod, entry); err != nil {
			r.Log(slog.LevelDebug, "resolution failed",
				slog.String("module", mod.Name),
				slog.String("definition", entry.Name()),
				slog.String("error", err.Error()))
			return nil, err
		}
	}

	r.Log(slog.LevelInfo, "resolution complete",
		slog.Int("modules", len(mods)),
		slog.Int("definitions", ctx.table.Len()))
	return ctx.table, nil
}
