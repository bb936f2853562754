package module

import (
	"log/slog"

	"github.com/golangsnmp/goaper/internal/ast"
	"github.com/golangsnmp/goaper/internal/types"
	"github.com/golangsnmp/goaper/schema"
)

// Lower transforms a parsed module into its registry form. Grouped
// import clauses are flattened into the import map. Duplicate
// definitions and a name imported from two different modules are
// reported together; the returned module holds the first occurrence.
//
// If logger is nil, logging is disabled.
func Lower(astModule *ast.Module, logger *slog.Logger) (*Module, error) {
	log := types.Logger{L: logger}
	mod := NewModule(astModule.Name.Name)
	mod.Tagging = astModule.Tagging
	mod.ExtensibilityImplied = astModule.ExtensibilityImplied

	log.Log(slog.LevelDebug, "lowering module", slog.String("module", mod.Name))

	var errs schema.ErrorList
	for _, clause := range astModule.Imports {
		from := clause.FromModule.Name
		for _, sym := range clause.Symbols {
			if prev, ok := mod.Imports[sym.Name]; ok && prev != from {
				errs.Append(&schema.ResolutionError{
					Module:     mod.Name,
					Definition: sym.Name,
					Message:    "imported from both " + prev + " and " + from,
				})
				continue
			}
			mod.AddImport(sym.Name, from)
			if log.TraceEnabled() {
				log.Trace("import",
					slog.String("symbol", sym.Name),
					slog.String("from", from))
			}
		}
	}

	if exp := astModule.Exports; exp != nil && !exp.All {
		mod.Exports = make([]string, 0, len(exp.Symbols))
		for _, sym := range exp.Symbols {
			mod.Exports = append(mod.Exports, sym.Name)
		}
	}

	for _, def := range astModule.Body {
		if !mod.AddDefinition(def) {
			errs.Append(&schema.ResolutionError{
				Module:     mod.Name,
				Definition: def.DefinitionName(),
				Message:    "duplicate definition",
			})
			continue
		}
		if _, imported := mod.Imports[def.DefinitionName()]; imported {
			errs.Append(&schema.ResolutionError{
				Module:     mod.Name,
				Definition: def.DefinitionName(),
				Message:    "definition shadows an imported name",
			})
		}
	}

	log.Log(slog.LevelDebug, "lowering complete",
		slog.String("module", mod.Name),
		slog.Int("definitions", len(mod.Definitions)),
		slog.Int("imports", len(mod.Imports)))

	return mod, errs.Err()
}
