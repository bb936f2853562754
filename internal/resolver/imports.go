package resolver

import (
	"log/slog"
	"maps"
	"slices"

	"github.com/golangsnmp/goaper/internal/module"
	"github.com/golangsnmp/goaper/internal/types"
	"github.com/golangsnmp/goaper/schema"
)

// CheckImports verifies that every module an import names is registered.
// Modules are checked in name order and imported names in sorted order,
// so the first missing module reported is stable. It does not check that
// the imported definition exists in the source module; resolution does.
func CheckImports(mods map[string]*module.Module, logger *slog.Logger) error {
	log := types.Logger{L: logger}
	for _, name := range slices.Sorted(maps.Keys(mods)) {
		mod := mods[name]
		for _, imported := range mod.ImportNames() {
			from := mod.Imports[imported]
			if _, ok := mods[from]; !ok {
				log.Log(slog.LevelDebug, "import source missing",
					slog.String("module", mod.Name),
					slog.String("symbol", imported),
					slog.String("from", from))
				return &schema.ImportError{Importer: mod.Name, Module: from, Definition: imported}
			}
		}
		if log.TraceEnabled() {
			log.Trace("imports checked",
				slog.String("module", mod.Name),
				slog.Int("imports", len(mod.Imports)))
		}
	}
	log.Log(slog.LevelDebug, "all imports resolved", slog.Int("modules", len(mods)))
	return nil
}
