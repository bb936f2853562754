package resolver

import (
	"fmt"
	"log/slog"
	"maps"
	"slices"

	"github.com/golangsnmp/goaper/internal/module"
	"github.com/golangsnmp/goaper/internal/types"
	"github.com/golangsnmp/goaper/schema"
)

// resolverContext holds the module registry and the table being built.
type resolverContext struct {
	modules map[string]*module.Module
	names   []string
	table   *schema.Table
	types.Logger
}

func newResolverContext(mods map[string]*module.Module, logger *slog.Logger) *resolverContext {
	return &resolverContext{
		modules: mods,
		names:   slices.Sorted(maps.Keys(mods)),
		table:   schema.NewTable(),
		Logger:  types.Logger{L: logger},
	}
}

// sortedModules returns the registered modules in name order.
func (c *resolverContext) sortedModules() []*module.Module {
	out := make([]*module.Module, len(c.names))
	for i, name := range c.names {
		out[i] = c.modules[name]
	}
	return out
}

// locate finds the definition a name refers to within mod. The name is
// looked up among mod's own definitions first and then through its
// imports, following re-exports.
func (c *resolverContext) locate(mod *module.Module, name string) (*module.Module, *module.Entry, error) {
	visited := map[string]bool{mod.Name: true}
	cur := mod
	for {
		if e := cur.Definition(name); e != nil {
			return cur, e, nil
		}
		from, ok := cur.ImportedFrom(name)
		if !ok {
			if cur == mod {
				return nil, nil, fmt.Errorf("undefined reference %s", name)
			}
			return nil, nil, fmt.Errorf("definition %s not found in module %s", name, cur.Name)
		}
		target := c.modules[from]
		if target == nil {
			return nil, nil, &schema.ImportError{Importer: cur.Name, Module: from, Definition: name}
		}
		if visited[from] {
			return nil, nil, fmt.Errorf("import of %s loops through module %s", name, from)
		}
		if !target.Exported(name) {
			return nil, nil, fmt.Errorf("%s is not exported by module %s", name, from)
		}
		visited[from] = true
		if c.TraceEnabled() {
			c.Trace("following import",
				slog.String("symbol", name),
				slog.String("from", cur.Name),
				slog.String("to", from))
		}
		cur = target
	}
}

// locateIn finds name in the named module, for external references
// written "Module.Name".
func (c *resolverContext) locateIn(moduleName, name string) (*module.Module, *module.Entry, error) {
	mod := c.modules[moduleName]
	if mod == nil {
		return nil, nil, fmt.Errorf("module %s not found", moduleName)
	}
	e := mod.Definition(name)
	if e == nil {
		return nil, nil, fmt.Errorf("definition %s not found in module %s", name, moduleName)
	}
	return mod, e, nil
}

func qualified(mod *module.Module, name string) schema.QualifiedName {
	return schema.QualifiedName{Module: mod.Name, Name: name}
}
