// Package module provides the registry form of an ASN.1 module.
//
// Lowering turns a parsed module into an ordered set of definitions with
// a per-definition resolved flag and a flat import map:
//
//	Source → Lexer → Tokens → Parser → AST → [Lowering] → Module → [Resolver] → schema.Table
//	                                         ^^^^^^^^^^^^^
//	                                         This package
//
// Lowering does no name resolution. Type references, value references
// and imported names are kept as written; the resolver checks them.
package module

import (
	"iter"
	"maps"
	"slices"

	"github.com/golangsnmp/goaper/internal/ast"
)

// Module is a registered ASN.1 module.
type Module struct {
	Name    string
	Tagging ast.Tagging
	// ExtensibilityImplied is carried from the module header.
	ExtensibilityImplied bool
	// Definitions holds one entry per assignment in insertion order.
	Definitions []*Entry
	// Imports maps an imported name to the module it is imported from.
	Imports map[string]string
	// Exports lists exported names. Nil means everything is exported.
	Exports []string
	// Path is the file the module was loaded from, if any.
	Path string

	index map[string]int
}

// Entry is one definition of a module with its resolution state.
type Entry struct {
	Def      ast.Definition
	Resolved bool
}

// Name returns the definition name.
func (e *Entry) Name() string {
	return e.Def.DefinitionName()
}

// IsValue reports whether the entry is a value assignment.
func (e *Entry) IsValue() bool {
	_, ok := e.Def.(*ast.ValueAssignment)
	return ok
}

// NewModule returns an empty module with the given name.
func NewModule(name string) *Module {
	return &Module{
		Name:    name,
		Imports: make(map[string]string),
		index:   make(map[string]int),
	}
}

// AddDefinition appends def. It returns false, leaving the module
// unchanged, when a definition of the same name already exists.
func (m *Module) AddDefinition(def ast.Definition) bool {
	name := def.DefinitionName()
	if _, exists := m.index[name]; exists {
		return false
	}
	m.index[name] = len(m.Definitions)
	m.Definitions = append(m.Definitions, &Entry{Def: def})
	return true
}

// Definition returns the entry for name, or nil.
func (m *Module) Definition(name string) *Entry {
	i, ok := m.index[name]
	if !ok {
		return nil
	}
	return m.Definitions[i]
}

// AddImport records that name is imported from module from. A later
// import of the same name replaces the earlier one.
func (m *Module) AddImport(name, from string) {
	m.Imports[name] = from
}

// ImportedFrom returns the module name is imported from.
func (m *Module) ImportedFrom(name string) (string, bool) {
	from, ok := m.Imports[name]
	return from, ok
}

// ImportNames returns the imported names in sorted order.
func (m *Module) ImportNames() []string {
	return slices.Sorted(maps.Keys(m.Imports))
}

// Exported reports whether name is visible to importers.
func (m *Module) Exported(name string) bool {
	return m.Exports == nil || slices.Contains(m.Exports, name)
}

// DefinitionNames returns an iterator over definition names in
// insertion order.
func (m *Module) DefinitionNames() iter.Seq[string] {
	return func(yield func(string) bool) {
		for _, e := range m.Definitions {
			if !yield(e.Name()) {
				return
			}
		}
	}
}

// Unresolved returns the entries not yet marked resolved.
func (m *Module) Unresolved() []*Entry {
	var out []*Entry
	for _, e := range m.Definitions {
		if !e.Resolved {
			out = append(out, e)
		}
	}
	return out
}

// ResetResolved clears the resolved flag of every entry.
func (m *Module) ResetResolved() {
	for _, e := range m.Definitions {
		e.Resolved = false
	}
}
