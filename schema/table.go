package schema

import (
	"cmp"
	"fmt"
	"iter"
	"maps"
	"slices"
)

// Table is the global table of resolved definitions of one compilation
// unit, keyed by qualified name. Entries are inserted once by the
// resolver and never modified afterwards.
type Table struct {
	types  map[QualifiedName]*Type
	values map[QualifiedName]*Value
}

// NewTable returns an empty table.
func NewTable() *Table {
	return &Table{
		types:  make(map[QualifiedName]*Type),
		values: make(map[QualifiedName]*Value),
	}
}

// InsertType adds a resolved type. A name is resolved at most once, so
// inserting a name that already exists is an error.
func (t *Table) InsertType(typ *Type) error {
	if _, ok := t.types[typ.Name]; ok {
		return fmt.Errorf("type %s already resolved", typ.Name)
	}
	if _, ok := t.values[typ.Name]; ok {
		return fmt.Errorf("%s already resolved as a value", typ.Name)
	}
	t.types[typ.Name] = typ
	return nil
}

// InsertValue adds a resolved value assignment.
func (t *Table) InsertValue(v *Value) error {
	if _, ok := t.values[v.Name]; ok {
		return fmt.Errorf("value %s already resolved", v.Name)
	}
	if _, ok := t.types[v.Name]; ok {
		return fmt.Errorf("%s already resolved as a type", v.Name)
	}
	t.values[v.Name] = v
	return nil
}

// Type returns the resolved type with the given name.
func (t *Table) Type(q QualifiedName) (*Type, bool) {
	typ, ok := t.types[q]
	return typ, ok
}

// Value returns the resolved value with the given name.
func (t *Table) Value(q QualifiedName) (*Value, bool) {
	v, ok := t.values[q]
	return v, ok
}

// Lookup is shorthand for Type(QualifiedName{module, name}).
func (t *Table) Lookup(module, name string) (*Type, bool) {
	return t.Type(QualifiedName{Module: module, Name: name})
}

// Find returns every resolved type named name, in module order.
func (t *Table) Find(name string) []*Type {
	var out []*Type
	for typ := range t.Types() {
		if typ.Name.Name == name {
			out = append(out, typ)
		}
	}
	return out
}

// Deref follows KindReference payloads to the definition they name.
// References always point at table entries, so the walk ends unless the
// table was built by hand with a reference loop.
func (t *Table) Deref(typ *Type) (*Type, bool) {
	for seen := 0; typ != nil && typ.Kind == KindReference; seen++ {
		if seen > len(t.types) {
			return nil, false
		}
		next, ok := t.types[typ.Ref]
		if !ok {
			return nil, false
		}
		typ = next
	}
	return typ, typ != nil
}

// Types iterates over the resolved types sorted by qualified name.
func (t *Table) Types() iter.Seq[*Type] {
	keys := slices.SortedFunc(maps.Keys(t.types), compareNames)
	return func(yield func(*Type) bool) {
		for _, k := range keys {
			if !yield(t.types[k]) {
				return
			}
		}
	}
}

// Values iterates over the resolved values sorted by qualified name.
func (t *Table) Values() iter.Seq[*Value] {
	keys := slices.SortedFunc(maps.Keys(t.values), compareNames)
	return func(yield func(*Value) bool) {
		for _, k := range keys {
			if !yield(t.values[k]) {
				return
			}
		}
	}
}

// ModuleTypes iterates over the types of one module sorted by name.
func (t *Table) ModuleTypes(module string) iter.Seq[*Type] {
	return func(yield func(*Type) bool) {
		for typ := range t.Types() {
			if typ.Name.Module == module && !yield(typ) {
				return
			}
		}
	}
}

// Modules returns the names of modules with at least one resolved entry.
func (t *Table) Modules() []string {
	seen := make(map[string]struct{})
	for q := range t.types {
		seen[q.Module] = struct{}{}
	}
	for q := range t.values {
		seen[q.Module] = struct{}{}
	}
	return slices.Sorted(maps.Keys(seen))
}

// Len returns the number of resolved types and values.
func (t *Table) Len() int {
	return len(t.types) + len(t.values)
}

func compareNames(a, b QualifiedName) int {
	if c := cmp.Compare(a.Module, b.Module); c != 0 {
		return c
	}
	return cmp.Compare(a.Name, b.Name)
}
