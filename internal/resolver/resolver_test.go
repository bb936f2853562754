package resolver

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/golangsnmp/goaper/internal/ast"
	"github.com/golangsnmp/goaper/internal/module"
	"github.com/golangsnmp/goaper/internal/parser"
	"github.com/golangsnmp/goaper/internal/testutil"
	"github.com/golangsnmp/goaper/schema"
)

func modules(t *testing.T, sources ...string) map[string]*module.Module {
	t.Helper()
	mods := make(map[string]*module.Module, len(sources))
	for _, src := range sources {
		parsed, err := parser.Parse([]byte(src), nil)
		testutil.NoError(t, err, "parse")
		mod, err := module.Lower(parsed, nil)
		testutil.NoError(t, err, "lower")
		mods[mod.Name] = mod
	}
	return mods
}

func resolve(t *testing.T, sources ...string) *schema.Table {
	t.Helper()
	mods := modules(t, sources...)
	testutil.NoError(t, CheckImports(mods, nil), "imports")
	table, err := Resolve(mods, nil)
	testutil.NoError(t, err, "resolve")
	return table
}

func resolveErr(t *testing.T, sources ...string) error {
	t.Helper()
	table, err := Resolve(modules(t, sources...), nil)
	testutil.Error(t, err, "expected resolution failure")
	testutil.True(t, table == nil, "failed resolution returns no table")
	return err
}

func lookup(t *testing.T, table *schema.Table, module, name string) *schema.Type {
	t.Helper()
	typ, ok := table.Lookup(module, name)
	testutil.True(t, ok, "%s.%s not in table", module, name)
	return typ
}

const constantsModule = `
Constants DEFINITIONS ::= BEGIN
maxCells INTEGER ::= 16
maxPlus INTEGER ::= maxCells
END`

func TestResolveInteger(t *testing.T) {
	table := resolve(t, `M DEFINITIONS ::= BEGIN
Small ::= INTEGER (0..15)
Wide ::= INTEGER (-5..5, ...)
Semi ::= INTEGER (0..MAX)
Open ::= INTEGER (MIN..MAX)
Named ::= INTEGER {low(1), high(7), top(high)} (1..7)
END`)

	small := lookup(t, table, "M", "Small")
	testutil.Equal(t, schema.KindInteger, small.Kind)
	testutil.Equal(t, schema.Bounded(0, 15), small.Range)

	wide := lookup(t, table, "M", "Wide")
	testutil.Equal(t, int64(-5), wide.Range.Lower)
	testutil.True(t, wide.Range.Extensible)

	semi := lookup(t, table, "M", "Semi")
	testutil.True(t, semi.Range.HasLower)
	testutil.False(t, semi.Range.HasUpper)

	open := lookup(t, table, "M", "Open")
	testutil.False(t, open.Range.HasLower || open.Range.HasUpper)

	named := lookup(t, table, "M", "Named")
	testutil.Len(t, named.NamedValues, 3)
	top, ok := named.NamedValue("top")
	testutil.True(t, ok)
	testutil.Equal(t, int64(7), top, "reference substituted from the same list")
}

func TestResolveIntegerErrors(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"no constraint", "A ::= INTEGER", "missing bounds"},
		{"inverted", "A ::= INTEGER (5..1)", "exceeds upper bound"},
		{"max lower", "A ::= INTEGER (MAX..1)", "MAX is not a valid lower bound"},
		{"undefined bound", "A ::= INTEGER (0..nothing)", "undefined reference nothing"},
		{"unknown named ref", "A ::= INTEGER {a(1), b(c)} (0..1)", "not a literal value of the same list"},
		{"duplicate named", "A ::= INTEGER {a(1), a(2)} (0..3)", "duplicate named value a"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := resolveErr(t, "M DEFINITIONS ::= BEGIN\n"+tt.body+"\nEND")
			testutil.ErrorContains(t, err, tt.want)
			var re *schema.ResolutionError
			testutil.True(t, errors.As(err, &re), "expected ResolutionError, got %T", err)
			testutil.Equal(t, "M", re.Module)
		})
	}
}

func TestResolveNamedValueErrorsAccumulate(t *testing.T) {
	err := resolveErr(t, `M DEFINITIONS ::= BEGIN
A ::= INTEGER {a(1), b(x), a(2), c(y)} (0..3)
END`)
	var list schema.ErrorList
	testutil.True(t, errors.As(err, &list), "expected ErrorList, got %T: %v", err, err)
	testutil.Len(t, list, 3)
}

func TestResolveCrossModuleBounds(t *testing.T) {
	table := resolve(t, constantsModule, `Cells DEFINITIONS ::= BEGIN
IMPORTS maxCells, maxPlus FROM Constants;
CellIndex ::= INTEGER (0..maxCells)
CellCount ::= INTEGER (1..maxPlus, ...)
local INTEGER ::= maxCells
END`)

	idx := lookup(t, table, "Cells", "CellIndex")
	testutil.Equal(t, schema.Bounded(0, 16), idx.Range)
	count := lookup(t, table, "Cells", "CellCount")
	testutil.Equal(t, int64(16), count.Range.Upper)
	testutil.True(t, count.Range.Extensible)

	v, ok := table.Value(schema.QualifiedName{Module: "Cells", Name: "local"})
	testutil.True(t, ok)
	testutil.Equal(t, int64(16), v.Int)
}

func TestResolveForwardReferences(t *testing.T) {
	// Definitions may use names declared later in the module.
	table := resolve(t, `M DEFINITIONS ::= BEGIN
Alias ::= Base (0..limit)
Base ::= INTEGER (0..100)
limit INTEGER ::= 10
END`)
	alias := lookup(t, table, "M", "Alias")
	testutil.Equal(t, schema.Bounded(0, 10), alias.Range)
	testutil.Equal(t, schema.QualifiedName{Module: "M", Name: "Base"}, alias.Parent)
}

func TestResolveAlias(t *testing.T) {
	table := resolve(t, `M DEFINITIONS ::= BEGIN
Bits ::= BIT STRING (SIZE(1..32))
Fixed ::= Bits (SIZE(8))
Again ::= Fixed
END`)
	fixed := lookup(t, table, "M", "Fixed")
	testutil.Equal(t, schema.KindBitString, fixed.Kind)
	testutil.True(t, fixed.Size.Fixed())

	again := lookup(t, table, "M", "Again")
	testutil.Equal(t, "Fixed", again.Parent.Name)
	testutil.Equal(t, "Again", again.Name.Name)
	testutil.Equal(t, int64(8), again.Size.Upper)
}

func TestResolveAliasErrors(t *testing.T) {
	err := resolveErr(t, `M DEFINITIONS ::= BEGIN
A ::= NULL
B ::= A (0..1)
END`)
	testutil.ErrorContains(t, err, "value range constraint is not valid on NULL")

	err = resolveErr(t, `M DEFINITIONS ::= BEGIN
A ::= INTEGER (0..1)
B ::= A (SIZE(2))
END`)
	testutil.ErrorContains(t, err, "SIZE constraint is not valid on INTEGER")

	mod := module.NewModule("M")
	mod.AddDefinition(&ast.ValueAssignment{Name: ast.Ident{Name: "V"}, Type: &ast.Integer{}, Value: ast.NumberValue(1)})
	mod.AddDefinition(&ast.TypeAssignment{Name: ast.Ident{Name: "B"}, Type: &ast.TypeRef{Name: ast.Ident{Name: "V"}}})
	_, err = Resolve(map[string]*module.Module{"M": mod}, nil)
	testutil.ErrorContains(t, err, "V is a value, not a type")
}

func TestResolveStrings(t *testing.T) {
	table := resolve(t, `M DEFINITIONS ::= BEGIN
Algorithms ::= BIT STRING (SIZE(16, ...))
Flags ::= BIT STRING {spare(0), urgent(3)}
Any ::= OCTET STRING
Key ::= OCTET STRING (SIZE(MIN..32))
END`)

	alg := lookup(t, table, "M", "Algorithms")
	testutil.Equal(t, schema.Range{Lower: 16, Upper: 16, HasLower: true, HasUpper: true, Extensible: true}, alg.Size)

	flags := lookup(t, table, "M", "Flags")
	testutil.False(t, flags.Size.Constrained(), "no SIZE is unconstrained")
	bit, _ := flags.NamedValue("urgent")
	testutil.Equal(t, int64(3), bit)

	testutil.Equal(t, schema.KindOctetString, lookup(t, table, "M", "Any").Kind)
	testutil.Equal(t, schema.Bounded(0, 32), lookup(t, table, "M", "Key").Size)

	err := resolveErr(t, "M DEFINITIONS ::= BEGIN\nA ::= OCTET STRING (SIZE(-1..2))\nEND")
	testutil.ErrorContains(t, err, "negative size")
}

func TestResolveEnumerated(t *testing.T) {
	table := resolve(t, `M DEFINITIONS ::= BEGIN
Color ::= ENUMERATED { red, green(0), blue(5), yellow, ..., cyan, magenta(10), white }
END`)
	color := lookup(t, table, "M", "Color")
	testutil.Equal(t, schema.KindEnumerated, color.Kind)
	testutil.Equal(t, schema.Range{Lower: 0, Upper: 3, HasLower: true, HasUpper: true, Extensible: true}, color.Range)

	tests := []struct {
		name     string
		value    int64
		index    int
		extended bool
	}{
		{"red", 1, 1, false},
		{"green", 0, 0, false},
		{"blue", 5, 3, false},
		{"yellow", 2, 2, false},
		{"cyan", 3, 0, true},
		{"magenta", 10, 1, true},
		{"white", 11, 2, true},
	}
	for _, tt := range tests {
		item, ok := color.Item(tt.name)
		testutil.True(t, ok, tt.name)
		testutil.Equal(t, tt.value, item.Value, "%s value", tt.name)
		testutil.Equal(t, tt.index, item.Index, "%s index", tt.name)
		testutil.Equal(t, tt.extended, item.Extended, "%s extended", tt.name)
	}

	root := color.RootItems()
	testutil.Len(t, root, 4)
	testutil.Equal(t, "green", root[0].Name)
	testutil.Equal(t, "blue", root[3].Name)
}

func TestResolveEnumeratedErrors(t *testing.T) {
	err := resolveErr(t, "M DEFINITIONS ::= BEGIN\nE ::= ENUMERATED { a(1), b(1) }\nEND")
	testutil.ErrorContains(t, err, "share value 1")

	err = resolveErr(t, "M DEFINITIONS ::= BEGIN\nE ::= ENUMERATED { a, ..., b(5), c(4) }\nEND")
	testutil.ErrorContains(t, err, "must exceed 5")

	err = resolveErr(t, "M DEFINITIONS ::= BEGIN\nE ::= ENUMERATED { a, a }\nEND")
	testutil.ErrorContains(t, err, "duplicate enumeration item a")
}

func TestResolveChoice(t *testing.T) {
	table := resolve(t, `M DEFINITIONS AUTOMATIC TAGS ::= BEGIN
Cause ::= CHOICE {
	radioNetwork CauseRadio,
	transport    INTEGER (0..3),
	...,
	misc         NULL
}
CauseRadio ::= ENUMERATED { unspecified, other }
END`)

	cause := lookup(t, table, "M", "Cause")
	testutil.Equal(t, schema.KindChoice, cause.Kind)
	testutil.Equal(t, schema.Range{Lower: 0, Upper: 1, HasLower: true, HasUpper: true, Extensible: true}, cause.Range)
	testutil.Len(t, cause.Alternatives, 3)

	radio, ok := cause.Alternative(0)
	testutil.True(t, ok)
	testutil.Equal(t, "radioNetwork", radio.Name)
	testutil.Equal(t, schema.KindReference, radio.Type.Kind)
	testutil.Equal(t, schema.QualifiedName{Module: "M", Name: "CauseRadio"}, radio.Type.Ref)

	target, ok := table.Deref(radio.Type)
	testutil.True(t, ok)
	testutil.Equal(t, schema.KindEnumerated, target.Kind)

	transport, _ := cause.Alternative(1)
	testutil.Equal(t, schema.Bounded(0, 3), transport.Type.Range)
	testutil.True(t, transport.Type.Name.IsZero(), "inline payloads are anonymous")

	misc, _ := cause.Alternative(2)
	testutil.True(t, misc.Extended)
}

func TestResolveChoiceKeyedByTag(t *testing.T) {
	// keys lists the alternative names in key order.
	keys := func(typ *schema.Type) []string {
		out := make([]string, len(typ.Alternatives))
		for _, alt := range typ.Alternatives {
			out[alt.Key] = alt.Name
		}
		return out
	}

	table := resolve(t, `M DEFINITIONS IMPLICIT TAGS ::= BEGIN
Pick ::= CHOICE { a [1] BOOLEAN, b [0] NULL }
END`)
	testutil.SliceEqual(t, []string{"b", "a"}, keys(lookup(t, table, "M", "Pick")))

	// Universal tags: NULL is 5, BOOLEAN is 1.
	table = resolve(t, `M DEFINITIONS ::= BEGIN
Pick ::= CHOICE { a NULL, b BOOLEAN }
END`)
	testutil.SliceEqual(t, []string{"b", "a"}, keys(lookup(t, table, "M", "Pick")))

	// A single tagged alternative turns automatic tagging off.
	table = resolve(t, `M DEFINITIONS AUTOMATIC TAGS ::= BEGIN
Pick ::= CHOICE { a INTEGER, b [APPLICATION 0] NULL, c [0] BOOLEAN }
Plain ::= CHOICE { a INTEGER, b NULL }
END`)
	testutil.SliceEqual(t, []string{"a", "b", "c"}, keys(lookup(t, table, "M", "Pick")))
	testutil.SliceEqual(t, []string{"a", "b"}, keys(lookup(t, table, "M", "Plain")))

	// Tags of referenced assignments and nested CHOICEs; additions keep
	// their keys after the root.
	table = resolve(t, `M DEFINITIONS ::= BEGIN
Pick ::= CHOICE { a Inner, b Flag, c OCTET STRING, ..., d BOOLEAN }
Inner ::= CHOICE { x NULL, y ENUMERATED { on } }
Flag ::= [PRIVATE 2] BOOLEAN
END`)
	testutil.SliceEqual(t, []string{"c", "a", "b", "d"}, keys(lookup(t, table, "M", "Pick")))
}

func TestResolveChoiceTagErrors(t *testing.T) {
	err := resolveErr(t, `M DEFINITIONS ::= BEGIN
Loop ::= CHOICE { a Loop, b Loop }
END`)
	testutil.ErrorContains(t, err, "cannot determine the tag of CHOICE alternative a")
}

func TestResolveExtensibilityImplied(t *testing.T) {
	table := resolve(t, `Imp DEFINITIONS AUTOMATIC TAGS EXTENSIBILITY IMPLIED ::= BEGIN
Pick ::= CHOICE { a BOOLEAN, b NULL }
Col ::= ENUMERATED { red, green }
END`)
	pick := lookup(t, table, "Imp", "Pick")
	testutil.True(t, pick.Range.Extensible, "CHOICE extensible")
	testutil.Equal(t, int64(1), pick.Range.Upper)
	col := lookup(t, table, "Imp", "Col")
	testutil.True(t, col.Range.Extensible, "ENUMERATED extensible")
	testutil.Equal(t, int64(1), col.Range.Upper)

	table = resolve(t, `Plain DEFINITIONS AUTOMATIC TAGS ::= BEGIN
Pick ::= CHOICE { a BOOLEAN, b NULL }
Col ::= ENUMERATED { red, green }
END`)
	testutil.False(t, lookup(t, table, "Plain", "Pick").Range.Extensible)
	testutil.False(t, lookup(t, table, "Plain", "Col").Range.Extensible)
}

func TestResolveRecursiveChoice(t *testing.T) {
	table := resolve(t, `M DEFINITIONS ::= BEGIN
Expr ::= CHOICE { leaf INTEGER (0..9), neg Expr, pair Pair }
Pair ::= CHOICE { left Expr, right Expr }
END`)
	expr := lookup(t, table, "M", "Expr")
	neg, _ := expr.Alternative(1)
	testutil.Equal(t, "Expr", neg.Type.Ref.Name)
	testutil.Equal(t, schema.KindChoice, lookup(t, table, "M", "Pair").Kind)
}

func TestResolveChoiceMissingKeys(t *testing.T) {
	// Programmatically built alternatives may lack keys; every offender
	// is named in one compound error.
	choice := &ast.Choice{Alternatives: []ast.Alternative{
		{Name: ast.Ident{Name: "a"}, Type: &ast.Null{}},
		{Name: ast.Ident{Name: "b"}, Key: ast.KeyOf(1), Type: &ast.Null{}},
		{Name: ast.Ident{Name: "c"}, Type: &ast.Boolean{}},
	}}
	mod := module.NewModule("M")
	mod.AddDefinition(&ast.TypeAssignment{Name: ast.Ident{Name: "C"}, Type: choice})

	_, err := Resolve(map[string]*module.Module{"M": mod}, nil)
	var list schema.ErrorList
	testutil.True(t, errors.As(err, &list), "expected ErrorList, got %T: %v", err, err)
	testutil.Len(t, list, 2)
	testutil.ErrorContains(t, list[0], "alternative a has no key")
	testutil.ErrorContains(t, list[1], "alternative c has no key")
	testutil.False(t, mod.Definition("C").Resolved)
}

func TestResolveChoiceErrors(t *testing.T) {
	err := resolveErr(t, `M DEFINITIONS ::= BEGIN
C ::= CHOICE { a Missing, b NULL, c Other }
END`)
	var list schema.ErrorList
	testutil.True(t, errors.As(err, &list), "expected ErrorList, got %T: %v", err, err)
	testutil.Len(t, list, 2)

	choice := &ast.Choice{Alternatives: []ast.Alternative{
		{Name: ast.Ident{Name: "a"}, Key: ast.KeyOf(0), Type: &ast.Null{}},
		{Name: ast.Ident{Name: "b"}, Key: ast.KeyOf(0), Type: &ast.Null{}},
	}}
	mod := module.NewModule("M")
	mod.AddDefinition(&ast.TypeAssignment{Name: ast.Ident{Name: "C"}, Type: choice})
	_, err = Resolve(map[string]*module.Module{"M": mod}, nil)
	testutil.ErrorContains(t, err, "share key 0")
}

func TestResolveCycle(t *testing.T) {
	err := resolveErr(t, `M DEFINITIONS ::= BEGIN
A ::= B
B ::= C
C ::= A
D ::= INTEGER (0..1)
END`)
	testutil.ErrorContains(t, err, "circular definition: M.A, M.B, M.C")

	err = resolveErr(t, `M DEFINITIONS ::= BEGIN
a INTEGER ::= b
b INTEGER ::= a
END`)
	testutil.ErrorContains(t, err, "circular definition")
}

func TestResolveImportedDefinitionMissing(t *testing.T) {
	mods := modules(t, constantsModule, `Cells DEFINITIONS ::= BEGIN
IMPORTS minCells FROM Constants;
CellIndex ::= INTEGER (minCells..7)
END`)
	testutil.NoError(t, CheckImports(mods, nil), "module-level check passes")
	_, err := Resolve(mods, nil)
	testutil.ErrorContains(t, err, "definition minCells not found in module Constants")
}

func TestResolveNotExported(t *testing.T) {
	err := resolveErr(t, `Constants DEFINITIONS ::= BEGIN
EXPORTS public;
public INTEGER ::= 1
private INTEGER ::= 2
END`, `M DEFINITIONS ::= BEGIN
IMPORTS private FROM Constants;
A ::= INTEGER (0..private)
END`)
	testutil.ErrorContains(t, err, "private is not exported by module Constants")
}

func TestResolveReexport(t *testing.T) {
	table := resolve(t, constantsModule, `Middle DEFINITIONS ::= BEGIN
IMPORTS maxCells FROM Constants;
END`, `Top DEFINITIONS ::= BEGIN
IMPORTS maxCells FROM Middle;
A ::= INTEGER (0..maxCells)
END`)
	testutil.Equal(t, int64(16), lookup(t, table, "Top", "A").Range.Upper)
}

func TestResolveExternalReference(t *testing.T) {
	table := resolve(t, `Base DEFINITIONS ::= BEGIN
Id ::= INTEGER (0..255)
END`, `M DEFINITIONS ::= BEGIN
Ref ::= Base.Id
END`)
	testutil.Equal(t, "Base", lookup(t, table, "M", "Ref").Parent.Module)
}

func TestResolveValueAssignments(t *testing.T) {
	table := resolve(t, `M DEFINITIONS ::= BEGIN
Small ::= INTEGER (0..15)
a INTEGER ::= -3
b Small ::= 15
END`)
	b, ok := table.Value(schema.QualifiedName{Module: "M", Name: "b"})
	testutil.True(t, ok)
	testutil.Equal(t, int64(15), b.Int)

	err := resolveErr(t, `M DEFINITIONS ::= BEGIN
Small ::= INTEGER (0..15)
b Small ::= 16
END`)
	testutil.ErrorContains(t, err, "value 16 is outside 0..15")

	err = resolveErr(t, "M DEFINITIONS ::= BEGIN\nb BOOLEAN ::= 1\nEND")
	testutil.ErrorContains(t, err, "only INTEGER values are supported")
}

func TestResolveMarksEntries(t *testing.T) {
	mods := modules(t, constantsModule)
	_, err := Resolve(mods, nil)
	testutil.NoError(t, err)
	testutil.Len(t, mods["Constants"].Unresolved(), 0)
}

func TestResolveDeterministic(t *testing.T) {
	sources := []string{constantsModule, `Cells DEFINITIONS ::= BEGIN
IMPORTS maxCells FROM Constants;
Cause ::= CHOICE { a INTEGER (0..maxCells), b Flag, ..., c NULL }
Flag ::= BIT STRING (SIZE(1..maxCells))
Kind ::= ENUMERATED { x, y(4), z, ... }
END`}

	dump := func() string {
		table := resolve(t, sources...)
		var out []byte
		for typ := range table.Types() {
			b, err := json.Marshal(typ)
			testutil.NoError(t, err)
			out = append(out, b...)
		}
		return string(out)
	}
	first := dump()
	for range 5 {
		testutil.Equal(t, first, dump())
	}
}

func TestCheckImports(t *testing.T) {
	mods := modules(t, `M DEFINITIONS ::= BEGIN
IMPORTS b FROM Zeta a FROM Alpha;
END`)
	err := CheckImports(mods, nil)
	var ie *schema.ImportError
	testutil.True(t, errors.As(err, &ie), "expected ImportError, got %T", err)
	testutil.Equal(t, "M", ie.Importer)
	testutil.Equal(t, "Alpha", ie.Module, "first missing module in sorted name order")
	testutil.Equal(t, "a", ie.Definition)
	testutil.ErrorContains(t, err, `module "Alpha", corresponding to definition "a", not found`)
}

func TestResolveEmpty(t *testing.T) {
	table, err := Resolve(nil, nil)
	testutil.NoError(t, err)
	testutil.Equal(t, 0, table.Len())
}
