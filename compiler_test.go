package goaper

import (
	"errors"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/golangsnmp/goaper/binding"
	"github.com/golangsnmp/goaper/codegen"
	"github.com/golangsnmp/goaper/schema"
)

const (
	baseModule = `
Base DEFINITIONS AUTOMATIC TAGS ::= BEGIN
maxItems INTEGER ::= 4
Index ::= INTEGER (0..maxItems)
Mode ::= ENUMERATED { idle, active }
END
`
	userModule = `
User DEFINITIONS AUTOMATIC TAGS ::= BEGIN
IMPORTS Index, Mode, maxItems FROM Base;
Slot ::= INTEGER (1..maxItems)
Message ::= CHOICE {
	index Index,
	mode  Mode,
	slot  Slot,
	...
}
END
`
)

func newTestCompiler(t *testing.T, sources ...string) *Compiler {
	t.Helper()
	c := NewCompiler()
	for _, src := range sources {
		_, err := c.AddSource([]byte(src))
		require.NoError(t, err)
	}
	return c
}

func TestAddModuleReplaces(t *testing.T) {
	c := NewCompiler()

	added, err := c.AddSource([]byte(baseModule))
	require.NoError(t, err)
	assert.True(t, added)

	added, err = c.AddSource([]byte("Base DEFINITIONS ::= BEGIN Index ::= BOOLEAN END"))
	require.NoError(t, err)
	assert.False(t, added, "second module of the same name replaces the first")

	table, err := c.Compile()
	require.NoError(t, err)
	typ, ok := table.Lookup("Base", "Index")
	require.True(t, ok)
	assert.Equal(t, schema.KindBoolean, typ.Kind)
}

func TestAddSourceParseError(t *testing.T) {
	c := NewCompiler()
	_, err := c.AddSource([]byte("Bad DEFINITIONS ::= BEGIN X ::= INTEGER {a()} END"))
	var perr *schema.ParseError
	require.True(t, errors.As(err, &perr), "got %v", err)
	assert.Empty(t, slices.Collect(c.Modules()))
}

func TestCompileAcrossModules(t *testing.T) {
	c := newTestCompiler(t, userModule, baseModule)
	assert.Equal(t, []string{"Base", "User"}, slices.Collect(c.Modules()))

	table, err := c.Compile()
	require.NoError(t, err)
	assert.Same(t, table, c.Table())

	slot, ok := table.Lookup("User", "Slot")
	require.True(t, ok)
	assert.Equal(t, schema.Bounded(1, 4), slot.Range)

	msg, ok := table.Lookup("User", "Message")
	require.True(t, ok)
	assert.True(t, msg.Range.Extensible)
	assert.Equal(t, schema.QualifiedName{Module: "Base", Name: "Index"}, msg.Alternatives[0].Type.Ref)

	for _, name := range []string{"Base", "User"} {
		mod, ok := c.Module(name)
		require.True(t, ok)
		assert.Empty(t, mod.Unresolved(), "%s should be fully resolved", name)
	}
}

func TestResolveImportsMissingModule(t *testing.T) {
	c := newTestCompiler(t, userModule)

	err := c.ResolveImports()
	var ierr *schema.ImportError
	require.True(t, errors.As(err, &ierr), "got %v", err)
	assert.Equal(t, &schema.ImportError{Importer: "User", Module: "Base", Definition: "Index"}, ierr)

	_, err = c.Compile()
	require.Error(t, err)
	assert.Nil(t, c.Table())
}

func TestResolveImportedDefinitionMissing(t *testing.T) {
	c := newTestCompiler(t, userModule, "Base DEFINITIONS ::= BEGIN Mode ::= BOOLEAN maxItems INTEGER ::= 2 END")

	require.NoError(t, c.ResolveImports())
	err := c.ResolveDefinitions()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "definition Index not found in module Base")
}

func TestAddModuleInvalidatesTable(t *testing.T) {
	c := newTestCompiler(t, baseModule)
	_, err := c.Compile()
	require.NoError(t, err)
	require.NotNil(t, c.Table())

	mod, err := ParseModule([]byte(userModule))
	require.NoError(t, err)
	c.AddModule(mod)
	assert.Nil(t, c.Table())

	_, err = c.Binder()
	require.ErrorIs(t, err, ErrNotCompiled)
	_, err = c.Generate(codegen.Options{})
	require.ErrorIs(t, err, ErrNotCompiled)
}

func TestCompilersAreDeterministic(t *testing.T) {
	first := newTestCompiler(t, baseModule, userModule)
	second := newTestCompiler(t, userModule, baseModule)

	t1, err := first.Compile()
	require.NoError(t, err)
	t2, err := second.Compile()
	require.NoError(t, err)

	assert.Equal(t, slices.Collect(t1.Types()), slices.Collect(t2.Types()))
	assert.Equal(t, slices.Collect(t1.Values()), slices.Collect(t2.Values()))

	g1, err := first.Generate(codegen.Options{Package: "msg"})
	require.NoError(t, err)
	g2, err := second.Generate(codegen.Options{Package: "msg"})
	require.NoError(t, err)
	assert.Equal(t, string(g1), string(g2))
}

func TestCompilerBinder(t *testing.T) {
	c := newTestCompiler(t, baseModule, userModule)
	_, err := c.Compile()
	require.NoError(t, err)

	b, err := c.Binder()
	require.NoError(t, err)

	msg := schema.QualifiedName{Module: "User", Name: "Message"}
	in := binding.Choice{Name: "slot", Value: int64(4)}
	data, err := b.Marshal(msg, in)
	require.NoError(t, err)
	// extension bit 0, index 2 in two bits, then 4-1 in two bits
	assert.Equal(t, []byte{0x58}, data)

	got, err := b.Unmarshal(msg, data)
	require.NoError(t, err)
	assert.Equal(t, binding.Choice{Name: "slot", Key: 2, Value: int64(4)}, got)
}
