package goaper

import (
	"errors"
	"iter"
	"log/slog"
	"maps"
	"slices"

	"github.com/golangsnmp/goaper/binding"
	"github.com/golangsnmp/goaper/codegen"
	"github.com/golangsnmp/goaper/internal/module"
	"github.com/golangsnmp/goaper/internal/parser"
	"github.com/golangsnmp/goaper/internal/resolver"
	"github.com/golangsnmp/goaper/internal/types"
	"github.com/golangsnmp/goaper/schema"
)

// ErrNotCompiled is returned by operations that need a resolved table
// when the compiler has not resolved its definitions yet.
var ErrNotCompiled = errors.New("definitions have not been resolved")

// Compiler is a compilation unit: the registered modules and the table
// resolved from them. A Compiler is not safe for concurrent use.
type Compiler struct {
	types.Logger
	logger  *slog.Logger
	modules map[string]*module.Module
	table   *schema.Table
}

// NewCompiler returns an empty compiler.
func NewCompiler(opts ...Option) *Compiler {
	cfg := newConfig(opts)
	return &Compiler{
		Logger:  types.Logger{L: types.Component(cfg.logger, "loader")},
		logger:  cfg.logger,
		modules: make(map[string]*module.Module),
	}
}

// ParseModule parses one module from source text. UTF-16 text with a
// byte order mark and Latin-1 text are converted to UTF-8 first.
func ParseModule(src []byte, opts ...Option) (*Module, error) {
	return parseModule(src, newConfig(opts).logger)
}

func parseModule(src []byte, logger *slog.Logger) (*Module, error) {
	text, err := decodeSource(src)
	if err != nil {
		return nil, err
	}
	parsed, err := parser.Parse(text, logger)
	if err != nil {
		return nil, err
	}
	return module.Lower(parsed, types.Component(logger, "module"))
}

// AddModule registers mod. It returns true when the name was not
// registered before and false when an existing module of that name was
// replaced. Adding a module invalidates the resolved table.
func (c *Compiler) AddModule(mod *Module) bool {
	_, exists := c.modules[mod.Name]
	c.modules[mod.Name] = mod
	c.table = nil
	if exists {
		c.Log(slog.LevelDebug, "module replaced", slog.String("module", mod.Name))
	} else if c.TraceEnabled() {
		c.Trace("module added", slog.String("module", mod.Name),
			slog.Int("definitions", len(mod.Definitions)))
	}
	return !exists
}

// AddSource parses src and registers the module it defines. The result
// is that of AddModule.
func (c *Compiler) AddSource(src []byte) (bool, error) {
	mod, err := parseModule(src, c.logger)
	if err != nil {
		return false, err
	}
	return c.AddModule(mod), nil
}

// Modules returns an iterator over the registered module names in
// sorted order.
func (c *Compiler) Modules() iter.Seq[string] {
	return slices.Values(slices.Sorted(maps.Keys(c.modules)))
}

// Module returns the registered module of the given name.
func (c *Compiler) Module(name string) (*Module, bool) {
	mod, ok := c.modules[name]
	return mod, ok
}

// ResolveImports checks that every imported name comes from a registered
// module. The first failure is returned as a *schema.ImportError.
func (c *Compiler) ResolveImports() error {
	return resolver.CheckImports(c.modules, types.Component(c.logger, "resolver"))
}

// ResolveDefinitions resolves every registered definition into a new
// table, replacing the previous one.
func (c *Compiler) ResolveDefinitions() error {
	table, err := resolver.Resolve(c.modules, types.Component(c.logger, "resolver"))
	if err != nil {
		c.table = nil
		return err
	}
	c.table = table
	c.Log(slog.LevelInfo, "compiled",
		slog.Int("modules", len(c.modules)),
		slog.Int("definitions", table.Len()))
	return nil
}

// Compile runs ResolveImports and ResolveDefinitions and returns the
// resolved table.
func (c *Compiler) Compile() (*Table, error) {
	if err := c.ResolveImports(); err != nil {
		return nil, err
	}
	if err := c.ResolveDefinitions(); err != nil {
		return nil, err
	}
	return c.table, nil
}

// Table returns the resolved table, or nil before a successful
// ResolveDefinitions.
func (c *Compiler) Table() *Table {
	return c.table
}

// Binder returns a runtime codec binder over the resolved table.
func (c *Compiler) Binder() (*binding.Binder, error) {
	if c.table == nil {
		return nil, ErrNotCompiled
	}
	return binding.New(c.table, binding.Options{Logger: c.logger}), nil
}

// Generate emits Go codec source for the resolved table.
func (c *Compiler) Generate(opts codegen.Options) ([]byte, error) {
	if c.table == nil {
		return nil, ErrNotCompiled
	}
	if opts.Logger == nil {
		opts.Logger = c.logger
	}
	return codegen.Generate(c.table, opts)
}
