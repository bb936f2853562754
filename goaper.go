package goaper

import (
	"context"
	"errors"
	"log/slog"

	"github.com/golangsnmp/goaper/internal/types"
)

// ErrNoSources is returned when Load is called with no sources.
var ErrNoSources = errors.New("no ASN.1 sources provided")

// LevelTrace is a custom log level more verbose than Debug.
// Use for per-item iteration logging (tokens, definitions, imports).
// Enable with: &slog.HandlerOptions{Level: slog.Level(-8)}
const LevelTrace = types.LevelTrace

// Option configures NewCompiler, Load and LoadModules.
type Option func(*config)

type config struct {
	logger      *slog.Logger
	noHeuristic bool
	systemPaths bool
}

func newConfig(opts []Option) config {
	var cfg config
	for _, opt := range opts {
		opt(&cfg)
	}
	return cfg
}

// WithLogger sets the logger for debug/trace output.
// If not set, no logging occurs (zero overhead).
func WithLogger(logger *slog.Logger) Option {
	return func(c *config) { c.logger = logger }
}

// WithNoHeuristic makes Load parse every listed file, including those
// that do not look like ASN.1 module text.
func WithNoHeuristic() Option {
	return func(c *config) { c.noHeuristic = true }
}

// Load loads every ASN.1 module the source lists and compiles them.
// Use Multi() to combine multiple sources.
//
// Example:
//
//	c, err := goaper.Load(ctx,
//	    goaper.MustDirTree("./asn1"),
//	    goaper.WithLogger(slog.Default()),
//	)
//	table := c.Table()
func Load(ctx context.Context, source Source, opts ...Option) (*Compiler, error) {
	cfg := newConfig(opts)
	sources, explicit := collectSources(source, cfg)
	return loadFromSources(ctx, sources, explicit, nil, cfg)
}

// LoadModules loads specific modules by name, along with the modules they
// import, and compiles them.
//
// Example:
//
//	c, err := goaper.LoadModules(ctx,
//	    []string{"NGAP-PDU-Descriptions"},
//	    goaper.MustDir("./asn1"),
//	)
func LoadModules(ctx context.Context, names []string, source Source, opts ...Option) (*Compiler, error) {
	cfg := newConfig(opts)
	sources, explicit := collectSources(source, cfg)
	return loadFromSources(ctx, sources, explicit, names, cfg)
}

// collectSources returns the caller's source followed by the search path
// sources, and the number of caller sources.
func collectSources(source Source, cfg config) ([]Source, int) {
	var sources []Source
	if source != nil {
		sources = append(sources, source)
	}
	explicit := len(sources)
	if cfg.systemPaths {
		sources = append(sources, discoverSystemSources(types.Logger{L: types.Component(cfg.logger, "loader")})...)
	}
	return sources, explicit
}

// loadFromSources is the internal implementation.
// If names is nil, loads all modules from sources.
// If names is non-nil, loads only those modules (plus dependencies).
func loadFromSources(ctx context.Context, sources []Source, explicit int, names []string, cfg config) (*Compiler, error) {
	if len(sources) == 0 {
		return nil, ErrNoSources
	}
	l := newLoader(sources, explicit, cfg)

	var err error
	if names != nil {
		err = l.loadByName(ctx, names)
	} else {
		err = l.loadAll(ctx)
	}
	if err != nil {
		return nil, err
	}

	c := NewCompiler(WithLogger(cfg.logger))
	for _, mod := range l.sorted() {
		c.AddModule(mod)
	}
	if _, err := c.Compile(); err != nil {
		return nil, err
	}
	return c, nil
}
