package goaper

import (
	"bytes"
	"cmp"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"maps"
	"runtime"
	"slices"
	"sync"

	"github.com/golangsnmp/goaper/internal/module"
	"github.com/golangsnmp/goaper/internal/types"
	"github.com/golangsnmp/goaper/schema"
)

// loader reads and parses modules from sources. Parsing runs in parallel;
// registration is sequential and follows source order.
type loader struct {
	types.Logger
	logger    *slog.Logger
	sources   []Source
	explicit  int // sources before this index were given by the caller
	heuristic heuristicConfig

	modules map[string]*module.Module
	texts   map[string][]byte
}

func newLoader(sources []Source, explicit int, cfg config) *loader {
	h := defaultHeuristic()
	if cfg.noHeuristic {
		h.enabled = false
	}
	return &loader{
		Logger:    types.Logger{L: types.Component(cfg.logger, "loader")},
		logger:    cfg.logger,
		sources:   sources,
		explicit:  explicit,
		heuristic: h,
		modules:   make(map[string]*module.Module),
		texts:     make(map[string][]byte),
	}
}

type sourceFile struct {
	src      Source
	path     string
	fallback bool
}

type parseResult struct {
	index   int
	file    sourceFile
	text    []byte
	mod     *module.Module
	err     error
	skipped bool
}

// loadAll loads every file of every source in parallel.
func (l *loader) loadAll(ctx context.Context) error {
	var files []sourceFile
	seen := make(map[string]bool)
	for i, src := range l.sources {
		paths, err := src.ListFiles()
		if err != nil {
			return err
		}
		for _, path := range paths {
			if !seen[path] {
				seen[path] = true
				files = append(files, sourceFile{src: src, path: path, fallback: i >= l.explicit})
			}
		}
	}
	if len(files) == 0 {
		return nil
	}

	l.Log(slog.LevelInfo, "parallel loading", slog.Int("files", len(files)))

	results := make(chan parseResult, len(files))
	var wg sync.WaitGroup
	sem := make(chan struct{}, runtime.NumCPU())

	for i, file := range files {
		wg.Add(1)
		go func(index int, file sourceFile) {
			defer wg.Done()

			select {
			case <-ctx.Done():
				return
			case sem <- struct{}{}:
			}
			defer func() { <-sem }()

			if ctx.Err() != nil {
				return
			}
			results <- l.parseFile(index, file)
		}(i, file)
	}

	go func() {
		wg.Wait()
		close(results)
	}()

	var ordered []parseResult
	for r := range results {
		ordered = append(ordered, r)
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	slices.SortFunc(ordered, func(a, b parseResult) int {
		return cmp.Compare(a.index, b.index)
	})

	var errs schema.ErrorList
	for _, r := range ordered {
		switch {
		case r.skipped:
			if l.TraceEnabled() {
				l.Trace("content rejected by heuristic", slog.String("path", r.file.path))
			}
		case r.err != nil:
			errs.Append(fmt.Errorf("%s: %w", r.file.path, r.err))
		default:
			errs.Append(l.register(r))
		}
	}

	l.Log(slog.LevelInfo, "parallel loading complete", slog.Int("modules", len(l.modules)))
	return errs.Err()
}

func (l *loader) parseFile(index int, file sourceFile) parseResult {
	r := parseResult{index: index, file: file}
	rc, err := file.src.Open(file.path)
	if err != nil {
		r.err = err
		return r
	}
	content, err := io.ReadAll(rc)
	_ = rc.Close()
	if err != nil {
		r.err = err
		return r
	}
	r.text, r.err = decodeSource(content)
	if r.err != nil {
		return r
	}
	if !l.heuristic.looksLikeASN1Content(r.text) {
		r.skipped = true
		return r
	}
	r.mod, r.err = parseModule(r.text, l.logger)
	return r
}

// register adds a parsed module. A second definition of a module from a
// caller source is an error unless its text is identical; one from a
// search path source is shadowed by the first.
func (l *loader) register(r parseResult) error {
	name := r.mod.Name
	prev, exists := l.modules[name]
	if !exists {
		r.mod.Path = r.file.path
		l.modules[name] = r.mod
		l.texts[name] = r.text
		return nil
	}
	if r.file.fallback || bytes.Equal(l.texts[name], r.text) {
		l.Log(slog.LevelDebug, "module shadowed",
			slog.String("module", name),
			slog.String("path", r.file.path),
			slog.String("kept", prev.Path))
		return nil
	}
	return &schema.ResolutionError{
		Module:  name,
		Message: fmt.Sprintf("defined in both %s and %s", prev.Path, r.file.path),
		Err:     schema.ErrDuplicateModule,
	}
}

// loadByName loads the named modules and, recursively, the modules they
// import. A requested module that no source has is an error; a missing
// imported module is left for import checking to report.
func (l *loader) loadByName(ctx context.Context, names []string) error {
	requested := make(map[string]bool)

	var loadOne func(name string, required bool) error
	loadOne = func(name string, required bool) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		if requested[name] {
			return nil
		}
		requested[name] = true

		text, path, err := l.find(name)
		if err != nil {
			if required || !errors.Is(err, fs.ErrNotExist) {
				return fmt.Errorf("module %s: %w", name, err)
			}
			l.Log(slog.LevelDebug, "module not found", slog.String("module", name))
			return nil
		}

		mod, err := parseModule(text, l.logger)
		if err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}
		if _, exists := l.modules[mod.Name]; !exists {
			mod.Path = path
			l.modules[mod.Name] = mod
			l.texts[mod.Name] = text
		}

		imported := make(map[string]bool)
		for _, from := range mod.Imports {
			imported[from] = true
		}
		for _, from := range slices.Sorted(maps.Keys(imported)) {
			if err := loadOne(from, false); err != nil {
				return err
			}
		}
		return nil
	}

	for _, name := range names {
		if err := loadOne(name, true); err != nil {
			return err
		}
	}
	return nil
}

func (l *loader) find(name string) ([]byte, string, error) {
	for _, src := range l.sources {
		rc, path, err := src.Find(name)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return nil, path, err
		}
		content, err := io.ReadAll(rc)
		_ = rc.Close()
		if err != nil {
			return nil, path, err
		}
		text, err := decodeSource(content)
		if err != nil {
			return nil, path, err
		}
		return text, path, nil
	}
	return nil, "", fs.ErrNotExist
}

// sorted returns the loaded modules ordered by name.
func (l *loader) sorted() []*module.Module {
	mods := slices.Collect(maps.Values(l.modules))
	slices.SortFunc(mods, func(a, b *module.Module) int {
		return cmp.Compare(a.Name, b.Name)
	})
	return mods
}

var (
	sigDefinitions = []byte("DEFINITIONS")
	sigAssign      = []byte("::=")
)

type heuristicConfig struct {
	enabled         bool
	binaryCheckSize int
	maxProbeSize    int
}

func defaultHeuristic() heuristicConfig {
	return heuristicConfig{
		enabled:         true,
		binaryCheckSize: 1024,
		maxProbeSize:    128 * 1024,
	}
}

// looksLikeASN1Content reports whether decoded text could hold a module
// definition: no NUL bytes and both DEFINITIONS and ::= near the start.
func (h *heuristicConfig) looksLikeASN1Content(content []byte) bool {
	if !h.enabled {
		return true
	}
	if len(content) == 0 {
		return false
	}

	checkLen := min(h.binaryCheckSize, len(content))
	if bytes.IndexByte(content[:checkLen], 0) >= 0 {
		return false
	}

	probe := content[:min(h.maxProbeSize, len(content))]
	if bytes.IndexByte(probe, 0) >= 0 {
		return false
	}
	return bytes.Contains(probe, sigDefinitions) && bytes.Contains(probe, sigAssign)
}
