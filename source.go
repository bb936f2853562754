package goaper

import (
	"errors"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
)

// DefaultExtensions are the file extensions recognized as ASN.1 files.
// Empty string matches files with no extension (e.g., "NGAP-IEs").
var DefaultExtensions = []string{"", ".asn", ".asn1", ".asn.txt"}

// Source finds ASN.1 module files.
type Source interface {
	// Find locates a module by name.
	// Returns the file content, source path for diagnostics, or fs.ErrNotExist if not found.
	Find(name string) (io.ReadCloser, string, error)

	// ListFiles returns all file paths known to this source.
	// Used for parallel loading.
	ListFiles() ([]string, error)

	// Open opens a path returned by ListFiles, or returns fs.ErrNotExist
	// if the path does not belong to this source.
	Open(path string) (io.ReadCloser, error)
}

// SourceOption configures a source.
type SourceOption func(*sourceConfig)

type sourceConfig struct {
	extensions []string
}

func defaultSourceConfig(opts []SourceOption) sourceConfig {
	cfg := sourceConfig{extensions: DefaultExtensions}
	for _, opt := range opts {
		opt(&cfg)
	}
	return cfg
}

// WithExtensions sets the file extensions to recognize for this source.
func WithExtensions(exts ...string) SourceOption {
	return func(c *sourceConfig) {
		c.extensions = exts
	}
}

// --- Dir Source (single directory, lazy) ---

type dirSource struct {
	path   string
	config sourceConfig
}

// Dir creates a Source that searches a single directory (no recursion).
// Files are looked up lazily on each Find() call.
func Dir(path string, opts ...SourceOption) (Source, error) {
	if err := checkDir(path); err != nil {
		return nil, err
	}
	return &dirSource{path: path, config: defaultSourceConfig(opts)}, nil
}

// MustDir is like Dir but panics on error.
func MustDir(path string, opts ...SourceOption) Source {
	src, err := Dir(path, opts...)
	if err != nil {
		panic(err)
	}
	return src
}

func (s *dirSource) Find(name string) (io.ReadCloser, string, error) {
	for _, ext := range s.config.extensions {
		fullPath := filepath.Join(s.path, name+ext)
		f, err := os.Open(fullPath)
		if err == nil {
			return f, fullPath, nil
		}
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, fullPath, err
		}
	}
	return nil, "", fs.ErrNotExist
}

func (s *dirSource) ListFiles() ([]string, error) {
	entries, err := os.ReadDir(s.path)
	if err != nil {
		return nil, err
	}

	var files []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if _, ok := moduleName(entry.Name(), s.config.extensions); ok {
			files = append(files, filepath.Join(s.path, entry.Name()))
		}
	}
	return files, nil
}

func (s *dirSource) Open(path string) (io.ReadCloser, error) {
	if filepath.Dir(path) != filepath.Clean(s.path) {
		return nil, fs.ErrNotExist
	}
	return os.Open(path)
}

// --- DirTree Source (recursive directory, indexed) ---

type treeSource struct {
	root  string
	index map[string]string // module name -> file path
	paths []string
}

// DirTree creates a Source that recursively indexes a directory tree.
// It walks the tree once at construction and builds a name->path index.
// First match wins for duplicate names.
func DirTree(root string, opts ...SourceOption) (Source, error) {
	if err := checkDir(root); err != nil {
		return nil, err
	}
	cfg := defaultSourceConfig(opts)
	s := &treeSource{root: filepath.Clean(root), index: make(map[string]string)}

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if d != nil && d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			return nil
		}
		name, ok := moduleName(path, cfg.extensions)
		if !ok {
			return nil
		}
		if _, exists := s.index[name]; !exists {
			s.index[name] = path
			s.paths = append(s.paths, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s, nil
}

// MustDirTree is like DirTree but panics on error.
func MustDirTree(root string, opts ...SourceOption) Source {
	src, err := DirTree(root, opts...)
	if err != nil {
		panic(err)
	}
	return src
}

func (s *treeSource) Find(name string) (io.ReadCloser, string, error) {
	path, ok := s.index[name]
	if !ok {
		return nil, "", fs.ErrNotExist
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, path, err
	}
	return f, path, nil
}

func (s *treeSource) ListFiles() ([]string, error) {
	return slices.Clone(s.paths), nil
}

func (s *treeSource) Open(path string) (io.ReadCloser, error) {
	if !slices.Contains(s.paths, path) {
		return nil, fs.ErrNotExist
	}
	return os.Open(path)
}

// --- Files Source (explicit file list) ---

type filesSource struct {
	paths []string
}

// Files creates a Source over an explicit list of files. Find matches a
// module name against the file names without their extension.
func Files(paths ...string) Source {
	return &filesSource{paths: paths}
}

func (s *filesSource) Find(name string) (io.ReadCloser, string, error) {
	for _, path := range s.paths {
		if n, _ := moduleName(path, nil); n == name {
			f, err := os.Open(path)
			return f, path, err
		}
	}
	return nil, "", fs.ErrNotExist
}

func (s *filesSource) ListFiles() ([]string, error) {
	return slices.Clone(s.paths), nil
}

func (s *filesSource) Open(path string) (io.ReadCloser, error) {
	if !slices.Contains(s.paths, path) {
		return nil, fs.ErrNotExist
	}
	return os.Open(path)
}

// --- FS Source (for embed.FS, testing, http filesystems) ---

type fsSource struct {
	name   string
	fsys   fs.FS
	config sourceConfig

	once  sync.Once
	index map[string]string
	paths []string
	err   error
}

// FS creates a Source backed by an fs.FS (e.g., embed.FS).
// The name prefixes reported paths as "name:path".
// It lazily indexes the filesystem on first use.
func FS(name string, fsys fs.FS, opts ...SourceOption) Source {
	return &fsSource{
		name:   name,
		fsys:   fsys,
		config: defaultSourceConfig(opts),
	}
}

func (s *fsSource) load() error {
	s.once.Do(func() {
		s.err = s.buildIndex()
	})
	return s.err
}

func (s *fsSource) Find(name string) (io.ReadCloser, string, error) {
	if err := s.load(); err != nil {
		return nil, "", err
	}
	path, ok := s.index[name]
	if !ok {
		return nil, "", fs.ErrNotExist
	}
	f, err := s.fsys.Open(path)
	if err != nil {
		return nil, s.name + ":" + path, err
	}
	return f, s.name + ":" + path, nil
}

func (s *fsSource) ListFiles() ([]string, error) {
	if err := s.load(); err != nil {
		return nil, err
	}
	files := make([]string, 0, len(s.paths))
	for _, path := range s.paths {
		files = append(files, s.name+":"+path)
	}
	return files, nil
}

func (s *fsSource) Open(path string) (io.ReadCloser, error) {
	rel, ok := strings.CutPrefix(path, s.name+":")
	if !ok {
		return nil, fs.ErrNotExist
	}
	return s.fsys.Open(rel)
}

func (s *fsSource) buildIndex() error {
	s.index = make(map[string]string)
	return fs.WalkDir(s.fsys, ".", func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if d != nil && d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			return nil
		}
		name, ok := moduleName(path, s.config.extensions)
		if !ok {
			return nil
		}
		if _, exists := s.index[name]; !exists {
			s.index[name] = path
			s.paths = append(s.paths, path)
		}
		return nil
	})
}

// --- Multi Source (combines multiple sources) ---

type multiSource struct {
	sources []Source
}

// Multi combines multiple sources into one.
// Find() tries each source in order, returning the first match.
func Multi(sources ...Source) Source {
	return &multiSource{sources: sources}
}

func (s *multiSource) Find(name string) (io.ReadCloser, string, error) {
	for _, src := range s.sources {
		r, path, err := src.Find(name)
		if err == nil {
			return r, path, nil
		}
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, path, err
		}
	}
	return nil, "", fs.ErrNotExist
}

func (s *multiSource) ListFiles() ([]string, error) {
	var files []string
	for _, src := range s.sources {
		f, err := src.ListFiles()
		if err != nil {
			return nil, err
		}
		files = append(files, f...)
	}
	return files, nil
}

func (s *multiSource) Open(path string) (io.ReadCloser, error) {
	for _, src := range s.sources {
		r, err := src.Open(path)
		if err == nil {
			return r, nil
		}
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
	}
	return nil, fs.ErrNotExist
}

// --- Helpers ---

func checkDir(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	if !info.IsDir() {
		return &os.PathError{Op: "open", Path: path, Err: os.ErrInvalid}
	}
	return nil
}

// moduleName returns the module name a file path stands for and whether
// its extension is one of exts. The longest matching extension is
// removed, so "NGAP-IEs.asn.txt" names NGAP-IEs. A nil exts accepts
// every DefaultExtensions entry and any other extension.
func moduleName(path string, exts []string) (string, bool) {
	base := filepath.Base(path)
	lower := strings.ToLower(base)
	candidates := exts
	if candidates == nil {
		candidates = DefaultExtensions
	}
	best := -1
	for i, ext := range candidates {
		if ext == "" {
			continue
		}
		if strings.HasSuffix(lower, strings.ToLower(ext)) && (best < 0 || len(ext) > len(candidates[best])) {
			best = i
		}
	}
	if best >= 0 {
		return base[:len(base)-len(candidates[best])], true
	}
	if exts == nil {
		return strings.TrimSuffix(base, filepath.Ext(base)), true
	}
	if filepath.Ext(base) == "" && slices.Contains(exts, "") {
		return base, true
	}
	return "", false
}
