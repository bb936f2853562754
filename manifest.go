package goaper

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml"

	"github.com/golangsnmp/goaper/codegen"
)

// ManifestFileName is the name of a project manifest.
const ManifestFileName = "goaper.toml"

// Manifest is a project manifest:
//
//	[schema]
//	paths = ["asn1"]
//	modules = ["NGAP-PDU-Descriptions"]
//	system-paths = false
//
//	[generate]
//	package = "ngap"
//	output = "ngap/ngap_gen.go"
//	modules = ["NGAP-PDU-Descriptions"]
//
// Relative paths are taken relative to the manifest's directory.
type Manifest struct {
	Schema   SchemaConfig   `toml:"schema"`
	Generate GenerateConfig `toml:"generate"`

	// Dir is the directory holding the manifest.
	Dir string `toml:"-"`
}

// SchemaConfig selects the ASN.1 sources of a project.
type SchemaConfig struct {
	Paths       []string `toml:"paths"`
	Modules     []string `toml:"modules"`
	SystemPaths bool     `toml:"system-paths"`
}

// GenerateConfig controls code generation.
type GenerateConfig struct {
	Package string   `toml:"package"`
	Output  string   `toml:"output"`
	Modules []string `toml:"modules"`
}

// LoadManifest reads and validates the manifest at path.
func LoadManifest(path string) (*Manifest, error) {
	tree, err := toml.LoadFile(path)
	if err != nil {
		return nil, fmt.Errorf("manifest %s: %w", path, err)
	}
	m := &Manifest{}
	if err := tree.Unmarshal(m); err != nil {
		return nil, fmt.Errorf("manifest %s: %w", path, err)
	}
	m.Dir = filepath.Dir(path)
	if len(m.Schema.Paths) == 0 && !m.Schema.SystemPaths {
		return nil, fmt.Errorf("manifest %s: [schema] lists no paths", path)
	}
	return m, nil
}

// FindManifest looks for a manifest in dir and its parents and returns
// its path.
func FindManifest(dir string) (string, error) {
	dir, err := filepath.Abs(dir)
	if err != nil {
		return "", err
	}
	for {
		path := filepath.Join(dir, ManifestFileName)
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			return path, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", fmt.Errorf("%s: %w", ManifestFileName, fs.ErrNotExist)
		}
		dir = parent
	}
}

func (m *Manifest) resolve(path string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(m.Dir, path)
}

// Source returns a source over the manifest's schema paths. Directories
// are indexed recursively; files are used as listed.
func (m *Manifest) Source() (Source, error) {
	var sources []Source
	var files []string
	for _, p := range m.Schema.Paths {
		path := m.resolve(p)
		info, err := os.Stat(path)
		if err != nil {
			return nil, err
		}
		if !info.IsDir() {
			files = append(files, path)
			continue
		}
		src, err := DirTree(path)
		if err != nil {
			return nil, err
		}
		sources = append(sources, src)
	}
	if len(files) > 0 {
		sources = append([]Source{Files(files...)}, sources...)
	}
	if len(sources) == 0 {
		return nil, nil
	}
	return Multi(sources...), nil
}

// OutputPath returns the resolved path of the generated file, or "" when
// the manifest names none.
func (m *Manifest) OutputPath() string {
	return m.resolve(m.Generate.Output)
}

// GenerateOptions returns the code generation options of the manifest.
func (m *Manifest) GenerateOptions() codegen.Options {
	return codegen.Options{
		Package: m.Generate.Package,
		Modules: m.Generate.Modules,
	}
}

// Load loads the manifest's schema. With [schema] modules it loads those
// modules and their imports, otherwise every module of the sources.
func (m *Manifest) Load(ctx context.Context, opts ...Option) (*Compiler, error) {
	src, err := m.Source()
	if err != nil {
		return nil, err
	}
	if m.Schema.SystemPaths {
		opts = append(opts, WithSystemPaths())
	}
	if len(m.Schema.Modules) > 0 {
		return LoadModules(ctx, m.Schema.Modules, src, opts...)
	}
	c, err := Load(ctx, src, opts...)
	if errors.Is(err, ErrNoSources) {
		return nil, fmt.Errorf("manifest: %w", err)
	}
	return c, err
}
