package main

import (
	"encoding/json"

	"github.com/golangsnmp/goaper"
)

// DumpOutput is the top-level JSON output for the dump command.
type DumpOutput struct {
	Modules []ModuleJSON `json:"modules"`
}

// ModuleJSON holds the resolved definitions of one module.
type ModuleJSON struct {
	Name       string          `json:"name"`
	SourcePath string          `json:"sourcePath,omitempty"`
	Imports    []ImportJSON    `json:"imports,omitempty"`
	Types      []*goaper.Type  `json:"types,omitempty"`
	Values     []*goaper.Value `json:"values,omitempty"`
}

// ImportJSON is one imported name.
type ImportJSON struct {
	Name string `json:"name"`
	From string `json:"from"`
}

func buildDumpOutput(comp *goaper.Compiler, modules []string) DumpOutput {
	table := comp.Table()
	var out DumpOutput
	for _, name := range modules {
		m := ModuleJSON{Name: name}
		if mod, ok := comp.Module(name); ok {
			m.SourcePath = mod.Path
			for _, imp := range mod.ImportNames() {
				m.Imports = append(m.Imports, ImportJSON{Name: imp, From: mod.Imports[imp]})
			}
		}
		for typ := range table.ModuleTypes(name) {
			m.Types = append(m.Types, typ)
		}
		for v := range table.Values() {
			if v.Name.Module == name {
				m.Values = append(m.Values, v)
			}
		}
		out.Modules = append(out.Modules, m)
	}
	return out
}

func marshalJSON(v any, indent bool) ([]byte, error) {
	if indent {
		return json.MarshalIndent(v, "", "  ")
	}
	return json.Marshal(v)
}
