package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/pmezard/go-difflib/difflib"

	"github.com/golangsnmp/goaper"
	"github.com/golangsnmp/goaper/cmd/internal/cliutil"
	"github.com/golangsnmp/goaper/codegen"
)

const genUsage = `goaper gen - Generate Go APER codecs

Usage:
  goaper gen [options] [MODULE...]

Generates one Go file with a type, EncodeAPER and DecodeAPER for every
definition of the named modules and every type they refer to. Without
modules and -p paths the project manifest (goaper.toml, searched upward
from the current directory) supplies the schema and the output settings.

Options:
  -pkg NAME       Package name of the generated file (default asn1)
  -o FILE         Write to FILE instead of stdout
  -d              Print a unified diff against FILE instead of writing it
  -config FILE    Read settings from a manifest
  -h, --help      Show help

Examples:
  goaper gen -p asn1 -pkg ngap NGAP-IEs
  goaper gen -p asn1 -pkg ngap -o ngap/ngap_gen.go NGAP-IEs
  goaper gen -config goaper.toml -d
`

type genSettings struct {
	comp   *goaper.Compiler
	opts   codegen.Options
	output string
}

func (c *cli) cmdGen(args []string) int {
	set := flag.NewFlagSet("gen", flag.ContinueOnError)
	set.Usage = func() { fmt.Fprint(os.Stderr, genUsage) }

	pkg := set.String("pkg", "", "package name")
	output := set.String("o", "", "output file")
	diff := set.Bool("d", false, "diff against the output file")
	configPath := set.String("config", "", "manifest file")
	help := set.Bool("h", false, "show help")
	set.BoolVar(help, "help", false, "show help")

	if err := set.Parse(args); err != nil {
		return exitError
	}

	if *help || c.HelpFlag {
		_, _ = fmt.Fprint(os.Stdout, genUsage)
		return exitOK
	}

	settings, err := c.genSettings(*configPath, set.Args())
	if err != nil {
		cliutil.PrintErrors(err)
		return exitError
	}
	if *pkg != "" {
		settings.opts.Package = *pkg
	}
	if *output != "" {
		settings.output = *output
	}
	if len(set.Args()) > 0 {
		settings.opts.Modules = set.Args()
	}

	src, err := settings.comp.Generate(settings.opts)
	if err != nil {
		printError("%v", err)
		return exitError
	}

	if *diff {
		return showDiff(settings.output, src)
	}
	return writeOutput(settings.output, src)
}

// genSettings loads the schema from -p paths, or from a manifest when
// -config is given or neither paths nor modules are.
func (c *cli) genSettings(configPath string, modules []string) (*genSettings, error) {
	if configPath == "" && len(modules) == 0 && len(c.Paths) == 0 {
		found, err := goaper.FindManifest(".")
		if err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
		configPath = found
	}

	if configPath == "" {
		comp, err := c.load(modules)
		if err != nil {
			return nil, err
		}
		return &genSettings{comp: comp, opts: codegen.Options{Modules: modules}}, nil
	}

	m, err := goaper.LoadManifest(configPath)
	if err != nil {
		return nil, err
	}
	var opts []goaper.Option
	if logger := c.setupLogger(); logger != nil {
		opts = append(opts, goaper.WithLogger(logger))
	}
	comp, err := m.Load(context.Background(), opts...)
	if err != nil {
		return nil, err
	}
	return &genSettings{comp: comp, opts: m.GenerateOptions(), output: m.OutputPath()}, nil
}

func showDiff(path string, src []byte) int {
	if path == "" {
		printError("-d needs an output file")
		return exitError
	}
	current, err := os.ReadFile(path)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		printError("%v", err)
		return exitError
	}

	text, err := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        difflib.SplitLines(string(current)),
		B:        difflib.SplitLines(string(src)),
		FromFile: path,
		ToFile:   path + " (generated)",
		Context:  3,
	})
	if err != nil {
		printError("%v", err)
		return exitError
	}
	if text == "" {
		cliutil.PrintSuccess("%s is up to date", path)
		return exitOK
	}
	fmt.Print(text)
	return exitError
}

func writeOutput(path string, src []byte) int {
	if path != "" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			printError("%v", err)
			return exitError
		}
	}
	out, closeOut, err := cliutil.GetOutput(path)
	if err != nil {
		printError("%v", err)
		return exitError
	}
	defer closeOut()

	if _, err := out.Write(src); err != nil {
		printError("%v", err)
		return exitError
	}
	if path != "" {
		cliutil.PrintSuccess("wrote %s", path)
	}
	return exitOK
}
