package main

import (
	"flag"
	"fmt"
	"os"
	"slices"

	"github.com/davecgh/go-spew/spew"

	"github.com/golangsnmp/goaper/cmd/internal/cliutil"
)

const dumpUsage = `goaper dump - Output resolved types as JSON

Usage:
  goaper dump [options] MODULE...

Only the named modules are printed; the modules they import are loaded
and resolved but not shown.

Options:
  --raw         Print the descriptors with Go syntax instead of JSON
  --compact     Minified JSON (no indentation)
  -h, --help    Show help

Examples:
  goaper dump -p asn1 NGAP-IEs
  goaper dump -p asn1 --raw NGAP-IEs
  goaper dump -p asn1 NGAP-IEs | jq '.modules[0].types'
`

var rawConfig = spew.ConfigState{
	Indent:                  "  ",
	DisablePointerAddresses: true,
	DisableCapacities:       true,
	SortKeys:                true,
}

func (c *cli) cmdDump(args []string) int {
	fs := flag.NewFlagSet("dump", flag.ContinueOnError)
	fs.Usage = func() { fmt.Fprint(os.Stderr, dumpUsage) }

	raw := fs.Bool("raw", false, "print Go syntax")
	compact := fs.Bool("compact", false, "minified JSON")
	help := fs.Bool("h", false, "show help")
	fs.BoolVar(help, "help", false, "show help")

	if err := fs.Parse(args); err != nil {
		return exitError
	}

	if *help || c.HelpFlag {
		_, _ = fmt.Fprint(os.Stdout, dumpUsage)
		return exitOK
	}

	modules := fs.Args()
	if len(modules) == 0 {
		printError("no modules specified")
		fmt.Fprint(os.Stderr, dumpUsage)
		return exitError
	}

	comp, err := c.load(modules)
	if err != nil {
		cliutil.PrintErrors(err)
		return exitError
	}
	for _, m := range modules {
		if !slices.Contains(slices.Collect(comp.Modules()), m) {
			printError("module %s not found", m)
			return exitError
		}
	}

	output := buildDumpOutput(comp, modules)
	if *raw {
		rawConfig.Fdump(os.Stdout, output)
		return exitOK
	}

	data, err := marshalJSON(output, !*compact)
	if err != nil {
		printError("failed to marshal JSON: %v", err)
		return exitError
	}
	_, _ = os.Stdout.Write(data)
	fmt.Println()
	return exitOK
}
