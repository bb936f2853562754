package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/golangsnmp/goaper"
	"github.com/golangsnmp/goaper/cmd/internal/cliutil"
)

const checkUsage = `goaper check - Load and resolve ASN.1 modules

Usage:
  goaper check [options] [MODULE...]

Loads the named modules and the modules they import, checks imports and
resolves every definition. Without modules, every module found in the
search paths is checked.

Options:
  --stats       Show per-module counts
  -h, --help    Show help

Examples:
  goaper check -p asn1 NGAP-PDU-Descriptions
  goaper check -p asn1 --stats
  goaper check -v -p asn1 NGAP-IEs      # Debug logging
`

func (c *cli) cmdCheck(args []string) int {
	fs := flag.NewFlagSet("check", flag.ContinueOnError)
	fs.Usage = func() { fmt.Fprint(os.Stderr, checkUsage) }

	stats := fs.Bool("stats", false, "show per-module counts")
	help := fs.Bool("h", false, "show help")
	fs.BoolVar(help, "help", false, "show help")

	if err := fs.Parse(args); err != nil {
		return exitError
	}

	if *help || c.HelpFlag {
		_, _ = fmt.Fprint(os.Stdout, checkUsage)
		return exitOK
	}

	comp, err := c.load(fs.Args())
	if err != nil {
		cliutil.PrintErrors(err)
		return exitError
	}

	table := comp.Table()
	if *stats {
		printStats(comp, table)
	}

	var modules, values int
	for range comp.Modules() {
		modules++
	}
	for range table.Values() {
		values++
	}
	cliutil.PrintSuccess("Compiled %d modules (%d types, %d values)", modules, table.Len()-values, values)
	return exitOK
}

func printStats(comp *goaper.Compiler, table *goaper.Table) {
	fmt.Println("Modules:")
	for name := range comp.Modules() {
		var n int
		for range table.ModuleTypes(name) {
			n++
		}
		path := ""
		if mod, ok := comp.Module(name); ok && mod.Path != "" {
			path = "  " + mod.Path
		}
		fmt.Printf("  %-32s %4d types%s\n", name, n, path)
	}
	fmt.Println()
}
