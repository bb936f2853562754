package main

import (
	"encoding/hex"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/kr/pretty"

	"github.com/golangsnmp/goaper/cmd/internal/cliutil"
	"github.com/golangsnmp/goaper/schema"
)

const decodeUsage = `goaper decode - Decode APER bytes as a named type

Usage:
  goaper decode [options] -t Module.Type HEX...

The hex arguments are joined; spaces and colons are ignored. The decoded
value is printed with Go syntax: INTEGER as int64, CHOICE as
binding.Choice, ENUMERATED as binding.Enumerated.

Options:
  -t TYPE       Qualified type name (required)
  -h, --help    Show help

Examples:
  goaper decode -p asn1 -t NGAP-IEs.Cause 0a
  goaper decode -p asn1 -t NGAP-IEs.TAC "00 01 02"
`

func (c *cli) cmdDecode(args []string) int {
	fs := flag.NewFlagSet("decode", flag.ContinueOnError)
	fs.Usage = func() { fmt.Fprint(os.Stderr, decodeUsage) }

	typeName := fs.String("t", "", "qualified type name")
	help := fs.Bool("h", false, "show help")
	fs.BoolVar(help, "help", false, "show help")

	if err := fs.Parse(args); err != nil {
		return exitError
	}

	if *help || c.HelpFlag {
		_, _ = fmt.Fprint(os.Stdout, decodeUsage)
		return exitOK
	}

	q := schema.ParseQualifiedName(*typeName)
	if q.Module == "" || q.Name == "" {
		printError("-t needs a qualified name such as Module.Type")
		fmt.Fprint(os.Stderr, decodeUsage)
		return exitError
	}

	data, err := parseHex(strings.Join(fs.Args(), ""))
	if err != nil {
		printError("%v", err)
		return exitError
	}

	comp, err := c.load([]string{q.Module})
	if err != nil {
		cliutil.PrintErrors(err)
		return exitError
	}
	b, err := comp.Binder()
	if err != nil {
		printError("%v", err)
		return exitError
	}

	v, err := b.Unmarshal(q, data)
	if err != nil {
		printError("%v", err)
		return exitError
	}
	fmt.Printf("%# v\n", pretty.Formatter(v))
	return exitOK
}

func parseHex(s string) ([]byte, error) {
	s = strings.NewReplacer(" ", "", ":", "", "\t", "", "\n", "").Replace(s)
	s = strings.TrimPrefix(strings.TrimPrefix(s, "0x"), "0X")
	if s == "" {
		return nil, fmt.Errorf("no data to decode")
	}
	data, err := hex.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("invalid hex: %w", err)
	}
	return data, nil
}
