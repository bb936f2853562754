// Command goaper is a CLI tool for checking ASN.1 modules, dumping their
// resolved types, generating APER codecs and decoding APER data.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"runtime/debug"

	"github.com/golangsnmp/goaper"
	"github.com/golangsnmp/goaper/cmd/internal/cliutil"
)

// Exit codes.
const (
	exitOK    = 0 // success
	exitError = 1 // user error or processing failure
)

const usage = `goaper - ASN.1 compiler and APER codec tool

Usage:
  goaper <command> [options] [arguments]

Commands:
  check   Load and resolve ASN.1 modules
  dump    Output resolved types as JSON
  gen     Generate Go APER codecs
  decode  Decode APER bytes as a named type
  paths   Show ASN.1 search paths
  version Show version

Common options:
  -p, --path PATH   Add ASN.1 search path (repeatable)
  -v, --verbose     Enable debug logging
  -vv               Enable trace logging (implies -v)
  --no-color        Disable styled output
  -h, --help        Show help

Without -p, modules are searched in the system paths (GOAPER_PATH,
ASN1PATH, /usr/share/asn1).

Examples:
  goaper check -p asn1 NGAP-PDU-Descriptions
  goaper dump -p asn1 NGAP-IEs
  goaper gen -p asn1 -pkg ngap -o ngap/ngap_gen.go NGAP-IEs
  goaper decode -p asn1 -t NGAP-IEs.Cause 0a
  goaper paths
`

type cli struct {
	cliutil.Flags
}

func main() {
	os.Exit(run())
}

func run() int {
	flags, cmd, cmdArgs := cliutil.ParseArgs(os.Args[1:])
	c := cli{Flags: flags}
	if c.NoColor {
		cliutil.DisableColor()
	}

	if c.HelpFlag && cmd == "" {
		_, _ = fmt.Fprint(os.Stdout, usage)
		return exitOK
	}

	if cmd == "" {
		_, _ = fmt.Fprint(os.Stderr, usage)
		return exitError
	}

	switch cmd {
	case "check":
		return c.cmdCheck(cmdArgs)
	case "dump":
		return c.cmdDump(cmdArgs)
	case "gen":
		return c.cmdGen(cmdArgs)
	case "decode":
		return c.cmdDecode(cmdArgs)
	case "paths":
		return c.cmdPaths(cmdArgs)
	case "version":
		printVersion()
		return exitOK
	case "help":
		_, _ = fmt.Fprint(os.Stdout, usage)
		return exitOK
	default:
		_, _ = fmt.Fprintf(os.Stderr, "unknown command: %s\n\n", cmd)
		_, _ = fmt.Fprint(os.Stderr, usage)
		return exitError
	}
}

func (c *cli) setupLogger() *slog.Logger {
	if c.Verbose == 0 {
		return nil
	}
	level := slog.LevelDebug
	if c.Verbose >= 2 {
		level = goaper.LevelTrace
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
}

// buildSource returns the composed source from -p paths. Returns
// (nil, true) when no explicit paths are set, indicating that
// WithSystemPaths() should be used instead.
func (c *cli) buildSource() (goaper.Source, bool, error) {
	if len(c.Paths) == 0 {
		return nil, true, nil
	}
	var sources []goaper.Source
	for _, p := range c.Paths {
		info, err := os.Stat(p)
		switch {
		case err != nil:
			cliutil.PrintWarning("cannot access path %s: %v", p, err)
		case info.IsDir():
			src, err := goaper.DirTree(p)
			if err != nil {
				cliutil.PrintWarning("cannot index path %s: %v", p, err)
				continue
			}
			sources = append(sources, src)
		default:
			sources = append(sources, goaper.Files(p))
		}
	}
	if len(sources) == 0 {
		return nil, false, goaper.ErrNoSources
	}
	return goaper.Multi(sources...), false, nil
}

// load compiles the named modules and their imports, or every module of
// the sources when modules is empty.
func (c *cli) load(modules []string) (*goaper.Compiler, error) {
	src, useSystem, err := c.buildSource()
	if err != nil {
		return nil, err
	}

	var opts []goaper.Option
	if useSystem {
		opts = append(opts, goaper.WithSystemPaths())
	}
	if logger := c.setupLogger(); logger != nil {
		opts = append(opts, goaper.WithLogger(logger))
	}

	ctx := context.Background()
	if len(modules) > 0 {
		return goaper.LoadModules(ctx, modules, src, opts...)
	}
	return goaper.Load(ctx, src, opts...)
}

func printVersion() {
	version := "(devel)"
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" {
		version = info.Main.Version
	}
	fmt.Printf("goaper %s\n", version)
}

func printError(format string, args ...any) {
	cliutil.PrintError(format, args...)
}
