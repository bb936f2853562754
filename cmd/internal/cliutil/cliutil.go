// Package cliutil provides shared CLI utilities for goaper command-line tools.
package cliutil

import (
	"fmt"
	"os"
	"strings"

	"github.com/pterm/pterm"
)

var (
	SuccessColorFG = pterm.FgLightGreen
	SuccessStyleBG = pterm.NewStyle(pterm.BgLightGreen, pterm.FgBlack)
	WarnColorFG    = pterm.FgYellow
	WarnStyleBG    = pterm.NewStyle(pterm.BgYellow, pterm.FgBlack)
	ErrorColorFG   = pterm.FgRed
	ErrorStyleBG   = pterm.NewStyle(pterm.BgRed, pterm.FgWhite)
)

// Flags holds the global flags shared by every subcommand.
type Flags struct {
	Paths    []string
	Verbose  int
	HelpFlag bool
	NoColor  bool
}

// ParseArgs parses global flags and extracts the subcommand from args.
// Flags handled: -p/--path, -v/--verbose, -vv, --no-color, -h/--help.
// Unrecognized flags are passed through to the subcommand.
func ParseArgs(args []string) (flags Flags, cmd string, cmdArgs []string) {
	for i := 0; i < len(args); i++ {
		arg := args[i]
		switch {
		case arg == "-h" || arg == "--help":
			flags.HelpFlag = true
		case arg == "-v" || arg == "--verbose":
			flags.Verbose = max(flags.Verbose, 1)
		case arg == "-vv":
			flags.Verbose = 2
		case arg == "--no-color":
			flags.NoColor = true
		case arg == "-p" || arg == "--path":
			if i+1 < len(args) {
				i++
				flags.Paths = append(flags.Paths, args[i])
			}
		case strings.HasPrefix(arg, "--path="):
			flags.Paths = append(flags.Paths, arg[7:])
		case strings.HasPrefix(arg, "-p") && !strings.HasPrefix(arg, "-pkg"):
			flags.Paths = append(flags.Paths, arg[2:])
		case len(arg) > 0 && arg[0] == '-':
			cmdArgs = append(cmdArgs, arg)
			// A subcommand flag given as "-flag value" keeps its value.
			if !strings.Contains(arg, "=") && i+1 < len(args) && takesValue(arg) {
				i++
				cmdArgs = append(cmdArgs, args[i])
			}
		default:
			if cmd == "" {
				cmd = arg
			} else {
				cmdArgs = append(cmdArgs, arg)
			}
		}
	}
	return
}

// valueFlags are the subcommand flags that take a separate value.
var valueFlags = []string{"-pkg", "-o", "-t", "-config"}

func takesValue(arg string) bool {
	for _, f := range valueFlags {
		if arg == f || arg == "-"+f {
			return true
		}
	}
	return false
}

// GetOutput opens the output file or returns stdout.
func GetOutput(outputFile string) (*os.File, func(), error) {
	if outputFile == "" {
		return os.Stdout, func() {}, nil
	}
	f, err := os.Create(outputFile)
	if err != nil {
		return nil, nil, err
	}
	return f, func() { _ = f.Close() }, nil
}

// DisableColor turns off styled output.
func DisableColor() {
	pterm.DisableColor()
}

// PrintError writes a formatted error message to stderr.
func PrintError(format string, args ...any) {
	fmt.Fprintln(os.Stderr, ErrorStyleBG.Sprint("error")+ErrorColorFG.Sprint(" "+fmt.Sprintf(format, args...)))
}

// PrintErrors prints err, one line per entry of a joined error.
func PrintErrors(err error) {
	if joined, ok := err.(interface{ Unwrap() []error }); ok {
		for _, e := range joined.Unwrap() {
			PrintErrors(e)
		}
		return
	}
	PrintError("%v", err)
}

// PrintWarning writes a formatted warning to stderr.
func PrintWarning(format string, args ...any) {
	fmt.Fprintln(os.Stderr, WarnStyleBG.Sprint("warning")+WarnColorFG.Sprint(" "+fmt.Sprintf(format, args...)))
}

// PrintSuccess writes a formatted success message to stdout.
func PrintSuccess(format string, args ...any) {
	fmt.Println(SuccessStyleBG.Sprint("ok") + SuccessColorFG.Sprint(" "+fmt.Sprintf(format, args...)))
}
