package goaper

import (
	"bufio"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/golangsnmp/goaper/internal/types"
)

// WithSystemPaths enables automatic discovery of ASN.1 search paths from
// configuration files and the GOAPER_PATH and ASN1PATH environment
// variables. Discovered paths are appended after any explicit source,
// serving as fallback. When source is nil and WithSystemPaths is set,
// system paths alone are sufficient.
func WithSystemPaths() Option {
	return func(c *config) { c.systemPaths = true }
}

type pathOp int

const (
	pathReplace pathOp = iota
	pathAppend
	pathPrepend
)

// DiscoverSystemPaths returns the ASN.1 directories WithSystemPaths
// would search, deduplicated and filtered to directories that exist.
func DiscoverSystemPaths() []string {
	return discoverSystemPaths(types.Logger{})
}

// discoverSystemSources returns Sources for all discovered system directories.
func discoverSystemSources(logger types.Logger) []Source {
	var sources []Source
	for _, d := range discoverSystemPaths(logger) {
		if src, err := Dir(d); err == nil {
			sources = append(sources, src)
		}
	}
	return sources
}

// discoverSystemPaths applies, in order, the defaults, the config files,
// ASN1PATH and GOAPER_PATH.
func discoverSystemPaths(logger types.Logger) []string {
	paths := defaultPaths()
	for _, cf := range configFiles() {
		paths = applyConfigFile(cf, paths, parseConfigLine, logger)
	}
	if v := os.Getenv("ASN1PATH"); v != "" {
		op, dirs := parseColonSemantic(v)
		paths = applyOp(op, dirs, paths)
	}
	if v := os.Getenv("GOAPER_PATH"); v != "" {
		paths = applySignedValue(v, paths)
	}
	paths = filterExistingDirs(dedup(paths))
	logger.Log(slog.LevelDebug, "search paths discovered", slog.Int("paths", len(paths)))
	return paths
}

func defaultPaths() []string {
	var paths []string
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(home, ".goaper", "asn1"))
	}
	paths = append(paths,
		"/usr/share/asn1",
		"/usr/local/share/asn1",
	)
	return paths
}

func configFiles() []string {
	files := []string{"/etc/goaper.conf"}
	if dir, err := os.UserConfigDir(); err == nil {
		files = append(files, filepath.Join(dir, "goaper", "goaper.conf"))
	}
	return files
}

// parseConfigLine parses a single goaper.conf line for asn1dirs directives.
// Supports both "asn1dirs +/path" (prefix on value) and "+asn1dirs /path" (prefix on directive).
func parseConfigLine(line string) (pathOp, []string, bool) {
	line = strings.TrimSpace(line)
	if line == "" || line[0] == '#' {
		return 0, nil, false
	}

	fields := strings.Fields(line)
	if len(fields) < 2 {
		return 0, nil, false
	}

	switch value := fields[1]; fields[0] {
	case "asn1dirs":
		op, dirs := parseSignedValue(value)
		return op, dirs, true
	case "+asn1dirs":
		return pathAppend, splitPaths(value), true
	case "-asn1dirs":
		return pathPrepend, splitPaths(value), true
	default:
		return 0, nil, false
	}
}

// parseSignedValue interprets a leading + as append and a leading - as
// prepend.
func parseSignedValue(value string) (pathOp, []string) {
	if rest, ok := strings.CutPrefix(value, "+"); ok {
		return pathAppend, splitPaths(rest)
	}
	if rest, ok := strings.CutPrefix(value, "-"); ok {
		return pathPrepend, splitPaths(rest)
	}
	return pathReplace, splitPaths(value)
}

func applySignedValue(value string, current []string) []string {
	op, dirs := parseSignedValue(value)
	return applyOp(op, dirs, current)
}

// parseColonSemantic interprets leading/trailing colon semantics.
// Leading colon = append, trailing colon = prepend, neither = replace.
func parseColonSemantic(value string) (pathOp, []string) {
	if strings.HasPrefix(value, ":") {
		return pathAppend, splitPaths(strings.TrimPrefix(value, ":"))
	}
	if strings.HasSuffix(value, ":") {
		return pathPrepend, splitPaths(strings.TrimSuffix(value, ":"))
	}
	return pathReplace, splitPaths(value)
}

func applyOp(op pathOp, dirs, current []string) []string {
	switch op {
	case pathAppend:
		return append(current, dirs...)
	case pathPrepend:
		return append(dirs, current...)
	default:
		return dirs
	}
}

func applyConfigFile(path string, current []string, parseLine func(string) (pathOp, []string, bool), logger types.Logger) []string {
	f, err := os.Open(path)
	if err != nil {
		return current
	}
	defer f.Close() //nolint:errcheck // best-effort config file read

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		op, dirs, ok := parseLine(scanner.Text())
		if !ok {
			continue
		}
		current = applyOp(op, dirs, current)
	}
	if err := scanner.Err(); err != nil {
		logger.Log(slog.LevelDebug, "error reading config file", slog.String("path", path), slog.Any("error", err))
	}
	return current
}

func splitPaths(s string) []string {
	if s == "" {
		return nil
	}
	var result []string
	for _, p := range strings.Split(s, ":") {
		if p != "" {
			result = append(result, p)
		}
	}
	return result
}

func dedup(paths []string) []string {
	seen := make(map[string]struct{}, len(paths))
	var result []string
	for _, p := range paths {
		if _, ok := seen[p]; !ok {
			seen[p] = struct{}{}
			result = append(result, p)
		}
	}
	return result
}

func filterExistingDirs(paths []string) []string {
	var result []string
	for _, p := range paths {
		info, err := os.Stat(p)
		if err == nil && info.IsDir() {
			result = append(result, p)
		}
	}
	return result
}
