// Package codegen emits Go source with APER encoders and decoders for
// resolved schema types.
//
// Each type becomes a named Go type with EncodeAPER and DecodeAPER
// methods, so generated values satisfy aper.Encoder and aper.Decoder:
//
//	INTEGER       int64, named values as constants
//	BOOLEAN       bool
//	NULL          struct{}
//	ENUMERATED    int, one constant per item holding its value
//	BIT STRING    aper.BitString
//	OCTET STRING  []byte
//	CHOICE        struct with Present and one pointer per alternative
//
// Inline alternative types get a name derived from the CHOICE and the
// alternative. Types outside the selected modules that a CHOICE refers
// to are generated as well.
package codegen

import (
	"bytes"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"unicode"

	"golang.org/x/tools/imports"

	"github.com/golangsnmp/goaper/internal/types"
	"github.com/golangsnmp/goaper/schema"
)

// AperImport is the import path generated code uses for the codec.
const AperImport = "github.com/golangsnmp/goaper/aper"

// Options configures Generate.
type Options struct {
	// Package is the package clause of the output. Defaults to "asn1".
	Package string
	// Modules selects the modules to generate. Empty means every module
	// of the table.
	Modules []string
	// Logger receives debug output. Nil disables logging.
	Logger *slog.Logger
}

// Generate returns formatted Go source for the selected modules.
func Generate(table *schema.Table, opts Options) ([]byte, error) {
	log := types.Logger{L: types.Component(opts.Logger, "codegen")}

	pkg := opts.Package
	if pkg == "" {
		pkg = "asn1"
	}
	if !isIdentifier(pkg) {
		return nil, fmt.Errorf("codegen: invalid package name %q", pkg)
	}

	mods := opts.Modules
	if len(mods) == 0 {
		mods = table.Modules()
	}
	for _, m := range mods {
		if !slices.Contains(table.Modules(), m) {
			return nil, fmt.Errorf("codegen: module %s not found", m)
		}
	}

	g := newGenerator(table)
	if err := g.collect(mods); err != nil {
		return nil, err
	}
	f, err := g.file(pkg, mods)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := fileTemplate.Execute(&buf, f); err != nil {
		return nil, fmt.Errorf("codegen: %w", err)
	}
	out, err := imports.Process("generated.go", buf.Bytes(), &imports.Options{
		Comments:  true,
		TabIndent: true,
		TabWidth:  8,
	})
	if err != nil {
		return nil, fmt.Errorf("codegen: formatting output: %w", err)
	}

	log.Log(slog.LevelDebug, "generated",
		slog.String("package", pkg),
		slog.Int("types", len(f.Types)),
		slog.Int("values", len(f.Values)),
		slog.Int("bytes", len(out)))
	return out, nil
}

// GoName converts an ASN.1 reference such as "handover-cancelled" into an
// exported Go identifier, "HandoverCancelled".
func GoName(name string) string {
	var b strings.Builder
	upper := true
	for _, r := range name {
		if r == '-' || r == '_' {
			upper = true
			continue
		}
		if upper {
			r = unicode.ToUpper(r)
			upper = false
		}
		b.WriteRune(r)
	}
	return b.String()
}

func isIdentifier(s string) bool {
	for i, r := range s {
		if !unicode.IsLetter(r) && r != '_' && (i == 0 || !unicode.IsDigit(r)) {
			return false
		}
	}
	return s != ""
}
