package codegen

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/golangsnmp/goaper/schema"
)

// file is the data of the output template.
type file struct {
	Package    string
	Modules    string
	AperImport string
	Values     []constDecl
	Types      []decl
}

type constDecl struct {
	Name  string
	Type  string
	Value int64
}

// decl is one generated Go type. Template selects its layout.
type decl struct {
	Template string
	Name     string
	Comment  string

	// scalar types
	Base   string
	Encode string
	Decode string
	Consts []constDecl

	// ENUMERATED
	RootCount  int
	Extensible bool
	Cases      []enumCase

	// CHOICE
	Lower, Upper int64
	Nothing      string
	Alts         []altDecl
}

type enumCase struct {
	Const    string
	Index    int
	Extended bool
}

type altDecl struct {
	Field    string
	Type     string
	Present  string
	Key      int
	Extended bool
	ASN1     string
}

type generator struct {
	table  *schema.Table
	types  []*schema.Type
	seen   map[schema.QualifiedName]bool
	names  map[schema.QualifiedName]string
	inline map[inlineKey]string
}

// inlineKey names the inline type of one alternative by the Go name of
// the enclosing type.
type inlineKey struct {
	parent string
	alt    string
}

func newGenerator(table *schema.Table) *generator {
	return &generator{
		table:  table,
		seen:   make(map[schema.QualifiedName]bool),
		names:  make(map[schema.QualifiedName]string),
		inline: make(map[inlineKey]string),
	}
}

// collect gathers the types of mods and every type they refer to, then
// assigns Go names. A name defined by more than one collected module is
// prefixed with its module name. An inline alternative type is named
// after its parent and field; when that name is already taken it gets a
// numeric suffix.
func (g *generator) collect(mods []string) error {
	for _, m := range slices.Sorted(slices.Values(mods)) {
		for typ := range g.table.ModuleTypes(m) {
			g.add(typ)
		}
	}
	for i := 0; i < len(g.types); i++ {
		for _, ref := range references(g.types[i]) {
			if g.seen[ref] {
				continue
			}
			typ, ok := g.table.Type(ref)
			if !ok {
				return fmt.Errorf("codegen: %s refers to unknown type %s", g.types[i].Name, ref)
			}
			g.add(typ)
		}
	}

	count := make(map[string]int)
	for _, typ := range g.types {
		count[GoName(typ.Name.Name)]++
	}
	taken := make(map[string]bool)
	for _, typ := range g.types {
		name := GoName(typ.Name.Name)
		if count[name] > 1 {
			name = GoName(typ.Name.Module) + name
		}
		g.names[typ.Name] = name
		taken[name] = true
	}
	for _, typ := range g.types {
		g.nameInline(g.names[typ.Name], typ, taken)
	}
	return nil
}

func (g *generator) nameInline(parent string, typ *schema.Type, taken map[string]bool) {
	for _, alt := range typ.Alternatives {
		if alt.Type.Kind == schema.KindReference {
			continue
		}
		base := parent + GoName(alt.Name)
		name := base
		for i := 2; taken[name]; i++ {
			name = base + strconv.Itoa(i)
		}
		taken[name] = true
		g.inline[inlineKey{parent: parent, alt: alt.Name}] = name
		g.nameInline(name, alt.Type, taken)
	}
}

func (g *generator) add(typ *schema.Type) {
	if !g.seen[typ.Name] {
		g.seen[typ.Name] = true
		g.types = append(g.types, typ)
	}
}

// references returns the named types a CHOICE refers to, including those
// of inline CHOICE alternatives.
func references(typ *schema.Type) []schema.QualifiedName {
	var refs []schema.QualifiedName
	for _, alt := range typ.Alternatives {
		switch {
		case alt.Type.Kind == schema.KindReference:
			refs = append(refs, alt.Type.Ref)
		case alt.Type.Kind == schema.KindChoice:
			refs = append(refs, references(alt.Type)...)
		}
	}
	return refs
}

func (g *generator) file(pkg string, mods []string) (*file, error) {
	f := &file{
		Package:    pkg,
		Modules:    strings.Join(slices.Sorted(slices.Values(mods)), ", "),
		AperImport: AperImport,
	}
	for v := range g.table.Values() {
		if slices.Contains(mods, v.Name.Module) {
			f.Values = append(f.Values, constDecl{Name: GoName(v.Name.Name), Value: v.Int})
		}
	}
	for _, typ := range g.types {
		decls, err := g.decls(g.names[typ.Name], typ)
		if err != nil {
			return nil, err
		}
		f.Types = append(f.Types, decls...)
	}
	return f, nil
}

// decls returns the declaration of typ under name followed by those of
// its inline alternative types.
func (g *generator) decls(name string, typ *schema.Type) ([]decl, error) {
	d := decl{Name: name, Comment: describe(name, typ)}
	var nested []decl

	switch typ.Kind {
	case schema.KindInteger:
		d.Template, d.Base = "scalar", "int64"
		d.Encode, d.Decode = integerCalls(typ.Range)
		for _, nv := range typ.NamedValues {
			d.Consts = append(d.Consts, constDecl{Name: name + GoName(nv.Name), Type: name, Value: nv.Value})
		}
	case schema.KindBoolean:
		d.Template, d.Base = "scalar", "bool"
		d.Encode, d.Decode = "aper.EncodeBoolean(c, bool(v))", "aper.DecodeBoolean(c)"
	case schema.KindNull:
		d.Template = "null"
	case schema.KindBitString:
		d.Template, d.Base = "scalar", "aper.BitString"
		args := sizeArgs(typ.Size)
		d.Encode = "aper.EncodeBitString(c, aper.BitString(v), " + args + ")"
		d.Decode = "aper.DecodeBitString(c, " + args + ")"
	case schema.KindOctetString:
		d.Template, d.Base = "scalar", "[]byte"
		args := sizeArgs(typ.Size)
		d.Encode = "aper.EncodeOctetString(c, v, " + args + ")"
		d.Decode = "aper.DecodeOctetString(c, " + args + ")"
	case schema.KindEnumerated:
		d.Template = "enumerated"
		d.Extensible = typ.Range.Extensible
		for _, it := range typ.Items {
			c := name + GoName(it.Name)
			d.Consts = append(d.Consts, constDecl{Name: c, Type: name, Value: it.Value})
			d.Cases = append(d.Cases, enumCase{Const: c, Index: it.Index, Extended: it.Extended})
			if !it.Extended {
				d.RootCount++
			}
		}
	case schema.KindChoice:
		d.Template = "choice"
		d.Lower, d.Upper = typ.Range.Lower, typ.Range.Upper
		d.Extensible = typ.Range.Extensible
		d.Nothing = name + "PresentNothing"
		for _, alt := range typ.Alternatives {
			field := GoName(alt.Name)
			a := altDecl{
				Field:    field,
				Present:  name + "Present" + field,
				Key:      alt.Key,
				Extended: alt.Extended,
				ASN1:     alt.Name,
			}
			if alt.Type.Kind == schema.KindReference {
				a.Type = g.names[alt.Type.Ref]
			} else {
				a.Type = g.inline[inlineKey{parent: name, alt: alt.Name}]
				inner, err := g.decls(a.Type, alt.Type)
				if err != nil {
					return nil, err
				}
				nested = append(nested, inner...)
			}
			d.Alts = append(d.Alts, a)
		}
	default:
		return nil, fmt.Errorf("codegen: %s: unsupported kind %s", describeName(typ, name), typ.Kind)
	}
	return append([]decl{d}, nested...), nil
}

func integerCalls(r schema.Range) (encode, decode string) {
	ext := strconv.FormatBool(r.Extensible)
	switch {
	case r.Constrained():
		bounds := fmt.Sprintf("%d, %d, %s", r.Lower, r.Upper, ext)
		return "aper.EncodeInteger(c, int64(v), " + bounds + ")", "aper.DecodeInteger(c, " + bounds + ")"
	case r.HasLower:
		bounds := fmt.Sprintf("%d, %s", r.Lower, ext)
		return "aper.EncodeSemiConstrainedInteger(c, int64(v), " + bounds + ")",
			"aper.DecodeSemiConstrainedInteger(c, " + bounds + ")"
	}
	return "aper.EncodeUnconstrainedInteger(c, int64(v), " + ext + ")", "aper.DecodeUnconstrainedInteger(c, " + ext + ")"
}

func sizeArgs(r schema.Range) string {
	ub := "aper.NoBound"
	if r.HasUpper {
		ub = strconv.FormatInt(r.Upper, 10)
	}
	lb := int64(0)
	if r.HasLower {
		lb = r.Lower
	}
	return fmt.Sprintf("%d, %s, %t", lb, ub, r.Extensible)
}

func describeName(typ *schema.Type, name string) string {
	if typ.Name.IsZero() {
		return name
	}
	return typ.Name.String()
}

// describe builds the doc comment of a generated type.
func describe(name string, typ *schema.Type) string {
	var b strings.Builder
	b.WriteString(name)
	if typ.Name.IsZero() {
		b.WriteString(" is an inline ")
	} else {
		b.WriteString(" is ")
		b.WriteString(typ.Name.String())
		b.WriteString(", ")
	}
	b.WriteString(typ.Kind.String())
	switch typ.Kind {
	case schema.KindInteger:
		b.WriteString(" (" + typ.Range.String() + ")")
	case schema.KindBitString, schema.KindOctetString:
		if typ.Size.HasLower || typ.Size.HasUpper {
			b.WriteString(" (SIZE(" + typ.Size.String() + "))")
		}
	}
	b.WriteString(".")
	return b.String()
}
