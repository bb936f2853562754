package parser

import (
	"errors"
	"testing"

	"github.com/golangsnmp/goaper/internal/ast"
	"github.com/golangsnmp/goaper/internal/lexer"
	"github.com/golangsnmp/goaper/internal/testutil"
	"github.com/golangsnmp/goaper/schema"
)

func tokenize(t *testing.T, src string) []lexer.Token {
	t.Helper()
	tokens, err := lexer.Tokenize([]byte(src), nil)
	testutil.NoError(t, err, "tokenize %q", src)
	return tokens
}

func TestParseInteger(t *testing.T) {
	tests := []struct {
		input      string
		success    bool
		hasValues  bool
		valueCount int
		consumed   int
	}{
		{"INTEGER", true, false, 0, 1},
		{"INTEGER {a(1)}", true, true, 1, 7},
		{"INTEGER {a(1), b(-10) }", true, true, 2, 12},
		{"INTEGER {a(1), b(c) }", true, true, 2, 12},
		{"INTEGER {a(1)}, b", true, true, 1, 7},
		{"INTEGER {a(1), a(2)}", true, true, 2, 12},
		{"INTEGER (0..255)", true, false, 0, 6},
		{"INTEGER {a(1)} (0..7, ...)", true, true, 1, 14},
		{"INTEGER {a()}", false, false, 0, 0},
		{"INTEGER {a(1), b}", false, false, 0, 0},
		{"INTEGER {a(1)", false, false, 0, 0},
		{"INTEGER {}", false, false, 0, 0},
		{"BOOLEAN", false, false, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			typ, consumed, err := ParseInteger(tokenize(t, tt.input))
			testutil.Equal(t, tt.success, err == nil, "success (err=%v)", err)
			testutil.Equal(t, tt.consumed, consumed, "tokens consumed")
			if !tt.success {
				testutil.True(t, typ == nil, "failed parse returns no node")
				return
			}
			testutil.Equal(t, tt.hasValues, typ.NamedValues != nil, "named values present")
			testutil.Len(t, typ.NamedValues, tt.valueCount, "named values count")
		})
	}
}

func TestParseIntegerNamedValues(t *testing.T) {
	typ, _, err := ParseInteger(tokenize(t, "INTEGER {a(1), b(-10) }"))
	testutil.NoError(t, err)
	testutil.Equal(t, "a", typ.NamedValues[0].Name.Name)
	testutil.Equal(t, int64(1), typ.NamedValues[0].Value.Number)
	testutil.Equal(t, "b", typ.NamedValues[1].Name.Name)
	testutil.Equal(t, int64(-10), typ.NamedValues[1].Value.Number)
	testutil.False(t, typ.NamedValues[1].Value.IsRef())

	typ, _, err = ParseInteger(tokenize(t, "INTEGER {a(1), b(a)}"))
	testutil.NoError(t, err)
	testutil.True(t, typ.NamedValues[1].Value.IsRef())
	testutil.Equal(t, "a", typ.NamedValues[1].Value.Ref.Name)
}

func TestParseIntegerErrors(t *testing.T) {
	_, _, err := ParseInteger(tokenize(t, "INTEGER {a()}"))
	testutil.ErrorContains(t, err, "Value missing")

	_, _, err = ParseInteger(tokenize(t, "BOOLEAN"))
	var pe *schema.ParseError
	testutil.True(t, errors.As(err, &pe), "expected ParseError, got %T", err)
	testutil.Contains(t, pe.Message, "unexpected token")
	testutil.Equal(t, "BOOLEAN", pe.Token)
	testutil.Equal(t, 1, pe.Line)
	testutil.Equal(t, 1, pe.Column)

	_, _, err = ParseInteger(tokenize(t, "INTEGER {a(1)"))
	testutil.ErrorContains(t, err, "unexpected end of input")

	_, _, err = ParseInteger(tokenize(t, "INTEGER (SIZE(1..2))"))
	testutil.ErrorContains(t, err, "SIZE constraint")

	_, _, err = ParseInteger(tokenize(t, "INTEGER {a(99999999999999999999)}"))
	testutil.ErrorContains(t, err, "number out of range")
}

func TestParseIntegerWithoutEOFToken(t *testing.T) {
	tokens := tokenize(t, "INTEGER {a(1)}")
	tokens = tokens[:len(tokens)-1]
	_, consumed, err := ParseInteger(tokens)
	testutil.NoError(t, err)
	testutil.Equal(t, 7, consumed)

	_, consumed, err = ParseInteger(tokens[:6])
	testutil.Error(t, err, "slice end is end of input")
	testutil.Equal(t, 0, consumed)
}

func TestParseNamedValue(t *testing.T) {
	nv, hasValue, consumed, err := ParseNamedValue(tokenize(t, "high(-3), x"))
	testutil.NoError(t, err)
	testutil.True(t, hasValue)
	testutil.Equal(t, 4, consumed)
	testutil.Equal(t, "high", nv.Name.Name)
	testutil.Equal(t, int64(-3), nv.Value.Number)

	_, hasValue, consumed, err = ParseNamedValue(tokenize(t, "a()"))
	testutil.NoError(t, err)
	testutil.False(t, hasValue)
	testutil.Equal(t, 3, consumed)
}

func TestParseConstraint(t *testing.T) {
	tests := []struct {
		input      string
		lower      ast.Bound
		upper      ast.Bound
		extensible bool
		consumed   int
	}{
		{"(0..255)", ast.NumberBound(0), ast.NumberBound(255), false, 5},
		{"(-5..5)", ast.NumberBound(-5), ast.NumberBound(5), false, 5},
		{"(16)", ast.NumberBound(16), ast.NumberBound(16), false, 3},
		{"(1..maxCells, ...)", ast.NumberBound(1), ast.RefBound("maxCells"), true, 7},
		{"(0..15, ..., 16..31)", ast.NumberBound(0), ast.NumberBound(15), true, 11},
		{"(MIN..0)", ast.Bound{Kind: ast.BoundMin}, ast.NumberBound(0), false, 5},
		{"(0..MAX)", ast.NumberBound(0), ast.Bound{Kind: ast.BoundMax}, false, 5},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			c, consumed, err := ParseConstraint(tokenize(t, tt.input))
			testutil.NoError(t, err)
			testutil.Equal(t, tt.consumed, consumed)
			testutil.Equal(t, tt.lower.Kind, c.Lower.Kind)
			testutil.Equal(t, tt.lower.Number, c.Lower.Number)
			testutil.Equal(t, tt.lower.Ref.Name, c.Lower.Ref.Name)
			testutil.Equal(t, tt.upper.Kind, c.Upper.Kind)
			testutil.Equal(t, tt.upper.Number, c.Upper.Number)
			testutil.Equal(t, tt.upper.Ref.Name, c.Upper.Ref.Name)
			testutil.Equal(t, tt.extensible, c.Extensible)
		})
	}
}

func TestParseConstraintErrors(t *testing.T) {
	for _, input := range []string{"(1 | 2)", "(...)", "(0..", "(0..15, 3)"} {
		_, consumed, err := ParseConstraint(tokenize(t, input))
		testutil.Error(t, err, input)
		testutil.Equal(t, 0, consumed, input)
	}
}

func TestParseSizeConstraint(t *testing.T) {
	c, consumed, err := ParseSizeConstraint(tokenize(t, "(SIZE(1..4, ...))"))
	testutil.NoError(t, err)
	testutil.Equal(t, 10, consumed)
	testutil.True(t, c.Extensible)

	c, _, err = ParseSizeConstraint(tokenize(t, "(SIZE(16), ...)"))
	testutil.NoError(t, err)
	testutil.True(t, c.Extensible, "outer extension marker")
	testutil.Equal(t, int64(16), c.Upper.Number)
}

func TestParseBitString(t *testing.T) {
	typ, consumed, err := ParseBitString(tokenize(t, "BIT STRING (SIZE(16, ...))"))
	testutil.NoError(t, err)
	testutil.Equal(t, 10, consumed)
	testutil.Equal(t, int64(16), typ.Size.Lower.Number)
	testutil.Equal(t, int64(16), typ.Size.Upper.Number)
	testutil.True(t, typ.Size.Extensible)

	typ, _, err = ParseBitString(tokenize(t, "BIT STRING {spare(0), urgent(1)}"))
	testutil.NoError(t, err)
	testutil.Len(t, typ.NamedBits, 2)
	testutil.True(t, typ.Size == nil, "no size")

	_, _, err = ParseBitString(tokenize(t, "BIT STRING (0..1)"))
	testutil.Error(t, err, "value constraint on BIT STRING")
}

func TestParseOctetString(t *testing.T) {
	typ, consumed, err := ParseOctetString(tokenize(t, "OCTET STRING (SIZE(3))"))
	testutil.NoError(t, err)
	testutil.Equal(t, 8, consumed)
	testutil.Equal(t, int64(3), typ.Size.Lower.Number)

	typ, consumed, err = ParseOctetString(tokenize(t, "OCTET STRING"))
	testutil.NoError(t, err)
	testutil.Equal(t, 2, consumed)
	testutil.True(t, typ.Size == nil)
}

func TestParseEnumerated(t *testing.T) {
	typ, _, err := ParseEnumerated(tokenize(t, "ENUMERATED { low, high(5), ..., extra }"))
	testutil.NoError(t, err)
	testutil.True(t, typ.Extensible)
	testutil.Len(t, typ.Items, 3)
	testutil.True(t, typ.Items[0].Value == nil)
	testutil.Equal(t, int64(5), typ.Items[1].Value.Number)
	testutil.False(t, typ.Items[1].Extended)
	testutil.True(t, typ.Items[2].Extended)

	_, _, err = ParseEnumerated(tokenize(t, "ENUMERATED { a, ..., b, ... }"))
	testutil.ErrorContains(t, err, "duplicate extension marker")
}

func TestParseChoice(t *testing.T) {
	src := `CHOICE {
		radioNetwork INTEGER (0..15),
		transport NULL,
		...,
		misc BOOLEAN,
		[[ protocol Cause-Protocol, nas BIT STRING (SIZE(8)) ]]
	} rest`
	typ, consumed, err := ParseChoice(tokenize(t, src))
	testutil.NoError(t, err)
	testutil.True(t, typ.Extensible)
	testutil.Len(t, typ.Alternatives, 5)

	names := make([]string, len(typ.Alternatives))
	for i, alt := range typ.Alternatives {
		names[i] = alt.Name.Name
		testutil.Equal(t, i, *alt.Key, "key of %s", alt.Name.Name)
	}
	testutil.SliceEqual(t, []string{"radioNetwork", "transport", "misc", "protocol", "nas"}, names)
	testutil.False(t, typ.Alternatives[1].Extended)
	testutil.True(t, typ.Alternatives[2].Extended)
	testutil.True(t, typ.Alternatives[4].Extended)

	ref, ok := typ.Alternatives[3].Type.(*ast.TypeRef)
	testutil.True(t, ok, "expected TypeRef, got %T", typ.Alternatives[3].Type)
	testutil.Equal(t, "Cause-Protocol", ref.Name.Name)

	tokens := tokenize(t, src)
	testutil.Equal(t, "rest", tokens[consumed].Text, "trailing tokens unconsumed")
}

func TestParseChoiceTags(t *testing.T) {
	typ, _, err := ParseChoice(tokenize(t, `CHOICE {
		a [1] BOOLEAN,
		b [APPLICATION 3] IMPLICIT NULL,
		c [PRIVATE 0] EXPLICIT Foo,
		d INTEGER,
		...,
		[[ e [UNIVERSAL 5] NULL ]]
	}`))
	testutil.NoError(t, err)
	testutil.True(t, typ.Numbered, "parser keys are textual")

	want := []*ast.Tag{
		{Class: ast.TagContext, Number: 1},
		{Class: ast.TagApplication, Number: 3},
		{Class: ast.TagPrivate, Number: 0},
		nil,
		{Class: ast.TagUniversal, Number: 5},
	}
	testutil.Len(t, typ.Alternatives, len(want))
	for i, alt := range typ.Alternatives {
		if want[i] == nil {
			testutil.Nil(t, alt.Tag, alt.Name.Name)
			continue
		}
		testutil.NotNil(t, alt.Tag, alt.Name.Name)
		testutil.Equal(t, *want[i], *alt.Tag, alt.Name.Name)
	}
	testutil.Equal(t, "[1]", typ.Alternatives[0].Tag.String())
	testutil.Equal(t, "[APPLICATION 3]", typ.Alternatives[1].Tag.String())

	_, _, err = ParseChoice(tokenize(t, "CHOICE { a [CLASS 1] NULL }"))
	testutil.ErrorContains(t, err, "tag class")
}

func TestParseChoiceAccumulatesErrors(t *testing.T) {
	_, consumed, err := ParseChoice(tokenize(t, "CHOICE { a FOO-BAR (, b, c NULL, d REAL }"))
	testutil.Equal(t, 0, consumed)
	var list schema.ErrorList
	testutil.True(t, errors.As(err, &list), "expected ErrorList, got %T: %v", err, err)
	testutil.Len(t, list, 3)
}

func TestParseChoiceEmptyRoot(t *testing.T) {
	_, _, err := ParseChoice(tokenize(t, "CHOICE { ..., a NULL }"))
	testutil.ErrorContains(t, err, "no root alternatives")
}

func TestParseTypeRef(t *testing.T) {
	ref, consumed, err := ParseTypeRef(tokenize(t, "NGAP-IEs.Cause"))
	testutil.NoError(t, err)
	testutil.Equal(t, 3, consumed)
	testutil.Equal(t, "NGAP-IEs", ref.Module.Name)
	testutil.Equal(t, "Cause", ref.Name.Name)

	ref, _, err = ParseTypeRef(tokenize(t, "Bits (SIZE(4))"))
	testutil.NoError(t, err)
	testutil.True(t, ref.SizeConstraint)
	testutil.Equal(t, int64(4), ref.Constraint.Upper.Number)

	_, _, err = ParseTypeRef(tokenize(t, "Container {ProtocolIEs}"))
	testutil.ErrorContains(t, err, "parameterized")
}

func TestParseTypeDispatch(t *testing.T) {
	tests := []struct {
		input string
		name  string
	}{
		{"INTEGER (0..1)", "INTEGER"},
		{"BOOLEAN", "BOOLEAN"},
		{"NULL", "NULL"},
		{"ENUMERATED {a}", "ENUMERATED"},
		{"BIT STRING", "BIT STRING"},
		{"OCTET STRING", "OCTET STRING"},
		{"CHOICE {a NULL}", "CHOICE"},
		{"[3] IMPLICIT Foo", "Foo"},
	}
	for _, tt := range tests {
		typ, _, err := ParseType(tokenize(t, tt.input))
		testutil.NoError(t, err, tt.input)
		testutil.Equal(t, tt.name, typ.TypeName(), tt.input)
	}

	_, _, err := ParseType(tokenize(t, "SEQUENCE { a NULL }"))
	testutil.ErrorContains(t, err, "unsupported type SEQUENCE")
	_, _, err = ParseType(tokenize(t, "OBJECT IDENTIFIER"))
	testutil.ErrorContains(t, err, "unsupported type OBJECT")
}

func TestParseBooleanAndNull(t *testing.T) {
	_, consumed, err := ParseBoolean(tokenize(t, "BOOLEAN ,"))
	testutil.NoError(t, err)
	testutil.Equal(t, 1, consumed)

	_, consumed, err = ParseNull(tokenize(t, "NULL"))
	testutil.NoError(t, err)
	testutil.Equal(t, 1, consumed)

	_, consumed, err = ParseNull(tokenize(t, "BOOLEAN"))
	testutil.Error(t, err)
	testutil.Equal(t, 0, consumed)
}
