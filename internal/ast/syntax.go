package ast

import (
	"cmp"
	"strconv"

	"github.com/golangsnmp/goaper/internal/types"
)

// Type is a type expression on the right-hand side of an assignment or
// inside a CHOICE alternative.
type Type interface {
	TypeSpan() types.Span
	// TypeName is the ASN.1 spelling used in messages.
	TypeName() string
	asnType()
}

// Integer is INTEGER with optional named values and value constraint.
type Integer struct {
	// NamedValues is nil when no brace list was written.
	NamedValues []NamedValue
	Constraint  *Constraint
	Span        types.Span
}

func (t *Integer) TypeSpan() types.Span { return t.Span }
func (*Integer) TypeName() string       { return "INTEGER" }
func (*Integer) asnType()               {}

// Boolean is BOOLEAN.
type Boolean struct {
	Span types.Span
}

func (t *Boolean) TypeSpan() types.Span { return t.Span }
func (*Boolean) TypeName() string       { return "BOOLEAN" }
func (*Boolean) asnType()               {}

// Null is NULL.
type Null struct {
	Span types.Span
}

func (t *Null) TypeSpan() types.Span { return t.Span }
func (*Null) TypeName() string       { return "NULL" }
func (*Null) asnType()               {}

// EnumItem is one ENUMERATED item. Value is nil when no number was
// written.
type EnumItem struct {
	Name     Ident
	Value    *ValueRef
	Extended bool
	Span     types.Span
}

// Enumerated is ENUMERATED { items }.
type Enumerated struct {
	Items      []EnumItem
	Extensible bool
	Span       types.Span
}

func (t *Enumerated) TypeSpan() types.Span { return t.Span }
func (*Enumerated) TypeName() string       { return "ENUMERATED" }
func (*Enumerated) asnType()               {}

// BitString is BIT STRING with optional named bits and size constraint.
type BitString struct {
	NamedBits []NamedValue
	Size      *Constraint
	Span      types.Span
}

func (t *BitString) TypeSpan() types.Span { return t.Span }
func (*BitString) TypeName() string       { return "BIT STRING" }
func (*BitString) asnType()               {}

// OctetString is OCTET STRING with an optional size constraint.
type OctetString struct {
	Size *Constraint
	Span types.Span
}

func (t *OctetString) TypeSpan() types.Span { return t.Span }
func (*OctetString) TypeName() string       { return "OCTET STRING" }
func (*OctetString) asnType()               {}

// Alternative is one CHOICE alternative. Key is the discriminant; a nil
// key is rejected by the resolver. Tag is nil for an untagged
// alternative.
type Alternative struct {
	Name     Ident
	Key      *int
	Tag      *Tag
	Extended bool
	Type     Type
	Span     types.Span
}

// Choice is CHOICE { alternatives }.
type Choice struct {
	Alternatives []Alternative
	// Extensible is set when the extension marker "..." is present.
	Extensible bool
	// Numbered is set when the parser assigned the keys in textual
	// order. The resolver may then renumber the root alternatives by
	// tag.
	Numbered bool
	Span     types.Span
}

func (t *Choice) TypeSpan() types.Span { return t.Span }
func (*Choice) TypeName() string       { return "CHOICE" }
func (*Choice) asnType()               {}

// TypeRef names another type, optionally qualified by module and
// narrowed by a constraint.
type TypeRef struct {
	Module     *Ident
	Name       Ident
	Constraint *Constraint
	// SizeConstraint is set when Constraint was written as SIZE(...).
	SizeConstraint bool
	Span           types.Span
}

func (t *TypeRef) TypeSpan() types.Span { return t.Span }
func (t *TypeRef) TypeName() string {
	if t.Module != nil {
		return t.Module.Name + "." + t.Name.Name
	}
	return t.Name.Name
}
func (*TypeRef) asnType() {}

// KeyOf returns a pointer to k, for building alternatives by hand.
func KeyOf(k int) *int {
	return &k
}

// TagClass is the class of a tag. The constants are in canonical order.
type TagClass int

const (
	TagUniversal TagClass = iota
	TagApplication
	TagContext
	TagPrivate
)

func (c TagClass) String() string {
	switch c {
	case TagUniversal:
		return "UNIVERSAL"
	case TagApplication:
		return "APPLICATION"
	case TagPrivate:
		return "PRIVATE"
	default:
		return "CONTEXT"
	}
}

// Tag is "[class number]"; the class defaults to context-specific.
type Tag struct {
	Class  TagClass
	Number int64
}

// Compare orders tags canonically: by class, then by number.
func (t Tag) Compare(o Tag) int {
	if t.Class != o.Class {
		return cmp.Compare(t.Class, o.Class)
	}
	return cmp.Compare(t.Number, o.Number)
}

func (t Tag) String() string {
	if t.Class == TagContext {
		return "[" + strconv.FormatInt(t.Number, 10) + "]"
	}
	return "[" + t.Class.String() + " " + strconv.FormatInt(t.Number, 10) + "]"
}
