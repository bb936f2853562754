// Package ast provides Abstract Syntax Tree types for parsed ASN.1 modules.
package ast

import (
	"strconv"

	"github.com/golangsnmp/goaper/internal/types"
)

// Ident is an identifier with source location.
type Ident struct {
	Name string
	Span types.Span
}

// NewIdent creates a new identifier.
func NewIdent(name string, span types.Span) Ident {
	return Ident{Name: name, Span: span}
}

// IsUppercase returns true if this is an uppercase identifier.
func (i Ident) IsUppercase() bool {
	if len(i.Name) == 0 {
		return false
	}
	c := i.Name[0]
	return c >= 'A' && c <= 'Z'
}

// IsLowercase returns true if this is a lowercase identifier.
func (i Ident) IsLowercase() bool {
	if len(i.Name) == 0 {
		return false
	}
	c := i.Name[0]
	return c >= 'a' && c <= 'z'
}

// ValueRef is a value as written: either a signed literal or a bare
// identifier naming a value defined elsewhere.
type ValueRef struct {
	Number int64
	Ref    *Ident // non-nil for a reference
	Span   types.Span
}

// NumberValue returns a literal value.
func NumberValue(n int64) ValueRef {
	return ValueRef{Number: n}
}

// RefValue returns a reference to the named value.
func RefValue(name string) ValueRef {
	return ValueRef{Ref: &Ident{Name: name}}
}

// IsRef reports whether the value is a reference.
func (v ValueRef) IsRef() bool {
	return v.Ref != nil
}

func (v ValueRef) String() string {
	if v.Ref != nil {
		return v.Ref.Name
	}
	return strconv.FormatInt(v.Number, 10)
}

// NamedValue is one name(value) pair of an INTEGER or BIT STRING list.
type NamedValue struct {
	Name  Ident
	Value ValueRef
	Span  types.Span
}

// NewNamedValue creates a new named value.
func NewNamedValue(name string, value ValueRef) NamedValue {
	return NamedValue{Name: Ident{Name: name}, Value: value}
}

// BoundKind identifies the form of one end of a range constraint.
type BoundKind int

const (
	BoundNumber BoundKind = iota
	BoundRef
	BoundMin
	BoundMax
)

// Bound is one end of a range constraint.
type Bound struct {
	Kind   BoundKind
	Number int64
	Ref    Ident
}

// NumberBound returns a literal bound.
func NumberBound(n int64) Bound {
	return Bound{Kind: BoundNumber, Number: n}
}

// RefBound returns a bound that names a value assignment.
func RefBound(name string) Bound {
	return Bound{Kind: BoundRef, Ref: Ident{Name: name}}
}

func (b Bound) String() string {
	switch b.Kind {
	case BoundRef:
		return b.Ref.Name
	case BoundMin:
		return "MIN"
	case BoundMax:
		return "MAX"
	default:
		return strconv.FormatInt(b.Number, 10)
	}
}

// Constraint is a value-range or size constraint. Only the extension
// root is kept: PER visibility ignores extension additions.
type Constraint struct {
	Lower      Bound
	Upper      Bound
	Extensible bool
	Span       types.Span
}

// RangeConstraint returns a non-extensible lower..upper constraint.
func RangeConstraint(lower, upper Bound) *Constraint {
	return &Constraint{Lower: lower, Upper: upper}
}

func (c *Constraint) String() string {
	s := c.Lower.String()
	if c.Upper != c.Lower {
		s += ".." + c.Upper.String()
	}
	if c.Extensible {
		s += ", ..."
	}
	return s
}
