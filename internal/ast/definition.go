package ast

import (
	"github.com/golangsnmp/goaper/internal/types"
)

// Definition is a top-level assignment in a module body.
type Definition interface {
	DefinitionName() string
	DefinitionSpan() types.Span
	definition()
}

// TypeAssignment is "Name ::= Type".
type TypeAssignment struct {
	Name Ident
	// Tag is set for "Name ::= [tag] Type".
	Tag  *Tag
	Type Type
	Span types.Span
}

func (d *TypeAssignment) DefinitionName() string     { return d.Name.Name }
func (d *TypeAssignment) DefinitionSpan() types.Span { return d.Span }
func (*TypeAssignment) definition()                  {}

// ValueAssignment is "name Type ::= value".
type ValueAssignment struct {
	Name  Ident
	Type  Type
	Value ValueRef
	Span  types.Span
}

func (d *ValueAssignment) DefinitionName() string     { return d.Name.Name }
func (d *ValueAssignment) DefinitionSpan() types.Span { return d.Span }
func (*ValueAssignment) definition()                  {}
