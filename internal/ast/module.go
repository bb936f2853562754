package ast

import (
	"github.com/golangsnmp/goaper/internal/types"
)

// Module is the top-level AST node for a parsed ASN.1 module.
type Module struct {
	Name    Ident
	Tagging Tagging
	// ExtensibilityImplied is set by EXTENSIBILITY IMPLIED in the header.
	ExtensibilityImplied bool
	Imports              []ImportClause
	Exports              *ExportsClause
	Body                 []Definition
	Span                 types.Span
}

// NewModule creates a Module with no imports or body.
func NewModule(name Ident, span types.Span) *Module {
	return &Module{Name: name, Span: span}
}

// Tagging is the default tagging mode declared in the module header.
type Tagging int

const (
	TaggingExplicit Tagging = iota
	TaggingImplicit
	TaggingAutomatic
)

func (t Tagging) String() string {
	switch t {
	case TaggingImplicit:
		return "IMPLICIT"
	case TaggingAutomatic:
		return "AUTOMATIC"
	default:
		return "EXPLICIT"
	}
}

// ImportClause groups symbols imported from a single source module.
type ImportClause struct {
	Symbols    []Ident
	FromModule Ident
	Span       types.Span
}

// NewImportClause creates an ImportClause from its components.
func NewImportClause(symbols []Ident, fromModule Ident, span types.Span) ImportClause {
	return ImportClause{Symbols: symbols, FromModule: fromModule, Span: span}
}

// ExportsClause lists exported symbols. All is set for EXPORTS ALL.
type ExportsClause struct {
	Symbols []Ident
	All     bool
	Span    types.Span
}
