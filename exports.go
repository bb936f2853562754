// Package goaper compiles ASN.1 module definitions into resolved type
// descriptors and APER (X.691 Aligned PER) codecs.
//
// A Compiler registers modules, checks their imports and resolves every
// definition into a Table. The table drives two codec mechanisms: a
// runtime Binder (package binding) and a Go source generator (package
// codegen). Load and LoadModules read modules from a Source and compile
// them in one step.
package goaper

import (
	"github.com/golangsnmp/goaper/internal/module"
	"github.com/golangsnmp/goaper/schema"
)

// Type aliases for public API - resolved types come from the schema subpackage.

// Module is a registered ASN.1 module.
type Module = module.Module

// Table holds the resolved definitions of a compilation.
type Table = schema.Table

// Type is a resolved type descriptor.
type Type = schema.Type

// Value is a resolved value assignment.
type Value = schema.Value

// QualifiedName names a definition within its module.
type QualifiedName = schema.QualifiedName

// Kind identifies the ASN.1 construct of a type.
type Kind = schema.Kind

// Range is a value or size constraint.
type Range = schema.Range

// Alternative is one CHOICE alternative.
type Alternative = schema.Alternative

// Item is one ENUMERATED item.
type Item = schema.Item

// NamedValue is a named number of an INTEGER type.
type NamedValue = schema.NamedValue

// Error kinds.
type (
	LexError        = schema.LexError
	ParseError      = schema.ParseError
	ImportError     = schema.ImportError
	ResolutionError = schema.ResolutionError
	ErrorList       = schema.ErrorList
)
