// Package lexer provides tokenization for ASN.1 module source text.
package lexer

import (
	"github.com/golangsnmp/goaper/internal/types"
)

// Token is a classified lexical unit with its source text and position.
type Token struct {
	Kind TokenKind
	Text string
	Span types.Span
	Pos  types.Position
}

// NewToken creates a token that has no source position, for building
// token streams by hand.
func NewToken(kind TokenKind, text string) Token {
	return Token{Kind: kind, Text: text}
}

// Is reports whether the token has the given kind.
func (t Token) Is(kind TokenKind) bool {
	return t.Kind == kind
}

// IsKeyword reports whether the token is a reserved word.
func (t Token) IsKeyword() bool {
	return t.Kind.IsKeyword()
}

// IsIdentifier reports whether the token is an identifier of either case.
func (t Token) IsIdentifier() bool {
	return t.Kind == TokUppercaseIdent || t.Kind == TokLowercaseIdent
}

// IsNumber reports whether the token is a signed or unsigned number.
func (t Token) IsNumber() bool {
	return t.Kind == TokNumber || t.Kind == TokNegativeNumber
}

// TokenKind identifies a token type.
type TokenKind int

const (
	// === Special ===

	// TokError is a lexical error.
	TokError TokenKind = iota
	// TokEOF is end of input.
	TokEOF
	// TokReservedKeyword is an ASN.1 reserved word this compiler has no
	// grammar for (OBJECT, REAL, CLASS, ...).
	TokReservedKeyword

	// === Identifiers ===

	// TokUppercaseIdent is an uppercase identifier (module and type names).
	TokUppercaseIdent
	// TokLowercaseIdent is a lowercase identifier (values, alternatives).
	TokLowercaseIdent

	// === Literals ===

	// TokNumber is an unsigned decimal number.
	TokNumber
	// TokNegativeNumber is a signed decimal number (negative).
	TokNegativeNumber
	// TokQuotedString is a quoted string literal.
	TokQuotedString
	// TokHexString is a hex string literal ('...'H).
	TokHexString
	// TokBinString is a binary string literal ('...'B).
	TokBinString

	// === Single-character punctuation ===

	// TokLBracket is '['.
	TokLBracket
	// TokRBracket is ']'.
	TokRBracket
	// TokLBrace is '{'.
	TokLBrace
	// TokRBrace is '}'.
	TokRBrace
	// TokLParen is '('.
	TokLParen
	// TokRParen is ')'.
	TokRParen
	// TokColon is ':'.
	TokColon
	// TokSemicolon is ';'.
	TokSemicolon
	// TokComma is ','.
	TokComma
	// TokDot is '.'.
	TokDot
	// TokPipe is '|'.
	TokPipe
	// TokMinus is '-'.
	TokMinus

	// === Multi-character operators ===

	// TokDotDot is '..'.
	TokDotDot
	// TokEllipsis is '...', the extension marker.
	TokEllipsis
	// TokColonColonEqual is '::='.
	TokColonColonEqual

	// === Structural keywords ===

	// TokKwDefinitions is 'DEFINITIONS'.
	TokKwDefinitions
	// TokKwBegin is 'BEGIN'.
	TokKwBegin
	// TokKwEnd is 'END'.
	TokKwEnd
	// TokKwImports is 'IMPORTS'.
	TokKwImports
	// TokKwExports is 'EXPORTS'.
	TokKwExports
	// TokKwFrom is 'FROM'.
	TokKwFrom
	// TokKwAll is 'ALL'.
	TokKwAll

	// === Module header keywords ===

	// TokKwAutomatic is 'AUTOMATIC'.
	TokKwAutomatic
	// TokKwExplicit is 'EXPLICIT'.
	TokKwExplicit
	// TokKwImplicit is 'IMPLICIT'.
	TokKwImplicit
	// TokKwTags is 'TAGS'.
	TokKwTags
	// TokKwExtensibility is 'EXTENSIBILITY'.
	TokKwExtensibility
	// TokKwImplied is 'IMPLIED'.
	TokKwImplied

	// === Type keywords ===

	// TokKwInteger is 'INTEGER'.
	TokKwInteger
	// TokKwBoolean is 'BOOLEAN'.
	TokKwBoolean
	// TokKwNull is 'NULL'.
	TokKwNull
	// TokKwEnumerated is 'ENUMERATED'.
	TokKwEnumerated
	// TokKwBit is 'BIT'.
	TokKwBit
	// TokKwOctet is 'OCTET'.
	TokKwOctet
	// TokKwString is 'STRING'.
	TokKwString
	// TokKwChoice is 'CHOICE'.
	TokKwChoice
	// TokKwSequence is 'SEQUENCE'.
	TokKwSequence
	// TokKwSet is 'SET'.
	TokKwSet
	// TokKwOf is 'OF'.
	TokKwOf

	// === Constraint and value keywords ===

	// TokKwSize is 'SIZE'.
	TokKwSize
	// TokKwMin is 'MIN'.
	TokKwMin
	// TokKwMax is 'MAX'.
	TokKwMax
	// TokKwTrue is 'TRUE'.
	TokKwTrue
	// TokKwFalse is 'FALSE'.
	TokKwFalse
	// TokKwOptional is 'OPTIONAL'.
	TokKwOptional
	// TokKwDefault is 'DEFAULT'.
	TokKwDefault
)

var kindNames = map[TokenKind]string{
	TokError:           "ERROR",
	TokEOF:             "EOF",
	TokReservedKeyword: "RESERVED_KEYWORD",
	TokUppercaseIdent:  "UPPERCASE_IDENTIFIER",
	TokLowercaseIdent:  "LOWERCASE_IDENTIFIER",
	TokNumber:          "NUMBER",
	TokNegativeNumber:  "NEGATIVE_NUMBER",
	TokQuotedString:    "QUOTED_STRING",
	TokHexString:       "HEX_STRING",
	TokBinString:       "BIN_STRING",
	TokLBracket:        "'['",
	TokRBracket:        "']'",
	TokLBrace:          "'{'",
	TokRBrace:          "'}'",
	TokLParen:          "'('",
	TokRParen:          "')'",
	TokColon:           "':'",
	TokSemicolon:       "';'",
	TokComma:           "','",
	TokDot:             "'.'",
	TokPipe:            "'|'",
	TokMinus:           "'-'",
	TokDotDot:          "'..'",
	TokEllipsis:        "'...'",
	TokColonColonEqual: "'::='",
}

// String returns a readable name for the kind, the keyword text for
// keywords.
func (k TokenKind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	for _, kw := range keywords {
		if kw.kind == k {
			return kw.text
		}
	}
	return "UNKNOWN"
}

// IsKeyword returns true if this token is a keyword.
func (k TokenKind) IsKeyword() bool {
	return k >= TokKwDefinitions && k <= TokKwDefault
}

// IsTypeKeyword returns true if this token starts a built-in type.
func (k TokenKind) IsTypeKeyword() bool {
	switch k {
	case TokKwInteger, TokKwBoolean, TokKwNull, TokKwEnumerated,
		TokKwBit, TokKwOctet, TokKwChoice, TokKwSequence, TokKwSet:
		return true
	default:
		return false
	}
}
