package lexer

import "sort"

// keywords is the sorted keyword table for binary search.
// IMPORTANT: This slice MUST remain sorted alphabetically by text.
var keywords = []struct {
	text string
	kind TokenKind
}{
	{"ALL", TokKwAll},
	{"AUTOMATIC", TokKwAutomatic},
	{"BEGIN", TokKwBegin},
	{"BIT", TokKwBit},
	{"BOOLEAN", TokKwBoolean},
	{"CHOICE", TokKwChoice},
	{"DEFAULT", TokKwDefault},
	{"DEFINITIONS", TokKwDefinitions},
	{"END", TokKwEnd},
	{"ENUMERATED", TokKwEnumerated},
	{"EXPLICIT", TokKwExplicit},
	{"EXPORTS", TokKwExports},
	{"EXTENSIBILITY", TokKwExtensibility},
	{"FALSE", TokKwFalse},
	{"FROM", TokKwFrom},
	{"IMPLICIT", TokKwImplicit},
	{"IMPLIED", TokKwImplied},
	{"IMPORTS", TokKwImports},
	{"INTEGER", TokKwInteger},
	{"MAX", TokKwMax},
	{"MIN", TokKwMin},
	{"NULL", TokKwNull},
	{"OCTET", TokKwOctet},
	{"OF", TokKwOf},
	{"OPTIONAL", TokKwOptional},
	{"SEQUENCE", TokKwSequence},
	{"SET", TokKwSet},
	{"SIZE", TokKwSize},
	{"STRING", TokKwString},
	{"TAGS", TokKwTags},
	{"TRUE", TokKwTrue},
}

// LookupKeyword returns the token kind for a keyword, or false if text
// is not a keyword.
func LookupKeyword(text string) (TokenKind, bool) {
	idx := sort.Search(len(keywords), func(i int) bool {
		return keywords[i].text >= text
	})
	if idx < len(keywords) && keywords[idx].text == text {
		return keywords[idx].kind, true
	}
	return TokError, false
}

// reservedKeywords is the sorted list of X.680 reserved words that have
// no grammar here. They lex as TokReservedKeyword so the parser can name
// the unsupported construct.
// IMPORTANT: This slice MUST remain sorted alphabetically for binary search.
var reservedKeywords = []string{
	"ABSENT",
	"ABSTRACT-SYNTAX",
	"ANY",
	"APPLICATION",
	"BMPString",
	"BY",
	"CHARACTER",
	"CLASS",
	"COMPONENT",
	"COMPONENTS",
	"CONSTRAINED",
	"CONTAINING",
	"DATE",
	"DATE-TIME",
	"DURATION",
	"EMBEDDED",
	"ENCODED",
	"EXCEPT",
	"EXTERNAL",
	"GeneralString",
	"GeneralizedTime",
	"GraphicString",
	"IA5String",
	"IDENTIFIER",
	"INCLUDES",
	"INSTANCE",
	"INTERSECTION",
	"ISO646String",
	"MINUS-INFINITY",
	"NOT-A-NUMBER",
	"NumericString",
	"OBJECT",
	"OID-IRI",
	"ObjectDescriptor",
	"PATTERN",
	"PDV",
	"PLUS-INFINITY",
	"PRESENT",
	"PRIVATE",
	"PrintableString",
	"REAL",
	"RELATIVE-OID",
	"RELATIVE-OID-IRI",
	"SETTINGS",
	"SYNTAX",
	"T61String",
	"TIME",
	"TIME-OF-DAY",
	"TYPE-IDENTIFIER",
	"TeletexString",
	"UNION",
	"UNIQUE",
	"UNIVERSAL",
	"UTCTime",
	"UTF8String",
	"UniversalString",
	"VideotexString",
	"VisibleString",
	"WITH",
}

// IsReservedKeyword returns true if text is a reserved word without
// grammar support.
func IsReservedKeyword(text string) bool {
	idx := sort.SearchStrings(reservedKeywords, text)
	return idx < len(reservedKeywords) && reservedKeywords[idx] == text
}
