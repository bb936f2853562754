// Package parser provides ASN.1 parsing into an AST.
//
// Every parser works on a slice of tokens and reports how many tokens it
// consumed, so parsers compose by slicing past the consumed prefix:
//
//	typ, n, err := parser.ParseInteger(tokens)
//	rest := tokens[n:]
//
// A failed parse always reports zero tokens consumed. Tokens after the
// construct are left for the caller. An explicit TokEOF token and the
// end of the slice both mark end of input.
package parser

import (
	"fmt"
	"log/slog"
	"strconv"

	"github.com/golangsnmp/goaper/internal/ast"
	"github.com/golangsnmp/goaper/internal/lexer"
	"github.com/golangsnmp/goaper/internal/types"
	"github.com/golangsnmp/goaper/schema"
)

// stream is the read position over a token slice. It owns no state
// beyond the index; all lookahead is slicing.
type stream struct {
	tokens []lexer.Token
	pos    int
	types.Logger
}

func newStream(tokens []lexer.Token) *stream {
	return &stream{tokens: tokens}
}

var eofToken = lexer.Token{Kind: lexer.TokEOF}

func (s *stream) peek() lexer.Token {
	return s.peekNth(0)
}

func (s *stream) peekNth(n int) lexer.Token {
	if s.pos+n < len(s.tokens) {
		return s.tokens[s.pos+n]
	}
	return eofToken
}

func (s *stream) isEOF() bool {
	return s.peek().Kind == lexer.TokEOF
}

func (s *stream) advance() lexer.Token {
	tok := s.peek()
	if tok.Kind != lexer.TokEOF {
		s.pos++
	}
	return tok
}

func (s *stream) check(kind lexer.TokenKind) bool {
	return s.peek().Kind == kind
}

// accept consumes the next token if it has the given kind.
func (s *stream) accept(kind lexer.TokenKind) bool {
	if s.check(kind) {
		s.advance()
		return true
	}
	return false
}

func (s *stream) expect(kind lexer.TokenKind) (lexer.Token, error) {
	if s.check(kind) {
		return s.advance(), nil
	}
	return lexer.Token{}, s.unexpected(kind.String())
}

func (s *stream) expectIdentifier() (lexer.Token, error) {
	if s.peek().IsIdentifier() {
		return s.advance(), nil
	}
	return lexer.Token{}, s.unexpected("identifier")
}

// errorAt builds a ParseError located at tok.
func errorAt(tok lexer.Token, message string) *schema.ParseError {
	if tok.Kind == lexer.TokEOF {
		return &schema.ParseError{
			Line:    tok.Pos.Line,
			Column:  tok.Pos.Column,
			Message: message,
		}
	}
	return &schema.ParseError{
		Line:    tok.Pos.Line,
		Column:  tok.Pos.Column,
		Token:   tok.Text,
		Message: message,
	}
}

func (s *stream) errorf(format string, args ...any) *schema.ParseError {
	return errorAt(s.peek(), fmt.Sprintf(format, args...))
}

// unexpected reports the current token as not matching what was expected.
func (s *stream) unexpected(expected string) *schema.ParseError {
	if s.isEOF() {
		return s.errorf("unexpected end of input, expected %s", expected)
	}
	return s.errorf("unexpected token, expected %s", expected)
}

func (s *stream) spanFrom(start types.ByteOffset) types.Span {
	end := start
	if s.pos > 0 && s.pos <= len(s.tokens) {
		end = s.tokens[s.pos-1].Span.End
	}
	return types.NewSpan(start, end)
}

func (s *stream) start() types.ByteOffset {
	return s.peek().Span.Start
}

func makeIdent(tok lexer.Token) ast.Ident {
	return ast.NewIdent(tok.Text, tok.Span)
}

func parseNumber(tok lexer.Token) (int64, error) {
	v, err := strconv.ParseInt(tok.Text, 10, 64)
	if err != nil {
		return 0, errorAt(tok, "number out of range")
	}
	return v, nil
}

// finish converts the outcome of a stream parse into the slice contract.
func finish[T any](s *stream, node T, err error) (T, int, error) {
	if err != nil {
		var zero T
		return zero, 0, err
	}
	return node, s.pos, nil
}

// ParseType parses any supported type expression.
func ParseType(tokens []lexer.Token) (ast.Type, int, error) {
	s := newStream(tokens)
	typ, err := s.parseType()
	return finish(s, typ, err)
}

func (s *stream) parseType() (ast.Type, error) {
	_, typ, err := s.parseTaggedType()
	return typ, err
}

// parseTaggedType parses a type with an optional tag prefix.
func (s *stream) parseTaggedType() (*ast.Tag, ast.Type, error) {
	tag, err := s.parseTag()
	if err != nil {
		return nil, nil, err
	}
	typ, err := s.parseUntagged()
	if err != nil {
		return nil, nil, err
	}
	return tag, typ, nil
}

func (s *stream) parseUntagged() (ast.Type, error) {
	tok := s.peek()
	switch tok.Kind {
	case lexer.TokKwInteger:
		return s.parseInteger()
	case lexer.TokKwBoolean:
		return s.parseBoolean()
	case lexer.TokKwNull:
		return s.parseNull()
	case lexer.TokKwEnumerated:
		return s.parseEnumerated()
	case lexer.TokKwBit:
		return s.parseBitString()
	case lexer.TokKwOctet:
		return s.parseOctetString()
	case lexer.TokKwChoice:
		return s.parseChoice()
	case lexer.TokUppercaseIdent:
		return s.parseTypeRef()
	case lexer.TokKwSequence, lexer.TokKwSet, lexer.TokReservedKeyword:
		return nil, s.errorf("unsupported type %s", tok.Text)
	default:
		return nil, s.unexpected("type")
	}
}

// ParseBoolean parses "BOOLEAN".
func ParseBoolean(tokens []lexer.Token) (*ast.Boolean, int, error) {
	s := newStream(tokens)
	typ, err := s.parseBoolean()
	return finish(s, typ, err)
}

func (s *stream) parseBoolean() (*ast.Boolean, error) {
	tok, err := s.expect(lexer.TokKwBoolean)
	if err != nil {
		return nil, err
	}
	return &ast.Boolean{Span: tok.Span}, nil
}

// ParseNull parses "NULL".
func ParseNull(tokens []lexer.Token) (*ast.Null, int, error) {
	s := newStream(tokens)
	typ, err := s.parseNull()
	return finish(s, typ, err)
}

func (s *stream) parseNull() (*ast.Null, error) {
	tok, err := s.expect(lexer.TokKwNull)
	if err != nil {
		return nil, err
	}
	return &ast.Null{Span: tok.Span}, nil
}

// parseTag parses an optional "[class number] IMPLICIT|EXPLICIT" prefix.
// It returns nil when no tag is written.
func (s *stream) parseTag() (*ast.Tag, error) {
	if !s.check(lexer.TokLBracket) {
		return nil, nil
	}
	// "[[" opens an extension addition group, not a tag.
	if s.peekNth(1).Kind == lexer.TokLBracket {
		return nil, nil
	}
	s.advance()

	tag := &ast.Tag{Class: ast.TagContext}
	if tok := s.peek(); tok.Kind == lexer.TokReservedKeyword {
		switch tok.Text {
		case "UNIVERSAL":
			tag.Class = ast.TagUniversal
		case "APPLICATION":
			tag.Class = ast.TagApplication
		case "PRIVATE":
			tag.Class = ast.TagPrivate
		default:
			return nil, s.unexpected("tag class")
		}
		s.advance()
	}
	tok, err := s.expect(lexer.TokNumber)
	if err != nil {
		return nil, err
	}
	if tag.Number, err = parseNumber(tok); err != nil {
		return nil, err
	}
	if _, err := s.expect(lexer.TokRBracket); err != nil {
		return nil, err
	}
	if !s.accept(lexer.TokKwImplicit) {
		s.accept(lexer.TokKwExplicit)
	}
	return tag, nil
}

// ParseTypeRef parses "Name" or "Module.Name" with an optional constraint.
func ParseTypeRef(tokens []lexer.Token) (*ast.TypeRef, int, error) {
	s := newStream(tokens)
	ref, err := s.parseTypeRef()
	return finish(s, ref, err)
}

func (s *stream) parseTypeRef() (*ast.TypeRef, error) {
	start := s.start()
	tok, err := s.expect(lexer.TokUppercaseIdent)
	if err != nil {
		return nil, err
	}
	ref := &ast.TypeRef{Name: makeIdent(tok)}
	if s.check(lexer.TokDot) && s.peekNth(1).Kind == lexer.TokUppercaseIdent {
		s.advance()
		name := s.advance()
		module := ref.Name
		ref.Module = &module
		ref.Name = makeIdent(name)
	}
	if s.check(lexer.TokLBrace) {
		return nil, s.errorf("parameterized type %s is not supported", ref.TypeName())
	}
	if s.check(lexer.TokLParen) {
		c, size, err := s.parseAnyConstraint()
		if err != nil {
			return nil, err
		}
		ref.Constraint = c
		ref.SizeConstraint = size
	}
	ref.Span = s.spanFrom(start)
	return ref, nil
}

// Parse lexes and parses a complete module.
func Parse(source []byte, logger *slog.Logger) (*ast.Module, error) {
	tokens, err := lexer.Tokenize(source, types.Component(logger, "lexer"))
	if err != nil {
		return nil, err
	}
	s := newStream(tokens)
	s.Logger = types.Logger{L: types.Component(logger, "parser")}
	return s.parseModule()
}
